package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/cargo-plumbing/internal/protocol"
)

// ReadMessages decodes a message stream in arrival order, counting each
// reason and re-encoding every message to Output when one is given. It
// stops at the first malformed message.
func (e *Engine) ReadMessages(ctx context.Context, req *ReadMessagesRequest) (*ReadMessagesResult, error) {
	if req.Input == nil {
		return nil, fmt.Errorf("%w: no input stream", ErrValidation)
	}

	dec := protocol.NewDecoder(req.Input,
		protocol.WithFraming(req.Framing),
		protocol.WithUnknownReasons(req.Unknown),
	)

	var enc *protocol.Encoder
	if req.Output != nil {
		enc = protocol.NewEncoder(req.Output, req.OutputFraming)
	}

	result := &ReadMessagesResult{Counts: make(map[protocol.Reason]int)}
	for msg, err := range dec.All() {
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result.Total++
		result.Counts[msg.Reason()]++
		if enc != nil {
			if err := enc.Encode(msg); err != nil {
				return nil, err
			}
		}
	}

	result.Skipped = dec.Skipped()
	if result.Skipped > 0 {
		e.logger.Debug("skipped messages with unknown reasons", "count", result.Skipped)
	}
	return result, nil
}
