package protocol

import (
	"encoding/json"
	"fmt"
	"io"
)

// Encoder writes Messages to a stream in a single framing. JSON framings
// write one record per line, so their output is valid for both FramingJSON
// and FramingLines readers.
type Encoder struct {
	w       io.Writer
	framing Framing
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer, framing Framing) *Encoder {
	if framing == "" {
		framing = FramingJSON
	}
	return &Encoder{w: w, framing: framing}
}

// Encode writes one record.
func (e *Encoder) Encode(msg Message) error {
	data, err := Marshal(msg, e.framing)
	if err != nil {
		return err
	}
	if _, err := e.w.Write(data); err != nil {
		return fmt.Errorf("failed to write %s message: %w", msg.Reason(), err)
	}
	return nil
}

// Marshal encodes a single framed record.
func Marshal(msg Message, framing Framing) ([]byte, error) {
	if msg == nil {
		return nil, fmt.Errorf("%w: nil message", ErrInvalidRecord)
	}
	wire := msg.toWire()

	switch framing {
	case FramingJSON, FramingLines, "":
		data, err := json.Marshal(wire)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s message: %w", msg.Reason(), err)
		}
		return append(data, '\n'), nil
	case FramingCBOR:
		data, err := cborEncMode.Marshal(wire)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s message: %w", msg.Reason(), err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown framing: %q", framing)
	}
}
