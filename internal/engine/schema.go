package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/cargo-plumbing/internal/hash"
	"github.com/danieljhkim/cargo-plumbing/internal/protocol"
)

// Schema renders the message schema and its fingerprint.
func (e *Engine) Schema(ctx context.Context) (*SchemaResult, error) {
	data, err := protocol.MarshalSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to render schema: %w", err)
	}
	return &SchemaResult{
		Schema:      data,
		Fingerprint: e.hasher.HashBytes(data),
	}, nil
}

// WriteSchema stores the message schema at req.Path atomically.
func (e *Engine) WriteSchema(ctx context.Context, req *WriteSchemaRequest) (*SchemaResult, error) {
	if req.Path == "" {
		return nil, fmt.Errorf("%w: no schema path", ErrValidation)
	}

	result, err := e.Schema(ctx)
	if err != nil {
		return nil, err
	}
	if err := e.fs.AtomicWrite(req.Path, result.Schema, 0644); err != nil {
		return nil, fmt.Errorf("failed to write schema: %w", err)
	}
	e.logger.Debug("wrote schema", "path", req.Path, "fingerprint", result.Fingerprint)
	return result, nil
}

// CheckSchema compares the message schema with the golden copy at
// req.GoldenPath. A mismatch returns the comparison together with an error
// wrapping ErrSchemaDrift.
func (e *Engine) CheckSchema(ctx context.Context, req *CheckSchemaRequest) (*CheckSchemaResult, error) {
	if req.GoldenPath == "" {
		return nil, fmt.Errorf("%w: no golden schema path", ErrValidation)
	}

	current, err := e.Schema(ctx)
	if err != nil {
		return nil, err
	}

	data, err := e.fs.ReadFile(req.GoldenPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read golden schema: %w", err)
	}
	golden := e.hasher.HashBytes(data)

	result := &CheckSchemaResult{
		Fingerprint:       current.Fingerprint,
		GoldenFingerprint: golden,
		Match:             golden == current.Fingerprint,
	}
	if !result.Match {
		return result, fmt.Errorf("%w: %s has %s, derived schema has %s",
			ErrSchemaDrift, req.GoldenPath, hash.Short(golden), hash.Short(current.Fingerprint))
	}
	return result, nil
}
