package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSchema_WriteThenCheck(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine("")
	path := filepath.Join(t.TempDir(), "schemas", "lockfile-contents.schema.json")

	written, err := eng.WriteSchema(ctx, &WriteSchemaRequest{Path: path})
	if err != nil {
		t.Fatalf("WriteSchema() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read schema: %v", err)
	}
	if string(data) != string(written.Schema) {
		t.Error("written file differs from the rendered schema")
	}

	checked, err := eng.CheckSchema(ctx, &CheckSchemaRequest{GoldenPath: path})
	if err != nil {
		t.Fatalf("CheckSchema() error = %v", err)
	}
	if !checked.Match {
		t.Error("expected schema to match its own golden copy")
	}
	if checked.Fingerprint != written.Fingerprint {
		t.Errorf("fingerprint = %s, want %s", checked.Fingerprint, written.Fingerprint)
	}
}

func TestSchema_Drift(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine("")
	path := filepath.Join(t.TempDir(), "golden.json")
	writeFile(t, path, "{}\n")

	result, err := eng.CheckSchema(ctx, &CheckSchemaRequest{GoldenPath: path})
	if !errors.Is(err, ErrSchemaDrift) {
		t.Fatalf("expected ErrSchemaDrift, got %v", err)
	}
	if result == nil || result.Match {
		t.Fatalf("expected a mismatching result, got %+v", result)
	}
	if result.GoldenFingerprint == result.Fingerprint {
		t.Error("fingerprints should differ")
	}
}

func TestSchema_Errors(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine("")

	if _, err := eng.CheckSchema(ctx, &CheckSchemaRequest{}); !errors.Is(err, ErrValidation) {
		t.Errorf("CheckSchema without path: expected ErrValidation, got %v", err)
	}
	if _, err := eng.WriteSchema(ctx, &WriteSchemaRequest{}); !errors.Is(err, ErrValidation) {
		t.Errorf("WriteSchema without path: expected ErrValidation, got %v", err)
	}

	missing := filepath.Join(t.TempDir(), "missing.json")
	_, err := eng.CheckSchema(ctx, &CheckSchemaRequest{GoldenPath: missing})
	if err == nil || errors.Is(err, ErrSchemaDrift) {
		t.Errorf("expected a read error, got %v", err)
	}
}
