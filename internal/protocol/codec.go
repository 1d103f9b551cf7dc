package protocol

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Framing selects how records are delimited on a stream.
type Framing string

const (
	// FramingJSON reads concatenated JSON values, or the elements of a single
	// top-level JSON array. Writes newline-delimited JSON.
	FramingJSON Framing = "json"

	// FramingLines reads one JSON record per non-blank line.
	FramingLines Framing = "lines"

	// FramingCBOR reads and writes an RFC 8742 CBOR sequence.
	FramingCBOR Framing = "cbor"
)

// Framings lists the supported framings.
func Framings() []Framing {
	return []Framing{FramingJSON, FramingLines, FramingCBOR}
}

// ParseFraming parses a framing name. The empty string selects FramingJSON.
func ParseFraming(s string) (Framing, error) {
	switch Framing(s) {
	case FramingJSON, "":
		return FramingJSON, nil
	case FramingLines:
		return FramingLines, nil
	case FramingCBOR:
		return FramingCBOR, nil
	default:
		return "", fmt.Errorf("unknown framing: %q (must be json, lines, or cbor)", s)
	}
}

// cborEncMode uses Core Deterministic Encoding (RFC 8949 §4.2) so the same
// record always produces identical bytes.
var cborEncMode cbor.EncMode

// cborDecMode accepts standard CBOR. Unknown fields are ignored.
var cborDecMode cbor.DecMode

func init() {
	var err error

	cborEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("protocol: CBOR encoder initialization failed: " + err.Error())
	}

	cborDecMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("protocol: CBOR decoder initialization failed: " + err.Error())
	}
}
