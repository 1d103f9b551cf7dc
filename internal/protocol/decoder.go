package protocol

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/fxamacker/cbor/v2"
)

// ErrDecode matches every *DecodeError via errors.Is.
var ErrDecode = errors.New("decode error")

// maxRawSnippet bounds the raw content kept for records that could not be
// framed at all.
const maxRawSnippet = 256

// DecodeError reports a record that could not be decoded. Decoding of the
// stream stops at the first DecodeError.
type DecodeError struct {
	// Index is the 1-based position of the record in the stream.
	Index int

	// Offset is the byte offset where decoding of the record began.
	Offset int64

	// Raw is the offending record, or a prefix of the unread input when the
	// record could not be delimited.
	Raw []byte

	// Err is the underlying cause.
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode message %d at offset %d: %v", e.Index, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrDecode.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// UnknownReasonPolicy controls how a Decoder treats records whose reason is
// not a known variant.
type UnknownReasonPolicy string

const (
	// RejectUnknown fails the stream with a DecodeError.
	RejectUnknown UnknownReasonPolicy = "reject"

	// SkipUnknown drops the record and keeps decoding.
	SkipUnknown UnknownReasonPolicy = "skip"
)

// ParseUnknownReasonPolicy parses a policy name. The empty string selects
// RejectUnknown.
func ParseUnknownReasonPolicy(s string) (UnknownReasonPolicy, error) {
	switch UnknownReasonPolicy(s) {
	case RejectUnknown, "":
		return RejectUnknown, nil
	case SkipUnknown:
		return SkipUnknown, nil
	default:
		return "", fmt.Errorf("unknown reason policy: %q (must be reject or skip)", s)
	}
}

type decoderOptions struct {
	framing Framing
	unknown UnknownReasonPolicy
}

// DecoderOption configures a Decoder.
type DecoderOption func(*decoderOptions)

// WithFraming selects the stream framing. The default is FramingJSON.
func WithFraming(f Framing) DecoderOption {
	return func(o *decoderOptions) {
		o.framing = f
	}
}

// WithUnknownReasons selects the unknown-reason policy. The default is
// RejectUnknown.
func WithUnknownReasons(p UnknownReasonPolicy) DecoderOption {
	return func(o *decoderOptions) {
		o.unknown = p
	}
}

// frameSource delimits records on a stream and decodes their encoding.
type frameSource interface {
	// next returns the next framed record and the offset where it began.
	// It returns io.EOF once the stream ends cleanly. On error, raw holds
	// whatever content is available for diagnostics.
	next() (raw []byte, offset int64, err error)

	unmarshal(raw []byte, v any) error
}

// Decoder reads Messages from a stream one at a time. It owns the stream:
// records are read on demand, in arrival order, and never re-read. A
// Decoder is not safe for concurrent use.
type Decoder struct {
	src     frameSource
	closer  io.Closer
	unknown UnknownReasonPolicy
	index   int
	skipped int
	err     error
}

// NewDecoder returns a Decoder reading from r. If r is an io.Closer, Close
// closes it.
func NewDecoder(r io.Reader, opts ...DecoderOption) *Decoder {
	o := decoderOptions{framing: FramingJSON, unknown: RejectUnknown}
	for _, opt := range opts {
		opt(&o)
	}

	d := &Decoder{unknown: o.unknown}
	if c, ok := r.(io.Closer); ok {
		d.closer = c
	}

	switch o.framing {
	case FramingLines:
		d.src = &lineSource{br: bufio.NewReader(r)}
	case FramingCBOR:
		d.src = &cborSource{dec: cborDecMode.NewDecoder(r)}
	default:
		d.src = &jsonSource{br: bufio.NewReader(r)}
	}
	return d
}

// ParseStream returns the records of r as a lazy sequence.
func ParseStream(r io.Reader, opts ...DecoderOption) iter.Seq2[Message, error] {
	return NewDecoder(r, opts...).All()
}

// Next returns the next record. It returns io.EOF when the stream is
// exhausted. After a *DecodeError every further call returns the same
// error.
func (d *Decoder) Next() (Message, error) {
	for {
		if d.err != nil {
			return nil, d.err
		}

		raw, offset, err := d.src.next()
		if err == io.EOF {
			d.err = io.EOF
			return nil, io.EOF
		}
		d.index++
		if err != nil {
			d.err = &DecodeError{Index: d.index, Offset: offset, Raw: raw, Err: err}
			return nil, d.err
		}

		msg, err := decodeRecord(raw, d.src.unmarshal)
		if err != nil {
			if errors.Is(err, ErrUnknownReason) && d.unknown == SkipUnknown {
				d.skipped++
				continue
			}
			d.err = &DecodeError{Index: d.index, Offset: offset, Raw: raw, Err: err}
			return nil, d.err
		}
		return msg, nil
	}
}

// All returns the remaining records as a sequence. Iteration ends at the
// end of the stream or after yielding the first error.
func (d *Decoder) All() iter.Seq2[Message, error] {
	return func(yield func(Message, error) bool) {
		for {
			msg, err := d.Next()
			if err == io.EOF {
				return
			}
			if !yield(msg, err) || err != nil {
				return
			}
		}
	}
}

// Skipped returns how many records were dropped under SkipUnknown.
func (d *Decoder) Skipped() int {
	return d.skipped
}

// Close closes the underlying stream if it is an io.Closer. Further calls
// to Next return io.EOF unless an error already occurred.
func (d *Decoder) Close() error {
	if d.err == nil {
		d.err = io.EOF
	}
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

// jsonSource frames concatenated JSON values or the elements of a single
// top-level array.
type jsonSource struct {
	br       *bufio.Reader
	dec      *json.Decoder
	base     int64
	started  bool
	inArray  bool
	finished bool
}

func (s *jsonSource) next() ([]byte, int64, error) {
	if s.finished {
		return nil, s.offset(), io.EOF
	}
	if !s.started {
		s.started = true
		n, err := skipSpace(s.br)
		s.base = n
		if err != nil {
			s.finished = true
			return nil, n, err
		}
		first, err := s.br.Peek(1)
		if err != nil {
			s.finished = true
			return nil, n, err
		}
		s.dec = json.NewDecoder(s.br)
		if first[0] == '[' {
			if _, err := s.dec.Token(); err != nil {
				return nil, n, err
			}
			s.inArray = true
		}
	}

	if s.inArray && !s.dec.More() {
		offset := s.offset()
		tok, err := s.dec.Token()
		if err == io.EOF {
			return s.snippet(), offset, io.ErrUnexpectedEOF
		}
		if err != nil {
			return s.snippet(), offset, err
		}
		if delim, ok := tok.(json.Delim); !ok || delim != ']' {
			return s.snippet(), offset, fmt.Errorf("unexpected token %v in message array", tok)
		}
		return s.end()
	}

	offset := s.offset()
	var raw json.RawMessage
	if err := s.dec.Decode(&raw); err != nil {
		if err == io.EOF && !s.inArray {
			s.finished = true
			return nil, offset, io.EOF
		}
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return s.snippet(), offset, err
	}
	return raw, offset, nil
}

// end checks that only whitespace follows the closing bracket of the
// message array.
func (s *jsonSource) end() ([]byte, int64, error) {
	rest := bufio.NewReader(io.MultiReader(s.dec.Buffered(), s.br))
	n, err := skipSpace(rest)
	offset := s.offset() + n
	if err == io.EOF {
		s.finished = true
		return nil, offset, io.EOF
	}
	if err != nil {
		return nil, offset, err
	}
	raw, _ := io.ReadAll(io.LimitReader(rest, maxRawSnippet))
	return raw, offset, errors.New("unexpected content after message array")
}

func (s *jsonSource) offset() int64 {
	if s.dec == nil {
		return s.base
	}
	return s.base + s.dec.InputOffset()
}

// snippet returns a prefix of the input the JSON decoder has buffered but
// not consumed.
func (s *jsonSource) snippet() []byte {
	if s.dec == nil {
		return nil
	}
	buf, _ := io.ReadAll(io.LimitReader(s.dec.Buffered(), maxRawSnippet))
	return buf
}

func (s *jsonSource) unmarshal(raw []byte, v any) error {
	return json.Unmarshal(raw, v)
}

// skipSpace consumes leading JSON whitespace and returns how many bytes it
// consumed.
func skipSpace(br *bufio.Reader) (int64, error) {
	var n int64
	for {
		b, err := br.ReadByte()
		if err != nil {
			return n, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			n++
		default:
			return n, br.UnreadByte()
		}
	}
}

// lineSource frames one record per non-blank line.
type lineSource struct {
	br     *bufio.Reader
	offset int64
}

func (s *lineSource) next() ([]byte, int64, error) {
	for {
		start := s.offset
		line, err := s.br.ReadBytes('\n')
		s.offset += int64(len(line))
		if err != nil && err != io.EOF {
			return line, start, err
		}

		record := bytes.TrimSpace(line)
		if len(record) > 0 {
			return record, start, nil
		}
		if err == io.EOF {
			return nil, start, io.EOF
		}
	}
}

func (s *lineSource) unmarshal(raw []byte, v any) error {
	return json.Unmarshal(raw, v)
}

// cborSource frames an RFC 8742 CBOR sequence.
type cborSource struct {
	dec *cbor.Decoder
}

func (s *cborSource) next() ([]byte, int64, error) {
	offset := int64(s.dec.NumBytesRead())
	var raw cbor.RawMessage
	if err := s.dec.Decode(&raw); err != nil {
		return nil, offset, err
	}
	return raw, offset, nil
}

func (s *cborSource) unmarshal(raw []byte, v any) error {
	return cborDecMode.Unmarshal(raw, v)
}
