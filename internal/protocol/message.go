package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Reason is the discriminator carried in every record.
type Reason string

const (
	ReasonLockfile      Reason = "lockfile"
	ReasonLockedPackage Reason = "locked-package"
	ReasonMetadata      Reason = "metadata"
	ReasonUnusedPatches Reason = "unused-patches"
)

var (
	// ErrMissingReason indicates a record without a "reason" field.
	ErrMissingReason = errors.New("missing reason")

	// ErrUnknownReason indicates a record whose reason is not one of the
	// known variants.
	ErrUnknownReason = errors.New("unknown reason")

	// ErrInvalidRecord indicates a record whose fields have the right types
	// but violate a variant constraint.
	ErrInvalidRecord = errors.New("invalid record")
)

// Message is one record of a lockfile-contents stream. The set of
// implementations is closed: Lockfile, LockedPackage, Metadata and
// UnusedPatches.
//
// Round trips preserve the encoding, not the Go value: an empty dependency
// list or metadata table is omitted on the wire and decodes as nil.
type Message interface {
	// Reason returns the discriminator this message is encoded with.
	Reason() Reason

	toWire() wireMessage
}

// Lockfile opens a stream and carries the lockfile format version, when
// the lockfile declares one.
type Lockfile struct {
	Version *uint32
}

// NewLockfile returns a Lockfile message declaring version.
func NewLockfile(version uint32) Lockfile {
	return Lockfile{Version: &version}
}

// LockedPackage describes one package pinned by the lockfile.
type LockedPackage struct {
	Package Dependency
}

// Metadata carries the lockfile's free-form metadata table.
type Metadata struct {
	Metadata MetadataTable
}

// UnusedPatches lists patch entries the resolver did not use.
type UnusedPatches struct {
	Unused []Dependency
}

// Dependency is a normalized lockfile package entry.
type Dependency struct {
	Name         string   `json:"name"`
	Version      string   `json:"version,omitempty"`
	Source       string   `json:"source,omitempty"`
	Checksum     string   `json:"checksum,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
	Replace      string   `json:"replace,omitempty"`
}

// MetadataTable is the lockfile's [metadata] table.
type MetadataTable struct {
	Entries map[string]string `json:"metadata,omitempty"`
}

func (Lockfile) Reason() Reason      { return ReasonLockfile }
func (LockedPackage) Reason() Reason { return ReasonLockedPackage }
func (Metadata) Reason() Reason      { return ReasonMetadata }
func (UnusedPatches) Reason() Reason { return ReasonUnusedPatches }

func (m Lockfile) MarshalJSON() ([]byte, error)      { return json.Marshal(m.toWire()) }
func (m LockedPackage) MarshalJSON() ([]byte, error) { return json.Marshal(m.toWire()) }
func (m Metadata) MarshalJSON() ([]byte, error)      { return json.Marshal(m.toWire()) }
func (m UnusedPatches) MarshalJSON() ([]byte, error) { return json.Marshal(m.toWire()) }

// wireMessage is the flattened on-the-wire shape of a variant: the
// discriminator followed by the payload fields. encoding/json, the CBOR
// codec and the schema reflector all read the same struct tags.
type wireMessage interface {
	message() Message
}

type lockfileWire struct {
	Reason  Reason  `json:"reason"`
	Version *uint32 `json:"version" jsonschema:"nullable"`
}

type lockedPackageWire struct {
	Reason Reason `json:"reason"`
	Dependency
}

type metadataWire struct {
	Reason Reason `json:"reason"`
	MetadataTable
}

type unusedPatchesWire struct {
	Reason Reason       `json:"reason"`
	Unused []Dependency `json:"unused"`
}

func (m Lockfile) toWire() wireMessage {
	return &lockfileWire{Reason: ReasonLockfile, Version: m.Version}
}

func (m LockedPackage) toWire() wireMessage {
	return &lockedPackageWire{Reason: ReasonLockedPackage, Dependency: m.Package}
}

func (m Metadata) toWire() wireMessage {
	return &metadataWire{Reason: ReasonMetadata, MetadataTable: m.Metadata}
}

func (m UnusedPatches) toWire() wireMessage {
	return &unusedPatchesWire{Reason: ReasonUnusedPatches, Unused: m.Unused}
}

func (w *lockfileWire) message() Message { return Lockfile{Version: w.Version} }

func (w *lockedPackageWire) message() Message {
	return LockedPackage{Package: w.Dependency.normalize()}
}

func (w *metadataWire) message() Message {
	return Metadata{Metadata: w.MetadataTable.normalize()}
}

func (w *unusedPatchesWire) message() Message {
	for i := range w.Unused {
		w.Unused[i] = w.Unused[i].normalize()
	}
	return UnusedPatches{Unused: w.Unused}
}

// normalize maps an empty dependency list to nil. Both encode identically,
// so decoded messages always carry nil.
func (d Dependency) normalize() Dependency {
	if len(d.Dependencies) == 0 {
		d.Dependencies = nil
	}
	return d
}

// normalize maps an empty table to nil, mirroring Dependency.normalize.
func (t MetadataTable) normalize() MetadataTable {
	if len(t.Entries) == 0 {
		t.Entries = nil
	}
	return t
}

// variant binds a discriminator value to its wire shape.
type variant struct {
	reason  Reason
	newWire func() wireMessage
}

// variants lists every known record kind in wire-contract order. New kinds
// are appended, never renamed or removed.
var variants = []variant{
	{reason: ReasonLockfile, newWire: func() wireMessage { return new(lockfileWire) }},
	{reason: ReasonLockedPackage, newWire: func() wireMessage { return new(lockedPackageWire) }},
	{reason: ReasonMetadata, newWire: func() wireMessage { return new(metadataWire) }},
	{reason: ReasonUnusedPatches, newWire: func() wireMessage { return new(unusedPatchesWire) }},
}

// Reasons returns every known discriminator value in wire-contract order.
func Reasons() []Reason {
	reasons := make([]Reason, len(variants))
	for i, v := range variants {
		reasons[i] = v.reason
	}
	return reasons
}

func lookupVariant(reason Reason) (variant, bool) {
	for _, v := range variants {
		if v.reason == reason {
			return v, true
		}
	}
	return variant{}, false
}

// envelope reads only the discriminator of a record.
type envelope struct {
	Reason *string `json:"reason"`
}

// decodeRecord turns one framed record into a Message using unmarshal for
// the framing's encoding.
func decodeRecord(raw []byte, unmarshal func([]byte, any) error) (Message, error) {
	var env envelope
	if err := unmarshal(raw, &env); err != nil {
		return nil, err
	}
	if env.Reason == nil {
		return nil, ErrMissingReason
	}

	v, ok := lookupVariant(Reason(*env.Reason))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReason, *env.Reason)
	}

	w := v.newWire()
	if err := unmarshal(raw, w); err != nil {
		return nil, fmt.Errorf("%s record: %w", v.reason, err)
	}

	msg := w.message()
	if err := validate(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func validate(msg Message) error {
	switch m := msg.(type) {
	case LockedPackage:
		if m.Package.Name == "" {
			return fmt.Errorf("%w: %s record requires a name", ErrInvalidRecord, ReasonLockedPackage)
		}
	case UnusedPatches:
		for i, dep := range m.Unused {
			if dep.Name == "" {
				return fmt.Errorf("%w: %s entry %d requires a name", ErrInvalidRecord, ReasonUnusedPatches, i)
			}
		}
	}
	return nil
}

// Unmarshal decodes a single JSON record.
func Unmarshal(data []byte) (Message, error) {
	return decodeRecord(data, json.Unmarshal)
}
