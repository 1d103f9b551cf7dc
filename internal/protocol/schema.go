package protocol

import (
	"encoding/json"
	"reflect"
	"slices"

	"github.com/invopop/jsonschema"
)

// SchemaTitle names the message set in the generated schema.
const SchemaTitle = "LockfileContentsMessage"

// Schema derives the JSON Schema of the message set: one oneOf branch per
// variant, in wire-contract order, each pinning its "reason" with const.
// Unknown payload fields are allowed so that older schemas accept newer
// producers.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		Anonymous:                 true,
		DoNotReference:            true,
		AllowAdditionalProperties: true,
	}

	root := &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       SchemaTitle,
		Description: "Messages used to output the contents of a lockfile.",
	}
	for _, v := range variants {
		s := r.ReflectFromType(reflect.TypeOf(v.newWire()).Elem())
		s.Version = ""
		s.Definitions = nil
		s.Title = string(v.reason)
		if prop, ok := s.Properties.Get("reason"); ok {
			prop.Const = string(v.reason)
		}
		s.Required = slices.DeleteFunc(s.Required, func(name string) bool {
			prop, ok := s.Properties.Get(name)
			return ok && nullable(prop)
		})
		root.OneOf = append(root.OneOf, s)
	}
	return root
}

// nullable reports whether prop admits null. Decoding treats a missing
// nullable field the same as null, so such fields are never required.
func nullable(prop *jsonschema.Schema) bool {
	for _, alt := range prop.OneOf {
		if alt.Type == "null" {
			return true
		}
	}
	return false
}

// MarshalSchema renders Schema as indented JSON with a trailing newline,
// the form stored in golden copies.
func MarshalSchema() ([]byte, error) {
	data, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
