// Package protocol defines the lockfile-contents message stream.
//
// A stream is an ordered sequence of self-describing records. Each record
// is a JSON object whose "reason" field selects one of a closed set of
// variants; the variant's payload fields sit next to "reason" at the top
// level:
//
//	{"reason":"lockfile","version":3}
//	{"reason":"locked-package","name":"foo","version":"1.0.0"}
//	{"reason":"metadata","metadata":{"key":"value"}}
//	{"reason":"unused-patches","unused":[{"name":"bar"}]}
//
// In Go each variant is its own struct implementing the sealed Message
// interface; the discriminator exists only on the wire.
//
// Records travel in one of three framings: concatenated JSON values (or a
// single top-level JSON array), newline-delimited JSON, or an RFC 8742 CBOR
// sequence carrying the same field names. Decoder reads them lazily, one
// record per call, and stops for good at the first malformed record.
//
// Schema derives a JSON Schema from the variant types so the wire format
// can be checked against a stored golden copy.
package protocol
