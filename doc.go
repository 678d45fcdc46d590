// Package metaform encodes Go values into the hybrid form+JSON body
// format used by Meta Graph API endpoints.
//
// The output is a single application/x-www-form-urlencoded line in which
// every value is percent-encoded: top-level scalars as plain text, and
// everything nested as JSON. A struct such as
//
//	type Message struct {
//	    Recipient string   `form:"recipient"`
//	    Tags      []string `form:"tags"`
//	}
//
// encodes to
//
//	recipient=1234567890&tags=%5B%22a%22%2C%22b%22%5D
//
// where the tags value is the JSON array ["a","b"] percent-encoded. The
// whole body is produced in one pass with no intermediate JSON buffer.
//
// # Architecture Overview
//
// The library is organized into a small set of packages:
//
//	metaform/            Root package: Marshal, Encoder, Visitor, Transcode
//	├── errors/          Structured error types for debugging
//	└── internal/wire/   Percent-encoding writer and JSON text primitives
//
// Encoding is event-driven. A reflection fold (used by Marshal and
// Encoder) or a streaming JSON parser (used by Transcode) emits value
// events into a Visitor, which routes them either to the form layer for
// top-level pairs or to the nested JSON renderer. The Visitor implements
// the go-structform visitor contract, so any structform event producer
// can drive it directly.
//
// # Quick Start
//
// Encode a value in memory:
//
//	body, err := metaform.Marshal(Message{
//	    Recipient: "1234567890",
//	    Tags:      []string{"a", "b"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	resp, err := http.Post(url, "application/x-www-form-urlencoded",
//	    bytes.NewReader(body))
//
// Stream to a writer instead:
//
//	enc := metaform.NewEncoder(w)
//	if err := enc.Encode(msg); err != nil {
//	    log.Fatal(err)
//	}
//
// # Wire Format
//
// Bodies follow key=value&key=value form syntax. Only bytes unreserved
// under RFC 3986 (letters, digits, '-', '.', '_', '~') appear literally
// inside keys and values; every other byte is a %XX escape with uppercase
// hex. The '&' and '=' separators are structural and never encoded.
//
//	Top-level value     Wire rendering
//
//	string              plain text, never quoted
//	number, bool        plain literal
//	nil / absent        pair omitted entirely
//	unit Variant        JSON string (quoted)
//	nested value        percent-encoded JSON
//
// Inside nested JSON, strings carry their JSON escapes before percent
// encoding, numbers use canonical double formatting, and object members
// holding absent values are dropped unless SetNullFields is enabled.
// NaN and infinite floats have no representation and fail the encode.
//
// # Thread Safety
//
// Marshal and EncodeToString are safe for concurrent use. Encoder and
// Visitor hold per-encode state and must be confined to one goroutine at
// a time.
package metaform
