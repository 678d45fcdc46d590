// Package wire provides the byte-level output layer for form+JSON encoding.
//
// This package owns the percent-encoding table, the composed JSON-escape +
// percent-encode string transform, canonical number formatting, and the
// buffered sink writer that all higher layers stream through.
//
// # Contents
//
//   - percent.go: RFC 3986 unreserved table and percent-encoded text output
//   - escape.go: JSON string escaping fused with percent-encoding
//   - number.go: integer and canonical JSON float formatting
//   - writer.go: Writer, the buffered sink with pre-encoded JSON tokens
//
// # Encoding Invariant
//
// Exactly one percent-encoding pass happens for everything a Writer emits.
// Structural JSON tokens are appended from pre-encoded constants, scalar
// text is encoded byte by byte, and nested rendering shares one Writer
// instance, so double or zero encoding is not constructible.
//
// This package is internal to metaform.
package wire
