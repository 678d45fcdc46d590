package wire

const (
	upperhex = "0123456789ABCDEF"
	lowerhex = "0123456789abcdef"
)

// unreserved marks the bytes that pass through percent-encoding unchanged:
// ASCII letters, digits, and -._~ per RFC 3986 section 2.3. Everything else,
// including '*', space, '&', and '=', is written as %XX with uppercase hex.
// Built once at startup and never mutated.
var unreserved [256]bool

func init() {
	for c := 'a'; c <= 'z'; c++ {
		unreserved[c] = true
	}
	for c := 'A'; c <= 'Z'; c++ {
		unreserved[c] = true
	}
	for c := '0'; c <= '9'; c++ {
		unreserved[c] = true
	}
	unreserved['-'] = true
	unreserved['.'] = true
	unreserved['_'] = true
	unreserved['~'] = true
}

func (w *Writer) pct(b byte) {
	if unreserved[b] {
		w.buf = append(w.buf, b)
		return
	}
	w.buf = append(w.buf, '%', upperhex[b>>4], upperhex[b&0x0F])
}

// WriteText percent-encodes s byte by byte. Multi-byte UTF-8 sequences
// become one %XX escape per byte. Used for keys and for raw top-level
// string values, which are never JSON-quoted.
func (w *Writer) WriteText(s string) error {
	for i := 0; i < len(s); i++ {
		w.pct(s[i])
		if err := w.maybeFlush(); err != nil {
			return err
		}
	}
	return nil
}
