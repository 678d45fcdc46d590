package wire

// Pre-encoded forms of the JSON escape introducer and the double quote.
const (
	escBackslash = "%5C"
	escQuote     = "%22"
)

// WriteEscaped writes the body of a JSON string: JSON escaping and
// percent-encoding applied in a single pass. The surrounding quotes are the
// caller's job. Escapes render as %5C followed by the escape character:
// quote and backslash escape to %5C%22 and %5C%5C, the short escapes
// b f n r t stay literal after the %5C (they are unreserved bytes), and
// remaining control bytes render as %5Cu00 plus two lowercase hex digits.
func (w *Writer) WriteEscaped(s string) error {
	for i := 0; i < len(s); i++ {
		switch b := s[i]; {
		case b == '"':
			w.buf = append(w.buf, escBackslash...)
			w.buf = append(w.buf, escQuote...)
		case b == '\\':
			w.buf = append(w.buf, escBackslash...)
			w.buf = append(w.buf, escBackslash...)
		case b >= 0x20:
			w.pct(b)
		case b == '\n':
			w.buf = append(w.buf, escBackslash...)
			w.buf = append(w.buf, 'n')
		case b == '\r':
			w.buf = append(w.buf, escBackslash...)
			w.buf = append(w.buf, 'r')
		case b == '\t':
			w.buf = append(w.buf, escBackslash...)
			w.buf = append(w.buf, 't')
		case b == '\b':
			w.buf = append(w.buf, escBackslash...)
			w.buf = append(w.buf, 'b')
		case b == '\f':
			w.buf = append(w.buf, escBackslash...)
			w.buf = append(w.buf, 'f')
		default:
			w.buf = append(w.buf, escBackslash...)
			w.buf = append(w.buf, 'u', '0', '0', lowerhex[b>>4], lowerhex[b&0x0F])
		}
		if err := w.maybeFlush(); err != nil {
			return err
		}
	}
	return nil
}
