package wire

import (
	"math"
	"strconv"
)

// WriteInt writes the decimal text of i. Digits and '-' are unreserved, so
// no encoding applies.
func (w *Writer) WriteInt(i int64) error {
	w.buf = strconv.AppendInt(w.buf, i, 10)
	return w.maybeFlush()
}

// WriteUint writes the decimal text of u.
func (w *Writer) WriteUint(u uint64) error {
	w.buf = strconv.AppendUint(w.buf, u, 10)
	return w.maybeFlush()
}

// WriteFloat writes the canonical JSON text of f percent-encoded: the text
// is unreserved except for the '+' in large exponents, which becomes %2B.
// The caller must ensure f is finite; bits selects 32- or 64-bit shortest
// formatting.
func (w *Writer) WriteFloat(f float64, bits int) error {
	var scratch [32]byte
	text := AppendFloat(scratch[:0], f, bits)
	for _, b := range text {
		w.pct(b)
	}
	return w.maybeFlush()
}

// AppendFloat appends the canonical JSON form of a finite float: fixed
// notation for magnitudes in [1e-6, 1e21), exponent notation outside, with
// single-digit negative exponents trimmed (1e-09 becomes 1e-9). This is the
// ES6 number-to-string convention shared by mainstream JSON encoders.
func AppendFloat(dst []byte, f float64, bits int) []byte {
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 {
		if bits == 64 && (abs < 1e-6 || abs >= 1e21) ||
			bits == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
			format = 'e'
		}
	}
	dst = strconv.AppendFloat(dst, f, format, -1, bits)
	if format == 'e' {
		n := len(dst)
		if n >= 4 && dst[n-4] == 'e' && dst[n-3] == '-' && dst[n-2] == '0' {
			dst[n-2] = dst[n-1]
			dst = dst[:n-1]
		}
	}
	return dst
}
