package wire

import (
	"math"
	"testing"
)

func TestWriteInt(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{42, "42"},
		{-7, "-7"},
		{math.MaxInt64, "9223372036854775807"},
		{math.MinInt64, "-9223372036854775808"},
	}
	for _, tt := range tests {
		got := collect(t, func(w *Writer) error { return w.WriteInt(tt.in) })
		if got != tt.want {
			t.Errorf("WriteInt(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteUint(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0"},
		{255, "255"},
		{math.MaxUint64, "18446744073709551615"},
	}
	for _, tt := range tests {
		got := collect(t, func(w *Writer) error { return w.WriteUint(tt.in) })
		if got != tt.want {
			t.Errorf("WriteUint(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAppendFloat(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		bits int
		want string
	}{
		{"zero", 0, 64, "0"},
		{"neg_zero", math.Copysign(0, -1), 64, "-0"},
		{"one", 1, 64, "1"},
		{"neg_one", -1, 64, "-1"},
		{"fraction", 1.5, 64, "1.5"},
		{"neg_fraction", -2.25, 64, "-2.25"},
		{"pi", 3.14159, 64, "3.14159"},
		{"shortest_repr", 0.1, 64, "0.1"},

		// Fixed notation holds through [1e-6, 1e21).
		{"fixed_upper_bound", 1e20, 64, "100000000000000000000"},
		{"exp_at_1e21", 1e21, 64, "1e+21"},
		{"fixed_lower_bound", 1e-6, 64, "0.000001"},
		{"exp_below_1e-6", 1e-7, 64, "1e-7"},

		// Single-digit negative exponents are trimmed.
		{"trim_e-9", 1.5e-9, 64, "1.5e-9"},
		{"no_trim_e-10", 1e-10, 64, "1e-10"},
		{"no_trim_e-100", 1e-100, 64, "1e-100"},

		{"large_exp", 2.5e22, 64, "2.5e+22"},
		{"max_float64", math.MaxFloat64, 64, "1.7976931348623157e+308"},
		{"min_subnormal", 5e-324, 64, "5e-324"},

		// 32-bit shortest formatting.
		{"float32_fraction", float64(float32(3.14)), 32, "3.14"},
		{"float32_exp", float64(float32(1e21)), 32, "1e+21"},
		{"float32_small", float64(float32(1e-7)), 32, "1e-7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(AppendFloat(nil, tt.in, tt.bits))
			if got != tt.want {
				t.Errorf("AppendFloat(%v, %d) = %q, want %q", tt.in, tt.bits, got, tt.want)
			}
		})
	}
}

// WriteFloat percent-encodes the '+' that large exponents carry.
func TestWriteFloat(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		bits int
		want string
	}{
		{"plain", 1.5, 64, "1.5"},
		{"negative", -2.25, 64, "-2.25"},
		{"exp_plus", 1e21, 64, "1e%2B21"},
		{"exp_minus", 1e-7, 64, "1e-7"},
		{"max_float64", math.MaxFloat64, 64, "1.7976931348623157e%2B308"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(t, func(w *Writer) error { return w.WriteFloat(tt.in, tt.bits) })
			if got != tt.want {
				t.Errorf("WriteFloat(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
