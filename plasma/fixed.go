package plasma

import "math"

// Fixed is a signed fixed-point number with the Math's fractional bits.
//
// Phase accumulators wrap modulo 2^32. Table lookups depend only on bits
// [F−A, F) of a value, so wraparound never changes a result.
type Fixed int32

// Math holds the sine table for one fixed-point configuration.
type Math struct {
	one     Fixed
	shift   uint
	mask    int
	quarter int
	table   []Fixed
}

// NewMath builds the sine table for fixedBits fractional bits and a table of
// 2^angleBits steps per period.
//
// Callers must ensure 1 <= angleBits <= fixedBits <= 24; Options.validate does.
func NewMath(fixedBits, angleBits uint) *Math {
	size := 1 << angleBits
	m := &Math{
		one:     Fixed(1) << fixedBits,
		shift:   fixedBits - angleBits,
		mask:    size - 1,
		quarter: size / 4,
		table:   make([]Fixed, size+1),
	}

	half := float64(int(1) << (angleBits - 1))
	one := float64(m.one)
	for i := range m.table {
		radians := float64(i) * math.Pi / half
		m.table[i] = Fixed(math.Round(math.Sin(radians) * one))
	}
	return m
}

// One returns 1.0 in fixed point.
func (m *Math) One() Fixed { return m.one }

// ToFixed converts x to fixed point, rounding half away from zero.
//
// The value is reduced modulo 2^32 first so that arbitrarily large inputs keep
// a defined conversion; the low bits, which feed the table, are preserved.
func (m *Math) ToFixed(x float64) Fixed {
	v := math.Round(x * float64(m.one))
	v = math.Mod(v, 1<<32)
	return Fixed(int64(v))
}

// TableIndex returns the unmasked sine table index of angle a.
func (m *Math) TableIndex(a Fixed) int {
	return int(a >> m.shift)
}

// Sin returns the sine of a, where a is in the same fixed-point scale.
func (m *Math) Sin(a Fixed) Fixed {
	return m.table[int(a>>m.shift)&m.mask]
}

// Cos returns the cosine of a: the sine a quarter period ahead.
func (m *Math) Cos(a Fixed) Fixed {
	return m.table[(int(a>>m.shift)+m.quarter)&m.mask]
}

// SinIndex returns the table entry for integer angle i, wrapping on the mask.
func (m *Math) SinIndex(i int) Fixed {
	return m.table[i&m.mask]
}

// Table returns a copy of the sine table, including the endpoint entry.
func (m *Math) Table() []Fixed {
	out := make([]Fixed, len(m.table))
	copy(out, m.table)
	return out
}
