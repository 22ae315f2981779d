package plasma

import (
	"encoding/binary"
	"fmt"
)

// Default table resolutions.
const (
	DefaultFixedBits   = 16
	DefaultAngleBits   = 8
	DefaultPaletteBits = 8
)

// Periods of the four phase accumulators, in field units per step.
const (
	rowPeriod1 = 100
	rowPeriod2 = 163
	colPeriod1 = 173
	colPeriod2 = 242
)

// Divisors applied to the frame time (ms) to seed the accumulators.
const (
	rowTimeDivisor = 1230
	colTimeDivisor = 3000
)

// Options configures table resolution. Zero fields take the defaults.
type Options struct {
	FixedBits   uint
	AngleBits   uint
	PaletteBits uint

	// BatchWrites emits pixel pairs with one 32-bit store. Output is identical.
	BatchWrites bool
}

func (o *Options) setDefaults() {
	if o.FixedBits == 0 {
		o.FixedBits = DefaultFixedBits
	}
	if o.AngleBits == 0 {
		o.AngleBits = DefaultAngleBits
	}
	if o.PaletteBits == 0 {
		o.PaletteBits = DefaultPaletteBits
	}
}

func (o Options) validate() error {
	if o.FixedBits > 24 {
		return fmt.Errorf("plasma: fixed bits %d > 24", o.FixedBits)
	}
	if o.AngleBits < 2 || o.AngleBits > o.FixedBits {
		return fmt.Errorf("plasma: angle bits %d outside [2, %d]", o.AngleBits, o.FixedBits)
	}
	if o.PaletteBits < 2 || o.PaletteBits > o.FixedBits {
		return fmt.Errorf("plasma: palette bits %d outside [2, %d]", o.PaletteBits, o.FixedBits)
	}
	return nil
}

// Engine owns the precomputed tables and renders frames.
//
// An Engine is immutable after New and safe for concurrent use as long as
// concurrent calls render into distinct targets.
type Engine struct {
	m *Math

	fixedBits   uint
	paletteBits uint
	one         Fixed
	paletteMask int
	palette     []uint16
	batch       bool

	yt1Incr Fixed
	yt2Incr Fixed
	xt1Incr Fixed
	xt2Incr Fixed
}

// New builds the sine table and palette for opts.
func New(opts Options) (*Engine, error) {
	opts.setDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	m := NewMath(opts.FixedBits, opts.AngleBits)
	size := 1 << opts.PaletteBits
	return &Engine{
		m:           m,
		fixedBits:   opts.FixedBits,
		paletteBits: opts.PaletteBits,
		one:         m.One(),
		paletteMask: size - 1,
		palette:     GeneratePalette(size),
		batch:       opts.BatchWrites,
		yt1Incr:     m.ToFixed(1.0 / rowPeriod1),
		yt2Incr:     m.ToFixed(1.0 / rowPeriod2),
		xt1Incr:     m.ToFixed(1.0 / colPeriod1),
		xt2Incr:     m.ToFixed(1.0 / colPeriod2),
	}, nil
}

// Math returns the engine's fixed-point tables.
func (e *Engine) Math() *Math { return e.m }

// Palette returns a copy of the color table.
func (e *Engine) Palette() []uint16 {
	out := make([]uint16, len(e.palette))
	copy(out, e.palette)
	return out
}

// Increments returns the row (yt1, yt2) and column (xt1, xt2) phase steps.
func (e *Engine) Increments() (yt1, yt2, xt1, xt2 Fixed) {
	return e.yt1Incr, e.yt2Incr, e.xt1Incr, e.xt2Incr
}

// PaletteIndex maps a field value to a palette slot.
//
// |x| saturates just below 1.0 before the shift, so any field, however large,
// selects a valid color instead of wrapping.
func (e *Engine) PaletteIndex(x Fixed) int {
	ax := x
	if ax < 0 {
		ax = -ax
	}
	if ax >= e.one || ax < 0 {
		ax = e.one - 1
	}
	return int(ax>>(e.fixedBits-e.paletteBits)) & e.paletteMask
}

// Render draws the frame for time t (milliseconds) into dst.
//
// Only the Width×Height pixels of dst are written; row padding is untouched.
// dst must satisfy Validate; the caller is responsible for checking.
func (e *Engine) Render(dst *Target, t int64) {
	m := e.m
	ft := float64(t)
	yt1 := m.ToFixed(ft / rowTimeDivisor)
	yt2 := yt1
	xt10 := m.ToFixed(ft / colTimeDivisor)
	xt20 := xt10

	for y := 0; y < dst.Height; y++ {
		base := m.Sin(yt1) + m.Sin(yt2)
		yt1 += e.yt1Incr
		yt2 += e.yt2Incr

		line := dst.row(y)
		if e.batch {
			e.fillRowPairs(line, base, xt10, xt20)
		} else {
			e.fillRow(line, base, xt10, xt20)
		}
	}
}

func (e *Engine) pixel(base, xt1, xt2 Fixed) uint16 {
	field := base + e.m.Sin(xt1) + e.m.Sin(xt2)
	return e.palette[e.PaletteIndex(field>>2)]
}

func (e *Engine) fillRow(line []byte, base, xt1, xt2 Fixed) {
	for x := 0; x+1 < len(line); x += 2 {
		binary.LittleEndian.PutUint16(line[x:], e.pixel(base, xt1, xt2))
		xt1 += e.xt1Incr
		xt2 += e.xt2Incr
	}
}

// fillRowPairs is fillRow with two pixels per store: the first pixel of a pair
// lands in the low half so memory order matches the single-pixel path.
func (e *Engine) fillRowPairs(line []byte, base, xt1, xt2 Fixed) {
	x := 0
	n := len(line)
	for ; x+3 < n; x += 4 {
		p1 := e.pixel(base, xt1, xt2)
		xt1 += e.xt1Incr
		xt2 += e.xt2Incr
		p2 := e.pixel(base, xt1, xt2)
		xt1 += e.xt1Incr
		xt2 += e.xt2Incr
		binary.LittleEndian.PutUint32(line[x:], uint32(p1)|uint32(p2)<<16)
	}
	if x+1 < n {
		binary.LittleEndian.PutUint16(line[x:], e.pixel(base, xt1, xt2))
	}
}
