package plasma

import (
	"errors"
	"fmt"
)

// BytesPerPixel is the size of one RGB565 pixel.
const BytesPerPixel = 2

var ErrTargetTooSmall = errors.New("plasma: target buffer too small")

// Target is a writable RGB565 view: Height rows of Width pixels, each row
// starting Stride bytes after the previous one. Pixels are little-endian.
type Target struct {
	Pix    []byte
	Width  int
	Height int
	Stride int // bytes per row
}

// Validate reports whether the view can be rendered without writing outside Pix.
func (t *Target) Validate() error {
	if t.Width <= 0 || t.Height <= 0 {
		return fmt.Errorf("plasma: invalid size %dx%d", t.Width, t.Height)
	}
	if t.Stride < t.Width*BytesPerPixel {
		return fmt.Errorf("plasma: stride %d shorter than row of %d pixels", t.Stride, t.Width)
	}
	if need := t.Height * t.Stride; len(t.Pix) < need {
		return fmt.Errorf("%w: have %d bytes, need %d", ErrTargetTooSmall, len(t.Pix), need)
	}
	return nil
}

// row returns the pixel bytes of row y, excluding padding.
func (t *Target) row(y int) []byte {
	off := y * t.Stride
	return t.Pix[off : off+t.Width*BytesPerPixel]
}
