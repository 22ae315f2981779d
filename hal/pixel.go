package hal

import (
	"image"
	"image/color"
)

func rgb565(r, g, b uint8) uint16 {
	rr := uint16(r>>3) & 0x1F
	gg := uint16(g>>2) & 0x3F
	bb := uint16(b>>3) & 0x1F
	return (rr << 11) | (gg << 5) | bb
}

// RGB888From565 expands a packed RGB565 pixel to 8-bit channels.
func RGB888From565(p uint16) (r, g, b uint8) {
	rr := (p >> 11) & 0x1F
	gg := (p >> 5) & 0x3F
	bb := p & 0x1F

	r = uint8((rr * 255) / 31)
	g = uint8((gg * 255) / 63)
	b = uint8((bb * 255) / 31)
	return r, g, b
}

// DecodeRGB565Into converts little-endian RGB565 pixels laid out per info into dst.
//
// Rows advance by info.StrideBytes; padding bytes are skipped. Pixels outside
// either buffer are left untouched.
func DecodeRGB565Into(dst *image.NRGBA, pix []byte, info BufferInfo) {
	if dst == nil || info.Width <= 0 || info.Height <= 0 {
		return
	}
	w := min(info.Width, dst.Rect.Dx())
	h := min(info.Height, dst.Rect.Dy())
	for y := 0; y < h; y++ {
		src := y * info.StrideBytes
		out := y * dst.Stride
		for x := 0; x < w; x++ {
			off := src + x*2
			if off+1 >= len(pix) {
				return
			}
			r, g, b := RGB888From565(uint16(pix[off]) | uint16(pix[off+1])<<8)
			j := out + x*4
			dst.Pix[j+0] = r
			dst.Pix[j+1] = g
			dst.Pix[j+2] = b
			dst.Pix[j+3] = 0xFF
		}
	}
}

// DecodeRGB565 returns an NRGBA copy of an RGB565 buffer.
func DecodeRGB565(pix []byte, info BufferInfo) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, max(info.Width, 0), max(info.Height, 0)))
	DecodeRGB565Into(img, pix, info)
	return img
}

// ColorAt returns the pixel at (x, y) of an RGB565 buffer.
func ColorAt(pix []byte, info BufferInfo, x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= info.Width || y >= info.Height {
		return color.RGBA{}
	}
	off := y*info.StrideBytes + x*2
	if off+1 >= len(pix) {
		return color.RGBA{}
	}
	r, g, b := RGB888From565(uint16(pix[off]) | uint16(pix[off+1])<<8)
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}
