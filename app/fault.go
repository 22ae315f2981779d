package app

import (
	"fmt"
	"image/color"
	"strings"
	"unicode/utf8"

	"plasmafx/hal"
	"plasmafx/internal/buildinfo"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

var (
	faultFont       = &tinyfont.TomThumb
	faultFontHeight = int16(6)
	faultFontOffset = int16(5)
)

// fault logs a recovered panic and paints it on the framebuffer.
func (s *system) fault(value any, stack []byte) {
	s.log.Warn("plasmafx fault", "panic", fmt.Sprint(value))
	if l := s.h.Logger(); l != nil {
		for _, line := range splitLines(string(stack)) {
			l.WriteLineString(line)
		}
	}

	lines := []string{"plasmafx fault:", fmt.Sprintf("panic: %v", value)}
	if len(stack) > 0 {
		lines = append(lines, "stack:")
		lines = append(lines, splitLines(string(stack))...)
	} else {
		lines = append(lines, "stack: unavailable")
	}
	drawScreen(s.fb, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, color.RGBA{A: 0xFF}, lines)
}

// splash shows the build line until the first frame replaces it.
func (s *system) splash() {
	drawScreen(s.fb, color.RGBA{A: 0xFF}, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
		[]string{"plasmafx", buildinfo.Short()})
}

// drawScreen clears fb to bg and writes lines top-down, wrapping long lines
// at the screen width and dropping what does not fit.
func drawScreen(fb hal.Framebuffer, bg, fg color.RGBA, lines []string) {
	fb.ClearRGB(bg.R, bg.G, bg.B)

	info, err := fb.Info()
	if err != nil || info.Format != hal.PixelFormatRGB565 {
		return
	}
	_, outboxWidth := tinyfont.LineWidth(faultFont, "0")
	fontWidth := int16(outboxWidth)
	if fontWidth <= 0 {
		return
	}
	cols := int16(info.Width) / fontWidth
	if cols <= 0 {
		cols = 1
	}

	pix, err := fb.Lock()
	if err != nil {
		return
	}
	d := &fbDisplay{pix: pix, info: info}
	y := int16(0)
	for _, line := range lines {
		for len(line) > 0 && int(y+faultFontHeight) <= info.Height {
			chunk, rest := takeRunes(line, cols)
			tinyfont.WriteLine(d, faultFont, 0, y+faultFontOffset, chunk, fg)
			y += faultFontHeight
			line = strings.TrimLeft(rest, " ")
		}
	}
	fb.Unlock()
	_ = fb.Present()
}

// fbDisplay draws into locked RGB565 pixels.
type fbDisplay struct {
	pix  []byte
	info hal.BufferInfo
}

var _ drivers.Displayer = (*fbDisplay)(nil)

func (d *fbDisplay) Size() (x, y int16) {
	return int16(d.info.Width), int16(d.info.Height)
}

func (d *fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= d.info.Width || iy < 0 || iy >= d.info.Height {
		return
	}
	pixel := uint16((uint16(c.R>>3)&0x1F)<<11 | (uint16(c.G>>2)&0x3F)<<5 | (uint16(c.B>>3) & 0x1F))
	off := iy*d.info.StrideBytes + ix*2
	if off+1 >= len(d.pix) {
		return
	}
	d.pix[off] = byte(pixel)
	d.pix[off+1] = byte(pixel >> 8)
}

func (d *fbDisplay) Display() error { return nil }

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.ReplaceAll(line, "\t", "  ")
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s[:i], s[i:]
}
