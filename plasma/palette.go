package plasma

// GeneratePalette builds a cyclic RGB565 ramp of the given size.
//
// The range is split into four equal quadrants, each a linear blend between two
// anchors: magenta to yellow, yellow to cyan, cyan to blue, blue back to
// magenta. The result depends only on size.
func GeneratePalette(size int) []uint16 {
	if size <= 0 {
		return nil
	}
	pal := make([]uint16, size)

	q := size / 4
	bounds := [5]int{0, q, 2 * q, 3 * q, size}
	for k := 0; k < 4; k++ {
		for n := bounds[k]; n < bounds[k+1]; n++ {
			t := (n - bounds[k]) * 4 * 255 / size
			r, g, b := quadrantColor(k, t)
			pal[n] = make565(r, g, b)
		}
	}
	return pal
}

func quadrantColor(k, t int) (r, g, b int) {
	switch k {
	case 0:
		return 255, t, 255 - t
	case 1:
		return 255 - t, 255, t
	case 2:
		return 0, 255 - t, 255
	default:
		return t, 0, 255
	}
}

// make565 packs 8-bit channels by masking, not rounding.
func make565(r, g, b int) uint16 {
	return uint16(((r << 8) & 0xF800) | ((g << 3) & 0x07E0) | ((b >> 3) & 0x001F))
}
