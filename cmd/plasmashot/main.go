// Command plasmashot renders plasma frames at fixed times and writes them as
// WebP snapshots.
//
// Example:
//
//	plasmashot -t 0,1000,5000 -width 320 -height 240 -scale 2 -out shots
package main

import (
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"plasmafx/framestats"
	"plasmafx/hal"
	"plasmafx/internal/logging"
	"plasmafx/plasma"
	"plasmafx/render"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

func main() {
	var (
		times   = flag.String("t", "0", "Comma-separated frame times in milliseconds.")
		width   = flag.Int("width", 320, "Frame width in pixels.")
		height  = flag.Int("height", 320, "Frame height in pixels.")
		scale   = flag.Int("scale", 1, "Integer upscale factor (nearest neighbour).")
		outDir  = flag.String("out", ".", "Output directory.")
		batch   = flag.Bool("batch", false, "Use paired 32-bit pixel writes.")
		verbose = flag.Bool("v", false, "Debug logging.")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := logging.New(os.Stderr, level)

	ts, err := parseTimes(*times)
	if err != nil {
		fatal(err)
	}
	if *width <= 0 || *height <= 0 || *scale <= 0 {
		fatal(fmt.Errorf("invalid size %dx%d scale %d", *width, *height, *scale))
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fatal(err)
	}

	engine, err := plasma.New(plasma.Options{BatchWrites: *batch})
	if err != nil {
		fatal(err)
	}
	r := render.New(engine, framestats.New(framestats.WithLogger(log)), log)
	s := newSurface(*width, *height)

	for _, t := range ts {
		path := filepath.Join(*outDir, fmt.Sprintf("plasma_%d.webp", t))
		if err := snapshot(r, s, t, *scale, path); err != nil {
			fatal(err)
		}
		log.Info("wrote snapshot", "t", t, "path", path)
	}
}

func snapshot(r *render.Renderer, s *surface, t int64, scale int, path string) error {
	if err := r.Render(s, t); err != nil {
		return err
	}
	img := hal.DecodeRGB565(s.pix, s.info)
	if scale > 1 {
		img = upscale(img, scale)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := nativewebp.Encode(f, img, nil); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func upscale(src *image.NRGBA, scale int) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func parseTimes(s string) ([]int64, error) {
	var out []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		t, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad time %q: %w", part, err)
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no frame times in %q", s)
	}
	return out, nil
}

// surface is an unpadded RGB565 buffer reused across snapshots.
type surface struct {
	info hal.BufferInfo
	pix  []byte
}

func newSurface(w, h int) *surface {
	return &surface{
		info: hal.BufferInfo{Width: w, Height: h, StrideBytes: w * 2, Format: hal.PixelFormatRGB565},
		pix:  make([]byte, w*h*2),
	}
}

func (s *surface) Info() (hal.BufferInfo, error) { return s.info, nil }
func (s *surface) Lock() ([]byte, error)         { return s.pix, nil }
func (s *surface) Unlock()                       {}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
