package render

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"plasmafx/framestats"
	"plasmafx/hal"
	"plasmafx/plasma"
)

type fakeSurface struct {
	info    hal.BufferInfo
	infoErr error
	lockErr error
	pix     []byte

	locks   int
	unlocks int
}

func (s *fakeSurface) Info() (hal.BufferInfo, error) { return s.info, s.infoErr }

func (s *fakeSurface) Lock() ([]byte, error) {
	if s.lockErr != nil {
		return nil, s.lockErr
	}
	s.locks++
	return s.pix, nil
}

func (s *fakeSurface) Unlock() { s.unlocks++ }

func newSurface(w, h, stride int, format hal.PixelFormat) *fakeSurface {
	return &fakeSurface{
		info: hal.BufferInfo{Width: w, Height: h, StrideBytes: stride, Format: format},
		pix:  bytes.Repeat([]byte{0xaa}, h*stride),
	}
}

type rendererFixture struct {
	r     *Renderer
	stats *framestats.Stats
	logs  *bytes.Buffer
}

func newRenderer(t *testing.T) rendererFixture {
	t.Helper()
	e, err := plasma.New(plasma.Options{})
	if err != nil {
		t.Fatalf("plasma.New() error = %v", err)
	}
	now := time.Unix(0, 0)
	clock := func() time.Time {
		now = now.Add(time.Millisecond)
		return now
	}
	st := framestats.New(framestats.WithClock(clock))
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return rendererFixture{r: New(e, st, log), stats: st, logs: &logs}
}

func countLines(s string) int {
	return strings.Count(s, "\n")
}

func TestRenderWritesFrame(t *testing.T) {
	f := newRenderer(t)
	s := newSurface(4, 2, 8, hal.PixelFormatRGB565)

	if err := f.r.Render(s, 0); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := []byte{
		0x1f, 0xf8, 0x5e, 0xf8, 0xbd, 0xf8, 0x3b, 0xf9,
		0x7e, 0xf8, 0xdc, 0xf8, 0x3b, 0xf9, 0xd8, 0xf9,
	}
	if !bytes.Equal(s.pix, want) {
		t.Fatalf("pixels =\n% x\nwant\n% x", s.pix, want)
	}
	if s.locks != 1 || s.unlocks != 1 {
		t.Fatalf("locks/unlocks = %d/%d, want 1/1", s.locks, s.unlocks)
	}
	if got := f.stats.Len(); got != 1 {
		t.Fatalf("stats.Len() = %d, want 1", got)
	}
	if f.logs.Len() != 0 {
		t.Fatalf("unexpected log output: %q", f.logs.String())
	}
}

func TestRenderUnsupportedFormat(t *testing.T) {
	f := newRenderer(t)
	s := newSurface(4, 2, 8, hal.PixelFormatA8)
	orig := append([]byte(nil), s.pix...)

	err := f.r.Render(s, 0)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Render() error = %v, want ErrUnsupportedFormat", err)
	}
	if !bytes.Equal(s.pix, orig) {
		t.Fatal("buffer modified for unsupported format")
	}
	if s.locks != 0 || s.unlocks != 0 {
		t.Fatalf("locks/unlocks = %d/%d, want 0/0", s.locks, s.unlocks)
	}
	if got := countLines(f.logs.String()); got != 1 {
		t.Fatalf("log lines = %d, want 1: %q", got, f.logs.String())
	}
	if !strings.Contains(f.logs.String(), "level=ERROR") {
		t.Fatalf("log %q is not an error", f.logs.String())
	}
	if got := f.stats.Len(); got != 0 {
		t.Fatalf("stats.Len() = %d, want 0", got)
	}
}

func TestRenderDescriptorError(t *testing.T) {
	f := newRenderer(t)
	s := newSurface(4, 2, 8, hal.PixelFormatRGB565)
	s.infoErr = hal.ErrClosed

	err := f.r.Render(s, 0)
	if !errors.Is(err, ErrDescriptor) || !errors.Is(err, hal.ErrClosed) {
		t.Fatalf("Render() error = %v, want ErrDescriptor wrapping ErrClosed", err)
	}
	if s.locks != 0 {
		t.Fatalf("Lock called %d times", s.locks)
	}
	if got := f.stats.Len(); got != 0 {
		t.Fatalf("stats.Len() = %d, want 0", got)
	}
}

func TestRenderLockError(t *testing.T) {
	f := newRenderer(t)
	s := newSurface(4, 2, 8, hal.PixelFormatRGB565)
	s.lockErr = hal.ErrNoBuffer
	orig := append([]byte(nil), s.pix...)

	err := f.r.Render(s, 0)
	if !errors.Is(err, ErrLock) || !errors.Is(err, hal.ErrNoBuffer) {
		t.Fatalf("Render() error = %v, want ErrLock wrapping ErrNoBuffer", err)
	}
	if s.unlocks != 0 {
		t.Fatalf("Unlock called %d times after failed Lock", s.unlocks)
	}
	if !bytes.Equal(s.pix, orig) {
		t.Fatal("buffer modified after failed Lock")
	}
	if got := f.stats.Len(); got != 0 {
		t.Fatalf("stats.Len() = %d, want 0", got)
	}
}

func TestRenderInvalidGeometryUnlocks(t *testing.T) {
	tests := []struct {
		name string
		s    *fakeSurface
	}{
		{"stride too small", &fakeSurface{
			info: hal.BufferInfo{Width: 4, Height: 2, StrideBytes: 6, Format: hal.PixelFormatRGB565},
			pix:  make([]byte, 12),
		}},
		{"short buffer", &fakeSurface{
			info: hal.BufferInfo{Width: 4, Height: 2, StrideBytes: 8, Format: hal.PixelFormatRGB565},
			pix:  make([]byte, 15),
		}},
		{"zero width", &fakeSurface{
			info: hal.BufferInfo{Width: 0, Height: 2, StrideBytes: 8, Format: hal.PixelFormatRGB565},
			pix:  make([]byte, 16),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRenderer(t)
			err := f.r.Render(tt.s, 0)
			if !errors.Is(err, ErrInvalidBuffer) {
				t.Fatalf("Render() error = %v, want ErrInvalidBuffer", err)
			}
			if tt.s.locks != 1 || tt.s.unlocks != 1 {
				t.Fatalf("locks/unlocks = %d/%d, want 1/1", tt.s.locks, tt.s.unlocks)
			}
			if got := f.stats.Len(); got != 0 {
				t.Fatalf("stats.Len() = %d, want 0", got)
			}
		})
	}
}

func TestRenderNilStatsAndLogger(t *testing.T) {
	e, err := plasma.New(plasma.Options{BatchWrites: true})
	if err != nil {
		t.Fatal(err)
	}
	r := New(e, nil, nil)
	s := newSurface(3, 2, 10, hal.PixelFormatRGB565)
	if err := r.Render(s, 1000); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := []byte{
		0xbd, 0xf8, 0xfc, 0xf8, 0x3b, 0xf9, 0xaa, 0xaa, 0xaa, 0xaa,
		0x7e, 0xf8, 0xbd, 0xf8, 0x1b, 0xf9, 0xaa, 0xaa, 0xaa, 0xaa,
	}
	if !bytes.Equal(s.pix, want) {
		t.Fatalf("pixels =\n% x\nwant\n% x", s.pix, want)
	}
	if err := r.Render(newSurface(3, 2, 10, hal.PixelFormatRGBA8888), 0); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Render() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestRenderHostFramebuffer(t *testing.T) {
	f := newRenderer(t)
	fb := hal.NewHost(hal.HostConfig{Width: 4, Height: 2, RowPadding: 2}).Display().Framebuffer()
	if err := f.r.Render(fb, 0); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	info, err := fb.Info()
	if err != nil {
		t.Fatal(err)
	}
	pix, err := fb.Lock()
	if err != nil {
		t.Fatal(err)
	}
	defer fb.Unlock()
	if got := hal.ColorAt(pix, info, 0, 0); got.R != 0xff || got.B != 0xff {
		t.Fatalf("ColorAt(0,0) = %+v, want magenta", got)
	}
	if pix[8] != 0 || pix[9] != 0 {
		t.Fatalf("row padding written: % x", pix[8:10])
	}
}
