package app

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"plasmafx/hal"
	"plasmafx/plasma"
)

type memLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *memLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, s)
}

func (l *memLogger) WriteLineBytes(b []byte) { l.WriteLineString(string(b)) }

func (l *memLogger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.lines, "\n")
}

type memFramebuffer struct {
	info        hal.BufferInfo
	pix         []byte
	panicOnLock bool
	presents    int
}

func (f *memFramebuffer) Info() (hal.BufferInfo, error) { return f.info, nil }

func (f *memFramebuffer) Lock() ([]byte, error) {
	if f.panicOnLock {
		f.panicOnLock = false
		panic("lock exploded")
	}
	return f.pix, nil
}

func (f *memFramebuffer) Unlock() {}

func (f *memFramebuffer) ClearRGB(r, g, b uint8) {
	p := uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
	for y := 0; y < f.info.Height; y++ {
		for x := 0; x < f.info.Width; x++ {
			off := y*f.info.StrideBytes + x*2
			f.pix[off] = byte(p)
			f.pix[off+1] = byte(p >> 8)
		}
	}
}

func (f *memFramebuffer) Present() error {
	f.presents++
	return nil
}

type memHAL struct {
	log   *memLogger
	fb    *memFramebuffer
	ticks chan uint64
}

func (h *memHAL) Logger() hal.Logger   { return h.log }
func (h *memHAL) Display() hal.Display { return h }
func (h *memHAL) Time() hal.Time       { return h }

func (h *memHAL) Framebuffer() hal.Framebuffer { return h.fb }
func (h *memHAL) Ticks() <-chan uint64         { return h.ticks }

func newMemHAL(w, hgt, stride int, format hal.PixelFormat) *memHAL {
	return &memHAL{
		log: &memLogger{},
		fb: &memFramebuffer{
			info: hal.BufferInfo{Width: w, Height: hgt, StrideBytes: stride, Format: format},
			pix:  make([]byte, hgt*stride),
		},
		ticks: make(chan uint64, 8),
	}
}

func TestStepRendersLatestTick(t *testing.T) {
	h := newMemHAL(4, 2, 8, hal.PixelFormatRGB565)
	step, err := New(h, Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := step(); err != nil {
		t.Fatalf("step() error = %v", err)
	}
	want0 := []byte{
		0x1f, 0xf8, 0x5e, 0xf8, 0xbd, 0xf8, 0x3b, 0xf9,
		0x7e, 0xf8, 0xdc, 0xf8, 0x3b, 0xf9, 0xd8, 0xf9,
	}
	if !bytes.Equal(h.fb.pix, want0) {
		t.Fatalf("frame at t=0 =\n% x\nwant\n% x", h.fb.pix, want0)
	}

	h.ticks <- 1000
	h.ticks <- 123456
	if err := step(); err != nil {
		t.Fatalf("step() error = %v", err)
	}
	want := []byte{
		0x1f, 0x10, 0x1f, 0x18, 0x1f, 0x20, 0x1f, 0x30,
		0x1f, 0x00, 0x1f, 0x00, 0x1f, 0x10, 0x1f, 0x18,
	}
	if !bytes.Equal(h.fb.pix, want) {
		t.Fatalf("frame at t=123456 =\n% x\nwant\n% x", h.fb.pix, want)
	}
	if h.fb.presents != 2 {
		t.Fatalf("Present() calls = %d, want 2", h.fb.presents)
	}
}

func TestStepSkipsPresentOnRenderError(t *testing.T) {
	h := newMemHAL(4, 2, 8, hal.PixelFormatRGBA8888)
	step, err := New(h, Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := step(); err != nil {
		t.Fatalf("step() error = %v, want nil", err)
	}
	if h.fb.presents != 0 {
		t.Fatalf("Present() calls = %d, want 0", h.fb.presents)
	}
	if !strings.Contains(h.log.String(), "RGB_565") {
		t.Fatalf("log = %q, want format error", h.log.String())
	}
}

func TestStepFaultScreen(t *testing.T) {
	h := newMemHAL(64, 40, 128, hal.PixelFormatRGB565)
	step, err := New(h, Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	h.fb.panicOnLock = true

	err = step()
	if !errors.Is(err, ErrHalted) {
		t.Fatalf("step() error = %v, want ErrHalted", err)
	}
	if !strings.Contains(h.log.String(), "lock exploded") {
		t.Fatalf("log = %q, want panic value", h.log.String())
	}

	var white, ink int
	for i := 0; i < len(h.fb.pix); i += 2 {
		switch uint16(h.fb.pix[i]) | uint16(h.fb.pix[i+1])<<8 {
		case 0xFFFF:
			white++
		case 0x0000:
			ink++
		}
	}
	if white == 0 || ink == 0 {
		t.Fatalf("fault screen white=%d ink=%d, want both > 0", white, ink)
	}

	if err := step(); !errors.Is(err, ErrHalted) {
		t.Fatalf("step() after fault = %v, want ErrHalted", err)
	}
}

func TestNewRejectsBadOptions(t *testing.T) {
	h := newMemHAL(4, 2, 8, hal.PixelFormatRGB565)
	if _, err := New(h, Config{Engine: plasma.Options{FixedBits: 30}}); err == nil {
		t.Fatal("New() error = nil for FixedBits=30")
	}
	if _, err := New(nil, Config{}); err == nil {
		t.Fatal("New(nil) error = nil")
	}
}

func TestNewHostFramebuffer(t *testing.T) {
	h := hal.NewHost(hal.HostConfig{Width: 8, Height: 4, RowPadding: 4})
	step, err := New(h, Config{Engine: plasma.Options{BatchWrites: true}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := step(); err != nil {
		t.Fatalf("step() error = %v", err)
	}
	fb := h.Display().Framebuffer()
	info, err := fb.Info()
	if err != nil {
		t.Fatal(err)
	}
	pix, err := fb.Lock()
	if err != nil {
		t.Fatal(err)
	}
	defer fb.Unlock()
	if pix[0] != 0x1f || pix[1] != 0xf8 {
		t.Fatalf("pixel (0,0) = % x, want 1f f8", pix[:2])
	}
	for y := 0; y < info.Height; y++ {
		pad := pix[y*info.StrideBytes+info.Width*2 : (y+1)*info.StrideBytes]
		if !bytes.Equal(pad, make([]byte, 4)) {
			t.Fatalf("row %d padding = % x, want zeros", y, pad)
		}
	}
}

func TestTakeRunes(t *testing.T) {
	tests := []struct {
		s          string
		n          int16
		head, tail string
	}{
		{"hello", 3, "hel", "lo"},
		{"hi", 5, "hi", ""},
		{"äöü", 2, "äö", "ü"},
		{"x", 0, "", "x"},
	}
	for _, tt := range tests {
		head, tail := takeRunes(tt.s, tt.n)
		if head != tt.head || tail != tt.tail {
			t.Errorf("takeRunes(%q, %d) = %q, %q; want %q, %q", tt.s, tt.n, head, tail, tt.head, tt.tail)
		}
	}
}
