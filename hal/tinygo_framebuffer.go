//go:build tinygo

package hal

import "sync"

// tinyGoFramebuffer is an RGB565 buffer in MCU (or wasm) RAM.
//
// present, when set, pushes the locked-out buffer to a panel.
type tinyGoFramebuffer struct {
	mu      sync.Mutex
	locked  bool
	w       int
	h       int
	stride  int
	buf     []byte
	present func(buf []byte, info BufferInfo) error
}

func newTinyGoFramebuffer(w, h int) *tinyGoFramebuffer {
	stride := w * 2
	return &tinyGoFramebuffer{
		w:      w,
		h:      h,
		stride: stride,
		buf:    make([]byte, stride*h),
	}
}

func (f *tinyGoFramebuffer) info() BufferInfo {
	return BufferInfo{Width: f.w, Height: f.h, StrideBytes: f.stride, Format: PixelFormatRGB565}
}

func (f *tinyGoFramebuffer) Info() (BufferInfo, error) {
	if f.buf == nil {
		return BufferInfo{}, ErrNoBuffer
	}
	return f.info(), nil
}

func (f *tinyGoFramebuffer) Lock() ([]byte, error) {
	f.mu.Lock()
	f.locked = true
	return f.buf, nil
}

func (f *tinyGoFramebuffer) Unlock() {
	if !f.locked {
		return
	}
	f.locked = false
	f.mu.Unlock()
}

func (f *tinyGoFramebuffer) ClearRGB(r, g, b uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pixel := rgb565(r, g, b)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for i := 0; i < len(f.buf); i += 2 {
		f.buf[i] = lo
		f.buf[i+1] = hi
	}
}

func (f *tinyGoFramebuffer) Present() error {
	if f.present == nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.present(f.buf, f.info())
}
