//go:build !tinygo

package hal

import "sync"

// hostFramebuffer is an RGB565 buffer in host memory.
//
// mu is held from Lock until Unlock so viewers never snapshot a half-drawn frame.
type hostFramebuffer struct {
	mu     sync.Mutex
	locked bool
	closed bool
	width  int
	height int
	stride int
	buf    []byte
}

func newHostFramebuffer(width, height, padding int) *hostFramebuffer {
	if padding < 0 {
		padding = 0
	}
	stride := width*2 + padding
	return &hostFramebuffer{
		width:  width,
		height: height,
		stride: stride,
		buf:    make([]byte, stride*height),
	}
}

func (f *hostFramebuffer) Info() (BufferInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return BufferInfo{}, ErrClosed
	}
	if f.buf == nil {
		return BufferInfo{}, ErrNoBuffer
	}
	return BufferInfo{
		Width:       f.width,
		Height:      f.height,
		StrideBytes: f.stride,
		Format:      PixelFormatRGB565,
	}, nil
}

func (f *hostFramebuffer) Lock() ([]byte, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil, ErrClosed
	}
	f.locked = true
	return f.buf, nil
}

func (f *hostFramebuffer) Unlock() {
	if !f.locked {
		return
	}
	f.locked = false
	f.mu.Unlock()
}

func (f *hostFramebuffer) Present() error { return nil }

// Close releases the pixel memory; later Info/Lock calls fail with ErrClosed.
func (f *hostFramebuffer) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.buf = nil
}

func (f *hostFramebuffer) ClearRGB(r, g, b uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pixel := rgb565(r, g, b)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for y := 0; y < f.height; y++ {
		row := f.buf[y*f.stride : y*f.stride+f.width*2]
		for i := 0; i < len(row); i += 2 {
			row[i] = lo
			row[i+1] = hi
		}
	}
}

func (f *hostFramebuffer) snapshotRGB565(dst []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.buf)
}
