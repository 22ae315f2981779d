//go:build tinygo && baremetal

package hal

type stubFramebuffer struct {
	w      int
	h      int
	format PixelFormat
}

func (f *stubFramebuffer) Info() (BufferInfo, error) {
	return BufferInfo{Width: f.w, Height: f.h, StrideBytes: f.w * 2, Format: f.format}, nil
}

func (f *stubFramebuffer) Lock() ([]byte, error) { return nil, ErrNoBuffer }
func (f *stubFramebuffer) Unlock()               {}
func (f *stubFramebuffer) ClearRGB(r, g, b uint8) {
	_ = r
	_ = g
	_ = b
}
func (f *stubFramebuffer) Present() error { return ErrNotImplemented }
