package hal

import (
	"errors"
	"strconv"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var (
	ErrNotImplemented = errors.New("not implemented")

	// ErrNoBuffer is returned by Info/Lock when the platform has no pixel memory.
	ErrNoBuffer = errors.New("framebuffer: no pixel memory")

	// ErrClosed is returned once a framebuffer has been released.
	ErrClosed = errors.New("framebuffer: closed")

	// ErrLocked is returned by Lock when the pixels are already locked.
	ErrLocked = errors.New("framebuffer: already locked")
)

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	PixelFormatNone PixelFormat = iota

	// PixelFormatRGB565 is 16bpp little-endian: rrrrrggggggbbbbb.
	PixelFormatRGB565
	PixelFormatRGBA8888
	PixelFormatRGBA4444
	PixelFormatA8
	PixelFormatRGBAF16
)

func (f PixelFormat) String() string {
	switch f {
	case PixelFormatNone:
		return "none"
	case PixelFormatRGB565:
		return "rgb565"
	case PixelFormatRGBA8888:
		return "rgba8888"
	case PixelFormatRGBA4444:
		return "rgba4444"
	case PixelFormatA8:
		return "a8"
	case PixelFormatRGBAF16:
		return "rgba_f16"
	default:
		return "format(" + strconv.Itoa(int(f)) + ")"
	}
}

// BufferInfo describes the layout of a framebuffer's pixel memory.
type BufferInfo struct {
	Width       int
	Height      int
	StrideBytes int
	Format      PixelFormat
}

// Framebuffer is a lockable pixel buffer plus a "present" hook.
//
// Pixels returned by Lock are only valid until the matching Unlock.
type Framebuffer interface {
	Info() (BufferInfo, error)
	Lock() ([]byte, error)
	Unlock()
	ClearRGB(r, g, b uint8)
	Present() error
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Time provides a base tick stream.
//
// Ticks are monotonically increasing sequence numbers, one per millisecond.
type Time interface {
	Ticks() <-chan uint64
}

// HAL provides the only contact point between the renderer and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Time() Time
}
