// Package render is the per-frame entry point: it checks the target surface,
// locks its pixels, and runs the plasma engine between frame-stat marks.
package render

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"plasmafx/framestats"
	"plasmafx/hal"
	"plasmafx/internal/logging"
	"plasmafx/plasma"
)

var (
	// ErrDescriptor means the surface could not describe its buffer.
	ErrDescriptor = errors.New("render: buffer descriptor unavailable")

	// ErrUnsupportedFormat means the surface is not RGB565.
	ErrUnsupportedFormat = errors.New("render: unsupported pixel format")

	// ErrLock means the surface refused to hand out its pixels.
	ErrLock = errors.New("render: lock pixels failed")

	// ErrInvalidBuffer means the locked pixels do not match the descriptor.
	ErrInvalidBuffer = errors.New("render: invalid buffer geometry")
)

// Surface is the graphics-surface collaborator. hal.Framebuffer implements it.
type Surface interface {
	Info() (hal.BufferInfo, error)
	Lock() ([]byte, error)
	Unlock()
}

// Renderer serializes frames onto surfaces.
type Renderer struct {
	mu     sync.Mutex
	engine *plasma.Engine
	stats  *framestats.Stats
	log    *slog.Logger
}

// New returns a Renderer. stats and log may be nil.
func New(engine *plasma.Engine, stats *framestats.Stats, log *slog.Logger) *Renderer {
	return &Renderer{engine: engine, stats: stats, log: logging.OrNop(log)}
}

// Render draws the frame for time t (milliseconds) onto s.
//
// On any error nothing is written and no frame statistics are recorded; the
// error has already been logged. Pixels are unlocked before Render returns
// whenever Lock succeeded.
func (r *Renderer) Render(s Surface, t int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, err := s.Info()
	if err != nil {
		r.log.Error("render: get buffer info failed", "err", err)
		return fmt.Errorf("%w: %w", ErrDescriptor, err)
	}
	if info.Format != hal.PixelFormatRGB565 {
		r.log.Error("render: bitmap format is not RGB_565", "format", info.Format.String())
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, info.Format)
	}

	pix, err := s.Lock()
	if err != nil {
		r.log.Error("render: lock pixels failed", "err", err)
		return fmt.Errorf("%w: %w", ErrLock, err)
	}
	defer s.Unlock()

	dst := plasma.Target{
		Pix:    pix,
		Width:  info.Width,
		Height: info.Height,
		Stride: info.StrideBytes,
	}
	if err := dst.Validate(); err != nil {
		r.log.Error("render: invalid buffer", "err", err,
			"width", info.Width, "height", info.Height, "stride", info.StrideBytes, "len", len(pix))
		return fmt.Errorf("%w: %w", ErrInvalidBuffer, err)
	}

	if r.stats != nil {
		r.stats.StartFrame()
	}
	r.engine.Render(&dst, t)
	if r.stats != nil {
		r.stats.EndFrame()
	}
	return nil
}
