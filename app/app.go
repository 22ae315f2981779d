// Package app wires a HAL to the plasma renderer: one frame per step, timed by
// the HAL's millisecond tick stream.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"plasmafx/framestats"
	"plasmafx/hal"
	"plasmafx/internal/buildinfo"
	"plasmafx/internal/logging"
	"plasmafx/plasma"
	"plasmafx/render"
)

// ErrHalted is returned by every step after a fault.
var ErrHalted = errors.New("app: halted after fault")

type Config struct {
	Engine        plasma.Options
	StatsWindow   time.Duration
	StatsCapacity int
	LogLevel      slog.Level
}

type system struct {
	h        hal.HAL
	fb       hal.Framebuffer
	ticks    <-chan uint64
	last     uint64
	renderer *render.Renderer
	log      *slog.Logger
	halted   bool
}

// New builds the renderer for h and returns the per-frame step.
func New(h hal.HAL, cfg Config) (func() error, error) {
	s, err := newSystem(h, cfg)
	if err != nil {
		return nil, err
	}
	return s.step, nil
}

// Run renders forever (TinyGo entrypoint). It paces itself on the tick
// stream and parks after a fault, leaving the fault screen visible.
func Run(h hal.HAL, cfg Config) {
	s, err := newSystem(h, cfg)
	if err != nil {
		if l := h.Logger(); l != nil {
			l.WriteLineString(err.Error())
		}
		select {}
	}
	s.splash()
	for {
		if s.ticks != nil {
			seq, open := <-s.ticks
			if !open {
				select {}
			}
			s.last = seq
		}
		if err := s.step(); errors.Is(err, ErrHalted) {
			select {}
		}
	}
}

func newSystem(h hal.HAL, cfg Config) (*system, error) {
	if h == nil {
		return nil, errors.New("app: nil HAL")
	}
	var log *slog.Logger
	if l := h.Logger(); l != nil {
		log = logging.New(hal.LogWriter(l), cfg.LogLevel)
	}
	log = logging.OrNop(log)

	disp := h.Display()
	if disp == nil {
		return nil, errors.New("app: no display")
	}
	fb := disp.Framebuffer()
	if fb == nil {
		return nil, errors.New("app: no framebuffer")
	}

	engine, err := plasma.New(cfg.Engine)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	opts := []framestats.Option{framestats.WithLogger(log)}
	if cfg.StatsWindow > 0 {
		opts = append(opts, framestats.WithWindow(cfg.StatsWindow))
	}
	if cfg.StatsCapacity > 0 {
		opts = append(opts, framestats.WithCapacity(cfg.StatsCapacity))
	}

	s := &system{
		h:        h,
		fb:       fb,
		renderer: render.New(engine, framestats.New(opts...), log),
		log:      log,
	}
	if ht := h.Time(); ht != nil {
		s.ticks = ht.Ticks()
	}

	m := engine.Math()
	log.Debug("plasma engine ready",
		"build", buildinfo.String(),
		"fixed_one", int32(m.One()),
		"palette", len(engine.Palette()),
		"batch", cfg.Engine.BatchWrites,
	)
	return s, nil
}

// step renders the frame for the newest tick and presents it.
//
// Render failures are already logged by the renderer; the next step starts
// over. A panic is turned into the fault screen and halts the system.
func (s *system) step() (err error) {
	if s.halted {
		return ErrHalted
	}
	defer func() {
		if r := recover(); r != nil {
			s.halted = true
			s.fault(r, debug.Stack())
			err = fmt.Errorf("%w: panic: %v", ErrHalted, r)
		}
	}()

	if s.ticks != nil {
		s.last, _ = hal.LatestTick(s.ticks, s.last)
	}
	if err := s.renderer.Render(s.fb, int64(s.last)); err != nil {
		return nil
	}
	return s.fb.Present()
}
