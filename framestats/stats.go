// Package framestats measures render and frame durations and periodically
// logs an aggregate.
package framestats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"plasmafx/internal/logging"
)

const (
	DefaultCapacity = 200
	DefaultWindow   = 1500 * time.Millisecond
)

type sample struct {
	render time.Duration
	frame  time.Duration
}

// Report is the aggregate of one stats window.
type Report struct {
	Frames int

	FPSAvg, FPSMin, FPSMax float64

	RenderAvg, RenderMin, RenderMax time.Duration
}

// String formats the report as frames per second and render milliseconds.
func (r Report) String() string {
	return fmt.Sprintf("frame/s (avg,min,max) = (%.1f,%.1f,%.1f) render time ms (avg,min,max) = (%.1f,%.1f,%.1f)",
		r.FPSAvg, r.FPSMin, r.FPSMax,
		millis(r.RenderAvg), millis(r.RenderMin), millis(r.RenderMax))
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

// Stats is not safe for concurrent use; the renderer serializes frames.
type Stats struct {
	now      func() time.Time
	log      *slog.Logger
	capacity int
	window   time.Duration

	frameStart  time.Time
	lastTime    time.Time
	windowStart time.Time
	samples     []sample
}

// Option configures a Stats.
type Option func(*Stats)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Stats) { s.now = now }
}

// WithLogger sets the report destination. nil disables logging.
func WithLogger(l *slog.Logger) Option {
	return func(s *Stats) { s.log = l }
}

// WithCapacity bounds the retained samples. Non-positive values are ignored.
func WithCapacity(n int) Option {
	return func(s *Stats) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithWindow sets how often a report is produced. Non-positive values are ignored.
func WithWindow(d time.Duration) Option {
	return func(s *Stats) {
		if d > 0 {
			s.window = d
		}
	}
}

// New returns a Stats with all timestamps at the Unix epoch.
//
// The first EndFrame therefore sees a huge frame time and always closes the
// (empty) initial window.
func New(opts ...Option) *Stats {
	epoch := time.Unix(0, 0)
	s := &Stats{
		now:         time.Now,
		capacity:    DefaultCapacity,
		window:      DefaultWindow,
		frameStart:  epoch,
		lastTime:    epoch,
		windowStart: epoch,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logging.OrNop(s.log)
	s.samples = make([]sample, 0, s.capacity)
	return s
}

// Len returns the number of retained samples.
func (s *Stats) Len() int { return len(s.samples) }

// StartFrame marks the beginning of rendering.
func (s *Stats) StartFrame() {
	s.frameStart = s.now()
}

// EndFrame records one sample. When the window has elapsed it first reports
// and clears the samples of the closing window; ok is true if a report was
// produced.
func (s *Stats) EndFrame() (r Report, ok bool) {
	now := s.now()
	renderTime := now.Sub(s.frameStart)
	frameTime := now.Sub(s.lastTime)

	if now.Sub(s.windowStart) >= s.window {
		if len(s.samples) > 0 {
			r, ok = s.aggregate(), true
			s.log.LogAttrs(context.Background(), slog.LevelInfo, r.String(),
				slog.Int("frames", r.Frames),
				slog.Float64("fps_avg", r.FPSAvg),
				slog.Duration("render_max", r.RenderMax),
			)
		}
		s.samples = s.samples[:0]
		s.windowStart = now
	}

	if n := len(s.samples) - s.capacity + 1; n > 0 {
		s.samples = append(s.samples[:0], s.samples[n:]...)
	}
	s.samples = append(s.samples, sample{render: renderTime, frame: frameTime})
	s.lastTime = now
	return r, ok
}

func (s *Stats) aggregate() Report {
	first := s.samples[0]
	minRender, maxRender := first.render, first.render
	minFrame, maxFrame := first.frame, first.frame
	var sumRender, sumFrame time.Duration
	for _, x := range s.samples {
		minRender = min(minRender, x.render)
		maxRender = max(maxRender, x.render)
		minFrame = min(minFrame, x.frame)
		maxFrame = max(maxFrame, x.frame)
		sumRender += x.render
		sumFrame += x.frame
	}

	n := len(s.samples)
	avgFrameUS := float64(sumFrame.Microseconds()) / float64(n)
	return Report{
		Frames:    n,
		FPSAvg:    1e6 / avgFrameUS,
		FPSMin:    1e6 / float64(maxFrame.Microseconds()),
		FPSMax:    1e6 / float64(minFrame.Microseconds()),
		RenderAvg: sumRender / time.Duration(n),
		RenderMin: minRender,
		RenderMax: maxRender,
	}
}
