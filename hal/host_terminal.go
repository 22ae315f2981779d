//go:build !tinygo

package hal

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
)

// TerminalConfig controls the terminal runner.
type TerminalConfig struct {
	Host  HostConfig
	Hz    int
	Ticks uint64
}

// RunTerminal shows the framebuffer in a true-color terminal.
//
// Each cell carries two vertically stacked pixels drawn with an upper half
// block. Log lines are buffered while the screen is active and written to
// stderr once it is torn down. Esc, q or Ctrl-C stop the runner.
func RunTerminal(ctx context.Context, newApp func(HAL) (func() error, error), cfg TerminalConfig) (err error) {
	if cfg.Hz <= 0 {
		cfg.Hz = 30
	}

	var logBuf bytes.Buffer
	h := newHostHAL(cfg.Host, &logBuf)
	defer func() {
		_, _ = os.Stderr.Write(logBuf.Bytes())
	}()

	step, err := newApp(h)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: new screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: init: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()
	screen.Clear()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			if k, ok := ev.(*tcell.EventKey); ok && isQuitKey(k) {
				cancel()
				return
			}
		}
	}()

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid terminal hz: %d", cfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	scratch := make([]byte, 0)
	var frame uint64
	for {
		select {
		case <-ctx.Done():
			if ctx.Err() == context.Canceled {
				return nil
			}
			return ctx.Err()
		case <-t.C:
			h.t.step()
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			info, err := h.fb.Info()
			if err != nil {
				return err
			}
			if need := info.StrideBytes * info.Height; len(scratch) != need {
				scratch = make([]byte, need)
			}
			h.fb.snapshotRGB565(scratch)
			drawHalfBlocks(screen, scratch, info)
			screen.Show()

			frame++
			if cfg.Ticks > 0 && frame >= cfg.Ticks {
				return nil
			}
		}
	}
}

func isQuitKey(k *tcell.EventKey) bool {
	switch k.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return k.Rune() == 'q'
	}
	return false
}

// drawHalfBlocks samples the framebuffer down to the screen size.
func drawHalfBlocks(screen tcell.Screen, pix []byte, info BufferInfo) {
	cols, rows := screen.Size()
	if cols <= 0 || rows <= 0 {
		return
	}
	for cy := 0; cy < rows; cy++ {
		top := (cy * 2) * info.Height / (rows * 2)
		bottom := (cy*2 + 1) * info.Height / (rows * 2)
		for cx := 0; cx < cols; cx++ {
			x := cx * info.Width / cols
			fg := ColorAt(pix, info, x, top)
			bg := ColorAt(pix, info, x, bottom)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(fg.R), int32(fg.G), int32(fg.B))).
				Background(tcell.NewRGBColor(int32(bg.R), int32(bg.G), int32(bg.B)))
			screen.SetContent(cx, cy, '▀', nil, style)
		}
	}
}
