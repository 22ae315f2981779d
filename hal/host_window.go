//go:build !tinygo && cgo

package hal

import (
	"image"
	"os"

	"plasmafx/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

// WindowConfig controls the desktop window runner.
type WindowConfig struct {
	Host  HostConfig
	Hz    int
	Scale int
}

// RunWindow starts a desktop window that displays the framebuffer.
// It blocks until the window closes or step fails.
func RunWindow(newApp func(HAL) (func() error, error), cfg WindowConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	if cfg.Scale <= 0 {
		cfg.Scale = 2
	}

	h := newHostHAL(cfg.Host, os.Stdout)
	step, err := newApp(h)
	if err != nil {
		return err
	}

	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle("plasmafx (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.width*cfg.Scale, h.fb.height*cfg.Scale)
	ebiten.SetTPS(cfg.Hz)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h       *hostHAL
	img     *image.NRGBA
	fbImg   *ebiten.Image
	scratch []byte
	step    func() error
}

func (g *hostGame) Update() error {
	g.h.t.step()
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	info, err := fb.Info()
	if err != nil {
		return
	}
	if g.img == nil || g.img.Bounds().Dx() != info.Width || g.img.Bounds().Dy() != info.Height {
		g.img = image.NewNRGBA(image.Rect(0, 0, info.Width, info.Height))
		g.scratch = make([]byte, info.StrideBytes*info.Height)
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(info.Width, info.Height)
	}

	fb.snapshotRGB565(g.scratch)
	DecodeRGB565Into(g.img, g.scratch, info)

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height
}
