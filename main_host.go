//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"plasmafx/app"
	"plasmafx/hal"
	"plasmafx/internal/buildinfo"
	"plasmafx/internal/config"
)

func main() {
	var (
		configPath string
		flags      config.Flags
	)
	flag.StringVar(&configPath, "config", "", "Path to a JSON config file.")
	flag.StringVar(&flags.Mode, "mode", "", "Runner: window, headless or terminal.")
	flag.IntVar(&flags.Width, "width", 0, "Framebuffer width in pixels.")
	flag.IntVar(&flags.Height, "height", 0, "Framebuffer height in pixels.")
	flag.IntVar(&flags.Padding, "padding", 0, "Extra bytes at the end of every framebuffer row.")
	flag.IntVar(&flags.Hz, "hz", 0, "Frame rate.")
	flag.Uint64Var(&flags.Ticks, "ticks", 0, "Stop after N frames in headless/terminal mode (0 = run forever).")
	flag.BoolVar(&flags.Verbose, "v", false, "Debug logging.")
	version := flag.Bool("version", false, "Print build info and exit.")
	flag.Parse()

	if *version {
		fmt.Println(buildinfo.String())
		return
	}

	var cfg config.Config
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			fatal(err)
		}
	}
	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	newApp := func(h hal.HAL) (func() error, error) {
		return app.New(h, appConfig(cfg))
	}
	host := hal.HostConfig{Width: cfg.Width, Height: cfg.Height, RowPadding: cfg.RowPadding}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch cfg.Mode {
	case config.ModeHeadless:
		err = hal.RunHeadless(ctx, newApp, hal.HeadlessConfig{Host: host, Hz: cfg.Hz, Ticks: cfg.Ticks})
	case config.ModeTerminal:
		err = hal.RunTerminal(ctx, newApp, hal.TerminalConfig{Host: host, Hz: cfg.Hz, Ticks: cfg.Ticks})
	default:
		err = hal.RunWindow(newApp, hal.WindowConfig{Host: host, Hz: cfg.Hz})
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
