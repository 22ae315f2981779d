package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"plasmafx/internal/logging"
)

// Run modes.
const (
	ModeWindow   = "window"
	ModeHeadless = "headless"
	ModeTerminal = "terminal"
)

// Config holds the framebuffer geometry, runner and renderer settings.
type Config struct {
	// Framebuffer
	Width      int `json:"width"`
	Height     int `json:"height"`
	RowPadding int `json:"row_padding"`

	// Runner
	Hz    int    `json:"hz"`
	Ticks uint64 `json:"ticks"`
	Mode  string `json:"mode"`

	// Renderer
	FixedBits   uint `json:"fixed_bits"`
	AngleBits   uint `json:"angle_bits"`
	PaletteBits uint `json:"palette_bits"`
	BatchWrites bool `json:"batch_writes"`

	// Frame statistics
	StatsWindowMS int `json:"stats_window_ms"`
	StatsCapacity int `json:"stats_capacity"`

	LogLevel string `json:"log_level"`
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Mode    string
	Width   int
	Height  int
	Padding int
	Hz      int
	Ticks   uint64
	Verbose bool
}

// Default returns a resolved config with no file and no flags.
func Default() Config {
	var c Config
	c.Resolve(Flags{})
	return c
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve applies CLI overrides and fills in defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.Mode != "" {
		c.Mode = flags.Mode
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Padding > 0 {
		c.RowPadding = flags.Padding
	}
	if flags.Hz > 0 {
		c.Hz = flags.Hz
	}
	if flags.Ticks > 0 {
		c.Ticks = flags.Ticks
	}
	if flags.Verbose {
		c.LogLevel = "debug"
	}

	if c.Width == 0 {
		c.Width = 320
	}
	if c.Height == 0 {
		c.Height = 320
	}
	if c.Hz == 0 {
		c.Hz = 60
	}
	if c.Mode == "" {
		c.Mode = ModeWindow
	}
	if c.FixedBits == 0 {
		c.FixedBits = 16
	}
	if c.AngleBits == 0 {
		c.AngleBits = 8
	}
	if c.PaletteBits == 0 {
		c.PaletteBits = 8
	}
	if c.StatsWindowMS == 0 {
		c.StatsWindowMS = 1500
	}
	if c.StatsCapacity == 0 {
		c.StatsCapacity = 200
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate reports every out-of-range field of a resolved config.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("size %dx%d must be positive", c.Width, c.Height))
	}
	if c.RowPadding < 0 {
		errs = append(errs, fmt.Errorf("row_padding %d is negative", c.RowPadding))
	}
	if c.Hz <= 0 || c.Hz > 1000 {
		errs = append(errs, fmt.Errorf("hz %d out of range [1,1000]", c.Hz))
	}
	switch c.Mode {
	case ModeWindow, ModeHeadless, ModeTerminal:
	default:
		errs = append(errs, fmt.Errorf("unknown mode %q", c.Mode))
	}
	if c.FixedBits > 24 {
		errs = append(errs, fmt.Errorf("fixed_bits %d exceeds 24", c.FixedBits))
	}
	if c.AngleBits < 2 || c.AngleBits > c.FixedBits {
		errs = append(errs, fmt.Errorf("angle_bits %d out of range [2,%d]", c.AngleBits, c.FixedBits))
	}
	if c.PaletteBits < 2 || c.PaletteBits > c.FixedBits {
		errs = append(errs, fmt.Errorf("palette_bits %d out of range [2,%d]", c.PaletteBits, c.FixedBits))
	}
	if c.StatsWindowMS <= 0 {
		errs = append(errs, fmt.Errorf("stats_window_ms %d must be positive", c.StatsWindowMS))
	}
	if c.StatsCapacity <= 0 {
		errs = append(errs, fmt.Errorf("stats_capacity %d must be positive", c.StatsCapacity))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// StatsWindow returns the stats report interval.
func (c Config) StatsWindow() time.Duration {
	return time.Duration(c.StatsWindowMS) * time.Millisecond
}
