package main

import (
	"plasmafx/app"
	"plasmafx/internal/config"
	"plasmafx/internal/logging"
	"plasmafx/plasma"
)

func appConfig(c config.Config) app.Config {
	level, _ := logging.ParseLevel(c.LogLevel)
	return app.Config{
		Engine: plasma.Options{
			FixedBits:   c.FixedBits,
			AngleBits:   c.AngleBits,
			PaletteBits: c.PaletteBits,
			BatchWrites: c.BatchWrites,
		},
		StatsWindow:   c.StatsWindow(),
		StatsCapacity: c.StatsCapacity,
		LogLevel:      level,
	}
}
