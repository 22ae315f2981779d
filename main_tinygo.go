//go:build tinygo

package main

import (
	"plasmafx/app"
	"plasmafx/hal"
	"plasmafx/internal/config"
)

func main() {
	cfg := config.Default()
	cfg.BatchWrites = true
	app.Run(hal.New(), appConfig(cfg))
}
