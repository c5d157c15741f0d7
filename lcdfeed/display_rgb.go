//go:build tinygo && !hd44780

package main

import (
	"log/slog"
	"machine"

	"github.com/harveysanders/lcdfeed/lcdfeed/display"
)

func newDisplay(bus *machine.I2C, logger *slog.Logger) display.Renderer {
	return display.New(bus, display.Config{Logger: logger})
}
