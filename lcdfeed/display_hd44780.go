//go:build tinygo && hd44780

package main

import (
	"log/slog"
	"machine"

	"github.com/harveysanders/lcdfeed/lcdfeed/display"
)

func newDisplay(bus *machine.I2C, logger *slog.Logger) display.Renderer {
	logger.Info("display: hd44780 backpack", slog.Int("addr", int(display.BackpackAddress)))
	return display.NewHD44780(bus, display.BackpackAddress)
}
