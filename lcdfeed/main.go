//go:build tinygo

// Lcdfeed shows a short text fetched over HTTP on a 16x2 RGB backlit LCD.
//
// The Pico W joins the first reachable network from the configured
// credentials, switches on the display and then fetches and renders the text
// every 30 seconds. Network failures are shown on the display instead of the
// text.
//
// Wiring: LCD SDA on GP4, SCL on GP5 (I2C0). An optional status LED on GP15
// blinks while WiFi connects and stays on once connected.
//
//	tinygo flash -target=pico-w -ldflags="-X github.com/harveysanders/lcdfeed/lcdfeed/config.ssid=$SSID -X github.com/harveysanders/lcdfeed/lcdfeed/config.pass=$PASS" ./lcdfeed
//
// Build with -tags=hd44780 for a plain HD44780 module on a PCF8574 backpack.
package main

import (
	"context"
	"log/slog"
	"machine"
	"time"

	"github.com/harveysanders/lcdfeed/lcdfeed/config"
	"github.com/harveysanders/lcdfeed/lcdfeed/fetch"
	"github.com/harveysanders/lcdfeed/lcdfeed/indicator"
	"github.com/harveysanders/lcdfeed/lcdfeed/wifi"
)

func main() {
	// Give the serial monitor a moment to attach before the first logs.
	time.Sleep(2 * time.Second)
	logger := slog.New(slog.NewTextHandler(machine.Serial, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		// Keep going: every failure below ends up as text on the display.
		logger.Error("config", slog.Any("reason", err))
	}

	statusPin := machine.GP15
	statusPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led := &indicator.LED{Pin: statusPin}
	led.Blink()

	station := wifi.NewPicoW(logger)
	mgr := &wifi.Manager{
		Station:      station,
		MaxPolls:     cfg.MaxPolls,
		PollInterval: cfg.PollInterval,
		Logger:       logger,
	}
	connected := mgr.Connect(cfg.Credentials)
	if connected {
		led.On()
	} else {
		led.Off()
	}

	// Setup LCD display over I2C
	err = machine.I2C0.Configure(machine.I2CConfig{
		SDA: machine.GP4,
		SCL: machine.GP5,
	})
	if err != nil {
		printErrForever(logger, "configure I2C", slog.Any("reason", err))
	}
	lcd := newDisplay(machine.I2C0, logger)
	lcd.Initialize()
	lcd.SetBacklight(cfg.Backlight)

	fetcher := &fetch.Fetcher{
		URL:    cfg.ServerURL,
		Link:   mgr,
		Logger: logger,
	}
	if connected {
		stack, err := station.StartStack(wifi.StackConfig{
			Hostname:    cfg.Hostname,
			MaxTCPPorts: 1,
		})
		if err != nil {
			logger.Error("network stack", slog.Any("reason", err))
		} else {
			lease := stack.Lease()
			logger.Info("network up",
				slog.String("ip", lease.Addr.String()),
				slog.String("router", lease.Router.String()),
				slog.Bool("static", lease.Static),
				slog.Duration("lease", lease.Duration),
			)
			fetcher.Client = &fetch.StackClient{
				Stack:      stack.Lneto(),
				Timeout:    10 * time.Second,
				TCPBufSize: fetch.DefaultTCPBufSize,
				Logger:     logger,
			}
		}
	}

	loop := fetch.Loop{
		Source:  fetcher,
		Display: lcd,
		Period:  cfg.RefreshPeriod,
		Logger:  logger,
	}
	loop.Run(context.Background())
}

// printErrForever logs msg once a second. It blocks forever.
func printErrForever(logger *slog.Logger, msg string, args ...any) {
	for {
		logger.Error(msg, args...)
		time.Sleep(time.Second)
	}
}
