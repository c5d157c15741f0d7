// Package lcdsim runs the lcdfeed firmware logic on a desktop. The display
// controller drives an emulated LCD, WiFi is a simulated station and text is
// fetched with net/http. The emulated screen is drawn in the terminal.
package lcdsim

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/harveysanders/lcdfeed/internal/logging"
	"github.com/harveysanders/lcdfeed/lcdfeed/display"
	"github.com/harveysanders/lcdfeed/lcdfeed/display/lcdemu"
	"github.com/harveysanders/lcdfeed/lcdfeed/fetch"
	"github.com/harveysanders/lcdfeed/lcdfeed/wifi"
)

// Config holds the simulation settings.
type Config struct {
	URL    string
	Period time.Duration
	// Credentials are tried in order, as on the device.
	Credentials []wifi.Credential
	// Networks are the access points in range, SSID to passphrase.
	Networks     map[string]string
	JoinPolls    int
	MaxPolls     int
	PollInterval time.Duration
	Backlight    display.RGB
}

// Device is the simulated board: the same controller, connection manager and
// fetch loop as the firmware, wired to host stand-ins.
type Device struct {
	Emulator *lcdemu.Device
	Station  *Station
	Manager  *wifi.Manager
	Loop     *fetch.Loop

	lcd       *display.Controller
	backlight display.RGB
	status    chan string
}

// NewDevice wires a Device. Snapshots of every render are sent on snapshots,
// dropping any the receiver is not ready for.
func NewDevice(cfg Config, snapshots chan<- Snapshot) *Device {
	emu := lcdemu.New()
	station := &Station{Networks: cfg.Networks, JoinPolls: cfg.JoinPolls}
	mgr := &wifi.Manager{
		Station:      station,
		MaxPolls:     cfg.MaxPolls,
		PollInterval: cfg.PollInterval,
	}
	lcd := display.New(emu, display.Config{})
	d := &Device{
		Emulator:  emu,
		Station:   station,
		Manager:   mgr,
		lcd:       lcd,
		backlight: cfg.Backlight,
		status:    make(chan string, 8),
	}
	d.Loop = &fetch.Loop{
		Source: &fetch.Fetcher{
			URL:    cfg.URL,
			Link:   mgr,
			Client: &fetch.HTTPClient{},
		},
		Display: &watcher{Sink: lcd, emu: emu, out: snapshots},
		Period:  cfg.Period,
	}
	return d
}

// Boot runs the firmware startup: associate, switch on the display, set the
// backlight. It reports whether WiFi came up.
func (d *Device) Boot(creds []wifi.Credential) bool {
	d.setStatus("connecting")
	ok := d.Manager.Connect(creds)
	if ok {
		active := creds[d.Manager.Active()].SSID
		logging.Info("WiFi connected",
			zap.String("ssid", active),
			zap.Ints("polls", d.Manager.Attempts()),
		)
		d.setStatus("wifi: " + active)
	} else {
		logging.Warn("WiFi connection failed", zap.Ints("polls", d.Manager.Attempts()))
		d.setStatus("wifi: not connected")
	}
	d.lcd.Initialize()
	d.lcd.SetBacklight(d.backlight)
	return ok
}

func (d *Device) setStatus(s string) {
	select {
	case d.status <- s:
	default:
	}
}

// watcher forwards renders to the controller and publishes what the
// emulated screen shows afterwards.
type watcher struct {
	fetch.Sink
	emu *lcdemu.Device
	out chan<- Snapshot
}

func (w *watcher) Render(message string) {
	w.Sink.Render(message)
	r, g, b := w.emu.Backlight()
	snap := Snapshot{
		Lines:     w.emu.Lines(),
		Backlight: display.RGB{R: r, G: g, B: b},
		Text:      message,
		At:        time.Now(),
	}
	logging.LogScreen(snap.Lines[0], snap.Lines[1])
	select {
	case w.out <- snap:
	default:
	}
}

// Run boots the device, runs the fetch loop and shows the screen until the
// user quits or ctx is done.
func Run(ctx context.Context, cfg Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	snapshots := make(chan Snapshot, 4)
	dev := NewDevice(cfg, snapshots)

	go func() {
		dev.Boot(cfg.Credentials)
		dev.Loop.Run(ctx)
	}()

	m := model{
		url:       cfg.URL,
		snapshots: snapshots,
		status:    dev.status,
		toggle:    dev.Station.ToggleLink,
	}
	prog := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := prog.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("simulator: %w", err)
	}
	return nil
}
