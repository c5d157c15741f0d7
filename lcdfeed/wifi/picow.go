//go:build tinygo

package wifi

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/soypat/cyw43439"
)

// PicoW is a Station backed by the CYW43439 radio of the Raspberry Pi Pico W.
//
// Begin joins synchronously through JoinWPA2, so Connected reports the result
// on the first poll. After that Connected follows the chip's link state.
// Disconnect forgets the association and the next SetStationMode brings the
// chip up again from reset.
type PicoW struct {
	dev    *cyw43439.Device
	cfg    cyw43439.Config
	log    *slog.Logger
	ready  bool
	joined bool
}

var _ Station = (*PicoW)(nil)

// NewPicoW returns a station using the default CYW43439 WiFi configuration.
func NewPicoW(logger *slog.Logger) *PicoW {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(127),
		}))
	}
	return &PicoW{
		cfg: cyw43439.DefaultWifiConfig(),
		log: logger,
	}
}

// SetStationMode initializes the chip unless it is already up and idle.
func (p *PicoW) SetStationMode() error {
	if p.ready {
		return nil
	}
	start := time.Now()
	dev := cyw43439.NewPicoWDevice()
	dev.SetLogger(p.log)

	p.log.Info("initializing pico W device...")
	err := dev.Init(p.cfg)
	if err != nil {
		return errors.New("wifi init failed:" + err.Error())
	}
	p.log.Info("cyw43439:Init", slog.Duration("duration", time.Since(start)))
	p.dev = dev
	p.ready = true
	return nil
}

// Begin joins ssid. WPA2 is used unless passphrase is empty.
func (p *PicoW) Begin(ssid, passphrase string) error {
	if !p.ready {
		return errors.New("wifi: station mode not set")
	}
	err := p.dev.JoinWPA2(ssid, passphrase)
	if err != nil {
		return errors.New("join " + ssid + ":" + err.Error())
	}
	p.joined = true

	mac, err := p.dev.HardwareAddr6()
	if err == nil {
		p.log.Info("wifi join success!", slog.String("mac", net.HardwareAddr(mac[:]).String()))
	}
	return nil
}

// Connected reports whether the radio currently has a link. It goes false
// when the access point drops the station after a successful Begin.
func (p *PicoW) Connected() bool {
	return p.joined && p.dev != nil && p.dev.IsLinkUp()
}

// Disconnect marks the radio for re-initialization if a join was attempted.
func (p *PicoW) Disconnect() error {
	if p.dev == nil {
		return nil
	}
	p.joined = false
	p.ready = false
	return nil
}

// Device returns the underlying radio, nil before SetStationMode.
func (p *PicoW) Device() *cyw43439.Device {
	return p.dev
}
