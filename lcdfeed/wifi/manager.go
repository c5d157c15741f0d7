// Package wifi associates the device with one of several WiFi networks.
//
// Manager walks an ordered list of credentials and stops at the first one
// that associates within a bounded number of status polls. The radio itself
// sits behind the Station interface; PicoW implements it for the CYW43439 on
// the Raspberry Pi Pico W.
package wifi

import (
	"io"
	"log/slog"
	"time"
)

// Default poll bound: 20 polls, 500ms apart, per credential.
const (
	DefaultMaxPolls     = 20
	DefaultPollInterval = 500 * time.Millisecond
)

// Credential is a network name and passphrase. An empty passphrase joins an
// open network.
type Credential struct {
	SSID       string
	Passphrase string
}

// Station is a WiFi radio in station mode.
type Station interface {
	// Disconnect drops any current association.
	Disconnect() error
	// SetStationMode prepares the radio to join an access point.
	SetStationMode() error
	// Begin starts associating with the network.
	Begin(ssid, passphrase string) error
	// Connected reports whether the radio is associated.
	Connected() bool
}

// Manager tries credentials in order until one associates.
// Fields must not be changed while Connect runs.
type Manager struct {
	Station Station
	// MaxPolls bounds the status polls per credential. Defaults to DefaultMaxPolls.
	MaxPolls int
	// PollInterval is the wait before each status poll. Defaults to DefaultPollInterval.
	PollInterval time.Duration
	Logger       *slog.Logger
	// Sleep defaults to time.Sleep.
	Sleep func(time.Duration)

	attempts []int
	active   int
}

// Connect tries each credential in order and reports whether one associated.
// Earlier credentials are always tried first and later ones are skipped once
// one succeeds. Failure is not fatal: the caller keeps running without network.
func (m *Manager) Connect(credentials []Credential) bool {
	logger := m.logger()
	maxPolls := m.MaxPolls
	if maxPolls < 1 {
		maxPolls = DefaultMaxPolls
	}

	m.attempts = m.attempts[:0]
	m.active = -1
	for i, cred := range credentials {
		polls, ok := m.try(cred, maxPolls, logger)
		m.attempts = append(m.attempts, polls)
		if ok {
			m.active = i
			logger.Info("wifi:connected",
				slog.String("ssid", cred.SSID),
				slog.Int("polls", polls),
			)
			return true
		}
		logger.Warn("wifi:credential failed",
			slog.String("ssid", cred.SSID),
			slog.Int("polls", polls),
		)
		m.disconnect(logger)
	}

	logger.Error("wifi:no network joined", slog.Int("tried", len(credentials)))
	return false
}

// try runs one bounded association attempt and returns the polls spent.
func (m *Manager) try(cred Credential, maxPolls int, logger *slog.Logger) (int, bool) {
	m.disconnect(logger)

	err := m.Station.SetStationMode()
	if err != nil {
		logger.Error("wifi:station mode", slog.String("err", err.Error()))
		return 0, false
	}

	if len(cred.Passphrase) == 0 {
		logger.Info("joining open network", slog.String("ssid", cred.SSID))
	} else {
		logger.Info("joining WPA secure network", slog.String("ssid", cred.SSID), slog.Int("passlen", len(cred.Passphrase)))
	}

	err = m.Station.Begin(cred.SSID, cred.Passphrase)
	if err != nil {
		logger.Error("wifi join failed", slog.String("ssid", cred.SSID), slog.String("err", err.Error()))
		return 0, false
	}

	interval := m.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	sleep := m.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	for polls := 1; polls <= maxPolls; polls++ {
		sleep(interval)
		if m.Station.Connected() {
			return polls, true
		}
	}
	return maxPolls, false
}

func (m *Manager) disconnect(logger *slog.Logger) {
	if err := m.Station.Disconnect(); err != nil {
		logger.Debug("wifi:disconnect", slog.String("err", err.Error()))
	}
}

// Connected reports whether the station is currently associated.
func (m *Manager) Connected() bool {
	return m.Station.Connected()
}

// Attempts returns the status polls spent on each credential tried by the
// last Connect, in trial order. A credential that failed before polling
// started has zero polls.
func (m *Manager) Attempts() []int {
	return append([]int(nil), m.attempts...)
}

// Active returns the index of the credential that associated during the last
// Connect, or -1.
func (m *Manager) Active() int {
	if m.attempts == nil {
		return -1
	}
	return m.active
}

func (m *Manager) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(127), // Make temporary logger that does no logging.
	}))
}
