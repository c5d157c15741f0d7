package lcdsim

import (
	"errors"
	"sync"
)

// ErrRadioOff is returned by Begin before SetStationMode.
var ErrRadioOff = errors.New("station mode not set")

// Station is a simulated WiFi radio. Networks maps the SSIDs in range to
// their passphrases; Begin with a matching passphrase associates after
// JoinPolls calls to Connected.
type Station struct {
	Networks  map[string]string
	JoinPolls int

	mu      sync.Mutex
	radioOn bool
	joining bool
	polls   int
	up      bool
	dropped bool
}

func (s *Station) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.joining, s.up, s.polls = false, false, 0
	return nil
}

func (s *Station) SetStationMode() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.radioOn = true
	return nil
}

// Begin starts a join. A wrong passphrase or an SSID out of range is not an
// error: the station simply never reports a link, as real radios do.
func (s *Station) Begin(ssid, passphrase string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.radioOn {
		return ErrRadioOff
	}
	want, ok := s.Networks[ssid]
	s.joining = ok && want == passphrase
	s.polls = 0
	return nil
}

func (s *Station) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dropped {
		return false
	}
	if s.joining && !s.up {
		s.polls++
		if s.polls >= s.JoinPolls {
			s.up = true
		}
	}
	return s.up
}

// ToggleLink simulates the access point going away and coming back. It
// returns whether the link is now dropped.
func (s *Station) ToggleLink() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropped = !s.dropped
	return s.dropped
}
