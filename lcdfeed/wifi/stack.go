//go:build tinygo

package wifi

import (
	"errors"
	"log/slog"
	"net/netip"
	"time"

	"github.com/soypat/cyw43439"
	"github.com/soypat/lneto/x/xnet"
)

// StackConfig configures IP networking on a joined station.
type StackConfig struct {
	// Hostname is sent in DHCP requests. Required.
	Hostname string
	// MaxTCPPorts defaults to 1, enough for one request at a time.
	MaxTCPPorts int
	// RequestedAddr is asked for in the DHCP discover. If DHCP fails it is
	// assigned statically, so a valid address keeps the device reachable
	// on networks without a DHCP server.
	RequestedAddr netip.Addr
	// RandSeed is mixed into the PRNG seed used for ports and DHCP xids.
	RandSeed int64
}

// Lease is the addressing the station ended up with.
type Lease struct {
	Addr   netip.Addr
	Router netip.Addr
	DNS    []netip.Addr
	// Duration is zero for a static address.
	Duration time.Duration
	Static   bool
}

// Stack is an lneto IP stack fed by the CYW43439 radio.
type Stack struct {
	lneto xnet.StackAsync
	radio *cyw43439.Device
	log   *slog.Logger
	frame [cyw43439.MTU]byte
	lease Lease
}

const (
	pumpIdle     = 5 * time.Millisecond
	dhcpPoll     = 50 * time.Millisecond
	dhcpTimeout  = 3 * time.Second
	dhcpAttempts = 3
)

// StartStack brings up IP networking on the joined station and blocks until
// it has an address. Frames start moving before DHCP so the lease exchange
// can run.
func (p *PicoW) StartStack(cfg StackConfig) (*Stack, error) {
	if !p.Connected() {
		return nil, errors.New("stack: not associated")
	}
	if cfg.Hostname == "" {
		return nil, errors.New("stack: empty hostname")
	}
	if cfg.RequestedAddr.IsValid() && !cfg.RequestedAddr.Is4() {
		return nil, errors.New("stack: requested address must be IPv4")
	}
	mac, err := p.dev.HardwareAddr6()
	if err != nil {
		return nil, errors.New("stack: hardware address:" + err.Error())
	}

	st := &Stack{radio: p.dev, log: p.log}
	err = st.lneto.Reset(xnet.StackConfig{
		Hostname:        cfg.Hostname,
		MaxTCPConns:     max(cfg.MaxTCPPorts, 1),
		RandSeed:        time.Now().UnixNano() ^ cfg.RandSeed,
		HardwareAddress: mac,
		MTU:             cyw43439.MTU,
	})
	if err != nil {
		return nil, errors.New("stack: reset:" + err.Error())
	}
	p.dev.RecvEthHandle(func(pkt []byte) error {
		return st.lneto.Demux(pkt, 0)
	})
	go st.pump()

	st.lease, err = st.acquire(cfg.RequestedAddr)
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Stack) pump() {
	for {
		if !s.exchange() {
			time.Sleep(pumpIdle)
		}
	}
}

// exchange hands at most one received frame to the stack and sends at most
// one pending frame. It reports whether a frame moved either way.
func (s *Stack) exchange() bool {
	got, err := s.radio.PollOne()
	if err != nil {
		s.log.Debug("stack:poll", slog.String("err", err.Error()))
	}
	n, err := s.lneto.Encapsulate(s.frame[:], -1, 0)
	if err != nil {
		s.log.Debug("stack:encapsulate", slog.String("err", err.Error()))
		return got
	}
	if n == 0 {
		return got
	}
	if err := s.radio.SendEth(s.frame[:n]); err != nil {
		s.log.Debug("stack:send", slog.Int("plen", n), slog.String("err", err.Error()))
	}
	return true
}

// acquire runs DHCP, falling back to requested as a static address when
// DHCP fails and requested is set.
func (s *Stack) acquire(requested netip.Addr) (Lease, error) {
	var want [4]byte
	if requested.IsValid() {
		want = requested.As4()
	}
	retrying := s.lneto.StackRetrying(dhcpPoll)

	s.log.Info("dhcp:start", slog.String("requested", requested.String()))
	res, err := retrying.DoDHCPv4(want, dhcpTimeout, dhcpAttempts)
	if err != nil {
		if !requested.IsValid() || requested.IsUnspecified() {
			return Lease{}, errors.New("dhcp:" + err.Error())
		}
		s.log.Warn("dhcp:failed, using static address", slog.String("addr", requested.String()))
		s.lneto.SetIPAddr(requested)
		return Lease{Addr: requested, Static: true}, nil
	}

	if err := s.lneto.AssimilateDHCPResults(res); err != nil {
		return Lease{}, errors.New("dhcp results:" + err.Error())
	}
	gw, err := retrying.DoResolveHardwareAddress6(res.Router, 500*time.Millisecond, 4)
	if err != nil {
		return Lease{}, errors.New("resolve router " + res.Router.String() + ":" + err.Error())
	}
	s.lneto.SetGateway6(gw)

	return Lease{
		Addr:     res.AssignedAddr,
		Router:   res.Router,
		DNS:      res.DNSServers,
		Duration: time.Duration(res.TLease) * time.Second,
	}, nil
}

// Lease returns the addressing acquired by StartStack.
func (s *Stack) Lease() Lease {
	return s.lease
}

// Lneto returns the IP stack for DNS lookups and TCP dials.
func (s *Stack) Lneto() *xnet.StackAsync {
	return &s.lneto
}
