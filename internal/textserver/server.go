package textserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/harveysanders/lcdfeed/internal/logging"
)

const (
	// ServiceType is the mDNS service type the server advertises.
	ServiceType = "_lcdfeed._tcp"
	// ServiceDomain is the mDNS domain.
	ServiceDomain = "local."
)

// Config holds the server configuration.
type Config struct {
	Host string
	Port int
	// Message is served when MessagesPath is empty.
	Message      string
	MessagesPath string
	// Advertise registers the server over mDNS as InstanceName.
	Advertise    bool
	InstanceName string
}

// Server serves a Store over HTTP.
type Server struct {
	config   *Config
	store    *Store
	interval time.Duration
	httpSrv  *http.Server
}

// New loads the messages and builds the server.
func New(config *Config) (*Server, error) {
	s := &Server{config: config}
	if config.MessagesPath != "" {
		mf, err := LoadMessages(config.MessagesPath)
		if err != nil {
			return nil, err
		}
		s.interval, _ = mf.Interval()
		s.store = NewStore(mf.Messages...)
	} else {
		s.store = NewStore(config.Message)
	}
	s.httpSrv = &http.Server{
		Handler:           &Handler{Store: s.store},
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Store returns the message store.
func (s *Server) Store() *Store { return s.store }

// Start listens and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	logging.Info("Text server listening",
		zap.String("addr", ln.Addr().String()),
		zap.Duration("rotate", s.interval),
	)

	if s.interval > 0 {
		go s.store.Rotate(ctx, s.interval)
	}

	if s.config.Advertise {
		port := ln.Addr().(*net.TCPAddr).Port
		mdns, err := zeroconf.Register(s.config.InstanceName, ServiceType, ServiceDomain, port, []string{"path=/"}, nil)
		if err != nil {
			_ = ln.Close()
			return fmt.Errorf("failed to register mDNS service: %w", err)
		}
		defer mdns.Shutdown()
		logging.Info("Advertising over mDNS",
			zap.String("instance", s.config.InstanceName),
			zap.String("service", ServiceType),
		)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpSrv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		logging.Info("Shutting down text server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
