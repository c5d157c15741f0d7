package textserver

import (
	"context"
	"sync"
	"time"
)

// Store holds the message being served. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	messages []string
	current  int
	updated  time.Time
}

// NewStore returns a store serving messages[0]. An empty list serves "".
func NewStore(messages ...string) *Store {
	if len(messages) == 0 {
		messages = []string{""}
	}
	return &Store{
		messages: append([]string(nil), messages...),
		updated:  time.Now(),
	}
}

// Current returns the message being served and when it last changed.
func (s *Store) Current() (string, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.messages[s.current], s.updated
}

// Set replaces the whole list with a single message.
func (s *Store) Set(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = []string{message}
	s.current = 0
	s.updated = time.Now()
}

// Next advances to the following message, wrapping around, and returns it.
func (s *Store) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.messages) > 1 {
		s.current = (s.current + 1) % len(s.messages)
		s.updated = time.Now()
	}
	return s.messages[s.current]
}

// Rotate calls Next every interval until ctx is done.
func (s *Store) Rotate(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Next()
		}
	}
}
