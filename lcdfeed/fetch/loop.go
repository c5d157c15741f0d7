package fetch

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// DefaultPeriod is the time between fetches.
const DefaultPeriod = 30 * time.Second

// Source produces the next message to show.
type Source interface {
	Text() string
}

// Sink shows a message.
type Sink interface {
	Render(message string)
}

// Loop fetches from Source and renders on Display once per Period.
// There is never more than one fetch in flight.
type Loop struct {
	Source  Source
	Display Sink
	Period  time.Duration
	Logger  *slog.Logger
}

// Cycle runs one fetch and render and returns the rendered text. Error text
// is rendered the same way as content.
func (l *Loop) Cycle() string {
	text := l.Source.Text()
	l.Display.Render(text)
	return text
}

// Run cycles immediately and then on every tick of Period. It blocks until
// ctx is canceled, and does nothing if ctx is already done.
func (l *Loop) Run(ctx context.Context) {
	period := l.Period
	if period <= 0 {
		period = DefaultPeriod
	}
	logger := l.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if ctx.Err() != nil {
		return
	}
	l.Cycle()

	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("fetch loop stopped")
			return
		case <-ticker.C:
			start := time.Now()
			l.Cycle()
			logger.Debug("fetch:cycle", slog.Duration("took", time.Since(start)))
		}
	}
}
