package fetch_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harveysanders/lcdfeed/lcdfeed/display"
	"github.com/harveysanders/lcdfeed/lcdfeed/display/lcdemu"
	"github.com/harveysanders/lcdfeed/lcdfeed/fetch"
	"github.com/harveysanders/lcdfeed/lcdfeed/wifi"
)

type countingSource struct {
	mu    sync.Mutex
	n     int
	texts []string
}

func (s *countingSource) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	text := s.texts[s.n%len(s.texts)]
	s.n++
	return text
}

func (s *countingSource) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

type recordingSink struct {
	mu       sync.Mutex
	rendered []string
}

func (s *recordingSink) Render(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rendered = append(s.rendered, message)
}

func TestLoop_CycleRendersErrorTextLikeContent(t *testing.T) {
	dev := lcdemu.New()
	lcd := display.New(dev, display.Config{Sleep: func(time.Duration) {}})
	loop := fetch.Loop{
		Source: &fetch.Fetcher{
			URL:    "http://10.0.0.9/",
			Link:   fakeLink{up: true},
			Client: &fakeGetter{status: 404},
		},
		Display: lcd,
	}

	got := loop.Cycle()

	assert.Equal(t, "Error: HTTP 404", got)
	assert.Equal(t, "Error: HTTP 404", dev.Text(0))
	assert.Equal(t, "", dev.Text(1))
}

func TestLoop_CycleNotConnected(t *testing.T) {
	dev := lcdemu.New()
	g := &fakeGetter{status: 200, body: "never"}
	loop := fetch.Loop{
		Source:  &fetch.Fetcher{URL: "http://10.0.0.9/", Link: fakeLink{}, Client: g},
		Display: display.New(dev, display.Config{Sleep: func(time.Duration) {}}),
	}

	loop.Cycle()

	// 25 characters, cut to the 16 column screen
	assert.Equal(t, "Error: WiFi Not ", dev.Line(0))
	assert.Empty(t, g.urls)
}

// dropStation joins on the first poll and loses the link when down is set.
type dropStation struct {
	begun bool
	down  bool
}

func (s *dropStation) Disconnect() error     { s.begun = false; return nil }
func (s *dropStation) SetStationMode() error { return nil }
func (s *dropStation) Begin(string, string) error {
	s.begun = true
	return nil
}
func (s *dropStation) Connected() bool { return s.begun && !s.down }

func TestLoop_CycleAfterLinkLoss(t *testing.T) {
	st := &dropStation{}
	mgr := &wifi.Manager{Station: st, Sleep: func(time.Duration) {}}
	require.True(t, mgr.Connect([]wifi.Credential{{SSID: "home"}}))

	dev := lcdemu.New()
	g := &fakeGetter{status: 200, body: "Hello"}
	loop := fetch.Loop{
		Source:  &fetch.Fetcher{URL: "http://10.0.0.9/", Link: mgr, Client: g},
		Display: display.New(dev, display.Config{Sleep: func(time.Duration) {}}),
	}

	assert.Equal(t, "Hello", loop.Cycle())

	st.down = true
	assert.Equal(t, fetch.TextNotConnected, loop.Cycle())
	assert.Equal(t, "Error: WiFi Not ", dev.Line(0))
	assert.Len(t, g.urls, 1, "no request once the link is gone")
}

func TestLoop_RunCyclesImmediatelyThenPeriodically(t *testing.T) {
	src := &countingSource{texts: []string{"one", "two"}}
	sink := &recordingSink{}
	loop := fetch.Loop{Source: src, Display: sink, Period: 10 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return src.count() >= 3 }, 2*time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	require.GreaterOrEqual(t, len(sink.rendered), 3)
	assert.Equal(t, []string{"one", "two", "one"}, sink.rendered[:3])
}

func TestLoop_RunSkipsCycleOnCanceledContext(t *testing.T) {
	src := &countingSource{texts: []string{"x"}}
	loop := fetch.Loop{Source: src, Display: &recordingSink{}, Period: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	loop.Run(ctx)

	assert.Zero(t, src.count())
}
