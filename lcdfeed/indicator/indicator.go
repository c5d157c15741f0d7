// Package indicator drives a single status LED: blinking while WiFi
// connects, steady on once connected and off without a network.
package indicator

import (
	"sync"
	"time"
)

// DefaultPeriod is the on+off time of one blink.
const DefaultPeriod = 500 * time.Millisecond

// Pin is a digital output such as machine.Pin.
type Pin interface {
	Set(high bool)
}

// LED is a status LED on Pin. The zero value with Pin set is ready to use.
type LED struct {
	Pin    Pin
	Period time.Duration

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// Blink toggles the LED until On or Off is called. Calling Blink while
// already blinking does nothing.
func (l *LED) Blink() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stop != nil {
		return
	}
	period := l.Period
	if period <= 0 {
		period = DefaultPeriod
	}
	l.stop = make(chan struct{})
	l.done = make(chan struct{})
	go l.blink(period/2, l.stop, l.done)
}

func (l *LED) blink(half time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(half)
	defer ticker.Stop()
	on := true
	l.Pin.Set(on)
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			on = !on
			l.Pin.Set(on)
		}
	}
}

// On stops blinking and lights the LED.
func (l *LED) On() { l.set(true) }

// Off stops blinking and switches the LED off.
func (l *LED) Off() { l.set(false) }

func (l *LED) set(high bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stop != nil {
		close(l.stop)
		<-l.done
		l.stop, l.done = nil, nil
	}
	l.Pin.Set(high)
}
