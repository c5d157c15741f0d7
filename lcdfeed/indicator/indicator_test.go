package indicator

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinRecorder struct {
	mu     sync.Mutex
	levels []bool
}

func (p *pinRecorder) Set(high bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.levels = append(p.levels, high)
}

func (p *pinRecorder) snapshot() []bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]bool(nil), p.levels...)
}

func TestLED_BlinkThenOn(t *testing.T) {
	pin := &pinRecorder{}
	led := &LED{Pin: pin, Period: 2 * time.Millisecond}

	led.Blink()
	led.Blink()
	require.Eventually(t, func() bool { return len(pin.snapshot()) >= 4 }, time.Second, time.Millisecond)
	led.On()

	levels := pin.snapshot()
	assert.True(t, levels[0])
	assert.False(t, levels[1])
	assert.True(t, levels[2])
	assert.True(t, levels[len(levels)-1])

	// No more toggles after On.
	n := len(levels)
	time.Sleep(10 * time.Millisecond)
	assert.Len(t, pin.snapshot(), n)
}

func TestLED_OffWithoutBlink(t *testing.T) {
	pin := &pinRecorder{}
	led := &LED{Pin: pin}

	led.Off()

	assert.Equal(t, []bool{false}, pin.snapshot())
}
