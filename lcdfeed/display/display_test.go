package display_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harveysanders/lcdfeed/lcdfeed/display"
	"github.com/harveysanders/lcdfeed/lcdfeed/display/lcdemu"
)

type sleepRecorder struct {
	calls []time.Duration
}

func (s *sleepRecorder) sleep(d time.Duration) { s.calls = append(s.calls, d) }

func newController(t *testing.T) (*display.Controller, *lcdemu.Device, *sleepRecorder) {
	t.Helper()
	dev := lcdemu.New()
	rec := &sleepRecorder{}
	return display.New(dev, display.Config{Sleep: rec.sleep}), dev, rec
}

// commands returns the command bytes sent to the LCD in order.
func commands(txs []lcdemu.Tx) []byte {
	var out []byte
	for _, tx := range txs {
		if tx.IsCommand() {
			out = append(out, tx.Data[1])
		}
	}
	return out
}

// dataAfter returns the data bytes written after the last occurrence of cmd.
func dataAfter(txs []lcdemu.Tx, cmd byte) (string, bool) {
	start := -1
	for i, tx := range txs {
		if tx.IsCommand() && tx.Data[1] == cmd {
			start = i
		}
	}
	if start < 0 {
		return "", false
	}
	var sb strings.Builder
	for _, tx := range txs[start+1:] {
		if !tx.IsData() {
			break
		}
		sb.WriteByte(tx.Data[1])
	}
	return sb.String(), true
}

func TestController_Initialize(t *testing.T) {
	c, dev, rec := newController(t)

	c.Initialize()

	assert.Equal(t,
		[]byte{0x38, 0x39, 0x14, 0x70, 0x56, 0x6C, 0x38, 0x0C, 0x01},
		commands(dev.Transactions()))
	assert.Equal(t,
		[]time.Duration{5 * time.Millisecond, 5 * time.Millisecond, 200 * time.Millisecond, 5 * time.Millisecond},
		rec.calls)
	for _, tx := range dev.Transactions() {
		assert.Equal(t, lcdemu.LCDAddress, tx.Addr)
		assert.Len(t, tx.Data, 2, "one transaction per byte")
	}
	assert.True(t, dev.DisplayOn())
	assert.False(t, dev.Extended())
	contrast, booster, follower := dev.Contrast()
	assert.Equal(t, byte(0x20), contrast)
	assert.True(t, booster)
	assert.True(t, follower)
}

func TestController_InitializeIgnoresBusErrors(t *testing.T) {
	c, dev, _ := newController(t)
	dev.Err = errors.New("i2c: nack")

	assert.NotPanics(t, c.Initialize)
	assert.Len(t, dev.Transactions(), 9)
}

func TestController_SetBacklight(t *testing.T) {
	c, dev, _ := newController(t)

	c.SetBacklight(display.RGB{R: 1, G: 2, B: 255})

	want := []lcdemu.Tx{
		{Addr: lcdemu.RGBAddress, Data: []byte{0x00, 0x00}},
		{Addr: lcdemu.RGBAddress, Data: []byte{0x01, 0x00}},
		{Addr: lcdemu.RGBAddress, Data: []byte{0x08, 0xAA}},
		{Addr: lcdemu.RGBAddress, Data: []byte{0x04, 1}},
		{Addr: lcdemu.RGBAddress, Data: []byte{0x03, 2}},
		{Addr: lcdemu.RGBAddress, Data: []byte{0x02, 255}},
	}
	assert.Equal(t, want, dev.Transactions())
	r, g, b := dev.Backlight()
	assert.Equal(t, [3]uint8{1, 2, 255}, [3]uint8{r, g, b})
	assert.True(t, dev.LEDsEnabled())
}

func TestController_CustomAddresses(t *testing.T) {
	dev := lcdemu.New()
	c := display.New(dev, display.Config{
		LCDAddress: 0x3F,
		RGBAddress: 0x60,
		Sleep:      func(time.Duration) {},
	})

	c.Render("x")
	c.SetBacklight(display.RGB{})

	txs := dev.Transactions()
	assert.Equal(t, uint16(0x3F), txs[0].Addr)
	assert.Equal(t, uint16(0x60), txs[len(txs)-1].Addr)
}

func TestController_Render(t *testing.T) {
	tests := []struct {
		name      string
		message   string
		wantLine1 string
		wantLine2 string
		twoLines  bool
	}{
		{
			name:      "short single line",
			message:   "GG Gamers!!",
			wantLine1: "GG Gamers!!",
		},
		{
			name:      "single line truncated at 16",
			message:   "abcdefghijklmnopqrstuvwxyz",
			wantLine1: "abcdefghijklmnop",
		},
		{
			name:      "break at offset 0 leaves line 1 empty",
			message:   "\nsecond",
			wantLine1: "",
			wantLine2: "second",
			twoLines:  true,
		},
		{
			name:      "break at offset 16 fits exactly",
			message:   "0123456789abcdef\nline two",
			wantLine1: "0123456789abcdef",
			wantLine2: "line two",
			twoLines:  true,
		},
		{
			name:      "break beyond 16 truncates line 1",
			message:   "0123456789abcdefXYZ\nok",
			wantLine1: "0123456789abcdef",
			wantLine2: "ok",
			twoLines:  true,
		},
		{
			name:      "line 2 truncated at 16",
			message:   "a\n0123456789abcdefghij",
			wantLine1: "a",
			wantLine2: "0123456789abcdef",
			twoLines:  true,
		},
		{
			name:      "second break is ordinary text",
			message:   "a\nb\nc",
			wantLine1: "a",
			wantLine2: "b\nc",
			twoLines:  true,
		},
		{
			name:      "empty after break",
			message:   "only\n",
			wantLine1: "only",
			wantLine2: "",
			twoLines:  true,
		},
		{
			name:      "non-ascii bytes pass through",
			message:   "caf\xc3\xa9",
			wantLine1: "caf\xc3\xa9",
		},
		{
			name:      "empty message",
			message:   "",
			wantLine1: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, dev, rec := newController(t)

			c.Render(tt.message)
			txs := dev.Transactions()

			cmds := commands(txs)
			require.GreaterOrEqual(t, len(cmds), 2)
			assert.Equal(t, byte(0x01), cmds[0], "clear first")
			assert.Equal(t, []time.Duration{2 * time.Millisecond}, rec.calls)
			assert.Equal(t, byte(0x80), cmds[1], "cursor to line 1 origin")

			line1, ok := dataAfter(txs, 0x80)
			require.True(t, ok)
			assert.Equal(t, tt.wantLine1, line1)

			line2, ok := dataAfter(txs, 0xC0)
			assert.Equal(t, tt.twoLines, ok)
			assert.Equal(t, tt.wantLine2, line2)
			if tt.twoLines {
				assert.Equal(t, []byte{0x01, 0x80, 0xC0}, cmds)
			} else {
				assert.Equal(t, []byte{0x01, 0x80}, cmds)
			}
		})
	}
}

func TestController_RenderReplacesPreviousText(t *testing.T) {
	c, dev, _ := newController(t)

	c.Render("first message\nwith two lines")
	c.Render("next")

	assert.Equal(t, "next", dev.Text(0))
	assert.Equal(t, "", dev.Text(1))
}

func TestController_RenderShowsOnEmulatedScreen(t *testing.T) {
	c, dev, _ := newController(t)
	c.Initialize()

	c.Render("Temperature 21C and rising\nHumidity 40%")

	assert.Equal(t, [2]string{"Temperature 21C ", "Humidity 40%    "}, dev.Lines())
}

func TestController_RenderWritesOneTransactionPerByte(t *testing.T) {
	c, dev, _ := newController(t)

	c.Render("abc")

	var data int
	for _, tx := range dev.Transactions() {
		if tx.IsData() {
			data++
			assert.Equal(t, byte(0x40), tx.Data[0])
		}
	}
	assert.Equal(t, 3, data)
}
