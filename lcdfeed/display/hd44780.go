package display

import "tinygo.org/x/drivers/hd44780i2c"

// PCF8574 backpack addresses commonly found on HD44780 modules.
const (
	BackpackAddress    uint8 = 0x27
	BackpackAddressAlt uint8 = 0x3F
)

// HD44780 renders on a 16x2 HD44780 LCD behind a PCF8574 I2C backpack.
// The backpack has a single colour backlight, so SetBacklight does nothing.
type HD44780 struct {
	device hd44780i2c.Device
	// line holds one screen line so Print does not allocate.
	line [Columns]byte
}

var _ Renderer = (*HD44780)(nil)

// NewHD44780 creates a 16x2 renderer for the backpack at addr.
func NewHD44780(bus Bus, addr uint8) *HD44780 {
	return &HD44780{
		device: hd44780i2c.New(bus, addr),
	}
}

// Initialize configures the driver for the screen geometry and clears it.
func (h *HD44780) Initialize() {
	h.device.Configure(hd44780i2c.Config{
		Width:  Columns,
		Height: Rows,
	})
	h.device.ClearDisplay()
}

// SetBacklight is a no-op; the backpack backlight is not dimmable.
func (h *HD44780) SetBacklight(RGB) {}

// Render clears the screen and prints message split by Layout. A second
// line break is shown as a blank: the driver's Print would move the cursor
// on '\n' and overwrite line 1.
func (h *HD44780) Render(message string) {
	line1, line2, twoLines := Layout(message)

	h.device.ClearDisplay()
	h.device.SetCursor(0, 0)
	h.device.Print(h.fill(line1))
	if !twoLines {
		return
	}
	h.device.SetCursor(0, 1)
	h.device.Print(h.fill(line2))
}

func (h *HD44780) fill(s string) []byte {
	n := copy(h.line[:], s)
	for i, c := range h.line[:n] {
		if c == '\n' {
			h.line[i] = ' '
		}
	}
	return h.line[:n]
}
