// Package display drives a 16x2 character LCD with an RGB backlight over I2C.
//
// The supported module pairs an AiP31068 LCD controller (HD44780 compatible
// command set, ST7032 style extended instruction table) at 0x3E with a PCA9633
// four channel LED driver at 0x62 that dims the red, green and blue backlight.
// Grove "LCD RGB Backlight" and Waveshare "LCD1602 RGB" boards use this pair.
//
// Every write is its own bus transaction: a control byte selecting command or
// data followed by a single payload byte.
//
// Example usage:
//
//	lcd := display.New(machine.I2C0, display.Config{Logger: logger})
//	lcd.Initialize()
//	lcd.SetBacklight(display.RGB{B: 255})
//	lcd.Render("Hello\nWorld")
package display

import (
	"io"
	"log/slog"
	"time"

	"tinygo.org/x/drivers"
)

// Default I2C addresses of the LCD controller and the RGB LED driver.
const (
	LCDAddress uint16 = 0x3E
	RGBAddress uint16 = 0x62
)

// Display geometry.
const (
	Columns = 16
	Rows    = 2
)

// Control bytes sent ahead of every payload byte.
const (
	modeCommand byte = 0x80
	modeData    byte = 0x40
)

// LCD controller commands.
const (
	cmdClear          = 0x01
	cmdDisplayOn      = 0x0C // display on, cursor off, blink off
	cmdFunctionSet    = 0x38 // 8-bit bus, 2 lines, instruction table 0
	cmdFunctionSetExt = 0x39 // same, instruction table 1
	cmdOscillator     = 0x14 // bias 1/5, internal OSC frequency
	cmdContrast       = 0x70 // contrast low nibble
	cmdPowerIcon      = 0x56 // booster on, contrast high bits
	cmdFollower       = 0x6C // follower circuit on, amplified ratio
	cmdSetDDRAM       = 0x80

	line1Origin = 0x00
	line2Origin = 0x40
)

// PCA9633 registers.
const (
	regMode1  = 0x00
	regMode2  = 0x01
	regBlue   = 0x02
	regGreen  = 0x03
	regRed    = 0x04
	regLEDOut = 0x08

	ledOutPWM = 0xAA // every channel driven by its PWM register
)

// Settle times documented for the controller.
const (
	functionSetDelay = 5 * time.Millisecond
	powerOnDelay     = 200 * time.Millisecond
	clearInitDelay   = 5 * time.Millisecond
	clearDelay       = 2 * time.Millisecond
)

// Bus is the I2C bus shared by the LCD and LED driver chips. machine.I2C
// and the lcdemu emulator satisfy it.
type Bus = drivers.I2C

// RGB is a backlight colour. Each channel is a PWM duty cycle.
type RGB struct {
	R, G, B uint8
}

// Renderer is implemented by every display backend.
type Renderer interface {
	Initialize()
	SetBacklight(c RGB)
	Render(message string)
}

// Config customizes a Controller. The zero value is usable.
type Config struct {
	// LCDAddress defaults to 0x3E.
	LCDAddress uint16
	// RGBAddress defaults to 0x62.
	RGBAddress uint16
	// Sleep blocks for the controller settle times. Defaults to time.Sleep.
	Sleep func(time.Duration)
	// Logger receives failed bus writes at debug level.
	Logger *slog.Logger
}

// Controller drives the LCD and backlight through a Bus.
// It is not safe for concurrent use.
type Controller struct {
	bus     Bus
	lcdAddr uint16
	rgbAddr uint16
	sleep   func(time.Duration)
	log     *slog.Logger
	// tx is reused for every transaction so rendering does not allocate.
	tx [2]byte
}

var _ Renderer = (*Controller)(nil)

// New returns a Controller writing to bus.
func New(bus Bus, cfg Config) *Controller {
	c := &Controller{
		bus:     bus,
		lcdAddr: cfg.LCDAddress,
		rgbAddr: cfg.RGBAddress,
		sleep:   cfg.Sleep,
		log:     cfg.Logger,
	}
	if c.lcdAddr == 0 {
		c.lcdAddr = LCDAddress
	}
	if c.rgbAddr == 0 {
		c.rgbAddr = RGBAddress
	}
	if c.sleep == nil {
		c.sleep = time.Sleep
	}
	if c.log == nil {
		c.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

// Initialize programs the controller: extended function set, oscillator,
// contrast, power and follower, then back to the normal instruction table
// with the display on and cleared. A missing device leaves the screen blank;
// no error is reported.
func (c *Controller) Initialize() {
	c.command(cmdFunctionSet)
	c.sleep(functionSetDelay)
	c.command(cmdFunctionSetExt)
	c.sleep(functionSetDelay)
	c.command(cmdOscillator)
	c.command(cmdContrast)
	c.command(cmdPowerIcon)
	c.command(cmdFollower)
	c.sleep(powerOnDelay)
	c.command(cmdFunctionSet)
	c.command(cmdDisplayOn)
	c.command(cmdClear)
	c.sleep(clearInitDelay)
}

// SetBacklight enables all LED outputs in PWM mode and writes the three
// channel intensities.
func (c *Controller) SetBacklight(col RGB) {
	c.register(regMode1, 0x00)
	c.register(regMode2, 0x00)
	c.register(regLEDOut, ledOutPWM)
	c.register(regRed, col.R)
	c.register(regGreen, col.G)
	c.register(regBlue, col.B)
}

// Render clears the screen and writes message split by Layout. Line 2 is
// only addressed when message contains a line break.
func (c *Controller) Render(message string) {
	c.command(cmdClear)
	c.sleep(clearDelay)

	line1, line2, twoLines := Layout(message)
	c.command(cmdSetDDRAM | line1Origin)
	c.print(line1)
	if !twoLines {
		return
	}
	c.command(cmdSetDDRAM | line2Origin)
	c.print(line2)
}

func (c *Controller) print(line string) {
	for i := 0; i < len(line); i++ {
		c.write(c.lcdAddr, modeData, line[i])
	}
}

func (c *Controller) command(cmd byte) {
	c.write(c.lcdAddr, modeCommand, cmd)
}

func (c *Controller) register(reg, value byte) {
	c.write(c.rgbAddr, reg, value)
}

func (c *Controller) write(addr uint16, b0, b1 byte) {
	c.tx[0] = b0
	c.tx[1] = b1
	if err := c.bus.Tx(addr, c.tx[:], nil); err != nil {
		c.log.Debug("display:tx failed",
			slog.Int("addr", int(addr)),
			slog.Int("b0", int(b0)),
			slog.String("err", err.Error()),
		)
	}
}
