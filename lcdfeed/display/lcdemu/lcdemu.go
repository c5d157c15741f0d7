// Package lcdemu emulates the I2C side of an AiP31068 character LCD and a
// PCA9633 LED driver.
//
// Device implements display.Bus. It decodes every transaction into display
// RAM, cursor, contrast and LED register state, and keeps a log of the raw
// transactions so tests can assert exact write sequences.
package lcdemu

import (
	"strings"
	"sync"
)

// Default addresses, matching the display package.
const (
	LCDAddress uint16 = 0x3E
	RGBAddress uint16 = 0x62
)

const (
	ddramSize = 0x80
	lineWidth = 16
	line2Addr = 0x40

	controlData = 0x40 // RS bit of the control byte
)

// PCA9633 register file.
const (
	regPWM0   = 0x02
	regPWM1   = 0x03
	regPWM2   = 0x04
	regLEDOut = 0x08
	numRegs   = 0x0D
)

// Tx is one recorded bus transaction.
type Tx struct {
	Addr uint16
	Data []byte
}

// IsCommand reports whether tx is an LCD command write.
func (tx Tx) IsCommand() bool {
	return tx.Addr == LCDAddress && len(tx.Data) == 2 && tx.Data[0]&controlData == 0
}

// IsData reports whether tx is an LCD data write.
func (tx Tx) IsData() bool {
	return tx.Addr == LCDAddress && len(tx.Data) == 2 && tx.Data[0]&controlData != 0
}

// Device is an emulated LCD and LED driver pair. The zero value is not
// usable; create one with New.
type Device struct {
	mu sync.Mutex

	ddram     [ddramSize]byte
	addr      byte
	displayOn bool
	extended  bool
	contrast  byte
	booster   bool
	follower  bool

	regs [numRegs]byte
	log  []Tx

	// Err, when non-nil, is returned from every Tx after it is recorded.
	Err error
}

// New returns a powered-up device with blank display RAM.
func New() *Device {
	d := &Device{}
	d.clear()
	return d
}

// Tx implements display.Bus. Reads are not supported and r is ignored.
func (d *Device) Tx(addr uint16, w, r []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.log = append(d.log, Tx{Addr: addr, Data: append([]byte(nil), w...)})
	switch addr {
	case LCDAddress:
		d.lcd(w)
	case RGBAddress:
		d.led(w)
	}
	return d.Err
}

func (d *Device) lcd(w []byte) {
	if len(w) < 2 {
		return
	}
	isData := w[0]&controlData != 0
	for _, b := range w[1:] {
		if isData {
			d.ddram[d.addr] = b
			d.addr = (d.addr + 1) % ddramSize
			continue
		}
		d.command(b)
	}
}

func (d *Device) command(cmd byte) {
	switch {
	case cmd&0x80 != 0:
		d.addr = cmd & 0x7F
	case cmd&0x40 != 0:
		if !d.extended {
			return // CGRAM address, not modelled
		}
		switch cmd & 0xF0 {
		case 0x70:
			d.contrast = d.contrast&0x30 | cmd&0x0F
		case 0x50:
			d.booster = cmd&0x04 != 0
			d.contrast = d.contrast&0x0F | (cmd&0x03)<<4
		case 0x60:
			d.follower = cmd&0x08 != 0
		}
	case cmd&0x20 != 0:
		d.extended = cmd&0x01 != 0
	case cmd&0x10 != 0:
		// cursor shift, or oscillator frequency in table 1
	case cmd&0x08 != 0:
		d.displayOn = cmd&0x04 != 0
	case cmd == 0x01:
		d.clear()
	case cmd&0xFE == 0x02:
		d.addr = 0
	}
}

func (d *Device) clear() {
	for i := range d.ddram {
		d.ddram[i] = ' '
	}
	d.addr = 0
}

func (d *Device) led(w []byte) {
	if len(w) < 2 {
		return
	}
	reg := w[0] & 0x1F // auto-increment flags are ignored
	if int(reg) < len(d.regs) {
		d.regs[reg] = w[1]
	}
}

// Line returns the 16 visible characters of row 0 or 1.
func (d *Device) Line(row int) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	start := 0
	if row == 1 {
		start = line2Addr
	}
	return string(d.ddram[start : start+lineWidth])
}

// Text returns row 0 or 1 without trailing blanks.
func (d *Device) Text(row int) string {
	return strings.TrimRight(d.Line(row), " ")
}

// Lines returns both visible rows.
func (d *Device) Lines() [2]string {
	return [2]string{d.Line(0), d.Line(1)}
}

// DisplayOn reports whether the display has been switched on.
func (d *Device) DisplayOn() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.displayOn
}

// Extended reports whether instruction table 1 is selected.
func (d *Device) Extended() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.extended
}

// Contrast returns the 6 bit contrast value and whether the booster and
// follower circuits are enabled.
func (d *Device) Contrast() (contrast byte, booster, follower bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.contrast, d.booster, d.follower
}

// Cursor returns the current display RAM address.
func (d *Device) Cursor() byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.addr
}

// Backlight returns the red, green and blue PWM values. The board wires red
// to PWM2 and blue to PWM0.
func (d *Device) Backlight() (r, g, b uint8) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.regs[regPWM2], d.regs[regPWM1], d.regs[regPWM0]
}

// LEDsEnabled reports whether all four LED outputs are in PWM mode.
func (d *Device) LEDsEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.regs[regLEDOut] == 0xAA
}

// Register returns the raw value of a PCA9633 register.
func (d *Device) Register(reg byte) byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	if int(reg) >= len(d.regs) {
		return 0
	}
	return d.regs[reg]
}

// Transactions returns a copy of the transaction log.
func (d *Device) Transactions() []Tx {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Tx(nil), d.log...)
}

// ResetLog discards the recorded transactions but keeps device state.
func (d *Device) ResetLog() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.log = d.log[:0]
}
