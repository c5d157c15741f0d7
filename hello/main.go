//go:build tinygo

// Hello writes a fixed two-line greeting to the RGB LCD. Use it to check the
// wiring before flashing lcdfeed.
package main

import (
	"machine"
	"time"

	"github.com/harveysanders/lcdfeed/lcdfeed/display"
)

const greeting = "GG Gamers!!\nfrom TinyGo"

func main() {
	err := machine.I2C0.Configure(machine.I2CConfig{
		SDA: machine.GP4,
		SCL: machine.GP5,
	})
	if err != nil {
		for {
			println("could not configure I2C", err)
			time.Sleep(time.Second)
		}
	}

	// Both chips must ACK before anything is written.
	for _, a := range []uint16{display.LCDAddress, display.RGBAddress} {
		println("checking I2C address", a)
		if err := machine.I2C0.Tx(a, []byte{0}, nil); err != nil {
			for {
				println("no device at", a, err)
				time.Sleep(time.Second)
			}
		}
	}

	lcd := display.New(machine.I2C0, display.Config{})
	lcd.Initialize()
	lcd.SetBacklight(display.RGB{B: 255})
	lcd.Render(greeting)

	// Keep main() running
	for {
		println("done..")
		time.Sleep(time.Second * 5)
	}
}
