package display

import (
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// DefaultAddr is the I2C address of the rig's PCF8574 backpack.
const DefaultAddr uint16 = 0x3F

// PCF8574 bit assignment on the backpack.
const (
	bitRS        = 0x01
	bitEnable    = 0x04
	bitBacklight = 0x08
)

// HD44780 commands.
const (
	cmdClear       = 0x01
	cmdEntryMode   = 0x06 // increment cursor, no shift
	cmdDisplayOn   = 0x0C // display on, cursor off, blink off
	cmdFunctionSet = 0x28 // 4-bit, 2 lines, 5x8 font
	cmdSetDDRAM    = 0x80
)

// DDRAM offsets for the two lines.
var lineOffsets = [Rows]byte{0x00, 0x40}

// LCD drives an HD44780 character display over a PCF8574 I2C backpack.
type LCD struct {
	dev  *i2c.Dev
	bus  i2c.BusCloser
	addr uint16
}

// NewLCD opens the I2C bus, initializes the panel into 4-bit mode, clears it
// and turns the backlight on. busName selects the I2C bus ("" = first
// available).
func NewLCD(busName string, addr uint16) (*LCD, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus: %w", err)
	}

	l := &LCD{
		dev:  &i2c.Dev{Addr: addr, Bus: bus},
		bus:  bus,
		addr: addr,
	}

	if err := l.init(); err != nil {
		bus.Close()
		return nil, fmt.Errorf("init lcd at 0x%02x: %w", addr, err)
	}
	return l, nil
}

// init performs the HD44780 4-bit initialization sequence.
func (l *LCD) init() error {
	time.Sleep(50 * time.Millisecond)

	// Three 8-bit function-set knocks, then switch to 4-bit mode.
	for i := 0; i < 3; i++ {
		if err := l.writeNibble(0x30, false); err != nil {
			return err
		}
		time.Sleep(5 * time.Millisecond)
	}
	if err := l.writeNibble(0x20, false); err != nil {
		return err
	}
	time.Sleep(time.Millisecond)

	for _, cmd := range []byte{cmdFunctionSet, cmdDisplayOn, cmdEntryMode} {
		if err := l.command(cmd); err != nil {
			return err
		}
	}
	return l.command(cmdClear)
}

// Write blanks the line, then renders text from column 0.
// Hardware faults are tolerated: a failed write is logged and dropped, the
// rig keeps measuring without a display.
func (l *LCD) Write(text string, line int) {
	if line < 0 || line >= Rows {
		return
	}
	if err := l.writeLine(text, line); err != nil {
		log.Printf("display: write %q line %d: %v", text, line, err)
	}
}

func (l *LCD) writeLine(text string, line int) error {
	// Blank pass.
	if err := l.setCursor(0, line); err != nil {
		return err
	}
	for i := 0; i < Columns; i++ {
		if err := l.writeByte(' ', true); err != nil {
			return err
		}
	}

	// Render pass.
	if err := l.setCursor(0, line); err != nil {
		return err
	}
	for _, ch := range []byte(pad(text)) {
		if err := l.writeByte(ch, true); err != nil {
			return err
		}
	}
	return nil
}

func (l *LCD) setCursor(col, line int) error {
	return l.command(cmdSetDDRAM | (lineOffsets[line] + byte(col)))
}

func (l *LCD) command(cmd byte) error {
	if err := l.writeByte(cmd, false); err != nil {
		return err
	}
	if cmd == cmdClear {
		// Clear is the one slow instruction.
		time.Sleep(2 * time.Millisecond)
	}
	return nil
}

// writeByte sends one byte as two nibbles. data selects the RS line
// (true = character data, false = instruction).
func (l *LCD) writeByte(b byte, data bool) error {
	if err := l.writeNibble(b&0xF0, data); err != nil {
		return err
	}
	return l.writeNibble((b<<4)&0xF0, data)
}

// writeNibble puts the high four bits of b on the data lines and pulses
// Enable. The backlight bit is kept set on every write.
func (l *LCD) writeNibble(b byte, data bool) error {
	out := b | bitBacklight
	if data {
		out |= bitRS
	}
	if err := l.dev.Tx([]byte{out | bitEnable}, nil); err != nil {
		return err
	}
	if err := l.dev.Tx([]byte{out}, nil); err != nil {
		return err
	}
	time.Sleep(50 * time.Microsecond)
	return nil
}

// Close blanks both lines and releases the I2C bus. The backlight is left on.
func (l *LCD) Close() error {
	if err := l.command(cmdClear); err != nil {
		log.Printf("display: clear on close: %v", err)
	}
	return l.bus.Close()
}
