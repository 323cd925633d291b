// Package display renders short status strings on the rig's 16x2 character
// LCD. The real implementation drives an HD44780 behind a PCF8574 I2C
// backpack; the fake records writes for tests.
package display

// Display geometry. The panel is a fixed 16x2 text surface, no scrolling.
const (
	Columns = 16
	Rows    = 2
)

// Display renders a line of text.
type Display interface {
	// Write blanks the target line, then renders text left-aligned from
	// column 0. Text longer than the display width is truncated. line is
	// 0-indexed; out-of-range lines are ignored.
	Write(text string, line int)
}

// pad truncates or space-fills s to exactly Columns characters, so a write
// always covers the full line. Truncation is by rune so a multibyte
// character is never split mid-sequence.
func pad(s string) string {
	r := []rune(s)
	if len(r) >= Columns {
		return string(r[:Columns])
	}
	for len(r) < Columns {
		r = append(r, ' ')
	}
	return string(r)
}
