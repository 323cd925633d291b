package display

// Write records one Display.Write call.
type Write struct {
	Text string
	Line int
}

// Fake records display writes and keeps the visible line contents, with the
// same blank-then-render semantics as the real panel.
type Fake struct {
	// Writes contains every Write call in order, unpadded.
	Writes []Write

	// Lines holds the currently visible text, padded to the display width.
	Lines [Rows]string
}

// NewFake creates a Fake with both lines blank.
func NewFake() *Fake {
	f := &Fake{}
	for i := range f.Lines {
		f.Lines[i] = pad("")
	}
	return f
}

// Write records the call and updates the visible line.
func (f *Fake) Write(text string, line int) {
	if line < 0 || line >= Rows {
		return
	}
	f.Writes = append(f.Writes, Write{Text: text, Line: line})
	f.Lines[line] = pad(text)
}

// Reset clears recorded writes and blanks the lines.
func (f *Fake) Reset() {
	f.Writes = nil
	for i := range f.Lines {
		f.Lines[i] = pad("")
	}
}
