package logic

import "time"

// Scanner applies the debounce gate to raw button scans and maps qualifying
// presses to measurement requests.
//
// The scanner is level-triggered polling with no latching memory beyond the
// debounce clock: each button is checked independently on every scan, and a
// pressed button refreshes the clock whether or not the press is accepted.
// In shared mode that refresh hits the one clock all four buttons are
// measured against, so a bouncing or held button can starve the window for
// the others. Inherited rig behavior, kept on purpose; per-button mode is
// the configurable alternative.
type Scanner struct {
	debounce time.Duration
	mode     DebounceMode
	requests map[Button]Request

	last    time.Time            // shared clock
	lastPer map[Button]time.Time // per-button clocks
}

// NewScanner creates a Scanner. requests maps each button to the
// measurement it triggers; buttons missing from the map never fire.
func NewScanner(debounce time.Duration, mode DebounceMode, requests map[Button]Request) *Scanner {
	return &Scanner{
		debounce: debounce,
		mode:     mode,
		requests: requests,
		lastPer:  make(map[Button]time.Time),
	}
}

// Scan checks all four buttons against the scan and returns the accepted
// requests in scan order. Usually zero or one; per-button mode can accept
// several in the same scan.
func (s *Scanner) Scan(in Input) []Request {
	var out []Request

	for _, b := range Buttons {
		if !in.pressed(b) {
			continue
		}

		if in.Time.Sub(s.clockFor(b)) > s.debounce {
			if req, ok := s.requests[b]; ok {
				out = append(out, req)
			}
		}

		// Refreshed on accept AND reject.
		s.refresh(b, in.Time)
	}

	return out
}

// Rearm resets the debounce clock for b to now. The control loop calls this
// with the post-measurement time after a run completes: a measurement blocks
// the loop for far longer than the debounce window, so without the rearm a
// button still held when scanning resumes would fire a fresh measurement on
// every tick. Rearming makes a held button run exactly once.
func (s *Scanner) Rearm(b Button, now time.Time) {
	s.refresh(b, now)
}

func (s *Scanner) clockFor(b Button) time.Time {
	if s.mode == DebouncePerButton {
		return s.lastPer[b]
	}
	return s.last
}

func (s *Scanner) refresh(b Button, now time.Time) {
	if s.mode == DebouncePerButton {
		s.lastPer[b] = now
		return
	}
	s.last = now
}
