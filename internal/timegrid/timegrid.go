// Package timegrid defines the discretized time-of-day domain that bookings are placed on.
package timegrid

import (
	"errors"
	"fmt"
)

// ErrInvalidTimeFormat is returned for strings that are not a valid "HH:MM" time of day.
var ErrInvalidTimeFormat = errors.New("invalid time format")

const (
	// SlotMinutes is the width of one grid cell.
	SlotMinutes = 30

	lastMinuteOfDay = 23*60 + 59
)

// Grid is a half-open range [Open, Close) of minutes since midnight split into Step-minute slots.
type Grid struct {
	Open  int
	Close int
	Step  int
}

var (
	// Default is the day view range, 09:00-22:00.
	Default = Grid{Open: 9 * 60, Close: 22 * 60, Step: SlotMinutes}
	// Week is the wider week view range, 08:00-22:00.
	Week = Grid{Open: 8 * 60, Close: 22 * 60, Step: SlotMinutes}
)

// New builds a grid from "HH:MM" bounds with the standard 30-minute step.
func New(open, close string) (Grid, error) {
	o, err := MinutesSinceDayStart(open)
	if err != nil {
		return Grid{}, fmt.Errorf("parse open: %w", err)
	}
	c, err := MinutesSinceDayStart(close)
	if err != nil {
		return Grid{}, fmt.Errorf("parse close: %w", err)
	}
	if o%SlotMinutes != 0 || c%SlotMinutes != 0 {
		return Grid{}, fmt.Errorf("grid bounds %s-%s not aligned to %d minutes", open, close, SlotMinutes)
	}
	if c <= o {
		return Grid{}, fmt.Errorf("grid close %s must be after open %s", close, open)
	}
	return Grid{Open: o, Close: c, Step: SlotMinutes}, nil
}

// Slots returns the start of every slot of the day in order.
// The slice is freshly allocated on each call.
func (g Grid) Slots() []string {
	slots := make([]string, 0, g.Len())
	for m := g.Open; m < g.Close; m += g.Step {
		slots = append(slots, Format(m))
	}
	return slots
}

// Len returns the number of slots per day
func (g Grid) Len() int {
	if g.Step <= 0 || g.Close <= g.Open {
		return 0
	}
	return (g.Close - g.Open + g.Step - 1) / g.Step
}

// OpenTime returns the opening time as "HH:MM"
func (g Grid) OpenTime() string {
	return Format(g.Open)
}

// Contains reports whether s is the start of one of the grid's slots.
func (g Grid) Contains(s string) bool {
	m, err := MinutesSinceDayStart(s)
	if err != nil {
		return false
	}
	return m >= g.Open && m < g.Close && (m-g.Open)%g.Step == 0
}

// NextSlot returns s plus one step. Hours never exceed 23: anything past
// the end of the day is pinned to 23:59.
func (g Grid) NextSlot(s string) (string, error) {
	m, err := MinutesSinceDayStart(s)
	if err != nil {
		return "", err
	}
	return Format(min(m+g.Step, lastMinuteOfDay)), nil
}

// Offset returns the distance in minutes from the grid opening to s.
// Times before the opening give a negative offset.
func (g Grid) Offset(s string) (int, error) {
	m, err := MinutesSinceDayStart(s)
	if err != nil {
		return 0, err
	}
	return m - g.Open, nil
}

// MinutesSinceDayStart parses a strict "HH:MM" string into minutes since midnight.
func MinutesSinceDayStart(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	h, ok := twoDigits(s[0], s[1])
	if !ok || h > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	m, ok := twoDigits(s[3], s[4])
	if !ok || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	return h*60 + m, nil
}

// Format renders minutes since midnight as "HH:MM".
func Format(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}
