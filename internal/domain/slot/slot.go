// Package slot splits a working window into fixed-length bookable slots and
// owns the "hh:mm tt - hh:mm tt" label used on the wire.
package slot

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultDuration is the slot length used when none is configured.
const DefaultDuration = 40 * time.Minute

const (
	MinutesPerDay = 24 * 60

	clockLayout = "15:04"
	labelLayout = "03:04 PM"
	labelSep    = " - "
)

var (
	ErrInvalidDuration = errors.New("slot: duration must be a positive whole number of minutes")
	ErrInvalidWindow   = errors.New("slot: window end must be after start")
	ErrInvalidClock    = errors.New("slot: invalid time of day")
	ErrInvalidLabel    = errors.New("slot: invalid slot label")
)

// Minute is a time of day expressed as minutes after midnight. 1440 is the
// end of the day.
type Minute int

// ParseClock parses "HH:MM" (24h). "24:00" is accepted as end of day.
func ParseClock(s string) (Minute, error) {
	s = strings.TrimSpace(s)
	if s == "24:00" {
		return MinutesPerDay, nil
	}
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return Minute(t.Hour()*60 + t.Minute()), nil
}

func (m Minute) Valid() bool {
	return m >= 0 && m <= MinutesPerDay
}

// Clock formats m as "HH:MM".
func (m Minute) Clock() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// Format renders m the way slot labels do, e.g. "09:40 AM".
func (m Minute) Format() string {
	t := time.Date(2000, time.January, 1, 0, int(m), 0, 0, time.UTC)
	return t.Format(labelLayout)
}

// On places m on the calendar day of date, in date's location.
func (m Minute) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, int(m), 0, 0, date.Location())
}

type Slot struct {
	Start Minute
	End   Minute
}

func (s Slot) Label() string {
	return s.Start.Format() + labelSep + s.End.Format()
}

func (s Slot) String() string {
	return s.Label()
}

func (s Slot) Duration() time.Duration {
	return time.Duration(s.End-s.Start) * time.Minute
}

// Overlaps reports whether the half-open ranges [Start, End) intersect.
func (s Slot) Overlaps(o Slot) bool {
	return s.Start < o.End && o.Start < s.End
}

// Generate returns the ordered slots of length d that fit in [start, end).
// A trailing period shorter than d is dropped.
func Generate(start, end Minute, d time.Duration) ([]Slot, error) {
	if d <= 0 || d%time.Minute != 0 {
		return nil, ErrInvalidDuration
	}
	if !start.Valid() || !end.Valid() || end <= start {
		return nil, ErrInvalidWindow
	}

	step := Minute(d / time.Minute)
	slots := make([]Slot, 0, int((end-start)/step))
	for cur := start; cur+step <= end; cur += step {
		slots = append(slots, Slot{Start: cur, End: cur + step})
	}
	return slots, nil
}

// ParseLabel is the inverse of Slot.Label.
func ParseLabel(label string) (Slot, error) {
	parts := strings.Split(strings.TrimSpace(label), labelSep)
	if len(parts) != 2 {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}

	start, err := parseLabelClock(parts[0])
	if err != nil {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	end, err := parseLabelClock(parts[1])
	if err != nil {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	if end == 0 && start > 0 {
		end = MinutesPerDay
	}
	if end <= start {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	return Slot{Start: start, End: end}, nil
}

func parseLabelClock(s string) (Minute, error) {
	t, err := time.Parse(labelLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return Minute(t.Hour()*60 + t.Minute()), nil
}
