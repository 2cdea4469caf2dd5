package schedule

import (
	"time"

	"github.com/BruksfildServices01/barber-availability/internal/domain/slot"
	"github.com/BruksfildServices01/barber-availability/internal/httperr"
)

// Policy carries the slot length and the business hours used for days the
// barber never configured.
type Policy struct {
	SlotDuration time.Duration
	DefaultStart slot.Minute
	DefaultEnd   slot.Minute
}

func DefaultPolicy() Policy {
	return Policy{
		SlotDuration: slot.DefaultDuration,
		DefaultStart: 9 * 60,
		DefaultEnd:   19 * 60,
	}
}

func (p Policy) Window(start, end slot.Minute, open bool) (Day, error) {
	slots, err := slot.Generate(start, end, p.SlotDuration)
	if err != nil {
		return nil, httperr.Validation("invalid_window", err.Error())
	}
	return NewDay(slots, open), nil
}

// FromEntry derives a day from a template entry. Without an entry the
// default business hours are returned all closed. A disabled entry has no
// slots.
func (p Policy) FromEntry(e DayEntry, found bool) (Day, error) {
	if !found {
		return p.Window(p.DefaultStart, p.DefaultEnd, false)
	}
	if !e.Enabled {
		return Day{}, nil
	}
	return p.Window(e.Start, e.End, true)
}

type Source string

const (
	SourceOverride Source = "override"
	SourceDaily    Source = "daily"
	SourceTemplate Source = "template"
)
