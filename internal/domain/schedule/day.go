package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/BruksfildServices01/barber-availability/internal/domain/slot"
	"github.com/BruksfildServices01/barber-availability/internal/httperr"
	"github.com/BruksfildServices01/barber-availability/internal/models"
)

type OpenSlot struct {
	slot.Slot
	Open bool
}

// Day is the ordered slot set of one barber on one date.
type Day []OpenSlot

func NewDay(slots []slot.Slot, open bool) Day {
	d := make(Day, 0, len(slots))
	for _, s := range slots {
		d = append(d, OpenSlot{Slot: s, Open: open})
	}
	return d
}

// DayFromLabels builds a day from wire labels. Labels must parse, have the
// configured length and not overlap each other.
func DayFromLabels(labels map[string]bool, d time.Duration) (Day, error) {
	day := make(Day, 0, len(labels))
	for label, open := range labels {
		s, err := slot.ParseLabel(label)
		if err != nil {
			return nil, httperr.Validation("invalid_slot", err.Error())
		}
		if s.Duration() != d {
			return nil, httperr.Validation(
				"invalid_slot",
				fmt.Sprintf("slot %q must last %d minutes", label, int(d.Minutes())),
			)
		}
		day = append(day, OpenSlot{Slot: s, Open: open})
	}

	day.sort()
	for i := 1; i < len(day); i++ {
		if day[i-1].Overlaps(day[i].Slot) {
			return nil, httperr.Validation(
				"invalid_slot",
				fmt.Sprintf("slots %q and %q overlap", day[i-1].Label(), day[i].Label()),
			)
		}
	}
	return day, nil
}

func (d Day) sort() {
	sort.Slice(d, func(i, j int) bool { return d[i].Start < d[j].Start })
}

func (d Day) Find(s slot.Slot) (OpenSlot, bool) {
	for _, os := range d {
		if os.Slot == s {
			return os, true
		}
	}
	return OpenSlot{}, false
}

func (d Day) IsOpen(s slot.Slot) bool {
	os, ok := d.Find(s)
	return ok && os.Open
}

// Toggle returns a copy of d with the given slots set. Every slot must
// already belong to d.
func (d Day) Toggle(changes map[slot.Slot]bool) (Day, error) {
	out := make(Day, len(d))
	copy(out, d)

	for s, open := range changes {
		found := false
		for i := range out {
			if out[i].Slot == s {
				out[i].Open = open
				found = true
				break
			}
		}
		if !found {
			return nil, httperr.Validation(
				"unknown_slot",
				fmt.Sprintf("slot %q is not part of this day", s.Label()),
			)
		}
	}
	return out, nil
}

// Equal compares slot boundaries and open flags in order.
func (d Day) Equal(o Day) bool {
	if len(d) != len(o) {
		return false
	}
	for i := range d {
		if d[i] != o[i] {
			return false
		}
	}
	return true
}

func DayFromAvailability(a *models.DailyAvailability) Day {
	day := make(Day, 0, len(a.Slots))
	for _, s := range a.Slots {
		day = append(day, OpenSlot{
			Slot: slot.Slot{Start: slot.Minute(s.StartMinute), End: slot.Minute(s.EndMinute)},
			Open: s.Open,
		})
	}
	day.sort()
	return day
}

func DayFromOverride(o *models.ExceptionOverride) Day {
	day := make(Day, 0, len(o.Slots))
	for _, s := range o.Slots {
		day = append(day, OpenSlot{
			Slot: slot.Slot{Start: slot.Minute(s.StartMinute), End: slot.Minute(s.EndMinute)},
			Open: s.Open,
		})
	}
	day.sort()
	return day
}

func (d Day) AvailabilityRows() []models.AvailabilitySlot {
	rows := make([]models.AvailabilitySlot, 0, len(d))
	for _, s := range d {
		rows = append(rows, models.AvailabilitySlot{
			StartMinute: int(s.Start),
			EndMinute:   int(s.End),
			Open:        s.Open,
		})
	}
	return rows
}

func (d Day) OverrideRows() []models.OverrideSlot {
	rows := make([]models.OverrideSlot, 0, len(d))
	for _, s := range d {
		rows = append(rows, models.OverrideSlot{
			StartMinute: int(s.Start),
			EndMinute:   int(s.End),
			Open:        s.Open,
		})
	}
	return rows
}
