package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/BruksfildServices01/barber-availability/internal/domain/slot"
	"github.com/BruksfildServices01/barber-availability/internal/httperr"
	"github.com/BruksfildServices01/barber-availability/internal/models"
)

type DayEntry struct {
	Weekday time.Weekday
	Enabled bool
	Start   slot.Minute
	End     slot.Minute
}

// WeeklyTemplate holds one entry per weekday, Sunday first.
type WeeklyTemplate struct {
	Days []DayEntry
}

func (t WeeklyTemplate) Validate() error {
	if len(t.Days) != 7 {
		return httperr.Validation("invalid_template", "template must have exactly 7 days")
	}

	seen := make(map[time.Weekday]bool, 7)
	for _, d := range t.Days {
		if d.Weekday < time.Sunday || d.Weekday > time.Saturday {
			return httperr.Validation("invalid_template", fmt.Sprintf("invalid weekday %d", d.Weekday))
		}
		if seen[d.Weekday] {
			return httperr.Validation("invalid_template", fmt.Sprintf("weekday %d repeated", d.Weekday))
		}
		seen[d.Weekday] = true

		if !d.Enabled {
			continue
		}
		if !d.Start.Valid() || !d.End.Valid() || d.End <= d.Start {
			return httperr.Validation(
				"invalid_template",
				fmt.Sprintf("%s: end time must be after start time", d.Weekday),
			)
		}
	}
	return nil
}

func (t WeeklyTemplate) Entry(wd time.Weekday) (DayEntry, bool) {
	for _, d := range t.Days {
		if d.Weekday == wd {
			return d, true
		}
	}
	return DayEntry{}, false
}

// TemplateFromModels converts stored rows. Rows with unparsable times are
// reported as validation errors.
func TemplateFromModels(rows []models.TemplateDay) (WeeklyTemplate, error) {
	t := WeeklyTemplate{Days: make([]DayEntry, 0, len(rows))}
	for _, r := range rows {
		e := DayEntry{Weekday: time.Weekday(r.Weekday), Enabled: r.Enabled}
		if r.Enabled {
			start, err := slot.ParseClock(r.StartTime)
			if err != nil {
				return WeeklyTemplate{}, httperr.Validation("invalid_template", err.Error())
			}
			end, err := slot.ParseClock(r.EndTime)
			if err != nil {
				return WeeklyTemplate{}, httperr.Validation("invalid_template", err.Error())
			}
			e.Start, e.End = start, end
		}
		t.Days = append(t.Days, e)
	}
	sort.Slice(t.Days, func(i, j int) bool { return t.Days[i].Weekday < t.Days[j].Weekday })
	return t, nil
}

func (t WeeklyTemplate) Models(barberID uint) []models.TemplateDay {
	rows := make([]models.TemplateDay, 0, len(t.Days))
	for _, d := range t.Days {
		row := models.TemplateDay{
			BarberID: barberID,
			Weekday:  int(d.Weekday),
			Enabled:  d.Enabled,
		}
		if d.Enabled {
			row.StartTime = d.Start.Clock()
			row.EndTime = d.End.Clock()
		}
		rows = append(rows, row)
	}
	return rows
}
