package schedule

import (
	"time"

	"github.com/BruksfildServices01/barber-availability/internal/httperr"
)

const DateLayout = "2006-01-02"

// ParseDate reads a YYYY-MM-DD calendar date as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, httperr.Validation("invalid_date", "date must be YYYY-MM-DD")
	}
	return d, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

type DateRange struct {
	From time.Time
	To   time.Time
}

func ParseRange(from, to string, loc *time.Location, maxDays int) (DateRange, error) {
	f, err := ParseDate(from, loc)
	if err != nil {
		return DateRange{}, err
	}
	t, err := ParseDate(to, loc)
	if err != nil {
		return DateRange{}, err
	}
	if t.Before(f) {
		return DateRange{}, httperr.Validation("invalid_range", "range end is before its start")
	}

	r := DateRange{From: f, To: t}
	if maxDays > 0 && len(r.Days()) > maxDays {
		return DateRange{}, httperr.Validation("range_too_long", "date range exceeds the allowed number of days")
	}
	return r, nil
}

// Days lists every date of the range, inclusive, in ascending order.
func (r DateRange) Days() []time.Time {
	var days []time.Time
	for d := r.From; !d.After(r.To); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
