package availability

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-availability/internal/domain/slot"
	"github.com/BruksfildServices01/barber-availability/internal/domain/store"
	"github.com/BruksfildServices01/barber-availability/internal/httperr"
	"github.com/BruksfildServices01/barber-availability/internal/models"
	"github.com/BruksfildServices01/barber-availability/internal/timezone"
)

// Resolver answers which slots a barber offers on a date and whether a
// requested slot can be booked. It holds the clock for every use case.
type Resolver struct {
	policy schedule.Policy
	clock  func() time.Time
}

func NewResolver(policy schedule.Policy, clock func() time.Time) *Resolver {
	if clock == nil {
		clock = time.Now
	}
	return &Resolver{policy: policy, clock: clock}
}

func (r *Resolver) Policy() schedule.Policy {
	return r.policy
}

func (r *Resolver) Now() time.Time {
	return r.clock()
}

// Location is the barber's local timezone.
func Location(barber *models.User) *time.Location {
	return timezone.Location(barber.Barbershop.Timezone)
}

// Today is midnight of the current day in the barber's timezone.
func (r *Resolver) Today(barber *models.User) time.Time {
	return timezone.Midnight(r.clock(), Location(barber))
}

// Derived is the template-derived day, ignoring overrides and materialized
// days.
func (r *Resolver) Derived(
	ctx context.Context,
	repos store.Repositories,
	barberID uint,
	date time.Time,
) (schedule.Day, error) {

	rows, err := repos.Schedule.ListTemplateDays(ctx, barberID)
	if err != nil {
		return nil, err
	}
	tpl, err := schedule.TemplateFromModels(rows)
	if err != nil {
		return nil, err
	}

	entry, found := tpl.Entry(date.Weekday())
	return r.policy.FromEntry(entry, found)
}

// Day resolves the authoritative slot set: override, else materialized day,
// else template.
func (r *Resolver) Day(
	ctx context.Context,
	repos store.Repositories,
	barberID uint,
	date time.Time,
) (schedule.Day, schedule.Source, error) {

	key := schedule.FormatDate(date)

	override, err := repos.Schedule.GetOverride(ctx, barberID, key)
	if err != nil {
		return nil, "", err
	}
	if override != nil {
		d := schedule.DayFromOverride(override)
		return d, schedule.SourceOverride, nil
	}

	daily, err := repos.Schedule.GetDailyAvailability(ctx, barberID, key)
	if err != nil {
		return nil, "", err
	}
	if daily != nil {
		d := schedule.DayFromAvailability(daily)
		return d, schedule.SourceDaily, nil
	}

	derived, err := r.Derived(ctx, repos, barberID, date)
	if err != nil {
		return nil, "", err
	}
	return derived, schedule.SourceTemplate, nil
}

type CheckRequest struct {
	Barber   *models.User
	ClientID uint
	Date     time.Time
	Slot     slot.Slot

	// IgnoreAppointmentID lets a rescheduled appointment overlap itself.
	IgnoreAppointmentID uint

	// OnCreate enables the one-appointment-per-client-per-day rule.
	OnCreate bool
}

// Check runs the booking rules in order. Callers hold the barber's day
// lock so the answer stays valid until they insert the reservation.
func (r *Resolver) Check(
	ctx context.Context,
	repos store.Repositories,
	req CheckRequest,
) error {

	// 1. authoritative slot set
	day, _, err := r.Day(ctx, repos, req.Barber.ID, req.Date)
	if err != nil {
		return err
	}

	// 2. slot offered
	if !day.IsOpen(req.Slot) {
		return httperr.Conflict("slot_not_offered", "slot is not offered on this date")
	}

	// 3. not in the past
	if req.Slot.Start.On(req.Date).Before(r.clock()) {
		return httperr.Validation("slot_in_past", "slot has already started")
	}

	// 4. no overlapping active appointment for the barber
	key := schedule.FormatDate(req.Date)
	reservations, err := repos.Appointments.ListReservations(ctx, req.Barber.ID, key)
	if err != nil {
		return err
	}
	for _, res := range reservations {
		if res.AppointmentID == req.IgnoreAppointmentID {
			continue
		}
		held := slot.Slot{Start: slot.Minute(res.StartMinute), End: slot.Minute(res.EndMinute)}
		if held.Overlaps(req.Slot) {
			return httperr.Conflict("slot_taken", "slot already booked")
		}
	}

	// 5. one active appointment per client per day
	if req.OnCreate {
		busy, err := repos.Appointments.HasActiveForClientDay(ctx, req.ClientID, key)
		if err != nil {
			return err
		}
		if busy {
			return httperr.Conflict("client_already_booked", "client already has an appointment on this date")
		}
	}

	return nil
}
