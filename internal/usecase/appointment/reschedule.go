package appointment

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-availability/internal/audit"
	"github.com/BruksfildServices01/barber-availability/internal/cache"
	domain "github.com/BruksfildServices01/barber-availability/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-availability/internal/domain/slot"
	"github.com/BruksfildServices01/barber-availability/internal/domain/store"
	"github.com/BruksfildServices01/barber-availability/internal/httperr"
	"github.com/BruksfildServices01/barber-availability/internal/metrics"
	"github.com/BruksfildServices01/barber-availability/internal/models"
	"github.com/BruksfildServices01/barber-availability/internal/session"
	"github.com/BruksfildServices01/barber-availability/internal/usecase/availability"
)

// RescheduleAppointmentInput fields left zero keep their current value.
type RescheduleAppointmentInput struct {
	ID        uint
	BarberID  uint
	ServiceID uint
	Date      string
	Slot      string
}

type RescheduleAppointment struct {
	txm      store.TxManager
	resolver *availability.Resolver
	cache    *cache.AvailabilityCache
	audit    *audit.Dispatcher
	metrics  *metrics.Metrics
	log      *zap.Logger
}

func NewRescheduleAppointment(
	txm store.TxManager,
	resolver *availability.Resolver,
	cache *cache.AvailabilityCache,
	audit *audit.Dispatcher,
	m *metrics.Metrics,
	log *zap.Logger,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		txm:      txm,
		resolver: resolver,
		cache:    cache,
		audit:    audit,
		metrics:  m,
		log:      log,
	}
}

type dayKey struct {
	barberID uint
	date     string
}

// Execute moves a pending appointment. The old reservation is released in
// the same transaction that takes the new one.
func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	sess session.Session,
	in RescheduleAppointmentInput,
) (*models.Appointment, error) {

	repos := uc.txm.Repos()

	current, err := repos.Appointments.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	currentBarber, err := repos.Schedule.GetBarber(ctx, current.BarberID)
	if err != nil {
		return nil, err
	}
	if !sess.OwnsAppointment(current) && !sess.CanManageBarber(currentBarber) {
		return nil, httperr.NotFound("appointment_not_found", "appointment not found")
	}
	if err := domain.CanReschedule(domain.Status(current.Status)); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Target barber, service, date and slot
	// --------------------------------------------------
	barber := currentBarber
	if in.BarberID != 0 && in.BarberID != current.BarberID {
		if barber, err = repos.Schedule.GetBarber(ctx, in.BarberID); err != nil {
			return nil, err
		}
		if barber.BarbershopID != current.BarbershopID {
			return nil, httperr.NotFound("barber_not_found", "barber not found")
		}
		if sess.IsStaff() && !sess.CanManageBarber(barber) {
			return nil, httperr.Forbidden("forbidden", "not allowed to move appointments to this barber")
		}
	}

	serviceID := current.BarberProductID
	if in.ServiceID != 0 {
		if _, err := repos.Appointments.GetService(ctx, current.BarbershopID, in.ServiceID); err != nil {
			return nil, err
		}
		serviceID = in.ServiceID
	}

	dateStr := current.Date
	if in.Date != "" {
		dateStr = in.Date
	}
	date, err := schedule.ParseDate(dateStr, availability.Location(barber))
	if err != nil {
		return nil, err
	}
	key := schedule.FormatDate(date)

	target := domain.SlotOf(current)
	if in.Slot != "" {
		if target, err = slot.ParseLabel(in.Slot); err != nil {
			return nil, httperr.Validation("invalid_slot", err.Error())
		}
	}

	// --------------------------------------------------
	// Lock both days in order, check, swap reservation
	// --------------------------------------------------
	locks := []dayKey{{current.BarberID, current.Date}}
	if next := (dayKey{barber.ID, key}); next != locks[0] {
		locks = append(locks, next)
	}
	sort.Slice(locks, func(i, j int) bool {
		if locks[i].barberID != locks[j].barberID {
			return locks[i].barberID < locks[j].barberID
		}
		return locks[i].date < locks[j].date
	})

	var ap *models.Appointment
	err = uc.txm.WithTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		for _, l := range locks {
			if err := repos.Schedule.LockDay(ctx, schedule.LockScopeBarber, l.barberID, l.date); err != nil {
				return err
			}
		}

		var err error
		if ap, err = repos.Appointments.GetForUpdate(ctx, in.ID); err != nil {
			return err
		}
		if err := domain.CanReschedule(domain.Status(ap.Status)); err != nil {
			return err
		}

		if err := uc.resolver.Check(ctx, repos, availability.CheckRequest{
			Barber:              barber,
			ClientID:            ap.ClientID,
			Date:                date,
			Slot:                target,
			IgnoreAppointmentID: ap.ID,
		}); err != nil {
			return err
		}

		if err := repos.Appointments.Release(ctx, ap.ID); err != nil {
			return err
		}

		ap.BarberID = barber.ID
		ap.BarberProductID = serviceID
		ap.Date = key
		ap.StartMinute = int(target.Start)
		ap.EndMinute = int(target.End)
		if err := repos.Appointments.Update(ctx, ap); err != nil {
			return err
		}
		return repos.Appointments.Reserve(ctx, domain.ReservationFor(ap))
	})
	uc.metrics.Booking(rescheduleResult(err))
	if err != nil {
		return nil, err
	}

	for _, l := range locks {
		if err := uc.cache.InvalidateDay(ctx, l.barberID, l.date); err != nil {
			uc.log.Warn("availability cache invalidation failed", zap.Error(err))
		}
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: ap.BarbershopID,
		UserID:       audit.UintPtr(sess.UserID),
		Action:       "appointment_rescheduled",
		Entity:       "appointment",
		EntityID:     audit.UintPtr(ap.ID),
		Metadata: map[string]any{
			"from": map[string]any{"barber_id": current.BarberID, "date": current.Date, "slot": domain.SlotOf(current).Label()},
			"to":   map[string]any{"barber_id": ap.BarberID, "date": ap.Date, "slot": target.Label()},
		},
	})
	uc.log.Info("appointment_rescheduled",
		zap.Uint("appointment_id", ap.ID),
		zap.String("date", ap.Date),
		zap.String("slot", target.Label()),
	)

	return ap, nil
}

func rescheduleResult(err error) string {
	if err == nil {
		return "rescheduled"
	}
	return bookingResult(err)
}
