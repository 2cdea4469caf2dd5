package appointment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-availability/internal/audit"
	"github.com/BruksfildServices01/barber-availability/internal/cache"
	"github.com/BruksfildServices01/barber-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-availability/internal/domain/store"
	"github.com/BruksfildServices01/barber-availability/internal/httperr"
	"github.com/BruksfildServices01/barber-availability/internal/models"
	"github.com/BruksfildServices01/barber-availability/internal/session"
	"github.com/BruksfildServices01/barber-availability/internal/usecase/availability"
)

// transition moves an appointment to a terminal state and releases its
// reservation.
type transition struct {
	txm      store.TxManager
	resolver *availability.Resolver
	cache    *cache.AvailabilityCache
	audit    *audit.Dispatcher
	log      *zap.Logger
}

func (t *transition) run(
	ctx context.Context,
	sess session.Session,
	id uint,
	allowClient bool,
	action string,
	apply func(ap *models.Appointment, now time.Time) error,
) (*models.Appointment, error) {

	repos := t.txm.Repos()

	current, err := repos.Appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	barber, err := repos.Schedule.GetBarber(ctx, current.BarberID)
	if err != nil {
		return nil, err
	}

	switch {
	case sess.CanManageBarber(barber):
	case allowClient && sess.OwnsAppointment(current):
	case sess.OwnsAppointment(current):
		return nil, httperr.Forbidden("forbidden", "clients cannot perform this action")
	default:
		return nil, httperr.NotFound("appointment_not_found", "appointment not found")
	}

	var ap *models.Appointment
	err = t.txm.WithTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		if err := repos.Schedule.LockDay(ctx, schedule.LockScopeBarber, current.BarberID, current.Date); err != nil {
			return err
		}

		var err error
		if ap, err = repos.Appointments.GetForUpdate(ctx, id); err != nil {
			return err
		}
		if err := apply(ap, t.resolver.Now().In(availability.Location(barber))); err != nil {
			return err
		}
		if err := repos.Appointments.Update(ctx, ap); err != nil {
			return err
		}
		return repos.Appointments.Release(ctx, ap.ID)
	})
	if err != nil {
		return nil, err
	}

	if err := t.cache.InvalidateDay(ctx, ap.BarberID, ap.Date); err != nil {
		t.log.Warn("availability cache invalidation failed", zap.Error(err))
	}

	t.audit.Dispatch(audit.Event{
		BarbershopID: ap.BarbershopID,
		UserID:       audit.UintPtr(sess.UserID),
		Action:       action,
		Entity:       "appointment",
		EntityID:     audit.UintPtr(ap.ID),
		Metadata:     map[string]any{"by": string(sess.Role)},
	})
	t.log.Info(action,
		zap.Uint("appointment_id", ap.ID),
		zap.String("role", string(sess.Role)),
	)

	return ap, nil
}
