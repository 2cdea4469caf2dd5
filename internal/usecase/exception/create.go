package exception

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-availability/internal/audit"
	"github.com/BruksfildServices01/barber-availability/internal/cache"
	apdomain "github.com/BruksfildServices01/barber-availability/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-availability/internal/domain/slot"
	"github.com/BruksfildServices01/barber-availability/internal/domain/store"
	"github.com/BruksfildServices01/barber-availability/internal/httperr"
	"github.com/BruksfildServices01/barber-availability/internal/metrics"
	"github.com/BruksfildServices01/barber-availability/internal/models"
	"github.com/BruksfildServices01/barber-availability/internal/notify"
	"github.com/BruksfildServices01/barber-availability/internal/session"
	"github.com/BruksfildServices01/barber-availability/internal/usecase/availability"
	"github.com/BruksfildServices01/barber-availability/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type CreateExceptionInput struct {
	BarberID uint   `validate:"required"`
	Date     string `validate:"required"`
	Type     string `validate:"required"`
	Reason   string `validate:"max=255"`

	// ModifiedHours takes either a window or an explicit slot map.
	WindowStart string
	WindowEnd   string
	Slots       map[string]bool
}

// ======================================================
// USE CASE
// ======================================================

type CreateException struct {
	txm      store.TxManager
	resolver *availability.Resolver
	cache    *cache.AvailabilityCache
	audit    *audit.Dispatcher
	metrics  *metrics.Metrics
	log      *zap.Logger
}

func NewCreateException(
	txm store.TxManager,
	resolver *availability.Resolver,
	cache *cache.AvailabilityCache,
	audit *audit.Dispatcher,
	m *metrics.Metrics,
	log *zap.Logger,
) *CreateException {
	return &CreateException{
		txm:      txm,
		resolver: resolver,
		cache:    cache,
		audit:    audit,
		metrics:  m,
		log:      log,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateException) Execute(
	ctx context.Context,
	sess session.Session,
	in CreateExceptionInput,
) (*models.ExceptionOverride, error) {

	if err := validators.Struct(in); err != nil {
		return nil, err
	}
	excType, err := schedule.ParseExceptionType(in.Type)
	if err != nil {
		return nil, err
	}

	repos := uc.txm.Repos()
	barber, err := availability.ManagedBarber(ctx, repos, sess, in.BarberID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 1. Future dates only
	// --------------------------------------------------
	date, err := schedule.ParseDate(in.Date, availability.Location(barber))
	if err != nil {
		return nil, err
	}
	if date.Before(uc.resolver.Today(barber)) {
		return nil, httperr.Validation("date_in_past", "exceptions can only be created for today or later")
	}
	key := schedule.FormatDate(date)

	// --------------------------------------------------
	// 2. Slot set of the exception
	// --------------------------------------------------
	day, err := uc.buildDay(excType, in)
	if err != nil {
		return nil, err
	}

	var (
		override *models.ExceptionOverride
		notice   notify.ExceptionNotice
	)
	err = uc.txm.WithTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		if err := repos.Schedule.LockDay(ctx, schedule.LockScopeBarber, in.BarberID, key); err != nil {
			return err
		}

		// --------------------------------------------------
		// 3. One exception per barber and date
		// --------------------------------------------------
		existing, err := repos.Schedule.GetOverride(ctx, in.BarberID, key)
		if err != nil {
			return err
		}
		if existing != nil {
			return httperr.Conflict("exception_already_exists", "an exception already exists for this date")
		}

		// --------------------------------------------------
		// 4. Active appointments that lose their slot
		// --------------------------------------------------
		active, err := repos.Appointments.ListActiveForBarberDay(ctx, in.BarberID, key)
		if err != nil {
			return err
		}
		booked := make([]schedule.Booked, 0, len(active))
		byID := make(map[uint]models.Appointment, len(active))
		for _, ap := range active {
			booked = append(booked, schedule.Booked{AppointmentID: ap.ID, Slot: apdomain.SlotOf(&ap)})
			byID[ap.ID] = ap
		}
		affected := schedule.Affected(day, booked)

		// --------------------------------------------------
		// 5. Persist
		// --------------------------------------------------
		override = &models.ExceptionOverride{
			BarberID:        in.BarberID,
			Date:            key,
			Type:            excType,
			Reason:          in.Reason,
			ClientsNotified: len(affected) == 0,
			Slots:           day.OverrideRows(),
		}
		for _, id := range affected {
			override.Affected = append(override.Affected, models.OverrideAffectedAppointment{AppointmentID: id})
		}
		if err := repos.Schedule.CreateOverride(ctx, override); err != nil {
			return err
		}

		if len(affected) == 0 {
			return nil
		}

		// --------------------------------------------------
		// 6. Outbox event for the notification worker
		// --------------------------------------------------
		notice = notify.ExceptionNotice{
			ExceptionID: override.ID,
			BarberID:    in.BarberID,
			Date:        key,
			Type:        schedule.ExceptionTypeWire(excType),
			Reason:      in.Reason,
		}
		for _, id := range affected {
			ap := byID[id]
			notice.Appointments = append(notice.Appointments, notify.AffectedAppointment{
				AppointmentID: ap.ID,
				ClientID:      ap.ClientID,
				Slot:          apdomain.SlotOf(&ap).Label(),
			})
		}
		payload, err := json.Marshal(notice)
		if err != nil {
			return err
		}
		return repos.Outbox.Insert(ctx, &models.OutboxEvent{
			EventType:   models.EventExceptionCreated,
			AggregateID: override.ID,
			Payload:     payload,
		})
	})
	if err != nil {
		return nil, err
	}

	if err := uc.cache.InvalidateDay(ctx, in.BarberID, key); err != nil {
		uc.log.Warn("availability cache invalidation failed", zap.Error(err))
	}

	uc.metrics.ExceptionCreated()
	uc.audit.Dispatch(audit.Event{
		BarbershopID: barber.BarbershopID,
		UserID:       audit.UintPtr(sess.UserID),
		Action:       "exception_created",
		Entity:       "exception_override",
		EntityID:     audit.UintPtr(override.ID),
		Metadata: map[string]any{
			"date":     key,
			"type":     excType,
			"affected": len(override.Affected),
		},
	})
	uc.log.Info("exception_created",
		zap.Uint("exception_id", override.ID),
		zap.Uint("barber_id", in.BarberID),
		zap.String("date", key),
		zap.Int("affected", len(override.Affected)),
	)

	return override, nil
}

func (uc *CreateException) buildDay(excType string, in CreateExceptionInput) (schedule.Day, error) {
	if excType == models.ExceptionFullDayOff {
		return schedule.Day{}, nil
	}

	policy := uc.resolver.Policy()
	switch {
	case in.WindowStart != "" || in.WindowEnd != "":
		start, err := slot.ParseClock(in.WindowStart)
		if err != nil {
			return nil, httperr.Validation("invalid_window", err.Error())
		}
		end, err := slot.ParseClock(in.WindowEnd)
		if err != nil {
			return nil, httperr.Validation("invalid_window", err.Error())
		}
		return policy.Window(start, end, true)
	case len(in.Slots) > 0:
		return schedule.DayFromLabels(in.Slots, policy.SlotDuration)
	default:
		return nil, httperr.Validation(
			"missing_modified_hours",
			"HorarioModificado requires horaInicio/horaFin or horariosModificados",
		)
	}
}
