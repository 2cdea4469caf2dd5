package appointment

import (
	"context"

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
	"github.com/BruksfildServices01/barber-availability/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	BarberID  uint   `validate:"required"`
	ServiceID uint   `validate:"required"`
	Date      string `validate:"required"`
	Slot      string `validate:"required"`

	// ClientID is taken from the session when a client books.
	ClientID uint
	Notes    string `validate:"max=255"`
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	txm      store.TxManager
	resolver *availability.Resolver
	cache    *cache.AvailabilityCache
	audit    *audit.Dispatcher
	metrics  *metrics.Metrics
	log      *zap.Logger
}

func NewCreateAppointment(
	txm store.TxManager,
	resolver *availability.Resolver,
	cache *cache.AvailabilityCache,
	audit *audit.Dispatcher,
	m *metrics.Metrics,
	log *zap.Logger,
) *CreateAppointment {
	return &CreateAppointment{
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

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	sess session.Session,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.execute(ctx, sess, in)
	uc.metrics.Booking(bookingResult(err))
	return ap, err
}

func (uc *CreateAppointment) execute(
	ctx context.Context,
	sess session.Session,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	if err := validators.Struct(in); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 1. Who books for whom
	// --------------------------------------------------
	switch {
	case sess.IsClient():
		if in.ClientID != 0 && in.ClientID != sess.UserID {
			return nil, httperr.Forbidden("forbidden", "clients can only book for themselves")
		}
		in.ClientID = sess.UserID
	case sess.IsStaff():
		if in.ClientID == 0 {
			return nil, httperr.Validation("invalid_input", "clienteId is required")
		}
	default:
		return nil, httperr.Forbidden("forbidden", "unknown role")
	}

	repos := uc.txm.Repos()

	// --------------------------------------------------
	// 2. Barber, service, client
	// --------------------------------------------------
	barber, err := availability.VisibleBarber(ctx, repos, sess, in.BarberID)
	if err != nil {
		return nil, err
	}
	if sess.IsStaff() && !sess.CanManageBarber(barber) {
		return nil, httperr.Forbidden("forbidden", "not allowed to book for this barber")
	}
	if _, err := repos.Appointments.GetService(ctx, barber.BarbershopID, in.ServiceID); err != nil {
		return nil, err
	}
	if _, err := repos.Appointments.GetClient(ctx, barber.BarbershopID, in.ClientID); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3. Date and slot
	// --------------------------------------------------
	date, err := schedule.ParseDate(in.Date, availability.Location(barber))
	if err != nil {
		return nil, err
	}
	requested, err := slot.ParseLabel(in.Slot)
	if err != nil {
		return nil, httperr.Validation("invalid_slot", err.Error())
	}
	key := schedule.FormatDate(date)

	// --------------------------------------------------
	// 4. Check and reserve atomically
	// --------------------------------------------------
	ap := &models.Appointment{
		BarbershopID:    barber.BarbershopID,
		BarberID:        barber.ID,
		ClientID:        in.ClientID,
		BarberProductID: in.ServiceID,
		Date:            key,
		StartMinute:     int(requested.Start),
		EndMinute:       int(requested.End),
		Status:          string(domain.InitialStatus()),
		Notes:           in.Notes,
	}

	err = uc.txm.WithTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		if err := repos.Schedule.LockDay(ctx, schedule.LockScopeBarber, barber.ID, key); err != nil {
			return err
		}
		if err := repos.Schedule.LockDay(ctx, schedule.LockScopeClient, in.ClientID, key); err != nil {
			return err
		}

		if err := uc.resolver.Check(ctx, repos, availability.CheckRequest{
			Barber:   barber,
			ClientID: in.ClientID,
			Date:     date,
			Slot:     requested,
			OnCreate: true,
		}); err != nil {
			return err
		}

		if err := repos.Appointments.Create(ctx, ap); err != nil {
			return err
		}
		return repos.Appointments.Reserve(ctx, domain.ReservationFor(ap))
	})
	if err != nil {
		return nil, err
	}

	if err := uc.cache.InvalidateDay(ctx, barber.ID, key); err != nil {
		uc.log.Warn("availability cache invalidation failed", zap.Error(err))
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: barber.BarbershopID,
		UserID:       audit.UintPtr(sess.UserID),
		Action:       "appointment_created",
		Entity:       "appointment",
		EntityID:     audit.UintPtr(ap.ID),
		Metadata:     map[string]any{"date": key, "slot": requested.Label()},
	})
	uc.log.Info("appointment_created",
		zap.Uint("appointment_id", ap.ID),
		zap.Uint("barber_id", barber.ID),
		zap.Uint("client_id", in.ClientID),
		zap.String("date", key),
		zap.String("slot", requested.Label()),
	)

	return ap, nil
}

func bookingResult(err error) string {
	if err == nil {
		return "created"
	}
	kind, ok := httperr.KindOf(err)
	switch {
	case !ok:
		return "error"
	case kind == httperr.KindConflict:
		return "conflict"
	default:
		return "rejected"
	}
}
