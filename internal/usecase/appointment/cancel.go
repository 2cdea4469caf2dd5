package appointment

import (
	"context"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-availability/internal/audit"
	"github.com/BruksfildServices01/barber-availability/internal/cache"
	domain "github.com/BruksfildServices01/barber-availability/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-availability/internal/domain/store"
	"github.com/BruksfildServices01/barber-availability/internal/models"
	"github.com/BruksfildServices01/barber-availability/internal/session"
	"github.com/BruksfildServices01/barber-availability/internal/usecase/availability"
)

// CancelAppointment is available to the barber and to the appointment's
// own client while it is pending.
type CancelAppointment struct {
	transition
}

func NewCancelAppointment(
	txm store.TxManager,
	resolver *availability.Resolver,
	cache *cache.AvailabilityCache,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *CancelAppointment {
	return &CancelAppointment{transition{
		txm:      txm,
		resolver: resolver,
		cache:    cache,
		audit:    audit,
		log:      log,
	}}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	sess session.Session,
	appointmentID uint,
) (*models.Appointment, error) {
	return uc.run(ctx, sess, appointmentID, true, "appointment_cancelled", domain.Cancel)
}
