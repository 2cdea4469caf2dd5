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

// CompleteAppointment is barber-only.
type CompleteAppointment struct {
	transition
}

func NewCompleteAppointment(
	txm store.TxManager,
	resolver *availability.Resolver,
	cache *cache.AvailabilityCache,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *CompleteAppointment {
	return &CompleteAppointment{transition{
		txm:      txm,
		resolver: resolver,
		cache:    cache,
		audit:    audit,
		log:      log,
	}}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	sess session.Session,
	appointmentID uint,
) (*models.Appointment, error) {
	return uc.run(ctx, sess, appointmentID, false, "appointment_completed", domain.Complete)
}
