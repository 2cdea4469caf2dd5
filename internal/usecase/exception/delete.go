package exception

import (
	"context"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-availability/internal/audit"
	"github.com/BruksfildServices01/barber-availability/internal/cache"
	"github.com/BruksfildServices01/barber-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-availability/internal/domain/store"
	"github.com/BruksfildServices01/barber-availability/internal/session"
	"github.com/BruksfildServices01/barber-availability/internal/usecase/availability"
)

// DeleteException removes an exception; the date falls back to its
// materialized day or the template.
type DeleteException struct {
	txm   store.TxManager
	cache *cache.AvailabilityCache
	audit *audit.Dispatcher
	log   *zap.Logger
}

func NewDeleteException(
	txm store.TxManager,
	cache *cache.AvailabilityCache,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *DeleteException {
	return &DeleteException{txm: txm, cache: cache, audit: audit, log: log}
}

func (uc *DeleteException) Execute(
	ctx context.Context,
	sess session.Session,
	id uint,
) error {

	repos := uc.txm.Repos()
	existing, err := repos.Schedule.GetOverrideByID(ctx, id)
	if err != nil {
		return err
	}
	barber, err := availability.ManagedBarber(ctx, repos, sess, existing.BarberID)
	if err != nil {
		return err
	}

	err = uc.txm.WithTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		if err := repos.Schedule.LockDay(ctx, schedule.LockScopeBarber, existing.BarberID, existing.Date); err != nil {
			return err
		}
		return repos.Schedule.DeleteOverride(ctx, id)
	})
	if err != nil {
		return err
	}

	if err := uc.cache.InvalidateDay(ctx, existing.BarberID, existing.Date); err != nil {
		uc.log.Warn("availability cache invalidation failed", zap.Error(err))
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: barber.BarbershopID,
		UserID:       audit.UintPtr(sess.UserID),
		Action:       "exception_deleted",
		Entity:       "exception_override",
		EntityID:     audit.UintPtr(id),
		Metadata:     map[string]any{"date": existing.Date},
	})
	uc.log.Info("exception_deleted",
		zap.Uint("exception_id", id),
		zap.Uint("barber_id", existing.BarberID),
		zap.String("date", existing.Date),
	)

	return nil
}
