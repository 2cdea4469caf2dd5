package exception

import (
	"context"

	"github.com/BruksfildServices01/barber-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-availability/internal/domain/store"
	"github.com/BruksfildServices01/barber-availability/internal/models"
	"github.com/BruksfildServices01/barber-availability/internal/session"
	"github.com/BruksfildServices01/barber-availability/internal/usecase/availability"
)

type GetException struct {
	txm store.TxManager
}

func NewGetException(txm store.TxManager) *GetException {
	return &GetException{txm: txm}
}

func (uc *GetException) Execute(
	ctx context.Context,
	sess session.Session,
	id uint,
) (*models.ExceptionOverride, error) {

	repos := uc.txm.Repos()
	o, err := repos.Schedule.GetOverrideByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := availability.ManagedBarber(ctx, repos, sess, o.BarberID); err != nil {
		return nil, err
	}
	return o, nil
}

type ListExceptions struct {
	txm      store.TxManager
	resolver *availability.Resolver
}

func NewListExceptions(txm store.TxManager, resolver *availability.Resolver) *ListExceptions {
	return &ListExceptions{txm: txm, resolver: resolver}
}

// Execute lists exceptions on or after from; an empty from means today.
func (uc *ListExceptions) Execute(
	ctx context.Context,
	sess session.Session,
	barberID uint,
	from string,
) ([]models.ExceptionOverride, error) {

	repos := uc.txm.Repos()
	barber, err := availability.ManagedBarber(ctx, repos, sess, barberID)
	if err != nil {
		return nil, err
	}

	if from == "" {
		from = schedule.FormatDate(uc.resolver.Today(barber))
	} else if _, err := schedule.ParseDate(from, availability.Location(barber)); err != nil {
		return nil, err
	}

	return repos.Schedule.ListOverrides(ctx, barberID, from)
}
