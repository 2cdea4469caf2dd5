package availability

import (
	"context"

	"github.com/BruksfildServices01/barber-availability/internal/domain/store"
	"github.com/BruksfildServices01/barber-availability/internal/httperr"
	"github.com/BruksfildServices01/barber-availability/internal/models"
	"github.com/BruksfildServices01/barber-availability/internal/session"
)

// ManagedBarber loads a barber the caller is allowed to manage.
func ManagedBarber(
	ctx context.Context,
	repos store.Repositories,
	sess session.Session,
	barberID uint,
) (*models.User, error) {

	barber, err := repos.Schedule.GetBarber(ctx, barberID)
	if err != nil {
		return nil, err
	}
	if !sess.CanManageBarber(barber) {
		return nil, httperr.Forbidden("forbidden", "not allowed to manage this barber")
	}
	return barber, nil
}

// VisibleBarber loads a barber of the caller's barbershop.
func VisibleBarber(
	ctx context.Context,
	repos store.Repositories,
	sess session.Session,
	barberID uint,
) (*models.User, error) {

	barber, err := repos.Schedule.GetBarber(ctx, barberID)
	if err != nil {
		return nil, err
	}
	if barber.BarbershopID != sess.BarbershopID {
		return nil, httperr.NotFound("barber_not_found", "barber not found")
	}
	return barber, nil
}
