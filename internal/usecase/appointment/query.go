package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-availability/internal/domain/store"
	"github.com/BruksfildServices01/barber-availability/internal/httperr"
	"github.com/BruksfildServices01/barber-availability/internal/models"
	"github.com/BruksfildServices01/barber-availability/internal/session"
	"github.com/BruksfildServices01/barber-availability/internal/usecase/availability"
)

type GetAppointment struct {
	txm store.TxManager
}

func NewGetAppointment(txm store.TxManager) *GetAppointment {
	return &GetAppointment{txm: txm}
}

func (uc *GetAppointment) Execute(
	ctx context.Context,
	sess session.Session,
	id uint,
) (*models.Appointment, error) {

	repos := uc.txm.Repos()
	ap, err := repos.Appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.OwnsAppointment(ap) {
		return ap, nil
	}

	barber, err := repos.Schedule.GetBarber(ctx, ap.BarberID)
	if err != nil {
		return nil, err
	}
	if !sess.CanManageBarber(barber) {
		return nil, httperr.NotFound("appointment_not_found", "appointment not found")
	}
	return ap, nil
}

// ListBarberAgenda returns every appointment of a barber on one date.
type ListBarberAgenda struct {
	txm store.TxManager
}

func NewListBarberAgenda(txm store.TxManager) *ListBarberAgenda {
	return &ListBarberAgenda{txm: txm}
}

func (uc *ListBarberAgenda) Execute(
	ctx context.Context,
	sess session.Session,
	barberID uint,
	date string,
) ([]models.Appointment, error) {

	repos := uc.txm.Repos()
	barber, err := availability.ManagedBarber(ctx, repos, sess, barberID)
	if err != nil {
		return nil, err
	}
	day, err := schedule.ParseDate(date, availability.Location(barber))
	if err != nil {
		return nil, err
	}
	return repos.Appointments.ListForBarberDay(ctx, barberID, schedule.FormatDate(day))
}

// ListClientAppointments returns the calling client's appointments,
// optionally on a single date.
type ListClientAppointments struct {
	txm store.TxManager
}

func NewListClientAppointments(txm store.TxManager) *ListClientAppointments {
	return &ListClientAppointments{txm: txm}
}

func (uc *ListClientAppointments) Execute(
	ctx context.Context,
	sess session.Session,
	date string,
) ([]models.Appointment, error) {

	if !sess.IsClient() {
		return nil, httperr.Forbidden("forbidden", "only clients have their own appointments")
	}
	if date != "" {
		if _, err := schedule.ParseDate(date, time.UTC); err != nil {
			return nil, err
		}
	}
	return uc.txm.Repos().Appointments.ListForClient(ctx, sess.UserID, date)
}
