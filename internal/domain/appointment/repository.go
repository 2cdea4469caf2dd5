package appointment

import (
	"context"

	"github.com/BruksfildServices01/barber-availability/internal/models"
)

type Repository interface {
	// -------- Service / Client --------
	GetService(
		ctx context.Context,
		barbershopID uint,
		serviceID uint,
	) (*models.BarberProduct, error)

	GetClient(
		ctx context.Context,
		barbershopID uint,
		clientID uint,
	) (*models.Client, error)

	// -------- Appointment --------
	GetByID(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	GetForUpdate(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	Create(
		ctx context.Context,
		ap *models.Appointment,
	) error

	Update(
		ctx context.Context,
		ap *models.Appointment,
	) error

	ListForBarberDay(
		ctx context.Context,
		barberID uint,
		date string,
	) ([]models.Appointment, error)

	ListActiveForBarberDay(
		ctx context.Context,
		barberID uint,
		date string,
	) ([]models.Appointment, error)

	ListForClient(
		ctx context.Context,
		clientID uint,
		date string,
	) ([]models.Appointment, error)

	HasActiveForClientDay(
		ctx context.Context,
		clientID uint,
		date string,
	) (bool, error)

	// -------- Reservations --------
	Reserve(
		ctx context.Context,
		r *models.SlotReservation,
	) error

	Release(
		ctx context.Context,
		appointmentID uint,
	) error

	ListReservations(
		ctx context.Context,
		barberID uint,
		date string,
	) ([]models.SlotReservation, error)
}
