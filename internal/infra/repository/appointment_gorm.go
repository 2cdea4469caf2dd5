package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barber-availability/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-availability/internal/httperr"
	"github.com/BruksfildServices01/barber-availability/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Service / Client
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	barbershopID uint,
	serviceID uint,
) (*models.BarberProduct, error) {

	var product models.BarberProduct
	err := r.db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ? AND active = ?", serviceID, barbershopID, true).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.NotFound("service_not_found", "service not found")
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *AppointmentGormRepository) GetClient(
	ctx context.Context,
	barbershopID uint,
	clientID uint,
) (*models.Client, error) {

	var client models.Client
	err := r.db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ?", clientID, barbershopID).
		First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.NotFound("client_not_found", "client not found")
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) GetByID(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {
	return r.get(r.db.WithContext(ctx), id)
}

func (r *AppointmentGormRepository) GetForUpdate(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {
	return r.get(
		r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}),
		id,
	)
}

func (r *AppointmentGormRepository) get(q *gorm.DB, id uint) (*models.Appointment, error) {
	var ap models.Appointment
	err := q.First(&ap, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.NotFound("appointment_not_found", "appointment not found")
	}
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) Create(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *AppointmentGormRepository) Update(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *AppointmentGormRepository) ListForBarberDay(
	ctx context.Context,
	barberID uint,
	date string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("barber_id = ? AND date = ?", barberID, date).
		Order("start_minute ASC, id ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListActiveForBarberDay(
	ctx context.Context,
	barberID uint,
	date string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("barber_id = ? AND date = ? AND status = ?", barberID, date, string(domain.StatusPending)).
		Order("start_minute ASC, id ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListForClient(
	ctx context.Context,
	clientID uint,
	date string,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).Where("client_id = ?", clientID)
	if date != "" {
		q = q.Where("date = ?", date)
	}

	var apps []models.Appointment
	if err := q.Order("date ASC, start_minute ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) HasActiveForClientDay(
	ctx context.Context,
	clientID uint,
	date string,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("client_id = ? AND date = ? AND status = ?", clientID, date, string(domain.StatusPending)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// --------------------------------------------------
// Reservations
// --------------------------------------------------

func (r *AppointmentGormRepository) Reserve(
	ctx context.Context,
	res *models.SlotReservation,
) error {
	err := r.db.WithContext(ctx).Create(res).Error
	if httperr.IsUniqueViolation(err) {
		return httperr.Conflict("slot_taken", "slot already booked")
	}
	return err
}

func (r *AppointmentGormRepository) Release(
	ctx context.Context,
	appointmentID uint,
) error {
	return r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Delete(&models.SlotReservation{}).Error
}

func (r *AppointmentGormRepository) ListReservations(
	ctx context.Context,
	barberID uint,
	date string,
) ([]models.SlotReservation, error) {

	var res []models.SlotReservation
	if err := r.db.WithContext(ctx).
		Where("barber_id = ? AND date = ?", barberID, date).
		Order("start_minute ASC").
		Find(&res).Error; err != nil {
		return nil, err
	}
	return res, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
