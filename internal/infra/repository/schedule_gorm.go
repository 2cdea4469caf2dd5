package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barber-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-availability/internal/httperr"
	"github.com/BruksfildServices01/barber-availability/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// --------------------------------------------------
// Barber
// --------------------------------------------------

func (r *ScheduleGormRepository) GetBarber(
	ctx context.Context,
	barberID uint,
) (*models.User, error) {

	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Barbershop").
		Where("id = ? AND role IN ?", barberID, []string{models.RoleBarber, models.RoleOwner}).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.NotFound("barber_not_found", "barber not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// --------------------------------------------------
// Template
// --------------------------------------------------

func (r *ScheduleGormRepository) ListTemplateDays(
	ctx context.Context,
	barberID uint,
) ([]models.TemplateDay, error) {

	var days []models.TemplateDay
	if err := r.db.WithContext(ctx).
		Where("barber_id = ?", barberID).
		Order("weekday ASC").
		Find(&days).Error; err != nil {
		return nil, err
	}
	return days, nil
}

// ReplaceTemplate deletes and recreates the rows; run it inside a transaction.
func (r *ScheduleGormRepository) ReplaceTemplate(
	ctx context.Context,
	barberID uint,
	days []models.TemplateDay,
) error {

	db := r.db.WithContext(ctx)
	if err := db.
		Where("barber_id = ?", barberID).
		Delete(&models.TemplateDay{}).Error; err != nil {
		return err
	}
	if len(days) == 0 {
		return nil
	}
	return db.Create(&days).Error
}

// --------------------------------------------------
// Daily availability
// --------------------------------------------------

func (r *ScheduleGormRepository) GetDailyAvailability(
	ctx context.Context,
	barberID uint,
	date string,
) (*models.DailyAvailability, error) {

	var day models.DailyAvailability
	err := r.db.WithContext(ctx).
		Preload("Slots", func(db *gorm.DB) *gorm.DB {
			return db.Order("start_minute ASC")
		}).
		Where("barber_id = ? AND date = ?", barberID, date).
		First(&day).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &day, nil
}

// SaveDailyAvailability replaces the stored slots of (barber, date) with
// day.Slots. Run it inside a transaction.
func (r *ScheduleGormRepository) SaveDailyAvailability(
	ctx context.Context,
	day *models.DailyAvailability,
) error {

	db := r.db.WithContext(ctx)
	slots := day.Slots

	var existing models.DailyAvailability
	err := db.
		Where("barber_id = ? AND date = ?", day.BarberID, day.Date).
		First(&existing).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		day.Slots = nil
		if err := db.Create(day).Error; err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if err := db.
			Where("daily_availability_id = ?", existing.ID).
			Delete(&models.AvailabilitySlot{}).Error; err != nil {
			return err
		}
		if err := db.Model(&existing).
			Update("source", day.Source).Error; err != nil {
			return err
		}
		day.ID = existing.ID
		day.CreatedAt = existing.CreatedAt
	}

	for i := range slots {
		slots[i].ID = 0
		slots[i].DailyAvailabilityID = day.ID
	}
	day.Slots = slots
	if len(slots) == 0 {
		return nil
	}
	return db.Create(&slots).Error
}

// --------------------------------------------------
// Overrides
// --------------------------------------------------

func (r *ScheduleGormRepository) overrideQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Slots", func(db *gorm.DB) *gorm.DB {
			return db.Order("start_minute ASC")
		}).
		Preload("Affected", func(db *gorm.DB) *gorm.DB {
			return db.Order("appointment_id ASC")
		})
}

func (r *ScheduleGormRepository) GetOverride(
	ctx context.Context,
	barberID uint,
	date string,
) (*models.ExceptionOverride, error) {

	var o models.ExceptionOverride
	err := r.overrideQuery(ctx).
		Where("barber_id = ? AND date = ?", barberID, date).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *ScheduleGormRepository) GetOverrideByID(
	ctx context.Context,
	id uint,
) (*models.ExceptionOverride, error) {

	var o models.ExceptionOverride
	err := r.overrideQuery(ctx).First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.NotFound("exception_not_found", "exception not found")
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *ScheduleGormRepository) ListOverrides(
	ctx context.Context,
	barberID uint,
	fromDate string,
) ([]models.ExceptionOverride, error) {

	var list []models.ExceptionOverride
	if err := r.overrideQuery(ctx).
		Where("barber_id = ? AND date >= ?", barberID, fromDate).
		Order("date ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ScheduleGormRepository) CreateOverride(
	ctx context.Context,
	o *models.ExceptionOverride,
) error {
	err := r.db.WithContext(ctx).Create(o).Error
	if httperr.IsUniqueViolation(err) {
		return httperr.Conflict("exception_already_exists", "an exception already exists for this date")
	}
	return err
}

func (r *ScheduleGormRepository) DeleteOverride(
	ctx context.Context,
	id uint,
) error {

	db := r.db.WithContext(ctx)
	if err := db.
		Where("exception_override_id = ?", id).
		Delete(&models.OverrideSlot{}).Error; err != nil {
		return err
	}
	if err := db.
		Where("exception_override_id = ?", id).
		Delete(&models.OverrideAffectedAppointment{}).Error; err != nil {
		return err
	}

	res := db.Delete(&models.ExceptionOverride{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.NotFound("exception_not_found", "exception not found")
	}
	return nil
}

func (r *ScheduleGormRepository) MarkClientsNotified(
	ctx context.Context,
	id uint,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.ExceptionOverride{}).
		Where("id = ? AND clients_notified = ?", id, false).
		Update("clients_notified", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// --------------------------------------------------
// Locking
// --------------------------------------------------

// LockDay takes the row lock that serializes writers of one day. Callers
// holding several locks acquire them in ascending (scope, owner, date)
// order.
func (r *ScheduleGormRepository) LockDay(
	ctx context.Context,
	scope string,
	ownerID uint,
	date string,
) error {

	db := r.db.WithContext(ctx)
	lock := models.ScheduleLock{Scope: scope, OwnerID: ownerID, Date: date}
	if err := db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "scope"}, {Name: "owner_id"}, {Name: "date"}},
			DoNothing: true,
		}).
		Create(&lock).Error; err != nil {
		return err
	}

	var held models.ScheduleLock
	return db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("scope = ? AND owner_id = ? AND date = ?", scope, ownerID, date).
		First(&held).Error
}

// Compile-time check
var _ schedule.Repository = (*ScheduleGormRepository)(nil)
