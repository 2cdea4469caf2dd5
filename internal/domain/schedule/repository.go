package schedule

import (
	"context"

	"github.com/BruksfildServices01/barber-availability/internal/models"
)

const (
	LockScopeBarber = "barber"
	LockScopeClient = "client"
)

type Repository interface {
	// -------- Barber --------
	GetBarber(
		ctx context.Context,
		barberID uint,
	) (*models.User, error)

	// -------- Template --------
	ListTemplateDays(
		ctx context.Context,
		barberID uint,
	) ([]models.TemplateDay, error)

	ReplaceTemplate(
		ctx context.Context,
		barberID uint,
		days []models.TemplateDay,
	) error

	// -------- Daily availability --------
	// GetDailyAvailability returns nil when the day was never materialized.
	GetDailyAvailability(
		ctx context.Context,
		barberID uint,
		date string,
	) (*models.DailyAvailability, error)

	SaveDailyAvailability(
		ctx context.Context,
		day *models.DailyAvailability,
	) error

	// -------- Overrides --------
	// GetOverride returns nil when no override exists for the date.
	GetOverride(
		ctx context.Context,
		barberID uint,
		date string,
	) (*models.ExceptionOverride, error)

	GetOverrideByID(
		ctx context.Context,
		id uint,
	) (*models.ExceptionOverride, error)

	ListOverrides(
		ctx context.Context,
		barberID uint,
		fromDate string,
	) ([]models.ExceptionOverride, error)

	CreateOverride(
		ctx context.Context,
		o *models.ExceptionOverride,
	) error

	DeleteOverride(
		ctx context.Context,
		id uint,
	) error

	// MarkClientsNotified reports false when the flag was already set or the
	// override is gone.
	MarkClientsNotified(
		ctx context.Context,
		id uint,
	) (bool, error)

	// -------- Locking --------
	LockDay(
		ctx context.Context,
		scope string,
		ownerID uint,
		date string,
	) error
}
