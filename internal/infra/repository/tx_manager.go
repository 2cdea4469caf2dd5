package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-availability/internal/domain/store"
)

type GormTxManager struct {
	db *gorm.DB
}

func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

func newRepositories(db *gorm.DB) store.Repositories {
	return store.Repositories{
		Schedule:     NewScheduleGormRepository(db),
		Appointments: NewAppointmentGormRepository(db),
		Outbox:       NewOutboxGormRepository(db),
	}
}

func (m *GormTxManager) WithTx(
	ctx context.Context,
	fn func(ctx context.Context, repos store.Repositories) error,
) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, newRepositories(tx))
	})
}

func (m *GormTxManager) Repos() store.Repositories {
	return newRepositories(m.db)
}

var _ store.TxManager = (*GormTxManager)(nil)
