package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barber-availability/internal/domain/store"
	"github.com/BruksfildServices01/barber-availability/internal/models"
)

type OutboxGormRepository struct {
	db *gorm.DB
}

func NewOutboxGormRepository(db *gorm.DB) *OutboxGormRepository {
	return &OutboxGormRepository{db: db}
}

func (r *OutboxGormRepository) Insert(ctx context.Context, ev *models.OutboxEvent) error {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(ev).Error
}

// ClaimPending must run inside a transaction so the row locks hold until
// the lease is written.
func (r *OutboxGormRepository) ClaimPending(
	ctx context.Context,
	limit int,
	maxAttempts int,
	now time.Time,
	lease time.Duration,
) ([]models.OutboxEvent, error) {

	q := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("published = ?", false).
		Where("(locked_until IS NULL OR locked_until < ?)", now)
	if maxAttempts > 0 {
		q = q.Where("attempts < ?", maxAttempts)
	}

	var events []models.OutboxEvent
	if err := q.
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return events, nil
	}

	ids := make([]uuid.UUID, len(events))
	for i := range events {
		ids[i] = events[i].ID
	}
	until := now.Add(lease)
	if err := r.db.WithContext(ctx).
		Model(&models.OutboxEvent{}).
		Where("id IN ?", ids).
		Update("locked_until", &until).Error; err != nil {
		return nil, err
	}
	for i := range events {
		events[i].LockedUntil = &until
	}
	return events, nil
}

func (r *OutboxGormRepository) MarkPublished(ctx context.Context, id uuid.UUID, note string) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"published":    true,
			"published_at": &now,
			"last_error":   note,
			"locked_until": nil,
		}).Error
}

func (r *OutboxGormRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return r.db.WithContext(ctx).
		Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"attempts":     gorm.Expr("attempts + 1"),
			"last_error":   reason,
			"locked_until": nil,
		}).Error
}

var _ store.OutboxRepository = (*OutboxGormRepository)(nil)
