// Package store groups the repositories a use case needs so they can be
// rebound to a single transaction.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-availability/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-availability/internal/models"
)

type OutboxRepository interface {
	Insert(ctx context.Context, ev *models.OutboxEvent) error
	// ClaimPending leases up to limit unpublished events to the caller until
	// now+lease. Rows leased by another relay are skipped.
	ClaimPending(ctx context.Context, limit, maxAttempts int, now time.Time, lease time.Duration) ([]models.OutboxEvent, error)
	MarkPublished(ctx context.Context, id uuid.UUID, note string) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}

type Repositories struct {
	Schedule     schedule.Repository
	Appointments appointment.Repository
	Outbox       OutboxRepository
}

type TxManager interface {
	// WithTx runs fn in one transaction; a returned error rolls it back.
	WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error

	// Repos returns repositories bound to no transaction, for reads.
	Repos() Repositories
}
