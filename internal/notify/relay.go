package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-availability/internal/domain/store"
	"github.com/BruksfildServices01/barber-availability/internal/httperr"
	"github.com/BruksfildServices01/barber-availability/internal/metrics"
	"github.com/BruksfildServices01/barber-availability/internal/models"
)

// claimLease bounds how long a crashed relay keeps events from the others.
const claimLease = 5 * time.Minute

// Relay moves pending outbox events to the notifier. clients_notified on
// the exception flips in the same transaction that marks the event
// published, so a failed delivery leaves both pending for the next run.
type Relay struct {
	txm         store.TxManager
	notifier    Notifier
	metrics     *metrics.Metrics
	log         *zap.Logger
	batchSize   int
	maxAttempts int
}

func NewRelay(
	txm store.TxManager,
	notifier Notifier,
	m *metrics.Metrics,
	log *zap.Logger,
	batchSize int,
	maxAttempts int,
) *Relay {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Relay{
		txm:         txm,
		notifier:    notifier,
		metrics:     m,
		log:         log,
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
	}
}

// RunOnce claims one batch and returns how many events were delivered.
// Claimed events stay invisible to other relays until they are marked or
// their lease expires.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	var events []models.OutboxEvent
	err := r.txm.WithTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		var err error
		events, err = repos.Outbox.ClaimPending(ctx, r.batchSize, r.maxAttempts, time.Now().UTC(), claimLease)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("claim pending outbox events: %w", err)
	}

	delivered := 0
	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			return delivered, err
		}

		ok, err := r.handle(ctx, ev)
		if err != nil {
			return delivered, err
		}
		if ok {
			delivered++
		}
	}
	return delivered, nil
}

func (r *Relay) handle(ctx context.Context, ev models.OutboxEvent) (bool, error) {
	repos := r.txm.Repos()
	log := r.log.With(
		zap.String("event_id", ev.ID.String()),
		zap.String("event_type", ev.EventType),
	)

	if ev.EventType != models.EventExceptionCreated {
		log.Warn("unknown outbox event type, skipping")
		return false, repos.Outbox.MarkPublished(ctx, ev.ID, "unknown event type")
	}

	var notice ExceptionNotice
	if err := json.Unmarshal(ev.Payload, &notice); err != nil {
		log.Error("undecodable outbox payload", zap.Error(err))
		return false, repos.Outbox.MarkFailed(ctx, ev.ID, "invalid payload: "+err.Error())
	}

	exc, err := repos.Schedule.GetOverrideByID(ctx, notice.ExceptionID)
	if httperr.IsBusiness(err, "exception_not_found") {
		log.Info("exception deleted before delivery, skipping")
		return false, repos.Outbox.MarkPublished(ctx, ev.ID, "exception deleted")
	}
	if err != nil {
		return false, err
	}
	if exc.ClientsNotified {
		return false, repos.Outbox.MarkPublished(ctx, ev.ID, "already notified")
	}

	if err := r.notifier.NotifyException(ctx, notice); err != nil {
		r.metrics.OutboxDelivery("failed")
		log.Warn("exception notification failed",
			zap.Int("attempt", ev.Attempts+1),
			zap.Error(err),
		)
		return false, repos.Outbox.MarkFailed(ctx, ev.ID, err.Error())
	}

	err = r.txm.WithTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		if _, err := repos.Schedule.MarkClientsNotified(ctx, notice.ExceptionID); err != nil {
			return err
		}
		return repos.Outbox.MarkPublished(ctx, ev.ID, "")
	})
	if err != nil {
		return false, fmt.Errorf("mark outbox event delivered: %w", err)
	}

	r.metrics.OutboxDelivery("delivered")
	log.Info("exception_clients_notified", zap.Uint("exception_id", notice.ExceptionID))
	return true, nil
}
