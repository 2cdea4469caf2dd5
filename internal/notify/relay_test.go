package notify

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-availability/internal/infra/repository"
	"github.com/BruksfildServices01/barber-availability/internal/metrics"
	"github.com/BruksfildServices01/barber-availability/internal/models"
	"github.com/BruksfildServices01/barber-availability/internal/testutil"
)

type stubNotifier struct {
	err    error
	calls  []ExceptionNotice
	during func()
}

func (s *stubNotifier) NotifyException(_ context.Context, n ExceptionNotice) error {
	s.calls = append(s.calls, n)
	if s.during != nil {
		s.during()
	}
	return s.err
}

func seedException(t *testing.T, db *gorm.DB) (*models.ExceptionOverride, *models.OutboxEvent) {
	t.Helper()

	shop := testutil.Barbershop(t, db, "UTC")
	barber := testutil.Staff(t, db, shop, models.RoleBarber)

	exc := &models.ExceptionOverride{
		BarberID: barber.ID,
		Date:     "2025-03-10",
		Type:     models.ExceptionFullDayOff,
		Affected: []models.OverrideAffectedAppointment{{AppointmentID: 7}},
	}
	require.NoError(t, db.Create(exc).Error)

	payload, err := json.Marshal(ExceptionNotice{
		ExceptionID: exc.ID,
		BarberID:    barber.ID,
		Date:        exc.Date,
		Type:        "DiaCompleto",
		Appointments: []AffectedAppointment{
			{AppointmentID: 7, ClientID: 3, Slot: "09:00 AM - 09:40 AM"},
		},
	})
	require.NoError(t, err)

	ev := &models.OutboxEvent{
		EventType:   models.EventExceptionCreated,
		AggregateID: exc.ID,
		Payload:     payload,
	}
	require.NoError(t, repository.NewOutboxGormRepository(db).Insert(context.Background(), ev))
	return exc, ev
}

func reload(t *testing.T, db *gorm.DB, exc *models.ExceptionOverride, ev *models.OutboxEvent) {
	t.Helper()
	require.NoError(t, db.First(exc, exc.ID).Error)
	require.NoError(t, db.First(ev, "id = ?", ev.ID).Error)
}

func TestRelay_DeliversAndMarksClientsNotified(t *testing.T) {
	db := testutil.NewDB(t)
	exc, ev := seedException(t, db)

	notifier := &stubNotifier{}
	m := metrics.New()
	relay := NewRelay(repository.NewGormTxManager(db), notifier, m, zap.NewNop(), 10, 5)

	n, err := relay.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, exc.ID, notifier.calls[0].ExceptionID)
	assert.Len(t, notifier.calls[0].Appointments, 1)

	reload(t, db, exc, ev)
	assert.True(t, exc.ClientsNotified)
	assert.True(t, ev.Published)
	assert.NotNil(t, ev.PublishedAt)

	// Nothing left for the next run.
	n, err = relay.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, notifier.calls, 1)

	expected := `
# HELP outbox_deliveries_total Outbox delivery attempts by outcome
# TYPE outbox_deliveries_total counter
outbox_deliveries_total{result="delivered"} 1
`
	assert.NoError(t, promtest.GatherAndCompare(m.Registry(), strings.NewReader(expected), "outbox_deliveries_total"))
}

func TestRelay_FailureKeepsEventPending(t *testing.T) {
	db := testutil.NewDB(t)
	exc, ev := seedException(t, db)

	notifier := &stubNotifier{err: errors.New("connection refused")}
	relay := NewRelay(repository.NewGormTxManager(db), notifier, nil, zap.NewNop(), 10, 2)

	for i := 0; i < 3; i++ {
		n, err := relay.RunOnce(context.Background())
		require.NoError(t, err)
		assert.Zero(t, n)
	}

	// Gives up after maxAttempts.
	assert.Len(t, notifier.calls, 2)

	reload(t, db, exc, ev)
	assert.False(t, exc.ClientsNotified)
	assert.False(t, ev.Published)
	assert.Equal(t, 2, ev.Attempts)
	assert.Equal(t, "connection refused", ev.LastError)
}

func TestRelay_SkipsDeletedException(t *testing.T) {
	db := testutil.NewDB(t)
	exc, ev := seedException(t, db)
	require.NoError(t, db.Select("Slots", "Affected").Delete(exc).Error)

	notifier := &stubNotifier{}
	relay := NewRelay(repository.NewGormTxManager(db), notifier, nil, zap.NewNop(), 10, 5)

	n, err := relay.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, notifier.calls)

	require.NoError(t, db.First(ev, "id = ?", ev.ID).Error)
	assert.True(t, ev.Published)
	assert.Equal(t, "exception deleted", ev.LastError)
}

func TestRelay_SkipsAlreadyNotified(t *testing.T) {
	db := testutil.NewDB(t)
	exc, ev := seedException(t, db)
	require.NoError(t, db.Model(exc).Update("clients_notified", true).Error)

	notifier := &stubNotifier{}
	relay := NewRelay(repository.NewGormTxManager(db), notifier, nil, zap.NewNop(), 10, 5)

	_, err := relay.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Empty(t, notifier.calls)

	require.NoError(t, db.First(ev, "id = ?", ev.ID).Error)
	assert.True(t, ev.Published)
}

func TestRelay_ConcurrentRelayDoesNotRedeliverClaimedEvent(t *testing.T) {
	db := testutil.NewDB(t)
	exc, ev := seedException(t, db)

	txm := repository.NewGormTxManager(db)
	notifier := &stubNotifier{}
	first := NewRelay(txm, notifier, nil, zap.NewNop(), 10, 5)
	second := NewRelay(txm, notifier, nil, zap.NewNop(), 10, 5)

	var secondDelivered int
	notifier.during = func() {
		notifier.during = nil
		n, err := second.RunOnce(context.Background())
		require.NoError(t, err)
		secondDelivered = n
	}

	n, err := first.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Zero(t, secondDelivered)
	assert.Len(t, notifier.calls, 1)

	reload(t, db, exc, ev)
	assert.True(t, exc.ClientsNotified)
	assert.True(t, ev.Published)
	assert.Nil(t, ev.LockedUntil)
}
