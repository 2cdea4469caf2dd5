package exception

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-availability/internal/httperr"
	"github.com/BruksfildServices01/barber-availability/internal/infra/repository"
	"github.com/BruksfildServices01/barber-availability/internal/models"
	"github.com/BruksfildServices01/barber-availability/internal/notify"
	"github.com/BruksfildServices01/barber-availability/internal/session"
	"github.com/BruksfildServices01/barber-availability/internal/testutil"
	"github.com/BruksfildServices01/barber-availability/internal/usecase/availability"
)

const monday = "2025-03-10"

type fixture struct {
	db       *gorm.DB
	txm      *repository.GormTxManager
	resolver *availability.Resolver
	shop     *models.Barbershop
	barber   *models.User
	sess     session.Session
	create   *CreateException
	remove   *DeleteException
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	shop := testutil.Barbershop(t, db, "UTC")
	barber := testutil.Staff(t, db, shop, models.RoleBarber)
	testutil.Template(t, db, barber.ID, "09:00", "18:00", time.Monday)

	txm := repository.NewGormTxManager(db)
	resolver := availability.NewResolver(
		schedule.DefaultPolicy(),
		testutil.FixedClock(time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)),
	)
	log := zap.NewNop()

	return &fixture{
		db:       db,
		txm:      txm,
		resolver: resolver,
		shop:     shop,
		barber:   barber,
		sess:     session.Session{UserID: barber.ID, BarbershopID: shop.ID, Role: session.RoleBarber},
		create:   NewCreateException(txm, resolver, nil, nil, nil, log),
		remove:   NewDeleteException(txm, nil, nil, log),
	}
}

func (f *fixture) book(t *testing.T, start int, status string) *models.Appointment {
	t.Helper()

	client := testutil.Client(t, f.db, f.shop)
	ap := &models.Appointment{
		BarbershopID:    f.shop.ID,
		BarberID:        f.barber.ID,
		ClientID:        client.ID,
		BarberProductID: 1,
		Date:            monday,
		StartMinute:     start,
		EndMinute:       start + 40,
		Status:          status,
	}
	require.NoError(t, f.db.Create(ap).Error)
	if status == "pending" {
		require.NoError(t, f.db.Create(&models.SlotReservation{
			AppointmentID: ap.ID,
			BarberID:      ap.BarberID,
			Date:          ap.Date,
			StartMinute:   ap.StartMinute,
			EndMinute:     ap.EndMinute,
		}).Error)
	}
	return ap
}

func (f *fixture) pendingEvents(t *testing.T) []models.OutboxEvent {
	t.Helper()
	var events []models.OutboxEvent
	require.NoError(t, f.db.Where("published = ?", false).Find(&events).Error)
	return events
}

func affectedIDs(o *models.ExceptionOverride) []uint {
	ids := make([]uint, 0, len(o.Affected))
	for _, a := range o.Affected {
		ids = append(ids, a.AppointmentID)
	}
	return ids
}

func TestCreateException_FullDayOffAffectsEveryActiveAppointment(t *testing.T) {
	f := newFixture(t)

	a := f.book(t, 9*60, "pending")
	b := f.book(t, 11*60, "pending")
	c := f.book(t, 16*60+20, "pending")
	f.book(t, 10*60+20, "cancelled")
	f.book(t, 13*60, "completed")

	o, err := f.create.Execute(context.Background(), f.sess, CreateExceptionInput{
		BarberID: f.barber.ID,
		Date:     monday,
		Type:     schedule.WireFullDayOff,
		Reason:   "médico",
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []uint{a.ID, b.ID, c.ID}, affectedIDs(o))
	assert.False(t, o.ClientsNotified)
	assert.Empty(t, o.Slots)

	events := f.pendingEvents(t)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventExceptionCreated, events[0].EventType)
	assert.Equal(t, o.ID, events[0].AggregateID)

	var notice notify.ExceptionNotice
	require.NoError(t, json.Unmarshal(events[0].Payload, &notice))
	assert.Equal(t, schedule.WireFullDayOff, notice.Type)
	assert.Len(t, notice.Appointments, 3)
}

func TestCreateException_ModifiedHoursWindow(t *testing.T) {
	f := newFixture(t)
	morning := f.book(t, 9*60, "pending")
	kept := f.book(t, 14*60, "pending")

	o, err := f.create.Execute(context.Background(), f.sess, CreateExceptionInput{
		BarberID:    f.barber.ID,
		Date:        monday,
		Type:        schedule.WireModifiedHours,
		WindowStart: "14:00",
		WindowEnd:   "15:20",
	})
	require.NoError(t, err)

	assert.Equal(t, []uint{morning.ID}, affectedIDs(o))
	assert.NotContains(t, affectedIDs(o), kept.ID)
	assert.Len(t, o.Slots, 2)

	view, err := availability.NewGetAvailability(f.txm, f.resolver, nil, zap.NewNop()).
		Execute(context.Background(), f.sess, f.barber.ID, monday)
	require.NoError(t, err)
	assert.Equal(t, schedule.SourceOverride, view.Source)
	assert.Equal(t, map[string]bool{
		"02:00 PM - 02:40 PM": false,
		"02:40 PM - 03:20 PM": true,
	}, view.Labels())
}

func TestCreateException_ModifiedHoursSlotMap(t *testing.T) {
	f := newFixture(t)

	o, err := f.create.Execute(context.Background(), f.sess, CreateExceptionInput{
		BarberID: f.barber.ID,
		Date:     monday,
		Type:     schedule.WireModifiedHours,
		Slots: map[string]bool{
			"09:00 AM - 09:40 AM": true,
			"09:40 AM - 10:20 AM": false,
		},
	})
	require.NoError(t, err)
	assert.Len(t, o.Slots, 2)

	// No appointments were touched, so nobody needs to hear about it.
	assert.True(t, o.ClientsNotified)
	assert.Empty(t, f.pendingEvents(t))
}

func TestCreateException_Rejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.create.Execute(ctx, f.sess, CreateExceptionInput{
		BarberID: f.barber.ID,
		Date:     "2025-03-02",
		Type:     schedule.WireFullDayOff,
	})
	assert.True(t, httperr.IsBusiness(err, "date_in_past"))

	_, err = f.create.Execute(ctx, f.sess, CreateExceptionInput{
		BarberID: f.barber.ID,
		Date:     monday,
		Type:     schedule.WireModifiedHours,
	})
	assert.True(t, httperr.IsBusiness(err, "missing_modified_hours"))

	_, err = f.create.Execute(ctx, f.sess, CreateExceptionInput{
		BarberID:    f.barber.ID,
		Date:        monday,
		Type:        schedule.WireModifiedHours,
		WindowStart: "15:00",
		WindowEnd:   "14:00",
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_window"))

	_, err = f.create.Execute(ctx, f.sess, CreateExceptionInput{
		BarberID: f.barber.ID,
		Date:     monday,
		Type:     "Feriado",
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_exception_type"))
}

func TestCreateException_DuplicateDateConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := CreateExceptionInput{BarberID: f.barber.ID, Date: monday, Type: schedule.WireFullDayOff}

	_, err := f.create.Execute(ctx, f.sess, in)
	require.NoError(t, err)

	_, err = f.create.Execute(ctx, f.sess, in)
	require.True(t, httperr.IsBusiness(err, "exception_already_exists"))
	kind, _ := httperr.KindOf(err)
	assert.Equal(t, httperr.KindConflict, kind)
}

func TestDeleteException_RestoresTemplateDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	before, _, err := f.resolver.Day(ctx, f.txm.Repos(), f.barber.ID, date)
	require.NoError(t, err)

	f.book(t, 9*60, "pending")
	o, err := f.create.Execute(ctx, f.sess, CreateExceptionInput{
		BarberID: f.barber.ID,
		Date:     monday,
		Type:     schedule.WireFullDayOff,
	})
	require.NoError(t, err)

	require.NoError(t, f.remove.Execute(ctx, f.sess, o.ID))

	after, source, err := f.resolver.Day(ctx, f.txm.Repos(), f.barber.ID, date)
	require.NoError(t, err)
	assert.Equal(t, schedule.SourceTemplate, source)
	assert.True(t, before.Equal(after))
	assert.Len(t, after, 13)

	err = f.remove.Execute(ctx, f.sess, o.ID)
	assert.True(t, httperr.IsBusiness(err, "exception_not_found"))

	var n int64
	require.NoError(t, f.db.Model(&models.OverrideSlot{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestExceptionQueries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, d := range []string{"2025-03-10", "2025-03-17", "2025-03-24"} {
		_, err := f.create.Execute(ctx, f.sess, CreateExceptionInput{
			BarberID: f.barber.ID,
			Date:     d,
			Type:     schedule.WireFullDayOff,
		})
		require.NoError(t, err)
	}

	list := NewListExceptions(f.txm, f.resolver)
	all, err := list.Execute(ctx, f.sess, f.barber.ID, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2025-03-10", all[0].Date)

	later, err := list.Execute(ctx, f.sess, f.barber.ID, "2025-03-17")
	require.NoError(t, err)
	assert.Len(t, later, 2)

	got, err := NewGetException(f.txm).Execute(ctx, f.sess, all[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-17", got.Date)

	stranger := session.Session{UserID: 999, BarbershopID: f.shop.ID, Role: session.RoleBarber}
	_, err = NewGetException(f.txm).Execute(ctx, stranger, all[1].ID)
	kind, _ := httperr.KindOf(err)
	assert.Equal(t, httperr.KindForbidden, kind)
}
