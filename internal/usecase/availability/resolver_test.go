package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-availability/internal/domain/slot"
	"github.com/BruksfildServices01/barber-availability/internal/httperr"
	"github.com/BruksfildServices01/barber-availability/internal/models"
	"github.com/BruksfildServices01/barber-availability/internal/testutil"
)

func TestResolverDay_Precedence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	testutil.Template(t, f.db, f.barber.ID, "09:00", "11:00", time.Monday)

	_, source, err := f.resolver.Day(ctx, f.txm.Repos(), f.barber.ID, date)
	require.NoError(t, err)
	assert.Equal(t, schedule.SourceTemplate, source)

	daily := schedule.NewDay([]slot.Slot{{Start: 600, End: 640}}, true)
	require.NoError(t, f.txm.Repos().Schedule.SaveDailyAvailability(ctx, &models.DailyAvailability{
		BarberID: f.barber.ID,
		Date:     monday,
		Source:   models.AvailabilitySourceManual,
		Slots:    daily.AvailabilityRows(),
	}))

	day, source, err := f.resolver.Day(ctx, f.txm.Repos(), f.barber.ID, date)
	require.NoError(t, err)
	assert.Equal(t, schedule.SourceDaily, source)
	assert.True(t, day.Equal(daily))

	require.NoError(t, f.txm.Repos().Schedule.CreateOverride(ctx, &models.ExceptionOverride{
		BarberID: f.barber.ID,
		Date:     monday,
		Type:     models.ExceptionFullDayOff,
	}))

	day, source, err = f.resolver.Day(ctx, f.txm.Repos(), f.barber.ID, date)
	require.NoError(t, err)
	assert.Equal(t, schedule.SourceOverride, source)
	assert.Empty(t, day)
}

func TestResolverCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	testutil.Template(t, f.db, f.barber.ID, "09:00", "11:00", time.Monday)
	client := testutil.Client(t, f.db, f.shop)
	other := testutil.Client(t, f.db, f.shop)

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	first := slot.Slot{Start: 540, End: 580}
	second := slot.Slot{Start: 580, End: 620}

	check := func(clientID uint, s slot.Slot, d time.Time, ignore uint, onCreate bool) error {
		return f.resolver.Check(ctx, f.txm.Repos(), CheckRequest{
			Barber:              f.barber,
			ClientID:            clientID,
			Date:                d,
			Slot:                s,
			IgnoreAppointmentID: ignore,
			OnCreate:            onCreate,
		})
	}

	require.NoError(t, check(client.ID, second, date, 0, true))

	// Not offered: off-grid slot and a day with no template hours.
	err := check(client.ID, slot.Slot{Start: 560, End: 600}, date, 0, true)
	assert.True(t, httperr.IsBusiness(err, "slot_not_offered"))
	err = check(client.ID, first, date.AddDate(0, 0, 1), 0, true)
	assert.True(t, httperr.IsBusiness(err, "slot_not_offered"))

	// A past Monday is still offered by the template.
	err = check(client.ID, first, time.Date(2025, 2, 24, 0, 0, 0, 0, time.UTC), 0, true)
	assert.True(t, httperr.IsBusiness(err, "slot_in_past"))

	ap := f.book(t, client.ID, monday, 580, 620)

	err = check(other.ID, second, date, 0, true)
	assert.True(t, httperr.IsBusiness(err, "slot_taken"))

	// The appointment itself does not block its own reschedule.
	assert.NoError(t, check(client.ID, second, date, ap.ID, false))

	err = check(client.ID, first, date, 0, true)
	assert.True(t, httperr.IsBusiness(err, "client_already_booked"))
	assert.NoError(t, check(client.ID, first, date, ap.ID, false))
}

func TestResolverToday_UsesShopTimezone(t *testing.T) {
	r := NewResolver(schedule.DefaultPolicy(), testutil.FixedClock(time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC)))
	barber := &models.User{Barbershop: models.Barbershop{Timezone: "America/Sao_Paulo"}}

	today := r.Today(barber)
	assert.Equal(t, "2025-03-09", schedule.FormatDate(today))
}
