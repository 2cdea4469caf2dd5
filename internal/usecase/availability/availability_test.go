package availability

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-availability/internal/cache"
	"github.com/BruksfildServices01/barber-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-availability/internal/domain/slot"
	"github.com/BruksfildServices01/barber-availability/internal/httperr"
	"github.com/BruksfildServices01/barber-availability/internal/models"
	"github.com/BruksfildServices01/barber-availability/internal/session"
	"github.com/BruksfildServices01/barber-availability/internal/testutil"
)

const monday = "2025-03-10"

func TestGetAvailability_UnconfiguredDayIsClosed(t *testing.T) {
	f := newFixture(t)
	uc := NewGetAvailability(f.txm, f.resolver, nil, f.log)

	view, err := uc.Execute(context.Background(), f.sess, f.barber.ID, monday)
	require.NoError(t, err)

	assert.Equal(t, schedule.SourceTemplate, view.Source)
	require.Len(t, view.Slots, 15)
	for label, bookable := range view.Labels() {
		assert.False(t, bookable, label)
	}
}

func TestGetAvailability_TemplateMonday(t *testing.T) {
	f := newFixture(t)
	testutil.Template(t, f.db, f.barber.ID, "09:00", "11:00", time.Monday)
	uc := NewGetAvailability(f.txm, f.resolver, nil, f.log)

	view, err := uc.Execute(context.Background(), f.sess, f.barber.ID, monday)
	require.NoError(t, err)

	assert.Equal(t, map[string]bool{
		"09:00 AM - 09:40 AM": true,
		"09:40 AM - 10:20 AM": true,
		"10:20 AM - 11:00 AM": true,
	}, view.Labels())

	// Tuesday is disabled in the template.
	view, err = uc.Execute(context.Background(), f.sess, f.barber.ID, "2025-03-11")
	require.NoError(t, err)
	assert.Empty(t, view.Slots)
}

func TestGetAvailability_ReservedSlotIsNotBookable(t *testing.T) {
	f := newFixture(t)
	testutil.Template(t, f.db, f.barber.ID, "09:00", "11:00", time.Monday)
	client := testutil.Client(t, f.db, f.shop)
	f.book(t, client.ID, monday, 580, 620)

	view, err := NewGetAvailability(f.txm, f.resolver, nil, f.log).
		Execute(context.Background(), f.sess, f.barber.ID, monday)
	require.NoError(t, err)

	labels := view.Labels()
	assert.False(t, labels["09:40 AM - 10:20 AM"])
	assert.True(t, labels["09:00 AM - 09:40 AM"])
	assert.True(t, labels["10:20 AM - 11:00 AM"])
}

func TestGetAvailability_OtherShopBarberIsHidden(t *testing.T) {
	f := newFixture(t)
	otherShop := testutil.Barbershop(t, f.db, "UTC")
	other := testutil.Staff(t, f.db, otherShop, models.RoleBarber)

	_, err := NewGetAvailability(f.txm, f.resolver, nil, f.log).
		Execute(context.Background(), f.sess, other.ID, monday)
	assert.True(t, httperr.IsBusiness(err, "barber_not_found"))
}

func TestApplyTemplate_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := NewApplyTemplate(f.txm, f.resolver, nil, nil, f.log, 31)
	in := ApplyTemplateInput{
		BarberID: f.barber.ID,
		From:     "2025-03-10",
		To:       "2025-03-16",
		Days:     f.weekdays("09:00", "18:00"),
	}

	snapshot := func() map[string]schedule.Day {
		out := map[string]schedule.Day{}
		for d := 10; d <= 16; d++ {
			date := time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
			day, source, err := f.resolver.Day(ctx, f.txm.Repos(), f.barber.ID, date)
			require.NoError(t, err)
			require.Equal(t, schedule.SourceDaily, source)
			out[schedule.FormatDate(date)] = day
		}
		return out
	}
	countSlots := func() int64 {
		var n int64
		require.NoError(t, f.db.Model(&models.AvailabilitySlot{}).Count(&n).Error)
		return n
	}

	res, err := uc.Execute(ctx, f.sess, in)
	require.NoError(t, err)
	assert.Equal(t, 7, res.Dates)
	first, firstCount := snapshot(), countSlots()

	_, err = uc.Execute(ctx, f.sess, in)
	require.NoError(t, err)
	second, secondCount := snapshot(), countSlots()

	assert.Equal(t, firstCount, secondCount)
	for date, day := range first {
		assert.True(t, day.Equal(second[date]), date)
	}
	assert.Len(t, first[monday], 13)
	assert.Empty(t, first["2025-03-15"], "saturday is disabled")
}

func TestApplyTemplate_OverwritesManualChanges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	apply := NewApplyTemplate(f.txm, f.resolver, nil, nil, f.log, 31)
	toggle := NewToggleSlots(f.txm, f.resolver, nil, nil, f.log)
	in := ApplyTemplateInput{BarberID: f.barber.ID, From: monday, To: monday, Days: f.weekdays("09:00", "11:00")}

	_, err := apply.Execute(ctx, f.sess, in)
	require.NoError(t, err)
	_, err = toggle.Execute(ctx, f.sess, ToggleSlotsInput{
		BarberID: f.barber.ID,
		Date:     monday,
		Slots:    map[string]bool{"09:00 AM - 09:40 AM": false},
	})
	require.NoError(t, err)

	_, err = apply.Execute(ctx, f.sess, in)
	require.NoError(t, err)

	day, _, err := f.resolver.Day(ctx, f.txm.Repos(), f.barber.ID, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, day.IsOpen(slot.Slot{Start: 540, End: 580}))
}

func TestApplyTemplate_InvalidDayWritesNothing(t *testing.T) {
	f := newFixture(t)
	days := f.weekdays("09:00", "18:00")
	days[3].End = "08:00"

	_, err := NewApplyTemplate(f.txm, f.resolver, nil, nil, f.log, 31).
		Execute(context.Background(), f.sess, ApplyTemplateInput{
			BarberID: f.barber.ID,
			From:     "2025-03-10",
			To:       "2025-03-16",
			Days:     days,
		})
	assert.True(t, httperr.IsBusiness(err, "invalid_template"))

	var n int64
	require.NoError(t, f.db.Model(&models.DailyAvailability{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestApplyTemplate_UsesStoredTemplate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	apply := NewApplyTemplate(f.txm, f.resolver, nil, nil, f.log, 31)
	in := ApplyTemplateInput{BarberID: f.barber.ID, From: monday, To: monday}

	_, err := apply.Execute(ctx, f.sess, in)
	assert.True(t, httperr.IsBusiness(err, "template_not_configured"))

	_, err = NewSaveWeeklyTemplate(f.txm, nil, f.log).Execute(ctx, f.sess, f.barber.ID, f.weekdays("14:00", "16:00"))
	require.NoError(t, err)

	res, err := apply.Execute(ctx, f.sess, in)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Dates)

	stored, err := f.txm.Repos().Schedule.GetDailyAvailability(ctx, f.barber.ID, monday)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, models.AvailabilitySourceTemplate, stored.Source)
	assert.Len(t, stored.Slots, 3)
}

func TestApplyTemplate_RangeLimit(t *testing.T) {
	f := newFixture(t)

	_, err := NewApplyTemplate(f.txm, f.resolver, nil, nil, f.log, 7).
		Execute(context.Background(), f.sess, ApplyTemplateInput{
			BarberID: f.barber.ID,
			From:     "2025-03-10",
			To:       "2025-03-31",
			Days:     f.weekdays("09:00", "18:00"),
		})
	assert.True(t, httperr.IsBusiness(err, "range_too_long"))
}

func TestWeeklyTemplate_SaveAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	get := NewGetWeeklyTemplate(f.txm)

	_, found, err := get.Execute(ctx, f.sess, f.barber.ID)
	require.NoError(t, err)
	assert.False(t, found)

	saved, err := NewSaveWeeklyTemplate(f.txm, nil, f.log).Execute(ctx, f.sess, f.barber.ID, f.weekdays("09:00", "18:00"))
	require.NoError(t, err)

	tpl, found, err := get.Execute(ctx, f.sess, f.barber.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, saved, tpl)
}

func TestWeeklyTemplate_OnlyOwnerOrSelf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	colleague := testutil.Staff(t, f.db, f.shop, models.RoleBarber)
	owner := testutil.Staff(t, f.db, f.shop, models.RoleOwner)
	save := NewSaveWeeklyTemplate(f.txm, nil, f.log)

	_, err := save.Execute(ctx, session.Session{
		UserID:       colleague.ID,
		BarbershopID: f.shop.ID,
		Role:         session.RoleBarber,
	}, f.barber.ID, f.weekdays("09:00", "18:00"))
	kind, _ := httperr.KindOf(err)
	assert.Equal(t, httperr.KindForbidden, kind)

	_, err = save.Execute(ctx, session.Session{
		UserID:       owner.ID,
		BarbershopID: f.shop.ID,
		Role:         session.RoleOwner,
	}, f.barber.ID, f.weekdays("09:00", "18:00"))
	assert.NoError(t, err)
}

func TestToggleSlots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := NewToggleSlots(f.txm, f.resolver, nil, nil, f.log)

	// Without a template the default hours are materialized closed.
	day, err := uc.Execute(ctx, f.sess, ToggleSlotsInput{
		BarberID: f.barber.ID,
		Date:     monday,
		Slots:    map[string]bool{"09:40 AM - 10:20 AM": true},
	})
	require.NoError(t, err)
	require.Len(t, day, 15)
	assert.True(t, day.IsOpen(slot.Slot{Start: 580, End: 620}))
	assert.False(t, day.IsOpen(slot.Slot{Start: 540, End: 580}))

	view, err := NewGetAvailability(f.txm, f.resolver, nil, f.log).Execute(ctx, f.sess, f.barber.ID, monday)
	require.NoError(t, err)
	assert.Equal(t, schedule.SourceDaily, view.Source)
	assert.True(t, view.Labels()["09:40 AM - 10:20 AM"])
}

func TestToggleSlots_Rejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := NewToggleSlots(f.txm, f.resolver, nil, nil, f.log)

	_, err := uc.Execute(ctx, f.sess, ToggleSlotsInput{
		BarberID: f.barber.ID,
		Date:     monday,
		Slots:    map[string]bool{"09:10 AM - 09:50 AM": true},
	})
	assert.True(t, httperr.IsBusiness(err, "unknown_slot"))

	_, err = uc.Execute(ctx, f.sess, ToggleSlotsInput{
		BarberID: f.barber.ID,
		Date:     "2025-03-01",
		Slots:    map[string]bool{"09:00 AM - 09:40 AM": true},
	})
	assert.True(t, httperr.IsBusiness(err, "date_in_past"))

	_, err = uc.Execute(ctx, f.sess, ToggleSlotsInput{BarberID: f.barber.ID, Date: monday})
	assert.True(t, httperr.IsBusiness(err, "invalid_input"))
}

func TestGetAvailability_StartedSlotsAreNotBookable(t *testing.T) {
	f := newFixture(t)
	testutil.Template(t, f.db, f.barber.ID, "09:00", "11:00", time.Monday)

	// 2025-03-03 09:30 UTC: the first slot has started.
	resolver := NewResolver(schedule.DefaultPolicy(), testutil.FixedClock(testNow.Add(90*time.Minute)))
	view, err := NewGetAvailability(f.txm, resolver, nil, f.log).
		Execute(context.Background(), f.sess, f.barber.ID, "2025-03-03")
	require.NoError(t, err)

	assert.Equal(t, map[string]bool{
		"09:00 AM - 09:40 AM": false,
		"09:40 AM - 10:20 AM": true,
		"10:20 AM - 11:00 AM": true,
	}, view.Labels())
	assert.True(t, view.Slots[0].Open)
	assert.True(t, view.Slots[0].Past)
}

func TestGetAvailability_CachedViewFollowsWrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	testutil.Template(t, f.db, f.barber.ID, "09:00", "11:00", time.Monday)

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	c := cache.NewAvailabilityCache(client, time.Minute, nil)

	get := NewGetAvailability(f.txm, f.resolver, c, f.log)
	view, err := get.Execute(ctx, f.sess, f.barber.ID, monday)
	require.NoError(t, err)
	assert.True(t, view.Labels()["09:00 AM - 09:40 AM"])

	// Served from the cache: a direct row change is not seen.
	f.book(t, 99, monday, 540, 580)
	view, err = get.Execute(ctx, f.sess, f.barber.ID, monday)
	require.NoError(t, err)
	assert.True(t, view.Labels()["09:00 AM - 09:40 AM"])

	// A write through a use case retires the cached day.
	_, err = NewToggleSlots(f.txm, f.resolver, c, nil, f.log).Execute(ctx, f.sess, ToggleSlotsInput{
		BarberID: f.barber.ID,
		Date:     monday,
		Slots:    map[string]bool{"10:20 AM - 11:00 AM": false},
	})
	require.NoError(t, err)

	view, err = get.Execute(ctx, f.sess, f.barber.ID, monday)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{
		"09:00 AM - 09:40 AM": false,
		"09:40 AM - 10:20 AM": true,
		"10:20 AM - 11:00 AM": false,
	}, view.Labels())
}
