// Package testutil opens an in-memory database with the full schema and
// seeds the rows most tests need.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/barber-availability/internal/db"
	"github.com/BruksfildServices01/barber-availability/internal/models"
)

var seq atomic.Uint64

// NewDB returns a migrated sqlite database private to the test. A single
// connection keeps the in-memory database shared and serializes writers.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

// FixedClock always returns t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func Barbershop(t *testing.T, gdb *gorm.DB, tz string) *models.Barbershop {
	t.Helper()

	n := seq.Add(1)
	shop := &models.Barbershop{
		Name:     fmt.Sprintf("Shop %d", n),
		Slug:     fmt.Sprintf("shop-%d", n),
		Timezone: tz,
	}
	require.NoError(t, gdb.Create(shop).Error)
	return shop
}

func Staff(t *testing.T, gdb *gorm.DB, shop *models.Barbershop, role string) *models.User {
	t.Helper()

	n := seq.Add(1)
	u := &models.User{
		BarbershopID: shop.ID,
		Name:         fmt.Sprintf("Staff %d", n),
		Email:        fmt.Sprintf("staff%d@example.com", n),
		Role:         role,
	}
	require.NoError(t, gdb.Create(u).Error)
	u.Barbershop = *shop
	return u
}

func Client(t *testing.T, gdb *gorm.DB, shop *models.Barbershop) *models.Client {
	t.Helper()

	n := seq.Add(1)
	c := &models.Client{
		BarbershopID: shop.ID,
		Name:         fmt.Sprintf("Client %d", n),
		Email:        fmt.Sprintf("client%d@example.com", n),
	}
	require.NoError(t, gdb.Create(c).Error)
	return c
}

func Service(t *testing.T, gdb *gorm.DB, shop *models.Barbershop) *models.BarberProduct {
	t.Helper()

	p := &models.BarberProduct{
		BarbershopID: shop.ID,
		Name:         "Corte",
		Price:        50,
		Active:       true,
	}
	require.NoError(t, gdb.Create(p).Error)
	return p
}

// Template stores the same hours for the given weekdays and disables the
// others.
func Template(t *testing.T, gdb *gorm.DB, barberID uint, start, end string, weekdays ...time.Weekday) {
	t.Helper()

	enabled := map[time.Weekday]bool{}
	for _, wd := range weekdays {
		enabled[wd] = true
	}

	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		row := models.TemplateDay{
			BarberID: barberID,
			Weekday:  int(wd),
			Enabled:  enabled[wd],
		}
		if enabled[wd] {
			row.StartTime = start
			row.EndTime = end
		}
		require.NoError(t, gdb.Create(&row).Error)
	}
}
