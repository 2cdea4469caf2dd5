package availability

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-availability/internal/infra/repository"
	"github.com/BruksfildServices01/barber-availability/internal/models"
	"github.com/BruksfildServices01/barber-availability/internal/session"
	"github.com/BruksfildServices01/barber-availability/internal/testutil"
)

// Monday 2025-03-03, 08:00 UTC.
var testNow = time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)

type fixture struct {
	db       *gorm.DB
	txm      *repository.GormTxManager
	resolver *Resolver
	shop     *models.Barbershop
	barber   *models.User
	sess     session.Session
	log      *zap.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	shop := testutil.Barbershop(t, db, "UTC")
	barber := testutil.Staff(t, db, shop, models.RoleBarber)

	return &fixture{
		db:       db,
		txm:      repository.NewGormTxManager(db),
		resolver: NewResolver(schedule.DefaultPolicy(), testutil.FixedClock(testNow)),
		shop:     shop,
		barber:   barber,
		sess: session.Session{
			UserID:       barber.ID,
			BarbershopID: shop.ID,
			Role:         session.RoleBarber,
		},
		log: zap.NewNop(),
	}
}

func (f *fixture) weekdays(start, end string) []DayInput {
	days := make([]DayInput, 0, 7)
	for wd := 0; wd < 7; wd++ {
		enabled := wd >= int(time.Monday) && wd <= int(time.Friday)
		d := DayInput{Weekday: wd, Enabled: enabled}
		if enabled {
			d.Start, d.End = start, end
		}
		days = append(days, d)
	}
	return days
}

func (f *fixture) book(t *testing.T, clientID uint, date string, start, end int) *models.Appointment {
	t.Helper()

	ap := &models.Appointment{
		BarbershopID:    f.shop.ID,
		BarberID:        f.barber.ID,
		ClientID:        clientID,
		BarberProductID: 1,
		Date:            date,
		StartMinute:     start,
		EndMinute:       end,
		Status:          "pending",
	}
	if err := f.db.Create(ap).Error; err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	res := &models.SlotReservation{
		AppointmentID: ap.ID,
		BarberID:      ap.BarberID,
		Date:          date,
		StartMinute:   start,
		EndMinute:     end,
	}
	if err := f.db.Create(res).Error; err != nil {
		t.Fatalf("create reservation: %v", err)
	}
	return ap
}
