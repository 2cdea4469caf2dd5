package availability

import (
	"context"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-availability/internal/audit"
	"github.com/BruksfildServices01/barber-availability/internal/cache"
	"github.com/BruksfildServices01/barber-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-availability/internal/domain/slot"
	"github.com/BruksfildServices01/barber-availability/internal/domain/store"
	"github.com/BruksfildServices01/barber-availability/internal/httperr"
	"github.com/BruksfildServices01/barber-availability/internal/models"
	"github.com/BruksfildServices01/barber-availability/internal/session"
)

type ToggleSlotsInput struct {
	BarberID uint
	Date     string
	Slots    map[string]bool
}

// ToggleSlots lets a barber open or close individual slots of one day.
type ToggleSlots struct {
	txm      store.TxManager
	resolver *Resolver
	cache    *cache.AvailabilityCache
	audit    *audit.Dispatcher
	log      *zap.Logger
}

func NewToggleSlots(
	txm store.TxManager,
	resolver *Resolver,
	cache *cache.AvailabilityCache,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *ToggleSlots {
	return &ToggleSlots{
		txm:      txm,
		resolver: resolver,
		cache:    cache,
		audit:    audit,
		log:      log,
	}
}

func (uc *ToggleSlots) Execute(
	ctx context.Context,
	sess session.Session,
	in ToggleSlotsInput,
) (schedule.Day, error) {

	if len(in.Slots) == 0 {
		return nil, httperr.Validation("invalid_input", "horarios must not be empty")
	}

	changes := make(map[slot.Slot]bool, len(in.Slots))
	for label, open := range in.Slots {
		s, err := slot.ParseLabel(label)
		if err != nil {
			return nil, httperr.Validation("invalid_slot", err.Error())
		}
		changes[s] = open
	}

	repos := uc.txm.Repos()
	barber, err := ManagedBarber(ctx, repos, sess, in.BarberID)
	if err != nil {
		return nil, err
	}
	date, err := schedule.ParseDate(in.Date, Location(barber))
	if err != nil {
		return nil, err
	}
	if date.Before(uc.resolver.Today(barber)) {
		return nil, httperr.Validation("date_in_past", "cannot change a past date")
	}
	key := schedule.FormatDate(date)

	var result schedule.Day
	err = uc.txm.WithTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		if err := repos.Schedule.LockDay(ctx, schedule.LockScopeBarber, in.BarberID, key); err != nil {
			return err
		}

		var base schedule.Day
		stored, err := repos.Schedule.GetDailyAvailability(ctx, in.BarberID, key)
		if err != nil {
			return err
		}
		if stored != nil {
			base = schedule.DayFromAvailability(stored)
		} else if base, err = uc.resolver.Derived(ctx, repos, in.BarberID, date); err != nil {
			return err
		}

		result, err = base.Toggle(changes)
		if err != nil {
			return err
		}

		return repos.Schedule.SaveDailyAvailability(ctx, &models.DailyAvailability{
			BarberID: in.BarberID,
			Date:     key,
			Source:   models.AvailabilitySourceManual,
			Slots:    result.AvailabilityRows(),
		})
	})
	if err != nil {
		return nil, err
	}

	if err := uc.cache.InvalidateDay(ctx, in.BarberID, key); err != nil {
		uc.log.Warn("availability cache invalidation failed", zap.Error(err))
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: barber.BarbershopID,
		UserID:       audit.UintPtr(sess.UserID),
		Action:       "slots_toggled",
		Entity:       "barber",
		EntityID:     audit.UintPtr(in.BarberID),
		Metadata:     map[string]any{"date": key, "slots": in.Slots},
	})

	return result, nil
}
