package availability

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-availability/internal/cache"
	"github.com/BruksfildServices01/barber-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-availability/internal/domain/slot"
	"github.com/BruksfildServices01/barber-availability/internal/domain/store"
	"github.com/BruksfildServices01/barber-availability/internal/session"
)

type SlotView struct {
	Label    string `json:"label"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Open     bool   `json:"open"`
	Reserved bool   `json:"reserved"`

	// Past is recomputed on every read, cached or not.
	Past bool `json:"past"`
}

// Bookable is what clients see: open, not held by an appointment and not
// started yet.
func (s SlotView) Bookable() bool {
	return s.Open && !s.Reserved && !s.Past
}

type View struct {
	BarberID uint            `json:"barberId"`
	Date     string          `json:"date"`
	Source   schedule.Source `json:"source"`
	Slots    []SlotView      `json:"slots"`
}

// Labels maps each wire label to whether it can be booked.
func (v View) Labels() map[string]bool {
	out := make(map[string]bool, len(v.Slots))
	for _, s := range v.Slots {
		out[s.Label] = s.Bookable()
	}
	return out
}

type GetAvailability struct {
	txm      store.TxManager
	resolver *Resolver
	cache    *cache.AvailabilityCache
	log      *zap.Logger
}

func NewGetAvailability(
	txm store.TxManager,
	resolver *Resolver,
	cache *cache.AvailabilityCache,
	log *zap.Logger,
) *GetAvailability {
	return &GetAvailability{
		txm:      txm,
		resolver: resolver,
		cache:    cache,
		log:      log,
	}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	sess session.Session,
	barberID uint,
	date string,
) (*View, error) {

	repos := uc.txm.Repos()

	barber, err := VisibleBarber(ctx, repos, sess, barberID)
	if err != nil {
		return nil, err
	}
	day, err := schedule.ParseDate(date, Location(barber))
	if err != nil {
		return nil, err
	}
	key := schedule.FormatDate(day)

	// The stamp is read before resolving so a write committed meanwhile
	// retires whatever this call stores.
	stamp, err := uc.cache.Stamp(ctx, barberID, key)
	if err != nil {
		uc.log.Warn("availability cache read failed", zap.Error(err))
	}

	var cached View
	if found, err := uc.cache.Get(ctx, barberID, key, stamp, &cached); err != nil {
		uc.log.Warn("availability cache read failed", zap.Error(err))
	} else if found {
		uc.markPast(&cached, day)
		return &cached, nil
	}

	slots, source, err := uc.resolver.Day(ctx, repos, barberID, day)
	if err != nil {
		return nil, err
	}

	reservations, err := repos.Appointments.ListReservations(ctx, barberID, key)
	if err != nil {
		return nil, err
	}
	held := make([]slot.Slot, 0, len(reservations))
	for _, r := range reservations {
		held = append(held, slot.Slot{Start: slot.Minute(r.StartMinute), End: slot.Minute(r.EndMinute)})
	}

	view := &View{
		BarberID: barberID,
		Date:     key,
		Source:   source,
		Slots:    make([]SlotView, 0, len(slots)),
	}
	for _, s := range slots {
		reserved := false
		for _, h := range held {
			if h.Overlaps(s.Slot) {
				reserved = true
				break
			}
		}
		view.Slots = append(view.Slots, SlotView{
			Label:    s.Label(),
			Start:    s.Start.Clock(),
			End:      s.End.Clock(),
			Open:     s.Open,
			Reserved: reserved,
		})
	}

	if err := uc.cache.Set(ctx, barberID, key, stamp, view); err != nil {
		uc.log.Warn("availability cache write failed", zap.Error(err))
	}

	uc.markPast(view, day)
	return view, nil
}

func (uc *GetAvailability) markPast(v *View, day time.Time) {
	now := uc.resolver.Now()
	for i := range v.Slots {
		start, err := slot.ParseClock(v.Slots[i].Start)
		if err != nil {
			continue
		}
		v.Slots[i].Past = start.On(day).Before(now)
	}
}
