package availability

import (
	"context"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-availability/internal/audit"
	"github.com/BruksfildServices01/barber-availability/internal/cache"
	"github.com/BruksfildServices01/barber-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-availability/internal/domain/store"
	"github.com/BruksfildServices01/barber-availability/internal/httperr"
	"github.com/BruksfildServices01/barber-availability/internal/models"
	"github.com/BruksfildServices01/barber-availability/internal/session"
	"github.com/BruksfildServices01/barber-availability/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type ApplyTemplateInput struct {
	BarberID uint   `validate:"required"`
	From     string `validate:"required"`
	To       string `validate:"required"`

	// Days overrides the stored template when present.
	Days []DayInput
}

type ApplyTemplateResult struct {
	BarberID uint
	From     string
	To       string
	Dates    int
}

// ======================================================
// USE CASE
// ======================================================

type ApplyTemplate struct {
	txm      store.TxManager
	resolver *Resolver
	cache    *cache.AvailabilityCache
	audit    *audit.Dispatcher
	log      *zap.Logger
	maxDays  int
}

func NewApplyTemplate(
	txm store.TxManager,
	resolver *Resolver,
	cache *cache.AvailabilityCache,
	audit *audit.Dispatcher,
	log *zap.Logger,
	maxDays int,
) *ApplyTemplate {
	return &ApplyTemplate{
		txm:      txm,
		resolver: resolver,
		cache:    cache,
		audit:    audit,
		log:      log,
		maxDays:  maxDays,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute overwrites the materialized day of every date in the range. Every
// day is computed and validated before the first write.
func (uc *ApplyTemplate) Execute(
	ctx context.Context,
	sess session.Session,
	in ApplyTemplateInput,
) (*ApplyTemplateResult, error) {

	if err := validators.Struct(in); err != nil {
		return nil, err
	}

	repos := uc.txm.Repos()

	// --------------------------------------------------
	// 1. Barber and range
	// --------------------------------------------------
	barber, err := ManagedBarber(ctx, repos, sess, in.BarberID)
	if err != nil {
		return nil, err
	}
	rng, err := schedule.ParseRange(in.From, in.To, Location(barber), uc.maxDays)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Template
	// --------------------------------------------------
	var tpl schedule.WeeklyTemplate
	if len(in.Days) > 0 {
		tpl, err = BuildTemplate(in.Days)
		if err != nil {
			return nil, err
		}
	} else {
		rows, err := repos.Schedule.ListTemplateDays(ctx, in.BarberID)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, httperr.Validation("template_not_configured", "barber has no weekly template")
		}
		if tpl, err = schedule.TemplateFromModels(rows); err != nil {
			return nil, err
		}
		if err := tpl.Validate(); err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// 3. Materialize in memory
	// --------------------------------------------------
	policy := uc.resolver.Policy()
	dates := rng.Days()
	days := make([]*models.DailyAvailability, 0, len(dates))
	for _, d := range dates {
		entry, _ := tpl.Entry(d.Weekday())
		slots, err := policy.FromEntry(entry, true)
		if err != nil {
			return nil, err
		}
		days = append(days, &models.DailyAvailability{
			BarberID: in.BarberID,
			Date:     schedule.FormatDate(d),
			Source:   models.AvailabilitySourceTemplate,
			Slots:    slots.AvailabilityRows(),
		})
	}

	// --------------------------------------------------
	// 4. Overwrite, dates ascending
	// --------------------------------------------------
	err = uc.txm.WithTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		for _, day := range days {
			if err := repos.Schedule.LockDay(ctx, schedule.LockScopeBarber, in.BarberID, day.Date); err != nil {
				return err
			}
			if err := repos.Schedule.SaveDailyAvailability(ctx, day); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := uc.cache.InvalidateBarber(ctx, in.BarberID); err != nil {
		uc.log.Warn("availability cache invalidation failed", zap.Error(err))
	}

	res := &ApplyTemplateResult{
		BarberID: in.BarberID,
		From:     schedule.FormatDate(rng.From),
		To:       schedule.FormatDate(rng.To),
		Dates:    len(days),
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: barber.BarbershopID,
		UserID:       audit.UintPtr(sess.UserID),
		Action:       "template_applied",
		Entity:       "barber",
		EntityID:     audit.UintPtr(in.BarberID),
		Metadata:     res,
	})
	uc.log.Info("template_applied",
		zap.Uint("barber_id", in.BarberID),
		zap.String("from", res.From),
		zap.String("to", res.To),
		zap.Int("dates", res.Dates),
	)

	return res, nil
}
