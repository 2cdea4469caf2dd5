package availability

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-availability/internal/audit"
	"github.com/BruksfildServices01/barber-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-availability/internal/domain/slot"
	"github.com/BruksfildServices01/barber-availability/internal/domain/store"
	"github.com/BruksfildServices01/barber-availability/internal/httperr"
	"github.com/BruksfildServices01/barber-availability/internal/session"
	"github.com/BruksfildServices01/barber-availability/internal/validators"
)

type DayInput struct {
	Weekday int    `validate:"min=0,max=6"`
	Enabled bool
	Start   string `validate:"required_if=Enabled true"`
	End     string `validate:"required_if=Enabled true"`
}

// BuildTemplate parses and validates a full week.
func BuildTemplate(days []DayInput) (schedule.WeeklyTemplate, error) {
	tpl := schedule.WeeklyTemplate{Days: make([]schedule.DayEntry, 0, len(days))}

	for _, d := range days {
		if err := validators.Struct(d); err != nil {
			return schedule.WeeklyTemplate{}, err
		}

		e := schedule.DayEntry{Weekday: time.Weekday(d.Weekday), Enabled: d.Enabled}
		if d.Enabled {
			start, err := slot.ParseClock(d.Start)
			if err != nil {
				return schedule.WeeklyTemplate{}, httperr.Validation("invalid_template", err.Error())
			}
			end, err := slot.ParseClock(d.End)
			if err != nil {
				return schedule.WeeklyTemplate{}, httperr.Validation("invalid_template", err.Error())
			}
			e.Start, e.End = start, end
		}
		tpl.Days = append(tpl.Days, e)
	}

	if err := tpl.Validate(); err != nil {
		return schedule.WeeklyTemplate{}, err
	}
	return tpl, nil
}

// ======================================================
// SAVE
// ======================================================

type SaveWeeklyTemplate struct {
	txm   store.TxManager
	audit *audit.Dispatcher
	log   *zap.Logger
}

func NewSaveWeeklyTemplate(
	txm store.TxManager,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *SaveWeeklyTemplate {
	return &SaveWeeklyTemplate{txm: txm, audit: audit, log: log}
}

// Execute stores the template. Materialized days are left untouched.
func (uc *SaveWeeklyTemplate) Execute(
	ctx context.Context,
	sess session.Session,
	barberID uint,
	days []DayInput,
) (schedule.WeeklyTemplate, error) {

	tpl, err := BuildTemplate(days)
	if err != nil {
		return schedule.WeeklyTemplate{}, err
	}

	var shopID uint
	err = uc.txm.WithTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		barber, err := ManagedBarber(ctx, repos, sess, barberID)
		if err != nil {
			return err
		}
		shopID = barber.BarbershopID
		return repos.Schedule.ReplaceTemplate(ctx, barberID, tpl.Models(barberID))
	})
	if err != nil {
		return schedule.WeeklyTemplate{}, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: shopID,
		UserID:       audit.UintPtr(sess.UserID),
		Action:       "weekly_template_saved",
		Entity:       "barber",
		EntityID:     audit.UintPtr(barberID),
	})
	uc.log.Info("weekly_template_saved", zap.Uint("barber_id", barberID))

	return tpl, nil
}

// ======================================================
// GET
// ======================================================

type GetWeeklyTemplate struct {
	txm store.TxManager
}

func NewGetWeeklyTemplate(txm store.TxManager) *GetWeeklyTemplate {
	return &GetWeeklyTemplate{txm: txm}
}

// Execute returns the stored template; found is false when the barber never
// saved one.
func (uc *GetWeeklyTemplate) Execute(
	ctx context.Context,
	sess session.Session,
	barberID uint,
) (tpl schedule.WeeklyTemplate, found bool, err error) {

	repos := uc.txm.Repos()
	if _, err := VisibleBarber(ctx, repos, sess, barberID); err != nil {
		return schedule.WeeklyTemplate{}, false, err
	}

	rows, err := repos.Schedule.ListTemplateDays(ctx, barberID)
	if err != nil {
		return schedule.WeeklyTemplate{}, false, err
	}
	if len(rows) == 0 {
		return schedule.WeeklyTemplate{}, false, nil
	}

	tpl, err = schedule.TemplateFromModels(rows)
	if err != nil {
		return schedule.WeeklyTemplate{}, false, err
	}
	return tpl, true, nil
}
