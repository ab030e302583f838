package ops

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hpungsan/hmchef/internal/planner"
)

// PlanOutput contains the result of the PlanWeek operation.
type PlanOutput struct {
	Start    time.Time      `json:"start"`
	Slots    []planner.Slot `json:"slots"`
	Complete bool           `json:"complete"`
}

// PlanWeek builds a seven-day plan starting on the day of start and waits
// until every day's request has finished or ctx is done. Days that did not
// resolve keep the placeholder.
func PlanWeek(ctx context.Context, src planner.Source, logger *zap.Logger, start time.Time) *PlanOutput {
	p := planner.New(start, logger)
	planner.Wait(p.Fill(ctx, src))

	slots := p.Slots()
	return &PlanOutput{
		Start:    slots[0].Date,
		Slots:    slots,
		Complete: p.Complete(),
	}
}
