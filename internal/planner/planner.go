// Package planner builds the seven-day meal plan.
package planner

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hpungsan/hmchef/internal/recipe"
)

// Days is the number of slots in a plan.
const Days = 7

// Source supplies the recipe for one plan day.
type Source interface {
	RecipeFor(ctx context.Context, day int, date time.Time) (recipe.Recipe, error)
}

// Slot is one calendar day of the plan.
type Slot struct {
	Day      int           `json:"day"`
	Date     time.Time     `json:"date"`
	Recipe   recipe.Recipe `json:"recipe"`
	Resolved bool          `json:"resolved"`
}

// Plan holds seven day slots. Unresolved slots carry the placeholder recipe.
type Plan struct {
	logger *zap.Logger

	mu    sync.Mutex
	slots [Days]Slot
}

// New creates a plan whose first day is the calendar day of start.
func New(start time.Time, logger *zap.Logger) *Plan {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Plan{logger: logger}
	y, m, d := start.Date()
	for i := range p.slots {
		p.slots[i] = Slot{
			Day:    i,
			Date:   time.Date(y, m, d+i, 0, 0, 0, 0, start.Location()),
			Recipe: recipe.Placeholder(),
		}
	}
	return p
}

// Slots returns a copy of all seven slots in day order.
func (p *Plan) Slots() []Slot {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Slot, Days)
	copy(out, p.slots[:])
	return out
}

// Slot returns one day's slot.
func (p *Plan) Slot(day int) (Slot, bool) {
	if day < 0 || day >= Days {
		return Slot{}, false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.slots[day], true
}

// Resolve stores r as the recipe for day. It reports false for an
// out-of-range day.
func (p *Plan) Resolve(day int, r recipe.Recipe) bool {
	if day < 0 || day >= Days {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.slots[day].Recipe = r
	p.slots[day].Resolved = true
	return true
}

// Complete reports whether every day has a resolved recipe.
func (p *Plan) Complete() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range p.slots {
		if !s.Resolved {
			return false
		}
	}
	return true
}

// Fill requests a recipe for every day concurrently. Each request is bound to
// its day when dispatched, so results land in their own slot whatever order
// they arrive in. Every resolved slot is sent on the returned channel, which
// is closed once all requests have finished.
//
// A failed day keeps its placeholder. Once ctx is done, in-flight requests
// are abandoned and late results are dropped without touching the plan.
func (p *Plan) Fill(ctx context.Context, src Source) <-chan Slot {
	out := make(chan Slot, Days)
	dates := p.Slots()

	var g errgroup.Group
	for day := 0; day < Days; day++ {
		date := dates[day].Date
		g.Go(func() error {
			r, err := src.RecipeFor(ctx, day, date)
			if err != nil {
				if ctx.Err() == nil {
					p.logger.Warn("planner day fetch failed", zap.Int("day", day), zap.Error(err))
				}
				return nil
			}
			if ctx.Err() != nil {
				p.logger.Debug("planner result discarded", zap.Int("day", day))
				return nil
			}
			p.Resolve(day, r)
			slot, _ := p.Slot(day)
			out <- slot
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		close(out)
	}()
	return out
}

// Wait drains a Fill channel and returns once every request has finished.
func Wait(ch <-chan Slot) {
	for range ch {
	}
}
