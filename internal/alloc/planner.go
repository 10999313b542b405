package alloc

import (
	"errors"

	"paycalc/internal/core"
	"paycalc/internal/log"
)

// PlanConfig is the parsed allocation configuration: who never gets paid,
// who gets paid first, and the weekly budget periods in workbook order.
type PlanConfig struct {
	Exclusions core.Set
	Priorities core.PriorityTable
	Periods    []core.BudgetPeriod
}

// PlanResult is the outcome of a full multi-period run. Recommended holds
// the doc numbers funded across all periods; it is threaded through the
// period loop as an explicit value, not shared mutable state.
type PlanResult struct {
	Recommendations []core.Recommendation
	Summary         []core.VendorSummary
	Recommended     core.Set
}

// Planner drives the engine across budget periods, carrying the
// already-recommended set forward so no invoice is funded twice.
type Planner struct {
	engine *Engine
	logger *log.Logger
}

func NewPlanner(engine *Engine, logger *log.Logger) *Planner {
	if logger == nil {
		logger = log.New(log.Config{Component: log.ComponentAlloc})
	}
	return &Planner{engine: engine, logger: logger}
}

// Run iterates the configured periods in order. Periods missing a week
// ending or weekly budget are skipped with a warning; a period without a
// resolvable budget is skipped with an error; everything else continues.
// An invoice funded in an earlier period can never be funded again later.
// The reverse is deliberate too: an invoice skipped for budget reasons is
// eligible again in the next period with its fresh budget.
func (p *Planner) Run(ledger []core.BillRow, cfg PlanConfig) PlanResult {
	recommended := core.NewSet()
	var all []core.Recommendation

	for _, period := range cfg.Periods {
		if period.WeekEnding.IsZero() || period.WeeklyBudget.Cents <= 0 {
			p.logger.Warn("Skipping invalid budget entry",
				log.FieldWeekEnding, period.WeekEnding.String())
			continue
		}

		p.logger.Info("Processing recommendations for period",
			log.FieldWeekEnding, period.WeekEnding.String())

		recs, _, err := p.engine.Allocate(ledger, Input{
			Period:             period,
			Exclusions:         cfg.Exclusions,
			AlreadyRecommended: recommended,
			Priorities:         cfg.Priorities,
		})
		if err != nil {
			if errors.Is(err, ErrNoBudget) {
				p.logger.Error("No budget configured for period",
					log.FieldWeekEnding, period.WeekEnding.String())
				continue
			}
			p.logger.Error("Allocation failed for period",
				log.FieldWeekEnding, period.WeekEnding.String(),
				log.FieldError, err)
			continue
		}
		if len(recs) == 0 {
			p.logger.Info("No invoices recommended for period",
				log.FieldWeekEnding, period.WeekEnding.String())
			continue
		}

		all = append(all, recs...)
		recommended = withDocNums(recommended, recs)
	}

	return PlanResult{
		Recommendations: all,
		Summary:         Summarize(all),
		Recommended:     recommended,
	}
}

// withDocNums returns a new set extended with the funded doc numbers,
// keeping the carry-forward between periods an explicit data dependency.
func withDocNums(prev core.Set, recs []core.Recommendation) core.Set {
	next := make(core.Set, len(prev)+len(recs))
	for doc := range prev {
		next.Add(doc)
	}
	for _, rec := range recs {
		next.Add(rec.DocNum)
	}
	return next
}
