// Package alloc implements the budget-constrained invoice allocation:
// candidate filtering and prioritization, the greedy per-vendor payment
// loop, per-vendor aggregation, and the planner that walks weekly budget
// periods.
package alloc

import (
	"errors"
	"log/slog"
	"sort"

	"paycalc/internal/core"
)

// ErrNoBudget signals that no budget resolves for the requested period.
// The period produces no recommendations; other periods are unaffected.
var ErrNoBudget = errors.New("no budget configured for period")

// Policy holds the fixed allocation policy knobs. Defaults mirror the
// established payables policy; both are configurable.
type Policy struct {
	// CutoffDate excludes stale historical bills: only bills dated
	// strictly after it are candidates.
	CutoffDate core.Date

	// UrgentDays marks a bill urgent once days past due reaches it.
	UrgentDays int
}

// DefaultPolicy returns the documented policy defaults.
func DefaultPolicy() Policy {
	return Policy{
		CutoffDate: core.NewDate(2024, 1, 1),
		UrgentDays: 45,
	}
}

// Engine selects which invoices to pay, in what order, and for how much.
type Engine struct {
	policy Policy
}

func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy}
}

// Input carries everything one period's allocation depends on. The
// already-recommended set is read-only here; the planner owns its updates.
type Input struct {
	Period             core.BudgetPeriod
	Exclusions         core.Set
	AlreadyRecommended core.Set
	Priorities         core.PriorityTable
}

// Allocate runs one period. Candidates are filtered and ordered, then
// funded greedily per vendor under the vendor cap and the shared weekly
// cap. Returns the recommendations and their per-vendor summary.
func (e *Engine) Allocate(ledger []core.BillRow, in Input) ([]core.Recommendation, []core.VendorSummary, error) {
	if !in.Period.Allocatable() {
		return nil, nil, ErrNoBudget
	}

	candidates := e.prepare(ledger, in)
	recs := e.fund(candidates, in.Period)
	return recs, Summarize(recs), nil
}

// prepare applies the candidate pipeline in its fixed order: exclusions,
// bill-only filter, field coercion (failed amounts drop the row, failed
// dates and day counts leave the field missing), cutoff date, urgency
// flag, priority join, priority sort, and finally cross-period dedupe.
func (e *Engine) prepare(ledger []core.BillRow, in Input) []core.Bill {
	candidates := make([]core.Bill, 0, len(ledger))
	for _, row := range ledger {
		vendor := core.NormalizeVendor(row.Vendor)
		if in.Exclusions.Has(vendor) {
			continue
		}
		if row.TxnType != "Bill" {
			continue
		}

		amount, err := core.ParseAmount(row.Amount)
		if err != nil {
			// A row is unusable without a payable amount.
			continue
		}
		txnDate, err := core.ParseDate(row.TxnDate)
		if err != nil || !txnDate.After(e.policy.CutoffDate.Time) {
			continue
		}

		bill := core.Bill{
			AgingCategory: row.AgingCategory,
			TxnDate:       txnDate,
			TxnType:       row.TxnType,
			DocNum:        row.DocNum,
			Vendor:        vendor,
			Amount:        amount,
			OpenBalance:   row.OpenBalance,
			Priority:      in.Priorities.Lookup(vendor),
		}
		if due, err := core.ParseDate(row.DueDate); err == nil {
			bill.DueDate = due
		}
		if days, err := core.ParseDays(row.DaysPastDue); err == nil {
			bill.DaysPastDue = days
			bill.Urgent = days >= e.policy.UrgentDays
		}
		candidates = append(candidates, bill)
	}

	sortCandidates(candidates)

	// Dedupe after the sort so ordering never depends on earlier periods.
	kept := candidates[:0]
	for _, bill := range candidates {
		if in.AlreadyRecommended.Has(bill.DocNum) {
			continue
		}
		kept = append(kept, bill)
	}
	return kept
}

// sortCandidates orders by urgency, then priority, then earliest due date.
// The sort is stable: equal keys keep ledger order. Bills whose due date
// failed to coerce sort after dated bills within their tier.
func sortCandidates(bills []core.Bill) {
	sort.SliceStable(bills, func(i, j int) bool {
		a, b := bills[i], bills[j]
		if a.Urgent != b.Urgent {
			return a.Urgent
		}
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return dueBefore(a, b)
	})
}

func dueBefore(a, b core.Bill) bool {
	switch {
	case a.DueDate.IsZero():
		return false
	case b.DueDate.IsZero():
		return true
	default:
		return a.DueDate.Before(b.DueDate.Time)
	}
}

// fund walks vendor groups in candidate order, paying each invoice the
// smallest of its amount and the two remaining budgets. Every vendor group
// is visited even once the weekly budget is spent: that vendor's first
// comparison yields a non-positive payment and breaks immediately. Do not
// add a global early exit; which vendors are visited is part of the
// contract.
func (e *Engine) fund(candidates []core.Bill, period core.BudgetPeriod) []core.Recommendation {
	var recs []core.Recommendation
	var periodTotal int64

	for _, group := range groupByVendor(candidates) {
		var vendorTotal int64
		for _, bill := range group {
			remainingVendor := period.VendorBudget.Cents - vendorTotal
			remainingWeekly := period.WeeklyBudget.Cents - periodTotal
			payment := minCents(bill.Amount.Cents, remainingVendor, remainingWeekly)

			slog.Debug("Evaluating invoice",
				"vendor", bill.Vendor,
				"doc_num", bill.DocNum,
				"amount_cents", bill.Amount.Cents,
				"remaining_vendor_cents", remainingVendor,
				"remaining_weekly_cents", remainingWeekly)

			if payment <= 0 {
				// Budgets only shrink within a vendor pass; later
				// invoices for this vendor cannot be funded.
				break
			}

			vendorTotal += payment
			periodTotal += payment
			recs = append(recs, core.Recommendation{
				Bill:             bill,
				Payment:          core.Money{Cents: payment},
				VendorCumulative: core.Money{Cents: vendorTotal},
				PeriodCumulative: core.Money{Cents: periodTotal},
				WeekEnding:       period.WeekEnding,
			})

			if vendorTotal >= period.VendorBudget.Cents || periodTotal >= period.WeeklyBudget.Cents {
				break
			}
		}
	}
	return recs
}

// groupByVendor splits candidates into per-vendor groups without
// re-sorting: groups appear in first-appearance order and rows keep their
// relative order inside each group.
func groupByVendor(bills []core.Bill) [][]core.Bill {
	index := make(map[string]int)
	var groups [][]core.Bill
	for _, bill := range bills {
		i, ok := index[bill.Vendor]
		if !ok {
			i = len(groups)
			index[bill.Vendor] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], bill)
	}
	return groups
}

func minCents(vals ...int64) int64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
