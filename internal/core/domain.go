package core

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the wire format for report and workbook dates.
const DateLayout = "2006-01-02"

type (
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// BillRow is one flattened row of the aged payables report, exactly as
	// received: positional string cells plus the section header it came from.
	BillRow struct {
		AgingCategory string
		TxnDate       string
		TxnType       string
		DocNum        string
		Vendor        string
		DueDate       string
		DaysPastDue   string
		Amount        string
		OpenBalance   string
	}

	// Bill is a coerced allocation candidate. Vendor holds the normalized
	// key; DueDate stays zero when the source value did not parse.
	Bill struct {
		AgingCategory string
		TxnDate       Date
		TxnType       string
		DocNum        string
		Vendor        string
		DueDate       Date
		DaysPastDue   int
		Urgent        bool
		Priority      int
		Amount        Money
		OpenBalance   string
	}

	// Recommendation is a funded bill. Produced only by the allocation
	// engine and never modified afterwards.
	Recommendation struct {
		Bill
		Payment          Money
		VendorCumulative Money
		PeriodCumulative Money
		WeekEnding       Date
	}

	// VendorSummary aggregates a vendor's recommendations: doc numbers
	// comma-joined in allocation order, payments summed.
	VendorSummary struct {
		Vendor  string
		DocNums string
		Total   Money
	}

	// BudgetPeriod is one weekly budget cycle. Both caps must be positive
	// for the period to be allocatable.
	BudgetPeriod struct {
		WeekEnding   Date
		WeeklyBudget Money
		VendorBudget Money
	}

	// PriorityTable maps normalized vendor names to an integer priority.
	PriorityTable map[string]int

	// Set is a plain string set, used for vendor exclusions and for the
	// already-recommended doc numbers carried across periods.
	Set map[string]struct{}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidNumber = errors.New("invalid number")
)

// NormalizeVendor produces the canonical vendor key: case-folded, trimmed.
func NormalizeVendor(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NewDate creates a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func NewSet(vals ...string) Set {
	s := make(Set, len(vals))
	for _, v := range vals {
		s.Add(v)
	}
	return s
}

func (s Set) Add(v string) {
	s[v] = struct{}{}
}

func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Lookup returns the vendor's priority, or zero when the vendor is absent.
func (t PriorityTable) Lookup(vendor string) int {
	return t[vendor]
}

// Allocatable reports whether the period carries both budget caps.
func (p BudgetPeriod) Allocatable() bool {
	return p.WeeklyBudget.Cents > 0 && p.VendorBudget.Cents > 0
}
