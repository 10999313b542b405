package core

import (
	"testing"
	"time"
)

func TestNormalizeVendor(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Acme Corp", "acme corp"},
		{"  ACME Corp  ", "acme corp"},
		{"acme corp", "acme corp"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeVendor(tc.in); got != tc.want {
			t.Fatalf("NormalizeVendor(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSet(t *testing.T) {
	s := NewSet("a", "b", "a")
	if len(s) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(s))
	}
	if !s.Has("a") || !s.Has("b") {
		t.Fatalf("expected membership for a and b")
	}
	if s.Has("c") {
		t.Fatalf("unexpected membership for c")
	}
	s.Add("c")
	if !s.Has("c") {
		t.Fatalf("expected membership for c after Add")
	}
}

func TestPriorityTableLookup(t *testing.T) {
	table := PriorityTable{"acme": 5}
	if got := table.Lookup("acme"); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
	if got := table.Lookup("unknown vendor"); got != 0 {
		t.Fatalf("expected default 0, got %d", got)
	}
}

func TestDateString(t *testing.T) {
	if got := NewDate(2024, 1, 15).String(); got != "2024-01-15" {
		t.Fatalf("expected 2024-01-15, got %q", got)
	}
	if got := (Date{Time: time.Time{}}).String(); got != "" {
		t.Fatalf("expected empty string for zero date, got %q", got)
	}
}

func TestBudgetPeriodAllocatable(t *testing.T) {
	cases := []struct {
		name string
		p    BudgetPeriod
		want bool
	}{
		{"both caps", BudgetPeriod{WeeklyBudget: Money{Cents: 100}, VendorBudget: Money{Cents: 100}}, true},
		{"missing vendor cap", BudgetPeriod{WeeklyBudget: Money{Cents: 100}}, false},
		{"missing weekly cap", BudgetPeriod{VendorBudget: Money{Cents: 100}}, false},
		{"empty", BudgetPeriod{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.p.Allocatable(); got != tc.want {
				t.Fatalf("Allocatable() = %v, want %v", got, tc.want)
			}
		})
	}
}
