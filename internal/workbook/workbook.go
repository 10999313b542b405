// Package workbook reads the allocation configuration workbook and
// renders the recommendations workbook.
//
// The configuration workbook carries two sheets. "Config" mixes row
// kinds under a "config type" column: "exclusion" rows name vendors that
// are never paid, "budget" rows define the weekly periods (week ending,
// weekly budget, vendor budget). "Vendors" maps vendor names to integer
// priorities. Headers are matched case- and whitespace-insensitively.
package workbook

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"paycalc/internal/alloc"
	"paycalc/internal/core"
)

const (
	SheetConfig          = "Config"
	SheetVendors         = "Vendors"
	SheetRecommendations = "Recommendations"
	SheetSummary         = "Summary"
)

const (
	colConfigType   = "config type"
	colVendorName   = "vendor name"
	colWeekEnding   = "week ending"
	colWeeklyBudget = "weekly budget"
	colVendorBudget = "vendor budget"
	colVendor       = "vendor"
	colPriority     = "priority"
)

const (
	configTypeExclusion = "exclusion"
	configTypeBudget    = "budget"
)

// dateLayouts covers the formats a spreadsheet date cell renders to.
var dateLayouts = []string{
	core.DateLayout,
	"01-02-06",
	"01/02/2006",
	"1/2/2006",
	"1/2/06",
}

// ParseConfig decodes a configuration workbook. Both required sheets
// must be present; budget rows with unparseable values are kept with
// zero fields so the planner can skip them with a warning.
func ParseConfig(content []byte) (*alloc.PlanConfig, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open config workbook: %w", err)
	}
	defer f.Close()

	cfg := &alloc.PlanConfig{
		Exclusions: core.NewSet(),
		Priorities: core.PriorityTable{},
	}

	if err := parseConfigSheet(f, cfg); err != nil {
		return nil, err
	}
	if err := parseVendorsSheet(f, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseConfigSheet(f *excelize.File, cfg *alloc.PlanConfig) error {
	rows, err := f.GetRows(SheetConfig)
	if err != nil {
		return fmt.Errorf("missing required sheet %q: %w", SheetConfig, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("sheet %q is empty", SheetConfig)
	}

	header := headerIndex(rows[0])
	typeCol := header.col(colConfigType)
	if typeCol < 0 {
		return fmt.Errorf("sheet %q missing column %q", SheetConfig, colConfigType)
	}

	// Vendor budgets resolve per week ending; a budget row may carry the
	// vendor budget for a week defined on another row.
	vendorBudgets := map[string]core.Money{}
	for _, row := range rows[1:] {
		if strings.ToLower(strings.TrimSpace(cell(row, typeCol))) != configTypeBudget {
			continue
		}
		week, err := parseWorkbookDate(cell(row, header.col(colWeekEnding)))
		if err != nil {
			continue
		}
		budget, err := core.ParseAmount(cell(row, header.col(colVendorBudget)))
		if err != nil || budget.Cents <= 0 {
			continue
		}
		vendorBudgets[week.String()] = budget
	}

	for _, row := range rows[1:] {
		switch strings.ToLower(strings.TrimSpace(cell(row, typeCol))) {
		case configTypeExclusion:
			if name := strings.TrimSpace(cell(row, header.col(colVendorName))); name != "" {
				cfg.Exclusions.Add(core.NormalizeVendor(name))
			}
		case configTypeBudget:
			if strings.TrimSpace(cell(row, header.col(colWeeklyBudget))) == "" {
				// Not a period row; it may still have contributed a
				// vendor budget above.
				continue
			}
			period := core.BudgetPeriod{}
			if week, err := parseWorkbookDate(cell(row, header.col(colWeekEnding))); err == nil {
				period.WeekEnding = week
				period.VendorBudget = vendorBudgets[week.String()]
			}
			if budget, err := core.ParseAmount(cell(row, header.col(colWeeklyBudget))); err == nil {
				period.WeeklyBudget = budget
			}
			cfg.Periods = append(cfg.Periods, period)
		}
	}
	return nil
}

func parseVendorsSheet(f *excelize.File, cfg *alloc.PlanConfig) error {
	rows, err := f.GetRows(SheetVendors)
	if err != nil {
		return fmt.Errorf("missing required sheet %q: %w", SheetVendors, err)
	}
	if len(rows) == 0 {
		return nil
	}

	header := headerIndex(rows[0])
	vendorCol := header.col(colVendor)
	if vendorCol < 0 {
		return fmt.Errorf("sheet %q missing column %q", SheetVendors, colVendor)
	}
	priorityCol := header.col(colPriority)

	for _, row := range rows[1:] {
		vendor := core.NormalizeVendor(cell(row, vendorCol))
		if vendor == "" {
			continue
		}
		priority, err := strconv.Atoi(strings.TrimSpace(cell(row, priorityCol)))
		if err != nil {
			priority = 0
		}
		cfg.Priorities[vendor] = priority
	}
	return nil
}

type columnIndex map[string]int

// headerIndex maps normalized header names to column positions.
func headerIndex(row []string) columnIndex {
	index := make(columnIndex, len(row))
	for i, name := range row {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return index
}

// col returns the column position for a header name, or -1 when absent;
// the cell helper turns -1 into an empty value.
func (c columnIndex) col(name string) int {
	if i, ok := c[name]; ok {
		return i
	}
	return -1
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func parseWorkbookDate(s string) (core.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return core.Date{}, core.ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return core.Date{Time: t}, nil
		}
	}
	return core.Date{}, core.ErrInvalidDate
}

var recommendationHeader = []interface{}{
	"Aging Category", "Date", "Transaction Type", "Doc Num", "Vendor",
	"Due Date", "Past Due", "Amount", "Open Balance",
	"Payment Amount", "Cumulative Vendor", "Cumulative", "Week Ending",
}

var summaryHeader = []interface{}{"Vendor", "Doc Num", "Payment Amount"}

// Render produces the recommendations workbook: one detail sheet in
// allocation order and one per-vendor summary sheet.
func Render(recs []core.Recommendation, summary []core.VendorSummary) ([]byte, error) {
	if len(recs) == 0 {
		return nil, errors.New("nothing to render")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetRecommendations); err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	if err := f.SetSheetRow(SheetRecommendations, "A1", &recommendationHeader); err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	for i, rec := range recs {
		row := []interface{}{
			rec.AgingCategory,
			rec.TxnDate.String(),
			rec.TxnType,
			rec.DocNum,
			rec.Vendor,
			rec.DueDate.String(),
			rec.DaysPastDue,
			rec.Amount.Dollars(),
			rec.OpenBalance,
			rec.Payment.Dollars(),
			rec.VendorCumulative.Dollars(),
			rec.PeriodCumulative.Dollars(),
			rec.WeekEnding.String(),
		}
		if err := setRow(f, SheetRecommendations, i+2, &row); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	if err := f.SetSheetRow(SheetSummary, "A1", &summaryHeader); err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	for i, s := range summary {
		row := []interface{}{s.Vendor, s.DocNums, s.Total.Dollars()}
		if err := setRow(f, SheetSummary, i+2, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values *[]interface{}) error {
	cellName, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("render workbook: %w", err)
	}
	if err := f.SetSheetRow(sheet, cellName, values); err != nil {
		return fmt.Errorf("render workbook: %w", err)
	}
	return nil
}
