// Package report decodes the aged payables detail report returned by the
// QuickBooks reports API and flattens it into ledger rows.
//
// The payload is a nested tree: top-level sections keyed by aging bucket,
// each holding typed rows whose cells are positional. Only rows typed
// "Data" carry bills; everything else (headers, summaries, totals) is
// ignored.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"paycalc/internal/core"
)

const (
	// rowTypeData marks rows that carry a bill.
	rowTypeData = "Data"

	// defaultCategory is used when a section has no header cell.
	defaultCategory = "No Category"

	// columnCount is the fixed positional layout of a data row:
	// date, type, doc num, vendor, due date, days past due, amount,
	// open balance.
	columnCount = 8
)

type (
	// AgedPayables is the decoded report payload.
	AgedPayables struct {
		Header  Header   `json:"Header"`
		Columns Columns  `json:"Columns"`
		Rows    RowGroup `json:"Rows"`
	}

	Header struct {
		Time        string `json:"Time"`
		ReportName  string `json:"ReportName"`
		StartPeriod string `json:"StartPeriod"`
		EndPeriod   string `json:"EndPeriod"`
		Currency    string `json:"Currency"`
	}

	Columns struct {
		Column []Column `json:"Column"`
	}

	Column struct {
		ColTitle string `json:"ColTitle"`
		ColType  string `json:"ColType"`
	}

	RowGroup struct {
		Row []Row `json:"Row"`
	}

	// Row is either a section (Header + nested Rows) or a leaf whose Type
	// tags it as a header, data, or summary row.
	Row struct {
		Type    string    `json:"type"`
		Header  *RowHead  `json:"Header,omitempty"`
		Rows    *RowGroup `json:"Rows,omitempty"`
		Summary *RowHead  `json:"Summary,omitempty"`
		ColData []Cell    `json:"ColData,omitempty"`
	}

	RowHead struct {
		ColData []Cell `json:"ColData"`
	}

	Cell struct {
		Value string `json:"value"`
		ID    string `json:"id,omitempty"`
	}
)

// Decode parses a report payload.
func Decode(r io.Reader) (*AgedPayables, error) {
	var rep AgedPayables
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return nil, fmt.Errorf("decode aged payables report: %w", err)
	}
	return &rep, nil
}

// Flatten converts the nested report into ledger rows: exactly one row per
// leaf typed "Data", with the section header attached as the aging
// category. A payload without the expected section structure yields an
// empty result, which the caller treats as "no data this cycle".
func (r *AgedPayables) Flatten() []core.BillRow {
	var rows []core.BillRow
	for _, section := range r.Rows.Row {
		category := defaultCategory
		if section.Header != nil && len(section.Header.ColData) > 0 {
			if v := section.Header.ColData[0].Value; v != "" {
				category = v
			}
		}
		if section.Rows == nil {
			continue
		}
		for _, row := range section.Rows.Row {
			if row.Type != rowTypeData {
				continue
			}
			rows = append(rows, flattenRow(category, row.ColData))
		}
	}
	return rows
}

func flattenRow(category string, cells []Cell) core.BillRow {
	values := make([]string, columnCount)
	for i := 0; i < columnCount && i < len(cells); i++ {
		values[i] = cells[i].Value
	}
	return core.BillRow{
		AgingCategory: category,
		TxnDate:       values[0],
		TxnType:       values[1],
		DocNum:        values[2],
		Vendor:        values[3],
		DueDate:       values[4],
		DaysPastDue:   values[5],
		Amount:        values[6],
		OpenBalance:   values[7],
	}
}
