package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"paycalc/internal/alloc"
	"paycalc/internal/docs/memory"
	"paycalc/internal/report"
	"paycalc/internal/workbook"
)

type fakeReports struct {
	rep *report.AgedPayables
	err error
}

func (f *fakeReports) FetchAgedPayables(_ context.Context) (*report.AgedPayables, error) {
	return f.rep, f.err
}

func ledgerReport(t *testing.T) *report.AgedPayables {
	t.Helper()
	payload := `{
		"Rows": {"Row": [
			{"Header": {"ColData": [{"value": "Current"}]},
			 "Rows": {"Row": [
				{"type": "Data", "ColData": [
					{"value": "2024-02-01"}, {"value": "Bill"},
					{"value": "A-1"}, {"value": "Acme"},
					{"value": "2024-03-01"}, {"value": "50"},
					{"value": "150.00"}, {"value": "150.00"}
				]}
			 ]}}
		]}
	}`
	rep, err := report.Decode(bytes.NewReader([]byte(payload)))
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return rep
}

func configWorkbook(t *testing.T, weekly, vendor string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", workbook.SheetConfig); err != nil {
		t.Fatalf("set sheet name: %v", err)
	}
	configRows := [][]interface{}{
		{"Config Type", "Vendor Name", "Week Ending", "Weekly Budget", "Vendor Budget"},
		{"Budget", "", "2024-03-08", weekly, vendor},
	}
	for i := range configRows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(workbook.SheetConfig, cell, &configRows[i]); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	if _, err := f.NewSheet(workbook.SheetVendors); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	vendorRows := [][]interface{}{
		{"Vendor", "Priority"},
		{"Acme", "1"},
	}
	for i := range vendorRows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(workbook.SheetVendors, cell, &vendorRows[i]); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func newProcessor(t *testing.T, store *memory.Store, reports ReportProvider, localOutput string) *RunProcessor {
	t.Helper()
	planner := alloc.NewPlanner(alloc.NewEngine(alloc.DefaultPolicy()), nil)
	return NewRunProcessor(Options{
		Reports:          reports,
		Store:            store,
		Planner:          planner,
		LocalOutputFile:  localOutput,
		RemoteOutputFile: "recommendations.xlsx",
	})
}

func TestRunPublishesRecommendations(t *testing.T) {
	store := memory.New(configWorkbook(t, "500", "200"))
	local := filepath.Join(t.TempDir(), "out.xlsx")
	p := newProcessor(t, store, &fakeReports{rep: ledgerReport(t)}, local)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	content, ok := store.Published("recommendations.xlsx")
	if !ok {
		t.Fatal("expected published workbook")
	}

	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("open published workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(workbook.SheetRecommendations)
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 recommendation, got %d rows", len(rows))
	}
	if rows[1][3] != "A-1" || rows[1][4] != "acme" {
		t.Errorf("unexpected recommendation row: %v", rows[1])
	}
	if rows[1][9] != "150" {
		t.Errorf("unexpected payment: %v", rows[1])
	}

	localContent, err := os.ReadFile(local)
	if err != nil {
		t.Fatalf("read local copy: %v", err)
	}
	if !bytes.Equal(localContent, content) {
		t.Error("local copy differs from published workbook")
	}
}

func TestRunEmptyLedger(t *testing.T) {
	store := memory.New(configWorkbook(t, "500", "200"))
	empty := &report.AgedPayables{}
	p := newProcessor(t, store, &fakeReports{rep: empty}, "")

	if err := p.Run(context.Background()); !errors.Is(err, ErrNoLedger) {
		t.Fatalf("expected ErrNoLedger, got %v", err)
	}
}

func TestRunNothingToRecommend(t *testing.T) {
	// A zero vendor budget makes every period unallocatable; the run still
	// succeeds with nothing published.
	store := memory.New(configWorkbook(t, "500", "0"))
	p := newProcessor(t, store, &fakeReports{rep: ledgerReport(t)}, "")

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, ok := store.Published("recommendations.xlsx"); ok {
		t.Fatal("expected no published workbook")
	}
}

func TestRunConfigFetchFailure(t *testing.T) {
	store := memory.New(nil)
	p := newProcessor(t, store, &fakeReports{rep: ledgerReport(t)}, "")
	if err := p.Run(context.Background()); err == nil {
		t.Fatal("expected error when config fetch fails")
	}
}

func TestRunConfigParseFailure(t *testing.T) {
	store := memory.New([]byte("not a workbook"))
	p := newProcessor(t, store, &fakeReports{rep: ledgerReport(t)}, "")
	if err := p.Run(context.Background()); err == nil {
		t.Fatal("expected error when config parse fails")
	}
}

func TestRunReportFetchFailure(t *testing.T) {
	store := memory.New(configWorkbook(t, "500", "200"))
	p := newProcessor(t, store, &fakeReports{err: errors.New("boom")}, "")
	if err := p.Run(context.Background()); err == nil {
		t.Fatal("expected error when report fetch fails")
	}
}

func TestRunLocalSaveFailureIsNotFatal(t *testing.T) {
	store := memory.New(configWorkbook(t, "500", "200"))
	badPath := filepath.Join(t.TempDir(), "missing-dir", "out.xlsx")
	p := newProcessor(t, store, &fakeReports{rep: ledgerReport(t)}, badPath)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, ok := store.Published("recommendations.xlsx"); !ok {
		t.Fatal("expected workbook published despite failed local save")
	}
}
