package report

import (
	"strings"
	"testing"
)

const samplePayload = `{
  "Header": {
    "Time": "2024-03-01T09:00:00-08:00",
    "ReportName": "AgedPayableDetail",
    "Currency": "USD"
  },
  "Columns": {
    "Column": [
      {"ColTitle": "Date", "ColType": "Date"},
      {"ColTitle": "Transaction Type", "ColType": "String"}
    ]
  },
  "Rows": {
    "Row": [
      {
        "Header": {"ColData": [{"value": "Current"}]},
        "Rows": {
          "Row": [
            {
              "type": "Data",
              "ColData": [
                {"value": "2024-02-10"},
                {"value": "Bill"},
                {"value": "1001", "id": "77"},
                {"value": "Acme Corp", "id": "12"},
                {"value": "2024-03-10"},
                {"value": "0"},
                {"value": "150.00"},
                {"value": "150.00"}
              ]
            },
            {
              "type": "Header",
              "ColData": [{"value": "not a bill"}]
            }
          ]
        },
        "Summary": {"ColData": [{"value": "Total Current"}, {"value": "150.00"}]},
        "type": "Section"
      },
      {
        "Header": {"ColData": [{"value": "91 or more days past due"}]},
        "Rows": {
          "Row": [
            {
              "type": "Data",
              "ColData": [
                {"value": "2023-11-01"},
                {"value": "Bill"},
                {"value": "883"},
                {"value": "Widgets Inc"},
                {"value": "2023-12-01"},
                {"value": "92"},
                {"value": "75.25"},
                {"value": "75.25"}
              ]
            }
          ]
        },
        "type": "Section"
      },
      {
        "Header": {"ColData": [{"value": "Empty Section"}]},
        "type": "Section"
      }
    ]
  }
}`

func TestDecodeAndFlatten(t *testing.T) {
	rep, err := Decode(strings.NewReader(samplePayload))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	rows := rep.Flatten()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.AgingCategory != "Current" {
		t.Errorf("aging category = %q, want Current", first.AgingCategory)
	}
	if first.TxnDate != "2024-02-10" || first.TxnType != "Bill" || first.DocNum != "1001" {
		t.Errorf("unexpected first row: %+v", first)
	}
	if first.Vendor != "Acme Corp" || first.DueDate != "2024-03-10" {
		t.Errorf("unexpected first row vendor/due: %+v", first)
	}
	if first.DaysPastDue != "0" || first.Amount != "150.00" || first.OpenBalance != "150.00" {
		t.Errorf("unexpected first row numerics: %+v", first)
	}

	second := rows[1]
	if second.AgingCategory != "91 or more days past due" || second.DocNum != "883" {
		t.Errorf("unexpected second row: %+v", second)
	}
}

func TestFlattenShortRow(t *testing.T) {
	rep := &AgedPayables{
		Rows: RowGroup{Row: []Row{{
			Header: &RowHead{ColData: []Cell{{Value: "Current"}}},
			Rows: &RowGroup{Row: []Row{{
				Type:    "Data",
				ColData: []Cell{{Value: "2024-02-10"}, {Value: "Bill"}},
			}}},
		}}},
	}
	rows := rep.Flatten()
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].TxnType != "Bill" || rows[0].Amount != "" {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
}

func TestFlattenMissingStructure(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"empty object", `{}`},
		{"no sections", `{"Rows": {"Row": []}}`},
		{"sections without rows", `{"Rows": {"Row": [{"Header": {"ColData": [{"value": "Current"}]}}]}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rep, err := Decode(strings.NewReader(tc.payload))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if rows := rep.Flatten(); len(rows) != 0 {
				t.Fatalf("expected no rows, got %d", len(rows))
			}
		})
	}
}

func TestFlattenDefaultCategory(t *testing.T) {
	rep := &AgedPayables{
		Rows: RowGroup{Row: []Row{{
			Rows: &RowGroup{Row: []Row{{
				Type:    "Data",
				ColData: []Cell{{Value: "2024-02-10"}, {Value: "Bill"}, {Value: "1"}, {Value: "V"}, {Value: ""}, {Value: ""}, {Value: "1.00"}, {Value: "1.00"}},
			}}},
		}}},
	}
	rows := rep.Flatten()
	if len(rows) != 1 || rows[0].AgingCategory != "No Category" {
		t.Fatalf("expected default category, got %+v", rows)
	}
}

func TestDecodeInvalidJSON(t *testing.T) {
	if _, err := Decode(strings.NewReader("{not json")); err == nil {
		t.Fatal("expected error")
	}
}
