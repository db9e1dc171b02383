package report

import (
	"context"
	"testing"
	"time"

	"paisa/internal/core"
	"paisa/internal/docstore"
)

var march2024 = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func decodeExpense(d docstore.Doc) (core.Expense, error) {
	date, err := core.ParseDate(docstore.String(d["date"]))
	if err != nil {
		return core.Expense{}, err
	}
	return core.Expense{
		ID:          docstore.String(d["_id"]),
		Amount:      core.Money{Cents: docstore.Int64(d["amount"])},
		Category:    docstore.String(d["category"]),
		PaymentMode: docstore.String(d["payment_mode"]),
		Date:        date,
		Time:        docstore.String(d["time"]),
		Note:        docstore.String(d["note"]),
	}, nil
}

func seedExpenses(t *testing.T) *docstore.MemoryCollection {
	t.Helper()
	c := docstore.NewMemory()
	seed := []docstore.Doc{
		{"amount": int64(10000), "category": "Food", "payment_mode": "Cash", "date": "2024-03-05", "time": "09:00", "note": ""},
		{"amount": int64(5000), "category": "Travel", "payment_mode": "Card", "date": "2024-03-10", "time": "08:00", "note": ""},
	}
	for _, d := range seed {
		if _, err := c.InsertOne(context.Background(), d); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	return c
}

func TestBuildMarchReport(t *testing.T) {
	c := seedExpenses(t)
	f := BuildFilter(Query{Month: "March"}, "category", march2024)
	sortBy := []docstore.SortKey{{Field: "date", Desc: true}, {Field: "time", Desc: true}}

	b, err := Build(context.Background(), c, "category", f, sortBy, decodeExpense, march2024)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if len(b.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(b.Records))
	}
	// Travel first: later date sorts first.
	if b.Records[0].Category != "Travel" || b.Records[1].Category != "Food" {
		t.Fatalf("wrong order: %v", b.Records)
	}
	if b.TotalFiltered.Cents != 15000 {
		t.Fatalf("total_filtered = %d, want 15000", b.TotalFiltered.Cents)
	}

	got := map[string]int64{}
	for _, g := range b.GroupedTotals {
		got[g.Key] = g.Cents
	}
	if got["Food"] != 10000 || got["Travel"] != 5000 || len(got) != 2 {
		t.Fatalf("grouped_totals = %v", got)
	}

	if b.CurrentMonth != "March" || b.CurrentMonthTotal.Cents != 15000 {
		t.Fatalf("current month = %s/%d", b.CurrentMonth, b.CurrentMonthTotal.Cents)
	}
	if len(b.Labels) != 2 {
		t.Fatalf("labels = %v", b.Labels)
	}
	if b.GrandTotal.Cents != 15000 {
		t.Fatalf("grand total = %d", b.GrandTotal.Cents)
	}
}

func TestBuildFilteredByGroup(t *testing.T) {
	c := seedExpenses(t)
	f := BuildFilter(Query{Month: "March", Group: "Food"}, "category", march2024)

	b, err := Build(context.Background(), c, "category", f,
		[]docstore.SortKey{{Field: "date", Desc: true}}, decodeExpense, march2024)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(b.Records) != 1 || b.Records[0].Category != "Food" {
		t.Fatalf("records = %v", b.Records)
	}
	if b.TotalFiltered.Cents != 10000 {
		t.Fatalf("total_filtered = %d", b.TotalFiltered.Cents)
	}
	if len(b.GroupedTotals) != 1 || b.GroupedTotals[0].Key != "Food" {
		t.Fatalf("chart groups must use the same filter as the list: %v", b.GroupedTotals)
	}
	// The dropdown still lists every value ever used.
	if len(b.Labels) != 2 {
		t.Fatalf("labels must come from the unfiltered collection: %v", b.Labels)
	}
	// The at-a-glance figure ignores the user's filter.
	if b.CurrentMonthTotal.Cents != 15000 {
		t.Fatalf("current month total = %d, want 15000", b.CurrentMonthTotal.Cents)
	}
}

func TestBuildRangeExcludesOutsideRecord(t *testing.T) {
	c := docstore.NewMemory()
	ctx := context.Background()
	docs := []docstore.Doc{
		{"amount": int64(100), "category": "Food", "date": "2024-01-15", "time": "10:00"},
		{"amount": int64(200), "category": "Food", "date": "2024-02-01", "time": "10:00"},
	}
	for _, d := range docs {
		if _, err := c.InsertOne(ctx, d); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	f := BuildFilter(Query{FromDate: "2024-01-01", ToDate: "2024-01-31"}, "category", march2024)
	b, err := Build(ctx, c, "category", f,
		[]docstore.SortKey{{Field: "date", Desc: true}}, decodeExpense, march2024)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(b.Records) != 1 || b.Records[0].Date.ISO() != "2024-01-15" {
		t.Fatalf("record dated 2024-02-01 must be excluded: %v", b.Records)
	}
}

func TestBuildEmptyCollection(t *testing.T) {
	b, err := Build(context.Background(), docstore.NewMemory(), "category",
		docstore.Filter{}, nil, decodeExpense, march2024)
	if err != nil {
		t.Fatalf("empty result sets are not errors: %v", err)
	}
	if len(b.Records) != 0 || b.TotalFiltered.Cents != 0 || len(b.GroupedTotals) != 0 {
		t.Fatalf("unexpected bundle: %+v", b)
	}
}
