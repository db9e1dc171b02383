package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"paisa/internal/chart"
	"paisa/internal/core"
	"paisa/internal/docstore"
	"paisa/internal/entry"
)

func newTestServer(t *testing.T) (*Server, *entry.Expenses, *entry.Savings) {
	t.Helper()
	expenses := entry.NewExpenses(docstore.NewMemory())
	savings := entry.NewSavings(docstore.NewMemory())
	srv := NewServer(":0", expenses, savings, chart.NewStore(), nil)
	return srv, expenses, savings
}

func postForm(srv *Server, path string, form url.Values) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func get(srv *Server, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestIndexAndHealth(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rr := get(srv, "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("index status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Paisa") {
		t.Fatalf("index body missing heading")
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := get(srv, path)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestReadyzReportsStoreFailure(t *testing.T) {
	expenses := entry.NewExpenses(docstore.NewMemory())
	savings := entry.NewSavings(docstore.NewMemory())
	ready := func(ctx context.Context) error { return errors.New("store down") }
	srv := NewServer(":0", expenses, savings, chart.NewStore(), ready)

	rr := get(srv, "/readyz")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

func TestAddExpense(t *testing.T) {
	srv, expenses, _ := newTestServer(t)

	rr := get(srv, "/add_expense")
	if rr.Code != http.StatusOK {
		t.Fatalf("form status=%d", rr.Code)
	}

	// Invalid amount keeps the user on the form.
	rr = postForm(srv, "/add_expense", url.Values{
		"amount":       {"abc"},
		"category":     {"Food"},
		"payment_mode": {"Cash"},
		"date":         {"2024-03-05"},
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Amount must be a positive number") {
		t.Fatalf("expected validation message in body")
	}

	// Valid submit redirects home and persists the record.
	rr = postForm(srv, "/add_expense", url.Values{
		"amount":       {"125.50"},
		"category":     {"Food"},
		"payment_mode": {"Cash"},
		"date":         {"2024-03-05"},
		"time":         {"12:30"},
		"note":         {"lunch"},
	})
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/" {
		t.Fatalf("redirect location = %q", loc)
	}

	all, err := expenses.All(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 || all[0].Amount.Cents != 12550 {
		t.Fatalf("unexpected stored expenses: %+v", all)
	}
}

func TestAddExpenseDefaultsTime(t *testing.T) {
	srv, expenses, _ := newTestServer(t)

	rr := postForm(srv, "/add_expense", url.Values{
		"amount":       {"10"},
		"category":     {"Food"},
		"payment_mode": {"Cash"},
		"date":         {"2024-03-05"},
	})
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rr.Code)
	}

	all, err := expenses.All(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 expense, got %d", len(all))
	}
	if _, err := time.Parse(core.TimeLayout, all[0].Time); err != nil {
		t.Fatalf("defaulted time %q not in HH:MM form", all[0].Time)
	}
}

func TestEditExpense(t *testing.T) {
	srv, expenses, _ := newTestServer(t)

	id, err := expenses.Create(context.Background(), core.Expense{
		Amount:      core.Money{Cents: 5000},
		Category:    "Travel",
		PaymentMode: "Card",
		Date:        core.NewDate(2024, 3, 1),
		Time:        "08:00",
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	rr := get(srv, "/edit_expense/"+id)
	if rr.Code != http.StatusOK {
		t.Fatalf("edit form status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Travel") {
		t.Fatalf("edit form missing existing values")
	}

	rr = get(srv, "/edit_expense/nope")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", rr.Code)
	}

	rr = postForm(srv, "/edit_expense/"+id, url.Values{
		"amount":       {"75"},
		"category":     {"Food"},
		"payment_mode": {"Cash"},
		"date":         {"2024-03-02"},
		"time":         {"09:15"},
	})
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rr.Code)
	}

	got, err := expenses.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Amount.Cents != 7500 || got.Category != "Food" || got.Date.ISO() != "2024-03-02" {
		t.Fatalf("update not applied: %+v", got)
	}
}

func TestDeleteExpense(t *testing.T) {
	srv, expenses, _ := newTestServer(t)

	id, err := expenses.Create(context.Background(), core.Expense{
		Amount:      core.Money{Cents: 100},
		Category:    "Food",
		PaymentMode: "Cash",
		Date:        core.NewDate(2024, 3, 1),
		Time:        "08:00",
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	rr := postForm(srv, "/delete_expense/"+id, url.Values{})
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rr.Code)
	}
	if _, err := expenses.Get(context.Background(), id); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected record gone, got err=%v", err)
	}

	// Deleting again is still a redirect, not an error.
	rr = postForm(srv, "/delete_expense/"+id, url.Values{})
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 on repeat delete, got %d", rr.Code)
	}
}

func TestExpenseReportPageAndChart(t *testing.T) {
	srv, expenses, _ := newTestServer(t)

	seed := []core.Expense{
		{Amount: core.Money{Cents: 10000}, Category: "Food", PaymentMode: "Cash", Date: core.NewDate(2024, 3, 5), Time: "12:00"},
		{Amount: core.Money{Cents: 5000}, Category: "Travel", PaymentMode: "Card", Date: core.NewDate(2024, 3, 10), Time: "08:00"},
	}
	for _, e := range seed {
		if _, err := expenses.Create(context.Background(), e); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	rr := get(srv, "/expense_report?category=Food")
	if rr.Code != http.StatusOK {
		t.Fatalf("report status=%d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "₹100.00") {
		t.Fatalf("report missing filtered total: %s", body)
	}
	// Dropdown labels come from the whole collection, not the filter.
	if !strings.Contains(body, "Travel") {
		t.Fatalf("report missing unfiltered label")
	}

	// The report render published the chart.
	rr = get(srv, "/charts/"+chart.ExpenseChart)
	if rr.Code != http.StatusOK {
		t.Fatalf("chart status=%d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("chart content type = %q", ct)
	}
}

func TestChartUnknownName(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rr := get(srv, "/charts/unknown")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestSavingFlow(t *testing.T) {
	srv, _, savings := newTestServer(t)

	rr := postForm(srv, "/add_saving", url.Values{
		"amount":      {"2000"},
		"saving_mode": {"FD"},
		"date":        {"2024-01-15"},
		"note":        {"deposit"},
	})
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rr.Code)
	}

	all, err := savings.All(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 || all[0].SavingMode != "FD" {
		t.Fatalf("unexpected savings: %+v", all)
	}

	rr = get(srv, "/saving_report")
	if rr.Code != http.StatusOK {
		t.Fatalf("report status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Total saved") {
		t.Fatalf("saving report missing grand total section")
	}
}

func TestExport(t *testing.T) {
	srv, expenses, _ := newTestServer(t)

	if _, err := expenses.Create(context.Background(), core.Expense{
		Amount:      core.Money{Cents: 100},
		Category:    "Food",
		PaymentMode: "Cash",
		Date:        core.NewDate(2024, 3, 1),
		Time:        "08:00",
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rr := get(srv, "/export/expense")
	if rr.Code != http.StatusOK {
		t.Fatalf("export status=%d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("export content type = %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "expenses.xlsx") {
		t.Fatalf("export disposition = %q", cd)
	}
	if rr.Body.Len() == 0 {
		t.Fatalf("export body empty")
	}

	rr = get(srv, "/export/bogus")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown export kind, got %d", rr.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rr := get(srv, "/")
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing nosniff header")
	}
	if rr.Header().Get("X-Frame-Options") != "DENY" {
		t.Fatalf("missing frame options header")
	}
}
