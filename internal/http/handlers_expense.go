package http

import (
	"errors"
	"log/slog"
	"net/http"

	"paisa/internal/chart"
	"paisa/internal/core"
	"paisa/internal/docstore"
	"paisa/internal/entry"
	"paisa/internal/report"
)

type expenseFormData struct {
	CurrentDate string
	Error       string
}

func (s *Server) handleAddExpenseForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "add_expense.html", expenseFormData{
		CurrentDate: s.now().Format(core.DateLayout),
	})
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	exp, ferr := parseExpenseForm(r)
	if ferr != nil {
		w.WriteHeader(ferr.Status)
		s.render(w, r, "add_expense.html", expenseFormData{
			CurrentDate: s.now().Format(core.DateLayout),
			Error:       ferr.Message,
		})
		return
	}

	id, err := s.expenses.Create(r.Context(), exp)
	if err != nil {
		slog.ErrorContext(r.Context(), "Expense create error", "error", err, "category", exp.Category, "amount", exp.Amount.Cents)
		http.Error(w, "failed to save expense", http.StatusInternalServerError)
		return
	}

	slog.InfoContext(r.Context(), "Expense created", "id", id, "category", exp.Category, "amount", exp.Amount.Cents)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type editExpenseData struct {
	Expense core.Expense
	Error   string
}

func (s *Server) handleEditExpenseForm(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	exp, err := s.expenses.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.ErrorContext(r.Context(), "Expense load error", "error", err, "id", id)
		http.Error(w, "failed to load expense", http.StatusInternalServerError)
		return
	}
	s.render(w, r, "edit_expense.html", editExpenseData{Expense: exp})
}

func (s *Server) handleEditExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	exp, ferr := parseExpenseForm(r)
	if ferr != nil {
		// Re-render the form from the stored record so the page stays usable.
		stored, err := s.expenses.Get(r.Context(), id)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(ferr.Status)
		s.render(w, r, "edit_expense.html", editExpenseData{Expense: stored, Error: ferr.Message})
		return
	}

	if err := s.expenses.Update(r.Context(), id, exp); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.ErrorContext(r.Context(), "Expense update error", "error", err, "id", id)
		http.Error(w, "failed to update expense", http.StatusInternalServerError)
		return
	}

	slog.InfoContext(r.Context(), "Expense updated", "id", id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleDeleteExpense removes the record; deleting an unknown id still
// redirects home.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.expenses.Delete(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Expense delete error", "error", err, "id", id)
		http.Error(w, "failed to delete expense", http.StatusInternalServerError)
		return
	}
	slog.InfoContext(r.Context(), "Expense deleted", "id", id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type reportPageData[T any] struct {
	Report    report.Bundle[T]
	Query     report.Query
	Months    []string
	ChartName string
}

func (s *Server) handleExpenseReport(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	q := report.Query{
		Month:    r.URL.Query().Get("month"),
		Group:    r.URL.Query().Get("category"),
		FromDate: r.URL.Query().Get("from_date"),
		ToDate:   r.URL.Query().Get("to_date"),
	}
	f := report.BuildFilter(q, entry.CategoryField, now)

	bundle, err := report.Build(r.Context(), s.expenses.Collection(), entry.CategoryField, f, entry.ExpenseSort, entry.DecodeExpense, now)
	if err != nil {
		slog.ErrorContext(r.Context(), "Expense report error", "error", err)
		http.Error(w, "failed to build expense report", http.StatusInternalServerError)
		return
	}

	if err := s.charts.RenderPie(bundle.GroupedTotals, chart.ExpenseChart); err != nil {
		slog.ErrorContext(r.Context(), "Expense chart render error", "error", err)
		http.Error(w, "failed to render chart", http.StatusInternalServerError)
		return
	}

	s.render(w, r, "expense_report.html", reportPageData[core.Expense]{
		Report:    bundle,
		Query:     q,
		Months:    months,
		ChartName: chart.ExpenseChart,
	})
}
