package http

import (
	"net/http"
	"strings"

	"paisa/internal/core"
)

// formError is a user-facing message for a rejected form, rendered back into
// the page that submitted it.
type formError struct {
	Message string
	Status  int
}

func (e *formError) Error() string { return e.Message }

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// parseExpenseForm reads an expense from a submitted form. All fields are
// re-parsed on every submit; the record identity never comes from the form.
func parseExpenseForm(r *http.Request) (core.Expense, *formError) {
	cents, err := core.ParseDecimalToCents(strings.TrimSpace(r.Form.Get("amount")))
	if err != nil {
		return core.Expense{}, &formError{Message: "Amount must be a positive number", Status: http.StatusUnprocessableEntity}
	}
	date, err := core.ParseDate(strings.TrimSpace(r.Form.Get("date")))
	if err != nil {
		return core.Expense{}, &formError{Message: "Date must be in YYYY-MM-DD format", Status: http.StatusUnprocessableEntity}
	}

	e := core.Expense{
		Amount:      core.Money{Cents: cents},
		Category:    sanitizeInput(r.Form.Get("category")),
		PaymentMode: sanitizeInput(r.Form.Get("payment_mode")),
		Date:        date,
		Time:        strings.TrimSpace(r.Form.Get("time")),
		Note:        sanitizeInput(r.Form.Get("note")),
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, &formError{Message: "Invalid expense: " + err.Error(), Status: http.StatusUnprocessableEntity}
	}
	return e, nil
}

// parseSavingForm is the savings counterpart of parseExpenseForm.
func parseSavingForm(r *http.Request) (core.Saving, *formError) {
	cents, err := core.ParseDecimalToCents(strings.TrimSpace(r.Form.Get("amount")))
	if err != nil {
		return core.Saving{}, &formError{Message: "Amount must be a positive number", Status: http.StatusUnprocessableEntity}
	}
	date, err := core.ParseDate(strings.TrimSpace(r.Form.Get("date")))
	if err != nil {
		return core.Saving{}, &formError{Message: "Date must be in YYYY-MM-DD format", Status: http.StatusUnprocessableEntity}
	}

	s := core.Saving{
		Amount:     core.Money{Cents: cents},
		SavingMode: sanitizeInput(r.Form.Get("saving_mode")),
		Date:       date,
		Note:       sanitizeInput(r.Form.Get("note")),
	}
	if err := s.Validate(); err != nil {
		return core.Saving{}, &formError{Message: "Invalid saving: " + err.Error(), Status: http.StatusUnprocessableEntity}
	}
	return s, nil
}
