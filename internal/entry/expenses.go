// Package entry implements the repositories for expense and saving records:
// validation at the boundary, encoding to store documents, and the CRUD
// operations the handlers call. The docstore owns persistence; this package
// owns the record shapes.
package entry

import (
	"context"
	"fmt"
	"time"

	"paisa/internal/core"
	"paisa/internal/docstore"
)

const (
	// CategoryField groups expenses for reports and charts.
	CategoryField = "category"

	// SavingModeField is the savings counterpart of CategoryField.
	SavingModeField = "saving_mode"
)

// ExpenseSort orders expenses date-descending with the time-of-day text as
// tiebreak, newest first.
var ExpenseSort = []docstore.SortKey{
	{Field: "date", Desc: true},
	{Field: "time", Desc: true},
}

// Expenses is the repository over the expense collection.
type Expenses struct {
	coll docstore.Collection
	now  func() time.Time
}

func NewExpenses(coll docstore.Collection) *Expenses {
	return &Expenses{coll: coll, now: time.Now}
}

// Collection exposes the underlying collection for report building.
func (r *Expenses) Collection() docstore.Collection {
	return r.coll
}

// Create validates and inserts the expense. A blank time-of-day is replaced
// with the current wall-clock time formatted as "HH:MM".
func (r *Expenses) Create(ctx context.Context, e core.Expense) (string, error) {
	if e.Time == "" {
		e.Time = r.now().Format(core.TimeLayout)
	}
	if err := e.Validate(); err != nil {
		return "", err
	}
	id, err := r.coll.InsertOne(ctx, encodeExpense(e))
	if err != nil {
		return "", fmt.Errorf("create expense: %w", err)
	}
	return id, nil
}

func (r *Expenses) Get(ctx context.Context, id string) (core.Expense, error) {
	d, err := r.coll.FindOne(ctx, id)
	if err != nil {
		return core.Expense{}, err
	}
	return DecodeExpense(d)
}

// Update replaces every editable attribute of the record; it is not a
// partial patch.
func (r *Expenses) Update(ctx context.Context, id string, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := r.coll.UpdateOne(ctx, id, encodeExpense(e)); err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return nil
}

// Delete removes the record; unknown ids are a no-op.
func (r *Expenses) Delete(ctx context.Context, id string) error {
	if err := r.coll.DeleteOne(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

// All lists every expense, newest first. Used by the spreadsheet export.
func (r *Expenses) All(ctx context.Context) ([]core.Expense, error) {
	docs, err := r.coll.Find(ctx, docstore.Filter{}, ExpenseSort)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	out := make([]core.Expense, 0, len(docs))
	for _, d := range docs {
		e, err := DecodeExpense(d)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func encodeExpense(e core.Expense) docstore.Doc {
	return docstore.Doc{
		"amount":       e.Amount.Cents,
		"category":     e.Category,
		"payment_mode": e.PaymentMode,
		"date":         e.Date.ISO(),
		"time":         e.Time,
		"note":         e.Note,
	}
}

// DecodeExpense converts a stored document back into the domain record.
func DecodeExpense(d docstore.Doc) (core.Expense, error) {
	date, err := core.ParseDate(docstore.String(d["date"]))
	if err != nil {
		return core.Expense{}, fmt.Errorf("decode expense date: %w", err)
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
