package entry

import (
	"context"
	"fmt"

	"paisa/internal/core"
	"paisa/internal/docstore"
)

// SavingSort orders savings by date only. Savings carry no time-of-day
// attribute, so a time tiebreak would compare a field that never exists;
// the date-descending single key keeps the order well defined.
var SavingSort = []docstore.SortKey{
	{Field: "date", Desc: true},
}

// Savings is the repository over the savings collection.
type Savings struct {
	coll docstore.Collection
}

func NewSavings(coll docstore.Collection) *Savings {
	return &Savings{coll: coll}
}

func (r *Savings) Collection() docstore.Collection {
	return r.coll
}

func (r *Savings) Create(ctx context.Context, s core.Saving) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	id, err := r.coll.InsertOne(ctx, encodeSaving(s))
	if err != nil {
		return "", fmt.Errorf("create saving: %w", err)
	}
	return id, nil
}

func (r *Savings) Get(ctx context.Context, id string) (core.Saving, error) {
	d, err := r.coll.FindOne(ctx, id)
	if err != nil {
		return core.Saving{}, err
	}
	return DecodeSaving(d)
}

func (r *Savings) Update(ctx context.Context, id string, s core.Saving) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := r.coll.UpdateOne(ctx, id, encodeSaving(s)); err != nil {
		return fmt.Errorf("update saving: %w", err)
	}
	return nil
}

func (r *Savings) Delete(ctx context.Context, id string) error {
	if err := r.coll.DeleteOne(ctx, id); err != nil {
		return fmt.Errorf("delete saving: %w", err)
	}
	return nil
}

func (r *Savings) All(ctx context.Context) ([]core.Saving, error) {
	docs, err := r.coll.Find(ctx, docstore.Filter{}, SavingSort)
	if err != nil {
		return nil, fmt.Errorf("list savings: %w", err)
	}
	out := make([]core.Saving, 0, len(docs))
	for _, d := range docs {
		s, err := DecodeSaving(d)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func encodeSaving(s core.Saving) docstore.Doc {
	return docstore.Doc{
		"amount":      s.Amount.Cents,
		"saving_mode": s.SavingMode,
		"date":        s.Date.ISO(),
		"note":        s.Note,
	}
}

// DecodeSaving converts a stored document back into the domain record.
func DecodeSaving(d docstore.Doc) (core.Saving, error) {
	date, err := core.ParseDate(docstore.String(d["date"]))
	if err != nil {
		return core.Saving{}, fmt.Errorf("decode saving date: %w", err)
	}
	return core.Saving{
		ID:         docstore.String(d["_id"]),
		Amount:     core.Money{Cents: docstore.Int64(d["amount"])},
		SavingMode: docstore.String(d["saving_mode"]),
		Date:       date,
		Note:       docstore.String(d["note"]),
	}, nil
}
