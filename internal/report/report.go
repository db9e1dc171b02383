package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"paisa/internal/core"
	"paisa/internal/docstore"
)

// Bundle is everything a report page needs, produced in one pass so the
// record list and the chart can never disagree.
type Bundle[T any] struct {
	Records           []T
	TotalFiltered     core.Money
	GroupedTotals     []docstore.GroupTotal
	Labels            []string // distinct group values of the whole collection
	CurrentMonth      string   // e.g. "March"
	CurrentMonthTotal core.Money
	GrandTotal        core.Money // unfiltered sum over the whole collection
}

// Build runs the four report queries concurrently against the same
// collection: filtered records, grouped totals under the SAME filter,
// distinct labels from the unfiltered collection, and the current-month
// total which ignores the user's filter entirely.
//
// The filtered total computed from the records must equal the sum of the
// grouped totals; a mismatch means the two queries saw different data and
// is returned as an error rather than rendered inconsistently.
func Build[T any](
	ctx context.Context,
	coll docstore.Collection,
	groupField string,
	f docstore.Filter,
	sortBy []docstore.SortKey,
	decode func(docstore.Doc) (T, error),
	now time.Time,
) (Bundle[T], error) {
	var (
		docs       []docstore.Doc
		grouped    []docstore.GroupTotal
		labels     []string
		monthTotal int64
		grandTotal int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		docs, err = coll.Find(gctx, f, sortBy)
		if err != nil {
			return fmt.Errorf("find records: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		grouped, err = coll.Aggregate(gctx, f, groupField)
		if err != nil {
			return fmt.Errorf("aggregate %s: %w", groupField, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		labels, err = coll.Distinct(gctx, groupField)
		if err != nil {
			return fmt.Errorf("distinct %s: %w", groupField, err)
		}
		return nil
	})
	g.Go(func() error {
		groups, err := coll.Aggregate(gctx, monthFilter(now), groupField)
		if err != nil {
			return fmt.Errorf("current month total: %w", err)
		}
		for _, gt := range groups {
			monthTotal += gt.Cents
		}
		return nil
	})
	g.Go(func() error {
		groups, err := coll.Aggregate(gctx, docstore.Filter{}, groupField)
		if err != nil {
			return fmt.Errorf("grand total: %w", err)
		}
		for _, gt := range groups {
			grandTotal += gt.Cents
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Bundle[T]{}, err
	}

	var filteredTotal int64
	records := make([]T, 0, len(docs))
	for _, d := range docs {
		filteredTotal += docstore.Int64(d["amount"])
		rec, err := decode(d)
		if err != nil {
			return Bundle[T]{}, fmt.Errorf("decode record: %w", err)
		}
		records = append(records, rec)
	}

	var groupedTotal int64
	for _, gt := range grouped {
		groupedTotal += gt.Cents
	}
	if groupedTotal != filteredTotal {
		return Bundle[T]{}, fmt.Errorf(
			"report totals diverged: records sum %d, grouped sum %d", filteredTotal, groupedTotal)
	}

	slog.DebugContext(ctx, "report built",
		"group_field", groupField,
		"records", len(records),
		"total_cents", filteredTotal,
		"groups", len(grouped))

	return Bundle[T]{
		Records:           records,
		TotalFiltered:     core.Money{Cents: filteredTotal},
		GroupedTotals:     grouped,
		Labels:            labels,
		CurrentMonth:      now.Month().String(),
		CurrentMonthTotal: core.Money{Cents: monthTotal},
		GrandTotal:        core.Money{Cents: grandTotal},
	}, nil
}
