// Package docstore provides a small document-store abstraction: schemaless
// documents grouped into named collections, queried with a conjunction of a
// date-range constraint and field equality constraints, plus a group-by-sum
// aggregation. Three backends implement it: an in-memory map, a sqlite table
// of JSON documents, and MongoDB.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
)

var (
	// ErrNotFound is returned when a document id does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrUnavailable wraps backend connectivity failures.
	ErrUnavailable = errors.New("store unavailable")
)

// Doc is a stored document. Canonical field encodings: "amount" is int64
// cents, "date" is a "YYYY-MM-DD" string (lexicographic order matches
// chronological order), "time" is an "HH:MM" string.
type Doc map[string]any

// Filter is a conjunction of constraints. The zero value matches every
// document. Month-derived ranges are half-open (DateToIncl false); explicit
// from/to ranges are inclusive on both ends.
type Filter struct {
	DateFrom   string // inclusive lower bound, "" = unbounded
	DateTo     string // upper bound, "" = unbounded
	DateToIncl bool
	Equals     map[string]string
}

// SortKey orders a result set by a document field. Documents missing the
// field sort after all documents that have it, regardless of direction.
type SortKey struct {
	Field string
	Desc  bool
}

// GroupTotal is one row of an aggregation result: the distinct value of the
// group field and the summed amount of the matching documents.
type GroupTotal struct {
	Key   string
	Cents int64
}

// Collection is the set of document-store operations the application
// consumes. Implementations must treat DeleteOne of a missing id as a no-op.
type Collection interface {
	InsertOne(ctx context.Context, doc Doc) (id string, err error)
	FindOne(ctx context.Context, id string) (Doc, error)
	UpdateOne(ctx context.Context, id string, set Doc) error
	DeleteOne(ctx context.Context, id string) error
	Find(ctx context.Context, f Filter, sortBy []SortKey) ([]Doc, error)
	Distinct(ctx context.Context, field string) ([]string, error)
	Aggregate(ctx context.Context, f Filter, groupField string) ([]GroupTotal, error)
}

// IsZero reports whether the filter matches all documents.
func (f Filter) IsZero() bool {
	return f.DateFrom == "" && f.DateTo == "" && len(f.Equals) == 0
}

// Matches applies the filter to a document. This is the single Go-side
// matcher shared by the memory and sqlite backends; the mongo backend
// translates the same filter into a bson match stage instead.
func (f Filter) Matches(d Doc) bool {
	if f.DateFrom != "" || f.DateTo != "" {
		date, _ := d["date"].(string)
		if date == "" {
			return false
		}
		if f.DateFrom != "" && date < f.DateFrom {
			return false
		}
		if f.DateTo != "" {
			if f.DateToIncl {
				if date > f.DateTo {
					return false
				}
			} else if date >= f.DateTo {
				return false
			}
		}
	}
	for field, want := range f.Equals {
		got, _ := d[field].(string)
		if got != want {
			return false
		}
	}
	return true
}

// Int64 coerces a document field to int64. JSON decoding turns numbers into
// float64 or json.Number depending on the decoder, so all three shapes are
// accepted.
func Int64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float64:
		return int64(n)
	case json.Number:
		i, _ := n.Int64()
		return i
	default:
		return 0
	}
}

// String coerces a document field to string, returning "" for absent fields.
func String(v any) string {
	s, _ := v.(string)
	return s
}

// sortDocs orders docs by the given keys. Missing fields sort last.
func sortDocs(docs []Doc, keys []SortKey) {
	if len(keys) == 0 {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, k := range keys {
			a, aok := docs[i][k.Field].(string)
			b, bok := docs[j][k.Field].(string)
			if !aok && !bok {
				continue
			}
			if !aok {
				return false // missing field sorts last
			}
			if !bok {
				return true
			}
			if a == b {
				continue
			}
			if k.Desc {
				return a > b
			}
			return a < b
		}
		return false
	})
}

// aggregateDocs groups matching docs by groupField and sums their amounts,
// ordered by descending total then key for determinism. Documents where the
// group field is absent fall into the "" bucket only if they match the
// filter; they are never synthesized as zero-valued entries.
func aggregateDocs(docs []Doc, f Filter, groupField string) []GroupTotal {
	sums := make(map[string]int64)
	for _, d := range docs {
		if !f.Matches(d) {
			continue
		}
		key := String(d[groupField])
		sums[key] += Int64(d["amount"])
	}
	out := make([]GroupTotal, 0, len(sums))
	for k, v := range sums {
		out = append(out, GroupTotal{Key: k, Cents: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cents != out[j].Cents {
			return out[i].Cents > out[j].Cents
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// distinctDocs collects the sorted set of non-empty values of field.
func distinctDocs(docs []Doc, field string) []string {
	seen := make(map[string]struct{})
	for _, d := range docs {
		if v := String(d[field]); v != "" {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
