package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists documents as JSON rows in a single sqlite table.
// Filtering and aggregation decode the documents and reuse the shared
// Go-side matcher, which keeps the three backends behaviorally identical.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w: %w", ErrUnavailable, err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping reports whether the database still answers. Used by readiness checks.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

// Collection returns a Collection view over one named collection.
func (s *SQLiteStore) Collection(name string) *SQLiteCollection {
	return &SQLiteCollection{db: s.db, name: name}
}

type SQLiteCollection struct {
	db   *sql.DB
	name string
}

func (c *SQLiteCollection) InsertOne(ctx context.Context, doc Doc) (string, error) {
	id := uuid.New().String()
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO documents (id, collection, doc) VALUES (?, ?, ?)`,
		id, c.name, string(raw))
	if err != nil {
		return "", fmt.Errorf("insert document: %w", err)
	}
	return id, nil
}

func (c *SQLiteCollection) FindOne(ctx context.Context, id string) (Doc, error) {
	var raw string
	err := c.db.QueryRowContext(ctx,
		`SELECT doc FROM documents WHERE id = ? AND collection = ?`,
		id, c.name).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query document: %w", err)
	}
	d, err := decodeDoc(raw)
	if err != nil {
		return nil, err
	}
	d["_id"] = id
	return d, nil
}

func (c *SQLiteCollection) UpdateOne(ctx context.Context, id string, set Doc) error {
	d, err := c.FindOne(ctx, id)
	if err != nil {
		return err
	}
	delete(d, "_id")
	for k, v := range set {
		d[k] = v
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	_, err = c.db.ExecContext(ctx,
		`UPDATE documents SET doc = ? WHERE id = ? AND collection = ?`,
		string(raw), id, c.name)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	return nil
}

func (c *SQLiteCollection) DeleteOne(ctx context.Context, id string) error {
	_, err := c.db.ExecContext(ctx,
		`DELETE FROM documents WHERE id = ? AND collection = ?`,
		id, c.name)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (c *SQLiteCollection) Find(ctx context.Context, f Filter, sortBy []SortKey) ([]Doc, error) {
	docs, err := c.scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Doc, 0, len(docs))
	for _, d := range docs {
		if f.Matches(d) {
			out = append(out, d)
		}
	}
	sortDocs(out, sortBy)
	return out, nil
}

func (c *SQLiteCollection) Distinct(ctx context.Context, field string) ([]string, error) {
	docs, err := c.scan(ctx)
	if err != nil {
		return nil, err
	}
	return distinctDocs(docs, field), nil
}

func (c *SQLiteCollection) Aggregate(ctx context.Context, f Filter, groupField string) ([]GroupTotal, error) {
	docs, err := c.scan(ctx)
	if err != nil {
		return nil, err
	}
	return aggregateDocs(docs, f, groupField), nil
}

func (c *SQLiteCollection) scan(ctx context.Context) ([]Doc, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, doc FROM documents WHERE collection = ?`, c.name)
	if err != nil {
		return nil, fmt.Errorf("scan collection %s: %w", c.name, err)
	}
	defer rows.Close()

	var out []Doc
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		d, err := decodeDoc(raw)
		if err != nil {
			return nil, err
		}
		d["_id"] = id
		out = append(out, d)
	}
	return out, rows.Err()
}

// decodeDoc parses a stored JSON document, preserving integer amounts via
// json.Number rather than losing precision to float64.
func decodeDoc(raw string) (Doc, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var d Doc
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return d, nil
}
