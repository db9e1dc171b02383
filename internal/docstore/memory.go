package docstore

import (
	"context"
	"maps"
	"sync"

	"github.com/google/uuid"
)

// MemoryCollection is a mutex-guarded in-memory Collection. It is the
// default backend and the one every test suite runs against. Documents are
// copied on the way in and out so callers can never alias internal state.
type MemoryCollection struct {
	mu   sync.RWMutex
	docs map[string]Doc
}

func NewMemory() *MemoryCollection {
	return &MemoryCollection{docs: make(map[string]Doc)}
}

func (c *MemoryCollection) InsertOne(_ context.Context, doc Doc) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := uuid.New().String()
	c.docs[id] = maps.Clone(doc)
	return id, nil
}

func (c *MemoryCollection) FindOne(_ context.Context, id string) (Doc, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, ok := c.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := maps.Clone(d)
	cp["_id"] = id
	return cp, nil
}

func (c *MemoryCollection) UpdateOne(_ context.Context, id string, set Doc) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	d, ok := c.docs[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range set {
		d[k] = v
	}
	return nil
}

// DeleteOne removes the document if present. Deleting an unknown id matches
// zero documents and is not an error.
func (c *MemoryCollection) DeleteOne(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.docs, id)
	return nil
}

func (c *MemoryCollection) Find(_ context.Context, f Filter, sortBy []SortKey) ([]Doc, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Doc, 0)
	for id, d := range c.docs {
		if f.Matches(d) {
			cp := maps.Clone(d)
			cp["_id"] = id
			out = append(out, cp)
		}
	}
	sortDocs(out, sortBy)
	return out, nil
}

func (c *MemoryCollection) Distinct(_ context.Context, field string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	all := make([]Doc, 0, len(c.docs))
	for _, d := range c.docs {
		all = append(all, d)
	}
	return distinctDocs(all, field), nil
}

func (c *MemoryCollection) Aggregate(_ context.Context, f Filter, groupField string) ([]GroupTotal, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	all := make([]Doc, 0, len(c.docs))
	for _, d := range c.docs {
		all = append(all, d)
	}
	return aggregateDocs(all, f, groupField), nil
}
