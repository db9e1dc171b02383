package chart

import (
	"bytes"
	"sync"

	"paisa/internal/docstore"
)

// Well-known chart slots. Each render overwrites the previous image; there
// is no history, and under concurrent renders the last writer wins.
const (
	ExpenseChart = "expense_chart"
	SavingChart  = "saving_chart"
)

// Store maps chart names to their latest rendered PNG bytes.
type Store struct {
	mu     sync.RWMutex
	images map[string][]byte
}

func NewStore() *Store {
	return &Store{images: make(map[string][]byte)}
}

// RenderPie renders the grouped totals and replaces the named slot.
func (s *Store) RenderPie(groups []docstore.GroupTotal, name string) error {
	var buf bytes.Buffer
	if err := RenderPie(groups, &buf); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[name] = buf.Bytes()
	return nil
}

// Get returns the latest PNG for the named chart.
func (s *Store) Get(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	img, ok := s.images[name]
	return img, ok
}
