// Package mark stores the positional marks a put leaves behind.
package mark

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/vimput/internal/engine/buffer"
)

// Mark names written by puts.
const (
	ChangeStart = '['
	ChangeEnd   = ']'
	VisualStart = '<'
	VisualEnd   = '>'
	LastChange  = '.'
)

// Mark is a named position in a document.
type Mark struct {
	Name   rune
	Offset buffer.ByteOffset
	Point  buffer.Point
}

// String returns a :marks style rendering.
func (m Mark) String() string {
	return fmt.Sprintf("%c %d %d", m.Name, m.Point.Line+1, m.Point.Column)
}

// Store holds the marks of one document. All methods are thread-safe.
type Store struct {
	mu    sync.RWMutex
	marks map[rune]Mark
}

// NewStore creates an empty mark store.
func NewStore() *Store {
	return &Store{marks: make(map[rune]Mark)}
}

// Set records m under m.Name.
func (s *Store) Set(m Mark) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marks[m.Name] = m
}

// Get returns the mark with the given name.
func (s *Store) Get(name rune) (Mark, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.marks[name]
	return m, ok
}

// All returns every mark ordered by name.
func (s *Store) All() []Mark {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Mark, 0, len(s.marks))
	for _, m := range s.marks {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
