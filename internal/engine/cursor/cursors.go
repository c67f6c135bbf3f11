package cursor

import "sort"

// CaretSet holds the carets of one document.
// Carets are kept sorted by offset; the first caret added is primary
// until removed. Carets at the same offset are not merged because each
// one is addressed by ID.
//
// CaretSet is not thread-safe.
type CaretSet struct {
	carets  []Caret
	primary CaretID
}

// NewCaretSet creates a set containing a single caret.
func NewCaretSet(initial Caret) *CaretSet {
	return &CaretSet{carets: []Caret{initial}, primary: initial.ID}
}

// NewCaretSetAt creates a set with one new caret at offset.
func NewCaretSetAt(offset ByteOffset) *CaretSet {
	return NewCaretSet(NewCaret(offset))
}

// Primary returns the primary caret.
func (cs *CaretSet) Primary() Caret {
	c, _ := cs.Get(cs.primary)
	return c
}

// All returns a copy of the carets sorted by offset.
func (cs *CaretSet) All() []Caret {
	out := make([]Caret, len(cs.carets))
	copy(out, cs.carets)
	return out
}

// Count returns the number of carets.
func (cs *CaretSet) Count() int {
	return len(cs.carets)
}

// Get returns the caret with the given ID.
func (cs *CaretSet) Get(id CaretID) (Caret, bool) {
	for _, c := range cs.carets {
		if c.ID == id {
			return c, true
		}
	}
	return Caret{}, false
}

// Add inserts a caret into the set.
func (cs *CaretSet) Add(c Caret) {
	cs.carets = append(cs.carets, c)
	cs.sort()
}

// Set replaces the caret with c.ID, adding it if absent.
func (cs *CaretSet) Set(c Caret) {
	for i := range cs.carets {
		if cs.carets[i].ID == c.ID {
			cs.carets[i] = c
			cs.sort()
			return
		}
	}
	cs.Add(c)
}

// Remove deletes a caret. The last caret cannot be removed.
func (cs *CaretSet) Remove(id CaretID) bool {
	if len(cs.carets) <= 1 {
		return false
	}
	for i, c := range cs.carets {
		if c.ID == id {
			cs.carets = append(cs.carets[:i], cs.carets[i+1:]...)
			if cs.primary == id {
				cs.primary = cs.carets[0].ID
			}
			return true
		}
	}
	return false
}

// MapInPlace replaces every caret with f(caret). IDs are preserved.
func (cs *CaretSet) MapInPlace(f func(Caret) Caret) {
	for i, c := range cs.carets {
		nc := f(c)
		nc.ID = c.ID
		cs.carets[i] = nc
	}
	cs.sort()
}

// Clamp limits every caret to [0, maxOffset].
func (cs *CaretSet) Clamp(maxOffset ByteOffset) {
	cs.MapInPlace(func(c Caret) Caret { return c.Clamp(maxOffset) })
}

func (cs *CaretSet) sort() {
	sort.SliceStable(cs.carets, func(i, j int) bool {
		return cs.carets[i].Offset < cs.carets[j].Offset
	})
}
