package engine

import (
	"github.com/dshills/vimput/internal/engine/buffer"
	"github.com/dshills/vimput/internal/engine/cursor"
)

// RangeMarker is a range that follows edits to its document.
// A marker whose whole extent is deleted becomes invalid. Range is always
// normalized; IsReversed reports whether it was created end first.
type RangeMarker struct {
	doc      *Document
	id       uint64
	r        buffer.Range
	reversed bool
	valid    bool
}

// Range returns the marker's current range.
func (m *RangeMarker) Range() buffer.Range {
	m.doc.mu.RLock()
	defer m.doc.mu.RUnlock()
	return m.r
}

// IsReversed reports whether the marker was created with end before start.
func (m *RangeMarker) IsReversed() bool { return m.reversed }

// IsValid reports whether the marker still tracks live text.
func (m *RangeMarker) IsValid() bool {
	m.doc.mu.RLock()
	defer m.doc.mu.RUnlock()
	return m.valid
}

// Dispose stops tracking. The last range stays readable.
func (m *RangeMarker) Dispose() {
	m.doc.mu.Lock()
	defer m.doc.mu.Unlock()
	delete(m.doc.markers, m.id)
	m.valid = false
}

// transform updates the marker after an edit. Caller holds doc.mu.
func (m *RangeMarker) transform(edit buffer.Edit) {
	if edit.Erases(m.r) {
		m.valid = false
	}
	m.r = cursor.TransformRange(m.r, edit)
}
