package cursor

import (
	"fmt"

	"github.com/dshills/vimput/internal/engine/buffer"
)

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Selection is the visual span of one caret.
// Anchor is where visual mode started and Active is where the caret is
// now. Both are inclusive, as in Vim: the selection of a single
// character has Anchor == Active.
// Selection is an immutable value type.
type Selection struct {
	Anchor ByteOffset
	Active ByteOffset
}

// NewSelection creates a selection from anchor to active.
func NewSelection(anchor, active ByteOffset) Selection {
	return Selection{Anchor: anchor, Active: active}
}

// Start returns the lower inclusive bound.
func (s Selection) Start() ByteOffset {
	if s.Anchor <= s.Active {
		return s.Anchor
	}
	return s.Active
}

// End returns the upper inclusive bound.
func (s Selection) End() ByteOffset {
	if s.Anchor >= s.Active {
		return s.Anchor
	}
	return s.Active
}

// IsForward returns true if the caret is at or after the anchor.
func (s Selection) IsForward() bool {
	return s.Active >= s.Anchor
}

// Range returns the half-open range covered by the selection,
// clamped to maxOffset.
func (s Selection) Range(maxOffset ByteOffset) Range {
	return Range{Start: s.Start(), End: s.End() + 1}.Clamp(maxOffset)
}

// Flip returns the selection with anchor and active swapped.
func (s Selection) Flip() Selection {
	return Selection{Anchor: s.Active, Active: s.Anchor}
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	return fmt.Sprintf("Selection(%d..%d)", s.Anchor, s.Active)
}
