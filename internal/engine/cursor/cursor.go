package cursor

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/vimput/internal/engine/buffer"
)

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset

// Point is an alias for buffer.Point for convenience.
type Point = buffer.Point

// CaretID identifies a caret for its whole lifetime.
// Positions change; IDs do not.
type CaretID string

// NewCaretID returns a fresh random caret ID.
func NewCaretID() CaretID {
	return CaretID(uuid.NewString())
}

// String returns the short form of the ID used in logs.
func (id CaretID) String() string {
	if len(id) > 8 {
		return string(id[:8])
	}
	return string(id)
}

// Caret is an insertion point owned by a host.
// Caret is an immutable value type; hosts hand out fresh values after
// every change.
type Caret struct {
	ID     CaretID
	Offset ByteOffset
}

// NewCaret creates a caret with a new ID at the given offset.
func NewCaret(offset ByteOffset) Caret {
	if offset < 0 {
		offset = 0
	}
	return Caret{ID: NewCaretID(), Offset: offset}
}

// MoveTo returns the same caret at a new offset.
func (c Caret) MoveTo(offset ByteOffset) Caret {
	if offset < 0 {
		offset = 0
	}
	return Caret{ID: c.ID, Offset: offset}
}

// MoveBy returns the same caret shifted by delta bytes.
func (c Caret) MoveBy(delta ByteOffset) Caret {
	return c.MoveTo(c.Offset + delta)
}

// Clamp returns a caret clamped to [0, maxOffset].
func (c Caret) Clamp(maxOffset ByteOffset) Caret {
	return Caret{ID: c.ID, Offset: buffer.Clamp(c.Offset, maxOffset)}
}

// String returns a string representation of the caret.
func (c Caret) String() string {
	return fmt.Sprintf("Caret(%s@%d)", c.ID, c.Offset)
}
