package cursor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vimput/internal/engine/buffer"
)

func TestNewCaretClampsNegative(t *testing.T) {
	c := NewCaret(-5)
	assert.Equal(t, ByteOffset(0), c.Offset)
	assert.NotEmpty(t, c.ID)
}

func TestCaretMoveKeepsID(t *testing.T) {
	c := NewCaret(10)
	moved := c.MoveBy(5)

	assert.Equal(t, c.ID, moved.ID)
	assert.Equal(t, ByteOffset(15), moved.Offset)
	assert.Equal(t, ByteOffset(10), c.Offset, "original caret should be unchanged")
}

func TestCaretIDsAreUnique(t *testing.T) {
	seen := map[CaretID]bool{}
	for i := 0; i < 100; i++ {
		id := NewCaretID()
		require.False(t, seen[id])
		seen[id] = true
	}
}

func TestSelectionBounds(t *testing.T) {
	tests := []struct {
		name       string
		sel        Selection
		start, end ByteOffset
		forward    bool
	}{
		{"forward", NewSelection(2, 5), 2, 5, true},
		{"backward", NewSelection(5, 2), 2, 5, false},
		{"single char", NewSelection(3, 3), 3, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.start, tt.sel.Start())
			assert.Equal(t, tt.end, tt.sel.End())
			assert.Equal(t, tt.forward, tt.sel.IsForward())
		})
	}
}

func TestSelectionRangeIsInclusive(t *testing.T) {
	sel := NewSelection(5, 2)
	assert.Equal(t, buffer.NewRange(2, 6), sel.Range(100))
	assert.Equal(t, buffer.NewRange(2, 4), sel.Range(4))
}

func TestCaretSetOrdering(t *testing.T) {
	first := NewCaret(10)
	cs := NewCaretSet(first)
	second := NewCaret(2)
	cs.Add(second)

	all := cs.All()
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, cs.Primary().ID)

	cs.Set(second.MoveTo(20))
	assert.Equal(t, first.ID, cs.All()[0].ID)
}

func TestCaretSetRemove(t *testing.T) {
	first := NewCaret(0)
	cs := NewCaretSet(first)
	assert.False(t, cs.Remove(first.ID), "last caret cannot be removed")

	second := NewCaret(4)
	cs.Add(second)
	assert.True(t, cs.Remove(first.ID))
	assert.Equal(t, second.ID, cs.Primary().ID)
}

func TestTransformOffsetSticky(t *testing.T) {
	tests := []struct {
		name   string
		offset ByteOffset
		edit   Edit
		sticky bool
		want   ByteOffset
	}{
		{"insert before", 5, buffer.NewInsert(2, "abc"), true, 8},
		{"insert after", 5, buffer.NewInsert(7, "abc"), true, 5},
		{"insert at sticky", 5, buffer.NewInsert(5, "abc"), true, 5},
		{"insert at non-sticky", 5, buffer.NewInsert(5, "abc"), false, 8},
		{"delete before", 5, buffer.NewDelete(0, 2), true, 3},
		{"delete spanning", 5, buffer.NewDelete(3, 8), true, 3},
		{"delete ending at", 5, buffer.NewDelete(3, 5), true, 3},
		{"delete after", 5, buffer.NewDelete(5, 8), true, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TransformOffsetSticky(tt.offset, tt.edit, tt.sticky))
		})
	}
}

func TestTransformRange(t *testing.T) {
	r := buffer.NewRange(4, 8)

	assert.Equal(t, buffer.NewRange(7, 11), TransformRange(r, buffer.NewInsert(4, "abc")), "insert at start stays outside")
	assert.Equal(t, buffer.NewRange(4, 8), TransformRange(r, buffer.NewInsert(8, "abc")), "insert at end stays outside")
	assert.Equal(t, buffer.NewRange(4, 11), TransformRange(r, buffer.NewInsert(6, "abc")))
	assert.Equal(t, buffer.NewRange(2, 4), TransformRange(r, buffer.NewDelete(2, 6)))
	assert.Equal(t, buffer.NewRange(2, 2), TransformRange(r, buffer.NewDelete(0, 10)))
}

func TestTransformCaretSet(t *testing.T) {
	a, b := NewCaret(0), NewCaret(5)
	cs := NewCaretSet(a)
	cs.Add(b)

	TransformCaretSet(cs, buffer.NewInsert(0, "xy"))

	got, ok := cs.Get(a.ID)
	require.True(t, ok)
	assert.Equal(t, ByteOffset(0), got.Offset)
	got, _ = cs.Get(b.ID)
	assert.Equal(t, ByteOffset(7), got.Offset)
}
