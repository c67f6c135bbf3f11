package cursor

import "github.com/dshills/vimput/internal/engine/buffer"

// Edit is an alias for buffer.Edit for convenience.
type Edit = buffer.Edit

// TransformOffset updates an offset after an edit.
//
// Transformation rules:
//   - If edit is entirely before offset: adjust offset by the edit's delta
//   - If edit starts at or after offset: offset unchanged
//   - If edit spans offset: move offset to the start of the edit
func TransformOffset(offset ByteOffset, edit Edit) ByteOffset {
	return TransformOffsetSticky(offset, edit, false)
}

// TransformOffsetSticky is like TransformOffset but decides what happens
// to an offset when text is inserted exactly at it. A sticky offset stays
// where it is, so the inserted text ends up after it. A non-sticky offset
// moves to the end of the insertion.
func TransformOffsetSticky(offset ByteOffset, edit Edit, sticky bool) ByteOffset {
	r := edit.Range
	newLen := ByteOffset(len(edit.NewText))

	if r.IsEmpty() && r.Start == offset {
		if sticky {
			return offset
		}
		return offset + newLen
	}

	// Edit is entirely before offset
	if r.End <= offset {
		return offset - r.Len() + newLen
	}

	// Edit starts after offset
	if r.Start >= offset {
		return offset
	}

	// Offset was inside a replaced or deleted span
	return r.Start
}

// TransformCaret updates a caret after an edit. Carets are sticky: text
// inserted at a caret lands after it.
func TransformCaret(c Caret, edit Edit) Caret {
	return c.MoveTo(TransformOffsetSticky(c.Offset, edit, true))
}

// TransformCaretSet transforms every caret in the set after an edit.
func TransformCaretSet(cs *CaretSet, edit Edit) {
	cs.MapInPlace(func(c Caret) Caret { return TransformCaret(c, edit) })
}

// TransformRange updates a tracked range after an edit. Text inserted at
// either boundary of a non-empty range stays outside it. An empty range
// behaves like a caret.
func TransformRange(r Range, edit Edit) Range {
	if r.IsEmpty() {
		o := TransformOffsetSticky(r.Start, edit, true)
		return Range{Start: o, End: o}
	}
	start := TransformOffsetSticky(r.Start, edit, false)
	end := TransformOffsetSticky(r.End, edit, true)
	if end < start {
		end = start
	}
	return Range{Start: start, End: end}
}
