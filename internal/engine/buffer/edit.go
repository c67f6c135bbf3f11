package buffer

// Edit replaces Range with NewText. An empty range inserts; empty text
// deletes.
type Edit struct {
	Range   Range
	NewText string
}

// NewInsert returns an Edit inserting text at offset.
func NewInsert(offset ByteOffset, text string) Edit {
	return Edit{Range: Range{Start: offset, End: offset}, NewText: text}
}

// NewDelete returns an Edit removing [start, end).
func NewDelete(start, end ByteOffset) Edit {
	return Edit{Range: Range{Start: start, End: end}}
}

// Erases reports whether the edit is a pure deletion spanning all of r.
// Range markers over r become invalid after such an edit.
func (e Edit) Erases(r Range) bool {
	return !r.IsEmpty() && e.NewText == "" &&
		e.Range.Start <= r.Start && e.Range.End >= r.End
}

// EditResult describes an applied edit.
type EditResult struct {
	OldRange Range  // range replaced, in offsets before the edit
	NewRange Range  // range of NewText, in offsets after the edit
	OldText  string // text that was replaced
}
