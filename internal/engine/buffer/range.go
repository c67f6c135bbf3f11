package buffer

import "fmt"

// Range represents a byte range in the buffer.
// Start is inclusive, End is exclusive: [Start, End).
// A Range may be constructed reversed (Start > End); call Normalize
// before using it as a span.
type Range struct {
	Start ByteOffset
	End   ByteOffset
}

// NewRange creates a new Range from start and end offsets.
func NewRange(start, end ByteOffset) Range {
	return Range{Start: start, End: end}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// Normalize returns the range with Start <= End and reports whether
// the endpoints had to be swapped. Normalizing an already normalized
// range returns it unchanged.
func (r Range) Normalize() (Range, bool) {
	if r.Start <= r.End {
		return r, false
	}
	return Range{Start: r.End, End: r.Start}, true
}

// Len returns the length of the range in bytes.
func (r Range) Len() ByteOffset {
	n, _ := r.Normalize()
	return n.End - n.Start
}

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// IsValid returns true if Start <= End.
func (r Range) IsValid() bool {
	return r.Start <= r.End
}

// Contains returns true if the given offset is within the range.
func (r Range) Contains(offset ByteOffset) bool {
	return offset >= r.Start && offset < r.End
}

// Overlaps returns true if this range overlaps with another range.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// Shift returns a new range shifted by the given delta.
func (r Range) Shift(delta ByteOffset) Range {
	return Range{Start: r.Start + delta, End: r.End + delta}
}

// Clamp returns the range with both endpoints limited to [0, max].
func (r Range) Clamp(max ByteOffset) Range {
	return Range{Start: Clamp(r.Start, max), End: Clamp(r.End, max)}
}
