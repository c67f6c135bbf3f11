package buffer

import (
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
	ErrLineOutOfRange   = errors.New("line out of range")
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Buffer holds document text with a line-start index.
// Text is stored with '\n' separators; the detected line ending is
// only applied when the buffer is written out.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	text       string
	lines      []ByteOffset // start offset of each line
	revisionID RevisionID
	lineEnding LineEnding
	tabWidth   int
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		lines:      []ByteOffset{0},
		revisionID: NewRevisionID(),
		lineEnding: LineEndingLF,
		tabWidth:   4,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewBufferFromString creates a buffer initialized with the given text.
// The line ending style is detected from the text unless overridden by opts.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(append([]Option{WithLineEnding(DetectLineEnding(s))}, opts...)...)
	b.text = NormalizeLineEndings(s)
	b.reindex(0)
	return b
}

// NewBufferFromReader creates a buffer by reading all text from r.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data), opts...), nil
}

// NormalizeLineEndings converts CRLF and CR to LF, the only separator
// the buffer stores.
func NormalizeLineEndings(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// reindex rebuilds the line index starting at the given line.
// Caller must hold the write lock.
func (b *Buffer) reindex(fromLine int) {
	if fromLine < 0 || fromLine >= len(b.lines) {
		fromLine = 0
	}
	b.lines = b.lines[:fromLine+1]
	start := int(b.lines[fromLine])
	for i := start; i < len(b.text); i++ {
		if b.text[i] == '\n' {
			b.lines = append(b.lines, ByteOffset(i+1))
		}
	}
}

// lineOf returns the line containing offset. Caller must hold a lock.
func (b *Buffer) lineOf(offset ByteOffset) int {
	// Last line whose start is <= offset.
	return sort.Search(len(b.lines), func(i int) bool { return b.lines[i] > offset }) - 1
}

// Text returns the full buffer content.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// String implements fmt.Stringer.
func (b *Buffer) String() string {
	return b.Text()
}

// WriteTo writes the buffer content to w using the buffer's line ending.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	b.mu.RLock()
	text := b.text
	le := b.lineEnding
	b.mu.RUnlock()

	if le != LineEndingLF {
		text = strings.ReplaceAll(text, "\n", le.Sequence())
	}
	n, err := io.WriteString(w, text)
	return int64(n), err
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return ByteOffset(len(b.text))
}

// IsEmpty returns true if the buffer contains no text.
func (b *Buffer) IsEmpty() bool {
	return b.Len() == 0
}

// LineCount returns the number of lines. An empty buffer has one line,
// and text ending in a newline has an empty last line.
func (b *Buffer) LineCount() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return uint32(len(b.lines))
}

// TextRange returns text in the range [start, end).
// The range is normalized and clamped to the buffer.
func (b *Buffer) TextRange(start, end ByteOffset) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	r, _ := NewRange(start, end).Normalize()
	r = r.Clamp(ByteOffset(len(b.text)))
	return b.text[r.Start:r.End]
}

// ByteAt returns the byte at offset, or false if offset is out of range.
func (b *Buffer) ByteAt(offset ByteOffset) (byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if offset < 0 || offset >= ByteOffset(len(b.text)) {
		return 0, false
	}
	return b.text[offset], true
}

// LineText returns the text of the given line without its newline.
func (b *Buffer) LineText(line uint32) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if int(line) >= len(b.lines) {
		return ""
	}
	start, end := b.lineBounds(int(line))
	return b.text[start:end]
}

// lineBounds returns the start and end (excluding newline) of a line.
// Caller must hold a lock.
func (b *Buffer) lineBounds(line int) (ByteOffset, ByteOffset) {
	start := b.lines[line]
	if line+1 < len(b.lines) {
		return start, b.lines[line+1] - 1
	}
	return start, ByteOffset(len(b.text))
}

// LineLen returns the byte length of a line, excluding its newline.
func (b *Buffer) LineLen(line uint32) uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if int(line) >= len(b.lines) {
		return 0
	}
	start, end := b.lineBounds(int(line))
	return uint32(end - start)
}

// LineStartOffset returns the offset of the first byte of a line.
// Lines past the end map to the buffer length.
func (b *Buffer) LineStartOffset(line uint32) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if int(line) >= len(b.lines) {
		return ByteOffset(len(b.text))
	}
	return b.lines[line]
}

// LineEndOffset returns the end offset of a line. When includeNewline
// is true and the line is terminated, the offset after the newline is
// returned.
func (b *Buffer) LineEndOffset(line uint32, includeNewline bool) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if int(line) >= len(b.lines) {
		return ByteOffset(len(b.text))
	}
	_, end := b.lineBounds(int(line))
	if includeNewline && int(line)+1 < len(b.lines) {
		return end + 1
	}
	return end
}

// OffsetToPoint converts a byte offset to a line/column position.
// Offsets outside the buffer are clamped.
func (b *Buffer) OffsetToPoint(offset ByteOffset) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	offset = Clamp(offset, ByteOffset(len(b.text)))
	line := b.lineOf(offset)
	return Point{Line: uint32(line), Column: uint32(offset - b.lines[line])}
}

// PointToOffset converts a line/column position to a byte offset.
// The line is clamped to the last line and the column to the line length.
func (b *Buffer) PointToOffset(p Point) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	line := int(p.Line)
	if line >= len(b.lines) {
		line = len(b.lines) - 1
	}
	start, end := b.lineBounds(line)
	col := ByteOffset(p.Column)
	if start+col > end {
		return end
	}
	return start + col
}

// Insert inserts text at offset and returns the offset after the insertion.
func (b *Buffer) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	res, err := b.ApplyEdit(NewInsert(offset, text))
	if err != nil {
		return offset, err
	}
	return res.NewRange.End, nil
}

// Delete removes text in [start, end).
func (b *Buffer) Delete(start, end ByteOffset) error {
	_, err := b.ApplyEdit(NewDelete(start, end))
	return err
}

// Replace replaces text in [start, end) with text and returns the end of the new text.
func (b *Buffer) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	res, err := b.ApplyEdit(Edit{Range: NewRange(start, end), NewText: text})
	if err != nil {
		return start, err
	}
	return res.NewRange.End, nil
}

// ApplyEdit applies a single edit to the buffer.
func (b *Buffer) ApplyEdit(edit Edit) (EditResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	r := edit.Range
	if !r.IsValid() {
		return EditResult{}, ErrRangeInvalid
	}
	if r.Start < 0 || r.End > ByteOffset(len(b.text)) {
		return EditResult{}, ErrOffsetOutOfRange
	}

	newText := NormalizeLineEndings(edit.NewText)
	oldText := b.text[r.Start:r.End]
	result := EditResult{
		OldRange: r,
		NewRange: Range{Start: r.Start, End: r.Start + ByteOffset(len(newText))},
		OldText:  oldText,
	}
	if oldText == "" && newText == "" {
		return result, nil
	}

	firstLine := b.lineOf(r.Start)
	b.text = b.text[:r.Start] + newText + b.text[r.End:]
	b.reindex(firstLine)
	b.revisionID = NewRevisionID()
	return result, nil
}

// RevisionID returns the current revision identifier.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// LineEnding returns the buffer's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// SetLineEnding sets the line ending used by WriteTo.
func (b *Buffer) SetLineEnding(le LineEnding) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lineEnding = le
}

// TabWidth returns the buffer's tab width.
func (b *Buffer) TabWidth() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tabWidth
}
