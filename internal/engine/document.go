package engine

import (
	"io"
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/vimput/internal/engine/buffer"
	"github.com/dshills/vimput/internal/engine/cursor"
	"github.com/dshills/vimput/internal/engine/history"
	"github.com/dshills/vimput/internal/host"
)

// Re-export commonly used types for convenience.
type (
	// ByteOffset is a byte position in the buffer.
	ByteOffset = buffer.ByteOffset

	// Point represents a line/column position.
	Point = buffer.Point

	// Range represents a byte range in the buffer.
	Range = buffer.Range

	// Edit represents an edit operation.
	Edit = buffer.Edit
)

// Document is an in-memory text document with carets, range markers
// and guarded regions. It implements host.Editor.
//
// Reads and single edits are thread-safe. A sequence of edits that must
// not interleave with other writers runs between BeginWrite and the
// release function it returns; the sequence also becomes one undo step.
type Document struct {
	mu      sync.RWMutex // carets, markers, guards
	writeMu sync.Mutex   // write section

	buf        *buffer.Buffer
	carets     *cursor.CaretSet
	markers    map[uint64]*RangeMarker
	nextMarker uint64
	guards     []host.Guard
	history    *history.History
	replaying  bool

	// Configuration
	tabWidth       int
	lineEnding     *buffer.LineEnding
	maxUndoEntries int
	singleLine     bool
	readOnly       bool

	initContent string
}

// New creates a new Document with the given options.
func New(opts ...Option) *Document {
	d := configure(opts)
	d.buf = buffer.NewBufferFromString(d.initContent, d.bufferOptions()...)
	return d
}

// NewFromReader creates a Document from an io.Reader.
func NewFromReader(r io.Reader, opts ...Option) (*Document, error) {
	d := configure(opts)
	buf, err := buffer.NewBufferFromReader(r, d.bufferOptions()...)
	if err != nil {
		return nil, err
	}
	d.buf = buf
	return d, nil
}

func configure(opts []Option) *Document {
	d := &Document{
		tabWidth:       DefaultTabWidth,
		maxUndoEntries: DefaultMaxUndoEntries,
		markers:        make(map[uint64]*RangeMarker),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.carets = cursor.NewCaretSetAt(0)
	d.history = history.NewHistory(d.maxUndoEntries)
	return d
}

func (d *Document) bufferOptions() []buffer.Option {
	opts := []buffer.Option{buffer.WithTabWidth(d.tabWidth)}
	if d.lineEnding != nil {
		opts = append(opts, buffer.WithLineEnding(*d.lineEnding))
	}
	return opts
}

// ============================================================================
// Read Operations
// ============================================================================

// Text returns the full document content.
func (d *Document) Text() string { return d.buf.Text() }

// TextRange returns text in [start, end), normalized and clamped.
func (d *Document) TextRange(start, end ByteOffset) string { return d.buf.TextRange(start, end) }

// Len returns the document length in bytes.
func (d *Document) Len() ByteOffset { return d.buf.Len() }

// LineCount returns the number of lines.
func (d *Document) LineCount() uint32 { return d.buf.LineCount() }

// LineText returns the text of a line without its newline.
func (d *Document) LineText(line uint32) string { return d.buf.LineText(line) }

// LineLen returns the byte length of a line, excluding its newline.
func (d *Document) LineLen(line uint32) int { return int(d.buf.LineLen(line)) }

// IsLineEmpty reports whether a line has no characters.
func (d *Document) IsLineEmpty(line uint32) bool { return d.buf.LineLen(line) == 0 }

// OffsetToPoint converts a byte offset to a line/column position.
func (d *Document) OffsetToPoint(offset ByteOffset) Point { return d.buf.OffsetToPoint(offset) }

// PointToOffset converts a line/column position to a byte offset.
func (d *Document) PointToOffset(p Point) ByteOffset { return d.buf.PointToOffset(p) }

// LineStartOffset returns the offset of the first byte of a line.
func (d *Document) LineStartOffset(line uint32) ByteOffset { return d.buf.LineStartOffset(line) }

// LineEndOffset returns the end of a line, after its newline when
// includeNewline is set.
func (d *Document) LineEndOffset(line uint32, includeNewline bool) ByteOffset {
	return d.buf.LineEndOffset(line, includeNewline)
}

// Pad returns the spaces needed to extend line to screen column.
func (d *Document) Pad(line, column uint32) string {
	text := d.TextRange(d.LineStartOffset(line), d.LineEndOffset(line, false))
	n := int(column) - runewidth.StringWidth(text)
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}

// ============================================================================
// Write Operations
// ============================================================================

// Insert inserts text at offset.
func (d *Document) Insert(offset ByteOffset, text string) error {
	return d.apply(buffer.NewInsert(offset, text))
}

// Delete removes text in [start, end).
func (d *Document) Delete(start, end ByteOffset) error {
	return d.apply(buffer.NewDelete(start, end))
}

// Replace replaces text in [start, end) with text.
func (d *Document) Replace(start, end ByteOffset, text string) error {
	return d.apply(buffer.Edit{Range: buffer.NewRange(start, end), NewText: text})
}

// apply applies an edit and updates carets, markers and history.
func (d *Document) apply(edit Edit) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.readOnly {
		return ErrReadOnly
	}
	// Carets, markers and guards move by the length the buffer stores.
	edit.NewText = buffer.NormalizeLineEndings(edit.NewText)
	if !d.replaying {
		if err := d.checkGuardsLocked(edit.Range); err != nil {
			return err
		}
	}

	res, err := d.buf.ApplyEdit(edit)
	if err != nil {
		return err
	}
	if res.OldRange.IsEmpty() && edit.NewText == "" {
		return nil
	}

	cursor.TransformCaretSet(d.carets, edit)
	for _, m := range d.markers {
		m.transform(edit)
	}
	for i := range d.guards {
		d.guards[i].Range = cursor.TransformRange(d.guards[i].Range, edit)
	}
	if !d.replaying {
		d.history.Record(history.NewOperation(res, edit.NewText))
	}
	return nil
}

func (d *Document) checkGuardsLocked(r Range) error {
	for _, g := range d.guards {
		if r.IsEmpty() {
			if g.Range.Start < r.Start && r.Start < g.Range.End {
				return ErrGuarded
			}
			continue
		}
		if r.Overlaps(g.Range) {
			return ErrGuarded
		}
	}
	return nil
}

// BeginWrite enters the exclusive write section. Edits made until the
// returned function is called form one undo step. The release function
// may be called more than once.
func (d *Document) BeginWrite() func() {
	d.writeMu.Lock()
	d.history.BeginGroup("write")
	var once sync.Once
	return func() {
		once.Do(func() {
			d.history.EndGroup()
			d.writeMu.Unlock()
		})
	}
}

// Undo reverts the last undo step.
func (d *Document) Undo() error {
	return d.replay(d.history.Undo)
}

// Redo reapplies the last undone step.
func (d *Document) Redo() error {
	return d.replay(d.history.Redo)
}

func (d *Document) replay(step func(history.Applier) error) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	d.mu.Lock()
	d.replaying = true
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.replaying = false
		d.mu.Unlock()
	}()

	return step(d.apply)
}

// CanUndo reports whether there is anything to undo.
func (d *Document) CanUndo() bool { return d.history.UndoCount() > 0 }

// ============================================================================
// Guards
// ============================================================================

// AddGuard protects [start, end) from edits.
func (d *Document) AddGuard(start, end ByteOffset, reason string) {
	r, _ := buffer.NewRange(start, end).Normalize()
	d.mu.Lock()
	defer d.mu.Unlock()
	d.guards = append(d.guards, host.Guard{Range: r, Reason: reason})
}

// OffsetGuard returns the guard whose range contains offset.
func (d *Document) OffsetGuard(offset ByteOffset) (host.Guard, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, g := range d.guards {
		if g.Range.Start <= offset && offset < g.Range.End {
			return g, true
		}
	}
	return host.Guard{}, false
}

// ============================================================================
// Carets
// ============================================================================

// Caret returns the caret with the given ID.
func (d *Document) Caret(id cursor.CaretID) (cursor.Caret, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.carets.Get(id)
}

// Carets returns all carets sorted by offset.
func (d *Document) Carets() []cursor.Caret {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.carets.All()
}

// PrimaryCaret returns the primary caret.
func (d *Document) PrimaryCaret() cursor.Caret {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.carets.Primary()
}

// AddCaret adds a caret at offset and returns it.
func (d *Document) AddCaret(offset ByteOffset) cursor.Caret {
	d.mu.Lock()
	defer d.mu.Unlock()
	c := cursor.NewCaret(offset).Clamp(d.buf.Len())
	d.carets.Add(c)
	return c
}

// RemoveCaret removes a secondary caret.
func (d *Document) RemoveCaret(id cursor.CaretID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.carets.Remove(id)
}

// MoveCaret moves a caret to offset, clamped to the document, and
// returns its new value. Unknown IDs return a zero Caret.
func (d *Document) MoveCaret(id cursor.CaretID, offset ByteOffset) cursor.Caret {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.carets.Get(id)
	if !ok {
		return cursor.Caret{}
	}
	c = c.MoveTo(offset).Clamp(d.buf.Len())
	d.carets.Set(c)
	return c
}

// ============================================================================
// Range markers
// ============================================================================

// CreateRangeMarker starts tracking [start, end).
func (d *Document) CreateRangeMarker(start, end ByteOffset) host.RangeMarker {
	return d.NewRangeMarker(start, end)
}

// NewRangeMarker is CreateRangeMarker returning the concrete type.
func (d *Document) NewRangeMarker(start, end ByteOffset) *RangeMarker {
	r, reversed := buffer.NewRange(start, end).Normalize()
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextMarker++
	m := &RangeMarker{doc: d, id: d.nextMarker, r: r.Clamp(d.buf.Len()), reversed: reversed, valid: true}
	d.markers[m.id] = m
	return m
}

// MarkerCount returns the number of live range markers.
func (d *Document) MarkerCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.markers)
}

// ============================================================================
// Configuration
// ============================================================================

// IsSingleLineMode reports whether the document is a one-line editor.
func (d *Document) IsSingleLineMode() bool { return d.singleLine }

// IsReadOnly reports whether the document rejects edits.
func (d *Document) IsReadOnly() bool { return d.readOnly }

// TabWidth returns the tab width.
func (d *Document) TabWidth() int { return d.tabWidth }

// WriteTo writes the document using its line ending style.
func (d *Document) WriteTo(w io.Writer) (int64, error) { return d.buf.WriteTo(w) }

var _ host.Editor = (*Document)(nil)
