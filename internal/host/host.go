package host

import (
	"github.com/dshills/vimput/internal/engine/buffer"
	"github.com/dshills/vimput/internal/engine/cursor"
	"github.com/dshills/vimput/internal/input/mode"
)

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset

// Guard marks a region of the document that must not be edited.
type Guard struct {
	Range  buffer.Range
	Reason string
}

// RangeMarker tracks a range across edits until disposed.
type RangeMarker interface {
	Range() buffer.Range
	IsReversed() bool
	IsValid() bool
	Dispose()
}

// TextData is content about to be put into a document.
type TextData struct {
	Text     string
	Type     mode.SelectionType
	Payload  any  // host-specific rich content, opaque to the put engine
	Register rune // 0 when the text did not come from a register
}

// Editor is the document surface the put engine mutates.
// Lines are 0-indexed and columns are byte columns.
type Editor interface {
	Len() ByteOffset
	Text() string
	TextRange(start, end ByteOffset) string

	Insert(offset ByteOffset, text string) error
	Delete(start, end ByteOffset) error

	OffsetToPoint(offset ByteOffset) buffer.Point
	PointToOffset(p buffer.Point) ByteOffset
	LineCount() uint32
	LineLen(line uint32) int
	IsLineEmpty(line uint32) bool
	LineStartOffset(line uint32) ByteOffset
	LineEndOffset(line uint32, includeNewline bool) ByteOffset

	// OffsetGuard returns the guard covering offset, if any.
	OffsetGuard(offset ByteOffset) (Guard, bool)

	Caret(id cursor.CaretID) (cursor.Caret, bool)
	Carets() []cursor.Caret
	MoveCaret(id cursor.CaretID, offset ByteOffset) cursor.Caret

	CreateRangeMarker(start, end ByteOffset) RangeMarker

	// IsSingleLineMode reports whether the document rejects newlines.
	IsSingleLineMode() bool

	// BeginWrite enters the exclusive write section and returns the
	// function that leaves it.
	BeginWrite() func()

	// Pad returns the whitespace needed to extend line to screen column.
	Pad(line, column uint32) string
}

// Indenter re-indents freshly inserted lines.
type Indenter interface {
	// AutoIndent indents the lines spanning [start, end) and returns the
	// new end of the last of them.
	AutoIndent(caret cursor.Caret, start, end ByteOffset) (ByteOffset, error)
}

// RichPaster lets a host take over a put with its own richer insertion.
type RichPaster interface {
	Accepts(data TextData) bool

	// RichPaste inserts data at start. ok is false when the host declines
	// and the default insertion should run instead.
	RichPaste(caret cursor.Caret, data TextData, start ByteOffset) (end ByteOffset, ok bool, err error)
}

// Capabilities bundles everything the put engine needs from a host.
// Indenter and RichPaster are optional.
type Capabilities struct {
	Editor     Editor
	Indenter   Indenter
	RichPaster RichPaster
}
