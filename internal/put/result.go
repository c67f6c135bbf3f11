package put

import (
	"errors"

	"github.com/dshills/vimput/internal/engine/buffer"
	"github.com/dshills/vimput/internal/engine/cursor"
	"github.com/dshills/vimput/internal/host"
)

// Errors reported in Result.Err.
var (
	// ErrEmptyRegister indicates there was no text to put.
	ErrEmptyRegister = errors.New("nothing in register")

	// ErrSingleLineMode indicates a line-wise put into a single-line document.
	ErrSingleLineMode = errors.New("line-wise put in single-line mode")

	// ErrInvalidOptions indicates malformed paste options.
	ErrInvalidOptions = errors.New("invalid paste options")

	// ErrUnknownCaret indicates the caret is not present in the document.
	ErrUnknownCaret = errors.New("unknown caret")
)

// Status is the outcome of a put.
type Status uint8

const (
	// StatusOK means text was inserted and Result.Marker tracks it.
	StatusOK Status = iota
	// StatusEmpty means there was nothing to insert.
	StatusEmpty
	// StatusRejected means the put was refused or failed; see Result.Err.
	StatusRejected
)

// String returns a lowercase name for the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// TextData is the content being put. See host.TextData.
type TextData = host.TextData

// RangeMarker tracks the inserted range. See host.RangeMarker.
type RangeMarker = host.RangeMarker

// Result reports the outcome of one put for one caret.
type Result struct {
	Status Status

	// Marker tracks the inserted text. Set only when Status is StatusOK.
	Marker RangeMarker

	// Caret is the caret value after the put.
	Caret cursor.Caret

	// Err explains StatusEmpty and StatusRejected.
	Err error
}

// OK returns true if the put inserted text.
func (r Result) OK() bool { return r.Status == StatusOK }

// Range returns the current range of the inserted text, or an empty range
// at the caret when nothing was inserted.
func (r Result) Range() buffer.Range {
	if r.Marker == nil {
		return buffer.NewRange(r.Caret.Offset, r.Caret.Offset)
	}
	return r.Marker.Range()
}

func rejected(c cursor.Caret, err error) Result {
	return Result{Status: StatusRejected, Caret: c, Err: err}
}
