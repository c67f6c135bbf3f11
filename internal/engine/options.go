package engine

import (
	"github.com/dshills/vimput/internal/engine/buffer"
	"github.com/dshills/vimput/internal/host"
)

// Default configuration values.
const (
	DefaultTabWidth       = 4
	DefaultMaxUndoEntries = 1000
)

// Option configures a Document during creation.
type Option func(*Document)

// WithContent sets the initial content of the document.
func WithContent(content string) Option {
	return func(d *Document) {
		d.initContent = content
	}
}

// WithTabWidth sets the tab width for the document.
func WithTabWidth(width int) Option {
	return func(d *Document) {
		if width > 0 {
			d.tabWidth = width
		}
	}
}

// WithLineEnding forces the line ending used when the document is saved.
func WithLineEnding(ending buffer.LineEnding) Option {
	return func(d *Document) {
		d.lineEnding = &ending
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(max int) Option {
	return func(d *Document) {
		if max > 0 {
			d.maxUndoEntries = max
		}
	}
}

// WithSingleLine marks the document as a one-line editor, such as a
// text field.
func WithSingleLine(single bool) Option {
	return func(d *Document) {
		d.singleLine = single
	}
}

// WithReadOnly makes the document reject every edit.
func WithReadOnly(readOnly bool) Option {
	return func(d *Document) {
		d.readOnly = readOnly
	}
}

// WithGuard adds a guarded region at creation.
func WithGuard(g host.Guard) Option {
	return func(d *Document) {
		d.guards = append(d.guards, g)
	}
}
