package host

import (
	"strings"

	"github.com/dshills/vimput/internal/engine/cursor"
)

// NopIndenter leaves text as inserted.
type NopIndenter struct{}

// AutoIndent returns end unchanged.
func (NopIndenter) AutoIndent(_ cursor.Caret, _, end ByteOffset) (ByteOffset, error) {
	return end, nil
}

// IndentOption configures a DocumentIndenter.
type IndentOption func(*DocumentIndenter)

// WithTabWidth sets the display width of a tab.
func WithTabWidth(width int) IndentOption {
	return func(d *DocumentIndenter) {
		if width > 0 {
			d.tabWidth = width
		}
	}
}

// WithExpandTab makes the indenter write spaces instead of tabs.
func WithExpandTab(expand bool) IndentOption {
	return func(d *DocumentIndenter) {
		d.expandTab = expand
	}
}

// DocumentIndenter shifts a block of lines so that its least indented
// line matches the indent of the nearest non-blank line above it (or
// below it when there is none above). Relative indentation inside the
// block is preserved.
type DocumentIndenter struct {
	editor    Editor
	tabWidth  int
	expandTab bool
}

// NewDocumentIndenter creates an indenter for editor.
func NewDocumentIndenter(editor Editor, opts ...IndentOption) *DocumentIndenter {
	d := &DocumentIndenter{editor: editor, tabWidth: 4, expandTab: true}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AutoIndent implements Indenter.
func (d *DocumentIndenter) AutoIndent(_ cursor.Caret, start, end ByteOffset) (ByteOffset, error) {
	ed := d.editor
	if end <= start {
		return end, nil
	}
	first := ed.OffsetToPoint(start).Line
	last := ed.OffsetToPoint(end).Line
	if last > first && end == ed.LineStartOffset(last) {
		last--
	}

	ref, ok := d.referenceIndent(first, last)
	if !ok {
		return ed.LineEndOffset(last, false), nil
	}

	minWidth := -1
	for line := first; line <= last; line++ {
		if d.isBlank(line) {
			continue
		}
		if w := d.width(d.indentOf(line)); minWidth < 0 || w < minWidth {
			minWidth = w
		}
	}
	if minWidth < 0 {
		return ed.LineEndOffset(last, false), nil
	}

	shift := d.width(ref) - minWidth
	if shift == 0 {
		return ed.LineEndOffset(last, false), nil
	}

	// Bottom-up keeps earlier line offsets valid.
	for line := last; ; line-- {
		if !d.isBlank(line) {
			indent := d.indentOf(line)
			want := d.render(d.width(indent) + shift)
			lineStart := ed.LineStartOffset(line)
			if err := ed.Delete(lineStart, lineStart+ByteOffset(len(indent))); err != nil {
				return end, err
			}
			if err := ed.Insert(lineStart, want); err != nil {
				return end, err
			}
		}
		if line == first {
			break
		}
	}
	return ed.LineEndOffset(last, false), nil
}

func (d *DocumentIndenter) referenceIndent(first, last uint32) (string, bool) {
	for line := int(first) - 1; line >= 0; line-- {
		if !d.isBlank(uint32(line)) {
			return d.indentOf(uint32(line)), true
		}
	}
	for line := last + 1; line < d.editor.LineCount(); line++ {
		if !d.isBlank(line) {
			return d.indentOf(line), true
		}
	}
	return "", false
}

func (d *DocumentIndenter) lineText(line uint32) string {
	start := d.editor.LineStartOffset(line)
	return d.editor.TextRange(start, d.editor.LineEndOffset(line, false))
}

func (d *DocumentIndenter) isBlank(line uint32) bool {
	return strings.TrimSpace(d.lineText(line)) == ""
}

func (d *DocumentIndenter) indentOf(line uint32) string {
	text := d.lineText(line)
	return text[:len(text)-len(strings.TrimLeft(text, " \t"))]
}

// width returns the display width of an indent string.
func (d *DocumentIndenter) width(indent string) int {
	w := 0
	for _, c := range indent {
		if c == '\t' {
			w += d.tabWidth - w%d.tabWidth
		} else {
			w++
		}
	}
	return w
}

func (d *DocumentIndenter) render(width int) string {
	if width <= 0 {
		return ""
	}
	if d.expandTab {
		return strings.Repeat(" ", width)
	}
	return strings.Repeat("\t", width/d.tabWidth) + strings.Repeat(" ", width%d.tabWidth)
}
