package put

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/vimput/internal/engine/buffer"
	"github.com/dshills/vimput/internal/engine/cursor"
	"github.com/dshills/vimput/internal/input/mode"
)

// processText shapes register text for its target.
func processText(visual *VisualSelection, data *TextData) string {
	text := buffer.NormalizeLineEndings(data.Text)
	lineTarget := visual != nil && visual.Type.IsLine()

	if lineTarget && data.Type == mode.CharacterWise {
		text += "\n"
	}
	if data.Type == mode.LineWise && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if data.Type == mode.CharacterWise && visual != nil && !lineTarget && strings.HasSuffix(text, "\n") {
		text = text[:len(text)-1]
	}
	return text
}

// startOffsets prepares the document and returns where text goes. Some
// targets need a synthetic newline first, which is inserted here.
func (e *Engine) startOffsets(c cursor.Caret, t mode.SelectionType, opts PasteOptions, pre preModification) ([]buffer.ByteOffset, error) {
	ed := e.caps.Editor
	before := direction(opts) == Before

	if pre.visual != nil {
		switch {
		case pre.selType == mode.CharacterWise && t.IsLine():
			if err := ed.Insert(c.Offset, "\n"); err != nil {
				return nil, err
			}
			return []buffer.ByteOffset{c.Offset + 1}, nil

		case pre.selType.IsBlock():
			maxLine := pre.minLine + pre.numLines - 1
			line := maxLine
			if before {
				line = pre.minLine
			}
			line = min(line, ed.LineCount()-1)

			switch t {
			case mode.LineWise:
				if before {
					return []buffer.ByteOffset{ed.LineStartOffset(line)}, nil
				}
				pos := ed.LineEndOffset(line, false)
				if err := ed.Insert(pos, "\n"); err != nil {
					return nil, err
				}
				return []buffer.ByteOffset{pos + 1}, nil
			case mode.CharacterWise:
				offsets := make([]buffer.ByteOffset, 0, pre.numLines)
				for l := int64(maxLine); l >= int64(pre.minLine); l-- {
					offsets = append(offsets, offsetAtColumn(ed, uint32(l), pre.minCol))
				}
				return offsets, nil
			default:
				return []buffer.ByteOffset{offsetAtColumn(ed, pre.minLine, pre.minCol)}, nil
			}

		case pre.selType.IsLine():
			size := ed.Len()
			if c.Offset == size && size != 0 && ed.TextRange(size-1, size) != "\n" {
				if err := ed.Insert(c.Offset, "\n"); err != nil {
					return nil, err
				}
				return []buffer.ByteOffset{c.Offset + 1}, nil
			}
			return []buffer.ByteOffset{c.Offset}, nil

		default:
			return []buffer.ByteOffset{c.Offset}, nil
		}
	}

	caretLine := ed.OffsetToPoint(c.Offset).Line
	if before {
		if t.IsLine() {
			return []buffer.ByteOffset{ed.LineStartOffset(caretLine)}, nil
		}
		return []buffer.ByteOffset{c.Offset}, nil
	}

	line := caretLine
	if l, ok := targetLine(opts); ok {
		line = uint32(min(l, int(ed.LineCount())-1))
	}

	var start buffer.ByteOffset
	if t.IsLine() {
		start = min(ed.Len(), ed.LineEndOffset(line, false)+1)
		// Text cannot go into a guard that starts the next line, so open
		// a fresh line in front of it.
		if start > 0 {
			if _, guarded := ed.OffsetGuard(start); guarded {
				if err := ed.Insert(start-1, "\n"); err != nil {
					return nil, err
				}
			}
		}
		if start > 0 && start == ed.Len() && ed.TextRange(start-1, start) != "\n" {
			if err := ed.Insert(start, "\n"); err != nil {
				return nil, err
			}
			start++
		}
	} else {
		start = c.Offset
		if !ed.IsLineEmpty(line) && start < ed.LineEndOffset(line, false) {
			start = runeEnd(ed, start)
		}
	}
	return []buffer.ByteOffset{min(start, ed.Len())}, nil
}

// putCharacterwise inserts text count times at start and returns the end.
func (e *Engine) putCharacterwise(c cursor.Caret, text string, start buffer.ByteOffset, n int, indent bool) (buffer.ByteOffset, error) {
	inserted := strings.Repeat(text, n)
	if err := e.caps.Editor.Insert(start, inserted); err != nil {
		return start, err
	}
	end := start + buffer.ByteOffset(len(inserted))
	if indent {
		end = e.indent(c, start, end)
	}
	return end, nil
}

// putLinewise is putCharacterwise, keeping other carets sitting exactly at
// start on their own line instead of being dragged along.
func (e *Engine) putLinewise(c cursor.Caret, text string, start buffer.ByteOffset, n int, indent bool) (buffer.ByteOffset, error) {
	ed := e.caps.Editor
	var nudged []cursor.CaretID
	for _, other := range ed.Carets() {
		if other.ID == c.ID || other.Offset != start {
			continue
		}
		ed.MoveCaret(other.ID, start+1)
		nudged = append(nudged, other.ID)
	}

	end, err := e.putCharacterwise(c, text, start, n, indent)

	for _, id := range nudged {
		if moved, ok := ed.Caret(id); ok {
			ed.MoveCaret(id, moved.Offset-1)
		}
	}
	return end, err
}

// blockRows splits block text into rows. A final newline does not start
// an extra row.
func blockRows(text string) []string {
	rows := strings.Split(text, "\n")
	if len(rows) > 1 && rows[len(rows)-1] == "" {
		rows = rows[:len(rows)-1]
	}
	return rows
}

// putBlockwise inserts each row of text in a column at start, one line
// per row. It returns the end of the first row, which is what Vim marks.
func (e *Engine) putBlockwise(c cursor.Caret, text string, sub mode.SubMode, start buffer.ByteOffset, n int, indent bool) (buffer.ByteOffset, error) {
	ed := e.caps.Editor
	startPos := ed.OffsetToPoint(start)
	col := displayColumn(ed, start)
	if sub == mode.VisualLine {
		col = 0
	}
	line := startPos.Line

	rows := blockRows(text)
	if need := line + uint32(len(rows)); need >= ed.LineCount() {
		grow := need - ed.LineCount()
		if grow > 0 {
			if err := ed.Insert(ed.Len(), strings.Repeat("\n", int(grow))); err != nil {
				return start, err
			}
		}
	}

	maxLen := 0
	for _, r := range rows {
		maxLen = max(maxLen, runewidth.StringWidth(r))
	}

	end := start
	var firstEnd buffer.ByteOffset
	for i, row := range rows {
		segment, orig := row, row
		if w := runewidth.StringWidth(segment); w < maxLen {
			segment += strings.Repeat(" ", maxLen-w)
			if col != 0 && col < lineWidth(ed, line) {
				orig = segment
			}
		}

		pad := ed.Pad(line, col)
		at := offsetAtColumn(ed, line, col)
		inserted := orig + strings.Repeat(segment, n-1)
		if err := ed.Insert(at, inserted); err != nil {
			return start, fmt.Errorf("block row %d: %w", i, err)
		}
		end += buffer.ByteOffset(len(inserted))

		if sub == mode.VisualLine {
			if err := ed.Insert(end, "\n"); err != nil {
				return start, fmt.Errorf("block row %d: %w", i, err)
			}
			end++
		} else if pad != "" {
			if err := ed.Insert(at, pad); err != nil {
				return start, fmt.Errorf("block row %d: %w", i, err)
			}
			end += buffer.ByteOffset(len(pad))
		}

		if i == 0 {
			firstEnd = end
		}
		line++
	}

	before := ed.LineLen(startPos.Line)
	if indent {
		e.indent(c, start, end)
	}
	return firstEnd + buffer.ByteOffset(ed.LineLen(startPos.Line)-before), nil
}

func (e *Engine) putInternal(c cursor.Caret, text string, t mode.SelectionType, sub mode.SubMode, start buffer.ByteOffset, n int, indent bool) (buffer.ByteOffset, error) {
	switch t {
	case mode.CharacterWise:
		return e.putCharacterwise(c, text, start, n, indent)
	case mode.LineWise:
		return e.putLinewise(c, text, start, n, indent)
	default:
		return e.putBlockwise(c, text, sub, start, n, indent)
	}
}

// indent hands the lines spanned by [start, end) to the indenter and
// returns the end it reports. An end outside the indented lines, a failed
// indenter or none at all yield the end of the last line.
func (e *Engine) indent(c cursor.Caret, start, end buffer.ByteOffset) (newEnd buffer.ByteOffset) {
	ed := e.caps.Editor
	startLine := ed.OffsetToPoint(start).Line
	endLine := startLine
	if end > start {
		endLine = ed.OffsetToPoint(end - 1).Line
	}
	newEnd = ed.LineEndOffset(endLine, false)
	if e.caps.Indenter == nil {
		return newEnd
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("indenter panicked: %v", r)
			newEnd = ed.LineEndOffset(endLine, false)
		}
	}()
	lineStart := ed.LineStartOffset(startLine)
	got, err := e.caps.Indenter.AutoIndent(c, lineStart, newEnd)
	if err != nil {
		e.logger.Warn("auto indent failed, keeping text as inserted: %v", err)
		return ed.LineEndOffset(endLine, false)
	}
	if got < lineStart || got > ed.Len() {
		e.logger.Warn("auto indent returned end %d outside [%d, %d]", got, lineStart, ed.Len())
		return ed.LineEndOffset(endLine, false)
	}
	return got
}
