package put

import (
	"github.com/mattn/go-runewidth"

	"github.com/dshills/vimput/internal/engine/buffer"
	"github.com/dshills/vimput/internal/host"
)

// Block geometry is measured in display cells, so rows line up on screen
// even when lines mix narrow, wide and multibyte characters.

func lineText(ed host.Editor, line uint32) string {
	return ed.TextRange(ed.LineStartOffset(line), ed.LineEndOffset(line, false))
}

// displayColumn returns the screen column of off within its line.
func displayColumn(ed host.Editor, off buffer.ByteOffset) uint32 {
	line := ed.OffsetToPoint(off).Line
	return uint32(runewidth.StringWidth(ed.TextRange(ed.LineStartOffset(line), off)))
}

// lineWidth returns the number of cells line occupies.
func lineWidth(ed host.Editor, line uint32) uint32 {
	return uint32(runewidth.StringWidth(lineText(ed, line)))
}

// offsetAtColumn returns the offset of the character covering screen
// column col on line, or the line end when the line is narrower.
func offsetAtColumn(ed host.Editor, line, col uint32) buffer.ByteOffset {
	start := ed.LineStartOffset(line)
	w := uint32(0)
	for i, r := range lineText(ed, line) {
		rw := uint32(runewidth.RuneWidth(r))
		if col < w+rw {
			return start + buffer.ByteOffset(i)
		}
		w += rw
	}
	return ed.LineEndOffset(line, false)
}
