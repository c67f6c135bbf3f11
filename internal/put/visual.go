package put

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dshills/vimput/internal/engine/buffer"
	"github.com/dshills/vimput/internal/engine/cursor"
	"github.com/dshills/vimput/internal/host"
	"github.com/dshills/vimput/internal/input/mode"
)

// VisualSelection is the selection a visual put replaces.
// Spans hold one Vim-inclusive span per caret.
type VisualSelection struct {
	Spans map[cursor.CaretID]cursor.Selection
	Type  mode.SelectionType
}

// NewVisualSelection creates a selection of type t with a single span.
func NewVisualSelection(id cursor.CaretID, span cursor.Selection, t mode.SelectionType) *VisualSelection {
	return &VisualSelection{
		Spans: map[cursor.CaretID]cursor.Selection{id: span},
		Type:  t,
	}
}

// preModification is captured before the selection is deleted.
type preModification struct {
	visual  *VisualSelection
	subMode mode.SubMode
	selType mode.SelectionType

	// Block geometry, set only for block-wise selections. minCol is a
	// screen column.
	minLine  uint32
	minCol   uint32
	numLines uint32
}

func (e *Engine) capture(id cursor.CaretID, visual *VisualSelection) preModification {
	pre := preModification{visual: visual, subMode: mode.SubModeNone, selType: mode.CharacterWise}
	if visual == nil {
		return pre
	}
	pre.subMode = visual.Type.SubMode()
	pre.selType = visual.Type
	if !visual.Type.IsBlock() {
		return pre
	}

	span, ok := visual.Spans[id]
	if !ok {
		span, ok = lowestSpan(visual)
	}
	if !ok {
		return pre
	}
	ed := e.caps.Editor
	start := ed.OffsetToPoint(span.Anchor)
	end := ed.OffsetToPoint(span.Active)
	pre.minCol = min(displayColumn(ed, span.Anchor), displayColumn(ed, span.Active))
	pre.minLine = min(start.Line, end.Line)
	pre.numLines = max(start.Line, end.Line) - pre.minLine + 1
	return pre
}

func lowestSpan(visual *VisualSelection) (cursor.Selection, bool) {
	var best cursor.Selection
	found := false
	for _, s := range visual.Spans {
		if !found || s.Start() < best.Start() {
			best, found = s, true
		}
	}
	return best, found
}

// selectionRanges returns the ranges covered by span, bottom-up, so they
// can be deleted in order without adjusting the rest.
func selectionRanges(ed host.Editor, span cursor.Selection, t mode.SelectionType) []buffer.Range {
	size := ed.Len()
	switch t {
	case mode.LineWise:
		first := ed.OffsetToPoint(span.Start()).Line
		last := ed.OffsetToPoint(span.End()).Line
		r := buffer.NewRange(ed.LineStartOffset(first), ed.LineEndOffset(last, true))
		// The last line has no newline of its own; take the one before it.
		if r.End == size && r.Start > 0 && !strings.HasSuffix(ed.TextRange(r.Start, r.End), "\n") {
			r.Start--
		}
		return []buffer.Range{r}

	case mode.BlockWise:
		a, b := ed.OffsetToPoint(span.Anchor).Line, ed.OffsetToPoint(span.Active).Line
		ac, bc := displayColumn(ed, span.Anchor), displayColumn(ed, span.Active)
		minCol, maxCol := min(ac, bc), max(ac, bc)
		minLine, maxLine := min(a, b), max(a, b)
		ranges := make([]buffer.Range, 0, maxLine-minLine+1)
		for line := int64(maxLine); line >= int64(minLine); line-- {
			l := uint32(line)
			start := offsetAtColumn(ed, l, minCol)
			end := offsetAtColumn(ed, l, maxCol)
			if end < ed.LineEndOffset(l, false) {
				end = runeEnd(ed, end)
			}
			ranges = append(ranges, buffer.NewRange(start, end))
		}
		return ranges

	default:
		return []buffer.Range{buffer.NewRange(span.Start(), runeEnd(ed, span.End())).Clamp(size)}
	}
}

// runeEnd returns the offset just past the character at off.
func runeEnd(ed host.Editor, off buffer.ByteOffset) buffer.ByteOffset {
	size := ed.Len()
	if off >= size {
		return size
	}
	r, n := utf8.DecodeRuneInString(ed.TextRange(off, min(off+utf8.UTFMax, size)))
	if r == utf8.RuneError && n <= 1 {
		return off + 1
	}
	return off + buffer.ByteOffset(n)
}

type spanOwner struct {
	id   cursor.CaretID
	span cursor.Selection
	top  buffer.ByteOffset
	text string
}

// deleteSelection removes every span of visual from the document and
// leaves each caret where its span started. Spans may overlap; each
// caret still reports the text it selected, but the union is deleted
// only once.
func (e *Engine) deleteSelection(visual *VisualSelection, modifyRegister bool) error {
	ed := e.caps.Editor
	owners := make([]spanOwner, 0, len(visual.Spans))
	var all []buffer.Range
	for id, span := range visual.Spans {
		if _, ok := ed.Caret(id); !ok {
			continue
		}
		ranges := selectionRanges(ed, span, visual.Type)
		rows := make([]string, len(ranges))
		for i, r := range ranges {
			rows[len(ranges)-1-i] = ed.TextRange(r.Start, r.End)
			if !r.IsEmpty() {
				all = append(all, r)
			}
		}
		owners = append(owners, spanOwner{
			id:   id,
			span: span,
			top:  ranges[len(ranges)-1].Start,
			text: strings.Join(rows, "\n"),
		})
	}
	sort.Slice(owners, func(i, j int) bool {
		return owners[i].span.Start() > owners[j].span.Start()
	})

	merged := mergeRanges(all)
	for i := len(merged) - 1; i >= 0; i-- {
		r := merged[i]
		if err := ed.Delete(r.Start, r.End); err != nil {
			return fmt.Errorf("delete selection %s: %w", r, err)
		}
	}

	for _, o := range owners {
		ed.MoveCaret(o.id, shiftThroughDeletes(o.top, merged))

		if modifyRegister && e.registers != nil {
			text := o.text
			if visual.Type.IsLine() && !strings.HasSuffix(text, "\n") {
				text = strings.TrimPrefix(text, "\n") + "\n"
			}
			small := visual.Type == mode.CharacterWise && !strings.Contains(text, "\n")
			if err := e.registers.SetDelete(text, visual.Type, small); err != nil {
				e.logger.Warn("storing deleted text: %v", err)
			}
		}
		e.logger.Debug("deleted %s selection %s for caret %s", visual.Type, o.span, o.id)
	}
	return nil
}

// mergeRanges sorts ranges and joins the ones that overlap or touch.
func mergeRanges(ranges []buffer.Range) []buffer.Range {
	if len(ranges) == 0 {
		return nil
	}
	sorted := append([]buffer.Range(nil), ranges...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	out := []buffer.Range{sorted[0]}
	for _, r := range sorted[1:] {
		last := &out[len(out)-1]
		if r.Start <= last.End {
			last.End = max(last.End, r.End)
			continue
		}
		out = append(out, r)
	}
	return out
}

// shiftThroughDeletes maps an offset taken before the sorted, disjoint
// ranges were deleted to where it lands afterwards.
func shiftThroughDeletes(off buffer.ByteOffset, deleted []buffer.Range) buffer.ByteOffset {
	shift := buffer.ByteOffset(0)
	for _, r := range deleted {
		switch {
		case r.End <= off:
			shift += r.Len()
		case r.Start < off:
			shift += off - r.Start
		}
	}
	return off - shift
}
