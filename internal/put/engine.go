package put

import (
	"fmt"
	"sort"

	"github.com/dshills/vimput/internal/engine/buffer"
	"github.com/dshills/vimput/internal/engine/cursor"
	"github.com/dshills/vimput/internal/host"
	"github.com/dshills/vimput/internal/logging"
	"github.com/dshills/vimput/internal/mark"
	"github.com/dshills/vimput/internal/register"
)

// Engine performs puts against one host document.
// Calls are serialized by the document's write section.
type Engine struct {
	caps      host.Capabilities
	registers *register.Store
	marks     *mark.Store
	logger    *logging.Logger
	richPaste bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMarks sets the mark store puts write to.
func WithMarks(m *mark.Store) Option {
	return func(e *Engine) {
		if m != nil {
			e.marks = m
		}
	}
}

// WithRichPaste lets the host RichPaster handle eligible puts.
func WithRichPaste(enabled bool) Option {
	return func(e *Engine) {
		e.richPaste = enabled
	}
}

// NewEngine creates an engine for the document in caps.
// registers receives text deleted by visual puts and may be nil.
func NewEngine(caps host.Capabilities, registers *register.Store, opts ...Option) *Engine {
	e := &Engine{
		caps:      caps,
		registers: registers,
		marks:     mark.NewStore(),
		logger:    logging.NullLogger.WithComponent("put"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Marks returns the mark store.
func (e *Engine) Marks() *mark.Store { return e.marks }

// Editor returns the document the engine edits.
func (e *Engine) Editor() host.Editor { return e.caps.Editor }

// PutTextForCaretNonVisual puts data at the caret without a selection.
func (e *Engine) PutTextForCaretNonVisual(id cursor.CaretID, data *TextData, opts PasteOptions) Result {
	return e.PutTextForCaret(id, data, nil, opts, false, false)
}

// PutTextForCaret puts data for one caret. With a visual selection the
// selection is deleted first, and its text goes to the registers when
// modifyRegister is set. updateVisualMarks moves '<' and '>' onto the
// inserted text.
func (e *Engine) PutTextForCaret(id cursor.CaretID, data *TextData, visual *VisualSelection, opts PasteOptions, updateVisualMarks, modifyRegister bool) Result {
	ed := e.caps.Editor
	c, ok := ed.Caret(id)
	if !ok {
		return rejected(c, fmt.Errorf("%w: %s", ErrUnknownCaret, id))
	}
	if res, stop := e.check(c, data, visual, opts); stop {
		return res
	}

	release := ed.BeginWrite()
	defer release()

	pre := e.capture(id, visual)
	if visual != nil {
		if err := e.deleteSelection(visual, modifyRegister); err != nil {
			return rejected(c, err)
		}
	}
	return e.putLocked(id, data, pre, opts, updateVisualMarks)
}

// PutText puts data for every caret as one edit: the carets holding a span
// of visual, or all carets when visual is nil. Selections are deleted
// first, then carets are served in document order. Results are in that
// order.
func (e *Engine) PutText(data *TextData, visual *VisualSelection, opts PasteOptions, updateVisualMarks, modifyRegister bool) []Result {
	ed := e.caps.Editor
	carets := e.targets(visual)
	if len(carets) == 0 {
		return nil
	}
	if res, stop := e.check(carets[0], data, visual, opts); stop {
		out := make([]Result, len(carets))
		for i, c := range carets {
			out[i] = res
			out[i].Caret = c
		}
		return out
	}

	release := ed.BeginWrite()
	defer release()

	ids := make([]cursor.CaretID, len(carets))
	pres := make(map[cursor.CaretID]preModification, len(carets))
	for i, c := range carets {
		ids[i] = c.ID
		pres[c.ID] = e.capture(c.ID, visual)
	}
	if visual != nil {
		if err := e.deleteSelection(visual, modifyRegister); err != nil {
			return []Result{rejected(carets[0], err)}
		}
	}

	sort.SliceStable(ids, func(i, j int) bool {
		a, _ := ed.Caret(ids[i])
		b, _ := ed.Caret(ids[j])
		return a.Offset < b.Offset
	})

	out := make([]Result, 0, len(ids))
	for _, id := range ids {
		out = append(out, e.putLocked(id, data, pres[id], opts, updateVisualMarks))
	}
	return out
}

func (e *Engine) targets(visual *VisualSelection) []cursor.Caret {
	ed := e.caps.Editor
	if visual == nil {
		return ed.Carets()
	}
	var out []cursor.Caret
	for _, c := range ed.Carets() {
		if _, ok := visual.Spans[c.ID]; ok {
			out = append(out, c)
		}
	}
	return out
}

// check runs the validations that must happen before any mutation.
func (e *Engine) check(c cursor.Caret, data *TextData, visual *VisualSelection, opts PasteOptions) (Result, bool) {
	if opts == nil {
		return rejected(c, fmt.Errorf("%w: nil options", ErrInvalidOptions)), true
	}
	if err := opts.Validate(); err != nil {
		return rejected(c, err), true
	}
	if data != nil && len(data.Text) > MaxPutBytes/count(opts) {
		return rejected(c, fmt.Errorf("%w: %d bytes repeated %d times is too long",
			ErrInvalidOptions, len(data.Text), count(opts))), true
	}
	lineContent := data != nil && data.Type.IsLine()
	lineTarget := visual != nil && visual.Type.IsLine()
	if e.caps.Editor.IsSingleLineMode() && (lineContent || lineTarget) {
		return rejected(c, ErrSingleLineMode), true
	}
	if isEmpty(data) && visual == nil {
		return Result{Status: StatusEmpty, Caret: c, Err: ErrEmptyRegister}, true
	}
	return Result{}, false
}

func isEmpty(data *TextData) bool { return data == nil || data.Text == "" }

// putLocked performs the insertion for one caret after any selection has
// been deleted. The caller holds the write section.
func (e *Engine) putLocked(id cursor.CaretID, data *TextData, pre preModification, opts PasteOptions, updateVisualMarks bool) Result {
	ed := e.caps.Editor
	c, ok := ed.Caret(id)
	if !ok {
		return rejected(c, fmt.Errorf("%w: %s", ErrUnknownCaret, id))
	}

	if isEmpty(data) {
		e.setMarks(c.Offset, c.Offset, updateVisualMarks)
		return Result{Status: StatusEmpty, Caret: c, Err: ErrEmptyRegister}
	}

	indent := ShouldIndent(opts, data, pre.visual)
	text := processText(pre.visual, data)

	start, end, err := e.putForCaret(c, data, text, opts, pre, indent)
	if err != nil {
		c, _ = ed.Caret(id)
		return rejected(c, err)
	}

	e.setMarks(start, end, updateVisualMarks)
	c, _ = ed.Caret(id)
	e.logger.Debug("put %s text for caret %s at [%d, %d)", data.Type, id, start, end)
	return Result{
		Status: StatusOK,
		Marker: ed.CreateRangeMarker(start, end),
		Caret:  c,
	}
}

// putForCaret inserts text at every start offset of c and returns the
// range of the segment inserted at the lowest one.
func (e *Engine) putForCaret(c cursor.Caret, data *TextData, text string, opts PasteOptions, pre preModification, indent bool) (buffer.ByteOffset, buffer.ByteOffset, error) {
	ed := e.caps.Editor
	starts, err := e.startOffsets(c, data.Type, opts, pre)
	if err != nil {
		return 0, 0, err
	}
	n := count(opts)

	if len(starts) == 1 && e.richEligible(data, pre, n) {
		ed.MoveCaret(c.ID, starts[0])
		if end, ok := e.tryRichPaste(c, data, starts[0]); ok {
			return starts[0], end, nil
		}
	}

	pasteStart := starts[0]
	for _, s := range starts[1:] {
		pasteStart = min(pasteStart, s)
	}
	var pasteEnd buffer.ByteOffset
	for _, s := range starts {
		moved := ed.MoveCaret(c.ID, s)
		end, err := e.putInternal(moved, text, data.Type, pre.subMode, s, n, indent)
		if err != nil {
			return 0, 0, err
		}
		if s == pasteStart {
			pasteEnd = end
		}
	}
	return pasteStart, pasteEnd, nil
}

func (e *Engine) richEligible(data *TextData, pre preModification, n int) bool {
	if !e.richPaste || e.caps.RichPaster == nil || n != 1 {
		return false
	}
	if pre.visual != nil && pre.selType.IsBlock() {
		return false
	}
	return !data.Type.IsBlock()
}

// tryRichPaste offers the put to the host. ok is false when the core path
// must run instead.
func (e *Engine) tryRichPaste(c cursor.Caret, data *TextData, start buffer.ByteOffset) (end buffer.ByteOffset, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("rich paste panicked, using plain put: %v", r)
			end, ok = start, false
		}
	}()
	rp := e.caps.RichPaster
	if !rp.Accepts(*data) {
		return start, false
	}
	end, ok, err := rp.RichPaste(c, *data, start)
	if err != nil {
		e.logger.Warn("rich paste failed, using plain put: %v", err)
		return start, false
	}
	if !ok {
		e.logger.Debug("rich paste declined at %d", start)
		return start, false
	}
	return max(end, start), true
}

// setMarks records the change marks for [start, end).
func (e *Engine) setMarks(start, end buffer.ByteOffset, visualMarks bool) {
	last := max(start, end-1)
	e.setMark(mark.ChangeStart, start)
	e.setMark(mark.ChangeEnd, last)
	e.setMark(mark.LastChange, start)
	if visualMarks {
		e.setMark(mark.VisualStart, start)
		e.setMark(mark.VisualEnd, last)
	}
}

func (e *Engine) setMark(name rune, off buffer.ByteOffset) {
	e.marks.Set(mark.Mark{
		Name:   name,
		Offset: off,
		Point:  e.caps.Editor.OffsetToPoint(off),
	})
}
