package put

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/dshills/vimput/internal/dispatcher/execctx"
	"github.com/dshills/vimput/internal/dispatcher/handler"
	"github.com/dshills/vimput/internal/engine/buffer"
	"github.com/dshills/vimput/internal/engine/cursor"
	"github.com/dshills/vimput/internal/host"
	"github.com/dshills/vimput/internal/input"
	"github.com/dshills/vimput/internal/input/mode"
	putengine "github.com/dshills/vimput/internal/put"
	"github.com/dshills/vimput/internal/register"
)

// Action names handled by this package.
const (
	ActionAfter                = "put.after"                  // p
	ActionBefore               = "put.before"                 // P
	ActionAfterMoveCursor      = "put.afterMoveCursor"        // gp
	ActionBeforeMoveCursor     = "put.beforeMoveCursor"       // gP
	ActionAfterNoIndent        = "put.afterNoIndent"          // ]p
	ActionBeforeNoIndent       = "put.beforeNoIndent"         // [p, ]P, [P
	ActionVisualAfter          = "put.visualAfter"            // v_p
	ActionVisualBefore         = "put.visualBefore"           // v_P
	ActionVisualAfterMove      = "put.visualAfterMoveCursor"  // v_gp
	ActionVisualBeforeMove     = "put.visualBeforeMoveCursor" // v_gP
	ActionVisualAfterNoIndent  = "put.visualAfterNoIndent"    // v_]p
	ActionVisualBeforeNoIndent = "put.visualBeforeNoIndent"   // v_[p
	ActionLines                = "put.lines"                  // :put
	ActionInsertRegister       = "put.insertRegister"         // i_CTRL-R
)

// ErrNoSelection is returned by visual actions dispatched without a selection.
var ErrNoSelection = errors.New("put: visual action without a selection")

// variant describes one p/P flavour.
type variant struct {
	direction putengine.Direction
	indent    bool
	// caretAfter leaves the caret just after the inserted text (gp, gP).
	caretAfter bool
	// modifyRegister stores the replaced selection in the registers.
	modifyRegister bool
}

var normalVariants = map[string]variant{
	ActionAfter:            {direction: putengine.After, indent: true},
	ActionBefore:           {direction: putengine.Before, indent: true},
	ActionAfterMoveCursor:  {direction: putengine.After, indent: true, caretAfter: true},
	ActionBeforeMoveCursor: {direction: putengine.Before, indent: true, caretAfter: true},
	ActionAfterNoIndent:    {direction: putengine.After},
	ActionBeforeNoIndent:   {direction: putengine.Before},
}

var visualVariants = map[string]variant{
	ActionVisualAfter:          {direction: putengine.After, indent: true, modifyRegister: true},
	ActionVisualBefore:         {direction: putengine.Before, indent: true},
	ActionVisualAfterMove:      {direction: putengine.After, indent: true, caretAfter: true, modifyRegister: true},
	ActionVisualBeforeMove:     {direction: putengine.Before, indent: true, caretAfter: true, modifyRegister: true},
	ActionVisualAfterNoIndent:  {direction: putengine.After, modifyRegister: true},
	ActionVisualBeforeNoIndent: {direction: putengine.Before, modifyRegister: true},
}

// Handler handles the put namespace.
type Handler struct {
	*handler.BaseNamespaceHandler
}

// NewHandler creates a put handler with every put action registered.
func NewHandler() *Handler {
	h := &Handler{BaseNamespaceHandler: handler.NewBaseNamespaceHandler("put")}
	for name, v := range normalVariants {
		h.Register(name, h.normal(v))
	}
	for name, v := range visualVariants {
		h.Register(name, h.visual(v))
	}
	h.Register(ActionLines, h.lines)
	h.Register(ActionInsertRegister, h.insertRegister)
	return h
}

// HandleAction validates the context and resets the selected register
// once the action is done.
func (h *Handler) HandleAction(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}
	defer ctx.Registers.ResetRegister()

	if action.Args.Register != 0 {
		if err := ctx.Registers.SelectRegister(action.Args.Register); err != nil {
			return handler.Error(err)
		}
	}
	return h.BaseNamespaceHandler.HandleAction(action, ctx)
}

func (h *Handler) normal(v variant) handler.Func {
	return func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		ed := ctx.Puts.Editor()
		name := ctx.Registers.ResolveCurrent(len(ed.Carets()))
		data, ok := textData(ctx.Registers, name)
		if !ok {
			return emptyRegister(name)
		}

		opts := putengine.AtCaret{Direction: v.direction, AdjustIndent: v.indent, Count: ctx.GetCount()}
		results := ctx.Puts.PutText(data, nil, opts, false, false)
		return finish(ctx, results, data.Type, v.caretAfter)
	}
}

func (h *Handler) visual(v variant) handler.Func {
	return func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		sel := ctx.Selection
		if sel == nil || len(sel.Spans) == 0 {
			return handler.Error(ErrNoSelection)
		}

		name := ctx.Registers.ResolveCurrent(len(sel.Spans))
		data, ok := textData(ctx.Registers, name)
		// The deletion below writes the registers; read first.
		ctx.Registers.ResetRegister()

		opts := putengine.AtCaret{Direction: v.direction, AdjustIndent: v.indent, Count: ctx.GetCount()}
		results := ctx.Puts.PutText(data, sel, opts, true, v.modifyRegister)

		if !ok {
			disposeAll(results)
			return emptyRegister(name).WithModeChange(mode.Normal)
		}
		effective := data.Type
		if sel.Type.IsLine() && !effective.IsBlock() {
			effective = mode.LineWise
		}
		return finish(ctx, results, effective, v.caretAfter).WithModeChange(mode.Normal)
	}
}

// lines implements :[address]put[!] [x]. The content is always line-wise
// and never re-indented.
func (h *Handler) lines(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	ed := ctx.Puts.Editor()
	if ed.IsSingleLineMode() {
		return handler.Error(putengine.ErrSingleLineMode)
	}

	name := action.Args.Register
	if name == 0 {
		name = ctx.Registers.DefaultRegister()
	}
	if name == register.Expression {
		if err := evaluate(ctx, action.Args.GetString("expr")); err != nil {
			return handler.Error(err).WithMessage(err.Error())
		}
	}
	data, ok := textData(ctx.Registers, name)
	if !ok {
		return emptyRegister(name)
	}
	data.Type = mode.LineWise
	data.Register = 0

	primary, ok := primaryCaret(ed)
	if !ok {
		return handler.Error(putengine.ErrUnknownCaret)
	}
	line := belowLine(ed, action, primary)

	var opts putengine.PasteOptions
	if line < 0 {
		ed.MoveCaret(primary.ID, 0)
		opts = putengine.AtCaret{Direction: putengine.Before, Count: 1}
	} else {
		opts = putengine.ToLine{Line: line, Count: 1}
	}

	result := ctx.Puts.PutTextForCaretNonVisual(primary.ID, data, opts)
	return finish(ctx, []putengine.Result{result}, mode.LineWise, false)
}

// insertRegister implements CTRL-R x: a char-wise put before every caret
// that leaves the caret after the text.
func (h *Handler) insertRegister(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	name := action.Args.Register
	if name == 0 {
		return handler.Errorf("put: CTRL-R needs a register name")
	}
	if name == register.Expression {
		if expr := action.Args.GetString("expr"); expr != "" {
			if err := evaluate(ctx, expr); err != nil {
				return handler.Error(err).WithMessage(err.Error())
			}
		}
	}

	data, ok := textData(ctx.Registers, name)
	if !ok {
		return emptyRegister(name)
	}
	data.Type = mode.CharacterWise

	opts := putengine.AtCaret{Direction: putengine.Before, Count: 1}
	results := ctx.Puts.PutText(data, nil, opts, false, false)
	return finish(ctx, results, mode.CharacterWise, true)
}

// evaluate stores the value of expr in the '=' register.
func evaluate(ctx *execctx.ExecutionContext, expr string) error {
	if expr == "" {
		return nil
	}
	if ctx.Evaluator == nil {
		return execctx.ErrMissingEvaluator
	}
	value, err := ctx.Evaluator.Eval(expr)
	if err != nil {
		return fmt.Errorf("E15: Invalid expression: %s: %w", expr, err)
	}
	return ctx.Registers.SetSpecial(register.Expression, value)
}

// belowLine resolves the :put address to the 0-based line to put below,
// or -1 for above the first line.
func belowLine(ed host.Editor, action input.Action, caret cursor.Caret) int {
	var line int // 1-based address
	switch {
	case action.Args.GetBool("lastLine"):
		line = int(lastLine(ed)) + 1
	case action.Args.Line != nil:
		line = *action.Args.Line
	default:
		line = int(ed.OffsetToPoint(caret.Offset).Line) + 1
	}
	if limit := int(lastLine(ed)) + 1; line > limit {
		line = limit
	}
	if action.Args.GetBool("bang") {
		line--
	}
	return line - 1
}

// lastLine returns the last line holding text; a final newline does not
// start another line.
func lastLine(ed host.Editor) uint32 {
	last := ed.LineCount() - 1
	if last > 0 && ed.LineStartOffset(last) == ed.Len() {
		last--
	}
	return last
}

// primaryCaret returns the editor's primary caret, or its first caret
// when the editor has no notion of a primary one.
func primaryCaret(ed host.Editor) (cursor.Caret, bool) {
	if p, ok := ed.(interface{ PrimaryCaret() cursor.Caret }); ok {
		return p.PrimaryCaret(), true
	}
	carets := ed.Carets()
	if len(carets) == 0 {
		return cursor.Caret{}, false
	}
	return carets[0], true
}

// textData reads a register into put content.
func textData(registers *register.Store, name rune) (*putengine.TextData, bool) {
	entry, ok := registers.Get(name)
	if !ok || entry.IsEmpty() {
		return nil, false
	}
	return &putengine.TextData{
		Text:     entry.Text,
		Type:     entry.Type,
		Payload:  entry.Payload,
		Register: name,
	}, true
}

func emptyRegister(name rune) handler.Result {
	return handler.Error(putengine.ErrEmptyRegister).
		WithMessage(fmt.Sprintf("E353: Nothing in register %c", name))
}

// finish places carets, releases the markers and folds the per-caret
// results into one handler result.
func finish(ctx *execctx.ExecutionContext, results []putengine.Result, t mode.SelectionType, caretAfter bool) handler.Result {
	ed := ctx.Puts.Editor()
	res := handler.Success()
	var firstErr error
	inserted := 0

	for _, r := range results {
		switch r.Status {
		case putengine.StatusOK:
			rng := r.Range()
			ed.MoveCaret(r.Caret.ID, caretTarget(ed, rng, t, caretAfter))
			res = res.WithRange(rng)
			inserted++
		case putengine.StatusEmpty:
			if firstErr == nil {
				firstErr = r.Err
			}
		default:
			ctx.Logger.Warn("put rejected for caret %s: %v", r.Caret.ID, r.Err)
			if firstErr == nil {
				firstErr = r.Err
			}
		}
	}
	disposeAll(results)

	if inserted == 0 && firstErr != nil {
		return handler.Error(firstErr)
	}
	if firstErr != nil {
		res = res.WithMessage(firstErr.Error())
	}
	return res.WithData("inserted", inserted)
}

func disposeAll(results []putengine.Result) {
	for _, r := range results {
		if r.Marker != nil {
			r.Marker.Dispose()
		}
	}
}

// caretTarget returns where the caret goes after text was put in rng.
func caretTarget(ed host.Editor, rng buffer.Range, t mode.SelectionType, caretAfter bool) buffer.ByteOffset {
	switch {
	case caretAfter && t.IsLine() && rng.End > rng.Start:
		next := ed.OffsetToPoint(rng.End-1).Line + 1
		if next >= ed.LineCount() {
			return ed.Len()
		}
		return ed.LineStartOffset(next)
	case caretAfter:
		return rng.End
	case t.IsLine():
		return firstNonBlank(ed, ed.OffsetToPoint(rng.Start).Line)
	case t.IsBlock():
		return rng.Start
	default:
		return lastRuneStart(ed, rng)
	}
}

// firstNonBlank returns the offset of the first non-blank character on
// line, or of its last character when the line is blank.
func firstNonBlank(ed host.Editor, line uint32) buffer.ByteOffset {
	start := ed.LineStartOffset(line)
	end := ed.LineEndOffset(line, false)
	text := ed.TextRange(start, end)
	for i := 0; i < len(text); i++ {
		if text[i] != ' ' && text[i] != '\t' {
			return start + buffer.ByteOffset(i)
		}
	}
	if end > start {
		return lastRuneStart(ed, buffer.NewRange(start, end))
	}
	return start
}

// lastRuneStart returns the offset of the last character in rng.
func lastRuneStart(ed host.Editor, rng buffer.Range) buffer.ByteOffset {
	if rng.End <= rng.Start {
		return rng.Start
	}
	_, size := utf8.DecodeLastRuneInString(ed.TextRange(rng.Start, rng.End))
	return rng.End - buffer.ByteOffset(size)
}
