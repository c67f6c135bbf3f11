package put_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vimput/internal/dispatcher"
	"github.com/dshills/vimput/internal/dispatcher/execctx"
	"github.com/dshills/vimput/internal/dispatcher/handler"
	"github.com/dshills/vimput/internal/dispatcher/handlers/put"
	"github.com/dshills/vimput/internal/engine"
	"github.com/dshills/vimput/internal/engine/buffer"
	"github.com/dshills/vimput/internal/engine/cursor"
	"github.com/dshills/vimput/internal/host"
	"github.com/dshills/vimput/internal/input"
	"github.com/dshills/vimput/internal/input/mode"
	"github.com/dshills/vimput/internal/input/vim"
	"github.com/dshills/vimput/internal/plugin/lua"
	putengine "github.com/dshills/vimput/internal/put"
	"github.com/dshills/vimput/internal/register"
)

type fixture struct {
	doc   *engine.Document
	regs  *register.Store
	modes *mode.Manager
	d     *dispatcher.Dispatcher
}

func newFixture(t *testing.T, content string, opts ...engine.Option) *fixture {
	t.Helper()
	doc := engine.New(append([]engine.Option{engine.WithContent(content)}, opts...)...)
	regs := register.NewStore()
	modes := mode.NewManager()

	d := dispatcher.NewWithDefaults()
	d.SetPutEngine(putengine.NewEngine(host.Capabilities{Editor: doc}, regs))
	d.SetRegisters(regs)
	d.SetModeManager(modes)
	d.RegisterNamespace("put", put.NewHandler())

	return &fixture{doc: doc, regs: regs, modes: modes, d: d}
}

func (f *fixture) caretAt(off buffer.ByteOffset) cursor.Caret {
	return f.doc.MoveCaret(f.doc.PrimaryCaret().ID, off)
}

func (f *fixture) set(t *testing.T, name rune, text string, typ mode.SelectionType) {
	t.Helper()
	require.NoError(t, f.regs.Set(name, register.Entry{Text: text, Type: typ}))
}

func (f *fixture) keys(t *testing.T, keys string) handler.Result {
	t.Helper()
	cmd, err := vim.ParseKeys(keys, false)
	require.NoError(t, err)
	return f.d.Dispatch(cmd.Action())
}

func (f *fixture) ex(t *testing.T, line string) handler.Result {
	t.Helper()
	cmd, err := vim.ParseEx(line)
	require.NoError(t, err)
	return f.d.Dispatch(cmd.Action())
}

func (f *fixture) visual(t *testing.T, keys string, span cursor.Selection, typ mode.SelectionType) handler.Result {
	t.Helper()
	cmd, err := vim.ParseKeys(keys, true)
	require.NoError(t, err)
	f.modes.EnterVisual(typ)
	sel := putengine.NewVisualSelection(f.doc.PrimaryCaret().ID, span, typ)
	return f.d.DispatchVisual(cmd.Action(), sel)
}

func TestNormalPut(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		caret     buffer.ByteOffset
		reg       string
		typ       mode.SelectionType
		keys      string
		want      string
		wantCaret buffer.ByteOffset
	}{
		{"p chars", "abc", 0, "XY", mode.CharacterWise, `"ap`, "aXYbc", 2},
		{"P chars", "abc", 1, "XY", mode.CharacterWise, `"aP`, "aXYbc", 2},
		{"count", "ab", 0, "X", mode.CharacterWise, `3"ap`, "aXXXb", 3},
		{"count after register", "ab", 0, "X", mode.CharacterWise, `"a2p`, "aXXb", 2},
		{"p lines", "foo\nend\n", 1, "bar\n", mode.LineWise, `"ap`, "foo\nbar\nend\n", 4},
		{"[p lines first non-blank", "foo\n", 2, "  bar\n", mode.LineWise, `"a[p`, "  bar\nfoo\n", 2},
		{"gp lines", "foo\nend\n", 0, "bar\n", mode.LineWise, `"agp`, "foo\nbar\nend\n", 8},
		{"gP chars", "abc", 1, "XY", mode.CharacterWise, `"agP`, "aXYbc", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.content)
			f.caretAt(tt.caret)
			f.set(t, 'a', tt.reg, tt.typ)

			res := f.keys(t, tt.keys)

			require.True(t, res.IsOK(), "err: %v", res.Error)
			assert.Equal(t, tt.want, f.doc.Text())
			assert.Equal(t, tt.wantCaret, f.doc.PrimaryCaret().Offset)
			assert.Equal(t, 1, res.GetDataInt("inserted"))
		})
	}
}

func TestNormalPutUsesUnnamedRegister(t *testing.T) {
	f := newFixture(t, "abc")
	f.caretAt(2)
	f.regs.SetYank("Z", mode.CharacterWise)

	res := f.keys(t, "p")

	require.True(t, res.IsOK())
	assert.Equal(t, "abcZ", f.doc.Text())
}

func TestNormalPutEmptyRegister(t *testing.T) {
	f := newFixture(t, "abc")

	res := f.keys(t, `"qp`)

	require.True(t, res.IsError())
	assert.ErrorIs(t, res.Error, putengine.ErrEmptyRegister)
	assert.Equal(t, "E353: Nothing in register q", res.Message)
	assert.Equal(t, "abc", f.doc.Text())
}

func TestSelectedRegisterIsReset(t *testing.T) {
	f := newFixture(t, "abc")
	f.set(t, 'a', "X", mode.CharacterWise)

	require.True(t, f.keys(t, `"ap`).IsOK())

	_, selected := f.regs.Selected()
	assert.False(t, selected)

	// Unnamed is still empty, so a bare p fails.
	res := f.keys(t, "p")
	assert.True(t, res.IsError())
}

func TestNormalPutEveryCaret(t *testing.T) {
	f := newFixture(t, "ab\ncd\n")
	f.caretAt(0)
	f.doc.AddCaret(3)
	f.regs.SetYank("-", mode.CharacterWise)

	res := f.keys(t, "P")

	require.True(t, res.IsOK(), "err: %v", res.Error)
	assert.Equal(t, "-ab\n-cd\n", f.doc.Text())
	assert.Equal(t, 2, res.GetDataInt("inserted"))
	assert.Len(t, res.Ranges, 2)
}

func TestNormalPutSingleLineRejected(t *testing.T) {
	f := newFixture(t, "abc", engine.WithSingleLine(true))
	f.set(t, 'a', "x\n", mode.LineWise)

	res := f.keys(t, `"ap`)

	require.True(t, res.IsError())
	assert.ErrorIs(t, res.Error, putengine.ErrSingleLineMode)
	assert.Equal(t, "abc", f.doc.Text())
}

func TestVisualPut(t *testing.T) {
	f := newFixture(t, "hello world")
	f.set(t, 'a', "there", mode.CharacterWise)

	res := f.visual(t, `"ap`, cursor.NewSelection(6, 10), mode.CharacterWise)

	require.True(t, res.IsOK(), "err: %v", res.Error)
	assert.Equal(t, "hello there", f.doc.Text())
	assert.Equal(t, buffer.ByteOffset(10), f.doc.PrimaryCaret().Offset)
	assert.Equal(t, mode.Normal, f.modes.Current().Mode)

	unnamed, ok := f.regs.Get(register.Unnamed)
	require.True(t, ok)
	assert.Equal(t, "world", unnamed.Text)
	small, ok := f.regs.Get(register.SmallDel)
	require.True(t, ok)
	assert.Equal(t, "world", small.Text)

	a, _ := f.regs.Get('a')
	assert.Equal(t, "there", a.Text)
}

func TestVisualPutBeforeKeepsRegisters(t *testing.T) {
	f := newFixture(t, "hello world")
	f.set(t, 'a', "there", mode.CharacterWise)

	res := f.visual(t, `"aP`, cursor.NewSelection(6, 10), mode.CharacterWise)

	require.True(t, res.IsOK(), "err: %v", res.Error)
	assert.Equal(t, "hello there", f.doc.Text())
	_, ok := f.regs.Get(register.Unnamed)
	assert.False(t, ok)
}

func TestVisualPutUnnamedReadsBeforeDelete(t *testing.T) {
	f := newFixture(t, "hello world")
	f.regs.SetYank("there", mode.CharacterWise)

	res := f.visual(t, "p", cursor.NewSelection(6, 10), mode.CharacterWise)

	require.True(t, res.IsOK(), "err: %v", res.Error)
	assert.Equal(t, "hello there", f.doc.Text())
	unnamed, _ := f.regs.Get(register.Unnamed)
	assert.Equal(t, "world", unnamed.Text)
}

func TestVisualLinePut(t *testing.T) {
	f := newFixture(t, "a\nb\nc\n")
	f.set(t, 'a', "x", mode.CharacterWise)

	res := f.visual(t, `"ap`, cursor.NewSelection(2, 2), mode.LineWise)

	require.True(t, res.IsOK(), "err: %v", res.Error)
	assert.Equal(t, "a\nx\nc\n", f.doc.Text())
	assert.Equal(t, buffer.ByteOffset(2), f.doc.PrimaryCaret().Offset)

	deleted, ok := f.regs.Get('1')
	require.True(t, ok)
	assert.Equal(t, "b\n", deleted.Text)
}

func TestVisualPutEmptyRegister(t *testing.T) {
	f := newFixture(t, "hello world")

	res := f.visual(t, `"qp`, cursor.NewSelection(6, 10), mode.CharacterWise)

	require.True(t, res.IsError())
	assert.Equal(t, "E353: Nothing in register q", res.Message)
	assert.Equal(t, "hello ", f.doc.Text())
	assert.Equal(t, mode.Normal, f.modes.Current().Mode)
}

func TestVisualPutWithoutSelection(t *testing.T) {
	f := newFixture(t, "abc")

	res := f.d.Dispatch(input.NewAction(put.ActionVisualAfter))

	require.True(t, res.IsError())
	assert.ErrorIs(t, res.Error, put.ErrNoSelection)
}

func TestExPut(t *testing.T) {
	tests := []struct {
		name      string
		caret     buffer.ByteOffset
		line      string
		want      string
		wantCaret buffer.ByteOffset
	}{
		{"caret line", 0, ":put a", "a\n  x\nb\nc\n", 4},
		{"bang", 2, ":put! a", "a\n  x\nb\nc\n", 4},
		{"address", 0, ":2put a", "a\nb\n  x\nc\n", 6},
		{"zero", 4, ":0put a", "  x\na\nb\nc\n", 2},
		{"last line", 0, ":$put a", "a\nb\nc\n  x\n", 8},
		{"address past end", 0, ":9put a", "a\nb\nc\n  x\n", 8},
		{"bang on first line", 0, ":1put! a", "  x\na\nb\nc\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "a\nb\nc\n")
			f.caretAt(tt.caret)
			f.set(t, 'a', "  x", mode.CharacterWise)

			res := f.ex(t, tt.line)

			require.True(t, res.IsOK(), "err: %v", res.Error)
			assert.Equal(t, tt.want, f.doc.Text())
			assert.Equal(t, tt.wantCaret, f.doc.PrimaryCaret().Offset)
		})
	}
}

func TestExPutDefaultRegister(t *testing.T) {
	f := newFixture(t, "a\n")
	f.regs.SetYank("y", mode.CharacterWise)

	res := f.ex(t, "put")

	require.True(t, res.IsOK(), "err: %v", res.Error)
	assert.Equal(t, "a\ny\n", f.doc.Text())
}

func TestExPutRejected(t *testing.T) {
	t.Run("single line", func(t *testing.T) {
		f := newFixture(t, "abc", engine.WithSingleLine(true))
		f.set(t, 'a', "x", mode.CharacterWise)

		res := f.ex(t, "put a")

		assert.ErrorIs(t, res.Error, putengine.ErrSingleLineMode)
		assert.Equal(t, "abc", f.doc.Text())
	})
	t.Run("empty register", func(t *testing.T) {
		f := newFixture(t, "abc")

		res := f.ex(t, "put z")

		assert.ErrorIs(t, res.Error, putengine.ErrEmptyRegister)
		assert.Equal(t, "E353: Nothing in register z", res.Message)
	})
	t.Run("expression without evaluator", func(t *testing.T) {
		f := newFixture(t, "abc")

		res := f.ex(t, "put =1+1")

		assert.ErrorIs(t, res.Error, execctx.ErrMissingEvaluator)
	})
}

func newLuaFixture(t *testing.T, content string) *fixture {
	t.Helper()
	f := newFixture(t, content)
	state := lua.NewState()
	t.Cleanup(func() { _ = state.Close() })
	f.d.SetEvaluator(host.NewLuaDelegate(state, f.doc, nil))
	return f
}

func TestExPutExpression(t *testing.T) {
	f := newLuaFixture(t, "a\n")

	res := f.ex(t, `put ={"x", "y"}`)

	require.True(t, res.IsOK(), "err: %v", res.Error)
	assert.Equal(t, "a\nx\ny\n", f.doc.Text())

	res = f.ex(t, `put =error("bad")`)
	require.True(t, res.IsError())
	assert.Contains(t, res.Message, "E15: Invalid expression")
}

func TestInsertRegister(t *testing.T) {
	f := newFixture(t, "ab\ncd\n")
	f.caretAt(0)
	f.doc.AddCaret(3)
	f.set(t, 'a', "-\n", mode.LineWise)

	cmd, err := vim.ParseKeys(string(vim.KeyCtrlR)+"a", false)
	require.NoError(t, err)
	res := f.d.Dispatch(cmd.Action())

	require.True(t, res.IsOK(), "err: %v", res.Error)
	assert.Equal(t, "-\nab\n-\ncd\n", f.doc.Text())
	carets := f.doc.Carets()
	require.Len(t, carets, 2)
	assert.Equal(t, buffer.ByteOffset(2), carets[0].Offset)
	assert.Equal(t, buffer.ByteOffset(7), carets[1].Offset)
}

func TestInsertRegisterExpression(t *testing.T) {
	f := newLuaFixture(t, "ab")
	f.caretAt(1)

	action := input.NewAction(put.ActionInsertRegister).
		WithRegister(register.Expression).
		WithSource(input.SourceInsert)
	action.Args.Extra = map[string]interface{}{"expr": "6 * 7"}
	res := f.d.Dispatch(action)

	require.True(t, res.IsOK(), "err: %v", res.Error)
	assert.Equal(t, "a42b", f.doc.Text())
	assert.Equal(t, buffer.ByteOffset(3), f.doc.PrimaryCaret().Offset)
}

func TestInsertRegisterNeedsName(t *testing.T) {
	f := newFixture(t, "ab")

	res := f.d.Dispatch(input.NewAction(put.ActionInsertRegister))

	assert.True(t, res.IsError())
}

func TestHandlerCoversKeyTables(t *testing.T) {
	h := put.NewHandler()
	keys := []string{"p", "P", "gp", "gP", "]p", "[p", "]P", "[P"}
	for _, visual := range []bool{false, true} {
		for _, k := range keys {
			name, ok := vim.ActionForKeys(k, visual)
			require.True(t, ok, "keys %q visual=%v", k, visual)
			assert.True(t, h.CanHandle(name), "action %s", name)
		}
	}
	assert.True(t, h.CanHandle(vim.ExActionName))
	assert.True(t, h.CanHandle(put.ActionInsertRegister))
	assert.False(t, h.CanHandle("put.unknown"))
}
