package host_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	glua "github.com/yuin/gopher-lua"

	"github.com/dshills/vimput/internal/engine"
	"github.com/dshills/vimput/internal/engine/cursor"
	"github.com/dshills/vimput/internal/host"
	"github.com/dshills/vimput/internal/input/mode"
	"github.com/dshills/vimput/internal/plugin/lua"
)

func TestDocumentIndenter(t *testing.T) {
	tests := []struct {
		name    string
		content string
		first   uint32
		last    uint32
		opts    []host.IndentOption
		want    string
		wantEnd host.ByteOffset
	}{
		{
			name:    "matches line above with tabs",
			content: "\tfoo\n  a\n    b\nbar",
			first:   1,
			last:    2,
			opts:    []host.IndentOption{host.WithTabWidth(4), host.WithExpandTab(false)},
			want:    "\tfoo\n\ta\n\t  b\nbar",
			wantEnd: 12,
		},
		{
			name:    "matches line below when nothing above",
			content: "  a\n    ref",
			first:   0,
			last:    0,
			want:    "    a\n    ref",
			wantEnd: 5,
		},
		{
			name:    "dedents",
			content: "x\n    a\n      b\n",
			first:   1,
			last:    2,
			want:    "x\na\n  b\n",
			wantEnd: 7,
		},
		{
			name:    "skips blank lines",
			content: "  x\na\n\nb",
			first:   1,
			last:    3,
			want:    "  x\n  a\n\n  b",
			wantEnd: 12,
		},
		{
			name:    "no reference line",
			content: "  a\n b",
			first:   0,
			last:    1,
			want:    "  a\n b",
			wantEnd: 6,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := engine.New(engine.WithContent(tt.content))
			ind := host.NewDocumentIndenter(doc, tt.opts...)

			end, err := ind.AutoIndent(doc.PrimaryCaret(),
				doc.LineStartOffset(tt.first), doc.LineEndOffset(tt.last, false))

			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.Text())
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestNopIndenter(t *testing.T) {
	end, err := host.NopIndenter{}.AutoIndent(engine.New().PrimaryCaret(), 3, 9)
	require.NoError(t, err)
	assert.Equal(t, host.ByteOffset(9), end)
}

func TestLuaEditorAPI(t *testing.T) {
	doc := engine.New(engine.WithContent("ab\ncd"))
	state := lua.NewState()
	defer state.Close()
	host.NewLuaDelegate(state, doc, nil)

	err := state.DoString(`
		size = editor.len()
		lines = editor.line_count()
		second = editor.text(editor.line_start(1), editor.line_end(1))
		line = editor.line_of(4)
		editor.insert(2, "!")
		editor.delete(0, 1)
	`)
	require.NoError(t, err)

	assert.Equal(t, glua.LNumber(5), state.GetGlobal("size"))
	assert.Equal(t, glua.LNumber(2), state.GetGlobal("lines"))
	assert.Equal(t, glua.LString("cd"), state.GetGlobal("second"))
	assert.Equal(t, glua.LNumber(1), state.GetGlobal("line"))
	assert.Equal(t, "b!\ncd", doc.Text())
}

func TestLuaEditorAPIRaisesEditErrors(t *testing.T) {
	doc := engine.New(engine.WithContent("ab"), engine.WithReadOnly(true))
	state := lua.NewState()
	defer state.Close()
	host.NewLuaDelegate(state, doc, nil)

	err := state.DoString(`editor.insert(0, "x")`)
	assert.Error(t, err)
	assert.Equal(t, "ab", doc.Text())
}

type countingIndenter struct{ calls int }

func (c *countingIndenter) AutoIndent(_ cursor.Caret, _, end host.ByteOffset) (host.ByteOffset, error) {
	c.calls++
	return end, nil
}

func TestLuaDelegateIndent(t *testing.T) {
	t.Run("falls back without script function", func(t *testing.T) {
		doc := engine.New(engine.WithContent("abc"))
		state := lua.NewState()
		defer state.Close()
		fallback := &countingIndenter{}
		d := host.NewLuaDelegate(state, doc, fallback)

		end, err := d.AutoIndent(doc.PrimaryCaret(), 0, 3)

		require.NoError(t, err)
		assert.Equal(t, host.ByteOffset(3), end)
		assert.Equal(t, 1, fallback.calls)
	})

	t.Run("uses script result", func(t *testing.T) {
		doc := engine.New(engine.WithContent("abc"))
		state := lua.NewState()
		defer state.Close()
		d := host.NewLuaDelegate(state, doc, nil)
		require.NoError(t, state.DoString(`function auto_indent(caret, start, stop) return stop - 1 end`))

		end, err := d.AutoIndent(doc.PrimaryCaret(), 0, 3)

		require.NoError(t, err)
		assert.Equal(t, host.ByteOffset(2), end)
	})

	t.Run("script error", func(t *testing.T) {
		doc := engine.New(engine.WithContent("abc"))
		state := lua.NewState()
		defer state.Close()
		d := host.NewLuaDelegate(state, doc, nil)
		require.NoError(t, state.DoString(`function auto_indent() error("nope") end`))

		end, err := d.AutoIndent(doc.PrimaryCaret(), 0, 3)

		require.Error(t, err)
		assert.Equal(t, host.ByteOffset(3), end)
	})
}

func TestLuaDelegateRichPaste(t *testing.T) {
	doc := engine.New(engine.WithContent("ab"))
	state := lua.NewState()
	defer state.Close()
	d := host.NewLuaDelegate(state, doc, nil)

	data := host.TextData{Text: "X", Type: mode.CharacterWise}
	assert.False(t, d.Accepts(data))

	require.NoError(t, state.DoString(`
		function rich_paste(caret, text, kind, start)
			if kind == "line" then return false end
			editor.insert(start, text)
			return start + #text
		end
	`))
	require.True(t, d.Accepts(data))

	end, ok, err := d.RichPaste(doc.PrimaryCaret(), data, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, host.ByteOffset(2), end)
	assert.Equal(t, "aXb", doc.Text())

	_, ok, err = d.RichPaste(doc.PrimaryCaret(), host.TextData{Text: "Y", Type: mode.LineWise}, 0)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "aXb", doc.Text())
}

func TestSystemClipboardUnsupported(t *testing.T) {
	_, err := host.SystemClipboard{}.Get()
	if err == nil {
		t.Skip("system clipboard available")
	}
	if errors.Is(err, host.ErrClipboardUnsupported) {
		assert.ErrorIs(t, host.SystemClipboard{}.Set("x"), host.ErrClipboardUnsupported)
	}
}

func TestLuaDelegateEval(t *testing.T) {
	doc := engine.New(engine.WithContent("abc"))
	state := lua.NewState()
	defer state.Close()
	d := host.NewLuaDelegate(state, doc, nil)

	tests := []struct {
		expr string
		want string
	}{
		{`"a" .. "b"`, "ab"},
		{`6 * 7`, "42"},
		{`nil`, ""},
		{`{"one", "two"}`, "one\ntwo\n"},
		{`{}`, ""},
		{`editor.text(0, 2)`, "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := d.Eval(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := d.Eval(`error("boom")`)
	assert.Error(t, err)
}
