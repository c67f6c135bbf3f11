package host

import (
	"fmt"
	"strings"
	"sync"

	glua "github.com/yuin/gopher-lua"

	"github.com/dshills/vimput/internal/engine/cursor"
	"github.com/dshills/vimput/internal/plugin/lua"
)

// Lua entry points looked up by LuaDelegate.
const (
	LuaAutoIndentFunc = "auto_indent"
	LuaRichPasteFunc  = "rich_paste"
)

// LuaDelegate implements Indenter and RichPaster with a Lua script.
//
// The script sees a global "editor" table bound to the document:
//
//	editor.len()               editor.text(start, stop)
//	editor.line_count()        editor.line_of(offset)
//	editor.line_start(line)    editor.line_end(line)
//	editor.insert(off, text)   editor.delete(start, stop)
//
// and may define:
//
//	function auto_indent(caret, start, stop) ... return new_stop end
//	function rich_paste(caret, text, kind, start) ... return stop end
//
// rich_paste declines by returning nil or false. Offsets are 0-based
// byte offsets. Eval serves the '=' register.
type LuaDelegate struct {
	state  *lua.State
	editor Editor

	mu       sync.RWMutex
	fallback Indenter
}

// NewLuaDelegate binds state to editor. Indent requests are forwarded to
// fallback when the script has no auto_indent function.
func NewLuaDelegate(state *lua.State, editor Editor, fallback Indenter) *LuaDelegate {
	if fallback == nil {
		fallback = NopIndenter{}
	}
	d := &LuaDelegate{state: state, editor: editor, fallback: fallback}
	state.RegisterModule("editor", d.editorAPI())
	return d
}

// SetFallback replaces the indenter used when the script has no
// auto_indent function.
func (d *LuaDelegate) SetFallback(fallback Indenter) {
	if fallback == nil {
		fallback = NopIndenter{}
	}
	d.mu.Lock()
	d.fallback = fallback
	d.mu.Unlock()
}

func (d *LuaDelegate) fallbackIndenter() Indenter {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.fallback
}

// AutoIndent implements Indenter.
func (d *LuaDelegate) AutoIndent(caret cursor.Caret, start, end ByteOffset) (ByteOffset, error) {
	if !d.state.HasFunction(LuaAutoIndentFunc) {
		return d.fallbackIndenter().AutoIndent(caret, start, end)
	}
	ret, err := d.state.Call(LuaAutoIndentFunc,
		glua.LNumber(caret.Offset), glua.LNumber(start), glua.LNumber(end))
	if err != nil {
		return end, fmt.Errorf("lua %s: %w", LuaAutoIndentFunc, err)
	}
	if n, ok := firstNumber(ret); ok {
		return n, nil
	}
	return end, nil
}

// Accepts implements RichPaster.
func (d *LuaDelegate) Accepts(TextData) bool {
	return d.state.HasFunction(LuaRichPasteFunc)
}

// RichPaste implements RichPaster.
func (d *LuaDelegate) RichPaste(caret cursor.Caret, data TextData, start ByteOffset) (ByteOffset, bool, error) {
	ret, err := d.state.Call(LuaRichPasteFunc,
		glua.LNumber(caret.Offset), glua.LString(data.Text),
		glua.LString(data.Type.String()), glua.LNumber(start))
	if err != nil {
		return start, false, fmt.Errorf("lua %s: %w", LuaRichPasteFunc, err)
	}
	n, ok := firstNumber(ret)
	return n, ok, nil
}

// Eval evaluates a Lua expression for the '=' register. A table is read
// as a list of lines; nil evaluates to the empty string.
func (d *LuaDelegate) Eval(expr string) (string, error) {
	ret, err := d.state.Eval(expr)
	if err != nil {
		return "", fmt.Errorf("lua eval: %w", err)
	}
	if len(ret) == 0 {
		return "", nil
	}
	switch v := ret[0].(type) {
	case *glua.LNilType:
		return "", nil
	case *glua.LTable:
		var lines []string
		v.ForEach(func(_, item glua.LValue) {
			lines = append(lines, item.String())
		})
		if len(lines) == 0 {
			return "", nil
		}
		return strings.Join(lines, "\n") + "\n", nil
	default:
		return v.String(), nil
	}
}

func firstNumber(ret []glua.LValue) (ByteOffset, bool) {
	if len(ret) == 0 {
		return 0, false
	}
	n, ok := ret[0].(glua.LNumber)
	return ByteOffset(n), ok
}

func (d *LuaDelegate) editorAPI() map[string]glua.LGFunction {
	ed := d.editor
	offset := func(L *glua.LState, n int) ByteOffset { return ByteOffset(L.CheckInt64(n)) }
	line := func(L *glua.LState, n int) uint32 {
		v := L.CheckInt(n)
		if v < 0 {
			L.ArgError(n, "negative line")
		}
		return uint32(v)
	}

	return map[string]glua.LGFunction{
		"len": func(L *glua.LState) int {
			L.Push(glua.LNumber(ed.Len()))
			return 1
		},
		"text": func(L *glua.LState) int {
			L.Push(glua.LString(ed.TextRange(offset(L, 1), offset(L, 2))))
			return 1
		},
		"line_count": func(L *glua.LState) int {
			L.Push(glua.LNumber(ed.LineCount()))
			return 1
		},
		"line_of": func(L *glua.LState) int {
			L.Push(glua.LNumber(ed.OffsetToPoint(offset(L, 1)).Line))
			return 1
		},
		"line_start": func(L *glua.LState) int {
			L.Push(glua.LNumber(ed.LineStartOffset(line(L, 1))))
			return 1
		},
		"line_end": func(L *glua.LState) int {
			L.Push(glua.LNumber(ed.LineEndOffset(line(L, 1), false)))
			return 1
		},
		"insert": func(L *glua.LState) int {
			if err := ed.Insert(offset(L, 1), L.CheckString(2)); err != nil {
				L.RaiseError("insert: %v", err)
			}
			return 0
		},
		"delete": func(L *glua.LState) int {
			if err := ed.Delete(offset(L, 1), offset(L, 2)); err != nil {
				L.RaiseError("delete: %v", err)
			}
			return 0
		},
	}
}
