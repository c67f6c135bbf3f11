package register

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vimput/internal/input/mode"
)

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) Get() (string, error) { return f.text, f.err }
func (f *fakeClipboard) Set(s string) error   { f.text = s; return f.err }

func TestSetAndGet(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set('a', Entry{Text: "hello", Type: mode.CharacterWise}))

	e, ok := s.Get('a')
	require.True(t, ok)
	assert.Equal(t, 'a', e.Name)
	assert.Equal(t, "hello", e.Text)

	e, ok = s.Get('A')
	require.True(t, ok, "uppercase reads lowercase")
	assert.Equal(t, "hello", e.Text)

	_, ok = s.Get('b')
	assert.False(t, ok)
}

func TestSetInvalidAndReadOnly(t *testing.T) {
	s := NewStore()
	assert.ErrorIs(t, s.Set('!', Entry{Text: "x"}), ErrInvalidRegister)
	assert.ErrorIs(t, s.Set('.', Entry{Text: "x"}), ErrReadOnlyRegister)
	assert.ErrorIs(t, s.SelectRegister('!'), ErrInvalidRegister)

	require.NoError(t, s.SetSpecial('=', "42"))
	e, ok := s.Get('=')
	require.True(t, ok)
	assert.Equal(t, "42", e.Text)
}

func TestBlackHoleDiscards(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set('_', Entry{Text: "gone"}))
	_, ok := s.Get('_')
	assert.False(t, ok)
	assert.Empty(t, s.Names())
}

func TestUppercaseAppend(t *testing.T) {
	tests := []struct {
		name     string
		prev     Entry
		next     Entry
		wantText string
		wantType mode.SelectionType
	}{
		{"char to char", Entry{Text: "ab"}, Entry{Text: "cd"}, "abcd", mode.CharacterWise},
		{"line to line", Entry{Text: "ab\n", Type: mode.LineWise}, Entry{Text: "cd\n", Type: mode.LineWise}, "ab\ncd\n", mode.LineWise},
		{"char to line", Entry{Text: "ab\n", Type: mode.LineWise}, Entry{Text: "cd"}, "ab\ncd", mode.LineWise},
		{"line to char", Entry{Text: "ab"}, Entry{Text: "cd\n", Type: mode.LineWise}, "ab\ncd\n", mode.LineWise},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			require.NoError(t, s.Set('q', tt.prev))
			require.NoError(t, s.Set('Q', tt.next))
			e, _ := s.Get('q')
			assert.Equal(t, tt.wantText, e.Text)
			assert.Equal(t, tt.wantType, e.Type)
		})
	}
}

func TestSetYankAndDelete(t *testing.T) {
	s := NewStore()
	s.SetYank("yanked", mode.CharacterWise)

	e, _ := s.Get('0')
	assert.Equal(t, "yanked", e.Text)

	s.SetDelete("first\n", mode.LineWise, false)
	s.SetDelete("second\n", mode.LineWise, false)
	s.SetDelete("w", mode.CharacterWise, true)

	e, _ = s.Get('1')
	assert.Equal(t, "second\n", e.Text)
	e, _ = s.Get('2')
	assert.Equal(t, "first\n", e.Text)
	assert.Equal(t, '2', e.Name)
	e, _ = s.Get('-')
	assert.Equal(t, "w", e.Text)
	e, _ = s.Get('"')
	assert.Equal(t, "w", e.Text)
	e, _ = s.Get('0')
	assert.Equal(t, "yanked", e.Text, "deletes leave the yank register alone")
}

func TestDeleteRotationDropsNinth(t *testing.T) {
	s := NewStore()
	for i := 1; i <= 10; i++ {
		s.SetDelete(strings.Repeat("x", i), mode.CharacterWise, false)
	}
	e, _ := s.Get('9')
	assert.Equal(t, "xx", e.Text)
	e, _ = s.Get('1')
	assert.Equal(t, strings.Repeat("x", 10), e.Text)
}

func TestResolveCurrent(t *testing.T) {
	s := NewStore(WithDefaultRegister('+'))

	assert.Equal(t, '+', s.ResolveCurrent(1))
	assert.Equal(t, '"', s.ResolveCurrent(3), "multicaret uses the unnamed register")

	require.NoError(t, s.SelectRegister('k'))
	assert.Equal(t, 'k', s.ResolveCurrent(3))

	s.ResetRegister()
	_, ok := s.Selected()
	assert.False(t, ok)
	assert.Equal(t, '+', s.ResolveCurrent(1))
}

func TestClipboardRegisters(t *testing.T) {
	cb := &fakeClipboard{text: "from os\n"}
	s := NewStore(WithClipboard(cb))

	e, ok := s.Get('+')
	require.True(t, ok)
	assert.Equal(t, "from os\n", e.Text)
	assert.Equal(t, mode.LineWise, e.Type)

	require.NoError(t, s.Set('*', Entry{Text: "to os"}))
	assert.Equal(t, "to os", cb.text)

	cb.err = errors.New("no display")
	assert.Error(t, s.Set('+', Entry{Text: "x"}))
	e, ok = s.Get('*')
	require.True(t, ok, "falls back to the stored copy")
	assert.Equal(t, "to os", e.Text)
}

func TestDeleteReachesDefaultClipboard(t *testing.T) {
	cb := &fakeClipboard{}
	s := NewStore(WithClipboard(cb), WithDefaultRegister(Clipboard))

	require.NoError(t, s.SetDelete("world", mode.CharacterWise, true))
	assert.Equal(t, "world", cb.text)
	e, ok := s.Get(SmallDel)
	require.True(t, ok)
	assert.Equal(t, "world", e.Text)

	plain := &fakeClipboard{text: "untouched"}
	s = NewStore(WithClipboard(plain))
	require.NoError(t, s.SetDelete("gone\n", mode.LineWise, false))
	assert.Equal(t, "untouched", plain.text)

	failing := &fakeClipboard{err: errors.New("no display")}
	s = NewStore(WithClipboard(failing), WithDefaultRegister(Selection))
	assert.Error(t, s.SetDelete("x", mode.CharacterWise, true))
	e, _ = s.Get(Unnamed)
	assert.Equal(t, "x", e.Text, "registers are written before the clipboard")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set('a', Entry{Text: "alpha\n", Type: mode.LineWise}))
	require.NoError(t, s.Set('b', Entry{Text: "x\ny", Type: mode.BlockWise}))
	s.SetDelete("gone", mode.CharacterWise, false)
	require.NoError(t, s.SetSpecial(':', "wq"))

	path := filepath.Join(t.TempDir(), "nested", "registers.yaml")
	require.NoError(t, s.SaveFile(path))

	loaded := NewStore()
	require.NoError(t, loaded.LoadFile(path))

	e, ok := loaded.Get('a')
	require.True(t, ok)
	assert.Equal(t, Entry{Name: 'a', Text: "alpha\n", Type: mode.LineWise}, e)
	e, _ = loaded.Get('b')
	assert.Equal(t, mode.BlockWise, e.Type)
	e, _ = loaded.Get('1')
	assert.Equal(t, "gone", e.Text)
	_, ok = loaded.Get(':')
	assert.False(t, ok, "special registers are not persisted")
}

func TestLoadMissingFileAndEmptyInput(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.LoadFile(filepath.Join(t.TempDir(), "none.yaml")))
	require.NoError(t, s.Load(&bytes.Buffer{}))
}

func TestLoadRejectsBadNames(t *testing.T) {
	s := NewStore()
	err := s.Load(strings.NewReader("version: 1\nregisters:\n  - name: '%'\n    type: char\n    text: x\n"))
	assert.ErrorIs(t, err, ErrInvalidRegister)
}

func TestList(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set('a', Entry{Text: "one\ntwo\n", Type: mode.LineWise}))
	s.SetYank("日本語のテキスト", mode.CharacterWise)

	out := s.List(20)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Type Name Content", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "  c  \"\"   "), lines[1])
	assert.True(t, strings.HasSuffix(lines[1], ">"), "wide text is truncated: %q", lines[1])
	assert.Contains(t, lines[3], "one^Jtwo^J")
}
