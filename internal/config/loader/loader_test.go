package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

func TestTOMLLoaderLoad(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.toml", `
[editor]
tab_width = 2
expandtab = true

[put]
clipboard = ["unnamedplus", "ideaput"]
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/config.toml").Load()
	require.NoError(t, err)

	editor, ok := config["editor"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, int64(2), editor["tab_width"])
	assert.Equal(t, true, editor["expandtab"])

	put, ok := config["put"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"unnamedplus", "ideaput"}, put["clipboard"])
}

func TestTOMLLoaderMissingFile(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(NewMemFS(), "/missing.toml").Load()
	require.NoError(t, err)
	assert.Nil(t, config)
}

func TestTOMLLoaderParseError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "[editor]\ntab_width = = 2\n")

	_, err := NewTOMLLoaderWithFS(memfs, "/bad.toml").Load()

	var perr *ParseError
	require.True(t, errors.As(err, &perr), "got %v", err)
	assert.Equal(t, "/bad.toml", perr.Path)
	assert.Equal(t, 2, perr.Line)
	assert.Contains(t, perr.Error(), "line 2")
}

func TestTOMLLoaderFromReader(t *testing.T) {
	config, err := NewTOMLLoader("").LoadFromReader(strings.NewReader("[lua]\nscript = \"x.lua\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "x.lua", config["lua"].(map[string]any)["script"])
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"editor":  map[string]any{"tab_width": int64(4), "expandtab": false},
		"logging": map[string]any{"level": "warn"},
	}
	src := map[string]any{
		"editor": map[string]any{"expandtab": true},
		"put":    map[string]any{"clipboard": []any{"unnamed"}},
	}

	got := DeepMerge(dst, src)

	assert.Equal(t, map[string]any{
		"editor":  map[string]any{"tab_width": int64(4), "expandtab": true},
		"logging": map[string]any{"level": "warn"},
		"put":     map[string]any{"clipboard": []any{"unnamed"}},
	}, got)
	assert.Equal(t, map[string]any{"a": 1}, DeepMerge(nil, map[string]any{"a": 1}))
}

func TestEnvLoader(t *testing.T) {
	env := []string{
		"VIMPUT_EDITOR_TAB_WIDTH=8",
		"VIMPUT_EDITOR_EXPANDTAB=yes",
		"VIMPUT_PUT_CLIPBOARD=unnamed, ideaput",
		"VIMPUT_LOG_LEVEL=debug",
		"VIMPUT_LUA_SCRIPT=",
		"VIMPUT_BOGUS=1",
		"OTHER_EDITOR_TAB_WIDTH=3",
	}
	l := NewEnvLoader("VIMPUT_").WithEnviron(func() []string { return env })

	config, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"editor":  map[string]any{"tab_width": int64(8), "expandtab": true},
		"put":     map[string]any{"clipboard": []any{"unnamed", "ideaput"}},
		"logging": map[string]any{"level": "debug"},
		"lua":     map[string]any{"script": ""},
	}, config)
}

func TestEnvLoaderMapping(t *testing.T) {
	l := NewEnvLoader("VIMPUT_").WithEnviron(func() []string {
		return []string{"VIMPUT_REGFILE=/tmp/r.yaml"}
	})
	l.AddMapping("VIMPUT_REGFILE", "registers.file")

	config, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/r.yaml", config["registers"].(map[string]any)["file"])
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"true", true},
		{"OFF", false},
		{"42", int64(42)},
		{"a,b", []any{"a", "b"}},
		{"text", "text"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseValue(tt.in), "input %q", tt.in)
	}
}
