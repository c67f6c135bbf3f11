package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func putScript(t *testing.T, args ...string) ([]string, error) {
	t.Helper()
	cmd := newPutCmd()
	require.NoError(t, cmd.ParseFlags(args))
	f := &putFlags{}
	f.register, _ = cmd.Flags().GetString("register")
	f.text, _ = cmd.Flags().GetString("text")
	f.textType, _ = cmd.Flags().GetString("type")
	f.before, _ = cmd.Flags().GetBool("before")
	f.after, _ = cmd.Flags().GetBool("after-text")
	f.indent, _ = cmd.Flags().GetBool("indent")
	f.count, _ = cmd.Flags().GetInt("count")
	f.carets, _ = cmd.Flags().GetIntSlice("caret")
	f.line, _ = cmd.Flags().GetInt("line")
	f.selection, _ = cmd.Flags().GetString("select")
	f.selectType, _ = cmd.Flags().GetString("select-type")
	return f.script(cmd)
}

func TestPutScript(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"default", nil, []string{"caret 0", "p"}},
		{"text", []string{"--text", "a\tb", "--type", "line"}, []string{`reg " line "a\tb"`, "caret 0", `""p`}},
		{"register count", []string{"-r", "a", "-n", "3", "-P", "--after-text"}, []string{"caret 0", `"a3gP`}},
		{"indent", []string{"-r", "a", "--indent", "-P"}, []string{"caret 0", `"a[p`}},
		{"carets", []string{"--caret", "4,9"}, []string{"caret 4 9", "p"}},
		{"line", []string{"-r", "b", "--line", "0", "-P"}, []string{":0put! b"}},
		{"select", []string{"-r", "c", "--select", "2:5", "--select-type", "block"}, []string{`visual block 2 5 "cp`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := putScript(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPutScriptRejects(t *testing.T) {
	for _, args := range [][]string{
		{"-r", "ab"},
		{"--text", "x", "--type", "diagonal"},
		{"-n", "0"},
		{"--line", "-2"},
		{"--select", "25"},
	} {
		_, err := putScript(t, args...)
		assert.Error(t, err, "%v", args)
	}
}
