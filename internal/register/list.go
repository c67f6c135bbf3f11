package register

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/vimput/internal/input/mode"
)

// listPrefixWidth is the width of the "  c  \"x   " column block.
const listPrefixWidth = 10

// List renders the stored registers like :registers, one per line,
// with content truncated to fit width display columns. Control
// characters are shown in caret notation.
func (s *Store) List(width int) string {
	var sb strings.Builder
	sb.WriteString("Type Name Content\n")
	for _, name := range s.Names() {
		e, ok := s.Get(name)
		if !ok || e.IsEmpty() {
			continue
		}
		content := caretNotation(e.Text)
		if avail := width - listPrefixWidth; width > 0 && runewidth.StringWidth(content) > avail {
			if avail < 1 {
				avail = 1
			}
			content = runewidth.Truncate(content, avail, ">")
		}
		fmt.Fprintf(&sb, "  %c  \"%c   %s\n", typeLetter(e.Type), name, content)
	}
	return sb.String()
}

func typeLetter(t mode.SelectionType) rune {
	switch t {
	case mode.LineWise:
		return 'l'
	case mode.BlockWise:
		return 'b'
	default:
		return 'c'
	}
}

// caretNotation renders control characters as ^X.
func caretNotation(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r < 0x20:
			sb.WriteByte('^')
			sb.WriteRune(r + '@')
		case r == 0x7f:
			sb.WriteString("^?")
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
