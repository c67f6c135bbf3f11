package vim

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/dshills/vimput/internal/input"
)

// ExActionName is the action produced by :put.
const ExActionName = "put.lines"

// ParseEx parses a :put command line. The leading ':' is optional.
//
// The address is a line number (1-based, 0 meaning above the first line),
// "." for the caret line or "$" for the last line. With no address the
// caret line is used. A register of '=' takes the rest of the line as an
// expression.
func ParseEx(line string) (*Command, error) {
	s := strings.TrimSpace(line)
	s = strings.TrimPrefix(s, ":")
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	cmd := &Command{
		Name:   ExActionName,
		Source: input.SourceCommandLine,
	}

	rest, err := parseAddress(s, cmd)
	if err != nil {
		return nil, &ParseError{Input: line, Reason: err.Error()}
	}
	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)

	name, rest := splitCommandName(rest)
	if !isPutName(name) {
		return nil, &ParseError{Input: line, Reason: "not a put command"}
	}

	if strings.HasPrefix(rest, "!") {
		cmd.Bang = true
		rest = rest[1:]
	}

	arg := strings.TrimSpace(rest)
	if arg == "" {
		return cmd, nil
	}

	r := []rune(arg)
	if r[0] == '=' {
		cmd.Register = '='
		cmd.Expr = strings.TrimSpace(string(r[1:]))
		return cmd, nil
	}
	if len(r) != 1 || !isRegisterName(r[0]) {
		return nil, &ParseError{Input: line, Reason: "invalid register " + strconv.Quote(arg)}
	}
	cmd.Register = r[0]
	return cmd, nil
}

// parseAddress consumes a leading address and returns the remainder.
func parseAddress(s string, cmd *Command) (string, error) {
	if s == "" {
		return s, nil
	}
	switch s[0] {
	case '.':
		return s[1:], nil
	case '$':
		cmd.LastLine = true
		return s[1:], nil
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return s, nil
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return "", err
	}
	cmd.Line = &n
	return s[end:], nil
}

// splitCommandName splits the alphabetic command name from its arguments.
func splitCommandName(s string) (string, string) {
	end := 0
	for end < len(s) && ((s[end] >= 'a' && s[end] <= 'z') || (s[end] >= 'A' && s[end] <= 'Z')) {
		end++
	}
	return s[:end], s[end:]
}

// isPutName accepts the abbreviations "pu" and "put".
func isPutName(name string) bool {
	return name == "pu" || name == "put"
}
