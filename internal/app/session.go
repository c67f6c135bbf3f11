package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dshills/vimput/internal/dispatcher/handler"
	"github.com/dshills/vimput/internal/engine/buffer"
	"github.com/dshills/vimput/internal/engine/cursor"
	"github.com/dshills/vimput/internal/input/mode"
	"github.com/dshills/vimput/internal/input/vim"
	"github.com/dshills/vimput/internal/put"
	"github.com/dshills/vimput/internal/register"
)

// Session commands besides put keys and :put.
//
//	caret OFF [OFF...]                 place the carets, first is primary
//	visual char|line|block A B KEYS    put KEYS over the inclusive span A..B
//	reg NAME char|line|block TEXT      fill a register; TEXT may be Go-quoted
//	print                              write the document
//	registers                          list the registers
//	marks                              list the marks
//	undo                               undo the last put
//	stats                              put counts per action
//
// Any other line is parsed as put keys ("p", `"a3gP`, "<C-R>a").
const (
	cmdCaret     = "caret"
	cmdVisual    = "visual"
	cmdReg       = "reg"
	cmdPrint     = "print"
	cmdRegisters = "registers"
	cmdMarks     = "marks"
	cmdUndo      = "undo"
	cmdStats     = "stats"
)

// RunSession executes one command per line from r until EOF or ctx is
// done, writing output and error messages to w. A failing command is
// reported and the session continues.
func (a *Application) RunSession(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++
		out, err := a.Execute(scanner.Text())
		if out != "" {
			fmt.Fprint(w, out)
		}
		if err != nil {
			fmt.Fprintf(w, "%d: %v\n", lineNo, err)
			a.logger.Debug("session line %d: %v", lineNo, err)
		}
	}
	return scanner.Err()
}

// Execute runs one session command and returns what it prints.
func (a *Application) Execute(line string) (string, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", nil
	}
	if strings.HasPrefix(line, ":") {
		cmd, err := vim.ParseEx(line)
		if err != nil {
			return "", err
		}
		return "", a.dispatch(cmd, nil)
	}

	word, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch word {
	case cmdCaret:
		return "", a.placeCarets(rest)
	case cmdVisual:
		return "", a.visual(rest)
	case cmdReg:
		return "", a.setRegister(rest)
	case cmdPrint:
		return a.doc.Text(), nil
	case cmdRegisters:
		return a.registers.List(0), nil
	case cmdMarks:
		var sb strings.Builder
		for _, m := range a.PutEngine().Marks().All() {
			sb.WriteString(m.String())
			sb.WriteByte('\n')
		}
		return sb.String(), nil
	case cmdUndo:
		return "", a.doc.Undo()
	case cmdStats:
		var sb strings.Builder
		if m := a.dispatcher.Metrics(); m != nil {
			_, _ = m.WriteTo(&sb)
		}
		return sb.String(), nil
	}

	cmd, err := vim.ParseKeys(expandKeys(line), false)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownCommand, line)
	}
	return "", a.dispatch(cmd, nil)
}

// expandKeys turns <C-R> notation into the control character.
func expandKeys(keys string) string {
	for _, n := range []string{"<C-R>", "<C-r>", "<c-r>", "<c-R>"} {
		keys = strings.ReplaceAll(keys, n, string(vim.KeyCtrlR))
	}
	return keys
}

func (a *Application) dispatch(cmd *vim.Command, sel *put.VisualSelection) error {
	var res handler.Result
	if sel != nil {
		res = a.dispatcher.DispatchVisual(cmd.Action(), sel)
	} else {
		res = a.dispatcher.Dispatch(cmd.Action())
	}
	return resultError(res)
}

// resultError prefers the user-facing message of a failed result.
func resultError(res handler.Result) error {
	if !res.IsError() {
		return nil
	}
	if res.Message != "" {
		return fmt.Errorf("%s", res.Message)
	}
	return res.Error
}

func (a *Application) placeCarets(args string) error {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return fmt.Errorf("%w: caret needs an offset", ErrBadArgument)
	}
	offsets := make([]buffer.ByteOffset, len(fields))
	for i, f := range fields {
		off, err := a.offset(f)
		if err != nil {
			return err
		}
		offsets[i] = off
	}

	primary := a.doc.PrimaryCaret()
	for _, c := range a.doc.Carets() {
		if c.ID != primary.ID {
			a.doc.RemoveCaret(c.ID)
		}
	}
	a.doc.MoveCaret(primary.ID, offsets[0])
	for _, off := range offsets[1:] {
		a.doc.AddCaret(off)
	}
	return nil
}

func (a *Application) visual(args string) error {
	fields := strings.SplitN(args, " ", 4)
	if len(fields) != 4 {
		return fmt.Errorf("%w: visual TYPE START END KEYS", ErrBadArgument)
	}
	typ, err := mode.ParseSelectionType(fields[0])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadArgument, err)
	}
	start, err := a.offset(fields[1])
	if err != nil {
		return err
	}
	end, err := a.offset(fields[2])
	if err != nil {
		return err
	}
	cmd, err := vim.ParseKeys(expandKeys(strings.TrimSpace(fields[3])), true)
	if err != nil {
		return err
	}

	primary := a.doc.MoveCaret(a.doc.PrimaryCaret().ID, start)
	a.modes.EnterVisual(typ)
	sel := put.NewVisualSelection(primary.ID, cursor.NewSelection(start, end), typ)
	return a.dispatch(cmd, sel)
}

func (a *Application) setRegister(args string) error {
	fields := strings.SplitN(args, " ", 3)
	if len(fields) != 3 {
		return fmt.Errorf("%w: reg NAME TYPE TEXT", ErrBadArgument)
	}
	name := []rune(fields[0])
	if len(name) != 1 {
		return fmt.Errorf("%w: register name %q", ErrBadArgument, fields[0])
	}
	typ, err := mode.ParseSelectionType(fields[1])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadArgument, err)
	}
	text := fields[2]
	if strings.HasPrefix(text, `"`) {
		if text, err = strconv.Unquote(text); err != nil {
			return fmt.Errorf("%w: %v", ErrBadArgument, err)
		}
	}
	return a.registers.Set(name[0], register.Entry{Text: text, Type: typ})
}

func (a *Application) offset(s string) (buffer.ByteOffset, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 || n > int64(a.doc.Len()) {
		return 0, fmt.Errorf("%w: offset %q", ErrBadArgument, s)
	}
	return buffer.ByteOffset(n), nil
}
