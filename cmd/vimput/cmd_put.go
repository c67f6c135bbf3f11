package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/vimput/internal/input/mode"
)

type putFlags struct {
	register   string
	text       string
	textType   string
	before     bool
	after      bool
	indent     bool
	count      int
	carets     []int
	line       int
	selection  string
	selectType string
	write      bool
}

// newPutCmd creates the put subcommand.
func newPutCmd() *cobra.Command {
	f := &putFlags{}
	cmd := &cobra.Command{
		Use:   "put FILE",
		Short: "Put a register into a file",
		Long: `Put a register into FILE and print the result, or write it back with -w.

Without --select the put happens at each --caret (p, P, gp, gP, ]p or [p).
With --line it behaves like :[line]put. With --select A:B the inclusive
byte span A..B is replaced as in visual mode.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			lines, err := f.script(cmd)
			if err != nil {
				return err
			}
			a, err := openApp(args[0], cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			for _, line := range lines {
				if _, err := a.Execute(line); err != nil {
					return err
				}
			}
			return emit(a, args[0], f.write)
		},
	}

	cmd.Flags().StringVarP(&f.register, "register", "r", "", "register to put (default from the clipboard option)")
	cmd.Flags().StringVar(&f.text, "text", "", "store this text in the register first")
	cmd.Flags().StringVar(&f.textType, "type", "char", "type of --text: char, line or block")
	cmd.Flags().BoolVarP(&f.before, "before", "P", false, "put before the caret (P)")
	cmd.Flags().BoolVar(&f.after, "after-text", false, "leave the caret after the text (gp, gP)")
	cmd.Flags().BoolVar(&f.indent, "indent", false, "adjust indent to the current line (]p, [p)")
	cmd.Flags().IntVarP(&f.count, "count", "n", 1, "repeat the text")
	cmd.Flags().IntSliceVar(&f.carets, "caret", []int{0}, "caret byte offsets, first is primary")
	cmd.Flags().IntVar(&f.line, "line", -1, "put below this 1-based line, 0 for above the first (:put)")
	cmd.Flags().StringVar(&f.selection, "select", "", "replace the inclusive byte span A:B")
	cmd.Flags().StringVar(&f.selectType, "select-type", "char", "selection type: char, line or block")
	cmd.Flags().BoolVarP(&f.write, "write", "w", false, "write the result back to FILE")
	return cmd
}

// script turns the flags into session commands.
func (f *putFlags) script(cmd *cobra.Command) ([]string, error) {
	var lines []string
	name := f.register
	if name != "" && len([]rune(name)) != 1 {
		return nil, fmt.Errorf("invalid register %q", name)
	}
	if cmd.Flags().Changed("text") {
		if _, err := mode.ParseSelectionType(f.textType); err != nil {
			return nil, err
		}
		if name == "" {
			name = `"`
		}
		lines = append(lines, fmt.Sprintf("reg %s %s %s", name, f.textType, strconv.Quote(f.text)))
	}
	if f.count < 1 {
		return nil, fmt.Errorf("count must be positive, got %d", f.count)
	}

	if cmd.Flags().Changed("line") {
		if f.line < 0 {
			return nil, fmt.Errorf("line must not be negative, got %d", f.line)
		}
		ex := fmt.Sprintf(":%dput", f.line)
		if f.before {
			ex += "!"
		}
		if name != "" {
			ex += " " + name
		}
		return append(lines, ex), nil
	}

	keys := f.keys(name)
	if f.selection != "" {
		start, end, ok := strings.Cut(f.selection, ":")
		if !ok {
			return nil, fmt.Errorf("--select wants A:B, got %q", f.selection)
		}
		return append(lines, fmt.Sprintf("visual %s %s %s %s", f.selectType, start, end, keys)), nil
	}

	carets := make([]string, len(f.carets))
	for i, c := range f.carets {
		carets[i] = strconv.Itoa(c)
	}
	lines = append(lines, "caret "+strings.Join(carets, " "), keys)
	return lines, nil
}

// keys builds the normal mode put command, e.g. `"a3gP`.
func (f *putFlags) keys(name string) string {
	var sb strings.Builder
	if name != "" {
		sb.WriteByte('"')
		sb.WriteString(name)
	}
	if f.count > 1 {
		sb.WriteString(strconv.Itoa(f.count))
	}
	switch {
	case f.indent && f.before:
		sb.WriteString("[p")
	case f.indent:
		sb.WriteString("]p")
	default:
		if f.after {
			sb.WriteByte('g')
		}
		if f.before {
			sb.WriteByte('P')
		} else {
			sb.WriteByte('p')
		}
	}
	return sb.String()
}
