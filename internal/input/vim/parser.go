package vim

import (
	"github.com/dshills/vimput/internal/input"
)

// ParseStatus indicates the result of parsing a key.
type ParseStatus uint8

const (
	// StatusPending indicates more input is needed.
	StatusPending ParseStatus = iota

	// StatusComplete indicates a complete command was parsed.
	StatusComplete

	// StatusInvalid indicates the sequence is invalid.
	StatusInvalid
)

// String returns a string representation of the status.
func (s ParseStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusComplete:
		return "complete"
	case StatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// ParseState represents the current state of the parser.
type ParseState uint8

const (
	// StateInitial is waiting for initial input.
	StateInitial ParseState = iota

	// StateCount is accumulating a count prefix.
	StateCount

	// StateRegister is waiting for a register name after ".
	StateRegister

	// StateGPrefix has received 'g', waiting for second key.
	StateGPrefix

	// StateBracketPrefix has received '[' or ']', waiting for 'p' or 'P'.
	StateBracketPrefix

	// StateInsertRegister has received CTRL-R, waiting for a register name.
	StateInsertRegister
)

// String returns a string representation of the state.
func (s ParseState) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StateCount:
		return "count"
	case StateRegister:
		return "register"
	case StateGPrefix:
		return "gPrefix"
	case StateBracketPrefix:
		return "bracketPrefix"
	case StateInsertRegister:
		return "insertRegister"
	default:
		return "unknown"
	}
}

// KeyCtrlR is the CTRL-R key.
const KeyCtrlR = '\x12'

// Command represents a parsed put command.
type Command struct {
	// Count is the repeat count (0 means 1).
	Count int

	// Register is the register name (0 means the current register).
	Register rune

	// Name is the action name to dispatch.
	Name string

	// Keys are the keys that named the command, e.g. "gp".
	Keys string

	// Line is the 1-based ex address; nil means the caret line.
	Line *int

	// LastLine is set for the "$" address.
	LastLine bool

	// Bang is set for :put!.
	Bang bool

	// Expr is the expression following :put =.
	Expr string

	// Source is where the command came from.
	Source input.ActionSource
}

// GetCount returns the effective count (1 if none specified).
func (c *Command) GetCount() int {
	if c.Count <= 0 {
		return 1
	}
	return c.Count
}

// Action converts the command into a dispatcher action.
func (c *Command) Action() input.Action {
	a := input.NewAction(c.Name).
		WithCount(c.Count).
		WithRegister(c.Register).
		WithSource(c.Source)
	if c.Line != nil {
		a = a.WithLine(*c.Line)
	}
	if c.Bang || c.LastLine || c.Expr != "" {
		a.Args.Extra = map[string]interface{}{
			"bang":     c.Bang,
			"lastLine": c.LastLine,
			"expr":     c.Expr,
		}
	}
	return a
}

// normalKeys maps put keys to their normal mode actions.
var normalKeys = map[string]string{
	"p":  "put.after",
	"P":  "put.before",
	"gp": "put.afterMoveCursor",
	"gP": "put.beforeMoveCursor",
	"]p": "put.afterNoIndent",
	"[p": "put.beforeNoIndent",
	"]P": "put.beforeNoIndent",
	"[P": "put.beforeNoIndent",
}

// visualKeys maps put keys to their visual mode actions.
var visualKeys = map[string]string{
	"p":  "put.visualAfter",
	"P":  "put.visualBefore",
	"gp": "put.visualAfterMoveCursor",
	"gP": "put.visualBeforeMoveCursor",
	"]p": "put.visualAfterNoIndent",
	"[p": "put.visualBeforeNoIndent",
	"]P": "put.visualBeforeNoIndent",
	"[P": "put.visualBeforeNoIndent",
}

// ActionForKeys returns the action bound to keys.
func ActionForKeys(keys string, visual bool) (string, bool) {
	table := normalKeys
	if visual {
		table = visualKeys
	}
	name, ok := table[keys]
	return name, ok
}

// ParseResult contains the result of parsing a key.
type ParseResult struct {
	// Status indicates the parse result.
	Status ParseStatus

	// Command is the parsed command (if Status == StatusComplete).
	Command *Command

	// PendingDisplay is a string showing pending keys (for status line).
	PendingDisplay string
}

// Parser parses put key sequences into commands.
type Parser struct {
	state  ParseState
	visual bool

	count1   CountState // count before the register
	count2   CountState // count after the register
	register rune
	prefix   rune

	pendingKeys []rune
}

// NewParser creates a new parser in normal mode.
func NewParser() *Parser {
	return &Parser{
		state:       StateInitial,
		pendingKeys: make([]rune, 0, 8),
	}
}

// SetVisual switches between the normal and visual mode key tables.
func (p *Parser) SetVisual(visual bool) {
	p.visual = visual
}

// Reset clears all parser state.
func (p *Parser) Reset() {
	p.state = StateInitial
	p.count1.Reset()
	p.count2.Reset()
	p.register = 0
	p.prefix = 0
	p.pendingKeys = p.pendingKeys[:0]
}

// State returns the current parser state.
func (p *Parser) State() ParseState {
	return p.state
}

// PendingKeys returns the pending key display string.
func (p *Parser) PendingKeys() string {
	return string(p.pendingKeys)
}

// Parse processes one key and returns the result.
func (p *Parser) Parse(r rune) ParseResult {
	p.pendingKeys = append(p.pendingKeys, r)

	switch p.state {
	case StateInitial, StateCount:
		return p.parseCommandKey(r)
	case StateRegister:
		return p.parseRegister(r)
	case StateGPrefix, StateBracketPrefix:
		return p.parseSecondKey(r)
	case StateInsertRegister:
		return p.parseInsertRegister(r)
	default:
		return p.invalid()
	}
}

func (p *Parser) pending(state ParseState) ParseResult {
	p.state = state
	return ParseResult{Status: StatusPending, PendingDisplay: p.PendingKeys()}
}

func (p *Parser) invalid() ParseResult {
	p.Reset()
	return ParseResult{Status: StatusInvalid}
}

func (p *Parser) counter() *CountState {
	if p.register != 0 {
		return &p.count2
	}
	return &p.count1
}

// parseCommandKey handles counts, the register prefix and put keys.
func (p *Parser) parseCommandKey(r rune) ParseResult {
	if p.state == StateCount || IsCountStart(r) {
		if p.counter().AccumulateDigit(r) {
			return p.pending(StateCount)
		}
	}

	switch r {
	case '"':
		if p.register != 0 {
			return p.invalid()
		}
		return p.pending(StateRegister)
	case 'g', '[', ']':
		p.prefix = r
		if r == 'g' {
			return p.pending(StateGPrefix)
		}
		return p.pending(StateBracketPrefix)
	case KeyCtrlR:
		if p.count1.Active || p.register != 0 {
			return p.invalid()
		}
		return p.pending(StateInsertRegister)
	case 'p', 'P':
		return p.complete(string(r))
	default:
		return p.invalid()
	}
}

func (p *Parser) parseRegister(r rune) ParseResult {
	if !isRegisterName(r) {
		return p.invalid()
	}
	p.register = r
	return p.pending(StateInitial)
}

func (p *Parser) parseSecondKey(r rune) ParseResult {
	if r != 'p' && r != 'P' {
		return p.invalid()
	}
	return p.complete(string([]rune{p.prefix, r}))
}

func (p *Parser) parseInsertRegister(r rune) ParseResult {
	if !isRegisterName(r) {
		return p.invalid()
	}
	cmd := &Command{
		Register: r,
		Name:     "put.insertRegister",
		Keys:     string([]rune{KeyCtrlR, r}),
		Source:   input.SourceInsert,
	}
	p.Reset()
	return ParseResult{Status: StatusComplete, Command: cmd}
}

func (p *Parser) complete(keys string) ParseResult {
	name, ok := ActionForKeys(keys, p.visual)
	if !ok {
		return p.invalid()
	}
	count := 0
	if p.count1.Active || p.count2.Active {
		count = CombineCounts(p.count1.Value, p.count2.Value)
	}
	cmd := &Command{
		Count:    count,
		Register: p.register,
		Name:     name,
		Keys:     keys,
		Source:   input.SourceKeyboard,
	}
	p.Reset()
	return ParseResult{Status: StatusComplete, Command: cmd}
}

// ParseKeys parses a complete key sequence such as `2"ap`.
func ParseKeys(keys string, visual bool) (*Command, error) {
	p := NewParser()
	p.SetVisual(visual)
	runes := []rune(keys)
	for i, r := range runes {
		result := p.Parse(r)
		switch result.Status {
		case StatusInvalid:
			return nil, &ParseError{Input: keys, Reason: "invalid key sequence"}
		case StatusComplete:
			if i != len(runes)-1 {
				return nil, &ParseError{Input: keys, Reason: "trailing keys"}
			}
			return result.Command, nil
		}
	}
	return nil, &ParseError{Input: keys, Reason: "incomplete key sequence"}
}

// isRegisterName reports whether r can follow a " or CTRL-R.
func isRegisterName(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	switch r {
	case '"', '-', '_', '.', '%', '#', ':', '/', '=', '+', '*':
		return true
	}
	return false
}
