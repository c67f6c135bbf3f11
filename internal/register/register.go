package register

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/dshills/vimput/internal/input/mode"
)

// Errors returned by register operations.
var (
	ErrInvalidRegister  = errors.New("invalid register")
	ErrReadOnlyRegister = errors.New("register is read-only")
)

// Well-known register names.
const (
	Unnamed    = '"'
	LastYank   = '0'
	SmallDel   = '-'
	BlackHole  = '_'
	Clipboard  = '+'
	Selection  = '*'
	Expression = '='
)

// Entry is the content of one register.
// Entries are values; the store replaces them whole.
type Entry struct {
	Name    rune
	Text    string
	Type    mode.SelectionType
	Payload any // host rich-paste content, not persisted
}

// IsEmpty returns true if the entry has no text.
func (e Entry) IsEmpty() bool { return e.Text == "" }

// ClipboardProvider abstracts system clipboard access.
type ClipboardProvider interface {
	// Get returns the current clipboard content.
	Get() (string, error)

	// Set sets the clipboard content.
	Set(content string) error
}

// Option configures a Store.
type Option func(*Store)

// WithClipboard backs the "+" and "*" registers with provider.
func WithClipboard(provider ClipboardProvider) Option {
	return func(s *Store) {
		s.clipboard = provider
	}
}

// WithDefaultRegister sets the register used when none is selected.
func WithDefaultRegister(name rune) Option {
	return func(s *Store) {
		if IsValidRegister(name) {
			s.defaultReg = name
		}
	}
}

// Store manages all registers and the currently selected one.
// All methods are thread-safe.
type Store struct {
	mu        sync.RWMutex
	registers map[rune]Entry

	// selected is the register chosen with "x for the next command, or 0.
	selected   rune
	defaultReg rune

	clipboard ClipboardProvider
}

// NewStore creates an empty register store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		registers:  make(map[rune]Entry),
		defaultReg: Unnamed,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the content of a register. Uppercase names read the
// lowercase register. ok is false for unset registers, the black hole
// register and invalid names.
func (s *Store) Get(name rune) (Entry, bool) {
	if !IsValidRegister(name) || name == BlackHole {
		return Entry{}, false
	}
	name = unicode.ToLower(name)

	if name == Clipboard || name == Selection {
		if text, ok := s.readClipboard(); ok {
			return Entry{Name: name, Text: text, Type: clipboardType(text)}, true
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.registers[name]
	return e, ok
}

func (s *Store) readClipboard() (string, bool) {
	s.mu.RLock()
	cb := s.clipboard
	s.mu.RUnlock()
	if cb == nil {
		return "", false
	}
	text, err := cb.Get()
	if err != nil {
		return "", false
	}
	return text, true
}

// clipboardType guesses the type of text coming from outside the editor.
func clipboardType(text string) mode.SelectionType {
	if strings.HasSuffix(text, "\n") {
		return mode.LineWise
	}
	return mode.CharacterWise
}

// Set stores e in a register. An uppercase name appends to the
// lowercase register: line-wise content is joined with a newline and
// the result is line-wise if either side was.
func (s *Store) Set(name rune, e Entry) error {
	if !IsValidRegister(name) {
		return fmt.Errorf("%w: %q", ErrInvalidRegister, name)
	}
	if IsReadOnly(name) {
		return fmt.Errorf("%w: %q", ErrReadOnlyRegister, name)
	}
	if name == BlackHole {
		return nil
	}

	if name == Clipboard || name == Selection {
		s.mu.RLock()
		cb := s.clipboard
		s.mu.RUnlock()
		if cb != nil {
			if err := cb.Set(e.Text); err != nil {
				return fmt.Errorf("clipboard: %w", err)
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if unicode.IsUpper(name) {
		lower := unicode.ToLower(name)
		if prev, ok := s.registers[lower]; ok && prev.Text != "" {
			e = appendEntry(prev, e)
		}
		name = lower
	}
	e.Name = name
	s.registers[name] = e
	return nil
}

func appendEntry(prev, next Entry) Entry {
	out := Entry{Payload: next.Payload}
	switch {
	case prev.Type == mode.LineWise:
		text := prev.Text
		if !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		out.Text = text + next.Text
		out.Type = mode.LineWise
	case next.Type == mode.LineWise:
		out.Text = prev.Text + "\n" + next.Text
		out.Type = mode.LineWise
	default:
		out.Text = prev.Text + next.Text
		out.Type = prev.Type
	}
	return out
}

// SetYank stores yanked text in register 0 and the unnamed register.
func (s *Store) SetYank(text string, t mode.SelectionType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registers[LastYank] = Entry{Name: LastYank, Text: text, Type: t}
	s.registers[Unnamed] = Entry{Name: Unnamed, Text: text, Type: t}
}

// SetDelete stores deleted text. Small deletes go to "-"; others shift
// registers 1-8 into 2-9 and land in "1". The unnamed register always
// receives the text, and so does the clipboard when it is the default
// register. The error is the clipboard's.
func (s *Store) SetDelete(text string, t mode.SelectionType, small bool) error {
	def := s.storeDelete(text, t, small)
	if def != Clipboard && def != Selection {
		return nil
	}
	return s.Set(def, Entry{Text: text, Type: t})
}

func (s *Store) storeDelete(text string, t mode.SelectionType, small bool) rune {
	s.mu.Lock()
	defer s.mu.Unlock()

	if small {
		s.registers[SmallDel] = Entry{Name: SmallDel, Text: text, Type: t}
	} else {
		for i := '9'; i > '1'; i-- {
			if prev, ok := s.registers[i-1]; ok {
				prev.Name = i
				s.registers[i] = prev
			} else {
				delete(s.registers, i)
			}
		}
		s.registers['1'] = Entry{Name: '1', Text: text, Type: t}
	}
	s.registers[Unnamed] = Entry{Name: Unnamed, Text: text, Type: t}
	return s.defaultReg
}

// SetSpecial writes a read-only register such as ".", ":" or "=".
func (s *Store) SetSpecial(name rune, text string) error {
	if !IsReadOnly(name) {
		return fmt.Errorf("%w: %q is not a special register", ErrInvalidRegister, name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registers[name] = Entry{Name: name, Text: text, Type: clipboardType(text)}
	return nil
}

// SelectRegister chooses the register for the next command ("x).
func (s *Store) SelectRegister(name rune) error {
	if !IsValidRegister(name) {
		return fmt.Errorf("%w: %q", ErrInvalidRegister, name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = name
	return nil
}

// ResetRegister clears the selected register.
func (s *Store) ResetRegister() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = 0
}

// Selected returns the explicitly selected register.
func (s *Store) Selected() (rune, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected, s.selected != 0
}

// ResolveCurrent returns the register a command should use: the
// selected one if any, the unnamed register when several carets are
// active, or the default register.
func (s *Store) ResolveCurrent(caretCount int) rune {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.selected != 0:
		return s.selected
	case caretCount > 1:
		return Unnamed
	default:
		return s.defaultReg
	}
}

// DefaultRegister returns the register used when none is selected.
func (s *Store) DefaultRegister() rune {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultReg
}

// SetDefaultRegister changes the default register.
func (s *Store) SetDefaultRegister(name rune) error {
	if !IsValidRegister(name) {
		return fmt.Errorf("%w: %q", ErrInvalidRegister, name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultReg = name
	return nil
}

// Names returns the names of all stored registers in display order.
func (s *Store) Names() []rune {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]rune, 0, len(s.registers))
	for name := range s.registers {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return displayRank(names[i]) < displayRank(names[j])
	})
	return names
}

// displayRank orders registers the way :registers lists them.
func displayRank(name rune) int {
	switch {
	case name == Unnamed:
		return 0
	case name >= '0' && name <= '9':
		return 1 + int(name-'0')
	case name >= 'a' && name <= 'z':
		return 20 + int(name-'a')
	default:
		return 100 + int(name)
	}
}

// IsValidRegister returns true if the register name is valid.
func IsValidRegister(name rune) bool {
	switch {
	case name == Unnamed:
		return true
	case name >= 'a' && name <= 'z':
		return true
	case name >= 'A' && name <= 'Z':
		return true
	case name >= '0' && name <= '9':
		return true
	case name == SmallDel, name == BlackHole, name == '.':
		return true
	case name == '%', name == '#', name == ':':
		return true
	case name == '/', name == Expression:
		return true
	case name == Clipboard, name == Selection:
		return true
	}
	return false
}

// IsReadOnly returns true for registers that only the editor writes.
func IsReadOnly(name rune) bool {
	switch name {
	case '.', '%', '#', ':', '/', Expression:
		return true
	}
	return false
}
