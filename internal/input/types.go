package input

// ActionSource indicates the origin of an action.
type ActionSource uint8

const (
	// SourceKeyboard indicates the action came from normal or visual mode keys.
	SourceKeyboard ActionSource = iota
	// SourceCommandLine indicates the action came from an ex command.
	SourceCommandLine
	// SourceInsert indicates the action came from insert mode (CTRL-R).
	SourceInsert
	// SourcePlugin indicates the action came from a Lua script.
	SourcePlugin
	// SourceAPI indicates the action came from an API call.
	SourceAPI
)

// String returns a string representation of the action source.
func (s ActionSource) String() string {
	switch s {
	case SourceKeyboard:
		return "keyboard"
	case SourceCommandLine:
		return "cmdline"
	case SourceInsert:
		return "insert"
	case SourcePlugin:
		return "plugin"
	case SourceAPI:
		return "api"
	default:
		return "unknown"
	}
}

// ActionArgs holds the arguments of an action.
type ActionArgs struct {
	// Register for put operations (a-z, 0-9, ", +, *, etc.). Zero means
	// the current register.
	Register rune

	// Line is the ex address for :put. Nil means the caret line.
	Line *int

	// Extra holds additional key-value pairs for extensibility.
	Extra map[string]interface{}
}

// Get retrieves a value from Extra with type assertion.
func (a ActionArgs) Get(key string) (interface{}, bool) {
	if a.Extra == nil {
		return nil, false
	}
	v, ok := a.Extra[key]
	return v, ok
}

// GetString retrieves a string value from Extra.
func (a ActionArgs) GetString(key string) string {
	if v, ok := a.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetBool retrieves a bool value from Extra.
func (a ActionArgs) GetBool(key string) bool {
	if v, ok := a.Get(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// Action represents a command to be executed by the dispatcher.
type Action struct {
	// Name is the command identifier (e.g., "put.after").
	Name string

	// Args contains command-specific arguments.
	Args ActionArgs

	// Source indicates where this action originated.
	Source ActionSource

	// Count is the repeat count (from Vim-style count prefix).
	Count int
}

// NewAction creates an action with the given name.
func NewAction(name string) Action {
	return Action{Name: name}
}

// WithCount returns a copy of the action with the specified count.
func (a Action) WithCount(count int) Action {
	a.Count = count
	return a
}

// WithRegister returns a copy of the action with the specified register.
func (a Action) WithRegister(register rune) Action {
	a.Args.Register = register
	return a
}

// WithLine returns a copy of the action addressed at line.
func (a Action) WithLine(line int) Action {
	a.Args.Line = &line
	return a
}

// WithSource returns a copy of the action with the specified source.
func (a Action) WithSource(source ActionSource) Action {
	a.Source = source
	return a
}
