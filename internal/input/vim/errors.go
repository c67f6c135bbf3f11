package vim

import "fmt"

// ParseError describes a key sequence or ex command that could not be parsed.
type ParseError struct {
	Input  string
	Reason string
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("vim: cannot parse %q: %s", e.Input, e.Reason)
}
