package host

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnsupported is returned when no system clipboard tool is
// available.
var ErrClipboardUnsupported = errors.New("system clipboard unsupported")

// SystemClipboard reads and writes the operating system clipboard.
type SystemClipboard struct{}

// Get returns the current clipboard text.
func (SystemClipboard) Get() (string, error) {
	if clipboard.Unsupported {
		return "", ErrClipboardUnsupported
	}
	return clipboard.ReadAll()
}

// Set replaces the clipboard text.
func (SystemClipboard) Set(content string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnsupported
	}
	return clipboard.WriteAll(content)
}
