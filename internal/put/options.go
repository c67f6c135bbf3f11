package put

import (
	"fmt"

	"github.com/dshills/vimput/internal/input/mode"
)

// Direction selects which side of the caret a put lands on.
type Direction uint8

const (
	// After puts after the caret character, or below the caret line.
	After Direction = iota
	// Before puts at the caret, or above the caret line.
	Before
)

// String returns "after" or "before".
func (d Direction) String() string {
	if d == Before {
		return "before"
	}
	return "after"
}

// Limits on a single put. A count above MaxCount, or one that would
// insert more than MaxPutBytes, is rejected before the document changes.
const (
	MaxCount    = 1_000_000
	MaxPutBytes = 1 << 30
)

func validateCount(n int) error {
	if n < 1 || n > MaxCount {
		return fmt.Errorf("%w: count %d", ErrInvalidOptions, n)
	}
	return nil
}

// PasteOptions describes where and how often to put text.
// It is implemented by AtCaret and ToLine only.
type PasteOptions interface {
	// Validate reports whether the options can be used.
	Validate() error

	settings() (adjustIndent bool, count int)
}

// AtCaret puts relative to the caret position.
type AtCaret struct {
	Direction    Direction
	AdjustIndent bool
	Count        int
}

// Validate implements PasteOptions.
func (o AtCaret) Validate() error {
	return validateCount(o.Count)
}

func (o AtCaret) settings() (bool, int) { return o.AdjustIndent, o.Count }

// ToLine puts below a given 0-based line, as :put does.
type ToLine struct {
	Line         int
	AdjustIndent bool
	Count        int
}

// Validate implements PasteOptions.
func (o ToLine) Validate() error {
	if err := validateCount(o.Count); err != nil {
		return err
	}
	if o.Line < 0 {
		return fmt.Errorf("%w: line %d", ErrInvalidOptions, o.Line)
	}
	return nil
}

func (o ToLine) settings() (bool, int) { return o.AdjustIndent, o.Count }

// ShouldIndent reports whether a put must re-indent what it inserts:
// only when indent adjustment is requested and either the content or the
// visual target is line-wise.
func ShouldIndent(opts PasteOptions, data *TextData, visual *VisualSelection) bool {
	if opts == nil {
		return false
	}
	adjust, _ := opts.settings()
	if !adjust {
		return false
	}
	if data != nil && data.Type == mode.LineWise {
		return true
	}
	return visual != nil && visual.Type == mode.LineWise
}

func direction(opts PasteOptions) Direction {
	if o, ok := opts.(AtCaret); ok {
		return o.Direction
	}
	return After
}

func targetLine(opts PasteOptions) (int, bool) {
	if o, ok := opts.(ToLine); ok {
		return o.Line, true
	}
	return 0, false
}

func count(opts PasteOptions) int {
	_, n := opts.settings()
	return n
}
