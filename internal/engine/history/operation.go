package history

import "github.com/dshills/vimput/internal/engine/buffer"

// Operation records one applied edit with enough text to reverse it.
type Operation struct {
	Range   buffer.Range // range replaced, in pre-edit offsets
	OldText string
	NewText string
}

// NewOperation builds an operation from an applied edit result.
func NewOperation(res buffer.EditResult, newText string) Operation {
	return Operation{Range: res.OldRange, OldText: res.OldText, NewText: newText}
}

// Edit returns the edit that applies the operation.
func (op Operation) Edit() buffer.Edit {
	return buffer.Edit{Range: op.Range, NewText: op.NewText}
}

// Invert returns the operation that reverses op.
func (op Operation) Invert() Operation {
	return Operation{
		Range:   buffer.NewRange(op.Range.Start, op.Range.Start+buffer.ByteOffset(len(op.NewText))),
		OldText: op.NewText,
		NewText: op.OldText,
	}
}

// IsNoop returns true if the operation changes nothing.
func (op Operation) IsNoop() bool {
	return op.OldText == op.NewText
}
