// Package execctx provides the execution context for action handlers.
package execctx

import (
	"github.com/dshills/vimput/internal/input/mode"
	"github.com/dshills/vimput/internal/logging"
	"github.com/dshills/vimput/internal/put"
	"github.com/dshills/vimput/internal/register"
)

// Evaluator evaluates an expression for the '=' register.
type Evaluator interface {
	Eval(expr string) (string, error)
}

// ExecutionContext provides context for action execution.
// It holds references to the subsystems handlers need.
type ExecutionContext struct {
	// Puts is the put engine bound to the current document.
	Puts *put.Engine

	// Registers holds register contents and the selected register.
	Registers *register.Store

	// Modes tracks the editor mode.
	Modes *mode.Manager

	// Selection is the active visual selection, nil outside visual mode.
	Selection *put.VisualSelection

	// Evaluator evaluates '=' register expressions. Optional.
	Evaluator Evaluator

	// Logger receives handler diagnostics.
	Logger *logging.Logger

	// Count is the repeat count (1 if not specified).
	Count int

	// Data holds handler-specific context data.
	Data map[string]interface{}
}

// New creates a new execution context.
func New() *ExecutionContext {
	return &ExecutionContext{
		Count:  1,
		Logger: logging.NullLogger,
		Data:   make(map[string]interface{}),
	}
}

// WithCount returns the context with repeat count set.
func (ctx *ExecutionContext) WithCount(count int) *ExecutionContext {
	if count > 0 {
		ctx.Count = count
	}
	return ctx
}

// WithSelection returns the context with a visual selection set.
func (ctx *ExecutionContext) WithSelection(sel *put.VisualSelection) *ExecutionContext {
	ctx.Selection = sel
	return ctx
}

// GetCount returns the repeat count, defaulting to 1.
func (ctx *ExecutionContext) GetCount() int {
	if ctx.Count <= 0 {
		return 1
	}
	return ctx.Count
}

// IsVisual reports whether the action runs against a visual selection.
func (ctx *ExecutionContext) IsVisual() bool {
	if ctx.Selection != nil {
		return true
	}
	return ctx.Modes != nil && ctx.Modes.IsVisual()
}

// Mode returns the current mode name.
func (ctx *ExecutionContext) Mode() string {
	if ctx.Modes == nil {
		return ""
	}
	return ctx.Modes.Current().String()
}

// SetData sets a context data value.
func (ctx *ExecutionContext) SetData(key string, value interface{}) {
	if ctx.Data == nil {
		ctx.Data = make(map[string]interface{})
	}
	ctx.Data[key] = value
}

// GetData retrieves a context data value.
func (ctx *ExecutionContext) GetData(key string) (interface{}, bool) {
	if ctx.Data == nil {
		return nil, false
	}
	v, ok := ctx.Data[key]
	return v, ok
}

// Validate checks that the context has what a put needs.
func (ctx *ExecutionContext) Validate() error {
	if ctx.Puts == nil {
		return ErrMissingEngine
	}
	if ctx.Registers == nil {
		return ErrMissingRegisters
	}
	return nil
}
