package execctx

import "errors"

// Context validation errors.
var (
	// ErrMissingEngine indicates the put engine is required but not set.
	ErrMissingEngine = errors.New("execution context: put engine is required")

	// ErrMissingRegisters indicates the register store is required but not set.
	ErrMissingRegisters = errors.New("execution context: registers are required")

	// ErrMissingEvaluator indicates an expression needs an evaluator.
	ErrMissingEvaluator = errors.New("execution context: no expression evaluator")
)
