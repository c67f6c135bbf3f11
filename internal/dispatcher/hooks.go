package dispatcher

import (
	"github.com/dshills/vimput/internal/dispatcher/execctx"
	"github.com/dshills/vimput/internal/dispatcher/handler"
	"github.com/dshills/vimput/internal/input"
	"github.com/dshills/vimput/internal/logging"
)

// PreDispatchHook is called before an action is dispatched.
type PreDispatchHook interface {
	// PreDispatch may modify the action or context.
	// Returns false to cancel the dispatch.
	PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool
}

// PostDispatchHook is called after an action is dispatched.
type PostDispatchHook interface {
	// PostDispatch may inspect or modify the result.
	PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result)
}

// PreDispatchFunc is a function adapter for PreDispatchHook.
type PreDispatchFunc func(action *input.Action, ctx *execctx.ExecutionContext) bool

// PreDispatch implements PreDispatchHook.
func (f PreDispatchFunc) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	return f(action, ctx)
}

// PostDispatchFunc is a function adapter for PostDispatchHook.
type PostDispatchFunc func(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result)

// PostDispatch implements PostDispatchHook.
func (f PostDispatchFunc) PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	f(action, ctx, result)
}

// LoggingHook logs every dispatch at debug level and failures at warn level.
type LoggingHook struct {
	logger *logging.Logger
}

// NewLoggingHook creates a logging hook writing to logger.
func NewLoggingHook(logger *logging.Logger) *LoggingHook {
	if logger == nil {
		logger = logging.NullLogger
	}
	return &LoggingHook{logger: logger.WithComponent("dispatch")}
}

// PreDispatch logs the action being dispatched.
func (h *LoggingHook) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	h.logger.Debug("dispatching %s (count=%d, register=%q, mode=%s)",
		action.Name, ctx.Count, action.Args.Register, ctx.Mode())
	return true
}

// PostDispatch logs the dispatch result.
func (h *LoggingHook) PostDispatch(action *input.Action, _ *execctx.ExecutionContext, result *handler.Result) {
	if result.IsError() {
		h.logger.Warn("%s failed: %v", action.Name, result.Error)
		return
	}
	h.logger.Debug("%s -> %s", action.Name, result.Status)
}

// CountLimitHook enforces a maximum repeat count.
type CountLimitHook struct {
	MaxCount int
}

// NewCountLimitHook creates a new count limit hook.
func NewCountLimitHook(maxCount int) *CountLimitHook {
	return &CountLimitHook{MaxCount: maxCount}
}

// PreDispatch limits the repeat count.
func (h *CountLimitHook) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	if h.MaxCount > 0 && ctx.Count > h.MaxCount {
		ctx.Count = h.MaxCount
	}
	return true
}
