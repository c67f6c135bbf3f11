package dispatcher

import (
	"runtime"
	"sync"
	"time"

	"github.com/dshills/vimput/internal/dispatcher/execctx"
	"github.com/dshills/vimput/internal/dispatcher/handler"
	"github.com/dshills/vimput/internal/input"
	"github.com/dshills/vimput/internal/input/mode"
	"github.com/dshills/vimput/internal/logging"
	"github.com/dshills/vimput/internal/put"
	"github.com/dshills/vimput/internal/register"
)

// Dispatcher routes actions to handlers and coordinates execution.
type Dispatcher struct {
	mu sync.RWMutex

	registry *Registry
	router   *Router

	// Editor subsystems
	puts      *put.Engine
	registers *register.Store
	modes     *mode.Manager
	evaluator execctx.Evaluator
	logger    *logging.Logger

	config  Config
	metrics *Metrics

	preHooks  []PreDispatchHook
	postHooks []PostDispatchHook
}

// New creates a new dispatcher with the given configuration.
func New(config Config) *Dispatcher {
	d := &Dispatcher{
		registry: NewRegistry(),
		router:   NewRouter(),
		config:   config,
		logger:   logging.NullLogger,
	}

	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}
	if config.MaxRepeatCount > 0 {
		d.preHooks = append(d.preHooks, NewCountLimitHook(config.MaxRepeatCount))
	}

	return d
}

// NewWithDefaults creates a new dispatcher with default configuration.
func NewWithDefaults() *Dispatcher {
	return New(DefaultConfig())
}

// SetPutEngine sets the put engine handlers act on.
func (d *Dispatcher) SetPutEngine(e *put.Engine) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.puts = e
}

// SetRegisters sets the register store.
func (d *Dispatcher) SetRegisters(s *register.Store) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.registers = s
}

// SetModeManager sets the mode manager.
func (d *Dispatcher) SetModeManager(m *mode.Manager) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.modes = m
}

// SetEvaluator sets the expression evaluator for the '=' register.
func (d *Dispatcher) SetEvaluator(ev execctx.Evaluator) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.evaluator = ev
}

// SetLogger sets the logger passed to handlers.
func (d *Dispatcher) SetLogger(l *logging.Logger) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if l == nil {
		l = logging.NullLogger
	}
	d.logger = l.WithComponent("dispatcher")
}

// PutEngine returns the put engine.
func (d *Dispatcher) PutEngine() *put.Engine {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.puts
}

// Registers returns the register store.
func (d *Dispatcher) Registers() *register.Store {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.registers
}

// ModeManager returns the mode manager.
func (d *Dispatcher) ModeManager() *mode.Manager {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.modes
}

// Dispatch executes an action outside visual mode.
func (d *Dispatcher) Dispatch(action input.Action) handler.Result {
	return d.dispatchInternal(action, nil)
}

// DispatchVisual executes an action against a visual selection.
func (d *Dispatcher) DispatchVisual(action input.Action, sel *put.VisualSelection) handler.Result {
	return d.dispatchInternal(action, sel)
}

// dispatchInternal is the core dispatch logic.
func (d *Dispatcher) dispatchInternal(action input.Action, sel *put.VisualSelection) handler.Result {
	startTime := time.Now()

	ctx := d.buildContext(sel)
	if action.Count > 0 {
		ctx.Count = action.Count
	}

	if !d.runPreHooks(&action, ctx) {
		return handler.Cancelled("cancelled by hook")
	}

	h := d.router.Route(action.Name)
	if h == nil {
		h = d.registry.Get(action.Name)
	}
	if h == nil {
		return handler.Errorf("%w: %s", ErrNoHandler, action.Name)
	}

	var result handler.Result
	if d.config.RecoverFromPanic {
		result = d.executeWithRecovery(h, action, ctx)
	} else {
		result = h.Handle(action, ctx)
	}

	d.processResult(result, ctx)
	d.runPostHooks(&action, ctx, &result)

	if d.metrics != nil {
		d.metrics.Record(action, time.Since(startTime), result)
	}

	return result
}

// executeWithRecovery executes a handler with panic recovery.
func (d *Dispatcher) executeWithRecovery(h handler.Handler, action input.Action, ctx *execctx.ExecutionContext) (result handler.Result) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)

			ctx.Logger.Error("handler panic for %s: %v\n%s", action.Name, r, string(stack[:n]))
			result = handler.Errorf("%w for %s: %v", ErrPanic, action.Name, r)

			if d.metrics != nil {
				d.metrics.RecordPanic(action)
			}
		}
	}()

	return h.Handle(action, ctx)
}

// buildContext builds an execution context from current state.
func (d *Dispatcher) buildContext(sel *put.VisualSelection) *execctx.ExecutionContext {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx := execctx.New()
	ctx.Puts = d.puts
	ctx.Registers = d.registers
	ctx.Modes = d.modes
	ctx.Evaluator = d.evaluator
	ctx.Logger = d.logger
	ctx.Selection = sel
	return ctx
}

// processResult applies the mode change a handler asked for.
func (d *Dispatcher) processResult(result handler.Result, ctx *execctx.ExecutionContext) {
	if result.ModeChange == nil || ctx.Modes == nil {
		return
	}
	if err := ctx.Modes.Switch(*result.ModeChange); err != nil {
		ctx.Logger.Warn("mode change to %s: %v", *result.ModeChange, err)
	}
}

// RegisterHandler registers a handler for an exact action name.
func (d *Dispatcher) RegisterHandler(actionName string, h handler.Handler) {
	d.registry.Register(actionName, h)
}

// RegisterHandlerFunc registers a handler function for an action name.
func (d *Dispatcher) RegisterHandlerFunc(actionName string, fn handler.Func) {
	d.registry.Register(actionName, handler.FromFunc(fn, 0))
}

// RegisterNamespace registers a namespace handler.
func (d *Dispatcher) RegisterNamespace(namespace string, h handler.NamespaceHandler) {
	d.router.RegisterNamespace(namespace, h)
}

// UnregisterHandler removes a handler for an action name.
func (d *Dispatcher) UnregisterHandler(actionName string) {
	d.registry.Unregister(actionName)
}

// CanDispatch reports whether some handler accepts actionName.
func (d *Dispatcher) CanDispatch(actionName string) bool {
	return d.router.CanRoute(actionName) || d.registry.Has(actionName)
}

// RegisterPreHook registers a pre-dispatch hook.
func (d *Dispatcher) RegisterPreHook(hook PreDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.preHooks = append(d.preHooks, hook)
}

// RegisterPostHook registers a post-dispatch hook.
func (d *Dispatcher) RegisterPostHook(hook PostDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.postHooks = append(d.postHooks, hook)
}

// runPreHooks runs all pre-dispatch hooks.
// Returns false if any hook cancels the action.
func (d *Dispatcher) runPreHooks(action *input.Action, ctx *execctx.ExecutionContext) bool {
	d.mu.RLock()
	hooks := make([]PreDispatchHook, len(d.preHooks))
	copy(hooks, d.preHooks)
	d.mu.RUnlock()

	for _, h := range hooks {
		if !h.PreDispatch(action, ctx) {
			return false
		}
	}
	return true
}

// runPostHooks runs all post-dispatch hooks.
func (d *Dispatcher) runPostHooks(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	d.mu.RLock()
	hooks := make([]PostDispatchHook, len(d.postHooks))
	copy(hooks, d.postHooks)
	d.mu.RUnlock()

	for _, h := range hooks {
		h.PostDispatch(action, ctx, result)
	}
}

// Registry returns the handler registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Router returns the action router.
func (d *Dispatcher) Router() *Router {
	return d.router
}

// Metrics returns the metrics collector (may be nil if disabled).
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Config returns the dispatcher configuration.
func (d *Dispatcher) Config() Config {
	return d.config
}
