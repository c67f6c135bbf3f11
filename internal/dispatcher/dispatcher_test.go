package dispatcher_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dshills/vimput/internal/dispatcher"
	"github.com/dshills/vimput/internal/dispatcher/execctx"
	"github.com/dshills/vimput/internal/dispatcher/handler"
	"github.com/dshills/vimput/internal/engine"
	"github.com/dshills/vimput/internal/engine/cursor"
	"github.com/dshills/vimput/internal/host"
	"github.com/dshills/vimput/internal/input"
	"github.com/dshills/vimput/internal/input/mode"
	"github.com/dshills/vimput/internal/logging"
	"github.com/dshills/vimput/internal/put"
	"github.com/dshills/vimput/internal/register"
)

func TestNewWithDefaults(t *testing.T) {
	d := dispatcher.NewWithDefaults()

	if d.Registry() == nil || d.Router() == nil {
		t.Fatal("expected registry and router")
	}
	if d.Metrics() != nil {
		t.Error("expected nil metrics by default")
	}
	if !d.Config().RecoverFromPanic {
		t.Error("expected panic recovery by default")
	}
}

func TestDispatchNoHandler(t *testing.T) {
	d := dispatcher.NewWithDefaults()

	result := d.Dispatch(input.NewAction("unknown.action"))

	if result.Status != handler.StatusError {
		t.Fatalf("expected StatusError, got %v", result.Status)
	}
	if !errors.Is(result.Error, dispatcher.ErrNoHandler) {
		t.Errorf("expected ErrNoHandler, got %v", result.Error)
	}
}

func TestRegisterHandlerFunc(t *testing.T) {
	d := dispatcher.NewWithDefaults()

	called := false
	d.RegisterHandlerFunc("test.action", func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		called = true
		return handler.Success()
	})

	if !d.CanDispatch("test.action") {
		t.Error("expected CanDispatch")
	}
	result := d.Dispatch(input.NewAction("test.action"))
	if !called || !result.IsOK() {
		t.Errorf("expected handler to run, got %v", result.Status)
	}

	d.UnregisterHandler("test.action")
	if d.CanDispatch("test.action") {
		t.Error("expected handler to be gone")
	}
	if !d.Dispatch(input.NewAction("test.action")).IsError() {
		t.Error("expected error after unregister")
	}
}

func TestRegisterNamespace(t *testing.T) {
	d := dispatcher.NewWithDefaults()

	ns := handler.NewBaseNamespaceHandler("put")
	ns.Register("put.after", func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		return handler.Success().WithMessage("put after")
	})
	d.RegisterNamespace("put", ns)

	result := d.Dispatch(input.NewAction("put.after"))
	if result.Message != "put after" {
		t.Errorf("expected message 'put after', got %q", result.Message)
	}
}

func TestContextCarriesSubsystems(t *testing.T) {
	d := dispatcher.NewWithDefaults()

	doc := engine.New(engine.WithContent("abc"))
	registers := register.NewStore()
	modes := mode.NewManager()
	puts := put.NewEngine(host.Capabilities{Editor: doc}, registers)
	d.SetPutEngine(puts)
	d.SetRegisters(registers)
	d.SetModeManager(modes)

	if d.PutEngine() != puts || d.Registers() != registers || d.ModeManager() != modes {
		t.Fatal("expected getters to return the configured subsystems")
	}

	var got *execctx.ExecutionContext
	d.RegisterHandlerFunc("probe", func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		got = ctx
		return handler.Success()
	})

	sel := put.NewVisualSelection(doc.PrimaryCaret().ID, cursor.NewSelection(0, 1), mode.CharacterWise)
	d.DispatchVisual(input.NewAction("probe").WithCount(3), sel)

	if got == nil {
		t.Fatal("handler not called")
	}
	if got.Puts != puts || got.Registers != registers || got.Modes != modes {
		t.Error("context missing subsystems")
	}
	if got.Selection != sel || !got.IsVisual() {
		t.Error("expected selection in context")
	}
	if got.Count != 3 {
		t.Errorf("expected count 3, got %d", got.Count)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("expected valid context, got %v", err)
	}
}

func TestModeChange(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	modes := mode.NewManager()
	modes.EnterVisual(mode.BlockWise)
	d.SetModeManager(modes)

	d.RegisterHandlerFunc("exit", func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		return handler.Success().WithModeChange(mode.Normal)
	})
	d.Dispatch(input.NewAction("exit"))

	if modes.IsVisual() {
		t.Errorf("expected normal mode, got %v", modes.Current())
	}
}

func TestHooks(t *testing.T) {
	d := dispatcher.NewWithDefaults()

	var order []string
	d.RegisterPreHook(dispatcher.PreDispatchFunc(func(action *input.Action, ctx *execctx.ExecutionContext) bool {
		order = append(order, "pre")
		return true
	}))
	d.RegisterPostHook(dispatcher.PostDispatchFunc(func(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
		order = append(order, "post:"+result.Message)
	}))
	d.RegisterHandlerFunc("test", func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		order = append(order, "handle")
		return handler.Success().WithMessage("done")
	})

	d.Dispatch(input.NewAction("test"))

	if strings.Join(order, ",") != "pre,handle,post:done" {
		t.Errorf("unexpected order %v", order)
	}
}

func TestPreDispatchHookCancel(t *testing.T) {
	d := dispatcher.NewWithDefaults()

	d.RegisterPreHook(dispatcher.PreDispatchFunc(func(action *input.Action, ctx *execctx.ExecutionContext) bool {
		return false
	}))

	handlerCalled := false
	d.RegisterHandlerFunc("test", func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		handlerCalled = true
		return handler.Success()
	})

	result := d.Dispatch(input.NewAction("test"))

	if handlerCalled {
		t.Error("expected handler NOT to be called when hook cancels")
	}
	if result.Status != handler.StatusCancelled {
		t.Errorf("expected StatusCancelled, got %v", result.Status)
	}
}

func TestMaxRepeatCount(t *testing.T) {
	d := dispatcher.New(dispatcher.DefaultConfig().WithMaxRepeatCount(50))

	var captured int
	d.RegisterHandlerFunc("test", func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		captured = ctx.GetCount()
		return handler.Success()
	})

	d.Dispatch(input.NewAction("test").WithCount(1000))
	if captured != 50 {
		t.Errorf("expected count clamped to 50, got %d", captured)
	}

	d.Dispatch(input.NewAction("test"))
	if captured != 1 {
		t.Errorf("expected default count 1, got %d", captured)
	}
}

func TestPanicRecovery(t *testing.T) {
	d := dispatcher.New(dispatcher.DefaultConfig().WithMetrics())

	d.RegisterHandlerFunc("boom", func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		panic("kaboom")
	})

	result := d.Dispatch(input.NewAction("boom"))
	if !result.IsError() {
		t.Fatalf("expected error result, got %v", result.Status)
	}
	if !errors.Is(result.Error, dispatcher.ErrPanic) {
		t.Errorf("expected ErrPanic, got %v", result.Error)
	}
	if d.Metrics().TotalPanics() != 1 {
		t.Errorf("expected 1 panic, got %d", d.Metrics().TotalPanics())
	}
}

func TestWithoutPanicRecovery(t *testing.T) {
	d := dispatcher.New(dispatcher.DefaultConfig().WithPanicRecovery(false))
	d.RegisterHandlerFunc("boom", func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		panic("kaboom")
	})

	defer func() {
		if recover() == nil {
			t.Error("expected panic to propagate")
		}
	}()
	d.Dispatch(input.NewAction("boom"))
}

func TestMetrics(t *testing.T) {
	d := dispatcher.New(dispatcher.DefaultConfig().WithMetrics())
	d.RegisterHandlerFunc("put.after", func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		return handler.Success().WithData("inserted", 2)
	})
	d.RegisterHandlerFunc("put.before", func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		return handler.Error(put.ErrEmptyRegister)
	})

	d.Dispatch(input.NewAction("put.after").WithRegister('a'))
	d.Dispatch(input.NewAction("put.after"))
	d.Dispatch(input.NewAction("put.before").WithRegister('q'))

	m := d.Metrics()
	if m.TotalDispatches() != 3 {
		t.Errorf("expected 3 dispatches, got %d", m.TotalDispatches())
	}
	if m.TotalErrors() != 1 {
		t.Errorf("expected 1 error, got %d", m.TotalErrors())
	}

	after := m.Action("put.after")
	if after == nil || after.Count != 2 || after.Inserted != 4 {
		t.Fatalf("unexpected stats %+v", after)
	}
	if after.ErrorRate() != 0 {
		t.Errorf("expected 0 error rate, got %f", after.ErrorRate())
	}
	before := m.Action("put.before")
	if before.ErrorRate() != 100 || before.EmptyRegister != 1 {
		t.Errorf("unexpected stats %+v", before)
	}
	if m.RegisterUses('a') != 1 || m.RegisterUses('q') != 0 {
		t.Errorf("unexpected register uses a=%d q=%d", m.RegisterUses('a'), m.RegisterUses('q'))
	}
	if m.Action("missing") != nil {
		t.Error("expected nil stats for unknown action")
	}

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[0], "put.after") || lines[2] != "total count=3 errors=1 panics=0" {
		t.Errorf("unexpected report:\n%s", buf.String())
	}

	m.Reset()
	if m.TotalDispatches() != 0 || m.AverageDuration() != 0 || len(m.Actions()) != 0 {
		t.Error("expected metrics reset")
	}
}

func TestLoggingHook(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: logging.LogLevelDebug, Output: &buf})

	d := dispatcher.NewWithDefaults()
	hook := dispatcher.NewLoggingHook(logger)
	d.RegisterPreHook(hook)
	d.RegisterPostHook(hook)
	d.RegisterHandlerFunc("put.after", func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		return handler.Errorf("register empty")
	})

	d.Dispatch(input.NewAction("put.after").WithRegister('a'))

	out := buf.String()
	if !strings.Contains(out, "dispatching put.after") {
		t.Errorf("expected dispatch log, got %q", out)
	}
	if !strings.Contains(out, "put.after failed: register empty") {
		t.Errorf("expected failure log, got %q", out)
	}
}
