package lua

import (
	"errors"
	"testing"
	"time"

	glua "github.com/yuin/gopher-lua"
)

func TestStateDoStringAndCall(t *testing.T) {
	state := NewState()
	defer state.Close()

	if err := state.DoString(`function add(a, b) return a + b, "ok" end`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	ret, err := state.Call("add", glua.LNumber(2), glua.LNumber(3))
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if len(ret) != 2 {
		t.Fatalf("expected 2 results, got %d", len(ret))
	}
	if n, ok := ret[0].(glua.LNumber); !ok || n != 5 {
		t.Errorf("expected 5, got %v", ret[0])
	}
}

func TestStateCallMissingFunction(t *testing.T) {
	state := NewState()
	defer state.Close()

	_, err := state.Call("nope")
	if !errors.Is(err, ErrFunctionNotFound) {
		t.Errorf("expected ErrFunctionNotFound, got %v", err)
	}
	if state.HasFunction("nope") {
		t.Error("HasFunction should be false")
	}
}

func TestStateSandboxRemovesLoaders(t *testing.T) {
	state := NewState()
	defer state.Close()

	for _, name := range []string{"dofile", "loadstring", "require"} {
		if v := state.GetGlobal(name); v != glua.LNil {
			t.Errorf("%s should be removed, got %v", name, v)
		}
	}
	if err := state.DoString(`os.exit(1)`); err == nil {
		t.Error("os library should not be available")
	}
}

func TestStateTimeout(t *testing.T) {
	state := NewState(WithExecutionTimeout(50 * time.Millisecond))
	defer state.Close()

	err := state.DoString(`while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Errorf("expected ErrExecutionTimeout, got %v", err)
	}
}

func TestStateClosed(t *testing.T) {
	state := NewState()
	if err := state.Close(); err != nil {
		t.Fatal(err)
	}
	if err := state.DoString(`x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("expected ErrStateClosed, got %v", err)
	}
	if !state.IsClosed() {
		t.Error("state should report closed")
	}
}

func TestStateRuntimeErrorIsReturned(t *testing.T) {
	state := NewState()
	defer state.Close()

	if err := state.DoString(`function boom() error("bad") end`); err != nil {
		t.Fatal(err)
	}
	if _, err := state.Call("boom"); err == nil {
		t.Error("expected error from boom")
	}
}

func TestStateEval(t *testing.T) {
	state := NewState()
	defer state.Close()

	ret, err := state.Eval(`1 + 2, "x"`)
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if len(ret) != 2 {
		t.Fatalf("expected 2 results, got %d", len(ret))
	}
	if n, ok := ret[0].(glua.LNumber); !ok || n != 3 {
		t.Errorf("expected 3, got %v", ret[0])
	}

	if _, err := state.Eval(`)(`); err == nil {
		t.Error("expected syntax error")
	}
}
