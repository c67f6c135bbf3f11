// Package lua provides the sandboxed Lua runtime used by scripted
// editor delegates.
//
// A State opens only the base, table, string and math libraries and
// removes every global that can load code. Each call runs under a
// timeout enforced through the state's context:
//
//	state := lua.NewState(lua.WithExecutionTimeout(time.Second))
//	defer state.Close()
//
//	if err := state.DoFile("indent.lua"); err != nil {
//	    return err
//	}
//	ret, err := state.Call("auto_indent", glua.LNumber(0), glua.LNumber(10))
package lua
