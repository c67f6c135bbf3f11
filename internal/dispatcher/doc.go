// Package dispatcher routes put actions to handlers and coordinates execution.
//
// Actions come from the vim key parser, the :put parser or a script and
// are routed by namespace prefix ("put" in "put.after") or by exact name.
//
// When an action is dispatched:
//
//  1. An ExecutionContext is built with the put engine, registers and modes
//  2. Pre-dispatch hooks run and may cancel the action or clamp its count
//  3. The handler runs, with panic recovery when configured
//  4. A requested mode change is applied
//  5. Post-dispatch hooks run and metrics are recorded
//
// # Usage
//
//	d := dispatcher.NewWithDefaults()
//	d.SetPutEngine(engine)
//	d.SetRegisters(registers)
//	d.SetModeManager(modes)
//	d.RegisterNamespace("put", put.NewHandler())
//
//	result := d.Dispatch(input.NewAction("put.after").WithRegister('a'))
//
// In visual mode pass the selection:
//
//	result := d.DispatchVisual(input.NewAction("put.visualAfter"), sel)
package dispatcher
