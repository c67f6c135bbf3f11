// Package put handles the "put" action namespace: p, P, gp, gP, ]p and [p
// in normal and visual mode, :put, and CTRL-R in insert mode.
//
// The handler resolves the register, builds the paste options, runs the
// put engine for every caret and then places each caret on the inserted
// text:
//
//   - line-wise p/P: first non-blank of the first inserted line
//   - char-wise p/P: last inserted character
//   - block-wise p/P: start of the inserted block
//   - gp/gP and CTRL-R: just after the inserted text
//
// The selected register is cleared after every command.
package put
