// Package input turns user gestures into actions for the dispatcher.
//
// An Action names a command ("put.after", "put.lines", ...) and carries
// its count and register. Sub-packages cover the rest of input handling:
//
//   - mode tracks the editor mode and visual sub-mode.
//   - vim parses Vim key sequences and ex commands into actions.
package input
