// Package cursor provides carets, visual selections and their
// transformation after buffer edits.
//
// A Caret is an ID plus an offset. Hosts own caret positions and hand out
// fresh Caret values; code that needs the current position asks the
// host again by ID rather than holding on to a stale value.
//
// A Selection is the visual span of a caret. Unlike a half-open Range,
// both Anchor and Active are inclusive, matching how Vim reports the
// start and end of a visual area. Use Selection.Range to get the
// half-open span to delete.
//
// Transform functions keep offsets valid across edits:
//
//	edit := buffer.NewInsert(4, "abc")
//	c = cursor.TransformCaret(c, edit)   // sticky: stays at 4 if it was at 4
//	r = cursor.TransformRange(r, edit)
//
// Caret and Selection are immutable value types and safe for concurrent
// use. CaretSet is not thread-safe and should be protected by external
// synchronization.
package cursor
