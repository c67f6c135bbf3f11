// Package engine provides Document, an in-memory text document that
// implements host.Editor.
//
// A Document combines:
//
//   - a line-indexed buffer (package buffer)
//   - carets addressed by ID (package cursor)
//   - range markers that follow edits
//   - guarded regions that reject edits
//   - undo history grouped by write section (package history)
//
// Basic usage:
//
//	doc := engine.New(engine.WithContent("one\ntwo\n"))
//	release := doc.BeginWrite()
//	_ = doc.Insert(4, "1.5\n")
//	release()
//	_ = doc.Undo()
//
// Carets are sticky: text inserted exactly at a caret ends up after it.
// Range markers keep text inserted at either boundary outside.
package engine
