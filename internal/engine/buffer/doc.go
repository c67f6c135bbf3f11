// Package buffer provides a thread-safe text buffer with a line index.
//
// Text is held as a single string with '\n' line separators. A slice of
// line start offsets is kept alongside it and rebuilt from the first
// edited line after every change, so coordinate conversion is a binary
// search.
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("one\ntwo\n")
//	buf.Insert(4, "1.5\n")       // "one\n1.5\ntwo\n"
//	p := buf.OffsetToPoint(5)   // (1:1)
//
// Position Types:
//
//   - ByteOffset: raw byte position in the buffer
//   - Point: 0-indexed line and byte column
//   - Range: half-open [Start, End) span, which may be reversed until
//     normalized
//
// Line endings in input are normalized to '\n'. The detected style is
// remembered and restored by WriteTo.
package buffer
