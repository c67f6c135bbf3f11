// Package mode defines editor modes and the selection types shared by
// registers and visual selections.
//
// SelectionType is the single classification used for both register
// content and visual targets:
//
//   - CharacterWise: text between two positions
//   - LineWise: whole lines
//   - BlockWise: a rectangle of columns
//
// Each visual sub-mode maps to exactly one SelectionType and back.
//
// Manager is safe for concurrent use; callbacks run outside its lock.
package mode
