// Package history records applied document edits as undo steps.
//
// Edits made between BeginGroup and EndGroup form one step, so a put
// across several carets undoes in one go. History does not touch the
// document itself; Undo and Redo hand the reversing edits to an Applier
// supplied by the owner.
package history
