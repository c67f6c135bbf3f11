// Package put implements Vim's put (paste) operation.
//
// The Engine inserts register content into a host document at a caret,
// optionally replacing a visual selection first. It supports the three
// register shapes:
//
//   - Character-wise: the text is inserted inline, repeated count times.
//   - Line-wise: the text becomes whole lines above or below the caret line.
//   - Block-wise: each row of the text is inserted as a column, padding
//     short lines and growing the buffer when the block runs past its end.
//
// A put is one atomic edit of the document. It leaves the change marks
// ('[', ']' and '.') around the inserted text and returns a RangeMarker
// that keeps tracking that range through later edits:
//
//	eng := put.NewEngine(host.Capabilities{Editor: doc}, registers)
//	res := eng.PutTextForCaretNonVisual(caret.ID, &put.TextData{
//		Text: "foo",
//		Type: mode.CharacterWise,
//	}, put.AtCaret{Direction: put.After, Count: 1})
//	if res.Status == put.StatusOK {
//		fmt.Println(res.Range())
//	}
//
// Everything the engine needs from the host is injected through
// host.Capabilities; indentation and rich paste are optional delegates
// whose failures fall back to plain insertion.
package put
