// Package vim parses the Vim key sequences and ex commands that put text.
//
// The normal and visual mode grammar is:
//
//	[count]["register][count]put-key
//
// where put-key is one of p, P, gp, gP, ]p, [p, ]P or [P. In insert mode
// CTRL-R followed by a register name inserts that register. The ex
// command grammar is:
//
//	[address]pu[t][!] [register]
//
// Examples:
//   - "3p": put the current register after the caret three times
//   - `"ap`: put register a after the caret
//   - `2"b]p`: put register b twice without adjusting indent
//   - ":5put a": put register a below line 5
//   - ":0put!": put the current register above the first line
//
// # Usage
//
//	parser := vim.NewParser()
//	for _, r := range keys {
//		result := parser.Parse(r)
//		switch result.Status {
//		case vim.StatusComplete:
//			dispatch(result.Command.Action())
//		case vim.StatusInvalid:
//			// Invalid sequence, parser already reset
//		}
//	}
package vim
