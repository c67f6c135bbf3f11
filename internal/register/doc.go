// Package register implements Vim's registers.
//
// A Store holds one Entry per register name. Entries carry text and a
// selection type so that a put knows whether the content is
// character-wise, line-wise or block-wise.
//
// Write helpers follow Vim's bookkeeping:
//
//   - SetYank fills "0 and the unnamed register
//   - SetDelete rotates "1.."9 (or fills "- for small deletes)
//   - Set with an uppercase name appends
//   - "_ discards everything
//   - "+ and "* go through a ClipboardProvider when one is configured
//
// The register used by a command is resolved with ResolveCurrent: an
// explicitly selected register wins, several carets force the unnamed
// register, otherwise the configured default applies.
package register
