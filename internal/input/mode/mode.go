package mode

import "fmt"

// Mode is a top-level editor mode.
type Mode uint8

const (
	// Normal is the default command mode.
	Normal Mode = iota

	// Insert is text entry mode.
	Insert

	// Visual is any of the three visual modes; see SubMode.
	Visual

	// CmdLine is ex command-line entry.
	CmdLine
)

// String returns the mode name as shown in a status line.
func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Insert:
		return "insert"
	case Visual:
		return "visual"
	case CmdLine:
		return "cmdline"
	default:
		return "unknown"
	}
}

// SubMode refines Visual into its three flavours.
type SubMode uint8

const (
	SubModeNone SubMode = iota
	VisualCharacter
	VisualLine
	VisualBlock
)

// String returns a human-readable sub-mode name.
func (s SubMode) String() string {
	switch s {
	case VisualCharacter:
		return "visual"
	case VisualLine:
		return "visual-line"
	case VisualBlock:
		return "visual-block"
	default:
		return "none"
	}
}

// SelectionType classifies both register content and visual targets.
type SelectionType uint8

const (
	// CharacterWise content is a contiguous run of characters.
	CharacterWise SelectionType = iota

	// LineWise content is whole lines.
	LineWise

	// BlockWise content is a rectangle of columns, one row per line.
	BlockWise
)

// String returns a human-readable selection type name.
func (t SelectionType) String() string {
	switch t {
	case CharacterWise:
		return "char"
	case LineWise:
		return "line"
	case BlockWise:
		return "block"
	default:
		return "unknown"
	}
}

// IsLine reports whether t is LineWise.
func (t SelectionType) IsLine() bool { return t == LineWise }

// IsBlock reports whether t is BlockWise.
func (t SelectionType) IsBlock() bool { return t == BlockWise }

// SubMode returns the visual sub-mode that produces this selection type.
func (t SelectionType) SubMode() SubMode {
	switch t {
	case LineWise:
		return VisualLine
	case BlockWise:
		return VisualBlock
	default:
		return VisualCharacter
	}
}

// SelectionTypeFromSubMode maps a visual sub-mode to its selection type.
// SubModeNone maps to CharacterWise.
func SelectionTypeFromSubMode(s SubMode) SelectionType {
	switch s {
	case VisualLine:
		return LineWise
	case VisualBlock:
		return BlockWise
	default:
		return CharacterWise
	}
}

// ParseSelectionType parses the names returned by SelectionType.String.
// The Vim register type letters "v", "V" and "b" are accepted too.
func ParseSelectionType(s string) (SelectionType, error) {
	switch s {
	case "char", "v", "c":
		return CharacterWise, nil
	case "line", "V", "l":
		return LineWise, nil
	case "block", "b", "\x16":
		return BlockWise, nil
	}
	return CharacterWise, fmt.Errorf("unknown selection type: %q", s)
}
