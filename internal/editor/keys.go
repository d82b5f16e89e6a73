package editor

import "unicode"

// Chord is one key press together with its modifier state.
type Chord struct {
	Key   rune
	Ctrl  bool
	Meta  bool
	Shift bool
}

// Command is a history action bound to a key chord.
type Command int

const (
	CommandNone Command = iota
	CommandUndo
	CommandRedo
)

// CommandFor maps a chord to a history command. Both Ctrl and Meta act as
// the primary modifier so either platform convention works:
//
//	undo: Mod+Z
//	redo: Mod+Y or Mod+Shift+Z
//
// Any other key held with the modifier maps to CommandNone.
func CommandFor(c Chord) Command {
	if !c.Ctrl && !c.Meta {
		return CommandNone
	}
	key := unicode.ToLower(c.Key)
	shift := c.Shift || unicode.IsUpper(c.Key)
	switch {
	case key == 'z' && !shift:
		return CommandUndo
	case key == 'z' && shift:
		return CommandRedo
	case key == 'y' && !shift:
		return CommandRedo
	}
	return CommandNone
}
