package renderer

import "pongsim/internal/pong"

type UiAction rune

const (
	Unknown   UiAction = iota
	Quit      UiAction = 81 // 'Q'
	Up        UiAction = 87 // 'W'
	Down      UiAction = 83 // 'S'
	Pause     UiAction = 80 // 'P'
	Restart   UiAction = 82 // 'R'
	Start     UiAction = 32 // ' '
	Enter     UiAction = 13
	UpArrow   UiAction = 8593
	DownArrow UiAction = 8595
	CtrlC     UiAction = 3
)

const (
	escape    byte = 27
	csiPrefix byte = '['
	arrowUp   byte = 'A'
	arrowDown byte = 'B'
)

// ProcessInput decodes the first key in one read from a raw-mode
// terminal.
func ProcessInput(raw []byte) UiAction {
	action, _ := NextInput(raw)
	return action
}

// NextInput decodes the key at the front of raw and reports how many
// bytes it used, so a read holding several presses can be walked key by
// key. Arrow keys arrive as ESC [ A / ESC [ B.
func NextInput(raw []byte) (action UiAction, n int) {
	if len(raw) == 0 {
		return Unknown, 0
	}
	if raw[0] == escape {
		if len(raw) < 2 || raw[1] != csiPrefix {
			return Unknown, 1
		}
		if len(raw) < 3 {
			return Unknown, len(raw)
		}
		switch raw[2] {
		case arrowUp:
			return UpArrow, 3
		case arrowDown:
			return DownArrow, 3
		}
		return Unknown, 3
	}

	inputVal := raw[0]
	// Convert to UpperCase
	if inputVal >= 'a' && inputVal <= 'z' {
		inputVal -= 'a' - 'A'
	}
	switch a := UiAction(inputVal); a {
	case Quit, Up, Down, Pause, Restart, Start, Enter, CtrlC:
		return a, 1
	}
	return Unknown, 1
}

// Command maps a UI action onto a session command. Quit and unknown
// input have no command.
func Command(action UiAction) (pong.Command, bool) {
	switch action {
	case Up:
		return pong.KeyCommand(pong.KeyW), true
	case Down:
		return pong.KeyCommand(pong.KeyS), true
	case UpArrow:
		return pong.KeyCommand(pong.KeyArrowUp), true
	case DownArrow:
		return pong.KeyCommand(pong.KeyArrowDown), true
	case Start, Enter:
		return pong.Command{Action: pong.ActionStart}, true
	case Pause:
		return pong.Command{Action: pong.ActionTogglePause}, true
	case Restart:
		return pong.Command{Action: pong.ActionRestart}, true
	}
	return pong.Command{}, false
}
