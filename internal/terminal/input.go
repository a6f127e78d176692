package terminal

import "unicode/utf8"

// Action is a key press decoded from terminal input.
type Action int

const (
	ActionNone Action = iota
	ActionForward
	ActionBack
	ActionLeft
	ActionRight
	ActionReset
	ActionQuit
)

// ParseInput converts raw bytes into actions.
// Handles WASD, arrow key escape sequences, R, Q, and Ctrl-C.
func ParseInput(data []byte) []Action {
	var actions []Action
	i := 0
	for i < len(data) {
		// Arrow keys arrive as ESC [ A..D.
		if i+2 < len(data) && data[i] == 0x1b && data[i+1] == '[' {
			switch data[i+2] {
			case 'A':
				actions = append(actions, ActionForward)
			case 'B':
				actions = append(actions, ActionBack)
			case 'C':
				actions = append(actions, ActionRight)
			case 'D':
				actions = append(actions, ActionLeft)
			}
			i += 3
			continue
		}

		r, size := utf8.DecodeRune(data[i:])
		switch r {
		case 'w', 'W':
			actions = append(actions, ActionForward)
		case 's', 'S':
			actions = append(actions, ActionBack)
		case 'a', 'A':
			actions = append(actions, ActionLeft)
		case 'd', 'D':
			actions = append(actions, ActionRight)
		case 'r', 'R':
			actions = append(actions, ActionReset)
		case 'q', 'Q':
			actions = append(actions, ActionQuit)
		case 3: // Ctrl-C
			actions = append(actions, ActionQuit)
		}
		i += size
	}
	return actions
}
