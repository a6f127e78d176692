// Package intent turns per-frame movement requests into player motion.
package intent

import (
	"raycaster/internal/collision"
	"raycaster/internal/player"
)

// Intent is the set of movement requests sampled from input for one frame.
type Intent struct {
	Forward bool
	Back    bool
	Left    bool
	Right   bool
	Quit    bool
}

// Any reports whether the intent asks for movement or rotation.
func (in Intent) Any() bool {
	return in.Forward || in.Back || in.Left || in.Right
}

// Speeds are in cells per second and radians per second.
type Speeds struct {
	Move float64
	Turn float64
}

// Apply moves and turns p for one frame of length frameTime seconds. Forward
// wins over Back and Left wins over Right. Movement slides along walls in
// grid. It reports whether the player moved or turned.
func Apply(p *player.Player, grid collision.Passability, in Intent, frameTime float64, speeds Speeds) bool {
	changed := false

	moveSpeed := frameTime * speeds.Move
	switch {
	case in.Forward:
	case in.Back:
		moveSpeed = -moveSpeed
	default:
		moveSpeed = 0
	}
	if moveSpeed != 0 {
		applied := collision.Slide(grid, p, p.Dir().Scale(moveSpeed))
		changed = applied.X != 0 || applied.Y != 0
	}

	turn := frameTime * speeds.Turn
	switch {
	case in.Left:
		p.Rotate(turn)
		changed = changed || turn != 0
	case in.Right:
		p.Rotate(-turn)
		changed = changed || turn != 0
	}

	return changed
}
