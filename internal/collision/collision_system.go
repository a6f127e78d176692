package collision

import (
	"raycaster/internal/mathutil"
	"raycaster/internal/player"
)

// Passability reports whether a grid cell can be entered. *world.Grid
// satisfies it.
type Passability interface {
	IsPassable(cell mathutil.Vec2i) bool
}

// Slide moves p by inc, testing each axis on its own so that a blocked axis
// does not stop motion along the other one. When both axes are clear but the
// diagonal destination is solid, only the X component is kept. The player has
// no radius. It returns the delta actually applied.
func Slide(grid Passability, p *player.Player, inc mathutil.Vec2) mathutil.Vec2 {
	var applied mathutil.Vec2

	if inc.X != 0 && grid.IsPassable(p.PosPlusX(inc.X).Cell()) {
		applied.X = inc.X
	}
	if inc.Y != 0 && grid.IsPassable(p.PosPlusY(inc.Y).Cell()) {
		applied.Y = inc.Y
	}

	// Both axes can be clear while the diagonal cell is not.
	if applied.X != 0 && applied.Y != 0 && !grid.IsPassable(p.Pos().Add(applied).Cell()) {
		applied.Y = 0
	}

	if applied != (mathutil.Vec2{}) {
		p.Move(applied)
	}
	return applied
}
