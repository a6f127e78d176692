package player

import "raycaster/internal/mathutil"

// Player is the viewer: a continuous position, a unit facing direction and the
// camera derived from it. Only Rotate and SetPose change the direction, and both
// refresh the camera before returning.
type Player struct {
	pos    mathutil.Vec2
	dir    mathutil.Vec2
	camera *Camera
}

// New creates a player at pos facing dir with the given field-of-view scale.
func New(pos, dir mathutil.Vec2, fov float64) *Player {
	return &Player{
		pos:    pos,
		dir:    dir,
		camera: NewCamera(dir, fov),
	}
}

// Pos returns the current position.
func (p *Player) Pos() mathutil.Vec2 { return p.pos }

// Dir returns the current facing direction.
func (p *Player) Dir() mathutil.Vec2 { return p.dir }

// Camera returns the player's camera. Callers must not call Update on it.
func (p *Player) Camera() *Camera { return p.camera }

// PosPlusX returns the position shifted by delta along X only.
func (p *Player) PosPlusX(delta float64) mathutil.Vec2 {
	return mathutil.Vec2{X: p.pos.X + delta, Y: p.pos.Y}
}

// PosPlusY returns the position shifted by delta along Y only.
func (p *Player) PosPlusY(delta float64) mathutil.Vec2 {
	return mathutil.Vec2{X: p.pos.X, Y: p.pos.Y + delta}
}

// Move adds delta to the position. Passability is the caller's concern.
func (p *Player) Move(delta mathutil.Vec2) {
	p.pos = p.pos.Add(delta)
}

// Rotate turns the facing direction by angle radians (positive is
// counter-clockwise) and refreshes the camera.
func (p *Player) Rotate(angle float64) {
	p.dir = p.dir.Rotate(angle)
	p.camera.Update(p.dir)
}

// SetPose teleports the player and refreshes the camera.
func (p *Player) SetPose(pos, dir mathutil.Vec2) {
	p.pos = pos
	p.dir = dir
	p.camera.Update(dir)
}
