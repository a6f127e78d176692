package player

import "raycaster/internal/mathutil"

// Camera holds the view plane and the inverse of the [dir | plane] matrix
// derived from a facing direction. It is owned by a Player and recomputed as a
// whole whenever the direction changes.
type Camera struct {
	fov     float64
	plane   mathutil.Vec2
	inverse mathutil.Mat2
}

// NewCamera creates a camera for the given facing direction. fov scales the
// view plane; fov=1 gives a 90 degree horizontal field of view. fov must be
// nonzero and dir must not be the zero vector.
func NewCamera(dir mathutil.Vec2, fov float64) *Camera {
	c := &Camera{fov: fov}
	c.Update(dir)
	return c
}

// Update recomputes the plane and inverse matrix for a new facing direction.
func (c *Camera) Update(dir mathutil.Vec2) {
	plane := mathutil.Vec2{X: dir.Y * c.fov, Y: -dir.X * c.fov}

	invDet := 1.0 / (plane.X*dir.Y - dir.X*plane.Y)
	inverse := mathutil.Mat2{
		A: dir.Y, B: -dir.X,
		C: -plane.Y, D: plane.X,
	}.Scale(invDet)

	c.plane, c.inverse = plane, inverse
}

// FOV returns the field-of-view scale the camera was built with.
func (c *Camera) FOV() float64 { return c.fov }

// Plane returns the view-plane vector.
func (c *Camera) Plane() mathutil.Vec2 { return c.plane }

// ToCameraSpace maps a world-space offset from the viewer into
// (lateral, depth) camera coordinates.
func (c *Camera) ToCameraSpace(offset mathutil.Vec2) mathutil.Vec2 {
	return c.inverse.MulVec(offset)
}
