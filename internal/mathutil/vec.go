package mathutil

import "math"

// Vec2 is a real-valued 2D vector used for positions and directions.
type Vec2 struct {
	X, Y float64
}

// Vec2i is an integer 2D vector identifying a grid cell.
type Vec2i struct {
	X, Y int
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// SquaredNorm returns |v|^2.
func (v Vec2) SquaredNorm() float64 {
	return v.Dot(v)
}

// Norm returns |v|.
func (v Vec2) Norm() float64 {
	return math.Sqrt(v.SquaredNorm())
}

// Rotate rotates v by angle radians, counter-clockwise for positive angles.
func (v Vec2) Rotate(angle float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// Cell truncates v toward zero, giving the containing grid cell for
// non-negative coordinates.
func (v Vec2) Cell() Vec2i {
	return Vec2i{int(v.X), int(v.Y)}
}

// Mat2 is a row-major 2x2 matrix: [[A, B], [C, D]].
type Mat2 struct {
	A, B float64
	C, D float64
}

// MulVec returns m * v.
func (m Mat2) MulVec(v Vec2) Vec2 {
	return Vec2{
		X: m.A*v.X + m.B*v.Y,
		Y: m.C*v.X + m.D*v.Y,
	}
}

// Scale returns m with every element multiplied by s.
func (m Mat2) Scale(s float64) Mat2 {
	return Mat2{m.A * s, m.B * s, m.C * s, m.D * s}
}

// ApproxEqual reports whether a and b differ by at most eps.
func ApproxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
