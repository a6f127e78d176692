package player

import (
	"math"
	"testing"

	"raycaster/internal/mathutil"
)

const eps = 1e-9

func TestCameraPlaneAndInverse(t *testing.T) {
	dir := mathutil.Vec2{X: 0, Y: 1}
	cam := NewCamera(dir, 1)

	if p := cam.Plane(); !mathutil.ApproxEqual(p.X, 1, eps) || !mathutil.ApproxEqual(p.Y, 0, eps) {
		t.Fatalf("expected plane (1,0), got %v", p)
	}

	// A point straight ahead has no lateral offset and depth equal to its distance.
	ahead := cam.ToCameraSpace(mathutil.Vec2{X: 0, Y: 3})
	if !mathutil.ApproxEqual(ahead.X, 0, eps) || !mathutil.ApproxEqual(ahead.Y, 3, eps) {
		t.Fatalf("expected (0,3), got %v", ahead)
	}

	// The inverse must undo the [dir | plane] matrix.
	for _, v := range []mathutil.Vec2{{X: 1, Y: 2}, {X: -3, Y: 0.5}, {X: 0.25, Y: -7}} {
		world := dir.Scale(v.Y).Add(cam.Plane().Scale(v.X))
		back := cam.ToCameraSpace(world)
		if !mathutil.ApproxEqual(back.X, v.X, eps) || !mathutil.ApproxEqual(back.Y, v.Y, eps) {
			t.Errorf("round trip of %v gave %v", v, back)
		}
	}
}

func TestRotateKeepsCameraConsistent(t *testing.T) {
	const fov = 0.66
	p := New(mathutil.Vec2{X: 5, Y: 5}, mathutil.Vec2{X: -1, Y: 0}, fov)

	for i, angle := range []float64{0.1, -0.7, math.Pi / 3, 2.5, -math.Pi} {
		p.Rotate(angle)
		dir := p.Dir()
		plane := p.Camera().Plane()

		if d := dir.Dot(plane); !mathutil.ApproxEqual(d, 0, 1e-9) {
			t.Errorf("step %d: plane not perpendicular to dir (dot=%g)", i, d)
		}
		if n := plane.Norm(); !mathutil.ApproxEqual(n, fov*dir.Norm(), 1e-9) {
			t.Errorf("step %d: plane length %g, want %g", i, n, fov)
		}
		if n := dir.Norm(); !mathutil.ApproxEqual(n, 1, 1e-9) {
			t.Errorf("step %d: direction drifted to length %g", i, n)
		}
		if p.Camera().FOV() != fov {
			t.Errorf("step %d: fov changed to %g", i, p.Camera().FOV())
		}
	}
}

func TestRotateCounterClockwise(t *testing.T) {
	p := New(mathutil.Vec2{}, mathutil.Vec2{X: 1, Y: 0}, 1)
	p.Rotate(math.Pi / 2)
	if d := p.Dir(); !mathutil.ApproxEqual(d.X, 0, eps) || !mathutil.ApproxEqual(d.Y, 1, eps) {
		t.Fatalf("expected (0,1), got %v", d)
	}
}

func TestMoveAndAxisLookahead(t *testing.T) {
	p := New(mathutil.Vec2{X: 2, Y: 3}, mathutil.Vec2{X: 1, Y: 0}, 1)

	if got := p.PosPlusX(0.5); got != (mathutil.Vec2{X: 2.5, Y: 3}) {
		t.Errorf("PosPlusX: got %v", got)
	}
	if got := p.PosPlusY(-1); got != (mathutil.Vec2{X: 2, Y: 2}) {
		t.Errorf("PosPlusY: got %v", got)
	}
	if p.Pos() != (mathutil.Vec2{X: 2, Y: 3}) {
		t.Fatal("axis lookahead must not move the player")
	}

	p.Move(mathutil.Vec2{X: 0.25, Y: -0.5})
	if p.Pos() != (mathutil.Vec2{X: 2.25, Y: 2.5}) {
		t.Fatalf("Move: got %v", p.Pos())
	}
}

func TestSetPoseRefreshesCamera(t *testing.T) {
	p := New(mathutil.Vec2{}, mathutil.Vec2{X: 1, Y: 0}, 1)
	p.SetPose(mathutil.Vec2{X: 4, Y: 4}, mathutil.Vec2{X: 0, Y: -1})

	if d := p.Dir().Dot(p.Camera().Plane()); !mathutil.ApproxEqual(d, 0, eps) {
		t.Fatalf("camera stale after SetPose (dot=%g)", d)
	}
}
