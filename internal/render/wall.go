package render

import (
	"math"

	"raycaster/internal/mathutil"
	"raycaster/internal/player"
	"raycaster/internal/world"
)

// maxProjected bounds projected heights and screen positions. Rays grazing a
// wall from zero distance would otherwise convert an infinite float to int.
const maxProjected = 1 << 24

// Hit describes where a ray met a solid cell.
type Hit struct {
	Cell     mathutil.Vec2i
	Side     bool // true when the ray crossed a horizontal grid line (a Y side)
	Step     mathutil.Vec2i
	Perp     float64 // distance along the view direction, not the ray
	Material int
	Escaped  bool // the step cap ran out before a solid cell was found
}

// CastRay marches ray from pos through grid until it enters a solid cell.
// Ties between the next X and Y grid line advance X.
func CastRay(grid *world.Grid, pos, ray mathutil.Vec2) Hit {
	cell := pos.Cell()
	// 1/0 is +Inf or -Inf; Abs makes both +Inf so the axis is never chosen.
	delta := mathutil.Vec2{X: math.Abs(1 / ray.X), Y: math.Abs(1 / ray.Y)}

	var step mathutil.Vec2i
	var side mathutil.Vec2
	if ray.X < 0 {
		step.X = -1
		side.X = (pos.X - float64(cell.X)) * delta.X
	} else {
		step.X = 1
		side.X = (float64(cell.X) + 1 - pos.X) * delta.X
	}
	if ray.Y < 0 {
		step.Y = -1
		side.Y = (pos.Y - float64(cell.Y)) * delta.Y
	} else {
		step.Y = 1
		side.Y = (float64(cell.Y) + 1 - pos.Y) * delta.Y
	}

	hit := Hit{Step: step}
	maxSteps := grid.Width()*grid.Height() + 2
	for i := 0; i < maxSteps; i++ {
		if side.X <= side.Y {
			side.X += delta.X
			cell.X += step.X
			hit.Side = false
		} else {
			side.Y += delta.Y
			cell.Y += step.Y
			hit.Side = true
		}

		if m := grid.SolidityAt(cell); m != world.Empty {
			hit.Cell = cell
			hit.Material = m
			if hit.Side {
				hit.Perp = (float64(cell.Y) - pos.Y + float64(1-step.Y)/2) / ray.Y
			} else {
				hit.Perp = (float64(cell.X) - pos.X + float64(1-step.X)/2) / ray.X
			}
			return hit
		}
	}

	hit.Cell = cell
	hit.Escaped = true
	hit.Perp = math.Inf(1)
	return hit
}

// projected converts a projected screen quantity to int, clamping values a
// degenerate ray would make infinite or NaN.
func projected(f float64) int {
	switch {
	case math.IsNaN(f):
		return 0
	case f > maxProjected:
		return maxProjected
	case f < -maxProjected:
		return -maxProjected
	}
	return int(f)
}

// drawWalls casts one ray per column in [lo, hi), draws the textured wall
// slice, and records the column's depth and wall span.
func (r *Renderer) drawWalls(lo, hi int, grid *world.Grid, p *player.Player) {
	w, h := r.opts.Width, r.opts.Height
	pos, dir := p.Pos(), p.Dir()
	plane := p.Camera().Plane()
	texSize := r.textures.Size()

	for x := lo; x < hi; x++ {
		cameraX := 2*float64(x)/float64(w) - 1
		ray := dir.Add(plane.Scale(cameraX))
		hit := CastRay(grid, pos, ray)
		r.depth[x] = hit.Perp

		lineHeight := projected(float64(h) / hit.Perp)
		drawStart := mathutil.IntMax(0, -lineHeight/2+h/2)
		drawEnd := mathutil.IntMin(h-1, lineHeight/2+h/2)
		if hit.Escaped || drawStart >= drawEnd {
			r.spans[x] = span{h / 2, h / 2}
			continue
		}
		r.spans[x] = span{drawStart, drawEnd}

		tex := r.textures.Texture(hit.Material - 1)
		if hit.Side {
			tex = r.textures.Dark(hit.Material - 1)
		}

		var wallX float64
		if hit.Side {
			wallX = pos.X + hit.Perp*ray.X
		} else {
			wallX = pos.Y + hit.Perp*ray.Y
		}
		wallX -= math.Floor(wallX)

		u := int(wallX * float64(texSize))
		if (!hit.Side && ray.X > 0) || (hit.Side && ray.Y < 0) {
			u = texSize - u - 1
		}

		step := float64(texSize) / float64(lineHeight)
		texPos := float64(drawStart-h/2+lineHeight/2) * step
		for y := drawStart; y < drawEnd; y++ {
			v := int(texPos) & (texSize - 1)
			texPos += step
			r.frame.Set(x, y, tex.At(u, v))
		}
	}
}
