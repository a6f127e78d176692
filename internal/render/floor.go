package render

import (
	"raycaster/internal/player"
)

// drawFloorRows fills floor rows [lo, hi) and their mirrored ceiling rows.
// lo must be greater than h/2; pixels inside a column's wall span are kept.
func (r *Renderer) drawFloorRows(lo, hi int, p *player.Player) {
	w, h := r.opts.Width, r.opts.Height
	pos, dir := p.Pos(), p.Dir()
	plane := p.Camera().Plane()
	texSize := r.textures.Size()
	mask := texSize - 1
	floor := r.textures.Dark(r.opts.FloorTexture)
	ceiling := r.textures.Dark(r.opts.CeilingTexture)

	left := dir.Sub(plane)
	right := dir.Add(plane)
	posZ := 0.5 * float64(h)

	for y := lo; y < hi; y++ {
		rowDistance := posZ / float64(y-h/2)
		step := right.Sub(left).Scale(rowDistance / float64(w))
		at := pos.Add(left.Scale(rowDistance))
		ceilingY := h - y - 1

		for x := 0; x < w; x++ {
			cell := at.Cell()
			u := int(float64(texSize)*(at.X-float64(cell.X))) & mask
			v := int(float64(texSize)*(at.Y-float64(cell.Y))) & mask
			at = at.Add(step)

			wall := r.spans[x]
			if !wall.contains(y) {
				r.frame.Set(x, y, floor.At(u, v))
			}
			if !wall.contains(ceilingY) {
				r.frame.Set(x, ceilingY, ceiling.At(u, v))
			}
		}
	}
}

// clearHorizon paints the rows between the lowest ceiling row and the first
// floor row, which no floor row maps to, with the clear colour.
func (r *Renderer) clearHorizon() {
	w, h := r.opts.Width, r.opts.Height
	for y := h - h/2 - 1; y <= h/2; y++ {
		if y < 0 || y >= h {
			continue
		}
		for x := 0; x < w; x++ {
			if !r.spans[x].contains(y) {
				r.frame.Set(x, y, r.opts.ClearColor)
			}
		}
	}
}
