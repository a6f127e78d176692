package render

import (
	"raycaster/internal/graphics"
	"raycaster/internal/mathutil"
	"raycaster/internal/player"
	"raycaster/internal/sprites"
)

// drawSprites projects the already sorted sprites back to front, depth
// testing each stripe against the wall pass. It returns how many sprites were
// in front of the camera and how many drew at least one stripe.
func (r *Renderer) drawSprites(set *sprites.Set, p *player.Player) (visible, drawn int) {
	w, h := r.opts.Width, r.opts.Height
	pos := p.Pos()
	cam := p.Camera()
	texSize := r.textures.Size()

	for _, sp := range set.Sprites() {
		t := cam.ToCameraSpace(sp.Pos.Sub(pos))
		if t.Y <= 0 {
			continue
		}
		visible++

		screenX := projected(float64(w) / 2 * (1 + t.X/t.Y))
		size := mathutil.IntAbs(projected(float64(h) / t.Y))
		if size == 0 {
			continue
		}

		startY := mathutil.IntMax(0, -size/2+h/2)
		endY := mathutil.IntMin(h-1, size/2+h/2)
		left := -size/2 + screenX
		startX := mathutil.IntMax(0, left)
		endX := mathutil.IntMin(w-1, size/2+screenX)

		tex := r.textures.Texture(sp.TextureID)
		stripes := 0
		for stripe := startX; stripe < endX; stripe++ {
			if !(t.Y < r.depth[stripe]) {
				continue
			}
			stripes++

			u := (256 * (stripe - left) * texSize / size) / 256
			for y := startY; y < endY; y++ {
				d := y*256 - h*128 + size*128
				v := ((d * texSize) / size) / 256
				c := tex.At(u, v)
				if graphics.IsOpaque(c) {
					r.frame.Set(stripe, y, c)
				}
			}
		}
		if stripes > 0 {
			drawn++
		}
	}
	return visible, drawn
}
