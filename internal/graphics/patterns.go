package graphics

import (
	"fmt"

	"raycaster/internal/mathutil"
)

// Procedural patterns stand in for texture files that are not on disk. Sprite
// patterns (light, pillar, barrel) leave their background black so the sprite
// pass treats it as transparent.
const (
	PatternBrick   = "brick"
	PatternChecker = "checker"
	PatternStripes = "stripes"
	PatternSolid   = "solid"
	PatternLight   = "light"
	PatternPillar  = "pillar"
	PatternBarrel  = "barrel"
)

type patternFunc func(x, y, size int, base rgb) rgb

var patterns = map[string]patternFunc{
	PatternBrick:   brickPattern,
	PatternChecker: checkerPattern,
	PatternStripes: stripesPattern,
	PatternSolid:   solidPattern,
	PatternLight:   lightPattern,
	PatternPillar:  pillarPattern,
	PatternBarrel:  barrelPattern,
}

type rgb struct{ r, g, b int }

func (c rgb) scale(num, den int) rgb {
	return rgb{c.r * num / den, c.g * num / den, c.b * num / den}
}

func (c rgb) pack() uint32 {
	return Pack(channel(c.r), channel(c.g), channel(c.b), 0xFF)
}

func channel(v int) uint8 {
	return uint8(mathutil.IntClamp(v, 0, 255))
}

var transparent = rgb{}

// GeneratePattern renders the named pattern at the given size using color as
// the base RGB colour.
func GeneratePattern(name string, size int, color [3]int) (*Texture, error) {
	fn, ok := patterns[name]
	if !ok {
		return nil, fmt.Errorf("unknown texture pattern %q", name)
	}
	if !mathutil.IsPowerOfTwo(size) {
		return nil, fmt.Errorf("texture size %d is not a power of two", size)
	}

	base := rgb{color[0], color[1], color[2]}
	if base == transparent {
		base = rgb{128, 128, 128}
	}

	pix := make([]uint32, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			pix[y*size+x] = fn(x, y, size, base).pack()
		}
	}
	return NewTexture(size, pix)
}

// IsPattern reports whether name is a known procedural pattern.
func IsPattern(name string) bool {
	_, ok := patterns[name]
	return ok
}

func brickPattern(x, y, size int, base rgb) rgb {
	brickH := mathutil.IntMax(size/4, 1)
	brickW := mathutil.IntMax(size/2, 1)
	row := y / brickH
	offset := 0
	if row%2 == 1 {
		offset = brickW / 2
	}
	if y%brickH == 0 || (x+offset)%brickW == 0 {
		return rgb{180, 180, 170} // mortar
	}
	// Slight per-brick shading.
	brick := (x + offset) / brickW
	return base.scale(8+(row+brick)%3, 10)
}

func checkerPattern(x, y, size int, base rgb) rgb {
	cell := mathutil.IntMax(size/8, 1)
	if (x/cell+y/cell)%2 == 0 {
		return base
	}
	return base.scale(1, 2)
}

func stripesPattern(x, y, size int, base rgb) rgb {
	band := mathutil.IntMax(size/8, 1)
	if (x/band)%2 == 0 {
		return base
	}
	return base.scale(3, 4)
}

func solidPattern(x, y, size int, base rgb) rgb {
	return base
}

// lightPattern is a filled disc brightening toward its centre.
func lightPattern(x, y, size int, base rgb) rgb {
	c := size / 2
	r := size / 4
	dx, dy := x-c, y-c
	d2 := dx*dx + dy*dy
	if d2 > r*r {
		return transparent
	}
	return base.scale(2*r*r-d2, r*r)
}

// pillarPattern is a vertical column with a wider base and capital.
func pillarPattern(x, y, size int, base rgb) rgb {
	c := size / 2
	half := size / 8
	if y < size/8 || y >= size-size/8 {
		half = size / 5
	}
	dx := mathutil.IntAbs(x - c)
	if dx > half {
		return transparent
	}
	return base.scale(10-3*dx/mathutil.IntMax(half, 1), 10)
}

// barrelPattern is a rounded body in the lower half with dark hoops.
func barrelPattern(x, y, size int, base rgb) rgb {
	top := size / 2
	if y < top {
		return transparent
	}
	c := size / 2
	bodyH := size - top
	// Widest in the middle of the body.
	mid := top + bodyH/2
	half := size/5 + (bodyH/2-mathutil.IntAbs(y-mid))*size/(8*mathutil.IntMax(bodyH, 1))
	if mathutil.IntAbs(x-c) > half {
		return transparent
	}
	hoop := mathutil.IntMax(bodyH/4, 1)
	if (y-top)%hoop == 0 {
		return base.scale(2, 5)
	}
	return base
}
