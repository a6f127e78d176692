package graphics

import (
	"fmt"
	"image"

	"raycaster/internal/mathutil"
)

// Pixels are packed 0xAARRGGBB.
const (
	alphaMask = 0xFF000000
	colorMask = 0x00FFFFFF
)

// Texture is a square power-of-two image. Coordinates wrap, so any integer
// u, v addresses a texel.
type Texture struct {
	size int
	mask int
	pix  []uint32
}

// NewTexture wraps size*size packed pixels laid out row by row.
func NewTexture(size int, pix []uint32) (*Texture, error) {
	if !mathutil.IsPowerOfTwo(size) {
		return nil, fmt.Errorf("texture size %d is not a power of two", size)
	}
	if len(pix) != size*size {
		return nil, fmt.Errorf("texture of size %d needs %d pixels, got %d", size, size*size, len(pix))
	}
	return &Texture{size: size, mask: size - 1, pix: pix}, nil
}

// FromImage converts a decoded image into a texture. The image must be square
// with a power-of-two side.
func FromImage(img image.Image) (*Texture, error) {
	b := img.Bounds()
	if b.Dx() != b.Dy() {
		return nil, fmt.Errorf("texture must be square, got %dx%d", b.Dx(), b.Dy())
	}

	size := b.Dx()
	pix := make([]uint32, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r, g, bl, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			pix[y*size+x] = Pack(uint8(r>>8), uint8(g>>8), uint8(bl>>8), uint8(a>>8))
		}
	}
	return NewTexture(size, pix)
}

// Size returns the side length in texels.
func (t *Texture) Size() int { return t.size }

// At returns the texel at (u, v), wrapped into range.
func (t *Texture) At(u, v int) uint32 {
	return t.pix[(v&t.mask)*t.size+(u&t.mask)]
}

// Darken returns a copy with every colour channel halved.
func (t *Texture) Darken() *Texture {
	pix := make([]uint32, len(t.pix))
	for i, c := range t.pix {
		// Shifting the whole word right drops each channel's low bit into the
		// channel below; masking with 0x7F per byte discards it.
		pix[i] = c&alphaMask | (c>>1)&0x007F7F7F
	}
	return &Texture{size: t.size, mask: t.mask, pix: pix}
}

// Pack builds a 0xAARRGGBB pixel.
func Pack(r, g, b, a uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// Unpack splits a 0xAARRGGBB pixel into channels.
func Unpack(c uint32) (r, g, b, a uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c), uint8(c >> 24)
}

// IsOpaque reports whether a sprite texel should be drawn: any non-zero colour
// channel counts, the alpha channel is ignored.
func IsOpaque(c uint32) bool {
	return c&colorMask != 0
}

// Table holds the wall, floor, ceiling and sprite textures by id together with
// their darkened variants. It is read-only once loading finishes.
type Table struct {
	size   int
	normal []*Texture
	dark   []*Texture
}

// NewTable creates an empty table for textures of the given size.
func NewTable(size int) *Table {
	return &Table{size: size}
}

// Add appends a texture and derives its darkened variant.
func (t *Table) Add(tex *Texture) error {
	if tex.Size() != t.size {
		return fmt.Errorf("texture size %d does not match table size %d", tex.Size(), t.size)
	}
	t.normal = append(t.normal, tex)
	t.dark = append(t.dark, tex.Darken())
	return nil
}

// Len returns the number of textures.
func (t *Table) Len() int { return len(t.normal) }

// Size returns the side length shared by every texture.
func (t *Table) Size() int { return t.size }

// Texture returns texture id, or texture 0 when id is out of range.
func (t *Table) Texture(id int) *Texture {
	return t.normal[t.clamp(id)]
}

// Dark returns the darkened variant of texture id, with the same fallback.
func (t *Table) Dark(id int) *Texture {
	return t.dark[t.clamp(id)]
}

// Has reports whether id addresses a loaded texture.
func (t *Table) Has(id int) bool {
	return id >= 0 && id < len(t.normal)
}

func (t *Table) clamp(id int) int {
	if !t.Has(id) {
		return 0
	}
	return id
}
