package sprites

import (
	"sort"

	"raycaster/internal/mathutil"
)

// Sprite is a camera-facing billboard placed in the world.
type Sprite struct {
	Pos       mathutil.Vec2
	TextureID int

	// Distance is the squared distance to the viewer, refreshed by
	// SortByDistance. It means nothing outside the frame that computed it.
	Distance float64
}

// Set is an ordered collection of sprites.
type Set struct {
	sprites []Sprite
}

// NewSet creates a set holding a copy of sprites.
func NewSet(sprites []Sprite) *Set {
	return &Set{sprites: append([]Sprite(nil), sprites...)}
}

// Add appends a sprite.
func (s *Set) Add(sp Sprite) {
	s.sprites = append(s.sprites, sp)
}

// Len returns the number of sprites.
func (s *Set) Len() int { return len(s.sprites) }

// Sprites returns the sprites in their current order. The slice is owned by
// the set; callers must not keep it across frames.
func (s *Set) Sprites() []Sprite { return s.sprites }

// SortByDistance recomputes every sprite's squared distance to viewer and
// orders the set farthest first, keeping the relative order of equal
// distances.
func (s *Set) SortByDistance(viewer mathutil.Vec2) {
	for i := range s.sprites {
		s.sprites[i].Distance = viewer.Sub(s.sprites[i].Pos).SquaredNorm()
	}
	sort.SliceStable(s.sprites, func(i, j int) bool {
		return s.sprites[i].Distance > s.sprites[j].Distance
	})
}
