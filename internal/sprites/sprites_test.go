package sprites

import (
	"testing"

	"raycaster/internal/mathutil"
)

func TestSortByDistanceFarthestFirst(t *testing.T) {
	viewer := mathutil.Vec2{X: 0, Y: 0}
	set := NewSet([]Sprite{
		{Pos: mathutil.Vec2{X: 1, Y: 0}, TextureID: 1},
		{Pos: mathutil.Vec2{X: 0, Y: 5}, TextureID: 5},
		{Pos: mathutil.Vec2{X: -3, Y: 0}, TextureID: 3},
	})

	set.SortByDistance(viewer)

	want := []int{5, 3, 1}
	for i, sp := range set.Sprites() {
		if sp.TextureID != want[i] {
			t.Fatalf("position %d: got sprite %d, want %d", i, sp.TextureID, want[i])
		}
	}
	if d := set.Sprites()[0].Distance; d != 25 {
		t.Errorf("expected squared distance 25, got %g", d)
	}
}

func TestSortByDistanceIsStable(t *testing.T) {
	set := NewSet([]Sprite{
		{Pos: mathutil.Vec2{X: 2, Y: 0}, TextureID: 1},
		{Pos: mathutil.Vec2{X: 0, Y: 2}, TextureID: 2},
		{Pos: mathutil.Vec2{X: -2, Y: 0}, TextureID: 3},
	})
	set.SortByDistance(mathutil.Vec2{})

	for i, sp := range set.Sprites() {
		if sp.TextureID != i+1 {
			t.Fatalf("equal distances reordered: %+v", set.Sprites())
		}
	}
}

func TestSortTracksViewer(t *testing.T) {
	set := NewSet(nil)
	set.Add(Sprite{Pos: mathutil.Vec2{X: 1, Y: 1}, TextureID: 1})
	set.Add(Sprite{Pos: mathutil.Vec2{X: 9, Y: 1}, TextureID: 2})

	set.SortByDistance(mathutil.Vec2{X: 0, Y: 1})
	if set.Sprites()[0].TextureID != 2 {
		t.Fatal("expected sprite 2 first when standing near sprite 1")
	}

	set.SortByDistance(mathutil.Vec2{X: 10, Y: 1})
	if set.Sprites()[0].TextureID != 1 {
		t.Fatal("expected sprite 1 first after walking past sprite 2")
	}
	if set.Len() != 2 {
		t.Fatalf("expected 2 sprites, got %d", set.Len())
	}
}
