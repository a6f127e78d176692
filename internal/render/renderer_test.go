package render

import (
	"math"
	"math/rand"
	"testing"

	"raycaster/internal/graphics"
	"raycaster/internal/mathutil"
	"raycaster/internal/player"
	"raycaster/internal/sprites"
	"raycaster/internal/threading/core"
	"raycaster/internal/threading/monitoring"
	"raycaster/internal/world"
)

const (
	testW   = 64
	testH   = 48
	texSize = 8
)

var (
	blue   = [3]int{0, 0, 200}
	red    = [3]int{200, 0, 0}
	green  = [3]int{0, 200, 0}
	yellow = [3]int{200, 200, 0}
)

func solidTable(t *testing.T, colors ...[3]int) *graphics.Table {
	t.Helper()
	table := graphics.NewTable(texSize)
	for _, c := range colors {
		tex, err := graphics.GeneratePattern(graphics.PatternSolid, texSize, c)
		if err != nil {
			t.Fatalf("GeneratePattern: %v", err)
		}
		if err := table.Add(tex); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	return table
}

func packed(c [3]int) uint32 {
	return graphics.Pack(uint8(c[0]), uint8(c[1]), uint8(c[2]), 0xFF)
}

func darkened(c [3]int) uint32 {
	return graphics.Pack(uint8(c[0]/2), uint8(c[1]/2), uint8(c[2]/2), 0xFF)
}

// room returns an enclosed w x h grid with material m on the border.
func room(w, h, m int) [][]int {
	rows := make([][]int, h)
	for y := range rows {
		rows[y] = make([]int, w)
		for x := range rows[y] {
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				rows[y][x] = m
			}
		}
	}
	return rows
}

func mustGrid(t *testing.T, rows [][]int) *world.Grid {
	t.Helper()
	g, err := world.NewGrid(rows)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

func newRenderer(t *testing.T, table *graphics.Table, pool *core.WorkerPool) *Renderer {
	t.Helper()
	r, err := New(Options{Width: testW, Height: testH, ClearColor: 0xFF101010}, table, pool, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func vec(x, y float64) mathutil.Vec2 { return mathutil.Vec2{X: x, Y: y} }

func TestCastRayAxisAligned(t *testing.T) {
	grid := mustGrid(t, room(5, 5, 3))
	pos := vec(2.5, 2.5)

	tests := []struct {
		name string
		ray  mathutil.Vec2
		cell mathutil.Vec2i
		side bool
	}{
		{"east", vec(1, 0), mathutil.Vec2i{X: 4, Y: 2}, false},
		{"west", vec(-1, 0), mathutil.Vec2i{X: 0, Y: 2}, false},
		{"south", vec(0, 1), mathutil.Vec2i{X: 2, Y: 4}, true},
		{"north", vec(0, -1), mathutil.Vec2i{X: 2, Y: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := CastRay(grid, pos, tt.ray)
			if hit.Escaped {
				t.Fatal("ray escaped")
			}
			if hit.Cell != tt.cell || hit.Side != tt.side {
				t.Errorf("hit cell %v side %v, want %v side %v", hit.Cell, hit.Side, tt.cell, tt.side)
			}
			if hit.Perp != 1.5 {
				t.Errorf("Perp = %v, want 1.5", hit.Perp)
			}
			if hit.Material != 3 {
				t.Errorf("Material = %d, want 3", hit.Material)
			}
		})
	}
}

func TestCastRayTieAdvancesX(t *testing.T) {
	rows := room(4, 4, 1)
	rows[1][2] = 5 // (2,1)
	rows[2][1] = 6 // (1,2)
	grid := mustGrid(t, rows)

	hit := CastRay(grid, vec(1.5, 1.5), vec(1, 1))
	if hit.Cell != (mathutil.Vec2i{X: 2, Y: 1}) || hit.Side {
		t.Errorf("equal side distances should step X first, hit %v side %v", hit.Cell, hit.Side)
	}
	if hit.Material != 5 {
		t.Errorf("Material = %d, want 5", hit.Material)
	}
}

func TestCastRayLeavingGridStops(t *testing.T) {
	grid := mustGrid(t, [][]int{{0, 0}, {0, 0}})
	hit := CastRay(grid, vec(1, 1), vec(1, 0.3))
	if hit.Escaped || hit.Material == world.Empty {
		t.Fatalf("ray leaving an open grid should stop on its edge, got %+v", hit)
	}
	if hit.Cell.X != 2 {
		t.Errorf("hit cell %v, want x = 2", hit.Cell)
	}
}

func TestCastRayTerminatesOnEnclosedMap(t *testing.T) {
	grid := world.DefaultGrid()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 5000; i++ {
		var cell mathutil.Vec2i
		for {
			cell = mathutil.Vec2i{X: rng.Intn(grid.Width()), Y: rng.Intn(grid.Height())}
			if grid.IsPassable(cell) {
				break
			}
		}
		pos := vec(float64(cell.X)+rng.Float64(), float64(cell.Y)+rng.Float64())

		ray := vec(1, 0).Rotate(rng.Float64() * 2 * math.Pi)
		switch i % 10 {
		case 0:
			ray = vec(0, ray.Y)
		case 1:
			ray = vec(ray.X, 0)
		}

		hit := CastRay(grid, pos, ray)
		if hit.Escaped {
			t.Fatalf("ray from %v along %v escaped", pos, ray)
		}
		if hit.Material == world.Empty || grid.SolidityAt(hit.Cell) != hit.Material {
			t.Fatalf("ray from %v along %v stopped on %v (material %d)", pos, ray, hit.Cell, hit.Material)
		}
		if hit.Perp < 0 || math.IsInf(hit.Perp, 0) || math.IsNaN(hit.Perp) {
			t.Fatalf("ray from %v along %v has distance %v", pos, ray, hit.Perp)
		}
	}
}

func TestFlatWallHasUniformDepth(t *testing.T) {
	grid := mustGrid(t, room(12, 40, 1))
	p := player.New(vec(2.5, 20.5), vec(1, 0), 1.0)
	r := newRenderer(t, solidTable(t, blue), nil)

	r.Render(grid, p, nil)

	for x, d := range r.Depth() {
		if d != 8.5 {
			t.Fatalf("column %d depth %v, want 8.5", x, d)
		}
	}
}

func TestSquareRoomFacingWall(t *testing.T) {
	dirs := []mathutil.Vec2{vec(1, 0), vec(0, 1), vec(-1, 0), vec(0, -1)}

	for _, n := range []int{5, 8, 11} {
		grid := mustGrid(t, room(n, n, 1))
		centre := float64(n) / 2
		// Every inner wall face is one cell closer than the border line.
		want := centre - 1

		for _, dir := range dirs {
			p := player.New(vec(centre, centre), dir, 1.0)
			r := newRenderer(t, solidTable(t, blue), nil)
			r.Render(grid, p, nil)

			for x, d := range r.Depth() {
				if !mathutil.ApproxEqual(d, want, 1e-9) {
					t.Fatalf("n=%d dir=%v column %d depth %v, want %v", n, dir, x, d, want)
				}
			}
		}
	}
}

func TestWallShadingBySide(t *testing.T) {
	grid := mustGrid(t, room(11, 11, 1))
	table := solidTable(t, blue)

	facingX := player.New(vec(5.5, 5.5), vec(1, 0), 1.0)
	r := newRenderer(t, table, nil)
	r.Render(grid, facingX, nil)
	if got := r.Frame().At(testW/2, testH/2); got != packed(blue) {
		t.Errorf("X-side wall pixel %#x, want %#x", got, packed(blue))
	}

	facingY := player.New(vec(5.5, 5.5), vec(0, 1), 1.0)
	r.Render(grid, facingY, nil)
	if got := r.Frame().At(testW/2, testH/2); got != darkened(blue) {
		t.Errorf("Y-side wall pixel %#x, want %#x", got, darkened(blue))
	}
}

func TestFloorAndCeilingUseDarkenedTextures(t *testing.T) {
	grid := mustGrid(t, room(12, 40, 1))
	table := solidTable(t, blue, red, green, yellow)
	r, err := New(Options{Width: testW, Height: testH, FloorTexture: 2, CeilingTexture: 3}, table, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	r.Render(grid, player.New(vec(2.5, 20.5), vec(1, 0), 1.0), nil)

	for x := 0; x < testW; x++ {
		if got := r.Frame().At(x, testH-1); got != darkened(green) {
			t.Fatalf("floor pixel (%d,%d) = %#x, want %#x", x, testH-1, got, darkened(green))
		}
		if got := r.Frame().At(x, 0); got != darkened(yellow) {
			t.Fatalf("ceiling pixel (%d,0) = %#x, want %#x", x, got, darkened(yellow))
		}
	}
}

func TestRenderOverwritesWholeFrame(t *testing.T) {
	for _, h := range []int{1, 2, 5, testH} {
		r, err := New(Options{Width: 16, Height: h, ClearColor: 0x202020}, solidTable(t, blue), nil, nil)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		// Alpha zero marks pixels no pass has written.
		for i := range r.frame.pix {
			r.frame.pix[i] = 0x00ABCDEF
		}

		r.Render(world.DefaultGrid(), player.New(vec(22, 11.5), vec(-1, 0), 0.66), nil)

		for y := 0; y < h; y++ {
			for x := 0; x < 16; x++ {
				if c := r.Frame().At(x, y); c>>24 != 0xFF {
					t.Fatalf("h=%d: pixel (%d,%d) not written (%#x)", h, x, y, c)
				}
			}
		}
	}
}

func TestSpriteDrawnInFrontOfWall(t *testing.T) {
	grid := mustGrid(t, room(12, 40, 1))
	r := newRenderer(t, solidTable(t, blue, red), nil)
	p := player.New(vec(2.5, 20.5), vec(1, 0), 1.0)
	set := sprites.NewSet([]sprites.Sprite{{Pos: vec(6.5, 20.5), TextureID: 1}})

	r.Render(grid, p, set)

	if got := r.Frame().At(testW/2, testH/2); got != packed(red) {
		t.Errorf("centre pixel %#x, want sprite colour %#x", got, packed(red))
	}
}

func TestSpriteOccludedByWall(t *testing.T) {
	rows := room(12, 40, 1)
	for y := 15; y <= 25; y++ {
		rows[y][5] = 1
	}
	grid := mustGrid(t, rows)
	r := newRenderer(t, solidTable(t, blue, red), nil)

	tests := []struct {
		name string
		pos  mathutil.Vec2
	}{
		{"behind wall", vec(7.5, 20.5)},
		{"behind camera", vec(1.5, 20.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := player.New(vec(2.5, 20.5), vec(1, 0), 1.0)
			r.Render(grid, p, sprites.NewSet([]sprites.Sprite{{Pos: tt.pos, TextureID: 1}}))

			for y := 0; y < testH; y++ {
				for x := 0; x < testW; x++ {
					if r.Frame().At(x, y) == packed(red) {
						t.Fatalf("sprite pixel visible at (%d,%d)", x, y)
					}
				}
			}
		})
	}
}

func TestBlackSpriteTexelsAreTransparent(t *testing.T) {
	grid := mustGrid(t, room(12, 40, 1))
	table := solidTable(t, blue)
	black := make([]uint32, texSize*texSize)
	for i := range black {
		black[i] = 0xFF000000
	}
	tex, err := graphics.NewTexture(texSize, black)
	if err != nil {
		t.Fatal(err)
	}
	if err := table.Add(tex); err != nil {
		t.Fatal(err)
	}

	p := player.New(vec(2.5, 20.5), vec(1, 0), 1.0)
	plain := newRenderer(t, table, nil)
	plain.Render(grid, p, nil)

	withSprite := newRenderer(t, table, nil)
	withSprite.Render(grid, p, sprites.NewSet([]sprites.Sprite{{Pos: vec(5.5, 20.5), TextureID: 1}}))

	for y := 0; y < testH; y++ {
		for x := 0; x < testW; x++ {
			if plain.Frame().At(x, y) != withSprite.Frame().At(x, y) {
				t.Fatalf("transparent sprite changed pixel (%d,%d)", x, y)
			}
		}
	}
}

func TestSpritesDrawFarthestFirst(t *testing.T) {
	grid := mustGrid(t, room(12, 40, 1))
	r := newRenderer(t, solidTable(t, blue, red, green), nil)
	p := player.New(vec(2.5, 20.5), vec(1, 0), 1.0)
	// Listed near first; the near green sprite must still end up on top.
	set := sprites.NewSet([]sprites.Sprite{
		{Pos: vec(5.5, 20.5), TextureID: 2},
		{Pos: vec(8.5, 20.5), TextureID: 1},
	})

	r.Render(grid, p, set)

	if got := r.Frame().At(testW/2, testH/2); got != packed(green) {
		t.Errorf("centre pixel %#x, want nearest sprite %#x", got, packed(green))
	}
}

func TestMaterialBeyondTableFallsBackToFirstTexture(t *testing.T) {
	table := solidTable(t, blue, red)
	p := player.New(vec(5.5, 5.5), vec(1, 0), 1.0)

	known := newRenderer(t, table, nil)
	known.Render(mustGrid(t, room(11, 11, 1)), p, nil)

	unknown := newRenderer(t, table, nil)
	unknown.Render(mustGrid(t, room(11, 11, 9)), p, nil)

	for y := 0; y < testH; y++ {
		for x := 0; x < testW; x++ {
			if known.Frame().At(x, y) != unknown.Frame().At(x, y) {
				t.Fatalf("pixel (%d,%d) differs: material 9 should draw texture 0", x, y)
			}
		}
	}
}

func TestParallelRenderMatchesSequential(t *testing.T) {
	table := solidTable(t, blue, red, green, yellow)
	for i := 0; i < 7; i++ {
		tex, err := graphics.GeneratePattern(graphics.PatternBrick, texSize, [3]int{40 * i, 255 - 30*i, 90})
		if err != nil {
			t.Fatal(err)
		}
		if err := table.Add(tex); err != nil {
			t.Fatal(err)
		}
	}
	grid := world.DefaultGrid()
	set := func() *sprites.Set {
		return sprites.NewSet([]sprites.Sprite{
			{Pos: vec(20.5, 11.5), TextureID: 8},
			{Pos: vec(18.5, 10.5), TextureID: 9},
			{Pos: vec(10.0, 15.1), TextureID: 10},
		})
	}

	pool := core.NewWorkerPool(4)
	pool.Start()
	defer pool.Stop()

	opts := Options{Width: 97, Height: 61, FloorTexture: 3, CeilingTexture: 6}
	seq, err := New(opts, table, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	par, err := New(opts, table, pool, monitoring.NewPerformanceMonitor())
	if err != nil {
		t.Fatal(err)
	}

	p := player.New(vec(22, 11.5), vec(-1, 0), 0.66)
	for frame := 0; frame < 8; frame++ {
		seq.Render(grid, p, set())
		par.Render(grid, p, set())

		for x := 0; x < opts.Width; x++ {
			if seq.Depth().At(x) != par.Depth().At(x) {
				t.Fatalf("frame %d: depth %d differs", frame, x)
			}
			for y := 0; y < opts.Height; y++ {
				if seq.Frame().At(x, y) != par.Frame().At(x, y) {
					t.Fatalf("frame %d: pixel (%d,%d) differs", frame, x, y)
				}
			}
		}
		p.Rotate(0.3)
	}
}

func TestRenderRecordsMetrics(t *testing.T) {
	mon := monitoring.NewPerformanceMonitor()
	r, err := New(Options{Width: testW, Height: testH}, solidTable(t, blue, red), nil, mon)
	if err != nil {
		t.Fatal(err)
	}
	p := player.New(vec(2.5, 20.5), vec(1, 0), 1.0)
	r.Render(mustGrid(t, room(12, 40, 1)), p, sprites.NewSet([]sprites.Sprite{{Pos: vec(6.5, 20.5), TextureID: 1}}))

	stats := mon.GetDetailedStats()
	if stats["frame_count"].(uint64) != 1 {
		t.Errorf("frame_count = %v, want 1", stats["frame_count"])
	}
	if stats["columns_cast"].(uint64) != testW {
		t.Errorf("columns_cast = %v, want %d", stats["columns_cast"], testW)
	}
	if stats["sprites_drawn"].(uint64) != 1 {
		t.Errorf("sprites_drawn = %v, want 1", stats["sprites_drawn"])
	}
}

func TestNewRejectsBadOptions(t *testing.T) {
	table := solidTable(t, blue, red)
	tests := []struct {
		name  string
		opts  Options
		table *graphics.Table
	}{
		{"zero width", Options{Width: 0, Height: 10}, table},
		{"negative height", Options{Width: 10, Height: -1}, table},
		{"nil table", Options{Width: 10, Height: 10}, nil},
		{"empty table", Options{Width: 10, Height: 10}, graphics.NewTable(texSize)},
		{"floor out of range", Options{Width: 10, Height: 10, FloorTexture: 2}, table},
		{"ceiling out of range", Options{Width: 10, Height: 10, CeilingTexture: -1}, table},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts, tt.table, nil, nil); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFramebufferRGBA(t *testing.T) {
	fb := NewFramebuffer(2, 1)
	fb.Set(0, 0, 0x00112233)
	fb.Set(1, 0, 0x80AABBCC)

	want := []byte{0x11, 0x22, 0x33, 0xFF, 0xAA, 0xBB, 0xCC, 0xFF}
	got := fb.RGBA()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("RGBA() = %v, want %v", got, want)
		}
	}

	fb.Fill(0x010203)
	if fb.At(1, 0) != 0xFF010203 {
		t.Errorf("Fill: got %#x", fb.At(1, 0))
	}
}

func TestNewFrameStartsWithClearColour(t *testing.T) {
	r := newRenderer(t, solidTable(t, blue), nil)
	for y := 0; y < testH; y++ {
		for x := 0; x < testW; x++ {
			if got := r.Frame().At(x, y); got != 0xFF101010 {
				t.Fatalf("pixel (%d,%d) = %#x before the first Render, want the clear colour", x, y, got)
			}
		}
	}
}

// gradientTable holds one texture whose red channel encodes u and green
// channel encodes v, so texel coordinates can be read back from the frame.
func gradientTable(t *testing.T) *graphics.Table {
	t.Helper()
	pix := make([]uint32, texSize*texSize)
	for v := 0; v < texSize; v++ {
		for u := 0; u < texSize; u++ {
			pix[v*texSize+u] = graphics.Pack(uint8(32*u+16), uint8(32*v+16), 0x80, 0xFF)
		}
	}
	tex, err := graphics.NewTexture(texSize, pix)
	if err != nil {
		t.Fatalf("NewTexture: %v", err)
	}
	table := graphics.NewTable(texSize)
	if err := table.Add(tex); err != nil {
		t.Fatalf("Add: %v", err)
	}
	return table
}

// texelOf decodes the (u, v) of an undarkened gradient pixel.
func texelOf(c uint32) (u, v int) {
	r, g, _, _ := graphics.Unpack(c)
	return int(r) / 32, int(g) / 32
}

func TestWallTextureCoordinates(t *testing.T) {
	grid := mustGrid(t, room(11, 11, 1))
	table := gradientTable(t)
	// The wall face is 4.5 away, so every column draws rows [19, 29).
	const top, bottom = 19, 29

	render := func(dir mathutil.Vec2) *Framebuffer {
		r := newRenderer(t, table, nil)
		r.Render(grid, player.New(vec(5.5, 5.5), dir, 1.0), nil)
		return r.Frame()
	}
	east := render(vec(1, 0))
	west := render(vec(-1, 0))

	// Column 0 looks exactly into a corner; start at 1.
	for y := top; y < bottom; y++ {
		_, want := texelOf(east.At(1, y))
		for x := 1; x < testW; x++ {
			if _, v := texelOf(east.At(x, y)); v != want {
				t.Fatalf("row %d: column %d has v=%d, column 1 has v=%d", y, x, v, want)
			}
		}
	}
	if _, v := texelOf(east.At(1, top)); v != 0 {
		t.Errorf("top wall row v=%d, want 0", v)
	}
	if _, v := texelOf(east.At(1, bottom-1)); v != texSize-1 {
		t.Errorf("bottom wall row v=%d, want %d", v, texSize-1)
	}

	tests := []struct {
		x, u int
	}{
		{1, 1}, {5, 5}, {7, 7}, {9, 2}, {20, 6}, {33, 5}, {63, 6},
	}
	for _, tt := range tests {
		if u, _ := texelOf(east.At(tt.x, top)); u != tt.u {
			t.Errorf("east wall column %d u=%d, want %d", tt.x, u, tt.u)
		}
	}

	seen := map[int]bool{}
	for x := 1; x < testW; x++ {
		u, _ := texelOf(east.At(x, top))
		seen[u] = true
		// Columns on a multiple of 8 land exactly on a texel edge, where the
		// flipped east wall rounds down one texel.
		if x%8 == 0 {
			continue
		}
		// The east wall's u is flipped, so both walls read left to right on
		// screen even though their world coordinates run opposite ways.
		if wu, _ := texelOf(west.At(x, top)); wu != u {
			t.Errorf("column %d: west wall u=%d, east wall u=%d", x, wu, u)
		}
	}
	if len(seen) != texSize {
		t.Errorf("wall shows %d distinct u values, want %d", len(seen), texSize)
	}
}

func TestFloorTextureCoordinates(t *testing.T) {
	grid := mustGrid(t, room(11, 11, 1))
	table := gradientTable(t)
	r := newRenderer(t, table, nil)
	r.Render(grid, player.New(vec(5.5, 5.5), vec(1, 0), 1.0), nil)

	// Bottom row: rowDistance d = 24/23. The row runs from pos+(1,1)*d to
	// pos+(1,-1)*d, so column x samples (6.543, 5.5+d*(1-x/32)).
	tests := []struct {
		x, u, v int
	}{
		{16, 4, 0}, // (6.543, 6.022)
		{40, 4, 1}, // (6.543, 5.239)
		{48, 4, 7}, // (6.543, 4.978)
	}
	dark := table.Dark(0)
	for _, tt := range tests {
		want := dark.At(tt.u, tt.v)
		if got := r.Frame().At(tt.x, testH-1); got != want {
			t.Errorf("floor (%d,%d) = %#x, want texel (%d,%d) %#x", tt.x, testH-1, got, tt.u, tt.v, want)
		}
		if got := r.Frame().At(tt.x, 0); got != want {
			t.Errorf("ceiling (%d,0) = %#x, want texel (%d,%d) %#x", tt.x, got, tt.u, tt.v, want)
		}
	}
}

func TestSpriteTextureCoordinates(t *testing.T) {
	grid := mustGrid(t, room(11, 11, 1))
	table := gradientTable(t)
	tex := table.Texture(0)

	tests := []struct {
		name string
		pos  mathutil.Vec2
		left int // screen column of the sprite's u = 0 edge
	}{
		// Straight ahead at depth 3: 16 pixels wide, centred on column 32.
		{"centred", vec(8.5, 5.5), 24},
		// Along column 0's ray: the left half is off screen.
		{"left edge", vec(8.5, 8.5), -8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRenderer(t, table, nil)
			r.Render(grid, player.New(vec(5.5, 5.5), vec(1, 0), 1.0), sprites.NewSet([]sprites.Sprite{{Pos: tt.pos}}))

			for x := mathutil.IntMax(0, tt.left); x < tt.left+16; x++ {
				for y := 16; y < 32; y++ {
					want := tex.At((x-tt.left)/2, (y-16)/2)
					if got := r.Frame().At(x, y); got != want {
						t.Fatalf("sprite pixel (%d,%d) = %#x, want %#x", x, y, got, want)
					}
				}
			}
		})
	}
}
