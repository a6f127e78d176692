// Command mapview shows the grid maps in a directory from above, with the
// start pose, sprites and the view cone a player would see from the start.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"raycaster/internal/config"
	"raycaster/internal/graphics"
	"raycaster/internal/mathutil"
)

const (
	windowWidth  = 1200
	windowHeight = 800
	sidebarWidth = 300
	coneRays     = 48
)

type viewer struct {
	cfg      *config.Config
	maps     []mapInfo
	mapIndex int
	colors   []color.RGBA
	showCone bool
	lastErr  string
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration")
	dir := flag.String("dir", filepath.Join("assets", "maps"), "directory of .map files")
	flag.Parse()

	ensureRuntimeCWD(*configPath)

	cfg := config.MustLoadConfig(*configPath)

	table, err := graphics.LoadTable(cfg.Textures)
	if err != nil {
		log.Fatalf("Failed to load textures: %v", err)
	}

	maps, err := loadMaps(*dir)
	v := &viewer{
		cfg:      cfg,
		maps:     maps,
		colors:   materialColors(table),
		showCone: true,
	}
	if err != nil {
		log.Printf("Warning: %v", err)
		v.lastErr = err.Error()
	}

	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("Raycaster Map Viewer")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(v); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		v.showCone = !v.showCone
	}

	if len(v.maps) == 0 {
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) || inpututil.IsKeyJustPressed(ebiten.KeyD) {
		v.mapIndex = (v.mapIndex + 1) % len(v.maps)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) || inpututil.IsKeyJustPressed(ebiten.KeyA) {
		v.mapIndex = (v.mapIndex - 1 + len(v.maps)) % len(v.maps)
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{15, 15, 22, 255})

	if len(v.maps) == 0 {
		msg := v.lastErr
		if msg == "" {
			msg = "no maps loaded"
		}
		ebitenutil.DebugPrintAt(screen, msg, 16, 16)
		return
	}

	m := v.maps[v.mapIndex]
	if m.Err != nil {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("map %s failed to load: %v", m.Path, m.Err), 16, 16)
		return
	}

	screenW, screenH := screen.Bounds().Dx(), screen.Bounds().Dy()

	padding := 16
	mapAreaW := screenW - sidebarWidth - padding*3
	mapAreaH := screenH - padding*2
	sidebarX := padding + mapAreaW + padding

	v.drawMapPanel(screen, m, padding, padding, mapAreaW, mapAreaH)
	v.drawSidebar(screen, m, sidebarX, padding, sidebarWidth, mapAreaH)
}

func (v *viewer) Layout(_, _ int) (int, int) {
	return windowWidth, windowHeight
}

func (v *viewer) drawMapPanel(screen *ebiten.Image, m mapInfo, x, y, w, h int) {
	drawFilledRect(screen, x, y, w, h, color.RGBA{20, 20, 35, 255})
	drawRectBorder(screen, x, y, w, h, 2, color.RGBA{70, 70, 90, 255})

	grid := m.Data.Grid
	worldW, worldH := grid.Width(), grid.Height()

	tileSize := mathutil.IntMax(mathutil.IntMin(w/worldW, h/worldH), 2)
	originX := x + (w-worldW*tileSize)/2
	originY := y + (h-worldH*tileSize)/2

	for ty := 0; ty < worldH; ty++ {
		for tx := 0; tx < worldW; tx++ {
			c := cellColor(v.colors, grid.At(tx, ty))
			drawFilledRect(screen, originX+tx*tileSize, originY+ty*tileSize, tileSize, tileSize, c)
		}
	}

	toScreen := func(p mathutil.Vec2) (float32, float32) {
		return float32(float64(originX) + p.X*float64(tileSize)),
			float32(float64(originY) + p.Y*float64(tileSize))
	}

	start, dir := v.startPose(m)
	if v.showCone {
		sx, sy := toScreen(start)
		for _, hit := range viewCone(grid, start, dir, v.cfg.GetFOV(), coneRays) {
			hx, hy := toScreen(hit)
			vector.StrokeLine(screen, sx, sy, hx, hy, 1, color.RGBA{255, 240, 120, 120}, true)
		}
	}

	for _, s := range m.Data.SpriteSpawns {
		cx, cy := toScreen(mathutil.Vec2{X: float64(s.X) + 0.5, Y: float64(s.Y) + 0.5})
		vector.DrawFilledCircle(screen, cx, cy, float32(tileSize)*0.3, color.RGBA{230, 80, 80, 255}, true)
	}

	cx, cy := toScreen(start)
	radius := float32(tileSize) * 0.35
	vector.DrawFilledCircle(screen, cx, cy, radius, color.RGBA{50, 200, 255, 255}, true)
	vector.StrokeCircle(screen, cx, cy, radius, 1, color.RGBA{255, 255, 255, 255}, true)

	ebitenutil.DebugPrintAt(screen, filepath.Base(m.Path), x+12, y+8)
	ebitenutil.DebugPrintAt(screen, "Left/Right (or A/D) to switch maps, C view cone, Esc to quit", x+12, y+24)
}

// startPose uses the map's start cell when it has one, otherwise the
// configured start.
func (v *viewer) startPose(m mapInfo) (pos, dir mathutil.Vec2) {
	if m.Data.HasStart() {
		return m.Data.StartPosition(), v.cfg.GetStartDirection()
	}
	return v.cfg.GetStartPosition(), v.cfg.GetStartDirection()
}

func (v *viewer) drawSidebar(screen *ebiten.Image, m mapInfo, x, y, w, h int) {
	drawFilledRect(screen, x, y, w, h, color.RGBA{18, 18, 26, 255})
	drawRectBorder(screen, x, y, w, h, 2, color.RGBA{70, 70, 90, 255})

	row := y + 12
	for _, line := range sidebarLines(m, len(v.colors)-1) {
		ebitenutil.DebugPrintAt(screen, line, x+12, row)
		row += 16
	}
}

func sidebarLines(m mapInfo, textures int) []string {
	grid := m.Data.Grid
	enclosed := "yes"
	if m.Enclosed != nil {
		enclosed = "no: " + m.Enclosed.Error()
	}
	start := "from config"
	if m.Data.HasStart() {
		start = fmt.Sprintf("cell (%d, %d)", m.Data.StartX, m.Data.StartY)
	}
	materials := fmt.Sprintf("ids up to %d of %d textures", grid.MaxMaterial(), textures)
	if err := grid.ValidateMaterials(textures); err != nil {
		materials = err.Error()
	}

	return []string{
		fmt.Sprintf("Cells: %dx%d", grid.Width(), grid.Height()),
		fmt.Sprintf("Sprites: %d", len(m.Data.SpriteSpawns)),
		fmt.Sprintf("Start: %s", start),
		fmt.Sprintf("Enclosed: %s", enclosed),
		fmt.Sprintf("Materials: %s", materials),
		"",
		"Markers:",
		"Cyan: start  Red: sprites",
		"Yellow: view cone from start",
	}
}

func drawFilledRect(screen *ebiten.Image, x, y, w, h int, clr color.RGBA) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), clr, false)
}

func drawRectBorder(screen *ebiten.Image, x, y, w, h, thickness int, clr color.RGBA) {
	t := float32(thickness)
	fx, fy, fw, fh := float32(x), float32(y), float32(w), float32(h)
	vector.DrawFilledRect(screen, fx, fy, fw, t, clr, false)
	vector.DrawFilledRect(screen, fx, fy+fh-t, fw, t, clr, false)
	vector.DrawFilledRect(screen, fx, fy, t, fh, clr, false)
	vector.DrawFilledRect(screen, fx+fw-t, fy, t, fh, clr, false)
}

// ensureRuntimeCWD switches to the executable's directory when the config
// is not reachable from the working directory.
func ensureRuntimeCWD(configPath string) {
	if _, err := os.Stat(configPath); err == nil {
		return
	}
	exe, err := os.Executable()
	if err != nil {
		return
	}
	_ = os.Chdir(filepath.Dir(exe))
}
