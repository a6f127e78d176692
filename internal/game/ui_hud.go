package game

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	ebitext "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"raycaster/internal/player"
	"raycaster/internal/threading/monitoring"
)

var (
	hudBackground = color.RGBA{0, 0, 0, 140}
	hudText       = color.RGBA{230, 230, 200, 255}
	hudAlert      = color.RGBA{255, 120, 90, 255}
)

const (
	hudLineHeight = 15
	hudPadding    = 6
	hudCharWidth  = 7
)

// hudStats is everything the overlay shows besides the player pose.
type hudStats struct {
	FPS, TPS    float64
	Metrics     monitoring.RenderMetrics
	Detailed    map[string]interface{}
	Alerts      []monitoring.PerformanceAlert
	Workers     int
	SpriteCount int
	Ahead       float64 // wall distance in the centre column
}

// drawHUD draws frame rate, pass timings, performance alerts and the player
// pose in the top-left corner.
func (g *Game) drawHUD(screen *ebiten.Image) {
	lines, alerts := hudLines(hudStats{
		FPS:         ebiten.ActualFPS(),
		TPS:         ebiten.ActualTPS(),
		Metrics:     g.threading.GetPerformanceMetrics(),
		Detailed:    g.threading.GetDetailedPerformanceStats(),
		Alerts:      g.threading.CheckPerformanceAlerts(),
		Workers:     g.threading.Workers(),
		SpriteCount: g.sprites.Len(),
		Ahead:       g.wallAhead(),
	}, g.player)

	all := append(lines, alerts...)
	maxLen := 0
	for _, line := range all {
		maxLen = max(maxLen, len(line))
	}
	w := maxLen*hudCharWidth + hudPadding*2
	h := len(all)*hudLineHeight + hudPadding*2
	vector.DrawFilledRect(screen, 4, 4, float32(w), float32(h), hudBackground, false)

	face := basicfont.Face7x13
	for i, line := range all {
		clr := hudText
		if i >= len(lines) {
			clr = hudAlert
		}
		baseline := 4 + hudPadding + i*hudLineHeight + face.Ascent
		ebitext.Draw(screen, line, face, 4+hudPadding, baseline, clr)
	}
}

// hudLines formats the overlay text. Alerts come back separately so they
// can be drawn in a warning colour.
func hudLines(s hudStats, p *player.Player) (lines, alerts []string) {
	pos, dir := p.Pos(), p.Dir()
	m := s.Metrics
	lines = []string{
		fmt.Sprintf("FPS: %.1f  TPS: %.1f  workers %d", s.FPS, s.TPS, s.Workers),
		fmt.Sprintf("frame %s  wall %s  floor %s  sprite %s",
			ms(m.FrameTime), ms(m.WallTime), ms(m.FloorTime), ms(m.SpriteTime)),
		fmt.Sprintf("avg frame %.2fms  columns cast %d  wall ahead %.2f",
			statFloat(s.Detailed, "avg_frame_time_ms"), statUint(s.Detailed, "columns_cast"), s.Ahead),
		fmt.Sprintf("sprites %d/%d (%d in view)  mem %d MB",
			m.SpritesDrawn, s.SpriteCount, statUint(s.Detailed, "sprites_visible"), m.MemoryUsageMB),
		fmt.Sprintf("pos (%.2f, %.2f)  dir (%.2f, %.2f)  fov %.2f", pos.X, pos.Y, dir.X, dir.Y, p.Camera().FOV()),
		"WASD/arrows move  R reset  F1 HUD  Esc quit",
	}
	for _, a := range s.Alerts {
		alerts = append(alerts, "! "+a.Message)
	}
	return lines, alerts
}

// wallAhead returns the last frame's depth in the centre column, whose ray
// is the view direction itself.
func (g *Game) wallAhead() float64 {
	return g.renderer.Depth().At(g.renderer.Options().Width / 2)
}

func statFloat(stats map[string]interface{}, key string) float64 {
	v, _ := stats[key].(float64)
	return v
}

func statUint(stats map[string]interface{}, key string) uint64 {
	v, _ := stats[key].(uint64)
	return v
}

func ms(d time.Duration) string {
	return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
}
