package game

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"raycaster/internal/config"
	"raycaster/internal/game/keytracker"
	"raycaster/internal/intent"
	"raycaster/internal/player"
	"raycaster/internal/render"
	"raycaster/internal/scene"
	"raycaster/internal/sprites"
	"raycaster/internal/threading"
)

// Game is the desktop frontend. It polls input, moves the player and presents
// the renderer's framebuffer every frame.
type Game struct {
	config    *config.Config
	scene     *scene.Scene
	player    *player.Player
	sprites   *sprites.Set
	renderer  *render.Renderer
	threading *threading.Components

	speeds    intent.Speeds
	frameTime float64 // seconds per Update tick

	showHUD  bool
	hudKey   keytracker.KeyStateTracker
	resetKey keytracker.KeyStateTracker
}

// NewGame builds the frontend for a loaded scene.
func NewGame(cfg *config.Config, sc *scene.Scene) (*Game, error) {
	threadingComponents := threading.NewComponents(cfg.Graphics.Workers)

	renderer, err := render.New(render.Options{
		Width:          cfg.GetScreenWidth(),
		Height:         cfg.GetScreenHeight(),
		FloorTexture:   cfg.Graphics.FloorTexture,
		CeilingTexture: cfg.Graphics.CeilingTexture,
		ClearColor:     cfg.GetClearColor(),
	}, sc.Textures, threadingComponents.Pool, threadingComponents.PerformanceMonitor)
	if err != nil {
		threadingComponents.Shutdown()
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	g := &Game{
		config:    cfg,
		scene:     sc,
		player:    sc.NewPlayer(),
		sprites:   sc.NewSpriteSet(),
		renderer:  renderer,
		threading: threadingComponents,
		speeds: intent.Speeds{
			Move: cfg.GetMoveSpeed(),
			Turn: cfg.GetRotSpeed(),
		},
		frameTime: 1.0 / float64(cfg.Display.TPS),
	}
	g.setHUD(cfg.Graphics.ShowHUD)
	return g, nil
}

// Update polls the keyboard and advances the player by one tick.
func (g *Game) Update() error {
	g.handleToggles(g.hudKey.IsKeyJustPressed(ebiten.KeyF1), g.resetKey.IsKeyJustPressed(ebiten.KeyR))
	return g.step(readIntent(ebiten.IsKeyPressed))
}

// handleToggles applies the edge-triggered keys: F1 flips the HUD and R
// returns the player to the start pose.
func (g *Game) handleToggles(toggleHUD, reset bool) {
	if toggleHUD {
		g.setHUD(!g.showHUD)
	}
	if reset {
		g.scene.Reset(g.player)
	}
}

// setHUD shows or hides the overlay. Running averages are only kept while
// the HUD can display them.
func (g *Game) setHUD(on bool) {
	g.showHUD = on
	g.threading.PerformanceMonitor.EnableDetailedLogging(on)
}

// step applies one tick of input. Quitting ends the run loop cleanly.
func (g *Game) step(in intent.Intent) error {
	if in.Quit {
		return ebiten.Termination
	}
	if in.Any() {
		intent.Apply(g.player, g.scene.Grid, in, g.frameTime, g.speeds)
	}
	return nil
}

// Draw renders the scene and copies the frame to the screen.
func (g *Game) Draw(screen *ebiten.Image) {
	frame := g.renderFrame()
	screen.WritePixels(frame.RGBA())

	if g.showHUD {
		g.drawHUD(screen)
	}
}

func (g *Game) renderFrame() *render.Framebuffer {
	g.renderer.Render(g.scene.Grid, g.player, g.sprites)
	return g.renderer.Frame()
}

// Layout keeps the logical screen at the configured render size; ebiten
// scales it to the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.config.GetScreenWidth(), g.config.GetScreenHeight()
}

// Close releases the render worker pool.
func (g *Game) Close() {
	g.threading.Shutdown()
}
