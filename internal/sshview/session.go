package sshview

import (
	"fmt"
	"time"

	"raycaster/internal/config"
	"raycaster/internal/intent"
	"raycaster/internal/mathutil"
	"raycaster/internal/player"
	"raycaster/internal/render"
	"raycaster/internal/scene"
	"raycaster/internal/sprites"
	"raycaster/internal/terminal"
)

// view is one connected terminal: its own player, sprite order and renderer
// over the shared scene. It is only touched by the session goroutine.
type view struct {
	cfg     *config.Config
	scene   *scene.Scene
	player  *player.Player
	sprites *sprites.Set

	renderer   *render.Renderer
	cols, rows int

	speeds intent.Speeds
	step   float64 // seconds of motion per key press
}

func newView(cfg *config.Config, sc *scene.Scene) *view {
	return &view{
		cfg:     cfg,
		scene:   sc,
		player:  sc.NewPlayer(),
		sprites: sc.NewSpriteSet(),
		speeds: intent.Speeds{
			Move: cfg.GetMoveSpeed(),
			Turn: cfg.GetRotSpeed(),
		},
		step: tickInterval(cfg).Seconds(),
	}
}

func tickInterval(cfg *config.Config) time.Duration {
	ms := cfg.SSH.TickMS
	if ms <= 0 {
		ms = 50
	}
	return time.Duration(ms) * time.Millisecond
}

// resize fits the view to a terminal of cols x rows cells, capped at the
// configured maximum. It reports whether the size changed.
func (v *view) resize(cols, rows int) (bool, error) {
	if v.cfg.SSH.Cols > 0 {
		cols = mathutil.IntMin(cols, v.cfg.SSH.Cols)
	}
	if v.cfg.SSH.Rows > 0 {
		rows = mathutil.IntMin(rows, v.cfg.SSH.Rows)
	}
	cols, rows = mathutil.IntMax(cols, 1), mathutil.IntMax(rows, 1)
	if v.renderer != nil && cols == v.cols && rows == v.rows {
		return false, nil
	}

	// Sessions share no pool; each renders on its own goroutine.
	r, err := render.New(render.Options{
		Width:          cols,
		Height:         rows * 2,
		FloorTexture:   v.cfg.Graphics.FloorTexture,
		CeilingTexture: v.cfg.Graphics.CeilingTexture,
		ClearColor:     v.cfg.GetClearColor(),
	}, v.scene.Textures, nil, nil)
	if err != nil {
		return false, fmt.Errorf("resize to %dx%d: %w", cols, rows, err)
	}
	v.renderer, v.cols, v.rows = r, cols, rows
	return true, nil
}

// apply handles the key presses received since the last tick. Each movement
// press moves or turns the player by one tick's worth. It reports quit.
func (v *view) apply(actions []terminal.Action) (quit bool) {
	for _, a := range actions {
		var in intent.Intent
		switch a {
		case terminal.ActionQuit:
			return true
		case terminal.ActionReset:
			v.scene.Reset(v.player)
			continue
		case terminal.ActionForward:
			in.Forward = true
		case terminal.ActionBack:
			in.Back = true
		case terminal.ActionLeft:
			in.Left = true
		case terminal.ActionRight:
			in.Right = true
		default:
			continue
		}
		intent.Apply(v.player, v.scene.Grid, in, v.step, v.speeds)
	}
	return false
}

// frame renders the current pose and encodes it for the terminal.
func (v *view) frame() string {
	v.renderer.Render(v.scene.Grid, v.player, v.sprites)
	return terminal.Encode(v.renderer.Frame(), v.cols, v.rows)
}
