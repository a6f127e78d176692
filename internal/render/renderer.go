package render

import (
	"errors"
	"fmt"

	"raycaster/internal/graphics"
	"raycaster/internal/player"
	"raycaster/internal/sprites"
	"raycaster/internal/threading/core"
	"raycaster/internal/threading/monitoring"
	"raycaster/internal/world"
)

// Options configures a Renderer. It is fixed for the renderer's lifetime.
type Options struct {
	Width          int
	Height         int
	FloorTexture   int
	CeilingTexture int
	ClearColor     uint32 // packed 0xAARRGGBB, alpha is forced to 0xFF
}

// Renderer draws frames of a grid world into its own framebuffer. It is not
// safe for concurrent use; give each presenter its own Renderer.
type Renderer struct {
	opts     Options
	textures *graphics.Table
	pool     *core.WorkerPool
	monitor  *monitoring.PerformanceMonitor

	frame *Framebuffer
	depth DepthBuffer
	spans []span
}

// New creates a renderer whose frame starts filled with the clear colour.
// pool and monitor may be nil, in which case passes run on the calling
// goroutine and are not timed.
func New(opts Options, textures *graphics.Table, pool *core.WorkerPool, monitor *monitoring.PerformanceMonitor) (*Renderer, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("render size %dx%d must be positive", opts.Width, opts.Height)
	}
	if textures == nil || textures.Len() == 0 {
		return nil, errors.New("texture table is empty")
	}
	if !textures.Has(opts.FloorTexture) {
		return nil, fmt.Errorf("floor texture %d out of range [0,%d)", opts.FloorTexture, textures.Len())
	}
	if !textures.Has(opts.CeilingTexture) {
		return nil, fmt.Errorf("ceiling texture %d out of range [0,%d)", opts.CeilingTexture, textures.Len())
	}

	frame := NewFramebuffer(opts.Width, opts.Height)
	frame.Fill(opts.ClearColor)

	return &Renderer{
		opts:     opts,
		textures: textures,
		pool:     pool,
		monitor:  monitor,
		frame:    frame,
		depth:    make(DepthBuffer, opts.Width),
		spans:    make([]span, opts.Width),
	}, nil
}

// Render draws one frame: walls, then floor and ceiling, then sprites. set
// may be nil; otherwise it is re-sorted by distance to the player.
func (r *Renderer) Render(grid *world.Grid, p *player.Player, set *sprites.Set) {
	if r.monitor != nil {
		defer r.monitor.StartFrame().EndFrame()
	}

	if set != nil {
		set.SortByDistance(p.Pos())
	}

	r.timed(monitoring.PassWall, func() {
		core.RunRange(r.pool, 0, r.opts.Width, func(lo, hi int) {
			r.drawWalls(lo, hi, grid, p)
		})
	})

	r.timed(monitoring.PassFloor, func() {
		core.RunRange(r.pool, r.opts.Height/2+1, r.opts.Height, func(lo, hi int) {
			r.drawFloorRows(lo, hi, p)
		})
		r.clearHorizon()
	})
	if r.monitor != nil {
		r.monitor.RecordColumns(r.opts.Width)
	}

	if set == nil {
		return
	}
	var visible, drawn int
	r.timed(monitoring.PassSprite, func() {
		visible, drawn = r.drawSprites(set, p)
	})
	if r.monitor != nil {
		r.monitor.RecordSprites(visible, drawn)
	}
}

func (r *Renderer) timed(pass string, fn func()) {
	if r.monitor == nil {
		fn()
		return
	}
	defer r.monitor.StartPass(pass).EndPass()
	fn()
}

// Frame returns the framebuffer written by the last Render call.
func (r *Renderer) Frame() *Framebuffer { return r.frame }

// Depth returns the per-column wall distances from the last Render call.
func (r *Renderer) Depth() DepthBuffer { return r.depth }

// Options returns the renderer's configuration.
func (r *Renderer) Options() Options { return r.opts }
