// Package scene assembles everything a frontend needs to render a world:
// the grid, the texture table, the sprites and the player's start pose.
package scene

import (
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"raycaster/internal/config"
	"raycaster/internal/graphics"
	"raycaster/internal/mathutil"
	"raycaster/internal/player"
	"raycaster/internal/sprites"
	"raycaster/internal/world"
)

// Scene is immutable once loaded and may be shared by several renderers.
type Scene struct {
	Grid     *world.Grid
	Textures *graphics.Table
	Sprites  []sprites.Sprite
	StartPos mathutil.Vec2
	StartDir mathutil.Vec2
	FOV      float64
}

// Load reads the map and the textures named by cfg concurrently, then checks
// that they fit together.
func Load(cfg *config.Config) (*Scene, error) {
	var (
		mapData *world.MapData
		table   *graphics.Table
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		mapData, err = loadMap(cfg.World.MapPath)
		return err
	})
	g.Go(func() error {
		var err error
		table, err = graphics.LoadTable(cfg.Textures)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return assemble(cfg, mapData, table)
}

func loadMap(path string) (*world.MapData, error) {
	if path == "" {
		log.Printf("[Scene] No map_path configured, using the built-in map")
		return &world.MapData{Grid: world.DefaultGrid(), StartX: -1, StartY: -1}, nil
	}
	return world.NewMapLoader().LoadMap(path)
}

func assemble(cfg *config.Config, mapData *world.MapData, table *graphics.Table) (*Scene, error) {
	grid := mapData.Grid
	if err := grid.ValidateMaterials(table.Len()); err != nil {
		return nil, err
	}

	var list []sprites.Sprite
	for _, s := range mapData.SpriteSpawns {
		list = append(list, sprites.Sprite{
			Pos:       mathutil.Vec2{X: float64(s.X) + 0.5, Y: float64(s.Y) + 0.5},
			TextureID: s.TextureID,
		})
	}
	for _, s := range cfg.Sprites {
		list = append(list, sprites.Sprite{
			Pos:       mathutil.Vec2{X: s.X, Y: s.Y},
			TextureID: s.Texture,
		})
	}

	var errs []error
	for i, s := range list {
		if !table.Has(s.TextureID) {
			errs = append(errs, fmt.Errorf("sprite %d at %v uses texture %d but only %d textures are loaded",
				i, s.Pos, s.TextureID, table.Len()))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	start := cfg.GetStartPosition()
	if mapData.HasStart() {
		start = mapData.StartPosition()
	}
	if !grid.IsPassable(start.Cell()) {
		return nil, fmt.Errorf("player start %v is inside a wall", start)
	}

	log.Printf("[Scene] %dx%d map, %d textures, %d sprites, start %v",
		grid.Width(), grid.Height(), table.Len(), len(list), start)

	return &Scene{
		Grid:     grid,
		Textures: table,
		Sprites:  list,
		StartPos: start,
		StartDir: cfg.GetStartDirection(),
		FOV:      cfg.GetFOV(),
	}, nil
}

// NewPlayer creates a player at the start pose.
func (s *Scene) NewPlayer() *player.Player {
	return player.New(s.StartPos, s.StartDir, s.FOV)
}

// Reset moves p back to the start pose.
func (s *Scene) Reset(p *player.Player) {
	p.SetPose(s.StartPos, s.StartDir)
}

// NewSpriteSet returns a sprite set owned by the caller. Each renderer needs
// its own because sorting reorders it.
func (s *Scene) NewSpriteSet() *sprites.Set {
	return sprites.NewSet(s.Sprites)
}
