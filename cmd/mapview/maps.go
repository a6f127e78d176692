package main

import (
	"fmt"
	"image/color"
	"path/filepath"
	"sort"

	"raycaster/internal/graphics"
	"raycaster/internal/mathutil"
	"raycaster/internal/player"
	"raycaster/internal/render"
	"raycaster/internal/world"
)

type mapInfo struct {
	Path     string
	Data     *world.MapData
	Enclosed error
	Err      error
}

// loadMaps loads every .map file in dir, sorted by name. A file that fails
// to parse is kept with its error so the viewer can show it.
func loadMaps(dir string) ([]mapInfo, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.map"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no .map files in %s", dir)
	}
	sort.Strings(paths)

	// Open maps are shown too; the viewer reports them instead of refusing.
	loader := world.NewMapLoader()
	loader.SetRequireEnclosed(false)

	maps := make([]mapInfo, 0, len(paths))
	for _, path := range paths {
		data, err := loader.LoadMap(path)
		info := mapInfo{Path: path, Data: data, Err: err}
		if err == nil {
			info.Enclosed = data.Grid.CheckEnclosed()
		}
		maps = append(maps, info)
	}
	return maps, nil
}

// materialColors returns the average colour of each texture, indexed by
// material (entry 0 is unused floor).
func materialColors(table *graphics.Table) []color.RGBA {
	colors := make([]color.RGBA, table.Len()+1)
	colors[0] = color.RGBA{20, 20, 35, 255}
	for id := 0; id < table.Len(); id++ {
		colors[id+1] = averageColor(table.Texture(id))
	}
	return colors
}

func averageColor(tex *graphics.Texture) color.RGBA {
	var r, g, b, n int
	size := tex.Size()
	for v := 0; v < size; v++ {
		for u := 0; u < size; u++ {
			c := tex.At(u, v)
			if !graphics.IsOpaque(c) {
				continue
			}
			cr, cg, cb, _ := graphics.Unpack(c)
			r, g, b, n = r+int(cr), g+int(cg), b+int(cb), n+1
		}
	}
	if n == 0 {
		return color.RGBA{50, 50, 60, 255}
	}
	return color.RGBA{uint8(r / n), uint8(g / n), uint8(b / n), 255}
}

func cellColor(colors []color.RGBA, material int) color.RGBA {
	if material < 0 || material >= len(colors) {
		return color.RGBA{50, 50, 60, 255}
	}
	return colors[material]
}

// viewCone casts n rays across the camera plane from pos and returns where
// each one hits a wall, in grid coordinates.
func viewCone(grid *world.Grid, pos, dir mathutil.Vec2, fov float64, n int) []mathutil.Vec2 {
	plane := player.NewCamera(dir, fov).Plane()
	hits := make([]mathutil.Vec2, 0, n)
	for i := 0; i < n; i++ {
		cameraX := 0.0
		if n > 1 {
			cameraX = 2*float64(i)/float64(n-1) - 1
		}
		ray := dir.Add(plane.Scale(cameraX))
		hit := render.CastRay(grid, pos, ray)
		hits = append(hits, pos.Add(ray.Scale(hit.Perp)))
	}
	return hits
}
