package world

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"raycaster/internal/mathutil"
)

// MapLoader reads grid maps from text files.
//
// File format: one row per line, top row first. Blank lines and lines starting
// with # are skipped. Cell glyphs:
//
//	. or 0    empty
//	1-9, a-z  solid, material ids 1-9 and 10-35
//	+         player start (empty cell)
//	*         sprite (empty cell), defined at line end with >[sprite:ID]
//
// Sprite definitions follow the row after two spaces and are matched to the
// row's * markers left to right: "1.*..*1  >[sprite:10], [sprite:8]".
type MapLoader struct {
	requireEnclosed bool
}

// SpriteSpawn is a sprite placed by the map file, centred in its cell.
type SpriteSpawn struct {
	X, Y      int
	TextureID int
}

// MapData contains the loaded map information
type MapData struct {
	Grid         *Grid
	SpriteSpawns []SpriteSpawn
	StartX       int
	StartY       int
}

// HasStart reports whether the map declared a player start cell.
func (md *MapData) HasStart() bool {
	return md.StartX >= 0 && md.StartY >= 0
}

// StartPosition returns the centre of the start cell.
func (md *MapData) StartPosition() mathutil.Vec2 {
	return mathutil.Vec2{X: float64(md.StartX) + 0.5, Y: float64(md.StartY) + 0.5}
}

// NewMapLoader creates a loader that rejects maps with an open border.
func NewMapLoader() *MapLoader {
	return &MapLoader{requireEnclosed: true}
}

// SetRequireEnclosed controls whether maps with a non-solid border are
// rejected.
func (ml *MapLoader) SetRequireEnclosed(require bool) {
	ml.requireEnclosed = require
}

// LoadMap loads a map from the specified file path
func (ml *MapLoader) LoadMap(mapPath string) (*MapData, error) {
	file, err := os.Open(mapPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open map file %s: %w", mapPath, err)
	}
	defer file.Close()

	mapData, err := ml.ParseMap(file)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", mapPath, err)
	}

	log.Printf("[MapLoader] Loaded %s (%dx%d, %d sprites)", mapPath,
		mapData.Grid.Width(), mapData.Grid.Height(), len(mapData.SpriteSpawns))
	return mapData, nil
}

// ParseMap parses map text from r.
func (ml *MapLoader) ParseMap(r io.Reader) (*MapData, error) {
	var rows [][]int
	var spriteSpawns []SpriteSpawn
	startX, startY := -1, -1

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		y := len(rows)
		tiles, defs := splitDefinitions(line)
		row := make([]int, 0, len(tiles))
		var markers []int

		for x, char := range tiles {
			material, kind, err := parseMapCharacter(char)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %d: %w", lineNo, x+1, err)
			}
			switch kind {
			case cellStart:
				if startX >= 0 {
					return nil, fmt.Errorf("line %d: duplicate start marker", lineNo)
				}
				startX, startY = x, y
			case cellSprite:
				markers = append(markers, x)
			}
			row = append(row, material)
		}

		ids, err := parseSpriteDefinitions(defs)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if len(ids) != len(markers) {
			return nil, fmt.Errorf("line %d: %d sprite markers but %d sprite definitions", lineNo, len(markers), len(ids))
		}
		for i, x := range markers {
			spriteSpawns = append(spriteSpawns, SpriteSpawn{X: x, Y: y, TextureID: ids[i]})
		}

		rows = append(rows, row)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading map file: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("map file contains no valid map data")
	}

	grid, err := NewGrid(rows)
	if err != nil {
		return nil, err
	}
	if ml.requireEnclosed {
		if err := grid.CheckEnclosed(); err != nil {
			return nil, err
		}
	}

	return &MapData{
		Grid:         grid,
		SpriteSpawns: spriteSpawns,
		StartX:       startX,
		StartY:       startY,
	}, nil
}

type cellKind int

const (
	cellPlain cellKind = iota
	cellStart
	cellSprite
)

// parseMapCharacter converts a map glyph to a material id.
func parseMapCharacter(char rune) (int, cellKind, error) {
	switch {
	case char == '.' || char == '0':
		return Empty, cellPlain, nil
	case char == '+':
		return Empty, cellStart, nil
	case char == '*':
		return Empty, cellSprite, nil
	case char >= '1' && char <= '9':
		return int(char - '0'), cellPlain, nil
	case char >= 'a' && char <= 'z':
		return int(char-'a') + 10, cellPlain, nil
	}
	return 0, cellPlain, fmt.Errorf("unknown map glyph %q", char)
}

// splitDefinitions separates the tile glyphs from trailing "  >" definitions.
func splitDefinitions(line string) (string, string) {
	if sepIndex := strings.Index(line, "  >"); sepIndex != -1 {
		return line[:sepIndex], line[sepIndex+2:]
	}
	return strings.TrimRight(line, " \t"), ""
}

// parseSpriteDefinitions parses ">[sprite:10], [sprite:8]" into texture ids.
func parseSpriteDefinitions(defs string) ([]int, error) {
	defs = strings.TrimSpace(defs)
	if defs == "" {
		return nil, nil
	}

	var ids []int
	for _, def := range strings.Split(defs, ",") {
		cleanDef := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(def), ">"))
		if !strings.HasPrefix(cleanDef, "[sprite:") || !strings.HasSuffix(cleanDef, "]") {
			return nil, fmt.Errorf("malformed definition %q", cleanDef)
		}
		raw := strings.TrimSuffix(strings.TrimPrefix(cleanDef, "[sprite:"), "]")
		id, err := strconv.Atoi(raw)
		if err != nil || id < 0 {
			return nil, fmt.Errorf("invalid sprite texture id %q", raw)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
