package graphics

import (
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"log"
	"os"
	"runtime"

	_ "golang.org/x/image/bmp"
	"golang.org/x/sync/errgroup"

	"raycaster/internal/config"
)

// LoadTable builds the texture table described by cfg. Textures are decoded
// concurrently; the table keeps configuration order so ids match entries.
//
// A texture whose file does not exist is generated from its pattern instead,
// with a warning. A file that exists but cannot be decoded, or has the wrong
// size, fails the whole load.
func LoadTable(cfg config.TexturesConfig) (*Table, error) {
	textures := make([]*Texture, len(cfg.Entries))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, entry := range cfg.Entries {
		g.Go(func() error {
			tex, err := loadTexture(entry, cfg.Size)
			if err != nil {
				return fmt.Errorf("texture %d (%s): %w", i, entry.Name, err)
			}
			textures[i] = tex
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	table := NewTable(cfg.Size)
	for _, tex := range textures {
		if err := table.Add(tex); err != nil {
			return nil, err
		}
	}

	log.Printf("[Textures] Loaded %d textures (%dx%d)", table.Len(), cfg.Size, cfg.Size)
	return table, nil
}

func loadTexture(entry config.TextureConfig, size int) (*Texture, error) {
	if entry.Path != "" {
		tex, err := LoadFile(entry.Path)
		switch {
		case err == nil:
			if tex.Size() != size {
				return nil, fmt.Errorf("invalid texture size for %s, must be %d * %d", entry.Path, size, size)
			}
			return tex, nil
		case errors.Is(err, fs.ErrNotExist) && IsPattern(entry.Pattern):
			log.Printf("Warning: texture %s not found, using %q pattern", entry.Path, entry.Pattern)
		default:
			return nil, err
		}
	}

	return GeneratePattern(entry.Pattern, size, entry.Color)
}

// LoadFile decodes a PNG or BMP file into a texture.
func LoadFile(path string) (*Texture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return FromImage(img)
}
