package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"raycaster/internal/mathutil"
)

// Config holds all configuration values
type Config struct {
	Display  DisplayConfig  `yaml:"display"`
	Camera   CameraConfig   `yaml:"camera"`
	Movement MovementConfig `yaml:"movement"`
	Player   PlayerConfig   `yaml:"player"`
	World    WorldConfig    `yaml:"world"`
	Textures TexturesConfig `yaml:"textures"`
	Graphics GraphicsConfig `yaml:"graphics"`
	Sprites  []SpriteConfig `yaml:"sprites"`
	SSH      SSHConfig      `yaml:"ssh"`
}

type DisplayConfig struct {
	ScreenWidth  int    `yaml:"screen_width"`
	ScreenHeight int    `yaml:"screen_height"`
	WindowTitle  string `yaml:"window_title"`
	Resizable    bool   `yaml:"resizable"`
	TPS          int    `yaml:"tps"`
}

type CameraConfig struct {
	FieldOfView float64 `yaml:"field_of_view"` // plane scale; 1.0 is 90 degrees
}

type MovementConfig struct {
	MoveSpeed     float64 `yaml:"move_speed"`     // cells per second
	RotationSpeed float64 `yaml:"rotation_speed"` // radians per second
}

type PlayerConfig struct {
	StartX float64 `yaml:"start_x"`
	StartY float64 `yaml:"start_y"`
	DirX   float64 `yaml:"dir_x"`
	DirY   float64 `yaml:"dir_y"`
}

type WorldConfig struct {
	MapPath string `yaml:"map_path"` // empty uses the built-in map
}

type TexturesConfig struct {
	Size    int             `yaml:"size"`
	Entries []TextureConfig `yaml:"entries"`
}

// TextureConfig names one texture. Path is decoded from disk when set;
// otherwise Pattern is generated procedurally with Color as its base.
type TextureConfig struct {
	Name    string `yaml:"name"`
	Path    string `yaml:"path,omitempty"`
	Pattern string `yaml:"pattern,omitempty"`
	Color   [3]int `yaml:"color,omitempty"`
}

type GraphicsConfig struct {
	FloorTexture   int    `yaml:"floor_texture"`
	CeilingTexture int    `yaml:"ceiling_texture"`
	ClearColor     [3]int `yaml:"clear_color"`
	Workers        int    `yaml:"workers"` // 0 = NumCPU, 1 or negative = calling goroutine
	ShowHUD        bool   `yaml:"show_hud"`
}

type SpriteConfig struct {
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Texture int     `yaml:"texture"`
}

type SSHConfig struct {
	Addr    string `yaml:"addr"`
	HostKey string `yaml:"host_key"`
	Cols    int    `yaml:"cols"`
	Rows    int    `yaml:"rows"`
	TickMS  int    `yaml:"tick_ms"`
}

// Default returns the configuration used when a field is missing from the
// YAML file.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			ScreenWidth:  960,
			ScreenHeight: 540,
			WindowTitle:  "Raycaster",
			TPS:          60,
		},
		Camera:   CameraConfig{FieldOfView: 1.0},
		Movement: MovementConfig{MoveSpeed: 5.0, RotationSpeed: 3.0},
		Player:   PlayerConfig{StartX: 22, StartY: 11.5, DirX: 0, DirY: 1},
		Textures: TexturesConfig{Size: 64},
		Graphics: GraphicsConfig{ShowHUD: true},
		SSH: SSHConfig{
			Addr:   ":2222",
			Cols:   120,
			Rows:   40,
			TickMS: 50,
		},
	}
}

// LoadConfig loads the configuration from a YAML file on top of Default.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoadConfig loads the configuration and panics on error
func MustLoadConfig(filename string) *Config {
	config, err := LoadConfig(filename)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return config
}

// minLength is the smallest field of view or direction length accepted.
const minLength = 1e-9

// Validate checks the values the renderer relies on.
func (c *Config) Validate() error {
	var errs []error

	if c.Display.ScreenWidth <= 0 || c.Display.ScreenHeight <= 0 {
		errs = append(errs, fmt.Errorf("display size %dx%d must be positive", c.Display.ScreenWidth, c.Display.ScreenHeight))
	}
	if c.Display.TPS <= 0 {
		errs = append(errs, fmt.Errorf("display.tps must be positive, got %d", c.Display.TPS))
	}
	if mathutil.ApproxEqual(c.Camera.FieldOfView, 0, minLength) {
		errs = append(errs, errors.New("camera.field_of_view must be nonzero"))
	}
	if mathutil.ApproxEqual(mathutil.Vec2{X: c.Player.DirX, Y: c.Player.DirY}.Norm(), 0, minLength) {
		errs = append(errs, errors.New("player direction must be nonzero"))
	}
	if !mathutil.IsPowerOfTwo(c.Textures.Size) {
		errs = append(errs, fmt.Errorf("textures.size %d is not a power of two", c.Textures.Size))
	}
	if len(c.Textures.Entries) == 0 {
		errs = append(errs, errors.New("textures.entries is empty"))
	}
	for i, t := range c.Textures.Entries {
		if t.Path == "" && t.Pattern == "" {
			errs = append(errs, fmt.Errorf("texture %d (%s) needs a path or a pattern", i, t.Name))
		}
	}

	for i, v := range c.Graphics.ClearColor {
		if v < 0 || v > 255 {
			errs = append(errs, fmt.Errorf("graphics.clear_color[%d] = %d out of range [0,255]", i, v))
		}
	}

	n := len(c.Textures.Entries)
	if n > 0 {
		if c.Graphics.FloorTexture < 0 || c.Graphics.FloorTexture >= n {
			errs = append(errs, fmt.Errorf("graphics.floor_texture %d out of range [0,%d)", c.Graphics.FloorTexture, n))
		}
		if c.Graphics.CeilingTexture < 0 || c.Graphics.CeilingTexture >= n {
			errs = append(errs, fmt.Errorf("graphics.ceiling_texture %d out of range [0,%d)", c.Graphics.CeilingTexture, n))
		}
		for i, s := range c.Sprites {
			if s.Texture < 0 || s.Texture >= n {
				errs = append(errs, fmt.Errorf("sprite %d texture %d out of range [0,%d)", i, s.Texture, n))
			}
		}
	}

	return errors.Join(errs...)
}

// Helper functions for easy access to commonly used values
func (c *Config) GetScreenWidth() int {
	return c.Display.ScreenWidth
}

func (c *Config) GetScreenHeight() int {
	return c.Display.ScreenHeight
}

func (c *Config) GetMoveSpeed() float64 {
	return c.Movement.MoveSpeed
}

func (c *Config) GetRotSpeed() float64 {
	return c.Movement.RotationSpeed
}

func (c *Config) GetFOV() float64 {
	return c.Camera.FieldOfView
}

// GetStartPosition returns the configured player start.
func (c *Config) GetStartPosition() mathutil.Vec2 {
	return mathutil.Vec2{X: c.Player.StartX, Y: c.Player.StartY}
}

// GetStartDirection returns the configured facing direction, normalised.
func (c *Config) GetStartDirection() mathutil.Vec2 {
	dir := mathutil.Vec2{X: c.Player.DirX, Y: c.Player.DirY}
	n := dir.Norm()
	return mathutil.Vec2{X: dir.X / n, Y: dir.Y / n}
}

// GetClearColor returns the clear colour as packed 0xAARRGGBB.
func (c *Config) GetClearColor() uint32 {
	cc := c.Graphics.ClearColor
	return 0xFF000000 | uint32(uint8(cc[0]))<<16 | uint32(uint8(cc[1]))<<8 | uint32(uint8(cc[2]))
}
