package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/voxelcraft/engine/core"
)

type AppConfig struct {
	// The application name used in windowing and as the Vulkan application name.
	Name string `toml:"name"`
}

type WindowConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32 `toml:"x"`
	// Window starting position y axis, if applicable.
	StartPosY uint32 `toml:"y"`
	// Window starting width.
	StartWidth uint32 `toml:"width"`
	// Window starting height.
	StartHeight uint32 `toml:"height"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type RendererConfig struct {
	// Enables VK_LAYER_KHRONOS_validation and the debug report callback.
	Validation bool `toml:"validation"`
	// One of mailbox, fifo or immediate. Falls back to fifo when unsupported.
	PresentMode string     `toml:"present_mode"`
	ClearColor  [4]float32 `toml:"clear_color"`
}

type AssetsConfig struct {
	Root          string `toml:"root"`
	ChunkMaterial string `toml:"chunk_material"`
	BlockAtlas    string `toml:"block_atlas"`
}

type Config struct {
	App      AppConfig      `toml:"app"`
	Window   WindowConfig   `toml:"window"`
	Log      LogConfig      `toml:"log"`
	Renderer RendererConfig `toml:"renderer"`
	Assets   AssetsConfig   `toml:"assets"`
}

func Default() *Config {
	return &Config{
		App: AppConfig{
			Name: "Voxelcraft",
		},
		Window: WindowConfig{
			StartPosX:   100,
			StartPosY:   100,
			StartWidth:  1280,
			StartHeight: 720,
		},
		Log: LogConfig{
			Level: "info",
		},
		Renderer: RendererConfig{
			Validation:  false,
			PresentMode: "mailbox",
			ClearColor:  [4]float32{0.45, 0.65, 0.95, 1.0},
		},
		Assets: AssetsConfig{
			Root:          "assets",
			ChunkMaterial: "assets/materials/chunk.toml",
			BlockAtlas:    "assets/textures/blocksatlas.png",
		},
	}
}

// Load reads the TOML file at path on top of the defaults. A missing file
// yields the defaults; unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			core.LogWarn("config file '%s' not found, using defaults", path)
			return cfg, nil
		}
		return nil, err
	}

	if err := Decode(data, cfg); err != nil {
		var de *toml.DecodeError
		if errors.As(err, &de) {
			row, col := de.Position()
			err = fmt.Errorf("config %s:%d:%d: %w", path, row, col, err)
		} else {
			err = fmt.Errorf("config %s: %w", path, err)
		}
		core.LogError(err.Error())
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	return cfg, nil
}

// Decode overlays the TOML document onto cfg.
func Decode(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

func (c *Config) Validate() error {
	if c.Window.StartWidth == 0 || c.Window.StartHeight == 0 {
		return fmt.Errorf("window size must be non-zero, got %dx%d", c.Window.StartWidth, c.Window.StartHeight)
	}
	switch c.Renderer.PresentMode {
	case "mailbox", "fifo", "immediate":
	default:
		return fmt.Errorf("unknown present mode '%s'", c.Renderer.PresentMode)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("unknown log level '%s'", c.Log.Level)
	}
	for i, v := range c.Renderer.ClearColor {
		if v < 0 || v > 1 {
			return fmt.Errorf("clear_color[%d] = %f is outside [0, 1]", i, v)
		}
	}
	return nil
}
