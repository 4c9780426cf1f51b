package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	doc := `
[app]
name = "Chunky"

[window]
width = 800
height = 600

[log]
level = "debug"

[renderer]
validation = true
present_mode = "fifo"
clear_color = [0.0, 0.0, 0.2, 1.0]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Chunky", cfg.App.Name)
	assert.Equal(t, uint32(800), cfg.Window.StartWidth)
	assert.Equal(t, uint32(600), cfg.Window.StartHeight)
	// untouched keys keep their defaults
	assert.Equal(t, uint32(100), cfg.Window.StartPosX)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Renderer.Validation)
	assert.Equal(t, "fifo", cfg.Renderer.PresentMode)
	assert.Equal(t, [4]float32{0, 0, 0.2, 1}, cfg.Renderer.ClearColor)
	assert.Equal(t, "assets", cfg.Assets.Root)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window]\ndepth = 3\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadReportsSyntaxPosition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[app]\nname = \n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.toml:2:")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Renderer.PresentMode = "vsync"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Window.StartWidth = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Renderer.ClearColor[2] = 1.5
	assert.Error(t, cfg.Validate())
}
