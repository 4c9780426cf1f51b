package assets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chunkMaterial = `
name = "chunk"
vertex_shader = "shaders/chunk.vert.spv"
fragment_shader = "shaders/chunk.frag.spv"
vertex_attributes = ["vec3", "vec2"]
vertex_uniforms = ["mat4", "mat4", "mat4"]
texture_count = 1
`

func newIndexedManager(t *testing.T) (*AssetManager, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "materials"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "materials", "chunk.toml"), []byte(chunkMaterial), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.txt"), []byte("ignored"), 0o644))

	am, err := NewAssetManager()
	require.NoError(t, err)
	require.NoError(t, am.Initialize(root))
	t.Cleanup(func() { _ = am.Shutdown() })
	return am, root
}

func TestIndexBuiltOnInitialize(t *testing.T) {
	am, root := newIndexedManager(t)

	assert.Equal(t, 1, am.Len())
	info, ok := am.Lookup("materials/chunk.toml")
	require.True(t, ok)
	assert.Equal(t, AssetTypeMaterial, info.Type)

	same, ok := am.Lookup(filepath.Join(root, "materials", "chunk.toml"))
	require.True(t, ok)
	assert.Equal(t, info.ID, same.ID)

	_, ok = am.Lookup("README.txt")
	assert.False(t, ok)
}

func TestLoadMaterialThroughIndex(t *testing.T) {
	am, _ := newIndexedManager(t)

	spec, err := am.LoadMaterial("materials/chunk.toml")
	require.NoError(t, err)
	assert.Equal(t, "chunk", spec.Name)
	assert.Equal(t, uint32(1), spec.TextureCount)

	_, err = am.LoadMaterial("materials/water.toml")
	assert.ErrorIs(t, err, ErrAssetNotFound)

	_, err = am.LoadImage("materials/chunk.toml")
	assert.Error(t, err)
}

func TestIndexFollowsFileSystem(t *testing.T) {
	am, root := newIndexedManager(t)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "shaders"), 0o755))
	// give the watcher a moment to pick up the new directory
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(root, "shaders", "chunk.vert.spv"), []byte{0x03, 0x02, 0x23, 0x07}, 0o644)
		_, ok := am.Lookup("shaders/chunk.vert.spv")
		return ok
	}, 2*time.Second, 20*time.Millisecond)
	assert.Len(t, am.List(AssetTypeShader), 1)

	require.NoError(t, os.Remove(filepath.Join(root, "materials", "chunk.toml")))
	assert.Eventually(t, func() bool {
		_, ok := am.Lookup("materials/chunk.toml")
		return !ok
	}, 2*time.Second, 20*time.Millisecond)
}

func TestDetermineAssetType(t *testing.T) {
	assert.Equal(t, AssetTypeShader, determineAssetType("a/b.spv"))
	assert.Equal(t, AssetTypeTexture, determineAssetType("atlas.PNG"))
	assert.Equal(t, AssetTypeTexture, determineAssetType("atlas.webp"))
	assert.Equal(t, AssetTypeMaterial, determineAssetType("chunk.toml"))
	assert.Equal(t, AssetTypeNone, determineAssetType("notes.md"))
}

func shutdownWithin(t *testing.T, am *AssetManager) {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- am.Shutdown() }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Shutdown did not return")
	}
	// a second call is a no-op
	assert.NoError(t, am.Shutdown())
}

func TestShutdownBeforeInitialize(t *testing.T) {
	am, err := NewAssetManager()
	require.NoError(t, err)
	shutdownWithin(t, am)
}

func TestShutdownAfterFailedInitialize(t *testing.T) {
	am, err := NewAssetManager()
	require.NoError(t, err)
	require.Error(t, am.Initialize(filepath.Join(t.TempDir(), "missing")))
	shutdownWithin(t, am)
}
