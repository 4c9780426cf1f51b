package loaders

import (
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/voxelcraft/engine/core"
	"github.com/spaghettifunk/voxelcraft/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func spirv(words ...uint32) []byte {
	b := make([]byte, 0, 4*(len(words)+1))
	b = binary.LittleEndian.AppendUint32(b, SPIRVMagic)
	for _, w := range words {
		b = binary.LittleEndian.AppendUint32(b, w)
	}
	return b
}

func TestLoadShader(t *testing.T) {
	path := writeFile(t, "ok.spv", spirv(0x00010000, 42))
	code, err := LoadShader(path)
	require.NoError(t, err)
	assert.Equal(t, []uint32{SPIRVMagic, 0x00010000, 42}, code)
}

func TestLoadShaderErrors(t *testing.T) {
	_, err := LoadShader(filepath.Join(t.TempDir(), "missing.spv"))
	assert.ErrorIs(t, err, core.ErrShaderLoad)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = LoadShader(writeFile(t, "odd.spv", append(spirv(), 0x01)))
	assert.ErrorIs(t, err, core.ErrShaderLoad)

	_, err = LoadShader(writeFile(t, "text.spv", []byte("void main() {}   ")))
	var sle *core.ShaderLoadError
	require.ErrorAs(t, err, &sle)
	assert.Contains(t, sle.Err.Error(), "magic")

	_, err = LoadShader(writeFile(t, "empty.spv", nil))
	assert.ErrorIs(t, err, core.ErrShaderLoad)
}

func TestLoadImageConvertsToRGBA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 3))
	src.Set(0, 0, color.NRGBA{R: 255, A: 255})
	src.Set(1, 2, color.NRGBA{B: 255, A: 255})

	path := filepath.Join(t.TempDir(), "atlas.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, src))
	require.NoError(t, f.Close())

	img, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), img.Width)
	assert.Equal(t, uint32(3), img.Height)
	assert.Len(t, img.Pixels, 2*3*4)
	assert.Equal(t, []uint8{255, 0, 0, 255}, img.Pixels[0:4])

	loaded, err := (&TextureLoader{FlipY: true}).Load(path)
	require.NoError(t, err)
	flipped := loaded.(*Image)
	// the last pixel of the bottom row is now in the top row
	assert.Equal(t, []uint8{0, 0, 255, 255}, flipped.Pixels[4:8])
}

func TestLoadImageRejectsGarbage(t *testing.T) {
	_, err := LoadImage(writeFile(t, "bad.png", []byte("not an image")))
	assert.Error(t, err)
}

func TestLoadMaterial(t *testing.T) {
	path := writeFile(t, "chunk.toml", []byte(`
name = "chunk"
vertex_shader = "shaders/chunk.vert.spv"
fragment_shader = "shaders/chunk.frag.spv"
vertex_attributes = ["vec3", "vec2"]
vertex_uniforms = ["mat4", "mat4", "mat4"]
texture_count = 1
`))
	spec, err := LoadMaterial(path)
	require.NoError(t, err)
	assert.Equal(t, []metadata.MaterialType{metadata.MaterialTypeVec3, metadata.MaterialTypeVec2}, spec.VertexAttributes)
	assert.Equal(t, metadata.CullFaceModeBack, spec.CullFaceMode)
	assert.Equal(t, metadata.GeometryModeTriangles, spec.GeometryMode)
}

func TestLoadMaterialErrors(t *testing.T) {
	_, err := LoadMaterial(writeFile(t, "unknown.toml", []byte("name = \"x\"\nshininess = 3\n")))
	assert.Error(t, err)

	_, err = LoadMaterial(writeFile(t, "badtype.toml", []byte("name = \"x\"\nvertex_attributes = [\"vec9\"]\n")))
	assert.ErrorContains(t, err, "badtype.toml:2:")

	_, err = LoadMaterial(writeFile(t, "noshader.toml", []byte("name = \"x\"\n")))
	assert.ErrorContains(t, err, "vertex_shader is required")
}
