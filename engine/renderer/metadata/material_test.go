package metadata

import (
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialSpecFromTOML(t *testing.T) {
	doc := `
name = "chunk"
vertex_shader = "shaders/chunk.vert.spv"
fragment_shader = "shaders/chunk.frag.spv"
vertex_attributes = ["vec3", "vec2"]
vertex_uniforms = ["mat4", "mat4", "mat4"]
texture_count = 1
cull_face_mode = "back"
geometry_mode = "lines"
`
	var spec MaterialSpec
	require.NoError(t, toml.Unmarshal([]byte(doc), &spec))

	assert.Equal(t, "chunk", spec.Name)
	assert.Equal(t, []MaterialType{MaterialTypeVec3, MaterialTypeVec2}, spec.VertexAttributes)
	assert.Equal(t, []MaterialType{MaterialTypeMat4, MaterialTypeMat4, MaterialTypeMat4}, spec.VertexUniforms)
	assert.Empty(t, spec.FragmentUniforms)
	assert.Equal(t, uint32(1), spec.TextureCount)
	assert.Equal(t, CullFaceModeBack, spec.CullFaceMode)
	assert.Equal(t, GeometryModeLines, spec.GeometryMode)
}

func TestMaterialTypeText(t *testing.T) {
	var mt MaterialType
	require.NoError(t, mt.UnmarshalText([]byte("RGBA32")))
	assert.Equal(t, MaterialTypeVec4, mt)
	assert.Error(t, mt.UnmarshalText([]byte("vec5")))

	b, err := MaterialTypeMat3.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "mat3", string(b))

	_, err = MaterialType(99).MarshalText()
	assert.Error(t, err)
	assert.True(t, MaterialTypeMat2.IsMatrix())
	assert.False(t, MaterialTypeVec4.IsMatrix())
}
