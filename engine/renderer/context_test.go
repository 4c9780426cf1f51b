package renderer

import (
	"testing"

	"github.com/spaghettifunk/voxelcraft/engine/core"
	"github.com/spaghettifunk/voxelcraft/engine/math"
	"github.com/spaghettifunk/voxelcraft/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testMesh struct {
	index, positions, uvs *Buffer
}

func newTestMesh(t *testing.T, r *Renderer) testMesh {
	t.Helper()
	m := testMesh{
		index:     r.NewBuffer(metadata.BufferUsageIndex),
		positions: r.NewBuffer(metadata.BufferUsageVertex),
		uvs:       r.NewBuffer(metadata.BufferUsageVertex),
	}
	require.NoError(t, m.index.UploadIndices([]uint32{0, 1, 2, 2, 3, 0}))
	require.NoError(t, m.positions.UploadVec3(make([]math.Vec3, 4)))
	require.NoError(t, m.uvs.UploadVec2(make([]math.Vec2, 4)))
	return m
}

func TestDrawRecordsIndexedDraw(t *testing.T) {
	r, backend := newTestRenderer(t)
	mat, err := r.CreateMaterial(chunkSpec(t))
	require.NoError(t, err)
	mesh := newTestMesh(t, r)

	require.NoError(t, r.BeginFrame())
	err = r.Context().
		WithMaterial(mat).
		WithMesh(mesh.index, mesh.positions, mesh.uvs).
		WithVertexUniform(0, math.NewMat4Identity()).
		WithVertexUniform(1, math.NewMat4Identity()).
		WithFragmentUniform(0, math.Vec4{X: 1, W: 1}).
		Draw()
	require.NoError(t, err)
	require.NoError(t, r.EndFrame())

	draw, ok := backend.last("CmdDrawIndexed")
	require.True(t, ok)
	assert.Equal(t, []interface{}{uint32(6), uint32(1)}, draw.Args)

	push, ok := backend.last("CmdPushConstants")
	require.True(t, ok)
	assert.Equal(t, []interface{}{metadata.ShaderStageFragment, uint32(128), 16}, push.Args)

	vb, ok := backend.last("CmdBindVertexBuffers")
	require.True(t, ok)
	assert.Equal(t, []interface{}{uint32(0), 2}, vb.Args)
}

func TestSameMaterialBindsOnce(t *testing.T) {
	r, backend := newTestRenderer(t)
	mat, err := r.CreateMaterial(chunkSpec(t))
	require.NoError(t, err)
	mesh := newTestMesh(t, r)

	require.NoError(t, r.BeginFrame())
	for i := 0; i < 2; i++ {
		require.NoError(t, r.Context().WithMaterial(mat).WithMesh(mesh.index, mesh.positions, mesh.uvs).Draw())
	}
	require.NoError(t, r.EndFrame())
	assert.Equal(t, 1, backend.count("CmdBindPipeline"))
	assert.Equal(t, 2, backend.count("CmdDrawIndexed"))

	// the cache does not survive the frame
	require.NoError(t, r.BeginFrame())
	require.NoError(t, r.Context().WithMaterial(mat).WithMesh(mesh.index, mesh.positions, mesh.uvs).Draw())
	require.NoError(t, r.EndFrame())
	assert.Equal(t, 2, backend.count("CmdBindPipeline"))
}

func TestDrawOutsideFrame(t *testing.T) {
	r, _ := newTestRenderer(t)
	mat, err := r.CreateMaterial(chunkSpec(t))
	require.NoError(t, err)

	err = r.Context().WithMaterial(mat).Draw()
	assert.ErrorIs(t, err, core.ErrDrawOutsideFrame)
}

func TestUniformErrors(t *testing.T) {
	r, backend := newTestRenderer(t)
	mat, err := r.CreateMaterial(chunkSpec(t))
	require.NoError(t, err)
	mesh := newTestMesh(t, r)

	require.NoError(t, r.BeginFrame())
	defer func() { require.NoError(t, r.EndFrame()) }()

	err = r.Context().WithVertexUniform(0, math.NewMat4Identity()).Draw()
	assert.ErrorIs(t, err, core.ErrNoMaterialBound)

	err = r.Context().WithMaterial(mat).WithMesh(mesh.index, mesh.positions, mesh.uvs).
		WithVertexUniform(0, int32(7)).Draw()
	assert.ErrorIs(t, err, core.ErrInvalidOperation)

	err = r.Context().WithMaterial(mat).WithVertexUniform(2, math.NewMat4Identity()).Draw()
	assert.ErrorIs(t, err, core.ErrIndexOutOfRange)

	err = r.Context().WithMaterial(mat).WithTexture(3, nil).Draw()
	assert.ErrorIs(t, err, core.ErrIndexOutOfRange)
	assert.Zero(t, backend.count("CmdDrawIndexed"))
}

func TestDrawClearsMaterialButKeepsMesh(t *testing.T) {
	r, backend := newTestRenderer(t)
	mat, err := r.CreateMaterial(chunkSpec(t))
	require.NoError(t, err)
	mesh := newTestMesh(t, r)

	require.NoError(t, r.BeginFrame())
	ctx := r.Context()
	require.NoError(t, ctx.WithMaterial(mat).WithMesh(mesh.index, mesh.positions, mesh.uvs).Draw())
	assert.ErrorIs(t, ctx.Draw(), core.ErrNoMaterialBound)
	require.NoError(t, ctx.WithMaterial(mat).Draw())
	require.NoError(t, r.EndFrame())
	assert.Equal(t, 2, backend.count("CmdDrawIndexed"))
}

func TestEmptyBufferCannotBeBound(t *testing.T) {
	r, _ := newTestRenderer(t)
	mat, err := r.CreateMaterial(chunkSpec(t))
	require.NoError(t, err)
	mesh := newTestMesh(t, r)
	require.NoError(t, mesh.uvs.Upload(nil))

	require.NoError(t, r.BeginFrame())
	err = r.Context().WithMaterial(mat).WithMesh(mesh.index, mesh.positions, mesh.uvs).Draw()
	assert.ErrorIs(t, err, core.ErrInvalidOperation)
	require.NoError(t, r.EndFrame())
}

func TestWithInstancesBindsAfterVertexBuffers(t *testing.T) {
	r, backend := newTestRenderer(t)
	spec := chunkSpec(t)
	spec.InstanceAttributes = []metadata.MaterialType{metadata.MaterialTypeVec3}
	mat, err := r.CreateMaterial(spec)
	require.NoError(t, err)
	mesh := newTestMesh(t, r)
	offsets := r.NewBuffer(metadata.BufferUsageVertex)
	require.NoError(t, offsets.UploadVec3(make([]math.Vec3, 10)))

	require.NoError(t, r.BeginFrame())
	require.NoError(t, r.Context().WithMaterial(mat).WithMesh(mesh.index, mesh.positions, mesh.uvs).WithInstances(10, offsets).Draw())
	require.NoError(t, r.EndFrame())

	vb, _ := backend.last("CmdBindVertexBuffers")
	assert.Equal(t, []interface{}{uint32(2), 1}, vb.Args)
	draw, _ := backend.last("CmdDrawIndexed")
	assert.Equal(t, []interface{}{uint32(6), uint32(10)}, draw.Args)
}

func TestDrawFrameSkipsMinimizedWindow(t *testing.T) {
	backend := newMockBackend()
	size := &windowSize{w: 800, h: 600}
	r := New(backend, size.get, metadata.ClearColor{})
	require.NoError(t, r.Initialize("test", 800, 600))

	size.w, size.h = 0, 0
	called := false
	require.NoError(t, r.DrawFrame(func(ctx *RenderContext) error {
		called = true
		return nil
	}))
	assert.False(t, called)
}

func TestTextureIsWrittenBeforeTheMaterialIsBound(t *testing.T) {
	r, backend := newTestRenderer(t)
	mat, err := r.CreateMaterial(chunkSpec(t))
	require.NoError(t, err)
	mesh := newTestMesh(t, r)
	atlas, err := r.NewTexture(make([]uint8, 4), 1, 1)
	require.NoError(t, err)
	other, err := r.NewTexture(make([]uint8, 16), 2, 2)
	require.NoError(t, err)

	require.NoError(t, r.BeginFrame())
	err = r.Context().
		WithMaterial(mat).
		WithTexture(0, atlas).
		WithMesh(mesh.index, mesh.positions, mesh.uvs).
		WithVertexUniform(0, math.NewMat4Identity()).
		Draw()
	require.NoError(t, err)
	assert.Equal(t, []string{"UpdatePipelineTexture", "CmdBindPipeline"},
		backend.sequence("UpdatePipelineTexture", "CmdBindPipeline"))

	// the descriptor set is referenced by the recording command buffer now
	err = r.Context().WithMaterial(mat).WithTexture(0, other).Draw()
	assert.ErrorIs(t, err, core.ErrInvalidOperation)
	require.NoError(t, r.Context().WithMaterial(mat).WithTexture(0, atlas).WithMesh(mesh.index, mesh.positions, mesh.uvs).Draw())
	assert.ErrorIs(t, mat.UseTexture(0, other), core.ErrInvalidOperation)
	require.NoError(t, r.EndFrame())

	require.NoError(t, mat.UseTexture(0, other))
	assert.Equal(t, 2, backend.count("UpdatePipelineTexture"))
	assert.Equal(t, 1, backend.count("CmdBindPipeline"))
}

func TestWithTextureOutsideFrame(t *testing.T) {
	r, backend := newTestRenderer(t)
	mat, err := r.CreateMaterial(chunkSpec(t))
	require.NoError(t, err)
	atlas, err := r.NewTexture(make([]uint8, 4), 1, 1)
	require.NoError(t, err)

	err = r.Context().WithMaterial(mat).WithTexture(0, atlas).Draw()
	assert.ErrorIs(t, err, core.ErrDrawOutsideFrame)
	assert.Zero(t, backend.count("UpdatePipelineTexture"))
}
