package testbed

import (
	"github.com/spaghettifunk/voxelcraft/engine/math"
	"github.com/spaghettifunk/voxelcraft/engine/renderer"
	"github.com/spaghettifunk/voxelcraft/engine/renderer/metadata"
)

// Uniform slots of the chunk material's vertex stage.
const (
	uniformProjection uint32 = iota
	uniformView
	uniformModel
)

// Mesh owns the GPU buffers of one MeshData and its placement in the world.
type Mesh struct {
	Material *renderer.Material
	Position math.Vec3
	// Rotation in degrees around x, y and z.
	Rotation math.Vec3
	Scale    math.Vec3

	indices   *renderer.Buffer
	positions *renderer.Buffer
	uvs       *renderer.Buffer
}

func NewMesh(r *renderer.Renderer, material *renderer.Material) *Mesh {
	return &Mesh{
		Material:  material,
		Scale:     math.NewVec3(1, 1, 1),
		indices:   r.NewBuffer(metadata.BufferUsageIndex),
		positions: r.NewBuffer(metadata.BufferUsageVertex),
		uvs:       r.NewBuffer(metadata.BufferUsageVertex),
	}
}

// Commit replaces the mesh content on the GPU.
func (m *Mesh) Commit(data *MeshData) error {
	if err := m.indices.UploadIndices(data.Indices); err != nil {
		return err
	}
	if err := m.positions.UploadVec3(data.Positions); err != nil {
		return err
	}
	return m.uvs.UploadVec2(data.UVs)
}

// Model scales, then rotates, then translates.
func (m *Mesh) Model() math.Mat4 {
	rotation := math.NewMat4EulerXYZ(math.DegToRad(m.Rotation.X), math.DegToRad(m.Rotation.Y), math.DegToRad(m.Rotation.Z))
	return math.NewMat4Scale(m.Scale).Mul(rotation).Mul(math.NewMat4Translation(m.Position))
}

func (m *Mesh) Draw(ctx *renderer.RenderContext, projection, view math.Mat4) error {
	return ctx.WithMaterial(m.Material).
		WithMesh(m.indices, m.positions, m.uvs).
		WithVertexUniform(uniformProjection, projection).
		WithVertexUniform(uniformView, view).
		WithVertexUniform(uniformModel, m.Model()).
		Draw()
}

func (m *Mesh) Destroy() {
	m.indices.Destroy()
	m.positions.Destroy()
	m.uvs.Destroy()
}
