package testbed

import (
	"testing"

	"github.com/spaghettifunk/voxelcraft/engine/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkOutOfRangeIsAir(t *testing.T) {
	c := NewChunk(2, 2, 2)
	c.Set(1, 1, 1, BlockStone)
	c.Set(5, 0, 0, BlockStone)

	assert.Equal(t, BlockStone, c.At(1, 1, 1))
	assert.Equal(t, BlockAir, c.At(0, 1, 1))
	assert.Equal(t, BlockAir, c.At(-1, 0, 0))
	assert.Equal(t, BlockAir, c.At(5, 0, 0))
}

func TestChunkGenerateLayers(t *testing.T) {
	c := NewChunk(4, 64, 4)
	c.Generate(60)

	assert.Equal(t, BlockAir, c.At(0, 61, 0))
	assert.Equal(t, BlockGrass, c.At(0, 60, 0))
	assert.Equal(t, BlockDirt, c.At(1, 59, 2))
	assert.Equal(t, BlockDirt, c.At(3, 51, 3))
	assert.Equal(t, BlockStone, c.At(2, 50, 1))
	assert.Equal(t, BlockStone, c.At(0, 0, 0))
}

// faceNormal is the cross product of the first triangle of quad q.
func faceNormal(m *MeshData, q int) math.Vec3 {
	i0, i1, i2 := m.Indices[q*6], m.Indices[q*6+1], m.Indices[q*6+2]
	a := m.Positions[i1].Sub(m.Positions[i0])
	b := m.Positions[i2].Sub(m.Positions[i0])
	return a.Cross(b)
}

func TestSingleBlockMeshIsClosedAndOutwardFacing(t *testing.T) {
	c := NewChunk(1, 1, 1)
	c.Set(0, 0, 0, BlockDirt)

	m := BuildChunkMesh(c)
	require.Len(t, m.Positions, 24)
	require.Len(t, m.UVs, 24)
	require.Len(t, m.Indices, 36)
	assert.Equal(t, 12, m.TriangleCount())

	center := math.NewVec3(0.5, 0.5, 0.5)
	for q := 0; q < 6; q++ {
		n := faceNormal(m, q)
		assert.InDelta(t, 1.0, n.Length(), 1e-6)

		// Counter-clockwise from outside: the normal points away from the center.
		faceCenter := math.NewVec3Zero()
		for _, p := range m.Positions[q*4 : q*4+4] {
			faceCenter = faceCenter.Add(p)
		}
		faceCenter = faceCenter.MulScalar(0.25)
		assert.Greater(t, n.Dot(faceCenter.Sub(center)), float32(0), "quad %d faces inwards", q)

		// Both triangles of a quad share the winding.
		j0, j1, j2 := m.Indices[q*6+3], m.Indices[q*6+4], m.Indices[q*6+5]
		n2 := m.Positions[j1].Sub(m.Positions[j0]).Cross(m.Positions[j2].Sub(m.Positions[j0]))
		assert.True(t, n.Compare(n2, 1e-6))
	}
}

func TestAdjacentBlocksShareNoFaces(t *testing.T) {
	c := NewChunk(2, 1, 1)
	c.Set(0, 0, 0, BlockStone)
	c.Set(1, 0, 0, BlockStone)

	m := BuildChunkMesh(c)
	assert.Len(t, m.Positions, 10*4)
	assert.Equal(t, 20, m.TriangleCount())
}

func TestGeneratedChunkOnlyMeshesTheHull(t *testing.T) {
	c := NewChunk(64, 64, 64)
	c.Generate(60)

	m := BuildChunkMesh(c)
	// Solid box of 64x61x64: top and bottom plus four sides.
	quads := 2*64*64 + 4*64*61
	assert.Len(t, m.Positions, quads*4)
	assert.Len(t, m.Indices, quads*6)
	for _, i := range m.Indices {
		require.Less(t, i, uint32(len(m.Positions)))
	}
}

func TestGrassUsesPerFaceCells(t *testing.T) {
	c := NewChunk(1, 1, 1)
	c.Set(0, 0, 0, BlockGrass)
	m := BuildChunkMesh(c)

	const step = float32(1) / AtlasCells
	for q := 0; q < 6; q++ {
		uvs := m.UVs[q*4 : q*4+4]
		n := faceNormal(m, q)
		var want AtlasCell
		switch {
		case n.Y > 0:
			want = AtlasCell{0, 0}
		case n.Y < 0:
			want = AtlasCell{0, 2}
		default:
			want = AtlasCell{0, 1}
		}
		// Bottom-left corner of the cell comes first.
		assert.InDelta(t, float32(want.X)*step, uvs[0].X, 1e-6)
		assert.InDelta(t, float32(want.Y+1)*step, uvs[0].Y, 1e-6)
		assert.InDelta(t, float32(want.Y)*step, uvs[2].Y, 1e-6)
	}
}

func TestUnknownBlockFallsBackToDebug(t *testing.T) {
	assert.Equal(t, "Debug", BlockID(200).Block().Name)
	assert.Equal(t, "Stone", BlockStone.Block().Name)
}
