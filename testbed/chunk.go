package testbed

import (
	"github.com/spaghettifunk/voxelcraft/engine/math"
)

type BlockID uint8

const (
	BlockAir BlockID = iota
	BlockGrass
	BlockDirt
	BlockStone
	BlockDebug
)

// AtlasCells is the number of cells along each side of the block atlas.
const AtlasCells = 4

// AtlasCell addresses one square of the block atlas, X is the column.
type AtlasCell struct {
	X, Y uint8
}

// Block holds the atlas cell of every face.
type Block struct {
	Name   string
	Top    AtlasCell
	Bottom AtlasCell
	North  AtlasCell // +Z
	South  AtlasCell // -Z
	East   AtlasCell // +X
	West   AtlasCell // -X
}

func uniformBlock(name string, cell AtlasCell) Block {
	return Block{Name: name, Top: cell, Bottom: cell, North: cell, South: cell, East: cell, West: cell}
}

var blocks = [...]Block{
	BlockAir: {Name: "Air"},
	BlockGrass: {
		Name:   "Grass",
		Top:    AtlasCell{0, 0},
		Bottom: AtlasCell{0, 2},
		North:  AtlasCell{0, 1},
		South:  AtlasCell{0, 1},
		East:   AtlasCell{0, 1},
		West:   AtlasCell{0, 1},
	},
	BlockDirt:  uniformBlock("Dirt", AtlasCell{0, 2}),
	BlockStone: uniformBlock("Stone", AtlasCell{2, 2}),
	BlockDebug: uniformBlock("Debug", AtlasCell{3, 0}),
}

func (id BlockID) Block() Block {
	if int(id) >= len(blocks) {
		return blocks[BlockDebug]
	}
	return blocks[id]
}

// Chunk is a dense box of blocks, x fastest.
type Chunk struct {
	SizeX, SizeY, SizeZ int
	data                []BlockID
}

func NewChunk(sizeX, sizeY, sizeZ int) *Chunk {
	return &Chunk{
		SizeX: sizeX,
		SizeY: sizeY,
		SizeZ: sizeZ,
		data:  make([]BlockID, sizeX*sizeY*sizeZ),
	}
}

func (c *Chunk) contains(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < c.SizeX && y < c.SizeY && z < c.SizeZ
}

func (c *Chunk) index(x, y, z int) int {
	return x + c.SizeX*(y+c.SizeY*z)
}

// At returns the block at x, y, z. Positions outside the chunk read as air.
func (c *Chunk) At(x, y, z int) BlockID {
	if !c.contains(x, y, z) {
		return BlockAir
	}
	return c.data[c.index(x, y, z)]
}

func (c *Chunk) Set(x, y, z int, id BlockID) {
	if c.contains(x, y, z) {
		c.data[c.index(x, y, z)] = id
	}
}

// Generate fills the chunk with flat terrain: a grass layer at surface,
// dirt for the nine layers below it and stone underneath.
func (c *Chunk) Generate(surface int) {
	for z := 0; z < c.SizeZ; z++ {
		for y := 0; y < c.SizeY; y++ {
			for x := 0; x < c.SizeX; x++ {
				var id BlockID
				switch {
				case y == surface:
					id = BlockGrass
				case y < surface && y > surface-10:
					id = BlockDirt
				case y < surface:
					id = BlockStone
				default:
					id = BlockAir
				}
				c.data[c.index(x, y, z)] = id
			}
		}
	}
}

// MeshData is an indexed triangle list with one position and one atlas
// coordinate per vertex.
type MeshData struct {
	Indices   []uint32
	Positions []math.Vec3
	UVs       []math.Vec2
}

func (m *MeshData) TriangleCount() int {
	return len(m.Indices) / 3
}

// AddQuad appends v0..v3, counter-clockwise when seen from the front, as two
// triangles.
func (m *MeshData) AddQuad(v [4]math.Vec3, uv [4]math.Vec2) {
	base := uint32(len(m.Positions))
	m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	m.Positions = append(m.Positions, v[:]...)
	m.UVs = append(m.UVs, uv[:]...)
}

// cellUVs maps a cell to normalized coordinates ordered bottom-left,
// bottom-right, top-right, top-left. Image rows grow downwards.
func cellUVs(cell AtlasCell) [4]math.Vec2 {
	const step = float32(1) / AtlasCells
	u0, v0 := float32(cell.X)*step, float32(cell.Y)*step
	u1, v1 := u0+step, v0+step
	return [4]math.Vec2{
		math.NewVec2(u0, v1),
		math.NewVec2(u1, v1),
		math.NewVec2(u1, v0),
		math.NewVec2(u0, v0),
	}
}

type face struct {
	dx, dy, dz int
	corners    [4]math.Vec3
	cell       func(b Block) AtlasCell
}

// Corners are unit offsets, bottom edge first for the side faces.
var faces = [...]face{
	{0, 0, 1, [4]math.Vec3{{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1}}, func(b Block) AtlasCell { return b.North }},
	{0, 0, -1, [4]math.Vec3{{X: 1, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 0}}, func(b Block) AtlasCell { return b.South }},
	{1, 0, 0, [4]math.Vec3{{X: 1, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 1}}, func(b Block) AtlasCell { return b.East }},
	{-1, 0, 0, [4]math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 1}, {X: 0, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 0}}, func(b Block) AtlasCell { return b.West }},
	{0, 1, 0, [4]math.Vec3{{X: 0, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 0}}, func(b Block) AtlasCell { return b.Top }},
	{0, -1, 0, [4]math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 1}, {X: 0, Y: 0, Z: 1}}, func(b Block) AtlasCell { return b.Bottom }},
}

// BuildChunkMesh emits one quad for every block face that touches air.
func BuildChunkMesh(c *Chunk) *MeshData {
	m := &MeshData{}
	for z := 0; z < c.SizeZ; z++ {
		for y := 0; y < c.SizeY; y++ {
			for x := 0; x < c.SizeX; x++ {
				id := c.At(x, y, z)
				if id == BlockAir {
					continue
				}
				block := id.Block()
				origin := math.NewVec3(float32(x), float32(y), float32(z))
				for _, f := range faces {
					if c.At(x+f.dx, y+f.dy, z+f.dz) != BlockAir {
						continue
					}
					var v [4]math.Vec3
					for i, corner := range f.corners {
						v[i] = origin.Add(corner)
					}
					m.AddQuad(v, cellUVs(f.cell(block)))
				}
			}
		}
	}
	return m
}
