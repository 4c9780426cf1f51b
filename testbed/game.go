package testbed

import (
	"fmt"

	"github.com/spaghettifunk/voxelcraft/engine"
	"github.com/spaghettifunk/voxelcraft/engine/core"
	"github.com/spaghettifunk/voxelcraft/engine/math"
	"github.com/spaghettifunk/voxelcraft/engine/renderer"
)

const (
	chunkSize    = 64
	chunkSurface = 60
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	engine *engine.Engine

	camera   *FreeCamera
	chunk    *Chunk
	material *renderer.Material
	atlas    *renderer.Texture
	mesh     *Mesh
	// meshReady is set once the chunk mesh is on the GPU.
	meshReady bool

	time   float64
	width  uint32
	height uint32
}

func NewTestGame() *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			State: &gameState{},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) state() *gameState {
	return g.State.(*gameState)
}

func (g *TestGame) Initialize(e *engine.Engine) error {
	core.LogDebug("TestGame Initialize fn....")

	state := g.state()
	state.engine = e
	cfg := e.Config()
	r := e.Renderer()

	spec, err := e.Assets().LoadMaterial(cfg.Assets.ChunkMaterial)
	if err != nil {
		return fmt.Errorf("failed to load chunk material: %w", err)
	}
	state.material, err = r.CreateMaterial(spec)
	if err != nil {
		return err
	}

	img, err := e.Assets().LoadImage(cfg.Assets.BlockAtlas)
	if err != nil {
		return fmt.Errorf("failed to load block atlas: %w", err)
	}
	state.atlas, err = r.NewTexture(img.Pixels, img.Width, img.Height)
	if err != nil {
		return err
	}
	if err := state.material.UseTexture(0, state.atlas); err != nil {
		return err
	}

	state.mesh = NewMesh(r, state.material)
	if err := e.Jobs().Submit(g.chunkMeshJob()); err != nil {
		return err
	}

	// Above the far edge of the chunk, looking back across it.
	state.camera = NewFreeCamera(math.NewVec3(chunkSize/2, chunkSurface+10, chunkSize+16))
	state.camera.SetRotation(math.NewVec3(-20, 0, 0))

	e.Platform().CaptureCursor(true)
	return nil
}

type builtChunk struct {
	chunk *Chunk
	data  *MeshData
}

// chunkMeshJob generates and meshes the chunk on a worker. The upload
// happens in the completion callback, on the main thread.
func (g *TestGame) chunkMeshJob() core.JobTask {
	state := g.state()
	return core.JobTask{
		Name: "chunk mesh",
		Run: func() (interface{}, error) {
			chunk := NewChunk(chunkSize, chunkSize, chunkSize)
			chunk.Generate(chunkSurface)
			return &builtChunk{chunk: chunk, data: BuildChunkMesh(chunk)}, nil
		},
		OnComplete: func(result interface{}) {
			built := result.(*builtChunk)
			state.chunk = built.chunk
			data := built.data
			core.LogInfo("committing mesh with %d triangles", data.TriangleCount())
			if err := state.mesh.Commit(data); err != nil {
				core.LogError("failed to upload chunk mesh: %s", err)
				return
			}
			state.meshReady = true
		},
	}
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.state()
	state.time += deltaTime
	state.camera.Update(state.engine.Input(), deltaTime)
	return nil
}

func (g *TestGame) Render(ctx *renderer.RenderContext, deltaTime float64) error {
	state := g.state()
	if !state.meshReady {
		return nil
	}

	w, h := state.engine.Renderer().ViewportSize()
	var aspect float32 = 1
	if h != 0 {
		aspect = float32(w) / float32(h)
	}
	return state.mesh.Draw(ctx, state.camera.Projection(aspect), state.camera.View())
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	state := g.state()
	state.width = width
	state.height = height
	return nil
}

func (g *TestGame) Shutdown() error {
	state := g.state()
	if state.engine != nil && state.camera != nil {
		state.engine.Platform().CaptureCursor(false)
	}
	if state.mesh != nil {
		state.mesh.Destroy()
	}
	if state.atlas != nil {
		state.atlas.Destroy()
	}
	if state.material != nil {
		state.material.Destroy()
	}
	return nil
}
