package renderer

import (
	"github.com/spaghettifunk/voxelcraft/engine/core"
	"github.com/spaghettifunk/voxelcraft/engine/renderer/metadata"
)

// RenderContext builds one draw at a time inside an open frame. Calls chain;
// the first error is kept and returned by Draw. The material's pipeline is
// bound by the first uniform push or by Draw, so textures set before that
// reach the descriptor set before it is recorded.
type RenderContext struct {
	renderer *Renderer

	material  *Material
	lastBound *Material
	// bound holds the materials recorded into the current frame.
	bound map[*Material]bool

	vertexBindings uint32
	indexCount     uint32
	instanceCount  uint32

	err error
}

func newRenderContext(r *Renderer) *RenderContext {
	return &RenderContext{renderer: r, bound: make(map[*Material]bool)}
}

// Reset clears the draw state. The material bind cache survives until the
// next frame.
func (c *RenderContext) Reset() {
	c.material = nil
	c.vertexBindings = 0
	c.indexCount = 0
	c.instanceCount = 0
	c.err = nil
}

func (c *RenderContext) beginFrame() {
	c.Reset()
	c.lastBound = nil
	clear(c.bound)
}

// boundInFrame reports whether m's descriptor set is referenced by the
// command buffer being recorded.
func (c *RenderContext) boundInFrame(m *Material) bool {
	return c.renderer.frameOpen() && c.bound[m]
}

func (c *RenderContext) bindMaterial() {
	if c.material == c.lastBound {
		return
	}
	c.renderer.backend.CmdBindPipeline(c.slot(), c.material.pipeline)
	c.lastBound = c.material
	c.bound[c.material] = true
}

func (c *RenderContext) slot() uint32 {
	return c.renderer.frames.CurrentFrame()
}

func (c *RenderContext) ok() bool {
	if c.err != nil {
		return false
	}
	if !c.renderer.frameOpen() {
		c.err = core.ErrDrawOutsideFrame
		return false
	}
	return true
}

func (c *RenderContext) WithMaterial(m *Material) *RenderContext {
	if !c.ok() {
		return c
	}
	if m == nil || m.pipeline == nil {
		c.err = &core.InvalidOperationError{Op: "WithMaterial", Reason: "material is destroyed"}
		return c
	}
	c.material = m
	return c
}

func buffersOf(op string, buffers []*Buffer) ([]metadata.GPUBuffer, error) {
	gpu := make([]metadata.GPUBuffer, len(buffers))
	for i, b := range buffers {
		if b == nil || b.Empty() {
			return nil, &core.InvalidOperationError{Op: op, Reason: "cannot bind an empty buffer"}
		}
		gpu[i] = b.resident
	}
	return gpu, nil
}

// WithMesh binds the vertex buffers in binding order and the uint32 index buffer.
func (c *RenderContext) WithMesh(index *Buffer, vertexBuffers ...*Buffer) *RenderContext {
	if !c.ok() {
		return c
	}
	gpu, err := buffersOf("WithMesh", append([]*Buffer{index}, vertexBuffers...))
	if err != nil {
		c.err = err
		return c
	}
	if len(vertexBuffers) > 0 {
		c.renderer.backend.CmdBindVertexBuffers(c.slot(), 0, gpu[1:])
	}
	c.renderer.backend.CmdBindIndexBuffer(c.slot(), gpu[0])
	c.vertexBindings = uint32(len(vertexBuffers))
	c.indexCount = uint32(index.Size() / 4)
	c.instanceCount = 1
	return c
}

// WithInstances binds per-instance buffers after the mesh's vertex buffers.
func (c *RenderContext) WithInstances(count uint32, instanceBuffers ...*Buffer) *RenderContext {
	if !c.ok() {
		return c
	}
	gpu, err := buffersOf("WithInstances", instanceBuffers)
	if err != nil {
		c.err = err
		return c
	}
	if len(gpu) > 0 {
		c.renderer.backend.CmdBindVertexBuffers(c.slot(), c.vertexBindings, gpu)
	}
	c.instanceCount = count
	return c
}

func (c *RenderContext) withUniform(stage metadata.ShaderStage, index uint32, value interface{}) *RenderContext {
	if !c.ok() {
		return c
	}
	if c.material == nil {
		c.err = core.ErrNoMaterialBound
		return c
	}
	c.bindMaterial()
	c.err = c.material.pushUniform(c.slot(), stage, index, value)
	return c
}

func (c *RenderContext) WithVertexUniform(index uint32, value interface{}) *RenderContext {
	return c.withUniform(metadata.ShaderStageVertex, index, value)
}

func (c *RenderContext) WithFragmentUniform(index uint32, value interface{}) *RenderContext {
	return c.withUniform(metadata.ShaderStageFragment, index, value)
}

// WithTexture attaches tex to the material. Inside a frame this must come
// before the material's first uniform or draw.
func (c *RenderContext) WithTexture(index uint32, tex *Texture) *RenderContext {
	if !c.ok() {
		return c
	}
	if c.material == nil {
		c.err = core.ErrNoMaterialBound
		return c
	}
	c.err = c.material.UseTexture(index, tex)
	return c
}

// Draw records the indexed draw and clears the material. Mesh and instance
// counts stay until Reset.
func (c *RenderContext) Draw() error {
	if !c.ok() {
		err := c.err
		c.err = nil
		c.material = nil
		return err
	}
	if c.material == nil {
		return core.ErrNoMaterialBound
	}
	if c.indexCount == 0 {
		c.material = nil
		return &core.InvalidOperationError{Op: "Draw", Reason: "no mesh bound"}
	}
	c.bindMaterial()
	c.renderer.backend.CmdDrawIndexed(c.slot(), c.indexCount, c.instanceCount)
	c.material = nil
	return nil
}
