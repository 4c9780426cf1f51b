package renderer

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/voxelcraft/engine/assets/loaders"
	"github.com/spaghettifunk/voxelcraft/engine/core"
	"github.com/spaghettifunk/voxelcraft/engine/renderer/metadata"
)

/**
 * @brief A compiled material: pipeline, layout, packed uniform offsets and
 * the textures attached to its descriptor set.
 */
type Material struct {
	renderer *Renderer
	id       uuid.UUID
	name     string
	layout   *metadata.PipelineLayout
	pipeline metadata.GPUPipeline
	textures []*Texture
}

// CreateMaterial loads both shader programs of spec and compiles them into
// pipeline state.
func (r *Renderer) CreateMaterial(spec *metadata.MaterialSpec) (*Material, error) {
	layout, err := metadata.CompileLayout(spec, r.limits.MaxPushConstantsSize)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	if layout.GeometryMode != metadata.GeometryModeTriangles && !r.limits.FillModeNonSolid {
		err := &core.InvalidMaterialSpecError{Field: "geometry_mode", Index: -1, Reason: "device does not support non-solid fill modes"}
		core.LogError(err.Error())
		return nil, err
	}
	vert, err := loaders.LoadShader(spec.VertexShader)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	frag, err := loaders.LoadShader(spec.FragmentShader)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	pipeline, err := r.backend.CreatePipeline(&metadata.PipelineDesc{
		Name:         spec.Name,
		Layout:       layout,
		VertexCode:   vert,
		FragmentCode: frag,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline for material '%s': %w", spec.Name, err)
	}

	m := &Material{
		renderer: r,
		id:       uuid.New(),
		name:     spec.Name,
		layout:   layout,
		pipeline: pipeline,
		textures: make([]*Texture, layout.TextureCount),
	}
	r.register(m)
	core.LogDebug("material '%s' created: %d bindings, %d push constant bytes, %d textures",
		m.name, len(layout.Bindings), layout.PushConstantSize(), layout.TextureCount)
	return m, nil
}

func (m *Material) ID() uuid.UUID                    { return m.id }
func (m *Material) Name() string                     { return m.name }
func (m *Material) Layout() *metadata.PipelineLayout { return m.layout }

// UseTexture attaches tex to the texture slot index.
func (m *Material) UseTexture(index uint32, tex *Texture) error {
	if index >= m.layout.TextureCount {
		return &core.IndexOutOfRangeError{What: "texture", Index: index, Len: m.layout.TextureCount}
	}
	if tex == nil || tex.resident == nil {
		return &core.InvalidOperationError{Op: "UseTexture", Reason: "texture has no image"}
	}
	if m.textures[index] == tex {
		return nil
	}
	if m.renderer.context.boundInFrame(m) {
		return &core.InvalidOperationError{Op: "UseTexture", Reason: fmt.Sprintf("material '%s' is already recorded in this frame", m.name)}
	}
	if err := m.renderer.backend.UpdatePipelineTexture(m.pipeline, index, tex.resident); err != nil {
		return err
	}
	m.textures[index] = tex
	return nil
}

func (m *Material) pushUniform(slot uint32, stage metadata.ShaderStage, index uint32, value interface{}) error {
	block := m.layout.VertexUniforms
	if stage == metadata.ShaderStageFragment {
		block = m.layout.FragmentUniforms
	}
	if index >= uint32(len(block.Types)) {
		return &core.IndexOutOfRangeError{What: stage.String() + " uniform", Index: index, Len: uint32(len(block.Types))}
	}
	data, err := metadata.EncodeUniform(block.Types[index], value)
	if err != nil {
		return err
	}
	m.renderer.backend.CmdPushConstants(slot, m.pipeline, stage, block.Offsets[index], data)
	return nil
}

func (m *Material) release() {
	if m.pipeline != nil {
		m.renderer.backend.DestroyPipeline(m.pipeline)
		m.pipeline = nil
	}
}

func (m *Material) Destroy() {
	m.renderer.unregister(m.id)
	if m.pipeline == nil {
		return
	}
	old := m.pipeline
	m.pipeline = nil
	m.renderer.retire(func() { m.renderer.backend.DestroyPipeline(old) })
}
