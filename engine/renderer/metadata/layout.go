package metadata

import (
	"fmt"

	"github.com/spaghettifunk/voxelcraft/engine/core"
)

// VertexFormat mirrors the subset of device formats a vertex attribute can
// take. The backend maps each value onto its own format enum.
type VertexFormat int

const (
	VertexFormatUndefined VertexFormat = iota
	VertexFormatR32G32Sfloat
	VertexFormatR32G32B32Sfloat
	VertexFormatR32G32B32A32Sfloat
	VertexFormatR32Sfloat
	VertexFormatR32Sint
	VertexFormatR32Uint
)

type VertexInputRate int

const (
	VertexInputRateVertex VertexInputRate = iota
	VertexInputRateInstance
)

type ShaderStage int

const (
	ShaderStageVertex ShaderStage = iota
	ShaderStageFragment
)

func (s ShaderStage) String() string {
	if s == ShaderStageFragment {
		return "fragment"
	}
	return "vertex"
}

var typeSizes = map[MaterialType]uint32{
	MaterialTypeVoid:  0,
	MaterialTypeVec2:  8,
	MaterialTypeVec3:  12,
	MaterialTypeVec4:  16,
	MaterialTypeFloat: 4,
	MaterialTypeInt:   4,
	MaterialTypeUInt:  4,
	MaterialTypeMat2:  16,
	MaterialTypeMat3:  36,
	MaterialTypeMat4:  64,
}

var attributeFormats = map[MaterialType]VertexFormat{
	MaterialTypeVec2:  VertexFormatR32G32Sfloat,
	MaterialTypeVec3:  VertexFormatR32G32B32Sfloat,
	MaterialTypeVec4:  VertexFormatR32G32B32A32Sfloat,
	MaterialTypeFloat: VertexFormatR32Sfloat,
	MaterialTypeInt:   VertexFormatR32Sint,
	MaterialTypeUInt:  VertexFormatR32Uint,
}

// Size returns the tightly packed byte size of t. Void is zero.
func Size(t MaterialType) (uint32, error) {
	s, ok := typeSizes[t]
	if !ok {
		return 0, &core.InvalidMaterialSpecError{Field: "type", Index: -1, Reason: fmt.Sprintf("unknown material type %d", int(t))}
	}
	return s, nil
}

// AttributeFormat returns the vertex input format and stride of t. Matrices
// cannot be vertex attributes.
func AttributeFormat(t MaterialType) (VertexFormat, uint32, error) {
	f, ok := attributeFormats[t]
	if !ok {
		return VertexFormatUndefined, 0, &core.InvalidMaterialSpecError{Field: "attribute", Index: -1, Reason: fmt.Sprintf("type %s has no vertex format", t)}
	}
	return f, typeSizes[t], nil
}

// PackLayout returns the byte offset of every slot when the types are packed
// back to back in declaration order, and the total size.
func PackLayout(types []MaterialType) ([]uint32, uint32, error) {
	offsets := make([]uint32, len(types))
	var total uint32
	for i, t := range types {
		s, err := Size(t)
		if err != nil {
			return nil, 0, &core.InvalidMaterialSpecError{Field: "uniform", Index: i, Reason: fmt.Sprintf("unknown material type %d", int(t))}
		}
		offsets[i] = total
		total += s
	}
	return offsets, total, nil
}

type VertexBinding struct {
	Binding   uint32
	Location  uint32
	Format    VertexFormat
	Stride    uint32
	InputRate VertexInputRate
}

type UniformBlock struct {
	Types   []MaterialType
	Offsets []uint32
	Size    uint32
}

type PushRange struct {
	Stage  ShaderStage
	Offset uint32
	Size   uint32
}

/**
 * @brief The backend-independent result of compiling a material spec.
 */
type PipelineLayout struct {
	/** @brief Vertex bindings followed by instance bindings. */
	Bindings         []VertexBinding
	VertexBindings   uint32
	InstanceBindings uint32
	VertexUniforms   UniformBlock
	FragmentUniforms UniformBlock
	/** @brief Non-empty push constant ranges, vertex first. */
	PushRanges   []PushRange
	TextureCount uint32
	CullFaceMode CullFaceMode
	GeometryMode GeometryMode
}

// PushRange returns the push constant range of the stage, if it has one.
func (l *PipelineLayout) PushRange(stage ShaderStage) (PushRange, bool) {
	for _, r := range l.PushRanges {
		if r.Stage == stage {
			return r, true
		}
	}
	return PushRange{}, false
}

// PushConstantSize is the total size of both uniform blocks.
func (l *PipelineLayout) PushConstantSize() uint32 {
	return l.VertexUniforms.Size + l.FragmentUniforms.Size
}

func compileBindings(field string, types []MaterialType, firstBinding, firstLocation uint32, rate VertexInputRate) ([]VertexBinding, error) {
	bindings := make([]VertexBinding, 0, len(types))
	for i, t := range types {
		if t == MaterialTypeVoid {
			continue
		}
		f, stride, err := AttributeFormat(t)
		if err != nil {
			return nil, &core.InvalidMaterialSpecError{Field: field, Index: i, Reason: fmt.Sprintf("type %s cannot be a vertex attribute", t)}
		}
		bindings = append(bindings, VertexBinding{
			Binding:   firstBinding + uint32(len(bindings)),
			Location:  firstLocation + uint32(i),
			Format:    f,
			Stride:    stride,
			InputRate: rate,
		})
	}
	return bindings, nil
}

func compileBlock(field string, types []MaterialType) (UniformBlock, error) {
	offsets, total, err := PackLayout(types)
	if err != nil {
		if e, ok := err.(*core.InvalidMaterialSpecError); ok {
			e.Field = field
		}
		return UniformBlock{}, err
	}
	for i, t := range types {
		if t == MaterialTypeVoid {
			return UniformBlock{}, &core.InvalidMaterialSpecError{Field: field, Index: i, Reason: "void is not a uniform type"}
		}
	}
	return UniformBlock{Types: types, Offsets: offsets, Size: total}, nil
}

// CompileLayout turns a material spec into vertex input bindings, push
// constant ranges and the texture slot count. maxPushConstantsSize is the
// device limit the combined uniform blocks must fit in.
func CompileLayout(spec *MaterialSpec, maxPushConstantsSize uint32) (*PipelineLayout, error) {
	if spec == nil {
		return nil, &core.InvalidMaterialSpecError{Field: "spec", Index: -1, Reason: "nil"}
	}
	vertex, err := compileBindings("vertex_attributes", spec.VertexAttributes, 0, 0, VertexInputRateVertex)
	if err != nil {
		return nil, err
	}
	instance, err := compileBindings("instance_attributes", spec.InstanceAttributes,
		uint32(len(vertex)), uint32(len(spec.VertexAttributes)), VertexInputRateInstance)
	if err != nil {
		return nil, err
	}

	vu, err := compileBlock("vertex_uniforms", spec.VertexUniforms)
	if err != nil {
		return nil, err
	}
	fu, err := compileBlock("fragment_uniforms", spec.FragmentUniforms)
	if err != nil {
		return nil, err
	}
	// fragment offsets continue after the vertex block
	for i := range fu.Offsets {
		fu.Offsets[i] += vu.Size
	}

	if vu.Size+fu.Size > maxPushConstantsSize {
		return nil, &core.InvalidMaterialSpecError{
			Field:  "uniforms",
			Index:  -1,
			Reason: fmt.Sprintf("push constants need %d bytes, device allows %d", vu.Size+fu.Size, maxPushConstantsSize),
		}
	}

	ranges := []PushRange{}
	if vu.Size > 0 {
		ranges = append(ranges, PushRange{Stage: ShaderStageVertex, Offset: 0, Size: vu.Size})
	}
	if fu.Size > 0 {
		ranges = append(ranges, PushRange{Stage: ShaderStageFragment, Offset: vu.Size, Size: fu.Size})
	}

	return &PipelineLayout{
		Bindings:         append(vertex, instance...),
		VertexBindings:   uint32(len(vertex)),
		InstanceBindings: uint32(len(instance)),
		VertexUniforms:   vu,
		FragmentUniforms: fu,
		PushRanges:       ranges,
		TextureCount:     spec.TextureCount,
		CullFaceMode:     spec.CullFaceMode,
		GeometryMode:     spec.GeometryMode,
	}, nil
}
