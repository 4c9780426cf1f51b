package metadata

import (
	"fmt"
	"strings"
)

/**
 * @brief The data type of a vertex attribute or a pushed uniform slot.
 */
type MaterialType int

const (
	/** @brief Placeholder attribute. Emits no binding and keeps list positions stable. */
	MaterialTypeVoid MaterialType = iota
	MaterialTypeVec2
	MaterialTypeVec3
	MaterialTypeVec4
	MaterialTypeFloat
	MaterialTypeInt
	MaterialTypeUInt
	MaterialTypeMat2
	MaterialTypeMat3
	MaterialTypeMat4
)

// Color aliases share the layout of the float vectors.
const (
	MaterialTypeColorRg32   = MaterialTypeVec2
	MaterialTypeColorRgb32  = MaterialTypeVec3
	MaterialTypeColorRgba32 = MaterialTypeVec4
)

var materialTypeNames = map[MaterialType]string{
	MaterialTypeVoid:  "void",
	MaterialTypeVec2:  "vec2",
	MaterialTypeVec3:  "vec3",
	MaterialTypeVec4:  "vec4",
	MaterialTypeFloat: "float",
	MaterialTypeInt:   "int",
	MaterialTypeUInt:  "uint",
	MaterialTypeMat2:  "mat2",
	MaterialTypeMat3:  "mat3",
	MaterialTypeMat4:  "mat4",
}

var materialTypeAliases = map[string]MaterialType{
	"rg32":   MaterialTypeColorRg32,
	"rgb32":  MaterialTypeColorRgb32,
	"rgba32": MaterialTypeColorRgba32,
}

func (t MaterialType) String() string {
	if n, ok := materialTypeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("MaterialType(%d)", int(t))
}

func (t MaterialType) Valid() bool {
	_, ok := materialTypeNames[t]
	return ok
}

func (t MaterialType) IsMatrix() bool {
	return t == MaterialTypeMat2 || t == MaterialTypeMat3 || t == MaterialTypeMat4
}

func (t MaterialType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unknown material type %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *MaterialType) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for k, v := range materialTypeNames {
		if v == name {
			*t = k
			return nil
		}
	}
	if v, ok := materialTypeAliases[name]; ok {
		*t = v
		return nil
	}
	return fmt.Errorf("unknown material type '%s'", string(text))
}

type CullFaceMode int

const (
	CullFaceModeBack CullFaceMode = iota
	CullFaceModeFront
	CullFaceModeBoth
	CullFaceModeNone
)

func (c *CullFaceMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "back":
		*c = CullFaceModeBack
	case "front":
		*c = CullFaceModeFront
	case "both":
		*c = CullFaceModeBoth
	case "none":
		*c = CullFaceModeNone
	default:
		return fmt.Errorf("unknown cull face mode '%s'", string(text))
	}
	return nil
}

// GeometryMode selects how primitives are rasterized: as points, as
// outlines or filled.
type GeometryMode int

const (
	GeometryModeTriangles GeometryMode = iota
	GeometryModeLines
	GeometryModePoints
)

func (g *GeometryMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "triangles":
		*g = GeometryModeTriangles
	case "lines":
		*g = GeometryModeLines
	case "points":
		*g = GeometryModePoints
	default:
		return fmt.Errorf("unknown geometry mode '%s'", string(text))
	}
	return nil
}

/**
 * @brief Immutable description of a material. Compiled exactly once into
 * pipeline state by the renderer.
 */
type MaterialSpec struct {
	/** @brief Name used in logs and the resource registry. */
	Name string `toml:"name"`
	/** @brief Path to the SPIR-V vertex program. */
	VertexShader string `toml:"vertex_shader"`
	/** @brief Path to the SPIR-V fragment program. */
	FragmentShader string `toml:"fragment_shader"`
	/** @brief Per-instance attributes, bound after the vertex attributes. */
	InstanceAttributes []MaterialType `toml:"instance_attributes"`
	/** @brief Per-vertex attributes, one buffer each. */
	VertexAttributes []MaterialType `toml:"vertex_attributes"`
	/** @brief Push constant slots visible to the vertex stage. */
	VertexUniforms []MaterialType `toml:"vertex_uniforms"`
	/** @brief Push constant slots visible to the fragment stage. */
	FragmentUniforms []MaterialType `toml:"fragment_uniforms"`
	/** @brief Number of combined image samplers in descriptor set 0. */
	TextureCount uint32       `toml:"texture_count"`
	CullFaceMode CullFaceMode `toml:"cull_face_mode"`
	GeometryMode GeometryMode `toml:"geometry_mode"`
}
