package metadata

type BufferUsage int

const (
	BufferUsageVertex BufferUsage = iota
	BufferUsageIndex
)

func (u BufferUsage) String() string {
	if u == BufferUsageIndex {
		return "index"
	}
	return "vertex"
}

// GPUBuffer is a device-local buffer owned by the backend.
type GPUBuffer interface {
	Size() uint64
}

type GPUTexture interface {
	Width() uint32
	Height() uint32
}

// GPUPipeline is a compiled pipeline, its layout and its optional
// descriptor set.
type GPUPipeline interface {
	Layout() *PipelineLayout
}

type PipelineDesc struct {
	Name         string
	Layout       *PipelineLayout
	VertexCode   []uint32
	FragmentCode []uint32
}

type DeviceLimits struct {
	MaxPushConstantsSize uint32
	// FillModeNonSolid is set when line and point polygon modes are enabled.
	FillModeNonSolid bool
}
