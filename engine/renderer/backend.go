package renderer

import "github.com/spaghettifunk/voxelcraft/engine/renderer/metadata"

// RendererBackend is the device side of the renderer. All slot-indexed calls
// happen on the render thread between BeginRecording and EndRecording of that
// slot, except the frame synchronization calls themselves.
type RendererBackend interface {
	Initialize(appName string, appWidth, appHeight uint32) error
	Shutdown() error
	DeviceName() string
	Limits() metadata.DeviceLimits
	WaitIdle() error

	// swapchain
	SurfaceCapabilities() (metadata.SurfaceCapabilities, error)
	// CreateSwapchain replaces the current swapchain (used as the creation
	// hint, then destroyed) and rebuilds its views, depth attachment and
	// framebuffers. It returns the number of presentable images.
	CreateSwapchain(extent metadata.Extent2D, minImageCount uint32) (uint32, error)

	// frame slots
	CreateFrameSlots(count uint32) error
	WaitForFrameSlot(slot uint32) error
	ResetFrameSlot(slot uint32) error
	// RestoreFrameSlot puts a reset fence back into the signaled state.
	RestoreFrameSlot(slot uint32) error
	AcquireNextImage(slot uint32) (uint32, metadata.PresentResult, error)
	// ReleaseImage consumes the acquire semaphore of slot without rendering.
	// The slot fence is signaled again once that completes.
	ReleaseImage(slot uint32) error
	BeginRecording(slot, image uint32, extent metadata.Extent2D, clear metadata.ClearColor) error
	EndRecording(slot uint32) error
	Submit(slot uint32) error
	Present(slot, image uint32) (metadata.PresentResult, error)

	// commands
	CmdBindPipeline(slot uint32, pipeline metadata.GPUPipeline)
	CmdBindVertexBuffers(slot, firstBinding uint32, buffers []metadata.GPUBuffer)
	CmdBindIndexBuffer(slot uint32, buffer metadata.GPUBuffer)
	CmdPushConstants(slot uint32, pipeline metadata.GPUPipeline, stage metadata.ShaderStage, offset uint32, data []byte)
	CmdDrawIndexed(slot, indexCount, instanceCount uint32)

	// resources
	CreateBuffer(usage metadata.BufferUsage, data []byte) (metadata.GPUBuffer, error)
	DestroyBuffer(buffer metadata.GPUBuffer)
	CreateTexture(pixels []uint8, width, height uint32) (metadata.GPUTexture, error)
	DestroyTexture(texture metadata.GPUTexture)
	CreatePipeline(desc *metadata.PipelineDesc) (metadata.GPUPipeline, error)
	DestroyPipeline(pipeline metadata.GPUPipeline)
	UpdatePipelineTexture(pipeline metadata.GPUPipeline, index uint32, texture metadata.GPUTexture) error
}
