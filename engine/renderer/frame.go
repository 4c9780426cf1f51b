package renderer

import (
	"errors"

	"github.com/spaghettifunk/voxelcraft/engine/core"
	"github.com/spaghettifunk/voxelcraft/engine/renderer/metadata"
)

// MaxFramesInFlight is the number of frames the CPU may record ahead of the GPU.
const MaxFramesInFlight uint32 = 2

type FrameState int

const (
	FrameStateIdle FrameState = iota
	FrameStateBegun
	FrameStateRecording
)

func (s FrameState) String() string {
	switch s {
	case FrameStateBegun:
		return "begun"
	case FrameStateRecording:
		return "recording"
	}
	return "idle"
}

const noFrameSlot int32 = -1

/**
 * @brief Drives acquire, record, submit and present over a fixed ring of
 * frame slots and rebuilds the swapchain when the surface changes.
 */
type FrameManager struct {
	backend         RendererBackend
	framebufferSize func() (uint32, uint32)
	clearColor      metadata.ClearColor

	state        FrameState
	currentFrame uint32
	imageIndex   uint32
	frameNumber  uint64

	extent     metadata.Extent2D
	imageCount uint32
	/** @brief The frame slot that last rendered to each swapchain image. */
	imagesInFlight  []int32
	recreatePending bool
	slotsCreated    bool
}

func NewFrameManager(backend RendererBackend, framebufferSize func() (uint32, uint32), clearColor metadata.ClearColor) *FrameManager {
	return &FrameManager{
		backend:         backend,
		framebufferSize: framebufferSize,
		clearColor:      clearColor,
	}
}

// Initialize creates the frame slots and the first swapchain.
func (f *FrameManager) Initialize() error {
	if err := f.backend.CreateFrameSlots(MaxFramesInFlight); err != nil {
		return err
	}
	f.slotsCreated = true
	return f.Recreate()
}

// WaitAll blocks until no frame slot has work in flight. It must not be
// called while a frame is being recorded.
func (f *FrameManager) WaitAll() error {
	if !f.slotsCreated {
		return nil
	}
	for slot := uint32(0); slot < MaxFramesInFlight; slot++ {
		if err := f.backend.WaitForFrameSlot(slot); err != nil {
			return err
		}
	}
	return nil
}

// Shutdown forgets the frame slots. The backend destroys them.
func (f *FrameManager) Shutdown() {
	f.slotsCreated = false
	f.state = FrameStateIdle
}

func (f *FrameManager) State() FrameState         { return f.state }
func (f *FrameManager) CurrentFrame() uint32      { return f.currentFrame }
func (f *FrameManager) ImageIndex() uint32        { return f.imageIndex }
func (f *FrameManager) FrameNumber() uint64       { return f.frameNumber }
func (f *FrameManager) Extent() metadata.Extent2D { return f.extent }
func (f *FrameManager) ImageCount() uint32        { return f.imageCount }

// RequestRecreate marks the swapchain stale. The next BeginFrame rebuilds it.
func (f *FrameManager) RequestRecreate() {
	f.recreatePending = true
}

// Recreate rebuilds the swapchain for the current framebuffer size. The
// number of frame slots never changes.
func (f *FrameManager) Recreate() error {
	width, height := f.framebufferSize()
	if width == 0 || height == 0 {
		f.recreatePending = true
		return core.ErrSwapchainBooting
	}
	if err := f.backend.WaitIdle(); err != nil {
		return err
	}
	caps, err := f.backend.SurfaceCapabilities()
	if err != nil {
		return err
	}
	extent := metadata.ChooseExtent(caps, width, height)
	if extent.IsZero() {
		f.recreatePending = true
		return core.ErrSwapchainBooting
	}
	count, err := f.backend.CreateSwapchain(extent, metadata.ChooseImageCount(caps))
	if err != nil {
		// the old swapchain is gone, the next frame has to try again
		f.recreatePending = true
		core.LogError("failed to recreate swapchain: %s", err)
		return err
	}

	f.extent = extent
	f.imageCount = count
	f.imagesInFlight = make([]int32, count)
	for i := range f.imagesInFlight {
		f.imagesInFlight[i] = noFrameSlot
	}
	f.recreatePending = false
	core.LogDebug("swapchain recreated: %dx%d, %d images", extent.Width, extent.Height, count)
	return nil
}

func (f *FrameManager) acquire() (uint32, error) {
	image, result, err := f.backend.AcquireNextImage(f.currentFrame)
	if err != nil {
		return 0, err
	}
	if result == metadata.PresentOutOfDate {
		if err := f.Recreate(); err != nil {
			return 0, err
		}
		image, result, err = f.backend.AcquireNextImage(f.currentFrame)
		if err != nil {
			return 0, err
		}
		if result == metadata.PresentOutOfDate {
			f.recreatePending = true
			return 0, core.ErrSwapchainBooting
		}
	}
	if result == metadata.PresentSuboptimal {
		f.recreatePending = true
	}
	return image, nil
}

// BeginFrame waits for the current slot, acquires an image and opens the
// slot's command buffer inside the render pass. ErrSwapchainBooting means
// the frame must be skipped.
func (f *FrameManager) BeginFrame() error {
	if f.state != FrameStateIdle {
		return core.ErrFrameInProgress
	}
	if width, height := f.framebufferSize(); width == 0 || height == 0 {
		f.recreatePending = true
		return core.ErrSwapchainBooting
	}
	if f.recreatePending {
		if err := f.Recreate(); err != nil {
			return err
		}
	}

	if err := f.backend.WaitForFrameSlot(f.currentFrame); err != nil {
		return err
	}
	image, err := f.acquire()
	if err != nil {
		return err
	}
	f.state = FrameStateBegun

	if owner := f.imagesInFlight[image]; owner != noFrameSlot && uint32(owner) != f.currentFrame {
		if err := f.backend.WaitForFrameSlot(uint32(owner)); err != nil {
			return f.abandonImage(err)
		}
	}
	f.imagesInFlight[image] = int32(f.currentFrame)
	f.imageIndex = image

	if err := f.backend.BeginRecording(f.currentFrame, image, f.extent, f.clearColor); err != nil {
		return f.abandonImage(err)
	}
	f.state = FrameStateRecording
	return nil
}

// abandonImage gives up an acquired image that will not be presented. The
// acquire semaphore is consumed and the swapchain rebuilt on the next frame
// so the image goes back to the presentation engine.
func (f *FrameManager) abandonImage(cause error) error {
	f.state = FrameStateIdle
	f.recreatePending = true
	if err := f.backend.ReleaseImage(f.currentFrame); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

// EndFrame submits the recorded commands and presents the image. The frame
// index advances after every successful submission.
func (f *FrameManager) EndFrame() error {
	if f.state != FrameStateRecording {
		return &core.InvalidOperationError{Op: "EndFrame", Reason: "no frame is being recorded"}
	}
	f.state = FrameStateIdle

	if err := f.backend.EndRecording(f.currentFrame); err != nil {
		return err
	}
	if err := f.backend.ResetFrameSlot(f.currentFrame); err != nil {
		return err
	}
	if err := f.backend.Submit(f.currentFrame); err != nil {
		if rerr := f.backend.RestoreFrameSlot(f.currentFrame); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}

	result, err := f.backend.Present(f.currentFrame, f.imageIndex)
	f.currentFrame = (f.currentFrame + 1) % MaxFramesInFlight
	f.frameNumber++
	if err != nil {
		return err
	}
	if result != metadata.PresentOK || f.recreatePending {
		if err := f.Recreate(); err != nil && !errors.Is(err, core.ErrSwapchainBooting) {
			return err
		}
	}
	return nil
}
