package renderer

import (
	"errors"

	"github.com/google/uuid"
	"github.com/spaghettifunk/voxelcraft/engine/core"
	"github.com/spaghettifunk/voxelcraft/engine/renderer/metadata"
)

// resource is anything the renderer must release before the device goes away.
type resource interface {
	ID() uuid.UUID
	release()
}

/**
 * @brief The render engine context. Owns the backend, the frame manager,
 * the draw builder and every GPU resource created through it.
 */
type Renderer struct {
	backend RendererBackend
	frames  *FrameManager
	context *RenderContext
	limits  metadata.DeviceLimits

	resources map[uuid.UUID]resource
	order     []uuid.UUID
	// retired holds frees requested while a frame was being recorded.
	retired []func()
}

func New(backend RendererBackend, framebufferSize func() (uint32, uint32), clearColor metadata.ClearColor) *Renderer {
	r := &Renderer{
		backend:   backend,
		frames:    NewFrameManager(backend, framebufferSize, clearColor),
		resources: make(map[uuid.UUID]resource),
	}
	r.context = newRenderContext(r)
	return r
}

func (r *Renderer) Initialize(appName string, appWidth, appHeight uint32) error {
	if err := r.backend.Initialize(appName, appWidth, appHeight); err != nil {
		return err
	}
	r.limits = r.backend.Limits()
	if err := r.frames.Initialize(); err != nil {
		return err
	}
	core.LogInfo("renderer initialized on '%s'", r.backend.DeviceName())
	return nil
}

// Shutdown releases every live resource, newest first, then the backend.
func (r *Renderer) Shutdown() error {
	if err := r.backend.WaitIdle(); err != nil {
		core.LogError("failed to wait for device idle on shutdown: %s", err)
	}
	for _, free := range r.retired {
		free()
	}
	r.retired = nil
	for i := len(r.order) - 1; i >= 0; i-- {
		if res, ok := r.resources[r.order[i]]; ok {
			res.release()
		}
	}
	r.resources = make(map[uuid.UUID]resource)
	r.order = nil
	r.frames.Shutdown()
	return r.backend.Shutdown()
}

// retire frees a GPU object once no frame slot can still reference it. A
// free requested while a frame is recorded runs after that frame's EndFrame.
func (r *Renderer) retire(free func()) {
	if r.frameOpen() {
		r.retired = append(r.retired, free)
		return
	}
	if err := r.frames.WaitAll(); err != nil {
		core.LogError("failed to wait for frames in flight: %s", err)
	}
	free()
}

func (r *Renderer) flushRetired() {
	if len(r.retired) == 0 {
		return
	}
	if err := r.frames.WaitAll(); err != nil {
		core.LogError("failed to wait for frames in flight: %s", err)
	}
	for _, free := range r.retired {
		free()
	}
	r.retired = nil
}

func (r *Renderer) register(res resource) {
	r.resources[res.ID()] = res
	r.order = append(r.order, res.ID())
}

func (r *Renderer) unregister(id uuid.UUID) {
	delete(r.resources, id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// LiveResources is the number of resources not destroyed yet.
func (r *Renderer) LiveResources() int {
	return len(r.resources)
}

// OnResize schedules a swapchain rebuild for the next frame.
func (r *Renderer) OnResize(width, height uint32) {
	core.LogDebug("renderer resized to %dx%d", width, height)
	r.frames.RequestRecreate()
}

// ViewportSize is the extent of the current swapchain.
func (r *Renderer) ViewportSize() (uint32, uint32) {
	e := r.frames.Extent()
	return e.Width, e.Height
}

func (r *Renderer) Frames() *FrameManager {
	return r.frames
}

func (r *Renderer) frameOpen() bool {
	return r.frames.State() == FrameStateRecording
}

func (r *Renderer) BeginFrame() error {
	if err := r.frames.BeginFrame(); err != nil {
		return err
	}
	r.context.beginFrame()
	return nil
}

func (r *Renderer) EndFrame() error {
	err := r.frames.EndFrame()
	r.flushRetired()
	return err
}

// Context returns the draw builder, reset.
func (r *Renderer) Context() *RenderContext {
	r.context.Reset()
	return r.context
}

// DrawFrame runs one frame around draw. A skipped frame is not an error.
func (r *Renderer) DrawFrame(draw func(ctx *RenderContext) error) error {
	if err := r.BeginFrame(); err != nil {
		if errors.Is(err, core.ErrSwapchainBooting) {
			return nil
		}
		core.LogError(err.Error())
		return err
	}
	drawErr := draw(r.Context())
	if err := r.EndFrame(); err != nil {
		core.LogError("renderer EndFrame failed: %s", err)
		return err
	}
	return drawErr
}
