package renderer

import (
	"errors"
	"sync"

	"github.com/spaghettifunk/voxelcraft/engine/renderer/metadata"
)

type mockBuffer struct{ size uint64 }

func (b *mockBuffer) Size() uint64 { return b.size }

type mockTexture struct{ w, h uint32 }

func (t *mockTexture) Width() uint32  { return t.w }
func (t *mockTexture) Height() uint32 { return t.h }

type mockPipeline struct {
	layout   *metadata.PipelineLayout
	textures map[uint32]metadata.GPUTexture
}

func (p *mockPipeline) Layout() *metadata.PipelineLayout { return p.layout }

type command struct {
	Name string
	Slot uint32
	Args []interface{}
}

// mockBackend records commands and lets tests decide when submitted frames
// complete.
type mockBackend struct {
	mu   sync.Mutex
	cond *sync.Cond

	autoComplete bool
	caps         metadata.SurfaceCapabilities
	limits       metadata.DeviceLimits

	signaled  []bool
	commands  []command
	destroyed []string
	// destroyedInFlight lists objects freed while a slot was still pending.
	destroyedInFlight []string

	swapchains     int
	imageCount     uint32
	nextImage      uint32
	acquireResults []metadata.PresentResult
	presentResults []metadata.PresentResult
	submitErr      error
	bufferErr      error
	swapchainErr   error
	recordErr      error
	live           int
}

func newMockBackend() *mockBackend {
	m := &mockBackend{
		autoComplete: true,
		caps: metadata.SurfaceCapabilities{
			CurrentExtent:  metadata.Extent2D{Width: metadata.UndefinedExtent, Height: metadata.UndefinedExtent},
			MinImageExtent: metadata.Extent2D{Width: 1, Height: 1},
			MaxImageExtent: metadata.Extent2D{Width: 4096, Height: 4096},
			MinImageCount:  2,
			MaxImageCount:  8,
		},
		limits: metadata.DeviceLimits{MaxPushConstantsSize: 256, FillModeNonSolid: true},
	}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// Complete signals the fence of slot, as the GPU would after the
// submission finishes.
func (m *mockBackend) Complete(slot uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signaled[slot] = true
	m.cond.Broadcast()
}

func (m *mockBackend) record(name string, slot uint32, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands = append(m.commands, command{Name: name, Slot: slot, Args: args})
}

func (m *mockBackend) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.commands {
		if c.Name == name {
			n++
		}
	}
	return n
}

// sequence returns the recorded command names that are among names, in order.
func (m *mockBackend) sequence(names ...string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []string{}
	for _, c := range m.commands {
		for _, n := range names {
			if c.Name == n {
				out = append(out, n)
			}
		}
	}
	return out
}

func (m *mockBackend) last(name string) (command, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.commands) - 1; i >= 0; i-- {
		if m.commands[i].Name == name {
			return m.commands[i], true
		}
	}
	return command{}, false
}

func (m *mockBackend) Initialize(appName string, appWidth, appHeight uint32) error { return nil }
func (m *mockBackend) Shutdown() error                                             { return nil }
func (m *mockBackend) DeviceName() string                                          { return "mock" }
func (m *mockBackend) Limits() metadata.DeviceLimits                               { return m.limits }
func (m *mockBackend) WaitIdle() error                                             { return nil }

func (m *mockBackend) SurfaceCapabilities() (metadata.SurfaceCapabilities, error) {
	return m.caps, nil
}

func (m *mockBackend) CreateSwapchain(extent metadata.Extent2D, minImageCount uint32) (uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.swapchainErr != nil {
		err := m.swapchainErr
		m.swapchainErr = nil
		return 0, err
	}
	m.swapchains++
	m.imageCount = minImageCount
	m.nextImage = 0
	return minImageCount, nil
}

func (m *mockBackend) CreateFrameSlots(count uint32) error {
	m.signaled = make([]bool, count)
	for i := range m.signaled {
		m.signaled[i] = true
	}
	return nil
}

func (m *mockBackend) WaitForFrameSlot(slot uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for !m.signaled[slot] {
		m.cond.Wait()
	}
	return nil
}

func (m *mockBackend) ResetFrameSlot(slot uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signaled[slot] = false
	return nil
}

func (m *mockBackend) RestoreFrameSlot(slot uint32) error {
	m.Complete(slot)
	return nil
}

func (m *mockBackend) AcquireNextImage(slot uint32) (uint32, metadata.PresentResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := metadata.PresentOK
	if len(m.acquireResults) > 0 {
		result = m.acquireResults[0]
		m.acquireResults = m.acquireResults[1:]
		if result == metadata.PresentOutOfDate {
			return 0, result, nil
		}
	}
	image := m.nextImage
	m.nextImage = (m.nextImage + 1) % m.imageCount
	return image, result, nil
}

func (m *mockBackend) ReleaseImage(slot uint32) error {
	m.record("ReleaseImage", slot)
	return nil
}

func (m *mockBackend) BeginRecording(slot, image uint32, extent metadata.Extent2D, clear metadata.ClearColor) error {
	if m.recordErr != nil {
		err := m.recordErr
		m.recordErr = nil
		return err
	}
	m.record("BeginRecording", slot, image, extent)
	return nil
}

func (m *mockBackend) EndRecording(slot uint32) error {
	m.record("EndRecording", slot)
	return nil
}

func (m *mockBackend) Submit(slot uint32) error {
	if m.submitErr != nil {
		return m.submitErr
	}
	m.record("Submit", slot)
	if m.autoComplete {
		m.Complete(slot)
	}
	return nil
}

func (m *mockBackend) Present(slot, image uint32) (metadata.PresentResult, error) {
	m.record("Present", slot, image)
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.presentResults) > 0 {
		r := m.presentResults[0]
		m.presentResults = m.presentResults[1:]
		return r, nil
	}
	return metadata.PresentOK, nil
}

func (m *mockBackend) CmdBindPipeline(slot uint32, pipeline metadata.GPUPipeline) {
	m.record("CmdBindPipeline", slot, pipeline)
}

func (m *mockBackend) CmdBindVertexBuffers(slot, firstBinding uint32, buffers []metadata.GPUBuffer) {
	m.record("CmdBindVertexBuffers", slot, firstBinding, len(buffers))
}

func (m *mockBackend) CmdBindIndexBuffer(slot uint32, buffer metadata.GPUBuffer) {
	m.record("CmdBindIndexBuffer", slot, buffer)
}

func (m *mockBackend) CmdPushConstants(slot uint32, pipeline metadata.GPUPipeline, stage metadata.ShaderStage, offset uint32, data []byte) {
	m.record("CmdPushConstants", slot, stage, offset, len(data))
}

func (m *mockBackend) CmdDrawIndexed(slot, indexCount, instanceCount uint32) {
	m.record("CmdDrawIndexed", slot, indexCount, instanceCount)
}

func (m *mockBackend) CreateBuffer(usage metadata.BufferUsage, data []byte) (metadata.GPUBuffer, error) {
	if m.bufferErr != nil {
		return nil, m.bufferErr
	}
	m.live++
	return &mockBuffer{size: uint64(len(data))}, nil
}

// destroy logs a freed object and whether any frame slot was still in
// flight at that moment.
func (m *mockBackend) destroy(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.live--
	m.destroyed = append(m.destroyed, kind)
	for _, done := range m.signaled {
		if !done {
			m.destroyedInFlight = append(m.destroyedInFlight, kind)
			return
		}
	}
}

func (m *mockBackend) destroyedKinds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.destroyed...)
}

func (m *mockBackend) DestroyBuffer(buffer metadata.GPUBuffer) {
	m.destroy("buffer")
}

func (m *mockBackend) CreateTexture(pixels []uint8, width, height uint32) (metadata.GPUTexture, error) {
	m.live++
	return &mockTexture{w: width, h: height}, nil
}

func (m *mockBackend) DestroyTexture(texture metadata.GPUTexture) {
	m.destroy("texture")
}

func (m *mockBackend) CreatePipeline(desc *metadata.PipelineDesc) (metadata.GPUPipeline, error) {
	if len(desc.VertexCode) == 0 || len(desc.FragmentCode) == 0 {
		return nil, errors.New("empty shader code")
	}
	m.live++
	return &mockPipeline{layout: desc.Layout, textures: map[uint32]metadata.GPUTexture{}}, nil
}

func (m *mockBackend) DestroyPipeline(pipeline metadata.GPUPipeline) {
	m.destroy("pipeline")
}

func (m *mockBackend) UpdatePipelineTexture(pipeline metadata.GPUPipeline, index uint32, texture metadata.GPUTexture) error {
	m.record("UpdatePipelineTexture", 0, index)
	pipeline.(*mockPipeline).textures[index] = texture
	return nil
}
