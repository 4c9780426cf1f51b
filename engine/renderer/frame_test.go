package renderer

import (
	"errors"
	"testing"
	"time"

	"github.com/spaghettifunk/voxelcraft/engine/core"
	"github.com/spaghettifunk/voxelcraft/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type windowSize struct{ w, h uint32 }

func (s *windowSize) get() (uint32, uint32) { return s.w, s.h }

func newTestFrames(t *testing.T) (*FrameManager, *mockBackend, *windowSize) {
	t.Helper()
	backend := newMockBackend()
	size := &windowSize{w: 800, h: 600}
	f := NewFrameManager(backend, size.get, metadata.ClearColor{A: 1})
	require.NoError(t, f.Initialize())
	return f, backend, size
}

func TestInitializeBuildsSwapchain(t *testing.T) {
	f, backend, _ := newTestFrames(t)
	assert.Equal(t, metadata.Extent2D{Width: 800, Height: 600}, f.Extent())
	assert.Equal(t, uint32(3), f.ImageCount())
	assert.Equal(t, 1, backend.swapchains)
	assert.Equal(t, FrameStateIdle, f.State())
}

func TestFrameIndexAdvancesModuloFramesInFlight(t *testing.T) {
	f, backend, _ := newTestFrames(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, f.BeginFrame())
		assert.Equal(t, FrameStateRecording, f.State())
		assert.Equal(t, uint32(i)%MaxFramesInFlight, f.CurrentFrame())
		require.NoError(t, f.EndFrame())
	}
	assert.Equal(t, uint64(5), f.FrameNumber())
	assert.Equal(t, 5, backend.count("Present"))
}

func TestBeginFrameBlocksUntilSlotCompletes(t *testing.T) {
	f, backend, _ := newTestFrames(t)
	backend.autoComplete = false

	for i := uint32(0); i < MaxFramesInFlight; i++ {
		require.NoError(t, f.BeginFrame())
		require.NoError(t, f.EndFrame())
	}

	done := make(chan error, 1)
	go func() { done <- f.BeginFrame() }()

	select {
	case <-done:
		t.Fatal("BeginFrame returned before slot 0 completed")
	case <-time.After(50 * time.Millisecond):
	}

	backend.Complete(0)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("BeginFrame did not resume after slot 0 completed")
	}
	assert.Equal(t, uint32(0), f.CurrentFrame())
}

func TestRecreateIsIdempotent(t *testing.T) {
	f, _, _ := newTestFrames(t)
	require.NoError(t, f.Recreate())
	extent, count := f.Extent(), f.ImageCount()
	inFlight := append([]int32(nil), f.imagesInFlight...)

	require.NoError(t, f.Recreate())
	assert.Equal(t, extent, f.Extent())
	assert.Equal(t, count, f.ImageCount())
	assert.Equal(t, inFlight, f.imagesInFlight)
	for _, owner := range f.imagesInFlight {
		assert.Equal(t, noFrameSlot, owner)
	}
}

func TestResizeRecreatesOnNextFrame(t *testing.T) {
	f, backend, size := newTestFrames(t)
	size.w, size.h = 1024, 768
	f.RequestRecreate()

	require.NoError(t, f.BeginFrame())
	assert.Equal(t, metadata.Extent2D{Width: 1024, Height: 768}, f.Extent())
	assert.Equal(t, 2, backend.swapchains)
	require.NoError(t, f.EndFrame())
}

func TestMinimizedWindowSkipsFrames(t *testing.T) {
	f, backend, size := newTestFrames(t)
	size.w, size.h = 0, 0

	err := f.BeginFrame()
	assert.ErrorIs(t, err, core.ErrSwapchainBooting)
	assert.Equal(t, FrameStateIdle, f.State())
	assert.Zero(t, backend.count("BeginRecording"))

	size.w, size.h = 640, 480
	require.NoError(t, f.BeginFrame())
	assert.Equal(t, metadata.Extent2D{Width: 640, Height: 480}, f.Extent())
	require.NoError(t, f.EndFrame())
}

func TestOutOfDateAcquireRecreatesAndRetries(t *testing.T) {
	f, backend, _ := newTestFrames(t)
	backend.acquireResults = []metadata.PresentResult{metadata.PresentOutOfDate}

	require.NoError(t, f.BeginFrame())
	assert.Equal(t, 2, backend.swapchains)
	require.NoError(t, f.EndFrame())

	backend.acquireResults = []metadata.PresentResult{metadata.PresentOutOfDate, metadata.PresentOutOfDate}
	assert.ErrorIs(t, f.BeginFrame(), core.ErrSwapchainBooting)
	assert.Equal(t, FrameStateIdle, f.State())
}

func TestSuboptimalAcquireRecreatesAfterPresent(t *testing.T) {
	f, backend, _ := newTestFrames(t)
	backend.acquireResults = []metadata.PresentResult{metadata.PresentSuboptimal}

	require.NoError(t, f.BeginFrame())
	assert.Equal(t, 1, backend.swapchains)
	require.NoError(t, f.EndFrame())
	assert.Equal(t, 2, backend.swapchains)
}

func TestStalePresentRecreatesAndAdvances(t *testing.T) {
	f, backend, _ := newTestFrames(t)
	backend.presentResults = []metadata.PresentResult{metadata.PresentOutOfDate}

	require.NoError(t, f.BeginFrame())
	require.NoError(t, f.EndFrame())
	assert.Equal(t, 2, backend.swapchains)
	assert.Equal(t, uint32(1), f.CurrentFrame())
}

func TestFailedSubmitDoesNotAdvance(t *testing.T) {
	f, backend, _ := newTestFrames(t)
	backend.submitErr = errors.New("device lost")

	require.NoError(t, f.BeginFrame())
	assert.Error(t, f.EndFrame())
	assert.Equal(t, uint32(0), f.CurrentFrame())
	assert.True(t, backend.signaled[0])

	backend.submitErr = nil
	require.NoError(t, f.BeginFrame())
	require.NoError(t, f.EndFrame())
	assert.Equal(t, uint32(1), f.CurrentFrame())
}

func TestFrameStateGuards(t *testing.T) {
	f, _, _ := newTestFrames(t)
	assert.ErrorIs(t, f.EndFrame(), core.ErrInvalidOperation)

	require.NoError(t, f.BeginFrame())
	assert.ErrorIs(t, f.BeginFrame(), core.ErrFrameInProgress)
	require.NoError(t, f.EndFrame())
}

func TestImageInFlightOnOtherSlotIsAwaited(t *testing.T) {
	f, backend, _ := newTestFrames(t)
	// three images, two slots: the fourth frame reuses image 0 on slot 1
	for i := 0; i < 3; i++ {
		require.NoError(t, f.BeginFrame())
		require.NoError(t, f.EndFrame())
	}
	require.NoError(t, f.BeginFrame())
	assert.Equal(t, uint32(0), f.ImageIndex())
	assert.Equal(t, int32(1), f.imagesInFlight[0])
	require.NoError(t, f.EndFrame())
	assert.Equal(t, 4, backend.count("Submit"))
}

func TestFailedSwapchainCreationRetriesNextFrame(t *testing.T) {
	f, backend, _ := newTestFrames(t)
	f.RequestRecreate()
	backend.swapchainErr = errors.New("out of device memory")

	assert.Error(t, f.BeginFrame())
	assert.Equal(t, FrameStateIdle, f.State())
	assert.Equal(t, 1, backend.swapchains)

	require.NoError(t, f.BeginFrame())
	assert.Equal(t, 2, backend.swapchains)
	require.NoError(t, f.EndFrame())
}

func TestFailedRecordingReleasesAcquiredImage(t *testing.T) {
	f, backend, _ := newTestFrames(t)
	backend.recordErr = errors.New("device lost")

	assert.Error(t, f.BeginFrame())
	assert.Equal(t, FrameStateIdle, f.State())
	release, ok := backend.last("ReleaseImage")
	require.True(t, ok)
	assert.Equal(t, uint32(0), release.Slot)

	// the held image goes back with the old swapchain
	require.NoError(t, f.BeginFrame())
	assert.Equal(t, 2, backend.swapchains)
	assert.Equal(t, uint32(0), f.CurrentFrame())
	require.NoError(t, f.EndFrame())
}
