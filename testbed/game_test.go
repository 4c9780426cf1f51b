package testbed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTestGameWiresHooks(t *testing.T) {
	g := NewTestGame()
	assert.NotNil(t, g.FnInitialize)
	assert.NotNil(t, g.FnUpdate)
	assert.NotNil(t, g.FnRender)
	assert.NotNil(t, g.FnOnResize)
	assert.NotNil(t, g.FnShutdown)

	require.NoError(t, g.OnResize(800, 600))
	assert.Equal(t, uint32(800), g.state().width)

	// Nothing to draw or release before Initialize.
	assert.NoError(t, g.Render(nil, 0))
	assert.NoError(t, g.Shutdown())
}

func TestChunkMeshJobRunsOffThread(t *testing.T) {
	job := NewTestGame().chunkMeshJob()
	require.NotNil(t, job.Run)

	res, err := job.Run()
	require.NoError(t, err)
	built := res.(*builtChunk)
	assert.Equal(t, BlockGrass, built.chunk.At(0, chunkSurface, 0))
	assert.Equal(t, (2*64*64+4*64*61)*2, built.data.TriangleCount())
}
