package containers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingQueueWrapsAround(t *testing.T) {
	rq := NewRingQueue[int](3)
	require.NoError(t, rq.Enqueue(1))
	require.NoError(t, rq.Enqueue(2))
	require.NoError(t, rq.Enqueue(3))
	assert.True(t, rq.IsFull())
	assert.ErrorIs(t, rq.Enqueue(4), ErrQueueFull)

	v, err := rq.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	require.NoError(t, rq.Enqueue(4))
	for _, want := range []int{2, 3, 4} {
		got, err := rq.Peek()
		require.NoError(t, err)
		assert.Equal(t, want, got)
		got, err = rq.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.True(t, rq.IsEmpty())
	assert.Zero(t, rq.Len())
}

func TestRingQueueEmpty(t *testing.T) {
	rq := NewRingQueue[string](1)
	_, err := rq.Dequeue()
	assert.ErrorIs(t, err, ErrQueueEmpty)
	_, err = rq.Peek()
	assert.ErrorIs(t, err, ErrQueueEmpty)
}
