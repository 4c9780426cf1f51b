package vulkan

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeCallReturnsResult(t *testing.T) {
	pool := NewVulkanLockPool()
	want := errors.New("boom")
	assert.ErrorIs(t, pool.SafeCall(BufferManagement, func() error { return want }), want)
	assert.NoError(t, pool.SafeCall(BufferManagement, func() error { return nil }))
}

func TestSafeCallSerializesGroup(t *testing.T) {
	pool := NewVulkanLockPool()

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.SafeCall(CommandPoolManagement, func() error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 64, counter)
}

func TestSafeCallNestedGroups(t *testing.T) {
	pool := NewVulkanLockPool()
	err := pool.SafeCall(PipelineManagement, func() error {
		return pool.SafeCall(DescriptorManagement, func() error { return nil })
	})
	assert.NoError(t, err)
}

func TestSafeQueueCall(t *testing.T) {
	pool := NewVulkanLockPool()
	assert.Error(t, pool.SafeQueueCall(0, func() error { return nil }))

	pool.SetQueueFamily(0)
	pool.SetQueueFamily(0)

	called := false
	require.NoError(t, pool.SafeQueueCall(0, func() error {
		called = true
		return nil
	}))
	assert.True(t, called)

	// A queue call must not hold the registry lock.
	require.NoError(t, pool.SafeQueueCall(0, func() error {
		pool.SetQueueFamily(1)
		return nil
	}))
	assert.NoError(t, pool.SafeQueueCall(1, func() error { return nil }))
}
