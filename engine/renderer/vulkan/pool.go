package vulkan

import (
	"fmt"
	"sync"
)

type LockGroup string

const (
	CommandPoolManagement LockGroup = "command_pool_management"
	BufferManagement      LockGroup = "buffer_management"
	ImageManagement       LockGroup = "image_management"
	PipelineManagement    LockGroup = "pipeline_management"
	DescriptorManagement  LockGroup = "descriptor_management"
	SwapchainManagement   LockGroup = "swapchain_management"
)

// Mutex pool. Vulkan requires external synchronization of command pools and
// queues, uploads share the graphics command pool with the frame loop.
type VulkanLockPool struct {
	locks map[LockGroup]*sync.Mutex
	mu    sync.Mutex // Protects access to the locks map

	queueMutexes map[uint32]*sync.Mutex // Queue family index as key
}

func NewVulkanLockPool() *VulkanLockPool {
	return &VulkanLockPool{
		locks:        make(map[LockGroup]*sync.Mutex),
		queueMutexes: make(map[uint32]*sync.Mutex),
	}
}

// Get or create the mutex for a specific group.
func (vs *VulkanLockPool) lockFor(group LockGroup) *sync.Mutex {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	if _, exists := vs.locks[group]; !exists {
		vs.locks[group] = &sync.Mutex{}
	}
	return vs.locks[group]
}

func (vs *VulkanLockPool) SafeCall(group LockGroup, fn func() error) error {
	l := vs.lockFor(group)
	l.Lock()
	defer l.Unlock()

	return fn()
}

func (vs *VulkanLockPool) SetQueueFamily(index uint32) {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	if _, exists := vs.queueMutexes[index]; !exists {
		vs.queueMutexes[index] = &sync.Mutex{}
	}
}

// SafeQueueCall runs fn while holding the mutex of the queue family. Present
// and graphics queues that share a family share the mutex.
func (vs *VulkanLockPool) SafeQueueCall(queueFamilyIndex uint32, fn func() error) error {
	vs.mu.Lock()
	l, exists := vs.queueMutexes[queueFamilyIndex]
	vs.mu.Unlock()
	if !exists {
		return fmt.Errorf("queue family %d is not registered", queueFamilyIndex)
	}

	l.Lock()
	defer l.Unlock()

	return fn()
}
