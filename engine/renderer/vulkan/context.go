package vulkan

import (
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/voxelcraft/engine/core"
)

type VulkanContext struct {
	Instance  vk.Instance
	Allocator *vk.AllocationCallbacks
	Surface   vk.Surface

	debugMessenger vk.DebugReportCallback

	Device *VulkanDevice

	Swapchain      *VulkanSwapchain
	MainRenderpass *VulkanRenderpass

	// One per frame slot.
	GraphicsCommandBuffers   []*VulkanCommandBuffer
	ImageAvailableSemaphores []vk.Semaphore
	QueueCompleteSemaphores  []vk.Semaphore
	InFlightFences           []*VulkanFence

	locks *VulkanLockPool
}

func NewVulkanContext() *VulkanContext {
	return &VulkanContext{
		Allocator: nil,
		Device:    &VulkanDevice{GraphicsQueueIndex: -1, PresentQueueIndex: -1},
		locks:     NewVulkanLockPool(),
	}
}

// FindMemoryIndex returns the first memory type allowed by typeFilter that
// has all propertyFlags, or -1.
func (vc *VulkanContext) FindMemoryIndex(typeFilter, propertyFlags uint32) int32 {
	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(vc.Device.PhysicalDevice, &memoryProperties)
	memoryProperties.Deref()

	for i := uint32(0); i < memoryProperties.MemoryTypeCount; i++ {
		// Check each memory type to see if its bit is set to 1.
		memoryProperties.MemoryTypes[i].Deref()
		if (typeFilter&(1<<i)) != 0 && (uint32(memoryProperties.MemoryTypes[i].PropertyFlags)&propertyFlags) == propertyFlags {
			return int32(i)
		}
	}
	core.LogWarn("Unable to find suitable memory type!")
	return -1
}

// allocateMemory backs requirements with memory of the given properties.
// Running out of either memory type or memory is ErrOutOfDeviceMemory.
func (vc *VulkanContext) allocateMemory(requirements vk.MemoryRequirements, properties vk.MemoryPropertyFlags) (vk.DeviceMemory, error) {
	requirements.Deref()
	index := vc.FindMemoryIndex(requirements.MemoryTypeBits, uint32(properties))
	if index == -1 {
		return vk.NullDeviceMemory, core.ErrOutOfDeviceMemory
	}

	allocateInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: uint32(index),
	}
	var memory vk.DeviceMemory
	if res := vk.AllocateMemory(vc.Device.LogicalDevice, &allocateInfo, vc.Allocator, &memory); res != vk.Success {
		return vk.NullDeviceMemory, resultError("vkAllocateMemory", res)
	}
	return memory, nil
}
