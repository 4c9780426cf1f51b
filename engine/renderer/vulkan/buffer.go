package vulkan

import (
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/voxelcraft/engine/core"
)

/**
 * @brief A buffer and its dedicated memory.
 */
type VulkanBuffer struct {
	Handle vk.Buffer
	Memory vk.DeviceMemory
	Usage  vk.BufferUsageFlags
	size   uint64
}

func (vb *VulkanBuffer) Size() uint64 { return vb.size }

func BufferCreate(context *VulkanContext, size uint64, usage vk.BufferUsageFlags, memoryFlags vk.MemoryPropertyFlags) (*VulkanBuffer, error) {
	outBuffer := &VulkanBuffer{
		Usage: usage,
		size:  size,
	}

	bufferInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(size),
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive, // NOTE: Only used in one queue.
	}

	if err := context.locks.SafeCall(BufferManagement, func() error {
		if res := vk.CreateBuffer(context.Device.LogicalDevice, &bufferInfo, context.Allocator, &outBuffer.Handle); res != vk.Success {
			return resultError("vkCreateBuffer", res)
		}

		var requirements vk.MemoryRequirements
		vk.GetBufferMemoryRequirements(context.Device.LogicalDevice, outBuffer.Handle, &requirements)
		memory, err := context.allocateMemory(requirements, memoryFlags)
		if err != nil {
			vk.DestroyBuffer(context.Device.LogicalDevice, outBuffer.Handle, context.Allocator)
			return err
		}
		outBuffer.Memory = memory

		if res := vk.BindBufferMemory(context.Device.LogicalDevice, outBuffer.Handle, outBuffer.Memory, 0); res != vk.Success {
			vk.FreeMemory(context.Device.LogicalDevice, outBuffer.Memory, context.Allocator)
			vk.DestroyBuffer(context.Device.LogicalDevice, outBuffer.Handle, context.Allocator)
			return resultError("vkBindBufferMemory", res)
		}
		return nil
	}); err != nil {
		core.LogError("failed to create buffer of %d bytes: %s", size, err)
		return nil, err
	}
	return outBuffer, nil
}

// LoadData copies data into host-visible memory.
func (vb *VulkanBuffer) LoadData(context *VulkanContext, data []byte) error {
	var pData unsafe.Pointer
	if res := vk.MapMemory(context.Device.LogicalDevice, vb.Memory, 0, vk.DeviceSize(len(data)), 0, &pData); res != vk.Success {
		return resultError("vkMapMemory", res)
	}
	vk.Memcopy(pData, data)
	vk.UnmapMemory(context.Device.LogicalDevice, vb.Memory)
	return nil
}

// CopyTo records a full-size copy of this buffer into dest.
func (vb *VulkanBuffer) CopyTo(commandBuffer *VulkanCommandBuffer, dest *VulkanBuffer) {
	copyRegion := vk.BufferCopy{
		SrcOffset: 0,
		DstOffset: 0,
		Size:      vk.DeviceSize(vb.size),
	}
	vk.CmdCopyBuffer(commandBuffer.Handle, vb.Handle, dest.Handle, 1, []vk.BufferCopy{copyRegion})
}

func (vb *VulkanBuffer) Destroy(context *VulkanContext) {
	context.locks.SafeCall(BufferManagement, func() error {
		if vb.Memory != vk.NullDeviceMemory {
			vk.FreeMemory(context.Device.LogicalDevice, vb.Memory, context.Allocator)
			vb.Memory = vk.NullDeviceMemory
		}
		if vb.Handle != vk.NullBuffer {
			vk.DestroyBuffer(context.Device.LogicalDevice, vb.Handle, context.Allocator)
			vb.Handle = vk.NullBuffer
		}
		return nil
	})
	vb.size = 0
}

// createStagingBuffer returns a host-visible transfer source holding data.
func createStagingBuffer(context *VulkanContext, data []byte) (*VulkanBuffer, error) {
	staging, err := BufferCreate(
		context,
		uint64(len(data)),
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit)|vk.MemoryPropertyFlags(vk.MemoryPropertyHostCoherentBit),
	)
	if err != nil {
		return nil, err
	}
	if err := staging.LoadData(context, data); err != nil {
		staging.Destroy(context)
		return nil, err
	}
	return staging, nil
}
