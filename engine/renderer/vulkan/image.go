package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/voxelcraft/engine/core"
)

type VulkanImage struct {
	Handle vk.Image
	Memory vk.DeviceMemory
	View   vk.ImageView
	Width  uint32
	Height uint32
	Format vk.Format
}

// ImageCreate creates a 2D optimal-tiling image with its own memory, and a
// view on it when createView is set.
func ImageCreate(
	context *VulkanContext,
	width, height uint32,
	format vk.Format,
	usage vk.ImageUsageFlags,
	memoryFlags vk.MemoryPropertyFlags,
	createView bool,
	viewAspectFlags vk.ImageAspectFlags,
) (*VulkanImage, error) {
	outImage := &VulkanImage{
		Width:  width,
		Height: height,
		Format: format,
	}

	imageCreateInfo := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Extent: vk.Extent3D{
			Width:  width,
			Height: height,
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   1,
		Format:        format,
		Tiling:        vk.ImageTilingOptimal,
		InitialLayout: vk.ImageLayoutUndefined,
		Usage:         usage,
		Samples:       vk.SampleCount1Bit,
		SharingMode:   vk.SharingModeExclusive,
	}

	if err := context.locks.SafeCall(ImageManagement, func() error {
		if res := vk.CreateImage(context.Device.LogicalDevice, &imageCreateInfo, context.Allocator, &outImage.Handle); res != vk.Success {
			return resultError("vkCreateImage", res)
		}

		var memoryRequirements vk.MemoryRequirements
		vk.GetImageMemoryRequirements(context.Device.LogicalDevice, outImage.Handle, &memoryRequirements)
		memory, err := context.allocateMemory(memoryRequirements, memoryFlags)
		if err != nil {
			vk.DestroyImage(context.Device.LogicalDevice, outImage.Handle, context.Allocator)
			return err
		}
		outImage.Memory = memory

		if res := vk.BindImageMemory(context.Device.LogicalDevice, outImage.Handle, outImage.Memory, 0); res != vk.Success {
			vk.FreeMemory(context.Device.LogicalDevice, outImage.Memory, context.Allocator)
			vk.DestroyImage(context.Device.LogicalDevice, outImage.Handle, context.Allocator)
			return resultError("vkBindImageMemory", res)
		}
		return nil
	}); err != nil {
		core.LogError("failed to create %dx%d image: %s", width, height, err)
		return nil, err
	}

	if createView {
		if err := outImage.ViewCreate(context, viewAspectFlags); err != nil {
			outImage.ImageDestroy(context)
			return nil, err
		}
	}
	return outImage, nil
}

func (vi *VulkanImage) ViewCreate(context *VulkanContext, aspectFlags vk.ImageAspectFlags) error {
	view, err := createImageView(context, vi.Handle, vi.Format, aspectFlags)
	if err != nil {
		return err
	}
	vi.View = view
	return nil
}

func createImageView(context *VulkanContext, image vk.Image, format vk.Format, aspectFlags vk.ImageAspectFlags) (vk.ImageView, error) {
	viewCreateInfo := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     aspectFlags,
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}

	var view vk.ImageView
	if res := vk.CreateImageView(context.Device.LogicalDevice, &viewCreateInfo, context.Allocator, &view); res != vk.Success {
		err := resultError("vkCreateImageView", res)
		core.LogError(err.Error())
		return vk.NullImageView, err
	}
	return view, nil
}

// TransitionLayout records a layout barrier for the two transitions of a
// texture upload.
func (vi *VulkanImage) TransitionLayout(commandBuffer *VulkanCommandBuffer, oldLayout, newLayout vk.ImageLayout) error {
	barrier := vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		OldLayout:           oldLayout,
		NewLayout:           newLayout,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               vi.Handle,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}

	var sourceStage, destinationStage vk.PipelineStageFlags
	switch {
	case oldLayout == vk.ImageLayoutUndefined && newLayout == vk.ImageLayoutTransferDstOptimal:
		barrier.SrcAccessMask = 0
		barrier.DstAccessMask = vk.AccessFlags(vk.AccessTransferWriteBit)
		sourceStage = vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit)
		destinationStage = vk.PipelineStageFlags(vk.PipelineStageTransferBit)
	case oldLayout == vk.ImageLayoutTransferDstOptimal && newLayout == vk.ImageLayoutShaderReadOnlyOptimal:
		barrier.SrcAccessMask = vk.AccessFlags(vk.AccessTransferWriteBit)
		barrier.DstAccessMask = vk.AccessFlags(vk.AccessShaderReadBit)
		sourceStage = vk.PipelineStageFlags(vk.PipelineStageTransferBit)
		destinationStage = vk.PipelineStageFlags(vk.PipelineStageFragmentShaderBit)
	default:
		return fmt.Errorf("unsupported layout transition %d -> %d", oldLayout, newLayout)
	}

	vk.CmdPipelineBarrier(
		commandBuffer.Handle,
		sourceStage, destinationStage,
		0,
		0, nil,
		0, nil,
		1, []vk.ImageMemoryBarrier{barrier},
	)
	return nil
}

func (vi *VulkanImage) CopyFromBuffer(commandBuffer *VulkanCommandBuffer, buffer vk.Buffer) {
	region := vk.BufferImageCopy{
		BufferOffset:      0,
		BufferRowLength:   0,
		BufferImageHeight: 0,
		ImageSubresource: vk.ImageSubresourceLayers{
			AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
			MipLevel:       0,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
		ImageOffset: vk.Offset3D{X: 0, Y: 0, Z: 0},
		ImageExtent: vk.Extent3D{
			Width:  vi.Width,
			Height: vi.Height,
			Depth:  1,
		},
	}

	vk.CmdCopyBufferToImage(
		commandBuffer.Handle,
		buffer,
		vi.Handle,
		vk.ImageLayoutTransferDstOptimal,
		1,
		[]vk.BufferImageCopy{region},
	)
}

func (vi *VulkanImage) ImageDestroy(context *VulkanContext) {
	context.locks.SafeCall(ImageManagement, func() error {
		if vi.View != vk.NullImageView {
			vk.DestroyImageView(context.Device.LogicalDevice, vi.View, context.Allocator)
			vi.View = vk.NullImageView
		}
		if vi.Memory != vk.NullDeviceMemory {
			vk.FreeMemory(context.Device.LogicalDevice, vi.Memory, context.Allocator)
			vi.Memory = vk.NullDeviceMemory
		}
		if vi.Handle != vk.NullImage {
			vk.DestroyImage(context.Device.LogicalDevice, vi.Handle, context.Allocator)
			vi.Handle = vk.NullImage
		}
		return nil
	})
}
