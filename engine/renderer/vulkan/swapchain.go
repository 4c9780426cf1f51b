package vulkan

import (
	"math"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/voxelcraft/engine/core"
	"github.com/spaghettifunk/voxelcraft/engine/renderer/metadata"
)

type VulkanSwapchain struct {
	Handle     vk.Swapchain
	Extent     metadata.Extent2D
	ImageCount uint32
	Images     []vk.Image
	Views      []vk.ImageView

	DepthAttachment *VulkanImage

	// framebuffers used for on-screen rendering.
	Framebuffers []*VulkanFramebuffer
}

type VulkanSwapchainSupportInfo struct {
	Capabilities vk.SurfaceCapabilities
	Formats      []vk.SurfaceFormat
	PresentModes []vk.PresentMode
}

// chooseSurfaceFormat prefers B8G8R8A8 sRGB in the sRGB non-linear color
// space and falls back to the first advertised format.
func chooseSurfaceFormat(formats []vk.SurfaceFormat) vk.SurfaceFormat {
	for i := range formats {
		formats[i].Deref()
		if formats[i].Format == vk.FormatB8g8r8a8Srgb && formats[i].ColorSpace == vk.ColorSpaceSrgbNonlinear {
			return formats[i]
		}
	}
	return formats[0]
}

// choosePresentMode returns preferred when the surface supports it. FIFO is
// always available.
func choosePresentMode(modes []vk.PresentMode, preferred vk.PresentMode) vk.PresentMode {
	for _, mode := range modes {
		if mode == preferred {
			return mode
		}
	}
	return vk.PresentModeFifo
}

// SwapchainCreate builds a swapchain of extent using old as the creation
// hint. The caller destroys old afterwards.
func SwapchainCreate(context *VulkanContext, old *VulkanSwapchain, extent metadata.Extent2D, minImageCount uint32, presentMode vk.PresentMode) (*VulkanSwapchain, error) {
	swapchain := &VulkanSwapchain{Extent: extent}
	support := &context.Device.SwapchainSupport

	swapchainCreateInfo := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          context.Surface,
		MinImageCount:    minImageCount,
		ImageFormat:      context.Device.SurfaceFormat.Format,
		ImageColorSpace:  context.Device.SurfaceFormat.ColorSpace,
		ImageExtent:      vk.Extent2D{Width: extent.Width, Height: extent.Height},
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		PreTransform:     support.Capabilities.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      presentMode,
		Clipped:          vk.True,
		OldSwapchain:     vk.NullSwapchain,
	}
	if old != nil {
		swapchainCreateInfo.OldSwapchain = old.Handle
	}

	// Setup the queue family indices
	if context.Device.GraphicsQueueIndex != context.Device.PresentQueueIndex {
		swapchainCreateInfo.ImageSharingMode = vk.SharingModeConcurrent
		swapchainCreateInfo.QueueFamilyIndexCount = 2
		swapchainCreateInfo.PQueueFamilyIndices = []uint32{
			uint32(context.Device.GraphicsQueueIndex),
			uint32(context.Device.PresentQueueIndex),
		}
	} else {
		swapchainCreateInfo.ImageSharingMode = vk.SharingModeExclusive
	}

	if err := context.locks.SafeCall(SwapchainManagement, func() error {
		if res := vk.CreateSwapchain(context.Device.LogicalDevice, &swapchainCreateInfo, context.Allocator, &swapchain.Handle); res != vk.Success {
			return resultError("vkCreateSwapchainKHR", res)
		}
		return nil
	}); err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	// Images
	if res := vk.GetSwapchainImages(context.Device.LogicalDevice, swapchain.Handle, &swapchain.ImageCount, nil); res != vk.Success {
		swapchain.destroySwapchain(context)
		return nil, resultError("vkGetSwapchainImagesKHR", res)
	}
	swapchain.Images = make([]vk.Image, swapchain.ImageCount)
	swapchain.Views = make([]vk.ImageView, swapchain.ImageCount)
	if res := vk.GetSwapchainImages(context.Device.LogicalDevice, swapchain.Handle, &swapchain.ImageCount, swapchain.Images); res != vk.Success {
		swapchain.destroySwapchain(context)
		return nil, resultError("vkGetSwapchainImagesKHR", res)
	}

	// Views
	for i := range swapchain.Images {
		view, err := createImageView(context, swapchain.Images[i], context.Device.SurfaceFormat.Format, vk.ImageAspectFlags(vk.ImageAspectColorBit))
		if err != nil {
			swapchain.destroySwapchain(context)
			return nil, err
		}
		swapchain.Views[i] = view
	}

	// Depth resources
	depthAttachment, err := ImageCreate(
		context,
		extent.Width,
		extent.Height,
		context.Device.DepthFormat,
		vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
		true,
		vk.ImageAspectFlags(vk.ImageAspectDepthBit))
	if err != nil {
		swapchain.destroySwapchain(context)
		return nil, err
	}
	swapchain.DepthAttachment = depthAttachment

	// Framebuffers
	swapchain.Framebuffers = make([]*VulkanFramebuffer, swapchain.ImageCount)
	for i := range swapchain.Views {
		attachments := []vk.ImageView{swapchain.Views[i], swapchain.DepthAttachment.View}
		fb, err := FramebufferCreate(context, context.MainRenderpass, extent.Width, extent.Height, attachments)
		if err != nil {
			swapchain.destroySwapchain(context)
			return nil, err
		}
		swapchain.Framebuffers[i] = fb
	}

	core.LogInfo("Swapchain created successfully.")
	return swapchain, nil
}

func (vs *VulkanSwapchain) SwapchainDestroy(context *VulkanContext) {
	vs.destroySwapchain(context)
}

// SwapchainAcquireNextImageIndex maps out-of-date and suboptimal onto the
// present result, any other failure is an error.
func (vs *VulkanSwapchain) SwapchainAcquireNextImageIndex(context *VulkanContext, imageAvailableSemaphore vk.Semaphore) (uint32, metadata.PresentResult, error) {
	var imageIndex uint32
	result := vk.AcquireNextImage(context.Device.LogicalDevice, vs.Handle, math.MaxUint64, imageAvailableSemaphore, vk.NullFence, &imageIndex)
	status, err := presentResult(result)
	if err != nil {
		core.LogError("Failed to acquire swapchain image: %s", err)
		return 0, status, err
	}
	return imageIndex, status, nil
}

func (vs *VulkanSwapchain) SwapchainPresent(context *VulkanContext, presentQueue vk.Queue, renderCompleteSemaphore vk.Semaphore, presentImageIndex uint32) (metadata.PresentResult, error) {
	// Return the image to the swapchain for presentation.
	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{renderCompleteSemaphore},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{vs.Handle},
		PImageIndices:      []uint32{presentImageIndex},
		PResults:           nil,
	}

	var result vk.Result
	if err := context.locks.SafeQueueCall(uint32(context.Device.PresentQueueIndex), func() error {
		result = vk.QueuePresent(presentQueue, &presentInfo)
		return nil
	}); err != nil {
		return metadata.PresentOK, err
	}
	status, err := presentResult(result)
	if err != nil {
		core.LogError("Failed to present swap chain image: %s", err)
	}
	return status, err
}

// destroySwapchain releases everything derived from the swapchain. The
// presentable images belong to the swapchain and go with it.
func (vs *VulkanSwapchain) destroySwapchain(context *VulkanContext) {
	for _, fb := range vs.Framebuffers {
		if fb != nil {
			fb.Destroy(context)
		}
	}
	vs.Framebuffers = nil

	if vs.DepthAttachment != nil {
		vs.DepthAttachment.ImageDestroy(context)
		vs.DepthAttachment = nil
	}

	for i := range vs.Views {
		if vs.Views[i] != vk.NullImageView {
			vk.DestroyImageView(context.Device.LogicalDevice, vs.Views[i], context.Allocator)
		}
	}
	vs.Views = nil
	vs.Images = nil

	if vs.Handle != vk.NullSwapchain {
		context.locks.SafeCall(SwapchainManagement, func() error {
			vk.DestroySwapchain(context.Device.LogicalDevice, vs.Handle, context.Allocator)
			return nil
		})
		vs.Handle = vk.NullSwapchain
	}
}
