package vulkan

import (
	"fmt"
	"math"
	"runtime"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/voxelcraft/engine/config"
	"github.com/spaghettifunk/voxelcraft/engine/core"
	"github.com/spaghettifunk/voxelcraft/engine/platform"
	"github.com/spaghettifunk/voxelcraft/engine/renderer/metadata"
)

const validationLayerName = "VK_LAYER_KHRONOS_validation"

// VulkanRenderer implements the renderer backend on a single graphics queue
// and one render pass drawing into the swapchain.
type VulkanRenderer struct {
	platform    *platform.Platform
	context     *VulkanContext
	validation  bool
	presentMode vk.PresentMode
}

func New(p *platform.Platform, cfg config.RendererConfig) *VulkanRenderer {
	return &VulkanRenderer{
		platform:    p,
		context:     NewVulkanContext(),
		validation:  cfg.Validation,
		presentMode: presentModeFromName(cfg.PresentMode),
	}
}

func (vr *VulkanRenderer) Initialize(appName string, appWidth, appHeight uint32) error {
	procAddr := glfw.GetVulkanGetInstanceProcAddress()
	if procAddr == nil {
		err := fmt.Errorf("GetInstanceProcAddress is nil")
		core.LogError(err.Error())
		return err
	}
	vk.SetGetInstanceProcAddr(procAddr)

	if err := vk.Init(); err != nil {
		core.LogError("failed to initialize vk: %s", err)
		return err
	}

	// Setup Vulkan instance.
	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(vk.MakeVersion(1, 0, 0)),
		ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
		PApplicationName:   VulkanSafeString(appName),
		PEngineName:        VulkanSafeString("Voxelcraft Engine"),
	}

	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}

	// Obtain a list of required extensions
	requiredExtensions := vr.platform.GetRequiredExtensionNames()
	if runtime.GOOS == "darwin" {
		requiredExtensions = append(requiredExtensions,
			"VK_KHR_portability_enumeration",
			"VK_KHR_get_physical_device_properties2",
		)
		// VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR
		createInfo.Flags |= 1
	}
	if vr.validation {
		requiredExtensions = append(requiredExtensions, vk.ExtDebugReportExtensionName)
	}
	core.LogDebug("Required extensions: %v", requiredExtensions)

	createInfo.EnabledExtensionCount = uint32(len(requiredExtensions))
	createInfo.PpEnabledExtensionNames = VulkanSafeStrings(requiredExtensions)

	// Validation layers.
	var layers []string
	if vr.validation {
		core.LogInfo("Validation layers enabled. Enumerating...")
		if err := requireLayer(validationLayerName); err != nil {
			core.LogError(err.Error())
			return err
		}
		layers = []string{validationLayerName}
	}
	createInfo.EnabledLayerCount = uint32(len(layers))
	createInfo.PpEnabledLayerNames = VulkanSafeStrings(layers)

	var instance vk.Instance
	if res := vk.CreateInstance(&createInfo, vr.context.Allocator, &instance); res != vk.Success {
		err := resultError("vkCreateInstance", res)
		core.LogError(err.Error())
		return err
	}
	vr.context.Instance = instance
	if err := vk.InitInstance(instance); err != nil {
		core.LogError(err.Error())
		return err
	}
	core.LogInfo("Vulkan Instance created.")

	// Debugger
	if vr.validation {
		core.LogDebug("Creating Vulkan debugger...")
		debugCreateInfo := vk.DebugReportCallbackCreateInfo{
			SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
			Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit),
			PfnCallback: dbgCallbackFunc,
		}
		var dbg vk.DebugReportCallback
		if res := vk.CreateDebugReportCallback(instance, &debugCreateInfo, nil, &dbg); res != vk.Success {
			err := resultError("vkCreateDebugReportCallbackEXT", res)
			core.LogError(err.Error())
			return err
		}
		vr.context.debugMessenger = dbg
		core.LogDebug("Vulkan debugger created.")
	}

	// Surface
	core.LogDebug("Creating Vulkan surface...")
	surface, err := vr.platform.CreateSurface(instance)
	if err != nil {
		core.LogError("Failed to create platform surface: %s", err)
		return err
	}
	vr.context.Surface = vk.SurfaceFromPointer(surface)
	core.LogDebug("Vulkan surface created.")

	// Device creation
	if err := DeviceCreate(vr.context); err != nil {
		core.LogError("Failed to create device: %s", err)
		return err
	}

	rp, err := RenderpassCreate(vr.context, vr.context.Device.SurfaceFormat.Format, vr.context.Device.DepthFormat, 1.0, 0)
	if err != nil {
		return err
	}
	vr.context.MainRenderpass = rp

	core.LogInfo("Vulkan renderer initialized successfully.")
	return nil
}

func requireLayer(name string) error {
	var count uint32
	if res := vk.EnumerateInstanceLayerProperties(&count, nil); res != vk.Success {
		return resultError("vkEnumerateInstanceLayerProperties", res)
	}
	available := make([]vk.LayerProperties, count)
	if res := vk.EnumerateInstanceLayerProperties(&count, available); res != vk.Success {
		return resultError("vkEnumerateInstanceLayerProperties", res)
	}
	for i := range available {
		available[i].Deref()
		end := FindFirstZeroInByteArray(available[i].LayerName[:])
		if string(available[i].LayerName[:end]) == name {
			core.LogInfo("Found layer: %s", name)
			return nil
		}
	}
	return fmt.Errorf("required validation layer is missing: %s: %w", name, core.ErrMissingExtension)
}

// Shutdown releases everything in reverse creation order. Pipelines,
// buffers and textures belong to the front end and are gone by now.
func (vr *VulkanRenderer) Shutdown() error {
	ctx := vr.context
	if ctx.Device.LogicalDevice != nil {
		vk.DeviceWaitIdle(ctx.Device.LogicalDevice)

		for i := range ctx.ImageAvailableSemaphores {
			vk.DestroySemaphore(ctx.Device.LogicalDevice, ctx.ImageAvailableSemaphores[i], ctx.Allocator)
			vk.DestroySemaphore(ctx.Device.LogicalDevice, ctx.QueueCompleteSemaphores[i], ctx.Allocator)
			ctx.InFlightFences[i].FenceDestroy(ctx)
		}
		ctx.ImageAvailableSemaphores = nil
		ctx.QueueCompleteSemaphores = nil
		ctx.InFlightFences = nil

		for _, cb := range ctx.GraphicsCommandBuffers {
			cb.Free(ctx, ctx.Device.GraphicsCommandPool)
		}
		ctx.GraphicsCommandBuffers = nil

		if ctx.Swapchain != nil {
			ctx.Swapchain.SwapchainDestroy(ctx)
			ctx.Swapchain = nil
		}
		if ctx.MainRenderpass != nil {
			ctx.MainRenderpass.RenderpassDestroy(ctx)
			ctx.MainRenderpass = nil
		}
		DeviceDestroy(ctx)
	}

	if ctx.Surface != vk.NullSurface {
		vk.DestroySurface(ctx.Instance, ctx.Surface, ctx.Allocator)
		ctx.Surface = vk.NullSurface
	}
	if ctx.debugMessenger != vk.NullDebugReportCallback {
		vk.DestroyDebugReportCallback(ctx.Instance, ctx.debugMessenger, ctx.Allocator)
		ctx.debugMessenger = vk.NullDebugReportCallback
	}
	if ctx.Instance != nil {
		vk.DestroyInstance(ctx.Instance, ctx.Allocator)
		ctx.Instance = nil
	}
	core.LogInfo("Vulkan renderer shut down.")
	return nil
}

func (vr *VulkanRenderer) DeviceName() string {
	return vr.context.Device.Name
}

func (vr *VulkanRenderer) Limits() metadata.DeviceLimits {
	limits := vr.context.Device.Properties.Limits
	limits.Deref()
	return metadata.DeviceLimits{
		MaxPushConstantsSize: limits.MaxPushConstantsSize,
		FillModeNonSolid:     vr.context.Device.Features.FillModeNonSolid.B(),
	}
}

func (vr *VulkanRenderer) WaitIdle() error {
	if res := vk.DeviceWaitIdle(vr.context.Device.LogicalDevice); res != vk.Success {
		return resultError("vkDeviceWaitIdle", res)
	}
	return nil
}

func extent2D(e vk.Extent2D) metadata.Extent2D {
	e.Deref()
	return metadata.Extent2D{Width: e.Width, Height: e.Height}
}

func (vr *VulkanRenderer) SurfaceCapabilities() (metadata.SurfaceCapabilities, error) {
	support := &vr.context.Device.SwapchainSupport
	if err := DeviceQuerySwapchainSupport(vr.context.Device.PhysicalDevice, vr.context.Surface, support); err != nil {
		return metadata.SurfaceCapabilities{}, err
	}
	caps := support.Capabilities
	return metadata.SurfaceCapabilities{
		CurrentExtent:  extent2D(caps.CurrentExtent),
		MinImageExtent: extent2D(caps.MinImageExtent),
		MaxImageExtent: extent2D(caps.MaxImageExtent),
		MinImageCount:  caps.MinImageCount,
		MaxImageCount:  caps.MaxImageCount,
	}, nil
}

func (vr *VulkanRenderer) CreateSwapchain(extent metadata.Extent2D, minImageCount uint32) (uint32, error) {
	if err := vr.WaitIdle(); err != nil {
		return 0, err
	}
	mode := choosePresentMode(vr.context.Device.SwapchainSupport.PresentModes, vr.presentMode)
	old := vr.context.Swapchain
	sc, err := SwapchainCreate(vr.context, old, extent, minImageCount, mode)
	if old != nil {
		old.SwapchainDestroy(vr.context)
		vr.context.Swapchain = nil
	}
	if err != nil {
		return 0, err
	}
	vr.context.Swapchain = sc
	return sc.ImageCount, nil
}

func (vr *VulkanRenderer) CreateFrameSlots(count uint32) error {
	ctx := vr.context
	ctx.ImageAvailableSemaphores = make([]vk.Semaphore, count)
	ctx.QueueCompleteSemaphores = make([]vk.Semaphore, count)
	ctx.InFlightFences = make([]*VulkanFence, count)
	ctx.GraphicsCommandBuffers = make([]*VulkanCommandBuffer, count)

	semaphoreCreateInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}
	for i := uint32(0); i < count; i++ {
		if res := vk.CreateSemaphore(ctx.Device.LogicalDevice, &semaphoreCreateInfo, ctx.Allocator, &ctx.ImageAvailableSemaphores[i]); res != vk.Success {
			return resultError("vkCreateSemaphore", res)
		}
		if res := vk.CreateSemaphore(ctx.Device.LogicalDevice, &semaphoreCreateInfo, ctx.Allocator, &ctx.QueueCompleteSemaphores[i]); res != vk.Success {
			return resultError("vkCreateSemaphore", res)
		}

		// Signaled, so the first wait on a slot does not block.
		f, err := NewFence(ctx, true)
		if err != nil {
			return err
		}
		ctx.InFlightFences[i] = f

		cb, err := NewVulkanCommandBuffer(ctx, ctx.Device.GraphicsCommandPool, true)
		if err != nil {
			return err
		}
		ctx.GraphicsCommandBuffers[i] = cb
	}
	core.LogDebug("Created %d frame slots.", count)
	return nil
}

func (vr *VulkanRenderer) WaitForFrameSlot(slot uint32) error {
	return vr.context.InFlightFences[slot].FenceWait(vr.context, math.MaxUint64)
}

func (vr *VulkanRenderer) ResetFrameSlot(slot uint32) error {
	return vr.context.InFlightFences[slot].FenceReset(vr.context)
}

// RestoreFrameSlot signals the slot fence through an empty submission so a
// frame abandoned after the reset does not leave the slot unwaitable.
func (vr *VulkanRenderer) RestoreFrameSlot(slot uint32) error {
	ctx := vr.context
	fence := ctx.InFlightFences[slot]
	err := ctx.locks.SafeQueueCall(uint32(ctx.Device.GraphicsQueueIndex), func() error {
		if res := vk.QueueSubmit(ctx.Device.GraphicsQueue, 0, nil, fence.Handle); res != vk.Success {
			return resultError("vkQueueSubmit", res)
		}
		return nil
	})
	if err != nil {
		core.LogError(err.Error())
		return err
	}
	return fence.FenceWait(ctx, math.MaxUint64)
}

func (vr *VulkanRenderer) ReleaseImage(slot uint32) error {
	ctx := vr.context
	fence := ctx.InFlightFences[slot]
	if err := fence.FenceReset(ctx); err != nil {
		return err
	}
	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{ctx.ImageAvailableSemaphores[slot]},
		PWaitDstStageMask:  []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageBottomOfPipeBit)},
	}
	err := ctx.locks.SafeQueueCall(uint32(ctx.Device.GraphicsQueueIndex), func() error {
		if res := vk.QueueSubmit(ctx.Device.GraphicsQueue, 1, []vk.SubmitInfo{submitInfo}, fence.Handle); res != vk.Success {
			return resultError("vkQueueSubmit", res)
		}
		return nil
	})
	if err != nil {
		core.LogError(err.Error())
		return err
	}
	return fence.FenceWait(ctx, math.MaxUint64)
}

func (vr *VulkanRenderer) AcquireNextImage(slot uint32) (uint32, metadata.PresentResult, error) {
	return vr.context.Swapchain.SwapchainAcquireNextImageIndex(vr.context, vr.context.ImageAvailableSemaphores[slot])
}

func (vr *VulkanRenderer) BeginRecording(slot, image uint32, extent metadata.Extent2D, clear metadata.ClearColor) error {
	ctx := vr.context
	cb := ctx.GraphicsCommandBuffers[slot]
	if err := cb.Reset(); err != nil {
		return err
	}
	if err := cb.Begin(false, false, false); err != nil {
		return err
	}

	viewport := vk.Viewport{
		X:        0.0,
		Y:        0.0,
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MinDepth: 0.0,
		MaxDepth: 1.0,
	}
	scissor := vk.Rect2D{
		Offset: vk.Offset2D{X: 0, Y: 0},
		Extent: vk.Extent2D{Width: extent.Width, Height: extent.Height},
	}
	vk.CmdSetViewport(cb.Handle, 0, 1, []vk.Viewport{viewport})
	vk.CmdSetScissor(cb.Handle, 0, 1, []vk.Rect2D{scissor})

	ctx.MainRenderpass.RenderpassBegin(cb, ctx.Swapchain.Framebuffers[image].Handle, extent, clear)
	return nil
}

func (vr *VulkanRenderer) EndRecording(slot uint32) error {
	cb := vr.context.GraphicsCommandBuffers[slot]
	vr.context.MainRenderpass.RenderpassEnd(cb)
	return cb.End()
}

func (vr *VulkanRenderer) Submit(slot uint32) error {
	ctx := vr.context
	cb := ctx.GraphicsCommandBuffers[slot]

	submitInfo := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{cb.Handle},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{ctx.QueueCompleteSemaphores[slot]},
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{ctx.ImageAvailableSemaphores[slot]},
		// Color writes wait for the image to be acquired.
		PWaitDstStageMask: []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)},
	}

	err := ctx.locks.SafeQueueCall(uint32(ctx.Device.GraphicsQueueIndex), func() error {
		if res := vk.QueueSubmit(ctx.Device.GraphicsQueue, 1, []vk.SubmitInfo{submitInfo}, ctx.InFlightFences[slot].Handle); res != vk.Success {
			return resultError("vkQueueSubmit", res)
		}
		return nil
	})
	if err != nil {
		core.LogError(err.Error())
		return err
	}
	cb.UpdateSubmitted()
	return nil
}

func (vr *VulkanRenderer) Present(slot, image uint32) (metadata.PresentResult, error) {
	ctx := vr.context
	return ctx.Swapchain.SwapchainPresent(ctx, ctx.Device.PresentQueue, ctx.QueueCompleteSemaphores[slot], image)
}

func (vr *VulkanRenderer) CmdBindPipeline(slot uint32, pipeline metadata.GPUPipeline) {
	pipeline.(*VulkanPipeline).Bind(vr.context.GraphicsCommandBuffers[slot], vk.PipelineBindPointGraphics)
}

func (vr *VulkanRenderer) CmdBindVertexBuffers(slot, firstBinding uint32, buffers []metadata.GPUBuffer) {
	handles := make([]vk.Buffer, len(buffers))
	offsets := make([]vk.DeviceSize, len(buffers))
	for i, b := range buffers {
		handles[i] = b.(*VulkanBuffer).Handle
	}
	vk.CmdBindVertexBuffers(vr.context.GraphicsCommandBuffers[slot].Handle, firstBinding, uint32(len(handles)), handles, offsets)
}

func (vr *VulkanRenderer) CmdBindIndexBuffer(slot uint32, buffer metadata.GPUBuffer) {
	vk.CmdBindIndexBuffer(vr.context.GraphicsCommandBuffers[slot].Handle, buffer.(*VulkanBuffer).Handle, 0, vk.IndexTypeUint32)
}

func (vr *VulkanRenderer) CmdPushConstants(slot uint32, pipeline metadata.GPUPipeline, stage metadata.ShaderStage, offset uint32, data []byte) {
	if len(data) == 0 {
		return
	}
	vk.CmdPushConstants(
		vr.context.GraphicsCommandBuffers[slot].Handle,
		pipeline.(*VulkanPipeline).PipelineLayout,
		shaderStageFlags(stage),
		offset,
		uint32(len(data)),
		unsafe.Pointer(&data[0]))
}

func (vr *VulkanRenderer) CmdDrawIndexed(slot, indexCount, instanceCount uint32) {
	vk.CmdDrawIndexed(vr.context.GraphicsCommandBuffers[slot].Handle, indexCount, instanceCount, 0, 0, 0)
}

func bufferUsage(usage metadata.BufferUsage) vk.BufferUsageFlags {
	if usage == metadata.BufferUsageIndex {
		return vk.BufferUsageFlags(vk.BufferUsageIndexBufferBit)
	}
	return vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit)
}

// CreateBuffer uploads data into a new device-local buffer through a
// staging buffer and a one-shot transfer.
func (vr *VulkanRenderer) CreateBuffer(usage metadata.BufferUsage, data []byte) (metadata.GPUBuffer, error) {
	ctx := vr.context
	if len(data) == 0 {
		return nil, fmt.Errorf("empty %s buffer: %w", usage, core.ErrInvalidOperation)
	}

	staging, err := createStagingBuffer(ctx, data)
	if err != nil {
		return nil, err
	}
	defer staging.Destroy(ctx)

	buffer, err := BufferCreate(
		ctx,
		uint64(len(data)),
		vk.BufferUsageFlags(vk.BufferUsageTransferDstBit)|bufferUsage(usage),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		return nil, err
	}

	if err := vr.singleUse(func(cb *VulkanCommandBuffer) error {
		staging.CopyTo(cb, buffer)
		return nil
	}); err != nil {
		buffer.Destroy(ctx)
		return nil, err
	}
	return buffer, nil
}

func (vr *VulkanRenderer) DestroyBuffer(buffer metadata.GPUBuffer) {
	buffer.(*VulkanBuffer).Destroy(vr.context)
}

func (vr *VulkanRenderer) CreateTexture(pixels []uint8, width, height uint32) (metadata.GPUTexture, error) {
	ctx := vr.context
	if width == 0 || height == 0 || uint64(len(pixels)) != uint64(width)*uint64(height)*4 {
		return nil, fmt.Errorf("texture of %dx%d with %d bytes: %w", width, height, len(pixels), core.ErrInvalidOperation)
	}

	staging, err := createStagingBuffer(ctx, pixels)
	if err != nil {
		return nil, err
	}
	defer staging.Destroy(ctx)

	image, err := ImageCreate(
		ctx,
		width,
		height,
		TextureFormat,
		vk.ImageUsageFlags(vk.ImageUsageTransferDstBit)|vk.ImageUsageFlags(vk.ImageUsageSampledBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
		true,
		vk.ImageAspectFlags(vk.ImageAspectColorBit))
	if err != nil {
		return nil, err
	}
	texture := &VulkanTexture{Image: image}

	if err := vr.singleUse(func(cb *VulkanCommandBuffer) error {
		if err := image.TransitionLayout(cb, vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal); err != nil {
			return err
		}
		image.CopyFromBuffer(cb, staging.Handle)
		return image.TransitionLayout(cb, vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal)
	}); err != nil {
		texture.Destroy(ctx)
		return nil, err
	}

	sampler, err := createSampler(ctx)
	if err != nil {
		texture.Destroy(ctx)
		return nil, err
	}
	texture.Sampler = sampler
	return texture, nil
}

func (vr *VulkanRenderer) DestroyTexture(texture metadata.GPUTexture) {
	texture.(*VulkanTexture).Destroy(vr.context)
}

func (vr *VulkanRenderer) CreatePipeline(desc *metadata.PipelineDesc) (metadata.GPUPipeline, error) {
	ctx := vr.context

	vertex, err := NewShaderStage(ctx, desc.VertexCode, vk.ShaderStageVertexBit)
	if err != nil {
		return nil, fmt.Errorf("%s vertex shader: %w", desc.Name, err)
	}
	defer vertex.Destroy(ctx)

	fragment, err := NewShaderStage(ctx, desc.FragmentCode, vk.ShaderStageFragmentBit)
	if err != nil {
		return nil, fmt.Errorf("%s fragment shader: %w", desc.Name, err)
	}
	defer fragment.Destroy(ctx)

	pipeline, err := NewGraphicsPipeline(ctx, &VulkanPipelineConfig{
		Renderpass: ctx.MainRenderpass,
		Layout:     desc.Layout,
		Stages:     []vk.PipelineShaderStageCreateInfo{vertex.ShaderStageCreateInfo, fragment.ShaderStageCreateInfo},
	})
	if err != nil {
		return nil, fmt.Errorf("%s pipeline: %w", desc.Name, err)
	}
	core.LogDebug("pipeline '%s' created", desc.Name)
	return pipeline, nil
}

func (vr *VulkanRenderer) DestroyPipeline(pipeline metadata.GPUPipeline) {
	pipeline.(*VulkanPipeline).Destroy(vr.context)
}

// UpdatePipelineTexture rewrites one sampler slot. The set may be referenced
// by frames in flight, so the device is drained first.
func (vr *VulkanRenderer) UpdatePipelineTexture(pipeline metadata.GPUPipeline, index uint32, texture metadata.GPUTexture) error {
	p := pipeline.(*VulkanPipeline)
	if p.Descriptor == nil || index >= p.Descriptor.TextureCount {
		return fmt.Errorf("texture slot %d: %w", index, core.ErrIndexOutOfRange)
	}
	if err := vr.WaitIdle(); err != nil {
		return err
	}
	p.Descriptor.WriteTexture(vr.context, index, texture.(*VulkanTexture))
	return nil
}

func (vr *VulkanRenderer) singleUse(record func(cb *VulkanCommandBuffer) error) error {
	ctx := vr.context
	cb, err := AllocateAndBeginSingleUse(ctx, ctx.Device.GraphicsCommandPool)
	if err != nil {
		return err
	}
	if err := record(cb); err != nil {
		cb.Free(ctx, ctx.Device.GraphicsCommandPool)
		return err
	}
	return cb.EndSingleUse(ctx, ctx.Device.GraphicsCommandPool, ctx.Device.GraphicsQueue, uint32(ctx.Device.GraphicsQueueIndex))
}

func dbgCallbackFunc(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType, object uint64, location uint64, messageCode int32, pLayerPrefix string, pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		core.LogError("ERROR: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		core.LogWarn("WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		core.LogWarn("PERFORMANCE WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportDebugBit) != 0:
		core.LogDebug("DEBUG: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	default:
		core.LogInfo("INFORMATION: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	}
	return vk.Bool32(vk.False)
}
