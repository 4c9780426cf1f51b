package vulkan

import (
	"fmt"
	"strings"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/voxelcraft/engine/core"
	"github.com/spaghettifunk/voxelcraft/engine/renderer/metadata"
)

const portabilitySubsetExtensionName = "VK_KHR_portability_subset"

type VulkanDevice struct {
	PhysicalDevice     vk.PhysicalDevice
	LogicalDevice      vk.Device
	SwapchainSupport   VulkanSwapchainSupportInfo
	SurfaceFormat      vk.SurfaceFormat
	GraphicsQueueIndex int32
	PresentQueueIndex  int32

	GraphicsQueue vk.Queue
	PresentQueue  vk.Queue

	GraphicsCommandPool vk.CommandPool

	Properties vk.PhysicalDeviceProperties
	Memory     vk.PhysicalDeviceMemoryProperties
	Features   vk.PhysicalDeviceFeatures

	DepthFormat vk.Format
	Name        string
}

func deviceType(t vk.PhysicalDeviceType) metadata.DeviceType {
	switch t {
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return metadata.DeviceTypeIntegratedGPU
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return metadata.DeviceTypeDiscreteGPU
	case vk.PhysicalDeviceTypeVirtualGpu:
		return metadata.DeviceTypeVirtualGPU
	case vk.PhysicalDeviceTypeCpu:
		return metadata.DeviceTypeCPU
	}
	return metadata.DeviceTypeOther
}

func deviceExtensionNames(device vk.PhysicalDevice) ([]string, error) {
	var count uint32
	if res := vk.EnumerateDeviceExtensionProperties(device, "", &count, nil); res != vk.Success {
		return nil, resultError("vkEnumerateDeviceExtensionProperties", res)
	}
	available := make([]vk.ExtensionProperties, count)
	if count > 0 {
		if res := vk.EnumerateDeviceExtensionProperties(device, "", &count, available); res != vk.Success {
			return nil, resultError("vkEnumerateDeviceExtensionProperties", res)
		}
	}
	names := make([]string, 0, count)
	for i := range available {
		available[i].Deref()
		names = append(names, vk.ToString(available[i].ExtensionName[:]))
	}
	return names, nil
}

func missingExtensions(available, required []string) []string {
	var missing []string
	for _, req := range required {
		found := false
		for _, name := range available {
			if name == strings.TrimRight(req, end) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, strings.TrimRight(req, end))
		}
	}
	return missing
}

// describePhysicalDevice gathers what device selection needs to know about
// one physical device.
func describePhysicalDevice(device vk.PhysicalDevice, surface vk.Surface, support *VulkanSwapchainSupportInfo) (metadata.DeviceCandidate, error) {
	var properties vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(device, &properties)
	properties.Deref()

	candidate := metadata.DeviceCandidate{
		Name:               vk.ToString(properties.DeviceName[:]),
		Type:               deviceType(properties.DeviceType),
		GraphicsQueueIndex: -1,
		PresentQueueIndex:  -1,
	}

	var queueFamilyCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(device, &queueFamilyCount, nil)
	queueFamilies := make([]vk.QueueFamilyProperties, queueFamilyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(device, &queueFamilyCount, queueFamilies)

	for i := range queueFamilies {
		queueFamilies[i].Deref()
		if candidate.GraphicsQueueIndex < 0 && queueFamilies[i].QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
			candidate.GraphicsQueueIndex = int32(i)
		}

		var supportsPresent vk.Bool32
		if res := vk.GetPhysicalDeviceSurfaceSupport(device, uint32(i), surface, &supportsPresent); res != vk.Success {
			return candidate, resultError("vkGetPhysicalDeviceSurfaceSupportKHR", res)
		}
		// Prefer a family that does both.
		if supportsPresent.B() && (candidate.PresentQueueIndex < 0 || int32(i) == candidate.GraphicsQueueIndex) {
			candidate.PresentQueueIndex = int32(i)
		}
	}

	available, err := deviceExtensionNames(device)
	if err != nil {
		return candidate, err
	}
	candidate.MissingExtensions = missingExtensions(available, []string{vk.KhrSwapchainExtensionName})

	if err := DeviceQuerySwapchainSupport(device, surface, support); err != nil {
		return candidate, err
	}
	candidate.FormatCount = uint32(len(support.Formats))
	candidate.PresentModeCount = uint32(len(support.PresentModes))

	core.LogDebug("device '%s' (%s): graphics=%d present=%d formats=%d present modes=%d",
		candidate.Name, candidate.Type, candidate.GraphicsQueueIndex, candidate.PresentQueueIndex,
		candidate.FormatCount, candidate.PresentModeCount)
	return candidate, nil
}

func SelectPhysicalDevice(context *VulkanContext) error {
	var physicalDeviceCount uint32
	if res := vk.EnumeratePhysicalDevices(context.Instance, &physicalDeviceCount, nil); res != vk.Success {
		return resultError("vkEnumeratePhysicalDevices", res)
	}
	if physicalDeviceCount == 0 {
		core.LogError("No devices which support Vulkan were found.")
		return core.ErrNoSuitableDevice
	}

	physicalDevices := make([]vk.PhysicalDevice, physicalDeviceCount)
	if res := vk.EnumeratePhysicalDevices(context.Instance, &physicalDeviceCount, physicalDevices); res != vk.Success {
		return resultError("vkEnumeratePhysicalDevices", res)
	}

	candidates := make([]metadata.DeviceCandidate, len(physicalDevices))
	supports := make([]VulkanSwapchainSupportInfo, len(physicalDevices))
	for i, pd := range physicalDevices {
		c, err := describePhysicalDevice(pd, context.Surface, &supports[i])
		if err != nil {
			return err
		}
		candidates[i] = c
	}

	index, err := metadata.SelectDevice(candidates)
	if err != nil {
		core.LogError("No physical devices were found which meet the requirements.")
		return err
	}

	selected := physicalDevices[index]
	candidate := candidates[index]

	context.Device.PhysicalDevice = selected
	context.Device.GraphicsQueueIndex = candidate.GraphicsQueueIndex
	context.Device.PresentQueueIndex = candidate.PresentQueueIndex
	context.Device.SwapchainSupport = supports[index]
	context.Device.Name = candidate.Name

	vk.GetPhysicalDeviceProperties(selected, &context.Device.Properties)
	context.Device.Properties.Deref()
	vk.GetPhysicalDeviceMemoryProperties(selected, &context.Device.Memory)
	context.Device.Memory.Deref()
	vk.GetPhysicalDeviceFeatures(selected, &context.Device.Features)
	context.Device.Features.Deref()

	core.LogInfo("Selected device: '%s'.", candidate.Name)
	core.LogInfo("GPU type is %s.", candidate.Type)
	driver := vk.Version(context.Device.Properties.DriverVersion)
	core.LogInfo("GPU Driver version: %d.%d.%d", driver.Major(), driver.Minor(), driver.Patch())
	api := vk.Version(context.Device.Properties.ApiVersion)
	core.LogInfo("Vulkan API version: %d.%d.%d", api.Major(), api.Minor(), api.Patch())

	// Memory information
	for j := uint32(0); j < context.Device.Memory.MemoryHeapCount; j++ {
		heap := context.Device.Memory.MemoryHeaps[j]
		heap.Deref()
		memorySizeGib := float64(heap.Size) / 1024.0 / 1024.0 / 1024.0
		if heap.Flags&vk.MemoryHeapFlags(vk.MemoryHeapDeviceLocalBit) != 0 {
			core.LogInfo("Local GPU memory: %.2f GiB", memorySizeGib)
		} else {
			core.LogInfo("Shared System memory: %.2f GiB", memorySizeGib)
		}
	}
	return nil
}

func DeviceCreate(context *VulkanContext) error {
	if err := SelectPhysicalDevice(context); err != nil {
		return err
	}

	core.LogInfo("Creating logical device...")

	// Do not create additional queues for shared indices.
	indices := []uint32{uint32(context.Device.GraphicsQueueIndex)}
	if context.Device.PresentQueueIndex != context.Device.GraphicsQueueIndex {
		indices = append(indices, uint32(context.Device.PresentQueueIndex))
	}

	queueCreateInfos := make([]vk.DeviceQueueCreateInfo, len(indices))
	for i := range indices {
		queueCreateInfos[i] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: indices[i],
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}
	}

	available, err := deviceExtensionNames(context.Device.PhysicalDevice)
	if err != nil {
		core.LogError(err.Error())
		return err
	}
	extensionNames := []string{vk.KhrSwapchainExtensionName}
	for _, name := range available {
		if name == portabilitySubsetExtensionName {
			core.LogInfo("Adding required extension '%s'.", portabilitySubsetExtensionName)
			extensionNames = append(extensionNames, portabilitySubsetExtensionName)
			break
		}
	}

	// line and point rasterization need fillModeNonSolid
	features := vk.PhysicalDeviceFeatures{}
	if context.Device.Features.FillModeNonSolid.B() {
		features.FillModeNonSolid = vk.True
	} else {
		core.LogWarn("Device does not support non-solid fill modes, line and point materials are unavailable.")
	}

	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueCreateInfos)),
		PQueueCreateInfos:       queueCreateInfos,
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{features},
		EnabledExtensionCount:   uint32(len(extensionNames)),
		PpEnabledExtensionNames: VulkanSafeStrings(extensionNames),
		// Deprecated and ignored, so pass nothing.
		EnabledLayerCount:   0,
		PpEnabledLayerNames: nil,
	}

	var device vk.Device
	if res := vk.CreateDevice(context.Device.PhysicalDevice, &deviceCreateInfo, context.Allocator, &device); res != vk.Success {
		err := resultError("vkCreateDevice", res)
		core.LogError(err.Error())
		return err
	}
	context.Device.LogicalDevice = device
	core.LogInfo("Logical device created.")

	// Get queues.
	var graphicsQueue, presentQueue vk.Queue
	vk.GetDeviceQueue(device, uint32(context.Device.GraphicsQueueIndex), 0, &graphicsQueue)
	vk.GetDeviceQueue(device, uint32(context.Device.PresentQueueIndex), 0, &presentQueue)
	context.Device.GraphicsQueue = graphicsQueue
	context.Device.PresentQueue = presentQueue
	context.locks.SetQueueFamily(uint32(context.Device.GraphicsQueueIndex))
	context.locks.SetQueueFamily(uint32(context.Device.PresentQueueIndex))
	core.LogInfo("Queues obtained.")

	if !DeviceDetectDepthFormat(context.Device) {
		err := fmt.Errorf("failed to find a supported depth format")
		core.LogError(err.Error())
		return err
	}
	context.Device.SurfaceFormat = chooseSurfaceFormat(context.Device.SwapchainSupport.Formats)

	// Create command pool for graphics queue.
	poolCreateInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: uint32(context.Device.GraphicsQueueIndex),
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}
	if err := context.locks.SafeCall(CommandPoolManagement, func() error {
		var pool vk.CommandPool
		if res := vk.CreateCommandPool(device, &poolCreateInfo, context.Allocator, &pool); res != vk.Success {
			return resultError("vkCreateCommandPool", res)
		}
		context.Device.GraphicsCommandPool = pool
		return nil
	}); err != nil {
		core.LogError(err.Error())
		return err
	}
	core.LogInfo("Graphics command pool created.")
	return nil
}

func DeviceDestroy(context *VulkanContext) {
	// Unset queues
	context.Device.GraphicsQueue = nil
	context.Device.PresentQueue = nil

	if context.Device.GraphicsCommandPool != nil {
		core.LogInfo("Destroying command pools...")
		context.locks.SafeCall(CommandPoolManagement, func() error {
			vk.DestroyCommandPool(context.Device.LogicalDevice, context.Device.GraphicsCommandPool, context.Allocator)
			return nil
		})
		context.Device.GraphicsCommandPool = nil
	}

	// Destroy logical device
	if context.Device.LogicalDevice != nil {
		core.LogInfo("Destroying logical device...")
		vk.DestroyDevice(context.Device.LogicalDevice, context.Allocator)
		context.Device.LogicalDevice = nil
	}

	// Physical devices are not destroyed.
	context.Device.PhysicalDevice = nil
	context.Device.SwapchainSupport = VulkanSwapchainSupportInfo{}
	context.Device.GraphicsQueueIndex = -1
	context.Device.PresentQueueIndex = -1
}

func DeviceQuerySwapchainSupport(physicalDevice vk.PhysicalDevice, surface vk.Surface, supportInfo *VulkanSwapchainSupportInfo) error {
	// Surface capabilities
	if res := vk.GetPhysicalDeviceSurfaceCapabilities(physicalDevice, surface, &supportInfo.Capabilities); res != vk.Success {
		return resultError("vkGetPhysicalDeviceSurfaceCapabilitiesKHR", res)
	}
	supportInfo.Capabilities.Deref()
	supportInfo.Capabilities.CurrentExtent.Deref()
	supportInfo.Capabilities.MinImageExtent.Deref()
	supportInfo.Capabilities.MaxImageExtent.Deref()

	// Surface formats
	var formatCount uint32
	if res := vk.GetPhysicalDeviceSurfaceFormats(physicalDevice, surface, &formatCount, nil); res != vk.Success {
		return resultError("vkGetPhysicalDeviceSurfaceFormatsKHR", res)
	}
	supportInfo.Formats = make([]vk.SurfaceFormat, formatCount)
	if formatCount > 0 {
		if res := vk.GetPhysicalDeviceSurfaceFormats(physicalDevice, surface, &formatCount, supportInfo.Formats); res != vk.Success {
			return resultError("vkGetPhysicalDeviceSurfaceFormatsKHR", res)
		}
	}

	// Present modes
	var presentModeCount uint32
	if res := vk.GetPhysicalDeviceSurfacePresentModes(physicalDevice, surface, &presentModeCount, nil); res != vk.Success {
		return resultError("vkGetPhysicalDeviceSurfacePresentModesKHR", res)
	}
	supportInfo.PresentModes = make([]vk.PresentMode, presentModeCount)
	if presentModeCount > 0 {
		if res := vk.GetPhysicalDeviceSurfacePresentModes(physicalDevice, surface, &presentModeCount, supportInfo.PresentModes); res != vk.Success {
			return resultError("vkGetPhysicalDeviceSurfacePresentModesKHR", res)
		}
	}
	return nil
}

// DeviceDetectDepthFormat picks the first depth format usable as an
// optimally tiled depth attachment.
func DeviceDetectDepthFormat(device *VulkanDevice) bool {
	candidates := []vk.Format{
		vk.FormatD32Sfloat,
		vk.FormatD32SfloatS8Uint,
		vk.FormatD24UnormS8Uint,
	}
	flags := vk.FormatFeatureFlags(vk.FormatFeatureDepthStencilAttachmentBit)
	for _, candidate := range candidates {
		var properties vk.FormatProperties
		vk.GetPhysicalDeviceFormatProperties(device.PhysicalDevice, candidate, &properties)
		properties.Deref()
		if properties.OptimalTilingFeatures&flags == flags {
			device.DepthFormat = candidate
			return true
		}
	}
	return false
}
