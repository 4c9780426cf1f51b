package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/voxelcraft/engine/core"
	"github.com/spaghettifunk/voxelcraft/engine/renderer/metadata"
)

func VulkanResultString(result vk.Result, getExtended bool) string {
	// From: https://www.khronos.org/registry/vulkan/specs/1.3-extensions/man/html/VkResult.html
	switch result {
	case vk.Success:
		return ConditionalOperator(!getExtended, "VK_SUCCESS", "VK_SUCCESS Command successfully completed")
	case vk.NotReady:
		return ConditionalOperator(!getExtended, "VK_NOT_READY", "VK_NOT_READY A fence or query has not yet completed")
	case vk.Timeout:
		return ConditionalOperator(!getExtended, "VK_TIMEOUT", "VK_TIMEOUT A wait operation has not completed in the specified time")
	case vk.Incomplete:
		return ConditionalOperator(!getExtended, "VK_INCOMPLETE", "VK_INCOMPLETE A return array was too small for the result")
	case vk.Suboptimal:
		return ConditionalOperator(!getExtended, "VK_SUBOPTIMAL_KHR", "VK_SUBOPTIMAL_KHR A swapchain no longer matches the surface properties exactly, but can still be used to present to the surface successfully.")

	// Error codes
	case vk.ErrorOutOfHostMemory:
		return ConditionalOperator(!getExtended, "VK_ERROR_OUT_OF_HOST_MEMORY", "VK_ERROR_OUT_OF_HOST_MEMORY A host memory allocation has failed.")
	case vk.ErrorOutOfDeviceMemory:
		return ConditionalOperator(!getExtended, "VK_ERROR_OUT_OF_DEVICE_MEMORY", "VK_ERROR_OUT_OF_DEVICE_MEMORY A device memory allocation has failed.")
	case vk.ErrorInitializationFailed:
		return ConditionalOperator(!getExtended, "VK_ERROR_INITIALIZATION_FAILED", "VK_ERROR_INITIALIZATION_FAILED Initialization of an object could not be completed for implementation-specific reasons.")
	case vk.ErrorDeviceLost:
		return ConditionalOperator(!getExtended, "VK_ERROR_DEVICE_LOST", "VK_ERROR_DEVICE_LOST The logical or physical device has been lost.")
	case vk.ErrorMemoryMapFailed:
		return ConditionalOperator(!getExtended, "VK_ERROR_MEMORY_MAP_FAILED", "VK_ERROR_MEMORY_MAP_FAILED Mapping of a memory object has failed.")
	case vk.ErrorLayerNotPresent:
		return ConditionalOperator(!getExtended, "VK_ERROR_LAYER_NOT_PRESENT", "VK_ERROR_LAYER_NOT_PRESENT A requested layer is not present or could not be loaded.")
	case vk.ErrorExtensionNotPresent:
		return ConditionalOperator(!getExtended, "VK_ERROR_EXTENSION_NOT_PRESENT", "VK_ERROR_EXTENSION_NOT_PRESENT A requested extension is not supported.")
	case vk.ErrorFeatureNotPresent:
		return ConditionalOperator(!getExtended, "VK_ERROR_FEATURE_NOT_PRESENT", "VK_ERROR_FEATURE_NOT_PRESENT A requested feature is not supported.")
	case vk.ErrorIncompatibleDriver:
		return ConditionalOperator(!getExtended, "VK_ERROR_INCOMPATIBLE_DRIVER", "VK_ERROR_INCOMPATIBLE_DRIVER The requested version of Vulkan is not supported by the driver.")
	case vk.ErrorTooManyObjects:
		return ConditionalOperator(!getExtended, "VK_ERROR_TOO_MANY_OBJECTS", "VK_ERROR_TOO_MANY_OBJECTS Too many objects of the type have already been created.")
	case vk.ErrorFormatNotSupported:
		return ConditionalOperator(!getExtended, "VK_ERROR_FORMAT_NOT_SUPPORTED", "VK_ERROR_FORMAT_NOT_SUPPORTED A requested format is not supported on this device.")
	case vk.ErrorFragmentedPool:
		return ConditionalOperator(!getExtended, "VK_ERROR_FRAGMENTED_POOL", "VK_ERROR_FRAGMENTED_POOL A pool allocation has failed due to fragmentation of the pool's memory.")
	case vk.ErrorSurfaceLost:
		return ConditionalOperator(!getExtended, "VK_ERROR_SURFACE_LOST_KHR", "VK_ERROR_SURFACE_LOST_KHR A surface is no longer available.")
	case vk.ErrorNativeWindowInUse:
		return ConditionalOperator(!getExtended, "VK_ERROR_NATIVE_WINDOW_IN_USE_KHR", "VK_ERROR_NATIVE_WINDOW_IN_USE_KHR The requested window is already in use by Vulkan or another API.")
	case vk.ErrorOutOfDate:
		return ConditionalOperator(!getExtended, "VK_ERROR_OUT_OF_DATE_KHR", "VK_ERROR_OUT_OF_DATE_KHR A surface has changed in such a way that it is no longer compatible with the swapchain.")
	case vk.ErrorIncompatibleDisplay:
		return ConditionalOperator(!getExtended, "VK_ERROR_INCOMPATIBLE_DISPLAY_KHR", "VK_ERROR_INCOMPATIBLE_DISPLAY_KHR The display used by a swapchain does not use the same presentable image layout.")
	case vk.ErrorOutOfPoolMemory:
		return ConditionalOperator(!getExtended, "VK_ERROR_OUT_OF_POOL_MEMORY", "VK_ERROR_OUT_OF_POOL_MEMORY A pool memory allocation has failed.")
	case vk.ErrorInvalidExternalHandle:
		return ConditionalOperator(!getExtended, "VK_ERROR_INVALID_EXTERNAL_HANDLE", "VK_ERROR_INVALID_EXTERNAL_HANDLE An external handle is not a valid handle of the specified type.")
	}
	return ConditionalOperator(!getExtended, "VK_ERROR_UNKNOWN", fmt.Sprintf("VK_ERROR_UNKNOWN Unrecognized result code %d.", int32(result)))
}

// VulkanResultIsSuccess reports whether result is one of the non-error codes.
func VulkanResultIsSuccess(result vk.Result) bool {
	return result >= 0
}

// resultError turns a failed result into an error. Device memory exhaustion
// maps onto the engine sentinel.
func resultError(op string, result vk.Result) error {
	if result == vk.ErrorOutOfDeviceMemory {
		return fmt.Errorf("%s: %w", op, core.ErrOutOfDeviceMemory)
	}
	return fmt.Errorf("%s failed with %s", op, VulkanResultString(result, true))
}

func ConditionalOperator(condition bool, res1, res2 string) string {
	if condition {
		return res1
	}
	return res2
}

var end = "\x00"
var endChar byte = '\x00'

func VulkanSafeString(s string) string {
	if len(s) == 0 {
		return end
	}
	if s[len(s)-1] != endChar {
		return s + end
	}
	return s
}

func VulkanSafeStrings(list []string) []string {
	out := make([]string, len(list))
	for i := range list {
		out[i] = VulkanSafeString(list[i])
	}
	return out
}

// FindFirstZeroInByteArray returns the length of the NUL-terminated string in arr.
func FindFirstZeroInByteArray(arr []byte) int {
	for i, b := range arr {
		if b == 0 {
			return i
		}
	}
	return len(arr)
}

func vertexFormat(f metadata.VertexFormat) vk.Format {
	switch f {
	case metadata.VertexFormatR32G32Sfloat:
		return vk.FormatR32g32Sfloat
	case metadata.VertexFormatR32G32B32Sfloat:
		return vk.FormatR32g32b32Sfloat
	case metadata.VertexFormatR32G32B32A32Sfloat:
		return vk.FormatR32g32b32a32Sfloat
	case metadata.VertexFormatR32Sfloat:
		return vk.FormatR32Sfloat
	case metadata.VertexFormatR32Sint:
		return vk.FormatR32Sint
	case metadata.VertexFormatR32Uint:
		return vk.FormatR32Uint
	}
	return vk.FormatUndefined
}

func inputRate(r metadata.VertexInputRate) vk.VertexInputRate {
	if r == metadata.VertexInputRateInstance {
		return vk.VertexInputRateInstance
	}
	return vk.VertexInputRateVertex
}

func cullMode(m metadata.CullFaceMode) vk.CullModeFlags {
	switch m {
	case metadata.CullFaceModeNone:
		return vk.CullModeFlags(vk.CullModeNone)
	case metadata.CullFaceModeFront:
		return vk.CullModeFlags(vk.CullModeFrontBit)
	case metadata.CullFaceModeBoth:
		return vk.CullModeFlags(vk.CullModeFrontAndBack)
	}
	return vk.CullModeFlags(vk.CullModeBackBit)
}

// polygonMode rasterizes the triangle list as filled faces, edges or vertices.
func polygonMode(m metadata.GeometryMode) vk.PolygonMode {
	switch m {
	case metadata.GeometryModeLines:
		return vk.PolygonModeLine
	case metadata.GeometryModePoints:
		return vk.PolygonModePoint
	}
	return vk.PolygonModeFill
}

func shaderStageFlags(s metadata.ShaderStage) vk.ShaderStageFlags {
	if s == metadata.ShaderStageFragment {
		return vk.ShaderStageFlags(vk.ShaderStageFragmentBit)
	}
	return vk.ShaderStageFlags(vk.ShaderStageVertexBit)
}

func presentResult(result vk.Result) (metadata.PresentResult, error) {
	switch result {
	case vk.Success:
		return metadata.PresentOK, nil
	case vk.Suboptimal:
		return metadata.PresentSuboptimal, nil
	case vk.ErrorOutOfDate:
		return metadata.PresentOutOfDate, nil
	}
	return metadata.PresentOK, resultError("swapchain operation", result)
}

func presentModeFromName(name string) vk.PresentMode {
	switch name {
	case "mailbox":
		return vk.PresentModeMailbox
	case "immediate":
		return vk.PresentModeImmediate
	}
	return vk.PresentModeFifo
}
