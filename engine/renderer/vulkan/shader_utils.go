package vulkan

import (
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/voxelcraft/engine/core"
)

/**
 * @brief Represents a single shader stage.
 */
type VulkanShaderStage struct {
	/** @brief The internal shader module Handle. */
	Handle vk.ShaderModule
	/** @brief The pipeline shader stage creation info. */
	ShaderStageCreateInfo vk.PipelineShaderStageCreateInfo
}

// NewShaderStage creates the module for a SPIR-V program with entry point main.
func NewShaderStage(context *VulkanContext, code []uint32, stage vk.ShaderStageFlagBits) (*VulkanShaderStage, error) {
	createInfo := vk.ShaderModuleCreateInfo{
		SType: vk.StructureTypeShaderModuleCreateInfo,
		// In bytes.
		CodeSize: uint(len(code) * 4),
		PCode:    code,
	}

	out := &VulkanShaderStage{}
	if res := vk.CreateShaderModule(context.Device.LogicalDevice, &createInfo, context.Allocator, &out.Handle); res != vk.Success {
		err := resultError("vkCreateShaderModule", res)
		core.LogError(err.Error())
		return nil, err
	}

	out.ShaderStageCreateInfo = vk.PipelineShaderStageCreateInfo{
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  stage,
		Module: out.Handle,
		PName:  VulkanSafeString("main"),
	}
	return out, nil
}

func (s *VulkanShaderStage) Destroy(context *VulkanContext) {
	if s.Handle != vk.NullShaderModule {
		vk.DestroyShaderModule(context.Device.LogicalDevice, s.Handle, context.Allocator)
		s.Handle = vk.NullShaderModule
	}
}
