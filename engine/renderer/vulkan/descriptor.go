package vulkan

import (
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/voxelcraft/engine/core"
)

/**
 * @brief The texture descriptor set of a pipeline: a single combined image
 * sampler array binding sized to the texture count, allocated from a pool
 * holding exactly that one set.
 */
type VulkanDescriptorSet struct {
	SetLayout    vk.DescriptorSetLayout
	Pool         vk.DescriptorPool
	Set          vk.DescriptorSet
	TextureCount uint32
}

func DescriptorSetCreate(context *VulkanContext, textureCount uint32) (*VulkanDescriptorSet, error) {
	out := &VulkanDescriptorSet{TextureCount: textureCount}

	samplerBinding := vk.DescriptorSetLayoutBinding{
		Binding:            0,
		DescriptorType:     vk.DescriptorTypeCombinedImageSampler,
		DescriptorCount:    textureCount,
		StageFlags:         vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
		PImmutableSamplers: nil,
	}
	layoutInfo := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: 1,
		PBindings:    []vk.DescriptorSetLayoutBinding{samplerBinding},
	}

	err := context.locks.SafeCall(DescriptorManagement, func() error {
		if res := vk.CreateDescriptorSetLayout(context.Device.LogicalDevice, &layoutInfo, context.Allocator, &out.SetLayout); res != vk.Success {
			return resultError("vkCreateDescriptorSetLayout", res)
		}

		poolInfo := vk.DescriptorPoolCreateInfo{
			SType:         vk.StructureTypeDescriptorPoolCreateInfo,
			MaxSets:       1,
			PoolSizeCount: 1,
			PPoolSizes: []vk.DescriptorPoolSize{
				{
					Type:            vk.DescriptorTypeCombinedImageSampler,
					DescriptorCount: textureCount,
				},
			},
		}
		if res := vk.CreateDescriptorPool(context.Device.LogicalDevice, &poolInfo, context.Allocator, &out.Pool); res != vk.Success {
			return resultError("vkCreateDescriptorPool", res)
		}

		allocInfo := vk.DescriptorSetAllocateInfo{
			SType:              vk.StructureTypeDescriptorSetAllocateInfo,
			DescriptorPool:     out.Pool,
			DescriptorSetCount: 1,
			PSetLayouts:        []vk.DescriptorSetLayout{out.SetLayout},
		}
		if res := vk.AllocateDescriptorSets(context.Device.LogicalDevice, &allocInfo, &out.Set); res != vk.Success {
			return resultError("vkAllocateDescriptorSets", res)
		}
		return nil
	})
	if err != nil {
		core.LogError(err.Error())
		out.Destroy(context)
		return nil, err
	}
	return out, nil
}

// WriteTexture points array element index of the sampler binding at tex.
// The set must not be in use by a pending command buffer.
func (ds *VulkanDescriptorSet) WriteTexture(context *VulkanContext, index uint32, tex *VulkanTexture) {
	imageInfo := vk.DescriptorImageInfo{
		ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
		ImageView:   tex.Image.View,
		Sampler:     tex.Sampler,
	}
	write := vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          ds.Set,
		DstBinding:      0,
		DstArrayElement: index,
		DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
		DescriptorCount: 1,
		PImageInfo:      []vk.DescriptorImageInfo{imageInfo},
	}
	context.locks.SafeCall(DescriptorManagement, func() error {
		vk.UpdateDescriptorSets(context.Device.LogicalDevice, 1, []vk.WriteDescriptorSet{write}, 0, nil)
		return nil
	})
}

func (ds *VulkanDescriptorSet) Destroy(context *VulkanContext) {
	context.locks.SafeCall(DescriptorManagement, func() error {
		// Destroying the pool frees the set.
		if ds.Pool != vk.NullDescriptorPool {
			vk.DestroyDescriptorPool(context.Device.LogicalDevice, ds.Pool, context.Allocator)
			ds.Pool = vk.NullDescriptorPool
		}
		if ds.SetLayout != vk.NullDescriptorSetLayout {
			vk.DestroyDescriptorSetLayout(context.Device.LogicalDevice, ds.SetLayout, context.Allocator)
			ds.SetLayout = vk.NullDescriptorSetLayout
		}
		return nil
	})
}
