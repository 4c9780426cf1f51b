package vulkan

import (
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/voxelcraft/engine/core"
)

// TextureFormat is the format of every sampled texture: 8 bits per channel
// RGBA in sRGB.
const TextureFormat = vk.FormatR8g8b8a8Srgb

type VulkanTexture struct {
	Image   *VulkanImage
	Sampler vk.Sampler
}

func (vt *VulkanTexture) Width() uint32  { return vt.Image.Width }
func (vt *VulkanTexture) Height() uint32 { return vt.Image.Height }

func createSampler(context *VulkanContext) (vk.Sampler, error) {
	samplerInfo := vk.SamplerCreateInfo{
		SType:                   vk.StructureTypeSamplerCreateInfo,
		MagFilter:               vk.FilterNearest,
		MinFilter:               vk.FilterLinear,
		AddressModeU:            vk.SamplerAddressModeRepeat,
		AddressModeV:            vk.SamplerAddressModeRepeat,
		AddressModeW:            vk.SamplerAddressModeRepeat,
		AnisotropyEnable:        vk.False,
		MaxAnisotropy:           1.0,
		BorderColor:             vk.BorderColorIntOpaqueBlack,
		UnnormalizedCoordinates: vk.False,
		CompareEnable:           vk.False,
		CompareOp:               vk.CompareOpAlways,
		MipmapMode:              vk.SamplerMipmapModeLinear,
		MipLodBias:              0.0,
		MinLod:                  0.0,
		MaxLod:                  0.0,
	}

	var sampler vk.Sampler
	if res := vk.CreateSampler(context.Device.LogicalDevice, &samplerInfo, context.Allocator, &sampler); res != vk.Success {
		err := resultError("vkCreateSampler", res)
		core.LogError(err.Error())
		return vk.NullSampler, err
	}
	return sampler, nil
}

func (vt *VulkanTexture) Destroy(context *VulkanContext) {
	if vt.Sampler != vk.NullSampler {
		vk.DestroySampler(context.Device.LogicalDevice, vt.Sampler, context.Allocator)
		vt.Sampler = vk.NullSampler
	}
	if vt.Image != nil {
		vt.Image.ImageDestroy(context)
	}
}
