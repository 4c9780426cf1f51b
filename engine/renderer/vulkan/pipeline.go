package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/voxelcraft/engine/core"
	"github.com/spaghettifunk/voxelcraft/engine/renderer/metadata"
)

/**
 * @brief Holds a Vulkan pipeline, its layout and the optional texture
 * descriptor set.
 */
type VulkanPipeline struct {
	/** @brief The internal pipeline handle. */
	Handle vk.Pipeline
	/** @brief The pipeline layout. */
	PipelineLayout vk.PipelineLayout
	/** @brief Nil when the material samples no textures. */
	Descriptor *VulkanDescriptorSet

	layout *metadata.PipelineLayout
}

func (p *VulkanPipeline) Layout() *metadata.PipelineLayout { return p.layout }

type VulkanPipelineConfig struct {
	/** @brief The renderpass to associate with the pipeline. */
	Renderpass *VulkanRenderpass
	/** @brief The compiled vertex input, uniform and texture layout. */
	Layout *metadata.PipelineLayout
	/** @brief The vertex and fragment stages. */
	Stages []vk.PipelineShaderStageCreateInfo
}

// vertexInputState describes one buffer binding per attribute, vertex rate
// bindings first.
func vertexInputState(layout *metadata.PipelineLayout) ([]vk.VertexInputBindingDescription, []vk.VertexInputAttributeDescription) {
	bindings := make([]vk.VertexInputBindingDescription, len(layout.Bindings))
	attributes := make([]vk.VertexInputAttributeDescription, len(layout.Bindings))
	for i, b := range layout.Bindings {
		bindings[i] = vk.VertexInputBindingDescription{
			Binding:   b.Binding,
			Stride:    b.Stride,
			InputRate: inputRate(b.InputRate),
		}
		attributes[i] = vk.VertexInputAttributeDescription{
			Binding:  b.Binding,
			Location: b.Location,
			Format:   vertexFormat(b.Format),
			Offset:   0,
		}
	}
	return bindings, attributes
}

func pushConstantRanges(layout *metadata.PipelineLayout) []vk.PushConstantRange {
	ranges := make([]vk.PushConstantRange, len(layout.PushRanges))
	for i, r := range layout.PushRanges {
		ranges[i] = vk.PushConstantRange{
			StageFlags: shaderStageFlags(r.Stage),
			Offset:     r.Offset,
			Size:       r.Size,
		}
	}
	return ranges
}

func NewGraphicsPipeline(context *VulkanContext, config *VulkanPipelineConfig) (*VulkanPipeline, error) {
	outPipeline := &VulkanPipeline{layout: config.Layout}

	// Viewport and scissor are dynamic, only the counts matter here.
	viewportState := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		ScissorCount:  1,
	}

	// Rasterizer
	rasterizerCreateInfo := vk.PipelineRasterizationStateCreateInfo{
		SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
		DepthClampEnable:        vk.False,
		RasterizerDiscardEnable: vk.False,
		PolygonMode:             polygonMode(config.Layout.GeometryMode),
		LineWidth:               1.0,
		CullMode:                cullMode(config.Layout.CullFaceMode),
		FrontFace:               vk.FrontFaceCounterClockwise,
		DepthBiasEnable:         vk.False,
		DepthBiasConstantFactor: 0.0,
		DepthBiasClamp:          0.0,
		DepthBiasSlopeFactor:    0.0,
	}

	// Multisampling.
	multisamplingCreateInfo := vk.PipelineMultisampleStateCreateInfo{
		SType:                 vk.StructureTypePipelineMultisampleStateCreateInfo,
		SampleShadingEnable:   vk.False,
		RasterizationSamples:  vk.SampleCount1Bit,
		MinSampleShading:      1.0,
		PSampleMask:           nil,
		AlphaToCoverageEnable: vk.False,
		AlphaToOneEnable:      vk.False,
	}

	// Depth and stencil testing.
	depthStencil := vk.PipelineDepthStencilStateCreateInfo{
		SType:                 vk.StructureTypePipelineDepthStencilStateCreateInfo,
		DepthTestEnable:       vk.True,
		DepthWriteEnable:      vk.True,
		DepthCompareOp:        vk.CompareOpLessOrEqual,
		DepthBoundsTestEnable: vk.False,
		StencilTestEnable:     vk.False,
	}

	colorBlendAttachmentState := vk.PipelineColorBlendAttachmentState{
		BlendEnable:         vk.True,
		SrcColorBlendFactor: vk.BlendFactorSrcAlpha,
		DstColorBlendFactor: vk.BlendFactorOneMinusSrcAlpha,
		ColorBlendOp:        vk.BlendOpAdd,
		SrcAlphaBlendFactor: vk.BlendFactorOne,
		DstAlphaBlendFactor: vk.BlendFactorZero,
		AlphaBlendOp:        vk.BlendOpAdd,
		ColorWriteMask: vk.ColorComponentFlags(vk.ColorComponentRBit) | vk.ColorComponentFlags(vk.ColorComponentGBit) |
			vk.ColorComponentFlags(vk.ColorComponentBBit) | vk.ColorComponentFlags(vk.ColorComponentABit),
	}

	colorBlendStateCreateInfo := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		LogicOpEnable:   vk.False,
		LogicOp:         vk.LogicOpCopy,
		AttachmentCount: 1,
		PAttachments:    []vk.PipelineColorBlendAttachmentState{colorBlendAttachmentState},
	}

	// Dynamic state
	dynamicStates := []vk.DynamicState{
		vk.DynamicStateViewport,
		vk.DynamicStateScissor,
	}
	dynamicStateCreateInfo := vk.PipelineDynamicStateCreateInfo{
		SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
		DynamicStateCount: uint32(len(dynamicStates)),
		PDynamicStates:    dynamicStates,
	}

	// Vertex input
	bindings, attributes := vertexInputState(config.Layout)
	vertexInputInfo := vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   uint32(len(bindings)),
		PVertexBindingDescriptions:      bindings,
		VertexAttributeDescriptionCount: uint32(len(attributes)),
		PVertexAttributeDescriptions:    attributes,
	}

	// Input assembly
	inputAssembly := vk.PipelineInputAssemblyStateCreateInfo{
		SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology:               vk.PrimitiveTopologyTriangleList,
		PrimitiveRestartEnable: vk.False,
	}

	// Textures
	var setLayouts []vk.DescriptorSetLayout
	if config.Layout.TextureCount > 0 {
		ds, err := DescriptorSetCreate(context, config.Layout.TextureCount)
		if err != nil {
			return nil, err
		}
		outPipeline.Descriptor = ds
		setLayouts = []vk.DescriptorSetLayout{ds.SetLayout}
	}

	// Pipeline layout
	ranges := pushConstantRanges(config.Layout)
	pipelineLayoutCreateInfo := vk.PipelineLayoutCreateInfo{
		SType:                  vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount:         uint32(len(setLayouts)),
		PSetLayouts:            setLayouts,
		PushConstantRangeCount: uint32(len(ranges)),
		PPushConstantRanges:    ranges,
	}

	if err := context.locks.SafeCall(PipelineManagement, func() error {
		var pPipelineLayout vk.PipelineLayout
		result := vk.CreatePipelineLayout(context.Device.LogicalDevice, &pipelineLayoutCreateInfo, context.Allocator, &pPipelineLayout)
		if !VulkanResultIsSuccess(result) {
			return resultError("vkCreatePipelineLayout", result)
		}
		outPipeline.PipelineLayout = pPipelineLayout
		return nil
	}); err != nil {
		core.LogError(err.Error())
		outPipeline.Destroy(context)
		return nil, err
	}

	// Pipeline create
	pipelineCreateInfo := vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(config.Stages)),
		PStages:             config.Stages,
		PVertexInputState:   &vertexInputInfo,
		PInputAssemblyState: &inputAssembly,
		PViewportState:      &viewportState,
		PRasterizationState: &rasterizerCreateInfo,
		PMultisampleState:   &multisamplingCreateInfo,
		PDepthStencilState:  &depthStencil,
		PColorBlendState:    &colorBlendStateCreateInfo,
		PDynamicState:       &dynamicStateCreateInfo,
		PTessellationState:  nil,
		Layout:              outPipeline.PipelineLayout,
		RenderPass:          config.Renderpass.Handle,
		Subpass:             0,
		BasePipelineHandle:  vk.NullPipeline,
		BasePipelineIndex:   -1,
	}

	pPipelines := make([]vk.Pipeline, 1)
	if err := context.locks.SafeCall(PipelineManagement, func() error {
		result := vk.CreateGraphicsPipelines(
			context.Device.LogicalDevice,
			vk.NullPipelineCache,
			1,
			[]vk.GraphicsPipelineCreateInfo{pipelineCreateInfo},
			context.Allocator,
			pPipelines)
		if !VulkanResultIsSuccess(result) {
			return resultError("vkCreateGraphicsPipelines", result)
		}
		return nil
	}); err != nil {
		core.LogError(err.Error())
		outPipeline.Destroy(context)
		return nil, err
	}

	if pPipelines[0] == vk.NullPipeline {
		outPipeline.Destroy(context)
		return nil, fmt.Errorf("vulkan pipeline handle is nil")
	}
	outPipeline.Handle = pPipelines[0]

	core.LogDebug("Graphics pipeline created!")
	return outPipeline, nil
}

func (pipeline *VulkanPipeline) Destroy(context *VulkanContext) {
	context.locks.SafeCall(PipelineManagement, func() error {
		if pipeline.Handle != vk.NullPipeline {
			vk.DestroyPipeline(context.Device.LogicalDevice, pipeline.Handle, context.Allocator)
			pipeline.Handle = vk.NullPipeline
		}
		if pipeline.PipelineLayout != vk.NullPipelineLayout {
			vk.DestroyPipelineLayout(context.Device.LogicalDevice, pipeline.PipelineLayout, context.Allocator)
			pipeline.PipelineLayout = vk.NullPipelineLayout
		}
		return nil
	})
	if pipeline.Descriptor != nil {
		pipeline.Descriptor.Destroy(context)
		pipeline.Descriptor = nil
	}
}

// Bind binds the pipeline and, when it has one, its texture descriptor set.
func (pipeline *VulkanPipeline) Bind(commandBuffer *VulkanCommandBuffer, bindPoint vk.PipelineBindPoint) {
	vk.CmdBindPipeline(commandBuffer.Handle, bindPoint, pipeline.Handle)
	if pipeline.Descriptor != nil {
		vk.CmdBindDescriptorSets(commandBuffer.Handle, bindPoint, pipeline.PipelineLayout, 0, 1,
			[]vk.DescriptorSet{pipeline.Descriptor.Set}, 0, nil)
	}
}
