// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binding

import "github.com/study-game-engines/diligent-core/device"

// assignVulkan implements spec.md §4.5's Vulkan rule: register is the
// resource's own bindingIndex, space is a running descriptor-set
// layout count plus the resource's own descriptor set index. The
// running count advances, per signature, by the number of the two
// possible descriptor-set layouts (static/mutable, dynamic) that
// signature actually contributes — a set contributes iff its reported
// size is not the VulkanDescriptorSetSizeInvalid sentinel.
func assignVulkan(sigs []device.ResourceSignatureDesc, stages device.ShaderStage) []device.PipelineResourceBinding {
	ordered := sortedByBindingIndex(sigs)

	var descSetLayoutCount uint32
	var out []device.PipelineResourceBinding
	for _, sig := range ordered {
		for i, res := range sig.Resources {
			if res.ShaderStages&stages == 0 {
				continue
			}
			attrs := sig.Vulkan[i]
			out = append(out, device.PipelineResourceBinding{
				Name:         res.Name,
				ResourceType: res.ResourceType,
				Register:     attrs.BindingIndex,
				Space:        descSetLayoutCount + attrs.DescriptorSet,
				ArraySize:    arraySize(res),
				ShaderStages: res.ShaderStages,
			})
		}

		if sig.VulkanStaticMutableSetSize != device.VulkanDescriptorSetSizeInvalid {
			descSetLayoutCount++
		}
		if sig.VulkanDynamicSetSize != device.VulkanDescriptorSetSizeInvalid {
			descSetLayoutCount++
		}
	}
	return out
}
