// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binding

import "github.com/study-game-engines/diligent-core/device"

// glSupportedStages mirrors d3d11SupportedStages: graphics + compute only.
const glSupportedStages = device.StageGraphicsMask | device.StageCompute

// assignGL implements spec.md §4.5's GL/GLES rule: same structure as
// D3D11 but baseBindings[range] is stage-agnostic — one counter per
// range shared across all stages, since GL treats each active stage
// as a separate binding emission but does not partition register
// space by stage.
func assignGL(sigs []device.ResourceSignatureDesc, stages device.ShaderStage) []device.PipelineResourceBinding {
	ordered := sortedByBindingIndex(sigs)

	var base [numRanges]uint32
	var out []device.PipelineResourceBinding
	for _, sig := range ordered {
		for i, res := range sig.Resources {
			rng := resourceRange(res.ResourceType)
			attrs := sig.GL[i]
			for _, stage := range device.D3D11Stages() {
				if stages&glSupportedStages&stage == 0 || res.ShaderStages&stage == 0 {
					continue
				}
				out = append(out, device.PipelineResourceBinding{
					Name:         res.Name,
					ResourceType: res.ResourceType,
					Register:     base[rng] + attrs.CacheOffset,
					Space:        0,
					ArraySize:    arraySize(res),
					ShaderStages: stage,
				})
			}
		}
		shiftGLBindings(&base, sig)
	}
	return out
}

// shiftGLBindings advances the stage-agnostic per-range counters by
// the signature's resource counts, one slot per declared array
// element (a resource whose ArraySize is 0 counts as a single slot;
// FlagRuntimeArray is not consulted).
func shiftGLBindings(base *[numRanges]uint32, sig device.ResourceSignatureDesc) {
	for _, res := range sig.Resources {
		rng := resourceRange(res.ResourceType)
		slots := res.ArraySize
		if slots == 0 {
			slots = 1
		}
		base[rng] += slots
	}
}
