// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binding

import "github.com/study-game-engines/diligent-core/device"

// d3d11SupportedStages restricts binding assignment to the graphics
// and compute stages; ray-tracing stages have no D3D11 equivalent.
const d3d11SupportedStages = device.StageGraphicsMask | device.StageCompute

// d3d11Bindings is baseBindings[range][stageIndex], the running
// per-range-per-stage register cursor threaded across signatures.
type d3d11Bindings [numRanges][6]uint32

// assignD3D11 implements spec.md §4.5's D3D11 rule.
func assignD3D11(sigs []device.ResourceSignatureDesc, stages device.ShaderStage, numRenderTargets uint32) []device.PipelineResourceBinding {
	ordered := sortedByBindingIndex(sigs)

	var base d3d11Bindings
	// UAVs share register space with render targets.
	base[rangeUAV][device.D3D11StageIndex(device.StagePixel)] = numRenderTargets

	var out []device.PipelineResourceBinding
	for _, sig := range ordered {
		for i, res := range sig.Resources {
			rng := resourceRange(res.ResourceType)
			attrs := sig.D3D11[i]
			for _, stage := range device.D3D11Stages() {
				if stages&d3d11SupportedStages&stage == 0 || res.ShaderStages&stage == 0 {
					continue
				}
				si := device.D3D11StageIndex(stage)
				out = append(out, device.PipelineResourceBinding{
					Name:         res.Name,
					ResourceType: res.ResourceType,
					Register:     base[rng][si] + attrs.BindPoints[si],
					Space:        0,
					ArraySize:    arraySize(res),
					ShaderStages: stage,
				})
			}
		}

		resCount := len(sig.Resources)
		for i, samp := range sig.ImmutableSamplers {
			attrs := sig.D3D11[resCount+i]
			for _, stage := range device.D3D11Stages() {
				if stages&d3d11SupportedStages&stage == 0 || samp.ShaderStages&stage == 0 {
					continue
				}
				si := device.D3D11StageIndex(stage)
				out = append(out, device.PipelineResourceBinding{
					Name:         samp.SamplerOrTextureName,
					ResourceType: device.ResourceSampler,
					Register:     base[rangeSampler][si] + attrs.BindPoints[si],
					Space:        0,
					ShaderStages: stage,
				})
			}
		}

		shiftD3D11Bindings(&base, sig)
	}
	return out
}

// shiftD3D11Bindings advances base by the signature's per-range,
// per-stage slot counts, mirroring the device-side ShiftBindings call
// after each signature's bindings are consumed. The shift always
// accounts for every stage the signature declares resources in,
// independent of which stages the current request asked for, since
// the next signature's registers must not collide with this one's
// regardless of what subset of stages any one request happens to use.
func shiftD3D11Bindings(base *d3d11Bindings, sig device.ResourceSignatureDesc) {
	for _, res := range sig.Resources {
		rng := resourceRange(res.ResourceType)
		slots := res.ArraySize
		if slots == 0 {
			slots = 1
		}
		for _, stage := range device.D3D11Stages() {
			if res.ShaderStages&stage == 0 {
				continue
			}
			si := device.D3D11StageIndex(stage)
			base[rng][si] += slots
		}
	}
	for _, samp := range sig.ImmutableSamplers {
		for _, stage := range device.D3D11Stages() {
			if samp.ShaderStages&stage == 0 {
				continue
			}
			si := device.D3D11StageIndex(stage)
			base[rangeSampler][si]++
		}
	}
}
