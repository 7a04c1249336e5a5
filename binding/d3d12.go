// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binding

import "github.com/study-game-engines/diligent-core/device"

// assignD3D12 implements spec.md §4.5's D3D12 rule: each signature
// occupies its own contiguous register-space range, computed here as
// a running per-signature space base (one space per signature),
// mirroring the root-signature layout the real device builds.
func assignD3D12(sigs []device.ResourceSignatureDesc, stages device.ShaderStage) []device.PipelineResourceBinding {
	ordered := sortedByBindingIndex(sigs)

	var out []device.PipelineResourceBinding
	for signIdx, sig := range ordered {
		baseRegisterSpace := uint32(signIdx)
		for i, res := range sig.Resources {
			if res.ShaderStages&stages == 0 {
				continue
			}
			attrs := sig.D3D12[i]
			out = append(out, device.PipelineResourceBinding{
				Name:         res.Name,
				ResourceType: res.ResourceType,
				Register:     attrs.Register,
				Space:        baseRegisterSpace + attrs.Space,
				ArraySize:    arraySize(res),
				ShaderStages: res.ShaderStages,
			})
		}
	}
	return out
}
