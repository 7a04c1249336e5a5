// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binding

import "github.com/study-game-engines/diligent-core/device"

// metalMaxArgumentBuffers returns the platform's maximum argument
// buffer count, the single parameter the Metal routine needs (spec.md
// §4.5 "Delegated to a separate routine parameterised by the
// platform's maximum argument-buffer count"). iOS and macOS differ in
// practice; both get a conservative value here since this module has
// no access to live hardware capability queries.
func metalMaxArgumentBuffers(backend device.Backend) uint32 {
	switch backend {
	case device.BackendMetaliOS:
		return 31
	case device.BackendMetalMacOS:
		return 31
	default:
		return 0
	}
}

// assignMetal assigns each signature's resources into Metal argument
// buffers: one argument buffer per signature, up to maxArgumentBuffers
// signatures; a signature beyond that limit falls back to the last
// available buffer index, matching the device's own clamping
// behavior when a pipeline exceeds the platform's buffer budget.
// Register is the resource's position within its signature's
// argument buffer; Space carries the argument-buffer index.
func assignMetal(sigs []device.ResourceSignatureDesc, stages device.ShaderStage, maxArgumentBuffers uint32) []device.PipelineResourceBinding {
	ordered := sortedByBindingIndex(sigs)

	var out []device.PipelineResourceBinding
	for signIdx, sig := range ordered {
		bufferIndex := uint32(signIdx)
		if maxArgumentBuffers > 0 && bufferIndex >= maxArgumentBuffers {
			bufferIndex = maxArgumentBuffers - 1
		}
		for i, res := range sig.Resources {
			if res.ShaderStages&stages == 0 {
				continue
			}
			out = append(out, device.PipelineResourceBinding{
				Name:         res.Name,
				ResourceType: res.ResourceType,
				Register:     uint32(i),
				Space:        bufferIndex,
				ArraySize:    arraySize(res),
				ShaderStages: res.ShaderStages,
			})
		}
	}
	return out
}
