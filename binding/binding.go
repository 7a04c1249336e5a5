// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package binding implements the per-backend resource-binding
// assignment algorithm of spec.md §4.5: given an ordered set of
// resource signatures, it computes the flat list of concrete
// register/space/binding triples a pipeline layout needs for one
// backend.
package binding

import (
	"fmt"
	"sort"

	"github.com/study-game-engines/diligent-core/device"
)

// Request is the input to Assign: the caller's signature set, the
// target backend, and the stage/render-target context the D3D11 rule
// needs.
type Request struct {
	Signatures       []device.ResourceSignatureDesc
	Backend          device.Backend
	ShaderStages     device.ShaderStage // 0 means "all stages" (unknown/default)
	NumRenderTargets uint32             // D3D11 only: UAVs share register space with RTVs
}

// d3d11Range is the D3D11/GL resource-range bucket a resource type
// maps to. Unlike the stage index, ranges are backend-internal and
// never leave this package.
type d3d11Range int

const (
	rangeCBV d3d11Range = iota
	rangeSRV
	rangeSampler
	rangeUAV

	numRanges
)

func resourceRange(t device.ResourceType) d3d11Range {
	switch t {
	case device.ResourceConstantBuffer:
		return rangeCBV
	case device.ResourceTextureSRV, device.ResourceBufferSRV, device.ResourceInputAttachment, device.ResourceAccelStruct:
		return rangeSRV
	case device.ResourceSampler:
		return rangeSampler
	case device.ResourceTextureUAV, device.ResourceBufferUAV:
		return rangeUAV
	default:
		return rangeSRV
	}
}

// Assign computes the flat binding list for req. Signatures may be
// given in any order; they are processed by ascending BindingIndex.
// Their BindingIndex values must be unique and fill
// [0, len(Signatures)) with no gaps; a violation fails
// InvalidSignatureLayout.
// An unknown or undefined backend returns an empty list, not an
// error (spec.md §4.5 "Error conditions").
func Assign(req Request) ([]device.PipelineResourceBinding, error) {
	if err := validateLayout(req.Signatures); err != nil {
		return nil, err
	}

	stages := req.ShaderStages
	if stages == 0 {
		stages = ^device.ShaderStage(0)
	}

	switch req.Backend {
	case device.BackendDirect3D11:
		return assignD3D11(req.Signatures, stages, req.NumRenderTargets), nil
	case device.BackendDirect3D12:
		return assignD3D12(req.Signatures, stages), nil
	case device.BackendOpenGL:
		return assignGL(req.Signatures, stages), nil
	case device.BackendVulkan:
		return assignVulkan(req.Signatures, stages), nil
	case device.BackendMetaliOS, device.BackendMetalMacOS:
		return assignMetal(req.Signatures, stages, metalMaxArgumentBuffers(req.Backend)), nil
	default:
		return nil, nil
	}
}

// validateLayout checks that the signatures' BindingIndex values are
// unique and densely fill [0, N). It does not check their order.
func validateLayout(sigs []device.ResourceSignatureDesc) error {
	seen := make([]bool, len(sigs))
	for _, s := range sigs {
		if int(s.BindingIndex) >= len(sigs) {
			return device.NewError(device.ErrorInvalidSignatureLayout, "binding.Assign",
				fmt.Errorf("bindingIndex %d out of range [0,%d)", s.BindingIndex, len(sigs)))
		}
		if seen[s.BindingIndex] {
			return device.NewError(device.ErrorInvalidSignatureLayout, "binding.Assign",
				fmt.Errorf("duplicate bindingIndex %d", s.BindingIndex))
		}
		seen[s.BindingIndex] = true
	}
	for i, ok := range seen {
		if !ok {
			return device.NewError(device.ErrorInvalidSignatureLayout, "binding.Assign",
				fmt.Errorf("bindingIndex %d missing, layout has a gap", i))
		}
	}
	return nil
}

// sortedByBindingIndex returns sigs ordered ascending by BindingIndex.
// The input is expected to already be validated dense, so this is
// just a stable sort for callers that pass signatures out of order.
func sortedByBindingIndex(sigs []device.ResourceSignatureDesc) []device.ResourceSignatureDesc {
	out := make([]device.ResourceSignatureDesc, len(sigs))
	copy(out, sigs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].BindingIndex < out[j].BindingIndex })
	return out
}

func arraySize(d device.PipelineResourceDesc) uint32 {
	if d.Flags&device.FlagRuntimeArray != 0 {
		return device.RuntimeArraySize
	}
	return d.ArraySize
}
