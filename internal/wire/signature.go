// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"github.com/study-game-engines/diligent-core/device"
	"github.com/study-game-engines/diligent-core/internal/serial"
)

// EncodeSignatureCommon encodes the backend-independent part of a
// resource signature descriptor: name, bindingIndex, and the resource
// and immutable-sampler lists. Per-backend attributes are encoded
// separately by EncodeSignatureBackend into that backend's data
// block, per spec.md §3.
func EncodeSignatureCommon(desc device.ResourceSignatureDesc) ([]byte, error) {
	ser := serial.NewWriter(256)
	if _, err := ser.CString(desc.Name); err != nil {
		return nil, err
	}
	if _, err := ser.Uint32(desc.BindingIndex); err != nil {
		return nil, err
	}
	if _, err := ser.Uint32(uint32(len(desc.Resources))); err != nil {
		return nil, err
	}
	for _, r := range desc.Resources {
		if err := EncodeResourceDesc(ser, r); err != nil {
			return nil, err
		}
	}
	if _, err := ser.Uint32(uint32(len(desc.ImmutableSamplers))); err != nil {
		return nil, err
	}
	for _, s := range desc.ImmutableSamplers {
		if err := EncodeImmutableSampler(ser, s); err != nil {
			return nil, err
		}
	}
	return ser.Bytes(), nil
}

// DecodeSignatureCommon decodes the backend-independent part of a
// resource signature descriptor. The decoded names and slices are
// copies, so they outlive the source buffer body.
func DecodeSignatureCommon(body []byte) (device.ResourceSignatureDesc, error) {
	var desc device.ResourceSignatureDesc
	ser := serial.NewReader(body)

	name, err := ser.CString("")
	if err != nil {
		return desc, err
	}
	bindingIndex, err := ser.Uint32(0)
	if err != nil {
		return desc, err
	}
	resCount, err := ser.Uint32(0)
	if err != nil {
		return desc, err
	}
	resources := make([]device.PipelineResourceDesc, resCount)
	for i := range resources {
		r, err := DecodeResourceDesc(ser)
		if err != nil {
			return desc, err
		}
		resources[i] = r
	}
	sampCount, err := ser.Uint32(0)
	if err != nil {
		return desc, err
	}
	samplers := make([]device.ImmutableSamplerDesc, sampCount)
	for i := range samplers {
		s, err := DecodeImmutableSampler(ser)
		if err != nil {
			return desc, err
		}
		samplers[i] = s
	}

	desc.Name = name
	desc.BindingIndex = bindingIndex
	desc.Resources = resources
	desc.ImmutableSamplers = samplers
	return desc, nil
}

// EncodeSignatureBackend encodes backend's per-resource attributes
// for desc into that backend's data block. Metal carries no
// per-resource attribute block (its binding routine works directly
// off Resources/ArraySize), so this returns nil for Metal backends.
func EncodeSignatureBackend(desc device.ResourceSignatureDesc, backend device.Backend) ([]byte, error) {
	ser := serial.NewWriter(128)
	switch backend {
	case device.BackendDirect3D11:
		for _, a := range desc.D3D11 {
			for _, bp := range a.BindPoints {
				if _, err := ser.Uint32(bp); err != nil {
					return nil, err
				}
			}
		}
	case device.BackendDirect3D12:
		for _, a := range desc.D3D12 {
			if _, err := ser.Uint32(a.Register); err != nil {
				return nil, err
			}
			if _, err := ser.Uint32(a.Space); err != nil {
				return nil, err
			}
		}
	case device.BackendOpenGL:
		for _, a := range desc.GL {
			if _, err := ser.Uint32(a.CacheOffset); err != nil {
				return nil, err
			}
		}
	case device.BackendVulkan:
		for _, a := range desc.Vulkan {
			if _, err := ser.Uint32(a.DescriptorSet); err != nil {
				return nil, err
			}
			if _, err := ser.Uint32(a.BindingIndex); err != nil {
				return nil, err
			}
		}
		if _, err := ser.Uint32(desc.VulkanStaticMutableSetSize); err != nil {
			return nil, err
		}
		if _, err := ser.Uint32(desc.VulkanDynamicSetSize); err != nil {
			return nil, err
		}
	default:
		return nil, nil
	}
	return ser.Bytes(), nil
}

// DecodeSignatureBackendInto decodes backend's per-resource attribute
// block into desc's matching attribute slice. desc.Resources must
// already be populated (its length drives how many attribute entries
// are read). Metal is a no-op: assignMetal never consults per-resource
// attributes.
func DecodeSignatureBackendInto(desc *device.ResourceSignatureDesc, backend device.Backend, body []byte) error {
	ser := serial.NewReader(body)
	n := len(desc.Resources)
	switch backend {
	case device.BackendDirect3D11:
		total := n + len(desc.ImmutableSamplers)
		attrs := make([]device.D3D11Attribs, total)
		for i := range attrs {
			for j := range attrs[i].BindPoints {
				v, err := ser.Uint32(0)
				if err != nil {
					return err
				}
				attrs[i].BindPoints[j] = v
			}
		}
		desc.D3D11 = attrs
	case device.BackendDirect3D12:
		attrs := make([]device.D3D12Attribs, n)
		for i := range attrs {
			reg, err := ser.Uint32(0)
			if err != nil {
				return err
			}
			sp, err := ser.Uint32(0)
			if err != nil {
				return err
			}
			attrs[i] = device.D3D12Attribs{Register: reg, Space: sp}
		}
		desc.D3D12 = attrs
	case device.BackendOpenGL:
		attrs := make([]device.GLAttribs, n)
		for i := range attrs {
			off, err := ser.Uint32(0)
			if err != nil {
				return err
			}
			attrs[i] = device.GLAttribs{CacheOffset: off}
		}
		desc.GL = attrs
	case device.BackendVulkan:
		attrs := make([]device.VulkanAttribs, n)
		for i := range attrs {
			ds, err := ser.Uint32(0)
			if err != nil {
				return err
			}
			bi, err := ser.Uint32(0)
			if err != nil {
				return err
			}
			attrs[i] = device.VulkanAttribs{DescriptorSet: ds, BindingIndex: bi}
		}
		desc.Vulkan = attrs
		staticSize, err := ser.Uint32(0)
		if err != nil {
			return err
		}
		dynSize, err := ser.Uint32(0)
		if err != nil {
			return err
		}
		desc.VulkanStaticMutableSetSize = staticSize
		desc.VulkanDynamicSetSize = dynSize
	default:
		return nil
	}
	return nil
}
