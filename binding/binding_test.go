// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binding

import (
	"reflect"
	"testing"

	"github.com/study-game-engines/diligent-core/device"
)

func sig0() device.ResourceSignatureDesc {
	return device.ResourceSignatureDesc{
		Name:         "Sig0",
		BindingIndex: 0,
		Resources: []device.PipelineResourceDesc{
			{Name: "cb0", ResourceType: device.ResourceConstantBuffer, ShaderStages: device.StageVertex | device.StagePixel, ArraySize: 1},
			{Name: "tex0", ResourceType: device.ResourceTextureSRV, ShaderStages: device.StagePixel, ArraySize: 1},
		},
		D3D11: []device.D3D11Attribs{
			{BindPoints: [6]uint32{0, 0, 0, 0, 0, 0}},
			{BindPoints: [6]uint32{0, 0, 0, 0, 0, 0}},
		},
		D3D12: []device.D3D12Attribs{
			{Register: 0, Space: 0},
			{Register: 0, Space: 0},
		},
		GL: []device.GLAttribs{
			{CacheOffset: 0},
			{CacheOffset: 0},
		},
		Vulkan: []device.VulkanAttribs{
			{DescriptorSet: 0, BindingIndex: 0},
			{DescriptorSet: 0, BindingIndex: 1},
		},
		VulkanStaticMutableSetSize: 2,
		VulkanDynamicSetSize:       device.VulkanDescriptorSetSizeInvalid,
	}
}

func sig1() device.ResourceSignatureDesc {
	return device.ResourceSignatureDesc{
		Name:         "Sig1",
		BindingIndex: 1,
		Resources: []device.PipelineResourceDesc{
			{Name: "uav0", ResourceType: device.ResourceTextureUAV, ShaderStages: device.StagePixel, ArraySize: 1},
		},
		D3D11: []device.D3D11Attribs{
			{BindPoints: [6]uint32{0, 0, 0, 0, 0, 0}},
		},
		D3D12: []device.D3D12Attribs{
			{Register: 0, Space: 0},
		},
		GL: []device.GLAttribs{
			{CacheOffset: 0},
		},
		Vulkan: []device.VulkanAttribs{
			{DescriptorSet: 0, BindingIndex: 0},
		},
		VulkanStaticMutableSetSize: 1,
		VulkanDynamicSetSize:       device.VulkanDescriptorSetSizeInvalid,
	}
}

func TestAssignVulkanDescriptorSetOffsets(t *testing.T) {
	bindings, err := Assign(Request{
		Signatures: []device.ResourceSignatureDesc{sig0(), sig1()},
		Backend:    device.BackendVulkan,
	})
	if err != nil {
		t.Fatal(err)
	}
	// Sig0 contributes one descriptor set (static/mutable only), so
	// Sig1's resources land at space=1.
	var gotSpace uint32
	for _, b := range bindings {
		if b.Name == "uav0" {
			gotSpace = b.Space
		}
	}
	if gotSpace != 1 {
		t.Fatalf("uav0 space = %d, want 1", gotSpace)
	}
}

func TestAssignD3D11UAVPixelOffset(t *testing.T) {
	solo := sig1()
	solo.BindingIndex = 0
	bindings, err := Assign(Request{
		Signatures:       []device.ResourceSignatureDesc{solo},
		Backend:          device.BackendDirect3D11,
		NumRenderTargets: 3,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(bindings) != 1 || bindings[0].Register != 3 {
		t.Fatalf("bindings = %+v, want register 3 (numRenderTargets offset)", bindings)
	}
}

func TestAssignD3D12Spaces(t *testing.T) {
	bindings, err := Assign(Request{
		Signatures: []device.ResourceSignatureDesc{sig0(), sig1()},
		Backend:    device.BackendDirect3D12,
	})
	if err != nil {
		t.Fatal(err)
	}
	spaces := map[string]uint32{}
	for _, b := range bindings {
		spaces[b.Name] = b.Space
	}
	if spaces["cb0"] != 0 || spaces["uav0"] != 1 {
		t.Fatalf("spaces = %+v, want cb0:0 uav0:1", spaces)
	}
}

func TestAssignDeterministic(t *testing.T) {
	req := Request{Signatures: []device.ResourceSignatureDesc{sig0(), sig1()}, Backend: device.BackendVulkan}
	a, err := Assign(req)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Assign(req)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("Assign is not deterministic: %+v vs %+v", a, b)
	}
}

func TestAssignUndefinedBackendEmpty(t *testing.T) {
	bindings, err := Assign(Request{Signatures: []device.ResourceSignatureDesc{sig0()}, Backend: device.BackendUndefined})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bindings) != 0 {
		t.Fatalf("bindings = %+v, want empty", bindings)
	}
}

func TestAssignInvalidLayoutGap(t *testing.T) {
	bad := sig1()
	bad.BindingIndex = 5
	_, err := Assign(Request{Signatures: []device.ResourceSignatureDesc{bad}, Backend: device.BackendVulkan})
	if device.KindOf(err) != device.ErrorInvalidSignatureLayout {
		t.Fatalf("kind = %v, want ErrorInvalidSignatureLayout", device.KindOf(err))
	}
}
