// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package serialize_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/study-game-engines/diligent-core/archive"
	"github.com/study-game-engines/diligent-core/device"
	"github.com/study-game-engines/diligent-core/serialize"
	"github.com/study-game-engines/diligent-core/unpack"
)

type memSource struct{ data []byte }

func (m *memSource) Size() int64 { return int64(len(m.data)) }

func (m *memSource) Read(offset, size int64, dest []byte) error {
	if offset < 0 || size < 0 || offset+size > int64(len(m.data)) {
		return fmt.Errorf("out of range read")
	}
	copy(dest, m.data[offset:offset+size])
	return nil
}

type fakeCompiler struct{}

func (fakeCompiler) CompileShader(ctx context.Context, ci device.ShaderCreateInfo, backend device.Backend) ([]byte, error) {
	return []byte("compiled:" + ci.Name), nil
}

type fakeDevice struct{}

func (fakeDevice) CreateShader(ctx context.Context, ci device.ShaderCreateInfo) (device.Shader, error) {
	return ci.Name, nil
}
func (fakeDevice) CreateRenderPass(ctx context.Context, ci device.RenderPassCreateInfo) (device.RenderPass, error) {
	return ci.Name, nil
}
func (fakeDevice) CreatePipelineResourceSignature(ctx context.Context, desc device.ResourceSignatureDesc, backend device.Backend) (device.ResourceSignature, error) {
	return desc.Name, nil
}
func (fakeDevice) CreateGraphicsPipelineState(ctx context.Context, ci device.PipelineStateCreateInfo) (device.PipelineState, error) {
	return ci.Name, nil
}
func (fakeDevice) CreateComputePipelineState(ctx context.Context, ci device.PipelineStateCreateInfo) (device.PipelineState, error) {
	return ci.Name, nil
}
func (fakeDevice) CreateRayTracingPipelineState(ctx context.Context, ci device.PipelineStateCreateInfo) (device.PipelineState, error) {
	return ci.Name, nil
}
func (fakeDevice) CreateTilePipelineState(ctx context.Context, ci device.PipelineStateCreateInfo) (device.PipelineState, error) {
	return ci.Name, nil
}

// TestRoundTripThroughWriteAndRead builds an archive via serialize.Device
// and reconstructs it via unpack.Archive, exercising both write and
// read halves against the same backend.
func TestRoundTripThroughWriteAndRead(t *testing.T) {
	backend := device.BackendVulkan
	d := serialize.New(fakeCompiler{}, serialize.AllBackends)
	d.SetDebugInfo("v1", "abc123")
	d.SetDebugExtension(map[string]any{"toolchain": "test"})

	sig := device.ResourceSignatureDesc{
		Name: "Sig",
		Resources: []device.PipelineResourceDesc{
			{Name: "cb0", ResourceType: device.ResourceConstantBuffer, ShaderStages: device.StageVertex, ArraySize: 1},
		},
		Vulkan:                     []device.VulkanAttribs{{DescriptorSet: 0, BindingIndex: 0}},
		VulkanStaticMutableSetSize: 1,
		VulkanDynamicSetSize:       device.VulkanDescriptorSetSizeInvalid,
	}
	if err := d.CreatePipelineResourceSignature(sig, serialize.AllBackends); err != nil {
		t.Fatalf("CreatePipelineResourceSignature: %v", err)
	}

	shaderIdx, err := d.CreateShader(context.Background(), device.ShaderCreateInfo{Name: "VS", Stage: device.StageVertex, EntryPoint: "main"}, backend, serialize.AllBackends)
	if err != nil {
		t.Fatalf("CreateShader: %v", err)
	}

	err = d.CreatePipelineState(serialize.PipelineStateCreateInfo{
		Name:           "P1",
		Type:           device.PipelineGraphics,
		SignatureNames: []string{"Sig"},
		ShaderIndices:  []uint32{shaderIdx},
	}, backend, serialize.AllBackends)
	if err != nil {
		t.Fatalf("CreatePipelineState: %v", err)
	}

	data := d.Build()

	a, err := archive.Open(&memSource{data: data}, backend, nil)
	if err != nil {
		t.Fatalf("archive.Open: %v", err)
	}
	if a.DebugAPIVersion() != "v1" {
		t.Fatalf("debug api version = %q", a.DebugAPIVersion())
	}
	if a.DebugExtension()["toolchain"] != "test" {
		t.Fatalf("debug extension = %v", a.DebugExtension())
	}

	u := unpack.New(a, fakeDevice{}, nil)
	pso, err := u.UnpackGraphicsPipelineState(context.Background(), "P1", nil)
	if err != nil {
		t.Fatalf("UnpackGraphicsPipelineState: %v", err)
	}
	if pso.(string) != "P1" {
		t.Fatalf("pso = %v", pso)
	}
}
