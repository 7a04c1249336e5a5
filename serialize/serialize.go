// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package serialize implements the write-side façade of spec.md §4.8:
// a device that accepts shader, render pass, and resource-signature
// create info restricted to a subset of backends, wires their bytes
// into an [archive.Builder], and exposes [Device.GetPipelineResourceBindings]
// so offline callers can preview a signature set's binding layout
// before an archive is ever opened for reading.
package serialize

import (
	"context"
	"fmt"

	"github.com/study-game-engines/diligent-core/archive"
	"github.com/study-game-engines/diligent-core/binding"
	"github.com/study-game-engines/diligent-core/device"
	"github.com/study-game-engines/diligent-core/internal/wire"
)

// DeviceBits is a bitmask over device.Backend values, restricting
// which backends an object's compiled data is written for.
type DeviceBits uint32

func bit(b device.Backend) DeviceBits {
	idx, ok := b.BlockIndex()
	if !ok {
		return 0
	}
	return 1 << uint(idx)
}

// Has reports whether backend is set in the mask.
func (d DeviceBits) Has(backend device.Backend) bool {
	return d&bit(backend) != 0
}

// AllBackends is the mask covering every backend slot.
const AllBackends DeviceBits = (1 << device.NumBackends) - 1

// BackendCompiler produces one backend's compiled bytecode/attribute
// data for a shader, render pass, or signature. A concrete
// implementation wraps whatever offline compiler toolchain the caller
// has for that backend; this package never compiles anything itself
// (spec.md §1 Non-goals: "Actual shader compilation").
type BackendCompiler interface {
	// CompileShader returns backend-specific bytecode for ci, or an
	// error if this compiler cannot produce it.
	CompileShader(ctx context.Context, ci device.ShaderCreateInfo, backend device.Backend) ([]byte, error)
}

// Device is the write-side façade. It is not safe for concurrent use;
// one goroutine assembles one archive at a time (mirroring
// [archive.Builder]'s contract, which it wraps directly).
type Device struct {
	b             *archive.Builder
	compiler      BackendCompiler
	validBackends DeviceBits
}

// New returns a Device that will compile through compiler and accept
// only the backends set in validBackends.
func New(compiler BackendCompiler, validBackends DeviceBits) *Device {
	return &Device{b: archive.NewBuilder(), compiler: compiler, validBackends: validBackends}
}

// GetValidDeviceBits returns the mask of backends this Device was
// constructed to compile for.
func (d *Device) GetValidDeviceBits() DeviceBits { return d.validBackends }

// SetDebugInfo forwards to the underlying builder.
func (d *Device) SetDebugInfo(apiVersion, commitHash string) {
	d.b.SetDebugInfo(apiVersion, commitHash)
}

// SetDebugExtension forwards to the underlying builder.
func (d *Device) SetDebugExtension(ext map[string]any) {
	d.b.SetDebugExtension(ext)
}

// CreateShader compiles ci for backend, which must be set in both
// deviceBits and d.validBackends, appends the shader-table entry, and
// returns its index.
// Since the on-disk shader table carries one blob per shader (not one
// per backend — spec.md §3 "Shader table"), the caller is expected to
// register the same shader once per backend variant it needs when a
// backend's bytecode differs; deviceBits here only gates which
// backends this call is permitted to compile for at all.
func (d *Device) CreateShader(ctx context.Context, ci device.ShaderCreateInfo, backend device.Backend, deviceBits DeviceBits) (uint32, error) {
	if !d.validBackends.Has(backend) || !deviceBits.Has(backend) {
		return 0, fmt.Errorf("serialize.CreateShader: backend %s not enabled", backend)
	}
	byteCode, err := d.compiler.CompileShader(ctx, ci, backend)
	if err != nil {
		return 0, fmt.Errorf("serialize.CreateShader: %w", err)
	}
	compiled := ci
	compiled.ByteCode = byteCode
	raw, err := wire.EncodeShader(compiled)
	if err != nil {
		return 0, fmt.Errorf("serialize.CreateShader: %w", err)
	}
	return d.b.AddShader(raw), nil
}

// CreateRenderPass registers a render pass under name; render passes
// carry no per-backend data (spec.md §4.6's unpack skeleton never
// consults one for them), so deviceBits only gates whether the call is
// permitted at all.
func (d *Device) CreateRenderPass(ci device.RenderPassCreateInfo, deviceBits DeviceBits) error {
	if deviceBits&d.validBackends == 0 {
		return fmt.Errorf("serialize.CreateRenderPass: no enabled backend in mask")
	}
	tail, err := wire.EncodeRenderPass(ci)
	if err != nil {
		return fmt.Errorf("serialize.CreateRenderPass: %w", err)
	}
	var hdr archive.CommonHeader
	hdr.Type = archive.ChunkRenderPass
	return d.b.AddNamed(archive.DirRenderPasses, ci.Name, commonBytes(hdr, tail))
}

// CreatePipelineResourceSignature registers desc, computing and
// embedding per-backend attribute blocks for every backend set in
// deviceBits (restricted to d.validBackends).
func (d *Device) CreatePipelineResourceSignature(desc device.ResourceSignatureDesc, deviceBits DeviceBits) error {
	common, err := wire.EncodeSignatureCommon(desc)
	if err != nil {
		return fmt.Errorf("serialize.CreatePipelineResourceSignature: %w", err)
	}
	var hdr archive.CommonHeader
	hdr.Type = archive.ChunkResourceSignature

	for _, backend := range []device.Backend{
		device.BackendOpenGL, device.BackendDirect3D11, device.BackendDirect3D12,
		device.BackendVulkan, device.BackendMetaliOS, device.BackendMetalMacOS,
	} {
		if !d.validBackends.Has(backend) || !deviceBits.Has(backend) {
			continue
		}
		backendBytes, err := wire.EncodeSignatureBackend(desc, backend)
		if err != nil {
			return fmt.Errorf("serialize.CreatePipelineResourceSignature: %w", err)
		}
		if len(backendBytes) == 0 {
			continue
		}
		off := d.b.AddBackendBlock(backend, backendBytes)
		hdr.SetBackend(backend, off, uint32(len(backendBytes)))
	}

	return d.b.AddNamed(archive.DirSignatures, desc.Name, commonBytes(hdr, common))
}

// GetPipelineResourceBindings reuses the read-side binding-assignment
// algorithm (§4.5) so offline callers can preview a signature set's
// layout without ever opening an archive for reading.
func (d *Device) GetPipelineResourceBindings(req binding.Request) ([]device.PipelineResourceBinding, error) {
	return binding.Assign(req)
}

// Build assembles and returns the final archive bytes.
func (d *Device) Build() []byte { return d.b.Build() }
