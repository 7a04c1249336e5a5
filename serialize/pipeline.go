// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package serialize

import (
	"fmt"

	"github.com/study-game-engines/diligent-core/archive"
	"github.com/study-game-engines/diligent-core/device"
	"github.com/study-game-engines/diligent-core/internal/serial"
	"github.com/study-game-engines/diligent-core/internal/wire"
)

// PipelineStateCreateInfo is the write-side counterpart of
// device.PipelineStateCreateInfo: it names its shaders and shader
// groups by shader-table index (as returned by Device.CreateShader)
// rather than by resolved device.Shader handles, since those don't
// exist yet at archive-build time.
type PipelineStateCreateInfo struct {
	Name           string
	Type           device.PipelineType
	RenderPassName string
	SignatureNames []string
	LayoutRaw      []byte
	ShaderIndices  []uint32
	ShaderGroups   []device.ShaderGroup // Index fields only; Resolved is ignored
}

var pipelineChunkTypes = map[device.PipelineType]archive.ChunkType{
	device.PipelineGraphics:   archive.ChunkGraphicsPipelineStates,
	device.PipelineCompute:    archive.ChunkComputePipelineStates,
	device.PipelineRayTracing: archive.ChunkRayTracingPipelineStates,
	device.PipelineTile:       archive.ChunkTilePipelineStates,
}

var pipelineDirKinds = map[device.PipelineType]archive.DirKind{
	device.PipelineGraphics:   archive.DirGraphicsPSO,
	device.PipelineCompute:    archive.DirComputePSO,
	device.PipelineRayTracing: archive.DirRayTracingPSO,
	device.PipelineTile:       archive.DirTilePSO,
}

// CreatePipelineState registers a pipeline state entry, embedding its
// shader-index list (and, for ray tracing, its shader-group
// descriptors) in backend's data block. deviceBits gates whether the
// call is permitted for backend at all, matching the other Create*
// methods' convention.
func (d *Device) CreatePipelineState(ci PipelineStateCreateInfo, backend device.Backend, deviceBits DeviceBits) error {
	if !d.validBackends.Has(backend) || !deviceBits.Has(backend) {
		return fmt.Errorf("serialize.CreatePipelineState: backend %s not enabled", backend)
	}
	chunkType, ok := pipelineChunkTypes[ci.Type]
	if !ok {
		return fmt.Errorf("serialize.CreatePipelineState: unknown pipeline type %d", ci.Type)
	}

	pc := wire.PipelineCommon{
		Name:           ci.Name,
		Type:           ci.Type,
		RenderPassName: ci.RenderPassName,
		SignatureNames: ci.SignatureNames,
		LayoutRaw:      ci.LayoutRaw,
	}
	tail, err := wire.EncodePipelineCommon(pc)
	if err != nil {
		return fmt.Errorf("serialize.CreatePipelineState: %w", err)
	}

	idxBlock, err := wire.EncodeShaderIndices(ci.ShaderIndices)
	if err != nil {
		return fmt.Errorf("serialize.CreatePipelineState: %w", err)
	}
	block := idxBlock
	if ci.Type == device.PipelineRayTracing {
		groupBlock, err := wire.EncodeShaderGroups(ci.ShaderGroups)
		if err != nil {
			return fmt.Errorf("serialize.CreatePipelineState: %w", err)
		}
		block = append(block, groupBlock...)
	}

	var hdr archive.CommonHeader
	hdr.Type = chunkType
	off := d.b.AddBackendBlock(backend, block)
	hdr.SetBackend(backend, off, uint32(len(block)))

	return d.b.AddNamed(pipelineDirKinds[ci.Type], ci.Name, commonBytes(hdr, tail))
}

// commonBytes serializes a CommonHeader followed by a create-info tail
// — the shape every named entry's common block takes on disk.
func commonBytes(hdr archive.CommonHeader, tail []byte) []byte {
	ser := serial.NewWriter(64)
	archive.WriteCommonHeader(ser, hdr)
	ser.RawBytes(tail, len(tail))
	return ser.Bytes()
}
