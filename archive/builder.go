// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"github.com/study-game-engines/diligent-core/device"
	"github.com/study-game-engines/diligent-core/internal/codec"
	"github.com/study-game-engines/diligent-core/internal/serial"
)

// namedItem is one pending entry of a named directory, awaiting final
// layout in Build.
type namedItem struct {
	name   string
	offset uint32 // relative to the start of the common blob region
	size   uint32
}

// Builder assembles archive bytes from the same primitives the reader
// consumes: a chunk table, named directories, a shader table, and
// per-backend data blocks. It is the write-side counterpart of
// [Open], used by package serialize to produce an archive's bytes.
//
// Builder is not safe for concurrent use; one goroutine assembles one
// archive at a time.
type Builder struct {
	haveDebugInfo   bool
	debugAPIVersion string
	debugCommitHash string
	debugExtension  map[string]any

	named [numDirKinds][]namedItem
	shaderEntries []Location

	commonBlob []byte
	backendBlob [device.NumBackends][]byte
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// SetDebugInfo records the API version tag and source-tree commit
// hash written into the ArchiveDebugInfo chunk.
func (b *Builder) SetDebugInfo(apiVersion, commitHash string) {
	b.haveDebugInfo = true
	b.debugAPIVersion = apiVersion
	b.debugCommitHash = commitHash
}

// SetDebugExtension attaches an optional extension map, CBOR-encoded
// (Core Deterministic Encoding) and appended after the two required
// debug strings. When no extension is set (or it is empty), no
// trailing bytes are written and readers leave DebugExtension nil.
func (b *Builder) SetDebugExtension(ext map[string]any) {
	b.debugExtension = ext
}

// AddNamed registers one named entry's already-serialized common
// bytes (a CommonHeader followed by its create-info tail) under kind.
// Returns an error wrapping device.ErrorDuplicateName if name was
// already added under this kind.
func (b *Builder) AddNamed(kind DirKind, name string, commonBytes []byte) error {
	for _, it := range b.named[kind] {
		if it.name == name {
			return device.NewError(device.ErrorDuplicateName, "Builder.AddNamed",
				duplicateNameError(name))
		}
	}
	offset := uint32(len(b.commonBlob))
	b.commonBlob = append(b.commonBlob, commonBytes...)
	b.named[kind] = append(b.named[kind], namedItem{name: name, offset: offset, size: uint32(len(commonBytes))})
	return nil
}

// AddShader appends one shader's raw bytecode to the archive and
// returns its shader table index.
func (b *Builder) AddShader(data []byte) uint32 {
	offset := uint32(len(b.commonBlob))
	b.commonBlob = append(b.commonBlob, data...)
	idx := uint32(len(b.shaderEntries))
	b.shaderEntries = append(b.shaderEntries, Location{Offset: offset, Size: uint32(len(data))})
	return idx
}

// AddBackendBlock appends data to backend's block region and returns
// its offset relative to that backend's block base, for embedding in
// a [CommonHeader] via SetBackend.
func (b *Builder) AddBackendBlock(backend device.Backend, data []byte) uint32 {
	idx, ok := backend.BlockIndex()
	if !ok {
		return 0
	}
	offset := uint32(len(b.backendBlob[idx]))
	b.backendBlob[idx] = append(b.backendBlob[idx], data...)
	return offset
}

// presentChunkTypes returns, in ChunkType enum order, the chunk types
// this builder has content for.
func (b *Builder) presentChunkTypes() []ChunkType {
	var types []ChunkType
	if b.haveDebugInfo {
		types = append(types, ChunkArchiveDebugInfo)
	}
	kindToType := [numDirKinds]ChunkType{
		DirSignatures:    ChunkResourceSignature,
		DirGraphicsPSO:   ChunkGraphicsPipelineStates,
		DirComputePSO:    ChunkComputePipelineStates,
		DirRayTracingPSO: ChunkRayTracingPipelineStates,
		DirTilePSO:       ChunkTilePipelineStates,
		DirRenderPasses:  ChunkRenderPass,
	}
	for kind := DirKind(0); kind < numDirKinds; kind++ {
		if len(b.named[kind]) > 0 {
			types = append(types, kindToType[kind])
		}
	}
	if len(b.shaderEntries) > 0 {
		types = append(types, ChunkShaders)
	}
	return types
}

// chunkBody serializes one chunk's body (everything after its
// ChunkHeader) given the absolute offset at which the common blob will
// land in the final file.
func (b *Builder) chunkBody(t ChunkType, commonBlobBase uint32) []byte {
	ser := serial.NewWriter(64)
	switch t {
	case ChunkArchiveDebugInfo:
		ser.String(b.debugAPIVersion)
		ser.String(b.debugCommitHash)
		if len(b.debugExtension) > 0 {
			raw, err := codec.Marshal(b.debugExtension)
			if err == nil {
				ser.Uint32(uint32(len(raw)))
				ser.RawBytes(raw, len(raw))
			}
		}
	case ChunkShaders:
		ser.Uint32(uint32(len(b.shaderEntries)))
		for _, e := range b.shaderEntries {
			ser.Uint32(commonBlobBase + e.Offset)
			ser.Uint32(e.Size)
		}
	default:
		kind := chunkTypeToKind(t)
		items := b.named[kind]
		ser.Uint32(uint32(len(items)))
		for _, it := range items {
			ser.CString(it.name)
			ser.Uint32(commonBlobBase + it.offset)
			ser.Uint32(it.size)
		}
	}
	return ser.Bytes()
}

func chunkTypeToKind(t ChunkType) DirKind {
	switch t {
	case ChunkResourceSignature:
		return DirSignatures
	case ChunkGraphicsPipelineStates:
		return DirGraphicsPSO
	case ChunkComputePipelineStates:
		return DirComputePSO
	case ChunkRayTracingPipelineStates:
		return DirRayTracingPSO
	case ChunkTilePipelineStates:
		return DirTilePSO
	case ChunkRenderPass:
		return DirRenderPasses
	default:
		return DirSignatures
	}
}

// Build assembles the final archive bytes: header, chunk table,
// chunk bodies, the common blob, and per-backend blocks, in that file
// order.
func (b *Builder) Build() []byte {
	types := b.presentChunkTypes()
	numChunks := uint32(len(types))
	chunkTableOffset := uint32(headerSize)
	chunkTableSize := numChunks * uint32(chunkHeaderSize)
	bodyStart := chunkTableOffset + chunkTableSize

	// Pass 1: compute each chunk body's size using a temporary base of
	// 0, since chunkBody only needs the base to embed absolute offsets
	// in directory entries, not to determine its own length.
	bodies := make([][]byte, len(types))
	chunkTableRegionSize := uint32(0)
	for i, t := range types {
		bodies[i] = b.chunkBody(t, 0) // placeholder pass to get sizes
		chunkTableRegionSize += uint32(len(bodies[i]))
	}
	commonBlobBase := bodyStart + chunkTableRegionSize

	// Pass 2: re-serialize with the real common-blob base now known.
	offsets := make([]uint32, len(types))
	cursor := bodyStart
	for i, t := range types {
		bodies[i] = b.chunkBody(t, commonBlobBase)
		offsets[i] = cursor
		cursor += uint32(len(bodies[i]))
	}

	backendBase := commonBlobBase + uint32(len(b.commonBlob))
	var blockBase [device.NumBackends]uint32
	off := backendBase
	for i := range b.backendBlob {
		blockBase[i] = off
		off += uint32(len(b.backendBlob[i]))
	}

	out := serial.NewWriter(int(off))
	out.Uint32(Magic)
	out.Uint32(CurrentVersion)
	out.Uint32(numChunks)
	for _, v := range blockBase {
		out.Uint32(v)
	}
	for i, t := range types {
		out.Uint32(uint32(t))
		out.Uint32(uint32(len(bodies[i])))
		out.Uint32(offsets[i])
	}
	for _, body := range bodies {
		out.RawBytes(body, len(body))
	}
	out.RawBytes(b.commonBlob, len(b.commonBlob))
	for _, blk := range b.backendBlob {
		out.RawBytes(blk, len(blk))
	}
	return out.Bytes()
}
