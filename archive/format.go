// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package archive implements the on-disk archive file format of
// spec.md §3/§4.3/§4.4/§6: a fixed header, a chunk table, and a body
// of named-resource directories and a shader table. It is the
// construction layer only — it never talks to a [device.Device]; that
// happens in package unpack, which layers on top of the directories
// and common headers this package exposes.
package archive

import (
	"github.com/study-game-engines/diligent-core/device"
)

// Magic is the archive file's 4-byte signature: the ASCII bytes
// 'P','S','A','1' read as a little-endian uint32. A file whose first
// four bytes don't match this fails BadMagic at construction.
const Magic uint32 = uint32('P') | uint32('S')<<8 | uint32('A')<<16 | uint32('1')<<24

// CurrentVersion is the only version this reader accepts. Per spec.md
// §1/§8 invariant 2, the archive format refuses forward compatibility:
// any version other than this exact value fails UnsupportedVersion.
const CurrentVersion uint32 = 1

// headerSize is the fixed header size: magic(4) + version(4) +
// numChunks(4) + blockBaseOffsets(4 * NumBackends).
const headerSize = 4 + 4 + 4 + 4*device.NumBackends

// chunkHeaderSize is the size of one ChunkHeader record: type(4) +
// size(4) + offset(4).
const chunkHeaderSize = 12

// ChunkType is the closed enum of archive chunk kinds (spec.md §3).
// At most one chunk of each type may appear in an archive.
type ChunkType uint32

const (
	ChunkArchiveDebugInfo ChunkType = iota
	ChunkResourceSignature
	ChunkGraphicsPipelineStates
	ChunkComputePipelineStates
	ChunkRayTracingPipelineStates
	ChunkTilePipelineStates
	ChunkRenderPass
	ChunkShaders

	numChunkTypes
)

func (t ChunkType) String() string {
	switch t {
	case ChunkArchiveDebugInfo:
		return "ArchiveDebugInfo"
	case ChunkResourceSignature:
		return "ResourceSignature"
	case ChunkGraphicsPipelineStates:
		return "GraphicsPipelineStates"
	case ChunkComputePipelineStates:
		return "ComputePipelineStates"
	case ChunkRayTracingPipelineStates:
		return "RayTracingPipelineStates"
	case ChunkTilePipelineStates:
		return "TilePipelineStates"
	case ChunkRenderPass:
		return "RenderPass"
	case ChunkShaders:
		return "Shaders"
	default:
		return "Unknown"
	}
}

// chunkHeader is the on-disk {type, size, offset} triple for one
// chunk. Offset is relative to the start of the file.
type chunkHeader struct {
	Type   ChunkType
	Size   uint32
	Offset uint32
}
