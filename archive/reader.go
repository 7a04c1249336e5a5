// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"fmt"
	"log/slog"

	"github.com/study-game-engines/diligent-core/device"
	"github.com/study-game-engines/diligent-core/internal/codec"
	"github.com/study-game-engines/diligent-core/internal/serial"
)

// DirKind enumerates the six named directories, in the order the
// archive exposes them. The shader table is not a DirKind.
type DirKind int

const (
	DirSignatures DirKind = iota
	DirGraphicsPSO
	DirComputePSO
	DirRayTracingPSO
	DirTilePSO
	DirRenderPasses

	numDirKinds
)

// Archive is a parsed, read-only view over one backend's slice of an
// archive byte source (spec.md §4.3). It owns the chunk table and the
// six named directories plus the shader table; it never talks to a
// device — that is package unpack's job.
type Archive struct {
	source  device.ByteSource
	backend device.Backend

	blockBase [device.NumBackends]uint32

	dirs    [numDirKinds]*Directory
	shaders *ShaderTable
	chunks  []ChunkSummary

	debugAPIVersion string
	debugCommitHash string
	debugExtension  map[string]any
}

// ContentHash returns the deterministic identity hash of this
// archive's chunk table (see [ContentHash]).
func (a *Archive) ContentHash() device.Hash { return ContentHash(a.chunks) }

// Backend returns the backend this archive is bound to.
func (a *Archive) Backend() device.Backend { return a.backend }

// Source returns the underlying byte source.
func (a *Archive) Source() device.ByteSource { return a.source }

// BlockBase returns the absolute file offset of this archive's
// backend's data block base.
func (a *Archive) BlockBase() uint32 { return a.blockBase[mustBlockIndex(a.backend)] }

// Directory returns the named directory of the given kind.
func (a *Archive) Directory(kind DirKind) *Directory { return a.dirs[kind] }

// Shaders returns the shader table.
func (a *Archive) Shaders() *ShaderTable { return a.shaders }

func mustBlockIndex(b device.Backend) int {
	idx, ok := b.BlockIndex()
	if !ok {
		return 0
	}
	return idx
}

// Open reads and validates the fixed header, the chunk table, and
// every chunk's body from source, returning an Archive bound to
// backend. Only backend's data block is retained for later per-backend
// reads; directories and the shader table cover all backends since
// their entries are backend-agnostic (only the common header's
// per-backend size/offset pairs differ).
func Open(source device.ByteSource, backend device.Backend, logger *slog.Logger) (*Archive, error) {
	if logger == nil {
		logger = slog.Default()
	}

	size := source.Size()
	if size < int64(headerSize) {
		return nil, device.NewError(device.ErrorDecodeUnderflow, "archive.Open",
			fmt.Errorf("file size %d smaller than header size %d", size, headerSize))
	}

	header := make([]byte, headerSize)
	if err := source.Read(0, int64(headerSize), header); err != nil {
		return nil, device.NewError(device.ErrorIO, "archive.Open", err)
	}

	ser := serial.NewReader(header)
	magic, err := ser.Uint32(0)
	if err != nil {
		return nil, device.NewError(device.ErrorIO, "archive.Open", err)
	}
	if magic != Magic {
		return nil, device.NewError(device.ErrorBadMagic, "archive.Open",
			fmt.Errorf("got 0x%08x, want 0x%08x", magic, Magic))
	}
	version, err := ser.Uint32(0)
	if err != nil {
		return nil, device.NewError(device.ErrorIO, "archive.Open", err)
	}
	if version != CurrentVersion {
		return nil, device.NewError(device.ErrorUnsupportedVersion, "archive.Open",
			fmt.Errorf("got %d, want %d", version, CurrentVersion))
	}
	numChunks, err := ser.Uint32(0)
	if err != nil {
		return nil, device.NewError(device.ErrorIO, "archive.Open", err)
	}

	a := &Archive{source: source, backend: backend, shaders: NewShaderTable()}
	for i := range a.blockBase {
		v, err := ser.Uint32(0)
		if err != nil {
			return nil, device.NewError(device.ErrorIO, "archive.Open", err)
		}
		a.blockBase[i] = v
	}
	for i := range a.dirs {
		a.dirs[i] = NewDirectory()
	}

	chunkTableBytes := make([]byte, int(numChunks)*chunkHeaderSize)
	if err := source.Read(int64(headerSize), int64(len(chunkTableBytes)), chunkTableBytes); err != nil {
		return nil, device.NewError(device.ErrorIO, "archive.Open", err)
	}
	cser := serial.NewReader(chunkTableBytes)

	seen := make(map[ChunkType]bool, numChunks)
	chunks := make([]chunkHeader, numChunks)
	for i := range chunks {
		typ, err := cser.Uint32(0)
		if err != nil {
			return nil, device.NewError(device.ErrorIO, "archive.Open", err)
		}
		ch := chunkHeader{Type: ChunkType(typ)}
		if ch.Size, err = cser.Uint32(0); err != nil {
			return nil, device.NewError(device.ErrorIO, "archive.Open", err)
		}
		if ch.Offset, err = cser.Uint32(0); err != nil {
			return nil, device.NewError(device.ErrorIO, "archive.Open", err)
		}
		if seen[ch.Type] {
			return nil, device.NewError(device.ErrorDuplicateChunk, "archive.Open",
				fmt.Errorf("chunk type %s appears more than once", ch.Type))
		}
		seen[ch.Type] = true
		chunks[i] = ch
	}

	a.chunks = make([]ChunkSummary, len(chunks))
	for i, ch := range chunks {
		a.chunks[i] = ChunkSummary{Type: ch.Type, Size: ch.Size, Offset: ch.Offset}
	}

	for _, ch := range chunks {
		body := make([]byte, ch.Size)
		if err := source.Read(int64(ch.Offset), int64(ch.Size), body); err != nil {
			return nil, device.NewError(device.ErrorIO, "archive.Open", err)
		}
		if err := a.loadChunk(ch.Type, body, logger); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// loadChunk dispatches one chunk's body to the matching directory or
// shader table builder, per spec.md §4.3 step 4.
func (a *Archive) loadChunk(t ChunkType, body []byte, logger *slog.Logger) error {
	switch t {
	case ChunkArchiveDebugInfo:
		return a.loadDebugInfo(body, logger)
	case ChunkResourceSignature:
		return a.loadNamedDirectory(DirSignatures, body)
	case ChunkGraphicsPipelineStates:
		return a.loadNamedDirectory(DirGraphicsPSO, body)
	case ChunkComputePipelineStates:
		return a.loadNamedDirectory(DirComputePSO, body)
	case ChunkRayTracingPipelineStates:
		return a.loadNamedDirectory(DirRayTracingPSO, body)
	case ChunkTilePipelineStates:
		return a.loadNamedDirectory(DirTilePSO, body)
	case ChunkRenderPass:
		return a.loadNamedDirectory(DirRenderPasses, body)
	case ChunkShaders:
		return a.loadShaderTable(body)
	default:
		return device.NewError(device.ErrorUnknownChunkType, "archive.Open",
			fmt.Errorf("chunk type %d", t))
	}
}

// loadNamedDirectory parses `u32 count; { cstring name; u32 offset; u32 size }[count]`.
func (a *Archive) loadNamedDirectory(kind DirKind, body []byte) error {
	ser := serial.NewReader(body)
	count, err := ser.Uint32(0)
	if err != nil {
		return device.NewError(device.ErrorIO, "archive.loadNamedDirectory", err)
	}
	dir := a.dirs[kind]
	for i := uint32(0); i < count; i++ {
		name, err := ser.CString("")
		if err != nil {
			return device.NewError(device.ErrorIO, "archive.loadNamedDirectory", err)
		}
		offset, err := ser.Uint32(0)
		if err != nil {
			return device.NewError(device.ErrorIO, "archive.loadNamedDirectory", err)
		}
		size, err := ser.Uint32(0)
		if err != nil {
			return device.NewError(device.ErrorIO, "archive.loadNamedDirectory", err)
		}
		if err := dir.Insert(name, offset, size); err != nil {
			return err
		}
	}
	return nil
}

// loadShaderTable parses `u32 count; { u32 offset; u32 size }[count]`.
func (a *Archive) loadShaderTable(body []byte) error {
	ser := serial.NewReader(body)
	count, err := ser.Uint32(0)
	if err != nil {
		return device.NewError(device.ErrorIO, "archive.loadShaderTable", err)
	}
	for i := uint32(0); i < count; i++ {
		offset, err := ser.Uint32(0)
		if err != nil {
			return device.NewError(device.ErrorIO, "archive.loadShaderTable", err)
		}
		size, err := ser.Uint32(0)
		if err != nil {
			return device.NewError(device.ErrorIO, "archive.loadShaderTable", err)
		}
		a.shaders.Append(offset, size)
	}
	return nil
}

// loadDebugInfo decodes the two debug strings plus an optional trailing
// CBOR extension map (build tags, toolchain versions). A mismatch
// against the running build's own version tags is an informational
// diagnostic, never a construction failure (spec.md §4.3 step 5); a
// malformed extension blob is likewise diagnostic-only, since it never
// affects any other chunk's decoding.
func (a *Archive) loadDebugInfo(body []byte, logger *slog.Logger) error {
	ser := serial.NewReader(body)
	apiVersion, err := ser.String("")
	if err != nil {
		return device.NewError(device.ErrorIO, "archive.loadDebugInfo", err)
	}
	commitHash, err := ser.String("")
	if err != nil {
		return device.NewError(device.ErrorIO, "archive.loadDebugInfo", err)
	}
	a.debugAPIVersion = apiVersion
	a.debugCommitHash = commitHash
	logger.Info("archive debug info", "apiVersion", apiVersion, "commitHash", commitHash)

	if ser.Remaining() > 0 {
		extLen, err := ser.Uint32(0)
		if err == nil && int(extLen) <= ser.Remaining() {
			raw, err := ser.RawBytes(nil, int(extLen))
			if err == nil {
				var ext map[string]any
				if err := codec.Unmarshal(raw, &ext); err == nil {
					a.debugExtension = ext
				} else {
					logger.Warn("archive debug extension decode failed", "error", err)
				}
			}
		}
	}
	return nil
}

// DebugAPIVersion returns the archive's recorded API version tag.
func (a *Archive) DebugAPIVersion() string { return a.debugAPIVersion }

// DebugCommitHash returns the archive's recorded source-tree commit hash.
func (a *Archive) DebugCommitHash() string { return a.debugCommitHash }

// DebugExtension returns the optional CBOR-decoded debug extension
// map, or nil if the archive carries none.
func (a *Archive) DebugExtension() map[string]any { return a.debugExtension }

// ReadCommon reads loc's common bytes (relative to the start of the
// file, in the common blob region that follows the chunk bodies) for
// the given directory entry.
// Common-block offsets are absolute file offsets, unlike per-backend
// block offsets which are relative to blockBase.
func (a *Archive) ReadCommon(loc Location) ([]byte, error) {
	buf := make([]byte, loc.Size)
	if err := a.source.Read(int64(loc.Offset), int64(loc.Size), buf); err != nil {
		return nil, device.NewError(device.ErrorIO, "archive.ReadCommon", err)
	}
	return buf, nil
}

// ReadBackendBlock reads size bytes at offset relative to this
// archive's bound backend's block base.
func (a *Archive) ReadBackendBlock(offset, size uint32) ([]byte, error) {
	if size == 0 {
		return nil, device.NewError(device.ErrorMissingBackendData, "archive.ReadBackendBlock",
			fmt.Errorf("backend %s", a.backend))
	}
	abs := int64(a.BlockBase()) + int64(offset)
	buf := make([]byte, size)
	if err := a.source.Read(abs, int64(size), buf); err != nil {
		return nil, device.NewError(device.ErrorIO, "archive.ReadBackendBlock", err)
	}
	return buf, nil
}
