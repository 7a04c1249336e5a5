// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"github.com/study-game-engines/diligent-core/device"
	"github.com/study-game-engines/diligent-core/internal/serial"
)

// CommonHeader is the per-entry header every resource entry's common
// block begins with (spec.md §3 "Per-entry common header"): the
// entry's chunk type plus, for each backend slot, the size and offset
// of that backend's data block (relative to the backend's
// blockBaseOffsets slot). GetSize/GetOffset return the matching pair.
type CommonHeader struct {
	Type            ChunkType
	perBackendSizes [device.NumBackends]uint32
	perBackendOffs  [device.NumBackends]uint32
}

// ReadCommonHeader decodes a CommonHeader from the front of ser.
func ReadCommonHeader(ser *serial.Serializer) (CommonHeader, error) {
	var h CommonHeader
	typ, err := ser.Uint32(0)
	if err != nil {
		return h, err
	}
	h.Type = ChunkType(typ)
	for i := range h.perBackendSizes {
		v, err := ser.Uint32(0)
		if err != nil {
			return h, err
		}
		h.perBackendSizes[i] = v
	}
	for i := range h.perBackendOffs {
		v, err := ser.Uint32(0)
		if err != nil {
			return h, err
		}
		h.perBackendOffs[i] = v
	}
	return h, nil
}

// WriteCommonHeader encodes h to ser, in the same layout ReadCommonHeader expects.
func WriteCommonHeader(ser *serial.Serializer, h CommonHeader) error {
	if _, err := ser.Uint32(uint32(h.Type)); err != nil {
		return err
	}
	for _, v := range h.perBackendSizes {
		if _, err := ser.Uint32(v); err != nil {
			return err
		}
	}
	for _, v := range h.perBackendOffs {
		if _, err := ser.Uint32(v); err != nil {
			return err
		}
	}
	return nil
}

// GetSize returns the per-backend data block size for backend, or 0
// if backend has no slot (BackendUndefined or out of range).
func (h CommonHeader) GetSize(backend device.Backend) uint32 {
	idx, ok := backend.BlockIndex()
	if !ok {
		return 0
	}
	return h.perBackendSizes[idx]
}

// GetOffset returns the per-backend data block offset for backend
// (relative to that backend's blockBaseOffsets slot), or 0 if backend
// has no slot.
func (h CommonHeader) GetOffset(backend device.Backend) uint32 {
	idx, ok := backend.BlockIndex()
	if !ok {
		return 0
	}
	return h.perBackendOffs[idx]
}

// SetBackend sets the size/offset pair for backend. Used by the
// write-side builder (package serialize).
func (h *CommonHeader) SetBackend(backend device.Backend, offset, size uint32) {
	idx, ok := backend.BlockIndex()
	if !ok {
		return
	}
	h.perBackendSizes[idx] = size
	h.perBackendOffs[idx] = offset
}

// NewCommonHeader returns a zeroed CommonHeader for the given chunk type.
func NewCommonHeader(t ChunkType) CommonHeader {
	return CommonHeader{Type: t}
}
