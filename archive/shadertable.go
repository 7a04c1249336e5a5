// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import "sync"

// ShaderTable is the ordered, integer-indexed table of shader byte
// blobs (spec.md §3/§4.7): PSOs reference shaders by index into this
// table rather than by name, since shader bytecode is shared across
// many PSOs and has no natural name of its own. The per-index cached
// constructed object is the table's only post-load-mutable state and
// is guarded by a single mutex, per spec.md §4.7 — package unpack
// implements the lock-release-construct-relock protocol on top of
// LookupOrSnapshot/Install; this type only owns the critical sections.
type ShaderTable struct {
	mu      sync.Mutex
	entries []Location
	cached  []any
}

// NewShaderTable returns an empty table.
func NewShaderTable() *ShaderTable {
	return &ShaderTable{}
}

// Append adds one shader's location to the end of the table and
// returns its index.
func (t *ShaderTable) Append(offset, size uint32) uint32 {
	idx := uint32(len(t.entries))
	t.entries = append(t.entries, Location{Offset: offset, Size: size})
	t.cached = append(t.cached, nil)
	return idx
}

// Get returns the location for index, or InvalidLocation if out of range.
func (t *ShaderTable) Get(index uint32) Location {
	if int(index) >= len(t.entries) {
		return InvalidLocation
	}
	return t.entries[index]
}

// Len returns the number of shaders in the table.
func (t *ShaderTable) Len() int { return len(t.entries) }

// LookupOrSnapshot takes the table's lock. If a constructed object is
// already cached at index, it returns it with ok=true. Otherwise it
// releases the lock before returning and reports the entry's
// (offset, size) so the caller can read bytes and construct the
// shader without holding the lock across I/O or a device call.
func (t *ShaderTable) LookupOrSnapshot(index uint32) (obj any, ok bool, loc Location) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if int(index) >= len(t.entries) {
		return nil, false, InvalidLocation
	}
	if t.cached[index] != nil {
		return t.cached[index], true, Location{}
	}
	return nil, false, t.entries[index]
}

// Install records a constructed shader object at index. If a
// concurrent caller already installed one, this overwrites it — both
// candidates were built from the same bytes and are interchangeable
// (spec.md §4.7/§5).
func (t *ShaderTable) Install(index uint32, obj any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if int(index) < len(t.cached) {
		t.cached[index] = obj
	}
}

// Clear drops every cached constructed shader.
func (t *ShaderTable) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.cached {
		t.cached[i] = nil
	}
}
