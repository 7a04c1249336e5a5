// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"sync"

	"github.com/study-game-engines/diligent-core/device"
)

// InvalidLocation is the sentinel [Location] returned by a failed
// directory lookup (spec.md §4.4: "GetOffsetAndSize(name) returns a
// sentinel Invalid when absent").
var InvalidLocation = Location{Offset: ^uint32(0), Size: ^uint32(0)}

// Location is a (commonOffset, commonSize) pair pointing into the
// common region of the archive body.
type Location struct {
	Offset uint32
	Size   uint32
}

// IsValid reports whether loc is a real location (not InvalidLocation).
func (loc Location) IsValid() bool { return loc != InvalidLocation }

// entry is one named directory record plus its optional cached
// constructed object. Only cached is mutable after Insert.
type entry struct {
	loc    Location
	cached any
}

// Directory is a name-indexed map of (offset, size) plus, per entry, a
// single post-load-mutable cache slot (spec.md §3/§4.4). Directories
// are built once at load time by [Open] and are read-only afterward
// except for the cache slot, which Insert never touches and which is
// set and read under the directory's own lock.
//
// A Directory is safe for concurrent use by multiple readers (lookups)
// and by concurrent cache installs (spec.md §5: "concurrent unpacks of
// the same resource name race safely").
type Directory struct {
	mu      sync.RWMutex
	byName  map[string]*entry
}

// NewDirectory returns an empty Directory ready for Insert calls
// during construction.
func NewDirectory() *Directory {
	return &Directory{byName: make(map[string]*entry)}
}

// Insert adds a new named entry. Returns an error wrapping
// device.ErrorDuplicateName if name is already present — names are
// case-sensitive and unique within one Directory (spec.md §4.4,
// invariant 4).
func (d *Directory) Insert(name string, offset, size uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.byName[name]; exists {
		return device.NewError(device.ErrorDuplicateName, "Directory.Insert",
			duplicateNameError(name))
	}
	d.byName[name] = &entry{loc: Location{Offset: offset, Size: size}}
	return nil
}

// GetOffsetAndSize returns the location registered for name, or
// InvalidLocation if name is not present. The caller (package unpack)
// is responsible for surfacing ErrorNotFound.
func (d *Directory) GetOffsetAndSize(name string) Location {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.byName[name]
	if !ok {
		return InvalidLocation
	}
	return e.loc
}

// GetCached returns the cached constructed object for name, if one
// has been installed, and whether it was present.
func (d *Directory) GetCached(name string) (any, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.byName[name]
	if !ok || e.cached == nil {
		return nil, false
	}
	return e.cached, true
}

// SetCached installs a constructed object for name. Installing over an
// existing cached object silently replaces it — concurrent unpacks of
// the same name may race to install; the result is not in question
// since both candidates were built from the same bytes (spec.md §5).
// SetCached is a no-op if name is not present in the directory.
func (d *Directory) SetCached(name string, obj any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if e, ok := d.byName[name]; ok {
		e.cached = obj
	}
}

// Clear drops every cached constructed object, leaving locations
// intact. Used by ClearResourceCache.
func (d *Directory) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, e := range d.byName {
		e.cached = nil
	}
}

// Len returns the number of named entries.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byName)
}

// duplicateNameError is split out so Insert's error message stays
// consistent between the archive reader and the write-side builder.
func duplicateNameError(name string) error {
	return &dupNameErr{name: name}
}

type dupNameErr struct{ name string }

func (e *dupNameErr) Error() string { return "duplicate name " + quote(e.name) }

func quote(s string) string { return "\"" + s + "\"" }
