// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package unpack implements the concurrent archive unpacker of
// spec.md §4.6/§4.7: given a parsed archive and a device, it
// reconstructs resource signatures, render passes, and pipeline
// states, resolving and caching shaders along the way.
package unpack

import (
	"fmt"
	"log/slog"

	"github.com/study-game-engines/diligent-core/archive"
	"github.com/study-game-engines/diligent-core/device"
)

// Archive is the unpacker: an archive.Archive bound to a device.
// Concurrent unpacks on the same Archive are safe (spec.md §5);
// directories are immutable after construction, and the shader cache
// is internally synchronized.
type Archive struct {
	a      *archive.Archive
	dev    device.Device
	logger *slog.Logger
}

// New wraps a parsed archive with the device that will construct its
// objects.
func New(a *archive.Archive, dev device.Device, logger *slog.Logger) *Archive {
	if logger == nil {
		logger = slog.Default()
	}
	return &Archive{a: a, dev: dev, logger: logger}
}

// ClearResourceCache drops every cached constructed object — shaders,
// signatures, render passes, and pipelines — across all six
// directories and the shader table.
func (u *Archive) ClearResourceCache() {
	for kind := archive.DirSignatures; kind < archive.DirRenderPasses+1; kind++ {
		u.a.Directory(kind).Clear()
	}
	u.a.Shaders().Clear()
}

// notFound builds the NotFound error for a missing directory entry.
func notFound(op, name string) error {
	return device.NewError(device.ErrorNotFound, op, fmt.Errorf("name %q not found", name))
}

// typeMismatch builds the TypeMismatch error when a common header's
// recorded type doesn't match the requested directory kind.
func typeMismatch(op string, got, want archive.ChunkType) error {
	return device.NewError(device.ErrorTypeMismatch, op, fmt.Errorf("got %s, want %s", got, want))
}
