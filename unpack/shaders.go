// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package unpack

import (
	"context"
	"fmt"

	"github.com/study-game-engines/diligent-core/device"
	"github.com/study-game-engines/diligent-core/internal/wire"
)

// resolveShader returns the constructed shader at archive shader-table
// index idx, implementing the lock-release-construct-relock protocol
// of spec.md §4.7: the table's own mutex is never held across the
// byte read or the device call. A duplicate construction racing
// against another goroutine is accepted as wasted work, not a bug —
// both candidates decode the same bytes.
func (u *Archive) resolveShader(ctx context.Context, idx uint32) (device.Shader, error) {
	table := u.a.Shaders()

	cached, ok, loc := table.LookupOrSnapshot(idx)
	if ok {
		return cached.(device.Shader), nil
	}
	if !loc.IsValid() {
		return nil, device.NewError(device.ErrorNotFound, "unpack.resolveShader", errShaderIndex(idx))
	}

	raw, err := u.a.ReadCommon(loc)
	if err != nil {
		return nil, err
	}
	ci, err := wire.DecodeShader(raw)
	if err != nil {
		return nil, device.NewError(device.ErrorIO, "unpack.resolveShader", err)
	}

	shader, err := u.dev.CreateShader(ctx, ci)
	if err != nil {
		return nil, device.NewError(device.ErrorDeviceConstructionFailed, "unpack.resolveShader", err)
	}

	table.Install(idx, shader)
	return shader, nil
}

// resolveShaderOrNone resolves idx unless it is device.NoShaderIndex,
// in which case it returns a nil Shader and no error — the sentinel
// "no shader" case ray-tracing shader groups use for unused slots.
func (u *Archive) resolveShaderOrNone(ctx context.Context, idx uint32) (device.Shader, error) {
	if idx == device.NoShaderIndex {
		return nil, nil
	}
	return u.resolveShader(ctx, idx)
}

func errShaderIndex(idx uint32) error {
	return fmt.Errorf("shader table index %d out of range", idx)
}
