// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package unpack

import (
	"context"

	"github.com/study-game-engines/diligent-core/archive"
	"github.com/study-game-engines/diligent-core/device"
	"github.com/study-game-engines/diligent-core/internal/wire"
)

// UnpackRenderPass reconstructs the named render pass. Render passes
// carry no per-backend data: their common header's backend size/offset
// pairs are always zero and are never consulted.
func (u *Archive) UnpackRenderPass(ctx context.Context, name string) (device.RenderPass, error) {
	dir := u.a.Directory(archive.DirRenderPasses)

	if cached, ok := dir.GetCached(name); ok {
		return cached.(device.RenderPass), nil
	}

	loc := dir.GetOffsetAndSize(name)
	if !loc.IsValid() {
		return nil, notFound("unpack.UnpackRenderPass", name)
	}

	common, err := u.a.ReadCommon(loc)
	if err != nil {
		return nil, err
	}
	header, tail, err := splitCommonHeader(common, "unpack.UnpackRenderPass")
	if err != nil {
		return nil, err
	}
	if header.Type != archive.ChunkRenderPass {
		return nil, typeMismatch("unpack.UnpackRenderPass", header.Type, archive.ChunkRenderPass)
	}

	ci, err := wire.DecodeRenderPass(tail)
	if err != nil {
		return nil, device.NewError(device.ErrorIO, "unpack.UnpackRenderPass", err)
	}

	rp, err := u.dev.CreateRenderPass(ctx, ci)
	if err != nil {
		return nil, device.NewError(device.ErrorDeviceConstructionFailed, "unpack.UnpackRenderPass", err)
	}

	dir.SetCached(name, rp)
	return rp, nil
}
