// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package unpack

import (
	"context"
	"fmt"

	"github.com/study-game-engines/diligent-core/archive"
	"github.com/study-game-engines/diligent-core/device"
	"github.com/study-game-engines/diligent-core/internal/serial"
	"github.com/study-game-engines/diligent-core/internal/wire"
)

// MutationFunc lets a caller edit a pipeline's create info after the
// unpacker has resolved its shaders and signatures but before the
// device constructs it. The pipeline type, resource layout, and
// signature list are locked against modification (spec.md §4.6 step
// 8); changing them fails IllegalModification.
type MutationFunc func(*device.PipelineStateCreateInfo) error

// createFunc is the device method for one PSO kind.
type createFunc func(context.Context, device.PipelineStateCreateInfo) (device.PipelineState, error)

func (u *Archive) UnpackGraphicsPipelineState(ctx context.Context, name string, mutate MutationFunc) (device.PipelineState, error) {
	return u.unpackPipeline(ctx, archive.DirGraphicsPSO, device.PipelineGraphics, archive.ChunkGraphicsPipelineStates, name, mutate, u.dev.CreateGraphicsPipelineState)
}

func (u *Archive) UnpackComputePipelineState(ctx context.Context, name string, mutate MutationFunc) (device.PipelineState, error) {
	return u.unpackPipeline(ctx, archive.DirComputePSO, device.PipelineCompute, archive.ChunkComputePipelineStates, name, mutate, u.dev.CreateComputePipelineState)
}

func (u *Archive) UnpackRayTracingPipelineState(ctx context.Context, name string, mutate MutationFunc) (device.PipelineState, error) {
	return u.unpackPipeline(ctx, archive.DirRayTracingPSO, device.PipelineRayTracing, archive.ChunkRayTracingPipelineStates, name, mutate, u.dev.CreateRayTracingPipelineState)
}

func (u *Archive) UnpackTilePipelineState(ctx context.Context, name string, mutate MutationFunc) (device.PipelineState, error) {
	return u.unpackPipeline(ctx, archive.DirTilePSO, device.PipelineTile, archive.ChunkTilePipelineStates, name, mutate, u.dev.CreateTilePipelineState)
}

// unpackPipeline is the shared nine-step skeleton of spec.md §4.6,
// parameterized by PSO kind.
func (u *Archive) unpackPipeline(
	ctx context.Context,
	dirKind archive.DirKind,
	ptype device.PipelineType,
	chunkType archive.ChunkType,
	name string,
	mutate MutationFunc,
	create createFunc,
) (device.PipelineState, error) {
	op := "unpack.UnpackPipelineState"
	dir := u.a.Directory(dirKind)

	// Step 1: consult the cache unless a mutation callback was given —
	// a callback means the caller wants a fresh, possibly-altered
	// construction, so the cache must not shortcut it.
	if mutate == nil {
		if cached, ok := dir.GetCached(name); ok {
			return cached.(device.PipelineState), nil
		}
	}

	// Step 2: locate the entry.
	loc := dir.GetOffsetAndSize(name)
	if !loc.IsValid() {
		return nil, notFound(op, name)
	}

	// Step 3: parse the common create-info, validating the type tag.
	common, err := u.a.ReadCommon(loc)
	if err != nil {
		return nil, err
	}
	header, tail, err := splitCommonHeader(common, op)
	if err != nil {
		return nil, err
	}
	if header.Type != chunkType {
		return nil, typeMismatch(op, header.Type, chunkType)
	}
	pc, err := wire.DecodePipelineCommon(tail)
	if err != nil {
		return nil, device.NewError(device.ErrorIO, op, err)
	}
	if pc.Type != ptype {
		return nil, typeMismatch(op, header.Type, chunkType)
	}

	// Step 4: resolve the render pass (graphics only) and signatures.
	var renderPass device.RenderPass
	if ptype == device.PipelineGraphics && pc.RenderPassName != "" {
		renderPass, err = u.UnpackRenderPass(ctx, pc.RenderPassName)
		if err != nil {
			return nil, err
		}
	}
	signatures := make([]device.ResourceSignature, len(pc.SignatureNames))
	for i, sigName := range pc.SignatureNames {
		sig, err := u.UnpackResourceSignature(ctx, sigName)
		if err != nil {
			return nil, err
		}
		signatures[i] = sig
	}

	// Step 5/6: locate and decode the backend block.
	backend := u.a.Backend()
	size := header.GetSize(backend)
	if size == 0 {
		return nil, device.NewError(device.ErrorMissingBackendData, op,
			fmt.Errorf("pipeline %q has no data for backend %s", name, backend))
	}
	block, err := u.a.ReadBackendBlock(header.GetOffset(backend), size)
	if err != nil {
		return nil, err
	}
	blockSer := serial.NewReader(block)
	shaderIndices, err := wire.DecodeShaderIndicesFrom(blockSer)
	if err != nil {
		return nil, device.NewError(device.ErrorIO, op, err)
	}
	var shaderGroups []device.ShaderGroup
	if ptype == device.PipelineRayTracing {
		shaderGroups, err = wire.DecodeShaderGroupsFrom(blockSer)
		if err != nil {
			return nil, device.NewError(device.ErrorIO, op, err)
		}
	}

	// Resolve shaders, each through the shader cache. The plain index
	// list has no "no shader" slot — device.NoShaderIndex here is
	// decode garbage, not a sentinel, so an out-of-range index errors
	// instead of resolving to nil.
	shaders := make([]device.Shader, len(shaderIndices))
	for i, idx := range shaderIndices {
		sh, err := u.resolveShader(ctx, idx)
		if err != nil {
			return nil, err
		}
		shaders[i] = sh
	}

	// Step 7: for ray tracing, rewrite each shader-group slot's raw
	// index with the resolved shader, honoring the "no shader"
	// sentinel.
	for i := range shaderGroups {
		g := &shaderGroups[i]
		for _, ref := range []*device.ShaderGroupShaderRef{&g.General, &g.ClosestHit, &g.AnyHit, &g.Intersection} {
			sh, err := u.resolveShaderOrNone(ctx, ref.Index)
			if err != nil {
				return nil, err
			}
			ref.Resolved = sh
		}
	}

	layout := device.ResourceLayout{SignatureNames: pc.SignatureNames, Raw: pc.LayoutRaw}
	ci := device.PipelineStateCreateInfo{
		Name:         pc.Name,
		Type:         ptype,
		Layout:       layout,
		Signatures:   signatures,
		RenderPass:   renderPass,
		Shaders:      shaders,
		ShaderGroups: shaderGroups,
	}

	// Step 8: run the mutation callback, if any, then enforce the
	// modification lockout on the fields the caller must not change.
	if mutate != nil {
		origType := ci.Type
		origLayout := device.ResourceLayout{
			SignatureNames: append([]string(nil), layout.SignatureNames...),
			Raw:            append([]byte(nil), layout.Raw...),
		}
		if err := mutate(&ci); err != nil {
			return nil, err
		}
		if ci.Type != origType || !ci.Layout.Equal(origLayout) {
			return nil, device.NewError(device.ErrorIllegalModification, op,
				fmt.Errorf("pipeline type or resource layout changed by mutation callback"))
		}
	}

	// Step 9: construct, memoizing only on the non-mutated path.
	pso, err := create(ctx, ci)
	if err != nil {
		return nil, device.NewError(device.ErrorDeviceConstructionFailed, op, err)
	}
	if mutate == nil {
		dir.SetCached(name, pso)
	}
	return pso, nil
}
