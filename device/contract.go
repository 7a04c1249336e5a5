// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package device

import "context"

// ByteSource is the random-access byte source the archive reader
// requires. Implementations must support concurrent calls to Read
// from multiple goroutines (§5) — if a concrete source does not, the
// caller must wrap it with its own synchronization.
type ByteSource interface {
	// Size returns the total size of the underlying byte source.
	Size() int64

	// Read copies size bytes starting at offset into dest, which must
	// be at least size bytes long. Returns an error (never a short
	// read) if the range is not fully available.
	Read(offset int64, size int64, dest []byte) error
}

// Shader is an opaque handle to a constructed, device-specific shader
// object. The archive reader never inspects it past passing it along
// to CreateInfo shader fields.
type Shader any

// RenderPass is an opaque handle to a constructed render pass object.
type RenderPass any

// ResourceSignature is an opaque handle to a constructed pipeline
// resource signature object.
type ResourceSignature any

// PipelineState is an opaque handle to a constructed pipeline state
// object (graphics, compute, ray tracing, or tile).
type PipelineState any

// ShaderCreateInfo is the minimal information needed to construct a
// shader from its compiled bytecode.
type ShaderCreateInfo struct {
	Name        string
	Stage       ShaderStage
	EntryPoint  string
	ByteCode    []byte
}

// RenderPassCreateInfo is the minimal information needed to construct
// a render pass. The archive treats the subpass/attachment layout as
// an opaque blob decoded by the device; this module only needs to
// round-trip it.
type RenderPassCreateInfo struct {
	Name string
	Desc []byte
}

// PipelineType distinguishes the four PSO kinds. Used by the
// modification-lockout check (§4.6 step 8): a mutation callback must
// not change it.
type PipelineType int

const (
	PipelineGraphics PipelineType = iota
	PipelineCompute
	PipelineRayTracing
	PipelineTile
)

// ResourceLayout is the locked-against-modification subset of a PSO's
// create info: the ordered signature name list plus the raw
// backend-independent layout bytes. Compared byte-identically by the
// unpacker after a mutation callback runs (§4.6 step 8, invariant 6).
type ResourceLayout struct {
	SignatureNames []string
	Raw            []byte
}

// Equal reports whether two ResourceLayout values are identical.
func (r ResourceLayout) Equal(other ResourceLayout) bool {
	if len(r.SignatureNames) != len(other.SignatureNames) {
		return false
	}
	for i := range r.SignatureNames {
		if r.SignatureNames[i] != other.SignatureNames[i] {
			return false
		}
	}
	if len(r.Raw) != len(other.Raw) {
		return false
	}
	for i := range r.Raw {
		if r.Raw[i] != other.Raw[i] {
			return false
		}
	}
	return true
}

// PipelineStateCreateInfo is the common shape passed to
// Device.CreateGraphicsPipelineState et al. after the unpacker has
// resolved shaders, signatures, and (for graphics) the render pass.
type PipelineStateCreateInfo struct {
	Name           string
	Type           PipelineType
	Layout         ResourceLayout
	Signatures     []ResourceSignature
	RenderPass     RenderPass // graphics only; nil otherwise
	Shaders        []Shader   // ordered per PSO kind's shader slots
	ShaderGroups   []ShaderGroup
}

// ShaderGroupShaderRef names which shader slot a ray tracing shader
// group entry refers to, before or after index resolution. Before
// resolution Index holds the raw archive shader-table index (or the
// "no shader" sentinel, see NoShaderIndex); after the unpacker
// resolves the group's shaders,
// Resolved holds the constructed Shader and Index is no longer
// meaningful. This realizes DESIGN NOTES' suggested
// "tagged union {unresolvedIndex | resolved(Shader)}" explicitly
// instead of the original's integer-disguised-as-pointer fix-up.
type ShaderGroupShaderRef struct {
	Index    uint32
	Resolved Shader
}

// NoShaderIndex is the sentinel meaning "this shader group slot has no
// shader" (the original's all-ones index).
const NoShaderIndex = ^uint32(0)

// ShaderGroup is one ray tracing shader-group descriptor: general,
// or a hit group combining closest-hit/any-hit/intersection shaders.
type ShaderGroup struct {
	Name            string
	General         ShaderGroupShaderRef
	ClosestHit      ShaderGroupShaderRef
	AnyHit          ShaderGroupShaderRef
	Intersection    ShaderGroupShaderRef
}

// Device is the thin contract the unpacker requires of a concrete
// rendering backend. All methods may block; none are expected to be
// called concurrently with each other for the same output unless the
// concrete device documents otherwise (§5: "every operation either
// returns or blocks").
type Device interface {
	CreateShader(ctx context.Context, ci ShaderCreateInfo) (Shader, error)
	CreateRenderPass(ctx context.Context, ci RenderPassCreateInfo) (RenderPass, error)
	CreatePipelineResourceSignature(ctx context.Context, desc ResourceSignatureDesc, backend Backend) (ResourceSignature, error)
	CreateGraphicsPipelineState(ctx context.Context, ci PipelineStateCreateInfo) (PipelineState, error)
	CreateComputePipelineState(ctx context.Context, ci PipelineStateCreateInfo) (PipelineState, error)
	CreateRayTracingPipelineState(ctx context.Context, ci PipelineStateCreateInfo) (PipelineState, error)
	CreateTilePipelineState(ctx context.Context, ci PipelineStateCreateInfo) (PipelineState, error)
}
