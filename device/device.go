// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package device declares the data model shared by the archive reader,
// the binding-assignment algorithm, and the write-side serialization
// device, plus the two thin contracts ([Device] and [ByteSource]) this
// module requires of its external collaborators. It has no dependency
// on any other package in this module so that archive, binding, unpack,
// and serialize can all depend on it without creating an import cycle.
package device

// Backend identifies one of the six supported graphics APIs. A reader
// is constructed bound to exactly one Backend; it only ever reads that
// backend's per-backend data block.
type Backend int

const (
	// BackendUndefined is the zero value. Binding assignment against an
	// undefined backend returns an empty binding list, not an error.
	BackendUndefined Backend = iota
	BackendOpenGL
	BackendDirect3D11
	BackendDirect3D12
	BackendVulkan
	BackendMetaliOS
	BackendMetalMacOS

	// NumBackends is the number of backend slots in the per-backend
	// block offset table. Keep in sync with the Backend enum above —
	// it excludes BackendUndefined.
	NumBackends = 6
)

// blockIndex returns the zero-based slot for a backend in the
// per-backend block offset table. BackendUndefined has no slot.
func (b Backend) blockIndex() (int, bool) {
	if b <= BackendUndefined || int(b) > NumBackends {
		return 0, false
	}
	return int(b) - 1, true
}

// BlockIndex is the exported form of blockIndex, used by the archive
// package when indexing the block offset table.
func (b Backend) BlockIndex() (int, bool) { return b.blockIndex() }

func (b Backend) String() string {
	switch b {
	case BackendOpenGL:
		return "OpenGL"
	case BackendDirect3D11:
		return "Direct3D11"
	case BackendDirect3D12:
		return "Direct3D12"
	case BackendVulkan:
		return "Vulkan"
	case BackendMetaliOS:
		return "Metal_iOS"
	case BackendMetalMacOS:
		return "Metal_MacOS"
	default:
		return "Undefined"
	}
}

// ShaderStage is a bitmask of graphics/compute pipeline stages. A
// resource's ShaderStages field may combine several.
type ShaderStage uint32

const (
	StageVertex ShaderStage = 1 << iota
	StagePixel
	StageGeometry
	StageHull
	StageDomain
	StageCompute
	StageAmplification
	StageMesh
	StageRayGen
	StageRayMiss
	StageRayClosestHit
	StageRayAnyHit
	StageRayIntersection
	StageCallable

	StageGraphicsMask = StageVertex | StagePixel | StageGeometry | StageHull | StageDomain | StageAmplification | StageMesh
)

// Has reports whether stage is set in the mask.
func (m ShaderStage) Has(stage ShaderStage) bool { return m&stage != 0 }

// d3d11StageOrder enumerates the D3D11/GL per-stage binding slots in
// the fixed order the binding-assignment rules iterate them.
var d3d11StageOrder = [...]ShaderStage{StageVertex, StagePixel, StageGeometry, StageHull, StageDomain, StageCompute}

// D3D11Stages returns the fixed-order list of stages D3D11 and GL
// binding assignment iterate per resource.
func D3D11Stages() []ShaderStage { return d3d11StageOrder[:] }

// D3D11StageIndex returns the index of stage within D3D11Stages, or -1.
func D3D11StageIndex(stage ShaderStage) int {
	for i, s := range d3d11StageOrder {
		if s == stage {
			return i
		}
	}
	return -1
}

// ResourceType is the kind of a shader-visible resource slot.
type ResourceType int

const (
	ResourceUnknown ResourceType = iota
	ResourceConstantBuffer
	ResourceTextureSRV
	ResourceBufferSRV
	ResourceTextureUAV
	ResourceBufferUAV
	ResourceSampler
	ResourceInputAttachment
	ResourceAccelStruct
)

// ResourceFlag is a bitmask of per-resource attributes.
type ResourceFlag uint32

const (
	// FlagRuntimeArray marks a resource as an unbounded runtime array
	// (e.g. a Vulkan/D3D12 descriptor-indexed array). Binding assignment
	// reports ArraySize as 0 (RuntimeArraySize) for such resources
	// regardless of the declared ArraySize field.
	FlagRuntimeArray ResourceFlag = 1 << iota
)

// RuntimeArraySize is the sentinel ArraySize binding-assignment reports
// for resources flagged FlagRuntimeArray.
const RuntimeArraySize = 0

// PipelineResourceDesc describes one shader-visible resource slot
// within a resource signature, independent of backend.
type PipelineResourceDesc struct {
	Name         string
	ResourceType ResourceType
	ShaderStages ShaderStage
	ArraySize    uint32
	Flags        ResourceFlag
}

// ImmutableSamplerDesc describes a sampler baked into a signature.
// D3D11 binding assignment emits it as a separate binding, after all
// of the signature's ordinary resources; the other backends' binding
// assignment emits no binding for it.
type ImmutableSamplerDesc struct {
	SamplerOrTextureName string
	ShaderStages         ShaderStage
}

// D3D11Attribs holds the D3D11-specific per-resource binding points,
// one slot per stage in [D3D11Stages] order. Unused stages are 0.
type D3D11Attribs struct {
	BindPoints [6]uint32
}

// D3D12Attribs holds the D3D12-specific per-resource register/space.
type D3D12Attribs struct {
	Register uint32
	Space    uint32
}

// GLAttribs holds the GL/GLES-specific per-resource cache offset.
type GLAttribs struct {
	CacheOffset uint32
}

// VulkanAttribs holds the Vulkan-specific per-resource descriptor set
// index (relative to this signature) and binding index.
type VulkanAttribs struct {
	DescriptorSet uint32
	BindingIndex  uint32
}

// VulkanDescriptorSetSizeInvalid marks a descriptor-set layout as not
// present in a signature (mirrors the original's `~0u` sentinel).
const VulkanDescriptorSetSizeInvalid = ^uint32(0)

// ResourceSignatureDesc is the backend-independent description of a
// reusable resource-slot declaration. Per-backend attributes for each
// Resources[i]/ImmutableSamplers[i] entry are carried in parallel
// slices so the core descriptor has no backend-conditional fields.
type ResourceSignatureDesc struct {
	Name              string
	BindingIndex      uint32
	Resources         []PipelineResourceDesc
	ImmutableSamplers []ImmutableSamplerDesc

	D3D11 []D3D11Attribs   // len == len(Resources), plus len(ImmutableSamplers) appended
	D3D12 []D3D12Attribs   // len == len(Resources)
	GL    []GLAttribs      // len == len(Resources)
	Vulkan []VulkanAttribs // len == len(Resources)

	// VulkanStaticMutableSetSize and VulkanDynamicSetSize report the
	// size of each of the two possible Vulkan descriptor-set layouts
	// this signature contributes, or VulkanDescriptorSetSizeInvalid if
	// that set is not present. Binding assignment advances the running
	// descriptor-set-layout counter by the count of present sets.
	VulkanStaticMutableSetSize uint32
	VulkanDynamicSetSize       uint32
}

// PipelineResourceBinding is one emitted binding: the concrete
// register/space/binding triple computed by [binding.Assign] for a
// single resource. D3D11 and GL emit one per active shader stage;
// D3D12, Vulkan, and Metal emit one per resource, carrying the
// resource's full stage mask.
type PipelineResourceBinding struct {
	Name         string
	ResourceType ResourceType
	Register     uint32
	Space        uint32
	ArraySize    uint32
	ShaderStages ShaderStage
}

// Hash is a 32-byte content-addressing digest (BLAKE3, keyed, domain
// separated — see package archive's ContentHash).
type Hash [32]byte
