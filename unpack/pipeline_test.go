// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package unpack

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/study-game-engines/diligent-core/archive"
	"github.com/study-game-engines/diligent-core/device"
	"github.com/study-game-engines/diligent-core/internal/serial"
	"github.com/study-game-engines/diligent-core/internal/wire"
)

// memSource is a trivial in-memory device.ByteSource for these tests.
type memSource struct{ data []byte }

func (m *memSource) Size() int64 { return int64(len(m.data)) }

func (m *memSource) Read(offset, size int64, dest []byte) error {
	if offset < 0 || size < 0 || offset+size > int64(len(m.data)) {
		return fmt.Errorf("out of range read: offset=%d size=%d len=%d", offset, size, len(m.data))
	}
	copy(dest, m.data[offset:offset+size])
	return nil
}

// fakeDevice counts CreateShader calls per name and returns opaque
// handles for everything else.
type fakeDevice struct {
	mu          sync.Mutex
	shaderCalls map[string]int
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{shaderCalls: make(map[string]int)}
}

type fakeShader struct{ name string }
type fakeSignature struct{ name string }
type fakeRenderPass struct{ name string }
type fakePipeline struct{ name string }

func (d *fakeDevice) CreateShader(ctx context.Context, ci device.ShaderCreateInfo) (device.Shader, error) {
	d.mu.Lock()
	d.shaderCalls[ci.Name]++
	d.mu.Unlock()
	return &fakeShader{name: ci.Name}, nil
}

func (d *fakeDevice) CreateRenderPass(ctx context.Context, ci device.RenderPassCreateInfo) (device.RenderPass, error) {
	return &fakeRenderPass{name: ci.Name}, nil
}

func (d *fakeDevice) CreatePipelineResourceSignature(ctx context.Context, desc device.ResourceSignatureDesc, backend device.Backend) (device.ResourceSignature, error) {
	return &fakeSignature{name: desc.Name}, nil
}

func (d *fakeDevice) CreateGraphicsPipelineState(ctx context.Context, ci device.PipelineStateCreateInfo) (device.PipelineState, error) {
	return &fakePipeline{name: ci.Name}, nil
}

func (d *fakeDevice) CreateComputePipelineState(ctx context.Context, ci device.PipelineStateCreateInfo) (device.PipelineState, error) {
	return &fakePipeline{name: ci.Name}, nil
}

func (d *fakeDevice) CreateRayTracingPipelineState(ctx context.Context, ci device.PipelineStateCreateInfo) (device.PipelineState, error) {
	return &fakePipeline{name: ci.Name}, nil
}

func (d *fakeDevice) CreateTilePipelineState(ctx context.Context, ci device.PipelineStateCreateInfo) (device.PipelineState, error) {
	return &fakePipeline{name: ci.Name}, nil
}

func (d *fakeDevice) shaderCallCount(name string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shaderCalls[name]
}

// commonBytes serializes a CommonHeader followed by a create-info tail.
func commonBytes(hdr archive.CommonHeader, tail []byte) []byte {
	ser := serial.NewWriter(64)
	if err := archive.WriteCommonHeader(ser, hdr); err != nil {
		panic(err)
	}
	ser.RawBytes(tail, len(tail))
	return ser.Bytes()
}

// fixture wraps an archive.Builder for one backend with helpers that
// add signatures, render passes, shaders, and graphics or ray-tracing
// PSOs; each test assembles its own small archive from them.
type fixture struct {
	b       *archive.Builder
	backend device.Backend
}

func newFixture() *fixture {
	return &fixture{b: archive.NewBuilder(), backend: device.BackendVulkan}
}

func (f *fixture) addSignature(name string) {
	desc := device.ResourceSignatureDesc{Name: name}
	common, err := wire.EncodeSignatureCommon(desc)
	if err != nil {
		panic(err)
	}
	backendBytes, err := wire.EncodeSignatureBackend(desc, f.backend)
	if err != nil {
		panic(err)
	}
	var hdr archive.CommonHeader
	hdr.Type = archive.ChunkResourceSignature
	off := f.b.AddBackendBlock(f.backend, backendBytes)
	hdr.SetBackend(f.backend, off, uint32(len(backendBytes)))
	if err := f.b.AddNamed(archive.DirSignatures, name, commonBytes(hdr, common)); err != nil {
		panic(err)
	}
}

func (f *fixture) addRenderPass(name string) {
	ci := device.RenderPassCreateInfo{Name: name, Desc: []byte{1, 2, 3}}
	tail, err := wire.EncodeRenderPass(ci)
	if err != nil {
		panic(err)
	}
	var hdr archive.CommonHeader
	hdr.Type = archive.ChunkRenderPass
	if err := f.b.AddNamed(archive.DirRenderPasses, name, commonBytes(hdr, tail)); err != nil {
		panic(err)
	}
}

// addShader appends a shader to the shader table and returns its index.
func (f *fixture) addShader(name string) uint32 {
	ci := device.ShaderCreateInfo{Name: name, EntryPoint: "main"}
	raw, err := wire.EncodeShader(ci)
	if err != nil {
		panic(err)
	}
	return f.b.AddShader(raw)
}

func (f *fixture) addGraphicsPSO(name string, sigNames []string, shaderIndices []uint32) {
	pc := wire.PipelineCommon{Name: name, Type: device.PipelineGraphics, SignatureNames: sigNames}
	tail, err := wire.EncodePipelineCommon(pc)
	if err != nil {
		panic(err)
	}
	block, err := wire.EncodeShaderIndices(shaderIndices)
	if err != nil {
		panic(err)
	}
	var hdr archive.CommonHeader
	hdr.Type = archive.ChunkGraphicsPipelineStates
	off := f.b.AddBackendBlock(f.backend, block)
	hdr.SetBackend(f.backend, off, uint32(len(block)))
	if err := f.b.AddNamed(archive.DirGraphicsPSO, name, commonBytes(hdr, tail)); err != nil {
		panic(err)
	}
}

func (f *fixture) addRayTracingPSO(name string, sigNames []string, groups []device.ShaderGroup) {
	pc := wire.PipelineCommon{Name: name, Type: device.PipelineRayTracing, SignatureNames: sigNames}
	tail, err := wire.EncodePipelineCommon(pc)
	if err != nil {
		panic(err)
	}
	idxBlock, err := wire.EncodeShaderIndices(nil)
	if err != nil {
		panic(err)
	}
	groupBlock, err := wire.EncodeShaderGroups(groups)
	if err != nil {
		panic(err)
	}
	block := append(idxBlock, groupBlock...)
	var hdr archive.CommonHeader
	hdr.Type = archive.ChunkRayTracingPipelineStates
	off := f.b.AddBackendBlock(f.backend, block)
	hdr.SetBackend(f.backend, off, uint32(len(block)))
	if err := f.b.AddNamed(archive.DirRayTracingPSO, name, commonBytes(hdr, tail)); err != nil {
		panic(err)
	}
}

func (f *fixture) open(t *testing.T) *archive.Archive {
	t.Helper()
	data := f.b.Build()
	a, err := archive.Open(&memSource{data: data}, f.backend, nil)
	if err != nil {
		t.Fatalf("archive.Open: %v", err)
	}
	return a
}

// TestUnpackShaderCacheHit is scenario S4: two graphics PSOs sharing a
// shader index must trigger exactly one CreateShader call for it.
func TestUnpackShaderCacheHit(t *testing.T) {
	f := newFixture()
	f.addSignature("Sig")
	shared := f.addShader("Shared")
	other1 := f.addShader("Only1")
	other2 := f.addShader("Only2")
	f.addGraphicsPSO("P1", []string{"Sig"}, []uint32{shared, other1})
	f.addGraphicsPSO("P2", []string{"Sig"}, []uint32{shared, other2})

	a := f.open(t)
	dev := newFakeDevice()
	u := New(a, dev, nil)

	if _, err := u.UnpackGraphicsPipelineState(context.Background(), "P1", nil); err != nil {
		t.Fatalf("unpack P1: %v", err)
	}
	if _, err := u.UnpackGraphicsPipelineState(context.Background(), "P2", nil); err != nil {
		t.Fatalf("unpack P2: %v", err)
	}
	if got := dev.shaderCallCount("Shared"); got != 1 {
		t.Fatalf("CreateShader(Shared) called %d times, want 1", got)
	}
}

// TestUnpackRayTracingRemap is scenario S5: a sentinel index resolves
// to a nil shader, a real index resolves to the constructed shader.
func TestUnpackRayTracingRemap(t *testing.T) {
	f := newFixture()
	f.addSignature("Sig")
	hit := f.addShader("ClosestHit")
	groups := []device.ShaderGroup{
		{
			Name:       "Group0",
			General:    device.ShaderGroupShaderRef{Index: device.NoShaderIndex},
			ClosestHit: device.ShaderGroupShaderRef{Index: hit},
		},
	}
	f.addRayTracingPSO("RTPSO", []string{"Sig"}, groups)

	a := f.open(t)
	dev := newFakeDevice()
	u := New(a, dev, nil)

	var captured device.PipelineStateCreateInfo
	mutate := func(ci *device.PipelineStateCreateInfo) error {
		captured = *ci
		return nil
	}
	if _, err := u.UnpackRayTracingPipelineState(context.Background(), "RTPSO", mutate); err != nil {
		t.Fatalf("unpack: %v", err)
	}
	if len(captured.ShaderGroups) != 1 {
		t.Fatalf("shader groups = %d, want 1", len(captured.ShaderGroups))
	}
	g := captured.ShaderGroups[0]
	if g.General.Resolved != nil {
		t.Fatalf("sentinel general slot resolved to %v, want nil", g.General.Resolved)
	}
	sh, ok := g.ClosestHit.Resolved.(*fakeShader)
	if !ok || sh.name != "ClosestHit" {
		t.Fatalf("closest-hit slot resolved to %v, want ClosestHit shader", g.ClosestHit.Resolved)
	}
}

// TestUnpackPlainShaderIndexSentinelErrors is Open Question 1's
// resolution: device.NoShaderIndex has no "optional slot" meaning in a
// plain (non-ray-tracing) shader-index list, so it must error rather
// than silently resolve to a nil shader.
func TestUnpackPlainShaderIndexSentinelErrors(t *testing.T) {
	f := newFixture()
	f.addSignature("Sig")
	f.addGraphicsPSO("P1", []string{"Sig"}, []uint32{device.NoShaderIndex})

	a := f.open(t)
	u := New(a, newFakeDevice(), nil)

	_, err := u.UnpackGraphicsPipelineState(context.Background(), "P1", nil)
	if device.KindOf(err) != device.ErrorNotFound {
		t.Fatalf("kind = %v, want ErrorNotFound", device.KindOf(err))
	}
}

// TestUnpackModificationLockout is invariant 6: a mutation callback
// that changes the resource layout fails IllegalModification and
// constructs nothing.
func TestUnpackModificationLockout(t *testing.T) {
	f := newFixture()
	f.addSignature("Sig")
	idx := f.addShader("VS")
	f.addGraphicsPSO("P1", []string{"Sig"}, []uint32{idx})

	a := f.open(t)
	dev := newFakeDevice()
	u := New(a, dev, nil)

	mutate := func(ci *device.PipelineStateCreateInfo) error {
		ci.Layout.SignatureNames = append(ci.Layout.SignatureNames, "Extra")
		return nil
	}
	_, err := u.UnpackGraphicsPipelineState(context.Background(), "P1", mutate)
	if device.KindOf(err) != device.ErrorIllegalModification {
		t.Fatalf("kind = %v, want ErrorIllegalModification", device.KindOf(err))
	}
}

// TestUnpackConcurrentShaderResolution is invariant 5: concurrent
// unpacks of PSOs sharing a shader index all succeed, and CreateShader
// for that shader runs at least once and at most once per unpack.
func TestUnpackConcurrentShaderResolution(t *testing.T) {
	f := newFixture()
	f.addSignature("Sig")
	shared := f.addShader("Shared")
	const n = 8
	names := make([]string, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("P%d", i)
		names[i] = name
		f.addGraphicsPSO(name, []string{"Sig"}, []uint32{shared})
	}

	a := f.open(t)
	dev := newFakeDevice()
	u := New(a, dev, nil)

	results := make([]device.PipelineState, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pso, err := u.UnpackGraphicsPipelineState(context.Background(), names[i], nil)
			if err != nil {
				t.Errorf("unpack %s: %v", names[i], err)
				return
			}
			results[i] = pso
		}(i)
	}
	wg.Wait()

	if got := dev.shaderCallCount("Shared"); got < 1 || got > n {
		t.Fatalf("CreateShader(Shared) called %d times, want between 1 and %d", got, n)
	}
	for i, r := range results {
		if r == nil {
			t.Fatalf("result %d is nil", i)
		}
	}
}

func TestUnpackResourceSignature(t *testing.T) {
	f := newFixture()
	f.addSignature("Sig")
	a := f.open(t)
	u := New(a, newFakeDevice(), nil)

	sig, err := u.UnpackResourceSignature(context.Background(), "Sig")
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}
	if sig.(*fakeSignature).name != "Sig" {
		t.Fatalf("got %v", sig)
	}
	// second call must hit the cache, not construct again.
	sig2, err := u.UnpackResourceSignature(context.Background(), "Sig")
	if err != nil {
		t.Fatalf("unpack (cached): %v", err)
	}
	if sig != sig2 {
		t.Fatalf("cached signature differs from first")
	}
}

func TestUnpackRenderPassNotFound(t *testing.T) {
	f := newFixture()
	f.addSignature("Sig")
	a := f.open(t)
	u := New(a, newFakeDevice(), nil)

	_, err := u.UnpackRenderPass(context.Background(), "Missing")
	if device.KindOf(err) != device.ErrorNotFound {
		t.Fatalf("kind = %v, want ErrorNotFound", device.KindOf(err))
	}
}
