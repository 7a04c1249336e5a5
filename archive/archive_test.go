// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"testing"

	"github.com/study-game-engines/diligent-core/device"
	"github.com/study-game-engines/diligent-core/internal/serial"
)

// headerAndTail serializes a CommonHeader followed by raw tail bytes,
// the shape every named entry's common block takes on disk.
func headerAndTail(hdr CommonHeader, tail []byte) []byte {
	ser := serial.NewWriter(64)
	if err := WriteCommonHeader(ser, hdr); err != nil {
		panic(err)
	}
	ser.RawBytes(tail, len(tail))
	return ser.Bytes()
}

func newReaderFor(buf []byte) *serial.Serializer {
	return serial.NewReader(buf)
}

func TestOpenRoundTrip(t *testing.T) {
	b := NewBuilder()
	b.SetDebugInfo("v1.2.3", "deadbeef")

	var hdr CommonHeader
	vkOff := b.AddBackendBlock(device.BackendVulkan, []byte{1, 2, 3, 4})
	hdr.SetBackend(device.BackendVulkan, vkOff, 4)
	hdr.Type = ChunkResourceSignature
	ser := headerAndTail(hdr, []byte("tail-bytes"))
	if err := b.AddNamed(DirSignatures, "MainSig", ser); err != nil {
		t.Fatalf("AddNamed: %v", err)
	}

	shaderIdx := b.AddShader([]byte{0xAA, 0xBB, 0xCC})
	if shaderIdx != 0 {
		t.Fatalf("shaderIdx = %d, want 0", shaderIdx)
	}

	data := b.Build()

	a, err := Open(&memSource{data: data}, device.BackendVulkan, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if a.DebugAPIVersion() != "v1.2.3" || a.DebugCommitHash() != "deadbeef" {
		t.Fatalf("debug info = %q/%q", a.DebugAPIVersion(), a.DebugCommitHash())
	}

	loc := a.Directory(DirSignatures).GetOffsetAndSize("MainSig")
	if !loc.IsValid() {
		t.Fatalf("MainSig not found")
	}
	common, err := a.ReadCommon(loc)
	if err != nil {
		t.Fatalf("ReadCommon: %v", err)
	}
	gotHdr, err := ReadCommonHeader(newReaderFor(common))
	if err != nil {
		t.Fatalf("ReadCommonHeader: %v", err)
	}
	if gotHdr.GetSize(device.BackendVulkan) != 4 {
		t.Fatalf("backend size = %d, want 4", gotHdr.GetSize(device.BackendVulkan))
	}

	block, err := a.ReadBackendBlock(gotHdr.GetOffset(device.BackendVulkan), gotHdr.GetSize(device.BackendVulkan))
	if err != nil {
		t.Fatalf("ReadBackendBlock: %v", err)
	}
	if string(block) != "\x01\x02\x03\x04" {
		t.Fatalf("block = %x", block)
	}

	if a.Shaders().Len() != 1 {
		t.Fatalf("shader count = %d, want 1", a.Shaders().Len())
	}
}

func TestOpenBadMagic(t *testing.T) {
	data := make([]byte, headerSize)
	_, err := Open(&memSource{data: data}, device.BackendVulkan, nil)
	if device.KindOf(err) != device.ErrorBadMagic {
		t.Fatalf("kind = %v, want ErrorBadMagic", device.KindOf(err))
	}
}

func TestOpenVersionMismatch(t *testing.T) {
	ser := serial.NewWriter(headerSize)
	ser.Uint32(Magic)
	ser.Uint32(CurrentVersion + 1)
	ser.Uint32(0)
	for i := 0; i < device.NumBackends; i++ {
		ser.Uint32(0)
	}
	_, err := Open(&memSource{data: ser.Bytes()}, device.BackendVulkan, nil)
	if device.KindOf(err) != device.ErrorUnsupportedVersion {
		t.Fatalf("kind = %v, want ErrorUnsupportedVersion", device.KindOf(err))
	}
}

func TestDirectoryDuplicateName(t *testing.T) {
	d := NewDirectory()
	if err := d.Insert("x", 0, 1); err != nil {
		t.Fatal(err)
	}
	err := d.Insert("x", 2, 3)
	if device.KindOf(err) != device.ErrorDuplicateName {
		t.Fatalf("kind = %v, want ErrorDuplicateName", device.KindOf(err))
	}
}
