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

// UnpackResourceSignature reconstructs the named resource signature,
// returning the directory's cached object if one is already present.
func (u *Archive) UnpackResourceSignature(ctx context.Context, name string) (device.ResourceSignature, error) {
	dir := u.a.Directory(archive.DirSignatures)

	if cached, ok := dir.GetCached(name); ok {
		return cached.(device.ResourceSignature), nil
	}

	loc := dir.GetOffsetAndSize(name)
	if !loc.IsValid() {
		return nil, notFound("unpack.UnpackResourceSignature", name)
	}

	common, err := u.a.ReadCommon(loc)
	if err != nil {
		return nil, err
	}
	header, tail, err := splitCommonHeader(common, "unpack.UnpackResourceSignature")
	if err != nil {
		return nil, err
	}
	if header.Type != archive.ChunkResourceSignature {
		return nil, typeMismatch("unpack.UnpackResourceSignature", header.Type, archive.ChunkResourceSignature)
	}

	desc, err := wire.DecodeSignatureCommon(tail)
	if err != nil {
		return nil, device.NewError(device.ErrorIO, "unpack.UnpackResourceSignature", err)
	}

	backend := u.a.Backend()
	if backend != device.BackendMetaliOS && backend != device.BackendMetalMacOS {
		size := header.GetSize(backend)
		if size == 0 {
			return nil, device.NewError(device.ErrorMissingBackendData, "unpack.UnpackResourceSignature",
				fmt.Errorf("signature %q has no data for backend %s", name, backend))
		}
		backendBytes, err := u.a.ReadBackendBlock(header.GetOffset(backend), size)
		if err != nil {
			return nil, err
		}
		if err := wire.DecodeSignatureBackendInto(&desc, backend, backendBytes); err != nil {
			return nil, device.NewError(device.ErrorIO, "unpack.UnpackResourceSignature", err)
		}
	}

	sig, err := u.dev.CreatePipelineResourceSignature(ctx, desc, backend)
	if err != nil {
		return nil, device.NewError(device.ErrorDeviceConstructionFailed, "unpack.UnpackResourceSignature", err)
	}

	dir.SetCached(name, sig)
	return sig, nil
}

// splitCommonHeader decodes a CommonHeader from the front of common
// and returns it along with the remaining create-info tail bytes.
func splitCommonHeader(common []byte, op string) (archive.CommonHeader, []byte, error) {
	ser := serial.NewReader(common)
	header, err := archive.ReadCommonHeader(ser)
	if err != nil {
		return header, nil, device.NewError(device.ErrorIO, op, err)
	}
	return header, common[ser.Cursor():], nil
}
