// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"github.com/study-game-engines/diligent-core/device"
	"github.com/study-game-engines/diligent-core/internal/serial"
)

// EncodeShader serializes a shader's create info — name, stage, entry
// point, and its compiled bytecode — as the raw bytes stored at the
// shader table's (offset, size) for one entry.
func EncodeShader(ci device.ShaderCreateInfo) ([]byte, error) {
	ser := serial.NewWriter(32 + len(ci.ByteCode))
	if _, err := ser.CString(ci.Name); err != nil {
		return nil, err
	}
	if _, err := ser.Uint32(uint32(ci.Stage)); err != nil {
		return nil, err
	}
	if _, err := ser.CString(ci.EntryPoint); err != nil {
		return nil, err
	}
	if _, err := ser.Uint32(uint32(len(ci.ByteCode))); err != nil {
		return nil, err
	}
	if _, err := ser.RawBytes(ci.ByteCode, len(ci.ByteCode)); err != nil {
		return nil, err
	}
	return ser.Bytes(), nil
}

// DecodeShader parses a shader's create info from its shader-table entry bytes.
func DecodeShader(body []byte) (device.ShaderCreateInfo, error) {
	var ci device.ShaderCreateInfo
	ser := serial.NewReader(body)
	name, err := ser.CString("")
	if err != nil {
		return ci, err
	}
	stage, err := ser.Uint32(0)
	if err != nil {
		return ci, err
	}
	entry, err := ser.CString("")
	if err != nil {
		return ci, err
	}
	n, err := ser.Uint32(0)
	if err != nil {
		return ci, err
	}
	raw, err := ser.RawBytes(nil, int(n))
	if err != nil {
		return ci, err
	}
	ci.Name = name
	ci.Stage = device.ShaderStage(stage)
	ci.EntryPoint = entry
	ci.ByteCode = append([]byte(nil), raw...)
	return ci, nil
}
