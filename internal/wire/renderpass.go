// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"github.com/study-game-engines/diligent-core/device"
	"github.com/study-game-engines/diligent-core/internal/serial"
)

// EncodeRenderPass serializes a render pass's create info. The
// subpass/attachment layout is treated as an opaque blob this module
// never inspects past round-tripping it to the device.
func EncodeRenderPass(ci device.RenderPassCreateInfo) ([]byte, error) {
	ser := serial.NewWriter(32 + len(ci.Desc))
	if _, err := ser.CString(ci.Name); err != nil {
		return nil, err
	}
	if _, err := ser.Uint32(uint32(len(ci.Desc))); err != nil {
		return nil, err
	}
	if _, err := ser.RawBytes(ci.Desc, len(ci.Desc)); err != nil {
		return nil, err
	}
	return ser.Bytes(), nil
}

// DecodeRenderPass parses a render pass's create info from body.
func DecodeRenderPass(body []byte) (device.RenderPassCreateInfo, error) {
	var ci device.RenderPassCreateInfo
	ser := serial.NewReader(body)
	name, err := ser.CString("")
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
	ci.Desc = append([]byte(nil), raw...)
	return ci, nil
}
