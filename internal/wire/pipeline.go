// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"github.com/study-game-engines/diligent-core/device"
	"github.com/study-game-engines/diligent-core/internal/serial"
)

// PipelineCommon is the decoded backend-independent shape of a
// pipeline state entry's common block: everything needed before
// shaders and signatures are resolved (spec.md §3 "Pipeline state
// entry").
type PipelineCommon struct {
	Name           string
	Type           device.PipelineType
	RenderPassName string // empty unless Type == PipelineGraphics and a pass is bound
	SignatureNames []string
	LayoutRaw      []byte
}

// EncodePipelineCommon serializes c.
func EncodePipelineCommon(c PipelineCommon) ([]byte, error) {
	ser := serial.NewWriter(128)
	if _, err := ser.CString(c.Name); err != nil {
		return nil, err
	}
	if _, err := ser.Uint32(uint32(c.Type)); err != nil {
		return nil, err
	}
	if _, err := ser.CString(c.RenderPassName); err != nil {
		return nil, err
	}
	if _, err := ser.Uint32(uint32(len(c.SignatureNames))); err != nil {
		return nil, err
	}
	for _, n := range c.SignatureNames {
		if _, err := ser.CString(n); err != nil {
			return nil, err
		}
	}
	if _, err := ser.Uint32(uint32(len(c.LayoutRaw))); err != nil {
		return nil, err
	}
	if _, err := ser.RawBytes(c.LayoutRaw, len(c.LayoutRaw)); err != nil {
		return nil, err
	}
	return ser.Bytes(), nil
}

// DecodePipelineCommon parses a PipelineCommon from body.
func DecodePipelineCommon(body []byte) (PipelineCommon, error) {
	var c PipelineCommon
	ser := serial.NewReader(body)

	name, err := ser.CString("")
	if err != nil {
		return c, err
	}
	typ, err := ser.Uint32(0)
	if err != nil {
		return c, err
	}
	rpName, err := ser.CString("")
	if err != nil {
		return c, err
	}
	sigCount, err := ser.Uint32(0)
	if err != nil {
		return c, err
	}
	sigNames := make([]string, sigCount)
	for i := range sigNames {
		n, err := ser.CString("")
		if err != nil {
			return c, err
		}
		sigNames[i] = n
	}
	rawLen, err := ser.Uint32(0)
	if err != nil {
		return c, err
	}
	raw, err := ser.RawBytes(nil, int(rawLen))
	if err != nil {
		return c, err
	}

	c.Name = name
	c.Type = device.PipelineType(typ)
	c.RenderPassName = rpName
	c.SignatureNames = sigNames
	c.LayoutRaw = append([]byte(nil), raw...)
	return c, nil
}

// EncodeShaderIndices encodes the PSO's shader-table index list for
// the backend block. The list has no "no shader" slot: the unpacker
// rejects device.NoShaderIndex in it as an out-of-range index.
func EncodeShaderIndices(indices []uint32) ([]byte, error) {
	ser := serial.NewWriter(4 + 4*len(indices))
	if _, err := ser.Uint32Array(indices); err != nil {
		return nil, err
	}
	return ser.Bytes(), nil
}

// DecodeShaderIndices reads the PSO's shader-table index list.
func DecodeShaderIndices(body []byte) ([]uint32, error) {
	ser := serial.NewReader(body)
	return DecodeShaderIndicesFrom(ser)
}

// DecodeShaderIndicesFrom reads a shader-table index list from ser at
// its current cursor, for callers decoding it as one section of a
// larger backend block shared with shader-group data.
func DecodeShaderIndicesFrom(ser *serial.Serializer) ([]uint32, error) {
	return ser.Uint32Array(nil)
}

// EncodeShaderGroups appends ray-tracing shader-group descriptors,
// writing each slot's raw archive shader-table index (pre-resolution).
func EncodeShaderGroups(groups []device.ShaderGroup) ([]byte, error) {
	ser := serial.NewWriter(64 * len(groups))
	if _, err := ser.Uint32(uint32(len(groups))); err != nil {
		return nil, err
	}
	for _, g := range groups {
		if _, err := ser.CString(g.Name); err != nil {
			return nil, err
		}
		for _, ref := range []device.ShaderGroupShaderRef{g.General, g.ClosestHit, g.AnyHit, g.Intersection} {
			if _, err := ser.Uint32(ref.Index); err != nil {
				return nil, err
			}
		}
	}
	return ser.Bytes(), nil
}

// DecodeShaderGroups reads ray-tracing shader-group descriptors. Each
// group's shader fields are left unresolved (Index set, Resolved nil)
// until the unpacker wires in constructed shaders.
func DecodeShaderGroups(body []byte) ([]device.ShaderGroup, error) {
	ser := serial.NewReader(body)
	return DecodeShaderGroupsFrom(ser)
}

// DecodeShaderGroupsFrom reads shader-group descriptors from ser at
// its current cursor, for callers decoding it as one section of a
// larger backend block shared with the shader-index list.
func DecodeShaderGroupsFrom(ser *serial.Serializer) ([]device.ShaderGroup, error) {
	count, err := ser.Uint32(0)
	if err != nil {
		return nil, err
	}
	groups := make([]device.ShaderGroup, count)
	for i := range groups {
		name, err := ser.CString("")
		if err != nil {
			return nil, err
		}
		var idx [4]uint32
		for j := range idx {
			v, err := ser.Uint32(0)
			if err != nil {
				return nil, err
			}
			idx[j] = v
		}
		groups[i] = device.ShaderGroup{
			Name:         name,
			General:      device.ShaderGroupShaderRef{Index: idx[0]},
			ClosestHit:   device.ShaderGroupShaderRef{Index: idx[1]},
			AnyHit:       device.ShaderGroupShaderRef{Index: idx[2]},
			Intersection: device.ShaderGroupShaderRef{Index: idx[3]},
		}
	}
	return groups, nil
}
