// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package wire implements the on-the-wire encoding of the create-info
// structs the archive's common and per-backend blocks carry (spec.md
// §3 "Resource signature descriptor", "Pipeline state entry"). It sits
// between internal/serial (the cursor primitives) and the two
// packages that need the same layout from opposite directions:
// package unpack decodes it, package serialize encodes it.
package wire

import (
	"github.com/study-game-engines/diligent-core/device"
	"github.com/study-game-engines/diligent-core/internal/serial"
)

// EncodeResourceDesc appends one PipelineResourceDesc to ser.
func EncodeResourceDesc(ser *serial.Serializer, d device.PipelineResourceDesc) error {
	if _, err := ser.CString(d.Name); err != nil {
		return err
	}
	if _, err := ser.Uint32(uint32(d.ResourceType)); err != nil {
		return err
	}
	if _, err := ser.Uint32(uint32(d.ShaderStages)); err != nil {
		return err
	}
	if _, err := ser.Uint32(d.ArraySize); err != nil {
		return err
	}
	if _, err := ser.Uint32(uint32(d.Flags)); err != nil {
		return err
	}
	return nil
}

// DecodeResourceDesc reads one PipelineResourceDesc from ser.
func DecodeResourceDesc(ser *serial.Serializer) (device.PipelineResourceDesc, error) {
	var d device.PipelineResourceDesc
	name, err := ser.CString("")
	if err != nil {
		return d, err
	}
	rt, err := ser.Uint32(0)
	if err != nil {
		return d, err
	}
	stages, err := ser.Uint32(0)
	if err != nil {
		return d, err
	}
	arr, err := ser.Uint32(0)
	if err != nil {
		return d, err
	}
	flags, err := ser.Uint32(0)
	if err != nil {
		return d, err
	}
	d.Name = name
	d.ResourceType = device.ResourceType(rt)
	d.ShaderStages = device.ShaderStage(stages)
	d.ArraySize = arr
	d.Flags = device.ResourceFlag(flags)
	return d, nil
}

// EncodeImmutableSampler appends one ImmutableSamplerDesc to ser.
func EncodeImmutableSampler(ser *serial.Serializer, d device.ImmutableSamplerDesc) error {
	if _, err := ser.CString(d.SamplerOrTextureName); err != nil {
		return err
	}
	if _, err := ser.Uint32(uint32(d.ShaderStages)); err != nil {
		return err
	}
	return nil
}

// DecodeImmutableSampler reads one ImmutableSamplerDesc from ser.
func DecodeImmutableSampler(ser *serial.Serializer) (device.ImmutableSamplerDesc, error) {
	var d device.ImmutableSamplerDesc
	name, err := ser.CString("")
	if err != nil {
		return d, err
	}
	stages, err := ser.Uint32(0)
	if err != nil {
		return d, err
	}
	d.SamplerOrTextureName = name
	d.ShaderStages = device.ShaderStage(stages)
	return d, nil
}
