// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR encoding used for the archive's
// optional debug-info extension map. Core Deterministic Encoding (RFC
// 8949 §4.2) guarantees that encoding the same logical map always
// produces identical bytes, which keeps archives byte-reproducible
// across serialization runs.
package codec

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

var encMode cbor.EncMode
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// The extension map is always map[string]any on decode.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to CBOR using Core Deterministic Encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v. Unknown map keys are ignored,
// so older readers tolerate newer writers adding extension fields.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}
