// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package device

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed taxonomy of §7. Every error this module
// returns from a construction or unpack boundary can be classified
// into exactly one of these via [KindOf].
type ErrorKind int

const (
	ErrorUnknown ErrorKind = iota
	ErrorBadMagic
	ErrorUnsupportedVersion
	ErrorDuplicateChunk
	ErrorUnknownChunkType
	ErrorDuplicateName
	ErrorNotFound
	ErrorTypeMismatch
	ErrorDecodeUnderflow
	ErrorMissingBackendData
	ErrorIllegalModification
	ErrorInvalidSignatureLayout
	ErrorDeviceConstructionFailed
	ErrorIO
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorBadMagic:
		return "BadMagic"
	case ErrorUnsupportedVersion:
		return "UnsupportedVersion"
	case ErrorDuplicateChunk:
		return "DuplicateChunk"
	case ErrorUnknownChunkType:
		return "UnknownChunkType"
	case ErrorDuplicateName:
		return "DuplicateName"
	case ErrorNotFound:
		return "NotFound"
	case ErrorTypeMismatch:
		return "TypeMismatch"
	case ErrorDecodeUnderflow:
		return "DecodeUnderflow"
	case ErrorMissingBackendData:
		return "MissingBackendData"
	case ErrorIllegalModification:
		return "IllegalModification"
	case ErrorInvalidSignatureLayout:
		return "InvalidSignatureLayout"
	case ErrorDeviceConstructionFailed:
		return "DeviceConstructionFailed"
	case ErrorIO:
		return "IoError"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type every package in this module
// returns at a boundary named in §7. Op identifies the operation that
// failed (e.g. "archive.Open", "unpack.UnpackPipelineState").
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds an *Error, wrapping a lower-level cause.
func NewError(kind ErrorKind, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Err: cause}
}

// KindOf extracts the ErrorKind from err if it (or something it wraps)
// is an *Error produced by this module. Returns ErrorUnknown otherwise.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrorUnknown
}
