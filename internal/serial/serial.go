// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package serial implements the cursor-based binary serializer of
// spec.md §4.1: sequential typed encode/decode over a byte buffer with
// bounds checking on every read. Encoding and decoding share the same
// operation set, so encode(x) followed by decode() reproduces x
// byte-identically (the round-trip law, spec.md §8 invariant 1).
package serial

import (
	"fmt"

	"github.com/study-game-engines/diligent-core/device"
)

// Mode selects how a Serializer's operations behave.
type Mode int

const (
	// ModeWrite appends encoded bytes to a growable buffer.
	ModeWrite Mode = iota
	// ModeRead decodes from a fixed buffer, advancing the cursor.
	ModeRead
	// ModeMeasure performs no reads or writes; it only advances a byte
	// counter, used to size a buffer before a real ModeWrite pass.
	ModeMeasure
)

// Serializer is a cursor over a byte slice. In ModeWrite it owns a
// growable buffer (via append); in ModeRead it walks a caller-supplied
// slice without copying; in ModeMeasure it holds no buffer and only
// advances the cursor.
type Serializer struct {
	mode   Mode
	buf    []byte // ModeWrite: accumulated output. ModeRead: source.
	cursor int
}

// NewWriter returns a Serializer in ModeWrite, ready to append encoded
// values. cap is an optional size hint (pass 0 if unknown).
func NewWriter(cap int) *Serializer {
	return &Serializer{mode: ModeWrite, buf: make([]byte, 0, cap)}
}

// NewReader returns a Serializer in ModeRead over buf. buf is not
// copied — the caller must not mutate it while reads are outstanding,
// and slices returned by RawBytes alias it. Decoded strings are copies
// (see String).
func NewReader(buf []byte) *Serializer {
	return &Serializer{mode: ModeRead, buf: buf}
}

// NewMeasurer returns a Serializer in ModeMeasure for computing the
// encoded size of a value before allocating a write buffer.
func NewMeasurer() *Serializer {
	return &Serializer{mode: ModeMeasure}
}

// Mode returns the serializer's mode.
func (s *Serializer) Mode() Mode { return s.mode }

// Bytes returns the accumulated buffer. Valid in ModeWrite (the
// encoded output) and ModeRead (the original source).
func (s *Serializer) Bytes() []byte { return s.buf }

// Cursor returns the current byte offset.
func (s *Serializer) Cursor() int { return s.cursor }

// IsEnd reports whether the cursor has reached the end of the buffer.
// Only meaningful in ModeRead.
func (s *Serializer) IsEnd() bool { return s.cursor >= len(s.buf) }

// Remaining returns the number of unread bytes. Only meaningful in
// ModeRead.
func (s *Serializer) Remaining() int {
	if s.cursor >= len(s.buf) {
		return 0
	}
	return len(s.buf) - s.cursor
}

// underflow builds the DecodeUnderflow error for a short read.
func underflow(op string, want, have int) error {
	return device.NewError(device.ErrorDecodeUnderflow, op,
		fmt.Errorf("need %d bytes, have %d", want, have))
}
