// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package serial

import "encoding/binary"

// Uint32 encodes or decodes a little-endian uint32 at the cursor. In
// ModeRead it returns the decoded value; in ModeWrite/ModeMeasure the
// return value is the same v passed in (useful for chaining) and the
// cursor advances by 4.
func (s *Serializer) Uint32(v uint32) (uint32, error) {
	switch s.mode {
	case ModeMeasure:
		s.cursor += 4
		return v, nil
	case ModeWrite:
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		s.buf = append(s.buf, b[:]...)
		s.cursor += 4
		return v, nil
	default: // ModeRead
		if s.Remaining() < 4 {
			return 0, underflow("Serializer.Uint32", 4, s.Remaining())
		}
		out := binary.LittleEndian.Uint32(s.buf[s.cursor:])
		s.cursor += 4
		return out, nil
	}
}

// Int32 is the signed counterpart of Uint32.
func (s *Serializer) Int32(v int32) (int32, error) {
	out, err := s.Uint32(uint32(v))
	return int32(out), err
}

// Uint64 encodes or decodes a little-endian uint64.
func (s *Serializer) Uint64(v uint64) (uint64, error) {
	switch s.mode {
	case ModeMeasure:
		s.cursor += 8
		return v, nil
	case ModeWrite:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], v)
		s.buf = append(s.buf, b[:]...)
		s.cursor += 8
		return v, nil
	default:
		if s.Remaining() < 8 {
			return 0, underflow("Serializer.Uint64", 8, s.Remaining())
		}
		out := binary.LittleEndian.Uint64(s.buf[s.cursor:])
		s.cursor += 8
		return out, nil
	}
}

// Byte encodes or decodes a single byte.
func (s *Serializer) Byte(v byte) (byte, error) {
	switch s.mode {
	case ModeMeasure:
		s.cursor++
		return v, nil
	case ModeWrite:
		s.buf = append(s.buf, v)
		s.cursor++
		return v, nil
	default:
		if s.Remaining() < 1 {
			return 0, underflow("Serializer.Byte", 1, s.Remaining())
		}
		out := s.buf[s.cursor]
		s.cursor++
		return out, nil
	}
}

// RawBytes encodes or decodes n raw bytes with no length prefix. In
// ModeWrite, v must have length n; its bytes are copied into the
// output. In ModeRead, the returned slice aliases the source buffer —
// the caller must copy it (e.g. via an arena) before the source buffer
// is freed or reused.
func (s *Serializer) RawBytes(v []byte, n int) ([]byte, error) {
	switch s.mode {
	case ModeMeasure:
		s.cursor += n
		return v, nil
	case ModeWrite:
		s.buf = append(s.buf, v[:n]...)
		s.cursor += n
		return v, nil
	default:
		if s.Remaining() < n {
			return nil, underflow("Serializer.RawBytes", n, s.Remaining())
		}
		out := s.buf[s.cursor : s.cursor+n]
		s.cursor += n
		return out, nil
	}
}

// String encodes or decodes a length-prefixed (uint32 length) UTF-8
// string. In ModeRead, the returned string is a copy of the source
// bytes, not an alias: Go strings are immutable, and a zero-copy alias
// would let the caller observe mutation of the source buffer through
// an immutable type. Byte-for-byte this still satisfies the round-trip
// law.
func (s *Serializer) String(v string) (string, error) {
	switch s.mode {
	case ModeMeasure:
		s.cursor += 4 + len(v)
		return v, nil
	case ModeWrite:
		if _, err := s.Uint32(uint32(len(v))); err != nil {
			return v, err
		}
		s.buf = append(s.buf, v...)
		s.cursor += len(v)
		return v, nil
	default:
		n, err := s.Uint32(0)
		if err != nil {
			return "", err
		}
		raw, err := s.RawBytes(nil, int(n))
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
}

// CString encodes or decodes a NUL-terminated string, the format used
// for directory entry names (spec.md §6: "cstring name"). In ModeRead
// the returned string is copied out of the source buffer (see the
// note on String for why this module never returns a zero-copy alias
// for decoded strings); the in-buffer NUL terminator is consumed but
// not included in the returned value.
func (s *Serializer) CString(v string) (string, error) {
	switch s.mode {
	case ModeMeasure:
		s.cursor += len(v) + 1
		return v, nil
	case ModeWrite:
		s.buf = append(s.buf, v...)
		s.buf = append(s.buf, 0)
		s.cursor += len(v) + 1
		return v, nil
	default:
		start := s.cursor
		for s.cursor < len(s.buf) && s.buf[s.cursor] != 0 {
			s.cursor++
		}
		if s.cursor >= len(s.buf) {
			return "", underflow("Serializer.CString", 1, 0)
		}
		out := string(s.buf[start:s.cursor])
		s.cursor++ // consume the NUL
		return out, nil
	}
}

// Uint32Array encodes or decodes a repeat-count-prefixed array of
// uint32 values.
func (s *Serializer) Uint32Array(v []uint32) ([]uint32, error) {
	switch s.mode {
	case ModeMeasure:
		s.cursor += 4 + 4*len(v)
		return v, nil
	case ModeWrite:
		if _, err := s.Uint32(uint32(len(v))); err != nil {
			return v, err
		}
		for _, x := range v {
			if _, err := s.Uint32(x); err != nil {
				return v, err
			}
		}
		return v, nil
	default:
		n, err := s.Uint32(0)
		if err != nil {
			return nil, err
		}
		out := make([]uint32, n)
		for i := range out {
			val, err := s.Uint32(0)
			if err != nil {
				return nil, err
			}
			out[i] = val
		}
		return out, nil
	}
}

// Skip advances the cursor by n bytes without reading or writing any
// value, used when a caller wants direct access to a sub-range (e.g.
// per-backend data blocks the unpacker hands straight to the device).
func (s *Serializer) Skip(n int) error {
	switch s.mode {
	case ModeMeasure:
		s.cursor += n
		return nil
	case ModeWrite:
		s.buf = append(s.buf, make([]byte, n)...)
		s.cursor += n
		return nil
	default:
		if s.Remaining() < n {
			return underflow("Serializer.Skip", n, s.Remaining())
		}
		s.cursor += n
		return nil
	}
}
