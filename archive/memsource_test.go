// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import "fmt"

// memSource is a trivial in-memory device.ByteSource used by this
// package's tests; the concurrency contract (§5) is satisfied
// trivially since reads never mutate the backing slice.
type memSource struct {
	data []byte
}

func (m *memSource) Size() int64 { return int64(len(m.data)) }

func (m *memSource) Read(offset, size int64, dest []byte) error {
	if offset < 0 || size < 0 || offset+size > int64(len(m.data)) {
		return fmt.Errorf("out of range read: offset=%d size=%d len=%d", offset, size, len(m.data))
	}
	copy(dest, m.data[offset:offset+size])
	return nil
}
