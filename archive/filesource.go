// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"fmt"
	"os"
)

// FileSource adapts an *os.File to device.ByteSource. It is the
// default filesystem-backed source this package ships alongside the
// interface, the way the teacher's stores always pair an interface
// with a concrete on-disk implementation.
type FileSource struct {
	f    *os.File
	size int64
}

// OpenFile opens path and wraps it as a FileSource.
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("archive.OpenFile: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("archive.OpenFile: %w", err)
	}
	return &FileSource{f: f, size: info.Size()}, nil
}

// Size returns the file's length in bytes.
func (s *FileSource) Size() int64 { return s.size }

// Read implements device.ByteSource. Concurrent calls are safe: it
// uses ReadAt, which does not share a file offset across goroutines.
func (s *FileSource) Read(offset, size int64, dest []byte) error {
	if offset < 0 || size < 0 || offset+size > s.size {
		return fmt.Errorf("archive.FileSource.Read: out of range: offset=%d size=%d fileSize=%d", offset, size, s.size)
	}
	if int64(len(dest)) < size {
		return fmt.Errorf("archive.FileSource.Read: dest too small: have %d, need %d", len(dest), size)
	}
	n, err := s.f.ReadAt(dest[:size], offset)
	if err != nil {
		return fmt.Errorf("archive.FileSource.Read: %w", err)
	}
	if int64(n) != size {
		return fmt.Errorf("archive.FileSource.Read: short read: got %d, want %d", n, size)
	}
	return nil
}

// Close releases the underlying file handle.
func (s *FileSource) Close() error {
	return s.f.Close()
}
