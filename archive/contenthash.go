// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"encoding/binary"

	"github.com/study-game-engines/diligent-core/device"
	"github.com/zeebo/blake3"
)

// archiveDomainKey is a fixed 32-byte BLAKE3 key identifying the
// archive chunk-table hash domain, keeping it from colliding with any
// other hash domain that might reuse this module's hashing idiom.
// ASCII, zero-padded to 32 bytes, per the domain-key convention this
// scheme borrows.
var archiveDomainKey = [32]byte{
	'd', 'i', 'l', 'i', 'g', 'e', 'n', 't', '.', 'a', 'r', 'c', 'h', 'i', 'v', 'e',
	'.', 'c', 'h', 'u', 'n', 'k', 't', 'a', 'b', 'l', 'e', 0, 0, 0, 0, 0,
}

// ContentHash returns a deterministic, backend-independent identity
// hash for the archive's chunk table: the ordered (type, size, offset)
// triples read back from the header. Two archives built from the same
// logical content hash identically even if their underlying file
// bytes differ in padding, since only the chunk table is hashed.
func ContentHash(chunks []ChunkSummary) device.Hash {
	hasher, err := blake3.NewKeyed(archiveDomainKey[:])
	if err != nil {
		panic("archive: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	var buf [12]byte
	for _, c := range chunks {
		binary.LittleEndian.PutUint32(buf[0:4], uint32(c.Type))
		binary.LittleEndian.PutUint32(buf[4:8], c.Size)
		binary.LittleEndian.PutUint32(buf[8:12], c.Offset)
		hasher.Write(buf[:])
	}
	var out device.Hash
	copy(out[:], hasher.Sum(nil))
	return out
}

// ChunkSummary is the subset of chunkHeader exposed for hashing and
// diagnostics outside this package.
type ChunkSummary struct {
	Type   ChunkType
	Size   uint32
	Offset uint32
}
