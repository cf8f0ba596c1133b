package storage

import (
	"github.com/mosaic-engine/mosaic/types"
)

const (
	bitsPerWord = 64
	maskWords   = types.MaxComponentTypes / bitsPerWord
)

// bitmask represents a set of component IDs, one bit per ID up to
// types.MaxComponentTypes. The mask is a comparable value type, so it doubles
// as the canonical archetype key.
type bitmask [maskWords]uint64

func (m *bitmask) set(bit int) {
	m[bit>>6] |= uint64(1) << uint64(bit&63)
}

func (m bitmask) containsBit(bit int) bool {
	return (m[bit>>6] & (uint64(1) << uint64(bit&63))) != 0
}
