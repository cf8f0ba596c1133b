package storage

import (
	"github.com/mosaic-engine/mosaic/types"
)

// ArchetypeIterator walks a precomputed list of archetype IDs.
type ArchetypeIterator struct {
	Current int
	Values  []types.ArchetypeID
}

func (it *ArchetypeIterator) HasNext() bool {
	return it.Current < len(it.Values)
}

func (it *ArchetypeIterator) Next() types.ArchetypeID {
	val := it.Values[it.Current]
	it.Current++
	return val
}
