package storage

import (
	"github.com/mosaic-engine/mosaic/types"
)

// Location is where an entity's row lives: which archetype, and which row
// within that archetype's dense arrays.
type Location struct {
	ArchID types.ArchetypeID
	Row    int
}

// NewLocation creates a new Location.
func NewLocation(archID types.ArchetypeID, row int) Location {
	return Location{
		ArchID: archID,
		Row:    row,
	}
}
