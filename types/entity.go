package types

import "fmt"

// EntityID is a stable identifier for a logical object in a World. The Index
// refers to a slot in the entity allocator; the Generation is bumped every
// time that slot is recycled, so a stale EntityID held after a despawn can
// never alias a newer entity that reuses the same slot.
type EntityID struct {
	Index      uint32 `json:"index"`
	Generation uint32 `json:"generation"`
}

func NewEntityID(index, generation uint32) EntityID {
	return EntityID{Index: index, Generation: generation}
}

func (id EntityID) String() string {
	return fmt.Sprintf("Entity(%d, gen:%d)", id.Index, id.Generation)
}
