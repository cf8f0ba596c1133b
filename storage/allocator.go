package storage

import (
	"fmt"
	"math"

	"github.com/mosaic-engine/mosaic/types"
)

// EntityAllocator issues and recycles entity identifiers. Freed indices are
// reused LIFO; every reuse bumps the slot's generation so stale identifiers
// can never alias a newer entity.
//
// Generations are 32 bits wide. Exhausting one slot requires recycling the
// same index 2^32 times, which is operationally unreachable; if it ever
// happens the allocator panics rather than silently reusing an identifier.
type EntityAllocator struct {
	generations []uint32
	alive       []bool
	free        []uint32
	liveCount   int
}

func NewEntityAllocator(capacity int) *EntityAllocator {
	return &EntityAllocator{
		generations: make([]uint32, 0, capacity),
		alive:       make([]bool, 0, capacity),
	}
}

// Allocate issues a fresh EntityID, reusing the most recently freed index if
// one exists.
func (a *EntityAllocator) Allocate() types.EntityID {
	a.liveCount++
	if n := len(a.free); n > 0 {
		index := a.free[n-1]
		a.free = a.free[:n-1]
		if a.generations[index] == math.MaxUint32 {
			panic(fmt.Sprintf(
				"entity allocator exhausted: generation counter for index %d wrapped", index))
		}
		a.generations[index]++
		a.alive[index] = true
		return types.NewEntityID(index, a.generations[index])
	}
	a.generations = append(a.generations, 1)
	a.alive = append(a.alive, true)
	return types.NewEntityID(uint32(len(a.generations)-1), 1)
}

// Free recycles the identifier. It returns false, without modifying
// anything, if the identifier is already stale.
func (a *EntityAllocator) Free(id types.EntityID) bool {
	if !a.IsAlive(id) {
		return false
	}
	a.alive[id.Index] = false
	a.free = append(a.free, id.Index)
	a.liveCount--
	return true
}

// IsAlive returns true if the identifier refers to a live entity: its index
// is in range, its slot has not been freed, and its generation matches the
// slot's stored generation.
func (a *EntityAllocator) IsAlive(id types.EntityID) bool {
	if int(id.Index) >= len(a.generations) {
		return false
	}
	return a.alive[id.Index] && a.generations[id.Index] == id.Generation
}

// LiveCount returns the number of currently live entities.
func (a *EntityAllocator) LiveCount() int {
	return a.liveCount
}
