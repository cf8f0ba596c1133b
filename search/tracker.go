package search

import (
	"github.com/rotisserie/eris"

	"github.com/mosaic-engine/mosaic/types"
)

// Tracker records the read and write component-type sets of every search
// that is currently iterating, and rejects a new iteration whose access set
// conflicts with a live one. It is the runtime stand-in for compile-time
// borrow checking: at most one live writer per component type, and never a
// writer alongside readers.
//
// The tracker inherits the world's concurrency discipline: single-owner
// thread, or an external read/write lock around the whole world.
type Tracker struct {
	strict     bool
	readers    map[types.ComponentID]int
	writers    map[types.ComponentID]int
	iterations int
}

func NewTracker(strict bool) *Tracker {
	return &Tracker{
		strict:  strict,
		readers: map[types.ComponentID]int{},
		writers: map[types.ComponentID]int{},
	}
}

// Acquire registers a search's access set. In strict mode a conflict panics
// instead of returning, since a violation that slipped past API design is a
// programming error.
func (t *Tracker) Acquire(reads, writes []types.ComponentMetadata) error {
	for _, md := range writes {
		if t.writers[md.ID()] > 0 || t.readers[md.ID()] > 0 {
			return t.violation(md)
		}
	}
	for _, md := range reads {
		if t.writers[md.ID()] > 0 {
			return t.violation(md)
		}
	}
	for _, md := range writes {
		t.writers[md.ID()]++
	}
	for _, md := range reads {
		t.readers[md.ID()]++
	}
	t.iterations++
	return nil
}

// Release removes a previously acquired access set.
func (t *Tracker) Release(reads, writes []types.ComponentMetadata) {
	for _, md := range writes {
		t.writers[md.ID()]--
	}
	for _, md := range reads {
		t.readers[md.ID()]--
	}
	t.iterations--
}

// ActiveIterations returns the number of searches currently iterating.
// Structural changes are rejected while this is non-zero.
func (t *Tracker) ActiveIterations() int {
	return t.iterations
}

func (t *Tracker) violation(md types.ComponentMetadata) error {
	err := eris.Wrap(ErrAliasingViolation, md.Name())
	if t.strict {
		panic(err)
	}
	return err
}
