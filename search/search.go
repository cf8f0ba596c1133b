package search

import (
	"reflect"

	"github.com/rotisserie/eris"

	"github.com/mosaic-engine/mosaic/filter"
	"github.com/mosaic-engine/mosaic/storage"
	"github.com/mosaic-engine/mosaic/types"
)

// Reader is the view of a World a search needs: archetype lookup in creation
// order, component resolution, and the current tick. ArchetypeTableSize is
// the full archetype table length, staging archetype included; the match
// cache uses it as its high-water mark.
type Reader interface {
	SearchFrom(f filter.ComponentFilter, start int) *storage.ArchetypeIterator
	ArchetypeTableSize() int
	Archetype(archID types.ArchetypeID) *storage.Archetype
	ComponentByType(typ reflect.Type) (types.ComponentMetadata, error)
	CurrentTick() types.Tick
}

// CallbackFn receives each matching row. Return false to stop iterating.
type CallbackFn func(*Cursor) bool

type cache struct {
	archetypes []types.ArchetypeID
	seen       int
}

type changedGate struct {
	md    types.ComponentMetadata
	since types.Tick
}

// Search is an access descriptor over component types: Read/Write data
// requests plus presence, absence and change filters. It matches archetypes
// whose component set is a superset of all required types, in archetype
// creation order, then walks rows in within-archetype order. There is no
// cross-archetype global order guarantee.
//
// A Search is a scoped view, not a durable handle: its access set is held
// only while Each, Count, First or Collect is running, and structural
// changes are rejected for that duration. The archetype match cache makes a
// retained Search cheap to run repeatedly.
type Search struct {
	reader  Reader
	tracker *Tracker

	reads    []types.ComponentMetadata
	writes   []types.ComponentMetadata
	required []types.ComponentMetadata
	excluded []types.ComponentMetadata
	changed  []changedGate
	extra    []filter.ComponentFilter

	compiled    filter.ComponentFilter
	archMatches *cache
}

// New builds a search from the given options. Conflicting access requests
// within the single search (Write of a type twice, or Write mixed with Read
// of the same type) fail here with an aliasing violation.
func New(reader Reader, tracker *Tracker, opts ...Option) (*Search, error) {
	s := &Search{
		reader:      reader,
		tracker:     tracker,
		archMatches: &cache{},
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.compiled = s.compileFilter()
	return s, nil
}

// Each iterates over all rows that match the search. Return false from the
// callback to stop early. The search's access set is registered with the
// world's tracker for the duration of the call.
func (s *Search) Each(callback CallbackFn) error {
	if err := s.tracker.Acquire(s.reads, s.writes); err != nil {
		return err
	}
	defer s.tracker.Release(s.reads, s.writes)

	for _, archID := range s.evaluateSearch() {
		arch := s.reader.Archetype(archID)
		for row := 0; row < arch.Count(); row++ {
			if !s.passesChangedGates(arch, row) {
				continue
			}
			cur := &Cursor{search: s, arch: arch, row: row}
			if !callback(cur) {
				return nil
			}
		}
	}
	return nil
}

// Count returns the number of rows that match the search, change gates
// included.
func (s *Search) Count() (int, error) {
	count := 0
	err := s.Each(func(*Cursor) bool {
		count++
		return true
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// First returns the first entity that matches the search.
func (s *Search) First() (types.EntityID, error) {
	var (
		id    types.EntityID
		found bool
	)
	err := s.Each(func(cur *Cursor) bool {
		id = cur.Entity()
		found = true
		return false
	})
	if err != nil {
		return types.EntityID{}, err
	}
	if !found {
		return types.EntityID{}, eris.Wrap(ErrNoMatchingEntities, "")
	}
	return id, nil
}

// MustFirst returns the first entity that matches the search and panics if
// there is none.
func (s *Search) MustFirst() types.EntityID {
	id, err := s.First()
	if err != nil {
		panic("no entity matches the search")
	}
	return id
}

// Collect returns the IDs of all matching entities, in iteration order.
func (s *Search) Collect() ([]types.EntityID, error) {
	var ids []types.EntityID
	err := s.Each(func(cur *Cursor) bool {
		ids = append(ids, cur.Entity())
		return true
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Search) passesChangedGates(arch *storage.Archetype, row int) bool {
	for _, gate := range s.changed {
		col := arch.Column(gate.md.ID())
		if !col.Ticks(row).ChangedSince(gate.since) {
			return false
		}
	}
	return true
}

// evaluateSearch returns the matching archetype IDs, extending the cached
// result with archetypes created since the last evaluation. Archetypes are
// never destroyed, so cached matches stay valid.
func (s *Search) evaluateSearch() []types.ArchetypeID {
	cache := s.archMatches
	for it := s.reader.SearchFrom(s.compiled, cache.seen); it.HasNext(); {
		cache.archetypes = append(cache.archetypes, it.Next())
	}
	cache.seen = s.reader.ArchetypeTableSize()
	return cache.archetypes
}

func (s *Search) compileFilter() filter.ComponentFilter {
	filters := make([]filter.ComponentFilter, 0, 2+len(s.excluded)+len(s.extra))
	required := make([]types.Component, 0, len(s.reads)+len(s.writes)+len(s.required))
	for _, md := range s.reads {
		required = append(required, md)
	}
	for _, md := range s.writes {
		required = append(required, md)
	}
	for _, md := range s.required {
		required = append(required, md)
	}
	if len(required) > 0 {
		filters = append(filters, filter.Contains(required...))
	}
	for _, md := range s.excluded {
		filters = append(filters, filter.Not(filter.Contains(md)))
	}
	filters = append(filters, s.extra...)
	if len(filters) == 0 {
		return filter.All()
	}
	return filter.And(filters...)
}

func (s *Search) resolve(typ reflect.Type) (types.ComponentMetadata, error) {
	return s.reader.ComponentByType(typ)
}

func (s *Search) addAccess(md types.ComponentMetadata, write bool) error {
	for _, w := range s.writes {
		if w.ID() == md.ID() {
			return eris.Wrap(ErrAliasingViolation, md.Name())
		}
	}
	if write {
		for _, r := range s.reads {
			if r.ID() == md.ID() {
				return eris.Wrap(ErrAliasingViolation, md.Name())
			}
		}
		s.writes = append(s.writes, md)
		return nil
	}
	s.reads = append(s.reads, md)
	return nil
}

func (s *Search) accessFor(id types.ComponentID, write bool) (types.ComponentMetadata, bool) {
	for _, md := range s.writes {
		if md.ID() == id {
			return md, true
		}
	}
	if write {
		return nil, false
	}
	for _, md := range s.reads {
		if md.ID() == id {
			return md, true
		}
	}
	return nil, false
}
