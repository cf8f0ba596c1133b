package storage

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/mosaic-engine/mosaic/filter"
	"github.com/mosaic-engine/mosaic/types"
)

// Value pairs a component value with its resolved metadata for insertion.
type Value struct {
	Metadata types.ComponentMetadata
	Value    any
}

// Store owns all archetypes, the entity allocator, and the entity->location
// index, and performs migration between archetypes when an entity's
// component set changes.
//
// The store is not safe for concurrent use; callers either confine it to one
// goroutine or wrap the owning World in a read/write lock.
type Store struct {
	allocator  *EntityAllocator
	archetypes []*Archetype
	byKey      map[bitmask]types.ArchetypeID
	locations  []Location
	logger     zerolog.Logger
}

// NewStore creates a store holding a single empty-component-set archetype,
// which is where freshly spawned entities live.
func NewStore(logger zerolog.Logger, entityCapacity int) *Store {
	s := &Store{
		allocator: NewEntityAllocator(entityCapacity),
		byKey:     map[bitmask]types.ArchetypeID{},
		locations: make([]Location, 0, entityCapacity),
		logger:    logger,
	}
	s.getOrCreateArchetype(NewLayout(nil))
	return s
}

// Spawn issues a new identifier and places the entity in the
// empty-component-set archetype.
func (s *Store) Spawn() types.EntityID {
	id := s.allocator.Allocate()
	empty := s.archetypes[0]
	row := empty.PushEntity(id)
	s.setLocation(id, NewLocation(empty.ID(), row))
	s.logger.Trace().Stringer("entity", id).Msg("spawned entity")
	return id
}

// Despawn removes the entity's row and recycles its identifier. It returns
// false if the identifier is already stale.
func (s *Store) Despawn(id types.EntityID) bool {
	if !s.allocator.IsAlive(id) {
		return false
	}
	loc := s.locations[id.Index]
	arch := s.archetypes[loc.ArchID]
	for _, md := range arch.Layout().Components() {
		arch.Column(md.ID()).SwapRemove(loc.Row)
	}
	if displaced, ok := arch.SwapRemoveEntity(loc.Row); ok {
		s.locations[displaced.Index].Row = loc.Row
	}
	arch.CheckAligned()
	s.allocator.Free(id)
	s.logger.Trace().Stringer("entity", id).Msg("despawned entity")
	return true
}

// IsAlive returns true if the identifier refers to a live entity.
func (s *Store) IsAlive(id types.EntityID) bool {
	return s.allocator.IsAlive(id)
}

// Location returns the entity's current (archetype, row) pair.
func (s *Store) Location(id types.EntityID) (Location, error) {
	if !s.allocator.IsAlive(id) {
		return Location{}, eris.Wrap(ErrEntityDoesNotExist, id.String())
	}
	return s.locations[id.Index], nil
}

// AddComponents attaches the given component values to the entity in one
// migration. Values whose type is already on the entity are replaced in
// place (stamping their changed tick) without migrating; the remainder is
// moved to the destination archetype in a single step.
func (s *Store) AddComponents(id types.EntityID, values []Value, now types.Tick) error {
	loc, err := s.Location(id)
	if err != nil {
		return err
	}
	src := s.archetypes[loc.ArchID]

	var seen bitmask
	for _, v := range values {
		cid := v.Metadata.ID()
		if seen.containsBit(int(cid)) {
			return eris.Wrap(ErrDuplicateComponent, v.Metadata.Name())
		}
		seen.set(int(cid))
	}

	// Validation is done; from here the batch applies in full.
	var added []Value
	for _, v := range values {
		if src.Layout().HasComponent(v.Metadata.ID()) {
			src.Column(v.Metadata.ID()).SetValue(loc.Row, v.Value, now)
			continue
		}
		added = append(added, v)
	}
	if len(added) == 0 {
		return nil
	}

	addedMDs := make([]types.ComponentMetadata, len(added))
	for i, v := range added {
		addedMDs[i] = v.Metadata
	}
	dest := s.getOrCreateArchetype(src.Layout().With(addedMDs...))
	s.migrate(id, src, loc.Row, dest, added, nil, now)
	return nil
}

// RemoveComponent detaches the component from the entity in one migration
// and returns the moved-out value.
func (s *Store) RemoveComponent(
	id types.EntityID, md types.ComponentMetadata, now types.Tick,
) (any, error) {
	loc, err := s.Location(id)
	if err != nil {
		return nil, err
	}
	src := s.archetypes[loc.ArchID]
	if !src.Layout().HasComponent(md.ID()) {
		return nil, eris.Wrap(ErrComponentNotOnEntity, md.Name())
	}
	dest := s.getOrCreateArchetype(src.Layout().Without(md.ID()))
	return s.migrate(id, src, loc.Row, dest, nil, md, now), nil
}

// Component returns the value stored for the entity's component of the given
// type.
func (s *Store) Component(id types.EntityID, md types.ComponentMetadata) (any, error) {
	col, row, err := s.ComponentColumn(id, md)
	if err != nil {
		return nil, err
	}
	return col.Value(row), nil
}

// ComponentColumn resolves the column and row holding the entity's component
// of the given type. The row is only valid until the next structural change.
func (s *Store) ComponentColumn(
	id types.EntityID, md types.ComponentMetadata,
) (types.Column, int, error) {
	loc, err := s.Location(id)
	if err != nil {
		return nil, 0, err
	}
	col := s.archetypes[loc.ArchID].Column(md.ID())
	if col == nil {
		return nil, 0, eris.Wrap(ErrComponentNotOnEntity, md.Name())
	}
	return col, loc.Row, nil
}

// HasComponent returns true if the entity's archetype contains the type.
func (s *Store) HasComponent(id types.EntityID, md types.ComponentMetadata) (bool, error) {
	loc, err := s.Location(id)
	if err != nil {
		return false, err
	}
	return s.archetypes[loc.ArchID].Layout().HasComponent(md.ID()), nil
}

// Archetype returns the archetype with the given ID.
func (s *Store) Archetype(archID types.ArchetypeID) *Archetype {
	return s.archetypes[archID]
}

// ArchetypeCount returns the length of the archetype table, the empty-layout
// staging archetype at index 0 included. Archetypes are never destroyed,
// even when empty.
func (s *Store) ArchetypeCount() int {
	return len(s.archetypes)
}

// EntityCount returns the number of live entities.
func (s *Store) EntityCount() int {
	return s.allocator.LiveCount()
}

// SearchFrom returns an iterator over the archetypes at index start and
// beyond whose component set matches the filter. Search result caches rely
// on archetype creation order being stable, which never-destroying
// archetypes guarantees.
func (s *Store) SearchFrom(f filter.ComponentFilter, start int) *ArchetypeIterator {
	it := &ArchetypeIterator{}
	for i := start; i < len(s.archetypes); i++ {
		comps := types.ConvertComponentMetadatasToComponents(
			s.archetypes[i].Layout().Components())
		if f.MatchesComponents(comps) {
			it.Values = append(it.Values, s.archetypes[i].ID())
		}
	}
	return it
}

// migrate moves the entity's row from src to dest: shared component values
// move (not copy) with their ticks, added values are pushed with fresh
// ticks, and the removed component's value is moved out and returned. The
// vacated source row is swap-removed and the displaced entity's index entry
// fixed up in the same operation.
//
// Migration is all-or-nothing. Every misstep in here breaks the
// row-alignment invariant irrecoverably, so inconsistencies panic via the
// column bounds/type checks and CheckAligned rather than surfacing as
// recoverable errors.
func (s *Store) migrate(
	id types.EntityID,
	src *Archetype,
	row int,
	dest *Archetype,
	added []Value,
	removed types.ComponentMetadata,
	now types.Tick,
) any {
	var removedValue any
	for _, md := range src.Layout().Components() {
		srcCol := src.Column(md.ID())
		if removed != nil && md.ID() == removed.ID() {
			removedValue = srcCol.SwapRemove(row)
			continue
		}
		destCol := dest.Column(md.ID())
		if destCol == nil {
			panic(fmt.Sprintf(
				"migration of %s corrupted: destination archetype %d lacks component %q",
				id, dest.ID(), md.Name()))
		}
		srcCol.MoveTo(destCol, row)
	}
	if displaced, ok := src.SwapRemoveEntity(row); ok {
		s.locations[displaced.Index].Row = row
	}
	for _, v := range added {
		dest.Column(v.Metadata.ID()).Push(v.Value, now)
	}
	destRow := dest.PushEntity(id)
	s.setLocation(id, NewLocation(dest.ID(), destRow))
	src.CheckAligned()
	dest.CheckAligned()
	s.logger.Trace().
		Stringer("entity", id).
		Int("from_archetype", int(src.ID())).
		Int("to_archetype", int(dest.ID())).
		Msg("migrated entity")
	return removedValue
}

func (s *Store) getOrCreateArchetype(layout *Layout) *Archetype {
	if archID, ok := s.byKey[layout.key]; ok {
		return s.archetypes[archID]
	}
	archID := types.ArchetypeID(len(s.archetypes))
	arch := NewArchetype(archID, layout)
	s.archetypes = append(s.archetypes, arch)
	s.byKey[layout.key] = archID
	s.logger.Debug().
		Int("archetype_id", int(archID)).
		Stringer("layout", layout).
		Msg("created new archetype")
	return arch
}

func (s *Store) setLocation(id types.EntityID, loc Location) {
	for int(id.Index) >= len(s.locations) {
		s.locations = append(s.locations, Location{})
	}
	s.locations[id.Index] = loc
}
