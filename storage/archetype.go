package storage

import (
	"fmt"

	"github.com/mosaic-engine/mosaic/types"
)

// Archetype is a collection of entities sharing an identical component-type
// set, with one dense column per component type. Row i across the entity
// list and every column belongs to the same entity.
type Archetype struct {
	id       types.ArchetypeID
	layout   *Layout
	entities []types.EntityID
	columns  []types.Column
	slots    map[types.ComponentID]int
}

// NewArchetype creates an empty archetype for the given layout, allocating
// one empty column per component type.
func NewArchetype(id types.ArchetypeID, layout *Layout) *Archetype {
	a := &Archetype{
		id:       id,
		layout:   layout,
		entities: make([]types.EntityID, 0, 256),
		columns:  make([]types.Column, 0, layout.Len()),
		slots:    make(map[types.ComponentID]int, layout.Len()),
	}
	for i, md := range layout.Components() {
		a.columns = append(a.columns, md.NewColumn())
		a.slots[md.ID()] = i
	}
	return a
}

func (a *Archetype) ID() types.ArchetypeID {
	return a.id
}

func (a *Archetype) Layout() *Layout {
	return a.layout
}

// Entities returns all entities in this archetype in row order.
func (a *Archetype) Entities() []types.EntityID {
	return a.entities
}

// Count returns the number of entities in the archetype.
func (a *Archetype) Count() int {
	return len(a.entities)
}

// Column returns the column for the given component type, or nil if the
// layout does not contain it.
func (a *Archetype) Column(id types.ComponentID) types.Column {
	slot, ok := a.slots[id]
	if !ok {
		return nil
	}
	return a.columns[slot]
}

// PushEntity appends an entity to the entity list and returns its row. The
// caller must push a value into every column for the same row.
func (a *Archetype) PushEntity(id types.EntityID) int {
	a.entities = append(a.entities, id)
	return len(a.entities) - 1
}

// SwapRemoveEntity removes the entity at row from the entity list by moving
// the last entity into the vacated row. It returns the entity that now
// occupies row, or ok=false if the removed row was the last one. Columns are
// swap-removed separately, with the same displacement.
func (a *Archetype) SwapRemoveEntity(row int) (displaced types.EntityID, ok bool) {
	last := len(a.entities) - 1
	a.entities[row] = a.entities[last]
	a.entities = a.entities[:last]
	if row == last {
		return types.EntityID{}, false
	}
	return a.entities[row], true
}

// CheckAligned panics if any column's length disagrees with the entity
// list. A violation means a migration was interrupted mid-flight; the store
// treats that as unrecoverable corruption.
func (a *Archetype) CheckAligned() {
	for i, col := range a.columns {
		if col.Len() != len(a.entities) {
			panic(fmt.Sprintf(
				"archetype %d corrupted: column %q has %d rows, entity list has %d",
				a.id, a.layout.Components()[i].Name(), col.Len(), len(a.entities)))
		}
	}
}
