package storage_test

import (
	"math/rand"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mosaic-engine/mosaic/assert"
	"github.com/mosaic-engine/mosaic/component"
	"github.com/mosaic-engine/mosaic/filter"
	"github.com/mosaic-engine/mosaic/storage"
	"github.com/mosaic-engine/mosaic/types"
)

type Position struct {
	X, Y float64
}

func (Position) Name() string { return "position" }

type Velocity struct {
	DX, DY float64
}

func (Velocity) Name() string { return "velocity" }

type Health struct {
	HP int
}

func (Health) Name() string { return "health" }

type testFixture struct {
	store *storage.Store
	pos   types.ComponentMetadata
	vel   types.ComponentMetadata
	hp    types.ComponentMetadata
}

func newTestFixture(t *testing.T) *testFixture {
	t.Helper()
	reg := component.NewRegistry()
	pos, err := component.Register[Position](reg)
	assert.NilError(t, err)
	vel, err := component.Register[Velocity](reg)
	assert.NilError(t, err)
	hp, err := component.Register[Health](reg)
	assert.NilError(t, err)
	return &testFixture{
		store: storage.NewStore(zerolog.Nop(), 16),
		pos:   pos,
		vel:   vel,
		hp:    hp,
	}
}

func (f *testFixture) addPosition(t *testing.T, id types.EntityID, p Position, now types.Tick) {
	t.Helper()
	err := f.store.AddComponents(id, []storage.Value{{Metadata: f.pos, Value: p}}, now)
	assert.NilError(t, err)
}

func TestSpawnPlacesEntityInEmptyArchetype(t *testing.T) {
	f := newTestFixture(t)

	id := f.store.Spawn()
	assert.True(t, f.store.IsAlive(id))
	assert.Equal(t, 1, f.store.EntityCount())
	assert.Equal(t, 1, f.store.ArchetypeCount())

	loc, err := f.store.Location(id)
	assert.NilError(t, err)
	assert.Equal(t, types.ArchetypeID(0), loc.ArchID)
	assert.Equal(t, 0, f.store.Archetype(0).Layout().Len())
}

func TestDespawnRecyclesIdentifier(t *testing.T) {
	f := newTestFixture(t)
	id := f.store.Spawn()
	f.addPosition(t, id, Position{X: 1}, 1)

	assert.True(t, f.store.Despawn(id))
	assert.False(t, f.store.IsAlive(id))
	assert.Equal(t, 0, f.store.EntityCount())
	assert.False(t, f.store.Despawn(id))

	_, err := f.store.Component(id, f.pos)
	assert.ErrorIs(t, err, storage.ErrEntityDoesNotExist)
}

func TestStaleIDAfterIndexReuse(t *testing.T) {
	f := newTestFixture(t)
	old := f.store.Spawn()
	f.store.Despawn(old)

	reused := f.store.Spawn()
	assert.Equal(t, old.Index, reused.Index)
	f.addPosition(t, reused, Position{X: 7}, 1)

	// The stale identifier must not see the new tenant's data.
	assert.False(t, f.store.IsAlive(old))
	_, err := f.store.Component(old, f.pos)
	assert.ErrorIs(t, err, storage.ErrEntityDoesNotExist)
}

func TestAddComponentMigratesToNewArchetype(t *testing.T) {
	f := newTestFixture(t)
	id := f.store.Spawn()

	f.addPosition(t, id, Position{X: 1, Y: 2}, 1)
	assert.Equal(t, 2, f.store.ArchetypeCount())

	has, err := f.store.HasComponent(id, f.pos)
	assert.NilError(t, err)
	assert.True(t, has)

	value, err := f.store.Component(id, f.pos)
	assert.NilError(t, err)
	assert.Equal(t, Position{X: 1, Y: 2}, value)

	loc, err := f.store.Location(id)
	assert.NilError(t, err)
	assert.Equal(t, types.ArchetypeID(1), loc.ArchID)
	assert.Equal(t, 0, f.store.Archetype(0).Count())
}

func TestAddExistingComponentReplacesInPlace(t *testing.T) {
	f := newTestFixture(t)
	id := f.store.Spawn()
	f.addPosition(t, id, Position{X: 1}, 1)
	before := f.store.ArchetypeCount()

	f.addPosition(t, id, Position{X: 9}, 5)

	// No migration: same archetype set, value replaced, changed tick stamped.
	assert.Equal(t, before, f.store.ArchetypeCount())
	value, err := f.store.Component(id, f.pos)
	assert.NilError(t, err)
	assert.Equal(t, Position{X: 9}, value)

	col, row, err := f.store.ComponentColumn(id, f.pos)
	assert.NilError(t, err)
	assert.Equal(t, types.Tick(1), col.Ticks(row).Added)
	assert.Equal(t, types.Tick(5), col.Ticks(row).Changed)
}

func TestAddComponentsBatchIsSingleMigration(t *testing.T) {
	f := newTestFixture(t)
	id := f.store.Spawn()

	err := f.store.AddComponents(id, []storage.Value{
		{Metadata: f.pos, Value: Position{X: 1}},
		{Metadata: f.vel, Value: Velocity{DX: 2}},
	}, 1)
	assert.NilError(t, err)

	// Empty archetype plus the destination. No intermediate position-only
	// archetype was created.
	assert.Equal(t, 2, f.store.ArchetypeCount())
	assert.Equal(t, 2, f.store.Archetype(1).Layout().Len())
}

func TestAddComponentsRejectsDuplicateType(t *testing.T) {
	f := newTestFixture(t)
	id := f.store.Spawn()

	err := f.store.AddComponents(id, []storage.Value{
		{Metadata: f.pos, Value: Position{X: 1}},
		{Metadata: f.pos, Value: Position{X: 2}},
	}, 1)
	assert.ErrorIs(t, err, storage.ErrDuplicateComponent)

	// The rejected batch must not have touched the entity.
	has, err := f.store.HasComponent(id, f.pos)
	assert.NilError(t, err)
	assert.False(t, has)
}

func TestRemoveComponentReturnsMovedOutValue(t *testing.T) {
	f := newTestFixture(t)
	id := f.store.Spawn()
	err := f.store.AddComponents(id, []storage.Value{
		{Metadata: f.pos, Value: Position{X: 1, Y: 2}},
		{Metadata: f.vel, Value: Velocity{DX: 3}},
	}, 1)
	assert.NilError(t, err)

	value, err := f.store.RemoveComponent(id, f.vel, 2)
	assert.NilError(t, err)
	assert.Equal(t, Velocity{DX: 3}, value)

	has, err := f.store.HasComponent(id, f.vel)
	assert.NilError(t, err)
	assert.False(t, has)

	// The surviving component moved with the entity.
	pos, err := f.store.Component(id, f.pos)
	assert.NilError(t, err)
	assert.Equal(t, Position{X: 1, Y: 2}, pos)

	_, err = f.store.RemoveComponent(id, f.vel, 3)
	assert.ErrorIs(t, err, storage.ErrComponentNotOnEntity)
}

func TestMigrationPreservesTicks(t *testing.T) {
	f := newTestFixture(t)
	id := f.store.Spawn()
	f.addPosition(t, id, Position{X: 1}, 1)
	err := f.store.AddComponents(id, []storage.Value{{Metadata: f.vel, Value: Velocity{}}}, 4)
	assert.NilError(t, err)

	// Migration moves values with their original ticks; only genuinely new
	// components get fresh ones.
	col, row, err := f.store.ComponentColumn(id, f.pos)
	assert.NilError(t, err)
	assert.Equal(t, types.Tick(1), col.Ticks(row).Added)
	assert.Equal(t, types.Tick(1), col.Ticks(row).Changed)

	col, row, err = f.store.ComponentColumn(id, f.vel)
	assert.NilError(t, err)
	assert.Equal(t, types.Tick(4), col.Ticks(row).Added)
}

func TestSwapRemoveKeepsSurvivorsAligned(t *testing.T) {
	f := newTestFixture(t)
	ids := make([]types.EntityID, 5)
	for i := range ids {
		ids[i] = f.store.Spawn()
		f.addPosition(t, ids[i], Position{X: float64(i)}, 1)
	}

	// Remove from the middle so the dense archetype swap-relocates the last
	// entity into the vacated row.
	assert.True(t, f.store.Despawn(ids[1]))
	_, err := f.store.RemoveComponent(ids[2], f.pos, 2)
	assert.NilError(t, err)

	for _, i := range []int{0, 3, 4} {
		value, err := f.store.Component(ids[i], f.pos)
		assert.NilError(t, err)
		assert.Equal(t, Position{X: float64(i)}, value, "entity %d lost its row", i)
	}
}

// TestStoreInvariantsUnderRandomOps drives the store with a random op
// sequence against a plain map model and checks row alignment and value
// integrity at the end.
func TestStoreInvariantsUnderRandomOps(t *testing.T) {
	f := newTestFixture(t)
	r := rand.New(rand.NewSource(42))
	mds := []types.ComponentMetadata{f.pos, f.vel, f.hp}
	makeValue := func(cid types.ComponentID, n int) any {
		switch cid {
		case f.pos.ID():
			return Position{X: float64(n)}
		case f.vel.ID():
			return Velocity{DX: float64(n)}
		default:
			return Health{HP: n}
		}
	}

	model := map[types.EntityID]map[types.ComponentID]any{}
	var live []types.EntityID
	for i := 0; i < 500; i++ {
		switch op := r.Intn(10); {
		case op < 3 || len(live) == 0:
			id := f.store.Spawn()
			live = append(live, id)
			model[id] = map[types.ComponentID]any{}
		case op < 5:
			pick := r.Intn(len(live))
			id := live[pick]
			assert.True(t, f.store.Despawn(id))
			live[pick] = live[len(live)-1]
			live = live[:len(live)-1]
			delete(model, id)
		case op < 8:
			id := live[r.Intn(len(live))]
			md := mds[r.Intn(len(mds))]
			value := makeValue(md.ID(), i)
			err := f.store.AddComponents(
				id, []storage.Value{{Metadata: md, Value: value}}, types.Tick(i))
			assert.NilError(t, err)
			model[id][md.ID()] = value
		default:
			id := live[r.Intn(len(live))]
			md := mds[r.Intn(len(mds))]
			value, err := f.store.RemoveComponent(id, md, types.Tick(i))
			if want, ok := model[id][md.ID()]; ok {
				assert.NilError(t, err)
				assert.Equal(t, want, value)
				delete(model[id], md.ID())
			} else {
				assert.ErrorIs(t, err, storage.ErrComponentNotOnEntity)
			}
		}
	}

	assert.Equal(t, len(model), f.store.EntityCount())
	total := 0
	for i := 0; i < f.store.ArchetypeCount(); i++ {
		arch := f.store.Archetype(types.ArchetypeID(i))
		arch.CheckAligned()
		total += arch.Count()
	}
	assert.Equal(t, len(model), total)

	for id, comps := range model {
		for _, md := range mds {
			want, ok := comps[md.ID()]
			has, err := f.store.HasComponent(id, md)
			assert.NilError(t, err)
			assert.Equal(t, ok, has)
			if !ok {
				continue
			}
			got, err := f.store.Component(id, md)
			assert.NilError(t, err)
			assert.Equal(t, want, got)
		}
	}
}

func TestArchetypesAreNeverDestroyed(t *testing.T) {
	f := newTestFixture(t)
	id := f.store.Spawn()
	f.addPosition(t, id, Position{}, 1)
	f.store.Despawn(id)

	// Archetype creation order is stable so cached search results stay valid.
	assert.Equal(t, 2, f.store.ArchetypeCount())
	assert.Equal(t, 0, f.store.Archetype(1).Count())
}

func TestSearchFromMatchesSupersets(t *testing.T) {
	f := newTestFixture(t)
	posOnly := f.store.Spawn()
	f.addPosition(t, posOnly, Position{}, 1)
	both := f.store.Spawn()
	err := f.store.AddComponents(both, []storage.Value{
		{Metadata: f.pos, Value: Position{}},
		{Metadata: f.vel, Value: Velocity{}},
	}, 1)
	assert.NilError(t, err)

	it := f.store.SearchFrom(filter.Contains(f.pos), 0)
	var matched []types.ArchetypeID
	for it.HasNext() {
		matched = append(matched, it.Next())
	}
	assert.DeepEqual(t, []types.ArchetypeID{1, 2}, matched)

	it = f.store.SearchFrom(filter.Contains(f.vel), 0)
	assert.Len(t, it.Values, 1)

	// A later start index only reports archetypes created from there on.
	it = f.store.SearchFrom(filter.Contains(f.pos), 2)
	assert.DeepEqual(t, []types.ArchetypeID{2}, it.Values)
}
