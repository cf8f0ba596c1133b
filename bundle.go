package mosaic

import (
	"github.com/mosaic-engine/mosaic/log"
	"github.com/mosaic-engine/mosaic/storage"
	"github.com/mosaic-engine/mosaic/types"
	"github.com/rs/zerolog"
)

// Bundle is a fixed set of component values inserted into an entity
// atomically: one migration touching all bundle types at once, rather than
// one migration per component.
type Bundle []types.Component

// InsertBundle attaches every value in the bundle to the entity in a single
// migration. The destination archetype key is the entity's current key
// united with the bundle's type keys. A bundle listing the same component
// type twice is rejected.
func InsertBundle(w *World, id types.EntityID, bundle Bundle) error {
	if err := w.structuralGuard(); err != nil {
		return err
	}
	values := make([]storage.Value, 0, len(bundle))
	for _, comp := range bundle {
		md, err := w.registry.ByValue(comp)
		if err != nil {
			return err
		}
		values = append(values, storage.Value{Metadata: md, Value: comp})
	}
	return w.store.AddComponents(id, values, w.tick)
}

// Create spawns one entity carrying the given components.
func Create(w *World, components ...types.Component) (types.EntityID, error) {
	ids, err := CreateMany(w, 1, components...)
	if err != nil {
		return types.EntityID{}, err
	}
	return ids[0], nil
}

// CreateMany spawns num entities, each carrying the given components.
func CreateMany(w *World, num int, components ...types.Component) ([]types.EntityID, error) {
	ids, err := w.SpawnBatch(num)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if err := InsertBundle(w, id, components); err != nil {
			return nil, err
		}
	}
	if len(ids) > 0 {
		loc, err := w.store.Location(ids[0])
		if err == nil {
			arch := w.store.Archetype(loc.ArchID)
			log.Entity(&w.Logger, zerolog.DebugLevel, ids[0], arch.ID(), arch.Layout().Components())
		}
	}
	return ids, nil
}
