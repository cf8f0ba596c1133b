package mosaic

import (
	"reflect"

	"github.com/rotisserie/eris"

	"github.com/mosaic-engine/mosaic/component"
	"github.com/mosaic-engine/mosaic/storage"
	"github.com/mosaic-engine/mosaic/types"
)

// RegisterComponent assigns a type key and a column factory to component
// type T. Call it once per type at module initialization; registering the
// same type again is a no-op.
func RegisterComponent[T types.Component](w *World) error {
	md, err := component.Register[T](w.registry)
	if err != nil {
		return err
	}
	w.Logger.Debug().
		Str("component_name", md.Name()).
		Int("component_id", int(md.ID())).
		Msg("registered component")
	return nil
}

// AddComponent attaches the component value to the entity, migrating it to
// the archetype for its extended component set. If the entity already has a
// T, the stored value is replaced in place and its changed tick stamped.
func AddComponent[T types.Component](w *World, id types.EntityID, comp T) error {
	if err := w.structuralGuard(); err != nil {
		return err
	}
	md, err := w.registry.ByValue(comp)
	if err != nil {
		return err
	}
	return w.store.AddComponents(id, []storage.Value{{Metadata: md, Value: comp}}, w.tick)
}

// RemoveComponent detaches T from the entity, migrating it to the archetype
// for its reduced component set, and returns the moved-out value.
func RemoveComponent[T types.Component](w *World, id types.EntityID) (T, error) {
	var zero T
	if err := w.structuralGuard(); err != nil {
		return zero, err
	}
	md, err := w.registry.ByType(typeOf[T]())
	if err != nil {
		return zero, err
	}
	value, err := w.store.RemoveComponent(id, md, w.tick)
	if err != nil {
		return zero, err
	}
	return value.(T), nil
}

// GetComponent returns a copy of the entity's component of type T.
func GetComponent[T types.Component](w *World, id types.EntityID) (T, error) {
	var zero T
	md, err := w.registry.ByType(typeOf[T]())
	if err != nil {
		return zero, err
	}
	value, err := w.store.Component(id, md)
	if err != nil {
		return zero, err
	}
	return value.(T), nil
}

// HasComponent returns true if the entity's component set contains T.
func HasComponent[T types.Component](w *World, id types.EntityID) (bool, error) {
	md, err := w.registry.ByType(typeOf[T]())
	if err != nil {
		return false, err
	}
	return w.store.HasComponent(id, md)
}

// UpdateComponent applies fn to the entity's component of type T in place
// and stamps its changed tick. The write is registered with the aliasing
// tracker for the duration of the call, so updating while a live search
// holds access to T is rejected.
func UpdateComponent[T types.Component](w *World, id types.EntityID, fn func(*T)) error {
	md, err := w.registry.ByType(typeOf[T]())
	if err != nil {
		return err
	}
	writes := []types.ComponentMetadata{md}
	if err := w.tracker.Acquire(nil, writes); err != nil {
		return err
	}
	defer w.tracker.Release(nil, writes)

	col, row, err := w.store.ComponentColumn(id, md)
	if err != nil {
		return err
	}
	fn(component.Ref[T](col, row))
	col.MarkChanged(row, w.tick)
	return nil
}

func typeOf[T types.Component]() reflect.Type {
	var t T
	typ := reflect.TypeOf(t)
	if typ == nil {
		panic(eris.New("component type must be a concrete type"))
	}
	return typ
}
