package component

import (
	"reflect"

	"github.com/rotisserie/eris"

	"github.com/mosaic-engine/mosaic/types"
)

var (
	ErrComponentNotRegistered  = eris.New("component not registered")
	ErrComponentSchemaMismatch = eris.New(
		"a different component with this name is already registered")
	ErrComponentLimitExceeded = eris.New("component type limit exceeded")
)

// Registry maps component types to their metadata. It is an explicitly
// constructed object owned by one World; registration is expected to happen
// once per type at module initialization and the registry is append-only for
// the rest of the session.
type Registry struct {
	byType map[reflect.Type]types.ComponentMetadata
	byName map[string]types.ComponentMetadata
	byID   []types.ComponentMetadata
}

func NewRegistry() *Registry {
	return &Registry{
		byType: map[reflect.Type]types.ComponentMetadata{},
		byName: map[string]types.ComponentMetadata{},
	}
}

// Register assigns a ComponentID and a column factory to component type T.
// Registering the same type again is a no-op that returns the existing
// metadata. A different Go type reusing an already-registered name is always
// rejected; the schema comparison only decides whether the error reports a
// shape conflict or a same-shape type clash. Registries hold at most
// types.MaxComponentTypes component types.
func Register[T types.Component](r *Registry) (types.ComponentMetadata, error) {
	var t T
	typ := reflect.TypeOf(t)
	if md, ok := r.byType[typ]; ok {
		return md, nil
	}

	md, err := NewComponentMetadata[T]()
	if err != nil {
		return nil, err
	}
	if existing, ok := r.byName[md.Name()]; ok {
		ok, err := types.IsSchemaValid(existing.GetSchema(), md.GetSchema())
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, eris.Wrap(ErrComponentSchemaMismatch, md.Name())
		}
		return nil, eris.Wrapf(ErrComponentSchemaMismatch,
			"%q is registered for another Go type with the same shape", md.Name())
	}
	if len(r.byID) >= types.MaxComponentTypes {
		return nil, eris.Wrapf(ErrComponentLimitExceeded,
			"cannot register %q, the limit is %d", md.Name(), types.MaxComponentTypes)
	}

	if err := md.SetID(types.ComponentID(len(r.byID))); err != nil {
		return nil, err
	}
	r.byType[typ] = md
	r.byName[md.Name()] = md
	r.byID = append(r.byID, md)
	return md, nil
}

// ByType returns the metadata registered for the given Go type.
func (r *Registry) ByType(typ reflect.Type) (types.ComponentMetadata, error) {
	md, ok := r.byType[typ]
	if !ok {
		return nil, eris.Wrap(ErrComponentNotRegistered, typ.String())
	}
	return md, nil
}

// ByValue returns the metadata registered for the concrete type of comp.
func (r *Registry) ByValue(comp types.Component) (types.ComponentMetadata, error) {
	return r.ByType(reflect.TypeOf(comp))
}

// ByName returns the metadata registered under the given component name.
func (r *Registry) ByName(name string) (types.ComponentMetadata, error) {
	md, ok := r.byName[name]
	if !ok {
		return nil, eris.Wrap(ErrComponentNotRegistered, name)
	}
	return md, nil
}

// ByID returns the metadata for an assigned ComponentID.
func (r *Registry) ByID(id types.ComponentID) (types.ComponentMetadata, error) {
	if int(id) < 0 || int(id) >= len(r.byID) {
		return nil, eris.Wrapf(ErrComponentNotRegistered, "id %d", id)
	}
	return r.byID[id], nil
}

// All returns every registered component's metadata in registration order.
func (r *Registry) All() []types.ComponentMetadata {
	out := make([]types.ComponentMetadata, len(r.byID))
	copy(out, r.byID)
	return out
}

// Len returns the number of registered component types.
func (r *Registry) Len() int {
	return len(r.byID)
}
