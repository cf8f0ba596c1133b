package component

import (
	"github.com/rotisserie/eris"

	"github.com/mosaic-engine/mosaic/codec"
	"github.com/mosaic-engine/mosaic/types"
)

var ErrIDAlreadySet = eris.New("component id is already set")

// componentMetadata implements types.ComponentMetadata for a concrete
// component type T. One instance exists per registered type per registry.
type componentMetadata[T types.Component] struct {
	id      types.ComponentID
	isIDSet bool
	name    string
	schema  []byte
}

// NewComponentMetadata builds the metadata wrapper for component type T. The
// ComponentID is assigned later, when the registry accepts the type.
func NewComponentMetadata[T types.Component]() (types.ComponentMetadata, error) {
	var t T
	schema, err := types.SerializeComponentSchema(t)
	if err != nil {
		return nil, err
	}
	return &componentMetadata[T]{
		name:   t.Name(),
		schema: schema,
	}, nil
}

func (c *componentMetadata[T]) Name() string {
	return c.name
}

func (c *componentMetadata[T]) SetID(id types.ComponentID) error {
	if c.isIDSet {
		// In games implemented with mosaic, components are only registered
		// once.
		return eris.Wrap(ErrIDAlreadySet, c.name)
	}
	c.id = id
	c.isIDSet = true
	return nil
}

func (c *componentMetadata[T]) ID() types.ComponentID {
	return c.id
}

func (c *componentMetadata[T]) NewColumn() types.Column {
	return &column[T]{id: c.id, name: c.name}
}

func (c *componentMetadata[T]) GetSchema() []byte {
	return c.schema
}

func (c *componentMetadata[T]) Encode(v any) ([]byte, error) {
	return codec.Encode(v)
}

func (c *componentMetadata[T]) Decode(bz []byte) (any, error) {
	return codec.Decode[T](bz)
}
