package search

import (
	"github.com/rotisserie/eris"

	"github.com/mosaic-engine/mosaic/component"
	"github.com/mosaic-engine/mosaic/storage"
	"github.com/mosaic-engine/mosaic/types"
)

// Cursor points at one matching row during iteration. It is only valid
// inside the Each callback that produced it; migration invalidates row
// indices, which is why structural changes are rejected while a search is
// iterating.
type Cursor struct {
	search *Search
	arch   *storage.Archetype
	row    int
}

// Entity returns the identifier of the row's entity.
func (c *Cursor) Entity() types.EntityID {
	return c.arch.Entities()[c.row]
}

// Get returns a copy of the row's component of type T. The search must have
// declared Read or Write access to T.
func Get[T types.Component](c *Cursor) (T, error) {
	var zero T
	md, err := c.search.resolve(typeOf[T]())
	if err != nil {
		return zero, err
	}
	if _, ok := c.search.accessFor(md.ID(), false); !ok {
		return zero, eris.Wrap(ErrUndeclaredAccess, md.Name())
	}
	col := c.arch.Column(md.ID())
	if col == nil {
		return zero, eris.Wrap(storage.ErrComponentNotOnEntity, md.Name())
	}
	return *component.Ref[T](col, c.row), nil
}

// GetMut returns a pointer to the row's component of type T and stamps its
// changed tick with the world's current tick. The search must have declared
// Write access to T. The pointer is only valid inside the Each callback.
func GetMut[T types.Component](c *Cursor) (*T, error) {
	md, err := c.search.resolve(typeOf[T]())
	if err != nil {
		return nil, err
	}
	if _, ok := c.search.accessFor(md.ID(), true); !ok {
		return nil, eris.Wrap(ErrUndeclaredAccess, md.Name())
	}
	col := c.arch.Column(md.ID())
	if col == nil {
		return nil, eris.Wrap(storage.ErrComponentNotOnEntity, md.Name())
	}
	col.MarkChanged(c.row, c.search.reader.CurrentTick())
	return component.Ref[T](col, c.row), nil
}
