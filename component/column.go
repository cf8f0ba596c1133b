package component

import (
	"fmt"

	"github.com/mosaic-engine/mosaic/types"
)

// column is the typed backing store behind the types.Column interface:
// densely packed component values plus a parallel slice of change ticks.
// The two slices always have the same length; row i in both belongs to the
// entity at row i of the owning archetype.
type column[T types.Component] struct {
	id    types.ComponentID
	name  string
	data  []T
	ticks []types.ComponentTicks
}

var _ types.Column = &column[noopComponent]{}

// noopComponent only exists for the compile-time interface check above.
type noopComponent struct{}

func (noopComponent) Name() string { return "noop" }

func (c *column[T]) ComponentID() types.ComponentID {
	return c.id
}

func (c *column[T]) Len() int {
	return len(c.data)
}

func (c *column[T]) Push(value any, now types.Tick) int {
	return c.PushMoved(value, types.NewComponentTicks(now))
}

func (c *column[T]) PushMoved(value any, ticks types.ComponentTicks) int {
	v, ok := value.(T)
	if !ok {
		panic(c.mismatch(value))
	}
	c.data = append(c.data, v)
	c.ticks = append(c.ticks, ticks)
	return len(c.data) - 1
}

func (c *column[T]) Value(row int) any {
	c.boundsCheck(row)
	return c.data[row]
}

func (c *column[T]) SetValue(row int, value any, now types.Tick) {
	c.boundsCheck(row)
	v, ok := value.(T)
	if !ok {
		panic(c.mismatch(value))
	}
	c.data[row] = v
	c.ticks[row].Changed = now
}

func (c *column[T]) Ticks(row int) types.ComponentTicks {
	c.boundsCheck(row)
	return c.ticks[row]
}

func (c *column[T]) MarkChanged(row int, now types.Tick) {
	c.boundsCheck(row)
	c.ticks[row].Changed = now
}

func (c *column[T]) SwapRemove(row int) any {
	c.boundsCheck(row)
	removed := c.data[row]
	last := len(c.data) - 1
	c.data[row] = c.data[last]
	c.data = c.data[:last]
	c.ticks[row] = c.ticks[last]
	c.ticks = c.ticks[:last]
	return removed
}

func (c *column[T]) MoveTo(dst types.Column, row int) {
	c.boundsCheck(row)
	dst.PushMoved(c.data[row], c.ticks[row])
	c.SwapRemove(row)
}

func (c *column[T]) boundsCheck(row int) {
	if row < 0 || row >= len(c.data) {
		panic(fmt.Sprintf(
			"row %d out of range for component %q column of length %d; "+
				"a stale row index crossed a structural change",
			row, c.name, len(c.data)))
	}
}

func (c *column[T]) mismatch(value any) string {
	return fmt.Sprintf(
		"component type mismatch: column %q (id %d) cannot store %T",
		c.name, c.id, value)
}

// Ref returns a pointer to the value at row in the given column. The pointer
// is only valid until the next structural change on the owning world. A
// column of any other component type panics; registry discipline makes that
// unreachable.
func Ref[T types.Component](col types.Column, row int) *T {
	c, ok := col.(*column[T])
	if !ok {
		var t T
		panic(fmt.Sprintf(
			"component type mismatch: column for id %d does not store %q",
			col.ComponentID(), t.Name()))
	}
	c.boundsCheck(row)
	return &c.data[row]
}
