package types

import (
	"github.com/invopop/jsonschema"
	"github.com/rotisserie/eris"
	"github.com/wI2L/jsondiff"
)

// MaxComponentTypes is the most component types one registry can hold. The
// archetype layout key is a fixed-width bitmask with one bit per ComponentID,
// so the limit is enforced at registration.
const MaxComponentTypes = 256

// ComponentID is the stable type key assigned to a component type when it is
// registered. IDs are sequential within a registry and always below
// MaxComponentTypes.
type ComponentID int

// Component is the interface user-defined component structs implement to be
// stored in a World.
type Component interface {
	// Name returns the name of the component. Names must be unique per
	// registry and stable across a session.
	Name() string
}

// ComponentMetadata wraps a user-defined Component type with the
// capabilities the storage layer needs: the assigned type key, a factory for
// an empty type-erased column, a serialized schema, and a value codec.
type ComponentMetadata interface { //revive:disable-line:exported
	Component

	// SetID assigns the ComponentID. It must only be called once.
	SetID(ComponentID) error
	// ID returns the assigned ComponentID.
	ID() ComponentID
	// NewColumn returns an empty type-erased column for this component type.
	NewColumn() Column
	// GetSchema returns the serialized JSON schema of the component struct.
	GetSchema() []byte
	Encode(any) ([]byte, error)
	Decode([]byte) (any, error)
}

// Column is a type-erased, densely packed array of component values of a
// single type, stored inside one archetype alongside per-row change ticks.
//
// Row indices are only valid until the next structural change. Passing an
// out-of-range row or a value of the wrong concrete type is a programming
// error and panics; registry discipline makes both unreachable.
type Column interface {
	ComponentID() ComponentID
	Len() int
	// Push appends a value, stamping both ticks with now, and returns its row.
	Push(value any, now Tick) int
	// PushMoved appends a value that was moved out of another column,
	// preserving its ticks, and returns its row.
	PushMoved(value any, ticks ComponentTicks) int
	Value(row int) any
	// SetValue overwrites the value at row and stamps its changed tick.
	SetValue(row int, value any, now Tick)
	Ticks(row int) ComponentTicks
	// MarkChanged stamps the changed tick at row without touching the value.
	MarkChanged(row int, now Tick)
	// SwapRemove removes the value at row by moving the last value into the
	// vacated row, and returns the removed value.
	SwapRemove(row int) any
	// MoveTo moves the value and ticks at row into dst, then swap-removes
	// the vacated row.
	MoveTo(dst Column, row int)
}

// SerializeComponentSchema produces the JSON schema of a component struct.
func SerializeComponentSchema(component Component) ([]byte, error) {
	componentSchema := jsonschema.Reflect(component)
	schema, err := componentSchema.MarshalJSON()
	if err != nil {
		return nil, eris.Wrap(err, "component must be json serializable")
	}
	return schema, nil
}

// IsSchemaValid returns true if the two serialized schemas describe the same
// component shape.
func IsSchemaValid(jsonSchemaBytes1 []byte, jsonSchemaBytes2 []byte) (bool, error) {
	patch, err := jsondiff.CompareJSON(jsonSchemaBytes1, jsonSchemaBytes2)
	if err != nil {
		return false, eris.Wrap(err, "")
	}
	return patch.String() == "", nil
}

// ConvertComponentMetadatasToComponents casts a slice of ComponentMetadata
// into a slice of Component.
func ConvertComponentMetadatasToComponents(comps []ComponentMetadata) []Component {
	ret := make([]Component, len(comps))
	for i, comp := range comps {
		ret[i] = comp
	}
	return ret
}
