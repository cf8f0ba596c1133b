package component_test

import (
	"reflect"
	"testing"

	"github.com/mosaic-engine/mosaic/assert"
	"github.com/mosaic-engine/mosaic/component"
	"github.com/mosaic-engine/mosaic/types"
)

type Energy struct {
	Amount int
}

func (Energy) Name() string { return "energy" }

type Ownable struct {
	Owner string
}

func (Ownable) Name() string { return "ownable" }

// energyImpostor reuses Energy's name with a different shape.
type energyImpostor struct {
	Amount string
}

func (energyImpostor) Name() string { return "energy" }

func TestRegisterAssignsSequentialIDs(t *testing.T) {
	reg := component.NewRegistry()

	energy, err := component.Register[Energy](reg)
	assert.NilError(t, err)
	ownable, err := component.Register[Ownable](reg)
	assert.NilError(t, err)

	assert.Equal(t, types.ComponentID(0), energy.ID())
	assert.Equal(t, types.ComponentID(1), ownable.ID())
	assert.Equal(t, 2, reg.Len())
}

func TestRegisterIsIdempotentPerType(t *testing.T) {
	reg := component.NewRegistry()
	first, err := component.Register[Energy](reg)
	assert.NilError(t, err)
	second, err := component.Register[Energy](reg)
	assert.NilError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, reg.Len())
}

func TestRegisterRejectsNameCollision(t *testing.T) {
	reg := component.NewRegistry()
	_, err := component.Register[Energy](reg)
	assert.NilError(t, err)

	_, err = component.Register[energyImpostor](reg)
	assert.ErrorIs(t, err, component.ErrComponentSchemaMismatch)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryLookups(t *testing.T) {
	reg := component.NewRegistry()
	energy, err := component.Register[Energy](reg)
	assert.NilError(t, err)

	byName, err := reg.ByName("energy")
	assert.NilError(t, err)
	assert.Equal(t, energy, byName)

	byID, err := reg.ByID(energy.ID())
	assert.NilError(t, err)
	assert.Equal(t, energy, byID)

	byType, err := reg.ByType(reflect.TypeOf(Energy{}))
	assert.NilError(t, err)
	assert.Equal(t, energy, byType)

	byValue, err := reg.ByValue(Energy{Amount: 3})
	assert.NilError(t, err)
	assert.Equal(t, energy, byValue)

	_, err = reg.ByName("ownable")
	assert.ErrorIs(t, err, component.ErrComponentNotRegistered)
	_, err = reg.ByID(types.ComponentID(40))
	assert.ErrorIs(t, err, component.ErrComponentNotRegistered)
	_, err = reg.ByType(reflect.TypeOf(Ownable{}))
	assert.ErrorIs(t, err, component.ErrComponentNotRegistered)
}
