// Package log holds the structured zerolog helpers shared by the world and
// its storage layer.
package log

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/mosaic-engine/mosaic/types"
)

// Loggable is anything that can report its registered component types.
type Loggable interface {
	RegisteredComponents() []types.ComponentMetadata
}

func loadComponentIntoArrayLogger(
	component types.ComponentMetadata,
	arrayLogger *zerolog.Array,
) *zerolog.Array {
	dictLogger := zerolog.Dict()
	dictLogger = dictLogger.Int("component_id", int(component.ID()))
	dictLogger = dictLogger.Str("component_name", component.Name())
	return arrayLogger.Dict(dictLogger)
}

func loadComponentsToEvent(zeroLoggerEvent *zerolog.Event, target Loggable) *zerolog.Event {
	components := target.RegisteredComponents()
	sort.Slice(components, func(i, j int) bool {
		return components[i].ID() < components[j].ID()
	})
	zeroLoggerEvent.Int("total_components", len(components))
	arrayLogger := zerolog.Arr()
	for _, comp := range components {
		arrayLogger = loadComponentIntoArrayLogger(comp, arrayLogger)
	}
	return zeroLoggerEvent.Array("components", arrayLogger)
}

// Components logs every component type registered with the target.
func Components(logger *zerolog.Logger, target Loggable, level zerolog.Level) {
	zeroLoggerEvent := logger.WithLevel(level)
	zeroLoggerEvent = loadComponentsToEvent(zeroLoggerEvent, target)
	zeroLoggerEvent.Send()
}

// Entity logs an entity's identifier, archetype and component set.
func Entity(
	logger *zerolog.Logger, level zerolog.Level,
	entityID types.EntityID, archID types.ArchetypeID,
	components []types.ComponentMetadata,
) {
	arrayLogger := zerolog.Arr()
	for _, comp := range components {
		arrayLogger = loadComponentIntoArrayLogger(comp, arrayLogger)
	}
	zeroLoggerEvent := logger.WithLevel(level)
	zeroLoggerEvent.Array("components", arrayLogger)
	zeroLoggerEvent.Stringer("entity", entityID)
	zeroLoggerEvent.Int("archetype_id", int(archID))
	zeroLoggerEvent.Send()
}
