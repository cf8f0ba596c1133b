package mosaic

import (
	"github.com/mosaic-engine/mosaic/codec"
	"github.com/mosaic-engine/mosaic/types"
)

type ArchetypeDebug struct {
	ID          types.ArchetypeID `json:"id"`
	Components  []string          `json:"components"`
	EntityCount int               `json:"entity_count"`
	Entities    []types.EntityID  `json:"entities"`
}

type WorldDebug struct {
	WorldID    string           `json:"world_id"`
	Tick       types.Tick       `json:"tick"`
	Entities   int              `json:"entities"`
	Archetypes []ArchetypeDebug `json:"archetypes"`
}

// DebugState serializes the world's archetype table to JSON: every archetype
// with its component names and resident entities. Meant for debug endpoints
// and test failure dumps, not as a persistence format.
func (w *World) DebugState() ([]byte, error) {
	state := WorldDebug{
		WorldID:  w.id,
		Tick:     w.tick,
		Entities: w.store.EntityCount(),
	}
	for i := 0; i < w.store.ArchetypeCount(); i++ {
		arch := w.store.Archetype(types.ArchetypeID(i))
		names := make([]string, 0, arch.Layout().Len())
		for _, md := range arch.Layout().Components() {
			names = append(names, md.Name())
		}
		state.Archetypes = append(state.Archetypes, ArchetypeDebug{
			ID:          arch.ID(),
			Components:  names,
			EntityCount: arch.Count(),
			Entities:    arch.Entities(),
		})
	}
	return codec.Encode(state)
}
