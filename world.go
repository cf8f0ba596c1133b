package mosaic

import (
	"os"
	"reflect"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/mosaic-engine/mosaic/component"
	"github.com/mosaic-engine/mosaic/cql"
	"github.com/mosaic-engine/mosaic/filter"
	"github.com/mosaic-engine/mosaic/log"
	"github.com/mosaic-engine/mosaic/search"
	"github.com/mosaic-engine/mosaic/storage"
	"github.com/mosaic-engine/mosaic/types"
)

// World owns all archetypes, the entity allocator and the entity->location
// index, plus the component registry and the update tick. Every external
// collaborator reaches the storage core through it.
type World struct {
	id           string
	config       WorldConfig
	customLogger *zerolog.Logger

	Logger   zerolog.Logger
	registry *component.Registry
	store    *storage.Store
	tracker  *search.Tracker
	tick     types.Tick
}

var _ search.Reader = &World{}

// NewWorld creates an empty world. Configuration comes from MOSAIC_*
// environment variables, overridable per option.
func NewWorld(opts ...WorldOption) (*World, error) {
	w := &World{config: GetWorldConfig()}
	for _, opt := range opts {
		opt(w)
	}
	if w.id == "" {
		w.id = uuid.New().String()
	}

	base := w.customLogger
	if base == nil {
		level, err := zerolog.ParseLevel(w.config.LogLevel)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid log level %q", w.config.LogLevel)
		}
		var logger zerolog.Logger
		if w.config.LogPretty {
			logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
		} else {
			logger = zerolog.New(os.Stderr)
		}
		logger = logger.Level(level).With().Timestamp().Logger()
		base = &logger
	}
	w.Logger = base.With().Str("world_id", w.id).Logger()

	w.registry = component.NewRegistry()
	w.tracker = search.NewTracker(w.config.StrictAliasing)
	w.store = storage.NewStore(w.Logger, w.config.EntityCapacity)
	w.tick = 1

	w.Logger.Info().Msg("created world")
	return w, nil
}

// Spawn issues a new identifier and places the entity in the
// empty-component-set archetype.
func (w *World) Spawn() (types.EntityID, error) {
	if err := w.structuralGuard(); err != nil {
		return types.EntityID{}, err
	}
	return w.store.Spawn(), nil
}

// SpawnBatch spawns num entities and returns their identifiers.
func (w *World) SpawnBatch(num int) ([]types.EntityID, error) {
	if err := w.structuralGuard(); err != nil {
		return nil, err
	}
	ids := make([]types.EntityID, num)
	for i := range ids {
		ids[i] = w.store.Spawn()
	}
	return ids, nil
}

// Despawn removes the entity's row and recycles its identifier. A stale
// identifier returns false, not an error.
func (w *World) Despawn(id types.EntityID) (bool, error) {
	if err := w.structuralGuard(); err != nil {
		return false, err
	}
	return w.store.Despawn(id), nil
}

// IsAlive returns true if the identifier refers to a live entity.
func (w *World) IsAlive(id types.EntityID) bool {
	return w.store.IsAlive(id)
}

// AdvanceTick bumps the world tick and returns the new value. The
// scheduling layer must call this exactly once per logical update pass for
// change-detection searches to be meaningful.
func (w *World) AdvanceTick() types.Tick {
	w.tick++
	return w.tick
}

// CurrentTick returns the world tick.
func (w *World) CurrentTick() types.Tick {
	return w.tick
}

// NewSearch builds a search over this world from access and filter options.
func (w *World) NewSearch(opts ...search.Option) (*search.Search, error) {
	return search.New(w, w.tracker, opts...)
}

// ParseFilter compiles a CQL expression such as "CONTAINS(Position) &
// !CONTAINS(Velocity)" against this world's registry.
func (w *World) ParseFilter(expr string) (filter.ComponentFilter, error) {
	return cql.Parse(expr, w.registry.ByName)
}

// Registry returns the world's component registry.
func (w *World) Registry() *component.Registry {
	return w.registry
}

// RegisteredComponents returns metadata for every registered component type.
func (w *World) RegisteredComponents() []types.ComponentMetadata {
	return w.registry.All()
}

// LogComponents writes the registered component table to the world's logger.
func (w *World) LogComponents() {
	log.Components(&w.Logger, w, zerolog.InfoLevel)
}

// EntityCount returns the number of live entities.
func (w *World) EntityCount() int {
	return w.store.EntityCount()
}

// ArchetypeCount returns the number of component archetypes ever created.
// Archetypes are created lazily on first use of a component-type set and
// never destroyed. The internal archetype staging freshly spawned,
// component-less entities is not counted.
func (w *World) ArchetypeCount() int {
	return w.store.ArchetypeCount() - 1
}

// ArchetypeEntityCounts returns the entity count of every component
// archetype in creation order.
func (w *World) ArchetypeEntityCounts() []int {
	counts := make([]int, 0, w.ArchetypeCount())
	for i := 1; i < w.store.ArchetypeCount(); i++ {
		counts = append(counts, w.store.Archetype(types.ArchetypeID(i)).Count())
	}
	return counts
}

// SearchFrom implements search.Reader.
func (w *World) SearchFrom(f filter.ComponentFilter, start int) *storage.ArchetypeIterator {
	return w.store.SearchFrom(f, start)
}

// ArchetypeTableSize implements search.Reader.
func (w *World) ArchetypeTableSize() int {
	return w.store.ArchetypeCount()
}

// Archetype implements search.Reader.
func (w *World) Archetype(archID types.ArchetypeID) *storage.Archetype {
	return w.store.Archetype(archID)
}

// ComponentByType implements search.Reader.
func (w *World) ComponentByType(typ reflect.Type) (types.ComponentMetadata, error) {
	return w.registry.ByType(typ)
}

// structuralGuard rejects structural changes while a search is iterating.
// Migration invalidates the row indices live searches are walking, so the
// change must wait until iteration is done.
func (w *World) structuralGuard() error {
	if w.tracker.ActiveIterations() > 0 {
		return eris.Wrap(search.ErrActiveSearch, "")
	}
	return nil
}
