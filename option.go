package mosaic

import (
	"github.com/rs/zerolog"
)

// WorldOption augments how a World is constructed.
type WorldOption func(*World)

// WithLogger replaces the logger built from WorldConfig. The world_id field
// is still attached.
func WithLogger(logger zerolog.Logger) WorldOption {
	return func(w *World) {
		w.customLogger = &logger
	}
}

// WithWorldID sets the world's instance id used in log events. The default
// is a random UUID.
func WithWorldID(id string) WorldOption {
	return func(w *World) {
		w.id = id
	}
}

// WithEntityCapacity pre-sizes the entity allocator and location index.
func WithEntityCapacity(capacity int) WorldOption {
	return func(w *World) {
		w.config.EntityCapacity = capacity
	}
}

// WithStrictAliasing makes aliasing violations panic instead of returning an
// error. Intended for development builds, where a violation should fail
// loudly at the offending call site.
func WithStrictAliasing() WorldOption {
	return func(w *World) {
		w.config.StrictAliasing = true
	}
}
