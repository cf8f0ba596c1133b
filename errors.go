package mosaic

import (
	"github.com/mosaic-engine/mosaic/component"
	"github.com/mosaic-engine/mosaic/search"
	"github.com/mosaic-engine/mosaic/storage"
)

// Recoverable conditions surface as errors; use eris.Is against these
// sentinels. Type mismatches, mid-migration corruption and allocator
// exhaustion are programming errors or fatal states and panic instead.
var (
	ErrEntityDoesNotExist      = storage.ErrEntityDoesNotExist
	ErrComponentNotOnEntity    = storage.ErrComponentNotOnEntity
	ErrDuplicateComponent      = storage.ErrDuplicateComponent
	ErrComponentNotRegistered  = component.ErrComponentNotRegistered
	ErrComponentSchemaMismatch = component.ErrComponentSchemaMismatch
	ErrComponentLimitExceeded  = component.ErrComponentLimitExceeded
	ErrAliasingViolation       = search.ErrAliasingViolation
	ErrActiveSearch            = search.ErrActiveSearch
	ErrUndeclaredAccess        = search.ErrUndeclaredAccess
	ErrNoMatchingEntities      = search.ErrNoMatchingEntities
)
