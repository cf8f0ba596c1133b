// Package filter holds composable predicates over an archetype's component
// set. Filters work on component names, the one key that is stable across
// registries; ComponentIDs are registry-local and never leave the storage
// layer.
package filter

import (
	"github.com/mosaic-engine/mosaic/types"
)

// ComponentFilter decides whether an archetype's component set matches.
type ComponentFilter interface {
	MatchesComponents(components []types.Component) bool
}

// All matches every archetype, including the empty one.
func All() ComponentFilter {
	return allFilter{}
}

type allFilter struct{}

func (allFilter) MatchesComponents([]types.Component) bool {
	return true
}

// And matches archetypes that match every given filter.
func And(filters ...ComponentFilter) ComponentFilter {
	return andFilter{filters: filters}
}

type andFilter struct {
	filters []ComponentFilter
}

func (f andFilter) MatchesComponents(components []types.Component) bool {
	for _, sub := range f.filters {
		if !sub.MatchesComponents(components) {
			return false
		}
	}
	return true
}

// Or matches archetypes that match at least one of the given filters.
func Or(filters ...ComponentFilter) ComponentFilter {
	return orFilter{filters: filters}
}

type orFilter struct {
	filters []ComponentFilter
}

func (f orFilter) MatchesComponents(components []types.Component) bool {
	for _, sub := range f.filters {
		if sub.MatchesComponents(components) {
			return true
		}
	}
	return false
}

// Not inverts a filter.
func Not(filter ComponentFilter) ComponentFilter {
	return notFilter{filter: filter}
}

type notFilter struct {
	filter ComponentFilter
}

func (f notFilter) MatchesComponents(components []types.Component) bool {
	return !f.filter.MatchesComponents(components)
}
