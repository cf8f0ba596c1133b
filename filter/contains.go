package filter

import (
	"github.com/mosaic-engine/mosaic/types"
)

// Contains matches archetypes whose component set is a superset of the given
// components.
func Contains(components ...types.Component) ComponentFilter {
	return containsFilter{components: components}
}

type containsFilter struct {
	components []types.Component
}

func (f containsFilter) MatchesComponents(components []types.Component) bool {
	for _, required := range f.components {
		if !containsName(components, required.Name()) {
			return false
		}
	}
	return true
}

// Exact matches archetypes whose component set is exactly the given
// components, in any order.
func Exact(components ...types.Component) ComponentFilter {
	return exactFilter{components: components}
}

type exactFilter struct {
	components []types.Component
}

func (f exactFilter) MatchesComponents(components []types.Component) bool {
	if len(components) != len(f.components) {
		return false
	}
	for _, comp := range components {
		if !containsName(f.components, comp.Name()) {
			return false
		}
	}
	return true
}

func containsName(components []types.Component, name string) bool {
	for _, c := range components {
		if c.Name() == name {
			return true
		}
	}
	return false
}
