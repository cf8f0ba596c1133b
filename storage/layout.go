package storage

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/mosaic-engine/mosaic/types"
)

// Layout is the canonical component-type set of one archetype: the metadata
// of every component in the set, sorted by ComponentID, plus the bitmask key
// derived from it. Two archetypes are the same iff their layout keys are
// equal.
type Layout struct {
	key   bitmask
	comps []types.ComponentMetadata
}

// NewLayout creates a layout from the given component set. Duplicates
// collapse into one entry.
func NewLayout(components []types.ComponentMetadata) *Layout {
	l := &Layout{}
	for _, md := range components {
		if l.key.containsBit(int(md.ID())) {
			continue
		}
		l.key.set(int(md.ID()))
		l.comps = append(l.comps, md)
	}
	sort.Slice(l.comps, func(i, j int) bool {
		return l.comps[i].ID() < l.comps[j].ID()
	})
	return l
}

// Components returns the layout's component metadata in ComponentID order.
func (l *Layout) Components() []types.ComponentMetadata {
	return l.comps
}

// HasComponent returns true if the layout contains the given component type.
func (l *Layout) HasComponent(id types.ComponentID) bool {
	return l.key.containsBit(int(id))
}

// With returns a new layout extended by the given component types.
func (l *Layout) With(components ...types.ComponentMetadata) *Layout {
	merged := make([]types.ComponentMetadata, 0, len(l.comps)+len(components))
	merged = append(merged, l.comps...)
	merged = append(merged, components...)
	return NewLayout(merged)
}

// Without returns a new layout with the given component type removed.
func (l *Layout) Without(id types.ComponentID) *Layout {
	kept := make([]types.ComponentMetadata, 0, len(l.comps))
	for _, md := range l.comps {
		if md.ID() != id {
			kept = append(kept, md)
		}
	}
	return NewLayout(kept)
}

// Len returns the number of component types in the layout.
func (l *Layout) Len() int {
	return len(l.comps)
}

func (l *Layout) String() string {
	var out bytes.Buffer
	out.WriteString("Layout: {")
	for i, md := range l.comps {
		if i != 0 {
			out.WriteString(", ")
		}
		fmt.Fprintf(&out, "%s", md.Name())
	}
	out.WriteString("}")
	return out.String()
}
