package search

import (
	"reflect"

	"github.com/rotisserie/eris"

	"github.com/mosaic-engine/mosaic/filter"
	"github.com/mosaic-engine/mosaic/types"
)

// Option configures one access request or filter of a Search.
type Option func(*Search) error

// Read requests shared access to component type T. Rows of archetypes that
// lack T are not matched.
func Read[T types.Component]() Option {
	return func(s *Search) error {
		md, err := s.resolve(typeOf[T]())
		if err != nil {
			return err
		}
		return s.addAccess(md, false)
	}
}

// Write requests exclusive access to component type T. A search may request
// Write for a given type at most once, and never alongside Read of the same
// type.
func Write[T types.Component]() Option {
	return func(s *Search) error {
		md, err := s.resolve(typeOf[T]())
		if err != nil {
			return err
		}
		return s.addAccess(md, true)
	}
}

// With matches only archetypes containing component type T, without
// requesting data access.
func With[T types.Component]() Option {
	return func(s *Search) error {
		md, err := s.resolve(typeOf[T]())
		if err != nil {
			return err
		}
		s.required = append(s.required, md)
		return nil
	}
}

// Without matches only archetypes that do not contain component type T.
func Without[T types.Component]() Option {
	return func(s *Search) error {
		md, err := s.resolve(typeOf[T]())
		if err != nil {
			return err
		}
		s.excluded = append(s.excluded, md)
		return nil
	}
}

// ChangedSince matches only rows whose T was written after the given tick.
// Presence of T is implied. The caller passes the tick it last observed,
// typically the world tick of its previous run.
func ChangedSince[T types.Component](since types.Tick) Option {
	return func(s *Search) error {
		md, err := s.resolve(typeOf[T]())
		if err != nil {
			return err
		}
		s.required = append(s.required, md)
		s.changed = append(s.changed, changedGate{md: md, since: since})
		return nil
	}
}

// Filter adds an arbitrary archetype filter, such as one compiled from a
// CQL expression.
func Filter(f filter.ComponentFilter) Option {
	return func(s *Search) error {
		if f == nil {
			return eris.New("nil component filter")
		}
		s.extra = append(s.extra, f)
		return nil
	}
}

func typeOf[T types.Component]() reflect.Type {
	var t T
	return reflect.TypeOf(t)
}
