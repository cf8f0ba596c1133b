package search

import "github.com/rotisserie/eris"

var (
	// ErrAliasingViolation is returned when two concurrently iterating
	// searches would hold conflicting access to a component type, or when a
	// single search declares conflicting access to one type.
	ErrAliasingViolation = eris.New("conflicting component access between live searches")

	// ErrActiveSearch is returned when a structural change (spawn, despawn,
	// add or remove component) is attempted while a search is iterating.
	// Migration invalidates the row indices a live search is walking.
	ErrActiveSearch = eris.New("cannot modify the world while a search is iterating")

	// ErrUndeclaredAccess is returned when a cursor accessor is used for a
	// component type the search did not declare with Read or Write.
	ErrUndeclaredAccess = eris.New("component access was not declared by the search")

	// ErrNoMatchingEntities is returned by First when nothing matches.
	ErrNoMatchingEntities = eris.New("no entities match the search")
)
