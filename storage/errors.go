package storage

import "github.com/rotisserie/eris"

var (
	ErrEntityDoesNotExist   = eris.New("entity does not exist")
	ErrComponentNotOnEntity = eris.New("component not on entity")
	ErrDuplicateComponent   = eris.New("duplicate component type in one operation")
)
