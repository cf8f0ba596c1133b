package types

// ArchetypeID identifies a storage partition holding all entities that share
// an identical component-type set. IDs are assigned in creation order and
// archetypes are never destroyed, so an ArchetypeID stays valid for the
// lifetime of its World.
type ArchetypeID int
