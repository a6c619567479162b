package control

import "errors"

var (
	// ErrNotFound indicates no scene object is registered for a path.
	ErrNotFound = errors.New("control: no scene object for path")

	// ErrNoRebuilder indicates a geometry switch with no rebuilder wired.
	ErrNoRebuilder = errors.New("control: geometry rebuild not available")

	// ErrGeometryType indicates an unknown geometry type name.
	ErrGeometryType = errors.New("control: unknown geometry type")
)
