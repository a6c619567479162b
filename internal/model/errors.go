package model

import "errors"

var (
	// ErrInvalidModel indicates a model document that cannot be turned into a project.
	ErrInvalidModel = errors.New("model: invalid model")

	// ErrDuplicatePath indicates two nodes sharing an instance path.
	ErrDuplicatePath = errors.New("model: duplicate instance path")

	// ErrNotFound indicates an instance path that is not part of the index.
	ErrNotFound = errors.New("model: instance path not found")
)
