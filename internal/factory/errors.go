package factory

import "errors"

var (
	// ErrUnsupportedFormat indicates an imported mesh in a format with no
	// registered parser.
	ErrUnsupportedFormat = errors.New("factory: unsupported mesh format")

	// ErrMalformedMesh indicates a parser could not read an imported payload.
	ErrMalformedMesh = errors.New("factory: malformed mesh payload")
)

// BuildError wraps a failure with the instance path of the node being built.
type BuildError struct {
	Path    string
	Wrapped error
}

func (e *BuildError) Error() string {
	return e.Path + ": " + e.Wrapped.Error()
}

func (e *BuildError) Unwrap() error {
	return e.Wrapped
}
