package control

import (
	"fmt"
	"strings"

	"github.com/san-kum/vizsync/internal/factory"
)

// GeometryType is the requested representation of volumetric leaves.
type GeometryType int

const (
	GeometryDefault GeometryType = iota
	GeometryLines
	GeometryCylinders
)

func (g GeometryType) String() string {
	switch g {
	case GeometryLines:
		return "lines"
	case GeometryCylinders:
		return "cylinders"
	default:
		return "default"
	}
}

// LineMode maps the type onto the builder's line policy.
func (g GeometryType) LineMode() factory.LineMode {
	switch g {
	case GeometryLines:
		return factory.LinesOn
	case GeometryCylinders:
		return factory.LinesOff
	default:
		return factory.LinesAuto
	}
}

func ParseGeometryType(s string) (GeometryType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lines", "line":
		return GeometryLines, nil
	case "cylinders", "cylinder", "tubes", "mesh":
		return GeometryCylinders, nil
	case "default", "":
		return GeometryDefault, nil
	}
	return GeometryDefault, fmt.Errorf("%w: %q", ErrGeometryType, s)
}

// Rebuilder regenerates the objects of one aspect.
type Rebuilder interface {
	Rebuild(aspectPath string, mode factory.LineMode, thickness float32) error
}
