package factory

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/vizsync/internal/scene"
)

// MeshParser turns an imported model payload into sub-mesh geometries in
// model-local space.
type MeshParser interface {
	Parse(data []byte) ([]*scene.Geometry, error)
}

// ParserFunc adapts a function to MeshParser.
type ParserFunc func(data []byte) ([]*scene.Geometry, error)

func (f ParserFunc) Parse(data []byte) ([]*scene.Geometry, error) { return f(data) }

// Parsers maps format names to mesh parsers. Names are matched without
// regard to case.
type Parsers struct {
	parsers map[string]MeshParser
}

func NewParsers() *Parsers {
	return &Parsers{parsers: make(map[string]MeshParser)}
}

func (p *Parsers) Register(format string, parser MeshParser) {
	p.parsers[strings.ToLower(format)] = parser
}

func (p *Parsers) Get(format string) (MeshParser, error) {
	if p != nil {
		if parser, ok := p.parsers[strings.ToLower(format)]; ok {
			return parser, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func (p *Parsers) List() []string {
	if p == nil {
		return nil
	}
	names := make([]string, 0, len(p.parsers))
	for name := range p.parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
