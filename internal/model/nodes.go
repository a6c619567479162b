package model

import (
	"fmt"

	"cogentcore.org/core/math32"
)

type ConnectionType int

const (
	ConnectionInput ConnectionType = iota + 1
	ConnectionOutput
)

func (t ConnectionType) String() string {
	switch t {
	case ConnectionInput:
		return "input"
	case ConnectionOutput:
		return "output"
	default:
		return "unknown"
	}
}

// ParseConnectionType accepts "input"/"output" in any case used by model files.
func ParseConnectionType(s string) (ConnectionType, error) {
	switch s {
	case "input", "INPUT", "Input", "FROM":
		return ConnectionInput, nil
	case "output", "OUTPUT", "Output", "TO":
		return ConnectionOutput, nil
	}
	return 0, fmt.Errorf("%w: connection type %q", ErrInvalidModel, s)
}

// Connection is a directed edge to another entity, referenced by path.
type Connection struct {
	ID                 string
	Type               ConnectionType
	EntityInstancePath string
}

// Quantity is a value with unit and scale, the leaf of model and simulation
// state trees.
type Quantity struct {
	Value float64 `yaml:"value" json:"value"`
	Unit  string  `yaml:"unit,omitempty" json:"unit,omitempty"`
	Scale string  `yaml:"scale,omitempty" json:"scale,omitempty"`
}

type Aspect struct {
	ID               string
	Name             string
	InstancePath     string
	ModelInterpreter string
	Simulator        string
	ModelURL         string

	VisualizationTree []VisualizationNode
	ModelTree         map[string]Quantity
	SimulationTree    map[string]Quantity

	Selected bool
	Visible  bool

	parent *Entity
}

func NewAspect(id, instancePath string) *Aspect {
	return &Aspect{
		ID:             id,
		Name:           id,
		InstancePath:   instancePath,
		ModelTree:      make(map[string]Quantity),
		SimulationTree: make(map[string]Quantity),
		Visible:        true,
	}
}

func (a *Aspect) Parent() *Entity { return a.parent }

type Entity struct {
	ID           string
	Name         string
	InstancePath string
	// Position, when set, translates every object generated for the
	// entity's aspects.
	Position *math32.Vector3

	Aspects     []*Aspect
	Entities    []*Entity
	Connections []*Connection

	Selected bool
	Visible  bool

	parent *Entity
}

func NewEntity(id, instancePath string) *Entity {
	return &Entity{
		ID:           id,
		Name:         id,
		InstancePath: instancePath,
		Visible:      true,
	}
}

func (e *Entity) Parent() *Entity { return e.parent }

func (e *Entity) AddAspect(a *Aspect) {
	a.parent = e
	e.Aspects = append(e.Aspects, a)
}

func (e *Entity) AddEntity(child *Entity) {
	child.parent = e
	e.Entities = append(e.Entities, child)
}

func (e *Entity) AddConnection(c *Connection) {
	e.Connections = append(e.Connections, c)
}

// AspectPaths returns the instance paths of every aspect in the subtree
// rooted at e, in depth-first order.
func (e *Entity) AspectPaths() []string {
	var paths []string
	WalkEntities([]*Entity{e}, func(ent *Entity) bool {
		for _, a := range ent.Aspects {
			paths = append(paths, a.InstancePath)
		}
		return true
	})
	return paths
}

// WalkEntities visits roots and their nested entities in pre-order. It uses
// an explicit stack so arbitrarily deep nesting does not grow the call
// stack. Returning false from fn skips that entity's children.
func WalkEntities(roots []*Entity, fn func(*Entity) bool) {
	stack := make([]*Entity, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if e == nil || !fn(e) {
			continue
		}
		for i := len(e.Entities) - 1; i >= 0; i-- {
			stack = append(stack, e.Entities[i])
		}
	}
}

type Project struct {
	ID       string
	Name     string
	Entities []*Entity
}

// Aspects returns every aspect of the project in depth-first order.
func (p *Project) Aspects() []*Aspect {
	var aspects []*Aspect
	WalkEntities(p.Entities, func(e *Entity) bool {
		aspects = append(aspects, e.Aspects...)
		return true
	})
	return aspects
}

// Complexity is the total primitive count of every visualization tree in
// the project.
func (p *Project) Complexity() int {
	total := 0
	for _, a := range p.Aspects() {
		total += LeafCount(a.VisualizationTree)
	}
	return total
}
