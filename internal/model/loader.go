package model

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"cogentcore.org/core/math32"
	"gopkg.in/yaml.v3"
)

// visualizationSegment separates an aspect path from the paths of its
// visualization nodes.
const visualizationSegment = "VisualizationTree"

type projectDoc struct {
	ID       string      `yaml:"id"`
	Name     string      `yaml:"name"`
	Entities []entityDoc `yaml:"entities"`
}

type entityDoc struct {
	ID           string          `yaml:"id"`
	Name         string          `yaml:"name"`
	InstancePath string          `yaml:"instance_path"`
	Position     *vec3Doc        `yaml:"position"`
	Aspects      []aspectDoc     `yaml:"aspects"`
	Entities     []entityDoc     `yaml:"entities"`
	Connections  []connectionDoc `yaml:"connections"`
}

type aspectDoc struct {
	ID               string              `yaml:"id"`
	Name             string              `yaml:"name"`
	InstancePath     string              `yaml:"instance_path"`
	ModelInterpreter string              `yaml:"model_interpreter"`
	Simulator        string              `yaml:"simulator"`
	Model            string              `yaml:"model"`
	Visualization    []nodeDoc           `yaml:"visualization"`
	ModelTree        map[string]Quantity `yaml:"model_tree"`
	SimulationTree   map[string]Quantity `yaml:"simulation_tree"`
}

type connectionDoc struct {
	ID     string `yaml:"id"`
	Type   string `yaml:"type"`
	Entity string `yaml:"entity"`
}

type nodeDoc struct {
	ID           string    `yaml:"id"`
	Type         string    `yaml:"type"`
	InstancePath string    `yaml:"instance_path"`
	Position     vec3Doc   `yaml:"position"`
	Distal       vec3Doc   `yaml:"distal"`
	Radius       scalar    `yaml:"radius"`
	RadiusTop    scalar    `yaml:"radius_top"`
	RadiusBottom scalar    `yaml:"radius_bottom"`
	Format       string    `yaml:"format"`
	Data         string    `yaml:"data"`
	Children     []nodeDoc `yaml:"children"`
}

type vec3Doc [3]float32

func (v vec3Doc) vector() math32.Vector3 { return math32.Vec3(v[0], v[1], v[2]) }

// scalar decodes plain numbers as well as numeric strings such as "1.25".
type scalar float32

func (s *scalar) UnmarshalYAML(value *yaml.Node) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(value.Value), 32)
	if err != nil {
		return fmt.Errorf("%w: line %d: %q is not a number", ErrInvalidModel, value.Line, value.Value)
	}
	*s = scalar(f)
	return nil
}

// Load reads a YAML model file.
func Load(path string, logger *slog.Logger) (*Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, logger)
}

// Decode builds a project from a YAML document. Instance paths that are not
// given explicitly are derived from ids. Visualization nodes of an unknown
// type are dropped.
func Decode(r io.Reader, logger *slog.Logger) (*Project, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var doc projectDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}

	p := &Project{ID: doc.ID, Name: doc.Name}
	if p.Name == "" {
		p.Name = p.ID
	}
	d := decoder{logger: logger}
	for _, ed := range doc.Entities {
		e, err := d.entity(ed, "")
		if err != nil {
			return nil, err
		}
		p.Entities = append(p.Entities, e)
	}
	if _, err := NewIndex(p.Entities...); err != nil {
		return nil, err
	}
	return p, nil
}

type decoder struct {
	logger *slog.Logger
}

func joinPath(parent, id string) string {
	if parent == "" {
		return id
	}
	return parent + "." + id
}

func (d decoder) entity(ed entityDoc, parentPath string) (*Entity, error) {
	if ed.ID == "" {
		return nil, fmt.Errorf("%w: entity without id under %q", ErrInvalidModel, parentPath)
	}
	path := ed.InstancePath
	if path == "" {
		path = joinPath(parentPath, ed.ID)
	}
	e := NewEntity(ed.ID, path)
	if ed.Name != "" {
		e.Name = ed.Name
	}
	if ed.Position != nil {
		p := ed.Position.vector()
		e.Position = &p
	}

	for _, ad := range ed.Aspects {
		a, err := d.aspect(ad, path)
		if err != nil {
			return nil, err
		}
		e.AddAspect(a)
	}
	for _, cd := range ed.Connections {
		ct, err := ParseConnectionType(cd.Type)
		if err != nil {
			return nil, err
		}
		if cd.Entity == "" {
			return nil, fmt.Errorf("%w: connection %q of %s has no target", ErrInvalidModel, cd.ID, path)
		}
		e.AddConnection(&Connection{ID: cd.ID, Type: ct, EntityInstancePath: cd.Entity})
	}
	for _, cd := range ed.Entities {
		child, err := d.entity(cd, path)
		if err != nil {
			return nil, err
		}
		e.AddEntity(child)
	}
	return e, nil
}

func (d decoder) aspect(ad aspectDoc, entityPath string) (*Aspect, error) {
	if ad.ID == "" {
		return nil, fmt.Errorf("%w: aspect without id in %s", ErrInvalidModel, entityPath)
	}
	path := ad.InstancePath
	if path == "" {
		path = joinPath(entityPath, ad.ID)
	}
	a := NewAspect(ad.ID, path)
	if ad.Name != "" {
		a.Name = ad.Name
	}
	a.ModelInterpreter = ad.ModelInterpreter
	a.Simulator = ad.Simulator
	a.ModelURL = ad.Model
	for k, v := range ad.ModelTree {
		a.ModelTree[k] = v
	}
	for k, v := range ad.SimulationTree {
		a.SimulationTree[k] = v
	}

	nodes, err := d.nodes(ad.Visualization, joinPath(path, visualizationSegment))
	if err != nil {
		return nil, err
	}
	a.VisualizationTree = nodes
	return a, nil
}

func (d decoder) nodes(docs []nodeDoc, parentPath string) ([]VisualizationNode, error) {
	nodes := make([]VisualizationNode, 0, len(docs))
	for _, nd := range docs {
		n, err := d.node(nd, parentPath)
		if err != nil {
			return nil, err
		}
		if n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

func (d decoder) node(nd nodeDoc, parentPath string) (VisualizationNode, error) {
	path := nd.InstancePath
	if path == "" {
		if nd.ID == "" {
			return nil, fmt.Errorf("%w: %s node without id under %s", ErrInvalidModel, nd.Type, parentPath)
		}
		path = joinPath(parentPath, nd.ID)
	}

	switch strings.ToLower(nd.Type) {
	case "particle":
		return &Particle{InstancePath: path, Position: nd.Position.vector()}, nil
	case "sphere":
		return &Sphere{InstancePath: path, Position: nd.Position.vector(), Radius: float32(nd.Radius)}, nil
	case "cylinder":
		return &Cylinder{
			InstancePath: path,
			Position:     nd.Position.vector(),
			Distal:       nd.Distal.vector(),
			RadiusTop:    float32(nd.RadiusTop),
			RadiusBottom: float32(nd.RadiusBottom),
		}, nil
	case "mesh", "obj", "collada":
		format := nd.Format
		if format == "" {
			format = strings.ToLower(nd.Type)
		}
		return &ImportedMesh{InstancePath: path, Position: nd.Position.vector(), Format: format, Data: []byte(nd.Data)}, nil
	case "composite":
		children, err := d.nodes(nd.Children, path)
		if err != nil {
			return nil, err
		}
		return &Composite{InstancePath: path, Children: children}, nil
	default:
		d.logger.Debug("skipping visualization node", "path", path, "type", nd.Type)
		return nil, nil
	}
}
