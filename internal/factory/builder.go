package factory

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"cogentcore.org/core/math32"

	"github.com/san-kum/vizsync/internal/model"
	"github.com/san-kum/vizsync/internal/scene"
)

// Builder turns visualization nodes into scene objects and registers each
// one under its instance path.
type Builder struct {
	registry *scene.Registry
	parsers  *Parsers
	opts     Options
	logger   *slog.Logger
	metrics  *scene.Metrics

	complexity int
}

func NewBuilder(reg *scene.Registry, parsers *Parsers, opts Options, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if parsers == nil {
		parsers = NewParsers()
	}
	return &Builder{
		registry: reg,
		parsers:  parsers,
		opts:     opts.withDefaults(),
		logger:   logger,
	}
}

// WithRegistry returns a copy of b that registers into reg. Complexity and
// parsers are shared by value at the time of the call.
func (b *Builder) WithRegistry(reg *scene.Registry) *Builder {
	c := *b
	c.registry = reg
	return &c
}

func (b *Builder) SetMetrics(m *scene.Metrics) { b.metrics = m }

// SetComplexity sets the scene-wide primitive count used by LinesAuto.
func (b *Builder) SetComplexity(n int) {
	b.complexity = n
	b.metrics.SetComplexity(n)
}

func (b *Builder) Complexity() int { return b.complexity }

func (b *Builder) Options() Options { return b.opts }

func (b *Builder) Parsers() *Parsers { return b.parsers }

// Style returns fresh materials for one aspect. thickness sets the line
// width when positive.
func (b *Builder) Style(thickness float32) scene.Style {
	o := b.opts
	line := &scene.Material{
		Kind:           scene.MaterialLine,
		Color:          o.DefaultColor,
		DefaultColor:   o.DefaultColor,
		Opacity:        o.DefaultOpacity,
		DefaultOpacity: o.DefaultOpacity,
		Linewidth:      1,
		DepthTest:      true,
	}
	if thickness > 0 {
		line.Linewidth = thickness
	}
	return scene.Style{
		Mesh: b.phong(o.Shininess),
		Line: line,
		Particle: &scene.Material{
			Kind:           scene.MaterialParticle,
			Color:          o.DefaultColor,
			DefaultColor:   o.DefaultColor,
			Opacity:        o.DefaultOpacity,
			DefaultOpacity: o.DefaultOpacity,
			Size:           o.ParticleSize,
			Additive:       true,
			Transparent:    true,
		},
	}
}

func (b *Builder) phong(shininess float32) *scene.Material {
	o := b.opts
	return &scene.Material{
		Kind:           scene.MaterialPhong,
		Color:          o.DefaultColor,
		DefaultColor:   o.DefaultColor,
		Opacity:        o.DefaultOpacity,
		DefaultOpacity: o.DefaultOpacity,
		Transparent:    o.DefaultOpacity < 1,
		Shininess:      shininess,
		DepthTest:      true,
	}
}

// Build materializes a single leaf. Composites and unrecognized nodes yield
// nil without error; only imported meshes can fail.
func (b *Builder) Build(node model.VisualizationNode, style scene.Style, mode LineMode) (*scene.Object, error) {
	lines := mode.Resolve(b.complexity, b.opts.LineThreshold)

	var obj *scene.Object
	switch n := node.(type) {
	case *model.Particle:
		obj = scene.NewObject(scene.ObjectPoint, model.KindParticle, n.InstancePath)
		obj.Position = n.Position
		obj.Material = style.Particle

	case *model.Sphere:
		obj = scene.NewObject(scene.ObjectMesh, model.KindSphere, n.InstancePath)
		obj.Position = n.Position
		if lines {
			// Spheres have no line form; they become low-poly meshes drawn
			// with the line material.
			obj.Geometry = sphereGeometry(n.Radius, b.opts.LineSphereSegments)
			obj.Material = style.Line
		} else {
			obj.Geometry = sphereGeometry(n.Radius, b.opts.SphereSegments)
			obj.Material = style.Mesh
		}

	case *model.Cylinder:
		obj = b.cylinder(n, style, lines)

	case *model.ImportedMesh:
		var err error
		if obj, err = b.imported(n); err != nil {
			return nil, &BuildError{Path: n.InstancePath, Wrapped: err}
		}

	case nil, *model.Composite:
		return nil, nil

	default:
		b.logger.Debug("skipping unsupported node", "kind", node.Kind(), "path", node.Path())
		return nil, nil
	}

	if b.registry != nil {
		b.registry.Register(obj.InstancePath, obj)
	}
	return obj, nil
}

func (b *Builder) cylinder(n *model.Cylinder, style scene.Style, lines bool) *scene.Object {
	axis := n.Distal.Sub(n.Position)
	var obj *scene.Object
	if lines {
		obj = scene.NewObject(scene.ObjectLine, model.KindCylinder, n.InstancePath)
		half := axis.MulScalar(0.5)
		obj.Geometry = scene.NewLineGeometry(half.MulScalar(-1), half)
		obj.Material = style.Line
	} else {
		obj = scene.NewObject(scene.ObjectMesh, model.KindCylinder, n.InstancePath)
		length := axis.Length()
		obj.Geometry = cylinderGeometry(n.RadiusTop, n.RadiusBottom, length, b.opts.CylinderSegments)
		if length > 0 {
			obj.Rotation.SetFromUnitVectors(math32.Vec3(0, 0, 1), axis.Normal())
		}
		obj.Material = style.Mesh
	}
	obj.Position = n.Midpoint()
	return obj
}

// imported parses the payload and wraps every sub-mesh in a group with its
// own default material.
func (b *Builder) imported(n *model.ImportedMesh) (*scene.Object, error) {
	parser, err := b.parsers.Get(n.Format)
	if err != nil {
		return nil, err
	}
	geoms, err := parser.Parse(n.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMesh, err)
	}
	if len(geoms) == 0 {
		return nil, fmt.Errorf("%w: no meshes in %s payload", ErrMalformedMesh, n.Format)
	}

	name, _, _ := strings.Cut(n.InstancePath, ".VisualizationTree")
	group := scene.NewObject(scene.ObjectGroup, model.KindImportedMesh, n.InstancePath)
	group.Name = name
	group.Position = n.Position
	for _, g := range geoms {
		if g.Empty() {
			continue
		}
		g.ComputeVertexNormals()
		child := scene.NewObject(scene.ObjectMesh, model.KindImportedMesh, n.InstancePath)
		child.Name = name
		child.Geometry = g
		child.Material = b.phong(b.opts.ImportedShininess)
		group.Children = append(group.Children, child)
	}
	return group, nil
}
