package model

import "cogentcore.org/core/math32"

type NodeKind int

// KindNone marks objects that do not come from a visualization node, such
// as connection lines.
const (
	KindNone NodeKind = iota
	KindParticle
	KindSphere
	KindCylinder
	KindImportedMesh
	KindComposite
)

func (k NodeKind) String() string {
	switch k {
	case KindParticle:
		return "ParticleNode"
	case KindSphere:
		return "SphereNode"
	case KindCylinder:
		return "CylinderNode"
	case KindImportedMesh:
		return "ImportedMeshNode"
	case KindComposite:
		return "CompositeNode"
	case KindNone:
		return "None"
	default:
		return "UnknownNode"
	}
}

// VisualizationNode is a node of an aspect's visualization tree. The set of
// implementations is closed; switch over the concrete types.
type VisualizationNode interface {
	Kind() NodeKind
	Path() string
	visualizationNode()
}

// Leaf is implemented by the positioned primitives.
type Leaf interface {
	VisualizationNode
	Pos() math32.Vector3
	SetPos(p math32.Vector3)
}

type Particle struct {
	InstancePath string
	Position     math32.Vector3
}

type Sphere struct {
	InstancePath string
	Position     math32.Vector3
	Radius       float32
}

// Cylinder is a tapered segment from Position (proximal) to Distal.
type Cylinder struct {
	InstancePath string
	Position     math32.Vector3
	Distal       math32.Vector3
	RadiusTop    float32
	RadiusBottom float32
}

// ImportedMesh carries a raw model payload in a named format.
type ImportedMesh struct {
	InstancePath string
	Position     math32.Vector3
	Format       string
	Data         []byte
}

type Composite struct {
	InstancePath string
	Children     []VisualizationNode
}

func (*Particle) Kind() NodeKind     { return KindParticle }
func (*Sphere) Kind() NodeKind       { return KindSphere }
func (*Cylinder) Kind() NodeKind     { return KindCylinder }
func (*ImportedMesh) Kind() NodeKind { return KindImportedMesh }
func (*Composite) Kind() NodeKind    { return KindComposite }

func (n *Particle) Path() string     { return n.InstancePath }
func (n *Sphere) Path() string       { return n.InstancePath }
func (n *Cylinder) Path() string     { return n.InstancePath }
func (n *ImportedMesh) Path() string { return n.InstancePath }
func (n *Composite) Path() string    { return n.InstancePath }

func (*Particle) visualizationNode()     {}
func (*Sphere) visualizationNode()       {}
func (*Cylinder) visualizationNode()     {}
func (*ImportedMesh) visualizationNode() {}
func (*Composite) visualizationNode()    {}

func (n *Particle) Pos() math32.Vector3     { return n.Position }
func (n *Sphere) Pos() math32.Vector3       { return n.Position }
func (n *Cylinder) Pos() math32.Vector3     { return n.Position }
func (n *ImportedMesh) Pos() math32.Vector3 { return n.Position }

func (n *Particle) SetPos(p math32.Vector3)     { n.Position = p }
func (n *Sphere) SetPos(p math32.Vector3)       { n.Position = p }
func (n *ImportedMesh) SetPos(p math32.Vector3) { n.Position = p }

// SetPos moves the proximal end and translates Distal by the same offset so
// the segment keeps its length and orientation.
func (n *Cylinder) SetPos(p math32.Vector3) {
	n.Distal = n.Distal.Add(p.Sub(n.Position))
	n.Position = p
}

// Midpoint is the centre of the segment, where the renderable is placed.
func (n *Cylinder) Midpoint() math32.Vector3 {
	return n.Position.Add(n.Distal).MulScalar(0.5)
}

// LeafCount returns the number of primitives under nodes, descending into
// composites. It feeds the scene-wide complexity counter.
func LeafCount(nodes []VisualizationNode) int {
	count := 0
	WalkLeaves(nodes, func(VisualizationNode) { count++ })
	return count
}

// WalkLeaves calls fn for every non-composite node in depth-first order.
func WalkLeaves(nodes []VisualizationNode, fn func(VisualizationNode)) {
	for _, n := range nodes {
		switch n := n.(type) {
		case nil:
		case *Composite:
			WalkLeaves(n.Children, fn)
		default:
			fn(n)
		}
	}
}
