package scene

import (
	"cogentcore.org/core/math32"

	"github.com/san-kum/vizsync/internal/model"
)

type ObjectKind int

const (
	ObjectMesh ObjectKind = iota + 1
	ObjectLine
	ObjectLineSegments
	ObjectPointCloud
	ObjectPoint
	ObjectGroup
)

func (k ObjectKind) String() string {
	switch k {
	case ObjectMesh:
		return "mesh"
	case ObjectLine:
		return "line"
	case ObjectLineSegments:
		return "line_segments"
	case ObjectPointCloud:
		return "point_cloud"
	case ObjectPoint:
		return "point"
	case ObjectGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Object is a renderable scene object. Model nodes refer to objects only
// through instance paths held by the Registry.
type Object struct {
	Kind       ObjectKind
	SourceKind model.NodeKind
	Name       string

	InstancePath       string
	AspectInstancePath string
	// MergedPaths lists the leaf paths folded into this object by a merge.
	MergedPaths []string

	Position math32.Vector3
	Rotation math32.Quat
	// Offset is the owning entity's placement, added to Position when drawn.
	Offset math32.Vector3

	Geometry *Geometry
	Material *Material
	Children []*Object

	Visible        bool
	Ghosted        bool
	Selected       bool
	Highlighted    bool
	DefaultOpacity float32
	Input          bool
	Output         bool
	// SortPoints requests depth sorting of point clouds for blending.
	SortPoints bool

	binding *binding
}

// binding ties a leaf to the vertex range it occupies in a merged object.
type binding struct {
	owner *Object
	start int
	count int
}

// NewObject returns a visible object with identity rotation.
func NewObject(kind ObjectKind, source model.NodeKind, path string) *Object {
	return &Object{
		Kind:           kind,
		SourceKind:     source,
		InstancePath:   path,
		Rotation:       math32.NewQuat(0, 0, 0, 1),
		Visible:        true,
		DefaultOpacity: 1,
	}
}

// Bind records that the leaf's geometry now lives in owner's vertices
// [start, start+count).
func (o *Object) Bind(owner *Object, start, count int) {
	o.binding = &binding{owner: owner, start: start, count: count}
}

// Owner returns the merged object holding this leaf, if any.
func (o *Object) Owner() *Object {
	if o.binding == nil {
		return nil
	}
	return o.binding.owner
}

// Matrix composes the local transform from Position and Rotation.
func (o *Object) Matrix() *math32.Matrix4 {
	var m math32.Matrix4
	m.SetTransform(o.Position.Add(o.Offset), o.Rotation, math32.Vec3(1, 1, 1))
	return &m
}

// MoveTo sets the position, carrying bound vertices of a merged owner along.
func (o *Object) MoveTo(p math32.Vector3) {
	delta := p.Sub(o.Position)
	o.Position = p
	if b := o.binding; b != nil && b.owner.Geometry != nil {
		b.owner.Geometry.Translate(b.start, b.count, delta)
	}
}

// Traverse calls fn on o and every descendant, depth first.
func (o *Object) Traverse(fn func(*Object)) {
	fn(o)
	for _, c := range o.Children {
		c.Traverse(fn)
	}
}

// WorldVertices returns the object's vertices, and those of its children,
// transformed into the parent frame. Point objects contribute their position.
func (o *Object) WorldVertices() []math32.Vector3 {
	var out []math32.Vector3
	o.collectVertices(math32.Vector3{}, &out)
	return out
}

func (o *Object) collectVertices(offset math32.Vector3, out *[]math32.Vector3) {
	if o.Kind == ObjectPoint {
		*out = append(*out, o.Position.Add(o.Offset).Add(offset))
		return
	}
	if !o.Geometry.Empty() {
		m := o.Matrix()
		for _, v := range o.Geometry.Vertices {
			*out = append(*out, v.MulMatrix4AsVector4(m, 1).Add(offset))
		}
	}
	for _, c := range o.Children {
		c.collectVertices(o.Position.Add(o.Offset).Add(offset), out)
	}
}

// SetOpacity changes the current and default opacity on o and its children.
func (o *Object) SetOpacity(v float32) {
	o.Traverse(func(n *Object) {
		n.DefaultOpacity = v
		if n.Material != nil {
			n.Material.Opacity = v
			n.Material.DefaultOpacity = v
			n.Material.Transparent = v < 1
		}
	})
}

// SetColor changes the current and default colour on o and its children.
func (o *Object) SetColor(c uint32) {
	o.Traverse(func(n *Object) {
		if n.Material != nil {
			n.Material.Color = c
			n.Material.DefaultColor = c
		}
	})
}

// applyOpacity changes only the transient opacity.
func (o *Object) applyOpacity(v float32) {
	o.Traverse(func(n *Object) {
		if n.Material != nil {
			n.Material.Opacity = v
			n.Material.Transparent = v < 1
		}
	})
}

// Ghost lowers the transient opacity to v; Unghost restores DefaultOpacity.
func (o *Object) Ghost(v float32) {
	o.Ghosted = true
	o.applyOpacity(v)
}

func (o *Object) Unghost() {
	o.Ghosted = false
	o.RestoreOpacity()
}

func (o *Object) RestoreOpacity() {
	o.Traverse(func(n *Object) {
		if n.Material != nil {
			n.Material.Opacity = n.DefaultOpacity
			n.Material.Transparent = n.DefaultOpacity < 1
		}
	})
}

// Tint changes the transient colour; RestoreColor undoes it.
func (o *Object) Tint(c uint32) {
	o.Traverse(func(n *Object) {
		if n.Material != nil {
			n.Material.Color = c
		}
	})
}

func (o *Object) RestoreColor() {
	o.Traverse(func(n *Object) {
		if n.Material != nil {
			n.Material.Color = n.Material.DefaultColor
		}
	})
}

// Opacity reports the current opacity, 1 when there is no material.
func (o *Object) Opacity() float32 {
	if o.Material != nil {
		return o.Material.Opacity
	}
	for _, c := range o.Children {
		if c.Material != nil {
			return c.Material.Opacity
		}
	}
	return 1
}

func (o *Object) SetVisible(v bool) {
	o.Traverse(func(n *Object) { n.Visible = v })
}
