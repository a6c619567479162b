package scene

import "cogentcore.org/core/math32"

// Geometry is vertex data in object-local space. The first SegmentVertices
// vertices are line segment pairs; Faces index triangles anywhere in
// Vertices, which lets a line batch carry folded mesh data.
type Geometry struct {
	Vertices        []math32.Vector3
	Normals         []math32.Vector3
	Faces           [][3]uint32
	SegmentVertices int
}

// NewLineGeometry returns a geometry holding a single segment.
func NewLineGeometry(a, b math32.Vector3) *Geometry {
	return &Geometry{Vertices: []math32.Vector3{a, b}, SegmentVertices: 2}
}

func (g *Geometry) Segments() int { return g.SegmentVertices / 2 }

func (g *Geometry) Empty() bool { return g == nil || len(g.Vertices) == 0 }

// AppendSegment adds a segment pair. It must be called before any mesh data
// is merged in.
func (g *Geometry) AppendSegment(a, b math32.Vector3) {
	g.Vertices = append(g.Vertices, a, b)
	if g.Normals != nil {
		g.Normals = append(g.Normals, math32.Vector3{}, math32.Vector3{})
	}
	g.SegmentVertices += 2
}

// Merge appends other transformed by m. Normals are rotated by rot. Line
// segments of other become plain vertices of g; only g's own leading
// segments stay segments. It returns the index of the first appended vertex.
func (g *Geometry) Merge(other *Geometry, m *math32.Matrix4, rot math32.Quat) int {
	start := len(g.Vertices)
	if other == nil {
		return start
	}
	if len(other.Normals) > 0 && g.Normals == nil {
		g.Normals = make([]math32.Vector3, len(g.Vertices))
	}
	for _, v := range other.Vertices {
		g.Vertices = append(g.Vertices, v.MulMatrix4AsVector4(m, 1))
	}
	if g.Normals != nil {
		for i := range other.Vertices {
			var n math32.Vector3
			if i < len(other.Normals) {
				n = other.Normals[i].MulQuat(rot)
			}
			g.Normals = append(g.Normals, n)
		}
	}
	off := uint32(start)
	for _, f := range other.Faces {
		g.Faces = append(g.Faces, [3]uint32{f[0] + off, f[1] + off, f[2] + off})
	}
	return start
}

// ComputeVertexNormals sets each vertex normal to the normalized sum of the
// normals of the faces sharing it.
func (g *Geometry) ComputeVertexNormals() {
	normals := make([]math32.Vector3, len(g.Vertices))
	for _, f := range g.Faces {
		if int(f[0]) >= len(g.Vertices) || int(f[1]) >= len(g.Vertices) || int(f[2]) >= len(g.Vertices) {
			continue
		}
		a, b, c := g.Vertices[f[0]], g.Vertices[f[1]], g.Vertices[f[2]]
		n := b.Sub(a).Cross(c.Sub(a))
		for _, i := range f {
			normals[i] = normals[i].Add(n)
		}
	}
	for i, n := range normals {
		if n.Length() > 0 {
			normals[i] = n.Normal()
		}
	}
	g.Normals = normals
}

func (g *Geometry) Clone() *Geometry {
	if g == nil {
		return nil
	}
	c := &Geometry{SegmentVertices: g.SegmentVertices}
	c.Vertices = append([]math32.Vector3(nil), g.Vertices...)
	if g.Normals != nil {
		c.Normals = append([]math32.Vector3(nil), g.Normals...)
	}
	c.Faces = append([][3]uint32(nil), g.Faces...)
	return c
}

// Translate moves count vertices starting at start by delta.
func (g *Geometry) Translate(start, count int, delta math32.Vector3) {
	end := start + count
	if start < 0 || end > len(g.Vertices) {
		return
	}
	for i := start; i < end; i++ {
		g.Vertices[i] = g.Vertices[i].Add(delta)
	}
}
