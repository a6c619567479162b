package viz

import (
	"sort"

	"cogentcore.org/core/math32"

	"github.com/san-kum/vizsync/internal/control"
	"github.com/san-kum/vizsync/internal/scene"
)

// Camera orbits Target at Distance. Yaw turns around the vertical axis,
// Pitch tilts towards it.
type Camera struct {
	Target   math32.Vector3
	Distance float32
	Yaw      float32
	Pitch    float32
	Zoom     float32
	Near     float32
}

func NewCamera() *Camera {
	return &Camera{Distance: 50, Zoom: 1, Near: 0.1}
}

func (c *Camera) Orbit(dyaw, dpitch float32) {
	c.Yaw += dyaw
	c.Pitch = math32.Clamp(c.Pitch+dpitch, -math32.Pi/2, math32.Pi/2)
}

func (c *Camera) ZoomIn()  { c.Zoom = min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut() { c.Zoom = max(0.1, c.Zoom/1.2) }

// Frame points the camera at b from far enough away to see all of it.
func (c *Camera) Frame(b control.Bounds) {
	c.Target = b.Center
	c.Distance = max(b.Radius*3, 1)
	c.Zoom = 1
}

// view moves p into camera space.
func (c *Camera) view(p math32.Vector3) math32.Vector3 {
	p = p.Sub(c.Target)
	cy, sy := math32.Cos(c.Yaw), math32.Sin(c.Yaw)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cx, sx := math32.Cos(c.Pitch), math32.Sin(c.Pitch)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	return p.MulScalar(c.Zoom)
}

// Project converts world coordinates to screen sub-pixels. It returns x,
// y, depth and whether the point lands on screen.
func (c *Camera) Project(p math32.Vector3, sw, sh int) (int, int, float32, bool) {
	v := c.view(p)
	dist := c.Distance
	if v.Z >= dist-c.Near {
		return 0, 0, 0, false
	}
	scale := dist / (dist - v.Z)
	pScale := float32(min(sw, sh)) / 2 / dist
	sx := int(v.X*scale*pScale) + sw/2
	sy := int(-v.Y*scale*pScale) + sh/2
	return sx, sy, v.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End math32.Vector3
	Dim        bool
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe { return &Wireframe{Edges: make([]Edge, 0)} }

func (w *Wireframe) AddEdge(s, e math32.Vector3, dim bool) {
	w.Edges = append(w.Edges, Edge{s, e, dim})
}

func (w *Wireframe) AddPoint(p math32.Vector3, dim bool) {
	w.Edges = append(w.Edges, Edge{p, p, dim})
}

func (w *Wireframe) Clear() { w.Edges = w.Edges[:0] }

// Extract builds a wireframe of the visible objects. Ghosted objects and
// their children are dim.
func Extract(objs []*scene.Object) *Wireframe {
	w := NewWireframe()
	for _, o := range objs {
		w.add(o, math32.Vector3{}, false)
	}
	return w
}

func (w *Wireframe) add(o *scene.Object, offset math32.Vector3, dim bool) {
	if o == nil || !o.Visible {
		return
	}
	dim = dim || o.Ghosted
	if o.Kind == scene.ObjectPoint {
		w.AddPoint(o.Position.Add(o.Offset).Add(offset), dim)
		return
	}
	if g := o.Geometry; !g.Empty() {
		m := o.Matrix()
		world := make([]math32.Vector3, len(g.Vertices))
		for i, v := range g.Vertices {
			world[i] = v.MulMatrix4AsVector4(m, 1).Add(offset)
		}
		for i := 0; i+1 < g.SegmentVertices; i += 2 {
			w.AddEdge(world[i], world[i+1], dim)
		}
		for _, f := range g.Faces {
			a, b, c := int(f[0]), int(f[1]), int(f[2])
			if a >= len(world) || b >= len(world) || c >= len(world) {
				continue
			}
			w.AddEdge(world[a], world[b], dim)
			w.AddEdge(world[b], world[c], dim)
			w.AddEdge(world[c], world[a], dim)
		}
		if o.Kind == scene.ObjectPointCloud {
			for _, p := range world {
				w.AddPoint(p, dim)
			}
		}
	}
	for _, c := range o.Children {
		w.add(c, o.Position.Add(o.Offset).Add(offset), dim)
	}
}

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float32
	dim            bool
}

// Render3D draws the wireframe far to near.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.SubWidth(), c.SubHeight()
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, cw, ch)
		x2, y2, d2, v2 := cam.Project(e.End, cw, ch)
		if v1 || v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2, e.Dim})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		c.DrawLine(e.x1, e.y1, e.x2, e.y2, e.dim)
	}
}

// Snapshot renders objs framed by bounds into a plain string.
func Snapshot(objs []*scene.Object, b control.Bounds, w, h int) string {
	c := NewCanvas(w, h)
	cam := NewCamera()
	cam.Frame(b)
	Render3D(c, Extract(objs), cam)
	return c.String()
}
