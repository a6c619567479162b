package factory

import (
	"cogentcore.org/core/math32"

	"github.com/san-kum/vizsync/internal/scene"
)

// sphereGeometry is a UV sphere centred on the origin.
func sphereGeometry(radius float32, segs int) *scene.Geometry {
	g := &scene.Geometry{}
	w, h := segs, segs
	for iy := 0; iy <= h; iy++ {
		v := float32(iy) / float32(h)
		for ix := 0; ix <= w; ix++ {
			u := float32(ix) / float32(w)
			p := math32.Vec3(
				-radius*math32.Cos(u*2*math32.Pi)*math32.Sin(v*math32.Pi),
				radius*math32.Cos(v*math32.Pi),
				radius*math32.Sin(u*2*math32.Pi)*math32.Sin(v*math32.Pi),
			)
			g.Vertices = append(g.Vertices, p)
			if radius > 0 {
				g.Normals = append(g.Normals, p.Normal())
			} else {
				g.Normals = append(g.Normals, math32.Vec3(0, 1, 0))
			}
		}
	}
	stride := uint32(w + 1)
	for iy := 0; iy < h; iy++ {
		for ix := 0; ix < w; ix++ {
			a := uint32(iy)*stride + uint32(ix) + 1
			b := uint32(iy)*stride + uint32(ix)
			c := uint32(iy+1)*stride + uint32(ix)
			d := uint32(iy+1)*stride + uint32(ix) + 1
			if iy != 0 {
				g.Faces = append(g.Faces, [3]uint32{a, b, d})
			}
			if iy != h-1 {
				g.Faces = append(g.Faces, [3]uint32{b, c, d})
			}
		}
	}
	return g
}

// cylinderGeometry is a capped, possibly tapered cylinder centred on the
// origin with its axis along +Z. The top radius sits at +height/2.
func cylinderGeometry(top, bottom, height float32, segs int) *scene.Geometry {
	g := &scene.Geometry{}
	half := height / 2
	ring := func(r, z float32) uint32 {
		start := uint32(len(g.Vertices))
		for i := 0; i <= segs; i++ {
			theta := float32(i) / float32(segs) * 2 * math32.Pi
			g.Vertices = append(g.Vertices, math32.Vec3(r*math32.Sin(theta), r*math32.Cos(theta), z))
		}
		return start
	}

	lo := ring(bottom, -half)
	hi := ring(top, half)
	for i := uint32(0); i < uint32(segs); i++ {
		g.Faces = append(g.Faces,
			[3]uint32{lo + i, lo + i + 1, hi + i},
			[3]uint32{hi + i, lo + i + 1, hi + i + 1},
		)
	}

	addCap := func(r, z float32, up bool) {
		if r <= 0 {
			return
		}
		centre := uint32(len(g.Vertices))
		g.Vertices = append(g.Vertices, math32.Vec3(0, 0, z))
		rim := ring(r, z)
		for i := uint32(0); i < uint32(segs); i++ {
			if up {
				g.Faces = append(g.Faces, [3]uint32{centre, rim + i, rim + i + 1})
			} else {
				g.Faces = append(g.Faces, [3]uint32{centre, rim + i + 1, rim + i})
			}
		}
	}
	addCap(top, half, true)
	addCap(bottom, -half, false)

	g.ComputeVertexNormals()
	return g
}
