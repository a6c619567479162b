package control

import (
	"fmt"

	"cogentcore.org/core/math32"
)

// Bounds is a bounding sphere handed to the camera to frame objects.
type Bounds struct {
	Center math32.Vector3
	Radius float32
}

// ZoomTo returns the bounds of the objects registered under paths.
func (c *Controller) ZoomTo(paths ...string) (Bounds, error) {
	var pts []math32.Vector3
	for _, p := range paths {
		obj, ok := c.lookup(p)
		if !ok {
			continue
		}
		pts = append(pts, obj.WorldVertices()...)
	}
	if len(pts) == 0 {
		return Bounds{}, fmt.Errorf("%w: %v", ErrNotFound, paths)
	}
	return boundsOf(pts), nil
}

func boundsOf(pts []math32.Vector3) Bounds {
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo = math32.Vec3(min(lo.X, p.X), min(lo.Y, p.Y), min(lo.Z, p.Z))
		hi = math32.Vec3(max(hi.X, p.X), max(hi.Y, p.Y), max(hi.Z, p.Z))
	}
	center := lo.Add(hi).MulScalar(0.5)
	var radius float32
	for _, p := range pts {
		radius = max(radius, p.DistanceTo(center))
	}
	return Bounds{Center: center, Radius: radius}
}
