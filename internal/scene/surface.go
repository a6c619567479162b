package scene

import "slices"

// Surface is the scene root of the rendering surface. Objects added here are
// drawn; the registry is the only caller.
type Surface interface {
	Add(o *Object)
	Remove(o *Object)
}

// Root is an in-memory Surface that keeps objects in insertion order.
type Root struct {
	objects []*Object
}

func NewRoot() *Root { return &Root{} }

func (r *Root) Add(o *Object) {
	if o == nil || r.Contains(o) {
		return
	}
	r.objects = append(r.objects, o)
}

func (r *Root) Remove(o *Object) {
	if i := slices.Index(r.objects, o); i >= 0 {
		r.objects = slices.Delete(r.objects, i, i+1)
	}
}

func (r *Root) Contains(o *Object) bool { return slices.Contains(r.objects, o) }

func (r *Root) Len() int { return len(r.objects) }

// Objects returns a snapshot of the root's children.
func (r *Root) Objects() []*Object { return slices.Clone(r.objects) }
