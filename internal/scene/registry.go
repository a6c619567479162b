package scene

import (
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"cogentcore.org/core/math32"
)

type entry struct {
	obj      *Object
	attached bool
}

// Registry maps instance paths to live scene objects. It is the only
// component that adds objects to or removes them from the Surface.
type Registry struct {
	mu      sync.RWMutex
	surface Surface
	entries map[string]*entry
	// overlays are attached without a path, e.g. connection lines.
	overlays []*Object

	logger  *slog.Logger
	metrics *Metrics
}

// NewRegistry returns an empty registry drawing into surface. A nil surface
// gives a staging registry whose attached objects are only recorded.
func NewRegistry(surface Surface, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Registry{
		surface: surface,
		entries: make(map[string]*entry),
		logger:  logger,
	}
}

func (r *Registry) SetMetrics(m *Metrics) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics = m
	r.recordSizes()
}

func (r *Registry) Surface() Surface { return r.surface }

// Register inserts or overwrites the entry for path without changing scene
// membership.
func (r *Registry) Register(path string, obj *Object) {
	if path == "" || obj == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[path]; ok {
		e.obj = obj
	} else {
		r.entries[path] = &entry{obj: obj}
	}
	r.recordSizes()
}

// Attach registers obj under path and adds it to the surface. A different
// object previously attached under path is removed from the surface.
func (r *Registry) Attach(path string, obj *Object) {
	if path == "" || obj == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[path]; ok && e.attached && e.obj != obj {
		r.detach(e.obj)
	}
	r.entries[path] = &entry{obj: obj, attached: true}
	if r.surface != nil {
		r.surface.Add(obj)
	}
	r.recordSizes()
}

func (r *Registry) Lookup(path string) (*Object, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[path]
	if !ok {
		return nil, false
	}
	return e.obj, true
}

// Remove detaches path from the scene and drops it together with every
// entry nested under it.
func (r *Registry) Remove(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prefix := path + "."
	for p, e := range r.entries {
		if p != path && !strings.HasPrefix(p, prefix) {
			continue
		}
		if e.attached {
			r.detach(e.obj)
		}
		delete(r.entries, p)
	}
	r.recordSizes()
}

// UpdatePosition moves the object registered under path to p. It reports
// false, and does nothing else, when path is not registered; streamed
// updates can arrive before the geometry is built.
func (r *Registry) UpdatePosition(path string, p math32.Vector3) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[path]
	if !ok {
		r.logger.Debug("position update for unregistered path", "path", path)
		r.metrics.update(false)
		return false
	}
	e.obj.MoveTo(p)
	r.metrics.update(true)
	return true
}

// SceneObjects returns the attached objects keyed by path.
func (r *Registry) SceneObjects() map[string]*Object {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]*Object)
	for p, e := range r.entries {
		if e.attached {
			out[p] = e.obj
		}
	}
	return out
}

// Paths returns every registered path in sorted order.
func (r *Registry) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	paths := make([]string, 0, len(r.entries))
	for p := range r.entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Swap replaces the live entries with those of staged in one step: the old
// attached objects leave the surface and staged's attached objects join it.
// staged is left empty.
func (r *Registry) Swap(staged *Registry) {
	if staged == r {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	staged.mu.Lock()
	defer staged.mu.Unlock()

	for _, e := range r.entries {
		if e.attached {
			r.detach(e.obj)
		}
	}
	r.clearOverlays()
	r.entries = staged.entries
	staged.entries = make(map[string]*entry)
	for _, e := range r.entries {
		if e.attached && r.surface != nil {
			r.surface.Add(e.obj)
		}
	}
	r.recordSizes()
	r.logger.Debug("registry swapped", "entries", len(r.entries))
}

// Reset detaches everything and empties the registry.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.attached {
			r.detach(e.obj)
		}
	}
	r.entries = make(map[string]*entry)
	r.clearOverlays()
	r.recordSizes()
}

// AddOverlay attaches obj to the surface without registering a path.
func (r *Registry) AddOverlay(obj *Object) {
	if obj == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overlays = append(r.overlays, obj)
	if r.surface != nil {
		r.surface.Add(obj)
	}
}

func (r *Registry) RemoveOverlay(obj *Object) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, o := range r.overlays {
		if o == obj {
			r.overlays = append(r.overlays[:i], r.overlays[i+1:]...)
			r.detach(obj)
			return
		}
	}
}

func (r *Registry) Overlays() []*Object {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Object(nil), r.overlays...)
}

func (r *Registry) clearOverlays() {
	for _, o := range r.overlays {
		r.detach(o)
	}
	r.overlays = nil
}

func (r *Registry) detach(obj *Object) {
	if r.surface != nil {
		r.surface.Remove(obj)
	}
}

func (r *Registry) recordSizes() {
	if r.metrics == nil {
		return
	}
	attached := 0
	for _, e := range r.entries {
		if e.attached {
			attached++
		}
	}
	r.metrics.sizes(len(r.entries), attached)
}
