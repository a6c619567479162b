package model

import "fmt"

// Index resolves instance paths to nodes of a loaded project.
type Index struct {
	entities map[string]*Entity
	aspects  map[string]*Aspect
	leaves   map[string]Leaf
}

// NewIndex indexes every entity, aspect and positioned visualization leaf
// reachable from roots. Duplicate paths are reported as ErrDuplicatePath.
func NewIndex(roots ...*Entity) (*Index, error) {
	idx := &Index{
		entities: make(map[string]*Entity),
		aspects:  make(map[string]*Aspect),
		leaves:   make(map[string]Leaf),
	}
	seen := make(map[string]bool)
	claim := func(path string) error {
		if path == "" {
			return nil
		}
		if seen[path] {
			return fmt.Errorf("%w: %s", ErrDuplicatePath, path)
		}
		seen[path] = true
		return nil
	}

	var err error
	WalkEntities(roots, func(e *Entity) bool {
		if err != nil {
			return false
		}
		if err = claim(e.InstancePath); err != nil {
			return false
		}
		idx.entities[e.InstancePath] = e
		for _, a := range e.Aspects {
			if err = claim(a.InstancePath); err != nil {
				return false
			}
			idx.aspects[a.InstancePath] = a
			WalkLeaves(a.VisualizationTree, func(n VisualizationNode) {
				if err != nil {
					return
				}
				if err = claim(n.Path()); err != nil {
					return
				}
				if leaf, ok := n.(Leaf); ok && n.Path() != "" {
					idx.leaves[n.Path()] = leaf
				}
			})
			if err != nil {
				return false
			}
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return idx, nil
}

func (idx *Index) Entity(path string) (*Entity, bool) {
	e, ok := idx.entities[path]
	return e, ok
}

func (idx *Index) Aspect(path string) (*Aspect, bool) {
	a, ok := idx.aspects[path]
	return a, ok
}

func (idx *Index) Leaf(path string) (Leaf, bool) {
	l, ok := idx.leaves[path]
	return l, ok
}

// Resolve returns the entity a connection points at.
func (idx *Index) Resolve(c *Connection) (*Entity, error) {
	e, ok := idx.entities[c.EntityInstancePath]
	if !ok {
		return nil, fmt.Errorf("%w: connection %s -> %s", ErrNotFound, c.ID, c.EntityInstancePath)
	}
	return e, nil
}

func (idx *Index) Len() int {
	return len(idx.entities) + len(idx.aspects) + len(idx.leaves)
}
