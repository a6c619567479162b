package storage

import (
	"sort"

	"cogentcore.org/core/math32"

	"github.com/san-kum/vizsync/internal/model"
)

// Frame holds the leaf positions of one recorded step, keyed by instance
// path. Cylinders record their proximal end.
type Frame struct {
	Step      int
	Positions map[string]math32.Vector3
}

// Capture records the current position of every leaf of p.
func Capture(step int, p *model.Project) Frame {
	f := Frame{Step: step, Positions: make(map[string]math32.Vector3)}
	for _, a := range p.Aspects() {
		model.WalkLeaves(a.VisualizationTree, func(n model.VisualizationNode) {
			if leaf, ok := n.(model.Leaf); ok {
				f.Positions[n.Path()] = leaf.Pos()
			}
		})
	}
	return f
}

// Apply writes the frame into the leaves of idx and returns how many were
// found. The tree shape is untouched, only positions change.
func (f Frame) Apply(idx *model.Index) int {
	applied := 0
	for path, pos := range f.Positions {
		if leaf, ok := idx.Leaf(path); ok {
			leaf.SetPos(pos)
			applied++
		}
	}
	return applied
}

func (f Frame) Paths() []string {
	paths := make([]string, 0, len(f.Positions))
	for p := range f.Positions {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
