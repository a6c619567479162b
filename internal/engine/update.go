package engine

import (
	"github.com/san-kum/vizsync/internal/model"
)

// UpdateScene moves registered objects to the leaf positions carried by
// updated, which must have the same shape as the loaded trees. It returns
// the number of objects moved. Leaves with no registered object are
// skipped. Calls must not overlap.
func (e *Engine) UpdateScene(updated []*model.Entity) int {
	applied := 0
	model.WalkEntities(updated, func(ent *model.Entity) bool {
		for _, a := range ent.Aspects {
			model.WalkLeaves(a.VisualizationTree, func(n model.VisualizationNode) {
				if e.updateLeaf(n) {
					applied++
				}
			})
		}
		return true
	})
	return applied
}

func (e *Engine) updateLeaf(n model.VisualizationNode) bool {
	switch n := n.(type) {
	case *model.Particle:
		return e.registry.UpdatePosition(n.InstancePath, n.Position)
	case *model.Sphere:
		return e.registry.UpdatePosition(n.InstancePath, n.Position)
	case *model.Cylinder:
		return e.registry.UpdatePosition(n.InstancePath, n.Midpoint())
	default:
		return false
	}
}
