package factory

import (
	"github.com/san-kum/vizsync/internal/model"
	"github.com/san-kum/vizsync/internal/scene"
)

// Collect builds every leaf under nodes in depth-first order, flattening
// composites. Merge quality depends on that order. The first build failure
// stops the walk.
func (b *Builder) Collect(nodes []model.VisualizationNode, style scene.Style, mode LineMode) ([]*scene.Object, error) {
	var out []*scene.Object
	for _, node := range nodes {
		if c, ok := node.(*model.Composite); ok {
			objs, err := b.Collect(c.Children, style, mode)
			if err != nil {
				return nil, err
			}
			out = append(out, objs...)
			continue
		}
		obj, err := b.Build(node, style, mode)
		if err != nil {
			return nil, err
		}
		if obj != nil {
			out = append(out, obj)
		}
	}
	return out, nil
}
