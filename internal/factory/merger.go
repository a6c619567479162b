package factory

import (
	"cogentcore.org/core/math32"

	"github.com/san-kum/vizsync/internal/model"
	"github.com/san-kum/vizsync/internal/scene"
)

// Merge batches objects of one visual kind into a single object, keyed on
// the kind of the first. Every source leaf is bound to the vertex range it
// now occupies so later position updates move the batch in place. It
// returns nil when there is nothing to merge; callers then render the
// objects unmerged.
func (b *Builder) Merge(objs []*scene.Object, style scene.Style) *scene.Object {
	if len(objs) == 0 || objs[0] == nil {
		return nil
	}
	var ret *scene.Object
	kind := objs[0].SourceKind
	switch kind {
	case model.KindCylinder, model.KindSphere:
		ret = b.mergeSolids(objs, style)
	case model.KindParticle:
		ret = b.mergeParticles(objs, style)
	case model.KindImportedMesh:
		return objs[0]
	}
	if ret != nil {
		b.metrics.ObserveMerge(kind.String())
	}
	return ret
}

type pending struct {
	obj     *scene.Object
	inLines bool
	start   int
	count   int
}

func (b *Builder) mergeSolids(objs []*scene.Object, style scene.Style) *scene.Object {
	var (
		lines, meshes *scene.Geometry
		paths         []string
		bound         []pending
	)
	for _, obj := range objs {
		if obj == nil || (obj.SourceKind != model.KindCylinder && obj.SourceKind != model.KindSphere) {
			b.skip(obj)
			continue
		}
		if obj.Geometry.Empty() {
			continue
		}
		m := obj.Matrix()
		if obj.Kind == scene.ObjectLine {
			if lines == nil {
				lines = &scene.Geometry{}
			}
			start := len(lines.Vertices)
			lines.AppendSegment(
				obj.Geometry.Vertices[0].MulMatrix4AsVector4(m, 1),
				obj.Geometry.Vertices[1].MulMatrix4AsVector4(m, 1),
			)
			bound = append(bound, pending{obj: obj, inLines: true, start: start, count: 2})
		} else {
			if meshes == nil {
				meshes = &scene.Geometry{}
			}
			start := meshes.Merge(obj.Geometry, m, obj.Rotation)
			bound = append(bound, pending{obj: obj, start: start, count: len(obj.Geometry.Vertices)})
		}
		paths = append(paths, obj.InstancePath)
	}

	var ret *scene.Object
	meshOffset := 0
	switch {
	case lines == nil && meshes == nil:
		return nil
	case lines == nil:
		ret = scene.NewObject(scene.ObjectMesh, objs[0].SourceKind, "")
		ret.Geometry = meshes
		ret.Material = style.Mesh
	default:
		ret = scene.NewObject(scene.ObjectLineSegments, objs[0].SourceKind, "")
		ret.Geometry = lines
		ret.Material = style.Line
		if meshes != nil {
			// Fold the solid geometry into the line batch so one object
			// carries both.
			meshOffset = lines.Merge(meshes, identity(), math32.NewQuat(0, 0, 0, 1))
		}
	}

	ret.MergedPaths = paths
	for _, p := range bound {
		start := p.start
		if !p.inLines {
			start += meshOffset
		}
		p.obj.Bind(ret, start, p.count)
	}
	return ret
}

func (b *Builder) mergeParticles(objs []*scene.Object, style scene.Style) *scene.Object {
	cloud := &scene.Geometry{}
	var paths []string
	var leaves []*scene.Object
	for _, obj := range objs {
		if obj == nil || obj.SourceKind != model.KindParticle {
			b.skip(obj)
			continue
		}
		cloud.Vertices = append(cloud.Vertices, obj.Position)
		paths = append(paths, obj.InstancePath)
		leaves = append(leaves, obj)
	}
	if cloud.Empty() {
		return nil
	}
	ret := scene.NewObject(scene.ObjectPointCloud, model.KindParticle, "")
	ret.Geometry = cloud
	ret.Material = style.Particle
	ret.SortPoints = true
	ret.MergedPaths = paths
	for i, leaf := range leaves {
		leaf.Bind(ret, i, 1)
	}
	return ret
}

func (b *Builder) skip(obj *scene.Object) {
	if obj == nil {
		return
	}
	b.logger.Warn("skipping object of mixed kind in merge", "path", obj.InstancePath, "kind", obj.SourceKind)
}

func identity() *math32.Matrix4 {
	var m math32.Matrix4
	m.SetTransform(math32.Vector3{}, math32.NewQuat(0, 0, 0, 1), math32.Vec3(1, 1, 1))
	return &m
}
