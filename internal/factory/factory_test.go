package factory

import (
	"errors"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/vizsync/internal/model"
	"github.com/san-kum/vizsync/internal/scene"
)

func newBuilder(t *testing.T) (*Builder, *scene.Registry) {
	t.Helper()
	reg := scene.NewRegistry(scene.NewRoot(), nil)
	return NewBuilder(reg, nil, DefaultOptions(), nil), reg
}

func cyl(path string, from, to math32.Vector3) *model.Cylinder {
	return &model.Cylinder{InstancePath: path, Position: from, Distal: to, RadiusTop: 1, RadiusBottom: 1.5}
}

func TestLineModeResolve(t *testing.T) {
	tests := []struct {
		mode       LineMode
		complexity int
		want       bool
	}{
		{LinesAuto, 10, false},
		{LinesAuto, 2000, false},
		{LinesAuto, 2001, true},
		{LinesOn, 0, true},
		{LinesOff, 5000, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.mode.Resolve(tt.complexity, 2000), "%s at %d", tt.mode, tt.complexity)
	}
}

func TestBuildRegistersEveryLeaf(t *testing.T) {
	b, reg := newBuilder(t)
	style := b.Style(0)

	nodes := []model.VisualizationNode{
		&model.Particle{InstancePath: "a.p", Position: math32.Vec3(1, 2, 3)},
		&model.Sphere{InstancePath: "a.s", Position: math32.Vec3(0, 1, 0), Radius: 2},
		cyl("a.c", math32.Vec3(0, 0, 0), math32.Vec3(0, 0, 4)),
	}
	for _, n := range nodes {
		obj, err := b.Build(n, style, LinesAuto)
		require.NoError(t, err)
		require.NotNil(t, obj)
		got, ok := reg.Lookup(n.Path())
		require.True(t, ok, n.Path())
		assert.Same(t, obj, got)
	}
	assert.Equal(t, 0, reg.Surface().(*scene.Root).Len(), "build must not attach")
}

func TestBuildCylinder(t *testing.T) {
	b, _ := newBuilder(t)
	style := b.Style(3)
	c := cyl("c", math32.Vec3(0, 0, 0), math32.Vec3(0, 6, 0))

	line, err := b.Build(c, style, LinesOn)
	require.NoError(t, err)
	assert.Equal(t, scene.ObjectLine, line.Kind)
	assert.Same(t, style.Line, line.Material)
	assert.Equal(t, float32(3), line.Material.Linewidth)
	assert.Equal(t, math32.Vec3(0, 3, 0), line.Position)
	world := line.WorldVertices()
	require.Len(t, world, 2)
	assert.InDelta(t, 0, world[0].Y, 1e-5)
	assert.InDelta(t, 6, world[1].Y, 1e-5)

	mesh, err := b.Build(c, style, LinesOff)
	require.NoError(t, err)
	assert.Equal(t, scene.ObjectMesh, mesh.Kind)
	assert.Same(t, style.Mesh, mesh.Material)
	assert.Equal(t, math32.Vec3(0, 3, 0), mesh.Position)
	var minY, maxY float32 = 1e9, -1e9
	for _, v := range mesh.WorldVertices() {
		minY = min(minY, v.Y)
		maxY = max(maxY, v.Y)
	}
	assert.InDelta(t, 0, minY, 1e-4, "axis must run from proximal")
	assert.InDelta(t, 6, maxY, 1e-4, "axis must run to distal")
}

func TestBuildZeroLengthCylinder(t *testing.T) {
	b, _ := newBuilder(t)
	obj, err := b.Build(cyl("c", math32.Vec3(1, 1, 1), math32.Vec3(1, 1, 1)), b.Style(0), LinesOff)
	require.NoError(t, err)
	assert.Equal(t, math32.Vec3(1, 1, 1), obj.Position)
}

func TestSphereInLineModeKeepsMesh(t *testing.T) {
	b, _ := newBuilder(t)
	style := b.Style(0)
	s := &model.Sphere{InstancePath: "s", Radius: 1}

	obj, err := b.Build(s, style, LinesOn)
	require.NoError(t, err)
	assert.Equal(t, scene.ObjectMesh, obj.Kind)
	assert.Same(t, style.Line, obj.Material)

	solid, err := b.Build(s, style, LinesOff)
	require.NoError(t, err)
	assert.Greater(t, len(solid.Geometry.Vertices), len(obj.Geometry.Vertices))
}

func TestAutoLinesAboveThreshold(t *testing.T) {
	b, _ := newBuilder(t)
	b.SetComplexity(2500)
	obj, err := b.Build(cyl("c", math32.Vec3(0, 0, 0), math32.Vec3(1, 0, 0)), b.Style(0), LinesAuto)
	require.NoError(t, err)
	assert.Equal(t, scene.ObjectLine, obj.Kind)
}

func TestCollectFlattensComposites(t *testing.T) {
	b, _ := newBuilder(t)
	tree := []model.VisualizationNode{
		&model.Particle{InstancePath: "p0"},
		&model.Composite{InstancePath: "grp", Children: []model.VisualizationNode{
			&model.Particle{InstancePath: "p1"},
			&model.Composite{InstancePath: "inner", Children: []model.VisualizationNode{
				&model.Particle{InstancePath: "p2"},
			}},
		}},
		nil,
		&model.Particle{InstancePath: "p3"},
	}
	objs, err := b.Collect(tree, b.Style(0), LinesAuto)
	require.NoError(t, err)
	var paths []string
	for _, o := range objs {
		paths = append(paths, o.InstancePath)
	}
	assert.Equal(t, []string{"p0", "p1", "p2", "p3"}, paths)
}

func TestMergeMixedLinesAndMeshes(t *testing.T) {
	b, _ := newBuilder(t)
	style := b.Style(0)

	var objs []*scene.Object
	for i, mode := range []LineMode{LinesOn, LinesOn, LinesAuto} {
		x := float32(i * 10)
		obj, err := b.Build(cyl("asp.VisualizationTree.c"+string(rune('0'+i)), math32.Vec3(x, 0, 0), math32.Vec3(x, 2, 0)), style, mode)
		require.NoError(t, err)
		objs = append(objs, obj)
	}
	require.Equal(t, scene.ObjectMesh, objs[2].Kind)

	merged := b.Merge(objs, style)
	require.NotNil(t, merged)
	assert.Equal(t, scene.ObjectLineSegments, merged.Kind)
	assert.Same(t, style.Line, merged.Material)
	assert.Equal(t, 2, merged.Geometry.Segments())
	assert.NotEmpty(t, merged.Geometry.Faces, "mesh data must be folded into the line batch")
	assert.Len(t, merged.MergedPaths, 3)

	for _, f := range merged.Geometry.Faces {
		for _, i := range f {
			assert.GreaterOrEqual(t, int(i), merged.Geometry.SegmentVertices)
		}
	}
	assert.InDelta(t, 10, merged.Geometry.Vertices[2].X, 1e-5)
	assert.InDelta(t, 20, merged.Geometry.Vertices[5].X, 1.6)
}

func TestMergeMeshesOnly(t *testing.T) {
	b, _ := newBuilder(t)
	style := b.Style(0)
	var objs []*scene.Object
	for _, p := range []string{"s0", "s1"} {
		obj, err := b.Build(&model.Sphere{InstancePath: p, Position: math32.Vec3(5, 0, 0), Radius: 1}, style, LinesOff)
		require.NoError(t, err)
		objs = append(objs, obj)
	}
	merged := b.Merge(objs, style)
	require.NotNil(t, merged)
	assert.Equal(t, scene.ObjectMesh, merged.Kind)
	assert.Same(t, style.Mesh, merged.Material)
	assert.Equal(t, 0, merged.Geometry.Segments())
	assert.Equal(t, 2*len(objs[0].Geometry.Vertices), len(merged.Geometry.Vertices))
	assert.InDelta(t, 5, merged.Geometry.Vertices[0].X, 1.01)
}

func TestMergeParticlesBindsVertices(t *testing.T) {
	b, reg := newBuilder(t)
	style := b.Style(0)
	var objs []*scene.Object
	for i, p := range []string{"p0", "p1", "p2"} {
		obj, err := b.Build(&model.Particle{InstancePath: p, Position: math32.Vec3(float32(i), 0, 0)}, style, LinesAuto)
		require.NoError(t, err)
		objs = append(objs, obj)
	}
	cloud := b.Merge(objs, style)
	require.NotNil(t, cloud)
	assert.Equal(t, scene.ObjectPointCloud, cloud.Kind)
	assert.True(t, cloud.SortPoints)
	assert.Equal(t, []string{"p0", "p1", "p2"}, cloud.MergedPaths)

	require.True(t, reg.UpdatePosition("p1", math32.Vec3(1, 7, 0)))
	assert.Equal(t, math32.Vec3(1, 7, 0), cloud.Geometry.Vertices[1])
	assert.Equal(t, math32.Vec3(0, 0, 0), cloud.Geometry.Vertices[0])
}

func TestMergeEmptyInput(t *testing.T) {
	b, _ := newBuilder(t)
	assert.Nil(t, b.Merge(nil, b.Style(0)))
}

func TestMergeSkipsMixedKinds(t *testing.T) {
	b, _ := newBuilder(t)
	style := b.Style(0)
	c, _ := b.Build(cyl("c", math32.Vec3(0, 0, 0), math32.Vec3(1, 0, 0)), style, LinesOn)
	p, _ := b.Build(&model.Particle{InstancePath: "p"}, style, LinesAuto)
	merged := b.Merge([]*scene.Object{c, p}, style)
	require.NotNil(t, merged)
	assert.Equal(t, []string{"c"}, merged.MergedPaths)
}

func TestImportedMesh(t *testing.T) {
	b, reg := newBuilder(t)
	tri := &scene.Geometry{
		Vertices: []math32.Vector3{{X: 0}, {X: 1}, {Y: 1}},
		Faces:    [][3]uint32{{0, 1, 2}},
	}
	b.Parsers().Register("OBJ", ParserFunc(func(data []byte) ([]*scene.Geometry, error) {
		if string(data) == "bad" {
			return nil, errors.New("unexpected token")
		}
		return []*scene.Geometry{tri.Clone(), tri.Clone()}, nil
	}))

	node := &model.ImportedMesh{InstancePath: "e.body.VisualizationTree.m", Format: "obj", Data: []byte("ok")}
	obj, err := b.Build(node, b.Style(0), LinesAuto)
	require.NoError(t, err)
	assert.Equal(t, scene.ObjectGroup, obj.Kind)
	require.Len(t, obj.Children, 2)
	for _, c := range obj.Children {
		assert.Equal(t, "e.body", c.Name)
		assert.Equal(t, float32(40), c.Material.Shininess)
		assert.Len(t, c.Geometry.Normals, 3)
	}
	assert.NotSame(t, obj.Children[0].Material, obj.Children[1].Material)
	_, ok := reg.Lookup(node.InstancePath)
	assert.True(t, ok)

	assert.Same(t, obj, b.Merge([]*scene.Object{obj, obj}, b.Style(0)))

	node.Data = []byte("bad")
	_, err = b.Build(node, b.Style(0), LinesAuto)
	assert.ErrorIs(t, err, ErrMalformedMesh)
	var be *BuildError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, node.InstancePath, be.Path)

	node.Format = "collada"
	_, err = b.Collect([]model.VisualizationNode{node}, b.Style(0), LinesAuto)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
