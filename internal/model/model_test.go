package model

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cogentcore.org/core/math32"
)

const sampleModel = `
id: sample
name: Sample network
entities:
  - id: net
    entities:
      - id: a
        position: [1, 2, 3]
        connections:
          - id: a_to_b
            type: output
            entity: net.b
        aspects:
          - id: electrical
            simulator: neuron
            simulation_tree:
              v: {value: -65, unit: mV}
            visualization:
              - id: soma
                type: sphere
                position: [0, 0, 0]
                radius: 5
              - id: dend
                type: composite
                children:
                  - id: seg0
                    type: cylinder
                    position: [0, 0, 0]
                    distal: [0, 10, 0]
                    radius_top: "1.0"
                    radius_bottom: "1.5"
                  - id: label
                    type: text
      - id: b
        aspects:
          - id: electrical
            visualization:
              - {id: p0, type: particle, position: [1, 1, 1]}
              - {id: p1, type: particle, position: [2, 2, 2]}
`

func decodeSample(t *testing.T) *Project {
	t.Helper()
	p, err := Decode(strings.NewReader(sampleModel), nil)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	return p
}

func TestDecodeDerivesPaths(t *testing.T) {
	p := decodeSample(t)

	if p.Name != "Sample network" {
		t.Errorf("expected project name, got %q", p.Name)
	}
	if len(p.Entities) != 1 || len(p.Entities[0].Entities) != 2 {
		t.Fatalf("unexpected entity layout")
	}

	a := p.Entities[0].Entities[0]
	if a.InstancePath != "net.a" {
		t.Errorf("expected net.a, got %s", a.InstancePath)
	}
	if a.Position == nil || *a.Position != math32.Vec3(1, 2, 3) {
		t.Errorf("entity position not decoded: %v", a.Position)
	}
	if a.Parent() != p.Entities[0] {
		t.Error("parent link not set")
	}

	asp := a.Aspects[0]
	if asp.InstancePath != "net.a.electrical" {
		t.Errorf("expected aspect path net.a.electrical, got %s", asp.InstancePath)
	}
	if asp.Parent() != a {
		t.Error("aspect parent link not set")
	}
	if asp.SimulationTree["v"].Unit != "mV" {
		t.Errorf("simulation tree not decoded: %+v", asp.SimulationTree)
	}

	comp, ok := asp.VisualizationTree[1].(*Composite)
	if !ok {
		t.Fatalf("expected composite, got %T", asp.VisualizationTree[1])
	}
	if len(comp.Children) != 1 {
		t.Fatalf("unknown node type should be skipped, got %d children", len(comp.Children))
	}
	cyl := comp.Children[0].(*Cylinder)
	if cyl.InstancePath != "net.a.electrical.VisualizationTree.dend.seg0" {
		t.Errorf("unexpected cylinder path %s", cyl.InstancePath)
	}
	if cyl.RadiusTop != 1.0 || cyl.RadiusBottom != 1.5 {
		t.Errorf("radii not parsed: %v %v", cyl.RadiusTop, cyl.RadiusBottom)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"bad yaml", "entities: [", ErrInvalidModel},
		{"entity without id", "entities:\n  - name: x\n", ErrInvalidModel},
		{"bad radius", "entities:\n  - id: e\n    aspects:\n      - id: a\n        visualization:\n          - {id: s, type: sphere, radius: wide}\n", ErrInvalidModel},
		{"bad connection", "entities:\n  - id: e\n    connections:\n      - {id: c, type: sideways, entity: f}\n", ErrInvalidModel},
		{"duplicate", "entities:\n  - id: e\n  - id: e\n", ErrDuplicatePath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc), nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	if err := os.WriteFile(path, []byte(sampleModel), 0644); err != nil {
		t.Fatal(err)
	}
	p, err := Load(path, nil)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if p.ID != "sample" {
		t.Errorf("expected id sample, got %s", p.ID)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestIndexResolve(t *testing.T) {
	p := decodeSample(t)
	idx, err := NewIndex(p.Entities...)
	if err != nil {
		t.Fatalf("index failed: %v", err)
	}

	a, ok := idx.Entity("net.a")
	if !ok {
		t.Fatal("entity net.a not indexed")
	}
	target, err := idx.Resolve(a.Connections[0])
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if target.InstancePath != "net.b" {
		t.Errorf("expected net.b, got %s", target.InstancePath)
	}

	if _, err := idx.Resolve(&Connection{ID: "x", EntityInstancePath: "nowhere"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	leaf, ok := idx.Leaf("net.b.electrical.VisualizationTree.p1")
	if !ok {
		t.Fatal("particle leaf not indexed")
	}
	if leaf.Pos() != math32.Vec3(2, 2, 2) {
		t.Errorf("unexpected leaf position %v", leaf.Pos())
	}
	if _, ok := idx.Aspect("net.b.electrical"); !ok {
		t.Error("aspect not indexed")
	}
}

func TestAspectPathsDepthFirst(t *testing.T) {
	root := NewEntity("root", "root")
	root.AddAspect(NewAspect("a0", "root.a0"))
	c1 := NewEntity("c1", "root.c1")
	c1.AddAspect(NewAspect("a1", "root.c1.a1"))
	g := NewEntity("g", "root.c1.g")
	g.AddAspect(NewAspect("a2", "root.c1.g.a2"))
	c1.AddEntity(g)
	c2 := NewEntity("c2", "root.c2")
	c2.AddAspect(NewAspect("a3", "root.c2.a3"))
	root.AddEntity(c1)
	root.AddEntity(c2)

	got := root.AspectPaths()
	want := []string{"root.a0", "root.c1.a1", "root.c1.g.a2", "root.c2.a3"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("AspectPaths() = %v, want %v", got, want)
	}
}

func TestCylinderSetPosKeepsLength(t *testing.T) {
	c := &Cylinder{Position: math32.Vec3(0, 0, 0), Distal: math32.Vec3(0, 4, 0)}
	c.SetPos(math32.Vec3(1, 1, 1))
	if c.Distal != math32.Vec3(1, 5, 1) {
		t.Errorf("distal not translated: %v", c.Distal)
	}
	if c.Midpoint() != math32.Vec3(1, 3, 1) {
		t.Errorf("unexpected midpoint %v", c.Midpoint())
	}
}

func TestProjectComplexity(t *testing.T) {
	p := decodeSample(t)
	// sphere + cylinder + two particles
	if got := p.Complexity(); got != 4 {
		t.Errorf("expected complexity 4, got %d", got)
	}
}
