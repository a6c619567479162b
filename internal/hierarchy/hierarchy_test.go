package hierarchy_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/vizsync/internal/control"
	"github.com/san-kum/vizsync/internal/engine"
	"github.com/san-kum/vizsync/internal/hierarchy"
	"github.com/san-kum/vizsync/internal/model"
	"github.com/san-kum/vizsync/internal/scene"
)

const circuit = `
id: circuit
entities:
  - id: a
    aspects:
      - id: morph
        visualization:
          - {id: soma, type: sphere, position: [0, 0, 0], radius: 2}
    connections:
      - {id: ab, type: output, entity: b}
      - {id: ca, type: input, entity: c}
  - id: b
    aspects:
      - id: morph
        visualization:
          - {id: soma, type: sphere, position: [10, 0, 0], radius: 2}
  - id: c
    aspects:
      - id: morph
        visualization:
          - {id: soma, type: sphere, position: [-10, 0, 0], radius: 2}
  - id: d
    aspects:
      - id: morph
        visualization:
          - {id: soma, type: sphere, position: [0, 10, 0], radius: 2}
  - id: group
    entities:
      - id: g1
        aspects:
          - id: morph
            visualization:
              - {id: c0, type: cylinder, position: [0, 0, 0], distal: [0, 5, 0], radius_top: 1, radius_bottom: 1}
              - {id: c1, type: cylinder, position: [0, 5, 0], distal: [0, 9, 0], radius_top: 1, radius_bottom: 1}
      - id: g2
        aspects:
          - id: morph
            visualization:
              - {id: c0, type: cylinder, position: [5, 0, 0], distal: [5, 5, 0], radius_top: 1, radius_bottom: 1}
              - {id: c1, type: cylinder, position: [5, 5, 0], distal: [5, 9, 0], radius_top: 1, radius_bottom: 1}
`

var _ = Describe("Propagator", func() {
	var (
		eng  *engine.Engine
		prop *hierarchy.Propagator
		reg  *scene.Registry
	)

	entity := func(path string) *model.Entity {
		e, ok := eng.Index().Entity(path)
		Expect(ok).To(BeTrue(), path)
		return e
	}
	aspect := func(path string) *model.Aspect {
		a, ok := eng.Index().Aspect(path)
		Expect(ok).To(BeTrue(), path)
		return a
	}
	object := func(path string) *scene.Object {
		obj, ok := reg.Lookup(path)
		Expect(ok).To(BeTrue(), path)
		return obj
	}

	BeforeEach(func() {
		p, err := model.Decode(strings.NewReader(circuit), nil)
		Expect(err).NotTo(HaveOccurred())

		eng = engine.New(nil, scene.NewRoot())
		Expect(eng.LoadProject(p)).To(Succeed())
		prop = eng.Propagator()
		reg = eng.Registry()
		prop.SetOptions(hierarchy.SelectionOptions{
			UnselectedTransparent: true,
			ShowOutputs:           true,
		})
	})

	Describe("selecting an aspect", func() {
		It("selects the parent entity and is idempotent", func() {
			a := aspect("a.morph")
			Expect(prop.SelectAspect(a)).To(Equal(hierarchy.Selected))
			Expect(a.Selected).To(BeTrue())
			Expect(entity("a").Selected).To(BeTrue())
			Expect(object("a.morph").Selected).To(BeTrue())

			Expect(prop.SelectAspect(a)).To(Equal(hierarchy.AlreadySelected))
		})

		It("ghosts everything except the selection and its outputs", func() {
			prop.SelectAspect(aspect("a.morph"))

			selected := object("a.morph")
			Expect(selected.Ghosted).To(BeFalse())

			target := object("b.morph")
			Expect(target.Output).To(BeTrue())
			Expect(target.Ghosted).To(BeFalse())
			Expect(target.Opacity()).To(Equal(target.DefaultOpacity))

			for _, path := range []string{"c.morph", "d.morph", "group.g1.morph", "group.g2.morph"} {
				Expect(object(path).Ghosted).To(BeTrue(), path)
				Expect(object(path).Opacity()).To(BeNumerically("~", 0.1, 1e-6), path)
			}
		})

		It("tints inputs when they are shown", func() {
			opts := prop.Options()
			opts.ShowInputs = true
			prop.SetOptions(opts)

			prop.SelectAspect(aspect("a.morph"))
			input := object("c.morph")
			Expect(input.Input).To(BeTrue())
			Expect(input.Ghosted).To(BeFalse())
			Expect(input.Material.Color).To(Equal(control.DefaultOptions().InputColor))
		})

		It("draws connection lines to connected aspects", func() {
			opts := prop.Options()
			opts.ShowInputs = true
			opts.DrawConnectionLines = true
			prop.SetOptions(opts)

			prop.SelectAspect(aspect("a.morph"))
			lines := eng.Controller().ConnectionLines()
			Expect(lines).To(HaveKey("b.morph"))
			Expect(lines).To(HaveKey("c.morph"))
			Expect(reg.Overlays()).To(HaveLen(2))
		})

		It("restores the scene on deselect", func() {
			a := aspect("a.morph")
			prop.SelectAspect(a)
			Expect(prop.DeselectAspect(a)).To(Equal(hierarchy.Deselected))
			Expect(prop.DeselectAspect(a)).To(Equal(hierarchy.NotSelected))

			Expect(entity("a").Selected).To(BeFalse())
			for _, path := range eng.Controller().ScenePaths() {
				obj := object(path)
				Expect(obj.Ghosted).To(BeFalse(), path)
				Expect(obj.Output).To(BeFalse(), path)
			}
			Expect(object("b.morph").Material.Color).To(Equal(object("b.morph").Material.DefaultColor))
		})
	})

	Describe("selecting an entity", func() {
		It("ghosts everything except the entity and its outputs", func() {
			a := entity("a")
			Expect(prop.SelectEntity(a)).To(Equal(hierarchy.Selected))
			Expect(aspect("a.morph").Selected).To(BeTrue())

			selected := object("a.morph")
			Expect(selected.Selected).To(BeTrue())
			Expect(selected.Ghosted).To(BeFalse())

			target := object("b.morph")
			Expect(target.Output).To(BeTrue())
			Expect(target.Ghosted).To(BeFalse())
			Expect(target.Opacity()).To(Equal(target.DefaultOpacity))

			for _, path := range []string{"c.morph", "d.morph", "group.g1.morph", "group.g2.morph"} {
				Expect(object(path).Ghosted).To(BeTrue(), path)
				Expect(object(path).Opacity()).To(BeNumerically("~", 0.1, 1e-6), path)
			}
		})
	})

	Describe("visibility", func() {
		It("round-trips hide and show through nested entities", func() {
			group := entity("group")
			Expect(prop.HideEntity(group, true)).To(Equal(hierarchy.Hidden))
			Expect(object("group.g1.morph").Visible).To(BeFalse())
			Expect(object("group.g2.morph").Visible).To(BeFalse())
			Expect(entity("group.g2").Visible).To(BeFalse())

			Expect(prop.ShowEntity(group, true)).To(Equal(hierarchy.Shown))
			Expect(object("group.g1.morph").Visible).To(BeTrue())
			Expect(object("group.g2.morph").Visible).To(BeTrue())
			Expect(aspect("group.g2.morph").Visible).To(BeTrue())
		})

		It("leaves nested entities alone without cascade", func() {
			prop.HideEntity(entity("group"), false)
			Expect(object("group.g1.morph").Visible).To(BeTrue())
			Expect(entity("group.g1").Visible).To(BeTrue())
		})
	})

	Describe("representation", func() {
		It("rebuilds every descendant aspect as lines", func() {
			before := map[string]*scene.Object{
				"group.g1.morph":                      object("group.g1.morph"),
				"group.g2.morph":                      object("group.g2.morph"),
				"group.g1.morph.VisualizationTree.c0": object("group.g1.morph.VisualizationTree.c0"),
			}

			err := prop.SetEntityGeometryType(entity("group"), control.GeometryLines, 2, true)
			Expect(err).NotTo(HaveOccurred())

			for path, old := range before {
				Expect(object(path)).NotTo(BeIdenticalTo(old), path)
			}
			Expect(object("group.g1.morph").Kind).To(Equal(scene.ObjectLineSegments))
			Expect(object("group.g2.morph").Material.Linewidth).To(BeNumerically("==", 2))

			for _, path := range []string{"group", "group.g1", "group.g2"} {
				Expect(entity(path).Visible).To(BeFalse(), path)
			}
		})

		It("keeps selection and ghosting across a rebuild", func() {
			a := aspect("a.morph")
			prop.SelectAspect(a)

			for _, path := range []string{"a.morph", "b.morph", "c.morph"} {
				old := object(path)
				Expect(prop.SetAspectGeometryType(aspect(path), control.GeometryLines, 2)).To(Succeed())
				Expect(object(path)).NotTo(BeIdenticalTo(old), path)
			}

			selected := object("a.morph")
			Expect(selected.Selected).To(BeTrue())
			Expect(selected.Ghosted).To(BeFalse())
			Expect(selected.Material.Color).To(Equal(control.DefaultOptions().SelectedColor))

			target := object("b.morph")
			Expect(target.Output).To(BeTrue())
			Expect(target.Ghosted).To(BeFalse())
			Expect(target.Material.Color).To(Equal(control.DefaultOptions().OutputColor))

			ghost := object("c.morph")
			Expect(ghost.Ghosted).To(BeTrue())
			Expect(ghost.Opacity()).To(BeNumerically("~", 0.1, 1e-6))

			Expect(prop.DeselectAspect(a)).To(Equal(hierarchy.Deselected))
			Expect(object("a.morph").Selected).To(BeFalse())
			Expect(object("c.morph").Ghosted).To(BeFalse())
			Expect(object("c.morph").Opacity()).To(Equal(object("c.morph").DefaultOpacity))
		})

		It("applies opacity and colour to every aspect", func() {
			group := entity("group")
			prop.SetEntityOpacity(group, 0.5, true)
			prop.SetEntityColor(group, 0x112233, true)

			for _, path := range []string{"group.g1.morph", "group.g2.morph"} {
				Expect(object(path).Opacity()).To(BeNumerically("~", 0.5, 1e-6))
				Expect(object(path).Material.Color).To(Equal(uint32(0x112233)))
			}
		})
	})

	Describe("connection toggles", func() {
		It("requires an explicit mode", func() {
			_, err := prop.ShowOutputConnections(entity("a"), hierarchy.ToggleUnset)
			Expect(err).To(MatchError(hierarchy.ErrMissingParameter))
			Expect(prop.ShowConnectionLines(entity("a"), hierarchy.ToggleUnset)).To(MatchError(hierarchy.ErrMissingParameter))
		})

		It("selects the entity before highlighting", func() {
			a := entity("a")
			paths, err := prop.ShowInputConnections(a, hierarchy.ToggleOn)
			Expect(err).NotTo(HaveOccurred())
			Expect(paths).To(ConsistOf("c.morph"))
			Expect(a.Selected).To(BeTrue())
			Expect(object("c.morph").Input).To(BeTrue())

			_, err = prop.ShowInputConnections(a, hierarchy.ToggleOff)
			Expect(err).NotTo(HaveOccurred())
			Expect(object("c.morph").Input).To(BeFalse())
		})

		It("unselects everything", func() {
			prop.SelectEntity(entity("group"))
			Expect(aspect("group.g2.morph").Selected).To(BeTrue())

			prop.UnselectAll(eng.Project().Entities)
			Expect(entity("group").Selected).To(BeFalse())
			Expect(aspect("group.g2.morph").Selected).To(BeFalse())
			Expect(object("group.g1.morph").Selected).To(BeFalse())
		})
	})

	It("zooms to an entity", func() {
		b, err := prop.ZoomToEntity(entity("b"))
		Expect(err).NotTo(HaveOccurred())
		Expect(b.Center.X).To(BeNumerically("~", 10, 0.5))
		Expect(b.Radius).To(BeNumerically(">", 0))

		b, err = prop.ZoomToEntity(entity("group"))
		Expect(err).NotTo(HaveOccurred())
		Expect(b.Center.X).To(BeNumerically("~", 2.5, 0.5))

		_, err = eng.Controller().ZoomTo("missing.morph")
		Expect(err).To(MatchError(control.ErrNotFound))
	})
})
