package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/vizsync/internal/control"
	"github.com/san-kum/vizsync/internal/hierarchy"
	"github.com/san-kum/vizsync/internal/model"
	"github.com/san-kum/vizsync/internal/scene"
)

var (
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	rowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff"))
	hiddenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00")).Bold(true)
	hintKey       = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

var geometryCycle = []control.GeometryType{
	control.GeometryDefault,
	control.GeometryLines,
	control.GeometryCylinders,
}

// row is one line of the explorer tree: an entity or one of its aspects.
type row struct {
	depth  int
	entity *model.Entity
	aspect *model.Aspect
}

func (r row) label() string {
	if r.aspect != nil {
		return "◆ " + r.aspect.Name
	}
	return "▾ " + r.entity.Name
}

func (r row) selected() bool {
	if r.aspect != nil {
		return r.aspect.Selected
	}
	return r.entity.Selected
}

func (r row) visible() bool {
	if r.aspect != nil {
		return r.aspect.Visible
	}
	return r.entity.Visible
}

// Explorer browses the entity tree and applies selection, visibility and
// representation commands through a Propagator.
type Explorer struct {
	prop      *hierarchy.Propagator
	objects   func() []*scene.Object
	rows      []row
	cursor    int
	geometry  map[string]int
	shown     map[string]bool
	thickness float32
	message   string

	canvas *Canvas
	camera *Camera
	theme  Theme
}

func NewExplorer(prop *hierarchy.Propagator, roots []*model.Entity, objects func() []*scene.Object, thickness float32) *Explorer {
	e := &Explorer{
		prop:      prop,
		objects:   objects,
		geometry:  make(map[string]int),
		shown:     make(map[string]bool),
		thickness: thickness,
		canvas:    NewCanvas(width, height),
		camera:    NewCamera(),
		theme:     ThemeOcean,
	}
	var walk func(ents []*model.Entity, depth int)
	walk = func(ents []*model.Entity, depth int) {
		for _, ent := range ents {
			e.rows = append(e.rows, row{depth: depth, entity: ent})
			for _, a := range ent.Aspects {
				e.rows = append(e.rows, row{depth: depth + 1, entity: ent, aspect: a})
			}
			walk(ent.Entities, depth+1)
		}
	}
	walk(roots, 0)

	if b, err := prop.Controller().ZoomTo(prop.Controller().ScenePaths()...); err == nil {
		e.camera.Frame(b)
	}
	e.draw()
	return e
}

func (e *Explorer) Init() tea.Cmd { return nil }

func (e *Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return e, nil
	}
	if k := key.String(); k == "q" || k == "ctrl+c" {
		return e, tea.Quit
	}
	if len(e.rows) == 0 {
		return e, nil
	}
	r := e.rows[e.cursor]
	e.message = ""

	switch key.String() {
	case "up", "k":
		if e.cursor > 0 {
			e.cursor--
		}
	case "down", "j":
		if e.cursor < len(e.rows)-1 {
			e.cursor++
		}
	case "enter", " ":
		e.toggleSelect(r)
	case "v":
		e.toggleVisible(r)
	case "g":
		e.cycleGeometry(r)
	case "i":
		e.toggleConnections(r, model.ConnectionInput)
	case "o":
		e.toggleConnections(r, model.ConnectionOutput)
	case "c":
		on := len(e.prop.Controller().ConnectionLines()) == 0
		if err := e.prop.ShowConnectionLines(r.entity, hierarchy.ToggleOf(on)); err != nil {
			e.message = err.Error()
		}
	case "u":
		e.prop.UnselectAll(e.roots())
	case "z":
		e.zoom(r)
	case "left", "h":
		e.camera.Orbit(-orbitStep, 0)
	case "right", "l":
		e.camera.Orbit(orbitStep, 0)
	case "+", "=":
		e.camera.ZoomIn()
	case "-", "_":
		e.camera.ZoomOut()
	case "t":
		e.theme = NextTheme(e.theme)
	}
	e.draw()
	return e, nil
}

func (e *Explorer) roots() []*model.Entity {
	var roots []*model.Entity
	for _, r := range e.rows {
		if r.aspect == nil && r.depth == 0 {
			roots = append(roots, r.entity)
		}
	}
	return roots
}

func (e *Explorer) toggleSelect(r row) {
	var st hierarchy.Status
	switch {
	case r.aspect != nil && r.aspect.Selected:
		st = e.prop.DeselectAspect(r.aspect)
	case r.aspect != nil:
		st = e.prop.SelectAspect(r.aspect)
	case r.entity.Selected:
		st = e.prop.DeselectEntity(r.entity)
	default:
		st = e.prop.SelectEntity(r.entity)
	}
	e.message = st.String()
}

func (e *Explorer) toggleVisible(r row) {
	var st hierarchy.Status
	switch {
	case r.aspect != nil && r.aspect.Visible:
		st = e.prop.HideAspect(r.aspect)
	case r.aspect != nil:
		st = e.prop.ShowAspect(r.aspect)
	case r.entity.Visible:
		st = e.prop.HideEntity(r.entity, true)
	default:
		st = e.prop.ShowEntity(r.entity, true)
	}
	e.message = st.String()
}

func (e *Explorer) cycleGeometry(r row) {
	key := r.entity.InstancePath
	if r.aspect != nil {
		key = r.aspect.InstancePath
	}
	next := (e.geometry[key] + 1) % len(geometryCycle)
	t := geometryCycle[next]

	var err error
	if r.aspect != nil {
		err = e.prop.SetAspectGeometryType(r.aspect, t, e.thickness)
	} else {
		err = e.prop.SetEntityGeometryType(r.entity, t, e.thickness, true)
	}
	if err != nil {
		e.message = err.Error()
		return
	}
	e.geometry[key] = next
	e.message = "geometry " + t.String()
}

func (e *Explorer) toggleConnections(r row, t model.ConnectionType) {
	key := r.entity.InstancePath + "/" + t.String()
	on := !e.shown[key]
	show := e.prop.ShowOutputConnections
	if t == model.ConnectionInput {
		show = e.prop.ShowInputConnections
	}
	paths, err := show(r.entity, hierarchy.ToggleOf(on))
	if err != nil {
		e.message = err.Error()
		return
	}
	e.shown[key] = on
	e.message = fmt.Sprintf("%d %s connections", len(paths), t)
}

func (e *Explorer) zoom(r row) {
	var (
		b   control.Bounds
		err error
	)
	if r.aspect != nil {
		b, err = e.prop.ZoomToAspect(r.aspect)
	} else {
		b, err = e.prop.ZoomToEntity(r.entity)
	}
	if err != nil {
		e.message = err.Error()
		return
	}
	e.camera.Frame(b)
}

func (e *Explorer) draw() {
	e.canvas.Clear()
	Render3D(e.canvas, Extract(e.objects()), e.camera)
}

func (e *Explorer) View() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("SCENE") + "\n\n")
	for i, r := range e.rows {
		style := rowStyle
		switch {
		case r.selected():
			style = selectedStyle
		case !r.visible():
			style = hiddenStyle
		}
		prefix := "  "
		if i == e.cursor {
			prefix = cursorStyle.Render("▸ ")
		}
		b.WriteString(prefix + strings.Repeat("  ", r.depth) + style.Render(r.label()) + "\n")
	}
	if e.message != "" {
		b.WriteString("\n" + Subtle.Render(e.message) + "\n")
	}
	b.WriteString("\n" + hintKey.Render("enter") + KeyHint.Render(" select  ") +
		hintKey.Render("v") + KeyHint.Render(" visible  ") +
		hintKey.Render("g") + KeyHint.Render(" geometry  ") +
		hintKey.Render("i/o") + KeyHint.Render(" connections  ") +
		hintKey.Render("z") + KeyHint.Render(" zoom  ") +
		hintKey.Render("q") + KeyHint.Render(" quit") + "\n")

	bright, dim := e.theme.styles()
	tree := lipgloss.NewStyle().Width(40).Padding(1, 2).Render(b.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, tree, canvasStyle.Render(e.canvas.Render(bright, dim)))
}

func RunExplorer(e *Explorer) error {
	_, err := tea.NewProgram(e, tea.WithAltScreen()).Run()
	return err
}
