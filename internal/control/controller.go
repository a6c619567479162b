package control

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"cogentcore.org/core/math32"

	"github.com/san-kum/vizsync/internal/model"
	"github.com/san-kum/vizsync/internal/scene"
)

type Options struct {
	SelectedColor uint32
	InputColor    uint32
	OutputColor   uint32
	GhostOpacity  float32
	LineThickness float32
}

func DefaultOptions() Options {
	return Options{
		SelectedColor: 0xffcc00,
		InputColor:    0xdc143c,
		OutputColor:   0x66ff00,
		GhostOpacity:  0.1,
		LineThickness: 1,
	}
}

// Controller applies visual commands to registered objects.
type Controller struct {
	reg       *scene.Registry
	opts      Options
	rebuilder Rebuilder
	logger    *slog.Logger

	ghosting bool
	lines    map[string]*scene.Object
}

func New(reg *scene.Registry, opts Options, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.GhostOpacity <= 0 || opts.GhostOpacity > 1 {
		opts.GhostOpacity = DefaultOptions().GhostOpacity
	}
	return &Controller{
		reg:    reg,
		opts:   opts,
		logger: logger,
		lines:  make(map[string]*scene.Object),
	}
}

func (c *Controller) SetRebuilder(r Rebuilder) { c.rebuilder = r }

func (c *Controller) Options() Options { return c.opts }

// ScenePaths returns the sorted paths of every object in the scene.
func (c *Controller) ScenePaths() []string {
	objs := c.reg.SceneObjects()
	paths := make([]string, 0, len(objs))
	for p := range objs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Ghosting reports whether the global ghost effect is on.
func (c *Controller) Ghosting() bool { return c.ghosting }

func (c *Controller) lookup(path string) (*scene.Object, bool) {
	obj, ok := c.reg.Lookup(path)
	if !ok {
		c.logger.Debug("no scene object", "path", path)
	}
	return obj, ok
}

func (c *Controller) Show(path string) bool {
	obj, ok := c.lookup(path)
	if ok {
		obj.SetVisible(true)
	}
	return ok
}

func (c *Controller) Hide(path string) bool {
	obj, ok := c.lookup(path)
	if ok {
		obj.SetVisible(false)
	}
	return ok
}

func (c *Controller) SetOpacity(path string, v float32) bool {
	obj, ok := c.lookup(path)
	if ok {
		obj.SetOpacity(math32.Clamp(v, 0, 1))
	}
	return ok
}

func (c *Controller) SetColor(path string, color uint32) bool {
	obj, ok := c.lookup(path)
	if ok {
		obj.SetColor(color)
	}
	return ok
}

// Select highlights path and lifts any ghosting from it.
func (c *Controller) Select(path string) bool {
	obj, ok := c.lookup(path)
	if !ok {
		return false
	}
	obj.Selected = true
	obj.Tint(c.opts.SelectedColor)
	obj.Unghost()
	return true
}

func (c *Controller) Deselect(path string) bool {
	obj, ok := c.lookup(path)
	if !ok {
		return false
	}
	obj.Selected = false
	obj.RestoreColor()
	if c.ghosting {
		obj.Ghost(c.opts.GhostOpacity)
	} else {
		obj.Unghost()
	}
	return true
}

// SetGhostEffect ghosts every scene object that is neither selected nor
// marked as a connection, or restores all of them when on is false.
func (c *Controller) SetGhostEffect(on bool) {
	c.ghosting = on
	for _, obj := range c.reg.SceneObjects() {
		switch {
		case !on:
			obj.Unghost()
		case !obj.Selected && !obj.Input && !obj.Output:
			obj.Ghost(c.opts.GhostOpacity)
		}
	}
}

// GhostEffect ghosts or restores the given paths. Selected objects are
// never ghosted.
func (c *Controller) GhostEffect(paths []string, on bool) {
	for _, p := range paths {
		obj, ok := c.lookup(p)
		if !ok {
			continue
		}
		if on && !obj.Selected {
			obj.Ghost(c.opts.GhostOpacity)
		} else if !on {
			obj.Unghost()
		}
	}
}

// ShowConnections marks paths as inputs or outputs of the selection.
func (c *Controller) ShowConnections(paths []string, t model.ConnectionType) {
	color := c.opts.OutputColor
	if t == model.ConnectionInput {
		color = c.opts.InputColor
	}
	for _, p := range paths {
		obj, ok := c.lookup(p)
		if !ok {
			continue
		}
		switch t {
		case model.ConnectionInput:
			obj.Input = true
		case model.ConnectionOutput:
			obj.Output = true
		}
		if !obj.Selected {
			obj.Tint(color)
		}
		obj.Unghost()
	}
}

func (c *Controller) HideConnections(paths []string) {
	for _, p := range paths {
		obj, ok := c.lookup(p)
		if !ok {
			continue
		}
		obj.Input = false
		obj.Output = false
		if obj.Selected {
			continue
		}
		obj.RestoreColor()
		if c.ghosting {
			obj.Ghost(c.opts.GhostOpacity)
		} else {
			obj.Unghost()
		}
	}
}

// ShowConnectionLines draws a line from the centre of origin to the centre
// of every target, coloured by connection type. Earlier lines are removed.
func (c *Controller) ShowConnectionLines(origin string, targets map[string]model.ConnectionType) error {
	c.HideConnectionLines()
	from, err := c.ZoomTo(origin)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(targets))
	for k := range targets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, target := range keys {
		if target == origin {
			continue
		}
		to, err := c.ZoomTo(target)
		if err != nil {
			continue
		}
		color := c.opts.OutputColor
		if targets[target] == model.ConnectionInput {
			color = c.opts.InputColor
		}
		line := scene.NewObject(scene.ObjectLine, model.KindNone, origin+"->"+target)
		line.Geometry = scene.NewLineGeometry(from.Center, to.Center)
		line.Material = &scene.Material{
			Kind:           scene.MaterialLine,
			Color:          color,
			DefaultColor:   color,
			Opacity:        1,
			DefaultOpacity: 1,
			Linewidth:      c.opts.LineThickness,
			DepthTest:      true,
		}
		c.lines[target] = line
		c.reg.AddOverlay(line)
	}
	return nil
}

func (c *Controller) HideConnectionLines() {
	for k, line := range c.lines {
		c.reg.RemoveOverlay(line)
		delete(c.lines, k)
	}
}

// ConnectionLines returns the drawn lines keyed by target path.
func (c *Controller) ConnectionLines() map[string]*scene.Object {
	out := make(map[string]*scene.Object, len(c.lines))
	for k, v := range c.lines {
		out[k] = v
	}
	return out
}

// SetGeometryType rebuilds the objects of an aspect in the given
// representation. Selection, connection marks, ghosting, visibility and
// any colour or opacity set on the old object carry over to the new one.
func (c *Controller) SetGeometryType(aspectPath string, t GeometryType, thickness float32) error {
	if c.rebuilder == nil {
		return ErrNoRebuilder
	}
	prev, had := c.reg.Lookup(aspectPath)
	var st objectState
	if had {
		st = captureState(prev)
	}
	if err := c.rebuilder.Rebuild(aspectPath, t.LineMode(), thickness); err != nil {
		return fmt.Errorf("set geometry type %s on %s: %w", t, aspectPath, err)
	}
	if had {
		c.restoreState(aspectPath, st)
	}
	return nil
}

// objectState is the part of an object's look that commands may have
// changed since it was built.
type objectState struct {
	visible  bool
	selected bool
	ghosted  bool
	input    bool
	output   bool
	styled   bool
	color    uint32
	opacity  float32
}

func captureState(obj *scene.Object) objectState {
	st := objectState{
		visible:  obj.Visible,
		selected: obj.Selected,
		ghosted:  obj.Ghosted,
		input:    obj.Input,
		output:   obj.Output,
	}
	if n := styledNode(obj); n != nil {
		st.styled = true
		st.color = n.Material.DefaultColor
		st.opacity = n.DefaultOpacity
	}
	return st
}

func (c *Controller) restoreState(path string, st objectState) {
	obj, ok := c.lookup(path)
	if !ok {
		return
	}
	if n := styledNode(obj); st.styled && n != nil {
		if n.Material.DefaultColor != st.color {
			obj.SetColor(st.color)
		}
		if n.DefaultOpacity != st.opacity {
			obj.SetOpacity(st.opacity)
		}
	}
	obj.SetVisible(st.visible)
	if st.input {
		c.ShowConnections([]string{path}, model.ConnectionInput)
	}
	if st.output {
		c.ShowConnections([]string{path}, model.ConnectionOutput)
	}
	switch {
	case st.selected:
		c.Select(path)
	case st.ghosted:
		obj.Ghost(c.opts.GhostOpacity)
	}
}

// styledNode returns the first node under obj that carries a material.
func styledNode(obj *scene.Object) *scene.Object {
	var found *scene.Object
	obj.Traverse(func(n *scene.Object) {
		if found == nil && n.Material != nil {
			found = n
		}
	})
	return found
}
// Reset forgets transient state after the registry has been swapped.
func (c *Controller) Reset() {
	c.ghosting = false
	c.lines = make(map[string]*scene.Object)
}
