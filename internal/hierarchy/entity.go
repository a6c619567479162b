package hierarchy

import (
	"errors"

	"github.com/san-kum/vizsync/internal/control"
	"github.com/san-kum/vizsync/internal/model"
)

// cascade visits e and, when nested is set, every descendant entity in
// depth-first order.
func cascade(e *model.Entity, nested bool, fn func(*model.Entity)) {
	model.WalkEntities([]*model.Entity{e}, func(ent *model.Entity) bool {
		fn(ent)
		return nested
	})
}

// SelectEntity selects e, its nested entities and all of their aspects.
func (p *Propagator) SelectEntity(e *model.Entity) Status {
	if e.Selected {
		return AlreadySelected
	}
	e.Selected = true
	cascade(e, true, func(ent *model.Entity) {
		ent.Selected = true
		for _, a := range ent.Aspects {
			p.SelectAspect(a)
		}
	})
	return Selected
}

func (p *Propagator) DeselectEntity(e *model.Entity) Status {
	if !e.Selected {
		return NotSelected
	}
	cascade(e, true, func(ent *model.Entity) {
		for _, a := range ent.Aspects {
			p.DeselectAspect(a)
		}
		ent.Selected = false
	})
	return Deselected
}

// ShowEntity makes e and its aspects visible, and with nested set every
// descendant too. It never changes the visibility of e's parent.
func (p *Propagator) ShowEntity(e *model.Entity, nested bool) Status {
	cascade(e, nested, func(ent *model.Entity) {
		ent.Visible = true
		for _, a := range ent.Aspects {
			p.ShowAspect(a)
		}
	})
	return Shown
}

func (p *Propagator) HideEntity(e *model.Entity, nested bool) Status {
	cascade(e, nested, func(ent *model.Entity) {
		ent.Visible = false
		for _, a := range ent.Aspects {
			p.HideAspect(a)
		}
	})
	return Hidden
}

// SetEntityOpacity applies v to every aspect under e. Each visited entity
// is marked not visible.
func (p *Propagator) SetEntityOpacity(e *model.Entity, v float32, nested bool) Status {
	cascade(e, nested, func(ent *model.Entity) {
		ent.Visible = false
		for _, a := range ent.Aspects {
			p.SetAspectOpacity(a, v)
		}
	})
	return Updated
}

// SetEntityColor applies color to every aspect under e. Each visited entity
// is marked not visible.
func (p *Propagator) SetEntityColor(e *model.Entity, color uint32, nested bool) Status {
	cascade(e, nested, func(ent *model.Entity) {
		ent.Visible = false
		for _, a := range ent.Aspects {
			p.SetAspectColor(a, color)
		}
	})
	return Updated
}

// SetEntityGeometryType rebuilds every aspect under e in representation t.
// Each visited entity is marked not visible. Failed aspects are reported
// together; the others are still rebuilt.
func (p *Propagator) SetEntityGeometryType(e *model.Entity, t control.GeometryType, thickness float32, nested bool) error {
	var errs []error
	cascade(e, nested, func(ent *model.Entity) {
		ent.Visible = false
		for _, a := range ent.Aspects {
			if err := p.SetAspectGeometryType(a, t, thickness); err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}

func (p *Propagator) ZoomToEntity(e *model.Entity) (control.Bounds, error) {
	return p.ctl.ZoomTo(e.AspectPaths()...)
}

// ShowInputConnections highlights the aspects of entities feeding e,
// selecting e first if needed, and returns their paths.
func (p *Propagator) ShowInputConnections(e *model.Entity, mode Toggle) ([]string, error) {
	return p.showConnections(e, model.ConnectionInput, mode)
}

// ShowOutputConnections highlights the aspects of entities e feeds.
func (p *Propagator) ShowOutputConnections(e *model.Entity, mode Toggle) ([]string, error) {
	return p.showConnections(e, model.ConnectionOutput, mode)
}

func (p *Propagator) showConnections(e *model.Entity, t model.ConnectionType, mode Toggle) ([]string, error) {
	if mode == ToggleUnset {
		return nil, ErrMissingParameter
	}
	on := mode == ToggleOn
	if on && !e.Selected {
		p.SelectEntity(e)
	}
	return p.connections(e, t, on), nil
}

// ShowConnectionLines draws or removes lines from e to its connections.
func (p *Propagator) ShowConnectionLines(e *model.Entity, mode Toggle) error {
	if mode == ToggleUnset {
		return ErrMissingParameter
	}
	return p.connectionLines(e, mode == ToggleOn)
}

// UnselectAll deselects every selected entity and aspect under roots.
func (p *Propagator) UnselectAll(roots []*model.Entity) {
	model.WalkEntities(roots, func(e *model.Entity) bool {
		for _, a := range e.Aspects {
			p.DeselectAspect(a)
		}
		e.Selected = false
		return true
	})
}
