package hierarchy

import (
	"github.com/san-kum/vizsync/internal/control"
	"github.com/san-kum/vizsync/internal/model"
)

// SelectAspect selects a and its parent entity. With transparency on,
// everything else is ghosted except the aspects connected to the parent.
func (p *Propagator) SelectAspect(a *model.Aspect) Status {
	if a.Selected {
		return AlreadySelected
	}
	if p.opts.UnselectedTransparent {
		p.ctl.SetGhostEffect(true)
	}

	a.Selected = true
	e := a.Parent()
	if e != nil {
		e.Selected = true
	}
	p.ctl.Select(a.InstancePath)

	if e != nil && len(e.Connections) > 0 {
		connected := make(map[string]bool)
		if p.opts.ShowInputs {
			for _, path := range p.connections(e, model.ConnectionInput, true) {
				connected[path] = true
			}
		}
		if p.opts.ShowOutputs {
			for _, path := range p.connections(e, model.ConnectionOutput, true) {
				connected[path] = true
			}
		}
		if p.opts.DrawConnectionLines {
			if err := p.connectionLines(e, true); err != nil {
				p.logger.Warn("connection lines", "aspect", a.InstancePath, "err", err)
			}
		}
		if p.opts.UnselectedTransparent {
			p.ctl.GhostEffect(without(p.ctl.ScenePaths(), connected), true)
		}
	}
	p.logger.Debug("aspect selected", "path", a.InstancePath)
	return Selected
}

// DeselectAspect undoes SelectAspect. It does nothing unless a is selected.
func (p *Propagator) DeselectAspect(a *model.Aspect) Status {
	if !a.Selected {
		return NotSelected
	}
	p.ctl.Deselect(a.InstancePath)
	a.Selected = false
	e := a.Parent()
	if e != nil {
		e.Selected = false
	}

	if p.opts.UnselectedTransparent {
		p.ctl.SetGhostEffect(false)
	}
	if e != nil {
		if p.opts.ShowInputs {
			p.connections(e, model.ConnectionInput, false)
		}
		if p.opts.ShowOutputs {
			p.connections(e, model.ConnectionOutput, false)
		}
	}
	if p.opts.DrawConnectionLines {
		p.ctl.HideConnectionLines()
	}
	return Deselected
}

func (p *Propagator) ShowAspect(a *model.Aspect) Status {
	a.Visible = true
	p.ctl.Show(a.InstancePath)
	return Shown
}

func (p *Propagator) HideAspect(a *model.Aspect) Status {
	a.Visible = false
	p.ctl.Hide(a.InstancePath)
	return Hidden
}

func (p *Propagator) SetAspectOpacity(a *model.Aspect, v float32) Status {
	p.ctl.SetOpacity(a.InstancePath, v)
	return Updated
}

func (p *Propagator) SetAspectColor(a *model.Aspect, color uint32) Status {
	p.ctl.SetColor(a.InstancePath, color)
	return Updated
}

// SetAspectGeometryType rebuilds the objects of a in representation t.
func (p *Propagator) SetAspectGeometryType(a *model.Aspect, t control.GeometryType, thickness float32) error {
	return p.ctl.SetGeometryType(a.InstancePath, t, thickness)
}

func (p *Propagator) ZoomToAspect(a *model.Aspect) (control.Bounds, error) {
	return p.ctl.ZoomTo(a.InstancePath)
}
