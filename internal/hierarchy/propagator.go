package hierarchy

import (
	"io"
	"log/slog"
	"sort"

	"github.com/san-kum/vizsync/internal/control"
	"github.com/san-kum/vizsync/internal/model"
)

// SelectionOptions are the switches that shape what a selection does to
// the rest of the scene.
type SelectionOptions struct {
	UnselectedTransparent bool
	ShowInputs            bool
	ShowOutputs           bool
	DrawConnectionLines   bool
}

// Propagator owns selection, visibility, opacity and colour state on
// entities and aspects, and mirrors it onto scene objects through the
// controller.
type Propagator struct {
	ctl    *control.Controller
	index  *model.Index
	opts   SelectionOptions
	logger *slog.Logger
}

func New(ctl *control.Controller, index *model.Index, opts SelectionOptions, logger *slog.Logger) *Propagator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Propagator{ctl: ctl, index: index, opts: opts, logger: logger}
}

// SetIndex replaces the index used to resolve connections, e.g. after a
// project switch.
func (p *Propagator) SetIndex(idx *model.Index) { p.index = idx }

func (p *Propagator) SetOptions(opts SelectionOptions) { p.opts = opts }

func (p *Propagator) Options() SelectionOptions { return p.opts }

func (p *Propagator) Controller() *control.Controller { return p.ctl }

// connectedPaths resolves the connections of e with type t to the aspect
// paths of their target entities. Unresolvable targets are skipped.
func (p *Propagator) connectedPaths(e *model.Entity, t model.ConnectionType) []string {
	var paths []string
	for _, c := range e.Connections {
		if c.Type != t {
			continue
		}
		target, ok := p.resolve(c)
		if !ok {
			continue
		}
		paths = append(paths, target.AspectPaths()...)
	}
	return paths
}

func (p *Propagator) resolve(c *model.Connection) (*model.Entity, bool) {
	if p.index == nil {
		p.logger.Warn("no index to resolve connection", "connection", c.ID)
		return nil, false
	}
	target, err := p.index.Resolve(c)
	if err != nil {
		p.logger.Warn("unresolved connection", "connection", c.ID, "err", err)
		return nil, false
	}
	return target, true
}

// connections highlights or clears the connected aspects of e with type t
// and returns their paths.
func (p *Propagator) connections(e *model.Entity, t model.ConnectionType, on bool) []string {
	paths := p.connectedPaths(e, t)
	if on {
		p.ctl.ShowConnections(paths, t)
	} else {
		p.ctl.HideConnections(paths)
	}
	return paths
}

// connectionLines draws lines from the first aspect of e to every aspect
// of every connected entity.
func (p *Propagator) connectionLines(e *model.Entity, on bool) error {
	if !on {
		p.ctl.HideConnectionLines()
		return nil
	}
	if len(e.Aspects) == 0 {
		p.logger.Debug("no aspect to draw connection lines from", "entity", e.InstancePath)
		return nil
	}
	targets := make(map[string]model.ConnectionType)
	for _, c := range e.Connections {
		target, ok := p.resolve(c)
		if !ok {
			continue
		}
		for _, path := range target.AspectPaths() {
			targets[path] = c.Type
		}
	}
	if len(targets) == 0 {
		return nil
	}
	return p.ctl.ShowConnectionLines(e.Aspects[0].InstancePath, targets)
}

func without(all []string, drop map[string]bool) []string {
	out := make([]string, 0, len(all))
	for _, p := range all {
		if !drop[p] {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}
