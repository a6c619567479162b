package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/san-kum/vizsync/internal/config"
	"github.com/san-kum/vizsync/internal/control"
	"github.com/san-kum/vizsync/internal/factory"
	"github.com/san-kum/vizsync/internal/hierarchy"
	"github.com/san-kum/vizsync/internal/model"
	"github.com/san-kum/vizsync/internal/scene"
)

// Engine keeps a rendering surface in step with a loaded project.
type Engine struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *scene.Metrics

	parsers    *factory.Parsers
	registry   *scene.Registry
	builder    *factory.Builder
	controller *control.Controller
	propagator *hierarchy.Propagator

	project *model.Project
	index   *model.Index
}

type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics registers the scene collectors with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(e *Engine) { e.metrics = scene.NewMetrics(reg) }
}

func WithParsers(p *factory.Parsers) Option {
	return func(e *Engine) { e.parsers = p }
}

func New(cfg *config.Config, surface scene.Surface, opts ...Option) *Engine {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	e := &Engine{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	e.registry = scene.NewRegistry(surface, e.logger.With("component", "registry"))
	e.registry.SetMetrics(e.metrics)
	e.builder = factory.NewBuilder(e.registry, e.parsers, cfg.FactoryOptions(), e.logger.With("component", "factory"))
	e.builder.SetMetrics(e.metrics)
	e.controller = control.New(e.registry, cfg.ControlOptions(), e.logger.With("component", "control"))
	e.controller.SetRebuilder(e)
	e.propagator = hierarchy.New(e.controller, nil, cfg.SelectionOptions(), e.logger.With("component", "hierarchy"))
	return e
}

func (e *Engine) Registry() *scene.Registry { return e.registry }

func (e *Engine) Controller() *control.Controller { return e.controller }

func (e *Engine) Propagator() *hierarchy.Propagator { return e.propagator }

func (e *Engine) Builder() *factory.Builder { return e.builder }

func (e *Engine) Index() *model.Index { return e.index }

func (e *Engine) Project() *model.Project { return e.project }

func (e *Engine) Config() *config.Config { return e.cfg }

// LoadProject builds every aspect of p into a staging registry and swaps it
// in. Aspects that fail to build are reported together; the rest of the
// scene is still shown.
func (e *Engine) LoadProject(p *model.Project) error {
	idx, err := model.NewIndex(p.Entities...)
	if err != nil {
		return fmt.Errorf("load project %s: %w", p.ID, err)
	}

	e.builder.SetComplexity(p.Complexity())
	staged := scene.NewRegistry(nil, e.logger)
	b := e.builder.WithRegistry(staged)

	var errs []error
	model.WalkEntities(p.Entities, func(ent *model.Entity) bool {
		for _, a := range ent.Aspects {
			if _, err := e.generate(b, staged, a, e.lineMode(), e.cfg.Scene.Thickness); err != nil {
				e.logger.Error("aspect build failed", "aspect", a.InstancePath, "err", err)
				errs = append(errs, err)
			}
		}
		return true
	})

	e.controller.Reset()
	e.registry.Swap(staged)
	e.project = p
	e.index = idx
	e.propagator.SetIndex(idx)
	e.logger.Info("project loaded", "project", p.ID, "complexity", p.Complexity(), "objects", len(e.registry.SceneObjects()))
	return errors.Join(errs...)
}

// LoadEntity generates and attaches the objects of every aspect of ent and
// its nested entities.
func (e *Engine) LoadEntity(ent *model.Entity) error {
	var errs []error
	model.WalkEntities([]*model.Entity{ent}, func(en *model.Entity) bool {
		for _, a := range en.Aspects {
			if _, err := e.Generate3DObjects(a, e.lineMode(), e.cfg.Scene.Thickness); err != nil {
				errs = append(errs, err)
			}
		}
		return true
	})
	return errors.Join(errs...)
}

// Generate3DObjects replaces the scene objects of a with freshly built
// ones. Several leaves are merged into one object; if merging yields
// nothing the unmerged leaves are returned and attached under one group.
func (e *Engine) Generate3DObjects(a *model.Aspect, mode factory.LineMode, thickness float32) ([]*scene.Object, error) {
	return e.generate(e.builder, e.registry, a, mode, thickness)
}

func (e *Engine) generate(b *factory.Builder, reg *scene.Registry, a *model.Aspect, mode factory.LineMode, thickness float32) ([]*scene.Object, error) {
	reg.Remove(a.InstancePath)

	style := b.Style(thickness)
	objs, err := b.Collect(a.VisualizationTree, style, mode)
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", a.InstancePath, err)
	}

	var out []*scene.Object
	switch {
	case len(objs) == 1:
		out = objs
	case len(objs) > 1:
		if merged := b.Merge(objs, style); merged != nil {
			out = []*scene.Object{merged}
		} else {
			out = objs
		}
	}

	attached := out
	if len(out) > 1 {
		group := scene.NewObject(scene.ObjectGroup, out[0].SourceKind, a.InstancePath)
		group.Children = out
		attached = []*scene.Object{group}
	}
	for _, obj := range attached {
		obj.InstancePath = a.InstancePath
		obj.AspectInstancePath = a.InstancePath
		if pos := a.Parent(); pos != nil && pos.Position != nil {
			obj.Offset = *pos.Position
		}
		obj.SetVisible(a.Visible)
		obj.Ghosted = false
		obj.Selected = false
		obj.Highlighted = false
		reg.Attach(a.InstancePath, obj)
	}
	for _, obj := range out {
		obj.AspectInstancePath = a.InstancePath
	}
	return out, nil
}

// Rebuild regenerates one aspect in the requested line mode.
func (e *Engine) Rebuild(aspectPath string, mode factory.LineMode, thickness float32) error {
	if e.index == nil {
		return fmt.Errorf("rebuild %s: %w", aspectPath, model.ErrNotFound)
	}
	a, ok := e.index.Aspect(aspectPath)
	if !ok {
		return fmt.Errorf("rebuild %s: %w", aspectPath, model.ErrNotFound)
	}
	_, err := e.Generate3DObjects(a, mode, thickness)
	return err
}

// Unload drops every scene object and forgets the project.
func (e *Engine) Unload() {
	e.controller.Reset()
	e.registry.Reset()
	e.builder.SetComplexity(0)
	e.project = nil
	e.index = nil
	e.propagator.SetIndex(nil)
}

func (e *Engine) lineMode() factory.LineMode {
	return e.cfg.GeometryType().LineMode()
}
