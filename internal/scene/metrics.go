package scene

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the registry and merge collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Entries         prometheus.Gauge
	SceneObjects    prometheus.Gauge
	Complexity      prometheus.Gauge
	PositionUpdates prometheus.Counter
	MissedUpdates   prometheus.Counter
	Merges          *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Entries: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "vizsync",
			Name:      "registry_entries",
			Help:      "Instance paths currently held by the scene registry.",
		}),
		SceneObjects: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "vizsync",
			Name:      "scene_objects",
			Help:      "Objects attached to the scene root.",
		}),
		Complexity: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "vizsync",
			Name:      "scene_complexity",
			Help:      "Primitive count of the loaded project.",
		}),
		PositionUpdates: f.NewCounter(prometheus.CounterOpts{
			Namespace: "vizsync",
			Name:      "position_updates_total",
			Help:      "Position updates applied to registered objects.",
		}),
		MissedUpdates: f.NewCounter(prometheus.CounterOpts{
			Namespace: "vizsync",
			Name:      "missed_updates_total",
			Help:      "Position updates for paths with no registered object.",
		}),
		Merges: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vizsync",
			Name:      "merges_total",
			Help:      "Merged objects produced, by source node kind.",
		}, []string{"kind"}),
	}
}

func (m *Metrics) ObserveMerge(kind string) {
	if m == nil {
		return
	}
	m.Merges.WithLabelValues(kind).Inc()
}

func (m *Metrics) SetComplexity(n int) {
	if m == nil {
		return
	}
	m.Complexity.Set(float64(n))
}

func (m *Metrics) update(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.PositionUpdates.Inc()
	} else {
		m.MissedUpdates.Inc()
	}
}

func (m *Metrics) sizes(entries, attached int) {
	if m == nil {
		return
	}
	m.Entries.Set(float64(entries))
	m.SceneObjects.Set(float64(attached))
}
