// Package metrics exports engine events as prometheus metrics.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"pkt.systems/tabsession/schema"
)

const namespace = "tabsession"

// Collector records state and persistence events. It satisfies core.EventSink.
type Collector struct {
	Dispatches      *prometheus.CounterVec
	Tabs            prometheus.Gauge
	PersistOps      *prometheus.CounterVec
	PersistDuration *prometheus.HistogramVec
	SnapshotBytes   prometheus.Gauge
}

// NewCollector registers the collector's metrics with reg. A nil reg uses the
// default registerer.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Collector{
		Dispatches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dispatches_total",
				Help:      "Total number of dispatched session actions",
			},
			[]string{"kind", "changed"},
		),
		Tabs: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "tabs",
				Help:      "Number of open tabs after the last dispatch",
			},
		),
		PersistOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "persist_operations_total",
				Help:      "Total number of persistence gateway calls",
			},
			[]string{"op", "result"},
		),
		PersistDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "persist_duration_seconds",
				Help:      "Persistence gateway call duration in seconds",
				Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 5},
			},
			[]string{"op"},
		),
		SnapshotBytes: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "snapshot_bytes",
				Help:      "Size of the last snapshot loaded or saved",
			},
		),
	}
}

// OnStateEvent records a dispatch.
func (c *Collector) OnStateEvent(event schema.StateEvent) {
	if c == nil {
		return
	}
	c.Dispatches.WithLabelValues(string(event.Kind), strconv.FormatBool(event.Changed)).Inc()
	c.Tabs.Set(float64(event.TabCount))
}

// OnPersistEvent records a gateway call.
func (c *Collector) OnPersistEvent(event schema.PersistEvent) {
	if c == nil {
		return
	}
	op := string(event.Op)
	c.PersistOps.WithLabelValues(op, persistResult(event)).Inc()
	c.PersistDuration.WithLabelValues(op).Observe(event.Duration.Seconds())
	if event.Err == nil && event.Bytes > 0 {
		c.SnapshotBytes.Set(float64(event.Bytes))
	}
}

func persistResult(event schema.PersistEvent) string {
	switch {
	case event.Err != nil:
		return "error"
	case event.Op == schema.PersistLoad && !event.Found:
		return "miss"
	default:
		return "ok"
	}
}
