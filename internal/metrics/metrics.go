// Package metrics exposes navigation counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/starford/tabnav/internal/events"
)

// Metrics holds the navigation metrics and the registry they live in.
type Metrics struct {
	StackChanges *prometheus.CounterVec
	ModalChanges *prometheus.CounterVec
	TabSwitches  *prometheus.CounterVec
	DeepLinks    *prometheus.CounterVec
	Logouts      prometheus.Counter

	registry *prometheus.Registry
}

// New creates a private registry with every metric plus the Go runtime
// collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		StackChanges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tabnav_stack_changes_total",
			Help: "Navigation stack changes by domain",
		}, []string{"domain"}),
		ModalChanges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tabnav_modal_changes_total",
			Help: "Tab3 modal presentations and dismissals by style",
		}, []string{"style"}),
		TabSwitches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tabnav_tab_switches_total",
			Help: "Active tab changes by destination tab",
		}, []string{"tab"}),
		DeepLinks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tabnav_deep_links_total",
			Help: "Deep links received by outcome (handled, rejected)",
		}, []string{"outcome"}),
		Logouts: f.NewCounter(prometheus.CounterOpts{
			Name: "tabnav_logouts_total",
			Help: "Logout broadcasts",
		}),
		registry: reg,
	}
}

// Registry returns the registry the metrics are registered in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Attach counts bus events until the returned function is called.
func (m *Metrics) Attach(bus *events.Bus) (detach func()) {
	return bus.SubscribeAll(m.observe)
}

func (m *Metrics) observe(e events.Event) {
	switch e.Kind {
	case events.KindStackChanged:
		if p, ok := e.Data.(events.StackChanged); ok {
			m.StackChanges.WithLabelValues(p.Domain).Inc()
		}
	case events.KindModalChanged:
		if p, ok := e.Data.(events.ModalChanged); ok {
			m.ModalChanges.WithLabelValues(p.Style).Inc()
		}
	case events.KindTabSelected:
		if p, ok := e.Data.(events.TabSelected); ok {
			m.TabSwitches.WithLabelValues(p.Tab).Inc()
		}
	case events.KindLogout:
		m.Logouts.Inc()
	}
}

// ObserveDeepLink records whether a deep link was handled.
func (m *Metrics) ObserveDeepLink(handled bool) {
	outcome := "rejected"
	if handled {
		outcome = "handled"
	}
	m.DeepLinks.WithLabelValues(outcome).Inc()
}
