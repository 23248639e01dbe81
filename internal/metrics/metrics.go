// Package metrics exports hub activity to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DoyleJ11/sheet-sync/pkg/event"
)

// Metrics implements hub.Recorder.
type Metrics struct {
	reg         *prometheus.Registry
	published   *prometheus.CounterVec
	dropped     prometheus.Counter
	connections prometheus.Gauge
	rooms       prometheus.Gauge
}

// New creates the collectors on a private registry, together with the
// standard Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sheetsync_events_published_total",
			Help: "Events published by the hub, by kind.",
		}, []string{"kind"}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sheetsync_deliveries_dropped_total",
			Help: "Clients disconnected because their outbox was full.",
		}),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sheetsync_connections_active",
			Help: "Clients currently joined to the hub.",
		}),
		rooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sheetsync_rooms_active",
			Help: "Rooms with at least one member.",
		}),
	}
	m.reg.MustRegister(
		m.published, m.dropped, m.connections, m.rooms,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Published(kind event.Kind) { m.published.WithLabelValues(string(kind)).Inc() }
func (m *Metrics) Dropped()                  { m.dropped.Inc() }
func (m *Metrics) Clients(n int)             { m.connections.Set(float64(n)) }
func (m *Metrics) Rooms(n int)               { m.rooms.Set(float64(n)) }

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
