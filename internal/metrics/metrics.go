// Package metrics exposes game and session counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector groups every metric the game records. A nil *Collector is
// valid and records nothing.
type Collector struct {
	tickDuration       prometheus.Histogram
	entities           prometheus.Gauge
	sessions           prometheus.Gauge
	sessionsRejected   prometheus.Counter
	shotsFired         *prometheus.CounterVec
	asteroidsDestroyed *prometheus.CounterVec
	gameOvers          *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Collector {
	m := &Collector{
		tickDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "asteroids_tick_duration_seconds",
				Help:    "Time spent in one simulation update",
				Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .016},
			},
		),
		entities: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "asteroids_entities",
				Help: "Live entities in the registry, summed over sessions",
			},
		),
		sessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "asteroids_sessions",
				Help: "Connected game sessions",
			},
		),
		sessionsRejected: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "asteroids_sessions_rejected_total",
				Help: "Sessions refused by the admission limiter",
			},
		),
		shotsFired: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "asteroids_shots_fired_total",
				Help: "Trigger pulls that passed fire control",
			},
			[]string{"weapon"},
		),
		asteroidsDestroyed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "asteroids_destroyed_total",
				Help: "Asteroids hit, by what hit them",
			},
			[]string{"cause"},
		),
		gameOvers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "asteroids_game_overs_total",
				Help: "Finished rounds",
			},
			[]string{"reason"},
		),
	}

	reg.MustRegister(
		m.tickDuration,
		m.entities,
		m.sessions,
		m.sessionsRejected,
		m.shotsFired,
		m.asteroidsDestroyed,
		m.gameOvers,
	)
	return m
}

func (m *Collector) ObserveTick(d time.Duration) {
	if m == nil {
		return
	}
	m.tickDuration.Observe(d.Seconds())
}

// AddEntities adjusts the live entity gauge by delta.
func (m *Collector) AddEntities(delta int) {
	if m == nil || delta == 0 {
		return
	}
	m.entities.Add(float64(delta))
}

func (m *Collector) SessionStarted() {
	if m == nil {
		return
	}
	m.sessions.Inc()
}

func (m *Collector) SessionEnded() {
	if m == nil {
		return
	}
	m.sessions.Dec()
}

func (m *Collector) SessionRejected() {
	if m == nil {
		return
	}
	m.sessionsRejected.Inc()
}

func (m *Collector) ShotFired(weapon string) {
	if m == nil {
		return
	}
	m.shotsFired.WithLabelValues(weapon).Inc()
}

func (m *Collector) AsteroidDestroyed(cause string) {
	if m == nil {
		return
	}
	m.asteroidsDestroyed.WithLabelValues(cause).Inc()
}

func (m *Collector) GameOver(reason string) {
	if m == nil {
		return
	}
	m.gameOvers.WithLabelValues(reason).Inc()
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
