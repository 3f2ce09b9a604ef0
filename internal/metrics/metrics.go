// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "family_planner"

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

type Metrics struct {
	registry *prometheus.Registry

	familiesCreated prometheus.Counter
	invitesCreated  prometheus.Counter
	invitesAccepted *prometheus.CounterVec
	emailsSent      *prometheus.CounterVec
	tasksChanged    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		familiesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "families_created_total",
			Help:      "Families created.",
		}),
		invitesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invites_created_total",
			Help:      "Invites issued.",
		}),
		invitesAccepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invites_accepted_total",
			Help:      "Invite redemptions by outcome code.",
		}, []string{"result"}),
		emailsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invite_emails_total",
			Help:      "Invite emails by delivery result.",
		}, []string{"result"}),
		tasksChanged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_status_changes_total",
			Help:      "Task status changes by target status.",
		}, []string{"status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.familiesCreated,
		m.invitesCreated,
		m.invitesAccepted,
		m.emailsSent,
		m.tasksChanged,
		m.httpDuration,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) FamilyCreated() {
	m.familiesCreated.Inc()
}

func (m *Metrics) InviteCreated() {
	m.invitesCreated.Inc()
}

// InviteAccepted counts a redemption attempt; result is "success" or the lowercased error code.
func (m *Metrics) InviteAccepted(result string) {
	m.invitesAccepted.WithLabelValues(result).Inc()
}

func (m *Metrics) EmailSent(ok bool) {
	result := ResultSuccess
	if !ok {
		result = ResultFailure
	}
	m.emailsSent.WithLabelValues(result).Inc()
}

func (m *Metrics) TaskStatusChanged(status string) {
	m.tasksChanged.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
