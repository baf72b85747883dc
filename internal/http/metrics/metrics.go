package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"collabhub/internal/common"
)

const namespace = "collabhub"

// Collector owns a private registry so several instances can coexist in
// tests. All methods are safe on a nil receiver.
type Collector struct {
	registry     *prometheus.Registry
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	errors       *prometheus.CounterVec
	invitations  *prometheus.CounterVec
	applications *prometheus.CounterVec
	provisioning *prometheus.CounterVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route pattern.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Error responses by error code.",
		}, []string{"code"}),
		invitations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invitations_total",
			Help:      "Invitation operations by action and outcome.",
		}, []string{"action", "outcome"}),
		applications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "applications_total",
			Help:      "Application operations by action and outcome.",
		}, []string{"action", "outcome"}),
		provisioning: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "role_provisioning_total",
			Help:      "Project roles provisioned by the creation wizard, by outcome.",
		}, []string{"outcome"}),
	}
	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.requests, c.duration, c.errors, c.invitations, c.applications, c.provisioning,
	)
	return c
}

func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (c *Collector) RecordError(code common.Code) {
	if c == nil {
		return
	}
	c.errors.WithLabelValues(string(code)).Inc()
}

// RecordInvitation counts an invitation action; outcome is "ok" or the error code.
func (c *Collector) RecordInvitation(action string, err error) {
	if c == nil {
		return
	}
	c.invitations.WithLabelValues(action, outcome(err)).Inc()
}

func (c *Collector) RecordApplication(action string, err error) {
	if c == nil {
		return
	}
	c.applications.WithLabelValues(action, outcome(err)).Inc()
}

func (c *Collector) RecordProvisioning(created, failed int) {
	if c == nil {
		return
	}
	c.provisioning.WithLabelValues("created").Add(float64(created))
	c.provisioning.WithLabelValues("failed").Add(float64(failed))
}

func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return string(common.CodeOf(err))
}
