// Package metrics exposes Prometheus counters for the users service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login outcomes.
const (
	LoginSuccess            = "success"
	LoginInvalidCredentials = "invalid_credentials"
	LoginLocked             = "locked"
)

// Recorder is what the service and HTTP layers report to.
type Recorder interface {
	RecordLogin(outcome string)
	RecordLockout()
	RecordPasswordChange(reused bool)
	RecordUserOperation(op string)
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
}

// Collector is the Prometheus implementation of Recorder.
type Collector struct {
	logins          *prometheus.CounterVec
	lockouts        prometheus.Counter
	passwordChanges *prometheus.CounterVec
	userOps         *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "users_login_attempts_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		lockouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "users_account_lockouts_total",
			Help: "Accounts locked after repeated failed logins.",
		}),
		passwordChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "users_password_changes_total",
			Help: "Password changes by result.",
		}, []string{"result"}),
		userOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "users_user_operations_total",
			Help: "Successful user writes by operation.",
		}, []string{"op"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "users_http_requests_total",
			Help: "HTTP responses by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "users_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		c.logins,
		c.lockouts,
		c.passwordChanges,
		c.userOps,
		c.httpRequests,
		c.httpDuration,
	)

	return c
}

func (c *Collector) RecordLogin(outcome string) {
	c.logins.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordLockout() {
	c.lockouts.Inc()
}

func (c *Collector) RecordPasswordChange(reused bool) {
	result := "changed"
	if reused {
		result = "reused"
	}
	c.passwordChanges.WithLabelValues(result).Inc()
}

func (c *Collector) RecordUserOperation(op string) {
	c.userOps.WithLabelValues(op).Inc()
}

func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler serves the Prometheus scrape endpoint for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Noop discards everything. It is the default when no collector is wired.
type Noop struct{}

func (Noop) RecordLogin(string)                                    {}
func (Noop) RecordLockout()                                        {}
func (Noop) RecordPasswordChange(bool)                             {}
func (Noop) RecordUserOperation(string)                            {}
func (Noop) RecordHTTPRequest(string, string, int, time.Duration) {}

// OrNoop returns r, or Noop when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return Noop{}
	}
	return r
}
