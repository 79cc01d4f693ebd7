package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder backed by a Prometheus registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	registrations *prometheus.CounterVec
	logins        *prometheus.CounterVec
	logouts       prometheus.Counter
	loginDuration prometheus.Histogram

	sessionsCreated prometheus.Counter
	sessionsExpired prometheus.Counter

	csrfRejected prometheus.Counter
	rateLimited  prometheus.Counter
}

// NewPrometheus creates a PrometheusRecorder with its own registry.
func NewPrometheus() *PrometheusRecorder {
	registry := prometheus.NewRegistry()

	r := &PrometheusRecorder{
		registry: registry,
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gatehouse_registrations_total",
			Help: "Total user registrations.",
		}, []string{"status"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gatehouse_logins_total",
			Help: "Total login attempts by outcome.",
		}, []string{"status"}),
		logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gatehouse_logouts_total",
			Help: "Total logouts.",
		}),
		loginDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gatehouse_login_duration_seconds",
			Help:    "Duration of login handling including password verification.",
			Buckets: prometheus.DefBuckets,
		}),
		sessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gatehouse_sessions_created_total",
			Help: "Total sessions created.",
		}),
		sessionsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gatehouse_sessions_expired_total",
			Help: "Total sessions rejected past their absolute lifetime.",
		}),
		csrfRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gatehouse_csrf_rejections_total",
			Help: "Total requests rejected by the CSRF guard.",
		}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gatehouse_rate_limited_total",
			Help: "Total requests rejected by the login rate limiter.",
		}),
	}

	registry.MustRegister(
		r.registrations,
		r.logins,
		r.logouts,
		r.loginDuration,
		r.sessionsCreated,
		r.sessionsExpired,
		r.csrfRejected,
		r.rateLimited,
	)

	return r
}

// Handler returns the /metrics HTTP handler for this registry.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// IncRegistration increments the registration counter.
func (r *PrometheusRecorder) IncRegistration() {
	r.registrations.WithLabelValues("success").Inc()
}

// IncLoginSuccess increments the successful login counter.
func (r *PrometheusRecorder) IncLoginSuccess() {
	r.logins.WithLabelValues("success").Inc()
}

// IncLoginFailure increments the failed login counter.
func (r *PrometheusRecorder) IncLoginFailure() {
	r.logins.WithLabelValues("failure").Inc()
}

// IncLogout increments the logout counter.
func (r *PrometheusRecorder) IncLogout() {
	r.logouts.Inc()
}

// ObserveLoginDuration records a login duration sample.
func (r *PrometheusRecorder) ObserveLoginDuration(duration time.Duration) {
	r.loginDuration.Observe(duration.Seconds())
}

// IncSessionCreated increments the sessions-created counter.
func (r *PrometheusRecorder) IncSessionCreated() {
	r.sessionsCreated.Inc()
}

// IncSessionExpired increments the sessions-expired counter.
func (r *PrometheusRecorder) IncSessionExpired() {
	r.sessionsExpired.Inc()
}

// IncCSRFRejected increments the CSRF rejection counter.
func (r *PrometheusRecorder) IncCSRFRejected() {
	r.csrfRejected.Inc()
}

// IncRateLimited increments the rate-limited counter.
func (r *PrometheusRecorder) IncRateLimited() {
	r.rateLimited.Inc()
}
