// Package metrics exposes Prometheus instruments for form validation and
// submission. All methods are nil-safe so components can run without metrics.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// FormMetrics groups the instruments recorded by the form and submit packages.
type FormMetrics struct {
	validations    *prometheus.CounterVec
	gateRejections *prometheus.CounterVec
	submissions    *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	inFlight       *prometheus.GaugeVec
}

// New registers the instruments on reg under namespace. A nil reg falls back
// to prometheus.DefaultRegisterer. Calling New twice on one registry shares the
// instruments registered first.
func New(namespace string, reg prometheus.Registerer) *FormMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "authform"
	}

	m := &FormMetrics{
		validations: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "field_validations_total",
			Help:      "Field validation outcomes by form, field and state.",
		}, []string{"form", "field", "state"})),
		gateRejections: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submit_rejected_total",
			Help:      "Submit attempts rejected before reaching the backend.",
		}, []string{"form", "reason"})),
		submissions: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Completed submissions by outcome.",
		}, []string{"form", "outcome"})),
		duration: register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submission_duration_seconds",
			Help:      "Time spent in the submitting state.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 3, 5, 10},
		}, []string{"form"})),
		inFlight: register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "submissions_in_flight",
			Help:      "Submissions currently in the submitting state.",
		}, []string{"form"})),
	}
	return m
}

// register adds c to reg, or returns the collector already registered under
// the same descriptor. Any other registration error panics like MustRegister.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var dup prometheus.AlreadyRegisteredError
		if errors.As(err, &dup) {
			if existing, ok := dup.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// ObserveValidation counts one field validation.
func (m *FormMetrics) ObserveValidation(form, field, state string) {
	if m == nil {
		return
	}
	m.validations.WithLabelValues(form, field, state).Inc()
}

// IncRejected counts a submit that never reached the backend.
func (m *FormMetrics) IncRejected(form, reason string) {
	if m == nil {
		return
	}
	m.gateRejections.WithLabelValues(form, reason).Inc()
}

// SubmissionStarted marks a submission as in flight.
func (m *FormMetrics) SubmissionStarted(form string) {
	if m == nil {
		return
	}
	m.inFlight.WithLabelValues(form).Inc()
}

// SubmissionFinished records the outcome and elapsed time of a submission.
func (m *FormMetrics) SubmissionFinished(form, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.inFlight.WithLabelValues(form).Dec()
	m.submissions.WithLabelValues(form, outcome).Inc()
	m.duration.WithLabelValues(form).Observe(elapsed.Seconds())
}
