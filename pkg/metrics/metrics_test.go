package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestFormMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New("test", reg)

	m.ObserveValidation("login", "email", "invalid")
	m.ObserveValidation("login", "email", "invalid")
	m.IncRejected("login", "gate_closed")
	m.SubmissionStarted("login")
	m.SubmissionFinished("login", "succeeded", 2*time.Second)

	require.Equal(t, 2.0, testutil.ToFloat64(m.validations.WithLabelValues("login", "email", "invalid")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.gateRejections.WithLabelValues("login", "gate_closed")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("login", "succeeded")))
	require.Equal(t, 0.0, testutil.ToFloat64(m.inFlight.WithLabelValues("login")))

	count, err := testutil.GatherAndCount(reg, "test_submission_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestNew_SharesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := New("test", reg)

	var second *FormMetrics
	require.NotPanics(t, func() { second = New("test", reg) })

	first.IncRejected("login", "in_flight")
	second.IncRejected("login", "in_flight")
	require.Equal(t, 2.0, testutil.ToFloat64(first.gateRejections.WithLabelValues("login", "in_flight")))
}

func TestFormMetrics_NilSafe(t *testing.T) {
	var m *FormMetrics
	m.ObserveValidation("f", "x", "valid")
	m.IncRejected("f", "r")
	m.SubmissionStarted("f")
	m.SubmissionFinished("f", "failed", time.Second)
}
