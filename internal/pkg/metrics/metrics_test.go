package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	require.NotNil(t, m.HTTPRequestsTotal)
	require.NotNil(t, m.AdmissionsTotal)
	require.NotNil(t, m.SlotLockDuration)
	require.NotNil(t, m.ActiveReservations)
	require.NotNil(t, m.CompletionsTotal)

	m.AdmissionsTotal.WithLabelValues("success").Inc()
	m.AdmissionsTotal.WithLabelValues("conflict").Add(2)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.AdmissionsTotal.WithLabelValues("success")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.AdmissionsTotal.WithLabelValues("conflict")))

	m.ActiveReservations.WithLabelValues("requested").Add(3)
	m.ActiveReservations.WithLabelValues("requested").Add(-1)
	assert.Equal(t, float64(2), testutil.ToFloat64(m.ActiveReservations.WithLabelValues("requested")))

	m.CompletionsTotal.Add(5)
	assert.Equal(t, float64(5), testutil.ToFloat64(m.CompletionsTotal))
}

func TestNewWithRegistry_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewWithRegistry(reg)

	assert.Panics(t, func() {
		NewWithRegistry(reg)
	})
}
