package metrics_test

import (
	"testing"

	"github.com/aussiebroadwan/docqa/internal/claims/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNew_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.HookTotal.WithLabelValues(metrics.OutcomeAllocated).Inc()
	m.BackfillAssigned.Add(3)

	require.Equal(t, 1.0, testutil.ToFloat64(m.HookTotal.WithLabelValues(metrics.OutcomeAllocated)))
	require.Equal(t, 3.0, testutil.ToFloat64(m.BackfillAssigned))

	n, err := testutil.GatherAndCount(reg, "docqa_claims_hook_total", "docqa_backfill_assigned_total")
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestNew_NilRegistry(t *testing.T) {
	m := metrics.New(nil)
	m.ProvisionTotal.WithLabelValues(metrics.ProvisionCreated).Inc()
	require.Equal(t, 1.0, testutil.ToFloat64(m.ProvisionTotal.WithLabelValues(metrics.ProvisionCreated)))
}
