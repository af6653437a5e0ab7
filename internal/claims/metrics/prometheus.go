// Package metrics defines the Prometheus collectors for the claims service.
package metrics

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "docqa"

// Outcomes of the access-token hook's user_name resolution.
const (
	OutcomeCached    = "cached"
	OutcomeStored    = "stored"
	OutcomeAllocated = "allocated"
	OutcomeFailed    = "failed"
	OutcomeNoSubject = "no_subject"
)

// Results of profile provisioning.
const (
	ProvisionCreated    = "created"
	ProvisionExists     = "exists"
	ProvisionNoUsername = "no_username"
	ProvisionFailed     = "failed"
)

type Metrics struct {
	HookTotal          *prometheus.CounterVec
	HookDuration       prometheus.Histogram
	AllocationAttempts prometheus.Histogram
	AllocationFallback prometheus.Counter
	ProvisionTotal     *prometheus.CounterVec
	BackfillAssigned   prometheus.Counter
	BackfillFailures   prometheus.Counter
}

// New builds the collectors and registers them with reg. A nil reg leaves
// them unregistered, which is what tests want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HookTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claims_hook_total",
			Help:      "Access-token hook calls by user_name outcome.",
		}, []string{"outcome"}),
		HookDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "claims_hook_duration_seconds",
			Help:      "Time spent enriching claims.",
			Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		AllocationAttempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "username_allocation_attempts",
			Help:      "Candidates checked per username allocation.",
			Buckets:   []float64{1, 2, 3, 5, 10, 25, 50, 100},
		}),
		AllocationFallback: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "username_allocation_fallback_total",
			Help:      "Allocations that exhausted all candidates and used the timestamp suffix.",
		}),
		ProvisionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "profiles_provisioned_total",
			Help:      "User-created hook results.",
		}, []string{"result"}),
		BackfillAssigned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backfill_assigned_total",
			Help:      "Usernames assigned by the backfill worker.",
		}),
		BackfillFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backfill_failures_total",
			Help:      "Profiles the backfill worker could not assign.",
		}),
	}

	if reg == nil {
		return m
	}

	for _, c := range []prometheus.Collector{
		m.HookTotal,
		m.HookDuration,
		m.AllocationAttempts,
		m.AllocationFallback,
		m.ProvisionTotal,
		m.BackfillAssigned,
		m.BackfillFailures,
	} {
		if err := reg.Register(c); err != nil {
			slog.Warn("failed to register metric", "err", err)
		}
	}
	return m
}
