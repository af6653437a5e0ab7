package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aussiebroadwan/docqa/internal/claims/domain"
	"github.com/aussiebroadwan/docqa/internal/claims/metrics"
	"github.com/aussiebroadwan/docqa/internal/claims/store"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestBackfill_RunOnce(t *testing.T) {
	f := newFakeProfiles(
		domain.Profile{ID: "a", DisplayName: "Ann Lee"},
		domain.Profile{ID: "b", Email: "ben@example.com"},
		domain.Profile{ID: "c", DisplayName: "Ann Lee"},
		domain.Profile{ID: "d", Username: strPtr("dee")},
	)
	s := NewBackfillService(f, nil, metrics.New(nil), discard, time.Hour, 10)

	n, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, n)

	require.Equal(t, "annlee", f.usernameOf("a"))
	require.Equal(t, "ben", f.usernameOf("b"))
	require.Equal(t, "annlee1", f.usernameOf("c"))
	require.Equal(t, "dee", f.usernameOf("d"))
	require.Equal(t, 3.0, testutil.ToFloat64(s.Metrics.BackfillAssigned))

	n, err = s.RunOnce(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestBackfill_BatchSize(t *testing.T) {
	var seed []domain.Profile
	for i := range 5 {
		seed = append(seed, domain.Profile{ID: fmt.Sprintf("u%d", i), DisplayName: fmt.Sprintf("User %d", i)})
	}
	f := newFakeProfiles(seed...)
	s := NewBackfillService(f, nil, nil, discard, time.Hour, 2)

	n, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestBackfill_SkipsFailures(t *testing.T) {
	f := newFakeProfiles(domain.Profile{ID: "a", DisplayName: "Ann"})
	f.assignErr = store.ErrAlreadyExists
	s := NewBackfillService(f, nil, metrics.New(nil), discard, time.Hour, 10)

	n, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
	require.Len(t, f.assigned, 1)
	require.Equal(t, 1.0, testutil.ToFloat64(s.Metrics.BackfillFailures))
}

func TestBackfill_FailingProfilesDoNotBlockLaterOnes(t *testing.T) {
	f := newFakeProfiles(
		domain.Profile{ID: "a", DisplayName: "Ann"},
		domain.Profile{ID: "b", DisplayName: "Bea"},
		domain.Profile{ID: "c", DisplayName: "Cal"},
	)
	f.assignErrFor["a"] = errors.New("constraint")
	f.assignErrFor["b"] = errors.New("constraint")
	s := NewBackfillService(f, nil, metrics.New(nil), discard, time.Hour, 2)

	n, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = s.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, "cal", f.usernameOf("c"))

	// Wrapped around: the failing profiles are retried.
	delete(f.assignErrFor, "a")
	n, err = s.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, "ann", f.usernameOf("a"))
	require.Equal(t, 3.0, testutil.ToFloat64(s.Metrics.BackfillFailures))
}

func TestBackfill_ListError(t *testing.T) {
	f := newFakeProfiles()
	f.listErr = errors.New("down")
	s := NewBackfillService(f, nil, nil, discard, time.Hour, 10)

	_, err := s.RunOnce(context.Background())
	require.Error(t, err)
}

func TestBackfill_StartStop(t *testing.T) {
	f := newFakeProfiles(domain.Profile{ID: "a", DisplayName: "Ann"})
	s := NewBackfillService(f, nil, nil, discard, time.Hour, 10)

	s.Start()
	require.Eventually(t, func() bool { return f.usernameOf("a") == "ann" }, time.Second, 10*time.Millisecond)
	s.Stop()
}

func TestBackfill_Defaults(t *testing.T) {
	s := NewBackfillService(newFakeProfiles(), nil, nil, nil, 0, 0)
	require.Equal(t, DefaultBackfillInterval, s.Interval)
	require.Equal(t, DefaultBackfillBatchSize, s.BatchSize)
}
