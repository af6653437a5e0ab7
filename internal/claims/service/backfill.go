package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/docqa/internal/claims/domain"
	"github.com/aussiebroadwan/docqa/internal/claims/metrics"
	"github.com/aussiebroadwan/docqa/internal/claims/store"
	"github.com/aussiebroadwan/docqa/internal/claims/store/cache"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultBackfillInterval  = 10 * time.Minute
	DefaultBackfillBatchSize = 100
)

// BackfillService periodically assigns usernames to profiles that were
// created without one.
type BackfillService struct {
	Profiles  store.Profiles
	Cache     cache.Usernames
	Allocator Allocator
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
	Interval  time.Duration
	BatchSize int

	// cursor is the last profile id listed by the previous pass. Each pass
	// resumes after it so profiles that keep failing cannot starve the rest.
	cursor string

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewBackfillService applies defaults for non-positive interval and batch size.
func NewBackfillService(
	profiles store.Profiles,
	usernames cache.Usernames,
	m *metrics.Metrics,
	logger *slog.Logger,
	interval time.Duration,
	batchSize int,
) *BackfillService {
	if interval <= 0 {
		interval = DefaultBackfillInterval
	}
	if batchSize <= 0 {
		batchSize = DefaultBackfillBatchSize
	}
	if usernames == nil {
		usernames = cache.Noop{}
	}
	if m == nil {
		m = metrics.New(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &BackfillService{
		Profiles:  profiles,
		Cache:     usernames,
		Metrics:   m,
		Logger:    logger,
		Interval:  interval,
		BatchSize: batchSize,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start runs the worker in the background. Call Stop to shut it down.
func (s *BackfillService) Start() {
	go s.run()
	s.Logger.Info("username backfill started", "interval", s.Interval, "batch_size", s.BatchSize)
}

// Stop cancels any in-progress pass and waits for the worker to exit.
func (s *BackfillService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("username backfill stopped")
}

func (s *BackfillService) run() {
	defer close(s.doneCh)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-s.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.pass(ctx)

	for {
		select {
		case <-ticker.C:
			s.pass(ctx)
		case <-s.stopCh:
			return
		}
	}
}

func (s *BackfillService) pass(ctx context.Context) {
	assigned, err := s.RunOnce(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.Logger.Error("username backfill pass failed", "error", err)
		return
	}
	if assigned > 0 {
		s.Logger.Info("username backfill pass completed", "assigned", assigned)
	}
}

// RunOnce processes a single batch and returns how many usernames it
// assigned. Per-profile failures are logged and skipped; the next call moves
// on to the following batch and wraps around once the end is reached. Not
// safe for concurrent use.
func (s *BackfillService) RunOnce(ctx context.Context) (int, error) {
	ctx, span := tracer.Start(ctx, "profiles.Backfill")
	defer span.End()

	pending, err := s.Profiles.ListProfilesMissingUsername(ctx, s.cursor, s.BatchSize)
	if err != nil {
		return 0, err
	}
	if len(pending) < s.BatchSize {
		s.cursor = ""
	} else {
		s.cursor = pending[len(pending)-1].ID
	}
	span.SetAttributes(attribute.Int("backfill.batch", len(pending)))

	assigned := 0
	for _, p := range pending {
		if err := ctx.Err(); err != nil {
			return assigned, err
		}

		name, err := allocateWithMetrics(ctx, s.Allocator, s.Metrics, s.Profiles.UsernameExists, p.DisplayName, p.Email)
		if err != nil {
			s.Metrics.BackfillFailures.Inc()
			s.Logger.Warn("backfill allocation failed", "user_id", p.ID, "error", err)
			continue
		}

		err = s.Profiles.AssignUsername(ctx, domain.Profile{
			ID:          p.ID,
			DisplayName: p.DisplayName,
			Email:       p.Email,
			Username:    &name,
		})
		switch {
		case err == nil:
			assigned++
			s.Metrics.BackfillAssigned.Inc()
			if err := s.Cache.Set(ctx, p.ID, name); err != nil {
				s.Logger.Debug("username cache set failed", "user_id", p.ID, "error", err)
			}
		case errors.Is(err, store.ErrUsernameSet):
			// Filled in by the token hook since the batch was listed.
		default:
			s.Metrics.BackfillFailures.Inc()
			s.Logger.Warn("backfill assign failed", "user_id", p.ID, "username", name, "error", err)
		}
	}

	return assigned, nil
}
