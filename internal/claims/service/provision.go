package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/docqa/internal/claims/domain"
	"github.com/aussiebroadwan/docqa/internal/claims/metrics"
	"github.com/aussiebroadwan/docqa/internal/claims/store"
	"github.com/aussiebroadwan/docqa/internal/claims/store/cache"
	"go.opentelemetry.io/otel/attribute"
)

var ErrNewUserMissingID = errors.New("new user has no id")

// ProvisionService creates the profile row when the identity provider
// reports a new account.
type ProvisionService struct {
	Store     store.Store
	Cache     cache.Usernames
	Allocator Allocator
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

func NewProvisionService(st store.Store, usernames cache.Usernames, m *metrics.Metrics, logger *slog.Logger) *ProvisionService {
	if usernames == nil {
		usernames = cache.Noop{}
	}
	if m == nil {
		m = metrics.New(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProvisionService{
		Store:   st,
		Cache:   usernames,
		Metrics: m,
		Logger:  logger,
	}
}

// Provision is idempotent: an existing profile is returned as is. When the
// username cannot be allocated or clashes, the profile is created without
// one and the token hook fills it in later.
//
// The lookup, collision checks and insert share one transaction.
func (s *ProvisionService) Provision(ctx context.Context, u domain.NewUser) (domain.Profile, error) {
	ctx, span := tracer.Start(ctx, "profiles.Provision")
	defer span.End()

	if u.ID == "" {
		return domain.Profile{}, ErrNewUserMissingID
	}
	span.SetAttributes(attribute.String("user.id", u.ID))

	p := domain.Profile{
		ID:          u.ID,
		DisplayName: firstNonEmpty(userMetaString(u.UserMetadata, "name"), userMetaString(u.UserMetadata, "full_name")),
		Email:       u.Email,
	}

	var (
		existing domain.Profile
		found    bool
	)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		profiles := tx.Profiles()

		cur, err := profiles.GetProfile(ctx, u.ID)
		switch {
		case err == nil:
			existing, found = cur, true
			return nil
		case !errors.Is(err, store.ErrNotFound):
			return fmt.Errorf("get profile: %w", err)
		}

		name, err := allocateWithMetrics(ctx, s.Allocator, s.Metrics, profiles.UsernameExists, p.DisplayName, p.Email)
		if err != nil {
			s.Logger.Warn("username allocation failed, provisioning without one", "user_id", u.ID, "err", err)
		} else {
			p.Username = &name
		}

		if err := profiles.CreateProfile(ctx, p); err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
		return nil
	})
	if err == nil && found {
		s.Metrics.ProvisionTotal.WithLabelValues(metrics.ProvisionExists).Inc()
		return existing, nil
	}

	profiles := s.Store.Profiles()
	if errors.Is(err, store.ErrAlreadyExists) {
		// Either a concurrent provision created the row or the username was
		// taken in between the check and the insert. The transaction has been
		// rolled back either way.
		if cur, gerr := profiles.GetProfile(ctx, u.ID); gerr == nil {
			s.Metrics.ProvisionTotal.WithLabelValues(metrics.ProvisionExists).Inc()
			return cur, nil
		}
		s.Logger.Warn("username taken during provisioning, retrying without one", "user_id", u.ID, "username", p.UsernameOrEmpty())
		p.Username = nil
		if err = profiles.CreateProfile(ctx, p); err != nil {
			err = fmt.Errorf("create profile: %w", err)
		}
	}
	if err != nil {
		s.Metrics.ProvisionTotal.WithLabelValues(metrics.ProvisionFailed).Inc()
		span.RecordError(err)
		return domain.Profile{}, err
	}

	if p.HasUsername() {
		s.Metrics.ProvisionTotal.WithLabelValues(metrics.ProvisionCreated).Inc()
		if err := s.Cache.Set(ctx, p.ID, *p.Username); err != nil {
			s.Logger.Debug("username cache set failed", "user_id", p.ID, "err", err)
		}
	} else {
		s.Metrics.ProvisionTotal.WithLabelValues(metrics.ProvisionNoUsername).Inc()
	}

	created, err := profiles.GetProfile(ctx, u.ID)
	if err != nil {
		return p, nil
	}
	return created, nil
}

func userMetaString(meta map[string]any, key string) string {
	s, _ := meta[key].(string)
	return s
}
