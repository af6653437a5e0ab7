package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/docqa/internal/claims/domain"
	"github.com/aussiebroadwan/docqa/internal/claims/metrics"
	"github.com/aussiebroadwan/docqa/internal/claims/store"
	"github.com/aussiebroadwan/docqa/internal/claims/store/cache"
	"github.com/aussiebroadwan/docqa/pkg/slogx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/aussiebroadwan/docqa/internal/claims/service")

// ProfileStore is the slice of the profile repository the token hook needs.
type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (domain.Profile, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	AssignUsername(ctx context.Context, p domain.Profile) error
}

type claimCopy struct {
	src []string
	dst string
}

// enrichedClaims lists every claim that survives into the issued token.
// Anything not listed here is dropped.
var enrichedClaims = []claimCopy{
	{src: []string{"sub"}, dst: "sub"},
	{src: []string{"aud"}, dst: "aud"},
	{src: []string{"exp"}, dst: "exp"},
	{src: []string{"iat"}, dst: "iat"},
	{src: []string{"email"}, dst: "email"},
	{src: []string{"phone"}, dst: "phone"},
	{src: []string{"role"}, dst: "role"},
	{src: []string{"aal"}, dst: "aal"},
	{src: []string{"session_id"}, dst: "session_id"},
	{src: []string{"is_anonymous"}, dst: "is_anonymous"},
	{src: []string{"user_metadata", "full_name"}, dst: "full_name"},
	{src: []string{"user_metadata", "name"}, dst: "name"},
	{src: []string{"sub"}, dst: "uid"},
}

const ClaimUserName = "user_name"

// ClaimsService rewrites the identity provider's claims before it signs an
// access token.
type ClaimsService struct {
	Profiles  ProfileStore
	Cache     cache.Usernames
	Allocator Allocator
	Metrics   *metrics.Metrics
	Tracer    trace.Tracer
}

func NewClaimsService(profiles ProfileStore, usernames cache.Usernames, m *metrics.Metrics) *ClaimsService {
	if usernames == nil {
		usernames = cache.Noop{}
	}
	if m == nil {
		m = metrics.New(nil)
	}
	return &ClaimsService{
		Profiles: profiles,
		Cache:    usernames,
		Metrics:  m,
		Tracer:   tracer,
	}
}

// Enrich returns a new claims map built from the allow-list plus user_name.
// It never fails: when the username cannot be resolved the claim is left out.
func (s *ClaimsService) Enrich(ctx context.Context, in map[string]any) map[string]any {
	tr := s.Tracer
	if tr == nil {
		tr = tracer
	}
	ctx, span := tr.Start(ctx, "claims.Enrich")
	defer span.End()
	start := time.Now()

	out := make(map[string]any, len(enrichedClaims)+1)
	for _, c := range enrichedClaims {
		if v, ok := lookup(in, c.src); ok {
			out[c.dst] = v
		}
	}

	sub, _ := in["sub"].(string)
	if sub == "" {
		s.observe(span, metrics.OutcomeNoSubject, start)
		return out
	}
	span.SetAttributes(attribute.String("user.id", sub))

	username, outcome, err := s.resolveUsername(ctx, sub, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "user_name unresolved")
		slogx.FromContext(ctx).Warn("omitting user_name claim",
			"user_id", sub,
			"err", err,
		)
	}
	if username != "" {
		out[ClaimUserName] = username
	}

	s.observe(span, outcome, start)
	return out
}

func (s *ClaimsService) observe(span trace.Span, outcome string, start time.Time) {
	span.SetAttributes(attribute.String("claims.user_name_outcome", outcome))
	s.Metrics.HookTotal.WithLabelValues(outcome).Inc()
	s.Metrics.HookDuration.Observe(time.Since(start).Seconds())
}

func (s *ClaimsService) resolveUsername(ctx context.Context, id string, in map[string]any) (string, string, error) {
	if name, ok := s.Cache.Get(ctx, id); ok {
		return name, metrics.OutcomeCached, nil
	}

	profile, err := s.Profiles.GetProfile(ctx, id)
	switch {
	case err == nil && profile.HasUsername():
		s.remember(ctx, id, *profile.Username)
		return *profile.Username, metrics.OutcomeStored, nil
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		profile = domain.Profile{ID: id}
	default:
		return "", metrics.OutcomeFailed, fmt.Errorf("get profile: %w", err)
	}

	displayName := firstNonEmpty(
		metaString(in, "name"),
		metaString(in, "full_name"),
		profile.DisplayName,
	)
	email, _ := in["email"].(string)
	email = firstNonEmpty(email, profile.Email)

	name, err := s.allocate(ctx, displayName, email)
	if err != nil {
		return "", metrics.OutcomeFailed, fmt.Errorf("allocate: %w", err)
	}

	if profile.DisplayName == "" {
		profile.DisplayName = displayName
	}
	if profile.Email == "" {
		profile.Email = email
	}
	profile.Username = &name

	err = s.Profiles.AssignUsername(ctx, profile)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrUsernameSet):
		// Another issuance for the same user won the race; use its result.
		winner, gerr := s.Profiles.GetProfile(ctx, id)
		if gerr != nil || !winner.HasUsername() {
			return "", metrics.OutcomeFailed, fmt.Errorf("assign username: %w", err)
		}
		name = *winner.Username
	default:
		return "", metrics.OutcomeFailed, fmt.Errorf("assign username %q: %w", name, err)
	}

	s.remember(ctx, id, name)
	return name, metrics.OutcomeAllocated, nil
}

// allocate runs the allocator against the profile store and records how many
// candidates it took.
func (s *ClaimsService) allocate(ctx context.Context, displayName, email string) (string, error) {
	return allocateWithMetrics(ctx, s.Allocator, s.Metrics, s.Profiles.UsernameExists, displayName, email)
}

func allocateWithMetrics(
	ctx context.Context,
	a Allocator,
	m *metrics.Metrics,
	exists func(context.Context, string) (bool, error),
	displayName, email string,
) (string, error) {
	checks := 0
	collisions := 0
	name, err := a.AllocateContext(ctx, displayName, email, func(ctx context.Context, candidate string) (bool, error) {
		checks++
		taken, err := exists(ctx, candidate)
		if taken {
			collisions++
		}
		return taken, err
	})
	if err != nil {
		return "", err
	}

	m.AllocationAttempts.Observe(float64(checks))
	if collisions == MaxAllocationAttempts {
		m.AllocationFallback.Inc()
	}
	return name, nil
}

func (s *ClaimsService) remember(ctx context.Context, id, username string) {
	if err := s.Cache.Set(ctx, id, username); err != nil {
		slogx.FromContext(ctx).Debug("username cache set failed", "user_id", id, "err", err)
	}
}

func lookup(m map[string]any, path []string) (any, bool) {
	var cur any = m
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = obj[key]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func metaString(claims map[string]any, key string) string {
	v, _ := lookup(claims, []string{"user_metadata", key})
	s, _ := v.(string)
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
