package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/docqa/internal/claims/domain"
	"github.com/aussiebroadwan/docqa/internal/claims/store"
	"github.com/aussiebroadwan/docqa/internal/claims/store/drivers/postgres/gen"
)

type profilesRepo struct {
	q *gen.Queries
}

func (r *profilesRepo) GetProfile(ctx context.Context, id string) (domain.Profile, error) {
	row, err := r.q.GetProfile(ctx, id)
	if err != nil {
		return domain.Profile{}, mapNotFound(err)
	}
	return mapProfile(row), nil
}

func (r *profilesRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	taken, err := r.q.UsernameExists(ctx, sql.NullString{String: username, Valid: true})
	if err != nil {
		return false, err
	}
	return taken, nil
}

func (r *profilesRepo) CreateProfile(ctx context.Context, p domain.Profile) error {
	now := time.Now().UTC()
	err := r.q.CreateProfile(ctx, gen.CreateProfileParams{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Email:       p.Email,
		Username:    mapOptionalString(p.Username),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	return mapUnique(err)
}

func (r *profilesRepo) AssignUsername(ctx context.Context, p domain.Profile) error {
	now := time.Now().UTC()
	n, err := r.q.AssignUsername(ctx, gen.AssignUsernameParams{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Email:       p.Email,
		Username:    mapOptionalString(p.Username),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return mapUnique(err)
	}
	if n == 0 {
		return store.ErrUsernameSet
	}
	return nil
}

func (r *profilesRepo) ListProfilesMissingUsername(ctx context.Context, afterID string, limit int) ([]domain.Profile, error) {
	rows, err := r.q.ListProfilesMissingUsername(ctx, gen.ListProfilesMissingUsernameParams{
		AfterID: afterID,
		MaxRows: int32(limit),
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Profile, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapProfile(row))
	}
	return out, nil
}
