package sqlite_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/aussiebroadwan/docqa/internal/claims/domain"
	"github.com/aussiebroadwan/docqa/internal/claims/store"
	"github.com/aussiebroadwan/docqa/internal/claims/store/drivers/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

func ptr(s string) *string { return &s }

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestProfiles_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	id := uuid.NewString()

	require.NoError(t, s.Profiles().CreateProfile(ctx, domain.Profile{
		ID:          id,
		DisplayName: "Jane Doe",
		Email:       "jane@example.com",
	}))

	p, err := s.Profiles().GetProfile(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", p.DisplayName)
	require.Equal(t, "jane@example.com", p.Email)
	require.Nil(t, p.Username)
	require.False(t, p.CreatedAt.IsZero())

	_, err = s.Profiles().GetProfile(ctx, uuid.NewString())
	require.ErrorIs(t, err, store.ErrNotFound)

	err = s.Profiles().CreateProfile(ctx, domain.Profile{ID: id})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestProfiles_UsernameUnique(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.Profiles().CreateProfile(ctx, domain.Profile{ID: uuid.NewString(), Username: ptr("alice")}))

	taken, err := s.Profiles().UsernameExists(ctx, "alice")
	require.NoError(t, err)
	require.True(t, taken)

	taken, err = s.Profiles().UsernameExists(ctx, "bob")
	require.NoError(t, err)
	require.False(t, taken)

	err = s.Profiles().CreateProfile(ctx, domain.Profile{ID: uuid.NewString(), Username: ptr("alice")})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	// Any number of profiles may lack a username.
	require.NoError(t, s.Profiles().CreateProfile(ctx, domain.Profile{ID: uuid.NewString()}))
	require.NoError(t, s.Profiles().CreateProfile(ctx, domain.Profile{ID: uuid.NewString()}))
}

func TestProfiles_AssignUsername(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	t.Run("fills a null username", func(t *testing.T) {
		id := uuid.NewString()
		require.NoError(t, s.Profiles().CreateProfile(ctx, domain.Profile{ID: id, DisplayName: "Bob"}))

		require.NoError(t, s.Profiles().AssignUsername(ctx, domain.Profile{ID: id, Username: ptr("bob")}))

		p, err := s.Profiles().GetProfile(ctx, id)
		require.NoError(t, err)
		require.Equal(t, "bob", p.UsernameOrEmpty())
		require.Equal(t, "Bob", p.DisplayName)
	})

	t.Run("creates a missing profile", func(t *testing.T) {
		id := uuid.NewString()
		require.NoError(t, s.Profiles().AssignUsername(ctx, domain.Profile{ID: id, Username: ptr("carol")}))

		p, err := s.Profiles().GetProfile(ctx, id)
		require.NoError(t, err)
		require.Equal(t, "carol", p.UsernameOrEmpty())
	})

	t.Run("never overwrites", func(t *testing.T) {
		id := uuid.NewString()
		require.NoError(t, s.Profiles().AssignUsername(ctx, domain.Profile{ID: id, Username: ptr("dave")}))

		err := s.Profiles().AssignUsername(ctx, domain.Profile{ID: id, Username: ptr("dave2")})
		require.ErrorIs(t, err, store.ErrUsernameSet)

		p, err := s.Profiles().GetProfile(ctx, id)
		require.NoError(t, err)
		require.Equal(t, "dave", p.UsernameOrEmpty())
	})

	t.Run("clash with another profile", func(t *testing.T) {
		id := uuid.NewString()
		require.NoError(t, s.Profiles().CreateProfile(ctx, domain.Profile{ID: id}))

		err := s.Profiles().AssignUsername(ctx, domain.Profile{ID: id, Username: ptr("bob")})
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		p, err := s.Profiles().GetProfile(ctx, id)
		require.NoError(t, err)
		require.Nil(t, p.Username)
	})
}

func TestProfiles_ListMissingUsername(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	missing := map[string]bool{}
	for range 3 {
		id := uuid.NewString()
		missing[id] = true
		require.NoError(t, s.Profiles().CreateProfile(ctx, domain.Profile{ID: id}))
	}
	require.NoError(t, s.Profiles().CreateProfile(ctx, domain.Profile{ID: uuid.NewString(), Username: ptr("erin")}))

	got, err := s.Profiles().ListProfilesMissingUsername(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, p := range got {
		require.True(t, missing[p.ID])
	}
	require.True(t, sort.SliceIsSorted(got, func(i, j int) bool { return got[i].ID < got[j].ID }))

	// Walking with the last id as the cursor visits every row once.
	first, err := s.Profiles().ListProfilesMissingUsername(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, first, 2)

	rest, err := s.Profiles().ListProfilesMissingUsername(ctx, first[1].ID, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	require.Equal(t, got[2].ID, rest[0].ID)

	tail, err := s.Profiles().ListProfilesMissingUsername(ctx, rest[0].ID, 2)
	require.NoError(t, err)
	require.Empty(t, tail)
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	id := uuid.NewString()

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Profiles().CreateProfile(ctx, domain.Profile{ID: id}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Profiles().GetProfile(ctx, id)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
		return tx.Profiles().CreateProfile(ctx, domain.Profile{ID: id})
	}))

	_, err = s.Profiles().GetProfile(ctx, id)
	require.NoError(t, err)
}
