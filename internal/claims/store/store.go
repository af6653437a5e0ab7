package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/docqa/internal/claims/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrUsernameSet is returned when assigning a username to a profile that
	// already has one. Nothing is written.
	ErrUsernameSet = errors.New("store: username already set")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. Sub-repositories are exposed as methods so a Tx can hand out
// the same repos scoped to the transaction.
type Store interface {
	Profiles() Profiles

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Profiles interface {
	// GetProfile returns the profile for an identity provider subject.
	GetProfile(ctx context.Context, id string) (domain.Profile, error)

	// UsernameExists reports whether any profile holds username.
	UsernameExists(ctx context.Context, username string) (bool, error)

	// CreateProfile inserts a new profile. Username may be nil. A duplicate id
	// or username yields ErrAlreadyExists.
	CreateProfile(ctx context.Context, p domain.Profile) error

	// AssignUsername upserts the profile keyed by p.ID and sets its username
	// when currently null. An existing non-null username yields ErrUsernameSet
	// and a clash with another profile yields ErrAlreadyExists.
	AssignUsername(ctx context.Context, p domain.Profile) error

	// ListProfilesMissingUsername returns up to limit profiles whose username
	// is null and whose id sorts after afterID, in id order. An empty afterID
	// starts from the beginning.
	ListProfilesMissingUsername(ctx context.Context, afterID string, limit int) ([]domain.Profile, error)
}
