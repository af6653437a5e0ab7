// Package cache keeps identity -> username lookups off the database on the
// token hook's hot path. Usernames never change once assigned, so entries are
// only ever added and expire by TTL.
package cache

import (
	"context"
	"time"
)

// DefaultTTL bounds how long an entry lives when no TTL is configured.
const DefaultTTL = 15 * time.Minute

// Usernames caches the username assigned to a profile id.
type Usernames interface {
	// Get returns the cached username for id, if any.
	Get(ctx context.Context, id string) (string, bool)

	// Set caches username for id.
	Set(ctx context.Context, id, username string) error

	// Ping reports whether the backing cache is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// Noop never caches anything.
type Noop struct{}

func (Noop) Get(context.Context, string) (string, bool) { return "", false }
func (Noop) Set(context.Context, string, string) error  { return nil }
func (Noop) Ping(context.Context) error                 { return nil }
func (Noop) Close() error                               { return nil }
