package service

import (
	"context"
	"strconv"
	"strings"
	"time"
)

const (
	// MaxUsernameLen caps the base before any numeric suffix is appended.
	MaxUsernameLen = 20

	// MaxAllocationAttempts is the number of candidates checked (base, base1
	// ... base99) before falling back to a timestamp suffix.
	MaxAllocationAttempts = 100

	minUsernameLen   = 3
	emailFillLen     = 10
	fallbackUsername = "user"
	fallbackModulus  = 1_000_000
)

// CheckFunc reports whether candidate is already taken.
type CheckFunc func(ctx context.Context, candidate string) (bool, error)

// Allocator derives usernames from a display name and email. The zero value
// is ready to use.
type Allocator struct {
	// Now drives the timestamp fallback. Defaults to time.Now.
	Now func() time.Time
}

func (a Allocator) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// Allocate returns the first free candidate according to exists. It never
// fails; when every candidate collides the result carries a timestamp suffix
// that is not checked again.
func Allocate(displayName, email string, exists func(string) bool) string {
	name, _ := Allocator{}.AllocateContext(context.Background(), displayName, email,
		func(_ context.Context, candidate string) (bool, error) {
			return exists(candidate), nil
		})
	return name
}

// AllocateContext is Allocate with a fallible collision check. The first
// check error or context cancellation aborts allocation.
func (a Allocator) AllocateContext(ctx context.Context, displayName, email string, check CheckFunc) (string, error) {
	base := UsernameBase(displayName, email)

	candidate := base
	for attempt := 0; attempt < MaxAllocationAttempts; {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		taken, err := check(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		attempt++
		candidate = base + strconv.Itoa(attempt)
	}

	return base + strconv.FormatInt(a.now().Unix()%fallbackModulus, 10), nil
}

// UsernameBase normalizes the inputs into the unsuffixed candidate: ASCII
// alphanumerics of the display name, topped up from the email local part,
// then "user", capped at MaxUsernameLen.
func UsernameBase(displayName, email string) string {
	base := alnumLower(displayName)

	if len(base) < minUsernameLen {
		local, _, _ := strings.Cut(email, "@")
		if room := emailFillLen - len(base); room > 0 {
			fill := alnumLower(local)
			if len(fill) > room {
				fill = fill[:room]
			}
			base += fill
		}
	}

	if len(base) < minUsernameLen {
		base += fallbackUsername
	}

	if len(base) > MaxUsernameLen {
		base = base[:MaxUsernameLen]
	}
	return base
}

func alnumLower(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + ('a' - 'A'))
		}
	}
	return b.String()
}
