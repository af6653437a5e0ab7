package domain

import "time"

// Profile is the application-side record of an identity provider user. ID is
// the provider's subject and never changes.
type Profile struct {
	ID          string
	DisplayName string
	Email       string
	Username    *string // unique when set, never overwritten once assigned
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p Profile) HasUsername() bool {
	return p.Username != nil && *p.Username != ""
}

// UsernameOrEmpty returns the assigned username or "".
func (p Profile) UsernameOrEmpty() string {
	if p.Username == nil {
		return ""
	}
	return *p.Username
}

// NewUser is what the identity provider tells us when an account is created.
type NewUser struct {
	ID           string
	Email        string
	UserMetadata map[string]any
}
