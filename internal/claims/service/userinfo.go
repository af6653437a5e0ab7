package service

import (
	"errors"
	"strings"

	"github.com/aussiebroadwan/docqa/internal/claims/domain"
	"github.com/aussiebroadwan/docqa/pkg/jwtx"
)

var (
	ErrMissingUserID   = errors.New("invalid token: missing user ID")
	ErrMissingFullName = errors.New("invalid token: missing full name")
	ErrMissingEmail    = errors.New("invalid token: missing email")
)

// ExtractUserInfo reads the caller's identity from verified access-token
// claims. user_name is optional in the token; it falls back to the email
// local part.
func ExtractUserInfo(c *jwtx.Claims) (domain.UserInfo, error) {
	info := domain.UserInfo{
		UserID:   firstNonEmpty(c.Subject, c.UID),
		FullName: firstNonEmpty(c.FullName, c.Name),
		Email:    c.Email,
		UserName: c.UserName,
	}

	if info.UserID == "" {
		return domain.UserInfo{}, ErrMissingUserID
	}
	if info.FullName == "" {
		return domain.UserInfo{}, ErrMissingFullName
	}
	if info.Email == "" {
		return domain.UserInfo{}, ErrMissingEmail
	}

	if info.UserName == "" {
		local, _, _ := strings.Cut(info.Email, "@")
		info.UserName = firstNonEmpty(local, fallbackUsername)
	}
	return info, nil
}
