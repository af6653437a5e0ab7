package service

import (
	"testing"

	"github.com/aussiebroadwan/docqa/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestExtractUserInfo(t *testing.T) {
	t.Run("all fields", func(t *testing.T) {
		info, err := ExtractUserInfo(&jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"},
			FullName:         "Jane Doe",
			Email:            "jane@example.com",
			UserName:         "janedoe",
		})
		require.NoError(t, err)
		require.Equal(t, "u1", info.UserID)
		require.Equal(t, "Jane Doe", info.FullName)
		require.Equal(t, "jane@example.com", info.Email)
		require.Equal(t, "janedoe", info.UserName)
	})

	t.Run("uid and name fallbacks", func(t *testing.T) {
		info, err := ExtractUserInfo(&jwtx.Claims{
			UID:   "u2",
			Name:  "JD",
			Email: "jd@example.com",
		})
		require.NoError(t, err)
		require.Equal(t, "u2", info.UserID)
		require.Equal(t, "JD", info.FullName)
		require.Equal(t, "jd", info.UserName)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := ExtractUserInfo(&jwtx.Claims{FullName: "x", Email: "x@y"})
		require.ErrorIs(t, err, ErrMissingUserID)

		_, err = ExtractUserInfo(&jwtx.Claims{UID: "u", Email: "x@y"})
		require.ErrorIs(t, err, ErrMissingFullName)

		_, err = ExtractUserInfo(&jwtx.Claims{UID: "u", Name: "x"})
		require.ErrorIs(t, err, ErrMissingEmail)
	})
}
