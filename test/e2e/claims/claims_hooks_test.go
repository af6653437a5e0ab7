package claims_test

import (
	"bytes"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/aussiebroadwan/docqa/pkg/hooksdk"
	"github.com/aussiebroadwan/docqa/pkg/webhookx"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9]{3,26}$`)

// TestAccessTokenHookAddsUsername verifies a first sign in allocates a
// username and later sign ins reuse it.
func TestAccessTokenHookAddsUsername(t *testing.T) {
	baseURL, cleanup := setupClaimsContainer(t, nil)
	defer cleanup()

	client := hooksdk.NewClient(baseURL, hookSecret)
	sub := uuid.NewString()

	_, first := issueToken(t, client, sub, "grace.hopper@example.com", "Grace Hopper")
	require.Equal(t, "gracehopper", first["user_name"])
	require.Equal(t, sub, first["uid"])
	require.Equal(t, "Grace Hopper", first["full_name"])
	require.NotContains(t, first, "app_metadata")
	require.NotContains(t, first, "user_metadata")
	require.NotContains(t, first, "amr")

	// Changing the display name later does not rename the user.
	_, second := issueToken(t, client, sub, "grace.hopper@example.com", "Rear Admiral Hopper")
	require.Equal(t, "gracehopper", second["user_name"])
}

// TestAccessTokenHookSuffixesCollisions verifies users with the same name get
// distinct usernames.
func TestAccessTokenHookSuffixesCollisions(t *testing.T) {
	baseURL, cleanup := setupClaimsContainer(t, nil)
	defer cleanup()

	client := hooksdk.NewClient(baseURL, hookSecret)

	seen := map[string]bool{}
	for i := range 5 {
		_, claims := issueToken(t, client, uuid.NewString(), "sam@example.com", "Sam")
		name, _ := claims["user_name"].(string)
		require.Regexp(t, usernamePattern, name)
		require.False(t, seen[name], "username %q handed out twice", name)
		seen[name] = true

		if i == 0 {
			require.Equal(t, "sam", name)
		}
	}
	require.True(t, seen["sam1"])
	require.True(t, seen["sam4"])
}

// TestAccessTokenHookShortNameUsesEmail verifies short display names are
// padded from the email local part.
func TestAccessTokenHookShortNameUsesEmail(t *testing.T) {
	baseURL, cleanup := setupClaimsContainer(t, nil)
	defer cleanup()

	client := hooksdk.NewClient(baseURL, hookSecret)

	_, claims := issueToken(t, client, uuid.NewString(), "jo.smith@example.com", "Jo")
	require.Equal(t, "jojosmith", claims["user_name"])
}

// TestAccessTokenHookRejectsBadSignature verifies unsigned and wrongly signed
// hook calls are refused.
func TestAccessTokenHookRejectsBadSignature(t *testing.T) {
	baseURL, cleanup := setupClaimsContainer(t, nil)
	defer cleanup()

	wrong := hooksdk.NewClient(baseURL, "v1,whsec_"+"c29tZS1vdGhlci1zZWNyZXQtdGhhdC1pcy13cm9uZw==")
	_, err := wrong.CustomAccessToken(t.Context(), hooksdk.AccessTokenHookRequest{
		UserID: uuid.NewString(),
		Claims: providerClaims(uuid.NewString(), "x@example.com", "X"),
	})
	assertHookStatus(t, err, http.StatusUnauthorized)

	// A valid signature from outside the tolerance window is a replay.
	body := []byte(`{"user_id":"u","claims":{"sub":"u"}}`)
	req, err := http.NewRequestWithContext(t.Context(), http.MethodPost,
		baseURL+"/v1/hooks/custom-access-token", bytes.NewReader(body))
	require.NoError(t, err)
	require.NoError(t, webhookx.SetHeaders(req.Header, hookSecret, "msg_replay", time.Now().Add(-time.Hour), body))

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// TestUserCreatedHookProvisionsProfile verifies the username is allocated at
// sign up and picked up by the token hook.
func TestUserCreatedHookProvisionsProfile(t *testing.T) {
	baseURL, cleanup := setupClaimsContainer(t, nil)
	defer cleanup()

	client := hooksdk.NewClient(baseURL, hookSecret)
	sub := uuid.NewString()

	err := client.UserCreated(t.Context(), hooksdk.UserCreatedHookRequest{
		Metadata: hooksdk.HookMetadata{Name: "user-created", UUID: uuid.NewString()},
		User: hooksdk.HookUser{
			ID:           sub,
			Email:        "linus@example.com",
			UserMetadata: map[string]any{"full_name": "Linus Torvalds"},
		},
	})
	require.NoError(t, err)

	_, claims := issueToken(t, client, sub, "linus@example.com", "Someone Else")
	require.Equal(t, "linustorvalds", claims["user_name"])
}
