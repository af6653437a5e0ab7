package hooksdk_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/docqa/pkg/hooksdk"
	"github.com/aussiebroadwan/docqa/pkg/webhookx"
	"github.com/stretchr/testify/require"
)

var secret = "v1,whsec_" + base64.StdEncoding.EncodeToString([]byte("client-test-secret"))

func TestClient_CustomAccessTokenIsSigned(t *testing.T) {
	v, err := webhookx.NewVerifier(secret)
	require.NoError(t, err)

	srv := httptest.NewServer(webhookx.Middleware(v, func(w http.ResponseWriter, _ error) {
		hooksdk.ErrInvalidSignature.WriteError(w)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req hooksdk.AccessTokenHookRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		req.Claims["user_name"] = "alice"
		_ = json.NewEncoder(w).Encode(hooksdk.AccessTokenHookResponse{Claims: req.Claims})
	})))
	defer srv.Close()

	claims, err := hooksdk.NewClient(srv.URL, secret).CustomAccessToken(context.Background(), hooksdk.AccessTokenHookRequest{
		UserID: "u1",
		Claims: map[string]any{"sub": "u1"},
	})
	require.NoError(t, err)
	require.Equal(t, "alice", claims["user_name"])

	other := "v1,whsec_" + base64.StdEncoding.EncodeToString([]byte("wrong"))
	_, err = hooksdk.NewClient(srv.URL, other).CustomAccessToken(context.Background(), hooksdk.AccessTokenHookRequest{
		UserID: "u1",
		Claims: map[string]any{},
	})
	var hookErr *hooksdk.HookError
	require.True(t, errors.As(err, &hookErr))
	require.Equal(t, http.StatusUnauthorized, hookErr.HTTPCode)
}

func TestHookError_WriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	hooksdk.ErrInvalidPayload.WriteError(rec)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.JSONEq(t, `{"error":{"http_code":400,"message":"invalid hook payload"}}`, rec.Body.String())
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}
