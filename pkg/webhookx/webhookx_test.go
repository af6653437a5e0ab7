package webhookx_test

import (
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/docqa/pkg/idx"
	"github.com/aussiebroadwan/docqa/pkg/webhookx"
	"github.com/stretchr/testify/require"
)

var testSecret = "v1,whsec_" + base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))

func TestParseSecret(t *testing.T) {
	raw := base64.StdEncoding.EncodeToString([]byte("key"))

	for _, in := range []string{"v1,whsec_" + raw, "whsec_" + raw, raw} {
		key, err := webhookx.ParseSecret(in)
		require.NoError(t, err, in)
		require.Equal(t, []byte("key"), key)
	}

	for _, in := range []string{"", "v1,whsec_", "v1,whsec_!!!not-base64"} {
		_, err := webhookx.ParseSecret(in)
		require.ErrorIs(t, err, webhookx.ErrInvalidSecret, in)
	}
}

func TestVerify(t *testing.T) {
	v, err := webhookx.NewVerifier(testSecret)
	require.NoError(t, err)

	now := time.Unix(1_700_000_000, 0)
	v.Now = func() time.Time { return now }
	body := []byte(`{"user_id":"u1","claims":{}}`)

	signed := func(t *testing.T, ts time.Time, b []byte) http.Header {
		t.Helper()
		h := http.Header{}
		require.NoError(t, webhookx.SetHeaders(h, testSecret, "msg_"+idx.New().String(), ts, b))
		return h
	}

	t.Run("valid", func(t *testing.T) {
		require.NoError(t, v.Verify(signed(t, now, body), body))
	})

	t.Run("one of several signatures matches", func(t *testing.T) {
		h := signed(t, now, body)
		h.Set(webhookx.HeaderSignature, "v1,Zm9v "+h.Get(webhookx.HeaderSignature))
		require.NoError(t, v.Verify(h, body))
	})

	t.Run("tampered body", func(t *testing.T) {
		h := signed(t, now, body)
		require.ErrorIs(t, v.Verify(h, []byte(`{"user_id":"u2"}`)), webhookx.ErrNoMatch)
	})

	t.Run("signed with another secret", func(t *testing.T) {
		other := "v1,whsec_" + base64.StdEncoding.EncodeToString([]byte("another-secret-another-secret-32"))
		h := http.Header{}
		require.NoError(t, webhookx.SetHeaders(h, other, "msg_other", now, body))
		require.ErrorIs(t, v.Verify(h, body), webhookx.ErrNoMatch)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		h := signed(t, now, body)
		h.Set(webhookx.HeaderSignature, strings.Replace(h.Get(webhookx.HeaderSignature), "v1,", "v2,", 1))
		require.ErrorIs(t, v.Verify(h, body), webhookx.ErrNoMatch)
	})

	t.Run("missing headers", func(t *testing.T) {
		require.ErrorIs(t, v.Verify(http.Header{}, body), webhookx.ErrMissingHeaders)
	})

	t.Run("bad timestamp", func(t *testing.T) {
		h := signed(t, now, body)
		h.Set(webhookx.HeaderTimestamp, "yesterday")
		require.ErrorIs(t, v.Verify(h, body), webhookx.ErrInvalidTimestamp)
	})

	t.Run("stale", func(t *testing.T) {
		h := signed(t, now.Add(-10*time.Minute), body)
		require.ErrorIs(t, v.Verify(h, body), webhookx.ErrTimestampTooOld)
	})

	t.Run("future", func(t *testing.T) {
		h := signed(t, now.Add(10*time.Minute), body)
		require.ErrorIs(t, v.Verify(h, body), webhookx.ErrTimestampTooOld)
	})
}

func TestSign_Format(t *testing.T) {
	sig, err := webhookx.Sign(testSecret, "msg_1", time.Unix(1_700_000_000, 0), []byte(`{}`))
	require.NoError(t, err)

	scheme, encoded, ok := strings.Cut(sig, ",")
	require.True(t, ok)
	require.Equal(t, "v1", scheme)

	mac, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	require.Len(t, mac, 32)

	_, err = webhookx.Sign("not-a-secret!", "msg_1", time.Now(), nil)
	require.ErrorIs(t, err, webhookx.ErrInvalidSecret)
}

func TestMiddleware(t *testing.T) {
	v, err := webhookx.NewVerifier(testSecret)
	require.NoError(t, err)

	var got string
	h := webhookx.Middleware(v, func(w http.ResponseWriter, _ error) {
		w.WriteHeader(http.StatusUnauthorized)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got = string(b)
		w.WriteHeader(http.StatusOK)
	}))

	body := `{"user_id":"u1"}`

	t.Run("passes body through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		require.NoError(t, webhookx.SetHeaders(req.Header, testSecret, "msg_1", time.Now(), []byte(body)))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, body, got)
	})

	t.Run("rejects unsigned", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
