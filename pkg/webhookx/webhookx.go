// Package webhookx verifies Standard Webhooks signatures, the scheme the
// identity provider uses to sign its auth hook requests. Signing and
// signature matching are delegated to the svix webhooks library.
package webhookx

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	svix "github.com/svix/svix-webhooks/go"
)

const (
	HeaderID        = "webhook-id"
	HeaderTimestamp = "webhook-timestamp"
	HeaderSignature = "webhook-signature"

	// DefaultTolerance bounds how far webhook-timestamp may drift from now.
	DefaultTolerance = 5 * time.Minute

	secretPrefix  = "whsec_"
	versionPrefix = "v1,"
)

var (
	ErrInvalidSecret    = errors.New("webhookx: invalid secret")
	ErrMissingHeaders   = errors.New("webhookx: missing webhook headers")
	ErrInvalidTimestamp = errors.New("webhookx: invalid timestamp")
	ErrTimestampTooOld  = errors.New("webhookx: timestamp outside tolerance")
	ErrNoMatch          = errors.New("webhookx: no matching signature")
)

// Verifier checks webhook signatures against a single shared secret.
type Verifier struct {
	wh        *svix.Webhook
	tolerance time.Duration

	// Now is used for timestamp checks. Defaults to time.Now.
	Now func() time.Time
}

// ParseSecret decodes a secret in the "v1,whsec_<base64>" form used by the
// identity provider. The "v1," and "whsec_" prefixes are optional.
func ParseSecret(secret string) ([]byte, error) {
	s := strings.TrimSpace(secret)
	s = strings.TrimPrefix(s, versionPrefix)
	s = strings.TrimPrefix(s, secretPrefix)
	if s == "" {
		return nil, ErrInvalidSecret
	}
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSecret, err)
	}
	if len(key) == 0 {
		return nil, ErrInvalidSecret
	}
	return key, nil
}

func newWebhook(secret string) (*svix.Webhook, error) {
	key, err := ParseSecret(secret)
	if err != nil {
		return nil, err
	}
	wh, err := svix.NewWebhook(secretPrefix + base64.StdEncoding.EncodeToString(key))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSecret, err)
	}
	return wh, nil
}

func NewVerifier(secret string) (*Verifier, error) {
	wh, err := newWebhook(secret)
	if err != nil {
		return nil, err
	}
	return &Verifier{wh: wh, tolerance: DefaultTolerance, Now: time.Now}, nil
}

// Verify checks the headers of a hook request against its raw body. The
// timestamp window is enforced here against Now; the signature list is
// matched by svix.
func (v *Verifier) Verify(h http.Header, body []byte) error {
	id := h.Get(HeaderID)
	ts := h.Get(HeaderTimestamp)
	sigs := h.Get(HeaderSignature)
	if id == "" || ts == "" || sigs == "" {
		return ErrMissingHeaders
	}

	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return ErrInvalidTimestamp
	}
	now := v.Now()
	sent := time.Unix(unix, 0)
	if now.Sub(sent) > v.tolerance || sent.Sub(now) > v.tolerance {
		return ErrTimestampTooOld
	}

	if err := v.wh.VerifyIgnoringTimestamp(body, h); err != nil {
		return fmt.Errorf("%w: %v", ErrNoMatch, err)
	}
	return nil
}

// Sign produces the webhook-signature header value for body. Used by tests
// and local tooling that replay hook requests.
func Sign(secret, id string, ts time.Time, body []byte) (string, error) {
	wh, err := newWebhook(secret)
	if err != nil {
		return "", err
	}
	return wh.Sign(id, ts, body)
}

// SetHeaders signs body and sets all three webhook headers on h.
func SetHeaders(h http.Header, secret, id string, ts time.Time, body []byte) error {
	sig, err := Sign(secret, id, ts, body)
	if err != nil {
		return err
	}
	h.Set(HeaderID, id)
	h.Set(HeaderTimestamp, strconv.FormatInt(ts.Unix(), 10))
	h.Set(HeaderSignature, sig)
	return nil
}
