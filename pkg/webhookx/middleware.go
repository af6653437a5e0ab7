package webhookx

import (
	"bytes"
	"io"
	"net/http"

	"github.com/aussiebroadwan/docqa/pkg/slogx"
)

// MaxBodyBytes caps hook payloads. Token hooks carry a claims object and
// little else.
const MaxBodyBytes = 1 << 20

// Middleware rejects requests whose signature does not verify. The body is
// buffered and restored so handlers can decode it as usual. onReject writes
// the error response.
func Middleware(v *Verifier, onReject func(http.ResponseWriter, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
			if err != nil {
				log.Warn("webhook body read failed", "err", err)
				onReject(w, err)
				return
			}
			_ = r.Body.Close()

			if err := v.Verify(r.Header, body); err != nil {
				log.Warn("webhook signature rejected", "err", err)
				onReject(w, err)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}
