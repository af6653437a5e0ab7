package hooksdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/docqa/pkg/httpx"
)

// HookError is the error body understood by the identity provider's hook
// runner. A non-2xx answer with this body aborts the provider's operation
// and surfaces Message to the caller.
type HookError struct {
	HTTPCode int    `json:"http_code"`
	Message  string `json:"message"`
}

func (e *HookError) Error() string {
	return fmt.Sprintf("hook error %d: %s", e.HTTPCode, e.Message)
}

func (e *HookError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.HTTPCode)
	_ = json.NewEncoder(w).Encode(struct {
		Error *HookError `json:"error"`
	}{e})
}

var (
	ErrInvalidPayload = &HookError{
		HTTPCode: http.StatusBadRequest,
		Message:  "invalid hook payload",
	}

	ErrInvalidSignature = &HookError{
		HTTPCode: http.StatusUnauthorized,
		Message:  "invalid webhook signature",
	}

	ErrMethodNotAllowed = &HookError{
		HTTPCode: http.StatusMethodNotAllowed,
		Message:  "method not allowed",
	}
)

// BearerError mirrors the RFC 6750 body written for /v1/me failures.
type BearerError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *BearerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}
