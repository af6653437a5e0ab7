package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/docqa/internal/claims/service"
	"github.com/aussiebroadwan/docqa/pkg/hooksdk"
	"github.com/aussiebroadwan/docqa/pkg/httpx"
	"github.com/aussiebroadwan/docqa/pkg/slogx"
)

type MeHandler struct{}

// ServeHTTP returns the identity carried by the caller's access token.
//
//	@Summary		Get current user
//	@Description	Returns user_id, full_name, email and user_name from a verified access token. user_name falls back to the email local part.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	hooksdk.UserInfoResponse	"user_id, full_name, email, user_name"
//	@Failure		401	{object}	hooksdk.BearerError			"Invalid or incomplete access token"
//	@Failure		403	{object}	hooksdk.BearerError			"Token role is not authenticated"
//	@Router			/v1/me [get].
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	claims, ok := httpx.ClaimsFromContext(ctx)
	if !ok {
		writeBearerError(w, http.StatusUnauthorized, "missing claims")
		return
	}

	info, err := service.ExtractUserInfo(claims)
	if err != nil {
		log.Warn("incomplete access token", "sub", claims.Subject, "err", err)
		switch {
		case errors.Is(err, service.ErrMissingUserID):
			writeBearerError(w, http.StatusUnauthorized, "token has no user id")
		case errors.Is(err, service.ErrMissingFullName):
			writeBearerError(w, http.StatusUnauthorized, "token has no full name")
		case errors.Is(err, service.ErrMissingEmail):
			writeBearerError(w, http.StatusUnauthorized, "token has no email")
		default:
			writeBearerError(w, http.StatusUnauthorized, "invalid token")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, hooksdk.UserInfoResponse{
		UserID:   info.UserID,
		FullName: info.FullName,
		Email:    info.Email,
		UserName: info.UserName,
	})
}

func writeBearerError(w http.ResponseWriter, code int, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	httpx.WriteJSON(w, code, hooksdk.BearerError{
		Code:        "invalid_token",
		Description: desc,
	})
}
