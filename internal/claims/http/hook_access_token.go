package http

import (
	"encoding/json"
	"net/http"

	"github.com/aussiebroadwan/docqa/internal/claims/service"
	"github.com/aussiebroadwan/docqa/pkg/hooksdk"
	"github.com/aussiebroadwan/docqa/pkg/httpx"
	"github.com/aussiebroadwan/docqa/pkg/slogx"
	"github.com/aussiebroadwan/docqa/pkg/webhookx"
)

type AccessTokenHookHandler struct {
	ClaimsService *service.ClaimsService
}

// ServeHTTP godoc
//
//	@Summary		Custom Access Token Hook
//	@Description	Called by the identity provider before it signs an access token. Returns the allow-listed claims plus uid, full_name, name and user_name.
//	@Description	A profile without a username gets one allocated on the spot. Lookup failures leave user_name out instead of failing the sign in.
//	@Tags			Hooks
//	@Accept			json
//	@Produce		json
//	@Param			webhook-id			header		string							true	"Standard Webhooks message id"
//	@Param			webhook-timestamp	header		string							true	"Unix seconds"
//	@Param			webhook-signature	header		string							true	"v1,<base64 HMAC-SHA256>"
//	@Param			request				body		hooksdk.AccessTokenHookRequest	true	"user_id, claims, authentication_method"
//	@Success		200					{object}	hooksdk.AccessTokenHookResponse	"claims"
//	@Failure		400					{object}	hooksdk.HookError				"invalid payload"
//	@Failure		401					{object}	hooksdk.HookError				"invalid signature"
//	@Router			/v1/hooks/custom-access-token [post].
func (h *AccessTokenHookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req hooksdk.AccessTokenHookRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, webhookx.MaxBodyBytes))
	// Keep exp and iat as the provider sent them.
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		log.Warn("invalid access token hook payload", "err", err)
		hooksdk.ErrInvalidPayload.WriteError(w)
		return
	}
	if req.Claims == nil {
		log.Warn("access token hook payload without claims", "user_id", req.UserID)
		hooksdk.ErrInvalidPayload.WriteError(w)
		return
	}

	claims := h.ClaimsService.Enrich(ctx, req.Claims)

	httpx.WriteJSON(w, http.StatusOK, hooksdk.AccessTokenHookResponse{Claims: claims})
}
