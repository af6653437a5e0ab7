package http

import (
	"encoding/json"
	"net/http"

	"github.com/aussiebroadwan/docqa/internal/claims/domain"
	"github.com/aussiebroadwan/docqa/internal/claims/service"
	"github.com/aussiebroadwan/docqa/pkg/hooksdk"
	"github.com/aussiebroadwan/docqa/pkg/httpx"
	"github.com/aussiebroadwan/docqa/pkg/slogx"
	"github.com/aussiebroadwan/docqa/pkg/webhookx"
	"github.com/google/uuid"
)

type UserCreatedHookHandler struct {
	ProvisionService *service.ProvisionService
}

// ServeHTTP godoc
//
//	@Summary		User Created Hook
//	@Description	Called by the identity provider after an account is created. Creates the profile row and allocates its username.
//	@Description	Always answers 200 for a correctly signed request so provisioning problems never block sign up.
//	@Tags			Hooks
//	@Accept			json
//	@Produce		json
//	@Param			webhook-id			header		string							true	"Standard Webhooks message id"
//	@Param			webhook-timestamp	header		string							true	"Unix seconds"
//	@Param			webhook-signature	header		string							true	"v1,<base64 HMAC-SHA256>"
//	@Param			request				body		hooksdk.UserCreatedHookRequest	true	"metadata, user"
//	@Success		200					{object}	object							"empty object"
//	@Failure		401					{object}	hooksdk.HookError				"invalid signature"
//	@Router			/v1/hooks/user-created [post].
func (h *UserCreatedHookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req hooksdk.UserCreatedHookRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, webhookx.MaxBodyBytes)).Decode(&req); err != nil {
		log.Warn("invalid user created hook payload", "err", err)
		httpx.WriteJSON(w, http.StatusOK, struct{}{})
		return
	}

	if _, err := uuid.Parse(req.User.ID); err != nil {
		log.Warn("user created hook with malformed user id", "user_id", req.User.ID, "err", err)
		httpx.WriteJSON(w, http.StatusOK, struct{}{})
		return
	}

	p, err := h.ProvisionService.Provision(ctx, domain.NewUser{
		ID:           req.User.ID,
		Email:        req.User.Email,
		UserMetadata: req.User.UserMetadata,
	})
	if err != nil {
		log.Error("failed to provision profile", "user_id", req.User.ID, "err", err)
	} else {
		log.Info("profile provisioned", "user_id", p.ID, "username", p.UsernameOrEmpty())
	}

	httpx.WriteJSON(w, http.StatusOK, struct{}{})
}
