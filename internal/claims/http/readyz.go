package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/docqa/internal/claims/store"
	"github.com/aussiebroadwan/docqa/internal/claims/store/cache"
	"github.com/aussiebroadwan/docqa/pkg/hooksdk"
	"github.com/aussiebroadwan/docqa/pkg/httpx"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness check reporting the profile database and the username cache.
//	@Description	A broken cache only degrades the response; the hooks still work against the database.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	hooksdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	hooksdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	usernames cache.Usernames,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &hooksdk.HealthChecks{
			Database: "ok",
			Cache:    "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		// Check database connectivity
		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "unavailable"
			statusCode = http.StatusServiceUnavailable
		}

		if err := usernames.Ping(r.Context()); err != nil {
			checks.Cache = "error: " + err.Error()
			if statusCode == http.StatusOK {
				overallStatus = "degraded"
			}
		}

		httpx.WriteJSON(w, statusCode, hooksdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
