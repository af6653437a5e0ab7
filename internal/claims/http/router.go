package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/docqa/internal/claims/service"
	"github.com/aussiebroadwan/docqa/internal/claims/store"
	"github.com/aussiebroadwan/docqa/internal/claims/store/cache"
	"github.com/aussiebroadwan/docqa/pkg/hooksdk"
	"github.com/aussiebroadwan/docqa/pkg/httpx"
	"github.com/aussiebroadwan/docqa/pkg/jwtx"
	"github.com/aussiebroadwan/docqa/pkg/slogx"
	"github.com/aussiebroadwan/docqa/pkg/webhookx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/aussiebroadwan/docqa/api/claims" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	hooks        *webhookx.Verifier
	verifier     jwtx.Verifier // Optional: /v1/me is only served when set
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store     store.Store
	usernames cache.Usernames
	gatherer  prometheus.Gatherer

	ClaimsService    *service.ClaimsService
	ProvisionService *service.ProvisionService
}

func NewRouter(
	hooks *webhookx.Verifier,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	usernames cache.Usernames,
	gatherer prometheus.Gatherer,
	logger *slog.Logger,
) *Router {
	if usernames == nil {
		usernames = cache.Noop{}
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := &Router{
		Mux:          http.NewServeMux(),
		hooks:        hooks,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		usernames:    usernames,
		gatherer:     gatherer,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerHooks()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			DocQA Claims Service API
//	@version		0.1.0
//	@description	Identity provider auth hooks for the DocQA backend. The custom access-token hook adds a stable, unique user_name claim to every access token.
//	@description
//	@description				Hook endpoints are signed with Standard Webhooks (webhook-id, webhook-timestamp, webhook-signature).
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/docqa
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Access token issued by the identity provider. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerHooks() {
	signed := webhookx.Middleware(r.hooks, func(w http.ResponseWriter, _ error) {
		hooksdk.ErrInvalidSignature.WriteError(w)
	})

	// POST /v1/hooks/custom-access-token - called on every token issue and refresh
	accessToken := &AccessTokenHookHandler{ClaimsService: r.ClaimsService}
	r.Mux.Handle("POST /v1/hooks/custom-access-token",
		httpx.Chain(accessToken,
			httpx.RateLimitByIP(httpx.HookLimit),
			signed,
		),
	)

	// POST /v1/hooks/user-created - never blocks sign up
	userCreated := &UserCreatedHookHandler{ProvisionService: r.ProvisionService}
	r.Mux.Handle("POST /v1/hooks/user-created",
		httpx.Chain(userCreated,
			httpx.RateLimitByIP(httpx.HookLimit),
			signed,
		),
	)
}

func (r *Router) registerUsers() {
	if r.verifier == nil {
		r.logger.Info("no JWT secret configured, /v1/me disabled")
		return
	}

	// Authenticated endpoint - rate limited by user
	secured := httpx.Chain(&MeHandler{},
		httpx.AuthnMiddleware(r.verifier), // verify JWT (sig/aud/exp)
		httpx.RequireRole("authenticated"),
		httpx.RateLimitByUser(httpx.UserLimit),
	)

	r.Mux.Handle("GET /v1/me", secured)
}

func (r *Router) registerSystem() {
	// Health check endpoints - monitoring systems may poll frequently
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.usernames),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /metrics",
		promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{}),
	)
}
