package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/registry/internal/registry/auth"
	"github.com/aussiebroadwan/registry/internal/registry/metrics"
	"github.com/aussiebroadwan/registry/internal/registry/service"
	"github.com/aussiebroadwan/registry/internal/registry/store"
	"github.com/aussiebroadwan/registry/pkg/httpx"
	"github.com/aussiebroadwan/registry/pkg/registrysdk"
	"github.com/aussiebroadwan/registry/pkg/slogx"

	_ "github.com/aussiebroadwan/registry/api/registry" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Limits groups the rate limit profile of each endpoint class. A zero
// profile disables limiting for that class.
type Limits struct {
	Bootstrap httpx.RateLimitConfig `yaml:"bootstrap" envPrefix:"BOOTSTRAP_"`
	Mutations httpx.RateLimitConfig `yaml:"mutations" envPrefix:"MUTATIONS_"`
	Reads     httpx.RateLimitConfig `yaml:"reads" envPrefix:"READS_"`
}

// DefaultLimits returns the stock profiles from httpx.
func DefaultLimits() Limits {
	return Limits{
		Bootstrap: httpx.StrictLimit,
		Mutations: httpx.ModerateLimit,
		Reads:     httpx.PublicLimit,
	}
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	instance     string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	limits       Limits

	store          store.Store
	Metrics        *metrics.Metrics
	AdminService   *service.AdminService
	ClientService  *service.ClientService
	BootstrapToken string // optional gate for POST /v1/admin
}

func NewRouter(
	instance, buildVersion string,
	st store.Store,
	limits Limits,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		instance:     instance,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		limits:       limits,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.HeaderToContext(registrysdk.ProofHeader, auth.WithProof),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAdmin()
	r.registerClients()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Client Registry API
//	@version		0.1.0
//	@description	Access-controlled registry of client records governed by a single admin identity.
//	@description
//	@description				Identities are Ed25519 public keys in unpadded base64url form. Mutations need an EdDSA proof signed by the admin key, bound to the operation and its arguments.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/registry
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	RegistryProof
//	@in							header
//	@name						X-Registry-Proof
//	@description				Compact EdDSA JWS signed by the admin key. Claims: sub, aud, inv, iat, exp, jti.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{
		AdminService:   r.AdminService,
		BootstrapToken: r.BootstrapToken,
	}

	// POST /v1/admin - very strict rate limit by IP (one-time setup endpoint)
	r.Mux.Handle("POST /v1/admin",
		httpx.Chain(http.HandlerFunc(h.HandleBootstrap),
			httpx.RateLimitByIP(r.limits.Bootstrap),
		),
	)
	r.Mux.Handle("GET /v1/admin",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(r.limits.Reads),
		),
	)
}

func (r *Router) registerClients() {
	h := &ClientsHandler{ClientService: r.ClientService}

	// Mutations are limited per IP and per target client
	mutation := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.RateLimitByIPAndPathValue(r.limits.Mutations, "identity"),
		)
	}
	read := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn, httpx.RateLimitByIP(r.limits.Reads))
	}

	r.Mux.Handle("PUT /v1/clients/{identity}", mutation(h.HandleAdd))
	r.Mux.Handle("PATCH /v1/clients/{identity}", mutation(h.HandleUpdate))
	r.Mux.Handle("DELETE /v1/clients/{identity}", mutation(h.HandleRemove))
	r.Mux.Handle("GET /v1/clients/{identity}", read(h.HandleGet))
	r.Mux.Handle("GET /v1/clients", read(h.HandleList))
}

func (r *Router) registerSystem() {
	// Health check endpoints - monitoring systems may poll frequently
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion, r.instance),
			httpx.RateLimitByIP(r.limits.Reads),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.instance, r.store),
			httpx.RateLimitByIP(r.limits.Reads),
		),
	)

	if r.Metrics != nil {
		r.Mux.Handle("GET /metrics", r.Metrics.Handler())
	}
}
