package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/collab/internal/collab/blob"
	"github.com/aussiebroadwan/collab/internal/collab/service"
	"github.com/aussiebroadwan/collab/internal/collab/store"
	"github.com/aussiebroadwan/collab/pkg/httpx"
	"github.com/aussiebroadwan/collab/pkg/jwtx"
	"github.com/aussiebroadwan/collab/pkg/slogx"
	"github.com/aussiebroadwan/collab/pkg/tracex"

	_ "github.com/aussiebroadwan/collab/api/collab" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	limits       httpx.RateLimitProfiles
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store
	blobs blob.Store

	UserService     *service.UserService
	TokenService    *service.TokenService
	ProjectService  *service.ProjectService
	InviteService   *service.InviteService
	DocumentService *service.DocumentService

	// MaxUploadBytes caps multipart document uploads. Zero means
	// DefaultMaxUploadBytes.
	MaxUploadBytes int64
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	blobs blob.Store,
	limits httpx.RateLimitProfiles,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		limits:       limits,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		blobs:        blobs,
		logger:       logger,
	}

	// tracex sits directly on the mux so it can read the matched pattern.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recoverer,
		tracex.HTTPMiddleware,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccounts()
	r.registerProjects()
	r.registerInvitations()
	r.registerDocuments()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Collab API
//	@version		0.1.0
//	@description	Projects, memberships, email-bound invitations and shared documents.
//	@description
//	@description				Access tokens are EdDSA-signed JWTs and can be verified using the JWKS endpoint.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/collab
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
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// secured is the chain every authenticated route shares.
func (r *Router) secured(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier), // verify JWT (iss/aud/exp)
		httpx.RateLimitByUser(limit),
		LoadUser(r.UserService), // fresh user row for email matching
	)
}

func (r *Router) registerAccounts() {
	h := &AuthHandler{
		UserService:  r.UserService,
		TokenService: r.TokenService,
	}

	// Credential endpoints - strict rate limit by IP
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(r.limits.Strict),
		),
	)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(r.limits.Strict),
		),
	)

	r.Mux.Handle("GET /v1/users/me", r.secured(h.HandleMe, r.limits.Lenient))
}

func (r *Router) registerProjects() {
	h := &ProjectsHandler{ProjectService: r.ProjectService}

	r.Mux.Handle("POST /v1/projects", r.secured(h.HandleCreate, r.limits.Lenient))
	r.Mux.Handle("GET /v1/projects", r.secured(h.HandleList, r.limits.Lenient))
	r.Mux.Handle("GET /v1/projects/{id}", r.secured(h.HandleGet, r.limits.Lenient))
	r.Mux.Handle("PATCH /v1/projects/{id}", r.secured(h.HandleUpdate, r.limits.Lenient))
	r.Mux.Handle("DELETE /v1/projects/{id}", r.secured(h.HandleDelete, r.limits.Lenient))

	r.Mux.Handle("GET /v1/projects/{id}/members", r.secured(h.HandleListMembers, r.limits.Lenient))
	r.Mux.Handle("POST /v1/projects/{id}/members", r.secured(h.HandleAddMember, r.limits.Moderate))
}

func (r *Router) registerInvitations() {
	h := &InvitationsHandler{InviteService: r.InviteService}

	// Sharing sends email - moderate rate limit by user
	r.Mux.Handle("POST /v1/projects/{id}/share", r.secured(h.HandleShare, r.limits.Moderate))

	// Redeeming guesses tokens if abused - strict rate limit by user
	r.Mux.Handle("POST /v1/join", r.secured(h.HandleJoin, r.limits.Strict))
	r.Mux.Handle("GET /v1/invitations", r.secured(h.HandleListPending, r.limits.Lenient))
}

func (r *Router) registerDocuments() {
	h := &DocumentsHandler{
		DocumentService: r.DocumentService,
		MaxUploadBytes:  r.MaxUploadBytes,
	}

	r.Mux.Handle("GET /v1/projects/{id}/documents", r.secured(h.HandleList, r.limits.Lenient))
	r.Mux.Handle("POST /v1/projects/{id}/documents", r.secured(h.HandleUpload, r.limits.Moderate))

	r.Mux.Handle("GET /v1/documents/{id}", r.secured(h.HandleDownload, r.limits.Lenient))
	r.Mux.Handle("PUT /v1/documents/{id}", r.secured(h.HandleReplace, r.limits.Moderate))
	r.Mux.Handle("DELETE /v1/documents/{id}", r.secured(h.HandleDelete, r.limits.Lenient))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.limits.Lenient),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.blobs, r.keys),
			httpx.RateLimitByIP(r.limits.Lenient),
		),
	)

	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(r.limits.Lenient),
		),
	)
}
