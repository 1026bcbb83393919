package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/users/internal/users/metrics"
	"github.com/aussiebroadwan/users/internal/users/service"
	"github.com/aussiebroadwan/users/internal/users/store"
	"github.com/aussiebroadwan/users/pkg/httpx"
	"github.com/aussiebroadwan/users/pkg/jwtx"
	"github.com/aussiebroadwan/users/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/aussiebroadwan/users/api/users" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	UserService *service.UserService
	AuthService *service.AuthService

	// Metrics records per-route status and latency. Gatherer, when set,
	// is exposed on GET /metrics.
	Metrics  metrics.Recorder
	Gatherer prometheus.Gatherer

	LoginLimit httpx.RateLimitConfig
	APILimit   httpx.RateLimitConfig
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion, corsOrigin string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		LoginLimit:   httpx.LoginLimit,
		APILimit:     httpx.APILimit,
	}

	// Logging is outermost so recovered panics still carry the request id.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recover(),
		httpx.CORS(corsOrigin),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerUsers()
	r.registerLogin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Users Service API
//	@version		0.1.0
//	@description	User management with bcrypt password storage, password history, login lockout and HS256 access tokens.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/users
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// handle registers h under pattern with status metrics and the given
// route middleware.
func (r *Router) handle(pattern string, h http.Handler, mws ...httpx.Middleware) {
	mws = append([]httpx.Middleware{metrics.Middleware(r.Metrics, pattern)}, mws...)
	r.Mux.Handle(pattern, httpx.Chain(h, mws...))
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}
	api := httpx.RateLimitByIP(r.APILimit)

	r.handle("GET /users", http.HandlerFunc(h.HandleList), api)
	r.handle("POST /users", http.HandlerFunc(h.HandleCreate), api)
	r.handle("GET /users/{id}", http.HandlerFunc(h.HandleGet), api)
	r.handle("PUT /users/{id}", http.HandlerFunc(h.HandleUpdate), api)
	r.handle("PATCH /users/{id}", http.HandlerFunc(h.HandleUpdate), api)
	r.handle("DELETE /users/{id}", http.HandlerFunc(h.HandleDelete), api)

	// GET /users/me - bearer token required
	r.handle("GET /users/me", http.HandlerFunc(h.HandleMe),
		httpx.AuthnMiddleware(r.verifier),
		api,
	)
}

func (r *Router) registerLogin() {
	h := &LoginHandler{AuthService: r.AuthService}

	// Limited by IP + email in front of the per-account lockout
	r.handle("POST /users/login", h,
		httpx.RateLimitByIPAndJSONField(r.LoginLimit, "email"),
	)
}

func (r *Router) registerSystem() {
	health := httpx.RateLimitByIP(r.APILimit)
	r.Mux.Handle("GET /livez", httpx.Chain(LivezHandler(r.startTime, r.buildVersion), health))
	r.Mux.Handle("GET /readyz", httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store), health))

	if r.Gatherer != nil {
		r.Mux.Handle("GET /metrics", metrics.Handler(r.Gatherer))
	}
}
