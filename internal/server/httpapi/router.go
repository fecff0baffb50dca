package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// RouterOptions configures the cross-cutting layers around the routes.
type RouterOptions struct {
	Limiter    Limiter
	Metrics    *Metrics
	CORSOrigin string
	// TrustProxy keys the rate limit on X-Forwarded-For.
	TrustProxy bool
}

// Routes builds the full handler chain. Outermost first: panic recovery,
// access log, security headers, CORS, rate limiting, then the router.
func (a *API) Routes(opts RouterOptions) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = methodNotAllowed()

	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
		r.Handle("/metrics", opts.Metrics.Handler()).Methods(http.MethodGet)
	}

	r.HandleFunc("/health", health).Methods(http.MethodGet)

	authed := func(h http.HandlerFunc) http.Handler { return a.Authenticate(h) }

	// Subrouters do not inherit the root's 405 handler.
	authRoutes := r.PathPrefix("/api/auth").Subrouter()
	authRoutes.MethodNotAllowedHandler = methodNotAllowed()
	authRoutes.HandleFunc("/register", a.register).Methods(http.MethodPost)
	authRoutes.HandleFunc("/login", a.login).Methods(http.MethodPost)
	authRoutes.Handle("/me", authed(a.me)).Methods(http.MethodGet)
	authRoutes.Handle("/profile", authed(a.updateProfile)).Methods(http.MethodPut)
	authRoutes.Handle("/profile/image", authed(a.profileImage)).Methods(http.MethodPost)

	bandRoutes := r.PathPrefix("/api/bands").Subrouter()
	bandRoutes.MethodNotAllowedHandler = methodNotAllowed()
	bandRoutes.Handle("", authed(a.createBand)).Methods(http.MethodPost)
	bandRoutes.Handle("/{bandId}/members", a.Authenticate(a.RequireBandMember(http.HandlerFunc(a.listMembers)))).Methods(http.MethodGet)
	bandRoutes.Handle("/{bandId}/members", a.Authenticate(a.RequireBandAdmin(http.HandlerFunc(a.addMember)))).Methods(http.MethodPost)

	var h http.Handler = r
	if opts.Limiter != nil {
		h = RateLimit(opts.Limiter, ClientKey(opts.TrustProxy), a.log)(h)
	}
	h = newCORS(opts.CORSOrigin).Handler(h)
	h = SecurityHeaders(h)
	h = a.AccessLog(h)
	return a.Recover(h)
}

func methodNotAllowed() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
}

func newCORS(origin string) *cors.Cors {
	if origin == "" {
		origin = "*"
	}
	return cors.New(cors.Options{
		AllowedOrigins: []string{origin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-Request-ID"},
	})
}
