package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/milboard/milboard/internal/attempt"
	"github.com/milboard/milboard/internal/auth"
	"github.com/milboard/milboard/internal/catalog"
	"github.com/milboard/milboard/internal/config"
	"github.com/milboard/milboard/internal/dashboard"
	"github.com/milboard/milboard/internal/leaderboard"
	"github.com/milboard/milboard/internal/learning"
	"github.com/milboard/milboard/internal/results"
	"github.com/milboard/milboard/internal/scan"
	httperrors "github.com/milboard/milboard/pkg/http/errors"
)

// Check probes one upstream dependency for /v1/ping.
type Check func(ctx context.Context) error

// Routes holds the handlers mounted by the router. Nil groups are skipped.
type Routes struct {
	Tokens      auth.TokenValidator
	AuthLimiter *RateLimiter

	Auth        *auth.HTTPHandlers
	Catalog     *catalog.HTTPHandler
	Learning    *learning.HTTPHandler
	Results     *results.HTTPHandler
	Dashboard   *dashboard.HTTPHandler
	Leaderboard *leaderboard.HTTPHandler
	Scan        *scan.HTTPHandler
	Attempts    *attempt.Handler

	Checks map[string]Check
}

// NewHTTPServer wraps the router in an http.Server bound to cfg.HTTPAddr.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, routes Routes) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(cfg.CORS, logger, routes),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewRouter builds the API handler tree.
func NewRouter(corsCfg config.CORS, logger zerolog.Logger, routes Routes) http.Handler {
	logger = logger.With().Str("component", "http").Logger()
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		httperrors.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /v1/ping", pingHandler(logger, routes.Checks))

	requireAuth := func(h http.HandlerFunc) http.Handler { return auth.RequireAuth(h) }

	if a := routes.Auth; a != nil {
		limit := func(route string, h http.HandlerFunc) http.Handler {
			if routes.AuthLimiter == nil {
				return h
			}
			return routes.AuthLimiter.Middleware(route, h)
		}
		mux.Handle("POST /v1/auth/register", limit("register", a.Register))
		mux.Handle("POST /v1/auth/login", limit("login", a.Login))
		mux.Handle("POST /v1/auth/refresh", limit("refresh", a.Refresh))
		mux.Handle("POST /v1/auth/logout", limit("logout", a.Logout))
		mux.Handle("POST /v1/auth/forgot-password", limit("forgot_password", a.ForgotPassword))
		mux.Handle("POST /v1/auth/reset-password", limit("reset_password", a.ResetPassword))
		mux.Handle("GET /v1/oauth/{provider}/start", limit("oauth_start", a.OAuthStart))
		mux.Handle("GET /v1/oauth/{provider}/callback", limit("oauth_callback", a.OAuthCallback))
		mux.Handle("GET /v1/users/me", requireAuth(a.Me))
	}

	if c := routes.Catalog; c != nil {
		mux.HandleFunc("GET /v1/quizzes", c.List)
		mux.HandleFunc("GET /v1/quizzes/{id}", c.Get)
	}

	if l := routes.Learning; l != nil {
		mux.HandleFunc("GET /v1/modules", l.List)
		mux.HandleFunc("GET /v1/modules/topics", l.Topics)
		mux.HandleFunc("GET /v1/modules/{id}", l.Get)
		mux.Handle("PUT /v1/modules/{id}/progress", requireAuth(l.UpdateProgress))
		mux.Handle("POST /v1/modules/{id}/contents/{contentID}/complete", requireAuth(l.CompleteContent))
	}

	if s := routes.Scan; s != nil {
		mux.HandleFunc("POST /v1/scan", s.Resolve)
		mux.HandleFunc("GET /v1/modules/{id}/qr.png", s.QR)
	}

	if res := routes.Results; res != nil {
		mux.Handle("GET /v1/users/me/results", requireAuth(res.ListMine))
	}

	if d := routes.Dashboard; d != nil {
		mux.Handle("GET /v1/dashboard", requireAuth(d.Get))
	}

	if lb := routes.Leaderboard; lb != nil {
		mux.HandleFunc("GET /v1/leaderboards/{window}", lb.HandleGet)
	}

	if routes.Attempts != nil {
		mux.HandleFunc("GET /ws/quiz", routes.Attempts.ServeWS)
	}

	var h http.Handler = accessLog(logger, mux)
	if routes.Tokens != nil {
		h = auth.AuthMiddleware(routes.Tokens, logger)(h)
	}
	return recoverer(logger, cors(corsCfg, h))
}

func pingHandler(logger zerolog.Logger, checks map[string]Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		for name, check := range checks {
			if err := check(ctx); err != nil {
				logger.Error().Err(err).Str("dependency", name).Msg("dependency ping failed")
				httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeServiceUnavailable, name+" unavailable")
				return
			}
		}
		httperrors.RespondJSON(w, http.StatusOK, map[string]bool{"pong": true})
	}
}
