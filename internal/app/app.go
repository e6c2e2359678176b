package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/milboard/milboard/internal/attempt"
	"github.com/milboard/milboard/internal/auth"
	"github.com/milboard/milboard/internal/auth/jwt"
	"github.com/milboard/milboard/internal/catalog"
	"github.com/milboard/milboard/internal/config"
	"github.com/milboard/milboard/internal/dashboard"
	"github.com/milboard/milboard/internal/db/repository"
	sqlcgen "github.com/milboard/milboard/internal/db/sqlc"
	"github.com/milboard/milboard/internal/leaderboard"
	"github.com/milboard/milboard/internal/learning"
	"github.com/milboard/milboard/internal/logging"
	"github.com/milboard/milboard/internal/quiz/scoring"
	"github.com/milboard/milboard/internal/results"
	"github.com/milboard/milboard/internal/scan"
	"github.com/milboard/milboard/internal/server"
	ws "github.com/milboard/milboard/pkg/http/ws"
)

// Application aggregates shared infrastructure and the background workers.
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server

	workers []worker
}

type worker struct {
	name string
	run  func(ctx context.Context) error
}

// New bootstraps logger, Postgres, Redis, services and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.NewWithOptions(cfg.Name, cfg.Env, logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	logger.Info().Msg("starting application bootstrap")

	pool, err := pgxpool.New(ctx, cfg.Postgres.ConnString())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	queries := sqlcgen.New(pool)
	userRepo := repository.NewUserRepository(queries)
	quizRepo := repository.NewQuizRepository(queries)
	resultRepo := repository.NewResultRepository(queries)
	progressRepo := repository.NewProgressRepository(queries)
	snapshotRepo := repository.NewSnapshotRepository(queries)

	// Accounts
	var mailer auth.Mailer
	if cfg.SMTP.Host != "" {
		mailer = auth.NewEmailService(auth.EmailConfig{
			SMTPHost:      cfg.SMTP.Host,
			SMTPPort:      cfg.SMTP.Port,
			SMTPUsername:  cfg.SMTP.Username,
			SMTPPassword:  cfg.SMTP.Password,
			FromEmail:     cfg.SMTP.FromEmail,
			PublicBaseURL: cfg.PublicBaseURL,
		}, logger)
	} else {
		logger.Warn().Msg("SMTP not configured; password reset emails disabled")
	}

	authSvc := auth.NewService(userRepo, auth.ServiceOptions{
		TokenConfig: jwt.TokenConfig{
			AccessSecret: []byte(cfg.Security.JWTSecret),
			AccessTTL:    cfg.Security.AccessTTL,
			RefreshTTL:   cfg.Security.RefreshTTL,
			Issuer:       cfg.Name,
		},
		Redis:         redisClient,
		Mailer:        mailer,
		ResetTokenTTL: cfg.Security.ResetTokenTTL,
	}, logger)

	oauthSvc := auth.NewOAuthService(auth.OAuthConfig{
		ClientID:     cfg.OAuth.GoogleClientID,
		ClientSecret: cfg.OAuth.GoogleClientSecret,
		RedirectURL:  cfg.OAuth.GoogleRedirectURL,
	}, logger)
	if !oauthSvc.Enabled() {
		logger.Warn().Msg("OAuth not configured (missing GOOGLE_OAUTH_CLIENT_ID or GOOGLE_OAUTH_CLIENT_SECRET)")
	}

	// Quiz catalog
	var store catalog.Store
	switch cfg.Content.Source {
	case config.ContentSourcePostgres:
		if cfg.Content.SeedOnBoot {
			defs, err := catalog.LoadFile(cfg.Content.QuizzesPath)
			if err != nil {
				return nil, fmt.Errorf("load quiz catalog: %w", err)
			}
			if err := catalog.Seed(ctx, quizRepo, defs); err != nil {
				return nil, fmt.Errorf("seed quiz catalog: %w", err)
			}
			logger.Info().Int("quizzes", len(defs)).Msg("quiz catalog seeded")
		}
		store = catalog.NewPostgresStore(quizRepo)
	default:
		defs, err := catalog.LoadFile(cfg.Content.QuizzesPath)
		if err != nil {
			return nil, fmt.Errorf("load quiz catalog: %w", err)
		}
		store = catalog.NewMemoryStore(defs)
		logger.Info().Int("quizzes", len(defs)).Str("path", cfg.Content.QuizzesPath).Msg("quiz catalog loaded")
	}
	catalogSvc := catalog.NewService(store, catalog.NewCache(redisClient, cfg.Content.CacheTTL), logger)

	// Learning modules
	modules, err := learning.LoadFile(cfg.Content.ModulesPath)
	if err != nil {
		return nil, fmt.Errorf("load learning modules: %w", err)
	}
	learningSvc := learning.NewService(modules, progressRepo, logger)

	// Results and leaderboard
	leaderboardSvc := leaderboard.NewService(redisClient, logger, leaderboard.ServiceOptions{
		TopN:          cfg.Leaderboard.TopN,
		PubSubChannel: cfg.Leaderboard.Channel,
		KeyPrefix:     cfg.Leaderboard.KeyPrefix,
	})
	resultsSvc := results.NewService(resultRepo, leaderboardSvc, logger)
	dashboardSvc := dashboard.NewService(authSvc, learningSvc, resultsSvc, leaderboardSvc, logger)

	// Transport
	hub := ws.NewHub(logger)
	engine := scoring.NewEngine(scoring.Config{
		ExcellentAt: cfg.Scoring.ExcellentAt,
		GoodAt:      cfg.Scoring.GoodAt,
		FairAt:      cfg.Scoring.FairAt,
	})
	attempts := attempt.NewHandler(attempt.Options{
		Upgrader: server.NewUpgrader(cfg.CORS.AllowedOrigins),
		Tokens:   authSvc,
		Quizzes:  catalogSvc,
		Recorder: resultsSvc,
		Hub:      hub,
		Scoring:  engine,
	}, logger)

	limiter := server.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)

	apiServer := server.NewHTTPServer(cfg, logger, server.Routes{
		Tokens:      authSvc,
		AuthLimiter: limiter,
		Auth:        auth.NewHTTPHandlers(authSvc, oauthSvc, logger),
		Catalog:     catalog.NewHTTPHandler(catalogSvc, logger),
		Learning:    learning.NewHTTPHandler(learningSvc, logger),
		Results:     results.NewHTTPHandler(resultsSvc, logger),
		Dashboard:   dashboard.NewHTTPHandler(dashboardSvc, logger),
		Leaderboard: leaderboard.NewHTTPHandler(leaderboardSvc, snapshotRepo, logger),
		Scan: scan.NewHTTPHandler(
			scan.NewResolver(learningSvc, cfg.Scan.QRSize, logger),
			cfg.Scan.ResolveTimeout,
			logger,
		),
		Attempts: attempts,
		Checks: map[string]server.Check{
			"postgres": pool.Ping,
			"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		},
	})

	workers := []worker{
		{"leaderboard_broadcaster", leaderboard.NewBroadcaster(redisClient, hub, leaderboardSvc.Channel(), logger).Run},
		{"catalog_warm", catalog.NewWarmWorker(catalogSvc, cfg.Content.CacheTTL*4/5, logger).Run},
		{"auth_rate_limiter", limiter.Run},
	}
	if interval := cfg.Leaderboard.SnapshotInterval; interval > 0 {
		workers = append(workers, worker{"leaderboard_snapshot", leaderboard.NewSnapshotWorker(
			leaderboardSvc,
			snapshotRepo,
			interval,
			cfg.Leaderboard.SnapshotTopN,
			logger,
		).Run})
	}

	return &Application{
		cfg:     cfg,
		logger:  logger,
		pool:    pool,
		redis:   redisClient,
		http:    apiServer,
		workers: workers,
	}, nil
}

// Run serves HTTP and the background workers until a termination signal,
// ctx cancellation, or the first fatal error.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	for _, w := range a.workers {
		g.Go(func() error {
			err := w.run(gctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Warn().Err(err).Str("worker", w.name).Msg("background worker stopped")
			}
			return nil
		})
	}

	g.Go(func() error {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
		defer cancel()
		if err := a.http.Shutdown(shutdownCtx); err != nil {
			a.logger.Error().Err(err).Msg("http shutdown error")
		}
		return nil
	})

	err := g.Wait()

	a.pool.Close()
	if cerr := a.redis.Close(); cerr != nil {
		a.logger.Error().Err(cerr).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return err
}
