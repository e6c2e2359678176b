package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Content sources for quiz definitions.
const (
	ContentSourceYAML     = "yaml"
	ContentSourcePostgres = "postgres"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"milboard"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	PublicBaseURL           string        `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:3000"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres    Postgres
	Redis       Redis
	Security    Security
	Log         Log
	Content     Content
	Scoring     Scoring
	Leaderboard Leaderboard
	Scan        Scan
	RateLimit   RateLimit
	OAuth       OAuth
	SMTP        SMTP
	CORS        CORS
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host     string `env:"PG_HOST,notEmpty"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER,notEmpty"`
	Password string `env:"PG_PASSWORD,notEmpty"`
	Database string `env:"PG_DATABASE,notEmpty"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns int    `env:"PG_MAX_CONNS" envDefault:"10"`
}

// DSN renders a plain libpq-style connection string.
func (p Postgres) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// ConnString renders a pgxpool connection string.
func (p Postgres) ConnString() string {
	return fmt.Sprintf("%s pool_max_conns=%d", p.DSN(), p.MaxConns)
}

// Redis holds cache + pub/sub configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR,notEmpty"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Security stores secrets and token lifetimes.
type Security struct {
	JWTSecret     string        `env:"JWT_SECRET,notEmpty"`
	AccessTTL     time.Duration `env:"JWT_ACCESS_TTL" envDefault:"1h"`
	RefreshTTL    time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`
	ResetTokenTTL time.Duration `env:"PASSWORD_RESET_TTL" envDefault:"1h"`
}

// Log configures the process logger. File enables a rotated JSON log.
type Log struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	File       string `env:"LOG_FILE" envDefault:""`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"100"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"30"`
	Compress   bool   `env:"LOG_COMPRESS" envDefault:"true"`
}

// Content locates quiz and module definitions.
type Content struct {
	Source      string        `env:"CONTENT_SOURCE" envDefault:"yaml"`
	QuizzesPath string        `env:"CONTENT_QUIZZES_PATH" envDefault:"content/quizzes.yaml"`
	ModulesPath string        `env:"CONTENT_MODULES_PATH" envDefault:"content/modules.yaml"`
	CacheTTL    time.Duration `env:"CONTENT_CACHE_TTL" envDefault:"5m"`
	// SeedOnBoot writes the YAML quizzes into Postgres before serving.
	SeedOnBoot bool `env:"CONTENT_SEED_ON_BOOT" envDefault:"false"`
}

// Scoring holds band thresholds (inclusive lower bounds).
type Scoring struct {
	ExcellentAt int `env:"SCORE_EXCELLENT_AT" envDefault:"90"`
	GoodAt      int `env:"SCORE_GOOD_AT" envDefault:"70"`
	FairAt      int `env:"SCORE_FAIR_AT" envDefault:"50"`
}

// Leaderboard governs ranking, snapshotting and broadcast behavior.
type Leaderboard struct {
	TopN             int           `env:"LEADERBOARD_TOP_N" envDefault:"50"`
	Channel          string        `env:"LEADERBOARD_CHANNEL" envDefault:"lb:updates"`
	KeyPrefix        string        `env:"LEADERBOARD_KEY_PREFIX" envDefault:"lb"`
	SnapshotInterval time.Duration `env:"LEADERBOARD_SNAPSHOT_INTERVAL" envDefault:"5m"`
	SnapshotTopN     int           `env:"LEADERBOARD_SNAPSHOT_TOP" envDefault:"50"`
}

// Scan configures QR payload resolution.
type Scan struct {
	ResolveTimeout time.Duration `env:"SCAN_RESOLVE_TIMEOUT" envDefault:"2s"`
	QRSize         int           `env:"SCAN_QR_SIZE" envDefault:"256"`
}

// RateLimit bounds auth requests per client IP.
type RateLimit struct {
	Requests int           `env:"AUTH_RATE_LIMIT_REQUESTS" envDefault:"20"`
	Window   time.Duration `env:"AUTH_RATE_LIMIT_WINDOW" envDefault:"1m"`
}

// OAuth holds OAuth provider configuration.
type OAuth struct {
	GoogleClientID     string `env:"GOOGLE_OAUTH_CLIENT_ID" envDefault:""`
	GoogleClientSecret string `env:"GOOGLE_OAUTH_CLIENT_SECRET" envDefault:""`
	GoogleRedirectURL  string `env:"GOOGLE_OAUTH_REDIRECT_URL" envDefault:""`
}

// Enabled reports whether Google sign-in can be offered.
func (o OAuth) Enabled() bool {
	return o.GoogleClientID != "" && o.GoogleClientSecret != ""
}

// SMTP holds email server configuration.
type SMTP struct {
	Host      string `env:"SMTP_HOST" envDefault:""`
	Port      int    `env:"SMTP_PORT" envDefault:"587"`
	Username  string `env:"SMTP_USERNAME" envDefault:""`
	Password  string `env:"SMTP_PASSWORD" envDefault:""`
	FromEmail string `env:"SMTP_FROM_EMAIL" envDefault:"no-reply@milboard.local"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://127.0.0.1:3000"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE" envDefault:"3600"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	return load(nil)
}

func load(environ map[string]string) (*App, error) {
	cfg := &App{}
	opts := env.Options{RequiredIfNoDef: true}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *App) validate() error {
	switch c.Content.Source {
	case ContentSourceYAML, ContentSourcePostgres:
	default:
		return fmt.Errorf("invalid CONTENT_SOURCE %q", c.Content.Source)
	}
	s := c.Scoring
	if !(s.ExcellentAt > s.GoodAt && s.GoodAt > s.FairAt && s.FairAt > 0 && s.ExcellentAt <= 100) {
		return fmt.Errorf("score thresholds must satisfy 100 >= excellent > good > fair > 0, got %d/%d/%d",
			s.ExcellentAt, s.GoodAt, s.FairAt)
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("auth rate limit must be positive")
	}
	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c *App) IsProduction() bool {
	return c.Env == "production"
}
