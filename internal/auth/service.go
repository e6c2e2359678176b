package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/milboard/milboard/internal/auth/jwt"
	"github.com/milboard/milboard/internal/db/repository"
	sqlcgen "github.com/milboard/milboard/internal/db/sqlc"
)

type userRepository interface {
	Create(ctx context.Context, params sqlcgen.CreateUserParams) (sqlcgen.User, error)
	GetByEmail(ctx context.Context, email string) (sqlcgen.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (sqlcgen.User, error)
	UpdateLogin(ctx context.Context, userID uuid.UUID) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, hash string) error
}

// Mailer delivers password reset links.
type Mailer interface {
	SendPasswordResetEmail(ctx context.Context, toEmail, resetToken string) error
}

const (
	revokedKeyPrefix = "revoked_refresh:"
	resetKeyPrefix   = "password_reset:"
	stateKeyPrefix   = "oauth_state:"
	oauthStateTTL    = 10 * time.Minute
)

// Service handles authentication and user management.
type Service struct {
	users    userRepository
	tokenMgr *jwt.Manager
	redis    redis.UniversalClient
	mailer   Mailer
	resetTTL time.Duration
	logger   zerolog.Logger
}

// ServiceOptions configures the auth service.
type ServiceOptions struct {
	TokenConfig   jwt.TokenConfig
	Redis         redis.UniversalClient
	Mailer        Mailer
	ResetTokenTTL time.Duration
}

// NewService creates an authentication service.
func NewService(users userRepository, opts ServiceOptions, logger zerolog.Logger) *Service {
	if opts.ResetTokenTTL <= 0 {
		opts.ResetTokenTTL = time.Hour
	}
	return &Service{
		users:    users,
		tokenMgr: jwt.NewManager(opts.TokenConfig),
		redis:    opts.Redis,
		mailer:   opts.Mailer,
		resetTTL: opts.ResetTokenTTL,
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new password account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, *TokenPair, error) {
	email := normalizeEmail(req.Email)

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, nil, ErrEmailTaken
	case !errors.Is(err, repository.ErrNotFound):
		return nil, nil, fmt.Errorf("lookup email: %w", err)
	}

	passwordHash, err := HashPassword(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	dbUser, err := s.users.Create(ctx, sqlcgen.CreateUserParams{
		Email:        email,
		PasswordHash: pgtype.Text{String: passwordHash, Valid: true},
		DisplayName:  strings.TrimSpace(req.Name),
		AuthProvider: ProviderPassword,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	user := toUser(dbUser)
	tokens, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user registered")
	return user, tokens, nil
}

// Login authenticates a user with email/password.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*User, *TokenPair, error) {
	dbUser, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("lookup email: %w", err)
	}

	if !dbUser.PasswordHash.Valid {
		return nil, nil, ErrInvalidCredentials
	}
	if err := VerifyPassword(dbUser.PasswordHash.String, req.Password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	user := toUser(dbUser)
	if err := s.users.UpdateLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID.String()).Msg("update last login failed")
	}

	tokens, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user logged in")
	return user, tokens, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a new pair issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokenMgr.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	revoked, err := s.isRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	dbUser, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := s.revoke(ctx, claims); err != nil {
		return nil, err
	}

	return s.generateTokenPair(toUser(dbUser))
}

// Logout revokes the refresh token until it would have expired.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokenMgr.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil
		}
		return err
	}
	if err := s.revoke(ctx, claims); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", claims.UserID.String()).Msg("user logged out")
	return nil
}

func (s *Service) revoke(ctx context.Context, claims *jwt.Claims) error {
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.redis.Set(ctx, revokedKeyPrefix+claims.ID, claims.UserID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func (s *Service) isRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.redis.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return n > 0, nil
}

// ValidateToken validates an access token and returns user claims.
func (s *Service) ValidateToken(tokenString string) (*jwt.Claims, error) {
	return s.tokenMgr.ValidateAccessToken(tokenString)
}

// GetUser loads the account behind an access token.
func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*User, error) {
	dbUser, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return toUser(dbUser), nil
}

// RequestPasswordReset generates a reset token and sends reset email.
// Unknown addresses succeed silently.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	if s.mailer == nil {
		return fmt.Errorf("email service not configured")
	}

	email = normalizeEmail(email)
	dbUser, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("lookup email: %w", err)
	}

	token, err := randomToken()
	if err != nil {
		return fmt.Errorf("generate token: %w", err)
	}

	userID := repository.FromPGUUID(dbUser.UserID)
	if err := s.redis.Set(ctx, resetKeyPrefix+token, userID.String(), s.resetTTL).Err(); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	if err := s.mailer.SendPasswordResetEmail(ctx, email, token); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	s.logger.Info().Str("user_id", userID.String()).Msg("password reset requested")
	return nil
}

// ResetPassword consumes a reset token and stores the new password hash.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	raw, err := s.redis.GetDel(ctx, resetKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return ErrInvalidResetToken
	}
	if err != nil {
		return fmt.Errorf("get reset token: %w", err)
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		return ErrInvalidResetToken
	}

	passwordHash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, passwordHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.logger.Info().Str("user_id", userID.String()).Msg("password reset completed")
	return nil
}

// NewOAuthState issues a single-use state value for an OAuth redirect.
func (s *Service) NewOAuthState(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := s.redis.Set(ctx, stateKeyPrefix+state, "1", oauthStateTTL).Err(); err != nil {
		return "", fmt.Errorf("store oauth state: %w", err)
	}
	return state, nil
}

// ConsumeOAuthState checks and removes a state value issued by NewOAuthState.
func (s *Service) ConsumeOAuthState(ctx context.Context, state string) error {
	if state == "" {
		return ErrInvalidOAuthState
	}
	n, err := s.redis.Del(ctx, stateKeyPrefix+state).Result()
	if err != nil {
		return fmt.Errorf("consume oauth state: %w", err)
	}
	if n == 0 {
		return ErrInvalidOAuthState
	}
	return nil
}

// LoginWithOAuth signs in the account matching the provider's email, creating it on first use.
func (s *Service) LoginWithOAuth(ctx context.Context, provider string, info *OAuthUserInfo) (*User, *TokenPair, error) {
	if info == nil || info.Email == "" {
		return nil, nil, fmt.Errorf("oauth provider did not return email")
	}
	email := normalizeEmail(info.Email)

	dbUser, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if err := s.users.UpdateLogin(ctx, repository.FromPGUUID(dbUser.UserID)); err != nil {
			s.logger.Warn().Err(err).Msg("update last login failed")
		}
	case errors.Is(err, repository.ErrNotFound):
		name := strings.TrimSpace(info.Name)
		if name == "" {
			name = email
		}
		dbUser, err = s.users.Create(ctx, sqlcgen.CreateUserParams{
			Email:           email,
			DisplayName:     name,
			AuthProvider:    provider,
			ProviderSubject: pgtype.Text{String: info.ProviderID, Valid: info.ProviderID != ""},
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create oauth user: %w", err)
		}
	default:
		return nil, nil, fmt.Errorf("lookup email: %w", err)
	}

	user := toUser(dbUser)
	tokens, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Str("provider", provider).Msg("oauth user logged in")
	return user, tokens, nil
}

func (s *Service) generateTokenPair(user *User) (*TokenPair, error) {
	sub := jwt.Subject{ID: user.ID, Email: user.Email, DisplayName: user.DisplayName}

	accessToken, err := s.tokenMgr.GenerateAccessToken(sub)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokenMgr.GenerateRefreshToken(sub)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokenMgr.AccessTTL().Seconds()),
	}, nil
}

func toUser(u sqlcgen.User) *User {
	return &User{
		ID:           repository.FromPGUUID(u.UserID),
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		AuthProvider: u.AuthProvider,
	}
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
