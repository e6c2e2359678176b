package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token kinds carried in Claims.Kind.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// Claims for JWT tokens. RegisteredClaims.ID holds the token's jti.
type Claims struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Kind        string    `json:"kind"`
	jwt.RegisteredClaims
}

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// TokenConfig holds JWT signing configuration.
type TokenConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration // default: 1 hour
	RefreshTTL    time.Duration // default: 7 days
	Issuer        string
}

// Manager handles JWT token generation and validation.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	now           func() time.Time
}

// NewManager creates a JWT token manager.
func NewManager(cfg TokenConfig) *Manager {
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = 1 * time.Hour
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "milboard"
	}
	if len(cfg.RefreshSecret) == 0 {
		cfg.RefreshSecret = append(append([]byte{}, cfg.AccessSecret...), []byte(":refresh")...)
	}

	return &Manager{
		accessSecret:  cfg.AccessSecret,
		refreshSecret: cfg.RefreshSecret,
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		issuer:        cfg.Issuer,
		now:           time.Now,
	}
}

// Subject is the identity a token is minted for.
type Subject struct {
	ID          uuid.UUID
	Email       string
	DisplayName string
}

// AccessTTL reports the lifetime of access tokens.
func (m *Manager) AccessTTL() time.Duration { return m.accessTTL }

// GenerateAccessToken creates a short-lived access token.
func (m *Manager) GenerateAccessToken(sub Subject) (string, error) {
	return m.sign(sub, KindAccess, m.accessTTL, m.accessSecret)
}

// GenerateRefreshToken creates a long-lived refresh token with a unique jti.
func (m *Manager) GenerateRefreshToken(sub Subject) (string, error) {
	return m.sign(sub, KindRefresh, m.refreshTTL, m.refreshSecret)
}

func (m *Manager) sign(sub Subject, kind string, ttl time.Duration, secret []byte) (string, error) {
	now := m.now()
	claims := Claims{
		UserID:      sub.ID,
		Email:       sub.Email,
		DisplayName: sub.DisplayName,
		Kind:        kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			Subject:   sub.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateAccessToken parses and validates an access token.
func (m *Manager) ValidateAccessToken(tokenString string) (*Claims, error) {
	return m.validateToken(tokenString, m.accessSecret, KindAccess)
}

// ValidateRefreshToken parses and validates a refresh token.
func (m *Manager) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return m.validateToken(tokenString, m.refreshSecret, KindRefresh)
}

func (m *Manager) validateToken(tokenString string, secret []byte, kind string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithTimeFunc(m.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Kind != kind {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
