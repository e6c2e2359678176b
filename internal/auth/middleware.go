package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/milboard/milboard/internal/auth/jwt"
	httperrors "github.com/milboard/milboard/pkg/http/errors"
)

type claimsKey struct{}

// TokenValidator validates access tokens.
type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// ContextWithClaims stores validated claims on the context.
func ContextWithClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the claims set by AuthMiddleware.
func ClaimsFromContext(ctx context.Context) (*jwt.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*jwt.Claims)
	return claims, ok && claims != nil
}

// UserIDFromContext returns the authenticated user's ID.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return claims.UserID, true
}

// AuthMiddleware validates JWT tokens and injects user claims into request context.
// Requests without an Authorization header pass through unauthenticated.
func AuthMiddleware(validator TokenValidator, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.Debug().Err(err).Msg("token validation failed")
				code := httperrors.ErrCodeInvalidToken
				if errors.Is(err, jwt.ErrExpiredToken) {
					code = httperrors.ErrCodeTokenExpired
				}
				httperrors.RespondUnauthorized(w, code, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
		})
	}
}

// RequireAuth ensures the request is authenticated.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ClaimsFromContext(r.Context()); !ok {
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
