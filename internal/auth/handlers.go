package auth

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/milboard/milboard/internal/auth/jwt"
	httperrors "github.com/milboard/milboard/pkg/http/errors"
	"github.com/milboard/milboard/pkg/http/request"
)

// HTTPHandlers provides REST endpoints for authentication.
type HTTPHandlers struct {
	authSvc  *Service
	oauthSvc *OAuthService
	logger   zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for auth endpoints.
func NewHTTPHandlers(authSvc *Service, oauthSvc *OAuthService, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		authSvc:  authSvc,
		oauthSvc: oauthSvc,
		logger:   logger.With().Str("component", "auth_http").Logger(),
	}
}

// Register handles POST /v1/auth/register
func (h *HTTPHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !request.DecodeJSON(w, r, &req) {
		return
	}

	user, tokens, err := h.authSvc.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			httperrors.RespondConflict(w, httperrors.ErrCodeAlreadyExists, "Email is already registered")
			return
		}
		h.logger.Error().Err(err).Msg("registration failed")
		httperrors.RespondInternalError(w, "Registration failed")
		return
	}

	httperrors.RespondJSON(w, http.StatusCreated, AuthResponse{User: user, Tokens: tokens})
}

// Login handles POST /v1/auth/login
func (h *HTTPHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !request.DecodeJSON(w, r, &req) {
		return
	}

	user, tokens, err := h.authSvc.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidCredentials, "Email or password is incorrect")
			return
		}
		h.logger.Error().Err(err).Msg("login failed")
		httperrors.RespondInternalError(w, "Login failed")
		return
	}

	httperrors.RespondJSON(w, http.StatusOK, AuthResponse{User: user, Tokens: tokens})
}

// Refresh handles POST /v1/auth/refresh
func (h *HTTPHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !request.DecodeJSON(w, r, &req) {
		return
	}

	tokens, err := h.authSvc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrTokenRevoked):
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeTokenRevoked, "Refresh token has been revoked")
		case errors.Is(err, jwt.ErrExpiredToken):
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeTokenExpired, "Refresh token expired")
		case errors.Is(err, jwt.ErrInvalidToken), errors.Is(err, ErrUserNotFound):
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid refresh token")
		default:
			h.logger.Error().Err(err).Msg("refresh failed")
			httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeRefreshFailed, "Token refresh failed")
		}
		return
	}

	httperrors.RespondJSON(w, http.StatusOK, tokens)
}

// Logout handles POST /v1/auth/logout
func (h *HTTPHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !request.DecodeJSON(w, r, &req) {
		return
	}

	if err := h.authSvc.Logout(r.Context(), req.RefreshToken); err != nil {
		if errors.Is(err, jwt.ErrInvalidToken) {
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid refresh token")
			return
		}
		h.logger.Error().Err(err).Msg("logout failed")
		httperrors.RespondInternalError(w, "Logout failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /v1/users/me (requires auth middleware)
func (h *HTTPHandlers) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	user, err := h.authSvc.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "User not found")
			return
		}
		h.logger.Error().Err(err).Msg("load user failed")
		httperrors.RespondInternalError(w, "Failed to load user")
		return
	}

	httperrors.RespondJSON(w, http.StatusOK, user)
}

// ForgotPassword handles POST /v1/auth/forgot-password
func (h *HTTPHandlers) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !request.DecodeJSON(w, r, &req) {
		return
	}

	if err := h.authSvc.RequestPasswordReset(r.Context(), req.Email); err != nil {
		h.logger.Warn().Err(err).Msg("password reset request failed")
	}

	// Same answer whether or not the account exists.
	httperrors.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "If an account exists with this email, a password reset link has been sent",
	})
}

// ResetPassword handles POST /v1/auth/reset-password
func (h *HTTPHandlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !request.DecodeJSON(w, r, &req) {
		return
	}

	if err := h.authSvc.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		if errors.Is(err, ErrInvalidResetToken) || errors.Is(err, ErrPasswordTooShort) {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeResetFailed, err.Error())
			return
		}
		h.logger.Error().Err(err).Msg("password reset failed")
		httperrors.RespondInternalError(w, "Password reset failed")
		return
	}

	httperrors.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "Password reset successfully",
	})
}

// OAuthStart handles GET /v1/oauth/{provider}/start
func (h *HTTPHandlers) OAuthStart(w http.ResponseWriter, r *http.Request) {
	if !h.oauthSvc.Enabled() {
		httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeOAuthNotConfigured, "OAuth is not configured")
		return
	}

	state, err := h.authSvc.NewOAuthState(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("issue oauth state failed")
		httperrors.RespondInternalError(w, "OAuth start failed")
		return
	}

	authURL, err := h.oauthSvc.AuthURL(r.PathValue("provider"), state)
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, err.Error())
		return
	}

	httperrors.RespondJSON(w, http.StatusOK, map[string]string{
		"auth_url": authURL,
		"state":    state,
	})
}

// OAuthCallback handles GET /v1/oauth/{provider}/callback
func (h *HTTPHandlers) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	if !h.oauthSvc.Enabled() {
		httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeOAuthNotConfigured, "OAuth is not configured")
		return
	}

	provider := r.PathValue("provider")
	code := r.URL.Query().Get("code")
	if code == "" {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeOAuthMissingCode, "Authorization code required")
		return
	}

	if err := h.authSvc.ConsumeOAuthState(r.Context(), r.URL.Query().Get("state")); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeOAuthInvalidState, "Invalid or missing state parameter")
		return
	}

	info, err := h.oauthSvc.Exchange(r.Context(), provider, code)
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeOAuthCallbackFailed, err.Error())
		return
	}

	user, tokens, err := h.authSvc.LoginWithOAuth(r.Context(), provider, info)
	if err != nil {
		h.logger.Error().Err(err).Str("provider", provider).Msg("oauth login failed")
		httperrors.RespondInternalError(w, "OAuth login failed")
		return
	}

	httperrors.RespondJSON(w, http.StatusOK, AuthResponse{User: user, Tokens: tokens})
}
