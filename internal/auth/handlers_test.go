package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/milboard/milboard/internal/db/repository"
	sqlcgen "github.com/milboard/milboard/internal/db/sqlc"
	httperrors "github.com/milboard/milboard/pkg/http/errors"
)

func newTestMux(f *fixture) *http.ServeMux {
	h := NewHTTPHandlers(f.svc, NewOAuthService(OAuthConfig{}, zerolog.Nop()), zerolog.Nop())
	mw := AuthMiddleware(f.svc, zerolog.Nop())

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/auth/register", h.Register)
	mux.HandleFunc("POST /v1/auth/login", h.Login)
	mux.HandleFunc("POST /v1/auth/refresh", h.Refresh)
	mux.HandleFunc("POST /v1/auth/logout", h.Logout)
	mux.HandleFunc("POST /v1/auth/forgot-password", h.ForgotPassword)
	mux.Handle("GET /v1/users/me", mw(RequireAuth(http.HandlerFunc(h.Me))))
	mux.HandleFunc("GET /v1/oauth/{provider}/start", h.OAuthStart)
	return mux
}

func do(mux http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp httperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestRegisterHandlerValidatesBody(t *testing.T) {
	f := newFixture(t)
	rec := do(newTestMux(f), http.MethodPost, "/v1/auth/register", `{"name":"Sari","email":"bad","password":"short"}`, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp httperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, httperrors.ErrCodeValidationFailed, resp.Error)
	assert.Contains(t, resp.Details, "email")
	assert.Contains(t, resp.Details, "password")
}

func TestRegisterHandlerConflict(t *testing.T) {
	f := newFixture(t)
	f.repo.On("GetByEmail", mock.Anything, "sari@example.com").Return(dbUser(uuid.New(), "sari@example.com", "x"), nil)

	rec := do(newTestMux(f), http.MethodPost, "/v1/auth/register", `{"name":"Sari","email":"sari@example.com","password":"rahasia123"}`, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, httperrors.ErrCodeAlreadyExists, errorCode(t, rec))
}

func TestLoginHandlerInvalidCredentials(t *testing.T) {
	f := newFixture(t)
	f.repo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(sqlcgen.User{}, repository.ErrNotFound)

	rec := do(newTestMux(f), http.MethodPost, "/v1/auth/login", `{"email":"ghost@example.com","password":"whatever1"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, httperrors.ErrCodeInvalidCredentials, errorCode(t, rec))
}

func TestMeRequiresToken(t *testing.T) {
	f := newFixture(t)
	mux := newTestMux(f)

	rec := do(mux, http.MethodGet, "/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, httperrors.ErrCodeAuthenticationRequired, errorCode(t, rec))

	rec = do(mux, http.MethodGet, "/v1/users/me", "", map[string]string{"Authorization": "Token abc"})
	assert.Equal(t, httperrors.ErrCodeInvalidToken, errorCode(t, rec))
}

func TestMeReturnsUser(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()
	f.repo.On("GetByID", mock.Anything, id).Return(dbUser(id, "sari@example.com", "x"), nil)
	pair, err := f.svc.generateTokenPair(&User{ID: id, Email: "sari@example.com"})
	require.NoError(t, err)

	rec := do(newTestMux(f), http.MethodGet, "/v1/users/me", "", map[string]string{"Authorization": "Bearer " + pair.AccessToken})
	require.Equal(t, http.StatusOK, rec.Code)

	var user User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "Sari", user.DisplayName)
}

func TestRefreshAndLogoutHandlers(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()
	f.repo.On("GetByID", mock.Anything, id).Return(dbUser(id, "sari@example.com", "x"), nil)
	pair, err := f.svc.generateTokenPair(&User{ID: id})
	require.NoError(t, err)
	mux := newTestMux(f)

	rec := do(mux, http.MethodPost, "/v1/auth/logout", `{"refresh_token":"`+pair.RefreshToken+`"}`, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(mux, http.MethodPost, "/v1/auth/refresh", `{"refresh_token":"`+pair.RefreshToken+`"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, httperrors.ErrCodeTokenRevoked, errorCode(t, rec))
}

func TestForgotPasswordAlwaysSucceeds(t *testing.T) {
	f := newFixture(t)
	f.repo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(sqlcgen.User{}, repository.ErrNotFound)

	rec := do(newTestMux(f), http.MethodPost, "/v1/auth/forgot-password", `{"email":"ghost@example.com"}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOAuthStartWithoutCredentials(t *testing.T) {
	f := newFixture(t)
	rec := do(newTestMux(f), http.MethodGet, "/v1/oauth/google/start", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, httperrors.ErrCodeOAuthNotConfigured, errorCode(t, rec))
}

func TestOAuthAuthURLCarriesState(t *testing.T) {
	svc := NewOAuthService(OAuthConfig{ClientID: "id", ClientSecret: "secret", RedirectURL: "http://localhost/cb"}, zerolog.Nop())
	require.True(t, svc.Enabled())

	u, err := svc.AuthURL(OAuthProviderGoogle, "state-123")
	require.NoError(t, err)
	assert.Contains(t, u, "state=state-123")
	assert.Contains(t, u, "client_id=id")

	_, err = svc.AuthURL("github", "x")
	assert.Error(t, err)
}

func TestEmailServiceSendsResetLink(t *testing.T) {
	svc := NewEmailService(EmailConfig{
		SMTPHost: "smtp.local", SMTPPort: 2525, FromEmail: "no-reply@milboard.local",
		PublicBaseURL: "https://milboard.id/",
	}, zerolog.Nop())

	var gotAddr string
	var gotMsg []byte
	svc.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotMsg = msg
		assert.Equal(t, []string{"sari@example.com"}, to)
		return nil
	}

	require.NoError(t, svc.SendPasswordResetEmail(context.Background(), "sari@example.com", "tok/en"))
	assert.Equal(t, "smtp.local:2525", gotAddr)
	assert.Contains(t, string(gotMsg), "https://milboard.id/reset-password?token=tok%2Fen")
}

func TestEmailServiceNotConfigured(t *testing.T) {
	svc := NewEmailService(EmailConfig{}, zerolog.Nop())
	assert.Error(t, svc.SendPasswordResetEmail(context.Background(), "a@b.co", "t"))
}
