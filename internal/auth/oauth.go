package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ErrOAuthNotConfigured is returned when no client credentials are set.
var ErrOAuthNotConfigured = errors.New("oauth not configured")

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// OAuthUserInfo contains user data from OAuth provider.
type OAuthUserInfo struct {
	ProviderID string
	Email      string
	Name       string
}

// OAuthConfig holds Google client credentials.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// OAuthService runs the Google authorization code flow.
type OAuthService struct {
	googleConfig *oauth2.Config
	userInfoURL  string
	httpClient   *http.Client
	logger       zerolog.Logger
}

// NewOAuthService creates an OAuth service with provider credentials.
func NewOAuthService(cfg OAuthConfig, logger zerolog.Logger) *OAuthService {
	svc := &OAuthService{
		userInfoURL: googleUserInfoURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		logger:      logger.With().Str("component", "oauth").Logger(),
	}
	if cfg.ClientID != "" && cfg.ClientSecret != "" {
		svc.googleConfig = &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}
	return svc
}

// Enabled reports whether the provider has credentials.
func (s *OAuthService) Enabled() bool {
	return s != nil && s.googleConfig != nil
}

// AuthURL returns the consent page URL for the given state.
func (s *OAuthService) AuthURL(provider, state string) (string, error) {
	if provider != OAuthProviderGoogle {
		return "", fmt.Errorf("unsupported provider: %s", provider)
	}
	if !s.Enabled() {
		return "", ErrOAuthNotConfigured
	}
	return s.googleConfig.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

// Exchange trades an authorization code for the provider's user profile.
func (s *OAuthService) Exchange(ctx context.Context, provider, code string) (*OAuthUserInfo, error) {
	if provider != OAuthProviderGoogle {
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
	if !s.Enabled() {
		return nil, ErrOAuthNotConfigured
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	token, err := s.googleConfig.Exchange(ctx, code)
	if err != nil {
		s.logger.Error().Err(err).Msg("oauth token exchange failed")
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}

	resp, err := s.googleConfig.Client(ctx, token).Get(s.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info API returned status %d", resp.StatusCode)
	}

	var googleUser struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&googleUser); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}

	return &OAuthUserInfo{
		ProviderID: googleUser.ID,
		Email:      googleUser.Email,
		Name:       googleUser.Name,
	}, nil
}
