package errors

// Error codes carried in the "error" field of every error response.
const (
	// Authentication
	ErrCodeUnauthorized           = "unauthorized"
	ErrCodeInvalidToken           = "invalid_token"
	ErrCodeTokenExpired           = "token_expired"
	ErrCodeTokenRevoked           = "token_revoked"
	ErrCodeAuthenticationRequired = "authentication_required"
	ErrCodeInvalidCredentials     = "invalid_credentials"

	// Validation
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"

	// Resources
	ErrCodeNotFound        = "not_found"
	ErrCodeAlreadyExists   = "already_exists"
	ErrCodeQuizNotFound    = "quiz_not_found"
	ErrCodeModuleNotFound  = "module_not_found"
	ErrCodeContentNotFound = "content_not_found"

	// Account flows
	ErrCodeRegistrationFailed = "registration_failed"
	ErrCodeLoginFailed        = "login_failed"
	ErrCodeRefreshFailed      = "refresh_failed"
	ErrCodeResetFailed        = "reset_failed"

	// Scanning
	ErrCodeInvalidScanPayload = "invalid_scan_payload"
	ErrCodeScanTimeout        = "scan_timeout"

	// WebSocket
	ErrCodeInvalidPayload     = "invalid_payload"
	ErrCodeUnknownMessageType = "unknown_message_type"
	ErrCodeNoActiveQuiz       = "no_active_quiz"

	// Server
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeRateLimited        = "rate_limited"

	// OAuth
	ErrCodeOAuthNotConfigured  = "oauth_not_configured"
	ErrCodeOAuthCallbackFailed = "oauth_callback_failed"
	ErrCodeOAuthMissingCode    = "missing_code"
	ErrCodeOAuthInvalidState   = "invalid_state"

	// Leaderboard
	ErrCodeLeaderboardFetchFailed = "leaderboard_fetch_failed"
	ErrCodeUnknownWindow          = "unknown_leaderboard_window"
)
