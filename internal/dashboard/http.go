package dashboard

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/milboard/milboard/internal/auth"
	httperrors "github.com/milboard/milboard/pkg/http/errors"
)

type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{svc: svc, logger: logger.With().Str("component", "dashboard_http").Logger()}
}

// Get handles GET /v1/dashboard (requires auth)
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	d, err := h.svc.Build(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("build dashboard failed")
		httperrors.RespondInternalError(w, "failed to load dashboard")
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, d)
}
