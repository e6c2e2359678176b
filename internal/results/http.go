package results

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/milboard/milboard/internal/auth"
	httperrors "github.com/milboard/milboard/pkg/http/errors"
)

// HTTPHandler exposes the caller's quiz history.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{svc: svc, logger: logger.With().Str("component", "results_http").Logger()}
}

// ListMine handles GET /v1/users/me/results?limit=20 (requires auth)
func (h *HTTPHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httperrors.RespondValidationError(w, "limit must be a positive integer", "limit")
			return
		}
		limit = parsed
	}

	list, err := h.svc.ListForUser(r.Context(), userID, limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("list results failed")
		httperrors.RespondInternalError(w, "failed to list results")
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"results": list,
	})
}
