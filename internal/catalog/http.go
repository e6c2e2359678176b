package catalog

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	httperrors "github.com/milboard/milboard/pkg/http/errors"
)

// HTTPHandler exposes the read-only quiz catalog.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		logger: logger.With().Str("component", "catalog_http").Logger(),
	}
}

// List handles GET /v1/quizzes?difficulty=beginner
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.svc.List(r.Context(), r.URL.Query().Get("difficulty"))
	if err != nil {
		if errors.Is(err, ErrInvalidFilter) {
			httperrors.RespondValidationError(w, err.Error(), "difficulty")
			return
		}
		h.logger.Error().Err(err).Msg("list quizzes failed")
		httperrors.RespondInternalError(w, "failed to list quizzes")
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"quizzes": summaries,
	})
}

// Get handles GET /v1/quizzes/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	def, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrQuizNotFound) {
			httperrors.RespondNotFound(w, httperrors.ErrCodeQuizNotFound, "quiz not found")
			return
		}
		h.logger.Error().Err(err).Str("quiz_id", id).Msg("get quiz failed")
		httperrors.RespondInternalError(w, "failed to load quiz")
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, Summarize(def))
}
