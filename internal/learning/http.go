package learning

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/milboard/milboard/internal/auth"
	httperrors "github.com/milboard/milboard/pkg/http/errors"
	"github.com/milboard/milboard/pkg/http/request"
)

// HTTPHandler exposes learning modules and progress tracking.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		logger: logger.With().Str("component", "learning_http").Logger(),
	}
}

type progressRequest struct {
	Progress *int `json:"progress" validate:"required,min=0,max=100"`
}

// List handles GET /v1/modules?search=&category=
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	q := r.URL.Query()

	modules, err := h.svc.List(r.Context(), userID, Filter{Search: q.Get("search"), Category: q.Get("category")})
	if err != nil {
		if errors.Is(err, ErrInvalidCategory) {
			httperrors.RespondValidationError(w, err.Error(), "category")
			return
		}
		h.logger.Error().Err(err).Msg("list modules failed")
		httperrors.RespondInternalError(w, "failed to list modules")
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"modules": modules,
	})
}

// Topics handles GET /v1/modules/topics
func (h *HTTPHandler) Topics(w http.ResponseWriter, r *http.Request) {
	topics := h.svc.Topics()
	if topics == nil {
		topics = []string{}
	}
	httperrors.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"topics": topics,
	})
}

// Get handles GET /v1/modules/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	detail, err := h.svc.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, detail)
}

// UpdateProgress handles PUT /v1/modules/{id}/progress (requires auth)
func (h *HTTPHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	var req progressRequest
	if !request.DecodeJSON(w, r, &req) {
		return
	}

	p, err := h.svc.UpdateProgress(r.Context(), userID, r.PathValue("id"), *req.Progress)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, p)
}

// CompleteContent handles POST /v1/modules/{id}/contents/{contentID}/complete (requires auth)
func (h *HTTPHandler) CompleteContent(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	p, err := h.svc.CompleteContent(r.Context(), userID, r.PathValue("id"), r.PathValue("contentID"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, p)
}

func (h *HTTPHandler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrModuleNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeModuleNotFound, "module not found")
	case errors.Is(err, ErrContentNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeContentNotFound, "content not found")
	case errors.Is(err, ErrInvalidProgress):
		httperrors.RespondValidationError(w, err.Error(), "progress")
	default:
		h.logger.Error().Err(err).Msg("module request failed")
		httperrors.RespondInternalError(w, "module request failed")
	}
}
