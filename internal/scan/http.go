package scan

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	httperrors "github.com/milboard/milboard/pkg/http/errors"
	"github.com/milboard/milboard/pkg/http/request"
)

type scanRequest struct {
	Payload string `json:"payload" validate:"required,max=512"`
}

// HTTPHandler exposes scan resolution and module QR images.
type HTTPHandler struct {
	resolver *Resolver
	timeout  time.Duration
	logger   zerolog.Logger
}

func NewHTTPHandler(resolver *Resolver, timeout time.Duration, logger zerolog.Logger) *HTTPHandler {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HTTPHandler{
		resolver: resolver,
		timeout:  timeout,
		logger:   logger.With().Str("component", "scan_http").Logger(),
	}
}

// Resolve handles POST /v1/scan
func (h *HTTPHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if !request.DecodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	res, err := h.resolver.ResolveAsync(ctx, req.Payload).Await(ctx)
	switch {
	case err == nil:
		httperrors.RespondJSON(w, http.StatusOK, res)
	case errors.Is(err, ErrInvalidPayload):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidScanPayload, "QR code is not a MILBoard module code")
	case errors.Is(err, ErrModuleNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeModuleNotFound, "module not found")
	case errors.Is(err, context.DeadlineExceeded):
		httperrors.RespondError(w, http.StatusGatewayTimeout, httperrors.ErrCodeScanTimeout, "scan resolution timed out")
	default:
		h.logger.Error().Err(err).Msg("scan failed")
		httperrors.RespondInternalError(w, "scan failed")
	}
}

// QR handles GET /v1/modules/{id}/qr.png
func (h *HTTPHandler) QR(w http.ResponseWriter, r *http.Request) {
	png, err := h.resolver.RenderQR(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, ErrModuleNotFound) {
			httperrors.RespondNotFound(w, httperrors.ErrCodeModuleNotFound, "module not found")
			return
		}
		h.logger.Error().Err(err).Msg("render qr failed")
		httperrors.RespondInternalError(w, "failed to render QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
