// Package attempt serves quiz attempts over a WebSocket. Each connection owns
// at most one quiz session; the session lives only as long as the connection.
package attempt

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/milboard/milboard/internal/auth"
	"github.com/milboard/milboard/internal/metrics"
	"github.com/milboard/milboard/internal/quiz/scoring"
	httperrors "github.com/milboard/milboard/pkg/http/errors"
	ws "github.com/milboard/milboard/pkg/http/ws"
)

type connectionRegistry interface {
	Register(userID uuid.UUID, conn *ws.Connection)
	Unregister(userID uuid.UUID, conn *ws.Connection)
}

// Handler upgrades /ws/quiz requests and runs one client per connection.
type Handler struct {
	upgrader *websocket.Upgrader
	tokens   auth.TokenValidator
	quizzes  definitionGetter
	recorder resultRecorder
	hub      connectionRegistry
	engine   *scoring.Engine
	logger   zerolog.Logger
}

// Options bundles the collaborators of a Handler.
type Options struct {
	Upgrader *websocket.Upgrader
	Tokens   auth.TokenValidator
	Quizzes  definitionGetter
	Recorder resultRecorder
	Hub      connectionRegistry
	Scoring  *scoring.Engine
}

// NewHandler creates the quiz attempt WebSocket handler.
func NewHandler(opts Options, logger zerolog.Logger) *Handler {
	upgrader := opts.Upgrader
	if upgrader == nil {
		upgrader = &websocket.Upgrader{}
	}
	engine := opts.Scoring
	if engine == nil {
		engine = scoring.Default()
	}
	return &Handler{
		upgrader: upgrader,
		tokens:   opts.Tokens,
		quizzes:  opts.Quizzes,
		recorder: opts.Recorder,
		hub:      opts.Hub,
		engine:   engine,
		logger:   logger.With().Str("component", "attempt").Logger(),
	}
}

// ServeWS handles GET /ws/quiz?token=<access token>.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Missing token")
		return
	}

	claims, err := h.tokens.ValidateToken(token)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket token validation failed")
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid token")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	h.serve(ws.NewConnection(conn, h.logger), claims.UserID, claims.DisplayName)
}

func (h *Handler) serve(conn *ws.Connection, userID uuid.UUID, displayName string) {
	logger := h.logger.With().Str("user_id", userID.String()).Logger()

	h.hub.Register(userID, conn)
	metrics.ActiveConnections.Inc()
	defer func() {
		h.hub.Unregister(userID, conn)
		metrics.ActiveConnections.Dec()
	}()

	c := &client{
		userID:      userID,
		displayName: displayName,
		out:         conn,
		quizzes:     h.quizzes,
		recorder:    h.recorder,
		engine:      h.engine,
		logger:      logger,
	}

	go conn.WritePump()
	conn.ReadPump(c.handle)
}
