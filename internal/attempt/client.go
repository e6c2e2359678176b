package attempt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/milboard/milboard/internal/catalog"
	"github.com/milboard/milboard/internal/metrics"
	"github.com/milboard/milboard/internal/quiz"
	"github.com/milboard/milboard/internal/quiz/scoring"
	"github.com/milboard/milboard/internal/results"
	httperrors "github.com/milboard/milboard/pkg/http/errors"
	ws "github.com/milboard/milboard/pkg/http/ws"
)

const (
	loadTimeout   = 5 * time.Second
	recordTimeout = 5 * time.Second
)

type definitionGetter interface {
	Get(ctx context.Context, id string) (quiz.Definition, error)
}

type resultRecorder interface {
	Record(ctx context.Context, userID uuid.UUID, displayName, quizID string, report scoring.Report) (results.Result, error)
}

type sender interface {
	Send(msg ws.Message) error
}

// client owns the quiz session of one connection. All methods run on the
// connection's read goroutine.
type client struct {
	userID      uuid.UUID
	displayName string

	out      sender
	quizzes  definitionGetter
	recorder resultRecorder
	engine   *scoring.Engine
	logger   zerolog.Logger

	session *quiz.Session
	// requestID of the message currently being handled, echoed on replies.
	requestID string
}

func (c *client) handle(msg ws.Message) error {
	c.requestID = msg.RequestID

	switch msg.Type {
	case ws.TypeStartQuiz:
		return c.handleStart(msg.Payload)
	case ws.TypeSelectOption:
		return c.handleSelect(msg.Payload)
	case ws.TypeSubmitAnswer:
		return c.handleSubmit()
	case ws.TypeAdvance:
		return c.handleAdvance()
	case ws.TypeRestart:
		return c.handleRestart()
	case ws.TypeExitQuiz:
		return c.handleExit()
	case ws.TypePing:
		return c.send(ws.TypePong, nil)
	default:
		return c.sendError(httperrors.ErrCodeUnknownMessageType, fmt.Sprintf("Unknown message type: %s", msg.Type))
	}
}

func (c *client) handleStart(payload json.RawMessage) error {
	var req ws.StartQuizPayload
	if err := json.Unmarshal(payload, &req); err != nil || req.QuizID == "" {
		return c.sendError(httperrors.ErrCodeInvalidPayload, "Invalid start_quiz payload")
	}

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	def, err := c.quizzes.Get(ctx, req.QuizID)
	if err != nil {
		if errors.Is(err, catalog.ErrQuizNotFound) {
			return c.sendError(httperrors.ErrCodeQuizNotFound, "Quiz not found")
		}
		c.logger.Error().Err(err).Str("quiz_id", req.QuizID).Msg("load quiz failed")
		return c.sendError(httperrors.ErrCodeInternalError, "Failed to load quiz")
	}

	session, err := quiz.NewSession(def, quiz.SessionOptions{
		OnComplete: c.onComplete(def.ID),
		Scoring:    c.engine,
	})
	if err != nil {
		c.logger.Error().Err(err).Str("quiz_id", def.ID).Msg("quiz definition rejected")
		return c.sendError(httperrors.ErrCodeInternalError, "Quiz is not playable")
	}

	// Any previous session is dropped without recording.
	c.session = session
	metrics.QuizSessionsStarted.WithLabelValues(def.ID).Inc()
	c.logger.Debug().Str("quiz_id", def.ID).Msg("quiz started")
	return c.sendState()
}

func (c *client) handleSelect(payload json.RawMessage) error {
	if c.session == nil {
		return c.sendNoActiveQuiz()
	}
	var req ws.SelectOptionPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return c.sendError(httperrors.ErrCodeInvalidPayload, "Invalid select_option payload")
	}
	if !c.session.SelectOption(req.Index) {
		return c.reject(ws.TypeSelectOption, "option cannot be selected now")
	}
	return c.sendState()
}

func (c *client) handleSubmit() error {
	if c.session == nil {
		return c.sendNoActiveQuiz()
	}
	if !c.session.SubmitAnswer() {
		return c.reject(ws.TypeSubmitAnswer, "no option selected or answer already submitted")
	}

	fb, _ := c.session.LastFeedback()
	q, _ := c.session.Current()
	if err := c.send(ws.TypeAnswerFeedback, AnswerFeedbackPayload{
		QuizID:     c.session.QuizID(),
		QuestionID: q.ID,
		Feedback:   fb,
	}); err != nil {
		return err
	}
	return c.sendState()
}

func (c *client) handleAdvance() error {
	if c.session == nil {
		return c.sendNoActiveQuiz()
	}
	if !c.session.Advance() {
		return c.reject(ws.TypeAdvance, "answer must be submitted first")
	}
	return c.sendState()
}

func (c *client) handleRestart() error {
	if c.session == nil {
		return c.sendNoActiveQuiz()
	}
	c.session.Restart()
	metrics.QuizSessionsStarted.WithLabelValues(c.session.QuizID()).Inc()
	return c.sendState()
}

func (c *client) handleExit() error {
	if c.session == nil {
		return c.sendNoActiveQuiz()
	}
	quizID := c.session.QuizID()
	c.session = nil
	return c.send(ws.TypeQuizExited, QuizExitedPayload{QuizID: quizID})
}

// onComplete records the finished pass and tells the client. It fires from
// inside Session.Advance, before the follow-up session_state.
func (c *client) onComplete(quizID string) quiz.CompletionFunc {
	return func(report scoring.Report) {
		metrics.QuizSessionsCompleted.WithLabelValues(quizID, string(report.Band)).Inc()

		payload := QuizCompletePayload{QuizID: quizID, Report: report}
		if c.recorder != nil {
			ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
			res, err := c.recorder.Record(ctx, c.userID, c.displayName, quizID, report)
			cancel()
			if err != nil {
				c.logger.Error().Err(err).Str("quiz_id", quizID).Msg("record result failed")
			} else {
				payload.ResultID = res.ID.String()
			}
		}

		if err := c.send(ws.TypeQuizComplete, payload); err != nil {
			c.logger.Warn().Err(err).Msg("send quiz_complete failed")
		}
	}
}

func (c *client) reject(action, reason string) error {
	metrics.QuizActionsRejected.WithLabelValues(action).Inc()
	if err := c.send(ws.TypeActionRejected, ws.ActionRejectedPayload{
		Action: action,
		State:  string(c.session.State()),
		Reason: reason,
	}); err != nil {
		return err
	}
	return c.sendState()
}

func (c *client) sendState() error {
	return c.send(ws.TypeSessionState, SessionStatePayload{Session: c.session.Snapshot()})
}

func (c *client) sendNoActiveQuiz() error {
	return c.sendError(httperrors.ErrCodeNoActiveQuiz, "Start a quiz first")
}

func (c *client) sendError(code, message string) error {
	return c.send(ws.TypeError, ws.ErrorPayload{Code: code, Message: message})
}

func (c *client) send(msgType string, payload interface{}) error {
	msg, err := ws.NewMessage(msgType, payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", msgType, err)
	}
	msg.RequestID = c.requestID
	return c.out.Send(msg)
}
