package ws

import "encoding/json"

// MessageType constants for the WebSocket protocol.
const (
	// Client -> Server
	TypeStartQuiz    = "start_quiz"
	TypeSelectOption = "select_option"
	TypeSubmitAnswer = "submit_answer"
	TypeAdvance      = "advance"
	TypeRestart      = "restart"
	TypeExitQuiz     = "exit_quiz"
	TypePing         = "ping"

	// Server -> Client
	TypeSessionState      = "session_state"
	TypeAnswerFeedback    = "answer_feedback"
	TypeQuizComplete      = "quiz_complete"
	TypeActionRejected    = "action_rejected"
	TypeQuizExited        = "quiz_exited"
	TypeLeaderboardUpdate = "leaderboard_update"
	TypeError             = "error"
	TypePong              = "pong"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

// NewMessage marshals payload into a typed message.
func NewMessage(msgType string, payload interface{}) (Message, error) {
	if payload == nil {
		return Message{Type: msgType}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Payload: raw}, nil
}

// Client Messages (incoming)

type StartQuizPayload struct {
	QuizID string `json:"quiz_id"`
}

type SelectOptionPayload struct {
	Index int `json:"index"`
}

// Server Messages (outgoing)

type ActionRejectedPayload struct {
	Action string `json:"action"`
	State  string `json:"state"`
	Reason string `json:"reason"`
}

type LeaderboardUpdatePayload struct {
	Window    string             `json:"window"`
	PeriodKey string             `json:"period_key"`
	Top       []LeaderboardEntry `json:"top"`
}

type LeaderboardEntry struct {
	Rank        int     `json:"rank"`
	UserID      string  `json:"user_id"`
	DisplayName string  `json:"display_name"`
	Points      int     `json:"points"`
	Quizzes     int     `json:"quizzes"`
	Perfect     int     `json:"perfect"`
	Accuracy    float64 `json:"accuracy"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
