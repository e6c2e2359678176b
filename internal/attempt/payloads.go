package attempt

import (
	"github.com/milboard/milboard/internal/quiz"
	"github.com/milboard/milboard/internal/quiz/scoring"
)

// SessionStatePayload carries the full session view after every accepted
// or rejected action.
type SessionStatePayload struct {
	Session quiz.Snapshot `json:"session"`
}

// AnswerFeedbackPayload is sent once per submitted answer.
type AnswerFeedbackPayload struct {
	QuizID     string `json:"quiz_id"`
	QuestionID string `json:"question_id"`
	quiz.Feedback
}

// QuizCompletePayload is sent when the last question is advanced past.
type QuizCompletePayload struct {
	QuizID   string         `json:"quiz_id"`
	ResultID string         `json:"result_id,omitempty"`
	Report   scoring.Report `json:"report"`
}

// QuizExitedPayload acknowledges exit_quiz.
type QuizExitedPayload struct {
	QuizID string `json:"quiz_id"`
}
