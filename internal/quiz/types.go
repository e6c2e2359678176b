package quiz

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoQuestions       = errors.New("quiz has no questions")
	ErrEmptyPrompt       = errors.New("question prompt is empty")
	ErrTooFewOptions     = errors.New("question needs at least two options")
	ErrCorrectOutOfRange = errors.New("correct option index out of range")
	ErrDuplicateQuestion = errors.New("duplicate question id")
	ErrMissingQuestionID = errors.New("question id is empty")
)

// Question is one multiple-choice item.
type Question struct {
	ID          string   `json:"id"`
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	Correct     int      `json:"correct"`
	Explanation string   `json:"explanation"`
}

// Definition is an immutable, ordered quiz.
type Definition struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Difficulty  string     `json:"difficulty"`
	Questions   []Question `json:"questions"`
}

// QuestionError ties a validation failure to the offending question.
type QuestionError struct {
	QuestionID string
	Position   int
	Err        error
}

func (e *QuestionError) Error() string {
	return fmt.Sprintf("question %d (%s): %v", e.Position+1, e.QuestionID, e.Err)
}

func (e *QuestionError) Unwrap() error { return e.Err }

// Validate checks the structural rules a session relies on.
func (d Definition) Validate() error {
	if len(d.Questions) == 0 {
		return ErrNoQuestions
	}
	seen := make(map[string]struct{}, len(d.Questions))
	for i, q := range d.Questions {
		var err error
		switch {
		case strings.TrimSpace(q.ID) == "":
			err = ErrMissingQuestionID
		case strings.TrimSpace(q.Prompt) == "":
			err = ErrEmptyPrompt
		case len(q.Options) < 2:
			err = ErrTooFewOptions
		case q.Correct < 0 || q.Correct >= len(q.Options):
			err = ErrCorrectOutOfRange
		}
		if err == nil {
			if _, dup := seen[q.ID]; dup {
				err = ErrDuplicateQuestion
			}
		}
		if err != nil {
			return &QuestionError{QuestionID: q.ID, Position: i, Err: err}
		}
		seen[q.ID] = struct{}{}
	}
	return nil
}

// clone returns a deep copy so callers can't mutate a running session's questions.
func (d Definition) clone() Definition {
	out := d
	out.Questions = make([]Question, len(d.Questions))
	for i, q := range d.Questions {
		q.Options = append([]string(nil), q.Options...)
		out.Questions[i] = q
	}
	return out
}
