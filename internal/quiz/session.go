package quiz

import (
	"github.com/milboard/milboard/internal/quiz/scoring"
)

// State is the phase of a session.
type State string

const (
	StateAnswering State = "answering"
	StateReviewing State = "reviewing"
	StateCompleted State = "completed"
)

const noSelection = -1

// CompletionFunc receives the report when a pass through the quiz finishes.
type CompletionFunc func(report scoring.Report)

// SessionOptions configures a session.
type SessionOptions struct {
	// OnComplete fires exactly once each time the final question is advanced past.
	OnComplete CompletionFunc
	// Scoring defaults to scoring.Default().
	Scoring *scoring.Engine
}

// Session drives one user through one quiz. It is not safe for concurrent
// use; the owner serialises calls.
type Session struct {
	def        Definition
	engine     *scoring.Engine
	onComplete CompletionFunc

	index     int
	selected  int
	submitted bool
	correct   int
	report    *scoring.Report
}

// NewSession validates def and returns a session positioned on the first question.
func NewSession(def Definition, opts SessionOptions) (*Session, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	engine := opts.Scoring
	if engine == nil {
		engine = scoring.Default()
	}
	return &Session{
		def:        def.clone(),
		engine:     engine,
		onComplete: opts.OnComplete,
		selected:   noSelection,
	}, nil
}

// State reports the current phase.
func (s *Session) State() State {
	switch {
	case s.report != nil:
		return StateCompleted
	case s.submitted:
		return StateReviewing
	default:
		return StateAnswering
	}
}

// QuizID returns the id of the quiz being played.
func (s *Session) QuizID() string { return s.def.ID }

// Current returns the active question. ok is false once completed.
func (s *Session) Current() (Question, bool) {
	if s.report != nil {
		return Question{}, false
	}
	return s.def.Questions[s.index], true
}

// SelectOption marks option i as the tentative answer. Changing the
// selection is allowed until the answer is submitted.
func (s *Session) SelectOption(i int) bool {
	if s.State() != StateAnswering {
		return false
	}
	if i < 0 || i >= len(s.def.Questions[s.index].Options) {
		return false
	}
	s.selected = i
	return true
}

// SubmitAnswer locks in the selection and reveals feedback.
func (s *Session) SubmitAnswer() bool {
	if s.State() != StateAnswering || s.selected == noSelection {
		return false
	}
	s.submitted = true
	if s.selected == s.def.Questions[s.index].Correct {
		s.correct++
	}
	return true
}

// Advance moves past a reviewed question. Advancing past the last question
// completes the pass and fires OnComplete.
func (s *Session) Advance() bool {
	if s.State() != StateReviewing {
		return false
	}
	if s.index < len(s.def.Questions)-1 {
		s.index++
		s.selected = noSelection
		s.submitted = false
		return true
	}

	report := s.engine.Report(s.correct, len(s.def.Questions))
	s.report = &report
	s.selected = noSelection
	s.submitted = false
	if s.onComplete != nil {
		s.onComplete(report)
	}
	return true
}

// Restart begins a fresh pass over the same quiz.
func (s *Session) Restart() {
	s.index = 0
	s.selected = noSelection
	s.submitted = false
	s.correct = 0
	s.report = nil
}

// Report returns the report of the finished pass.
func (s *Session) Report() (scoring.Report, bool) {
	if s.report == nil {
		return scoring.Report{}, false
	}
	return *s.report, true
}

// QuestionView is a question with the answer withheld.
type QuestionView struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// Feedback is revealed once an answer has been submitted.
type Feedback struct {
	Correct      bool   `json:"correct"`
	CorrectIndex int    `json:"correct_index"`
	Explanation  string `json:"explanation"`
}

// Snapshot is a read-only view of a session for rendering.
type Snapshot struct {
	QuizID   string          `json:"quiz_id"`
	Title    string          `json:"title"`
	State    State           `json:"state"`
	Index    int             `json:"index"`
	Total    int             `json:"total"`
	Progress int             `json:"progress"`
	Selected *int            `json:"selected,omitempty"`
	Correct  int             `json:"correct"`
	Question *QuestionView   `json:"question,omitempty"`
	Feedback *Feedback       `json:"feedback,omitempty"`
	Report   *scoring.Report `json:"report,omitempty"`
}

// Snapshot captures the current state. The correct index and explanation
// are only included while reviewing.
func (s *Session) Snapshot() Snapshot {
	total := len(s.def.Questions)
	snap := Snapshot{
		QuizID:   s.def.ID,
		Title:    s.def.Title,
		State:    s.State(),
		Index:    s.index,
		Total:    total,
		Progress: s.index * 100 / total,
		Correct:  s.correct,
	}

	if s.report != nil {
		r := *s.report
		snap.Report = &r
		snap.Progress = 100
		return snap
	}

	q := s.def.Questions[s.index]
	snap.Question = &QuestionView{
		ID:      q.ID,
		Prompt:  q.Prompt,
		Options: append([]string(nil), q.Options...),
	}
	if s.selected != noSelection {
		sel := s.selected
		snap.Selected = &sel
	}
	if s.submitted {
		fb := s.feedback()
		snap.Feedback = &fb
	}
	return snap
}

// LastFeedback returns feedback for the submitted answer while reviewing.
func (s *Session) LastFeedback() (Feedback, bool) {
	if s.State() != StateReviewing {
		return Feedback{}, false
	}
	return s.feedback(), true
}

func (s *Session) feedback() Feedback {
	q := s.def.Questions[s.index]
	return Feedback{
		Correct:      s.selected == q.Correct,
		CorrectIndex: q.Correct,
		Explanation:  q.Explanation,
	}
}
