package catalog

import (
	"context"
	"errors"

	"github.com/milboard/milboard/internal/quiz"
)

// Difficulty labels used by the quiz listing.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

var (
	ErrQuizNotFound  = errors.New("quiz not found")
	ErrInvalidFilter = errors.New("unknown difficulty filter")
)

// Summary is the listing view of a quiz with answers withheld.
type Summary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Difficulty    string `json:"difficulty"`
	QuestionCount int    `json:"question_count"`
}

// Summarize builds the listing view of a definition.
func Summarize(def quiz.Definition) Summary {
	return Summary{
		ID:            def.ID,
		Title:         def.Title,
		Description:   def.Description,
		Difficulty:    def.Difficulty,
		QuestionCount: len(def.Questions),
	}
}

// Store is a source of validated quiz definitions.
type Store interface {
	List(ctx context.Context) ([]quiz.Definition, error)
	Get(ctx context.Context, id string) (quiz.Definition, error)
}

// DefinitionCache fronts a Store. Get returns (nil, nil) on a miss.
type DefinitionCache interface {
	Get(ctx context.Context, id string) (*quiz.Definition, error)
	Set(ctx context.Context, def quiz.Definition) error
}

func validDifficulty(d string) bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	default:
		return false
	}
}
