package catalog

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/milboard/milboard/internal/quiz"
)

type catalogDoc struct {
	Quizzes []quizDoc `yaml:"quizzes" validate:"required,min=1,dive"`
}

type quizDoc struct {
	ID          string        `yaml:"id" validate:"required"`
	Title       string        `yaml:"title" validate:"required"`
	Description string        `yaml:"description"`
	Difficulty  string        `yaml:"difficulty" validate:"required,oneof=beginner intermediate advanced"`
	Questions   []questionDoc `yaml:"questions" validate:"required,min=1,dive"`
}

type questionDoc struct {
	ID            string   `yaml:"id" validate:"required"`
	Question      string   `yaml:"question" validate:"required"`
	Options       []string `yaml:"options" validate:"min=2,dive,required"`
	CorrectAnswer *int     `yaml:"correct_answer" validate:"required"`
	Explanation   string   `yaml:"explanation"`
}

var validate = validator.New()

// LoadFile reads and validates a quiz catalog YAML file.
func LoadFile(path string) ([]quiz.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	defs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return defs, nil
}

// Parse decodes catalog YAML. Every quiz must pass quiz.Definition.Validate
// and quiz ids must be unique.
func Parse(data []byte) ([]quiz.Definition, error) {
	var doc catalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(doc.Quizzes))
	defs := make([]quiz.Definition, 0, len(doc.Quizzes))
	for _, qd := range doc.Quizzes {
		if _, dup := seen[qd.ID]; dup {
			return nil, fmt.Errorf("duplicate quiz id %q", qd.ID)
		}
		seen[qd.ID] = struct{}{}

		def := qd.definition()
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("quiz %q: %w", qd.ID, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (qd quizDoc) definition() quiz.Definition {
	def := quiz.Definition{
		ID:          qd.ID,
		Title:       qd.Title,
		Description: qd.Description,
		Difficulty:  qd.Difficulty,
		Questions:   make([]quiz.Question, 0, len(qd.Questions)),
	}
	for _, q := range qd.Questions {
		def.Questions = append(def.Questions, quiz.Question{
			ID:          q.ID,
			Prompt:      q.Question,
			Options:     q.Options,
			Correct:     *q.CorrectAnswer,
			Explanation: q.Explanation,
		})
	}
	return def
}
