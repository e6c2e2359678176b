package learning

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type modulesDoc struct {
	Modules []moduleDoc `yaml:"modules" validate:"required,min=1,dive"`
}

type moduleDoc struct {
	ID          string       `yaml:"id" validate:"required"`
	Title       string       `yaml:"title" validate:"required"`
	Description string       `yaml:"description" validate:"required"`
	Duration    string       `yaml:"duration"`
	Category    string       `yaml:"category" validate:"required,oneof=foundations advanced practical"`
	Featured    bool         `yaml:"featured"`
	IsNew       bool         `yaml:"is_new"`
	Topics      []string     `yaml:"topics" validate:"dive,required"`
	Contents    []contentDoc `yaml:"contents" validate:"required,min=1,dive"`
}

type contentDoc struct {
	ID                string `yaml:"id" validate:"required"`
	Title             string `yaml:"title" validate:"required"`
	EstimatedReadTime string `yaml:"estimated_read_time"`
	Body              string `yaml:"body" validate:"required"`
}

var validate = validator.New()

// LoadFile reads and validates a modules YAML file.
func LoadFile(path string) ([]Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read modules %s: %w", path, err)
	}
	modules, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load modules %s: %w", path, err)
	}
	return modules, nil
}

// Parse decodes modules YAML. Module ids are unique, as are content ids within a module.
func Parse(data []byte) ([]Module, error) {
	var doc modulesDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("validate modules: %w", err)
	}

	seen := make(map[string]struct{}, len(doc.Modules))
	modules := make([]Module, 0, len(doc.Modules))
	for _, md := range doc.Modules {
		if _, dup := seen[md.ID]; dup {
			return nil, fmt.Errorf("duplicate module id %q", md.ID)
		}
		seen[md.ID] = struct{}{}

		m := Module{
			ID:          md.ID,
			Title:       md.Title,
			Description: md.Description,
			Duration:    md.Duration,
			Category:    md.Category,
			Featured:    md.Featured,
			IsNew:       md.IsNew,
			Topics:      md.Topics,
			Contents:    make([]Content, 0, len(md.Contents)),
		}
		contentIDs := make(map[string]struct{}, len(md.Contents))
		for _, cd := range md.Contents {
			if _, dup := contentIDs[cd.ID]; dup {
				return nil, fmt.Errorf("module %q: duplicate content id %q", md.ID, cd.ID)
			}
			contentIDs[cd.ID] = struct{}{}
			m.Contents = append(m.Contents, Content(cd))
		}
		modules = append(modules, m)
	}
	return modules, nil
}
