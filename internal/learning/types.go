package learning

import (
	"errors"
)

// Module categories. CategoryAll disables category filtering.
const (
	CategoryAll         = "all"
	CategoryFoundations = "foundations"
	CategoryAdvanced    = "advanced"
	CategoryPractical   = "practical"
)

var (
	ErrModuleNotFound  = errors.New("module not found")
	ErrContentNotFound = errors.New("content not found")
	ErrInvalidProgress = errors.New("progress must be between 0 and 100")
	ErrInvalidCategory = errors.New("unknown module category")
)

// Content is one readable item inside a module.
type Content struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	EstimatedReadTime string `json:"estimated_read_time"`
	Body              string `json:"body"`
}

// Module is a learning module and its ordered contents.
type Module struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    string    `json:"duration"`
	Category    string    `json:"category"`
	Featured    bool      `json:"featured"`
	IsNew       bool      `json:"is_new"`
	Topics      []string  `json:"topics"`
	Contents    []Content `json:"contents"`
}

// Filter narrows a module listing. Zero value matches everything.
type Filter struct {
	Search   string
	Category string
}

// Progress is one user's standing in a module.
type Progress struct {
	ModuleID          string   `json:"module_id"`
	Percent           int      `json:"progress"`
	CompletedContents []string `json:"completed_contents"`
}

// Summary is the listing view of a module with the caller's progress.
type Summary struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Duration     string   `json:"duration"`
	Category     string   `json:"category"`
	Featured     bool     `json:"featured"`
	IsNew        bool     `json:"is_new"`
	Topics       []string `json:"topics"`
	ContentCount int      `json:"content_count"`
	Progress     int      `json:"progress"`
}

// ContentView is a content item with the caller's completion flag.
type ContentView struct {
	Content
	Completed bool `json:"completed"`
}

// Detail is the full module view.
type Detail struct {
	Summary
	Contents []ContentView `json:"contents"`
}

func validCategory(c string) bool {
	switch c {
	case "", CategoryAll, CategoryFoundations, CategoryAdvanced, CategoryPractical:
		return true
	default:
		return false
	}
}

func summarize(m Module, p Progress) Summary {
	return Summary{
		ID:           m.ID,
		Title:        m.Title,
		Description:  m.Description,
		Duration:     m.Duration,
		Category:     m.Category,
		Featured:     m.Featured,
		IsNew:        m.IsNew,
		Topics:       append([]string(nil), m.Topics...),
		ContentCount: len(m.Contents),
		Progress:     p.Percent,
	}
}
