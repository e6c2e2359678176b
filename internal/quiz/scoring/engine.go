package scoring

// Band classifies a finished attempt by its percentage.
type Band string

const (
	BandExcellent      Band = "excellent"
	BandGood           Band = "good"
	BandFair           Band = "fair"
	BandKeepPracticing Band = "keep_practicing"
)

// Config holds the band thresholds and the message shown for each band.
type Config struct {
	ExcellentAt int // default: 90
	GoodAt      int // default: 70
	FairAt      int // default: 50
	Messages    map[Band]string
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		ExcellentAt: 90,
		GoodAt:      70,
		FairAt:      50,
		Messages: map[Band]string{
			BandExcellent:      "Sempurna! Anda ahli literasi media!",
			BandGood:           "Bagus! Anda memiliki pengetahuan literasi media yang baik.",
			BandFair:           "Usaha yang baik! Terus belajar untuk meningkatkan keterampilan Anda.",
			BandKeepPracticing: "Terus berlatih! Literasi media membutuhkan waktu untuk dikuasai.",
		},
	}
}

// Report is the outcome of one completed pass through a quiz.
type Report struct {
	Correct    int    `json:"correct"`
	Total      int    `json:"total"`
	Incorrect  int    `json:"incorrect"`
	Percentage int    `json:"percentage"`
	Band       Band   `json:"band"`
	Message    string `json:"message"`
}

// Engine turns raw correct counts into reports.
type Engine struct {
	config Config
}

// NewEngine creates a scoring engine with the provided config.
// Missing messages fall back to the defaults.
func NewEngine(config Config) *Engine {
	defaults := DefaultConfig()
	msgs := make(map[Band]string, len(defaults.Messages))
	for band, msg := range defaults.Messages {
		msgs[band] = msg
	}
	for band, msg := range config.Messages {
		msgs[band] = msg
	}
	config.Messages = msgs
	return &Engine{config: config}
}

// Default returns an engine using DefaultConfig.
func Default() *Engine {
	return NewEngine(DefaultConfig())
}

// Percentage returns round(100*correct/total) with halves rounded up.
// A zero total yields 0.
func Percentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	if correct < 0 {
		correct = 0
	}
	if correct > total {
		correct = total
	}
	return (200*correct + total) / (2 * total)
}

// Band maps a percentage to its band. Thresholds are inclusive.
func (e *Engine) Band(percentage int) Band {
	switch {
	case percentage >= e.config.ExcellentAt:
		return BandExcellent
	case percentage >= e.config.GoodAt:
		return BandGood
	case percentage >= e.config.FairAt:
		return BandFair
	default:
		return BandKeepPracticing
	}
}

// Message returns the feedback text for a band.
func (e *Engine) Message(band Band) string {
	return e.config.Messages[band]
}

// Report computes the full report for a finished pass.
func (e *Engine) Report(correct, total int) Report {
	pct := Percentage(correct, total)
	band := e.Band(pct)
	return Report{
		Correct:    correct,
		Total:      total,
		Incorrect:  total - correct,
		Percentage: pct,
		Band:       band,
		Message:    e.Message(band),
	}
}
