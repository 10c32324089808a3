package entities

import "fmt"

// RunProgress is a snapshot emitted after every processed thread. Counters
// only ever advance within a run.
type RunProgress struct {
	Index    int    `json:"index"` // threads attempted so far, including this one
	Total    int    `json:"total"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Failed   int    `json:"failed"`
	ThreadID string `json:"thread_id"`
	Category string `json:"category"`
}

// RunSummary is the terminal snapshot of a run.
type RunSummary struct {
	Imported  int    `json:"imported"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
	Total     int    `json:"total"`
	Cancelled bool   `json:"cancelled"`
	Status    string `json:"status"`
	// TitleFallbacks lists the first reasons LLM titling degraded to the
	// category, capped by the title generator.
	TitleFallbacks []string `json:"title_fallbacks,omitempty"`
}

// StatusLine builds the human status string stored in Status.
func (s RunSummary) StatusLine() string {
	line := fmt.Sprintf("Imported %d, skipped %d, failed %d of %d threads",
		s.Imported, s.Skipped, s.Failed, s.Total)
	if s.Cancelled {
		line += " (cancelled)"
	}
	return line
}
