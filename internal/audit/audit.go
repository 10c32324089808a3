// Package audit persists run summaries as JSON artifacts for later
// inspection.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jseriesx/tweets2dayone/internal/entities"
)

type Writer struct {
	Dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir}
}

type runArtifact struct {
	RecordedAt time.Time           `json:"recorded_at"`
	Summary    entities.RunSummary `json:"summary"`
}

// SaveRunSummary writes the summary as <uuid>.json under the audit directory
// and returns the filename.
func (w *Writer) SaveRunSummary(summary entities.RunSummary) (string, error) {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create audit directory: %w", err)
	}

	filename := fmt.Sprintf("%s.json", uuid.New().String())
	data, err := json.MarshalIndent(runArtifact{
		RecordedAt: time.Now().UTC(),
		Summary:    summary,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal run summary: %w", err)
	}

	if err := os.WriteFile(filepath.Join(w.Dir, filename), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write audit file: %w", err)
	}
	return filename, nil
}
