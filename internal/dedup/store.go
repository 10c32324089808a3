// Package dedup persists the set of thread root ids already sent to the
// journal. The format is shared with earlier tooling: plain text at the
// archive root, one id per line, order irrelevant.
package dedup

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const fileName = "processed_tweets.txt"

// Store appends to and reads <archive-root>/processed_tweets.txt. Dispatch is
// strictly sequential, so atomic append is the only concurrency requirement.
type Store struct {
	path string
}

func New(archiveRoot string) *Store {
	return &Store{path: filepath.Join(archiveRoot, fileName)}
}

// Path returns the backing file's location.
func (s *Store) Path() string { return s.path }

// Load reads the processed-id set. A missing file is an empty set; blank
// lines are ignored.
func (s *Store) Load() (map[string]struct{}, error) {
	file, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return map[string]struct{}{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer file.Close()

	ids := make(map[string]struct{})
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			ids[line] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	return ids, nil
}

// Add appends one id, opening and closing the file around the write so a
// crash mid-run loses at most the in-flight entry.
func (s *Store) Add(id string) error {
	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer file.Close()

	if _, err := fmt.Fprintln(file, id); err != nil {
		return fmt.Errorf("failed to append to %s: %w", s.path, err)
	}
	return nil
}
