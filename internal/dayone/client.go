// Package dayone adapts the Day One command-line tool. The coordinator only
// sees probe/list/dispatch; how invocations are assembled stays in here.
package dayone

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrDayOneNotFound means no dayone2 executable could be located.
var ErrDayOneNotFound = errors.New("dayone2 command not found; is the Day One CLI installed?")

// candidatePaths are checked before falling back to a PATH lookup.
var candidatePaths = []string{
	"/usr/local/bin/dayone2",
	"/opt/homebrew/bin/dayone2",
}

// dateLayout is the CLI's expected --date format; always paired with -z UTC.
const dateLayout = "2006-01-02 15:04:05"

// Payload is one entry dispatch: rendered text plus its metadata.
type Payload struct {
	Text        string
	Journal     string // empty omits --journal
	Tags        []string
	Date        time.Time
	Coordinate  *[2]float64 // latitude, longitude
	Attachments []string
}

// Runner executes the external command; swapped for a double in tests.
// Success is determined solely by the process exit status.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (output string, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// Client invokes the Day One CLI at a fixed executable path.
type Client struct {
	path   string
	runner Runner
	logger *zap.Logger
}

// Locate resolves the dayone2 executable, checking the known install
// locations first and PATH second. Fails closed when none is found.
func Locate(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("dayone2 not found at %s: %w", explicit, err)
		}
		return explicit, nil
	}
	for _, candidate := range candidatePaths {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	if path, err := exec.LookPath("dayone2"); err == nil {
		return path, nil
	}
	return "", ErrDayOneNotFound
}

// NewClient builds a client for an already-located executable.
func NewClient(path string, logger *zap.Logger) *Client {
	return &Client{path: path, runner: execRunner{}, logger: logger}
}

// NewClientWithRunner is the test seam.
func NewClientWithRunner(path string, runner Runner, logger *zap.Logger) *Client {
	return &Client{path: path, runner: runner, logger: logger}
}

// ListJournals queries the CLI for the configured journals, one per output
// line.
func (c *Client) ListJournals(ctx context.Context) ([]string, error) {
	out, err := c.runner.Run(ctx, c.path, "journals")
	if err != nil {
		return nil, fmt.Errorf("failed to list journals: %w", err)
	}
	var journals []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			journals = append(journals, line)
		}
	}
	return journals, nil
}

// Dispatch creates one entry. A failed invocation that carried attachments is
// retried exactly once without them: losing the photos beats losing the
// entry. The retry's result is final.
func (c *Client) Dispatch(ctx context.Context, p Payload) error {
	args := c.buildArgs(p, true)
	_, err := c.runner.Run(ctx, c.path, args...)
	if err == nil {
		return nil
	}

	if len(p.Attachments) > 0 {
		c.logger.Warn("dispatch with attachments failed, retrying without them",
			zap.Error(err))
		if _, retryErr := c.runner.Run(ctx, c.path, c.buildArgs(p, false)...); retryErr == nil {
			return nil
		} else {
			return fmt.Errorf("dispatch failed even without attachments: %w", retryErr)
		}
	}
	return fmt.Errorf("dispatch failed: %w", err)
}

func (c *Client) buildArgs(p Payload, withAttachments bool) []string {
	args := []string{"new", p.Text}

	if p.Journal != "" {
		args = append(args, "--journal", p.Journal)
	}
	if tags := normalizeTags(p.Tags); len(tags) > 0 {
		args = append(args, "--tags")
		args = append(args, tags...)
	}
	if !p.Date.IsZero() {
		args = append(args, "--date", p.Date.UTC().Format(dateLayout), "-z", "UTC")
	}
	if p.Coordinate != nil {
		args = append(args, "--coordinate",
			strconv.FormatFloat(p.Coordinate[0], 'f', -1, 64),
			strconv.FormatFloat(p.Coordinate[1], 'f', -1, 64))
	}
	if withAttachments && len(p.Attachments) > 0 {
		args = append(args, "--attachments")
		args = append(args, p.Attachments...)
	}
	return args
}

// normalizeTags deduplicates and sorts tags so invocations are deterministic.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	var out []string
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
