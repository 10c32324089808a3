// Package ollama is a minimal client for a local Ollama server's generate
// API, used to derive short entry titles.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jseriesx/tweets2dayone/internal/config"
)

const (
	defaultGeneratePath = "/api/generate"
	tagsPath            = "/api/tags"

	probeTimeout = 3 * time.Second
)

// Client talks to one Ollama endpoint with fixed generation options.
type Client struct {
	generateURL string
	baseURL     string
	model       string
	options     generateOptions
	httpClient  *http.Client
}

type generateOptions struct {
	NumPredict  int     `json:"num_predict"`
	Temperature float64 `json:"temperature"`
	NumCtx      int     `json:"num_ctx"`
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Think   bool            `json:"think"`
	Options generateOptions `json:"options"`
}

// generateResponse accepts both the native Ollama shape ("response") and the
// OpenAI-compatible chat shape ("message.content") some proxies return.
type generateResponse struct {
	Response string `json:"response"`
	Message  struct {
		Content string `json:"content"`
	} `json:"message"`
}

// NewClient builds a client from the Ollama config section. A bare host URL
// (no path) gets the default generate path appended.
func NewClient(cfg config.Ollama) (*Client, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama URL %q: %w", cfg.URL, err)
	}
	base := *u
	base.Path = ""
	if u.Path == "" || u.Path == "/" {
		u.Path = defaultGeneratePath
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		generateURL: u.String(),
		baseURL:     base.String(),
		model:       cfg.Model,
		options: generateOptions{
			NumPredict:  cfg.NumPredict,
			Temperature: cfg.Temperature,
			NumCtx:      cfg.NumCtx,
		},
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Generate issues one completion request and returns the trimmed response
// text. An empty response is an error so callers can fall back uniformly.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:   c.model,
		Prompt:  prompt,
		Stream:  false,
		Think:   false,
		Options: c.options,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.generateURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(snippet))
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	text := strings.TrimSpace(decoded.Response)
	if text == "" {
		text = strings.TrimSpace(decoded.Message.Content)
	}
	if text == "" {
		return "", fmt.Errorf("empty completion response")
	}
	return text, nil
}

// Probe checks server reachability via the tag-listing endpoint; any 2xx
// counts as reachable.
func (c *Client) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+tagsPath, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ollama unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}
	return nil
}
