package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jseriesx/tweets2dayone/internal/entities"
)

// previewLimit bounds how much of an offending payload a decode error may
// carry. Full tweet bodies never end up in logs.
const previewLimit = 260

// DecodeTweets parses a tweets.js file: the JavaScript assignment preamble is
// stripped up to the first '[', the remainder decoded as an array of
// {"tweet": {...}} envelopes. Every tweet's created_at is parsed eagerly so a
// malformed date fails the whole decode instead of a later render.
func DecodeTweets(path string) ([]*entities.Tweet, error) {
	payload, err := readRecordArray(path)
	if err != nil {
		return nil, err
	}

	var envelopes []entities.TweetEnvelope
	if err := json.Unmarshal(payload, &envelopes); err != nil {
		return nil, decodeError(path, err.Error(), payload)
	}

	tweets := make([]*entities.Tweet, 0, len(envelopes))
	for _, env := range envelopes {
		if env.Tweet == nil {
			continue
		}
		t := env.Tweet
		posted, err := time.Parse(entities.CreatedAtLayout, t.CreatedAt)
		if err != nil {
			reason := fmt.Sprintf("tweet %s has malformed created_at: %v", t.IDStr, err)
			return nil, decodeError(path, reason, []byte(t.CreatedAt))
		}
		t.Posted = posted
		tweets = append(tweets, t)
	}
	return tweets, nil
}

// DecodeAccount parses data/account.js and returns the first account record.
// A missing file is not an error; archives without it simply lose display
// names and per-tweet platform links.
func DecodeAccount(path string) (*entities.Account, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	payload, err := readRecordArray(path)
	if err != nil {
		return nil, err
	}

	var envelopes []entities.AccountEnvelope
	if err := json.Unmarshal(payload, &envelopes); err != nil {
		return nil, decodeError(path, err.Error(), payload)
	}
	for _, env := range envelopes {
		if env.Account != nil {
			return env.Account, nil
		}
	}
	return nil, nil
}

// readRecordArray loads the file and strips the non-JSON header, e.g.
// "window.YTD.tweets.part0 = [...]", by cutting everything before the first
// '[' character.
func readRecordArray(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	start := strings.IndexByte(string(content), '[')
	if start < 0 {
		return nil, decodeError(path, "no JSON array found", content)
	}
	return content[start:], nil
}

func decodeError(path, reason string, payload []byte) error {
	return fmt.Errorf("failed to decode %s: %s (payload: %s)", path, reason, preview(payload))
}

// preview returns at most previewLimit characters of the payload with
// newlines escaped, keeping decode errors single-line and bounded.
func preview(payload []byte) string {
	s := string(payload)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\r", `\r`)
	if len(s) > previewLimit {
		s = s[:previewLimit]
	}
	return s
}
