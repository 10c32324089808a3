package entities

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CreatedAtLayout is the timestamp format used by Twitter archive exports,
// e.g. "Fri Jun 27 10:00:00 +0000 2025".
const CreatedAtLayout = "Mon Jan 2 15:04:05 -0700 2006"

// FlexInt decodes a JSON value that archives emit either as a number or as a
// numeric string ("favorite_count": "10" vs 10). Empty and null decode to zero.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("not a numeric value: %q", string(data))
	}
	*f = FlexInt(n)
	return nil
}

// TweetEnvelope is one element of the tweets.js array: {"tweet": {...}}.
type TweetEnvelope struct {
	Tweet *Tweet `json:"tweet"`
}

// AccountEnvelope is one element of the account.js array: {"account": {...}}.
type AccountEnvelope struct {
	Account *Account `json:"account"`
}

// Account holds the archive owner's profile record from data/account.js.
type Account struct {
	Email              string `json:"email"`
	Username           string `json:"username"`
	AccountID          string `json:"accountId"`
	AccountDisplayName string `json:"accountDisplayName"`
}

// Tweet is a single exported post. FullText is rewritten in place by the link
// rewriter (t.co expansion) and once more by the classifier (prefix stripping)
// before rendering; no other component mutates it.
type Tweet struct {
	IDStr               string            `json:"id_str"`
	FullText            string            `json:"full_text"`
	CreatedAt           string            `json:"created_at"`
	FavoriteCount       FlexInt           `json:"favorite_count"`
	RetweetCount        FlexInt           `json:"retweet_count"`
	InReplyToStatusID   string            `json:"in_reply_to_status_id_str"`
	InReplyToScreenName string            `json:"in_reply_to_screen_name"`
	Entities            TweetEntities     `json:"entities"`
	ExtendedEntities    *ExtendedEntities `json:"extended_entities"`
	Coordinates         *Coordinates      `json:"coordinates"`

	// Posted is CreatedAt parsed by the decoder.
	Posted time.Time `json:"-"`
	// MediaFiles holds resolved local attachment paths, populated by the
	// link rewriter in the order their tokens appear in the text.
	MediaFiles []string `json:"-"`
}

// IsReply reports whether the tweet is a reply to any post, in-archive or not.
func (t *Tweet) IsReply() bool {
	return t.InReplyToStatusID != ""
}

type TweetEntities struct {
	URLs         []URLEntity   `json:"urls"`
	Media        []MediaEntity `json:"media"`
	Hashtags     []Hashtag     `json:"hashtags"`
	UserMentions []UserMention `json:"user_mentions"`
}

type ExtendedEntities struct {
	Media []MediaEntity `json:"media"`
}

type URLEntity struct {
	URL         string `json:"url"` // the t.co token as it appears in full_text
	ExpandedURL string `json:"expanded_url"`
	DisplayURL  string `json:"display_url"`
}

type MediaEntity struct {
	URL           string     `json:"url"` // t.co token
	MediaURLHTTPS string     `json:"media_url_https"`
	Type          string     `json:"type"` // photo, video, animated_gif
	VideoInfo     *VideoInfo `json:"video_info"`
}

type VideoInfo struct {
	Variants []VideoVariant `json:"variants"`
}

type VideoVariant struct {
	Bitrate     FlexInt `json:"bitrate"`
	ContentType string  `json:"content_type"`
	URL         string  `json:"url"`
}

type Hashtag struct {
	Text string `json:"text"`
}

type UserMention struct {
	ScreenName string `json:"screen_name"`
	Name       string `json:"name"`
}

// Coordinates is a GeoJSON point; the array is longitude-first.
type Coordinates struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// Latitude returns the point's latitude (second GeoJSON component).
func (c *Coordinates) Latitude() float64 { return c.Coordinates[1] }

// Longitude returns the point's longitude (first GeoJSON component).
func (c *Coordinates) Longitude() float64 { return c.Coordinates[0] }

// DisplayName resolves a handle against the tweet's mention table, returning
// the mentioned user's real name when known and "@handle" otherwise. The
// lookup is case-insensitive because archives are inconsistent about casing.
func (t *Tweet) DisplayName(handle string) string {
	for _, m := range t.Entities.UserMentions {
		if strings.EqualFold(m.ScreenName, handle) && m.Name != "" {
			return m.Name
		}
	}
	return "@" + handle
}

// LessID compares two decimal tweet identifiers numerically. Archive array
// order is not reply-ordered, so ascending-id comparison is what establishes
// chronology when grouping threads.
func LessID(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
