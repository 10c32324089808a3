// Package render turns a classified thread into one Day One-ready markdown
// document. Rendering is a pure function of its inputs: the same thread,
// category, and title always produce byte-identical output.
package render

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jseriesx/tweets2dayone/internal/entities"
	"github.com/jseriesx/tweets2dayone/internal/utils"
)

// threadGap is the silence after which a follow-up tweet gets a
// "(sent N units later)" note.
const threadGap = 600 * time.Second

var mentionPattern = regexp.MustCompile(`@\w+`)

// Entry is the rendered journal payload for one thread.
type Entry struct {
	Text        string
	Tags        []string // hashtags in thread order, not yet deduplicated
	Attachments []string
	Date        time.Time
	Coordinate  *entities.Coordinates
}

// Renderer renders threads for one archive owner. An empty owner handle
// degrades metrics to plain text since per-status links cannot be built.
type Renderer struct {
	ownerHandle string
}

func New(ownerHandle string) *Renderer {
	return &Renderer{ownerHandle: ownerHandle}
}

// AggregateText joins the thread's rewritten bodies with blank lines. This is
// the pre-render text handed to the title generator and used for mention
// collection; it carries no headings, metrics, or escaping.
func (r *Renderer) AggregateText(thread entities.Thread) string {
	parts := make([]string, len(thread))
	for i, t := range thread {
		parts[i] = t.FullText
	}
	return strings.Join(parts, "\n\n")
}

// Render builds the final entry for a thread under the given category and
// title.
func (r *Renderer) Render(thread entities.Thread, cat entities.Category, title string) Entry {
	root := thread.Root()
	var b strings.Builder

	for i, t := range thread {
		if i > 0 {
			b.WriteString("\n\n___\n\n")
		}
		b.WriteString(escapeMarkdown(t.FullText))
		if i > 0 {
			if gap := t.Posted.Sub(root.Posted); gap > threadGap {
				b.WriteString("\n*(sent " + humanizeGap(gap) + " later)*")
			}
		}
		if metrics := r.metricsLine(t); metrics != "" {
			b.WriteString("\n\n" + metrics)
		}
	}

	if cat.Kind == entities.KindReply && root.InReplyToStatusID != "" {
		parentURL := "https://twitter.com/i/web/status/" + root.InReplyToStatusID
		mentions := collectMentions(r.AggregateText(thread))
		b.WriteString(fmt.Sprintf("\n\nIn response to [this tweet](%s), which is part of the conversation with %s",
			parentURL, utils.JoinNatural(mentions)))
	}

	b.WriteString("\n\n___\nOpen on [twitter.com](" + r.statusURL(root) + ")\n")

	entry := Entry{
		Text: "# " + title + "\n\n" + b.String(),
		Date: root.Posted,
	}
	for _, t := range thread {
		for _, h := range t.Entities.Hashtags {
			entry.Tags = append(entry.Tags, h.Text)
		}
		entry.Attachments = append(entry.Attachments, t.MediaFiles...)
		if entry.Coordinate == nil && t.Coordinates != nil {
			entry.Coordinate = t.Coordinates
		}
	}
	return entry
}

// metricsLine renders like/retweet counts for one tweet. Counts of zero are
// omitted; an empty line is omitted entirely. With a known owner handle the
// counts link to the platform's own like/retweet views.
func (r *Renderer) metricsLine(t *entities.Tweet) string {
	likes := int(t.FavoriteCount)
	rts := int(t.RetweetCount)
	var parts []string

	if r.ownerHandle != "" {
		url := r.statusURL(t)
		if likes > 0 {
			parts = append(parts, fmt.Sprintf("[Likes: %d](%s/likes) ⭐️", likes, url))
		}
		if rts > 0 {
			parts = append(parts, fmt.Sprintf("[Retweets: %d](%s/retweets) 🔁", rts, url))
		}
	} else {
		if likes > 0 {
			parts = append(parts, fmt.Sprintf("Likes: %d ⭐️", likes))
		}
		if rts > 0 {
			parts = append(parts, fmt.Sprintf("Retweets: %d 🔁", rts))
		}
	}
	return strings.Join(parts, "   ")
}

func (r *Renderer) statusURL(t *entities.Tweet) string {
	if r.ownerHandle == "" {
		return "https://twitter.com/i/web/status/" + t.IDStr
	}
	return "https://twitter.com/" + r.ownerHandle + "/status/" + t.IDStr
}

// collectMentions returns the @handle tokens of the text in order of first
// appearance, duplicates removed.
func collectMentions(text string) []string {
	var mentions []string
	seen := make(map[string]struct{})
	for _, m := range mentionPattern.FindAllString(text, -1) {
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		mentions = append(mentions, m)
	}
	return mentions
}

// escapeMarkdown backslash-escapes the structural markdown a tweet body could
// accidentally contain: real headings (`# `, not hashtags like #AI), list and
// blockquote markers at line starts, and the inline characters * ` | !.
// Links inserted by the rewriter survive because brackets and parentheses are
// left alone.
func escapeMarkdown(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "# ") {
			line = `\` + line
		} else if line != "" && strings.ContainsRune("-+>", rune(line[0])) {
			line = `\` + line
		}
		lines = append(lines, line)
	}
	escaped := strings.Join(lines, "\n")

	for _, ch := range []string{"*", "`", "|", "!"} {
		escaped = strings.ReplaceAll(escaped, ch, `\`+ch)
	}
	return escaped
}

// humanizeGap renders a duration using its single largest applicable unit.
func humanizeGap(d time.Duration) string {
	type unit struct {
		span time.Duration
		name string
	}
	units := []unit{
		{365 * 24 * time.Hour, "year"},
		{30 * 24 * time.Hour, "month"},
		{7 * 24 * time.Hour, "week"},
		{24 * time.Hour, "day"},
		{time.Hour, "hour"},
		{time.Minute, "minute"},
	}
	for _, u := range units {
		if d >= u.span {
			n := int(d / u.span)
			if n == 1 {
				return "1 " + u.name
			}
			return fmt.Sprintf("%d %ss", n, u.name)
		}
	}
	return "moments"
}
