// Package classify assigns each thread a social category from its root tweet.
// The rules run in a fixed precedence order and the first match wins; some
// rules also strip their matched prefix from the body, so classification
// returns the rewritten body alongside the category instead of mutating
// shared state out from under the renderer.
package classify

import (
	"regexp"
	"strings"

	"github.com/jseriesx/tweets2dayone/internal/entities"
	"github.com/jseriesx/tweets2dayone/internal/utils"
)

var (
	// RT @handle: ..., tolerating the quote styles archives contain:
	// RT "@handle: and RT @handle": both occur.
	retweetPattern = regexp.MustCompile(`(?s)^RT\s+"?@([A-Za-z0-9_]+)"?:\s*(.*)`)

	// A retweet marker buried mid-text marks a quote-style manual RT.
	embeddedRTMarker = " RT @"

	handlePattern = regexp.MustCompile(`@([A-Za-z0-9_]+)`)

	// Leading callout: @handle or .@handle, optionally quoted.
	calloutPattern = regexp.MustCompile(`^\s*"?\.?@([A-Za-z0-9_]+)"?\s*`)

	embeddedHandlePattern = regexp.MustCompile(` RT @([A-Za-z0-9_]+)`)

	statusLinkPattern = regexp.MustCompile(`(?:twitter\.com|x\.com)/([A-Za-z0-9_]+)/status(?:es)?/(\d+)`)
)

// Classifier categorizes threads against the archive owner's identity.
type Classifier struct {
	ownerHandle string
	ownIDs      map[string]struct{}
}

// New builds a classifier. ownerHandle may be empty when the archive carries
// no account record; ownIDs is the set of every tweet id in the archive.
func New(ownerHandle string, ownIDs map[string]struct{}) *Classifier {
	return &Classifier{ownerHandle: ownerHandle, ownIDs: ownIDs}
}

// Classify inspects the thread's first tweet and returns its category plus
// the body text the renderer should use for that tweet (classification
// prefixes stripped). Later tweets never change the category.
func (c *Classifier) Classify(thread entities.Thread) (entities.Category, string) {
	first := thread.Root()
	body := first.FullText

	// 1. Direct retweet: RT @handle: content.
	if m := retweetPattern.FindStringSubmatch(body); m != nil {
		handle, remainder := m[1], m[2]
		return entities.Category{
			Kind:    entities.KindRetweet,
			Label:   "Retweeted " + first.DisplayName(handle),
			Handles: []string{handle},
		}, remainder
	}

	// 2. Quote: a twitter/x status link that is not a media token, on a
	// tweet that is not itself a reply.
	if !first.IsReply() {
		if link, ok := c.quoteLink(first); ok {
			return c.quoteCategory(first, link), body
		}
	}

	// 3. Manual quote: an embedded " RT @" marker anywhere, no stripping.
	if strings.Contains(body, embeddedRTMarker) {
		if link, ok := c.quoteLink(first); ok {
			return c.quoteCategory(first, link), body
		}
		if m := embeddedHandlePattern.FindStringSubmatch(body); m != nil {
			return c.quoteCategory(first, statusLink{handle: m[1]}), body
		}
		return entities.Category{Kind: entities.KindQuote, Label: "Quoted a tweet"}, body
	}

	// 4. Reply.
	if first.IsReply() {
		return replyCategory(first), body
	}

	// 5. Callout: opens by addressing accounts without being a reply.
	if calloutPattern.MatchString(body) {
		return calloutCategory(first, body)
	}

	// 6. Multi-tweet thread.
	if len(thread) > 1 {
		return entities.Category{Kind: entities.KindThread, Label: "Wrote a thread"}, body
	}

	// 7. Standalone tweet.
	return entities.Category{Kind: entities.KindTweet, Label: "Tweeted"}, body
}

type statusLink struct {
	handle   string
	statusID string
}

// quoteLink finds the first twitter/x status link among the tweet's url
// entities whose token is not also a media token.
func (c *Classifier) quoteLink(t *entities.Tweet) (statusLink, bool) {
	mediaTokens := make(map[string]struct{})
	media := t.Entities.Media
	if t.ExtendedEntities != nil && len(t.ExtendedEntities.Media) > 0 {
		media = t.ExtendedEntities.Media
	}
	for _, m := range media {
		mediaTokens[m.URL] = struct{}{}
	}

	for _, u := range t.Entities.URLs {
		if u.ExpandedURL == "" {
			continue
		}
		if !strings.Contains(u.ExpandedURL, "twitter.com") && !strings.Contains(u.ExpandedURL, "x.com") {
			continue
		}
		if _, isMedia := mediaTokens[u.URL]; isMedia {
			continue
		}
		link := statusLink{}
		if m := statusLinkPattern.FindStringSubmatch(u.ExpandedURL); m != nil {
			link.handle = m[1]
			link.statusID = m[2]
		}
		return link, true
	}
	return statusLink{}, false
}

// quoteCategory labels a quote. An in-archive status id is the authoritative
// self-quote signal; a bare handle match is accepted as a fallback even when
// the id is foreign. That fallback can misfire if someone later took over
// the owner's old handle — known limitation, kept deliberately.
func (c *Classifier) quoteCategory(t *entities.Tweet, link statusLink) entities.Category {
	self := false
	if link.statusID != "" {
		_, self = c.ownIDs[link.statusID]
	}
	if !self && link.handle != "" && c.ownerHandle != "" {
		self = strings.EqualFold(link.handle, c.ownerHandle)
	}

	if self {
		return entities.Category{Kind: entities.KindQuote, Label: "Quoted myself", SelfQuote: true}
	}
	if link.handle == "" || strings.EqualFold(link.handle, "i") {
		// /i/web/status/ links carry no author handle.
		return entities.Category{Kind: entities.KindQuote, Label: "Quoted a tweet"}
	}
	return entities.Category{
		Kind:    entities.KindQuote,
		Label:   "Quoted " + t.DisplayName(link.handle),
		Handles: []string{link.handle},
	}
}

func replyCategory(t *entities.Tweet) entities.Category {
	var handles []string
	seen := make(map[string]struct{})
	for _, m := range handlePattern.FindAllStringSubmatch(t.FullText, -1) {
		h := m[1]
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		handles = append(handles, h)
	}
	if len(handles) == 0 && t.InReplyToScreenName != "" {
		handles = []string{t.InReplyToScreenName}
	}
	if len(handles) == 0 {
		return entities.Category{Kind: entities.KindNotReply, Label: "Not a reply"}
	}

	displays := make([]string, len(handles))
	for i, h := range handles {
		displays[i] = t.DisplayName(h)
	}
	return entities.Category{
		Kind:    entities.KindReply,
		Label:   "Replied to " + utils.JoinNatural(displays),
		Handles: handles,
	}
}

// calloutCategory extracts all leading callout handles and returns the body
// with them stripped.
func calloutCategory(t *entities.Tweet, body string) (entities.Category, string) {
	var handles []string
	rest := body
	for {
		m := calloutPattern.FindStringSubmatch(rest)
		if m == nil {
			break
		}
		handles = append(handles, m[1])
		rest = rest[len(m[0]):]
	}

	displays := make([]string, len(handles))
	for i, h := range handles {
		displays[i] = t.DisplayName(h)
	}
	return entities.Category{
		Kind:    entities.KindCallout,
		Label:   "Callout to " + utils.JoinNatural(displays),
		Handles: handles,
	}, strings.TrimSpace(rest)
}
