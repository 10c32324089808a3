// Package rewrite expands the t.co tokens inside tweet bodies. Standard links
// become markdown links, media links become Day One attachment placeholders,
// and each tweet gains the ordered list of local attachment files backing
// those placeholders.
package rewrite

import (
	"net/url"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/jseriesx/tweets2dayone/internal/entities"
)

// AttachmentPlaceholder is the token Day One replaces with the n-th attached
// file, one per media item.
const AttachmentPlaceholder = "[{attachment}]"

// TruncatedLinkMarker replaces links the 140-character era cut off mid-token;
// no entity can resolve those.
const TruncatedLinkMarker = "[link truncated]"

// truncatedLinkPattern matches a t.co token immediately followed by the
// ellipsis the platform appended when truncating.
var truncatedLinkPattern = regexp.MustCompile(`https?://t\.co/[A-Za-z0-9]+…`)

type mediaItem struct {
	mediaURL string
	kind     string
}

// Rewrite edits the tweet's text in place and fills MediaFiles with local
// attachment paths under mediaDir. It performs no rendering; escaping and
// aggregation happen later.
func Rewrite(t *entities.Tweet, mediaDir string) {
	text := truncatedLinkPattern.ReplaceAllString(t.FullText, TruncatedLinkMarker)

	mediaByToken := collectMedia(t)

	// Replace longest tokens first so a token that happens to be a prefix
	// of another is never clobbered by a partial match.
	links := make([]entities.URLEntity, 0, len(t.Entities.URLs))
	for _, u := range t.Entities.URLs {
		if u.URL == "" || u.ExpandedURL == "" {
			continue
		}
		if _, isMedia := mediaByToken[u.URL]; isMedia {
			continue
		}
		links = append(links, u)
	}
	sort.Slice(links, func(i, j int) bool { return len(links[i].URL) > len(links[j].URL) })

	for _, u := range links {
		display := u.DisplayURL
		if display == "" {
			display = u.ExpandedURL
		}
		text = strings.ReplaceAll(text, u.URL, "["+display+"]("+u.ExpandedURL+")")
	}

	tokens := make([]string, 0, len(mediaByToken))
	for token := range mediaByToken {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if len(tokens[i]) != len(tokens[j]) {
			return len(tokens[i]) > len(tokens[j])
		}
		return tokens[i] < tokens[j]
	})

	t.MediaFiles = nil
	for _, token := range tokens {
		items := mediaByToken[token]
		// One placeholder per media item: a single token can stand for a
		// multi-photo gallery.
		text = strings.ReplaceAll(text, token, strings.Repeat(AttachmentPlaceholder, len(items)))
		for _, item := range items {
			t.MediaFiles = append(t.MediaFiles, filepath.Join(mediaDir, t.IDStr+"-"+localFilename(item)))
		}
	}

	t.FullText = strings.TrimSpace(text)
}

// collectMedia groups the tweet's media items by their t.co token, preferring
// the richer extended_entities list when it is non-empty.
func collectMedia(t *entities.Tweet) map[string][]mediaItem {
	media := t.Entities.Media
	if t.ExtendedEntities != nil && len(t.ExtendedEntities.Media) > 0 {
		media = t.ExtendedEntities.Media
	}

	byToken := make(map[string][]mediaItem)
	for _, m := range media {
		if m.URL == "" {
			continue
		}
		switch m.Type {
		case "photo":
			if m.MediaURLHTTPS != "" {
				byToken[m.URL] = append(byToken[m.URL], mediaItem{mediaURL: m.MediaURLHTTPS, kind: m.Type})
			}
		case "video", "animated_gif":
			if best := bestVariant(m.VideoInfo); best != "" {
				byToken[m.URL] = append(byToken[m.URL], mediaItem{mediaURL: best, kind: m.Type})
			}
		}
	}
	return byToken
}

// bestVariant picks the MP4 variant with the highest declared bitrate.
func bestVariant(info *entities.VideoInfo) string {
	if info == nil {
		return ""
	}
	bestURL := ""
	bestBitrate := entities.FlexInt(-1)
	for _, v := range info.Variants {
		if v.ContentType != "video/mp4" || v.URL == "" {
			continue
		}
		if v.Bitrate > bestBitrate {
			bestBitrate = v.Bitrate
			bestURL = v.URL
		}
	}
	return bestURL
}

// localFilename derives the archive filename for a media item: the URL's
// basename with any query string stripped, forced to .mp4 for converted
// video and animated_gif items.
func localFilename(item mediaItem) string {
	name := item.mediaURL
	if u, err := url.Parse(item.mediaURL); err == nil {
		name = path.Base(u.Path)
	} else if i := strings.IndexByte(name, '?'); i >= 0 {
		name = path.Base(name[:i])
	}
	if i := strings.IndexByte(name, '?'); i >= 0 {
		name = name[:i]
	}
	if item.kind == "video" || item.kind == "animated_gif" {
		name = strings.TrimSuffix(name, path.Ext(name)) + ".mp4"
	}
	return name
}
