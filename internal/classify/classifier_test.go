package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jseriesx/tweets2dayone/internal/entities"
)

func singleThread(t *entities.Tweet) entities.Thread {
	return entities.Thread{t}
}

func TestClassifyRetweet(t *testing.T) {
	c := New("me", nil)

	t.Run("prefix is stripped from the body", func(t *testing.T) {
		cat, body := c.Classify(singleThread(&entities.Tweet{
			IDStr:    "1",
			FullText: "RT @alice: hello world",
		}))
		assert.Equal(t, entities.KindRetweet, cat.Kind)
		assert.Equal(t, "Retweeted @alice", cat.Label)
		assert.Equal(t, "hello world", body)
	})

	t.Run("mention table resolves the display name", func(t *testing.T) {
		cat, _ := c.Classify(singleThread(&entities.Tweet{
			IDStr:    "1",
			FullText: "RT @alice: hello",
			Entities: entities.TweetEntities{
				UserMentions: []entities.UserMention{{ScreenName: "alice", Name: "Alice Smith"}},
			},
		}))
		assert.Equal(t, "Retweeted Alice Smith", cat.Label)
	})

	t.Run("quoted handle styles still match", func(t *testing.T) {
		for _, text := range []string{
			`RT "@alice: hi`,
			`RT @alice": hi`,
		} {
			cat, body := c.Classify(singleThread(&entities.Tweet{IDStr: "1", FullText: text}))
			assert.Equal(t, entities.KindRetweet, cat.Kind, text)
			assert.Equal(t, "hi", body, text)
		}
	})

	t.Run("retweet beats quote link", func(t *testing.T) {
		cat, _ := c.Classify(singleThread(&entities.Tweet{
			IDStr:    "1",
			FullText: "RT @alice: see https://t.co/x",
			Entities: entities.TweetEntities{
				URLs: []entities.URLEntity{{URL: "https://t.co/x", ExpandedURL: "https://twitter.com/bob/status/123"}},
			},
		}))
		assert.Equal(t, entities.KindRetweet, cat.Kind)
	})
}

func TestClassifyQuote(t *testing.T) {
	quoteTweet := func(expanded string) *entities.Tweet {
		return &entities.Tweet{
			IDStr:    "1",
			FullText: "worth reading [link](" + expanded + ")",
			Entities: entities.TweetEntities{
				URLs: []entities.URLEntity{{URL: "https://t.co/x", ExpandedURL: expanded}},
			},
		}
	}

	t.Run("foreign status link", func(t *testing.T) {
		c := New("me", map[string]struct{}{})
		cat, body := c.Classify(singleThread(quoteTweet("https://twitter.com/bob/status/123")))
		assert.Equal(t, entities.KindQuote, cat.Kind)
		assert.Equal(t, "Quoted @bob", cat.Label)
		assert.False(t, cat.SelfQuote)
		assert.Contains(t, body, "worth reading")
	})

	t.Run("x.com links count too", func(t *testing.T) {
		c := New("me", nil)
		cat, _ := c.Classify(singleThread(quoteTweet("https://x.com/bob/status/123")))
		assert.Equal(t, "Quoted @bob", cat.Label)
	})

	t.Run("in-archive status id marks a self-quote", func(t *testing.T) {
		c := New("me", map[string]struct{}{"123": {}})
		cat, _ := c.Classify(singleThread(quoteTweet("https://twitter.com/whoever/status/123")))
		assert.Equal(t, "Quoted myself", cat.Label)
		assert.True(t, cat.SelfQuote)
	})

	t.Run("owner handle marks a self-quote even for a foreign id", func(t *testing.T) {
		c := New("me", map[string]struct{}{})
		cat, _ := c.Classify(singleThread(quoteTweet("https://twitter.com/ME/status/999")))
		assert.True(t, cat.SelfQuote)
	})

	t.Run("authorless web link stays anonymous", func(t *testing.T) {
		c := New("me", nil)
		cat, _ := c.Classify(singleThread(quoteTweet("https://twitter.com/i/web/status/123")))
		assert.Equal(t, "Quoted a tweet", cat.Label)
	})

	t.Run("media token is not a quote link", func(t *testing.T) {
		c := New("me", nil)
		tw := &entities.Tweet{
			IDStr:    "1",
			FullText: "just a photo",
			Entities: entities.TweetEntities{
				URLs:  []entities.URLEntity{{URL: "https://t.co/x", ExpandedURL: "https://twitter.com/me/status/1/photo/1"}},
				Media: []entities.MediaEntity{{URL: "https://t.co/x", Type: "photo"}},
			},
		}
		cat, _ := c.Classify(singleThread(tw))
		assert.Equal(t, entities.KindTweet, cat.Kind)
	})

	t.Run("embedded RT marker without a link", func(t *testing.T) {
		c := New("me", nil)
		cat, body := c.Classify(singleThread(&entities.Tweet{
			IDStr:    "1",
			FullText: "great point RT @dave original text",
		}))
		assert.Equal(t, entities.KindQuote, cat.Kind)
		assert.Equal(t, "Quoted @dave", cat.Label)
		assert.Equal(t, "great point RT @dave original text", body)
	})
}

func TestClassifyReply(t *testing.T) {
	c := New("me", nil)

	t.Run("handles collected in order, deduplicated", func(t *testing.T) {
		cat, _ := c.Classify(singleThread(&entities.Tweet{
			IDStr:             "1",
			FullText:          "@bob @carol yes @bob exactly",
			InReplyToStatusID: "99",
		}))
		assert.Equal(t, entities.KindReply, cat.Kind)
		assert.Equal(t, "Replied to @bob and @carol", cat.Label)
		assert.Equal(t, []string{"bob", "carol"}, cat.Handles)
	})

	t.Run("screen name fallback when the body carries no mention", func(t *testing.T) {
		cat, _ := c.Classify(singleThread(&entities.Tweet{
			IDStr:               "1",
			FullText:            "agreed",
			InReplyToStatusID:   "99",
			InReplyToScreenName: "dora",
		}))
		assert.Equal(t, "Replied to @dora", cat.Label)
	})

	t.Run("no resolvable handle at all", func(t *testing.T) {
		cat, _ := c.Classify(singleThread(&entities.Tweet{
			IDStr:             "1",
			FullText:          "agreed",
			InReplyToStatusID: "99",
		}))
		assert.Equal(t, entities.KindNotReply, cat.Kind)
		assert.Equal(t, "Not a reply", cat.Label)
	})
}

func TestClassifyCallout(t *testing.T) {
	c := New("me", nil)

	t.Run("leading handles stripped from the body", func(t *testing.T) {
		cat, body := c.Classify(singleThread(&entities.Tweet{
			IDStr:    "1",
			FullText: "@support @billing my account is locked",
		}))
		assert.Equal(t, entities.KindCallout, cat.Kind)
		assert.Equal(t, "Callout to @support and @billing", cat.Label)
		assert.Equal(t, "my account is locked", body)
	})

	t.Run("dot-prefixed callout", func(t *testing.T) {
		cat, body := c.Classify(singleThread(&entities.Tweet{
			IDStr:    "1",
			FullText: ".@support broken again",
		}))
		assert.Equal(t, entities.KindCallout, cat.Kind)
		assert.Equal(t, "broken again", body)
	})
}

func TestClassifyThreadAndTweet(t *testing.T) {
	c := New("me", nil)

	t.Run("multi-tweet thread", func(t *testing.T) {
		cat, _ := c.Classify(entities.Thread{
			{IDStr: "1", FullText: "part one"},
			{IDStr: "2", FullText: "part two", InReplyToStatusID: "1"},
		})
		assert.Equal(t, entities.KindThread, cat.Kind)
		assert.Equal(t, "Wrote a thread", cat.Label)
	})

	t.Run("standalone tweet", func(t *testing.T) {
		cat, body := c.Classify(singleThread(&entities.Tweet{IDStr: "1", FullText: "just thoughts"}))
		assert.Equal(t, entities.KindTweet, cat.Kind)
		assert.Equal(t, "Tweeted", cat.Label)
		assert.Equal(t, "just thoughts", body)
	})
}
