package titles

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/jseriesx/tweets2dayone/internal/entities"
)

type fakeCompleter struct {
	response string
	err      error
	calls    int
}

func (f *fakeCompleter) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.response, f.err
}

func multiThread() entities.Thread {
	return entities.Thread{
		{IDStr: "1", FullText: "part one"},
		{IDStr: "2", FullText: "part two"},
	}
}

func TestTitle(t *testing.T) {
	ctx := context.Background()

	t.Run("reply categories title themselves", func(t *testing.T) {
		completer := &fakeCompleter{response: "should not be used"}
		g := NewGenerator(completer, "prompt", zap.NewNop())

		cat := entities.Category{Kind: entities.KindReply, Label: "Replied to @bob"}
		assert.Equal(t, "Replied to @bob", g.Title(ctx, cat, multiThread(), "text"))
		assert.Zero(t, completer.calls)
	})

	t.Run("nil completer uses the category label", func(t *testing.T) {
		g := NewGenerator(nil, "prompt", zap.NewNop())
		cat := entities.Category{Kind: entities.KindThread, Label: "Wrote a thread"}
		assert.Equal(t, "Wrote a thread", g.Title(ctx, cat, multiThread(), "text"))
	})

	t.Run("single tweets never hit the model", func(t *testing.T) {
		completer := &fakeCompleter{response: "unused"}
		g := NewGenerator(completer, "prompt", zap.NewNop())

		cat := entities.Category{Kind: entities.KindTweet, Label: "Tweeted"}
		thread := entities.Thread{{IDStr: "1", FullText: "alone"}}
		assert.Equal(t, "Tweeted", g.Title(ctx, cat, thread, "alone"))
		assert.Zero(t, completer.calls)
	})

	t.Run("model summary becomes the title", func(t *testing.T) {
		completer := &fakeCompleter{response: "about my garden"}
		g := NewGenerator(completer, "prompt", zap.NewNop())

		cat := entities.Category{Kind: entities.KindThread, Label: "Wrote a thread"}
		assert.Equal(t, "Wrote about my garden", g.Title(ctx, cat, multiThread(), "text"))
		assert.Equal(t, 1, completer.calls)
	})

	t.Run("model failure falls back to the label", func(t *testing.T) {
		completer := &fakeCompleter{err: errors.New("connection refused")}
		g := NewGenerator(completer, "prompt", zap.NewNop())

		cat := entities.Category{Kind: entities.KindThread, Label: "Wrote a thread"}
		assert.Equal(t, "Wrote a thread", g.Title(ctx, cat, multiThread(), "text"))

		fallbacks := g.Fallbacks()
		assert.Len(t, fallbacks, 1)
		assert.Contains(t, fallbacks[0], "thread 1")
		assert.Contains(t, fallbacks[0], "connection refused")
	})
}

func TestFallbacksCapped(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("down")}
	g := NewGenerator(completer, "prompt", zap.NewNop())
	cat := entities.Category{Kind: entities.KindThread, Label: "Wrote a thread"}

	for i := 0; i < maxReportedFallbacks+5; i++ {
		thread := entities.Thread{
			{IDStr: fmt.Sprintf("%d", i), FullText: "a"},
			{IDStr: fmt.Sprintf("%d-2", i), FullText: "b"},
		}
		g.Title(context.Background(), cat, thread, "text")
	}

	fallbacks := g.Fallbacks()
	assert.Len(t, fallbacks, maxReportedFallbacks+1)
	assert.Equal(t, "… and 5 more", fallbacks[len(fallbacks)-1])
}
