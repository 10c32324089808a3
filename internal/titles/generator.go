// Package titles picks the heading for each journal entry, optionally asking
// a local language model to summarize multi-tweet threads.
package titles

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jseriesx/tweets2dayone/internal/entities"
)

// maxReportedFallbacks caps how many LLM failures are surfaced per run so a
// dead server does not flood the progress log.
const maxReportedFallbacks = 12

// Completer is the text-completion dependency; nil means titling by category
// only.
type Completer interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Generator derives entry titles. Not safe for concurrent use; one generator
// serves one sequential run.
type Generator struct {
	completer Completer
	prompt    string
	logger    *zap.Logger

	fallbacks []string
	dropped   int
}

func NewGenerator(completer Completer, prompt string, logger *zap.Logger) *Generator {
	return &Generator{completer: completer, prompt: prompt, logger: logger}
}

// Title returns the heading for a thread. Reply categories title themselves;
// single tweets and disabled LLM runs use the category label; everything else
// asks the model once and degrades to the label on any failure.
func (g *Generator) Title(ctx context.Context, cat entities.Category, thread entities.Thread, aggregated string) string {
	if cat.Kind == entities.KindReply || cat.Kind == entities.KindNotReply {
		return cat.Label
	}
	if g.completer == nil || len(thread) == 1 {
		return cat.Label
	}

	prompt := g.prompt + "\n\nTweet: " + aggregated + "\nSummary:"
	summary, err := g.completer.Generate(ctx, prompt)
	if err != nil {
		g.recordFallback(thread.ID(), err)
		return cat.Label
	}
	return "Wrote " + summary
}

// Fallbacks returns the reasons collected so far, capped at
// maxReportedFallbacks with a trailing count of the rest.
func (g *Generator) Fallbacks() []string {
	if g.dropped == 0 {
		return g.fallbacks
	}
	return append(g.fallbacks[:len(g.fallbacks):len(g.fallbacks)],
		fmt.Sprintf("… and %d more", g.dropped))
}

func (g *Generator) recordFallback(threadID string, err error) {
	if len(g.fallbacks) >= maxReportedFallbacks {
		g.dropped++
		return
	}
	reason := fmt.Sprintf("thread %s: %v", threadID, err)
	g.fallbacks = append(g.fallbacks, reason)
	g.logger.Warn("title generation fell back to category",
		zap.String("thread_id", threadID),
		zap.Error(err))
}
