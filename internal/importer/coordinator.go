// Package importer sequences a full import run: resolve → prepare → iterate
// pending threads → summarize, with progress reporting and cooperative
// cancellation between threads.
package importer

import (
	"context"

	"go.uber.org/zap"

	"github.com/jseriesx/tweets2dayone/internal/classify"
	"github.com/jseriesx/tweets2dayone/internal/config"
	"github.com/jseriesx/tweets2dayone/internal/dayone"
	"github.com/jseriesx/tweets2dayone/internal/entities"
	"github.com/jseriesx/tweets2dayone/internal/render"
	"github.com/jseriesx/tweets2dayone/internal/titles"
)

// Dispatcher sends one rendered entry to the journal.
type Dispatcher interface {
	Dispatch(ctx context.Context, p dayone.Payload) error
}

// DedupRecorder records a thread id as processed.
type DedupRecorder interface {
	Add(id string) error
}

// Coordinator runs a single import at a time; it is not reentrant. A new run
// must wait for or cancel the prior one.
type Coordinator struct {
	cfg     *config.Config
	journal Dispatcher
	store   DedupRecorder
	titles  *titles.Generator
	logger  *zap.Logger

	// OnProgress, when set, receives a snapshot after every thread.
	OnProgress func(entities.RunProgress)
}

func NewCoordinator(cfg *config.Config, journal Dispatcher, store DedupRecorder, titleGen *titles.Generator, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		cfg:     cfg,
		journal: journal,
		store:   store,
		titles:  titleGen,
		logger:  logger,
	}
}

// Run processes the context's pending threads strictly sequentially, in the
// order prepare produced. Cancellation is observed between threads only; an
// in-flight dispatch completes so the dedup file never records a half-sent
// thread.
func (c *Coordinator) Run(ctx context.Context, ictx *entities.ImportContext) entities.RunSummary {
	owner := ""
	if ictx.Account != nil {
		owner = ictx.Account.Username
	}
	classifier := classify.New(owner, ictx.AllIDs)
	renderer := render.New(owner)

	total := len(ictx.Pending)
	if max := c.cfg.Import.MaxThreads; max > 0 && max < total {
		total = max
	}

	var summary entities.RunSummary
	summary.Total = total

	for i, thread := range ictx.Pending {
		if i >= total {
			break
		}
		if ctx.Err() != nil {
			summary.Cancelled = true
			break
		}

		cat, body := classifier.Classify(thread)
		// The classifier owns the only body rewrite after link expansion;
		// apply it here so the renderer sees the stripped text.
		thread.Root().FullText = body

		c.processThread(ctx, thread, cat, renderer, &summary)
		c.emitProgress(i+1, total, thread, cat, summary)
	}

	summary.TitleFallbacks = c.titles.Fallbacks()
	summary.Status = summary.StatusLine()
	return summary
}

func (c *Coordinator) processThread(ctx context.Context, thread entities.Thread, cat entities.Category, renderer *render.Renderer, summary *entities.RunSummary) {
	journal, drop := c.routeJournal(cat)
	if drop {
		// Policy skips are dedup-recorded so they stay skipped on re-runs.
		c.logger.Info("skipping thread by policy",
			zap.String("thread_id", thread.ID()),
			zap.String("category", cat.Label))
		if c.recordProcessed(thread.ID()) {
			summary.Skipped++
		} else {
			summary.Failed++
		}
		return
	}

	aggregated := renderer.AggregateText(thread)
	title := c.titles.Title(ctx, cat, thread, aggregated)
	entry := renderer.Render(thread, cat, title)

	if c.cfg.Import.DryRun {
		c.logger.Info("dry run: would dispatch entry",
			zap.String("thread_id", thread.ID()),
			zap.String("journal", journal),
			zap.String("title", title),
			zap.Int("attachments", len(entry.Attachments)))
		summary.Imported++
		return
	}

	payload := dayone.Payload{
		Text:        entry.Text,
		Journal:     journal,
		Tags:        entry.Tags,
		Date:        entry.Date,
		Attachments: entry.Attachments,
	}
	if entry.Coordinate != nil {
		payload.Coordinate = &[2]float64{entry.Coordinate.Latitude(), entry.Coordinate.Longitude()}
	}

	if err := c.journal.Dispatch(ctx, payload); err != nil {
		c.logger.Error("failed to dispatch entry",
			zap.String("thread_id", thread.ID()),
			zap.Error(err))
		summary.Failed++
		return
	}

	if !c.recordProcessed(thread.ID()) {
		// The entry reached the journal but the id was not persisted, so a
		// later run would import it again. Surfaced as a failure on
		// purpose rather than swallowed.
		summary.Failed++
		return
	}
	summary.Imported++
}

// routeJournal picks the target journal by category. drop means the thread is
// skipped by policy (and dedup-recorded) instead of dispatched.
func (c *Coordinator) routeJournal(cat entities.Category) (journal string, drop bool) {
	switch cat.Kind {
	case entities.KindReply, entities.KindNotReply:
		if c.cfg.DayOne.ReplyJournal == "" {
			return "", true
		}
		return c.cfg.DayOne.ReplyJournal, false
	case entities.KindRetweet:
		if c.cfg.Import.IgnoreRetweets {
			return "", true
		}
	}
	return c.cfg.DayOne.Journal, false
}

// recordProcessed appends the id to the dedup store when tracking is enabled.
// Returns false when persistence failed.
func (c *Coordinator) recordProcessed(id string) bool {
	if !c.cfg.Import.TrackProcessed || c.cfg.Import.DryRun {
		return true
	}
	if err := c.store.Add(id); err != nil {
		c.logger.Error("failed to record processed id; thread may be re-imported",
			zap.String("thread_id", id),
			zap.Error(err))
		return false
	}
	return true
}

func (c *Coordinator) emitProgress(index, total int, thread entities.Thread, cat entities.Category, summary entities.RunSummary) {
	progress := entities.RunProgress{
		Index:    index,
		Total:    total,
		Imported: summary.Imported,
		Skipped:  summary.Skipped,
		Failed:   summary.Failed,
		ThreadID: thread.ID(),
		Category: cat.Label,
	}
	if c.OnProgress != nil {
		c.OnProgress(progress)
	}
	c.logger.Info("processed thread",
		zap.Int("index", index),
		zap.Int("total", total),
		zap.String("thread_id", progress.ThreadID),
		zap.String("category", progress.Category))
}
