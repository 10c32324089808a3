package importer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jseriesx/tweets2dayone/internal/archive"
	"github.com/jseriesx/tweets2dayone/internal/config"
	"github.com/jseriesx/tweets2dayone/internal/dedup"
	"github.com/jseriesx/tweets2dayone/internal/entities"
	"github.com/jseriesx/tweets2dayone/internal/rewrite"
	"github.com/jseriesx/tweets2dayone/internal/threads"
)

const dateLayout = "2006-01-02"

// Prepare resolves an archive and builds a fresh ImportContext for the given
// settings: decode, rewrite, thread reconstruction, date filtering, and the
// pending/already-imported partition. The context is always built wholesale;
// callers replace their previous one rather than patching it.
func Prepare(ctx context.Context, input string, cfg *config.Config, logger *zap.Logger) (*entities.ImportContext, error) {
	loc, err := archive.Resolve(input)
	if err != nil {
		return nil, err
	}
	logger.Info("resolved archive", zap.String("root", loc.Root))

	account, err := archive.DecodeAccount(loc.AccountPath)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tweets, err := archive.DecodeTweets(loc.TweetsPath)
	if err != nil {
		return nil, err
	}
	logger.Info("decoded tweets", zap.Int("count", len(tweets)))

	allIDs := make(map[string]struct{}, len(tweets))
	for _, t := range tweets {
		rewrite.Rewrite(t, loc.MediaDir)
		allIDs[t.IDStr] = struct{}{}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	all := threads.Reconstruct(tweets)
	logger.Info("reconstructed threads", zap.Int("count", len(all)))

	inRange, err := filterThreads(all, cfg.Import)
	if err != nil {
		return nil, err
	}

	processed, err := dedup.New(loc.Root).Load()
	if err != nil {
		return nil, err
	}

	ictx := &entities.ImportContext{
		Location:            loc,
		Account:             account,
		Threads:             inRange,
		Processed:           processed,
		AllIDs:              allIDs,
		TotalTweets:         len(tweets),
		ThreadsBeforeFilter: len(all),
		ThreadsAfterFilter:  len(inRange),
	}

	for _, th := range inRange {
		if _, done := processed[th.ID()]; done {
			ictx.AlreadyImported++
			if !cfg.Import.SkipAlreadyImported {
				ictx.Pending = append(ictx.Pending, th)
			}
			continue
		}
		ictx.Pending = append(ictx.Pending, th)
	}
	return ictx, nil
}

// filterThreads applies the date range (on the root tweet) and the optional
// debug id allowlist, preserving reconstruction order.
func filterThreads(all []entities.Thread, cfg config.Import) ([]entities.Thread, error) {
	var from, to time.Time
	var err error
	if cfg.From != "" {
		if from, err = time.Parse(dateLayout, cfg.From); err != nil {
			return nil, fmt.Errorf("invalid from date %q: %w", cfg.From, err)
		}
	}
	if cfg.To != "" {
		if to, err = time.Parse(dateLayout, cfg.To); err != nil {
			return nil, fmt.Errorf("invalid to date %q: %w", cfg.To, err)
		}
		to = to.Add(24 * time.Hour) // inclusive upper bound
	}

	debugIDs := make(map[string]struct{}, len(cfg.DebugIDs))
	for _, id := range cfg.DebugIDs {
		debugIDs[id] = struct{}{}
	}

	var out []entities.Thread
	for _, th := range all {
		posted := th.Root().Posted
		if !from.IsZero() && posted.Before(from) {
			continue
		}
		if !to.IsZero() && !posted.Before(to) {
			continue
		}
		if len(debugIDs) > 0 {
			if _, wanted := debugIDs[th.ID()]; !wanted {
				continue
			}
		}
		out = append(out, th)
	}
	return out, nil
}
