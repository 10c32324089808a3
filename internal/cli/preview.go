package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/jseriesx/tweets2dayone/internal/classify"
	"github.com/jseriesx/tweets2dayone/internal/config"
	"github.com/jseriesx/tweets2dayone/internal/importer"
)

// PreviewCommand prepares an archive and prints what an import would do,
// dispatching nothing.
type PreviewCommand struct {
	ArchivePath string
	Verbose     bool

	cfg    *config.Config
	logger *zap.Logger
}

func NewPreviewCommand(cfg *config.Config, logger *zap.Logger) *PreviewCommand {
	return &PreviewCommand{cfg: cfg, logger: logger}
}

func (cmd *PreviewCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)

	cfg := cmd.cfg
	fs.BoolVar(&cfg.Import.SkipAlreadyImported, "skip-imported", cfg.Import.SkipAlreadyImported, "Exclude threads already recorded in processed_tweets.txt")
	fs.StringVar(&cfg.Import.From, "from", cfg.Import.From, "Only count threads on or after this date (YYYY-MM-DD)")
	fs.StringVar(&cfg.Import.To, "to", cfg.Import.To, "Only count threads on or before this date (YYYY-MM-DD)")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print one line per pending thread")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s preview [options] <archive path or .zip>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Show what an import would process without writing anything.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("expected exactly one archive path, got %d", fs.NArg())
	}
	cmd.ArchivePath = fs.Arg(0)
	return nil
}

func (cmd *PreviewCommand) Run() error {
	ictx, err := importer.NewPreviewer(cmd.logger).Refresh(context.Background(), cmd.ArchivePath, cmd.cfg)
	if err != nil {
		return err
	}

	owner := ""
	if ictx.Account != nil {
		owner = ictx.Account.Username
		fmt.Printf("Archive owner: @%s\n", owner)
	}
	fmt.Printf("Tweets: %d\n", ictx.TotalTweets)
	fmt.Printf("Threads: %d (%d in range)\n", ictx.ThreadsBeforeFilter, ictx.ThreadsAfterFilter)
	fmt.Printf("Already imported: %d\n", ictx.AlreadyImported)
	fmt.Printf("Pending: %d\n", len(ictx.Pending))

	if !cmd.Verbose {
		return nil
	}

	classifier := classify.New(owner, ictx.AllIDs)
	for _, thread := range ictx.Pending {
		cat, _ := classifier.Classify(thread)
		excerpt := thread.Root().FullText
		if len(excerpt) > 60 {
			excerpt = excerpt[:60] + "…"
		}
		fmt.Printf("  %s  %-28s %s\n", thread.ID(), cat.Label, strings.ReplaceAll(excerpt, "\n", " "))
	}
	return nil
}
