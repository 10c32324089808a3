package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/jseriesx/tweets2dayone/internal/audit"
	"github.com/jseriesx/tweets2dayone/internal/config"
	"github.com/jseriesx/tweets2dayone/internal/dayone"
	"github.com/jseriesx/tweets2dayone/internal/dedup"
	"github.com/jseriesx/tweets2dayone/internal/importer"
	"github.com/jseriesx/tweets2dayone/internal/ollama"
	"github.com/jseriesx/tweets2dayone/internal/titles"
)

// ImportCommand runs a full archive import.
type ImportCommand struct {
	ArchivePath string
	DebugIDs    string

	cfg    *config.Config
	logger *zap.Logger
}

func NewImportCommand(cfg *config.Config, logger *zap.Logger) *ImportCommand {
	return &ImportCommand{cfg: cfg, logger: logger}
}

// ParseFlags parses command line flags; flag defaults come from the
// environment-backed config, so flags override env.
func (cmd *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)

	cfg := cmd.cfg
	fs.StringVar(&cfg.DayOne.Journal, "journal", cfg.DayOne.Journal, "Target journal for tweets (empty uses the Day One default)")
	fs.StringVar(&cfg.DayOne.ReplyJournal, "reply-journal", cfg.DayOne.ReplyJournal, "Journal for reply threads (empty skips replies)")
	fs.StringVar(&cfg.DayOne.BinaryPath, "dayone-path", cfg.DayOne.BinaryPath, "Explicit path to the dayone2 executable")
	fs.BoolVar(&cfg.Import.IgnoreRetweets, "ignore-retweets", cfg.Import.IgnoreRetweets, "Skip retweet threads instead of importing them")
	fs.BoolVar(&cfg.Import.SkipAlreadyImported, "skip-imported", cfg.Import.SkipAlreadyImported, "Exclude threads already recorded in processed_tweets.txt")
	fs.BoolVar(&cfg.Import.TrackProcessed, "track", cfg.Import.TrackProcessed, "Record imported thread ids in processed_tweets.txt")
	fs.BoolVar(&cfg.Import.DryRun, "dry-run", cfg.Import.DryRun, "Classify and render without dispatching anything")
	fs.IntVar(&cfg.Import.MaxThreads, "max-threads", cfg.Import.MaxThreads, "Stop after this many threads (0 = unlimited)")
	fs.StringVar(&cfg.Import.From, "from", cfg.Import.From, "Only import threads on or after this date (YYYY-MM-DD)")
	fs.StringVar(&cfg.Import.To, "to", cfg.Import.To, "Only import threads on or before this date (YYYY-MM-DD)")
	fs.BoolVar(&cfg.Ollama.Enabled, "llm-titles", cfg.Ollama.Enabled, "Ask a local Ollama server to title multi-tweet threads")
	fs.StringVar(&cfg.Ollama.URL, "ollama-url", cfg.Ollama.URL, "Ollama endpoint (bare host or full generate URL)")
	fs.StringVar(&cfg.Ollama.Model, "ollama-model", cfg.Ollama.Model, "Ollama model name")
	fs.BoolVar(&cfg.Audit.Enabled, "audit", cfg.Audit.Enabled, "Write a JSON run summary under the audit directory")
	fs.StringVar(&cfg.Audit.Dir, "audit-dir", cfg.Audit.Dir, "Directory for run summary artifacts")
	fs.StringVar(&cmd.DebugIDs, "debug-ids", "", "Comma-separated root tweet ids; restrict the run to those threads")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import [options] <archive path or .zip>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import a Twitter/X data export into Day One via the dayone2 CLI.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s import -journal Tweets -reply-journal Replies ~/Downloads/twitter-2024-01-01.zip\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s import -dry-run -from 2020-01-01 ~/twitter-archive\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("expected exactly one archive path, got %d", fs.NArg())
	}
	cmd.ArchivePath = fs.Arg(0)

	if cmd.DebugIDs != "" {
		for _, id := range strings.Split(cmd.DebugIDs, ",") {
			if id = strings.TrimSpace(id); id != "" {
				cfg.Import.DebugIDs = append(cfg.Import.DebugIDs, id)
			}
		}
	}
	return nil
}

// Run executes the import.
func (cmd *ImportCommand) Run() error {
	cfg, logger := cmd.cfg, cmd.logger

	// Ctrl-C cancels cooperatively: the in-flight thread finishes, the
	// rest are left for the next run.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	binPath := ""
	if !cfg.Import.DryRun {
		var err error
		binPath, err = dayone.Locate(cfg.DayOne.BinaryPath)
		if err != nil {
			return err
		}
	}

	logStartupStatus(cfg, logger)

	ictx, err := importer.Prepare(ctx, cmd.ArchivePath, cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("prepared import context",
		zap.Int("tweets", ictx.TotalTweets),
		zap.Int("threads", ictx.ThreadsBeforeFilter),
		zap.Int("in_range", ictx.ThreadsAfterFilter),
		zap.Int("already_imported", ictx.AlreadyImported),
		zap.Int("pending", len(ictx.Pending)))

	var completer titles.Completer
	if cfg.Ollama.Enabled {
		client, err := ollama.NewClient(cfg.Ollama)
		if err != nil {
			return err
		}
		if err := client.Probe(ctx); err != nil {
			logger.Warn("ollama unreachable, falling back to category titles", zap.Error(err))
		} else {
			completer = client
		}
	}
	titleGen := titles.NewGenerator(completer, cfg.Ollama.Prompt, logger)

	var journal importer.Dispatcher = dayone.NewClient(binPath, logger)
	store := dedup.New(ictx.Location.Root)

	coordinator := importer.NewCoordinator(cfg, journal, store, titleGen, logger)
	summary := coordinator.Run(ctx, ictx)

	fmt.Println(summary.Status)
	for _, reason := range summary.TitleFallbacks {
		fmt.Printf("  title fallback: %s\n", reason)
	}

	if cfg.Audit.Enabled {
		name, err := audit.NewWriter(cfg.Audit.Dir).SaveRunSummary(summary)
		if err != nil {
			logger.Warn("failed to write audit artifact", zap.Error(err))
		} else {
			logger.Info("wrote audit artifact", zap.String("file", name))
		}
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d threads failed", summary.Failed)
	}
	return nil
}

func logStartupStatus(cfg *config.Config, logger *zap.Logger) {
	journal := cfg.DayOne.Journal
	if journal == "" {
		journal = "(Day One default)"
	}
	logger.Info("journal for tweets", zap.String("journal", journal))
	if cfg.DayOne.ReplyJournal != "" {
		logger.Info("journal for replies", zap.String("journal", cfg.DayOne.ReplyJournal))
	} else {
		logger.Info("ignoring replies: no reply journal configured")
	}
}
