package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/jseriesx/tweets2dayone/internal/cli"
	"github.com/jseriesx/tweets2dayone/internal/config"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func usage() {
	fmt.Fprintf(os.Stderr, "tweets2dayone %s (%s)\n\n", Version, Commit)
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  import    Import a Twitter/X archive into Day One\n")
	fmt.Fprintf(os.Stderr, "  preview   Show what an import would process\n")
	fmt.Fprintf(os.Stderr, "  probe     Check the Day One CLI and Ollama server\n")
	fmt.Fprintf(os.Stderr, "  journals  List Day One journals\n")
}

type command interface {
	ParseFlags(args []string) error
	Run() error
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := config.NewConfig()

	var cmd command
	switch os.Args[1] {
	case "import":
		cmd = cli.NewImportCommand(cfg, logger)
	case "preview":
		cmd = cli.NewPreviewCommand(cfg, logger)
	case "probe":
		cmd = cli.NewProbeCommand(cfg, logger)
	case "journals":
		cmd = cli.NewJournalsCommand(cfg, logger)
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err := cmd.ParseFlags(os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
