package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/jseriesx/tweets2dayone/internal/config"
	"github.com/jseriesx/tweets2dayone/internal/dayone"
)

// JournalsCommand lists the journals configured in Day One.
type JournalsCommand struct {
	cfg    *config.Config
	logger *zap.Logger
}

func NewJournalsCommand(cfg *config.Config, logger *zap.Logger) *JournalsCommand {
	return &JournalsCommand{cfg: cfg, logger: logger}
}

func (cmd *JournalsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("journals", flag.ExitOnError)
	fs.StringVar(&cmd.cfg.DayOne.BinaryPath, "dayone-path", cmd.cfg.DayOne.BinaryPath, "Explicit path to the dayone2 executable")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s journals [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List Day One journals, one per line.\n\n")
		fs.PrintDefaults()
	}
	return fs.Parse(args)
}

func (cmd *JournalsCommand) Run() error {
	path, err := dayone.Locate(cmd.cfg.DayOne.BinaryPath)
	if err != nil {
		return err
	}
	journals, err := dayone.NewClient(path, cmd.logger).ListJournals(context.Background())
	if err != nil {
		return err
	}
	for _, journal := range journals {
		fmt.Println(journal)
	}
	return nil
}
