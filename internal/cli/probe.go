package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/jseriesx/tweets2dayone/internal/config"
	"github.com/jseriesx/tweets2dayone/internal/dayone"
	"github.com/jseriesx/tweets2dayone/internal/ollama"
)

// ProbeCommand checks the external collaborators: the dayone2 executable and,
// when titling is enabled, the Ollama server.
type ProbeCommand struct {
	cfg    *config.Config
	logger *zap.Logger
}

func NewProbeCommand(cfg *config.Config, logger *zap.Logger) *ProbeCommand {
	return &ProbeCommand{cfg: cfg, logger: logger}
}

func (cmd *ProbeCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("probe", flag.ExitOnError)
	fs.StringVar(&cmd.cfg.DayOne.BinaryPath, "dayone-path", cmd.cfg.DayOne.BinaryPath, "Explicit path to the dayone2 executable")
	fs.StringVar(&cmd.cfg.Ollama.URL, "ollama-url", cmd.cfg.Ollama.URL, "Ollama endpoint to probe")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s probe [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Check that the Day One CLI and the Ollama server are reachable.\n\n")
		fs.PrintDefaults()
	}
	return fs.Parse(args)
}

// Run exits non-zero when the journal CLI is missing; Ollama being down is
// reported but not fatal, since titling degrades gracefully.
func (cmd *ProbeCommand) Run() error {
	path, err := dayone.Locate(cmd.cfg.DayOne.BinaryPath)
	if err != nil {
		return err
	}
	fmt.Printf("dayone2: %s\n", path)

	client, err := ollama.NewClient(cmd.cfg.Ollama)
	if err != nil {
		return err
	}
	if err := client.Probe(context.Background()); err != nil {
		fmt.Printf("ollama: unreachable (%v)\n", err)
		return nil
	}
	fmt.Println("ollama: reachable")
	return nil
}
