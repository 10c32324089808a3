package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	// Config is an immutable snapshot of settings built once at startup.
	// Components receive it (or a sub-struct) explicitly; nothing reads the
	// environment after construction. CLI flags overwrite individual fields
	// before the snapshot is handed out.
	Config struct {
		DayOne
		Ollama
		Import
		Audit
	}

	DayOne struct {
		Journal      string // primary journal; empty lets the CLI use its default
		ReplyJournal string // journal for reply threads; empty disables reply import
		BinaryPath   string // explicit dayone2 path, empty to auto-locate
	}

	Ollama struct {
		Enabled     bool
		URL         string // bare host or full generate endpoint
		Model       string
		Prompt      string
		NumPredict  int
		Temperature float64
		NumCtx      int
		Timeout     time.Duration
	}

	Import struct {
		IgnoreRetweets      bool
		SkipAlreadyImported bool
		TrackProcessed      bool
		DryRun              bool
		MaxThreads          int    // 0 means unlimited
		From                string // YYYY-MM-DD inclusive lower bound on the root tweet
		To                  string // YYYY-MM-DD inclusive upper bound
		DebugIDs            []string
	}

	Audit struct {
		Enabled bool
		Dir     string
	}
)

const defaultTitlePrompt = "Summarize the following tweet thread in at most five " +
	"words. Answer with only the summary, no quotes and no trailing punctuation."

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("tweet_journal", "")
	v.SetDefault("reply_journal", "")
	v.SetDefault("dayone_path", "")
	v.SetDefault("ollama_enabled", false)
	v.SetDefault("ollama_url", "http://localhost:11434")
	v.SetDefault("ollama_model", "llama3.2")
	v.SetDefault("ollama_prompt", defaultTitlePrompt)
	v.SetDefault("ollama_num_predict", 10)
	v.SetDefault("ollama_temperature", 0.3)
	v.SetDefault("ollama_num_ctx", 4096)
	v.SetDefault("ollama_timeout_in_seconds", 30)
	v.SetDefault("ignore_retweets", false)
	v.SetDefault("skip_already_imported", true)
	v.SetDefault("track_processed", true)
	v.SetDefault("max_threads", 0)
	v.SetDefault("audit_enabled", false)
	v.SetDefault("audit_dir", "./audit")

	return &Config{
		DayOne: DayOne{
			Journal:      v.GetString("tweet_journal"),
			ReplyJournal: v.GetString("reply_journal"),
			BinaryPath:   v.GetString("dayone_path"),
		},
		Ollama: Ollama{
			Enabled:     v.GetBool("ollama_enabled"),
			URL:         v.GetString("ollama_url"),
			Model:       v.GetString("ollama_model"),
			Prompt:      v.GetString("ollama_prompt"),
			NumPredict:  v.GetInt("ollama_num_predict"),
			Temperature: v.GetFloat64("ollama_temperature"),
			NumCtx:      v.GetInt("ollama_num_ctx"),
			Timeout:     time.Duration(v.GetInt("ollama_timeout_in_seconds")) * time.Second,
		},
		Import: Import{
			IgnoreRetweets:      v.GetBool("ignore_retweets"),
			SkipAlreadyImported: v.GetBool("skip_already_imported"),
			TrackProcessed:      v.GetBool("track_processed"),
			MaxThreads:          v.GetInt("max_threads"),
		},
		Audit: Audit{
			Enabled: v.GetBool("audit_enabled"),
			Dir:     v.GetString("audit_dir"),
		},
	}
}
