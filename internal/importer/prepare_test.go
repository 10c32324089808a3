package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jseriesx/tweets2dayone/internal/config"
)

const testTweets = `window.YTD.tweets.part0 = [
  {"tweet": {"id_str": "100", "full_text": "june tweet", "created_at": "Fri Jun 27 10:00:00 +0000 2025"}},
  {"tweet": {"id_str": "101", "full_text": "reply in thread", "created_at": "Fri Jun 27 10:05:00 +0000 2025", "in_reply_to_status_id_str": "100"}},
  {"tweet": {"id_str": "200", "full_text": "july tweet", "created_at": "Tue Jul 15 09:00:00 +0000 2025"}}
]`

const testAccount = `window.YTD.account.part0 = [{"account": {"username": "me", "accountId": "1"}}]`

func writeArchive(t *testing.T, processed string) string {
	t.Helper()
	root := t.TempDir()
	dataDir := filepath.Join(root, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "tweets.js"), []byte(testTweets), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "account.js"), []byte(testAccount), 0644))
	if processed != "" {
		require.NoError(t, os.WriteFile(filepath.Join(root, "processed_tweets.txt"), []byte(processed), 0644))
	}
	return root
}

func prepareConfig() *config.Config {
	return &config.Config{
		Import: config.Import{SkipAlreadyImported: true, TrackProcessed: true},
	}
}

func TestPrepare(t *testing.T) {
	ctx := context.Background()

	t.Run("full pipeline", func(t *testing.T) {
		root := writeArchive(t, "")

		ictx, err := Prepare(ctx, root, prepareConfig(), zap.NewNop())
		require.NoError(t, err)

		assert.Equal(t, "me", ictx.Account.Username)
		assert.Equal(t, 3, ictx.TotalTweets)
		assert.Equal(t, 2, ictx.ThreadsBeforeFilter)
		assert.Equal(t, 2, ictx.ThreadsAfterFilter)
		assert.Len(t, ictx.Pending, 2)
		assert.Zero(t, ictx.AlreadyImported)
		assert.Contains(t, ictx.AllIDs, "101")

		// The reply chain grouped under its root.
		assert.Equal(t, "100", ictx.Threads[0].ID())
		assert.Len(t, ictx.Threads[0], 2)
	})

	t.Run("processed ids leave the pending list", func(t *testing.T) {
		root := writeArchive(t, "100\n")

		ictx, err := Prepare(ctx, root, prepareConfig(), zap.NewNop())
		require.NoError(t, err)

		assert.Equal(t, 1, ictx.AlreadyImported)
		require.Len(t, ictx.Pending, 1)
		assert.Equal(t, "200", ictx.Pending[0].ID())
	})

	t.Run("skip disabled keeps processed threads pending", func(t *testing.T) {
		root := writeArchive(t, "100\n")
		cfg := prepareConfig()
		cfg.Import.SkipAlreadyImported = false

		ictx, err := Prepare(ctx, root, cfg, zap.NewNop())
		require.NoError(t, err)

		assert.Equal(t, 1, ictx.AlreadyImported)
		assert.Len(t, ictx.Pending, 2)
	})

	t.Run("date range filters on the root tweet", func(t *testing.T) {
		root := writeArchive(t, "")
		cfg := prepareConfig()
		cfg.Import.From = "2025-07-01"

		ictx, err := Prepare(ctx, root, cfg, zap.NewNop())
		require.NoError(t, err)

		assert.Equal(t, 2, ictx.ThreadsBeforeFilter)
		assert.Equal(t, 1, ictx.ThreadsAfterFilter)
		assert.Equal(t, "200", ictx.Threads[0].ID())
	})

	t.Run("to bound is inclusive", func(t *testing.T) {
		root := writeArchive(t, "")
		cfg := prepareConfig()
		cfg.Import.To = "2025-06-27"

		ictx, err := Prepare(ctx, root, cfg, zap.NewNop())
		require.NoError(t, err)

		require.Len(t, ictx.Threads, 1)
		assert.Equal(t, "100", ictx.Threads[0].ID())
	})

	t.Run("invalid date rejected", func(t *testing.T) {
		root := writeArchive(t, "")
		cfg := prepareConfig()
		cfg.Import.From = "27/06/2025"

		_, err := Prepare(ctx, root, cfg, zap.NewNop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid from date")
	})

	t.Run("debug ids narrow the run to an allowlist", func(t *testing.T) {
		root := writeArchive(t, "")
		cfg := prepareConfig()
		cfg.Import.DebugIDs = []string{"200"}

		ictx, err := Prepare(ctx, root, cfg, zap.NewNop())
		require.NoError(t, err)

		require.Len(t, ictx.Threads, 1)
		assert.Equal(t, "200", ictx.Threads[0].ID())
	})

	t.Run("cancelled context stops preparation", func(t *testing.T) {
		root := writeArchive(t, "")
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := Prepare(cancelled, root, prepareConfig(), zap.NewNop())
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestPreviewerRefresh(t *testing.T) {
	root := writeArchive(t, "")
	previewer := NewPreviewer(zap.NewNop())

	ictx, err := previewer.Refresh(context.Background(), root, prepareConfig())
	require.NoError(t, err)
	assert.Equal(t, 2, ictx.ThreadsAfterFilter)

	// A second refresh replaces the first wholesale.
	ictx2, err := previewer.Refresh(context.Background(), root, prepareConfig())
	require.NoError(t, err)
	assert.Equal(t, ictx.ThreadsAfterFilter, ictx2.ThreadsAfterFilter)
}
