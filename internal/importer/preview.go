package importer

import (
	"context"
	"errors"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/jseriesx/tweets2dayone/internal/config"
	"github.com/jseriesx/tweets2dayone/internal/entities"
)

// ErrSuperseded means a newer refresh started while this one was running;
// the stale result must be discarded, not applied.
var ErrSuperseded = errors.New("preview superseded by a newer request")

// Previewer rebuilds the ImportContext when settings change. Refreshes are
// independent, cancellable tasks that may overlap; only the most recently
// started one is allowed to deliver a result.
type Previewer struct {
	logger     *zap.Logger
	generation atomic.Uint64
}

func NewPreviewer(logger *zap.Logger) *Previewer {
	return &Previewer{logger: logger}
}

// Refresh runs prepare with the given settings. If another Refresh started
// in the meantime the finished result is dropped with ErrSuperseded.
func (p *Previewer) Refresh(ctx context.Context, input string, cfg *config.Config) (*entities.ImportContext, error) {
	gen := p.generation.Add(1)

	ictx, err := Prepare(ctx, input, cfg, p.logger)
	if p.generation.Load() != gen {
		p.logger.Debug("discarding stale preview result")
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	return ictx, nil
}
