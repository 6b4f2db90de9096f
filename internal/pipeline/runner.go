package pipeline

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/filinglens/filinglens-backend/internal/data/repos"
	"github.com/filinglens/filinglens-backend/internal/pkg/logger"
)

// Runner drives one batch pass: discover filings with incomplete target
// sections, then run map/reduce for each under a bounded worker pool.
type Runner struct {
	log        *logger.Logger
	filings    repos.FilingRepo
	summarizer *Summarizer
	cfg        Config
}

func NewRunner(baseLog *logger.Logger, filingRepo repos.FilingRepo, summarizer *Summarizer, cfg Config) *Runner {
	return &Runner{
		log:        baseLog.With("component", "PipelineRunner"),
		filings:    filingRepo,
		summarizer: summarizer,
		cfg:        cfg,
	}
}

type RunStats struct {
	FilingsDiscovered int
	FilingsProcessed  int
	FilingsFailed     int
}

// Discover returns the filings needing work for the configured model and
// target sections.
func (r *Runner) Discover(ctx context.Context) ([]repos.FilingRef, error) {
	return r.filings.FindNeedingSections(ctx, nil, r.cfg.SectionModel, r.cfg.TargetSections, r.cfg.FormTypes)
}

// RunOnce processes every discovered filing. A filing failure is counted and
// logged, never fatal to the pass; its partial rows flag the retry for the
// next pass.
func (r *Runner) RunOnce(ctx context.Context) (RunStats, error) {
	refs, err := r.Discover(ctx)
	if err != nil {
		return RunStats{}, err
	}

	stats := RunStats{FilingsDiscovered: len(refs)}
	if len(refs) == 0 {
		r.log.Info("No filings need summarization")
		return stats, nil
	}
	r.log.Info("Discovered filings needing summarization", "count", len(refs))

	var processed, failed int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.MaxWorkers)

	for _, ref := range refs {
		ref := ref
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			if _, err := r.summarizer.ProcessFiling(gctx, ref.Ticker, ref.AccessionNumber); err != nil {
				atomic.AddInt64(&failed, 1)
				r.log.Error("Filing processing failed",
					"ticker", ref.Ticker,
					"accession_number", ref.AccessionNumber,
					"error", err,
				)
				return nil
			}
			atomic.AddInt64(&processed, 1)
			return nil
		})
	}
	_ = g.Wait()

	stats.FilingsProcessed = int(processed)
	stats.FilingsFailed = int(failed)
	r.log.Info("Pipeline pass complete",
		"discovered", stats.FilingsDiscovered,
		"processed", stats.FilingsProcessed,
		"failed", stats.FilingsFailed,
	)
	return stats, ctx.Err()
}
