package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/filinglens/filinglens-backend/internal/app"
	"github.com/filinglens/filinglens-backend/internal/pipeline"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	refs, err := a.Runner.Discover(ctx)
	if err != nil {
		a.Log.Error("Discovery failed", "error", err)
		os.Exit(1)
	}

	stats, err := a.Runner.RunOnce(ctx)
	if err != nil {
		a.Log.Error("Pipeline pass aborted", "error", err)
		os.Exit(1)
	}

	if !a.Cfg.Synthesize {
		a.Log.Info("Done", "processed", stats.FilingsProcessed, "failed", stats.FilingsFailed)
		return
	}

	for _, ref := range refs {
		if ctx.Err() != nil {
			break
		}
		if _, err := a.TopLevel.Synthesize(ctx, ref.AccessionNumber); err != nil {
			if errors.Is(err, pipeline.ErrPrerequisiteMissing) {
				a.Log.Info("Filing not ready for top-level synthesis", "accession_number", ref.AccessionNumber)
			} else {
				a.Log.Error("Top-level synthesis failed", "accession_number", ref.AccessionNumber, "error", err)
			}
		}
		if _, err := a.Reports.Synthesize(ctx, ref.AccessionNumber); err != nil {
			if errors.Is(err, pipeline.ErrPrerequisiteMissing) {
				a.Log.Info("No completed sections yet for report", "accession_number", ref.AccessionNumber)
			} else {
				a.Log.Error("Report synthesis failed", "accession_number", ref.AccessionNumber, "error", err)
			}
		}
	}
}
