package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/filinglens/filinglens-backend/internal/clients/openai"
	"github.com/filinglens/filinglens-backend/internal/data/repos"
	types "github.com/filinglens/filinglens-backend/internal/domain"
	"github.com/filinglens/filinglens-backend/internal/pkg/logger"
)

// Summarizer runs the map/reduce stage for one filing: chunk summaries per
// section, then one synthesized section summary, persisted idempotently.
type Summarizer struct {
	log       *logger.Logger
	llm       openai.Client
	source    ChunkSource
	summaries repos.SectionSummaryRepo
	cfg       Config
}

func NewSummarizer(baseLog *logger.Logger, llm openai.Client, source ChunkSource, summaries repos.SectionSummaryRepo, cfg Config) *Summarizer {
	return &Summarizer{
		log:       baseLog.With("component", "Summarizer"),
		llm:       llm,
		source:    source,
		summaries: summaries,
		cfg:       cfg,
	}
}

// SectionOutcome reports what happened to one section of a filing.
type SectionOutcome struct {
	SectionKey string
	Status     types.SummaryStatus
	// Skipped is true when the section had no chunks: nothing to do, no row
	// written.
	Skipped bool
	// Err is set only for collaborator failures (store, chunk source). LLM
	// failures are persisted as map_failed / reduce_failed, not errors.
	Err error
}

// ProcessFiling runs every configured target section. Sections are
// independent units of work: one section's failure never blocks another's.
// The returned error aggregates collaborator failures only.
func (s *Summarizer) ProcessFiling(ctx context.Context, ticker, accessionNumber string) ([]SectionOutcome, error) {
	log := s.log.With("ticker", ticker, "accession_number", accessionNumber)
	log.Info("Processing filing", "sections", len(s.cfg.TargetSections))

	outcomes := make([]SectionOutcome, len(s.cfg.TargetSections))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.SectionConcurrency)

	for i, sectionKey := range s.cfg.TargetSections {
		i, sectionKey := i, sectionKey
		g.Go(func() error {
			outcome := s.ProcessSection(gctx, ticker, accessionNumber, sectionKey)
			mu.Lock()
			outcomes[i] = outcome
			mu.Unlock()
			// Isolation: never propagate, so sibling sections keep running.
			return nil
		})
	}
	_ = g.Wait()

	var collabErrs []error
	for _, o := range outcomes {
		if o.Err != nil {
			collabErrs = append(collabErrs, fmt.Errorf("section %s: %w", o.SectionKey, o.Err))
		}
	}
	return outcomes, errors.Join(collabErrs...)
}

// ProcessSection runs chunks → map → reduce for one section and persists the
// outcome. Re-running patches the same row.
func (s *Summarizer) ProcessSection(ctx context.Context, ticker, accessionNumber, sectionKey string) SectionOutcome {
	log := s.log.With("accession_number", accessionNumber, "section_key", sectionKey)
	outcome := SectionOutcome{SectionKey: sectionKey}

	chunks, err := s.source.ListChunks(ctx, ticker, accessionNumber, sectionKey)
	if err != nil {
		outcome.Err = fmt.Errorf("list chunks: %w", err)
		return outcome
	}
	if len(chunks) == 0 {
		log.Info("Section has no chunks, skipping")
		outcome.Skipped = true
		return outcome
	}

	chunkSummaries := s.mapChunks(ctx, sectionKey, chunks)

	if len(chunkSummaries) == 0 {
		log.Warn("Map stage produced no usable chunk summaries", "chunks", len(chunks))
		outcome.Status = types.StatusMapFailed
		outcome.Err = s.persist(ctx, accessionNumber, sectionKey, &persistInput{
			status:     types.StatusMapFailed,
			chunkCount: len(chunks),
			errMessage: fmt.Sprintf("all %d chunk summarization calls failed", len(chunks)),
		})
		return outcome
	}

	joined := strings.Join(chunkSummaries, "\n\n")

	sectionSummary, err := s.reduce(ctx, sectionKey, joined)
	if err != nil || strings.TrimSpace(sectionSummary) == "" {
		if err == nil {
			err = errors.New("empty section summary")
		}
		log.Warn("Reduce stage failed", "error", err)
		outcome.Status = types.StatusReduceFailed
		outcome.Err = s.persist(ctx, accessionNumber, sectionKey, &persistInput{
			status:     types.StatusReduceFailed,
			rawInput:   joined,
			chunkCount: len(chunks),
			errMessage: err.Error(),
		})
		return outcome
	}

	outcome.Status = types.StatusReduceComplete
	outcome.Err = s.persist(ctx, accessionNumber, sectionKey, &persistInput{
		status:     types.StatusReduceComplete,
		summary:    sectionSummary,
		rawInput:   joined,
		chunkCount: len(chunks),
	})
	if outcome.Err == nil {
		log.Info("Section summary complete", "chunks", len(chunks), "summarized", len(chunkSummaries))
	}
	return outcome
}

// mapChunks summarizes each chunk under a bounded errgroup, preserving chunk
// order. A failed call drops that index; the reduce stage checks the
// aggregate.
func (s *Summarizer) mapChunks(ctx context.Context, sectionKey string, chunks []string) []string {
	results := make([]string, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MapConcurrency)

	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			text, err := s.llm.Complete(gctx, openai.CompletionRequest{
				Model: s.cfg.SectionModel,
				Messages: []openai.Message{
					{Role: "system", Content: chunkSummarySystemPrompt},
					{Role: "user", Content: chunkSummaryUserPrompt(sectionKey, chunk)},
				},
				MaxOutputTokens: s.cfg.ChunkSummaryTokens,
				Temperature:     s.cfg.Temperature,
			})
			if err != nil {
				s.log.Warn("Chunk summarization failed, dropping chunk",
					"section_key", sectionKey,
					"chunk_index", i,
					"error", err,
				)
				return nil
			}
			results[i] = text
			return nil
		})
	}
	_ = g.Wait()

	out := make([]string, 0, len(results))
	for _, r := range results {
		if strings.TrimSpace(r) != "" {
			out = append(out, r)
		}
	}
	return out
}

func (s *Summarizer) reduce(ctx context.Context, sectionKey, joined string) (string, error) {
	return s.llm.Complete(ctx, openai.CompletionRequest{
		Model: s.cfg.SectionModel,
		Messages: []openai.Message{
			{Role: "system", Content: sectionSummarySystemPrompt},
			{Role: "user", Content: sectionSummaryUserPrompt(sectionKey, joined)},
		},
		MaxOutputTokens: s.cfg.SectionSummaryTokens,
		Temperature:     s.cfg.Temperature,
	})
}

type persistInput struct {
	status     types.SummaryStatus
	summary    string
	rawInput   string
	chunkCount int
	errMessage string
}

func (s *Summarizer) persist(ctx context.Context, accessionNumber, sectionKey string, in *persistInput) error {
	row := &types.SectionSummary{
		AccessionNumber:   accessionNumber,
		SectionKey:        sectionKey,
		ModelName:         s.cfg.SectionModel,
		SummaryText:       in.summary,
		RawChunkSummaries: in.rawInput,
		ChunkCount:        in.chunkCount,
		Status:            in.status,
		ErrorMessage:      in.errMessage,
		GeneratedAt:       time.Now().UTC(),
	}
	if err := s.summaries.Upsert(ctx, nil, row); err != nil {
		return fmt.Errorf("upsert section summary: %w", err)
	}
	return nil
}
