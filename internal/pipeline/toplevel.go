package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/filinglens/filinglens-backend/internal/clients/openai"
	rediscache "github.com/filinglens/filinglens-backend/internal/clients/redis"
	"github.com/filinglens/filinglens-backend/internal/data/repos"
	types "github.com/filinglens/filinglens-backend/internal/domain"
	"github.com/filinglens/filinglens-backend/internal/domain/filings"
	"github.com/filinglens/filinglens-backend/internal/pkg/logger"
)

// TopLevelSynthesizer combines the fixed set of completed section summaries
// into one filing-level investment brief. It is strict: every required
// section must be reduce_complete, or nothing is generated or persisted.
type TopLevelSynthesizer struct {
	log       *logger.Logger
	llm       openai.Client
	summaries repos.SectionSummaryRepo
	briefs    repos.TopLevelSummaryRepo
	// cache is optional; nil disables the read-through layer.
	cache rediscache.BriefCache
	cfg   Config
}

func NewTopLevelSynthesizer(baseLog *logger.Logger, llm openai.Client, summaries repos.SectionSummaryRepo, briefs repos.TopLevelSummaryRepo, cache rediscache.BriefCache, cfg Config) *TopLevelSynthesizer {
	return &TopLevelSynthesizer{
		log:       baseLog.With("component", "TopLevelSynthesizer"),
		llm:       llm,
		summaries: summaries,
		briefs:    briefs,
		cache:     cache,
		cfg:       cfg,
	}
}

// Synthesize returns the brief for the filing: cached when the natural key
// already has a row, freshly generated otherwise.
func (s *TopLevelSynthesizer) Synthesize(ctx context.Context, accessionNumber string) (*types.TopLevelSummary, error) {
	scope := filings.SectionScope(s.cfg.TargetSections)
	log := s.log.With("accession_number", accessionNumber, "model", s.cfg.SynthesisModel)

	if s.cache != nil {
		if text, ok, err := s.cache.Get(ctx, briefCacheKey(accessionNumber, s.cfg.SynthesisModel, scope)); err != nil {
			log.Warn("Brief cache read failed, falling through to store", "error", err)
		} else if ok {
			return &types.TopLevelSummary{
				AccessionNumber: accessionNumber,
				ModelName:       s.cfg.SynthesisModel,
				SectionScope:    scope,
				SummaryText:     text,
			}, nil
		}
	}

	existing, err := s.briefs.GetByKey(ctx, nil, accessionNumber, s.cfg.SynthesisModel, scope)
	if err != nil {
		return nil, fmt.Errorf("look up top-level summary: %w", err)
	}
	if existing != nil {
		log.Debug("Top-level summary cache hit")
		s.cacheSet(ctx, accessionNumber, scope, existing.SummaryText)
		return existing, nil
	}

	// Every required section must be complete before any text is generated;
	// a partial brief is never produced.
	found, missing, err := s.fetchRequired(ctx, accessionNumber)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, &PrerequisiteMissingError{AccessionNumber: accessionNumber, MissingSections: missing}
	}

	concatenated := concatSectionSummaries(found)

	text, err := s.llm.Complete(ctx, openai.CompletionRequest{
		Model: s.cfg.SynthesisModel,
		Messages: []openai.Message{
			{Role: "system", Content: topLevelSystemPrompt},
			{Role: "user", Content: concatenated},
		},
		MaxOutputTokens: s.cfg.BriefTokens,
		Temperature:     s.cfg.Temperature,
	})
	if err != nil || strings.TrimSpace(text) == "" {
		if err == nil {
			err = fmt.Errorf("empty completion")
		}
		return nil, &GenerationError{Stage: "top-level", AccessionNumber: accessionNumber, Err: err}
	}

	row, err := s.briefs.Insert(ctx, nil, &types.TopLevelSummary{
		AccessionNumber:   accessionNumber,
		ModelName:         s.cfg.SynthesisModel,
		SectionScope:      scope,
		SummaryText:       text,
		ConcatenatedInput: concatenated,
	})
	if err != nil {
		return nil, fmt.Errorf("insert top-level summary: %w", err)
	}

	log.Info("Top-level summary generated", "sections", len(found), "words", countWords(row.SummaryText))
	s.cacheSet(ctx, accessionNumber, scope, row.SummaryText)
	return row, nil
}

func (s *TopLevelSynthesizer) fetchRequired(ctx context.Context, accessionNumber string) ([]*types.SectionSummary, []string, error) {
	required := make([]string, len(s.cfg.TargetSections))
	copy(required, s.cfg.TargetSections)
	sort.Strings(required)

	var found []*types.SectionSummary
	var missing []string
	for _, key := range required {
		row, err := s.summaries.GetByKey(ctx, nil, accessionNumber, key, s.cfg.SectionModel, types.StatusReduceComplete)
		if err != nil {
			return nil, nil, fmt.Errorf("fetch section summary %s: %w", key, err)
		}
		if row == nil {
			missing = append(missing, key)
			continue
		}
		found = append(found, row)
	}
	return found, missing, nil
}

func (s *TopLevelSynthesizer) cacheSet(ctx context.Context, accessionNumber, scope, text string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, briefCacheKey(accessionNumber, s.cfg.SynthesisModel, scope), text); err != nil {
		s.log.Warn("Brief cache write failed", "accession_number", accessionNumber, "error", err)
	}
}

func briefCacheKey(accessionNumber, modelName, scope string) string {
	return accessionNumber + "|" + modelName + "|" + scope
}
