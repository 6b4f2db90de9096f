package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"github.com/filinglens/filinglens-backend/internal/clients/openai"
	"github.com/filinglens/filinglens-backend/internal/data/repos"
	types "github.com/filinglens/filinglens-backend/internal/domain"
	"github.com/filinglens/filinglens-backend/internal/domain/filings"
	"github.com/filinglens/filinglens-backend/internal/pkg/logger"
)

// ReportSynthesizer produces the long structured research report. Unlike the
// top-level brief it narrows to whatever section summaries exist: the
// available set becomes the cache key, and only an empty set fails.
type ReportSynthesizer struct {
	log       *logger.Logger
	llm       openai.Client
	summaries repos.SectionSummaryRepo
	reports   repos.ComprehensiveReportRepo
	cfg       Config
}

func NewReportSynthesizer(baseLog *logger.Logger, llm openai.Client, summaries repos.SectionSummaryRepo, reports repos.ComprehensiveReportRepo, cfg Config) *ReportSynthesizer {
	return &ReportSynthesizer{
		log:       baseLog.With("component", "ReportSynthesizer"),
		llm:       llm,
		summaries: summaries,
		reports:   reports,
		cfg:       cfg,
	}
}

func (s *ReportSynthesizer) Synthesize(ctx context.Context, accessionNumber string) (*types.ComprehensiveReport, error) {
	log := s.log.With("accession_number", accessionNumber, "model", s.cfg.ReportModel)

	available, err := s.summaries.GetCompleted(ctx, nil, accessionNumber, s.cfg.ReportSections, s.cfg.SectionModel)
	if err != nil {
		return nil, fmt.Errorf("fetch completed section summaries: %w", err)
	}
	if len(available) == 0 {
		return nil, &PrerequisiteMissingError{
			AccessionNumber: accessionNumber,
			MissingSections: s.cfg.ReportSections,
		}
	}

	availableKeys := make([]string, 0, len(available))
	for _, row := range available {
		availableKeys = append(availableKeys, row.SectionKey)
	}
	scope := filings.SectionScope(availableKeys)

	existing, err := s.reports.GetByKey(ctx, nil, accessionNumber, s.cfg.ReportModel, scope)
	if err != nil {
		return nil, fmt.Errorf("look up comprehensive report: %w", err)
	}
	if existing != nil {
		log.Debug("Comprehensive report cache hit", "scope", scope)
		return existing, nil
	}

	concatenated := concatSectionSummaries(available)

	text, err := s.llm.Complete(ctx, openai.CompletionRequest{
		Model: s.cfg.ReportModel,
		Messages: []openai.Message{
			{Role: "system", Content: comprehensiveReportSystemPrompt},
			{Role: "user", Content: concatenated},
		},
		MaxOutputTokens: s.cfg.ReportTokens,
		Temperature:     s.cfg.Temperature,
	})
	if err != nil || strings.TrimSpace(text) == "" {
		if err == nil {
			err = fmt.Errorf("empty completion")
		}
		return nil, &GenerationError{Stage: "comprehensive-report", AccessionNumber: accessionNumber, Err: err}
	}

	meta, err := json.Marshal(types.ReportMetadata{
		AvailableSections: filings.ScopeSections(scope),
		WordCount:         countWords(text),
		Model:             s.cfg.ReportModel,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal report metadata: %w", err)
	}

	row, err := s.reports.Insert(ctx, nil, &types.ComprehensiveReport{
		AccessionNumber: accessionNumber,
		ModelName:       s.cfg.ReportModel,
		SectionScope:    scope,
		ReportText:      text,
		Metadata:        datatypes.JSON(meta),
	})
	if err != nil {
		return nil, fmt.Errorf("insert comprehensive report: %w", err)
	}

	log.Info("Comprehensive report generated",
		"sections_available", len(availableKeys),
		"sections_requested", len(s.cfg.ReportSections),
		"words", countWords(row.ReportText),
	)
	return row, nil
}
