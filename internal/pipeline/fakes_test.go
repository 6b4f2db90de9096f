package pipeline

import (
	"context"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/filinglens/filinglens-backend/internal/clients/openai"
	"github.com/filinglens/filinglens-backend/internal/data/repos"
	types "github.com/filinglens/filinglens-backend/internal/domain"
	"github.com/filinglens/filinglens-backend/internal/pkg/logger"
)

func testLogger() *logger.Logger {
	log, err := logger.New("test")
	if err != nil {
		panic(err)
	}
	return log
}

// stubLLM answers completions via a scripted function and records every call.
type stubLLM struct {
	mu      sync.Mutex
	calls   []openai.CompletionRequest
	respond func(req openai.CompletionRequest) (string, error)
}

func (s *stubLLM) Complete(ctx context.Context, req openai.CompletionRequest) (string, error) {
	_ = ctx
	s.mu.Lock()
	s.calls = append(s.calls, req)
	s.mu.Unlock()
	if s.respond == nil {
		return "stub summary", nil
	}
	return s.respond(req)
}

func (s *stubLLM) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *stubLLM) lastCall() openai.CompletionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[len(s.calls)-1]
}

// userContent extracts the user message of a scripted call.
func userContent(req openai.CompletionRequest) string {
	for _, m := range req.Messages {
		if m.Role == "user" {
			return m.Content
		}
	}
	return ""
}

// memChunkSource serves chunk texts keyed by accession|section.
type memChunkSource struct {
	chunks map[string][]string
	err    error
}

func (s *memChunkSource) ListChunks(ctx context.Context, ticker, accessionNumber, sectionKey string) ([]string, error) {
	_ = ctx
	_ = ticker
	if s.err != nil {
		return nil, s.err
	}
	return s.chunks[accessionNumber+"|"+sectionKey], nil
}

// memSummaryRepo is an in-memory SectionSummaryRepo with the same upsert
// contract as the gorm implementation.
type memSummaryRepo struct {
	mu   sync.Mutex
	rows map[string]*types.SectionSummary
}

func newMemSummaryRepo() *memSummaryRepo {
	return &memSummaryRepo{rows: map[string]*types.SectionSummary{}}
}

func summaryKey(accessionNumber, sectionKey, modelName string) string {
	return accessionNumber + "|" + sectionKey + "|" + modelName
}

func (r *memSummaryRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.SectionSummary) error {
	_ = ctx
	_ = tx
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *row
	cp.UpdatedAt = time.Now().UTC()
	r.rows[summaryKey(row.AccessionNumber, row.SectionKey, row.ModelName)] = &cp
	return nil
}

func (r *memSummaryRepo) GetByKey(ctx context.Context, tx *gorm.DB, accessionNumber, sectionKey, modelName string, requiredStatus types.SummaryStatus) (*types.SectionSummary, error) {
	_ = ctx
	_ = tx
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[summaryKey(accessionNumber, sectionKey, modelName)]
	if !ok {
		return nil, nil
	}
	if requiredStatus != "" && row.Status != requiredStatus {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (r *memSummaryRepo) GetCompleted(ctx context.Context, tx *gorm.DB, accessionNumber string, sectionKeys []string, modelName string) ([]*types.SectionSummary, error) {
	_ = ctx
	_ = tx
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.SectionSummary
	for _, key := range sectionKeys {
		row, ok := r.rows[summaryKey(accessionNumber, key, modelName)]
		if ok && row.Status == types.StatusReduceComplete {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memSummaryRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// memBriefRepo is an in-memory TopLevelSummaryRepo.
type memBriefRepo struct {
	mu   sync.Mutex
	rows map[string]*types.TopLevelSummary
}

func newMemBriefRepo() *memBriefRepo {
	return &memBriefRepo{rows: map[string]*types.TopLevelSummary{}}
}

func briefKey(accessionNumber, modelName, scope string) string {
	return accessionNumber + "|" + modelName + "|" + scope
}

func (r *memBriefRepo) GetByKey(ctx context.Context, tx *gorm.DB, accessionNumber, modelName, sectionScope string) (*types.TopLevelSummary, error) {
	_ = ctx
	_ = tx
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[briefKey(accessionNumber, modelName, sectionScope)]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (r *memBriefRepo) Insert(ctx context.Context, tx *gorm.DB, row *types.TopLevelSummary) (*types.TopLevelSummary, error) {
	_ = ctx
	_ = tx
	r.mu.Lock()
	defer r.mu.Unlock()
	key := briefKey(row.AccessionNumber, row.ModelName, row.SectionScope)
	if existing, ok := r.rows[key]; ok {
		cp := *existing
		return &cp, nil
	}
	cp := *row
	cp.CreatedAt = time.Now().UTC()
	r.rows[key] = &cp
	out := cp
	return &out, nil
}

// memReportRepo is an in-memory ComprehensiveReportRepo.
type memReportRepo struct {
	mu   sync.Mutex
	rows map[string]*types.ComprehensiveReport
}

func newMemReportRepo() *memReportRepo {
	return &memReportRepo{rows: map[string]*types.ComprehensiveReport{}}
}

func (r *memReportRepo) GetByKey(ctx context.Context, tx *gorm.DB, accessionNumber, modelName, sectionScope string) (*types.ComprehensiveReport, error) {
	_ = ctx
	_ = tx
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[briefKey(accessionNumber, modelName, sectionScope)]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (r *memReportRepo) GetLatest(ctx context.Context, tx *gorm.DB, accessionNumber, modelName string) (*types.ComprehensiveReport, error) {
	_ = ctx
	_ = tx
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *types.ComprehensiveReport
	for key, row := range r.rows {
		if !strings.HasPrefix(key, accessionNumber+"|"+modelName+"|") {
			continue
		}
		if latest == nil || row.CreatedAt.After(latest.CreatedAt) {
			latest = row
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *memReportRepo) Insert(ctx context.Context, tx *gorm.DB, row *types.ComprehensiveReport) (*types.ComprehensiveReport, error) {
	_ = ctx
	_ = tx
	r.mu.Lock()
	defer r.mu.Unlock()
	key := briefKey(row.AccessionNumber, row.ModelName, row.SectionScope)
	if _, ok := r.rows[key]; ok {
		// Mirror the race path: re-read latest for (accession, model).
		var latest *types.ComprehensiveReport
		for k, existing := range r.rows {
			if !strings.HasPrefix(k, row.AccessionNumber+"|"+row.ModelName+"|") {
				continue
			}
			if latest == nil || existing.CreatedAt.After(latest.CreatedAt) {
				latest = existing
			}
		}
		cp := *latest
		return &cp, nil
	}
	cp := *row
	cp.CreatedAt = time.Now().UTC()
	r.rows[key] = &cp
	out := cp
	return &out, nil
}

var _ repos.SectionSummaryRepo = (*memSummaryRepo)(nil)
var _ repos.TopLevelSummaryRepo = (*memBriefRepo)(nil)
var _ repos.ComprehensiveReportRepo = (*memReportRepo)(nil)
var _ ChunkSource = (*memChunkSource)(nil)
var _ openai.Client = (*stubLLM)(nil)
