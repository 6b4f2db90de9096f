package filings

import (
	"context"

	"gorm.io/gorm"

	types "github.com/filinglens/filinglens-backend/internal/domain"
	"github.com/filinglens/filinglens-backend/internal/pkg/logger"
)

type FilingChunkRepo interface {
	Create(ctx context.Context, tx *gorm.DB, chunks []*types.FilingChunk) ([]*types.FilingChunk, error)
	ListBySection(ctx context.Context, tx *gorm.DB, accessionNumber, sectionKey string) ([]*types.FilingChunk, error)
	SectionKeys(ctx context.Context, tx *gorm.DB, accessionNumber string) ([]string, error)
}

type filingChunkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFilingChunkRepo(db *gorm.DB, baseLog *logger.Logger) FilingChunkRepo {
	return &filingChunkRepo{db: db, log: baseLog.With("repo", "FilingChunkRepo")}
}

func (r *filingChunkRepo) Create(ctx context.Context, tx *gorm.DB, chunks []*types.FilingChunk) ([]*types.FilingChunk, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(chunks) == 0 {
		return []*types.FilingChunk{}, nil
	}

	// Chunk text is large; keep insert batches small.
	const batchSize = 100
	if err := t.WithContext(ctx).CreateInBatches(chunks, batchSize).Error; err != nil {
		return nil, err
	}
	return chunks, nil
}

func (r *filingChunkRepo) ListBySection(ctx context.Context, tx *gorm.DB, accessionNumber, sectionKey string) ([]*types.FilingChunk, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.FilingChunk
	if accessionNumber == "" || sectionKey == "" {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("accession_number = ? AND section_key = ?", accessionNumber, sectionKey).
		Order("chunk_index ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *filingChunkRepo) SectionKeys(ctx context.Context, tx *gorm.DB, accessionNumber string) ([]string, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []string
	if accessionNumber == "" {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Model(&types.FilingChunk{}).
		Where("accession_number = ?", accessionNumber).
		Distinct().
		Order("section_key ASC").
		Pluck("section_key", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
