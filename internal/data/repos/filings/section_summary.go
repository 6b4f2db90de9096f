package filings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/filinglens/filinglens-backend/internal/domain"
	"github.com/filinglens/filinglens-backend/internal/pkg/logger"
)

type SectionSummaryRepo interface {
	// Upsert inserts or patches the unique (accession, section, model) row in
	// a single statement. Repeated runs re-patch the same row; a concurrent
	// insert race collapses onto one row.
	Upsert(ctx context.Context, tx *gorm.DB, row *types.SectionSummary) error

	// GetByKey returns the row for the natural key, optionally filtered to a
	// required status. Returns nil when absent.
	GetByKey(ctx context.Context, tx *gorm.DB, accessionNumber, sectionKey, modelName string, requiredStatus types.SummaryStatus) (*types.SectionSummary, error)

	// GetCompleted returns the reduce_complete rows for the given keys.
	GetCompleted(ctx context.Context, tx *gorm.DB, accessionNumber string, sectionKeys []string, modelName string) ([]*types.SectionSummary, error)
}

type sectionSummaryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSectionSummaryRepo(db *gorm.DB, baseLog *logger.Logger) SectionSummaryRepo {
	return &sectionSummaryRepo{db: db, log: baseLog.With("repo", "SectionSummaryRepo")}
}

func (r *sectionSummaryRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.SectionSummary) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.AccessionNumber == "" || row.SectionKey == "" || row.ModelName == "" {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.GeneratedAt.IsZero() {
		row.GeneratedAt = time.Now().UTC()
	}
	row.UpdatedAt = time.Now().UTC()

	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "accession_number"},
				{Name: "section_key"},
				{Name: "model_name"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"summary_text",
				"raw_chunk_summaries",
				"chunk_count",
				"status",
				"error_message",
				"generated_at",
				"updated_at",
			}),
		}).
		Create(row).Error
}

func (r *sectionSummaryRepo) GetByKey(ctx context.Context, tx *gorm.DB, accessionNumber, sectionKey, modelName string, requiredStatus types.SummaryStatus) (*types.SectionSummary, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if accessionNumber == "" || sectionKey == "" || modelName == "" {
		return nil, nil
	}
	q := t.WithContext(ctx).
		Where("accession_number = ? AND section_key = ? AND model_name = ?", accessionNumber, sectionKey, modelName)
	if requiredStatus != "" {
		q = q.Where("status = ?", string(requiredStatus))
	}
	var out []*types.SectionSummary
	if err := q.Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *sectionSummaryRepo) GetCompleted(ctx context.Context, tx *gorm.DB, accessionNumber string, sectionKeys []string, modelName string) ([]*types.SectionSummary, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.SectionSummary
	if accessionNumber == "" || len(sectionKeys) == 0 || modelName == "" {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("accession_number = ? AND model_name = ? AND status = ? AND section_key IN ?",
			accessionNumber, modelName, string(types.StatusReduceComplete), sectionKeys).
		Order("section_key ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
