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

type TopLevelSummaryRepo interface {
	GetByKey(ctx context.Context, tx *gorm.DB, accessionNumber, modelName, sectionScope string) (*types.TopLevelSummary, error)

	// Insert writes the row once per natural key. A concurrent insert race is
	// tolerated: conflict-do-nothing, then read back the winner's row.
	Insert(ctx context.Context, tx *gorm.DB, row *types.TopLevelSummary) (*types.TopLevelSummary, error)
}

type topLevelSummaryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTopLevelSummaryRepo(db *gorm.DB, baseLog *logger.Logger) TopLevelSummaryRepo {
	return &topLevelSummaryRepo{db: db, log: baseLog.With("repo", "TopLevelSummaryRepo")}
}

func (r *topLevelSummaryRepo) GetByKey(ctx context.Context, tx *gorm.DB, accessionNumber, modelName, sectionScope string) (*types.TopLevelSummary, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if accessionNumber == "" || modelName == "" || sectionScope == "" {
		return nil, nil
	}
	var out []*types.TopLevelSummary
	if err := t.WithContext(ctx).
		Where("accession_number = ? AND model_name = ? AND section_scope = ?", accessionNumber, modelName, sectionScope).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *topLevelSummaryRepo) Insert(ctx context.Context, tx *gorm.DB, row *types.TopLevelSummary) (*types.TopLevelSummary, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.AccessionNumber == "" || row.ModelName == "" || row.SectionScope == "" {
		return nil, nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	res := t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "accession_number"},
				{Name: "model_name"},
				{Name: "section_scope"},
			},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Another writer won the race; their row is the cache entry.
		r.log.Debug("Top-level summary insert lost race, reading back",
			"accession_number", row.AccessionNumber,
			"model_name", row.ModelName,
		)
		return r.GetByKey(ctx, tx, row.AccessionNumber, row.ModelName, row.SectionScope)
	}
	return row, nil
}
