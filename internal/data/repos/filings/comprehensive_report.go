package filings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	types "github.com/filinglens/filinglens-backend/internal/domain"
	"github.com/filinglens/filinglens-backend/internal/pkg/logger"
)

const uniqueViolationCode = "23505"

type ComprehensiveReportRepo interface {
	GetByKey(ctx context.Context, tx *gorm.DB, accessionNumber, modelName, sectionScope string) (*types.ComprehensiveReport, error)
	GetLatest(ctx context.Context, tx *gorm.DB, accessionNumber, modelName string) (*types.ComprehensiveReport, error)

	// Insert writes the row; a unique-violation race resolves last-writer-wins
	// by re-querying the most recent row for (accession, model).
	Insert(ctx context.Context, tx *gorm.DB, row *types.ComprehensiveReport) (*types.ComprehensiveReport, error)
}

type comprehensiveReportRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewComprehensiveReportRepo(db *gorm.DB, baseLog *logger.Logger) ComprehensiveReportRepo {
	return &comprehensiveReportRepo{db: db, log: baseLog.With("repo", "ComprehensiveReportRepo")}
}

func (r *comprehensiveReportRepo) GetByKey(ctx context.Context, tx *gorm.DB, accessionNumber, modelName, sectionScope string) (*types.ComprehensiveReport, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if accessionNumber == "" || modelName == "" || sectionScope == "" {
		return nil, nil
	}
	var out []*types.ComprehensiveReport
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

func (r *comprehensiveReportRepo) GetLatest(ctx context.Context, tx *gorm.DB, accessionNumber, modelName string) (*types.ComprehensiveReport, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if accessionNumber == "" || modelName == "" {
		return nil, nil
	}
	var out []*types.ComprehensiveReport
	if err := t.WithContext(ctx).
		Where("accession_number = ? AND model_name = ?", accessionNumber, modelName).
		Order("created_at DESC").
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *comprehensiveReportRepo) Insert(ctx context.Context, tx *gorm.DB, row *types.ComprehensiveReport) (*types.ComprehensiveReport, error) {
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

	if err := t.WithContext(ctx).Create(row).Error; err != nil {
		if isUniqueViolation(err) {
			r.log.Debug("Comprehensive report insert lost race, reading back latest",
				"accession_number", row.AccessionNumber,
				"model_name", row.ModelName,
			)
			return r.GetLatest(ctx, tx, row.AccessionNumber, row.ModelName)
		}
		return nil, err
	}
	return row, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
