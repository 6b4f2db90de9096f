package filings

import (
	"context"

	"gorm.io/gorm"

	types "github.com/filinglens/filinglens-backend/internal/domain"
	"github.com/filinglens/filinglens-backend/internal/pkg/logger"
)

// FilingRef identifies one filing needing pipeline work.
type FilingRef struct {
	Ticker          string `json:"ticker"`
	AccessionNumber string `json:"accession_number"`
}

type FilingRepo interface {
	GetByAccession(ctx context.Context, tx *gorm.DB, accessionNumber string) (*types.Filing, error)
	GetByTicker(ctx context.Context, tx *gorm.DB, ticker string) ([]*types.Filing, error)

	// FindNeedingSections returns filings of the given form types where at
	// least one of sectionKeys has no reduce_complete summary for modelName.
	FindNeedingSections(ctx context.Context, tx *gorm.DB, modelName string, sectionKeys []string, formTypes []string) ([]FilingRef, error)
}

type filingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFilingRepo(db *gorm.DB, baseLog *logger.Logger) FilingRepo {
	return &filingRepo{db: db, log: baseLog.With("repo", "FilingRepo")}
}

func (r *filingRepo) GetByAccession(ctx context.Context, tx *gorm.DB, accessionNumber string) (*types.Filing, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if accessionNumber == "" {
		return nil, nil
	}
	var out []*types.Filing
	if err := t.WithContext(ctx).
		Where("accession_number = ?", accessionNumber).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *filingRepo) GetByTicker(ctx context.Context, tx *gorm.DB, ticker string) ([]*types.Filing, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Filing
	if ticker == "" {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("ticker = ?", ticker).
		Order("filed_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *filingRepo) FindNeedingSections(ctx context.Context, tx *gorm.DB, modelName string, sectionKeys []string, formTypes []string) ([]FilingRef, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	out := []FilingRef{}
	if modelName == "" || len(sectionKeys) == 0 || len(formTypes) == 0 {
		return out, nil
	}

	// Anti-join: a filing is done only when every target section has a
	// reduce_complete row for this model. Counting distinct completed keys
	// avoids mis-flagging a filing as done when only some sections finished.
	err := t.WithContext(ctx).Raw(`
		SELECT f.ticker, f.accession_number
		FROM filing f
		LEFT JOIN section_summary s
		  ON s.accession_number = f.accession_number
		 AND s.model_name = ?
		 AND s.status = ?
		 AND s.section_key IN ?
		WHERE f.form_type IN ?
		GROUP BY f.ticker, f.accession_number
		HAVING COUNT(DISTINCT s.section_key) < ?
		ORDER BY f.accession_number ASC`,
		modelName, string(types.StatusReduceComplete), sectionKeys, formTypes, len(sectionKeys),
	).Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
