package repos

import (
	"gorm.io/gorm"

	"github.com/filinglens/filinglens-backend/internal/data/repos/filings"
	"github.com/filinglens/filinglens-backend/internal/pkg/logger"
)

type FilingRepo = filings.FilingRepo
type FilingChunkRepo = filings.FilingChunkRepo
type SectionSummaryRepo = filings.SectionSummaryRepo
type TopLevelSummaryRepo = filings.TopLevelSummaryRepo
type ComprehensiveReportRepo = filings.ComprehensiveReportRepo

type FilingRef = filings.FilingRef

func NewFilingRepo(db *gorm.DB, baseLog *logger.Logger) FilingRepo {
	return filings.NewFilingRepo(db, baseLog)
}
func NewFilingChunkRepo(db *gorm.DB, baseLog *logger.Logger) FilingChunkRepo {
	return filings.NewFilingChunkRepo(db, baseLog)
}
func NewSectionSummaryRepo(db *gorm.DB, baseLog *logger.Logger) SectionSummaryRepo {
	return filings.NewSectionSummaryRepo(db, baseLog)
}
func NewTopLevelSummaryRepo(db *gorm.DB, baseLog *logger.Logger) TopLevelSummaryRepo {
	return filings.NewTopLevelSummaryRepo(db, baseLog)
}
func NewComprehensiveReportRepo(db *gorm.DB, baseLog *logger.Logger) ComprehensiveReportRepo {
	return filings.NewComprehensiveReportRepo(db, baseLog)
}
