package app

import (
	"gorm.io/gorm"

	"github.com/filinglens/filinglens-backend/internal/data/repos"
	"github.com/filinglens/filinglens-backend/internal/pkg/logger"
)

type Repos struct {
	Filings         repos.FilingRepo
	FilingChunks    repos.FilingChunkRepo
	SectionSummary  repos.SectionSummaryRepo
	TopLevelSummary repos.TopLevelSummaryRepo
	Reports         repos.ComprehensiveReportRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		Filings:         repos.NewFilingRepo(db, log),
		FilingChunks:    repos.NewFilingChunkRepo(db, log),
		SectionSummary:  repos.NewSectionSummaryRepo(db, log),
		TopLevelSummary: repos.NewTopLevelSummaryRepo(db, log),
		Reports:         repos.NewComprehensiveReportRepo(db, log),
	}
}
