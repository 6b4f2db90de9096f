package domain

import (
	"github.com/filinglens/filinglens-backend/internal/domain/filings"
)

type Filing = filings.Filing
type FilingChunk = filings.FilingChunk
type SectionSummary = filings.SectionSummary
type TopLevelSummary = filings.TopLevelSummary
type ComprehensiveReport = filings.ComprehensiveReport
type ReportMetadata = filings.ReportMetadata

type SummaryStatus = filings.SummaryStatus

const (
	StatusReduceComplete = filings.StatusReduceComplete
	StatusMapFailed      = filings.StatusMapFailed
	StatusReduceFailed   = filings.StatusReduceFailed
)

func SectionScope(sectionKeys []string) string { return filings.SectionScope(sectionKeys) }
func ScopeSections(scope string) []string { return filings.ScopeSections(scope) }
