package filings

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SectionScope canonicalizes a set of section keys into the text form used
// in unique indexes: sorted, pipe-joined. Two fetch orders of the same keys
// always produce the same scope.
func SectionScope(sectionKeys []string) string {
	keys := make([]string, len(sectionKeys))
	copy(keys, sectionKeys)
	sort.Strings(keys)
	return strings.Join(keys, "|")
}

// ScopeSections is the inverse of SectionScope.
func ScopeSections(scope string) []string {
	if scope == "" {
		return nil
	}
	return strings.Split(scope, "|")
}

// TopLevelSummary is one filing-level investment brief, unique per
// (accession, model, source section scope). Cache hit on the same key skips
// the LLM entirely.
type TopLevelSummary struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AccessionNumber string    `gorm:"column:accession_number;not null;index:idx_top_level_summary_key,unique,priority:1" json:"accession_number"`
	ModelName       string    `gorm:"column:model_name;not null;index:idx_top_level_summary_key,unique,priority:2" json:"model_name"`
	SectionScope    string    `gorm:"column:section_scope;not null;index:idx_top_level_summary_key,unique,priority:3" json:"section_scope"`

	SummaryText       string `gorm:"column:summary_text;type:text;not null" json:"summary_text"`
	ConcatenatedInput string `gorm:"column:concatenated_input;type:text" json:"concatenated_input"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (TopLevelSummary) TableName() string { return "top_level_summary" }
