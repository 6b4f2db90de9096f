package filings

import (
	"time"

	"github.com/google/uuid"
)

// SummaryStatus is the terminal state of one map/reduce run over a section.
type SummaryStatus string

const (
	// StatusReduceComplete means the section summary was synthesized and
	// SummaryText is non-empty.
	StatusReduceComplete SummaryStatus = "reduce_complete"
	// StatusMapFailed means no chunk produced a usable summary.
	StatusMapFailed SummaryStatus = "map_failed"
	// StatusReduceFailed means chunk summaries existed but the synthesis
	// call returned no text.
	StatusReduceFailed SummaryStatus = "reduce_failed"
)

func (s SummaryStatus) Valid() bool {
	switch s {
	case StatusReduceComplete, StatusMapFailed, StatusReduceFailed:
		return true
	}
	return false
}

// SectionSummary is the reduce stage's persisted unit of work, unique per
// (accession, section, model). Re-runs patch the same row in place.
type SectionSummary struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AccessionNumber string    `gorm:"column:accession_number;not null;index:idx_section_summary_key,unique,priority:1" json:"accession_number"`
	SectionKey      string    `gorm:"column:section_key;not null;index:idx_section_summary_key,unique,priority:2" json:"section_key"`
	ModelName       string    `gorm:"column:model_name;not null;index:idx_section_summary_key,unique,priority:3" json:"model_name"`

	SummaryText       string        `gorm:"column:summary_text;type:text" json:"summary_text"`
	RawChunkSummaries string        `gorm:"column:raw_chunk_summaries;type:text" json:"raw_chunk_summaries"`
	ChunkCount        int           `gorm:"column:chunk_count;not null;default:0" json:"chunk_count"`
	Status            SummaryStatus `gorm:"column:status;not null;index" json:"status"`
	ErrorMessage      string        `gorm:"column:error_message" json:"error_message,omitempty"`
	GeneratedAt       time.Time     `gorm:"column:generated_at;not null" json:"generated_at"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (SectionSummary) TableName() string { return "section_summary" }
