package filings

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ComprehensiveReport is one long structured multi-part analysis, unique per
// (accession, model, scope of sections that were actually available).
type ComprehensiveReport struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AccessionNumber string    `gorm:"column:accession_number;not null;index:idx_comprehensive_report_key,unique,priority:1" json:"accession_number"`
	ModelName       string    `gorm:"column:model_name;not null;index:idx_comprehensive_report_key,unique,priority:2" json:"model_name"`
	SectionScope    string    `gorm:"column:section_scope;not null;index:idx_comprehensive_report_key,unique,priority:3" json:"section_scope"`

	ReportText string         `gorm:"column:report_text;type:text;not null" json:"report_text"`
	Metadata   datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ComprehensiveReport) TableName() string { return "comprehensive_report" }

// ReportMetadata is the shape serialized into ComprehensiveReport.Metadata.
type ReportMetadata struct {
	AvailableSections []string `json:"available_sections"`
	WordCount         int      `json:"word_count"`
	Model             string   `json:"model"`
}
