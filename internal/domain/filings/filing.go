package filings

import (
	"time"

	"github.com/google/uuid"
)

// Filing is one SEC filing, keyed by its accession number. Rows are created
// by the ingestion service and are read-only to the summarization pipeline.
type Filing struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AccessionNumber string    `gorm:"column:accession_number;not null;uniqueIndex" json:"accession_number"`
	Ticker          string    `gorm:"column:ticker;not null;index" json:"ticker"`
	CompanyName     string    `gorm:"column:company_name" json:"company_name"`
	FormType        string    `gorm:"column:form_type;not null;index" json:"form_type"`
	FiledAt         time.Time `gorm:"column:filed_at;index" json:"filed_at"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Filing) TableName() string { return "filing" }
