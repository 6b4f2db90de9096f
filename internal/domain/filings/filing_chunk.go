package filings

import (
	"time"

	"github.com/google/uuid"
)

// FilingChunk is one ordered fragment of a filing section's text, produced
// by the segmentation service. The pipeline only reads these.
type FilingChunk struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AccessionNumber string    `gorm:"column:accession_number;not null;index:idx_filing_chunk_key,unique,priority:1" json:"accession_number"`
	SectionKey      string    `gorm:"column:section_key;not null;index:idx_filing_chunk_key,unique,priority:2" json:"section_key"`
	ChunkIndex      int       `gorm:"column:chunk_index;not null;index:idx_filing_chunk_key,unique,priority:3" json:"chunk_index"`
	Text            string    `gorm:"column:text;type:text;not null" json:"text"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (FilingChunk) TableName() string { return "filing_chunk" }
