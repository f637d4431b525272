package model

import (
	"time"

	"github.com/google/uuid"
)

// ExtractionModel mirrors the 'extractions' table.
type ExtractionModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_extractions_user_created"`
	Filename  string    `gorm:"type:varchar(255)"`
	Text      string    `gorm:"type:text;not null"`
	Checksum  string    `gorm:"type:varchar(64)"`
	CreatedAt time.Time `gorm:"index:idx_extractions_user_created"`

	Analyses []AnalysisModel `gorm:"foreignKey:ExtractionID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (ExtractionModel) TableName() string {
	return "extractions"
}

// AnalysisModel mirrors the 'analyses' table. The kind-specific result is
// stored as a JSONB payload; the domain layer owns its shape.
type AnalysisModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	ExtractionID uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind         string    `gorm:"type:varchar(32);not null"`
	Payload      []byte    `gorm:"type:jsonb;not null"`
	CreatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (AnalysisModel) TableName() string {
	return "analyses"
}
