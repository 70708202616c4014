package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ImportBatch records one processed upload for auditing. Summary holds
// free-form counters (per-direction counts, dropped rows) as JSON.
type ImportBatch struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Filename      string         `json:"filename"`
	Platform      string         `json:"platform"`
	TotalRows     int            `json:"total_rows"`
	ImportedCount int            `json:"imported_count"`
	ShadowCount   int            `json:"shadow_count"`
	Summary       datatypes.JSON `json:"summary"`
	CreatedAt     time.Time      `json:"created_at"`
}
