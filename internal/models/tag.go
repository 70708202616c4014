package models

import "time"

type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	Color     string    `gorm:"default:#a855f7" json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

// TransactionTag is the join table. Duplicate assignments are ignored at
// insert time, so tagging is idempotent.
type TransactionTag struct {
	TransactionID string    `gorm:"primaryKey" json:"transaction_id"`
	TagID         uint      `gorm:"primaryKey" json:"tag_id"`
	CreatedAt     time.Time `json:"created_at"`
}
