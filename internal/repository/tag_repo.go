package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"finance-dashboard-backend/internal/models"
)

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// GetOrCreate returns the id of the named tag, creating it on first
// use.
func (r *TagRepository) GetOrCreate(name string) (uint, error) {
	var tag models.Tag
	err := r.db.Where("name = ?", name).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		tag = models.Tag{Name: name}
		if err := r.db.Create(&tag).Error; err != nil {
			return 0, err
		}
		return tag.ID, nil
	}
	if err != nil {
		return 0, err
	}
	return tag.ID, nil
}

// Attach links a tag to a transaction. Duplicate assignment is a no-op.
func (r *TagRepository) Attach(transactionID string, tagID uint) error {
	return r.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.TransactionTag{TransactionID: transactionID, TagID: tagID}).Error
}

// Detach removes one tag from a transaction. A missing tag is a no-op.
func (r *TagRepository) Detach(transactionID, name string) error {
	var tag models.Tag
	err := r.db.Where("name = ?", name).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return r.db.
		Where("transaction_id = ? AND tag_id = ?", transactionID, tag.ID).
		Delete(&models.TransactionTag{}).Error
}

type TagStat struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	Count       int     `json:"count"`
	TotalAmount float64 `json:"total_amount"`
}

// Stats returns every tag with its usage count and non-shadow spend
// total, largest total first.
func (r *TagRepository) Stats() ([]TagStat, error) {
	var stats []TagStat
	err := r.db.
		Table("tags t").
		Select("t.id, t.name, t.color, COUNT(tt.transaction_id) AS count, COALESCE(SUM(tr.amount), 0) AS total_amount").
		Joins("LEFT JOIN transaction_tags tt ON t.id = tt.tag_id").
		Joins("LEFT JOIN transactions tr ON tt.transaction_id = tr.id AND tr.status <> ?", models.StatusShadow).
		Group("t.id").
		Order("total_amount DESC").
		Scan(&stats).Error
	return stats, err
}
