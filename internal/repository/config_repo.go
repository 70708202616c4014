package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"finance-dashboard-backend/internal/models"
)

// configRowID pins the AI config to a single row.
const configRowID = 1

type ConfigRepository struct {
	db *gorm.DB
}

func NewConfigRepository(db *gorm.DB) *ConfigRepository {
	return &ConfigRepository{db: db}
}

// Get returns the singleton config, or nil when it was never saved.
func (r *ConfigRepository) Get() (*models.AIConfig, error) {
	var cfg models.AIConfig
	err := r.db.First(&cfg, "id = ?", configRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save creates the config on first call and replaces it afterwards.
func (r *ConfigRepository) Save(cfg *models.AIConfig) error {
	cfg.ID = configRowID
	return r.db.
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(cfg).Error
}
