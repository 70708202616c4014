package tagging

import (
	"fmt"

	"gorm.io/gorm"

	"finance-dashboard-backend/internal/models"
	"finance-dashboard-backend/internal/repository"
)

// Service applies suggested and manual tags against the store. Every
// bulk operation runs inside one database transaction so a crash cannot
// leave a partially tagged batch.
type Service struct {
	db     *gorm.DB
	txRepo *repository.TransactionRepository
}

func NewService(db *gorm.DB, txRepo *repository.TransactionRepository) *Service {
	return &Service{db: db, txRepo: txRepo}
}

// AutoApply runs the rule engine over every non-shadow transaction and
// idempotently records the suggested associations. Returns the number
// of transactions processed.
func (s *Service) AutoApply() (int, error) {
	txs, err := s.txRepo.AllNonShadow()
	if err != nil {
		return 0, err
	}

	err = s.db.Transaction(func(dtx *gorm.DB) error {
		tags := repository.NewTagRepository(dtx)
		for i := range txs {
			for _, name := range SuggestTags(&txs[i]) {
				tagID, err := tags.GetOrCreate(name)
				if err != nil {
					return fmt.Errorf("create tag %s: %w", name, err)
				}
				if err := tags.Attach(txs[i].ID, tagID); err != nil {
					return fmt.Errorf("tag transaction %s: %w", txs[i].ID, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(txs), nil
}

// TagTransaction attaches the named tags to one transaction, creating
// tag records on first use.
func (s *Service) TagTransaction(transactionID string, names []string) error {
	return s.db.Transaction(func(dtx *gorm.DB) error {
		tags := repository.NewTagRepository(dtx)
		for _, name := range names {
			tagID, err := tags.GetOrCreate(name)
			if err != nil {
				return err
			}
			if err := tags.Attach(transactionID, tagID); err != nil {
				return err
			}
		}
		return nil
	})
}

// TagMerchant attaches the named tags to every non-shadow transaction
// of the given merchant. Returns the number of transactions affected.
func (s *Service) TagMerchant(merchant string, names []string) (int, error) {
	var txs []models.Transaction
	err := s.txRepo.DB().
		Select("id").
		Where("peer = ? AND status <> ?", merchant, models.StatusShadow).
		Find(&txs).Error
	if err != nil {
		return 0, err
	}

	err = s.db.Transaction(func(dtx *gorm.DB) error {
		tags := repository.NewTagRepository(dtx)
		for _, name := range names {
			tagID, err := tags.GetOrCreate(name)
			if err != nil {
				return err
			}
			for i := range txs {
				if err := tags.Attach(txs[i].ID, tagID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(txs), nil
}
