// Package importer wires the extraction pipeline to the store: decode
// the file, classify shadow status, record the batch, bulk upsert.
package importer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"finance-dashboard-backend/internal/models"
	"finance-dashboard-backend/internal/parser"
	"finance-dashboard-backend/internal/repository"
	"finance-dashboard-backend/internal/services/shadow"
)

type Service struct {
	db     *gorm.DB
	txRepo *repository.TransactionRepository
	log    zerolog.Logger
}

func NewService(db *gorm.DB, txRepo *repository.TransactionRepository, log zerolog.Logger) *Service {
	return &Service{db: db, txRepo: txRepo, log: log}
}

// File is one uploaded bill export.
type File struct {
	Name string
	Data []byte
}

// ImportFiles extracts every file first, then stores the concatenated
// result and the per-file batch records in one database transaction.
// Any malformed file fails the whole request before anything is
// written; unusable rows were already dropped by the extractor.
func (s *Service) ImportFiles(files []File) ([]models.ImportBatch, int, error) {
	batches := make([]models.ImportBatch, 0, len(files))
	var all []models.Transaction

	for _, f := range files {
		bills, err := parser.ExtractBills(f.Data, f.Name)
		if err != nil {
			return nil, 0, err
		}
		shadowCount := classify(bills)

		batch := models.ImportBatch{
			ID:            uuid.New(),
			Filename:      f.Name,
			Platform:      batchPlatform(bills),
			TotalRows:     len(bills),
			ImportedCount: len(bills),
			ShadowCount:   shadowCount,
			CreatedAt:     time.Now(),
		}
		summary, _ := json.Marshal(map[string]int{
			"expense":  countType(bills, models.TypeExpense),
			"transfer": countType(bills, models.TypeTransfer),
			"shadow":   shadowCount,
		})
		batch.Summary = datatypes.JSON(summary)

		batches = append(batches, batch)
		all = append(all, bills...)
	}

	err := s.db.Transaction(func(dtx *gorm.DB) error {
		if err := repository.NewTransactionRepository(dtx).UpsertMany(all); err != nil {
			return err
		}
		if len(batches) == 0 {
			return nil
		}
		return dtx.Create(&batches).Error
	})
	if err != nil {
		return nil, 0, fmt.Errorf("store import: %w", err)
	}

	for i := range batches {
		s.log.Info().
			Str("file", batches[i].Filename).
			Str("platform", batches[i].Platform).
			Int("imported", batches[i].ImportedCount).
			Int("shadow", batches[i].ShadowCount).
			Msg("bill file imported")
	}
	return batches, len(all), nil
}

// ImportFile is the single-file convenience wrapper.
func (s *Service) ImportFile(data []byte, filename string) (*models.ImportBatch, error) {
	batches, _, err := s.ImportFiles([]File{{Name: filename, Data: data}})
	if err != nil {
		return nil, err
	}
	return &batches[0], nil
}

// ImportBills stores already-extracted transactions (the JSON ingestion
// path). Shadow status is still decided server-side at insert time.
func (s *Service) ImportBills(bills []models.Transaction) (int, error) {
	classify(bills)
	if err := s.txRepo.UpsertMany(bills); err != nil {
		return 0, err
	}
	s.log.Info().Int("count", len(bills)).Msg("bills saved")
	return len(bills), nil
}

// Batches returns the import audit trail, newest first.
func (s *Service) Batches() ([]models.ImportBatch, error) {
	var batches []models.ImportBatch
	err := s.db.Order("created_at DESC").Find(&batches).Error
	return batches, err
}

func classify(bills []models.Transaction) int {
	shadowCount := 0
	for i := range bills {
		bills[i].Status = shadow.Classify(&bills[i])
		if bills[i].Status == models.StatusShadow {
			shadowCount++
		}
	}
	return shadowCount
}

func batchPlatform(bills []models.Transaction) string {
	if len(bills) > 0 {
		return bills[0].Platform
	}
	return ""
}

func countType(bills []models.Transaction, typ string) int {
	n := 0
	for i := range bills {
		if bills[i].Type == typ {
			n++
		}
	}
	return n
}
