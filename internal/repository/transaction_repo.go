package repository

import (
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"finance-dashboard-backend/internal/models"
	"finance-dashboard-backend/internal/parser"
)

// lowValueThreshold bounds what counts as a latte-factor purchase.
const lowValueThreshold = 50.0

const dayMillis = int64(24 * time.Hour / time.Millisecond)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Expose DB if needed
func (r *TransactionRepository) DB() *gorm.DB {
	return r.db
}

// UpsertMany inserts-or-replaces by id inside one transaction, so a
// crash mid-batch cannot leave a partially imported file. Re-importing
// the same source id overwrites in place.
func (r *TransactionRepository) UpsertMany(txs []models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).
			Omit(clause.Associations).
			CreateInBatches(txs, 200).Error
	})
}

// GetAll returns every stored transaction, shadow rows included, with
// tag associations loaded, newest first.
func (r *TransactionRepository) GetAll() ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.Preload("Tags").Order("time DESC").Find(&txs).Error
	return txs, err
}

// AllNonShadow feeds bulk rule application.
func (r *TransactionRepository) AllNonShadow() ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.notShadow().Find(&txs).Error
	return txs, err
}

// DeleteAll wipes transactions and their tag associations.
func (r *TransactionRepository) DeleteAll() error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.TransactionTag{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&models.Transaction{}).Error
	})
}

// notShadow is the base scope for every aggregate read: internal fund
// movement never counts toward spending.
func (r *TransactionRepository) notShadow() *gorm.DB {
	return r.db.Model(&models.Transaction{}).Where("status <> ?", models.StatusShadow)
}

// TransactionFilter mirrors the queryTransactions tool contract.
type TransactionFilter struct {
	Merchant  string
	Category  string
	MinAmount float64
	MaxAmount float64
	StartDate string // YYYY-MM-DD, inclusive
	EndDate   string // YYYY-MM-DD, inclusive
	Limit     int
}

// Query returns non-shadow transactions matching the filter, newest
// first, default limit 50.
func (r *TransactionRepository) Query(f TransactionFilter) ([]models.Transaction, error) {
	q := r.notShadow()
	if f.Merchant != "" {
		q = q.Where("peer LIKE ?", "%"+f.Merchant+"%")
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.MinAmount > 0 {
		q = q.Where("amount >= ?", f.MinAmount)
	}
	if f.MaxAmount > 0 {
		q = q.Where("amount <= ?", f.MaxAmount)
	}
	if ts, ok := parser.DayMillis(f.StartDate); ok {
		q = q.Where("time >= ?", ts)
	}
	if ts, ok := parser.DayMillis(f.EndDate); ok {
		q = q.Where("time < ?", ts+dayMillis)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	var txs []models.Transaction
	err := q.Order("time DESC").Limit(limit).Find(&txs).Error
	return txs, err
}

// StatRow is one bucket of a grouped aggregate.
type StatRow struct {
	Key   string  `json:"key"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

var periodDays = map[string]int{"week": 7, "month": 30, "year": 365}

// Statistics groups non-shadow spending by category, merchant or date
// within the given period (week/month/year/all), largest total first.
func (r *TransactionRepository) Statistics(period, groupBy string) ([]StatRow, error) {
	col := "date_str"
	switch groupBy {
	case "category":
		col = "category"
	case "merchant":
		col = "peer"
	}

	q := r.notShadow().
		Select(col + " AS key, SUM(amount) AS total, COUNT(*) AS count")
	if days := periodDays[period]; days > 0 {
		cutoff := time.Now().AddDate(0, 0, -days).UnixMilli()
		q = q.Where("time > ?", cutoff)
	}

	var rows []StatRow
	err := q.Group(col).Order("total DESC").Scan(&rows).Error
	return rows, err
}

type MerchantStat struct {
	Merchant string  `json:"merchant"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

// TopMerchants ranks merchants by total spend or visit frequency.
func (r *TransactionRepository) TopMerchants(limit int, sortBy string) ([]MerchantStat, error) {
	if limit <= 0 {
		limit = 10
	}
	order := "total DESC"
	if sortBy == "frequency" {
		order = "count DESC"
	}

	var stats []MerchantStat
	err := r.notShadow().
		Select("peer AS merchant, SUM(amount) AS total, COUNT(*) AS count").
		Group("peer").
		Order(order).
		Limit(limit).
		Scan(&stats).Error
	return stats, err
}

type LatteFactor struct {
	Merchant  string  `json:"merchant"`
	Category  string  `json:"category"`
	Count     int     `json:"count"`
	Total     float64 `json:"total"`
	AvgAmount float64 `json:"avg_amount"`
}

// LatteFactors finds small, frequent discretionary spending: merchant+
// category groups where every purchase is under the low-value threshold
// and there are at least 3 of them.
func (r *TransactionRepository) LatteFactors() ([]LatteFactor, error) {
	var factors []LatteFactor
	err := r.notShadow().
		Select("peer AS merchant, category, COUNT(*) AS count, SUM(amount) AS total, AVG(amount) AS avg_amount").
		Where("amount > 0 AND amount < ?", lowValueThreshold).
		Group("peer, category").
		Having("COUNT(*) >= 3").
		Order("total DESC").
		Limit(10).
		Scan(&factors).Error
	return factors, err
}

type Subscription struct {
	Merchant string  `json:"merchant"`
	Amount   float64 `json:"amount"`
	Count    int     `json:"count"`
}

// DetectSubscriptions flags merchant+rounded-amount groups with at
// least 2 charges where some consecutive gap falls in the 25-35 day
// monthly-billing window.
func (r *TransactionRepository) DetectSubscriptions() ([]Subscription, error) {
	var txs []models.Transaction
	err := r.notShadow().
		Select("peer, amount, time").
		Order("peer, time").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]models.Transaction)
	var keys []string
	for _, tx := range txs {
		key := fmt.Sprintf("%s|%.0f", tx.Peer, tx.Amount)
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], tx)
	}
	sort.Strings(keys)

	var subs []Subscription
	for _, key := range keys {
		items := groups[key]
		if len(items) < 2 {
			continue
		}
		for i := 1; i < len(items); i++ {
			gapDays := float64(items[i].Time-items[i-1].Time) / float64(dayMillis)
			if gapDays >= 25 && gapDays <= 35 {
				subs = append(subs, Subscription{
					Merchant: items[0].Peer,
					Amount:   items[0].Amount,
					Count:    len(items),
				})
				break
			}
		}
	}
	return subs, nil
}

type PeriodSummary struct {
	Total      float64   `json:"total"`
	Count      int       `json:"count"`
	ByCategory []StatRow `json:"by_category"`
}

type PeriodComparison struct {
	Period1 PeriodSummary `json:"period1"`
	Period2 PeriodSummary `json:"period2"`
}

// ComparePeriods summarizes two inclusive date ranges side by side.
func (r *TransactionRepository) ComparePeriods(p1Start, p1End, p2Start, p2End string) (*PeriodComparison, error) {
	p1, err := r.periodSummary(p1Start, p1End)
	if err != nil {
		return nil, err
	}
	p2, err := r.periodSummary(p2Start, p2End)
	if err != nil {
		return nil, err
	}
	return &PeriodComparison{Period1: *p1, Period2: *p2}, nil
}

func (r *TransactionRepository) periodSummary(start, end string) (*PeriodSummary, error) {
	startMs, ok := parser.DayMillis(start)
	if !ok {
		return nil, fmt.Errorf("invalid start date %q", start)
	}
	endMs, ok := parser.DayMillis(end)
	if !ok {
		return nil, fmt.Errorf("invalid end date %q", end)
	}
	endMs += dayMillis

	inRange := func() *gorm.DB {
		return r.notShadow().Where("time >= ? AND time < ?", startMs, endMs)
	}

	var summary PeriodSummary
	err := inRange().
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}

	err = inRange().
		Select("category AS key, SUM(amount) AS total, COUNT(*) AS count").
		Group("category").
		Order("total DESC").
		Scan(&summary.ByCategory).Error
	return &summary, err
}
