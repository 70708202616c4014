package repository

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"finance-dashboard-backend/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	// one connection so the in-memory database is shared
	sqlDB.SetMaxOpenConns(1)

	if err := db.SetupJoinTable(&models.Transaction{}, "Tags", &models.TransactionTag{}); err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(
		&models.Transaction{},
		&models.Tag{},
		&models.AIConfig{},
		&models.ImportBatch{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedTx(id, datetime, peer, category string, amount float64, status string) models.Transaction {
	ts, err := time.ParseInLocation("2006-01-02 15:04:05", datetime, time.Local)
	if err != nil {
		panic(err)
	}
	return models.Transaction{
		ID:       id,
		Platform: models.PlatformWeChat,
		Time:     ts.UnixMilli(),
		DateStr:  ts.Format("2006-01-02"),
		Hour:     ts.Hour(),
		Month:    ts.Format("2006-01"),
		Category: category,
		Peer:     peer,
		Item:     "/",
		Amount:   amount,
		Type:     models.TypeExpense,
		Method:   "手动导入",
		Status:   status,
	}
}

func TestUpsertManyIdempotent(t *testing.T) {
	repo := NewTransactionRepository(testDB(t))

	first := seedTx("tx1", "2024-11-05 09:00:00", "老王早餐店", "餐饮", 30, models.StatusNormal)
	if err := repo.UpsertMany([]models.Transaction{first}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second := first
	second.Amount = 35
	if err := repo.UpsertMany([]models.Transaction{second}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	all, err := repo.GetAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("got %d rows, want exactly 1", len(all))
	}
	if all[0].Amount != 35 {
		t.Fatalf("amount = %v, want the latest value 35", all[0].Amount)
	}
}

func TestShadowExcludedFromAggregatesButVisible(t *testing.T) {
	repo := NewTransactionRepository(testDB(t))
	err := repo.UpsertMany([]models.Transaction{
		seedTx("n1", "2024-11-05 09:00:00", "老王早餐店", "餐饮", 35, models.StatusNormal),
		seedTx("s1", "2024-11-05 10:00:00", "余额宝", "投资理财", 500, models.StatusShadow),
	})
	if err != nil {
		t.Fatal(err)
	}

	all, err := repo.GetAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("GetAll must include shadow rows, got %d", len(all))
	}

	stats, err := repo.Statistics("all", "category")
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 1 || stats[0].Key != "餐饮" || stats[0].Total != 35 {
		t.Fatalf("shadow leaked into category totals: %+v", stats)
	}

	merchants, err := repo.TopMerchants(10, "amount")
	if err != nil {
		t.Fatal(err)
	}
	if len(merchants) != 1 || merchants[0].Merchant != "老王早餐店" {
		t.Fatalf("shadow leaked into merchant ranking: %+v", merchants)
	}
}

func TestQueryFilters(t *testing.T) {
	repo := NewTransactionRepository(testDB(t))
	err := repo.UpsertMany([]models.Transaction{
		seedTx("q1", "2024-11-01 09:00:00", "瑞幸咖啡", "餐饮", 18, models.StatusNormal),
		seedTx("q2", "2024-11-10 09:00:00", "瑞幸咖啡(国贸店)", "餐饮", 22, models.StatusNormal),
		seedTx("q3", "2024-11-20 09:00:00", "永辉超市", "日用", 180, models.StatusNormal),
	})
	if err != nil {
		t.Fatal(err)
	}

	byMerchant, err := repo.Query(TransactionFilter{Merchant: "瑞幸"})
	if err != nil {
		t.Fatal(err)
	}
	if len(byMerchant) != 2 {
		t.Fatalf("merchant substring match got %d, want 2", len(byMerchant))
	}

	byRange, err := repo.Query(TransactionFilter{
		StartDate: "2024-11-05",
		EndDate:   "2024-11-20",
		MinAmount: 20,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(byRange) != 2 {
		t.Fatalf("range query got %d, want 2", len(byRange))
	}
	// newest first
	if byRange[0].ID != "q3" {
		t.Fatalf("expected newest first, got %s", byRange[0].ID)
	}
}

func TestLatteFactorsNeedsThreeOccurrences(t *testing.T) {
	repo := NewTransactionRepository(testDB(t))
	err := repo.UpsertMany([]models.Transaction{
		seedTx("l1", "2024-11-01 09:00:00", "瑞幸咖啡", "餐饮", 18, models.StatusNormal),
		seedTx("l2", "2024-11-03 09:00:00", "瑞幸咖啡", "餐饮", 20, models.StatusNormal),
		seedTx("l3", "2024-11-05 09:00:00", "瑞幸咖啡", "餐饮", 22, models.StatusNormal),
		seedTx("l4", "2024-11-02 09:00:00", "茶百道", "餐饮", 15, models.StatusNormal),
		seedTx("l5", "2024-11-06 09:00:00", "茶百道", "餐饮", 16, models.StatusNormal),
	})
	if err != nil {
		t.Fatal(err)
	}

	factors, err := repo.LatteFactors()
	if err != nil {
		t.Fatal(err)
	}
	if len(factors) != 1 {
		t.Fatalf("got %d factors, want 1 (2 occurrences must not flag): %+v", len(factors), factors)
	}
	f := factors[0]
	if f.Merchant != "瑞幸咖啡" || f.Count != 3 || f.Total != 60 || f.AvgAmount != 20 {
		t.Fatalf("unexpected factor: %+v", f)
	}
}

func TestDetectSubscriptionsGapWindow(t *testing.T) {
	repo := NewTransactionRepository(testDB(t))
	err := repo.UpsertMany([]models.Transaction{
		// 30-day gap: a subscription
		seedTx("s1", "2024-01-01 08:00:00", "视频会员", "娱乐", 25, models.StatusNormal),
		seedTx("s2", "2024-01-31 08:00:00", "视频会员", "娱乐", 25, models.StatusNormal),
		// 20-day gap: not
		seedTx("s3", "2024-01-01 08:00:00", "音乐平台", "娱乐", 15, models.StatusNormal),
		seedTx("s4", "2024-01-21 08:00:00", "音乐平台", "娱乐", 15, models.StatusNormal),
		// 40-day gap: not
		seedTx("s5", "2024-01-01 08:00:00", "云存储", "办公", 6, models.StatusNormal),
		seedTx("s6", "2024-02-10 08:00:00", "云存储", "办公", 6, models.StatusNormal),
		// single charge: not
		seedTx("s7", "2024-01-15 08:00:00", "健身房", "运动", 199, models.StatusNormal),
	})
	if err != nil {
		t.Fatal(err)
	}

	subs, err := repo.DetectSubscriptions()
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 1 {
		t.Fatalf("got %d subscriptions, want 1: %+v", len(subs), subs)
	}
	if subs[0].Merchant != "视频会员" || subs[0].Count != 2 {
		t.Fatalf("unexpected subscription: %+v", subs[0])
	}
}

func TestComparePeriods(t *testing.T) {
	repo := NewTransactionRepository(testDB(t))
	err := repo.UpsertMany([]models.Transaction{
		seedTx("p1", "2024-01-05 09:00:00", "老王早餐店", "餐饮", 30, models.StatusNormal),
		seedTx("p2", "2024-01-20 09:00:00", "永辉超市", "日用", 70, models.StatusNormal),
		seedTx("p3", "2024-02-10 09:00:00", "老王早餐店", "餐饮", 50, models.StatusNormal),
		seedTx("p4", "2024-02-10 10:00:00", "余额宝", "投资理财", 999, models.StatusShadow),
	})
	if err != nil {
		t.Fatal(err)
	}

	cmp, err := repo.ComparePeriods("2024-01-01", "2024-01-31", "2024-02-01", "2024-02-29")
	if err != nil {
		t.Fatal(err)
	}
	if cmp.Period1.Total != 100 || cmp.Period1.Count != 2 {
		t.Fatalf("period1: %+v", cmp.Period1)
	}
	if cmp.Period2.Total != 50 || cmp.Period2.Count != 1 {
		t.Fatalf("period2 must exclude shadow: %+v", cmp.Period2)
	}
	if len(cmp.Period1.ByCategory) != 2 || len(cmp.Period2.ByCategory) != 1 {
		t.Fatalf("category breakdowns: %+v / %+v", cmp.Period1.ByCategory, cmp.Period2.ByCategory)
	}
}

func TestDeleteAllRemovesAssociations(t *testing.T) {
	db := testDB(t)
	repo := NewTransactionRepository(db)
	tags := NewTagRepository(db)

	if err := repo.UpsertMany([]models.Transaction{
		seedTx("d1", "2024-11-05 09:00:00", "老王早餐店", "餐饮", 35, models.StatusNormal),
	}); err != nil {
		t.Fatal(err)
	}
	tagID, err := tags.GetOrCreate("small-value")
	if err != nil {
		t.Fatal(err)
	}
	if err := tags.Attach("d1", tagID); err != nil {
		t.Fatal(err)
	}

	if err := repo.DeleteAll(); err != nil {
		t.Fatal(err)
	}

	var txCount, assocCount int64
	db.Model(&models.Transaction{}).Count(&txCount)
	db.Model(&models.TransactionTag{}).Count(&assocCount)
	if txCount != 0 || assocCount != 0 {
		t.Fatalf("leftovers after DeleteAll: %d transactions, %d associations", txCount, assocCount)
	}
}
