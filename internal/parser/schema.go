package parser

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"finance-dashboard-backend/internal/models"
)

// schema maps one platform's export layout onto the unified record.
// dataStart is the 0-indexed row holding the column headers; everything
// above it is preamble text the exports put before the table.
type schema struct {
	dataStart int
	time      string
	category  string
	peer      string
	item      string
	direction string
	amount    string
	id        string
}

var schemas = map[string]schema{
	models.PlatformWeChat: {
		dataStart: 16,
		time:      "交易时间",
		category:  "交易类型",
		peer:      "交易对方",
		item:      "商品",
		direction: "收/支",
		amount:    "金额(元)",
		id:        "交易单号",
	},
	models.PlatformAlipay: {
		dataStart: 24,
		time:      "交易时间",
		category:  "交易分类",
		peer:      "交易对方",
		item:      "商品说明",
		direction: "收/支",
		amount:    "金额",
		id:        "交易订单号",
	},
}

const wechatMarker = "微信"

// DetectPlatform sniffs the raw sheet content. WeChat exports carry the
// marker string in their preamble; anything else is treated as Alipay.
func DetectPlatform(rows [][]string) string {
	for _, row := range rows {
		for _, cell := range row {
			if strings.Contains(cell, wechatMarker) {
				return models.PlatformWeChat
			}
		}
	}
	return models.PlatformAlipay
}

// normalizeDirection collapses the raw 收/支 values onto the unified
// enum. Only expense and transfer rows are retained; empty means the
// export left the column blank on an expense row.
func normalizeDirection(raw string) (string, bool) {
	switch strings.TrimSpace(raw) {
	case "支出", models.TypeExpense, "":
		return models.TypeExpense, true
	case "转账", models.TypeTransfer:
		return models.TypeTransfer, true
	}
	return "", false
}

// mapRow turns one header-keyed row into a unified transaction, or nil
// when the row is unusable (missing/garbage time, non-positive amount,
// direction outside expense/transfer).
func mapRow(platform string, cfg schema, row map[string]string) *models.Transaction {
	rawTime := row[cfg.time]
	if rawTime == "" {
		return nil
	}
	t, err := ParseDate(rawTime)
	if err != nil {
		return nil
	}

	amount := ParseAmount(row[cfg.amount])
	if amount <= 0 {
		return nil
	}

	direction, ok := normalizeDirection(row[cfg.direction])
	if !ok {
		return nil
	}

	id := strings.TrimSpace(row[cfg.id])
	if id == "" {
		id = uuid.NewString()
	}

	return &models.Transaction{
		ID:       id,
		Platform: platform,
		Time:     t.UnixMilli(),
		DateStr:  t.Format("2006-01-02"),
		Hour:     t.Hour(),
		Month:    t.Format("2006-01"),
		Category: defaultString(row[cfg.category], "其它"),
		Peer:     defaultString(row[cfg.peer], "未知"),
		Item:     defaultString(row[cfg.item], "/"),
		Amount:   amount,
		Type:     direction,
		Method:   "手动导入",
	}
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// DayMillis converts a YYYY-MM-DD day to its local-midnight epoch
// milliseconds. Shared by the query layer's date-range filters.
func DayMillis(day string) (int64, bool) {
	t, err := time.ParseInLocation("2006-01-02", day, time.Local)
	if err != nil {
		return 0, false
	}
	return t.UnixMilli(), true
}
