package models

const (
	PlatformWeChat = "wechat"
	PlatformAlipay = "alipay"
)

const (
	TypeExpense  = "expense"
	TypeTransfer = "transfer"
)

const (
	StatusNormal = "normal"
	// StatusShadow marks internal fund movement (transfers between the
	// user's own wallets, repayments, top-ups). Shadow rows are kept for
	// audit but excluded from every spend aggregate.
	StatusShadow = "shadow"
)

// Transaction is the unified record both export formats normalize into.
// Time is epoch milliseconds; DateStr, Hour and Month are denormalized
// from it so grouped queries stay plain column operations.
type Transaction struct {
	ID       string  `gorm:"primaryKey" json:"id"`
	Platform string  `gorm:"index" json:"platform"`
	Time     int64   `gorm:"index" json:"time"`
	DateStr  string  `gorm:"column:date_str;index" json:"date_str"`
	Hour     int     `json:"hour"`
	Month    string  `gorm:"index" json:"month"`
	Category string  `gorm:"index" json:"category"`
	Peer     string  `gorm:"index" json:"peer"`
	Item     string  `json:"item"`
	Amount   float64 `gorm:"index" json:"amount"`
	Type     string  `json:"type"`
	Method   string  `json:"method"`
	Status   string  `gorm:"index" json:"status"`

	Tags []Tag `gorm:"many2many:transaction_tags" json:"-"`
}

// TagNames flattens the loaded association for API responses.
func (t *Transaction) TagNames() []string {
	names := make([]string, 0, len(t.Tags))
	for _, tag := range t.Tags {
		names = append(names, tag.Name)
	}
	return names
}
