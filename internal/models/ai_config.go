package models

// AIConfig is a singleton row (id = 1). An absent row or empty APIKey
// means the AI features are disabled.
type AIConfig struct {
	ID           uint    `gorm:"primaryKey" json:"-"`
	APIKey       string  `gorm:"column:api_key" json:"api_key"`
	BaseURL      string  `gorm:"column:base_url" json:"base_url"`
	ModelName    string  `gorm:"column:model_name" json:"model_name"`
	CustomPrompt string  `gorm:"column:custom_prompt" json:"custom_prompt"`
	HourlyRate   float64 `gorm:"column:hourly_rate" json:"hourly_rate"`
}

func (AIConfig) TableName() string {
	return "ai_config"
}
