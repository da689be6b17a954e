package model

import (
	"time"

	"gorm.io/datatypes"
)

// Evaluation is one row per evaluation request. Rows are insert-only.
type Evaluation struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	UserOutline      string         `gorm:"type:text" json:"user_outline"`
	UserPreferences  string         `gorm:"type:text" json:"user_preferences"`
	PresentationLink string         `gorm:"type:text" json:"presentation_link"`
	OverallScore     float64        `json:"overall_score"`
	ScoreCategory    string         `gorm:"type:varchar(50);index" json:"score_category"`
	DocType          string         `gorm:"type:varchar(100)" json:"doc_type"`
	ReportPath       string         `gorm:"type:text" json:"report_path"`
	JSONData         datatypes.JSON `gorm:"column:json_data" json:"json_data"`
	CostUSD          float64        `gorm:"column:cost_usd" json:"cost_usd"`
	InputTokens      int64          `json:"input_tokens"`
	OutputTokens     int64          `json:"output_tokens"`
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`
	ScoresJSON       datatypes.JSON `gorm:"column:scores_json" json:"scores_json"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}
