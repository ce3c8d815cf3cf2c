package model

// Competition 竞赛表 — 对应 competitions
// IsWeekly 为 true 时投稿受每周期上限约束；非周赛竞赛不受限
type Competition struct {
	CompetitionID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"competition_id"`
	Slug          string `gorm:"type:varchar(50);not null;uniqueIndex"          json:"slug"`
	Name          string `gorm:"type:varchar(200);not null"                     json:"name"`
	Description   string `gorm:"type:text;not null;default:''"                  json:"description"`
	IsWeekly      bool   `gorm:"not null;default:true"                          json:"is_weekly"`
	IsActive      bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (Competition) TableName() string { return "competitions" }
