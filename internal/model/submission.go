package model

import "time"

// 投稿状态
const (
	StatusPending     = "PENDING"
	StatusUnderReview = "UNDER_REVIEW"
	StatusEvaluated   = "EVALUATED"
	StatusRejected    = "REJECTED"
	StatusWinner      = "WINNER"
	StatusFinalist    = "FINALIST"
)

// ValidStatus 检查状态值是否合法
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusUnderReview, StatusEvaluated, StatusRejected, StatusWinner, StatusFinalist:
		return true
	}
	return false
}

// Submission 投稿表 — 对应 submissions
// 参赛者创建后状态为 PENDING，评审打分后进入 EVALUATED/WINNER/FINALIST/REJECTED；
// 任何状态都可被管理员后续编辑覆盖（无终态）
type Submission struct {
	SubmissionID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"submission_id"`
	UserID        string `gorm:"type:uuid;not null;index"                       json:"user_id"`
	CompetitionID string `gorm:"type:uuid;not null;index"                       json:"competition_id"`
	Interval      int    `gorm:"not null"                                       json:"interval"`
	FileURL       string `gorm:"type:text;not null"                             json:"file_url"`
	Title         string `gorm:"type:varchar(200);not null"                     json:"title"`
	Description   string `gorm:"type:text;not null;default:''"                  json:"description"`

	// 评分（五项 0-10，总分为五项算术平均，保留一位小数）
	ScoreCreativity *float64 `gorm:"type:numeric(4,1)" json:"score_creativity,omitempty"`
	ScoreTechnical  *float64 `gorm:"type:numeric(4,1)" json:"score_technical,omitempty"`
	ScoreAIUsage    *float64 `gorm:"type:numeric(4,1);column:score_ai_usage" json:"score_ai_usage,omitempty"`
	ScoreAdherence  *float64 `gorm:"type:numeric(4,1)" json:"score_adherence,omitempty"`
	ScoreImpact     *float64 `gorm:"type:numeric(4,1)" json:"score_impact,omitempty"`
	OverallScore    *float64 `gorm:"type:numeric(4,1)" json:"overall_score,omitempty"`

	Status string `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`

	// 链接可访问性检查结果（由外部检查器回写，与状态无关）
	IsAccessVerified bool    `gorm:"not null;default:false" json:"is_access_verified"`
	AccessCheckError *string `gorm:"type:text"              json:"access_check_error,omitempty"`

	// 取消资格标记（与状态正交，不触发状态迁移）
	IsDisqualified   bool    `gorm:"not null;default:false" json:"is_disqualified"`
	DisqualifyReason *string `gorm:"type:text"              json:"disqualify_reason,omitempty"`

	JudgeComments *string    `gorm:"type:text" json:"judge_comments,omitempty"`
	EvaluatedBy   *string    `gorm:"type:uuid" json:"evaluated_by,omitempty"`
	EvaluatedAt   *time.Time `json:"evaluated_at,omitempty"`

	// 投稿不做软删除，仅带乐观锁版本号（与 PlatformSettings 相同的组合）
	BaseModel
	Version int `gorm:"not null;default:1" json:"version"`

	// 关联
	User        *User        `gorm:"foreignKey:UserID;references:UserID"               json:"user,omitempty"`
	Competition *Competition `gorm:"foreignKey:CompetitionID;references:CompetitionID" json:"competition,omitempty"`
}

// TableName 指定表名
func (Submission) TableName() string { return "submissions" }

// SubmissionMessage 投稿留言表 — 对应 submission_messages（只追加，不可修改）
type SubmissionMessage struct {
	MessageID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"message_id"`
	SubmissionID string `gorm:"type:uuid;not null;index"                       json:"submission_id"`
	UserID       string `gorm:"type:uuid;not null"                             json:"user_id"`
	IsFromAdmin  bool   `gorm:"not null;default:false"                         json:"is_from_admin"`
	Content      string `gorm:"type:text;not null"                             json:"content"`
	BaseModel
}

// TableName 指定表名
func (SubmissionMessage) TableName() string { return "submission_messages" }
