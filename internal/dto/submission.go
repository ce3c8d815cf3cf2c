package dto

// ── 投稿模块 DTO ──

// CreateSubmissionRequest 创建投稿请求
type CreateSubmissionRequest struct {
	CompetitionID string `json:"competition_id" binding:"required,uuid"`
	FileURL       string `json:"file_url"       binding:"required,url"`
	Title         string `json:"title"          binding:"required,max=200"`
	Description   string `json:"description"    binding:"omitempty,max=5000"`
}

// CreateMessageRequest 投稿留言请求
type CreateMessageRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

// ScoreSubmissionRequest 评审打分请求
// 五项分值均为 0-10；Status 缺省时按 EVALUATED 处理，
// 也可直接指定 WINNER / FINALIST / REJECTED
type ScoreSubmissionRequest struct {
	ScoreCreativity float64 `json:"score_creativity" binding:"min=0,max=10"`
	ScoreTechnical  float64 `json:"score_technical"  binding:"min=0,max=10"`
	ScoreAIUsage    float64 `json:"score_ai_usage"   binding:"min=0,max=10"`
	ScoreAdherence  float64 `json:"score_adherence"  binding:"min=0,max=10"`
	ScoreImpact     float64 `json:"score_impact"     binding:"min=0,max=10"`
	Status          string  `json:"status"           binding:"omitempty,oneof=EVALUATED WINNER FINALIST REJECTED"`
	JudgeComments   string  `json:"judge_comments"   binding:"omitempty,max=5000"`
}

// UpdateStatusRequest 投稿状态修改请求（如管理员领取评审 UNDER_REVIEW）
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING UNDER_REVIEW EVALUATED WINNER FINALIST REJECTED"`
}

// DisqualifyRequest 取消/恢复资格请求
type DisqualifyRequest struct {
	IsDisqualified bool   `json:"is_disqualified"`
	Reason         string `json:"reason" binding:"omitempty,max=1000"`
}

// AccessCheckResultRequest 链接可访问性检查结果回写请求
type AccessCheckResultRequest struct {
	IsAccessVerified bool   `json:"is_access_verified"`
	Error            string `json:"error" binding:"omitempty,max=1000"`
}

// SubmissionListQuery 管理端投稿列表查询参数
type SubmissionListQuery struct {
	PaginationRequest
	CompetitionID  string `form:"competition_id" binding:"omitempty,uuid"`
	Status         string `form:"status"         binding:"omitempty,oneof=PENDING UNDER_REVIEW EVALUATED WINNER FINALIST REJECTED"`
	Interval       *int   `form:"interval"       binding:"omitempty,min=1"`
	IsDisqualified *bool  `form:"is_disqualified"`
	UserID         string `form:"user_id"        binding:"omitempty,uuid"`
}

// ExportQuery 投稿导出查询参数
type ExportQuery struct {
	CompetitionID string `form:"competition_id" binding:"required,uuid"`
	Interval      *int   `form:"interval"       binding:"omitempty,min=1"`
}
