package dto

import "time"

// ── 认证模块响应 ──

// TokenResponse Token 对响应
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // Access Token 有效期（秒）
	User         UserResponse `json:"user"`
}

// RegisterResponse 注册成功响应
type RegisterResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ResendVerificationResponse 重发验证邮件响应
type ResendVerificationResponse struct {
	Sent     bool `json:"sent"`
	WaitTime int  `json:"wait_time,omitempty"` // 被节流时的剩余等待秒数
}

// ResetTokenStatusResponse 重置 Token 有效性查询响应
type ResetTokenStatusResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// ── 用户模块响应 ──

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	Institution     string `json:"institution,omitempty"`
	Role            string `json:"role"`
	IsActive        bool   `json:"is_active"`
	IsEmailVerified bool   `json:"is_email_verified"`
	CreatedAt       string `json:"created_at,omitempty"`
}

// ── 竞赛模块响应 ──

// CompetitionResponse 竞赛信息响应
type CompetitionResponse struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsWeekly    bool   `json:"is_weekly"`
	IsActive    bool   `json:"is_active"`
}

// ── 投稿模块响应 ──

// SubmissionScores 五项评分
type SubmissionScores struct {
	Creativity *float64 `json:"creativity"`
	Technical  *float64 `json:"technical"`
	AIUsage    *float64 `json:"ai_usage"`
	Adherence  *float64 `json:"adherence"`
	Impact     *float64 `json:"impact"`
}

// SubmissionResponse 投稿信息响应
type SubmissionResponse struct {
	ID               string           `json:"id"`
	CompetitionID    string           `json:"competition_id"`
	CompetitionName  string           `json:"competition_name,omitempty"`
	Interval         int              `json:"interval"`
	FileURL          string           `json:"file_url"`
	Title            string           `json:"title"`
	Description      string           `json:"description,omitempty"`
	Status           string           `json:"status"`
	Scores           SubmissionScores `json:"scores"`
	OverallScore     *float64         `json:"overall_score"`
	IsAccessVerified bool             `json:"is_access_verified"`
	AccessCheckError *string          `json:"access_check_error,omitempty"`
	IsDisqualified   bool             `json:"is_disqualified"`
	DisqualifyReason *string          `json:"disqualify_reason,omitempty"`
	JudgeComments    *string          `json:"judge_comments,omitempty"`
	EvaluatedBy      *string          `json:"evaluated_by,omitempty"`
	EvaluatedAt      *time.Time       `json:"evaluated_at,omitempty"`
	SubmitterName    string           `json:"submitter_name,omitempty"`
	SubmitterEmail   string           `json:"submitter_email,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}

// MessageResponse 投稿留言响应
type MessageResponse struct {
	ID          string    `json:"id"`
	IsFromAdmin bool      `json:"is_from_admin"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

// ── 排行榜响应 ──

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank         int      `json:"rank"`
	SubmissionID string   `json:"submission_id"`
	Title        string   `json:"title"`
	Name         string   `json:"name"`
	Institution  string   `json:"institution,omitempty"`
	Interval     int      `json:"interval"`
	Status       string   `json:"status"`
	OverallScore *float64 `json:"overall_score"`
}

// LeaderboardResponse 竞赛排行榜响应
type LeaderboardResponse struct {
	CompetitionSlug string             `json:"competition_slug"`
	CompetitionName string             `json:"competition_name"`
	Winners         []LeaderboardEntry `json:"winners"`
	Finalists       []LeaderboardEntry `json:"finalists"`
	Ranking         []LeaderboardEntry `json:"ranking"`
}

// ── 设置与清理响应 ──

// SettingsResponse 平台设置响应
type SettingsResponse struct {
	CurrentInterval           int  `json:"current_interval"`
	IsSubmissionsOpen         bool `json:"is_submissions_open"`
	MaxSubmissionsPerInterval int  `json:"max_submissions_per_interval"`
	Version                   int  `json:"version"`
}

// CleanupResultResponse Token 清理结果响应
type CleanupResultResponse struct {
	VerificationDeleted int64 `json:"verification_deleted"`
	ResetDeleted        int64 `json:"reset_deleted"`
	TotalDeleted        int64 `json:"total_deleted"`
}

// TokenTypeStats 单一 Token 类型统计
type TokenTypeStats struct {
	Total   int64 `json:"total"`
	Expired int64 `json:"expired"`
	Used    int64 `json:"used"`
	Active  int64 `json:"active"`
}

// TokenStatisticsResponse Token 统计响应
type TokenStatisticsResponse struct {
	Verification TokenTypeStats `json:"verification"`
	Reset        TokenTypeStats `json:"reset"`
}

// ── 分页请求 ──

// PaginationRequest 通用分页参数
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage 获取页码（含默认值）
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 获取每页数量（含默认值）
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset 计算偏移量
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}
