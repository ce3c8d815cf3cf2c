package dto

// ── 管理模块 DTO ──

// UpdateSettingsRequest 平台设置更新请求
// Version 来自上次读取的设置，用于乐观锁
type UpdateSettingsRequest struct {
	IsSubmissionsOpen         *bool `json:"is_submissions_open"`
	MaxSubmissionsPerInterval *int  `json:"max_submissions_per_interval" binding:"omitempty,min=1"`
	Version                   int   `json:"version"                      binding:"required,min=1"`
}

// AdvanceIntervalRequest 周期推进请求
type AdvanceIntervalRequest struct {
	Version int `json:"version" binding:"required,min=1"`
}

// CompetitionRequest 竞赛创建/更新请求
type CompetitionRequest struct {
	Slug        string `json:"slug"        binding:"required,max=50"`
	Name        string `json:"name"        binding:"required,max=200"`
	Description string `json:"description" binding:"omitempty,max=10000"`
	IsWeekly    *bool  `json:"is_weekly"`
	IsActive    *bool  `json:"is_active"`
}

// UserListQuery 管理端用户列表查询参数
type UserListQuery struct {
	PaginationRequest
	Role     string `form:"role"      binding:"omitempty,oneof=participant admin"`
	IsActive *bool  `form:"is_active"`
	Keyword  string `form:"keyword"   binding:"omitempty,max=100"`
}
