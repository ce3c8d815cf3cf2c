package handler

import (
	"contest-arena/backend/internal/service"
	"contest-arena/backend/pkg/jwt"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth        *AuthHandler
	Submission  *SubmissionHandler
	Competition *CompetitionHandler
	Leaderboard *LeaderboardHandler
	Review      *ReviewHandler
	Settings    *SettingsHandler
	User        *UserHandler
	Export      *ExportHandler
	Cleanup     *CleanupHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, jwtMgr *jwt.Manager) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(svc.Auth, jwtMgr),
		Submission:  NewSubmissionHandler(svc.Submission),
		Competition: NewCompetitionHandler(svc.Competition),
		Leaderboard: NewLeaderboardHandler(svc.Leaderboard),
		Review:      NewReviewHandler(svc.Review),
		Settings:    NewSettingsHandler(svc.Settings),
		User:        NewUserHandler(svc.User),
		Export:      NewExportHandler(svc.Export),
		Cleanup:     NewCleanupHandler(svc.Token),
	}
}
