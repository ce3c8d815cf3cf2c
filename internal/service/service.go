package service

import (
	"go.uber.org/zap"

	"contest-arena/backend/config"
	"contest-arena/backend/internal/repository"
	"contest-arena/backend/pkg/jwt"
	"contest-arena/backend/pkg/mailer"
	"contest-arena/backend/pkg/redis"
)

// Service 业务层聚合
type Service struct {
	Token       TokenService
	Auth        AuthService
	User        UserService
	Submission  SubmissionService
	Review      ReviewService
	Settings    SettingsService
	Competition CompetitionService
	Leaderboard LeaderboardService
	Export      ExportService
}

// NewService 创建业务层聚合实例
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtManager *jwt.Manager,
	rdb *redis.Client,
	mail mailer.Mailer,
	logger *zap.Logger,
) *Service {
	tokenSvc := NewTokenService(cfg, repo, logger)

	return &Service{
		Token:       tokenSvc,
		Auth:        NewAuthService(cfg, repo, tokenSvc, jwtManager, mail, rdb, logger),
		User:        NewUserService(repo, logger),
		Submission:  NewSubmissionService(repo, logger),
		Review:      NewReviewService(repo, logger),
		Settings:    NewSettingsService(repo, logger),
		Competition: NewCompetitionService(repo, logger),
		Leaderboard: NewLeaderboardService(repo, logger),
		Export:      NewExportService(repo, logger),
	}
}
