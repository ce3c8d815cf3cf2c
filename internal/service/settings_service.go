package service

import (
	"context"

	"go.uber.org/zap"

	"contest-arena/backend/internal/dto"
	"contest-arena/backend/internal/repository"
)

// SettingsService 平台设置业务接口
// 更新走 version 乐观锁；周期推进只能由管理员显式触发，每次恰好 +1
type SettingsService interface {
	Get(ctx context.Context) (*dto.SettingsResponse, error)
	Update(ctx context.Context, adminID string, req *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error)
	// AdvanceInterval 将当前周期 +1（无自动推进，仅手动触发）
	AdvanceInterval(ctx context.Context, adminID string, req *dto.AdvanceIntervalRequest) (*dto.SettingsResponse, error)
}

type settingsService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSettingsService 创建 SettingsService 实例
func NewSettingsService(repo *repository.Repository, logger *zap.Logger) SettingsService {
	return &settingsService{repo: repo, logger: logger}
}

func (s *settingsService) Get(ctx context.Context) (*dto.SettingsResponse, error) {
	settings, err := s.repo.Settings.Get(ctx)
	if err != nil {
		s.logger.Error("读取平台设置失败", zap.Error(err))
		return nil, err
	}

	return &dto.SettingsResponse{
		CurrentInterval:           settings.CurrentInterval,
		IsSubmissionsOpen:         settings.IsSubmissionsOpen,
		MaxSubmissionsPerInterval: settings.MaxSubmissionsPerInterval,
		Version:                   settings.Version,
	}, nil
}

func (s *settingsService) Update(ctx context.Context, adminID string, req *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	settings, err := s.repo.Settings.Get(ctx)
	if err != nil {
		s.logger.Error("读取平台设置失败", zap.Error(err))
		return nil, err
	}

	if req.IsSubmissionsOpen != nil {
		settings.IsSubmissionsOpen = *req.IsSubmissionsOpen
	}
	if req.MaxSubmissionsPerInterval != nil {
		settings.MaxSubmissionsPerInterval = *req.MaxSubmissionsPerInterval
	}
	// 以客户端读到的 version 为基准做乐观锁
	settings.Version = req.Version

	if err := s.repo.Settings.UpdateVersioned(ctx, settings, adminID); err != nil {
		return nil, err
	}

	s.logger.Info("平台设置已更新",
		zap.Bool("is_submissions_open", settings.IsSubmissionsOpen),
		zap.Int("max_submissions_per_interval", settings.MaxSubmissionsPerInterval),
		zap.String("updated_by", adminID),
	)

	return &dto.SettingsResponse{
		CurrentInterval:           settings.CurrentInterval,
		IsSubmissionsOpen:         settings.IsSubmissionsOpen,
		MaxSubmissionsPerInterval: settings.MaxSubmissionsPerInterval,
		Version:                   settings.Version,
	}, nil
}

func (s *settingsService) AdvanceInterval(ctx context.Context, adminID string, req *dto.AdvanceIntervalRequest) (*dto.SettingsResponse, error) {
	settings, err := s.repo.Settings.Get(ctx)
	if err != nil {
		s.logger.Error("读取平台设置失败", zap.Error(err))
		return nil, err
	}

	settings.CurrentInterval++
	settings.Version = req.Version

	if err := s.repo.Settings.UpdateVersioned(ctx, settings, adminID); err != nil {
		return nil, err
	}

	s.logger.Info("周期已推进",
		zap.Int("current_interval", settings.CurrentInterval),
		zap.String("updated_by", adminID),
	)

	return &dto.SettingsResponse{
		CurrentInterval:           settings.CurrentInterval,
		IsSubmissionsOpen:         settings.IsSubmissionsOpen,
		MaxSubmissionsPerInterval: settings.MaxSubmissionsPerInterval,
		Version:                   settings.Version,
	}, nil
}
