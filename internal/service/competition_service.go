package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"contest-arena/backend/internal/dto"
	"contest-arena/backend/internal/model"
	"contest-arena/backend/internal/repository"
)

// ErrSlugExists 竞赛标识冲突
var ErrSlugExists = errors.New("竞赛标识已存在")

// CompetitionService 竞赛业务接口
// 公开侧仅暴露开放中的竞赛；管理侧可见全部
type CompetitionService interface {
	List(ctx context.Context, activeOnly bool) ([]dto.CompetitionResponse, error)
	GetBySlug(ctx context.Context, slug string) (*dto.CompetitionResponse, error)
	Create(ctx context.Context, adminID string, req *dto.CompetitionRequest) (*dto.CompetitionResponse, error)
	Update(ctx context.Context, adminID, competitionID string, req *dto.CompetitionRequest) (*dto.CompetitionResponse, error)
}

type competitionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCompetitionService 创建 CompetitionService 实例
func NewCompetitionService(repo *repository.Repository, logger *zap.Logger) CompetitionService {
	return &competitionService{repo: repo, logger: logger}
}

func (s *competitionService) List(ctx context.Context, activeOnly bool) ([]dto.CompetitionResponse, error) {
	competitions, err := s.repo.Competition.List(ctx, activeOnly)
	if err != nil {
		s.logger.Error("查询竞赛列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CompetitionResponse, 0, len(competitions))
	for i := range competitions {
		result = append(result, toCompetitionResponse(&competitions[i]))
	}
	return result, nil
}

func (s *competitionService) GetBySlug(ctx context.Context, slug string) (*dto.CompetitionResponse, error) {
	competition, err := s.repo.Competition.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompetitionNotFound
		}
		s.logger.Error("查询竞赛失败", zap.Error(err))
		return nil, err
	}

	resp := toCompetitionResponse(competition)
	return &resp, nil
}

func (s *competitionService) Create(ctx context.Context, adminID string, req *dto.CompetitionRequest) (*dto.CompetitionResponse, error) {
	if _, err := s.repo.Competition.GetBySlug(ctx, req.Slug); err == nil {
		return nil, ErrSlugExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询竞赛失败", zap.Error(err))
		return nil, err
	}

	competition := &model.Competition{
		Slug:        req.Slug,
		Name:        req.Name,
		Description: req.Description,
		IsWeekly:    true,
		IsActive:    true,
	}
	if req.IsWeekly != nil {
		competition.IsWeekly = *req.IsWeekly
	}
	if req.IsActive != nil {
		competition.IsActive = *req.IsActive
	}
	competition.CreatedBy = &adminID

	if err := s.repo.Competition.Create(ctx, competition); err != nil {
		s.logger.Error("创建竞赛失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("竞赛创建成功",
		zap.String("competition_id", competition.CompetitionID),
		zap.String("slug", competition.Slug),
	)

	resp := toCompetitionResponse(competition)
	return &resp, nil
}

func (s *competitionService) Update(ctx context.Context, adminID, competitionID string, req *dto.CompetitionRequest) (*dto.CompetitionResponse, error) {
	competition, err := s.repo.Competition.GetByID(ctx, competitionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompetitionNotFound
		}
		s.logger.Error("查询竞赛失败", zap.Error(err))
		return nil, err
	}

	// slug 变更时检查冲突
	if req.Slug != competition.Slug {
		if _, err := s.repo.Competition.GetBySlug(ctx, req.Slug); err == nil {
			return nil, ErrSlugExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	competition.Slug = req.Slug
	competition.Name = req.Name
	competition.Description = req.Description
	if req.IsWeekly != nil {
		competition.IsWeekly = *req.IsWeekly
	}
	if req.IsActive != nil {
		competition.IsActive = *req.IsActive
	}
	competition.UpdatedBy = &adminID

	if err := s.repo.Competition.Update(ctx, competition); err != nil {
		s.logger.Error("更新竞赛失败", zap.Error(err))
		return nil, err
	}

	resp := toCompetitionResponse(competition)
	return &resp, nil
}

// toCompetitionResponse 模型转响应
func toCompetitionResponse(c *model.Competition) dto.CompetitionResponse {
	return dto.CompetitionResponse{
		ID:          c.CompetitionID,
		Slug:        c.Slug,
		Name:        c.Name,
		Description: c.Description,
		IsWeekly:    c.IsWeekly,
		IsActive:    c.IsActive,
	}
}
