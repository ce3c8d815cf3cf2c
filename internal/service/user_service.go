package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"contest-arena/backend/internal/dto"
	"contest-arena/backend/internal/repository"
)

// UserService 管理端用户管理业务接口
type UserService interface {
	List(ctx context.Context, query *dto.UserListQuery) ([]dto.UserResponse, int64, error)
	Get(ctx context.Context, userID string) (*dto.UserResponse, error)
	// SetActive 启用/停用账号；停用后登录被拒绝，已签发的 JWT 在下一次鉴权时失效
	SetActive(ctx context.Context, adminID, userID string, active bool) error
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) List(ctx context.Context, query *dto.UserListQuery) ([]dto.UserResponse, int64, error) {
	filters := &repository.UserListFilters{
		Role:     query.Role,
		IsActive: query.IsActive,
		Keyword:  query.Keyword,
	}

	users, total, err := s.repo.User.List(ctx, filters, query.GetOffset(), query.GetPageSize())
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resp := toUserResponse(&users[i])
		resp.CreatedAt = users[i].CreatedAt.Format(time.RFC3339)
		result = append(result, resp)
	}
	return result, total, nil
}

func (s *userService) Get(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	resp := toUserResponse(user)
	resp.CreatedAt = user.CreatedAt.Format(time.RFC3339)
	return &resp, nil
}

func (s *userService) SetActive(ctx context.Context, adminID, userID string, active bool) error {
	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return err
	}

	if err := s.repo.User.SetActive(ctx, userID, active, adminID); err != nil {
		s.logger.Error("更新用户启用状态失败", zap.Error(err), zap.String("user_id", userID))
		return err
	}

	s.logger.Info("用户启用状态已更新",
		zap.String("user_id", userID),
		zap.Bool("is_active", active),
		zap.String("updated_by", adminID),
	)
	return nil
}
