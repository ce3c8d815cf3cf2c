package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"contest-arena/backend/config"
	"contest-arena/backend/internal/dto"
	"contest-arena/backend/internal/model"
	"contest-arena/backend/internal/repository"
)

// ── Token 模块业务错误 ──

var (
	ErrTokenNotFound        = errors.New("token 不存在")
	ErrTokenUsed            = errors.New("token 已被使用")
	ErrTokenExpired         = errors.New("token 已过期")
	ErrEmailAlreadyVerified = errors.New("邮箱已完成验证")
	ErrResendThrottled      = errors.New("验证邮件发送过于频繁")
)

// CleanupResult 清理结果（按 Token 类型分列删除数）
type CleanupResult struct {
	VerificationDeleted int64
	ResetDeleted        int64
}

// Total 合计删除数
func (r *CleanupResult) Total() int64 {
	return r.VerificationDeleted + r.ResetDeleted
}

// TokenService 凭证 Token 生命周期业务接口
//
// 设计说明：
//   - Token 为 256 位随机值的十六进制编码，单次使用
//   - 验证顺序固定：不存在 → 已使用 → 已过期 →（验证类）邮箱已验证
//   - 签发新 Token 时同一用户的存量有效 Token 全部作废，保证同一时刻至多一个有效
//   - 消费走条件更新（used=false 才生效），并发重复兑换在数据库层落败
type TokenService interface {
	// CreateVerificationToken 签发邮箱验证 Token（24 小时有效），返回明文 Token
	CreateVerificationToken(ctx context.Context, userID string) (string, error)
	// CreatePasswordResetToken 签发密码重置 Token（1 小时有效），先作废存量有效 Token
	CreatePasswordResetToken(ctx context.Context, userID string) (string, error)
	// VerifyEmailToken 校验并消费验证 Token，成功返回所属用户 ID
	VerifyEmailToken(ctx context.Context, token string) (string, error)
	// VerifyPasswordResetToken 仅校验重置 Token（不消费），成功返回所属用户 ID
	VerifyPasswordResetToken(ctx context.Context, token string) (string, error)
	// MarkPasswordResetTokenUsed 密码实际修改成功后消费重置 Token
	MarkPasswordResetTokenUsed(ctx context.Context, token string) error
	// CanResendVerification 重发节流检查；被节流时返回剩余等待秒数
	CanResendVerification(ctx context.Context, userID string) (bool, int, error)
	// CleanupExpiredTokens 删除所有已过期 Token（无论是否使用过）
	CleanupExpiredTokens(ctx context.Context) (*CleanupResult, error)
	// CleanupUsedTokens 删除已使用且超过保留期（默认 7 天）的 Token
	CleanupUsedTokens(ctx context.Context) (*CleanupResult, error)
	// PerformFullCleanup 依次执行过期清理与已用清理，返回合并计数
	PerformFullCleanup(ctx context.Context) (*CleanupResult, error)
	// TokenStatistics 按类型统计 total/expired/used/active，用于监控
	TokenStatistics(ctx context.Context) (*dto.TokenStatisticsResponse, error)
}

type tokenService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTokenService 创建 TokenService 实例
func NewTokenService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) TokenService {
	return &tokenService{
		cfg:    cfg,
		repo:   repo,
		logger: logger,
	}
}

// generateToken 生成 256 位加密随机 Token（64 位十六进制字符串）
func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("生成随机 token 失败: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func (s *tokenService) CreateVerificationToken(ctx context.Context, userID string) (string, error) {
	// 作废存量有效 Token，保证同一用户至多一个有效验证 Token
	if _, err := s.repo.VerificationToken.InvalidateActiveByUser(ctx, userID); err != nil {
		s.logger.Error("作废存量验证 Token 失败", zap.Error(err), zap.String("user_id", userID))
		return "", err
	}

	token, err := generateToken()
	if err != nil {
		return "", err
	}

	record := &model.VerificationToken{
		UserID:    userID,
		Token:     token,
		Type:      model.TokenTypeEmailVerification,
		ExpiresAt: time.Now().Add(s.cfg.Token.VerificationTTL),
	}
	if err := s.repo.VerificationToken.Create(ctx, record); err != nil {
		s.logger.Error("创建验证 Token 失败", zap.Error(err), zap.String("user_id", userID))
		return "", err
	}

	return token, nil
}

func (s *tokenService) CreatePasswordResetToken(ctx context.Context, userID string) (string, error) {
	// 先作废该用户所有未使用且未过期的重置 Token（同一时刻至多一个有效）
	if _, err := s.repo.PasswordResetToken.InvalidateActiveByUser(ctx, userID); err != nil {
		s.logger.Error("作废存量重置 Token 失败", zap.Error(err), zap.String("user_id", userID))
		return "", err
	}

	token, err := generateToken()
	if err != nil {
		return "", err
	}

	record := &model.PasswordResetToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(s.cfg.Token.ResetTTL),
	}
	if err := s.repo.PasswordResetToken.Create(ctx, record); err != nil {
		s.logger.Error("创建重置 Token 失败", zap.Error(err), zap.String("user_id", userID))
		return "", err
	}

	return token, nil
}

func (s *tokenService) VerifyEmailToken(ctx context.Context, token string) (string, error) {
	// 1. 存在性
	record, err := s.repo.VerificationToken.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrTokenNotFound
		}
		s.logger.Error("查询验证 Token 失败", zap.Error(err))
		return "", err
	}

	// 2. 已使用
	if record.Used {
		return "", ErrTokenUsed
	}

	// 3. 已过期
	if time.Now().After(record.ExpiresAt) {
		return "", ErrTokenExpired
	}

	// 4. 所属用户是否已验证
	user, err := s.repo.User.GetByID(ctx, record.UserID)
	if err != nil {
		s.logger.Error("查询 Token 所属用户失败", zap.Error(err), zap.String("user_id", record.UserID))
		return "", err
	}
	if user.IsEmailVerified {
		return "", ErrEmailAlreadyVerified
	}

	// 5. 条件消费：并发下只有一个请求能抢到
	ok, err := s.repo.VerificationToken.Consume(ctx, record.TokenID)
	if err != nil {
		s.logger.Error("消费验证 Token 失败", zap.Error(err))
		return "", err
	}
	if !ok {
		return "", ErrTokenUsed
	}

	return record.UserID, nil
}

func (s *tokenService) VerifyPasswordResetToken(ctx context.Context, token string) (string, error) {
	record, err := s.repo.PasswordResetToken.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrTokenNotFound
		}
		s.logger.Error("查询重置 Token 失败", zap.Error(err))
		return "", err
	}

	if record.Used {
		return "", ErrTokenUsed
	}
	if time.Now().After(record.ExpiresAt) {
		return "", ErrTokenExpired
	}

	return record.UserID, nil
}

func (s *tokenService) MarkPasswordResetTokenUsed(ctx context.Context, token string) error {
	record, err := s.repo.PasswordResetToken.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTokenNotFound
		}
		return err
	}

	ok, err := s.repo.PasswordResetToken.Consume(ctx, record.TokenID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTokenUsed
	}
	return nil
}

func (s *tokenService) CanResendVerification(ctx context.Context, userID string) (bool, int, error) {
	latest, err := s.repo.VerificationToken.GetLatestByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 从未签发过，直接允许
			return true, 0, nil
		}
		s.logger.Error("查询最近验证 Token 失败", zap.Error(err), zap.String("user_id", userID))
		return false, 0, err
	}

	elapsed := time.Since(latest.CreatedAt)
	if elapsed >= s.cfg.Token.ResendCooldown {
		return true, 0, nil
	}

	wait := int((s.cfg.Token.ResendCooldown - elapsed).Seconds())
	if wait < 1 {
		wait = 1
	}
	return false, wait, nil
}

func (s *tokenService) CleanupExpiredTokens(ctx context.Context) (*CleanupResult, error) {
	now := time.Now()

	vDeleted, err := s.repo.VerificationToken.DeleteExpired(ctx, now)
	if err != nil {
		s.logger.Error("清理过期验证 Token 失败", zap.Error(err))
		return nil, err
	}
	rDeleted, err := s.repo.PasswordResetToken.DeleteExpired(ctx, now)
	if err != nil {
		s.logger.Error("清理过期重置 Token 失败", zap.Error(err))
		return nil, err
	}

	return &CleanupResult{VerificationDeleted: vDeleted, ResetDeleted: rDeleted}, nil
}

func (s *tokenService) CleanupUsedTokens(ctx context.Context) (*CleanupResult, error) {
	cutoff := time.Now().Add(-s.cfg.Cleanup.UsedRetention)

	vDeleted, err := s.repo.VerificationToken.DeleteUsedBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error("清理已用验证 Token 失败", zap.Error(err))
		return nil, err
	}
	rDeleted, err := s.repo.PasswordResetToken.DeleteUsedBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error("清理已用重置 Token 失败", zap.Error(err))
		return nil, err
	}

	return &CleanupResult{VerificationDeleted: vDeleted, ResetDeleted: rDeleted}, nil
}

func (s *tokenService) PerformFullCleanup(ctx context.Context) (*CleanupResult, error) {
	expired, err := s.CleanupExpiredTokens(ctx)
	if err != nil {
		return nil, err
	}
	used, err := s.CleanupUsedTokens(ctx)
	if err != nil {
		return nil, err
	}

	result := &CleanupResult{
		VerificationDeleted: expired.VerificationDeleted + used.VerificationDeleted,
		ResetDeleted:        expired.ResetDeleted + used.ResetDeleted,
	}

	s.logger.Info("Token 全量清理完成",
		zap.Int64("verification_deleted", result.VerificationDeleted),
		zap.Int64("reset_deleted", result.ResetDeleted),
	)

	return result, nil
}

func (s *tokenService) TokenStatistics(ctx context.Context) (*dto.TokenStatisticsResponse, error) {
	now := time.Now()

	vStats, err := s.repo.VerificationToken.Stats(ctx, now)
	if err != nil {
		s.logger.Error("统计验证 Token 失败", zap.Error(err))
		return nil, err
	}
	rStats, err := s.repo.PasswordResetToken.Stats(ctx, now)
	if err != nil {
		s.logger.Error("统计重置 Token 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenStatisticsResponse{
		Verification: dto.TokenTypeStats{
			Total:   vStats.Total,
			Expired: vStats.Expired,
			Used:    vStats.Used,
			Active:  vStats.Active,
		},
		Reset: dto.TokenTypeStats{
			Total:   rStats.Total,
			Expired: rStats.Expired,
			Used:    rStats.Used,
			Active:  rStats.Active,
		},
	}, nil
}
