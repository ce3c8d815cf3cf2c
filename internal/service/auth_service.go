package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"contest-arena/backend/config"
	"contest-arena/backend/internal/dto"
	"contest-arena/backend/internal/model"
	"contest-arena/backend/internal/repository"
	"contest-arena/backend/pkg/jwt"
	"contest-arena/backend/pkg/mailer"
	"contest-arena/backend/pkg/redis"
)

// ── 认证模块业务错误 ──

var (
	ErrEmailExists        = errors.New("该邮箱已被注册")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrEmailNotVerified   = errors.New("邮箱尚未验证")
	ErrUserDisabled       = errors.New("账号已被停用")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrPasswordMismatch   = errors.New("两次输入的密码不一致")
	ErrWeakPassword       = errors.New("密码至少 6 位，且需包含大写字母、小写字母和数字")
	ErrOldPasswordWrong   = errors.New("原密码错误")
)

// AuthService 认证业务接口
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	VerifyEmail(ctx context.Context, token string) error
	// ResendVerification 重发验证邮件；被节流时返回 ErrResendThrottled 及剩余等待秒数
	ResendVerification(ctx context.Context, email string) (*dto.ResendVerificationResponse, error)
	// ForgotPassword 无论邮箱是否存在都返回成功，防止用户枚举
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
	// VerifyResetToken 查询重置 Token 是否仍然有效（不消费）
	VerifyResetToken(ctx context.Context, token string) *dto.ResetTokenStatusResponse
	GetCurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
}

type authService struct {
	cfg      *config.Config
	repo     *repository.Repository
	tokenSvc TokenService
	jwtMgr   *jwt.Manager
	mail     mailer.Mailer
	rdb      *redis.Client
	logger   *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	tokenSvc TokenService,
	jwtMgr *jwt.Manager,
	mail mailer.Mailer,
	rdb *redis.Client,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:      cfg,
		repo:     repo,
		tokenSvc: tokenSvc,
		jwtMgr:   jwtMgr,
		mail:     mail,
		rdb:      rdb,
		logger:   logger,
	}
}

// validatePassword 密码策略：至少 6 位，含大写、小写与数字
func validatePassword(password string) error {
	if len(password) < 6 {
		return ErrWeakPassword
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return ErrWeakPassword
	}
	return nil
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	// 1. 密码策略
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	// 2. 邮箱唯一性
	if _, err := s.repo.User.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询邮箱失败", zap.Error(err))
		return nil, err
	}

	// 3. 创建用户（未验证、未激活）
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Institution:     req.Institution,
		PasswordHash:    string(hash),
		Role:            model.RoleParticipant,
		IsActive:        false,
		IsEmailVerified: false,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	// 4. 签发验证 Token 并发送邮件
	// 邮件失败不影响注册结果（用户可通过重发接口补救），仅记录日志
	s.issueVerificationEmail(ctx, user)

	return &dto.RegisterResponse{
		ID:    user.UserID,
		Name:  user.Name,
		Email: user.Email,
	}, nil
}

// issueVerificationEmail 签发验证 Token 并发送邮件，失败只记日志
func (s *authService) issueVerificationEmail(ctx context.Context, user *model.User) {
	token, err := s.tokenSvc.CreateVerificationToken(ctx, user.UserID)
	if err != nil {
		s.logger.Error("签发验证 Token 失败", zap.Error(err), zap.String("user_id", user.UserID))
		return
	}

	verifyURL := fmt.Sprintf("%s/verify-email?token=%s", s.cfg.Server.BaseURL, token)
	if err := s.mail.SendVerificationEmail(user.Email, user.Name, verifyURL); err != nil {
		s.logger.Error("发送验证邮件失败", zap.Error(err), zap.String("user_id", user.UserID))
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询用户
	user, err := s.repo.User.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 账号状态
	if !user.IsEmailVerified {
		return nil, ErrEmailNotVerified
	}
	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	// 4. 生成 Token 对
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, user.Role, req.RememberMe)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.cfg.Auth.AccessTokenTTL.Seconds()),
		User:         toUserResponse(user),
	}, nil
}

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.rdb == nil {
		// Redis 不可用时降级：Token 到期自然失效
		return nil
	}
	return s.rdb.BlacklistToken(ctx, jti, time.Until(expiresAt))
}

func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	userID, err := s.tokenSvc.VerifyEmailToken(ctx, token)
	if err != nil {
		return err
	}

	// 首次验证成功同时激活账号
	if err := s.repo.User.MarkEmailVerified(ctx, userID); err != nil {
		s.logger.Error("标记邮箱已验证失败", zap.Error(err), zap.String("user_id", userID))
		return err
	}

	s.logger.Info("邮箱验证成功", zap.String("user_id", userID))
	return nil
}

func (s *authService) ResendVerification(ctx context.Context, email string) (*dto.ResendVerificationResponse, error) {
	user, err := s.repo.User.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 防枚举：未注册邮箱也返回成功
			return &dto.ResendVerificationResponse{Sent: true}, nil
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	if user.IsEmailVerified {
		return nil, ErrEmailAlreadyVerified
	}

	// 5 分钟节流
	allowed, wait, err := s.tokenSvc.CanResendVerification(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return &dto.ResendVerificationResponse{Sent: false, WaitTime: wait}, ErrResendThrottled
	}

	s.issueVerificationEmail(ctx, user)
	return &dto.ResendVerificationResponse{Sent: true}, nil
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.User.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 防枚举：未注册邮箱静默成功
			return nil
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return err
	}

	token, err := s.tokenSvc.CreatePasswordResetToken(ctx, user.UserID)
	if err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.cfg.Server.BaseURL, token)
	if err := s.mail.SendPasswordResetEmail(user.Email, user.Name, resetURL); err != nil {
		// 发送失败只记日志，响应仍然统一成功
		s.logger.Error("发送重置邮件失败", zap.Error(err), zap.String("user_id", user.UserID))
	}

	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	if req.Password != req.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if err := validatePassword(req.Password); err != nil {
		return err
	}

	// 校验 Token（不消费，密码落库成功后再消费）
	userID, err := s.tokenSvc.VerifyPasswordResetToken(ctx, req.Token)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return err
	}

	if err := s.repo.User.UpdatePassword(ctx, userID, string(hash)); err != nil {
		s.logger.Error("更新密码失败", zap.Error(err), zap.String("user_id", userID))
		return err
	}

	if err := s.tokenSvc.MarkPasswordResetTokenUsed(ctx, req.Token); err != nil {
		// 密码已改成功，消费失败只记日志（清理任务会兜底回收）
		s.logger.Warn("消费重置 Token 失败", zap.Error(err), zap.String("user_id", userID))
	}

	s.logger.Info("密码重置成功", zap.String("user_id", userID))
	return nil
}

func (s *authService) VerifyResetToken(ctx context.Context, token string) *dto.ResetTokenStatusResponse {
	_, err := s.tokenSvc.VerifyPasswordResetToken(ctx, token)
	switch {
	case err == nil:
		return &dto.ResetTokenStatusResponse{Valid: true, Message: "token 有效"}
	case errors.Is(err, ErrTokenUsed):
		return &dto.ResetTokenStatusResponse{Valid: false, Message: "token 已被使用"}
	case errors.Is(err, ErrTokenExpired):
		return &dto.ResetTokenStatusResponse{Valid: false, Message: "token 已过期"}
	default:
		return &dto.ResetTokenStatusResponse{Valid: false, Message: "token 无效"}
	}
}

func (s *authService) GetCurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
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

func (s *authService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	if err := validatePassword(req.NewPassword); err != nil {
		return err
	}

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrOldPasswordWrong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return err
	}

	return s.repo.User.UpdatePassword(ctx, userID, string(hash))
}

// toUserResponse 模型转响应（脱敏）
func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:              user.UserID,
		Name:            user.Name,
		Email:           user.Email,
		Phone:           user.Phone,
		Institution:     user.Institution,
		Role:            user.Role,
		IsActive:        user.IsActive,
		IsEmailVerified: user.IsEmailVerified,
	}
}
