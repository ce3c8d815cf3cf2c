package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"contest-arena/backend/config"
	"contest-arena/backend/internal/dto"
	"contest-arena/backend/internal/model"
	"contest-arena/backend/pkg/jwt"
)

func setupAuthService() (AuthService, *mocks) {
	cfg := &config.Config{
		Server: config.ServerConfig{
			BaseURL: "http://localhost:8080",
		},
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret-key-for-unit-testing-2026",
			AccessTokenTTL:          15 * time.Minute,
			RefreshTokenTTLDefault:  24 * time.Hour,
			RefreshTokenTTLRemember: 7 * 24 * time.Hour,
		},
		Token: config.TokenConfig{
			VerificationTTL: 24 * time.Hour,
			ResetTTL:        time.Hour,
			ResendCooldown:  5 * time.Minute,
		},
		Cleanup: config.CleanupConfig{
			UsedRetention: 7 * 24 * time.Hour,
		},
	}

	repo, m := newMocks()
	tokenSvc := NewTokenService(cfg, repo, zap.NewNop())
	jwtMgr := jwt.NewManager(&cfg.Auth)

	svc := NewAuthService(cfg, repo, tokenSvc, jwtMgr, m.mailer, nil, zap.NewNop())
	return svc, m
}

func createVerifiedUser(m *mocks, email, password string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &model.User{
		UserID:          "user-" + email,
		Name:            "测试用户",
		Email:           email,
		PasswordHash:    string(hash),
		Role:            model.RoleParticipant,
		IsActive:        true,
		IsEmailVerified: true,
	}
	m.users.users[user.UserID] = user
	return user
}

// activeVerificationToken 返回用户当前唯一有效的验证 token 明文
func activeVerificationToken(m *mocks, userID string) string {
	for _, t := range m.vTokens.tokens {
		if t.UserID == userID && !t.Used {
			return t.Token
		}
	}
	return ""
}

func activeResetToken(m *mocks, userID string) string {
	for _, t := range m.rTokens.tokens {
		if t.UserID == userID && !t.Used {
			return t.Token
		}
	}
	return ""
}

// ── 注册 ──

func TestRegister_Success(t *testing.T) {
	svc, m := setupAuthService()

	result, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "新用户",
		Email:    "new@test.com",
		Password: "Passw0rd",
	})

	if err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}
	if result.Email != "new@test.com" {
		t.Errorf("期望 Email=new@test.com，实际=%s", result.Email)
	}

	user, _ := m.users.GetByEmail(context.Background(), "new@test.com")
	if user.IsEmailVerified {
		t.Error("新注册用户邮箱不应已验证")
	}
	if user.IsActive {
		t.Error("新注册用户不应处于激活状态")
	}
	if len(m.mailer.verificationSent) != 1 {
		t.Errorf("应发送 1 封验证邮件，实际=%d", len(m.mailer.verificationSent))
	}
	if activeVerificationToken(m, user.UserID) == "" {
		t.Error("注册后应存在有效的验证 token")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, m := setupAuthService()
	createVerifiedUser(m, "taken@test.com", "Passw0rd")

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "新用户",
		Email:    "taken@test.com",
		Password: "Passw0rd",
	})

	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("期望 ErrEmailExists，实际: %v", err)
	}
}

func TestRegister_WeakPassword(t *testing.T) {
	svc, _ := setupAuthService()

	cases := []string{"Ab1", "password1", "PASSWORD1", "Password"}
	for _, pw := range cases {
		_, err := svc.Register(context.Background(), &dto.RegisterRequest{
			Name:     "新用户",
			Email:    "weak@test.com",
			Password: pw,
		})
		if !errors.Is(err, ErrWeakPassword) {
			t.Errorf("密码 %q 期望 ErrWeakPassword，实际: %v", pw, err)
		}
	}
}

// 邮件发送失败不阻断注册（可通过重发补救）
func TestRegister_MailFailureDoesNotBlock(t *testing.T) {
	svc, m := setupAuthService()
	m.mailer.failNext = true

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "新用户",
		Email:    "new@test.com",
		Password: "Passw0rd",
	})

	if err != nil {
		t.Fatalf("邮件失败时 Register 仍应成功: %v", err)
	}
}

// ── 登录 ──

func TestLogin_Success(t *testing.T) {
	svc, m := setupAuthService()
	createVerifiedUser(m, "user@test.com", "Passw0rd")

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "user@test.com",
		Password: "Passw0rd",
	})

	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if result.AccessToken == "" {
		t.Error("AccessToken 不应为空")
	}
	if result.RefreshToken == "" {
		t.Error("RefreshToken 不应为空")
	}
	if result.ExpiresIn != 900 {
		t.Errorf("期望 ExpiresIn=900，实际=%d", result.ExpiresIn)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, m := setupAuthService()
	createVerifiedUser(m, "user@test.com", "Passw0rd")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "user@test.com",
		Password: "wrong",
	})

	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := setupAuthService()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@test.com",
		Password: "Passw0rd",
	})

	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestLogin_EmailNotVerified(t *testing.T) {
	svc, m := setupAuthService()
	user := createVerifiedUser(m, "user@test.com", "Passw0rd")
	user.IsEmailVerified = false
	user.IsActive = false

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "user@test.com",
		Password: "Passw0rd",
	})

	if !errors.Is(err, ErrEmailNotVerified) {
		t.Errorf("期望 ErrEmailNotVerified，实际: %v", err)
	}
}

// 密码错误优先于未验证状态，避免泄露账号状态
func TestLogin_WrongPasswordOnUnverified(t *testing.T) {
	svc, m := setupAuthService()
	user := createVerifiedUser(m, "user@test.com", "Passw0rd")
	user.IsEmailVerified = false

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "user@test.com",
		Password: "wrong",
	})

	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestLogin_DisabledAccount(t *testing.T) {
	svc, m := setupAuthService()
	user := createVerifiedUser(m, "user@test.com", "Passw0rd")
	user.IsActive = false

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "user@test.com",
		Password: "Passw0rd",
	})

	if !errors.Is(err, ErrUserDisabled) {
		t.Errorf("期望 ErrUserDisabled，实际: %v", err)
	}
}

// ── 邮箱验证 ──

func TestVerifyEmail_ActivatesAccount(t *testing.T) {
	svc, m := setupAuthService()

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "新用户",
		Email:    "new@test.com",
		Password: "Passw0rd",
	})
	if err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}

	user, _ := m.users.GetByEmail(context.Background(), "new@test.com")
	token := activeVerificationToken(m, user.UserID)

	if err := svc.VerifyEmail(context.Background(), token); err != nil {
		t.Fatalf("VerifyEmail 应成功: %v", err)
	}
	if !user.IsEmailVerified {
		t.Error("验证后邮箱应标记为已验证")
	}
	if !user.IsActive {
		t.Error("验证后账号应被激活")
	}

	// 验证后可登录
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "new@test.com",
		Password: "Passw0rd",
	}); err != nil {
		t.Errorf("验证后登录应成功: %v", err)
	}
}

// ── 重发验证邮件 ──

func TestResendVerification_UnknownEmailSilentSuccess(t *testing.T) {
	svc, m := setupAuthService()

	result, err := svc.ResendVerification(context.Background(), "nobody@test.com")
	if err != nil {
		t.Fatalf("未注册邮箱应静默成功（防枚举）: %v", err)
	}
	if !result.Sent {
		t.Error("对外应表现为已发送")
	}
	if len(m.mailer.verificationSent) != 0 {
		t.Error("未注册邮箱不应实际发送邮件")
	}
}

func TestResendVerification_AlreadyVerified(t *testing.T) {
	svc, m := setupAuthService()
	createVerifiedUser(m, "user@test.com", "Passw0rd")

	_, err := svc.ResendVerification(context.Background(), "user@test.com")
	if !errors.Is(err, ErrEmailAlreadyVerified) {
		t.Errorf("期望 ErrEmailAlreadyVerified，实际: %v", err)
	}
}

func TestResendVerification_Throttled(t *testing.T) {
	svc, _ := setupAuthService()

	// 注册时已签发一个 token，冷却期内重发应被节流
	_, _ = svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "新用户",
		Email:    "new@test.com",
		Password: "Passw0rd",
	})

	result, err := svc.ResendVerification(context.Background(), "new@test.com")
	if !errors.Is(err, ErrResendThrottled) {
		t.Fatalf("期望 ErrResendThrottled，实际: %v", err)
	}
	if result == nil || result.WaitTime <= 0 {
		t.Error("被节流时应返回剩余等待秒数")
	}
}

// ── 忘记密码 / 重置密码 ──

func TestForgotPassword_UnknownEmailSilentSuccess(t *testing.T) {
	svc, m := setupAuthService()

	if err := svc.ForgotPassword(context.Background(), "nobody@test.com"); err != nil {
		t.Fatalf("未注册邮箱应静默成功（防枚举）: %v", err)
	}
	if len(m.mailer.resetSent) != 0 {
		t.Error("未注册邮箱不应实际发送邮件")
	}
}

func TestForgotPassword_SendsResetMail(t *testing.T) {
	svc, m := setupAuthService()
	user := createVerifiedUser(m, "user@test.com", "Passw0rd")

	if err := svc.ForgotPassword(context.Background(), "user@test.com"); err != nil {
		t.Fatalf("ForgotPassword 应成功: %v", err)
	}
	if len(m.mailer.resetSent) != 1 {
		t.Errorf("应发送 1 封重置邮件，实际=%d", len(m.mailer.resetSent))
	}
	if activeResetToken(m, user.UserID) == "" {
		t.Error("应存在有效的重置 token")
	}
}

func TestResetPassword_FullFlow(t *testing.T) {
	svc, m := setupAuthService()
	user := createVerifiedUser(m, "user@test.com", "OldPass1")

	_ = svc.ForgotPassword(context.Background(), "user@test.com")
	token := activeResetToken(m, user.UserID)

	err := svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Token:           token,
		Password:        "NewPass1",
		ConfirmPassword: "NewPass1",
	})
	if err != nil {
		t.Fatalf("ResetPassword 应成功: %v", err)
	}

	// 新密码可登录，旧密码失效
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "user@test.com", Password: "NewPass1",
	}); err != nil {
		t.Errorf("新密码登录应成功: %v", err)
	}
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "user@test.com", Password: "OldPass1",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("旧密码登录应失败，实际: %v", err)
	}

	// token 已消费，二次使用失败
	err = svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Token:           token,
		Password:        "OtherPass1",
		ConfirmPassword: "OtherPass1",
	})
	if !errors.Is(err, ErrTokenUsed) {
		t.Errorf("已消费 token 期望 ErrTokenUsed，实际: %v", err)
	}
}

func TestResetPassword_Mismatch(t *testing.T) {
	svc, _ := setupAuthService()

	err := svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Token:           "whatever",
		Password:        "NewPass1",
		ConfirmPassword: "Different1",
	})
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("期望 ErrPasswordMismatch，实际: %v", err)
	}
}

// 连续两次请求重置：旧 token 作废，只有最新 token 可用
func TestResetPassword_SecondRequestInvalidatesFirst(t *testing.T) {
	svc, m := setupAuthService()
	user := createVerifiedUser(m, "user@test.com", "OldPass1")

	_ = svc.ForgotPassword(context.Background(), "user@test.com")
	first := activeResetToken(m, user.UserID)

	_ = svc.ForgotPassword(context.Background(), "user@test.com")
	second := activeResetToken(m, user.UserID)

	if first == second {
		t.Fatal("两次请求应签发不同 token")
	}

	err := svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Token:           first,
		Password:        "NewPass1",
		ConfirmPassword: "NewPass1",
	})
	if !errors.Is(err, ErrTokenUsed) {
		t.Errorf("旧 token 应已作废，期望 ErrTokenUsed，实际: %v", err)
	}

	if err := svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Token:           second,
		Password:        "NewPass1",
		ConfirmPassword: "NewPass1",
	}); err != nil {
		t.Errorf("最新 token 应可用: %v", err)
	}
}

func TestVerifyResetToken_Statuses(t *testing.T) {
	svc, m := setupAuthService()
	user := createVerifiedUser(m, "user@test.com", "OldPass1")

	// 有效
	_ = svc.ForgotPassword(context.Background(), "user@test.com")
	token := activeResetToken(m, user.UserID)
	if status := svc.VerifyResetToken(context.Background(), token); !status.Valid {
		t.Errorf("有效 token 期望 Valid=true，实际 message=%s", status.Message)
	}

	// 不存在
	if status := svc.VerifyResetToken(context.Background(), "nonexistent"); status.Valid {
		t.Error("不存在的 token 期望 Valid=false")
	}

	// 已过期
	m.rTokens.tokens["exp"] = &model.PasswordResetToken{
		TokenID: "exp", UserID: user.UserID, Token: "expired-reset",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if status := svc.VerifyResetToken(context.Background(), "expired-reset"); status.Valid {
		t.Error("已过期 token 期望 Valid=false")
	}
}

// ── 修改密码 ──

func TestChangePassword_Success(t *testing.T) {
	svc, m := setupAuthService()
	user := createVerifiedUser(m, "user@test.com", "OldPass1")

	err := svc.ChangePassword(context.Background(), user.UserID, &dto.ChangePasswordRequest{
		OldPassword: "OldPass1",
		NewPassword: "NewPass1",
	})
	if err != nil {
		t.Fatalf("ChangePassword 应成功: %v", err)
	}

	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "user@test.com", Password: "NewPass1",
	}); err != nil {
		t.Errorf("新密码登录应成功: %v", err)
	}
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	svc, m := setupAuthService()
	user := createVerifiedUser(m, "user@test.com", "OldPass1")

	err := svc.ChangePassword(context.Background(), user.UserID, &dto.ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "NewPass1",
	})
	if !errors.Is(err, ErrOldPasswordWrong) {
		t.Errorf("期望 ErrOldPasswordWrong，实际: %v", err)
	}
}
