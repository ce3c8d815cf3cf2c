package dto

// ── 认证模块 DTO ──

// RegisterRequest 注册请求
// 密码策略（≥6 位且含大小写字母与数字）在 Service 层校验
type RegisterRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=100"`
	Email       string `json:"email"       binding:"required,email"`
	Phone       string `json:"phone"       binding:"omitempty,max=30"`
	Institution string `json:"institution" binding:"omitempty,max=200"`
	Password    string `json:"password"    binding:"required"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email      string `json:"email"    binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// VerifyEmailRequest 邮箱验证请求
type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// ResendVerificationRequest 重发验证邮件请求
type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPasswordRequest 忘记密码请求
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	Token           string `json:"token"            binding:"required"`
	Password        string `json:"password"         binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// ChangePasswordRequest 修改密码请求（已登录）
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}
