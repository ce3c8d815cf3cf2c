package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"contest-arena/backend/internal/dto"
	"contest-arena/backend/internal/service"
	"contest-arena/backend/pkg/jwt"
	"contest-arena/backend/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
	jwtMgr  *jwt.Manager
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService, jwtMgr *jwt.Manager) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, jwtMgr: jwtMgr}
}

// Register 用户注册
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists):
			response.Error(c, http.StatusConflict, 11002, "该邮箱已被注册")
		case errors.Is(err, service.ErrWeakPassword):
			response.BadRequest(c, 11007, "密码至少 6 位，且需包含大写字母、小写字母和数字")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, 11001, "邮箱或密码错误")
		case errors.Is(err, service.ErrEmailNotVerified):
			response.Forbidden(c, 11003, "邮箱尚未验证，请先完成邮箱验证")
		case errors.Is(err, service.ErrUserDisabled):
			response.Forbidden(c, 11004, "账号已被停用")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// Logout 用户登出
// POST /api/v1/auth/logout
// 将当前 Access Token 加入黑名单（TTL 与剩余有效期一致）
func (h *AuthHandler) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		response.Unauthorized(c, 10002, "认证头格式无效")
		return
	}

	claims, err := h.jwtMgr.ParseToken(parts[1])
	if err != nil {
		// Token 已失效，登出视为成功
		response.OK(c, nil)
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// VerifyEmail 邮箱验证
// POST /api/v1/auth/verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.authSvc.VerifyEmail(c.Request.Context(), req.Token); err != nil {
		h.handleTokenError(c, err)
		return
	}

	response.OK(c, nil)
}

// ResendVerification 重发验证邮件
// POST /api/v1/auth/resend-verification
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req dto.ResendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.ResendVerification(c.Request.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrResendThrottled):
			response.ErrorWithData(c, http.StatusTooManyRequests, 10004, "验证邮件发送过于频繁，请稍后再试", result)
		case errors.Is(err, service.ErrEmailAlreadyVerified):
			response.BadRequest(c, 11005, "邮箱已完成验证")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// ForgotPassword 忘记密码
// POST /api/v1/auth/forgot-password
// 无论邮箱是否注册，对外一律返回成功（防枚举）
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.authSvc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"message": "若该邮箱已注册，重置邮件已发送"})
}

// ResetPassword 重置密码
// POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.authSvc.ResetPassword(c.Request.Context(), &req); err != nil {
		switch {
		case errors.Is(err, service.ErrPasswordMismatch):
			response.BadRequest(c, 11006, "两次输入的密码不一致")
		case errors.Is(err, service.ErrWeakPassword):
			response.BadRequest(c, 11007, "密码至少 6 位，且需包含大写字母、小写字母和数字")
		default:
			h.handleTokenError(c, err)
		}
		return
	}

	response.OK(c, nil)
}

// VerifyResetToken 查询重置 Token 有效性（前端预检）
// GET /api/v1/auth/reset-password/verify?token=xxx
func (h *AuthHandler) VerifyResetToken(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.BadRequest(c, 10001, "token 不能为空")
		return
	}

	response.OK(c, h.authSvc.VerifyResetToken(c.Request.Context(), token))
}

// GetCurrentUser 获取当前用户信息
// GET /api/v1/users/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.authSvc.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 11009, "用户不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, user)
}

// ChangePassword 修改密码（已登录）
// POST /api/v1/users/me/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		switch {
		case errors.Is(err, service.ErrOldPasswordWrong):
			response.BadRequest(c, 11008, "原密码错误")
		case errors.Is(err, service.ErrWeakPassword):
			response.BadRequest(c, 11007, "密码至少 6 位，且需包含大写字母、小写字母和数字")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}

// handleTokenError Token 类错误统一映射
func (h *AuthHandler) handleTokenError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTokenNotFound):
		response.BadRequest(c, 12001, "token 无效")
	case errors.Is(err, service.ErrTokenUsed):
		response.BadRequest(c, 12002, "token 已被使用")
	case errors.Is(err, service.ErrTokenExpired):
		response.BadRequest(c, 12003, "token 已过期")
	case errors.Is(err, service.ErrEmailAlreadyVerified):
		response.BadRequest(c, 11005, "邮箱已完成验证")
	default:
		response.InternalError(c)
	}
}
