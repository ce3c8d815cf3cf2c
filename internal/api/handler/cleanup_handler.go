package handler

import (
	"github.com/gin-gonic/gin"

	"contest-arena/backend/internal/dto"
	"contest-arena/backend/internal/service"
	"contest-arena/backend/pkg/response"
)

// CleanupHandler Token 清理 HTTP 处理器
// 供外部定时任务（如 cron）通过静态令牌调用，不走用户 JWT
type CleanupHandler struct {
	tokenSvc service.TokenService
}

// NewCleanupHandler 创建 CleanupHandler
func NewCleanupHandler(tokenSvc service.TokenService) *CleanupHandler {
	return &CleanupHandler{tokenSvc: tokenSvc}
}

// Cleanup 执行 Token 清理
// POST /api/v1/admin/cleanup-tokens?action=expired|used|full|stats
// action 缺省按 full 处理；stats 只统计不删除
func (h *CleanupHandler) Cleanup(c *gin.Context) {
	var result *service.CleanupResult
	var err error

	switch c.DefaultQuery("action", "full") {
	case "expired":
		result, err = h.tokenSvc.CleanupExpiredTokens(c.Request.Context())
	case "used":
		result, err = h.tokenSvc.CleanupUsedTokens(c.Request.Context())
	case "full":
		result, err = h.tokenSvc.PerformFullCleanup(c.Request.Context())
	case "stats":
		stats, statsErr := h.tokenSvc.TokenStatistics(c.Request.Context())
		if statsErr != nil {
			response.InternalError(c)
			return
		}
		response.OK(c, stats)
		return
	default:
		response.BadRequest(c, 10001, "action 仅支持 expired / used / full / stats")
		return
	}

	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, dto.CleanupResultResponse{
		VerificationDeleted: result.VerificationDeleted,
		ResetDeleted:        result.ResetDeleted,
		TotalDeleted:        result.Total(),
	})
}

// Statistics Token 统计
// GET /api/v1/admin/cleanup-tokens/stats
func (h *CleanupHandler) Statistics(c *gin.Context) {
	result, err := h.tokenSvc.TokenStatistics(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
