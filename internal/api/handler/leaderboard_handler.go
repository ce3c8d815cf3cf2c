package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"contest-arena/backend/internal/service"
	"contest-arena/backend/pkg/response"
)

// LeaderboardHandler 公开排行榜 HTTP 处理器
type LeaderboardHandler struct {
	leaderboardSvc service.LeaderboardService
}

// NewLeaderboardHandler 创建 LeaderboardHandler
func NewLeaderboardHandler(leaderboardSvc service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardSvc: leaderboardSvc}
}

// Get 竞赛排行榜
// GET /api/v1/leaderboard/:slug
func (h *LeaderboardHandler) Get(c *gin.Context) {
	result, err := h.leaderboardSvc.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrCompetitionNotFound) {
			response.NotFound(c, 14001, "竞赛不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
