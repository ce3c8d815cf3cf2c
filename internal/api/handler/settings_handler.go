package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"contest-arena/backend/internal/dto"
	"contest-arena/backend/internal/service"
	pkgerrors "contest-arena/backend/pkg/errors"
	"contest-arena/backend/pkg/response"
)

// SettingsHandler 平台设置 HTTP 处理器（管理端）
type SettingsHandler struct {
	settingsSvc service.SettingsService
}

// NewSettingsHandler 创建 SettingsHandler
func NewSettingsHandler(settingsSvc service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsSvc: settingsSvc}
}

// Get 读取平台设置
// GET /api/v1/admin/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	result, err := h.settingsSvc.Get(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Update 更新平台设置（乐观锁）
// PUT /api/v1/admin/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.settingsSvc.Update(c.Request.Context(), adminID, &req)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			response.Error(c, http.StatusConflict, 14004, "设置已被他人修改，请刷新后重试")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// AdvanceInterval 推进周期（+1）
// POST /api/v1/admin/settings/advance-interval
func (h *SettingsHandler) AdvanceInterval(c *gin.Context) {
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AdvanceIntervalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.settingsSvc.AdvanceInterval(c.Request.Context(), adminID, &req)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			response.Error(c, http.StatusConflict, 14004, "设置已被他人修改，请刷新后重试")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
