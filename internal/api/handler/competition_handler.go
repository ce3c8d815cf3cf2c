package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"contest-arena/backend/internal/dto"
	"contest-arena/backend/internal/service"
	"contest-arena/backend/pkg/response"
)

// CompetitionHandler 竞赛模块 HTTP 处理器
// 公开侧只读；创建/修改在管理端路由组注册
type CompetitionHandler struct {
	competitionSvc service.CompetitionService
}

// NewCompetitionHandler 创建 CompetitionHandler
func NewCompetitionHandler(competitionSvc service.CompetitionService) *CompetitionHandler {
	return &CompetitionHandler{competitionSvc: competitionSvc}
}

// List 竞赛列表（公开，仅开放中）
// GET /api/v1/competitions
func (h *CompetitionHandler) List(c *gin.Context) {
	competitions, err := h.competitionSvc.List(c.Request.Context(), true)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, competitions)
}

// ListAll 竞赛列表（管理端，含已关闭）
// GET /api/v1/admin/competitions
func (h *CompetitionHandler) ListAll(c *gin.Context) {
	competitions, err := h.competitionSvc.List(c.Request.Context(), false)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, competitions)
}

// GetBySlug 竞赛详情（公开）
// GET /api/v1/competitions/:slug
func (h *CompetitionHandler) GetBySlug(c *gin.Context) {
	result, err := h.competitionSvc.GetBySlug(c.Request.Context(), c.Param("slug"))
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

// Create 创建竞赛（管理端）
// POST /api/v1/admin/competitions
func (h *CompetitionHandler) Create(c *gin.Context) {
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CompetitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.competitionSvc.Create(c.Request.Context(), adminID, &req)
	if err != nil {
		if errors.Is(err, service.ErrSlugExists) {
			response.Error(c, http.StatusConflict, 14003, "竞赛标识已存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, result)
}

// Update 更新竞赛（管理端）
// PUT /api/v1/admin/competitions/:id
func (h *CompetitionHandler) Update(c *gin.Context) {
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CompetitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.competitionSvc.Update(c.Request.Context(), adminID, c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCompetitionNotFound):
			response.NotFound(c, 14001, "竞赛不存在")
		case errors.Is(err, service.ErrSlugExists):
			response.Error(c, http.StatusConflict, 14003, "竞赛标识已存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}
