package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"contest-arena/backend/internal/dto"
	"contest-arena/backend/internal/model"
	"contest-arena/backend/internal/service"
	"contest-arena/backend/pkg/response"
)

// SubmissionHandler 参赛者投稿模块 HTTP 处理器
type SubmissionHandler struct {
	submissionSvc service.SubmissionService
}

// NewSubmissionHandler 创建 SubmissionHandler
func NewSubmissionHandler(submissionSvc service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionSvc: submissionSvc}
}

// Create 创建投稿
// POST /api/v1/submissions
func (h *SubmissionHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.submissionSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCompetitionNotFound):
			response.NotFound(c, 14001, "竞赛不存在")
		case errors.Is(err, service.ErrCompetitionInactive):
			response.BadRequest(c, 14002, "竞赛已关闭")
		case errors.Is(err, service.ErrSubmissionsClosed):
			response.Forbidden(c, 13001, "当前未开放投稿")
		case errors.Is(err, service.ErrIntervalLimitReached):
			response.Forbidden(c, 13002, "本周期投稿数已达上限")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// ListMine 我的投稿列表
// GET /api/v1/submissions
func (h *SubmissionHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	submissions, total, err := h.submissionSvc.ListMine(c.Request.Context(), userID, page.GetPage(), page.GetPageSize())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, submissions, total, page.GetPage(), page.GetPageSize())
}

// Get 投稿详情（仅本人）
// GET /api/v1/submissions/:id
func (h *SubmissionHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.submissionSvc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.OK(c, result)
}

// ListMessages 投稿留言列表
// GET /api/v1/submissions/:id/messages
func (h *SubmissionHandler) ListMessages(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	messages, err := h.submissionSvc.ListMessages(c.Request.Context(), userID, role == model.RoleAdmin, c.Param("id"))
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.OK(c, messages)
}

// AddMessage 发表投稿留言
// POST /api/v1/submissions/:id/messages
func (h *SubmissionHandler) AddMessage(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	var req dto.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.submissionSvc.AddMessage(c.Request.Context(), userID, role == model.RoleAdmin, c.Param("id"), &req)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.Created(c, result)
}

func (h *SubmissionHandler) handleSubmissionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSubmissionNotFound):
		response.NotFound(c, 13003, "投稿不存在")
	case errors.Is(err, service.ErrNotSubmissionOwner):
		response.Forbidden(c, 13004, "无权访问该投稿")
	default:
		response.InternalError(c)
	}
}
