package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"contest-arena/backend/internal/dto"
	"contest-arena/backend/internal/service"
	"contest-arena/backend/pkg/response"
)

// ReviewHandler 管理端投稿评审 HTTP 处理器
type ReviewHandler struct {
	reviewSvc service.ReviewService
}

// NewReviewHandler 创建 ReviewHandler
func NewReviewHandler(reviewSvc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewSvc: reviewSvc}
}

// List 投稿列表（管理端，支持按竞赛/状态/周期/资格过滤）
// GET /api/v1/admin/submissions
func (h *ReviewHandler) List(c *gin.Context) {
	var query dto.SubmissionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	submissions, total, err := h.reviewSvc.List(c.Request.Context(), &query)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, submissions, total, query.GetPage(), query.GetPageSize())
}

// Get 投稿详情（管理端）
// GET /api/v1/admin/submissions/:id
func (h *ReviewHandler) Get(c *gin.Context) {
	result, err := h.reviewSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleReviewError(c, err)
		return
	}

	response.OK(c, result)
}

// Score 评审打分
// PUT /api/v1/admin/submissions/:id/score
func (h *ReviewHandler) Score(c *gin.Context) {
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ScoreSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.reviewSvc.Score(c.Request.Context(), adminID, c.Param("id"), &req)
	if err != nil {
		h.handleReviewError(c, err)
		return
	}

	response.OK(c, result)
}

// UpdateStatus 修改投稿状态
// PUT /api/v1/admin/submissions/:id/status
func (h *ReviewHandler) UpdateStatus(c *gin.Context) {
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.reviewSvc.UpdateStatus(c.Request.Context(), adminID, c.Param("id"), req.Status)
	if err != nil {
		h.handleReviewError(c, err)
		return
	}

	response.OK(c, result)
}

// Disqualify 设置/撤销取消资格
// PUT /api/v1/admin/submissions/:id/disqualify
func (h *ReviewHandler) Disqualify(c *gin.Context) {
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.DisqualifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.reviewSvc.Disqualify(c.Request.Context(), adminID, c.Param("id"), &req)
	if err != nil {
		h.handleReviewError(c, err)
		return
	}

	response.OK(c, result)
}

// RecordAccessCheck 回写链接可访问性检查结果
// PUT /api/v1/admin/submissions/:id/access-check
func (h *ReviewHandler) RecordAccessCheck(c *gin.Context) {
	var req dto.AccessCheckResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.reviewSvc.RecordAccessCheck(c.Request.Context(), c.Param("id"), &req); err != nil {
		h.handleReviewError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *ReviewHandler) handleReviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSubmissionNotFound):
		response.NotFound(c, 13003, "投稿不存在")
	case errors.Is(err, service.ErrInvalidScore):
		response.BadRequest(c, 13005, "分值必须在 0-10 之间")
	case errors.Is(err, service.ErrInvalidStatus):
		response.BadRequest(c, 13006, "无效的投稿状态")
	default:
		response.InternalError(c)
	}
}
