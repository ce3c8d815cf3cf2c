package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"contest-arena/backend/internal/dto"
	"contest-arena/backend/internal/service"
	"contest-arena/backend/pkg/response"
)

// UserHandler 管理端用户管理 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// List 用户列表
// GET /api/v1/admin/users
func (h *UserHandler) List(c *gin.Context) {
	var query dto.UserListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	users, total, err := h.userSvc.List(c.Request.Context(), &query)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, users, total, query.GetPage(), query.GetPageSize())
}

// Get 用户详情
// GET /api/v1/admin/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	result, err := h.userSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 11009, "用户不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Activate 启用账号
// POST /api/v1/admin/users/:id/activate
func (h *UserHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

// Deactivate 停用账号
// POST /api/v1/admin/users/:id/deactivate
func (h *UserHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *UserHandler) setActive(c *gin.Context, active bool) {
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.userSvc.SetActive(c.Request.Context(), adminID, c.Param("id"), active); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 11009, "用户不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}
