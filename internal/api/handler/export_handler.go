package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"contest-arena/backend/internal/dto"
	"contest-arena/backend/internal/service"
	"contest-arena/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器（管理端）
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportSubmissions 导出投稿表
// GET /api/v1/admin/export/submissions?competition_id=xxx&interval=3
func (h *ExportHandler) ExportSubmissions(c *gin.Context) {
	var query dto.ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	buf, filename, err := h.exportSvc.ExportSubmissions(c.Request.Context(), &query)
	if err != nil {
		if errors.Is(err, service.ErrCompetitionNotFound) {
			response.NotFound(c, 14001, "竞赛不存在")
			return
		}
		response.InternalError(c)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
