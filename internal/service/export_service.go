package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"contest-arena/backend/internal/dto"
	"contest-arena/backend/internal/model"
	"contest-arena/backend/internal/repository"
)

// ExportService 投稿 Excel 导出业务接口
type ExportService interface {
	// ExportSubmissions 导出指定竞赛（可按周期过滤）的全部投稿，
	// 返回 xlsx 文件内容与建议文件名
	ExportSubmissions(ctx context.Context, query *dto.ExportQuery) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// 导出表头
var exportHeaders = []string{
	"投稿ID", "投稿人", "邮箱", "单位", "周期", "标题", "文件链接", "状态",
	"创意", "技术", "AI运用", "契合度", "影响力", "总分",
	"是否取消资格", "评语", "评定时间", "提交时间",
}

func (s *exportService) ExportSubmissions(ctx context.Context, query *dto.ExportQuery) (*bytes.Buffer, string, error) {
	competition, err := s.repo.Competition.GetByID(ctx, query.CompetitionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrCompetitionNotFound
		}
		s.logger.Error("查询竞赛失败", zap.Error(err))
		return nil, "", err
	}

	submissions, err := s.repo.Submission.ListForExport(ctx, query.CompetitionID, query.Interval)
	if err != nil {
		s.logger.Error("查询导出投稿失败", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "投稿"
	f.SetSheetName("Sheet1", sheet)

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, sub := range submissions {
		values := []interface{}{
			sub.SubmissionID,
			submitterName(&sub),
			submitterEmail(&sub),
			submitterInstitution(&sub),
			sub.Interval,
			sub.Title,
			sub.FileURL,
			sub.Status,
			scoreCell(sub.ScoreCreativity),
			scoreCell(sub.ScoreTechnical),
			scoreCell(sub.ScoreAIUsage),
			scoreCell(sub.ScoreAdherence),
			scoreCell(sub.ScoreImpact),
			scoreCell(sub.OverallScore),
			boolCell(sub.IsDisqualified),
			strCell(sub.JudgeComments),
			timeCell(sub.EvaluatedAt),
			sub.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成 Excel 失败", zap.Error(err))
		return nil, "", fmt.Errorf("生成 Excel 失败: %w", err)
	}

	filename := fmt.Sprintf("submissions_%s_%s.xlsx", competition.Slug, time.Now().Format("20060102_150405"))

	s.logger.Info("投稿导出完成",
		zap.String("competition_id", competition.CompetitionID),
		zap.Int("count", len(submissions)),
	)

	return buf, filename, nil
}

func submitterName(s *model.Submission) string {
	if s.User != nil {
		return s.User.Name
	}
	return ""
}

func submitterEmail(s *model.Submission) string {
	if s.User != nil {
		return s.User.Email
	}
	return ""
}

func submitterInstitution(s *model.Submission) string {
	if s.User != nil {
		return s.User.Institution
	}
	return ""
}

func scoreCell(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func boolCell(v bool) string {
	if v {
		return "是"
	}
	return "否"
}

func strCell(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func timeCell(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.Format("2006-01-02 15:04:05")
}
