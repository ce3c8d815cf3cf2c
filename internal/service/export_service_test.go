package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"contest-arena/backend/internal/dto"
	"contest-arena/backend/internal/model"
)

func setupExportService() (ExportService, *mocks) {
	repo, m := newMocks()
	return NewExportService(repo, zap.NewNop()), m
}

func TestExportSubmissions_CompetitionNotFound(t *testing.T) {
	svc, _ := setupExportService()

	_, _, err := svc.ExportSubmissions(context.Background(), &dto.ExportQuery{
		CompetitionID: "comp-missing",
	})
	if !errors.Is(err, ErrCompetitionNotFound) {
		t.Errorf("期望 ErrCompetitionNotFound，实际: %v", err)
	}
}

func TestExportSubmissions_Success(t *testing.T) {
	svc, m := setupExportService()
	comp := addCompetition(m, "weekly", true, true)

	score := 8.4
	now := time.Now()
	sub := addSubmission(m, "user-1", comp.CompetitionID, 1)
	sub.Status = model.StatusEvaluated
	sub.OverallScore = &score
	sub.EvaluatedAt = &now
	sub.User = &model.User{Name: "张三", Email: "zhangsan@test.com", Institution: "测试大学"}

	buf, filename, err := svc.ExportSubmissions(context.Background(), &dto.ExportQuery{
		CompetitionID: comp.CompetitionID,
	})
	if err != nil {
		t.Fatalf("ExportSubmissions 应成功: %v", err)
	}
	if buf == nil || buf.Len() == 0 {
		t.Error("导出的 Excel buffer 不应为空")
	}
	// xlsx 文件以 PK (0x504B) 开头
	if buf.Len() > 2 {
		header := buf.Bytes()[:2]
		if header[0] != 0x50 || header[1] != 0x4B {
			t.Error("导出内容应为 xlsx 格式")
		}
	}
	if !strings.HasPrefix(filename, "submissions_weekly_") || !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名格式不正确: %s", filename)
	}
}

func TestExportSubmissions_FiltersByInterval(t *testing.T) {
	svc, m := setupExportService()
	comp := addCompetition(m, "weekly", true, true)
	addSubmission(m, "user-1", comp.CompetitionID, 1)
	addSubmission(m, "user-1", comp.CompetitionID, 2)

	interval := 2
	buf, _, err := svc.ExportSubmissions(context.Background(), &dto.ExportQuery{
		CompetitionID: comp.CompetitionID,
		Interval:      &interval,
	})
	if err != nil {
		t.Fatalf("ExportSubmissions 应成功: %v", err)
	}
	if buf == nil || buf.Len() == 0 {
		t.Error("导出的 Excel buffer 不应为空")
	}
}
