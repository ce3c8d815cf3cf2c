package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"contest-arena/backend/internal/dto"
)

func setupCompetitionService() (CompetitionService, *mocks) {
	repo, m := newMocks()
	return NewCompetitionService(repo, zap.NewNop()), m
}

func TestCompetitionCreate_Defaults(t *testing.T) {
	svc, _ := setupCompetitionService()

	result, err := svc.Create(context.Background(), "admin-1", &dto.CompetitionRequest{
		Slug: "weekly-ai",
		Name: "AI 周赛",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if !result.IsWeekly {
		t.Error("缺省应为周赛")
	}
	if !result.IsActive {
		t.Error("缺省应为开放状态")
	}
}

func TestCompetitionCreate_SlugConflict(t *testing.T) {
	svc, _ := setupCompetitionService()

	if _, err := svc.Create(context.Background(), "admin-1", &dto.CompetitionRequest{
		Slug: "weekly-ai",
		Name: "AI 周赛",
	}); err != nil {
		t.Fatalf("首次创建应成功: %v", err)
	}

	_, err := svc.Create(context.Background(), "admin-1", &dto.CompetitionRequest{
		Slug: "weekly-ai",
		Name: "另一个周赛",
	})
	if !errors.Is(err, ErrSlugExists) {
		t.Errorf("期望 ErrSlugExists，实际: %v", err)
	}
}

func TestCompetitionList_ActiveOnly(t *testing.T) {
	svc, m := setupCompetitionService()
	addCompetition(m, "open", true, true)
	addCompetition(m, "closed", true, false)

	active, err := svc.List(context.Background(), true)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(active) != 1 {
		t.Errorf("公开侧期望 1 个开放竞赛，实际=%d", len(active))
	}

	all, err := svc.List(context.Background(), false)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("管理侧期望 2 个竞赛，实际=%d", len(all))
	}
}

func TestCompetitionGetBySlug_NotFound(t *testing.T) {
	svc, _ := setupCompetitionService()

	_, err := svc.GetBySlug(context.Background(), "missing")
	if !errors.Is(err, ErrCompetitionNotFound) {
		t.Errorf("期望 ErrCompetitionNotFound，实际: %v", err)
	}
}

func TestCompetitionUpdate_SlugChangeConflict(t *testing.T) {
	svc, _ := setupCompetitionService()

	first, _ := svc.Create(context.Background(), "admin-1", &dto.CompetitionRequest{
		Slug: "weekly-ai",
		Name: "AI 周赛",
	})
	second, _ := svc.Create(context.Background(), "admin-1", &dto.CompetitionRequest{
		Slug: "monthly-ai",
		Name: "AI 月赛",
	})

	// 改成已占用的 slug
	_, err := svc.Update(context.Background(), "admin-1", second.ID, &dto.CompetitionRequest{
		Slug: first.Slug,
		Name: "AI 月赛",
	})
	if !errors.Is(err, ErrSlugExists) {
		t.Errorf("期望 ErrSlugExists，实际: %v", err)
	}

	// slug 不变的更新不触发冲突检查
	updated, err := svc.Update(context.Background(), "admin-1", second.ID, &dto.CompetitionRequest{
		Slug: second.Slug,
		Name: "AI 月赛（改名）",
	})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if updated.Name != "AI 月赛（改名）" {
		t.Errorf("期望名称已更新，实际=%s", updated.Name)
	}
}
