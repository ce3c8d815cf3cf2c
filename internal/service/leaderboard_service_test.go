package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"contest-arena/backend/internal/model"
)

func setupLeaderboardService() (LeaderboardService, *mocks) {
	repo, m := newMocks()
	return NewLeaderboardService(repo, zap.NewNop()), m
}

func addScoredSubmission(m *mocks, competitionID, status string, score float64, disqualified bool) *model.Submission {
	s := addSubmission(m, "user-x", competitionID, 1)
	s.Status = status
	s.OverallScore = &score
	s.IsDisqualified = disqualified
	return s
}

func TestLeaderboard_NotFound(t *testing.T) {
	svc, _ := setupLeaderboardService()

	_, err := svc.Get(context.Background(), "missing")
	if !errors.Is(err, ErrCompetitionNotFound) {
		t.Errorf("期望 ErrCompetitionNotFound，实际: %v", err)
	}
}

func TestLeaderboard_Sections(t *testing.T) {
	svc, m := setupLeaderboardService()
	comp := addCompetition(m, "weekly", true, true)

	addScoredSubmission(m, comp.CompetitionID, model.StatusWinner, 9.5, false)
	addScoredSubmission(m, comp.CompetitionID, model.StatusFinalist, 8.0, false)
	addScoredSubmission(m, comp.CompetitionID, model.StatusEvaluated, 7.0, false)
	addScoredSubmission(m, comp.CompetitionID, model.StatusPending, 0, false)

	result, err := svc.Get(context.Background(), "weekly")
	if err != nil {
		t.Fatalf("Get 应成功: %v", err)
	}

	if len(result.Winners) != 1 {
		t.Errorf("期望 1 个 Winner，实际=%d", len(result.Winners))
	}
	if len(result.Finalists) != 1 {
		t.Errorf("期望 1 个 Finalist，实际=%d", len(result.Finalists))
	}
	// 总榜含 WINNER/FINALIST/EVALUATED，不含 PENDING
	if len(result.Ranking) != 3 {
		t.Errorf("总榜期望 3 条，实际=%d", len(result.Ranking))
	}
}

func TestLeaderboard_OrderedByScore(t *testing.T) {
	svc, m := setupLeaderboardService()
	comp := addCompetition(m, "weekly", true, true)

	addScoredSubmission(m, comp.CompetitionID, model.StatusEvaluated, 6.0, false)
	addScoredSubmission(m, comp.CompetitionID, model.StatusEvaluated, 9.0, false)
	addScoredSubmission(m, comp.CompetitionID, model.StatusEvaluated, 7.5, false)

	result, err := svc.Get(context.Background(), "weekly")
	if err != nil {
		t.Fatalf("Get 应成功: %v", err)
	}

	want := []float64{9.0, 7.5, 6.0}
	for i, entry := range result.Ranking {
		if entry.Rank != i+1 {
			t.Errorf("第 %d 条 Rank 期望 %d，实际=%d", i, i+1, entry.Rank)
		}
		if entry.OverallScore == nil || *entry.OverallScore != want[i] {
			t.Errorf("第 %d 条分数期望 %v，实际=%v", i, want[i], entry.OverallScore)
		}
	}
}

func TestLeaderboard_ExcludesDisqualified(t *testing.T) {
	svc, m := setupLeaderboardService()
	comp := addCompetition(m, "weekly", true, true)

	addScoredSubmission(m, comp.CompetitionID, model.StatusWinner, 9.9, true)
	addScoredSubmission(m, comp.CompetitionID, model.StatusEvaluated, 7.0, false)

	result, err := svc.Get(context.Background(), "weekly")
	if err != nil {
		t.Fatalf("Get 应成功: %v", err)
	}
	if len(result.Winners) != 0 {
		t.Error("取消资格的 Winner 不应出现")
	}
	if len(result.Ranking) != 1 {
		t.Errorf("总榜应只剩 1 条，实际=%d", len(result.Ranking))
	}
}
