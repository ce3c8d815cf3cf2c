package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"contest-arena/backend/internal/dto"
	"contest-arena/backend/internal/model"
	"contest-arena/backend/internal/repository"
)

// 排行榜各分区容量
const (
	leaderboardRankingLimit = 50
	leaderboardTierLimit    = 20
)

// LeaderboardService 公开排行榜业务接口
// 只展示已评定的投稿（WINNER / FINALIST / EVALUATED），已取消资格者不出现
type LeaderboardService interface {
	Get(ctx context.Context, slug string) (*dto.LeaderboardResponse, error)
}

type leaderboardService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLeaderboardService 创建 LeaderboardService 实例
func NewLeaderboardService(repo *repository.Repository, logger *zap.Logger) LeaderboardService {
	return &leaderboardService{repo: repo, logger: logger}
}

func (s *leaderboardService) Get(ctx context.Context, slug string) (*dto.LeaderboardResponse, error) {
	competition, err := s.repo.Competition.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompetitionNotFound
		}
		s.logger.Error("查询竞赛失败", zap.Error(err))
		return nil, err
	}

	winners, err := s.rankedEntries(ctx, competition.CompetitionID, []string{model.StatusWinner}, leaderboardTierLimit)
	if err != nil {
		return nil, err
	}
	finalists, err := s.rankedEntries(ctx, competition.CompetitionID, []string{model.StatusFinalist}, leaderboardTierLimit)
	if err != nil {
		return nil, err
	}
	ranking, err := s.rankedEntries(ctx, competition.CompetitionID,
		[]string{model.StatusWinner, model.StatusFinalist, model.StatusEvaluated}, leaderboardRankingLimit)
	if err != nil {
		return nil, err
	}

	return &dto.LeaderboardResponse{
		CompetitionSlug: competition.Slug,
		CompetitionName: competition.Name,
		Winners:         winners,
		Finalists:       finalists,
		Ranking:         ranking,
	}, nil
}

func (s *leaderboardService) rankedEntries(ctx context.Context, competitionID string, statuses []string, limit int) ([]dto.LeaderboardEntry, error) {
	submissions, err := s.repo.Submission.ListRanked(ctx, competitionID, statuses, limit)
	if err != nil {
		s.logger.Error("查询排行榜失败", zap.Error(err), zap.Strings("statuses", statuses))
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(submissions))
	for i := range submissions {
		sub := &submissions[i]
		entry := dto.LeaderboardEntry{
			Rank:         i + 1,
			SubmissionID: sub.SubmissionID,
			Title:        sub.Title,
			Interval:     sub.Interval,
			Status:       sub.Status,
			OverallScore: sub.OverallScore,
		}
		if sub.User != nil {
			entry.Name = sub.User.Name
			entry.Institution = sub.User.Institution
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
