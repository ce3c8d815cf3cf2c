package service

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"contest-arena/backend/internal/dto"
	"contest-arena/backend/internal/model"
	"contest-arena/backend/internal/repository"
)

// ── 评审模块业务错误 ──

var (
	ErrInvalidScore  = errors.New("分值必须在 0-10 之间")
	ErrInvalidStatus = errors.New("无效的投稿状态")
)

// ReviewService 管理端投稿评审业务接口
type ReviewService interface {
	List(ctx context.Context, query *dto.SubmissionListQuery) ([]dto.SubmissionResponse, int64, error)
	Get(ctx context.Context, submissionID string) (*dto.SubmissionResponse, error)
	// Score 打分：总分为五项算术平均（保留一位小数）；
	// 状态缺省置为 EVALUATED，也可直接指定 WINNER/FINALIST/REJECTED
	Score(ctx context.Context, adminID, submissionID string, req *dto.ScoreSubmissionRequest) (*dto.SubmissionResponse, error)
	// UpdateStatus 单独修改状态（如领取评审 UNDER_REVIEW，或事后改判）
	UpdateStatus(ctx context.Context, adminID, submissionID, status string) (*dto.SubmissionResponse, error)
	// Disqualify 设置/撤销取消资格标记；与状态正交，不触发状态迁移
	Disqualify(ctx context.Context, adminID, submissionID string, req *dto.DisqualifyRequest) (*dto.SubmissionResponse, error)
	// RecordAccessCheck 回写外部链接可访问性检查结果
	RecordAccessCheck(ctx context.Context, submissionID string, req *dto.AccessCheckResultRequest) error
}

type reviewService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReviewService 创建 ReviewService 实例
func NewReviewService(repo *repository.Repository, logger *zap.Logger) ReviewService {
	return &reviewService{repo: repo, logger: logger}
}

// roundScore 保留一位小数
func roundScore(v float64) float64 {
	return math.Round(v*10) / 10
}

// OverallScore 五项分值的算术平均（保留一位小数）
func OverallScore(creativity, technical, aiUsage, adherence, impact float64) float64 {
	return roundScore((creativity + technical + aiUsage + adherence + impact) / 5)
}

func (s *reviewService) List(ctx context.Context, query *dto.SubmissionListQuery) ([]dto.SubmissionResponse, int64, error) {
	filters := &repository.SubmissionListFilters{
		CompetitionID:  query.CompetitionID,
		Status:         query.Status,
		Interval:       query.Interval,
		IsDisqualified: query.IsDisqualified,
		UserID:         query.UserID,
	}

	submissions, total, err := s.repo.Submission.List(ctx, filters, query.GetOffset(), query.GetPageSize())
	if err != nil {
		s.logger.Error("查询投稿列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.SubmissionResponse, 0, len(submissions))
	for i := range submissions {
		result = append(result, toSubmissionResponse(&submissions[i], true))
	}
	return result, total, nil
}

func (s *reviewService) Get(ctx context.Context, submissionID string) (*dto.SubmissionResponse, error) {
	submission, err := s.getSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	resp := toSubmissionResponse(submission, true)
	return &resp, nil
}

func (s *reviewService) getSubmission(ctx context.Context, submissionID string) (*model.Submission, error) {
	submission, err := s.repo.Submission.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		s.logger.Error("查询投稿失败", zap.Error(err))
		return nil, err
	}
	return submission, nil
}

func (s *reviewService) Score(ctx context.Context, adminID, submissionID string, req *dto.ScoreSubmissionRequest) (*dto.SubmissionResponse, error) {
	scores := []float64{req.ScoreCreativity, req.ScoreTechnical, req.ScoreAIUsage, req.ScoreAdherence, req.ScoreImpact}
	for _, v := range scores {
		if v < 0 || v > 10 {
			return nil, ErrInvalidScore
		}
	}

	status := req.Status
	if status == "" {
		status = model.StatusEvaluated
	}
	switch status {
	case model.StatusEvaluated, model.StatusWinner, model.StatusFinalist, model.StatusRejected:
	default:
		return nil, ErrInvalidStatus
	}

	submission, err := s.getSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	overall := OverallScore(req.ScoreCreativity, req.ScoreTechnical, req.ScoreAIUsage, req.ScoreAdherence, req.ScoreImpact)
	now := time.Now()

	submission.ScoreCreativity = &req.ScoreCreativity
	submission.ScoreTechnical = &req.ScoreTechnical
	submission.ScoreAIUsage = &req.ScoreAIUsage
	submission.ScoreAdherence = &req.ScoreAdherence
	submission.ScoreImpact = &req.ScoreImpact
	submission.OverallScore = &overall
	submission.Status = status
	if req.JudgeComments != "" {
		submission.JudgeComments = &req.JudgeComments
	}
	submission.EvaluatedBy = &adminID
	submission.EvaluatedAt = &now
	submission.UpdatedBy = &adminID

	if err := s.repo.Submission.Update(ctx, submission); err != nil {
		s.logger.Error("保存评分失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("投稿评分完成",
		zap.String("submission_id", submissionID),
		zap.String("status", status),
		zap.Float64("overall_score", overall),
		zap.String("evaluated_by", adminID),
	)

	resp := toSubmissionResponse(submission, true)
	return &resp, nil
}

func (s *reviewService) UpdateStatus(ctx context.Context, adminID, submissionID, status string) (*dto.SubmissionResponse, error) {
	if !model.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	submission, err := s.getSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	submission.Status = status
	submission.UpdatedBy = &adminID
	if err := s.repo.Submission.Update(ctx, submission); err != nil {
		s.logger.Error("更新投稿状态失败", zap.Error(err))
		return nil, err
	}

	resp := toSubmissionResponse(submission, true)
	return &resp, nil
}

func (s *reviewService) Disqualify(ctx context.Context, adminID, submissionID string, req *dto.DisqualifyRequest) (*dto.SubmissionResponse, error) {
	submission, err := s.getSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	submission.IsDisqualified = req.IsDisqualified
	if req.IsDisqualified && req.Reason != "" {
		submission.DisqualifyReason = &req.Reason
	}
	if !req.IsDisqualified {
		submission.DisqualifyReason = nil
	}
	submission.UpdatedBy = &adminID

	if err := s.repo.Submission.Update(ctx, submission); err != nil {
		s.logger.Error("更新取消资格标记失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("取消资格标记已更新",
		zap.String("submission_id", submissionID),
		zap.Bool("is_disqualified", req.IsDisqualified),
	)

	resp := toSubmissionResponse(submission, true)
	return &resp, nil
}

func (s *reviewService) RecordAccessCheck(ctx context.Context, submissionID string, req *dto.AccessCheckResultRequest) error {
	submission, err := s.getSubmission(ctx, submissionID)
	if err != nil {
		return err
	}

	submission.IsAccessVerified = req.IsAccessVerified
	if req.Error != "" {
		submission.AccessCheckError = &req.Error
	} else {
		submission.AccessCheckError = nil
	}

	return s.repo.Submission.Update(ctx, submission)
}
