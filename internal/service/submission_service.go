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

// ── 投稿模块业务错误 ──

var (
	ErrSubmissionsClosed    = errors.New("当前未开放投稿")
	ErrIntervalLimitReached = errors.New("本周期投稿数已达上限")
	ErrCompetitionNotFound  = errors.New("竞赛不存在")
	ErrCompetitionInactive  = errors.New("竞赛已关闭")
	ErrSubmissionNotFound   = errors.New("投稿不存在")
	ErrNotSubmissionOwner   = errors.New("无权访问该投稿")
)

// SubmissionService 参赛者投稿业务接口
//
// 投稿闸门：每次创建请求都从数据库读取最新平台设置（不走缓存），
// 先判断总开关，再对周赛类竞赛执行当前周期投稿数上限检查
type SubmissionService interface {
	Create(ctx context.Context, userID string, req *dto.CreateSubmissionRequest) (*dto.SubmissionResponse, error)
	ListMine(ctx context.Context, userID string, page, pageSize int) ([]dto.SubmissionResponse, int64, error)
	// Get 参赛者读取自己的投稿；非本人返回 ErrNotSubmissionOwner
	Get(ctx context.Context, userID, submissionID string) (*dto.SubmissionResponse, error)
	ListMessages(ctx context.Context, userID string, isAdmin bool, submissionID string) ([]dto.MessageResponse, error)
	AddMessage(ctx context.Context, userID string, isAdmin bool, submissionID string, req *dto.CreateMessageRequest) (*dto.MessageResponse, error)
}

type submissionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSubmissionService 创建 SubmissionService 实例
func NewSubmissionService(repo *repository.Repository, logger *zap.Logger) SubmissionService {
	return &submissionService{repo: repo, logger: logger}
}

func (s *submissionService) Create(ctx context.Context, userID string, req *dto.CreateSubmissionRequest) (*dto.SubmissionResponse, error) {
	// 1. 竞赛必须存在且开放
	competition, err := s.repo.Competition.GetByID(ctx, req.CompetitionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompetitionNotFound
		}
		s.logger.Error("查询竞赛失败", zap.Error(err))
		return nil, err
	}
	if !competition.IsActive {
		return nil, ErrCompetitionInactive
	}

	// 2. 读取最新平台设置（每请求回源）
	settings, err := s.repo.Settings.Get(ctx)
	if err != nil {
		s.logger.Error("读取平台设置失败", zap.Error(err))
		return nil, err
	}

	// 3. 总开关：关闭时与投稿数无关，直接拒绝
	if !settings.IsSubmissionsOpen {
		return nil, ErrSubmissionsClosed
	}

	// 4. 周赛类竞赛执行当前周期上限检查；非周赛豁免
	if competition.IsWeekly {
		count, err := s.repo.Submission.CountByUserAndInterval(ctx, userID, competition.CompetitionID, settings.CurrentInterval)
		if err != nil {
			s.logger.Error("统计周期投稿数失败", zap.Error(err))
			return nil, err
		}
		if count >= int64(settings.MaxSubmissionsPerInterval) {
			return nil, ErrIntervalLimitReached
		}
	}

	// 5. 创建投稿（PENDING）
	submission := &model.Submission{
		UserID:        userID,
		CompetitionID: competition.CompetitionID,
		Interval:      settings.CurrentInterval,
		FileURL:       req.FileURL,
		Title:         req.Title,
		Description:   req.Description,
		Status:        model.StatusPending,
	}
	submission.CreatedBy = &userID
	if err := s.repo.Submission.Create(ctx, submission); err != nil {
		s.logger.Error("创建投稿失败", zap.Error(err))
		return nil, err
	}

	submission.Competition = competition
	resp := toSubmissionResponse(submission, false)

	s.logger.Info("投稿创建成功",
		zap.String("submission_id", submission.SubmissionID),
		zap.String("user_id", userID),
		zap.Int("interval", submission.Interval),
	)

	return &resp, nil
}

func (s *submissionService) ListMine(ctx context.Context, userID string, page, pageSize int) ([]dto.SubmissionResponse, int64, error) {
	submissions, total, err := s.repo.Submission.ListByUser(ctx, userID, (page-1)*pageSize, pageSize)
	if err != nil {
		s.logger.Error("查询投稿列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.SubmissionResponse, 0, len(submissions))
	for i := range submissions {
		result = append(result, toSubmissionResponse(&submissions[i], false))
	}
	return result, total, nil
}

func (s *submissionService) Get(ctx context.Context, userID, submissionID string) (*dto.SubmissionResponse, error) {
	submission, err := s.getOwned(ctx, userID, false, submissionID)
	if err != nil {
		return nil, err
	}

	resp := toSubmissionResponse(submission, false)
	return &resp, nil
}

// getOwned 查询投稿并做归属校验；isAdmin 为 true 时跳过归属限制
func (s *submissionService) getOwned(ctx context.Context, userID string, isAdmin bool, submissionID string) (*model.Submission, error) {
	submission, err := s.repo.Submission.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		s.logger.Error("查询投稿失败", zap.Error(err))
		return nil, err
	}
	if !isAdmin && submission.UserID != userID {
		return nil, ErrNotSubmissionOwner
	}
	return submission, nil
}

func (s *submissionService) ListMessages(ctx context.Context, userID string, isAdmin bool, submissionID string) ([]dto.MessageResponse, error) {
	if _, err := s.getOwned(ctx, userID, isAdmin, submissionID); err != nil {
		return nil, err
	}

	messages, err := s.repo.SubmissionMessage.ListBySubmission(ctx, submissionID)
	if err != nil {
		s.logger.Error("查询留言失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		result = append(result, dto.MessageResponse{
			ID:          m.MessageID,
			IsFromAdmin: m.IsFromAdmin,
			Content:     m.Content,
			CreatedAt:   m.CreatedAt,
		})
	}
	return result, nil
}

func (s *submissionService) AddMessage(ctx context.Context, userID string, isAdmin bool, submissionID string, req *dto.CreateMessageRequest) (*dto.MessageResponse, error) {
	if _, err := s.getOwned(ctx, userID, isAdmin, submissionID); err != nil {
		return nil, err
	}

	message := &model.SubmissionMessage{
		SubmissionID: submissionID,
		UserID:       userID,
		IsFromAdmin:  isAdmin,
		Content:      req.Content,
	}
	message.CreatedBy = &userID
	if err := s.repo.SubmissionMessage.Create(ctx, message); err != nil {
		s.logger.Error("创建留言失败", zap.Error(err))
		return nil, err
	}

	return &dto.MessageResponse{
		ID:          message.MessageID,
		IsFromAdmin: message.IsFromAdmin,
		Content:     message.Content,
		CreatedAt:   message.CreatedAt,
	}, nil
}

// toSubmissionResponse 模型转响应
// includeSubmitter 为 true 时附带投稿人信息（管理端视图）
func toSubmissionResponse(s *model.Submission, includeSubmitter bool) dto.SubmissionResponse {
	resp := dto.SubmissionResponse{
		ID:            s.SubmissionID,
		CompetitionID: s.CompetitionID,
		Interval:      s.Interval,
		FileURL:       s.FileURL,
		Title:         s.Title,
		Description:   s.Description,
		Status:        s.Status,
		Scores: dto.SubmissionScores{
			Creativity: s.ScoreCreativity,
			Technical:  s.ScoreTechnical,
			AIUsage:    s.ScoreAIUsage,
			Adherence:  s.ScoreAdherence,
			Impact:     s.ScoreImpact,
		},
		OverallScore:     s.OverallScore,
		IsAccessVerified: s.IsAccessVerified,
		AccessCheckError: s.AccessCheckError,
		IsDisqualified:   s.IsDisqualified,
		DisqualifyReason: s.DisqualifyReason,
		JudgeComments:    s.JudgeComments,
		EvaluatedBy:      s.EvaluatedBy,
		EvaluatedAt:      s.EvaluatedAt,
		CreatedAt:        s.CreatedAt,
	}
	if s.Competition != nil {
		resp.CompetitionName = s.Competition.Name
	}
	if includeSubmitter && s.User != nil {
		resp.SubmitterName = s.User.Name
		resp.SubmitterEmail = s.User.Email
	}
	return resp
}
