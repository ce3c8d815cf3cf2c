package repository

import (
	"context"

	"gorm.io/gorm"

	"contest-arena/backend/internal/model"
)

// SubmissionListFilters 投稿列表过滤条件（管理端）
type SubmissionListFilters struct {
	CompetitionID  string
	Status         string
	Interval       *int
	IsDisqualified *bool
	UserID         string
}

// SubmissionRepository 投稿数据访问接口
type SubmissionRepository interface {
	Create(ctx context.Context, submission *model.Submission) error
	GetByID(ctx context.Context, id string) (*model.Submission, error)
	Update(ctx context.Context, submission *model.Submission) error
	// CountByUserAndInterval 统计用户在指定竞赛、指定周期内的投稿数（周期上限闸门用）
	CountByUserAndInterval(ctx context.Context, userID, competitionID string, interval int) (int64, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.Submission, int64, error)
	List(ctx context.Context, filters *SubmissionListFilters, offset, limit int) ([]model.Submission, int64, error)
	// ListRanked 按总分降序返回指定状态的投稿（排行榜用，排除已取消资格者）
	ListRanked(ctx context.Context, competitionID string, statuses []string, limit int) ([]model.Submission, error)
	// ListForExport 返回导出范围内的全部投稿
	ListForExport(ctx context.Context, competitionID string, interval *int) ([]model.Submission, error)
}

type submissionRepo struct {
	db *gorm.DB
}

// NewSubmissionRepo 创建 SubmissionRepository 实例
func NewSubmissionRepo(db *gorm.DB) SubmissionRepository {
	return &submissionRepo{db: db}
}

func (r *submissionRepo) Create(ctx context.Context, submission *model.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepo) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	var s model.Submission
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Competition").
		Where("submission_id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *submissionRepo) Update(ctx context.Context, submission *model.Submission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}

func (r *submissionRepo) CountByUserAndInterval(ctx context.Context, userID, competitionID string, interval int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Submission{}).
		Where("user_id = ? AND competition_id = ? AND interval = ?", userID, competitionID, interval).
		Count(&count).Error
	return count, err
}

func (r *submissionRepo) ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.Submission, int64, error) {
	var submissions []model.Submission
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Submission{}).Where("user_id = ?", userID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Competition").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, 0, err
	}

	return submissions, total, nil
}

func (r *submissionRepo) List(ctx context.Context, filters *SubmissionListFilters, offset, limit int) ([]model.Submission, int64, error) {
	var submissions []model.Submission
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Submission{})
	if filters != nil {
		if filters.CompetitionID != "" {
			db = db.Where("competition_id = ?", filters.CompetitionID)
		}
		if filters.Status != "" {
			db = db.Where("status = ?", filters.Status)
		}
		if filters.Interval != nil {
			db = db.Where("interval = ?", *filters.Interval)
		}
		if filters.IsDisqualified != nil {
			db = db.Where("is_disqualified = ?", *filters.IsDisqualified)
		}
		if filters.UserID != "" {
			db = db.Where("user_id = ?", filters.UserID)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("User").Preload("Competition").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, 0, err
	}

	return submissions, total, nil
}

func (r *submissionRepo) ListRanked(ctx context.Context, competitionID string, statuses []string, limit int) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("competition_id = ? AND status IN ? AND is_disqualified = false", competitionID, statuses).
		Order("overall_score DESC NULLS LAST").
		Order("created_at ASC").
		Limit(limit).
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepo) ListForExport(ctx context.Context, competitionID string, interval *int) ([]model.Submission, error) {
	db := r.db.WithContext(ctx).
		Preload("User").
		Preload("Competition").
		Where("competition_id = ?", competitionID)
	if interval != nil {
		db = db.Where("interval = ?", *interval)
	}

	var submissions []model.Submission
	if err := db.Order("interval ASC, created_at ASC").Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}
