package repository

import (
	"context"

	"gorm.io/gorm"

	"contest-arena/backend/internal/model"
)

// SubmissionMessageRepository 投稿留言数据访问接口（只追加）
type SubmissionMessageRepository interface {
	Create(ctx context.Context, message *model.SubmissionMessage) error
	ListBySubmission(ctx context.Context, submissionID string) ([]model.SubmissionMessage, error)
}

type submissionMessageRepo struct {
	db *gorm.DB
}

// NewSubmissionMessageRepo 创建 SubmissionMessageRepository 实例
func NewSubmissionMessageRepo(db *gorm.DB) SubmissionMessageRepository {
	return &submissionMessageRepo{db: db}
}

func (r *submissionMessageRepo) Create(ctx context.Context, message *model.SubmissionMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// ListBySubmission 按创建时间升序返回留言
func (r *submissionMessageRepo) ListBySubmission(ctx context.Context, submissionID string) ([]model.SubmissionMessage, error) {
	var messages []model.SubmissionMessage
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
