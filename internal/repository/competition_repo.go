package repository

import (
	"context"

	"gorm.io/gorm"

	"contest-arena/backend/internal/model"
)

// CompetitionRepository 竞赛数据访问接口
type CompetitionRepository interface {
	Create(ctx context.Context, competition *model.Competition) error
	GetByID(ctx context.Context, id string) (*model.Competition, error)
	GetBySlug(ctx context.Context, slug string) (*model.Competition, error)
	List(ctx context.Context, activeOnly bool) ([]model.Competition, error)
	Update(ctx context.Context, competition *model.Competition) error
}

type competitionRepo struct {
	db *gorm.DB
}

// NewCompetitionRepo 创建 CompetitionRepository 实例
func NewCompetitionRepo(db *gorm.DB) CompetitionRepository {
	return &competitionRepo{db: db}
}

func (r *competitionRepo) Create(ctx context.Context, competition *model.Competition) error {
	return r.db.WithContext(ctx).Create(competition).Error
}

func (r *competitionRepo) GetByID(ctx context.Context, id string) (*model.Competition, error) {
	var c model.Competition
	err := r.db.WithContext(ctx).
		Where("competition_id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *competitionRepo) GetBySlug(ctx context.Context, slug string) (*model.Competition, error) {
	var c model.Competition
	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *competitionRepo) List(ctx context.Context, activeOnly bool) ([]model.Competition, error) {
	db := r.db.WithContext(ctx)
	if activeOnly {
		db = db.Where("is_active = true")
	}

	var competitions []model.Competition
	if err := db.Order("created_at ASC").Find(&competitions).Error; err != nil {
		return nil, err
	}
	return competitions, nil
}

func (r *competitionRepo) Update(ctx context.Context, competition *model.Competition) error {
	return r.db.WithContext(ctx).Save(competition).Error
}
