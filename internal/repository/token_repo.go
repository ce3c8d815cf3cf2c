package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"contest-arena/backend/internal/model"
)

// TokenStats 单一 Token 类型的统计数据
type TokenStats struct {
	Total   int64 `json:"total"`
	Expired int64 `json:"expired"`
	Used    int64 `json:"used"`
	Active  int64 `json:"active"` // 未使用且未过期
}

// VerificationTokenRepository 邮箱验证 Token 数据访问接口
type VerificationTokenRepository interface {
	Create(ctx context.Context, token *model.VerificationToken) error
	GetByToken(ctx context.Context, token string) (*model.VerificationToken, error)
	// GetLatestByUser 返回用户最近一次签发的 Token（用于重发节流）
	GetLatestByUser(ctx context.Context, userID string) (*model.VerificationToken, error)
	// InvalidateActiveByUser 将用户所有未使用且未过期的 Token 标记为已使用
	InvalidateActiveByUser(ctx context.Context, userID string) (int64, error)
	// Consume 条件更新消费 Token（used=false 才生效），返回是否抢到
	Consume(ctx context.Context, tokenID string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	DeleteUsedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Stats(ctx context.Context, now time.Time) (*TokenStats, error)
}

type verificationTokenRepo struct {
	db *gorm.DB
}

// NewVerificationTokenRepo 创建 VerificationTokenRepository 实例
func NewVerificationTokenRepo(db *gorm.DB) VerificationTokenRepository {
	return &verificationTokenRepo{db: db}
}

func (r *verificationTokenRepo) Create(ctx context.Context, token *model.VerificationToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *verificationTokenRepo) GetByToken(ctx context.Context, token string) (*model.VerificationToken, error) {
	var t model.VerificationToken
	err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *verificationTokenRepo) GetLatestByUser(ctx context.Context, userID string) (*model.VerificationToken, error) {
	var t model.VerificationToken
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *verificationTokenRepo) InvalidateActiveByUser(ctx context.Context, userID string) (int64, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&model.VerificationToken{}).
		Where("user_id = ? AND used = false AND expires_at > ?", userID, now).
		Updates(map[string]interface{}{
			"used":       true,
			"used_at":    now,
			"updated_at": now,
		})
	return res.RowsAffected, res.Error
}

func (r *verificationTokenRepo) Consume(ctx context.Context, tokenID string) (bool, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&model.VerificationToken{}).
		Where("token_id = ? AND used = false", tokenID).
		Updates(map[string]interface{}{
			"used":       true,
			"used_at":    now,
			"updated_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *verificationTokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&model.VerificationToken{})
	return res.RowsAffected, res.Error
}

func (r *verificationTokenRepo) DeleteUsedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("used = true AND created_at < ?", cutoff).
		Delete(&model.VerificationToken{})
	return res.RowsAffected, res.Error
}

func (r *verificationTokenRepo) Stats(ctx context.Context, now time.Time) (*TokenStats, error) {
	return tokenStats(r.db.WithContext(ctx).Model(&model.VerificationToken{}), now)
}

// PasswordResetTokenRepository 密码重置 Token 数据访问接口
type PasswordResetTokenRepository interface {
	Create(ctx context.Context, token *model.PasswordResetToken) error
	GetByToken(ctx context.Context, token string) (*model.PasswordResetToken, error)
	InvalidateActiveByUser(ctx context.Context, userID string) (int64, error)
	// Consume 条件更新消费 Token（密码实际修改成功后由调用方触发）
	Consume(ctx context.Context, tokenID string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	DeleteUsedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Stats(ctx context.Context, now time.Time) (*TokenStats, error)
}

type passwordResetTokenRepo struct {
	db *gorm.DB
}

// NewPasswordResetTokenRepo 创建 PasswordResetTokenRepository 实例
func NewPasswordResetTokenRepo(db *gorm.DB) PasswordResetTokenRepository {
	return &passwordResetTokenRepo{db: db}
}

func (r *passwordResetTokenRepo) Create(ctx context.Context, token *model.PasswordResetToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *passwordResetTokenRepo) GetByToken(ctx context.Context, token string) (*model.PasswordResetToken, error) {
	var t model.PasswordResetToken
	err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *passwordResetTokenRepo) InvalidateActiveByUser(ctx context.Context, userID string) (int64, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&model.PasswordResetToken{}).
		Where("user_id = ? AND used = false AND expires_at > ?", userID, now).
		Updates(map[string]interface{}{
			"used":       true,
			"used_at":    now,
			"updated_at": now,
		})
	return res.RowsAffected, res.Error
}

func (r *passwordResetTokenRepo) Consume(ctx context.Context, tokenID string) (bool, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&model.PasswordResetToken{}).
		Where("token_id = ? AND used = false", tokenID).
		Updates(map[string]interface{}{
			"used":       true,
			"used_at":    now,
			"updated_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *passwordResetTokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&model.PasswordResetToken{})
	return res.RowsAffected, res.Error
}

func (r *passwordResetTokenRepo) DeleteUsedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("used = true AND created_at < ?", cutoff).
		Delete(&model.PasswordResetToken{})
	return res.RowsAffected, res.Error
}

func (r *passwordResetTokenRepo) Stats(ctx context.Context, now time.Time) (*TokenStats, error) {
	return tokenStats(r.db.WithContext(ctx).Model(&model.PasswordResetToken{}), now)
}

// tokenStats 统计 total/expired/used/active 四项计数
func tokenStats(db *gorm.DB, now time.Time) (*TokenStats, error) {
	var stats TokenStats

	if err := db.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("expires_at < ?", now).Count(&stats.Expired).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("used = true").Count(&stats.Used).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("used = false AND expires_at >= ?", now).Count(&stats.Active).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
