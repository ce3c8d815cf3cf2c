package model

import "time"

// Token 类型
const (
	TokenTypeEmailVerification = "EMAIL_VERIFICATION"
)

// VerificationToken 邮箱验证 Token 表 — 对应 verification_tokens
// 单次使用、24 小时过期
type VerificationToken struct {
	TokenID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"         json:"token_id"`
	UserID    string     `gorm:"type:uuid;not null;index"                               json:"user_id"`
	Token     string     `gorm:"type:varchar(64);not null;uniqueIndex"                  json:"-"`
	Type      string     `gorm:"type:varchar(30);not null;default:'EMAIL_VERIFICATION'" json:"type"`
	ExpiresAt time.Time  `gorm:"not null"                                               json:"expires_at"`
	Used      bool       `gorm:"not null;default:false"                                 json:"used"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	BaseModel
}

// TableName 指定表名
func (VerificationToken) TableName() string { return "verification_tokens" }

// PasswordResetToken 密码重置 Token 表 — 对应 password_reset_tokens
// 单次使用、1 小时过期；签发新 Token 时旧 Token 全部作废
type PasswordResetToken struct {
	TokenID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"token_id"`
	UserID    string     `gorm:"type:uuid;not null;index"                       json:"user_id"`
	Token     string     `gorm:"type:varchar(64);not null;uniqueIndex"          json:"-"`
	ExpiresAt time.Time  `gorm:"not null"                                       json:"expires_at"`
	Used      bool       `gorm:"not null;default:false"                         json:"used"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	BaseModel
}

// TableName 指定表名
func (PasswordResetToken) TableName() string { return "password_reset_tokens" }
