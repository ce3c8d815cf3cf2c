package model

// 用户角色
const (
	RoleParticipant = "participant"
	RoleAdmin       = "admin"
)

// User 用户表 — 对应 users
type User struct {
	UserID          string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name            string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email           string `gorm:"type:varchar(255);not null"                     json:"email"`
	Phone           string `gorm:"type:varchar(30);not null;default:''"           json:"phone"`
	Institution     string `gorm:"type:varchar(200);not null;default:''"          json:"institution"`
	PasswordHash    string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role            string `gorm:"type:varchar(20);not null;default:'participant'" json:"role"`
	IsActive        bool   `gorm:"not null;default:true"                          json:"is_active"`
	IsEmailVerified bool   `gorm:"not null;default:false"                         json:"is_email_verified"`
	VersionedModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }
