package model

// PlatformSettings 平台设置表 — 对应 platform_settings（单行强类型）
// 投稿闸门在每次请求开始时从数据库读取本行，不做进程内缓存，
// 避免多实例部署下的陈旧读；更新走 version 乐观锁
type PlatformSettings struct {
	Singleton                 bool `gorm:"primaryKey;default:true" json:"-"`
	CurrentInterval           int  `gorm:"not null;default:1"      json:"current_interval"`
	IsSubmissionsOpen         bool `gorm:"not null;default:true"   json:"is_submissions_open"`
	MaxSubmissionsPerInterval int  `gorm:"not null;default:1"      json:"max_submissions_per_interval"`
	BaseModel
	Version int `gorm:"not null;default:1" json:"version"`
}

// TableName 指定表名
func (PlatformSettings) TableName() string { return "platform_settings" }
