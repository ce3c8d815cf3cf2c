package model

import (
	"sync"
	"testing"

	"gorm.io/gorm/schema"
)

// submissions 表没有软删除列；模型若携带 DeletedAt，GORM 会在所有查询上
// 追加 deleted_at IS NULL 条件，打到不存在的列直接报错
func TestSubmissionSchema_NoSoftDelete(t *testing.T) {
	s, err := schema.Parse(&Submission{}, &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		t.Fatalf("解析 Submission schema 失败: %v", err)
	}

	for _, col := range []string{"deleted_at", "deleted_by"} {
		if _, ok := s.FieldsByDBName[col]; ok {
			t.Errorf("submissions 表没有 %s 列，模型不应携带该字段", col)
		}
	}
	if _, ok := s.FieldsByDBName["version"]; !ok {
		t.Error("submissions 表带乐观锁版本号，模型应携带 version 字段")
	}
}

// users 表保留软删除 + 乐观锁，User 模型应携带完整的 VersionedModel 字段
func TestUserSchema_SoftDelete(t *testing.T) {
	s, err := schema.Parse(&User{}, &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		t.Fatalf("解析 User schema 失败: %v", err)
	}

	for _, col := range []string{"deleted_at", "deleted_by", "version"} {
		if _, ok := s.FieldsByDBName[col]; !ok {
			t.Errorf("users 表有 %s 列，模型应携带该字段", col)
		}
	}
}
