package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User               UserRepository
	VerificationToken  VerificationTokenRepository
	PasswordResetToken PasswordResetTokenRepository
	Submission         SubmissionRepository
	SubmissionMessage  SubmissionMessageRepository
	Settings           PlatformSettingsRepository
	Competition        CompetitionRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:               NewUserRepo(db),
		VerificationToken:  NewVerificationTokenRepo(db),
		PasswordResetToken: NewPasswordResetTokenRepo(db),
		Submission:         NewSubmissionRepo(db),
		SubmissionMessage:  NewSubmissionMessageRepo(db),
		Settings:           NewPlatformSettingsRepo(db),
		Competition:        NewCompetitionRepo(db),
	}
}
