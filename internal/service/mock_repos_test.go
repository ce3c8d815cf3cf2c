package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"contest-arena/backend/internal/model"
	"contest-arena/backend/internal/repository"
	apperrors "contest-arena/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	user.CreatedAt = time.Now()
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context, filters *repository.UserListFilters, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.users {
		if filters != nil {
			if filters.Role != "" && u.Role != filters.Role {
				continue
			}
			if filters.IsActive != nil && u.IsActive != *filters.IsActive {
				continue
			}
			if filters.Keyword != "" &&
				!strings.Contains(u.Name, filters.Keyword) &&
				!strings.Contains(u.Email, filters.Keyword) {
				continue
			}
		}
		all = append(all, *u)
	}
	total := int64(len(all))
	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUserRepo) MarkEmailVerified(_ context.Context, userID string) error {
	u, ok := m.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.IsEmailVerified = true
	u.IsActive = true
	return nil
}

func (m *mockUserRepo) SetActive(_ context.Context, userID string, active bool, _ string) error {
	u, ok := m.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.IsActive = active
	return nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	u, ok := m.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

// ── Mock VerificationTokenRepository ──

type mockVerificationTokenRepo struct {
	tokens map[string]*model.VerificationToken // key: token_id
	seq    int
}

func newMockVerificationTokenRepo() *mockVerificationTokenRepo {
	return &mockVerificationTokenRepo{tokens: make(map[string]*model.VerificationToken)}
}

func (m *mockVerificationTokenRepo) Create(_ context.Context, token *model.VerificationToken) error {
	if token.TokenID == "" {
		m.seq++
		token.TokenID = fmt.Sprintf("vtoken-%d", m.seq)
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}
	m.tokens[token.TokenID] = token
	return nil
}

func (m *mockVerificationTokenRepo) GetByToken(_ context.Context, token string) (*model.VerificationToken, error) {
	for _, t := range m.tokens {
		if t.Token == token {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockVerificationTokenRepo) GetLatestByUser(_ context.Context, userID string) (*model.VerificationToken, error) {
	var latest *model.VerificationToken
	for _, t := range m.tokens {
		if t.UserID != userID {
			continue
		}
		if latest == nil || t.CreatedAt.After(latest.CreatedAt) {
			latest = t
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return latest, nil
}

func (m *mockVerificationTokenRepo) InvalidateActiveByUser(_ context.Context, userID string) (int64, error) {
	now := time.Now()
	var n int64
	for _, t := range m.tokens {
		if t.UserID == userID && !t.Used && t.ExpiresAt.After(now) {
			t.Used = true
			t.UsedAt = &now
			n++
		}
	}
	return n, nil
}

func (m *mockVerificationTokenRepo) Consume(_ context.Context, tokenID string) (bool, error) {
	t, ok := m.tokens[tokenID]
	if !ok || t.Used {
		return false, nil
	}
	now := time.Now()
	t.Used = true
	t.UsedAt = &now
	return true, nil
}

func (m *mockVerificationTokenRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for id, t := range m.tokens {
		if t.ExpiresAt.Before(now) {
			delete(m.tokens, id)
			n++
		}
	}
	return n, nil
}

func (m *mockVerificationTokenRepo) DeleteUsedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for id, t := range m.tokens {
		if t.Used && t.CreatedAt.Before(cutoff) {
			delete(m.tokens, id)
			n++
		}
	}
	return n, nil
}

func (m *mockVerificationTokenRepo) Stats(_ context.Context, now time.Time) (*repository.TokenStats, error) {
	var stats repository.TokenStats
	for _, t := range m.tokens {
		stats.Total++
		if t.ExpiresAt.Before(now) {
			stats.Expired++
		}
		if t.Used {
			stats.Used++
		}
		if !t.Used && !t.ExpiresAt.Before(now) {
			stats.Active++
		}
	}
	return &stats, nil
}

// ── Mock PasswordResetTokenRepository ──

type mockResetTokenRepo struct {
	tokens map[string]*model.PasswordResetToken
	seq    int
}

func newMockResetTokenRepo() *mockResetTokenRepo {
	return &mockResetTokenRepo{tokens: make(map[string]*model.PasswordResetToken)}
}

func (m *mockResetTokenRepo) Create(_ context.Context, token *model.PasswordResetToken) error {
	if token.TokenID == "" {
		m.seq++
		token.TokenID = fmt.Sprintf("rtoken-%d", m.seq)
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}
	m.tokens[token.TokenID] = token
	return nil
}

func (m *mockResetTokenRepo) GetByToken(_ context.Context, token string) (*model.PasswordResetToken, error) {
	for _, t := range m.tokens {
		if t.Token == token {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockResetTokenRepo) InvalidateActiveByUser(_ context.Context, userID string) (int64, error) {
	now := time.Now()
	var n int64
	for _, t := range m.tokens {
		if t.UserID == userID && !t.Used && t.ExpiresAt.After(now) {
			t.Used = true
			t.UsedAt = &now
			n++
		}
	}
	return n, nil
}

func (m *mockResetTokenRepo) Consume(_ context.Context, tokenID string) (bool, error) {
	t, ok := m.tokens[tokenID]
	if !ok || t.Used {
		return false, nil
	}
	now := time.Now()
	t.Used = true
	t.UsedAt = &now
	return true, nil
}

func (m *mockResetTokenRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for id, t := range m.tokens {
		if t.ExpiresAt.Before(now) {
			delete(m.tokens, id)
			n++
		}
	}
	return n, nil
}

func (m *mockResetTokenRepo) DeleteUsedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for id, t := range m.tokens {
		if t.Used && t.CreatedAt.Before(cutoff) {
			delete(m.tokens, id)
			n++
		}
	}
	return n, nil
}

func (m *mockResetTokenRepo) Stats(_ context.Context, now time.Time) (*repository.TokenStats, error) {
	var stats repository.TokenStats
	for _, t := range m.tokens {
		stats.Total++
		if t.ExpiresAt.Before(now) {
			stats.Expired++
		}
		if t.Used {
			stats.Used++
		}
		if !t.Used && !t.ExpiresAt.Before(now) {
			stats.Active++
		}
	}
	return &stats, nil
}

// ── Mock SubmissionRepository ──

type mockSubmissionRepo struct {
	submissions map[string]*model.Submission
	seq         int
}

func newMockSubmissionRepo() *mockSubmissionRepo {
	return &mockSubmissionRepo{submissions: make(map[string]*model.Submission)}
}

func (m *mockSubmissionRepo) Create(_ context.Context, s *model.Submission) error {
	if s.SubmissionID == "" {
		m.seq++
		s.SubmissionID = fmt.Sprintf("sub-%d", m.seq)
	}
	s.CreatedAt = time.Now()
	m.submissions[s.SubmissionID] = s
	return nil
}

func (m *mockSubmissionRepo) GetByID(_ context.Context, id string) (*model.Submission, error) {
	if s, ok := m.submissions[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) Update(_ context.Context, s *model.Submission) error {
	m.submissions[s.SubmissionID] = s
	return nil
}

func (m *mockSubmissionRepo) CountByUserAndInterval(_ context.Context, userID, competitionID string, interval int) (int64, error) {
	var n int64
	for _, s := range m.submissions {
		if s.UserID == userID && s.CompetitionID == competitionID && s.Interval == interval {
			n++
		}
	}
	return n, nil
}

func (m *mockSubmissionRepo) ListByUser(_ context.Context, userID string, offset, limit int) ([]model.Submission, int64, error) {
	var all []model.Submission
	for _, s := range m.submissions {
		if s.UserID == userID {
			all = append(all, *s)
		}
	}
	total := int64(len(all))
	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockSubmissionRepo) List(_ context.Context, filters *repository.SubmissionListFilters, offset, limit int) ([]model.Submission, int64, error) {
	var all []model.Submission
	for _, s := range m.submissions {
		if filters != nil {
			if filters.CompetitionID != "" && s.CompetitionID != filters.CompetitionID {
				continue
			}
			if filters.Status != "" && s.Status != filters.Status {
				continue
			}
			if filters.Interval != nil && s.Interval != *filters.Interval {
				continue
			}
			if filters.IsDisqualified != nil && s.IsDisqualified != *filters.IsDisqualified {
				continue
			}
			if filters.UserID != "" && s.UserID != filters.UserID {
				continue
			}
		}
		all = append(all, *s)
	}
	total := int64(len(all))
	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockSubmissionRepo) ListRanked(_ context.Context, competitionID string, statuses []string, limit int) ([]model.Submission, error) {
	statusSet := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		statusSet[s] = true
	}

	var result []model.Submission
	for _, s := range m.submissions {
		if s.CompetitionID != competitionID || s.IsDisqualified || !statusSet[s.Status] {
			continue
		}
		result = append(result, *s)
	}

	// overall_score 降序，NULL 最后
	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i].OverallScore, result[j].OverallScore
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a > *b
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockSubmissionRepo) ListForExport(_ context.Context, competitionID string, interval *int) ([]model.Submission, error) {
	var result []model.Submission
	for _, s := range m.submissions {
		if s.CompetitionID != competitionID {
			continue
		}
		if interval != nil && s.Interval != *interval {
			continue
		}
		result = append(result, *s)
	}
	return result, nil
}

// ── Mock SubmissionMessageRepository ──

type mockMessageRepo struct {
	messages []*model.SubmissionMessage
	seq      int
}

func newMockMessageRepo() *mockMessageRepo {
	return &mockMessageRepo{}
}

func (m *mockMessageRepo) Create(_ context.Context, msg *model.SubmissionMessage) error {
	if msg.MessageID == "" {
		m.seq++
		msg.MessageID = fmt.Sprintf("msg-%d", m.seq)
	}
	msg.CreatedAt = time.Now()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockMessageRepo) ListBySubmission(_ context.Context, submissionID string) ([]model.SubmissionMessage, error) {
	var result []model.SubmissionMessage
	for _, msg := range m.messages {
		if msg.SubmissionID == submissionID {
			result = append(result, *msg)
		}
	}
	return result, nil
}

// ── Mock PlatformSettingsRepository ──

type mockSettingsRepo struct {
	settings *model.PlatformSettings
}

func newMockSettingsRepo() *mockSettingsRepo {
	return &mockSettingsRepo{
		settings: &model.PlatformSettings{
			Singleton:                 true,
			CurrentInterval:           1,
			IsSubmissionsOpen:         true,
			MaxSubmissionsPerInterval: 1,
			Version:                   1,
		},
	}
}

// Get 返回副本，模拟数据库每次回源
func (m *mockSettingsRepo) Get(_ context.Context) (*model.PlatformSettings, error) {
	cp := *m.settings
	return &cp, nil
}

func (m *mockSettingsRepo) UpdateVersioned(_ context.Context, settings *model.PlatformSettings, _ string) error {
	if m.settings.Version != settings.Version {
		return apperrors.ErrOptimisticLock
	}
	m.settings.CurrentInterval = settings.CurrentInterval
	m.settings.IsSubmissionsOpen = settings.IsSubmissionsOpen
	m.settings.MaxSubmissionsPerInterval = settings.MaxSubmissionsPerInterval
	m.settings.Version++
	settings.Version++
	return nil
}

// ── Mock CompetitionRepository ──

type mockCompetitionRepo struct {
	competitions map[string]*model.Competition
	seq          int
}

func newMockCompetitionRepo() *mockCompetitionRepo {
	return &mockCompetitionRepo{competitions: make(map[string]*model.Competition)}
}

func (m *mockCompetitionRepo) Create(_ context.Context, c *model.Competition) error {
	if c.CompetitionID == "" {
		m.seq++
		c.CompetitionID = fmt.Sprintf("comp-%d", m.seq)
	}
	m.competitions[c.CompetitionID] = c
	return nil
}

func (m *mockCompetitionRepo) GetByID(_ context.Context, id string) (*model.Competition, error) {
	if c, ok := m.competitions[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCompetitionRepo) GetBySlug(_ context.Context, slug string) (*model.Competition, error) {
	for _, c := range m.competitions {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCompetitionRepo) List(_ context.Context, activeOnly bool) ([]model.Competition, error) {
	var result []model.Competition
	for _, c := range m.competitions {
		if activeOnly && !c.IsActive {
			continue
		}
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockCompetitionRepo) Update(_ context.Context, c *model.Competition) error {
	m.competitions[c.CompetitionID] = c
	return nil
}

// ── Mock Mailer ──

type mockMailer struct {
	verificationSent []string // 收件地址
	resetSent        []string
	failNext         bool
}

func newMockMailer() *mockMailer {
	return &mockMailer{}
}

func (m *mockMailer) SendVerificationEmail(to, _, _ string) error {
	if m.failNext {
		m.failNext = false
		return fmt.Errorf("SMTP 连接失败")
	}
	m.verificationSent = append(m.verificationSent, to)
	return nil
}

func (m *mockMailer) SendPasswordResetEmail(to, _, _ string) error {
	if m.failNext {
		m.failNext = false
		return fmt.Errorf("SMTP 连接失败")
	}
	m.resetSent = append(m.resetSent, to)
	return nil
}

// ── 测试辅助 ──

// mocks 汇总所有 mock 实例，便于测试中直接操控底层数据
type mocks struct {
	users        *mockUserRepo
	vTokens      *mockVerificationTokenRepo
	rTokens      *mockResetTokenRepo
	submissions  *mockSubmissionRepo
	messages     *mockMessageRepo
	settings     *mockSettingsRepo
	competitions *mockCompetitionRepo
	mailer       *mockMailer
}

func newMocks() (*repository.Repository, *mocks) {
	m := &mocks{
		users:        newMockUserRepo(),
		vTokens:      newMockVerificationTokenRepo(),
		rTokens:      newMockResetTokenRepo(),
		submissions:  newMockSubmissionRepo(),
		messages:     newMockMessageRepo(),
		settings:     newMockSettingsRepo(),
		competitions: newMockCompetitionRepo(),
		mailer:       newMockMailer(),
	}
	repo := &repository.Repository{
		User:               m.users,
		VerificationToken:  m.vTokens,
		PasswordResetToken: m.rTokens,
		Submission:         m.submissions,
		SubmissionMessage:  m.messages,
		Settings:           m.settings,
		Competition:        m.competitions,
	}
	return repo, m
}
