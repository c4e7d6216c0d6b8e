package services

import (
	"context"
	"time"

	"github.com/ovoronin/bloghub/internal/models"
)

// MockUserAccountRepository implements UserAccountRepository for testing
type MockUserAccountRepository struct {
	FindFunc                    func(ctx context.Context, q models.PageQuery, loginTerm, emailTerm string) ([]*models.UserAccount, int, error)
	GetByIDFunc                 func(ctx context.Context, id string) (*models.UserAccount, error)
	GetByLoginFunc              func(ctx context.Context, login string) (*models.UserAccount, error)
	GetByEmailFunc              func(ctx context.Context, email string) (*models.UserAccount, error)
	GetByLoginOrEmailFunc       func(ctx context.Context, loginOrEmail string) (*models.UserAccount, error)
	GetByConfirmationCodeFunc   func(ctx context.Context, code string) (*models.UserAccount, error)
	GetByRecoveryCodeFunc       func(ctx context.Context, code string) (*models.UserAccount, error)
	CreateFunc                  func(ctx context.Context, account *models.UserAccount) (*models.UserAccount, error)
	ConfirmFunc                 func(ctx context.Context, id string) error
	RotateConfirmationCodeFunc  func(ctx context.Context, id, code string, expiresAt, sentAt time.Time) error
	SetRecoveryCodeFunc         func(ctx context.Context, id, code string, expiresAt time.Time) error
	UpdatePasswordFunc          func(ctx context.Context, id, passwordHash string) error
	DeleteFunc                  func(ctx context.Context, id string) error
	DeleteUnconfirmedBeforeFunc func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (m *MockUserAccountRepository) Find(ctx context.Context, q models.PageQuery, loginTerm, emailTerm string) ([]*models.UserAccount, int, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, q, loginTerm, emailTerm)
	}
	return []*models.UserAccount{}, 0, nil
}

func (m *MockUserAccountRepository) GetByID(ctx context.Context, id string) (*models.UserAccount, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserAccountRepository) GetByLogin(ctx context.Context, login string) (*models.UserAccount, error) {
	if m.GetByLoginFunc != nil {
		return m.GetByLoginFunc(ctx, login)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserAccountRepository) GetByEmail(ctx context.Context, email string) (*models.UserAccount, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserAccountRepository) GetByLoginOrEmail(ctx context.Context, loginOrEmail string) (*models.UserAccount, error) {
	if m.GetByLoginOrEmailFunc != nil {
		return m.GetByLoginOrEmailFunc(ctx, loginOrEmail)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserAccountRepository) GetByConfirmationCode(ctx context.Context, code string) (*models.UserAccount, error) {
	if m.GetByConfirmationCodeFunc != nil {
		return m.GetByConfirmationCodeFunc(ctx, code)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserAccountRepository) GetByRecoveryCode(ctx context.Context, code string) (*models.UserAccount, error) {
	if m.GetByRecoveryCodeFunc != nil {
		return m.GetByRecoveryCodeFunc(ctx, code)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserAccountRepository) Create(ctx context.Context, account *models.UserAccount) (*models.UserAccount, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserAccountRepository) Confirm(ctx context.Context, id string) error {
	if m.ConfirmFunc != nil {
		return m.ConfirmFunc(ctx, id)
	}
	return nil
}

func (m *MockUserAccountRepository) RotateConfirmationCode(ctx context.Context, id, code string, expiresAt, sentAt time.Time) error {
	if m.RotateConfirmationCodeFunc != nil {
		return m.RotateConfirmationCodeFunc(ctx, id, code, expiresAt, sentAt)
	}
	return nil
}

func (m *MockUserAccountRepository) SetRecoveryCode(ctx context.Context, id, code string, expiresAt time.Time) error {
	if m.SetRecoveryCodeFunc != nil {
		return m.SetRecoveryCodeFunc(ctx, id, code, expiresAt)
	}
	return nil
}

func (m *MockUserAccountRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, passwordHash)
	}
	return nil
}

func (m *MockUserAccountRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockUserAccountRepository) DeleteUnconfirmedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.DeleteUnconfirmedBeforeFunc != nil {
		return m.DeleteUnconfirmedBeforeFunc(ctx, cutoff)
	}
	return 0, nil
}

// MockSessionRepository implements SessionRepository for testing
type MockSessionRepository struct {
	UpsertSessionFunc       func(ctx context.Context, s *models.DeviceSession) error
	IsBlacklistedFunc       func(ctx context.Context, token string) (bool, error)
	ConsumeAndUpsertFunc    func(ctx context.Context, spent *models.BlacklistedToken, session *models.DeviceSession) error
	ConsumeAndDeleteFunc    func(ctx context.Context, spent *models.BlacklistedToken, deviceID string) error
	FindByUserIDFunc        func(ctx context.Context, userID string) ([]models.DeviceSession, error)
	GetByDeviceIDFunc       func(ctx context.Context, deviceID string) (*models.DeviceSession, error)
	DeleteSessionFunc       func(ctx context.Context, userID, deviceID string) error
	DeleteOtherSessionsFunc func(ctx context.Context, userID, keepDeviceID string) error
}

func (m *MockSessionRepository) UpsertSession(ctx context.Context, s *models.DeviceSession) error {
	if m.UpsertSessionFunc != nil {
		return m.UpsertSessionFunc(ctx, s)
	}
	return nil
}

func (m *MockSessionRepository) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	if m.IsBlacklistedFunc != nil {
		return m.IsBlacklistedFunc(ctx, token)
	}
	return false, nil
}

func (m *MockSessionRepository) ConsumeAndUpsert(ctx context.Context, spent *models.BlacklistedToken, session *models.DeviceSession) error {
	if m.ConsumeAndUpsertFunc != nil {
		return m.ConsumeAndUpsertFunc(ctx, spent, session)
	}
	return nil
}

func (m *MockSessionRepository) ConsumeAndDelete(ctx context.Context, spent *models.BlacklistedToken, deviceID string) error {
	if m.ConsumeAndDeleteFunc != nil {
		return m.ConsumeAndDeleteFunc(ctx, spent, deviceID)
	}
	return nil
}

func (m *MockSessionRepository) FindByUserID(ctx context.Context, userID string) ([]models.DeviceSession, error) {
	if m.FindByUserIDFunc != nil {
		return m.FindByUserIDFunc(ctx, userID)
	}
	return []models.DeviceSession{}, nil
}

func (m *MockSessionRepository) GetByDeviceID(ctx context.Context, deviceID string) (*models.DeviceSession, error) {
	if m.GetByDeviceIDFunc != nil {
		return m.GetByDeviceIDFunc(ctx, deviceID)
	}
	return nil, models.ErrNotFound
}

func (m *MockSessionRepository) DeleteSession(ctx context.Context, userID, deviceID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, userID, deviceID)
	}
	return nil
}

func (m *MockSessionRepository) DeleteOtherSessions(ctx context.Context, userID, keepDeviceID string) error {
	if m.DeleteOtherSessionsFunc != nil {
		return m.DeleteOtherSessionsFunc(ctx, userID, keepDeviceID)
	}
	return nil
}

// MockEmailService implements EmailService for testing
type MockEmailService struct {
	SendConfirmationEmailFunc func(ctx context.Context, email, code string) error
	SendRecoveryEmailFunc     func(ctx context.Context, email, code string) error
}

func (m *MockEmailService) SendConfirmationEmail(ctx context.Context, email, code string) error {
	if m.SendConfirmationEmailFunc != nil {
		return m.SendConfirmationEmailFunc(ctx, email, code)
	}
	return nil
}

func (m *MockEmailService) SendRecoveryEmail(ctx context.Context, email, code string) error {
	if m.SendRecoveryEmailFunc != nil {
		return m.SendRecoveryEmailFunc(ctx, email, code)
	}
	return nil
}

// MockRequestLogRepository implements RequestLogRepository for testing
type MockRequestLogRepository struct {
	RecordFunc         func(ctx context.Context, entry *models.RequestLogEntry) error
	CountSinceFunc     func(ctx context.Context, ip string, category models.RouteCategory, since time.Time) (int, error)
	DeleteOlderThanFunc func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (m *MockRequestLogRepository) Record(ctx context.Context, entry *models.RequestLogEntry) error {
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, entry)
	}
	return nil
}

func (m *MockRequestLogRepository) CountSince(ctx context.Context, ip string, category models.RouteCategory, since time.Time) (int, error) {
	if m.CountSinceFunc != nil {
		return m.CountSinceFunc(ctx, ip, category, since)
	}
	return 0, nil
}

func (m *MockRequestLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.DeleteOlderThanFunc != nil {
		return m.DeleteOlderThanFunc(ctx, cutoff)
	}
	return 0, nil
}

// MockBlogRepository implements BlogRepository for testing
type MockBlogRepository struct {
	FindFunc    func(ctx context.Context, q models.PageQuery) ([]models.Blog, int, error)
	GetByIDFunc func(ctx context.Context, id string) (*models.Blog, error)
	CreateFunc  func(ctx context.Context, blog *models.Blog) (*models.Blog, error)
	UpdateFunc  func(ctx context.Context, id string, blog *models.Blog) error
	DeleteFunc  func(ctx context.Context, id string) error
}

func (m *MockBlogRepository) Find(ctx context.Context, q models.PageQuery) ([]models.Blog, int, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, q)
	}
	return []models.Blog{}, 0, nil
}

func (m *MockBlogRepository) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockBlogRepository) Create(ctx context.Context, blog *models.Blog) (*models.Blog, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, blog)
	}
	return nil, models.ErrInternalServer
}

func (m *MockBlogRepository) Update(ctx context.Context, id string, blog *models.Blog) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, blog)
	}
	return nil
}

func (m *MockBlogRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockPostRepository implements PostRepository for testing
type MockPostRepository struct {
	FindFunc    func(ctx context.Context, q models.PageQuery, blogID string) ([]models.Post, int, error)
	GetByIDFunc func(ctx context.Context, id string) (*models.Post, error)
	CreateFunc  func(ctx context.Context, post *models.Post) (*models.Post, error)
	UpdateFunc  func(ctx context.Context, id string, post *models.Post) error
	DeleteFunc  func(ctx context.Context, id string) error
}

func (m *MockPostRepository) Find(ctx context.Context, q models.PageQuery, blogID string) ([]models.Post, int, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, q, blogID)
	}
	return []models.Post{}, 0, nil
}

func (m *MockPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, post)
	}
	return nil, models.ErrInternalServer
}

func (m *MockPostRepository) Update(ctx context.Context, id string, post *models.Post) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, post)
	}
	return nil
}

func (m *MockPostRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockCommentRepository implements CommentRepository for testing
type MockCommentRepository struct {
	FindByPostIDFunc  func(ctx context.Context, q models.PageQuery, postID string) ([]models.Comment, int, error)
	GetByIDFunc       func(ctx context.Context, id string) (*models.Comment, error)
	CreateFunc        func(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	UpdateContentFunc func(ctx context.Context, id, content string) error
	DeleteFunc        func(ctx context.Context, id string) error
}

func (m *MockCommentRepository) FindByPostID(ctx context.Context, q models.PageQuery, postID string) ([]models.Comment, int, error) {
	if m.FindByPostIDFunc != nil {
		return m.FindByPostIDFunc(ctx, q, postID)
	}
	return []models.Comment{}, 0, nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, comment)
	}
	return nil, models.ErrInternalServer
}

func (m *MockCommentRepository) UpdateContent(ctx context.Context, id, content string) error {
	if m.UpdateContentFunc != nil {
		return m.UpdateContentFunc(ctx, id, content)
	}
	return nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}
