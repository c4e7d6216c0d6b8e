package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ovoronin/bloghub/internal/models"
	"github.com/ovoronin/bloghub/internal/services"
)

// WithChiRouteContext adds chi URL parameters to request context for testing.
// Handlers read path parameters through chi.URLParam, which needs a route
// context that the router would normally install.
func WithChiRouteContext(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	LoginFunc                  func(ctx context.Context, loginOrEmail, password, ip, userAgent string) (*services.TokenPair, error)
	RefreshTokensFunc          func(ctx context.Context, refreshToken, ip, userAgent string) (*services.TokenPair, error)
	LogoutFunc                 func(ctx context.Context, refreshToken string) error
	CurrentUserFunc            func(ctx context.Context, userID string) (*services.MeView, error)
	RegisterFunc               func(ctx context.Context, login, email, password, ip string) error
	ConfirmByCodeFunc          func(ctx context.Context, code string) error
	ConfirmByEmailFunc         func(ctx context.Context, email, code string) error
	ResendConfirmationFunc     func(ctx context.Context, email string) error
	PasswordRecoveryFunc       func(ctx context.Context, email string) error
	NewPasswordFunc            func(ctx context.Context, newPassword, recoveryCode string) error
	SessionsFunc               func(ctx context.Context, refreshToken string) ([]models.DeviceSession, error)
	TerminateSessionFunc       func(ctx context.Context, refreshToken, deviceID string) error
	TerminateOtherSessionsFunc func(ctx context.Context, refreshToken string) error
}

func (m *MockAuthService) Login(ctx context.Context, loginOrEmail, password, ip, userAgent string) (*services.TokenPair, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, loginOrEmail, password, ip, userAgent)
	}
	return nil, models.ErrUnauthorized
}

func (m *MockAuthService) RefreshTokens(ctx context.Context, refreshToken, ip, userAgent string) (*services.TokenPair, error) {
	if m.RefreshTokensFunc != nil {
		return m.RefreshTokensFunc(ctx, refreshToken, ip, userAgent)
	}
	return nil, models.ErrUnauthorized
}

func (m *MockAuthService) Logout(ctx context.Context, refreshToken string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, refreshToken)
	}
	return nil
}

func (m *MockAuthService) CurrentUser(ctx context.Context, userID string) (*services.MeView, error) {
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(ctx, userID)
	}
	return nil, models.ErrUnauthorized
}

func (m *MockAuthService) Register(ctx context.Context, login, email, password, ip string) error {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, login, email, password, ip)
	}
	return nil
}

func (m *MockAuthService) ConfirmByCode(ctx context.Context, code string) error {
	if m.ConfirmByCodeFunc != nil {
		return m.ConfirmByCodeFunc(ctx, code)
	}
	return nil
}

func (m *MockAuthService) ConfirmByEmail(ctx context.Context, email, code string) error {
	if m.ConfirmByEmailFunc != nil {
		return m.ConfirmByEmailFunc(ctx, email, code)
	}
	return nil
}

func (m *MockAuthService) ResendConfirmation(ctx context.Context, email string) error {
	if m.ResendConfirmationFunc != nil {
		return m.ResendConfirmationFunc(ctx, email)
	}
	return nil
}

func (m *MockAuthService) PasswordRecovery(ctx context.Context, email string) error {
	if m.PasswordRecoveryFunc != nil {
		return m.PasswordRecoveryFunc(ctx, email)
	}
	return nil
}

func (m *MockAuthService) NewPassword(ctx context.Context, newPassword, recoveryCode string) error {
	if m.NewPasswordFunc != nil {
		return m.NewPasswordFunc(ctx, newPassword, recoveryCode)
	}
	return nil
}

func (m *MockAuthService) Sessions(ctx context.Context, refreshToken string) ([]models.DeviceSession, error) {
	if m.SessionsFunc != nil {
		return m.SessionsFunc(ctx, refreshToken)
	}
	return []models.DeviceSession{}, nil
}

func (m *MockAuthService) TerminateSession(ctx context.Context, refreshToken, deviceID string) error {
	if m.TerminateSessionFunc != nil {
		return m.TerminateSessionFunc(ctx, refreshToken, deviceID)
	}
	return nil
}

func (m *MockAuthService) TerminateOtherSessions(ctx context.Context, refreshToken string) error {
	if m.TerminateOtherSessionsFunc != nil {
		return m.TerminateOtherSessionsFunc(ctx, refreshToken)
	}
	return nil
}

// MockBlogService implements BlogServiceInterface for testing
type MockBlogService struct {
	FindBlogsFunc  func(ctx context.Context, q models.PageQuery) (*models.Page[models.Blog], error)
	GetBlogByIDFunc func(ctx context.Context, id string) (*models.Blog, error)
	CreateBlogFunc func(ctx context.Context, name, websiteURL string) (*models.Blog, error)
	UpdateBlogFunc func(ctx context.Context, id, name, websiteURL string) error
	DeleteBlogFunc func(ctx context.Context, id string) error
}

func (m *MockBlogService) FindBlogs(ctx context.Context, q models.PageQuery) (*models.Page[models.Blog], error) {
	if m.FindBlogsFunc != nil {
		return m.FindBlogsFunc(ctx, q)
	}
	return models.NewPage[models.Blog](q, 0, nil), nil
}

func (m *MockBlogService) GetBlogByID(ctx context.Context, id string) (*models.Blog, error) {
	if m.GetBlogByIDFunc != nil {
		return m.GetBlogByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockBlogService) CreateBlog(ctx context.Context, name, websiteURL string) (*models.Blog, error) {
	if m.CreateBlogFunc != nil {
		return m.CreateBlogFunc(ctx, name, websiteURL)
	}
	return nil, models.ErrInternalServer
}

func (m *MockBlogService) UpdateBlog(ctx context.Context, id, name, websiteURL string) error {
	if m.UpdateBlogFunc != nil {
		return m.UpdateBlogFunc(ctx, id, name, websiteURL)
	}
	return nil
}

func (m *MockBlogService) DeleteBlog(ctx context.Context, id string) error {
	if m.DeleteBlogFunc != nil {
		return m.DeleteBlogFunc(ctx, id)
	}
	return nil
}

// MockPostService implements PostServiceInterface for testing
type MockPostService struct {
	FindPostsFunc         func(ctx context.Context, q models.PageQuery) (*models.Page[models.Post], error)
	FindPostsByBlogIDFunc func(ctx context.Context, q models.PageQuery, blogID string) (*models.Page[models.Post], error)
	GetPostByIDFunc       func(ctx context.Context, id string) (*models.Post, error)
	CreatePostFunc        func(ctx context.Context, title, shortDescription, content, blogID string) (*models.Post, error)
	UpdatePostFunc        func(ctx context.Context, id, title, shortDescription, content, blogID string) error
	DeletePostFunc        func(ctx context.Context, id string) error
}

func (m *MockPostService) FindPosts(ctx context.Context, q models.PageQuery) (*models.Page[models.Post], error) {
	if m.FindPostsFunc != nil {
		return m.FindPostsFunc(ctx, q)
	}
	return models.NewPage[models.Post](q, 0, nil), nil
}

func (m *MockPostService) FindPostsByBlogID(ctx context.Context, q models.PageQuery, blogID string) (*models.Page[models.Post], error) {
	if m.FindPostsByBlogIDFunc != nil {
		return m.FindPostsByBlogIDFunc(ctx, q, blogID)
	}
	return models.NewPage[models.Post](q, 0, nil), nil
}

func (m *MockPostService) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	if m.GetPostByIDFunc != nil {
		return m.GetPostByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockPostService) CreatePost(ctx context.Context, title, shortDescription, content, blogID string) (*models.Post, error) {
	if m.CreatePostFunc != nil {
		return m.CreatePostFunc(ctx, title, shortDescription, content, blogID)
	}
	return nil, models.ErrInternalServer
}

func (m *MockPostService) UpdatePost(ctx context.Context, id, title, shortDescription, content, blogID string) error {
	if m.UpdatePostFunc != nil {
		return m.UpdatePostFunc(ctx, id, title, shortDescription, content, blogID)
	}
	return nil
}

func (m *MockPostService) DeletePost(ctx context.Context, id string) error {
	if m.DeletePostFunc != nil {
		return m.DeletePostFunc(ctx, id)
	}
	return nil
}

// MockCommentService implements CommentServiceInterface for testing
type MockCommentService struct {
	FindCommentsByPostIDFunc func(ctx context.Context, q models.PageQuery, postID string) (*models.Page[models.Comment], error)
	GetCommentByIDFunc       func(ctx context.Context, id string) (*models.Comment, error)
	CreateCommentFunc        func(ctx context.Context, postID, content, userID string) (*models.Comment, error)
	UpdateCommentFunc        func(ctx context.Context, id, content, callerID string) error
	DeleteCommentFunc        func(ctx context.Context, id, callerID string) error
}

func (m *MockCommentService) FindCommentsByPostID(ctx context.Context, q models.PageQuery, postID string) (*models.Page[models.Comment], error) {
	if m.FindCommentsByPostIDFunc != nil {
		return m.FindCommentsByPostIDFunc(ctx, q, postID)
	}
	return models.NewPage[models.Comment](q, 0, nil), nil
}

func (m *MockCommentService) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	if m.GetCommentByIDFunc != nil {
		return m.GetCommentByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockCommentService) CreateComment(ctx context.Context, postID, content, userID string) (*models.Comment, error) {
	if m.CreateCommentFunc != nil {
		return m.CreateCommentFunc(ctx, postID, content, userID)
	}
	return nil, models.ErrInternalServer
}

func (m *MockCommentService) UpdateComment(ctx context.Context, id, content, callerID string) error {
	if m.UpdateCommentFunc != nil {
		return m.UpdateCommentFunc(ctx, id, content, callerID)
	}
	return nil
}

func (m *MockCommentService) DeleteComment(ctx context.Context, id, callerID string) error {
	if m.DeleteCommentFunc != nil {
		return m.DeleteCommentFunc(ctx, id, callerID)
	}
	return nil
}

// MockUserService implements UserServiceInterface for testing
type MockUserService struct {
	FindUsersFunc  func(ctx context.Context, q models.PageQuery, loginTerm, emailTerm string) (*models.Page[services.UserView], error)
	CreateUserFunc func(ctx context.Context, login, email, password string) (*services.UserView, error)
	DeleteUserFunc func(ctx context.Context, id string) error
}

func (m *MockUserService) FindUsers(ctx context.Context, q models.PageQuery, loginTerm, emailTerm string) (*models.Page[services.UserView], error) {
	if m.FindUsersFunc != nil {
		return m.FindUsersFunc(ctx, q, loginTerm, emailTerm)
	}
	return models.NewPage[services.UserView](q, 0, nil), nil
}

func (m *MockUserService) CreateUser(ctx context.Context, login, email, password string) (*services.UserView, error) {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, login, email, password)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserService) DeleteUser(ctx context.Context, id string) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(ctx, id)
	}
	return nil
}
