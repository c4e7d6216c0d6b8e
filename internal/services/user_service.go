package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ovoronin/bloghub/internal/models"
	pkgauth "github.com/ovoronin/bloghub/pkg/auth"
)

// UserAccountRepository defines the interface for user account storage
type UserAccountRepository interface {
	Find(ctx context.Context, q models.PageQuery, loginTerm, emailTerm string) ([]*models.UserAccount, int, error)
	GetByID(ctx context.Context, id string) (*models.UserAccount, error)
	GetByLogin(ctx context.Context, login string) (*models.UserAccount, error)
	GetByEmail(ctx context.Context, email string) (*models.UserAccount, error)
	GetByLoginOrEmail(ctx context.Context, loginOrEmail string) (*models.UserAccount, error)
	GetByConfirmationCode(ctx context.Context, code string) (*models.UserAccount, error)
	GetByRecoveryCode(ctx context.Context, code string) (*models.UserAccount, error)
	Create(ctx context.Context, account *models.UserAccount) (*models.UserAccount, error)
	Confirm(ctx context.Context, id string) error
	RotateConfirmationCode(ctx context.Context, id, code string, expiresAt, sentAt time.Time) error
	SetRecoveryCode(ctx context.Context, id, code string, expiresAt time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
	DeleteUnconfirmedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// UserView is the public shape of a user account.
type UserView struct {
	ID        string `json:"id"`
	Login     string `json:"login"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

func accountToView(a *models.UserAccount) UserView {
	return UserView{
		ID:        a.ID,
		Login:     a.Login,
		Email:     a.Email,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

// UserService handles the admin user surface
type UserService struct {
	repo   UserAccountRepository
	logger *slog.Logger
}

func NewUserService(repo UserAccountRepository, logger *slog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) FindUsers(ctx context.Context, q models.PageQuery, loginTerm, emailTerm string) (*models.Page[UserView], error) {
	accounts, totalCount, err := s.repo.Find(ctx, q, loginTerm, emailTerm)
	if err != nil {
		s.logger.Error("failed to list users", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	views := make([]UserView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, accountToView(a))
	}

	return models.NewPage(q, totalCount, views), nil
}

// CreateUser creates an account that is confirmed from the start. This is the
// admin path; self-service registration goes through AuthService.
func (s *UserService) CreateUser(ctx context.Context, login, email, password string) (*UserView, error) {
	if err := pkgauth.ValidatePassword(password); err != nil {
		return nil, models.ErrBadRequest
	}

	if err := s.checkNotTaken(ctx, login, email); err != nil {
		return nil, err
	}

	passwordHash, err := pkgauth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	account, err := s.repo.Create(ctx, &models.UserAccount{
		Login:        login,
		Email:        email,
		PasswordHash: passwordHash,
		EmailConfirmation: models.EmailConfirmation{
			IsConfirmed: true,
		},
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user created", slog.String("user_id", account.ID))
	view := accountToView(account)
	return &view, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *UserService) checkNotTaken(ctx context.Context, login, email string) error {
	if _, err := s.repo.GetByLogin(ctx, login); err == nil {
		return models.ErrConflict
	} else if !errors.Is(err, models.ErrNotFound) {
		return models.ErrInternalServer
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return models.ErrConflict
	} else if !errors.Is(err, models.ErrNotFound) {
		return models.ErrInternalServer
	}

	return nil
}
