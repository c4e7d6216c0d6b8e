package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ovoronin/bloghub/internal/auth"
	"github.com/ovoronin/bloghub/internal/config"
	"github.com/ovoronin/bloghub/internal/database"
	"github.com/ovoronin/bloghub/internal/models"
	pkgauth "github.com/ovoronin/bloghub/pkg/auth"
)

// SessionRepository defines the interface for device session and refresh
// blacklist state
type SessionRepository interface {
	UpsertSession(ctx context.Context, s *models.DeviceSession) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
	ConsumeAndUpsert(ctx context.Context, spent *models.BlacklistedToken, session *models.DeviceSession) error
	ConsumeAndDelete(ctx context.Context, spent *models.BlacklistedToken, deviceID string) error
	FindByUserID(ctx context.Context, userID string) ([]models.DeviceSession, error)
	GetByDeviceID(ctx context.Context, deviceID string) (*models.DeviceSession, error)
	DeleteSession(ctx context.Context, userID, deviceID string) error
	DeleteOtherSessions(ctx context.Context, userID, keepDeviceID string) error
}

// TokenPair is the result of login and refresh; the refresh token travels in
// an httpOnly cookie, never in the body.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"-"`
}

// MeView is the /me response shape.
type MeView struct {
	Email  string `json:"email"`
	Login  string `json:"login"`
	UserID string `json:"userId"`
}

// AuthService owns the authentication and session lifecycle: credential
// checks, token pair issuance and rotation, one-time-use refresh enforcement,
// and the registration/confirmation/recovery state machine.
type AuthService struct {
	userRepo    UserAccountRepository
	sessionRepo SessionRepository
	tm          *auth.TokenManager
	email       EmailService
	emailCfg    config.EmailConfig
	rateCfg     config.RateLimitConfig
	logger      *slog.Logger
	now         func() time.Time
}

func NewAuthService(
	userRepo UserAccountRepository,
	sessionRepo SessionRepository,
	tm *auth.TokenManager,
	email EmailService,
	emailCfg config.EmailConfig,
	rateCfg config.RateLimitConfig,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tm:          tm,
		email:       email,
		emailCfg:    emailCfg,
		rateCfg:     rateCfg,
		logger:      logger,
		now:         time.Now,
	}
}

// Login authenticates credentials, mints a token pair under a fresh deviceId
// and upserts the device session row.
func (s *AuthService) Login(ctx context.Context, loginOrEmail, password, ip, userAgent string) (*TokenPair, error) {
	loginOrEmail = strings.TrimSpace(loginOrEmail)
	if loginOrEmail == "" {
		return nil, models.ErrUnauthorized
	}

	account, err := s.userRepo.GetByLoginOrEmail(ctx, loginOrEmail)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("login failed: invalid credentials")
			return nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to get account for login", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if !account.EmailConfirmation.IsConfirmed {
		s.logger.Info("login blocked: email not confirmed", slog.String("user_id", account.ID))
		return nil, models.ErrUnauthorized
	}

	if err := pkgauth.ComparePassword(account.PasswordHash, password); err != nil {
		s.logger.Info("login failed: invalid credentials", slog.String("user_id", account.ID))
		return nil, models.ErrUnauthorized
	}

	deviceID := auth.NewDeviceID()
	pair, err := s.mintPair(account.ID, deviceID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	err = s.sessionRepo.UpsertSession(ctx, &models.DeviceSession{
		UserID:         account.ID,
		DeviceID:       deviceID,
		IP:             ip,
		UserAgentTitle: userAgent,
		LastActiveDate: now,
		ExpirationDate: now.Add(s.tm.RefreshTokenExpiry()),
	})
	if err != nil {
		s.logger.Error("failed to upsert device session", slog.String("user_id", account.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user logged in", slog.String("user_id", account.ID), slog.String("device_id", deviceID))
	return pair, nil
}

// RefreshTokens rotates a refresh token. The old token must be well signed,
// unexpired, and absent from the blacklist; on success it is blacklisted and
// the new pair keeps the same deviceId.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken, ip, userAgent string) (*TokenPair, error) {
	claims, err := s.verifyRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	pair, err := s.mintPair(claims.UserID, claims.DeviceID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	err = s.sessionRepo.ConsumeAndUpsert(ctx,
		&models.BlacklistedToken{
			Token:     refreshToken,
			UserID:    claims.UserID,
			ExpiresAt: claims.ExpiresAt.Time,
		},
		&models.DeviceSession{
			UserID:         claims.UserID,
			DeviceID:       claims.DeviceID,
			IP:             ip,
			UserAgentTitle: userAgent,
			LastActiveDate: now,
			ExpirationDate: now.Add(s.tm.RefreshTokenExpiry()),
		},
	)
	if err != nil {
		s.logger.Error("failed to rotate refresh token", slog.String("user_id", claims.UserID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("tokens refreshed", slog.String("user_id", claims.UserID), slog.String("device_id", claims.DeviceID))
	return pair, nil
}

// Logout blacklists the refresh token and destroys the device session.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.verifyRefresh(ctx, refreshToken)
	if err != nil {
		return err
	}

	err = s.sessionRepo.ConsumeAndDelete(ctx,
		&models.BlacklistedToken{
			Token:     refreshToken,
			UserID:    claims.UserID,
			ExpiresAt: claims.ExpiresAt.Time,
		},
		claims.DeviceID,
	)
	if err != nil {
		s.logger.Error("failed to logout", slog.String("user_id", claims.UserID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("user logged out", slog.String("user_id", claims.UserID), slog.String("device_id", claims.DeviceID))
	return nil
}

// verifyRefresh runs both mandatory checks: signature/expiry and blacklist.
// A syntactically valid but consumed token is rejected.
func (s *AuthService) verifyRefresh(ctx context.Context, refreshToken string) (*models.TokenClaims, error) {
	if refreshToken == "" {
		return nil, models.ErrUnauthorized
	}

	claims, err := s.tm.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, models.ErrUnauthorized
	}

	blacklisted, err := s.sessionRepo.IsBlacklisted(ctx, refreshToken)
	if err != nil {
		s.logger.Error("blacklist check failed", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	if blacklisted {
		s.logger.Info("rejected blacklisted refresh token", slog.String("user_id", claims.UserID))
		return nil, models.ErrUnauthorized
	}

	return claims, nil
}

func (s *AuthService) mintPair(userID, deviceID string) (*TokenPair, error) {
	accessToken, err := s.tm.GenerateAccessToken(userID, deviceID)
	if err != nil {
		s.logger.Error("failed to generate access token", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	refreshToken, err := s.tm.GenerateRefreshToken(userID, deviceID)
	if err != nil {
		s.logger.Error("failed to generate refresh token", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// CurrentUser resolves the /me response for an authenticated caller.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*MeView, error) {
	account, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthorized
		}
		return nil, models.ErrInternalServer
	}

	return &MeView{Email: account.Email, Login: account.Login, UserID: account.ID}, nil
}

// Register creates an unconfirmed account with a one-time confirmation code
// and dispatches the confirmation email. Email delivery failure is logged,
// not retried: the code can always be resent.
func (s *AuthService) Register(ctx context.Context, login, email, password, ip string) error {
	login = strings.TrimSpace(login)
	email = strings.ToLower(strings.TrimSpace(email))

	if err := pkgauth.ValidatePassword(password); err != nil {
		return models.ErrBadRequest
	}

	if taken, err := s.identityTaken(ctx, login, email); err != nil {
		return err
	} else if taken != "" {
		return &identityTakenError{field: taken}
	}

	passwordHash, err := pkgauth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return models.ErrInternalServer
	}

	now := s.now()
	code := uuid.New().String()

	account, err := s.userRepo.Create(ctx, &models.UserAccount{
		Login:          login,
		Email:          email,
		PasswordHash:   passwordHash,
		RegistrationIP: ip,
		EmailConfirmation: models.EmailConfirmation{
			ConfirmationCode: code,
			ExpirationDate:   now.Add(s.emailCfg.ConfirmCodeExpiry),
			IsConfirmed:      false,
			SentEmailLog:     []time.Time{now},
		},
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			// A concurrent registration won the insert. The constraint name
			// tells which identity collided.
			field := "login"
			if c, ok := database.ConflictConstraint(err); ok && strings.Contains(c, "email") {
				field = "email"
			}
			return &identityTakenError{field: field}
		}
		s.logger.Error("failed to create account", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.email.SendConfirmationEmail(ctx, email, code); err != nil {
		s.logger.Error("confirmation email not delivered",
			slog.String("user_id", account.ID), slog.Any("error", err))
	}

	s.logger.Info("account registered", slog.String("user_id", account.ID))
	return nil
}

// ConfirmByCode transitions Unconfirmed -> Confirmed when the code matches,
// is unexpired, and was never used. The transition happens exactly once.
func (s *AuthService) ConfirmByCode(ctx context.Context, code string) error {
	account, err := s.userRepo.GetByConfirmationCode(ctx, code)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrBadRequest
		}
		return models.ErrInternalServer
	}

	return s.confirm(ctx, account, code)
}

// ConfirmByEmail confirms with an (email, code) pair.
func (s *AuthService) ConfirmByEmail(ctx context.Context, email, code string) error {
	account, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrBadRequest
		}
		return models.ErrInternalServer
	}

	return s.confirm(ctx, account, code)
}

func (s *AuthService) confirm(ctx context.Context, account *models.UserAccount, code string) error {
	if err := account.EmailConfirmation.CanConfirm(code, s.now()); err != nil {
		s.logger.Info("confirmation rejected", slog.String("user_id", account.ID), slog.Any("error", err))
		return err
	}

	if err := s.userRepo.Confirm(ctx, account.ID); err != nil {
		if errors.Is(err, models.ErrAlreadyConfirmed) {
			return models.ErrAlreadyConfirmed
		}
		s.logger.Error("failed to confirm account", slog.String("user_id", account.ID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("email confirmed", slog.String("user_id", account.ID))
	return nil
}

// ResendConfirmation issues a fresh code and expiry and appends to the sent
// email log. More than the configured ceiling of sends per address within the
// send window is rejected.
func (s *AuthService) ResendConfirmation(ctx context.Context, email string) error {
	account, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrBadRequest
		}
		return models.ErrInternalServer
	}

	if account.EmailConfirmation.IsConfirmed {
		return models.ErrAlreadyConfirmed
	}

	now := s.now()
	if account.EmailConfirmation.SentWithin(s.rateCfg.EmailSendWindow, now) >= s.rateCfg.MaxEmailsPerAddress {
		s.logger.Warn("confirmation resend ceiling hit", slog.String("user_id", account.ID))
		return models.ErrRateLimited
	}

	code := uuid.New().String()
	err = s.userRepo.RotateConfirmationCode(ctx, account.ID, code, now.Add(s.emailCfg.ConfirmCodeExpiry), now)
	if err != nil {
		s.logger.Error("failed to rotate confirmation code", slog.String("user_id", account.ID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.email.SendConfirmationEmail(ctx, account.Email, code); err != nil {
		s.logger.Error("confirmation email not delivered",
			slog.String("user_id", account.ID), slog.Any("error", err))
	}

	return nil
}

// PasswordRecovery sets a recovery code and mails it. An unknown email is
// silently accepted so addresses cannot be probed.
func (s *AuthService) PasswordRecovery(ctx context.Context, email string) error {
	account, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("password recovery for unknown email")
			return nil
		}
		return models.ErrInternalServer
	}

	now := s.now()
	code := uuid.New().String()
	err = s.userRepo.SetRecoveryCode(ctx, account.ID, code, now.Add(s.emailCfg.RecoveryCodeExpiry))
	if err != nil {
		s.logger.Error("failed to set recovery code", slog.String("user_id", account.ID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.email.SendRecoveryEmail(ctx, account.Email, code); err != nil {
		s.logger.Error("recovery email not delivered",
			slog.String("user_id", account.ID), slog.Any("error", err))
	}

	return nil
}

// NewPassword installs a new password for a pending, unexpired recovery code.
func (s *AuthService) NewPassword(ctx context.Context, newPassword, recoveryCode string) error {
	account, err := s.userRepo.GetByRecoveryCode(ctx, recoveryCode)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrBadRequest
		}
		return models.ErrInternalServer
	}

	if account.RecoveryExpiresAt != nil && s.now().After(*account.RecoveryExpiresAt) {
		return models.ErrBadRequest
	}

	if err := pkgauth.ValidatePassword(newPassword); err != nil {
		return models.ErrBadRequest
	}

	passwordHash, err := pkgauth.HashPassword(newPassword)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.userRepo.UpdatePassword(ctx, account.ID, passwordHash); err != nil {
		s.logger.Error("failed to update password", slog.String("user_id", account.ID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("password changed via recovery", slog.String("user_id", account.ID))
	return nil
}

// Sessions lists the caller's active device sessions, keyed off a valid
// refresh token.
func (s *AuthService) Sessions(ctx context.Context, refreshToken string) ([]models.DeviceSession, error) {
	claims, err := s.verifyRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	sessions, err := s.sessionRepo.FindByUserID(ctx, claims.UserID)
	if err != nil {
		s.logger.Error("failed to list sessions", slog.String("user_id", claims.UserID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return sessions, nil
}

// TerminateSession deletes one of the caller's sessions by deviceId. A
// session owned by another user is forbidden, not hidden.
func (s *AuthService) TerminateSession(ctx context.Context, refreshToken, deviceID string) error {
	claims, err := s.verifyRefresh(ctx, refreshToken)
	if err != nil {
		return err
	}

	session, err := s.sessionRepo.GetByDeviceID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		return models.ErrInternalServer
	}
	if session.UserID != claims.UserID {
		return models.ErrForbidden
	}

	return s.sessionRepo.DeleteSession(ctx, claims.UserID, deviceID)
}

// TerminateOtherSessions deletes all of the caller's sessions except the
// current device.
func (s *AuthService) TerminateOtherSessions(ctx context.Context, refreshToken string) error {
	claims, err := s.verifyRefresh(ctx, refreshToken)
	if err != nil {
		return err
	}

	return s.sessionRepo.DeleteOtherSessions(ctx, claims.UserID, claims.DeviceID)
}

func (s *AuthService) identityTaken(ctx context.Context, login, email string) (string, error) {
	if _, err := s.userRepo.GetByLogin(ctx, login); err == nil {
		return "login", nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return "", models.ErrInternalServer
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return "email", nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return "", models.ErrInternalServer
	}

	return "", nil
}

// identityTakenError carries the offending field for the 400 body.
type identityTakenError struct {
	field string
}

func (e *identityTakenError) Error() string {
	return e.field + " already exists"
}

func (e *identityTakenError) Field() string {
	return e.field
}

// TakenField extracts the field name when err reports a duplicate identity.
func TakenField(err error) (string, bool) {
	var ite *identityTakenError
	if errors.As(err, &ite) {
		return ite.field, true
	}
	return "", false
}
