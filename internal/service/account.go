package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/emotune/emotune/internal/audit"
	"github.com/emotune/emotune/internal/domain"
	"github.com/emotune/emotune/internal/frame"
)

type UserRepositoryInterface interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	UpdateProfilePic(ctx context.Context, email, url string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenIssuer interface {
	GenerateToken(userID uuid.UUID, email string) (string, error)
}

type ResetMailer interface {
	SendResetLink(ctx context.Context, to, firstName string) error
}

type PictureStore interface {
	SaveProfilePicture(ctx context.Context, email string, raw []byte) (string, error)
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type LoginResult struct {
	Token string
	User  *domain.User
}

type AccountService struct {
	users       UserRepositoryInterface
	hasher      PasswordHasher
	tokens      TokenIssuer
	mailer      ResetMailer
	pictures    PictureStore
	auditLogger audit.Logger
}

func NewAccountService(
	users UserRepositoryInterface,
	hasher PasswordHasher,
	tokens TokenIssuer,
	pictures PictureStore,
	auditLogger audit.Logger,
) *AccountService {
	if auditLogger == nil {
		auditLogger = &audit.NoOpLogger{}
	}
	return &AccountService{
		users:       users,
		hasher:      hasher,
		tokens:      tokens,
		pictures:    pictures,
		auditLogger: auditLogger,
	}
}

// WithMailer enables SendResetLink
func (s *AccountService) WithMailer(mailer ResetMailer) *AccountService {
	s.mailer = mailer
	return s
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := domain.NormalizeEmail(in.Email)
	if err := domain.ValidateEmail(email); err != nil {
		return nil, domain.ErrValidationFailed.WithError(err)
	}
	if err := domain.ValidatePassword(in.Password); err != nil {
		return nil, domain.ErrValidationFailed.WithError(err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.record(ctx, audit.EventUserRegistered, email, nil)
	return user, nil
}

func (s *AccountService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = domain.NormalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		s.record(ctx, audit.EventUserLoggedIn, email, domain.ErrIncorrectPassword)
		return nil, domain.ErrIncorrectPassword
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.record(ctx, audit.EventUserLoggedIn, email, nil)
	return &LoginResult{Token: token, User: user}, nil
}

// CheckUser returns ErrUserNotFound when no account uses email
func (s *AccountService) CheckUser(ctx context.Context, email string) error {
	_, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	return err
}

// ForgotPassword replaces the password without verifying the old one
func (s *AccountService) ForgotPassword(ctx context.Context, email, newPassword string) error {
	email = domain.NormalizeEmail(email)
	if email == "" || newPassword == "" {
		return domain.ErrResetFieldsRequired
	}

	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrAccountNotFound
		}
		return err
	}

	if err := s.setPassword(ctx, email, newPassword); err != nil {
		return err
	}

	s.record(ctx, audit.EventPasswordChanged, email, nil)
	return nil
}

func (s *AccountService) SendResetLink(ctx context.Context, email string) error {
	if s.mailer == nil {
		return domain.ErrMailerUnavailable
	}
	email = domain.NormalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrEmailNotRegistered
		}
		return err
	}

	if err := s.mailer.SendResetLink(ctx, user.Email, user.FirstName); err != nil {
		s.record(ctx, audit.EventPasswordResetRequested, email, err)
		return domain.ErrMailDelivery.WithError(err)
	}

	s.record(ctx, audit.EventPasswordResetRequested, email, nil)
	return nil
}

func (s *AccountService) Profile(ctx context.Context, email string) (*domain.User, error) {
	return s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
}

func (s *AccountService) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	email = domain.NormalizeEmail(email)
	if err := domain.ValidatePassword(newPassword); err != nil {
		return domain.ErrValidationFailed.WithError(err)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	if err := s.hasher.Compare(user.PasswordHash, oldPassword); err != nil {
		s.record(ctx, audit.EventPasswordChanged, email, domain.ErrOldPasswordIncorrect)
		return domain.ErrOldPasswordIncorrect
	}

	if err := s.setPassword(ctx, email, newPassword); err != nil {
		return err
	}

	s.record(ctx, audit.EventPasswordChanged, email, nil)
	return nil
}

// UploadProfilePicture stores the image and returns its public URL
func (s *AccountService) UploadProfilePicture(ctx context.Context, email string, raw []byte) (string, error) {
	email = domain.NormalizeEmail(email)

	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		return "", err
	}

	url, err := s.pictures.SaveProfilePicture(ctx, email, raw)
	if err != nil {
		if errors.Is(err, frame.ErrUndecodable) {
			return "", domain.ErrInvalidImage.WithError(err)
		}
		return "", fmt.Errorf("save profile picture: %w", err)
	}

	if err := s.users.UpdateProfilePic(ctx, email, url); err != nil {
		return "", err
	}

	s.record(ctx, audit.EventProfilePictureUpdated, email, nil)
	return url, nil
}

func (s *AccountService) setPassword(ctx context.Context, email, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, email, hash)
}

func (s *AccountService) record(ctx context.Context, eventType audit.EventType, subject string, err error) {
	event := audit.Event{
		EventType: eventType,
		Subject:   subject,
		Success:   err == nil,
	}
	if err != nil {
		event.Error = err.Error()
	}
	_ = s.auditLogger.Log(ctx, event)
}
