package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"todo-tracker/internal/auth"
	"todo-tracker/internal/domain"
	"todo-tracker/internal/repository"
)

// Session is the result of a successful register or login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService describes account registration and login.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
}

// TokenIssuer mints identity tokens.
type TokenIssuer interface {
	Issue(userID int64, username string) (string, time.Time, error)
}

type authService struct {
	users  repository.UserRepository
	hasher auth.PasswordHasher
	tokens TokenIssuer
	logger logrus.FieldLogger

	// placeholder is compared against when the email is unknown.
	placeholder string
}

// NewAuthService hashes a placeholder password up front so a login for an
// unknown email performs the same single comparison as a wrong password.
func NewAuthService(users repository.UserRepository, hasher auth.PasswordHasher, tokens TokenIssuer, logger logrus.FieldLogger) (AuthService, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	placeholder, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("hash login placeholder: %w", err)
	}
	return &authService{
		users:       users,
		hasher:      hasher,
		tokens:      tokens,
		logger:      logger,
		placeholder: placeholder,
	}, nil
}

func (s *authService) Register(ctx context.Context, username, email, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" || password == "" {
		return nil, invalid("username, email and password are required")
	}
	if len(password) > auth.MaxPasswordBytes {
		return nil, invalid(fmt.Sprintf("password must be at most %d bytes", auth.MaxPasswordBytes))
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateCredential) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	session, err := s.newSession(user)
	if err != nil {
		return nil, err
	}
	s.logger.WithField("user_id", user.ID).Info("user registered")
	return session, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, invalid("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.hasher.Verify(password, s.placeholder)
		return nil, ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	session, err := s.newSession(user)
	if err != nil {
		return nil, err
	}
	s.logger.WithField("user_id", user.ID).Info("user logged in")
	return session, nil
}

func (s *authService) newSession(user *domain.User) (*Session, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &Session{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      sanitizeUser(user),
	}, nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
