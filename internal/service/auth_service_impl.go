package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/estudio/internal/db"
	"github.com/alexanderramin/estudio/internal/domain"
	"github.com/alexanderramin/estudio/internal/repository"
)

const minPasswordLen = 6

type authService struct {
	users  repository.UserRepo
	uow    db.UnitOfWork
	tokens *TokenManager
	log    *slog.Logger
}

func NewAuthService(users repository.UserRepo, uow db.UnitOfWork, tokens *TokenManager, log *slog.Logger) AuthService {
	if log == nil {
		log = slog.Default()
	}
	return &authService{users: users, uow: uow, tokens: tokens, log: log}
}

// Register creates a user account. The first account becomes an admin.
func (s *authService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = domain.NormalizeEmail(email)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email %q", ErrInvalidInput, email)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must have at least %d characters", ErrInvalidInput, minPasswordLen)
	}

	u := &domain.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Role:      domain.RoleUser,
		CreatedAt: time.Now().UTC(),
	}
	if err := u.SetPassword(password); err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txUsers := repository.NewSQLiteUserRepo(tx)
		n, err := txUsers.Count(ctx)
		if err != nil {
			return err
		}
		if n == 0 {
			u.Role = domain.RoleAdmin
		}
		return txUsers.Create(ctx, u)
	})
	if errors.Is(err, repository.ErrConflict) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}
	s.log.Info("user registered", "user", u.ID, "role", u.Role)
	return u, nil
}

// Login checks the password and issues a session token. A legacy plaintext
// password is re-stored as a bcrypt hash on its first successful match.
func (s *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	switch {
	case u.HasLegacyPassword():
		if u.PasswordHash != password {
			return nil, ErrInvalidCredentials
		}
		if err := u.SetPassword(password); err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		if err := s.users.UpdatePassword(ctx, u.ID, u.PasswordHash); err != nil {
			return nil, err
		}
		s.log.Info("legacy password upgraded", "user", u.ID)
	case !u.CheckPassword(password):
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.users.TouchLogin(ctx, u.ID, now); err != nil {
		return nil, err
	}
	u.LastLoginAt = &now

	token, exp, err := s.tokens.Issue(u.ID, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}
	return &Session{Token: token, User: *u, ExpiresAt: exp}, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	return u, err
}
