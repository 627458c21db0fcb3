package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/aussiebroadwan/collab/internal/collab/domain"
	"github.com/aussiebroadwan/collab/internal/collab/store"
	"github.com/aussiebroadwan/collab/pkg/cryptox"
	"github.com/aussiebroadwan/collab/pkg/idx"
	"github.com/aussiebroadwan/collab/pkg/slogx"
)

const minPasswordLen = 8

var loginPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,64}$`)

type UserService struct {
	Store store.Store
	Now   func() time.Time
}

// Register creates an account. email may be empty; when present it is stored
// normalized and must be unique.
func (s *UserService) Register(ctx context.Context, login, password, email string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	login = strings.TrimSpace(login)
	if !loginPattern.MatchString(login) {
		return domain.User{}, invalid("login must be 3-64 letters, digits, '.', '_' or '-'")
	}
	if len(password) < minPasswordLen {
		return domain.User{}, invalid("password must be at least %d characters", minPasswordLen)
	}
	email = domain.NormalizeEmail(email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return domain.User{}, invalid("email is not a valid address")
		}
	}

	// 1. Cheap pre-check so the common clash gets a precise error.
	if _, err := s.Store.Users().GetUserByLogin(ctx, login); err == nil {
		return domain.User{}, ErrLoginTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check login", slog.Any("error", err))
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	now := clock(s.Now)
	u := domain.User{
		ID:           idx.NewAt(now).String(),
		Login:        login,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 2. Insert. A unique violation here is either a login race or the email.
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			if _, lerr := s.Store.Users().GetUserByLogin(ctx, login); lerr == nil {
				return domain.User{}, ErrLoginTaken
			}
			return domain.User{}, ErrEmailTaken
		}
		log.Error("failed to create user", slog.Any("error", err))
		return domain.User{}, err
	}

	log.Info("user registered", slog.String("new_user_id", u.ID))
	return u, nil
}

// Authenticate checks a login/password pair. Unknown logins and bad
// passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, login, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("login with unknown account")
			return domain.User{}, ErrInvalidCredentials
		}
		log.Error("failed to fetch user", slog.Any("error", err))
		return domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Info("login with wrong password", slog.String("user_id", u.ID))
			return domain.User{}, ErrInvalidCredentials
		}
		log.Error("failed to verify password", slog.Any("error", err))
		return domain.User{}, err
	}
	return u, nil
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return u, err
}
