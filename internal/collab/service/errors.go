package service

import (
	"errors"
	"fmt"
)

var (
	// ErrForbidden means the caller is known but may not do this. It is
	// always wrapped with the reason.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is the parent of every specific not-found error below.
	ErrNotFound = errors.New("not found")

	ErrProjectNotFound  = fmt.Errorf("project %w", ErrNotFound)
	ErrInviteNotFound   = fmt.Errorf("invitation %w", ErrNotFound)
	ErrDocumentNotFound = fmt.Errorf("document %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)

	ErrInviteAlreadyUsed   = errors.New("invitation has already been used")
	ErrInviteExpired       = errors.New("invitation has expired")
	ErrAlreadyMember       = errors.New("already a member of this project")
	ErrDuplicateMembership = errors.New("user is already a member of this project")

	ErrInvalidInput       = errors.New("invalid input")
	ErrLoginTaken         = errors.New("login already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid login or password")
)

func forbidden(reason string) error {
	return fmt.Errorf("%w: %s", ErrForbidden, reason)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
