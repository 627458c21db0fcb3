package domain

import (
	"strings"
	"time"
)

type User struct {
	ID           string
	Login        string
	Email        string // empty when the user never gave one
	PasswordHash string // argon2id PHC string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NormalizeEmail is the canonical form used for storage and comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
