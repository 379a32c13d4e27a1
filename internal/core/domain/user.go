package domain

import (
	"net/mail"
	"strings"
	"time"
)

// AdminUser owns restaurants and authenticates with email + password.
// Only the bcrypt digest of the password is ever stored.
type AdminUser struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u AdminUser) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return Invalid("name is required")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return Invalid("email is not valid")
	}
	return nil
}
