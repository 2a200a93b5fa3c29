package identity

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

// Login lockout policy
const (
	MaxFailedAttempts = 5
	LockDuration      = 15 * time.Minute
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)

// User is an operator of the back office
type User struct {
	UserID         int64      `json:"UserID" gorm:"primaryKey;autoIncrement"`
	Username       string     `json:"Username" gorm:"size:100;not null;uniqueIndex"`
	PasswordHash   string     `json:"-" gorm:"size:100;not null"`
	DisplayName    string     `json:"DisplayName" gorm:"size:200"`
	Email          string     `json:"Email,omitempty" gorm:"size:120"`
	IsActive       bool       `json:"IsActive" gorm:"not null"`
	FailedAttempts int        `json:"-" gorm:"not null;default:0"`
	LockedUntil    *time.Time `json:"-"`
	LastLoginAt    *time.Time `json:"LastLoginAt,omitempty"`
	shared.Audit   `gorm:"embedded"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates an active user with a hashed password
func NewUser(username, password, displayName string) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	u := &User{
		Username:    strings.ToLower(strings.TrimSpace(username)),
		DisplayName: strings.TrimSpace(displayName),
		IsActive:    true,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword validates and hashes a new password
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = string(hash)
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// IsLocked returns true while a lockout is in effect
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// CanLogin returns true if the user may authenticate
func (u *User) CanLogin(now time.Time) bool {
	return u.IsActive && !u.IsLocked(now)
}

// RecordLoginSuccess clears failure counters
func (u *User) RecordLoginSuccess(now time.Time) {
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.LastLoginAt = &now
}

// RecordLoginFailure counts a failed attempt.
// Returns true if the account is now locked.
func (u *User) RecordLoginFailure(now time.Time) bool {
	u.FailedAttempts++
	if u.FailedAttempts >= MaxFailedAttempts {
		until := now.Add(LockDuration)
		u.LockedUntil = &until
		u.FailedAttempts = 0
		return true
	}
	return false
}

// DisplayNameOrUsername returns display name if set, otherwise username
func (u *User) DisplayNameOrUsername() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(username) < 3 {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be at least 3 characters")
	}
	if len(username) > 100 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 100 characters")
	}
	if !usernamePattern.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain uppercase, lowercase and a digit")
	}
	return nil
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	Save(ctx context.Context, user *User) error
}
