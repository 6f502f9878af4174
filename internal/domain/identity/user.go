package identity

import (
	"net/mail"
	"strings"
	"time"

	"github.com/fieldline/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInvited  UserStatus = "invited" // Created by a team invite, no password yet
	UserStatusDisabled UserStatus = "disabled"
)

const bcryptCost = 12

// User is a person who can sign in. Users are global; organization access
// goes through OrganizationMember.
type User struct {
	shared.BaseEntity
	Email          string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	FullName       string     `gorm:"type:varchar(200)"`
	Phone          string     `gorm:"type:varchar(50)"`
	PasswordHash   string     `gorm:"type:varchar(255)"`
	AuthProviderID string     `gorm:"type:varchar(255);index"` // Subject id at the identity provider
	Status         UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	LastLoginAt    *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates an active user with a password
func NewUser(email, fullName, password string) (*User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: string(hash),
		Status:       UserStatusActive,
	}, nil
}

// NewInvitedUser creates a placeholder user for a team invite
func NewInvitedUser(email, fullName string) (*User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	return &User{
		BaseEntity: shared.NewBaseEntity(),
		Email:      email,
		FullName:   strings.TrimSpace(fullName),
		Status:     UserStatusInvited,
	}, nil
}

// VerifyPassword reports whether password matches the stored hash
func (u *User) VerifyPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// SetPassword replaces the password hash
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = string(hash)
	if u.Status == UserStatusInvited {
		u.Status = UserStatusActive
	}
	u.Touch()
	return nil
}

// CanSignIn reports whether the user may authenticate
func (u *User) CanSignIn() bool {
	return u.Status == UserStatusActive
}

// RecordLogin stamps the last login time
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", shared.InvalidInput("email is required")
	}
	if len(email) > 255 {
		return "", shared.InvalidInput("email cannot exceed 255 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", shared.InvalidInput("email is not a valid address")
	}
	return email, nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.InvalidInput("password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.InvalidInput("password cannot exceed 72 characters")
	}
	return nil
}
