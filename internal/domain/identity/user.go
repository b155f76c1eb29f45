package identity

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Role separates shoppers from store administrators
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// Password cost for bcrypt
const bcryptCost = 12

// Field limits
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
	MaxNameLength     = 100
	MaxEmailLength    = 254
	MaxPhoneLength    = 30
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var emailCaser = cases.Lower(language.Und)

// User is a customer or administrator account
type User struct {
	shared.BaseEntity
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Phone        string
	Active       bool
}

// NewUser creates an active user with a hashed password
func NewUser(name, email, password string, role Role) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("Name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return nil, shared.NewValidationError("Name cannot exceed %d characters", MaxNameLength)
	}
	normalized := NormalizeEmail(email)
	if err := validateEmail(normalized); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewValidationError("Unknown role %q", role)
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Name:         name,
		Email:        normalized,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}, nil
}

// NormalizeEmail trims and lower-cases an address
func NormalizeEmail(email string) string {
	return emailCaser.String(strings.TrimSpace(email))
}

// SetPhone stores an optional phone number
func (u *User) SetPhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if len(phone) > MaxPhoneLength {
		return shared.NewValidationError("Phone cannot exceed %d characters", MaxPhoneLength)
	}
	u.Phone = phone
	u.Touch()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// ChangePassword replaces the password hash
func (u *User) ChangePassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	u.Touch()
	return nil
}

// IsAdmin reports whether the user administers the store
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanBeManagedBy checks that actorID is not acting on its own account.
// Administrators cannot deactivate or delete themselves.
func (u *User) CanBeManagedBy(actorID uuid.UUID) error {
	if u.ID == actorID {
		return shared.ErrForbidden.WithMessage("You cannot change the status of your own account")
	}
	return nil
}

// Activate enables login
func (u *User) Activate() {
	u.Active = true
	u.Touch()
}

// Deactivate disables login
func (u *User) Deactivate() {
	u.Active = false
	u.Touch()
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewValidationError("Email is required")
	}
	if len(email) > MaxEmailLength {
		return shared.NewValidationError("Email cannot exceed %d characters", MaxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return shared.NewValidationError("Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return shared.NewValidationError("Password must be at least %d characters", MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return shared.NewValidationError("Password cannot exceed %d bytes", MaxPasswordLength)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
