package user

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	apperrors "github.com/ifc-cambodge/sreyka/internal/platform/errors"
	"github.com/ifc-cambodge/sreyka/internal/platform/id"
)

const (
	// MinPasswordLength is the shortest accepted password, in bytes.
	MinPasswordLength = 6
	// MaxPasswordLength is the bcrypt input limit, in bytes.
	MaxPasswordLength = 72
	// maxEmailLength follows the RFC 5321 path limit.
	maxEmailLength = 254
)

var (
	// ErrEmptyEmail indicates a missing email.
	ErrEmptyEmail = apperrors.New(apperrors.CodeUserEmptyEmail, "email is required")
	// ErrInvalidEmail indicates an email that is not a bare address.
	ErrInvalidEmail = apperrors.New(apperrors.CodeUserInvalidEmail, "email must be a valid address")
	// ErrPasswordTooWeak indicates a password shorter than MinPasswordLength.
	ErrPasswordTooWeak = apperrors.New(apperrors.CodeUserPasswordTooWeak, fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	// ErrPasswordTooLong indicates a password longer than MaxPasswordLength bytes.
	ErrPasswordTooLong = apperrors.New(apperrors.CodeUserPasswordTooLong, fmt.Sprintf("password must be at most %d bytes", MaxPasswordLength))
)

// User represents an authenticated identity record.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RegistrationInput is the untrusted credential pair submitted by a visitor.
type RegistrationInput struct {
	Email    string
	Password string
}

// NormalizeEmail trims and lower-cases an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail accepts only a bare addr-spec: no display name, no brackets.
func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmptyEmail
	}
	if len(email) > maxEmailLength {
		return ErrInvalidEmail
	}
	parsed, err := mail.ParseAddress(email)
	if err != nil || parsed.Name != "" || parsed.Address != email {
		return ErrInvalidEmail
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 || !strings.Contains(email[at+1:], ".") {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword enforces the minimum password policy.
func ValidatePassword(password string) error {
	if len(strings.TrimSpace(password)) < MinPasswordLength {
		return ErrPasswordTooWeak
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}

// NormalizeRegistrationInput normalizes and validates input before any
// side-effecting work. The password is validated but never altered.
func NormalizeRegistrationInput(input RegistrationInput) (RegistrationInput, error) {
	input.Email = NormalizeEmail(input.Email)
	if err := ValidateEmail(input.Email); err != nil {
		return RegistrationInput{}, err
	}
	if err := ValidatePassword(input.Password); err != nil {
		return RegistrationInput{}, err
	}
	return input, nil
}

// CreateUser creates a durable user identity from validated input.
//
// This is the point where untrusted registration data becomes a stable
// identity: the email is normalized and the password replaced by its hash.
func CreateUser(input RegistrationInput, now func() time.Time, idGenerator func() (string, error), hasher Hasher) (User, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	if hasher == nil {
		hasher = DefaultHasher()
	}

	normalized, err := NormalizeRegistrationInput(input)
	if err != nil {
		return User{}, err
	}

	userID, err := idGenerator()
	if err != nil {
		return User{}, fmt.Errorf("generate user id: %w", err)
	}
	hash, err := hasher.Hash(normalized.Password)
	if err != nil {
		return User{}, apperrors.Wrap(apperrors.CodeUserPasswordHash, "hash password", err)
	}

	createdAt := now().UTC()
	return User{
		ID:           userID,
		Email:        normalized.Email,
		PasswordHash: hash,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}, nil
}
