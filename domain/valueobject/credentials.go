package valueobject

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
)

const (
	PasswordMinLength = 8
	PasswordMaxLength = 32
)

var (
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong  = errors.New("password must be at most 32 characters")
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Credentials is a validated registration pair.
type Credentials struct {
	email    string
	password string
}

// NewCredentials validates both fields and returns every violation found,
// keyed by field name.
func NewCredentials(email, password string) (*Credentials, map[string]error) {
	email = NormalizeEmail(email)

	violations := make(map[string]error)
	if err := ValidateEmail(email); err != nil {
		violations["email"] = err
	}
	if err := ValidatePassword(password); err != nil {
		violations["password"] = err
	}
	if len(violations) > 0 {
		return nil, violations
	}

	return &Credentials{
		email:    email,
		password: password,
	}, nil
}

func (c *Credentials) Email() string {
	return c.email
}

func (c *Credentials) Password() string {
	return c.password
}

// NormalizeEmail trims surrounding whitespace and lowercases the address so
// lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) error {
	if email == "" {
		return ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func ValidatePassword(password string) error {
	switch n := len(password); {
	case n < PasswordMinLength:
		return ErrPasswordTooShort
	case n > PasswordMaxLength:
		return ErrPasswordTooLong
	}
	return nil
}
