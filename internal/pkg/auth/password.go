package auth

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the hashing cost used for stored passwords
const BcryptCost = 12

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 8

// Password policy errors
var (
	ErrPasswordTooShort     = errors.New("password must contain at least 8 characters")
	ErrPasswordNumeric      = errors.New("password cannot be entirely numeric")
	ErrPasswordLikeUsername = errors.New("password is too similar to the username")
)

// HashPassword hashes a plain text password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword compares a stored hash with a plain text password
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// ValidatePassword applies the password policy for new accounts
func ValidatePassword(password, username string) error {
	if len([]rune(password)) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	numeric := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			numeric = false
			break
		}
	}
	if numeric {
		return ErrPasswordNumeric
	}

	if username != "" && strings.EqualFold(password, username) {
		return ErrPasswordLikeUsername
	}

	return nil
}
