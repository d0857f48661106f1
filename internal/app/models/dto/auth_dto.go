package dto

import (
	"regexp"
	"strings"

	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/pkg/auth"
	"github.com/yigit/clubhub/internal/pkg/validation"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// RegisterForm represents the account creation form
type RegisterForm struct {
	Username  string `form:"username" binding:"required,max=150"`
	Email     string `form:"email" binding:"required,email"`
	Password1 string `form:"password1" binding:"required"`
	Password2 string `form:"password2" binding:"required"`
}

// Normalize trims surrounding whitespace from the text inputs
func (f *RegisterForm) Normalize() {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
}

// Validate checks the form. Passwords are compared before the policy runs.
func (f *RegisterForm) Validate() error {
	f.Normalize()
	fields := validation.Struct(f)
	if fields == nil {
		fields = map[string]string{}
	}

	if _, bad := fields["username"]; !bad && !usernamePattern.MatchString(f.Username) {
		fields["username"] = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	}

	if f.Password1 != "" && f.Password2 != "" {
		if f.Password1 != f.Password2 {
			fields["password2"] = "The two password fields didn't match."
		} else if err := auth.ValidatePassword(f.Password1, f.Username); err != nil {
			fields["password2"] = passwordMessage(err)
		}
	}

	if len(fields) > 0 {
		return apperrors.NewFieldErrors(fields)
	}
	return nil
}

func passwordMessage(err error) string {
	switch err {
	case auth.ErrPasswordTooShort:
		return "This password is too short. It must contain at least 8 characters."
	case auth.ErrPasswordNumeric:
		return "This password is entirely numeric."
	case auth.ErrPasswordLikeUsername:
		return "The password is too similar to the username."
	default:
		return err.Error()
	}
}

// LoginForm represents login credentials
type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
	Next     string `form:"next"`
}

// Validate checks that both credentials were supplied
func (f *LoginForm) Validate() error {
	f.Username = strings.TrimSpace(f.Username)
	if fields := validation.Struct(f); fields != nil {
		return apperrors.NewFieldErrors(fields)
	}
	return nil
}
