package service

import (
	"errors"
	"sort"
	"strings"
	"unicode/utf8"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("No active account found with the given credentials")
	ErrInvalidToken       = errors.New("token is invalid or expired")
	ErrForbidden          = errors.New("You do not have permission to perform this action.")
	ErrResetTokenNotFound = errors.New("the password reset token is invalid or has expired")
)

const (
	MsgPasswordRequired = "Password field is required."
	MsgPasswordTooShort = "Password length should not be less than 8 characters."
	MsgPasswordTooLong  = "Password is too long."
	MsgPasswordMismatch = "Password fields didn't match."
	MsgOldPasswordWrong = "Old password is not correct"
	MsgNotYourAccount   = "You dont have permission for this user."
	MsgPasswordChanged  = "your password has been changed"

	MinPasswordLength = 8
	// bcrypt only accepts up to 72 bytes of input
	MaxPasswordBytes = 72
)

// passwordLengthProblem returns the message for a password that breaks the
// length rules, or "" when it is acceptable. The minimum is in characters.
func passwordLengthProblem(password string) string {
	switch {
	case utf8.RuneCountInString(password) < MinPasswordLength:
		return MsgPasswordTooShort
	case len(password) > MaxPasswordBytes:
		return MsgPasswordTooLong
	}
	return ""
}

// ValidationError reports rejected input. Fields maps a request field (or
// "detail" for errors not tied to one field) to its message.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
